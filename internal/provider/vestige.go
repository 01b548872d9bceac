package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const vestigeBaseURL = "https://api.vestigelabs.org"

// Options configures a VestigeClient. Zero values fall back to defaults.
type Options struct {
	BaseURL     string
	APIKey      string
	NetworkID   int
	Timeout     time.Duration
	RPS         float64
	Burst       int
	MaxAttempts int
}

// VestigeClient talks to the Vestige Labs market API. Every request carries
// the fixed header set and the configured network_id.
type VestigeClient struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	networkID    int
	tracer       trace.Tracer
	limiter      *rate.Limiter
	maxAttempts  int
	retryInitial time.Duration
	requests     metric.Int64Counter
}

// NewVestigeClient creates a client. A nil meter disables request metrics.
func NewVestigeClient(tracer trace.Tracer, meter metric.Meter, opts Options) *VestigeClient {
	if opts.BaseURL == "" {
		opts.BaseURL = vestigeBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RPS <= 0 {
		opts.RPS = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("vestige")
	}
	requests, err := meter.Int64Counter("vestige.upstream.requests",
		metric.WithDescription("Requests sent to the market API by path and outcome"))
	if err != nil {
		requests, _ = noop.NewMeterProvider().Meter("vestige").Int64Counter("vestige.upstream.requests")
	}

	return &VestigeClient{
		client:       &http.Client{Timeout: opts.Timeout},
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		apiKey:       opts.APIKey,
		networkID:    opts.NetworkID,
		tracer:       tracer,
		limiter:      rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		maxAttempts:  opts.MaxAttempts,
		retryInitial: 500 * time.Millisecond,
		requests:     requests,
	}
}

// Fetch performs a GET against path and returns the raw 2xx body. Any other
// outcome is a *Failure. Retries, when enabled, happen here and nowhere else.
func (c *VestigeClient) Fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "vestige.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	if c.maxAttempts <= 1 {
		return c.fetchOnce(ctx, path, query)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		body, err := c.fetchOnce(ctx, path, query)
		var f *Failure
		if errors.As(err, &f) && !f.Retryable() {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(c.maxAttempts)))
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			return nil, f
		}
		return nil, &Failure{Reason: ReasonTransport, Path: path, Detail: err.Error()}
	}
	return body, nil
}

func (c *VestigeClient) fetchOnce(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.record(ctx, path, ReasonTransport)
		return nil, &Failure{Reason: ReasonTransport, Path: path, Detail: "rate limit wait: " + err.Error()}
	}

	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("network_id", strconv.Itoa(c.networkID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &Failure{Reason: ReasonTransport, Path: path, Detail: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.record(ctx, path, ReasonTransport)
		return nil, &Failure{Reason: ReasonTransport, Path: path, Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(ctx, path, ReasonTransport)
		return nil, &Failure{Reason: ReasonTransport, Path: path, Detail: "read body: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(ctx, path, ReasonUpstream)
		return nil, &Failure{Reason: ReasonUpstream, Path: path, Status: resp.StatusCode, Body: string(body)}
	}

	c.record(ctx, path, "ok")
	return body, nil
}

func (c *VestigeClient) record(ctx context.Context, path, outcome string) {
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("path", metricPath(path)),
		attribute.String("outcome", outcome),
	))
}

// metricPath collapses asset ids so the path label stays low-cardinality.
func metricPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func (c *VestigeClient) String() string {
	return fmt.Sprintf("vestige(%s, network=%d)", c.baseURL, c.networkID)
}
