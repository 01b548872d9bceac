package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vestige-bot/internal/domain"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

type RateSource interface {
	FetchRates(ctx context.Context) (domain.CurrencyRateTable, error)
}

// ProbeResult is the outcome of the most recent upstream check.
type ProbeResult struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

// UpstreamProbe periodically fetches the rate table to check that the
// market API is reachable. Nothing it fetches is kept.
type UpstreamProbe struct {
	tracer   trace.Tracer
	source   RateSource
	interval time.Duration
	up       metric.Int64Gauge

	mu        sync.RWMutex
	last      ProbeResult
	firstOK   sync.Once
	onHealthy func(context.Context)
}

func NewUpstreamProbe(tracer trace.Tracer, meter metric.Meter, source RateSource, intervalSecs int) *UpstreamProbe {
	if intervalSecs <= 0 {
		intervalSecs = 60
	}
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("probe")
	}
	up, err := meter.Int64Gauge("vestige.upstream.up",
		metric.WithDescription("1 when the last market API probe succeeded"))
	if err != nil {
		up, _ = noop.NewMeterProvider().Meter("probe").Int64Gauge("vestige.upstream.up")
	}
	return &UpstreamProbe{
		tracer:   tracer,
		source:   source,
		interval: time.Duration(intervalSecs) * time.Second,
		up:       up,
	}
}

// OnFirstHealthy registers fn to run once, after the first successful probe.
// Call before Start.
func (p *UpstreamProbe) OnFirstHealthy(fn func(context.Context)) {
	p.onHealthy = fn
}

// Start probes immediately and then every interval. Blocks until ctx is
// cancelled.
func (p *UpstreamProbe) Start(ctx context.Context) {
	slog.InfoContext(ctx, "upstream probe starting", "interval", p.interval)
	p.pollLoop(ctx, p.check)
	slog.InfoContext(ctx, "upstream probe stopped")
}

// Last returns the most recent probe result.
func (p *UpstreamProbe) Last() ProbeResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

func (p *UpstreamProbe) pollLoop(ctx context.Context, fn func(context.Context)) {
	fn(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func (p *UpstreamProbe) check(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "upstream-probe.check")
	defer span.End()

	result := ProbeResult{Healthy: true, CheckedAt: time.Now()}
	if _, err := p.source.FetchRates(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		result.Healthy = false
		result.Error = err.Error()
		slog.WarnContext(ctx, "upstream probe failed", "error", err)
	}

	p.mu.Lock()
	p.last = result
	p.mu.Unlock()

	var v int64
	if result.Healthy {
		v = 1
	}
	p.up.Record(ctx, v)

	if result.Healthy && p.onHealthy != nil {
		p.firstOK.Do(func() { p.onHealthy(ctx) })
	}
}
