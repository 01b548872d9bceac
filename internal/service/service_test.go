package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"vestige-bot/internal/domain"
	"vestige-bot/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

var fixedNow = time.Unix(1_700_000_000, 0)

type fakeSearcher struct {
	assets  []domain.Asset
	err     error
	queries []string
}

func (f *fakeSearcher) SearchAssets(_ context.Context, query string) ([]domain.Asset, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.assets, nil
}

// fakeCandleSource answers by lookback window, derived from the query start.
type fakeCandleSource struct {
	mu      sync.Mutex
	byDays  map[int][]domain.Candle
	errDays map[int]error
	queries []provider.CandleQuery
}

func (f *fakeCandleSource) FetchCandles(_ context.Context, q provider.CandleQuery) ([]domain.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	days := int((fixedNow.Unix() - q.Start) / secondsPerDay)
	if err := f.errDays[days]; err != nil {
		return nil, err
	}
	return f.byDays[days], nil
}

type fakeRates struct {
	rates domain.CurrencyRateTable
	err   error
}

func (f *fakeRates) FetchRates(context.Context) (domain.CurrencyRateTable, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) NotifyAdmin(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

type fakeMarketSource struct {
	pools     []domain.Pool
	routes    []domain.SwapRoute
	err       error
	poolLimit int
	calls     int
}

func (f *fakeMarketSource) FetchPools(_ context.Context, _ *int64, limit int) ([]domain.Pool, error) {
	f.calls++
	f.poolLimit = limit
	return f.pools, f.err
}

func (f *fakeMarketSource) FetchSwapRoutes(context.Context, int64, int64, float64) ([]domain.SwapRoute, error) {
	f.calls++
	return f.routes, f.err
}

func newTestCandleFetcher(src CandleSource) *CandleFetcher {
	f := NewCandleFetcher(testTracer, src)
	f.now = func() time.Time { return fixedNow }
	return f
}

var errBoom = errors.New("boom")
