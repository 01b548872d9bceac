package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vestige-bot/internal/domain"
	"vestige-bot/internal/provider"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const secondsPerDay = 24 * 60 * 60

type CandleSource interface {
	FetchCandles(ctx context.Context, q provider.CandleQuery) ([]domain.Candle, error)
}

// CandleFetcher loads an asset's recent price history at a sampling interval
// suited to the asset's age.
type CandleFetcher struct {
	tracer trace.Tracer
	source CandleSource
	now    func() time.Time
}

func NewCandleFetcher(tracer trace.Tracer, source CandleSource) *CandleFetcher {
	return &CandleFetcher{tracer: tracer, source: source, now: time.Now}
}

// IntervalForAge returns the candle interval in seconds for an asset that
// has existed for ageSecs. Young assets get fine-grained candles so a short
// history still draws a useful chart.
func IntervalForAge(ageSecs int64) int {
	switch {
	case ageSecs <= 1800:
		return 30
	case ageSecs <= 3600:
		return 60
	case ageSecs <= secondsPerDay:
		return 300
	default:
		return 7200
	}
}

// FetchCandles returns candles covering the last lookbackDays. A non-2xx
// upstream response or an empty window yields (nil, nil): there is simply no
// candle data. Transport failures and malformed responses are returned.
func (f *CandleFetcher) FetchCandles(ctx context.Context, asset domain.Asset, lookbackDays int) ([]domain.Candle, error) {
	ctx, span := f.tracer.Start(ctx, "candle-fetcher.fetch-candles")
	defer span.End()

	now := f.now().Unix()
	q := provider.CandleQuery{
		AssetID:  asset.ID,
		Interval: IntervalForAge(now - asset.CreatedAt),
		Start:    now - int64(lookbackDays)*secondsPerDay,
	}
	span.SetAttributes(
		attribute.Int64("asset_id", asset.ID),
		attribute.Int("interval", q.Interval),
		attribute.Int("lookback_days", lookbackDays),
	)

	candles, err := f.source.FetchCandles(ctx, q)
	var failure *provider.Failure
	if errors.As(err, &failure) && failure.Reason == provider.ReasonUpstream {
		slog.WarnContext(ctx, "no candle data", "asset_id", asset.ID, "lookback_days", lookbackDays, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("candles for asset %d: %w", asset.ID, err)
	}
	if len(candles) == 0 {
		slog.DebugContext(ctx, "empty candle window", "asset_id", asset.ID, "lookback_days", lookbackDays)
		return nil, nil
	}
	return candles, nil
}
