package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vestige-bot/internal/domain"
	"vestige-bot/internal/stats"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// State is a stage of the ticker workflow.
type State string

const (
	StateFetchingRates      State = "fetching_rates"
	StateResolvingTicker    State = "resolving_ticker"
	StateFetchingCandles7d  State = "fetching_candles_7d"
	StateFetchingCandles24h State = "fetching_candles_24h"
	StateDeriving           State = "deriving"
	StatePresenting         State = "presenting"
	StateFailed             State = "failed"
)

const (
	MsgRatesUnavailable = "Problem pulling base asset's current price."
	MsgTickerNotFound   = "Ticker not found."
	MsgUnexpected       = "Something bad happened, and I need an adult..."
)

const defaultGraphWidth = 24

type RateSource interface {
	FetchRates(ctx context.Context) (domain.CurrencyRateTable, error)
}

// AdminNotifier delivers operator alerts for unexpected failures.
type AdminNotifier interface {
	NotifyAdmin(ctx context.Context, message string) error
}

// TickerReport is the outcome of one ticker request. On success State is
// StatePresenting and Asset carries the derived fields. On failure State is
// StateFailed, FailedAt names the stage and UserMessage is what to show.
type TickerReport struct {
	Symbol      string
	State       State
	FailedAt    State
	UserMessage string
	Asset       *domain.Asset
	Rates       domain.CurrencyRateTable
	Currency    string
	Escalated   bool
}

// Display renders the report's asset in its currency.
func (r *TickerReport) Display() (domain.DisplayAsset, error) {
	if r.Asset == nil {
		return domain.DisplayAsset{}, errors.New("report has no asset")
	}
	return stats.Convert(*r.Asset, r.Rates, r.Currency)
}

func (r *TickerReport) fail(stage State, message string) {
	r.FailedAt = stage
	r.State = StateFailed
	r.UserMessage = message
}

type TickerService struct {
	tracer     trace.Tracer
	rates      RateSource
	resolver   *Resolver
	candles    *CandleFetcher
	admin      AdminNotifier
	currency   string
	graphWidth int
}

func NewTickerService(
	tracer trace.Tracer,
	rates RateSource,
	resolver *Resolver,
	candles *CandleFetcher,
	admin AdminNotifier,
	currency string,
) *TickerService {
	if currency == "" {
		currency = "USD"
	}
	return &TickerService{
		tracer:     tracer,
		rates:      rates,
		resolver:   resolver,
		candles:    candles,
		admin:      admin,
		currency:   currency,
		graphWidth: defaultGraphWidth,
	}
}

// Currency is the display currency reports are produced in.
func (s *TickerService) Currency() string { return s.currency }

type stageError struct {
	stage State
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// Run drives one ticker request through the workflow. It never returns nil
// and never panics; every failure is folded into the report.
func (s *TickerService) Run(ctx context.Context, symbol string) (report *TickerReport) {
	ctx, span := s.tracer.Start(ctx, "ticker-service.run")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	report = &TickerReport{Symbol: symbol, State: StateFetchingRates, Currency: s.currency}
	defer func() {
		if rec := recover(); rec != nil {
			s.escalate(ctx, report, report.State, fmt.Errorf("panic: %v", rec))
		}
		if report.State == StateFailed {
			span.SetStatus(codes.Error, string(report.FailedAt))
		}
	}()

	rates, err := s.rates.FetchRates(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "rate table unavailable", "symbol", symbol, "error", err)
		report.fail(StateFetchingRates, MsgRatesUnavailable)
		return report
	}
	report.Rates = rates

	report.State = StateResolvingTicker
	asset, err := s.resolver.Resolve(ctx, symbol)
	if errors.Is(err, ErrTickerNotFound) {
		slog.InfoContext(ctx, "ticker not found", "symbol", symbol)
		report.fail(StateResolvingTicker, MsgTickerNotFound)
		return report
	}
	if err != nil {
		s.escalate(ctx, report, StateResolvingTicker, err)
		return report
	}
	report.Asset = asset

	report.State = StateFetchingCandles7d
	var week, day []domain.Candle
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.candles.FetchCandles(gctx, *asset, 7)
		if err != nil {
			return &stageError{stage: StateFetchingCandles7d, err: err}
		}
		week = c
		return nil
	})
	g.Go(func() error {
		c, err := s.candles.FetchCandles(gctx, *asset, 1)
		if err != nil {
			return &stageError{stage: StateFetchingCandles24h, err: err}
		}
		day = c
		return nil
	})
	if err := g.Wait(); err != nil {
		stage := StateFetchingCandles7d
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		s.escalate(ctx, report, stage, err)
		return report
	}

	report.State = StateDeriving
	derive(asset, week, day, s.graphWidth)

	report.State = StatePresenting
	return report
}

// derive fills the asset's window statistics. A window without candles
// leaves its fields unset.
func derive(asset *domain.Asset, week, day []domain.Candle, graphWidth int) {
	if len(week) > 0 {
		hi, lo := stats.Extrema(week)
		asset.Highest7d, asset.Lowest7d = &hi, &lo
		asset.Change7d = stats.PercentChange(asset.Price, asset.Price7d)
		asset.Graph = stats.Sparkline(domain.Closes(week), graphWidth)
	}
	if len(day) > 0 {
		hi, lo := stats.Extrema(day)
		asset.Highest24h, asset.Lowest24h = &hi, &lo
		asset.Change24h = stats.PercentChange(asset.Price, asset.Price1d)
	}
}

func (s *TickerService) escalate(ctx context.Context, report *TickerReport, stage State, err error) {
	report.fail(stage, MsgUnexpected)
	report.Escalated = true

	slog.ErrorContext(ctx, "ticker workflow failed", "symbol", report.Symbol, "stage", stage, "error", err)
	if s.admin == nil {
		return
	}
	msg := fmt.Sprintf("Ticker: %s :: Stage: %s :: Reason: %v", report.Symbol, stage, err)
	if nerr := s.admin.NotifyAdmin(ctx, msg); nerr != nil {
		slog.ErrorContext(ctx, "admin notification failed", "error", nerr)
	}
}
