package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vestige-bot/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	poolFetchLimit = 50
	// PoolsShown caps how many pools a chat reply lists.
	PoolsShown = 10
)

var (
	ErrNoSwapRoute = errors.New("no swap route found")
	ErrInvalidSwap = errors.New("swap needs two different assets and a positive amount")
)

type MarketSource interface {
	FetchPools(ctx context.Context, assetID *int64, limit int) ([]domain.Pool, error)
	FetchSwapRoutes(ctx context.Context, assetIn, assetOut int64, amount float64) ([]domain.SwapRoute, error)
}

// MarketService relays liquidity pool listings and swap quotes.
type MarketService struct {
	tracer trace.Tracer
	source MarketSource
	admin  AdminNotifier
}

func NewMarketService(tracer trace.Tracer, source MarketSource, admin AdminNotifier) *MarketService {
	return &MarketService{tracer: tracer, source: source, admin: admin}
}

// Pools lists pools, optionally only those holding assetID.
func (s *MarketService) Pools(ctx context.Context, assetID *int64) ([]domain.Pool, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.pools")
	defer span.End()
	if assetID != nil {
		span.SetAttributes(attribute.Int64("asset_id", *assetID))
	}

	pools, err := s.source.FetchPools(ctx, assetID, poolFetchLimit)
	if err != nil {
		s.alert(ctx, fmt.Sprintf("Error in pool fetch: %v", err))
		return nil, fmt.Errorf("fetch pools: %w", err)
	}
	return pools, nil
}

// BestSwapRoute returns the upstream's preferred route for swapping amount
// of assetIn into assetOut.
func (s *MarketService) BestSwapRoute(ctx context.Context, assetIn, assetOut int64, amount float64) (*domain.SwapRoute, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.best-swap-route")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("asset_in", assetIn),
		attribute.Int64("asset_out", assetOut),
		attribute.Float64("amount", amount),
	)

	if assetIn == assetOut || amount <= 0 {
		return nil, ErrInvalidSwap
	}

	routes, err := s.source.FetchSwapRoutes(ctx, assetIn, assetOut, amount)
	if err != nil {
		s.alert(ctx, fmt.Sprintf("Error in swap fetch: %v", err))
		return nil, fmt.Errorf("fetch swap routes: %w", err)
	}
	if len(routes) == 0 {
		return nil, ErrNoSwapRoute
	}
	best := routes[0]
	return &best, nil
}

func (s *MarketService) alert(ctx context.Context, msg string) {
	slog.ErrorContext(ctx, msg)
	if s.admin == nil {
		return
	}
	if err := s.admin.NotifyAdmin(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "admin notification failed", "error", err)
	}
}
