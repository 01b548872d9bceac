package handler

import (
	"context"

	"vestige-bot/internal/domain"
	"vestige-bot/internal/job"
	"vestige-bot/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type TickerRunner interface {
	Run(ctx context.Context, symbol string) *service.TickerReport
}

type MarketQuerier interface {
	Pools(ctx context.Context, assetID *int64) ([]domain.Pool, error)
	BestSwapRoute(ctx context.Context, assetIn, assetOut int64, amount float64) (*domain.SwapRoute, error)
}

type UpstreamStatus interface {
	Last() job.ProbeResult
}

type Readiness interface {
	Ready() bool
}

type Handler struct {
	tracer    trace.Tracer
	tickers   TickerRunner
	markets   MarketQuerier
	upstream  UpstreamStatus
	readiness Readiness
}

func New(tracer trace.Tracer, tickers TickerRunner, markets MarketQuerier, upstream UpstreamStatus, readiness Readiness) *Handler {
	return &Handler{
		tracer:    tracer,
		tickers:   tickers,
		markets:   markets,
		upstream:  upstream,
		readiness: readiness,
	}
}

// RegisterRoutes mounts the health endpoints and, behind APIKeyAuth and
// RequireReady, the JSON mirrors of the chat commands.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	api := r.Group("/api", APIKeyAuth(apiKey), RequireReady(h.readiness))
	api.GET("/ticker/:symbol", h.GetTicker)
	api.GET("/pools", h.GetPools)
	api.GET("/swap", h.GetSwap)
}
