package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"vestige-bot/internal/service"
	"vestige-bot/internal/stats"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetTicker godoc
// @Summary      Look up an asset by ticker
// @Description  Resolves a ticker and returns its price statistics in the requested currency
// @Tags         market
// @Produce      json
// @Param        symbol    path   string  true   "Ticker, at most 8 characters"
// @Param        currency  query  string  false  "Display currency (ALGO, USD, EUR, ...)"
// @Success      200  {object}  domain.DisplayAsset
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/ticker/{symbol} [get]
func (h *Handler) GetTicker(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-ticker")
	defer span.End()

	symbol := c.Param("symbol")
	span.SetAttributes(attribute.String("symbol", symbol))
	if n := utf8.RuneCountInString(symbol); n == 0 || n > 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker must be 1 to 8 characters"})
		return
	}

	report := h.tickers.Run(ctx, symbol)
	if report.State == service.StateFailed {
		c.JSON(failureStatus(report), gin.H{"error": report.UserMessage, "stage": report.FailedAt})
		return
	}

	currency := strings.ToUpper(c.DefaultQuery("currency", report.Currency))
	display, err := stats.Convert(*report.Asset, report.Rates, currency)
	if errors.Is(err, stats.ErrUnknownCurrency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, display)
}

func failureStatus(report *service.TickerReport) int {
	switch {
	case report.FailedAt == service.StateFetchingRates:
		return http.StatusServiceUnavailable
	case report.UserMessage == service.MsgTickerNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// GetPools godoc
// @Summary      List liquidity pools
// @Description  Returns pools from the market API, optionally filtered by asset
// @Tags         market
// @Produce      json
// @Param        asset_id  query  int  false  "Only pools containing this asset"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/pools [get]
func (h *Handler) GetPools(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-pools")
	defer span.End()

	var assetID *int64
	if raw := c.Query("asset_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asset_id must be an integer"})
			return
		}
		assetID = &id
	}

	pools, err := h.markets.Pools(ctx, assetID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

// GetSwap godoc
// @Summary      Quote a swap
// @Description  Returns the best route for swapping amount of asset_in into asset_out
// @Tags         market
// @Produce      json
// @Param        asset_in   query  int     true  "Asset to sell"
// @Param        asset_out  query  int     true  "Asset to buy"
// @Param        amount     query  number  true  "Amount of asset_in"
// @Success      200  {object}  domain.SwapRoute
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/swap [get]
func (h *Handler) GetSwap(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-swap")
	defer span.End()

	in, err1 := strconv.ParseInt(c.Query("asset_in"), 10, 64)
	out, err2 := strconv.ParseInt(c.Query("asset_out"), 10, 64)
	amount, err3 := strconv.ParseFloat(c.Query("amount"), 64)
	if err := errors.Join(err1, err2, err3); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_in, asset_out and amount are required numbers"})
		return
	}

	route, err := h.markets.BestSwapRoute(ctx, in, out, amount)
	switch {
	case errors.Is(err, service.ErrInvalidSwap):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoSwapRoute):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, route)
	}
}
