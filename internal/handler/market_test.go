package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"vestige-bot/internal/domain"
	"vestige-bot/internal/service"

	"github.com/gin-gonic/gin"
)

type stubTickers struct{ report *service.TickerReport }

func (s stubTickers) Run(context.Context, string) *service.TickerReport { return s.report }

type stubMarkets struct {
	pools []domain.Pool
	route *domain.SwapRoute
	err   error
}

func (s stubMarkets) Pools(context.Context, *int64) ([]domain.Pool, error) { return s.pools, s.err }

func (s stubMarkets) BestSwapRoute(context.Context, int64, int64, float64) (*domain.SwapRoute, error) {
	return s.route, s.err
}

func newRouter(tickers TickerRunner, markets MarketQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(testTracer, tickers, markets, nil, stubReadiness(true)).RegisterRoutes(r, "")
	return r
}

func presentingReport() *service.TickerReport {
	return &service.TickerReport{
		State:    service.StatePresenting,
		Currency: "USD",
		Rates:    domain.CurrencyRateTable{"ALGO": 1, "USD": 2, "EUR": 0.5},
		Asset:    &domain.Asset{ID: 42, Ticker: "ABC", Price: 1.23456789},
	}
}

func TestGetTicker(t *testing.T) {
	r := newRouter(stubTickers{presentingReport()}, stubMarkets{})

	w := serve(t, r, http.MethodGet, "/api/ticker/abc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got domain.DisplayAsset
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got.Price != "2.46913578 $" || got.Highest7d != "n/a" {
		t.Fatalf("unexpected display: %+v", got)
	}

	w = serve(t, r, http.MethodGet, "/api/ticker/abc?currency=eur", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got.Currency != "EUR" || got.Price != "0.61728395 €" {
		t.Fatalf("unexpected EUR display: %+v", got)
	}
}

func TestGetTickerUnknownCurrency(t *testing.T) {
	r := newRouter(stubTickers{presentingReport()}, stubMarkets{})
	if w := serve(t, r, http.MethodGet, "/api/ticker/abc?currency=XYZ", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetTickerTooLong(t *testing.T) {
	r := newRouter(stubTickers{presentingReport()}, stubMarkets{})
	if w := serve(t, r, http.MethodGet, "/api/ticker/ABCDEFGHI", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetTickerFailures(t *testing.T) {
	cases := []struct {
		report *service.TickerReport
		want   int
	}{
		{&service.TickerReport{State: service.StateFailed, FailedAt: service.StateFetchingRates, UserMessage: service.MsgRatesUnavailable}, http.StatusServiceUnavailable},
		{&service.TickerReport{State: service.StateFailed, FailedAt: service.StateResolvingTicker, UserMessage: service.MsgTickerNotFound}, http.StatusNotFound},
		{&service.TickerReport{State: service.StateFailed, FailedAt: service.StateResolvingTicker, UserMessage: service.MsgUnexpected, Escalated: true}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		r := newRouter(stubTickers{tc.report}, stubMarkets{})
		w := serve(t, r, http.MethodGet, "/api/ticker/abc", nil)
		if w.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.report.UserMessage, tc.want, w.Code)
		}
	}
}

func TestGetPools(t *testing.T) {
	r := newRouter(stubTickers{}, stubMarkets{pools: []domain.Pool{{ID: "p1", FeeTier: "0.3%"}}})

	w := serve(t, r, http.MethodGet, "/api/pools?asset_id=31566704", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Pools []domain.Pool `json:"pools"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.Pools) != 1 || body.Pools[0].ID != "p1" {
		t.Fatalf("unexpected pools: %+v", body.Pools)
	}

	if w := serve(t, r, http.MethodGet, "/api/pools?asset_id=x", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetSwap(t *testing.T) {
	route := &domain.SwapRoute{AssetIn: 0, AssetOut: 1, AmountIn: 10, OutputAmount: 9.5}
	r := newRouter(stubTickers{}, stubMarkets{route: route})

	w := serve(t, r, http.MethodGet, "/api/swap?asset_in=0&asset_out=1&amount=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got domain.SwapRoute
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got.OutputAmount != 9.5 {
		t.Fatalf("unexpected route: %+v", got)
	}

	if w := serve(t, r, http.MethodGet, "/api/swap?asset_in=0&amount=10", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing asset_out, got %d", w.Code)
	}
}

func TestGetSwapErrors(t *testing.T) {
	cases := map[error]int{
		service.ErrNoSwapRoute: http.StatusNotFound,
		service.ErrInvalidSwap: http.StatusBadRequest,
		errors.New("upstream"): http.StatusBadGateway,
	}
	for err, want := range cases {
		r := newRouter(stubTickers{}, stubMarkets{err: err})
		if w := serve(t, r, http.MethodGet, "/api/swap?asset_in=0&asset_out=1&amount=10", nil); w.Code != want {
			t.Fatalf("%v: expected %d, got %d", err, want, w.Code)
		}
	}
}

func TestGetTickerCountsCharactersNotBytes(t *testing.T) {
	r := newRouter(stubTickers{presentingReport()}, stubMarkets{})
	// eight two-byte characters
	if w := serve(t, r, http.MethodGet, "/api/ticker/%C3%84%C3%96%C3%9C%C3%9F%C3%84%C3%96%C3%9C%C3%9F", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for an 8 character ticker, got %d", w.Code)
	}
}

func TestAPIUnavailableUntilReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(testTracer, stubTickers{presentingReport()}, stubMarkets{}, nil, stubReadiness(false)).RegisterRoutes(r, "")

	for _, path := range []string{"/api/ticker/abc", "/api/pools", "/api/swap?asset_in=0&asset_out=1&amount=1"} {
		if w := serve(t, r, http.MethodGet, path, nil); w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503 before ready, got %d", path, w.Code)
		}
	}
	if w := serve(t, r, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("health should stay available, got %d", w.Code)
	}
}
