package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"vestige-bot/internal/domain"
)

type poolPayload struct {
	PoolID    *string    `json:"pool_id"`
	TVL       flexFloat  `json:"tvl"`
	Volume24h flexFloat  `json:"volume_24h"`
	FeeTier   flexString `json:"fee_tier"`
}

// FetchPools lists liquidity pools, optionally restricted to pools holding
// assetID.
func (c *VestigeClient) FetchPools(ctx context.Context, assetID *int64, limit int) ([]domain.Pool, error) {
	ctx, span := c.tracer.Start(ctx, "vestige.fetch-pools")
	defer span.End()

	const path = "/pools"
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if assetID != nil {
		q.Set("asset_id", strconv.FormatInt(*assetID, 10))
	}
	body, err := c.Fetch(ctx, path, q)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Pools *[]poolPayload `json:"pools"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if payload.Pools == nil {
		return nil, &DecodeError{Path: path, Err: errors.New("missing pools")}
	}

	pools := make([]domain.Pool, 0, len(*payload.Pools))
	for _, p := range *payload.Pools {
		if p.PoolID == nil {
			return nil, &DecodeError{Path: path, Err: errors.New("pool without pool_id")}
		}
		fee := string(p.FeeTier)
		if fee == "" {
			fee = "N/A"
		}
		pools = append(pools, domain.Pool{
			ID:        *p.PoolID,
			TVL:       float64(p.TVL),
			Volume24h: float64(p.Volume24h),
			FeeTier:   fee,
		})
	}
	return pools, nil
}

type swapRoutePayload struct {
	OutputAmount *flexFloat `json:"output_amount"`
	PriceImpact  flexFloat  `json:"price_impact"`
	Hops         []struct {
		Protocol string    `json:"protocol"`
		PoolID   string    `json:"pool_id"`
		AssetIn  int64     `json:"asset_in"`
		AssetOut int64     `json:"asset_out"`
		Amount   flexFloat `json:"amount"`
	} `json:"hops"`
}

// FetchSwapRoutes returns the routes quoted by the upstream router, best
// first.
func (c *VestigeClient) FetchSwapRoutes(ctx context.Context, assetIn, assetOut int64, amount float64) ([]domain.SwapRoute, error) {
	ctx, span := c.tracer.Start(ctx, "vestige.fetch-swap-routes")
	defer span.End()

	const path = "/swap/routes"
	body, err := c.Fetch(ctx, path, url.Values{
		"asset_in":  {strconv.FormatInt(assetIn, 10)},
		"asset_out": {strconv.FormatInt(assetOut, 10)},
		"amount":    {strconv.FormatFloat(amount, 'f', -1, 64)},
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Routes *[]swapRoutePayload `json:"routes"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if payload.Routes == nil {
		return nil, &DecodeError{Path: path, Err: errors.New("missing routes")}
	}

	routes := make([]domain.SwapRoute, 0, len(*payload.Routes))
	for _, r := range *payload.Routes {
		if r.OutputAmount == nil {
			return nil, &DecodeError{Path: path, Err: errors.New("route without output_amount")}
		}
		hops := make([]domain.SwapHop, 0, len(r.Hops))
		for _, h := range r.Hops {
			hops = append(hops, domain.SwapHop{
				Protocol: h.Protocol,
				PoolID:   h.PoolID,
				AssetIn:  h.AssetIn,
				AssetOut: h.AssetOut,
				Amount:   float64(h.Amount),
			})
		}
		routes = append(routes, domain.SwapRoute{
			AssetIn:      assetIn,
			AssetOut:     assetOut,
			AmountIn:     amount,
			OutputAmount: float64(*r.OutputAmount),
			PriceImpact:  float64(r.PriceImpact),
			Hops:         hops,
		})
	}
	return routes, nil
}
