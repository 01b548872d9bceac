package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"vestige-bot/internal/domain"
)

// FetchRates returns the base asset's price in every quoted currency.
// Response shape: {"USD": 0.18, "EUR": 0.17, ...}
func (c *VestigeClient) FetchRates(ctx context.Context) (domain.CurrencyRateTable, error) {
	ctx, span := c.tracer.Start(ctx, "vestige.fetch-rates")
	defer span.End()

	const path = "/assets/price"
	body, err := c.Fetch(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if len(raw) == 0 {
		return nil, &DecodeError{Path: path, Err: errors.New("empty rate table")}
	}

	rates := make(domain.CurrencyRateTable, len(raw)+1)
	for code, v := range raw {
		rates[code] = v
	}
	rates[domain.BaseCurrency] = 1
	return rates, nil
}

type assetPayload struct {
	ID        *int64    `json:"id"`
	Ticker    *string   `json:"ticker"`
	Name      string    `json:"name"`
	Rank      *int      `json:"rank"`
	CreatedAt flexFloat `json:"created_at"`
	Price     flexFloat `json:"price"`
	Price1d   flexFloat `json:"price1d"`
	Price7d   flexFloat `json:"price7d"`
	Volume1d  flexFloat `json:"volume1d"`
	MarketCap flexFloat `json:"market_cap"`
}

func (p assetPayload) toDomain() (domain.Asset, error) {
	if p.ID == nil {
		return domain.Asset{}, errors.New("asset without id")
	}
	if p.Ticker == nil {
		return domain.Asset{}, fmt.Errorf("asset %d without ticker", *p.ID)
	}
	rank := domain.Unranked
	if p.Rank != nil {
		rank = *p.Rank
	}
	return domain.Asset{
		ID:        *p.ID,
		Ticker:    *p.Ticker,
		Name:      p.Name,
		Rank:      rank,
		CreatedAt: int64(p.CreatedAt),
		Price:     float64(p.Price),
		Price1d:   float64(p.Price1d),
		Price7d:   float64(p.Price7d),
		Volume1d:  float64(p.Volume1d),
		MarketCap: float64(p.MarketCap),
	}, nil
}

// SearchAssets runs the upstream ticker search. Matching is left to the
// caller; every candidate the API returns is decoded.
func (c *VestigeClient) SearchAssets(ctx context.Context, query string) ([]domain.Asset, error) {
	ctx, span := c.tracer.Start(ctx, "vestige.search-assets")
	defer span.End()

	const path = "/assets/search"
	body, err := c.Fetch(ctx, path, url.Values{"query": {query}})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results *[]assetPayload `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if payload.Results == nil {
		return nil, &DecodeError{Path: path, Err: errors.New("missing results")}
	}

	assets := make([]domain.Asset, 0, len(*payload.Results))
	for _, p := range *payload.Results {
		a, err := p.toDomain()
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// CandleQuery selects a window of candles for one asset.
type CandleQuery struct {
	AssetID  int64
	Interval int
	Start    int64
}

type candlePayload struct {
	Timestamp *int64     `json:"timestamp"`
	Open      flexFloat  `json:"open"`
	High      *flexFloat `json:"high"`
	Low       *flexFloat `json:"low"`
	Close     flexFloat  `json:"close"`
	Volume    flexFloat  `json:"volume"`
}

// FetchCandles returns candles in chronological order, denominated in the
// base asset.
func (c *VestigeClient) FetchCandles(ctx context.Context, q CandleQuery) ([]domain.Candle, error) {
	ctx, span := c.tracer.Start(ctx, "vestige.fetch-candles")
	defer span.End()

	path := fmt.Sprintf("/assets/%d/candles", q.AssetID)
	body, err := c.Fetch(ctx, path, url.Values{
		"interval":                     {strconv.Itoa(q.Interval)},
		"start":                        {strconv.FormatInt(q.Start, 10)},
		"denominating_asset_id":        {strconv.FormatInt(domain.BaseAssetID, 10)},
		"volume_in_denominating_asset": {"false"},
	})
	if err != nil {
		return nil, err
	}

	var raw []candlePayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	candles := make([]domain.Candle, 0, len(raw))
	for i, p := range raw {
		if p.Timestamp == nil || p.High == nil || p.Low == nil {
			return nil, &DecodeError{Path: path, Err: fmt.Errorf("candle %d missing timestamp/high/low", i)}
		}
		candles = append(candles, domain.Candle{
			OpenTime: *p.Timestamp,
			Open:     float64(p.Open),
			High:     float64(*p.High),
			Low:      float64(*p.Low),
			Close:    float64(p.Close),
			Volume:   float64(p.Volume),
		})
	}
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].OpenTime < candles[j].OpenTime })
	return candles, nil
}
