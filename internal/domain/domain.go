package domain

import "math"

// BaseCurrency is the network's native asset. Every upstream price is
// denominated in it and the rate table always carries it at 1.
const BaseCurrency = "ALGO"

// BaseAssetID is the upstream id of the base currency.
const BaseAssetID int64 = 0

// Unranked sorts assets without an upstream rank behind every ranked one.
const Unranked = math.MaxInt32

// Asset is the canonical identity of a tradable token plus the statistics
// derived for it during a single request.
//
// Derived pointer fields stay nil until the candle fetch that feeds them
// succeeds. A nil field means "unavailable", which is not the same as zero.
type Asset struct {
	ID        int64   `json:"id"`
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Rank      int     `json:"rank"`
	CreatedAt int64   `json:"created_at"`
	Price     float64 `json:"price"`
	Price1d   float64 `json:"price_1d"`
	Price7d   float64 `json:"price_7d"`
	Volume1d  float64 `json:"volume_1d"`
	MarketCap float64 `json:"market_cap"`

	Highest7d  *float64 `json:"highest_7d,omitempty"`
	Lowest7d   *float64 `json:"lowest_7d,omitempty"`
	Highest24h *float64 `json:"highest_24h,omitempty"`
	Lowest24h  *float64 `json:"lowest_24h,omitempty"`
	Change24h  *float64 `json:"change_24h,omitempty"`
	Change7d   *float64 `json:"change_7d,omitempty"`
	Graph      string   `json:"graph,omitempty"`
}

// CurrencyRateTable maps a currency code to the price of the base asset in
// that currency. It is built per request and never cached.
type CurrencyRateTable map[string]float64

// DisplayAsset is an Asset rendered into a single currency. Every field is
// presentation-ready text.
type DisplayAsset struct {
	ID         int64  `json:"id"`
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	Currency   string `json:"currency"`
	Price      string `json:"price"`
	Highest24h string `json:"highest_24h"`
	Lowest24h  string `json:"lowest_24h"`
	Highest7d  string `json:"highest_7d"`
	Lowest7d   string `json:"lowest_7d"`
	Change24h  string `json:"change_24h"`
	Change7d   string `json:"change_7d"`
	Volume1d   string `json:"volume_1d"`
	MarketCap  string `json:"market_cap"`
	Graph      string `json:"graph,omitempty"`
}

// Pool is a liquidity pool as reported upstream.
type Pool struct {
	ID        string  `json:"pool_id"`
	TVL       float64 `json:"tvl"`
	Volume24h float64 `json:"volume_24h"`
	FeeTier   string  `json:"fee_tier"`
}

// SwapHop is one leg of a swap route.
type SwapHop struct {
	Protocol string  `json:"protocol"`
	PoolID   string  `json:"pool_id"`
	AssetIn  int64   `json:"asset_in"`
	AssetOut int64   `json:"asset_out"`
	Amount   float64 `json:"amount"`
}

// SwapRoute is a route quoted by the upstream router. The bot relays routes
// as-is and never computes its own.
type SwapRoute struct {
	AssetIn      int64     `json:"asset_in"`
	AssetOut     int64     `json:"asset_out"`
	AmountIn     float64   `json:"amount_in"`
	OutputAmount float64   `json:"output_amount"`
	PriceImpact  float64   `json:"price_impact"`
	Hops         []SwapHop `json:"hops"`
}
