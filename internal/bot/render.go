package bot

import (
	"fmt"
	"strings"

	"vestige-bot/internal/domain"
	"vestige-bot/internal/stats"

	"github.com/shopspring/decimal"
)

func renderTicker(d domain.DisplayAsset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s · %s (asset %d)\n", d.Ticker, d.Name, d.ID)
	fmt.Fprintf(&b, "Price: %s\n", d.Price)
	fmt.Fprintf(&b, "24h: high %s, low %s, change %s\n", d.Highest24h, d.Lowest24h, d.Change24h)
	fmt.Fprintf(&b, "7d: high %s, low %s, change %s\n", d.Highest7d, d.Lowest7d, d.Change7d)
	fmt.Fprintf(&b, "Volume 24h: %s\n", d.Volume1d)
	fmt.Fprintf(&b, "Market cap: %s", d.MarketCap)
	if d.Graph != "" {
		fmt.Fprintf(&b, "\n7d chart: %s", d.Graph)
	}
	return b.String()
}

func renderPools(pools []domain.Pool, limit int) string {
	if len(pools) == 0 {
		return "No pools found."
	}
	if len(pools) > limit {
		pools = pools[:limit]
	}
	var b strings.Builder
	b.WriteString("Top pools:")
	for i, p := range pools {
		fmt.Fprintf(&b, "\n%d. %s · TVL %s · Vol 24h %s · Fee %s",
			i+1, p.ID,
			stats.FormatAmount(decimal.NewFromFloat(p.TVL), 2),
			stats.FormatAmount(decimal.NewFromFloat(p.Volume24h), 2),
			p.FeeTier,
		)
	}
	return b.String()
}

func renderSwap(route domain.SwapRoute) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Swap %s of asset %d for asset %d\n",
		stats.FormatAmount(decimal.NewFromFloat(route.AmountIn), 6), route.AssetIn, route.AssetOut)
	fmt.Fprintf(&b, "Output: %s\n", stats.FormatAmount(decimal.NewFromFloat(route.OutputAmount), 6))
	fmt.Fprintf(&b, "Price impact: %s%%", decimal.NewFromFloat(route.PriceImpact).StringFixed(2))
	for i, h := range route.Hops {
		fmt.Fprintf(&b, "\n%d. %s pool %s: %d -> %d", i+1, h.Protocol, h.PoolID, h.AssetIn, h.AssetOut)
	}
	return b.String()
}
