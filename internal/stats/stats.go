// Package stats holds the pure numeric functions of the ticker pipeline:
// extrema over candles, percentage change and currency conversion.
package stats

import (
	"errors"
	"fmt"
	"strings"

	"vestige-bot/internal/domain"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned when the rate table has no entry for the
// requested display currency.
var ErrUnknownCurrency = errors.New("unknown currency")

// Unavailable is rendered for any derived value that could not be computed.
const Unavailable = "n/a"

// Extrema returns the highest high and the lowest low across candles.
// candles must not be empty.
func Extrema(candles []domain.Candle) (highest, lowest float64) {
	if len(candles) == 0 {
		panic("stats: Extrema of empty candle sequence")
	}
	highest, lowest = candles[0].High, candles[0].Low
	for _, c := range candles[1:] {
		if c.High > highest {
			highest = c.High
		}
		if c.Low < lowest {
			lowest = c.Low
		}
	}
	return highest, lowest
}

// PercentChange returns (current-reference)/reference*100, or nil when
// reference is zero.
func PercentChange(current, reference float64) *float64 {
	if reference == 0 {
		return nil
	}
	pct := (current - reference) / reference * 100
	return &pct
}

// Suffix returns the glyph appended to amounts in currency.
func Suffix(currency string) string {
	switch strings.ToUpper(currency) {
	case domain.BaseCurrency:
		return " Ⱥ"
	case "USD":
		return " $"
	case "EUR":
		return " €"
	case "GBP":
		return " £"
	default:
		return " ?"
	}
}

// Convert renders asset in currency. It only multiplies and formats; change
// percentages must already be set on asset and are copied through.
func Convert(asset domain.Asset, rates domain.CurrencyRateTable, currency string) (domain.DisplayAsset, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	rate, ok := rates[currency]
	if !ok {
		return domain.DisplayAsset{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	r := decimal.NewFromFloat(rate)
	suffix := Suffix(currency)

	money := func(v float64, places int32) string {
		return FormatAmount(decimal.NewFromFloat(v).Mul(r), places) + suffix
	}
	optMoney := func(v *float64) string {
		if v == nil {
			return Unavailable
		}
		return money(*v, 8)
	}

	return domain.DisplayAsset{
		ID:         asset.ID,
		Ticker:     asset.Ticker,
		Name:       asset.Name,
		Currency:   currency,
		Price:      money(asset.Price, 8),
		Highest24h: optMoney(asset.Highest24h),
		Lowest24h:  optMoney(asset.Lowest24h),
		Highest7d:  optMoney(asset.Highest7d),
		Lowest7d:   optMoney(asset.Lowest7d),
		Change24h:  FormatPercent(asset.Change24h),
		Change7d:   FormatPercent(asset.Change7d),
		Volume1d:   money(asset.Volume1d, 3),
		MarketCap:  money(asset.MarketCap, 3),
		Graph:      asset.Graph,
	}, nil
}

// FormatPercent renders a change with two decimals, or Unavailable for nil.
func FormatPercent(pct *float64) string {
	if pct == nil {
		return Unavailable
	}
	return FormatAmount(decimal.NewFromFloat(*pct), 2) + "%"
}

// FormatAmount renders v with a fixed number of decimals and comma
// thousands separators.
func FormatAmount(v decimal.Decimal, places int32) string {
	s := v.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
