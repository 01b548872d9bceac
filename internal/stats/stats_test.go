package stats

import (
	"math"
	"math/rand"
	"testing"

	"vestige-bot/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveExtrema(candles []domain.Candle) (float64, float64) {
	hi, lo := math.Inf(-1), math.Inf(1)
	for _, c := range candles {
		hi = math.Max(hi, c.High)
		lo = math.Min(lo, c.Low)
	}
	return hi, lo
}

func TestExtremaMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 500; run++ {
		n := 1 + rng.Intn(50)
		candles := make([]domain.Candle, n)
		for i := range candles {
			low := rng.Float64() * 100
			candles[i] = domain.Candle{OpenTime: int64(i), Low: low, High: low + rng.Float64()*10}
		}
		hi, lo := Extrema(candles)
		wantHi, wantLo := naiveExtrema(candles)
		require.Equal(t, wantHi, hi, "run %d", run)
		require.Equal(t, wantLo, lo, "run %d", run)
	}
}

func TestExtremaSingleCandle(t *testing.T) {
	hi, lo := Extrema([]domain.Candle{{High: 3, Low: 1}})
	assert.Equal(t, 3.0, hi)
	assert.Equal(t, 1.0, lo)
}

func TestExtremaPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { Extrema(nil) })
}

func TestPercentChangeZeroReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		assert.Nil(t, PercentChange(rng.NormFloat64()*1000, 0))
	}
}

func TestPercentChangeFormula(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 200; i++ {
		x := rng.NormFloat64() * 100
		y := rng.NormFloat64() * 100
		if y == 0 {
			continue
		}
		got := PercentChange(x, y)
		require.NotNil(t, got)
		assert.InDelta(t, (x-y)/y*100, *got, 1e-9)
	}
}

func TestConvertPriceFormatting(t *testing.T) {
	asset := domain.Asset{Ticker: "ABC", Price: 1.23456789}
	d, err := Convert(asset, domain.CurrencyRateTable{"USD": 2.0}, "USD")
	require.NoError(t, err)
	assert.Equal(t, "2.46913578 $", d.Price)
}

func TestConvertNormalizesCurrencyCode(t *testing.T) {
	asset := domain.Asset{Ticker: "ABC", Price: 1.23456789}
	d, err := Convert(asset, domain.CurrencyRateTable{"USD": 2.0}, " usd ")
	require.NoError(t, err)
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, "2.46913578 $", d.Price)
}

func TestConvertAllFields(t *testing.T) {
	hi, lo := 2.0, 1.0
	change := 12.345
	asset := domain.Asset{
		Ticker:     "ABC",
		Price:      1.5,
		Highest24h: &hi,
		Lowest24h:  &lo,
		Change24h:  &change,
		Volume1d:   1234567.891,
		MarketCap:  1000,
	}
	d, err := Convert(asset, domain.CurrencyRateTable{"ALGO": 1}, "ALGO")
	require.NoError(t, err)

	assert.Equal(t, "1.50000000 Ⱥ", d.Price)
	assert.Equal(t, "2.00000000 Ⱥ", d.Highest24h)
	assert.Equal(t, "1.00000000 Ⱥ", d.Lowest24h)
	assert.Equal(t, "12.35%", d.Change24h)
	assert.Equal(t, "1,234,567.891 Ⱥ", d.Volume1d)
	assert.Equal(t, "1,000.000 Ⱥ", d.MarketCap)
	assert.Equal(t, Unavailable, d.Highest7d)
	assert.Equal(t, Unavailable, d.Lowest7d)
	assert.Equal(t, Unavailable, d.Change7d)
}

func TestConvertDoesNotMutate(t *testing.T) {
	hi := 2.0
	asset := domain.Asset{Price: 1, Highest7d: &hi}
	_, err := Convert(asset, domain.CurrencyRateTable{"EUR": 3}, "EUR")
	require.NoError(t, err)
	_, err = Convert(asset, domain.CurrencyRateTable{"EUR": 3}, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 1.0, asset.Price)
	assert.Equal(t, 2.0, *asset.Highest7d)
}

func TestConvertUnknownCurrency(t *testing.T) {
	_, err := Convert(domain.Asset{}, domain.CurrencyRateTable{"USD": 1}, "JPY")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestSuffix(t *testing.T) {
	cases := map[string]string{
		"ALGO": " Ⱥ",
		"USD":  " $",
		"EUR":  " €",
		"GBP":  " £",
		"BTC":  " ?",
	}
	for code, want := range cases {
		assert.Equal(t, want, Suffix(code), code)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.10", FormatAmount(decimal.NewFromFloat(0.1), 2))
	assert.Equal(t, "-1,234.50", FormatAmount(decimal.NewFromFloat(-1234.5), 2))
	assert.Equal(t, "123,456", FormatAmount(decimal.NewFromInt(123456), 0))
	assert.Equal(t, "-12.00%", FormatPercent(ptr(-12)))
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 8)
	assert.Equal(t, "▁▂▃▄▅▆▇█", line)

	flat := Sparkline([]float64{5, 5, 5}, 10)
	assert.Equal(t, "▅▅▅", flat)

	long := make([]float64, 500)
	for i := range long {
		long[i] = float64(i)
	}
	assert.Len(t, []rune(Sparkline(long, 24)), 24)
	assert.Empty(t, Sparkline(nil, 24))
}

func ptr(v float64) *float64 { return &v }
