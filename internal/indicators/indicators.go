// Package indicators derives the indicator table (EMA, RSI, ATR, SMA, rolling
// volatility) from raw candles. Every series has the same length as its input;
// rows inside a warm-up period hold model.None() instead of a number.
package indicators

import (
	"math"

	"github.com/Alias1177/WyckoffTape/internal/analysis"
	"github.com/Alias1177/WyckoffTape/internal/model"
)

// Derive builds one indicator row per candle, in input order.
// Empty input yields an empty (non-nil) table.
func Derive(candles []model.Candle, p analysis.Periods) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, len(candles))
	if len(candles) == 0 {
		return rows
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	emaShort := EMA(closes, p.EMAShort)
	emaLong := EMA(closes, p.EMALong)
	rsi := RSI(closes, p.RSI)
	atr := ATR(candles, p.ATR)
	sma := SMA(closes, p.SMA)
	vol := RollingStd(closes, p.Volatility)

	for i, c := range candles {
		rows[i] = model.IndicatorRow{
			Candle:     c,
			EMA50:      emaShort[i],
			EMA200:     emaLong[i],
			RSI14:      rsi[i],
			ATR14:      atr[i],
			SMA20:      sma[i],
			Volatility: vol[i],
		}
	}
	return rows
}

// RSI computes the relative strength index with simple rolling means of gains
// and losses (not Wilder's smoothing). The first `period` rows are unavailable.
// When the rolling loss is zero the RSI is 100.
func RSI(closes []float64, period int) []model.Value {
	out := make([]model.Value, len(closes))
	if period < 1 {
		return out
	}

	for i := period; i < len(closes); i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}

		if losses == 0 {
			out[i] = model.Some(100.0)
			continue
		}

		// Averages share the same divisor, so RS is the ratio of the sums.
		rs := gains / losses
		out[i] = model.Some(100.0 - (100.0 / (1.0 + rs)))
	}
	return out
}

// TrueRange returns the per-candle true range. The first candle has no
// previous close and therefore no true range.
func TrueRange(candles []model.Candle) []model.Value {
	out := make([]model.Value, len(candles))
	for i := 1; i < len(candles); i++ {
		// True Range is the greatest of:
		// 1. Current High - Current Low
		// 2. Abs(Current High - Previous Close)
		// 3. Abs(Current Low - Previous Close)
		highLow := candles[i].High - candles[i].Low
		highPrevClose := math.Abs(candles[i].High - candles[i-1].Close)
		lowPrevClose := math.Abs(candles[i].Low - candles[i-1].Close)

		out[i] = model.Some(math.Max(highLow, math.Max(highPrevClose, lowPrevClose)))
	}
	return out
}

// ATR is the trailing simple mean of `period` true ranges.
func ATR(candles []model.Candle, period int) []model.Value {
	out := make([]model.Value, len(candles))
	if period < 1 {
		return out
	}

	tr := TrueRange(candles)
	for i := period; i < len(candles); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j].Float
		}
		out[i] = model.Some(sum / float64(period))
	}
	return out
}

// EMA computes the exponential moving average with alpha = 2/(span+1), seeded
// by the first value and using adjusted weights:
//
//	EMA_t = sum((1-a)^k * x_{t-k}) / sum((1-a)^k)
//
// It is defined from the first row on.
func EMA(values []float64, span int) []model.Value {
	out := make([]model.Value, len(values))
	if span < 1 {
		return out
	}

	decay := 1.0 - 2.0/float64(span+1)
	var num, den float64
	for i, v := range values {
		num = v + decay*num
		den = 1.0 + decay*den
		out[i] = model.Some(num / den)
	}
	return out
}

// SMA is the trailing simple mean over `period` values.
func SMA(values []float64, period int) []model.Value {
	out := make([]model.Value, len(values))
	if period < 1 {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = model.Some(sum / float64(period))
		}
	}
	return out
}

// RollingStd is the trailing sample (n-1) standard deviation over `period` values.
// A period below 2 has no sample deviation and yields no values.
func RollingStd(values []float64, period int) []model.Value {
	out := make([]model.Value, len(values))
	if period < 2 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		if sd, ok := StdDev(values[i-period+1 : i+1]); ok {
			out[i] = model.Some(sd)
		}
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation. It reports false for fewer
// than two values, where the sample deviation is undefined.
func StdDev(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}

	mean := Mean(values)
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)-1)), true
}

// Slope fits y = a + b*x by ordinary least squares with x = 0..n-1 and returns b.
// Fewer than two points have no slope and yield 0.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if len(values) < 2 {
		return 0
	}

	xMean := (n - 1) / 2
	yMean := Mean(values)
	var cov, varX float64
	for i, y := range values {
		dx := float64(i) - xMean
		cov += dx * (y - yMean)
		varX += dx * dx
	}
	return cov / varX
}
