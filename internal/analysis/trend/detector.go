// Package trend scans an indicator window for point-in-time trend changes:
// reversals, EMA50 breakouts, RSI divergences and EMA50/EMA200 crosses.
package trend

import (
	"github.com/rs/zerolog"

	"github.com/Alias1177/WyckoffTape/internal/analysis"
	"github.com/Alias1177/WyckoffTape/internal/model"
)

// neutralRSI stands in for an RSI reading that is still warming up.
const neutralRSI = 50.0

// point is one row with warm-up fallbacks resolved.
type point struct {
	close  float64
	rsi    float64
	ema50  float64
	ema200 float64
}

func resolve(r model.IndicatorRow) point {
	return point{
		close:  r.Close,
		rsi:    r.RSI14.Or(neutralRSI),
		ema50:  r.EMA50.Or(r.Close),
		ema200: r.EMA200.Or(r.Close),
	}
}

// triple holds the rows at i-2, i-1 and i.
type triple struct {
	prev2, prev, cur point
}

type rule struct {
	category    model.TrendCategory
	description string
	match       func(t triple, th analysis.Thresholds) bool
}

// rules is evaluated top to bottom; the first match wins.
var rules = []rule{
	{
		category:    model.BearishReversal,
		description: "possible top",
		match: func(t triple, th analysis.Thresholds) bool {
			return t.prev2.close < t.prev.close && t.prev.close > t.cur.close &&
				t.cur.close < t.prev.close*(1-th.ReversalPct)
		},
	},
	{
		category:    model.BullishReversal,
		description: "possible bottom",
		match: func(t triple, th analysis.Thresholds) bool {
			return t.prev2.close > t.prev.close && t.prev.close < t.cur.close &&
				t.cur.close > t.prev.close*(1+th.ReversalPct)
		},
	},
	{
		category:    model.EMA50BreakoutUp,
		description: "price breaks above EMA50",
		match: func(t triple, _ analysis.Thresholds) bool {
			return t.prev.close < t.cur.ema50 && t.cur.ema50 < t.cur.close
		},
	},
	{
		category:    model.EMA50BreakoutDown,
		description: "price breaks below EMA50",
		match: func(t triple, _ analysis.Thresholds) bool {
			return t.prev.close > t.cur.ema50 && t.cur.ema50 > t.cur.close
		},
	},
	{
		category:    model.BearishDivergence,
		description: "price rises while RSI falls from overbought",
		match: func(t triple, th analysis.Thresholds) bool {
			return t.cur.close > t.prev.close && t.cur.rsi < t.prev.rsi && t.prev.rsi > th.DivergenceHigh
		},
	},
	{
		category:    model.BullishDivergence,
		description: "price falls while RSI rises from oversold",
		match: func(t triple, th analysis.Thresholds) bool {
			return t.cur.close < t.prev.close && t.cur.rsi > t.prev.rsi && t.prev.rsi < th.DivergenceLow
		},
	},
	{
		category:    model.GoldenCross,
		description: "EMA50 crosses above EMA200",
		match: func(t triple, _ analysis.Thresholds) bool {
			return t.cur.ema50 > t.cur.ema200 && t.prev.ema50 <= t.prev.ema200
		},
	},
	{
		category:    model.DeathCross,
		description: "EMA50 crosses below EMA200",
		match: func(t triple, _ analysis.Thresholds) bool {
			return t.cur.ema50 < t.cur.ema200 && t.prev.ema50 >= t.prev.ema200
		},
	},
}

// Detector is safe for concurrent use.
type Detector struct {
	th     analysis.Thresholds
	logger zerolog.Logger
}

func NewDetector(th analysis.Thresholds, logger zerolog.Logger) *Detector {
	return &Detector{
		th:     th,
		logger: logger.With().Str("component", "trend_detector").Logger(),
	}
}

// Detect scans window with the given thresholds and no logging.
func Detect(window []model.IndicatorRow, th analysis.Thresholds) []model.TrendChange {
	return NewDetector(th, zerolog.Nop()).Detect(window)
}

// Detect returns at most one event per row, in chronological order.
// Windows shorter than three rows yield no events.
func (d *Detector) Detect(window []model.IndicatorRow) []model.TrendChange {
	changes := make([]model.TrendChange, 0)
	if len(window) < 3 {
		return changes
	}

	for i := 2; i < len(window); i++ {
		t := triple{
			prev2: resolve(window[i-2]),
			prev:  resolve(window[i-1]),
			cur:   resolve(window[i]),
		}
		for _, r := range rules {
			if !r.match(t, d.th) {
				continue
			}
			changes = append(changes, model.TrendChange{
				Time:        window[i].Time,
				Category:    r.category,
				Description: r.description,
				Price:       t.cur.close,
				RSI:         t.cur.rsi,
			})
			break
		}
	}

	d.logger.Debug().
		Int("rows", len(window)).
		Int("events", len(changes)).
		Msg("Trend changes scanned")

	return changes
}
