package model

import "time"

type TrendCategory string

const (
	BearishReversal   TrendCategory = "bearish_reversal"
	BullishReversal   TrendCategory = "bullish_reversal"
	EMA50BreakoutUp   TrendCategory = "ema50_breakout_up"
	EMA50BreakoutDown TrendCategory = "ema50_breakout_down"
	BearishDivergence TrendCategory = "bearish_divergence"
	BullishDivergence TrendCategory = "bullish_divergence"
	GoldenCross       TrendCategory = "golden_cross"
	DeathCross        TrendCategory = "death_cross"
)

// TrendChange is a discrete trend-change event detected at one candle.
type TrendChange struct {
	Time        time.Time     `json:"time"`
	Category    TrendCategory `json:"category"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	RSI         float64       `json:"rsi"`
}

// AnnotatedRow is an indicator row with the trend change (if any) found at its timestamp.
type AnnotatedRow struct {
	IndicatorRow
	TrendChange string `json:"trend_change,omitempty"`
}
