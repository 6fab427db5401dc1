package model

import (
	"fmt"
	"strings"
)

// TapeLen is the number of tokens in a semantic tape.
const TapeLen = 10

type MacroTrend string

const (
	MacroBullish MacroTrend = "trend_macro_bullish"
	MacroBearish MacroTrend = "trend_macro_bearish"
	MacroLateral MacroTrend = "trend_macro_lateral"
)

type StructureKind string

const (
	StructureRange    StructureKind = "range"
	StructureTrending StructureKind = "trending"
)

// Structure describes whether the window is a bounded range or a trend.
// Low and High are only meaningful for a range.
type Structure struct {
	Kind StructureKind `json:"kind"`
	Low  float64       `json:"low"`
	High float64       `json:"high"`
}

func (s Structure) Token() string {
	if s.Kind == StructureRange {
		return fmt.Sprintf("structure_range_from_%.0f_to_%.0f", s.Low, s.High)
	}
	return "structure_trending"
}

type RangePosition string

const (
	PositionUpper  RangePosition = "price_in_upper_third_of_range"
	PositionMiddle RangePosition = "price_in_middle_third_of_range"
	PositionLower  RangePosition = "price_in_lower_third_of_range"
)

type VolatilityRegime string

const (
	VolatilityExpanding   VolatilityRegime = "volatility_expanding"
	VolatilityContracting VolatilityRegime = "volatility_contracting"
	VolatilityNormal      VolatilityRegime = "volatility_normal"
)

type VolumeProfile string

const (
	VolumeDescending VolumeProfile = "volume_profile_descending_drying_up"
	VolumeAscending  VolumeProfile = "volume_profile_ascending"
	VolumeFlat       VolumeProfile = "volume_profile_flat"
)

type RSIState string

const (
	RSIOverbought RSIState = "rsi_overbought"
	RSIOversold   RSIState = "rsi_oversold"
	RSINeutral    RSIState = "rsi_neutral_zone"
)

const (
	TokenVeryLowVolume = "current_candle_very_low_volume"
	TokenBullishClose  = "current_candle_bullish_close"
	TokenBearishClose  = "current_candle_bearish_close"
)

// LastCandle describes the most recent candle of the window.
type LastCandle struct {
	VeryLowVolume bool `json:"very_low_volume"`
	BullishClose  bool `json:"bullish_close"`
}

func (c LastCandle) Token() string {
	closeTok := TokenBearishClose
	if c.BullishClose {
		closeTok = TokenBullishClose
	}
	if c.VeryLowVolume {
		return TokenVeryLowVolume + " " + closeTok
	}
	return closeTok
}

type SpringKind string

const (
	SpringNone         SpringKind = "none"
	SpringDetected     SpringKind = "spring_detected"
	SpringConfirmation SpringKind = "spring_confirmation"
)

// WyckoffEvent is the structural event found in the last candles.
// Offset counts back from the end of the window: -1 is the last candle.
type WyckoffEvent struct {
	Kind    SpringKind `json:"kind"`
	Offset  int        `json:"offset,omitempty"`
	Support float64    `json:"support,omitempty"`
}

func (e WyckoffEvent) Token() string {
	switch e.Kind {
	case SpringDetected:
		return fmt.Sprintf("event_spring_detected_at_candle_%d", e.Offset)
	case SpringConfirmation:
		return fmt.Sprintf("event_spring_confirmation_at_candle_%d", e.Offset)
	default:
		return "event_none_detected"
	}
}

// Translation is the structured semantic reading of an analysis window.
type Translation struct {
	Asset      string           `json:"asset"`
	Interval   string           `json:"interval"`
	MacroTrend MacroTrend       `json:"macro_trend"`
	Structure  Structure        `json:"structure"`
	Position   RangePosition    `json:"position"`
	Volatility VolatilityRegime `json:"volatility"`
	Volume     VolumeProfile    `json:"volume"`
	RSI        RSIState         `json:"rsi"`
	LastCandle LastCandle       `json:"last_candle"`
	Event      WyckoffEvent     `json:"event"`
}

// Tokens returns the ten tape tokens in their fixed order.
func (t *Translation) Tokens() []string {
	return []string{
		"asset_" + t.Asset,
		"interval_" + t.Interval,
		string(t.MacroTrend),
		t.Structure.Token(),
		string(t.Position),
		string(t.Volatility),
		string(t.Volume),
		string(t.RSI),
		t.LastCandle.Token(),
		t.Event.Token(),
	}
}

func (t *Translation) String() string {
	return strings.Join(t.Tokens(), " ")
}
