// Package semantic translates an indicator window into the ten-token
// Wyckoff tape: asset, interval, macro trend, structure, position in range,
// volatility, volume profile, RSI state, last candle and structural event.
package semantic

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/Alias1177/WyckoffTape/internal/analysis"
	"github.com/Alias1177/WyckoffTape/internal/indicators"
	"github.com/Alias1177/WyckoffTape/internal/model"
)

// Classifier is safe for concurrent use; it never mutates the window.
type Classifier struct {
	th     analysis.Thresholds
	logger zerolog.Logger
}

func NewClassifier(th analysis.Thresholds, logger zerolog.Logger) *Classifier {
	return &Classifier{
		th:     th,
		logger: logger.With().Str("component", "semantic_classifier").Logger(),
	}
}

// Classify translates window with the given thresholds and no logging.
func Classify(window []model.IndicatorRow, asset, interval string, th analysis.Thresholds) (*model.Translation, error) {
	return NewClassifier(th, zerolog.Nop()).Classify(window, asset, interval)
}

// Classify evaluates every step against the last row of the window.
func (c *Classifier) Classify(window []model.IndicatorRow, asset, interval string) (*model.Translation, error) {
	if len(window) == 0 {
		return nil, ErrEmptyInput
	}

	last := window[len(window)-1]
	if !last.RSI14.Valid {
		return nil, &InsufficientDataError{Field: "RSI_14", Rows: len(window)}
	}
	if !last.ATR14.Valid {
		return nil, &InsufficientDataError{Field: "ATR_14", Rows: len(window)}
	}
	if !last.EMA50.Valid || !last.EMA200.Valid {
		return nil, &InsufficientDataError{Field: "EMA", Rows: len(window)}
	}

	structure, minLow, rangeSize := c.structure(window)

	t := &model.Translation{
		Asset:      asset,
		Interval:   interval,
		MacroTrend: macroTrend(last),
		Structure:  structure,
		Position:   c.position(last.Close, minLow, rangeSize),
		Volatility: c.volatility(window, last.ATR14.Float),
		Volume:     c.volumeProfile(window),
		RSI:        c.rsiState(last.RSI14.Float),
		LastCandle: c.lastCandle(window),
		Event:      c.springEvent(window),
	}

	c.logger.Debug().
		Int("rows", len(window)).
		Str("tape", t.String()).
		Msg("Window translated")

	return t, nil
}

func macroTrend(last model.IndicatorRow) model.MacroTrend {
	ema50, ema200 := last.EMA50.Float, last.EMA200.Float
	switch {
	case last.Close > ema50 && ema50 > ema200:
		return model.MacroBullish
	case last.Close < ema50 && ema50 < ema200:
		return model.MacroBearish
	default:
		// Partial orderings (e.g. close above EMA50 but EMA50 below EMA200) are lateral.
		return model.MacroLateral
	}
}

// structure returns the structure label with the window low and range size.
func (c *Classifier) structure(window []model.IndicatorRow) (model.Structure, float64, float64) {
	maxHigh, minLow := window[0].High, window[0].Low
	for _, r := range window[1:] {
		maxHigh = math.Max(maxHigh, r.High)
		minLow = math.Min(minLow, r.Low)
	}
	rangeSize := maxHigh - minLow

	closes := model.Closes(window)
	sd, ok := indicators.StdDev(closes)
	if ok && sd < indicators.Mean(closes)*c.th.RangeStdDevRatio {
		return model.Structure{Kind: model.StructureRange, Low: minLow, High: maxHigh}, minLow, rangeSize
	}
	return model.Structure{Kind: model.StructureTrending}, minLow, rangeSize
}

func (c *Classifier) position(lastClose, minLow, rangeSize float64) model.RangePosition {
	if rangeSize == 0 {
		return model.PositionMiddle
	}

	switch {
	case lastClose > minLow+rangeSize*c.th.UpperThird:
		return model.PositionUpper
	case lastClose < minLow+rangeSize*c.th.LowerThird:
		return model.PositionLower
	default:
		return model.PositionMiddle
	}
}

// volatility compares the last ATR with the mean of the ATR readings available
// in the window. A flat window (0 vs 0) is normal.
func (c *Classifier) volatility(window []model.IndicatorRow, lastATR float64) model.VolatilityRegime {
	var sum float64
	var count int
	for _, r := range window {
		if r.ATR14.Valid {
			sum += r.ATR14.Float
			count++
		}
	}
	atrMean := sum / float64(count)

	switch {
	case lastATR > atrMean*c.th.VolExpansion:
		return model.VolatilityExpanding
	case lastATR < atrMean*c.th.VolContraction:
		return model.VolatilityContracting
	default:
		return model.VolatilityNormal
	}
}

// volumeProfile uses the least-squares slope of volume per row. The slope is
// in volume units, so the thresholds depend on the asset's typical volume.
func (c *Classifier) volumeProfile(window []model.IndicatorRow) model.VolumeProfile {
	slope := indicators.Slope(model.Volumes(window))
	switch {
	case slope < -c.th.VolumeSlope:
		return model.VolumeDescending
	case slope > c.th.VolumeSlope:
		return model.VolumeAscending
	default:
		return model.VolumeFlat
	}
}

func (c *Classifier) rsiState(rsi float64) model.RSIState {
	switch {
	case rsi > c.th.OverboughtRSI:
		return model.RSIOverbought
	case rsi < c.th.OversoldRSI:
		return model.RSIOversold
	default:
		return model.RSINeutral
	}
}

// lastCandle flags very low volume only once the rolling volume mean exists.
func (c *Classifier) lastCandle(window []model.IndicatorRow) model.LastCandle {
	last := window[len(window)-1]
	desc := model.LastCandle{BullishClose: last.Close > last.Open}

	n := c.th.VolumeMeanWindow
	if len(window) >= n {
		volumeMean := indicators.Mean(model.Volumes(window[len(window)-n:]))
		desc.VeryLowVolume = last.Volume < volumeMean*c.th.LowVolumeRatio
	}
	return desc
}

// springEvent looks for a Wyckoff spring in the last SpringLookback candles:
// a low below the prior support with a close back above it. The most recent
// match wins. When the candle before the match was also below support the
// event is a confirmation.
func (c *Classifier) springEvent(window []model.IndicatorRow) model.WyckoffEvent {
	lookback := c.th.SpringLookback
	n := len(window)
	if n < lookback+1 {
		return model.WyckoffEvent{Kind: model.SpringNone}
	}

	support := window[0].Low
	for _, r := range window[1 : n-lookback] {
		support = math.Min(support, r.Low)
	}

	for i := 1; i <= lookback; i++ {
		candle := window[n-i]
		prev := window[n-i-1]
		if candle.Low < support && candle.Close > support {
			kind := model.SpringDetected
			if prev.Low < support {
				kind = model.SpringConfirmation
			}
			return model.WyckoffEvent{Kind: kind, Offset: -i, Support: support}
		}
	}

	return model.WyckoffEvent{Kind: model.SpringNone}
}
