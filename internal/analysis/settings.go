// Package analysis holds the tunable periods and thresholds shared by the
// indicator engine, the semantic classifier and the trend-change detector.
package analysis

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Periods configures the rolling windows of the indicator engine.
type Periods struct {
	RSI        int `yaml:"rsi" json:"rsi" default:"14" validate:"gte=1"`
	ATR        int `yaml:"atr" json:"atr" default:"14" validate:"gte=1"`
	EMAShort   int `yaml:"ema_short" json:"ema_short" default:"50" validate:"gte=1"`
	EMALong    int `yaml:"ema_long" json:"ema_long" default:"200" validate:"gtefield=EMAShort"`
	SMA        int `yaml:"sma" json:"sma" default:"20" validate:"gte=1"`
	Volatility int `yaml:"volatility" json:"volatility" default:"20" validate:"gte=2"`
}

// Thresholds configures the classifier and the detector.
// A zero field is replaced by its default, so 0 cannot be configured explicitly.
type Thresholds struct {
	// Structure is a range when stddev(close) < RangeStdDevRatio * mean(close).
	RangeStdDevRatio float64 `yaml:"range_stddev_ratio" json:"range_stddev_ratio" default:"0.05" validate:"gt=0"`
	UpperThird       float64 `yaml:"upper_third" json:"upper_third" default:"0.66" validate:"gt=0,lt=1"`
	LowerThird       float64 `yaml:"lower_third" json:"lower_third" default:"0.33" validate:"gt=0,ltefield=UpperThird"`

	// Last ATR compared with the window mean ATR.
	VolExpansion   float64 `yaml:"vol_expansion" json:"vol_expansion" default:"1.5" validate:"gt=0"`
	VolContraction float64 `yaml:"vol_contraction" json:"vol_contraction" default:"0.7" validate:"gt=0,ltefield=VolExpansion"`

	// OLS slope of volume per row.
	VolumeSlope float64 `yaml:"volume_slope" json:"volume_slope" default:"1" validate:"gte=0"`

	OverboughtRSI float64 `yaml:"overbought_rsi" json:"overbought_rsi" default:"70" validate:"gt=0,lte=100"`
	OversoldRSI   float64 `yaml:"oversold_rsi" json:"oversold_rsi" default:"30" validate:"gt=0,ltefield=OverboughtRSI"`

	LowVolumeRatio   float64 `yaml:"low_volume_ratio" json:"low_volume_ratio" default:"0.5" validate:"gt=0"`
	VolumeMeanWindow int     `yaml:"volume_mean_window" json:"volume_mean_window" default:"20" validate:"gte=1"`

	SpringLookback int `yaml:"spring_lookback" json:"spring_lookback" default:"5" validate:"gte=1"`

	ReversalPct    float64 `yaml:"reversal_pct" json:"reversal_pct" default:"0.02" validate:"gt=0,lt=1"`
	DivergenceHigh float64 `yaml:"divergence_high" json:"divergence_high" default:"70" validate:"gt=0,lte=100"`
	DivergenceLow  float64 `yaml:"divergence_low" json:"divergence_low" default:"30" validate:"gt=0,ltefield=DivergenceHigh"`
}

// Settings groups periods and thresholds, e.g. for a YAML overrides file.
type Settings struct {
	Periods    Periods    `yaml:"periods" json:"periods"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

func DefaultPeriods() Periods {
	var p Periods
	mustSetDefaults(&p)
	return p
}

func DefaultThresholds() Thresholds {
	var t Thresholds
	mustSetDefaults(&t)
	return t
}

func DefaultSettings() Settings {
	return Settings{Periods: DefaultPeriods(), Thresholds: DefaultThresholds()}
}

// ApplyDefaults fills every zero field of s with its default.
func (s *Settings) ApplyDefaults() error {
	if err := defaults.Set(&s.Periods); err != nil {
		return fmt.Errorf("periods defaults: %w", err)
	}
	if err := defaults.Set(&s.Thresholds); err != nil {
		return fmt.Errorf("thresholds defaults: %w", err)
	}
	return nil
}

func (p Periods) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid periods: %w", err)
	}
	return nil
}

func (t Thresholds) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	return nil
}

func (s Settings) Validate() error {
	if err := s.Periods.Validate(); err != nil {
		return err
	}
	return s.Thresholds.Validate()
}

func mustSetDefaults(v any) {
	if err := defaults.Set(v); err != nil {
		panic(fmt.Sprintf("analysis: bad default tag: %v", err))
	}
}
