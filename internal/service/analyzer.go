// Package service runs a full analysis: fetch candles, derive indicators,
// select the window, classify it and scan it for trend changes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WyckoffTape/internal/analysis"
	"github.com/Alias1177/WyckoffTape/internal/analysis/semantic"
	"github.com/Alias1177/WyckoffTape/internal/analysis/trend"
	"github.com/Alias1177/WyckoffTape/internal/indicators"
	"github.com/Alias1177/WyckoffTape/internal/model"
	"github.com/Alias1177/WyckoffTape/internal/window"
)

var (
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid analysis request")
	// ErrFetch wraps failures of the candle source.
	ErrFetch = errors.New("fetching candles")
)

// CandleSource supplies candles oldest first.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
}

// Recorder receives analysis metrics.
type Recorder interface {
	RecordAnalysis(symbol, interval, status string, seconds float64)
	RecordTrendChange(category string)
	RecordLastPrice(symbol, interval string, price float64)
}

type nopRecorder struct{}

func (nopRecorder) RecordAnalysis(string, string, string, float64) {}
func (nopRecorder) RecordTrendChange(string) {}
func (nopRecorder) RecordLastPrice(string, string, float64) {}

// Request selects what to analyse. WindowSize is only used in tail mode.
type Request struct {
	Symbol     string
	Interval   string
	Limit      int
	Mode       window.Mode
	WindowSize int
}

// Report is the outcome of one analysis.
type Report struct {
	Symbol       string               `json:"symbol"`
	Interval     string               `json:"interval"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Period       window.Period        `json:"period"`
	Translation  *model.Translation   `json:"translation"`
	Tape         string               `json:"tape"`
	TrendChanges []model.TrendChange  `json:"trend_changes"`
	Rows         []model.AnnotatedRow `json:"rows"`
}

// Analyzer is safe for concurrent use.
type Analyzer struct {
	source     CandleSource
	periods    analysis.Periods
	classifier *semantic.Classifier
	detector   *trend.Detector
	recorder   Recorder
	now        func() time.Time
	logger     zerolog.Logger
}

type Option func(*Analyzer)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithClock overrides time.Now, which decides the current month.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func NewAnalyzer(source CandleSource, settings analysis.Settings, opts ...Option) *Analyzer {
	logger := log.With().Str("component", "analyzer").Logger()
	a := &Analyzer{
		source:     source,
		periods:    settings.Periods,
		classifier: semantic.NewClassifier(settings.Thresholds, logger),
		detector:   trend.NewDetector(settings.Thresholds, logger),
		recorder:   nopRecorder{},
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (r Request) validate() error {
	switch {
	case r.Symbol == "":
		return fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	case r.Interval == "":
		return fmt.Errorf("%w: interval is required", ErrInvalidRequest)
	case r.Limit <= 0:
		return fmt.Errorf("%w: limit must be positive", ErrInvalidRequest)
	case r.Mode != window.ModeTail && r.Mode != window.ModeMonth:
		return fmt.Errorf("%w: unknown window mode %q", ErrInvalidRequest, r.Mode)
	}
	return nil
}

// Run performs one analysis. Classifier errors are returned unchanged;
// source errors are wrapped with ErrFetch.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Report, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := a.run(ctx, req)
	a.recorder.RecordAnalysis(req.Symbol, req.Interval, status(err), time.Since(start).Seconds())
	if err != nil {
		a.logger.Warn().Err(err).Str("symbol", req.Symbol).Str("interval", req.Interval).Msg("Analysis failed")
		return nil, err
	}
	return report, nil
}

func (a *Analyzer) run(ctx context.Context, req Request) (*Report, error) {
	a.logger.Info().Str("symbol", req.Symbol).Str("interval", req.Interval).Int("limit", req.Limit).Msg("Fetching latest market data...")

	candles, err := a.source.GetCandles(ctx, req.Symbol, req.Interval, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	rows := indicators.Derive(candles, a.periods)
	selected, period := window.Select(rows, req.Mode, req.WindowSize, a.now())

	translation, err := a.classifier.Classify(selected, req.Symbol, req.Interval)
	if err != nil {
		return nil, err
	}
	changes := a.detector.Detect(selected)

	last := selected[len(selected)-1]
	a.recorder.RecordLastPrice(req.Symbol, req.Interval, last.Close)
	for _, c := range changes {
		a.recorder.RecordTrendChange(string(c.Category))
	}

	a.logger.Info().
		Str("period", period.String()).
		Int("trend_changes", len(changes)).
		Str("tape", translation.String()).
		Msg("Analysis complete")

	return &Report{
		Symbol:       req.Symbol,
		Interval:     req.Interval,
		GeneratedAt:  a.now().UTC(),
		Period:       period,
		Translation:  translation,
		Tape:         translation.String(),
		TrendChanges: changes,
		Rows:         trend.Annotate(selected, changes),
	}, nil
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrFetch):
		return "fetch_error"
	case errors.Is(err, semantic.ErrInsufficientData), errors.Is(err, semantic.ErrEmptyInput):
		return "insufficient_data"
	default:
		return "error"
	}
}
