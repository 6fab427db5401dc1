package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alias1177/WyckoffTape/internal/analysis"
	"github.com/Alias1177/WyckoffTape/internal/analysis/semantic"
	"github.com/Alias1177/WyckoffTape/internal/model"
	"github.com/Alias1177/WyckoffTape/internal/window"
)

type fakeSource struct {
	candles []model.Candle
	err     error
	calls   int
}

func (f *fakeSource) GetCandles(_ context.Context, _, _ string, limit int) ([]model.Candle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.candles) {
		return f.candles[len(f.candles)-limit:], nil
	}
	return f.candles, nil
}

type fakeRecorder struct {
	statuses  []string
	changes   int
	lastPrice float64
}

func (r *fakeRecorder) RecordAnalysis(_, _, status string, _ float64) {
	r.statuses = append(r.statuses, status)
}
func (r *fakeRecorder) RecordTrendChange(string) { r.changes++ }
func (r *fakeRecorder) RecordLastPrice(_, _ string, price float64) { r.lastPrice = price }

func generateTestCandles(n int, generator func(int) model.Candle) []model.Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = generator(i)
		candles[i].Time = start.AddDate(0, 0, i)
	}
	return candles
}

func waveCandles(n int) []model.Candle {
	return generateTestCandles(n, func(i int) model.Candle {
		c := 100 + float64(i%20) - float64(i%7)
		return model.Candle{Open: c - 0.5, High: c + 2, Low: c - 2, Close: c, Volume: 1000 + float64(i%5)*10}
	})
}

func TestRunTailWindow(t *testing.T) {
	src := &fakeSource{candles: waveCandles(300)}
	rec := &fakeRecorder{}
	a := NewAnalyzer(src, analysis.DefaultSettings(), WithRecorder(rec))

	report, err := a.Run(context.Background(), Request{
		Symbol: "BTCUSDT", Interval: "1d", Limit: 300, Mode: window.ModeTail, WindowSize: 60,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Rows) != 60 || report.Period.Rows != 60 {
		t.Errorf("rows = %d, period = %+v, want 60", len(report.Rows), report.Period)
	}
	if len(report.Translation.Tokens()) != model.TapeLen || report.Tape != report.Translation.String() {
		t.Errorf("tape = %q", report.Tape)
	}
	if !report.Rows[len(report.Rows)-1].Time.Equal(src.candles[299].Time) {
		t.Errorf("window must end at the last candle")
	}

	labelled := 0
	for _, r := range report.Rows {
		if r.TrendChange != "" {
			labelled++
		}
	}
	if labelled != len(report.TrendChanges) {
		t.Errorf("labelled rows = %d, events = %d", labelled, len(report.TrendChanges))
	}

	if len(rec.statuses) != 1 || rec.statuses[0] != "ok" {
		t.Errorf("statuses = %v", rec.statuses)
	}
	if rec.changes != len(report.TrendChanges) || rec.lastPrice != src.candles[299].Close {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestRunCurrentMonth(t *testing.T) {
	src := &fakeSource{candles: waveCandles(300)} // 2025-01-01 .. 2025-10-27
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	a := NewAnalyzer(src, analysis.DefaultSettings(), WithClock(func() time.Time { return now }))

	report, err := a.Run(context.Background(), Request{
		Symbol: "ETHUSDT", Interval: "1d", Limit: 300, Mode: window.ModeMonth,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Period.Kind != window.KindCurrentMonth || report.Period.Rows != 15 {
		t.Errorf("period = %+v, want 15 rows of the current month", report.Period)
	}
	if !report.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v", report.GeneratedAt)
	}
}

func TestRunErrors(t *testing.T) {
	upstream := errors.New("connection refused")

	tests := []struct {
		name       string
		source     *fakeSource
		req        Request
		wantErr    error
		wantStatus string
		wantCalls  int
	}{
		{
			name:      "missing symbol",
			source:    &fakeSource{candles: waveCandles(10)},
			req:       Request{Interval: "1d", Limit: 10, Mode: window.ModeTail},
			wantErr:   ErrInvalidRequest,
			wantCalls: 0,
		},
		{
			name:      "bad mode",
			source:    &fakeSource{candles: waveCandles(10)},
			req:       Request{Symbol: "BTCUSDT", Interval: "1d", Limit: 10, Mode: "week"},
			wantErr:   ErrInvalidRequest,
			wantCalls: 0,
		},
		{
			name:       "upstream failure",
			source:     &fakeSource{err: upstream},
			req:        Request{Symbol: "BTCUSDT", Interval: "1d", Limit: 10, Mode: window.ModeTail},
			wantErr:    ErrFetch,
			wantStatus: "fetch_error",
			wantCalls:  1,
		},
		{
			name:       "too few candles",
			source:     &fakeSource{candles: waveCandles(10)},
			req:        Request{Symbol: "BTCUSDT", Interval: "1d", Limit: 10, Mode: window.ModeTail},
			wantErr:    semantic.ErrInsufficientData,
			wantStatus: "insufficient_data",
			wantCalls:  1,
		},
		{
			name:       "no candles",
			source:     &fakeSource{candles: []model.Candle{}},
			req:        Request{Symbol: "BTCUSDT", Interval: "1d", Limit: 10, Mode: window.ModeTail},
			wantErr:    semantic.ErrEmptyInput,
			wantStatus: "insufficient_data",
			wantCalls:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			a := NewAnalyzer(tt.source, analysis.DefaultSettings(), WithRecorder(rec))

			_, err := a.Run(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.source.calls != tt.wantCalls {
				t.Errorf("source calls = %d, want %d", tt.source.calls, tt.wantCalls)
			}
			if tt.wantStatus != "" && (len(rec.statuses) != 1 || rec.statuses[0] != tt.wantStatus) {
				t.Errorf("statuses = %v, want [%s]", rec.statuses, tt.wantStatus)
			}
		})
	}

	a := NewAnalyzer(&fakeSource{err: upstream}, analysis.DefaultSettings())
	_, err := a.Run(context.Background(), Request{Symbol: "X", Interval: "1d", Limit: 1, Mode: window.ModeTail})
	if !errors.Is(err, upstream) {
		t.Errorf("upstream error must stay reachable: %v", err)
	}
}
