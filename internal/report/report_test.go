package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Alias1177/WyckoffTape/internal/model"
	"github.com/Alias1177/WyckoffTape/internal/service"
	"github.com/Alias1177/WyckoffTape/internal/window"
)

func TestPhrase(t *testing.T) {
	tests := []struct {
		token string
		lang  Lang
		want  string
	}{
		{"trend_macro_bullish", English, "bullish macro trend"},
		{"trend_macro_bullish", Spanish, "tendencia macro alcista"},
		{"asset_BTCUSDT", Spanish, "activo BTCUSDT"},
		{"interval_4h", English, "interval 4h"},
		{"structure_range_from_95_to_105", English, "range structure from 95 to 105"},
		{"structure_range_from_95_to_105", Spanish, "estructura en rango de 95 a 105"},
		{"event_spring_detected_at_candle_-3", English, "spring detected at candle -3"},
		{"event_spring_confirmation_at_candle_-1", Spanish, "confirmación de spring en la vela -1"},
		{"current_candle_very_low_volume current_candle_bullish_close", English,
			"current candle on very low volume, current candle closed bullish"},
		{"something_new", Spanish, "something_new"},
	}
	for _, tt := range tests {
		t.Run(tt.token+"/"+string(tt.lang), func(t *testing.T) {
			if got := Phrase(tt.token, tt.lang); got != tt.want {
				t.Errorf("Phrase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLang(t *testing.T) {
	if l, err := ParseLang(" ES "); err != nil || l != Spanish {
		t.Errorf("ParseLang(ES) = %v, %v", l, err)
	}
	if _, err := ParseLang("fr"); err == nil {
		t.Errorf("ParseLang(fr) = nil error")
	}
}

func sampleReport() *service.Report {
	ts := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tr := &model.Translation{
		Asset:      "BTCUSDT",
		Interval:   "1d",
		MacroTrend: model.MacroBullish,
		Structure:  model.Structure{Kind: model.StructureTrending},
		Position:   model.PositionUpper,
		Volatility: model.VolatilityNormal,
		Volume:     model.VolumeFlat,
		RSI:        model.RSINeutral,
		LastCandle: model.LastCandle{BullishClose: true},
		Event:      model.WyckoffEvent{Kind: model.SpringNone},
	}
	change := model.TrendChange{
		Time: ts, Category: model.GoldenCross, Description: "EMA50 crosses above EMA200", Price: 101.5, RSI: 55,
	}
	row := model.IndicatorRow{
		Candle: model.Candle{Time: ts, Open: 100, High: 102, Low: 99, Close: 101.5, Volume: 1200},
		EMA50:  model.Some(100.2),
		EMA200: model.Some(99.9),
		RSI14:  model.Some(55),
	}
	return &service.Report{
		Symbol:       "BTCUSDT",
		Interval:     "1d",
		Period:       window.Period{Kind: window.KindCurrentMonth, Rows: 1, Start: ts, End: ts},
		Translation:  tr,
		Tape:         tr.String(),
		TrendChanges: []model.TrendChange{change},
		Rows:         []model.AnnotatedRow{{IndicatorRow: row, TrendChange: "golden_cross (EMA50 crosses above EMA200)"}},
	}
}

func TestText(t *testing.T) {
	var b strings.Builder
	if err := Text(&b, sampleReport(), Spanish); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"ANÁLISIS WYCKOFF: BTCUSDT 1d",
		"trend_macro_bullish structure_trending",
		"tendencia macro alcista",
		"Golden Cross",
		"EMA50 cruza EMA200 al alza",
		"Período: mes actual hasta hoy - 1 velas (2025-03-10 a 2025-03-10)",
		"golden_cross (EMA50 crosses above EMA200)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// ATR is missing on the row and must not print as zero.
	if !strings.Contains(out, "55.00          -") {
		t.Errorf("missing ATR should render as '-':\n%s", out)
	}
}

func TestTelegram(t *testing.T) {
	msg := Telegram(sampleReport(), English)
	if !strings.HasPrefix(msg, "📊 *WYCKOFF ANALYSIS* BTCUSDT 1d") {
		t.Errorf("unexpected header:\n%s", msg)
	}
	if strings.Contains(msg, "• asset BTCUSDT") {
		t.Errorf("asset and interval belong to the header only:\n%s", msg)
	}
	for _, want := range []string{
		"• bullish macro trend",
		"🗓 current month to date - 1 candles (2025-03-10 to 2025-03-10)",
		"2025-03-10: Golden cross (101.50)",
		"`asset_BTCUSDT",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestPeriodText(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		period window.Period
		lang   Lang
		want   string
	}{
		{"month es", window.Period{Kind: window.KindCurrentMonth, Rows: 10, Start: start, End: end}, Spanish,
			"mes actual hasta hoy - 10 velas (2025-03-01 a 2025-03-10)"},
		{"fallback es", window.Period{Kind: window.KindFallback, Rows: 30, Start: start, End: end}, Spanish,
			"últimas 30 velas (fallback) - 30 velas (2025-03-01 a 2025-03-10)"},
		{"tail es", window.Period{Kind: window.KindTail, Rows: 10, Start: start, End: end}, Spanish,
			"últimas 10 velas - 10 velas (2025-03-01 a 2025-03-10)"},
		{"unavailable es", window.Period{Kind: window.KindUnavailable}, Spanish, "sin datos disponibles"},
		{"month en", window.Period{Kind: window.KindCurrentMonth, Rows: 10, Start: start, End: end}, English,
			"current month to date - 10 candles (2025-03-01 to 2025-03-10)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodText(tt.period, tt.lang); got != tt.want {
				t.Errorf("PeriodText() = %q, want %q", got, tt.want)
			}
		})
	}
}
