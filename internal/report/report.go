// Package report renders an analysis report as console text or as a
// Telegram message, in English or Spanish.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Alias1177/WyckoffTape/internal/model"
	"github.com/Alias1177/WyckoffTape/internal/service"
	"github.com/Alias1177/WyckoffTape/internal/window"
)

type labels struct {
	title, tape, reading, period, changes, noChanges, table string
}

var headings = map[Lang]labels{
	English: {
		title:     "WYCKOFF ANALYSIS",
		tape:      "Semantic tape",
		reading:   "Reading",
		period:    "Period",
		changes:   "Trend changes",
		noChanges: "No trend changes in the window",
		table:     "Indicators",
	},
	Spanish: {
		title:     "ANÁLISIS WYCKOFF",
		tape:      "Cinta semántica",
		reading:   "Lectura",
		period:    "Período",
		changes:   "Cambios de tendencia",
		noChanges: "Sin cambios de tendencia en la ventana",
		table:     "Indicadores",
	},
}

func headingsFor(lang Lang) labels {
	if l, ok := headings[lang]; ok {
		return l
	}
	return headings[English]
}

// PeriodText renders the window description in lang.
func PeriodText(p window.Period, lang Lang) string {
	if lang != Spanish {
		return p.String()
	}
	if p.Kind == window.KindUnavailable || p.Rows == 0 {
		return "sin datos disponibles"
	}

	var label string
	switch p.Kind {
	case window.KindCurrentMonth:
		label = "mes actual hasta hoy"
	case window.KindFallback:
		label = fmt.Sprintf("últimas %d velas (fallback)", window.FallbackRows)
	default:
		label = fmt.Sprintf("últimas %d velas", p.Rows)
	}
	return fmt.Sprintf("%s - %d velas (%s a %s)",
		label, p.Rows, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}

func value(v model.Value, prec int) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.*f", prec, v.Float)
}

// Text writes the full report: tape, reading, period, trend changes and the
// indicator table of the window.
func Text(w io.Writer, r *service.Report, lang Lang) error {
	h := headingsFor(lang)
	var b strings.Builder

	fmt.Fprintf(&b, "\n===== %s: %s %s =====\n", h.title, r.Symbol, r.Interval)
	fmt.Fprintf(&b, "%s: %s\n\n", h.tape, r.Tape)

	fmt.Fprintf(&b, "%s:\n", h.reading)
	for _, p := range Describe(r.Translation, lang) {
		fmt.Fprintf(&b, "  - %s\n", p)
	}

	fmt.Fprintf(&b, "\n%s: %s\n", h.period, PeriodText(r.Period, lang))

	fmt.Fprintf(&b, "\n%s:\n", h.changes)
	if len(r.TrendChanges) == 0 {
		fmt.Fprintf(&b, "  %s\n", h.noChanges)
	}
	for _, c := range r.TrendChanges {
		fmt.Fprintf(&b, "  %s  %-24s %12.2f  RSI %6.2f  %s\n",
			c.Time.Format(time.DateTime), CategoryName(c.Category, lang), c.Price, c.RSI, Description(c, lang))
	}

	fmt.Fprintf(&b, "\n%s:\n", h.table)
	fmt.Fprintf(&b, "  %-19s %12s %12s %12s %12s %14s %12s %12s %8s %10s  %s\n",
		"time", "open", "high", "low", "close", "volume", "ema_50", "ema_200", "rsi_14", "atr_14", "trend_change")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "  %-19s %12.2f %12.2f %12.2f %12.2f %14.2f %12s %12s %8s %10s  %s\n",
			row.Time.Format(time.DateTime), row.Open, row.High, row.Low, row.Close, row.Volume,
			value(row.EMA50, 2), value(row.EMA200, 2), value(row.RSI14, 2), value(row.ATR14, 2),
			row.TrendChange)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Telegram builds a short Markdown message: reading plus the latest trend changes.
func Telegram(r *service.Report, lang Lang) string {
	const maxChanges = 5
	h := headingsFor(lang)
	var b strings.Builder

	fmt.Fprintf(&b, "📊 *%s* %s %s\n\n", h.title, r.Symbol, r.Interval)
	for _, p := range Describe(r.Translation, lang)[2:] {
		fmt.Fprintf(&b, "• %s\n", p)
	}
	fmt.Fprintf(&b, "\n🗓 %s\n", PeriodText(r.Period, lang))

	changes := r.TrendChanges
	if len(changes) > maxChanges {
		changes = changes[len(changes)-maxChanges:]
	}
	if len(changes) > 0 {
		fmt.Fprintf(&b, "\n🔄 *%s*\n", h.changes)
		for _, c := range changes {
			fmt.Fprintf(&b, "%s: %s (%.2f)\n", c.Time.Format(time.DateOnly), CategoryName(c.Category, lang), c.Price)
		}
	}

	fmt.Fprintf(&b, "\n`%s`", r.Tape)
	return b.String()
}
