// Package window selects the analysis window out of a longer indicator history.
// Selections are sub-slices of the input; rows are never copied or modified.
package window

import (
	"fmt"
	"time"

	"github.com/Alias1177/WyckoffTape/internal/model"
)

// FallbackRows is used by CurrentMonth when the current month has no rows.
const FallbackRows = 30

type Mode string

const (
	ModeTail  Mode = "tail"
	ModeMonth Mode = "month"
)

// ParseMode accepts "tail" or "month".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTail, ModeMonth:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown window mode %q", s)
	}
}

type Kind string

const (
	KindTail         Kind = "last_rows"
	KindCurrentMonth Kind = "current_month"
	KindFallback     Kind = "fallback_last_30"
	KindUnavailable  Kind = "unavailable"
)

// Period describes the rows a selection covers.
type Period struct {
	Kind  Kind      `json:"kind"`
	Rows  int       `json:"rows"`
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

func (p Period) String() string {
	if p.Kind == KindUnavailable || p.Rows == 0 {
		return "no data available"
	}

	var label string
	switch p.Kind {
	case KindCurrentMonth:
		label = "current month to date"
	case KindFallback:
		label = fmt.Sprintf("last %d candles (fallback)", FallbackRows)
	default:
		label = fmt.Sprintf("last %d candles", p.Rows)
	}
	return fmt.Sprintf("%s - %d candles (%s to %s)",
		label, p.Rows, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}

func describe(kind Kind, rows []model.IndicatorRow) Period {
	if len(rows) == 0 {
		return Period{Kind: KindUnavailable}
	}
	return Period{
		Kind:  kind,
		Rows:  len(rows),
		Start: rows[0].Time,
		End:   rows[len(rows)-1].Time,
	}
}

// Tail returns the last n rows; n <= 0 or n >= len(rows) returns all of them.
func Tail(rows []model.IndicatorRow, n int) []model.IndicatorRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[len(rows)-n:]
}

// CurrentMonth returns the rows of now's calendar month up to and including
// now's date. Rows must be sorted by time. When the month has no rows the last
// FallbackRows rows are used instead.
func CurrentMonth(rows []model.IndicatorRow, now time.Time) ([]model.IndicatorRow, Period) {
	if len(rows) == 0 {
		return rows, Period{Kind: KindUnavailable}
	}

	year, month, day := now.Date()
	loc := now.Location()
	first, last := -1, -1
	for i, r := range rows {
		ry, rm, rd := r.Time.In(loc).Date()
		if ry != year || rm != month || rd > day {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}

	if first < 0 {
		selected := Tail(rows, FallbackRows)
		return selected, describe(KindFallback, selected)
	}

	selected := rows[first : last+1]
	return selected, describe(KindCurrentMonth, selected)
}

// Select applies mode. n is only used by ModeTail.
func Select(rows []model.IndicatorRow, mode Mode, n int, now time.Time) ([]model.IndicatorRow, Period) {
	switch mode {
	case ModeMonth:
		return CurrentMonth(rows, now)
	default:
		selected := Tail(rows, n)
		return selected, describe(KindTail, selected)
	}
}
