package window

import (
	"testing"
	"time"

	"github.com/Alias1177/WyckoffTape/internal/model"
)

func dailyRows(start time.Time, n int) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, n)
	for i := range rows {
		rows[i].Time = start.AddDate(0, 0, i)
		rows[i].Close = float64(i)
	}
	return rows
}

func TestTail(t *testing.T) {
	rows := dailyRows(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 100)

	tests := []struct {
		name      string
		n         int
		wantLen   int
		wantFirst float64
	}{
		{"last 60", 60, 60, 40},
		{"exactly all", 100, 100, 0},
		{"more than available", 500, 100, 0},
		{"zero means all", 0, 100, 0},
		{"negative means all", -3, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tail(rows, tt.n)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got[0].Close != tt.wantFirst {
				t.Errorf("first close = %v, want %v", got[0].Close, tt.wantFirst)
			}
		})
	}

	if got := Tail(nil, 10); len(got) != 0 {
		t.Errorf("Tail(nil) = %v", got)
	}
}

func TestCurrentMonth(t *testing.T) {
	rows := dailyRows(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 75) // Jan 1 .. Mar 16
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	got, period := CurrentMonth(rows, now)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10 (Mar 1..Mar 10)", len(got))
	}
	if got[0].Time.Day() != 1 || got[len(got)-1].Time.Day() != 10 {
		t.Errorf("selected %v .. %v", got[0].Time, got[len(got)-1].Time)
	}
	if period.Kind != KindCurrentMonth || period.Rows != 10 {
		t.Errorf("period = %+v", period)
	}
	want := "current month to date - 10 candles (2025-03-01 to 2025-03-10)"
	if period.String() != want {
		t.Errorf("String() = %q, want %q", period.String(), want)
	}
}

func TestCurrentMonthFallback(t *testing.T) {
	rows := dailyRows(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 50)
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	got, period := CurrentMonth(rows, now)
	if len(got) != FallbackRows {
		t.Fatalf("len = %d, want %d", len(got), FallbackRows)
	}
	if got[0].Close != 20 {
		t.Errorf("first close = %v, want 20", got[0].Close)
	}
	if period.Kind != KindFallback {
		t.Errorf("kind = %s, want %s", period.Kind, KindFallback)
	}
}

func TestCurrentMonthEmpty(t *testing.T) {
	got, period := CurrentMonth(nil, time.Now())
	if len(got) != 0 || period.Kind != KindUnavailable {
		t.Errorf("CurrentMonth(nil) = %v, %+v", got, period)
	}
	if period.String() != "no data available" {
		t.Errorf("String() = %q", period.String())
	}
}

func TestSelectSharesBackingArray(t *testing.T) {
	rows := dailyRows(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 10)
	got, period := Select(rows, ModeTail, 4, time.Now())
	if &got[0] != &rows[6] {
		t.Errorf("Select must return a sub-slice of the input")
	}
	if period.Kind != KindTail || period.Rows != 4 {
		t.Errorf("period = %+v", period)
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"tail", "month"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) error = %v", s, err)
		}
	}
	if _, err := ParseMode("week"); err == nil {
		t.Errorf("ParseMode(week) = nil error")
	}
}
