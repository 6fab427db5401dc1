package trend

import (
	"time"

	"github.com/Alias1177/WyckoffTape/internal/model"
)

// Label renders an event as "<category> (<description>)".
func Label(c model.TrendChange) string {
	return string(c.Category) + " (" + c.Description + ")"
}

// Annotate attaches each event to the row with the same timestamp. Rows
// without an event get an empty label; events outside rows are ignored.
func Annotate(rows []model.IndicatorRow, changes []model.TrendChange) []model.AnnotatedRow {
	byTime := make(map[time.Time]string, len(changes))
	for _, c := range changes {
		byTime[c.Time.UTC()] = Label(c)
	}

	out := make([]model.AnnotatedRow, len(rows))
	for i, r := range rows {
		out[i] = model.AnnotatedRow{
			IndicatorRow: r,
			TrendChange:  byTime[r.Time.UTC()],
		}
	}
	return out
}
