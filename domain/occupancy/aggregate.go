package occupancy

import (
	"fmt"
	"time"

	"github.com/akeren/tablebook/internal/models"
)

// Mode decides how dates falling on the same weekday are folded together.
type Mode string

const (
	// ModeOverwrite keeps only the last date folded into each weekday. Dates arrive oldest
	// first, so the latest date wins.
	ModeOverwrite Mode = "overwrite"
	// ModeAccumulate sums every date into its weekday.
	ModeAccumulate Mode = "accumulate"
)

// Weekdays are the chart labels, Monday first.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayTotals is indexed Monday=0 through Sunday=6.
type WeekdayTotals [7]int

func (w WeekdayTotals) Max() int {
	highest := 0
	for _, v := range w {
		if v > highest {
			highest = v
		}
	}
	return highest
}

// ParseMode falls back to ModeOverwrite for anything it does not recognise.
func ParseMode(raw string) Mode {
	if Mode(raw) == ModeAccumulate {
		return ModeAccumulate
	}
	return ModeOverwrite
}

// WeekdayIndex maps a date onto the Monday=0 index.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// AggregateByWeekday folds per-date totals in the order given.
func AggregateByWeekday(totals []DailyTotal, mode Mode) (WeekdayTotals, error) {
	var out WeekdayTotals

	for _, total := range totals {
		day, err := time.Parse(models.ReservationDateLayout, total.Date)
		if err != nil {
			return WeekdayTotals{}, fmt.Errorf("occupancy: stored date %q: %w", total.Date, err)
		}

		idx := WeekdayIndex(day)
		if mode == ModeAccumulate {
			out[idx] += total.Guests
		} else {
			out[idx] = total.Guests
		}
	}

	return out, nil
}
