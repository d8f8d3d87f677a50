package reservation

import (
	"time"

	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/pkg/constants"
)

// Slot is the closed clock interval [Start, End] checked against a requested time. Both ends
// are zero-padded HH:MM so they compare correctly as text.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ComputeSlot returns the hour ending at clock. The arithmetic is on the clock only: a time
// before 01:00 yields a Start late on the previous day (00:30 gives 23:30) while the date
// is left alone, so such a slot matches nothing and its purge removes the rest of the day.
func ComputeSlot(clock string) (Slot, error) {
	end, err := time.Parse(models.ReservationTimeLayout, clock)
	if err != nil {
		return Slot{}, NewInvalidTimeError(err)
	}

	start := end.Add(-constants.SlotLength)

	return Slot{
		Start: start.Format(models.ReservationTimeLayout),
		End:   end.Format(models.ReservationTimeLayout),
	}, nil
}

// Wraps reports whether Start fell before midnight.
func (s Slot) Wraps() bool {
	return s.Start > s.End
}

func validateDate(date string) error {
	if _, err := time.Parse(models.ReservationDateLayout, date); err != nil {
		return NewInvalidDateError(err)
	}
	return nil
}
