package reservation

import (
	"testing"

	apperrors "github.com/akeren/tablebook/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSlot(t *testing.T) {
	tests := []struct {
		clock     string
		wantStart string
		wantEnd   string
		wantWraps bool
	}{
		{clock: "15:00", wantStart: "14:00", wantEnd: "15:00"},
		{clock: "19:45", wantStart: "18:45", wantEnd: "19:45"},
		{clock: "9:30", wantStart: "08:30", wantEnd: "09:30"},
		{clock: "01:00", wantStart: "00:00", wantEnd: "01:00"},
		{clock: "00:30", wantStart: "23:30", wantEnd: "00:30", wantWraps: true},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			slot, err := ComputeSlot(tt.clock)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, slot.Start)
			assert.Equal(t, tt.wantEnd, slot.End)
			assert.Equal(t, tt.wantWraps, slot.Wraps())
		})
	}
}

func TestComputeSlot_RejectsMalformedClock(t *testing.T) {
	for _, clock := range []string{"", "25:00", "noon", "15:00:00", "15-00"} {
		_, err := ComputeSlot(clock)

		assert.ErrorIs(t, err, ErrInvalidTime, clock)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate("2024-02-29"))
	assert.ErrorIs(t, validateDate("2023-02-29"), ErrInvalidDate)
	assert.ErrorIs(t, validateDate("01/02/2024"), ErrInvalidDate)
}
