package reservation

import (
	"errors"

	apperrors "github.com/akeren/tablebook/pkg/errors"
)

// CapacityExceededMessage is shown to the guest when a slot cannot take the party.
const CapacityExceededMessage = "No space available. Try again with fewer guests."

var (
	ErrCapacityExceeded = errors.New("slot capacity exceeded")
	ErrInvalidTime      = errors.New("time must use the HH:MM format")
	ErrInvalidDate      = errors.New("date must use the YYYY-MM-DD format")
	ErrInvalidGuests    = errors.New("guests must be greater than zero")
	ErrEmptyName        = errors.New("name cannot be empty")
)

func NewCapacityExceededError() *apperrors.AppError {
	return apperrors.NewConflictError(CapacityExceededMessage, ErrCapacityExceeded)
}

func NewInvalidTimeError(err error) *apperrors.AppError {
	return apperrors.NewInvalidRequestError(ErrInvalidTime.Error(), errors.Join(ErrInvalidTime, err))
}

func NewInvalidDateError(err error) *apperrors.AppError {
	return apperrors.NewInvalidRequestError(ErrInvalidDate.Error(), errors.Join(ErrInvalidDate, err))
}

func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}
