package constants

import "time"

// RFC 3339 date-time format string used for every timestamp leaving the API.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// Default rate limiting configuration
const (
	DefaultRateLimitRequests      = 100
	DefaultRateLimitWindowMinutes = 1
)

// Reservation defaults
const (
	// DefaultSlotCapacity caps the guests booked within one slot on one date.
	DefaultSlotCapacity = 20
	// SlotLength is the window ending at a requested reservation time.
	SlotLength = time.Hour
)

func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}
