package reservation

import (
	"context"
	"time"

	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/pkg/events"
)

const (
	EventReservationAccepted = "reservation.accepted"
	EventReservationsPurged  = "reservation.purged"

	eventsTopic = "reservations"
)

// ChangeListener is told about every write the reservation flow makes to the reservations table.
type ChangeListener interface {
	ReservationAccepted(ctx context.Context, reservation *models.Reservation)
	ReservationsPurged(ctx context.Context, date string, count int64)
}

type AcceptedPayload struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Guests int    `json:"guests"`
}

type PurgedPayload struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// EventNotifier publishes reservation changes keyed by date. Failures are logged and dropped.
type EventNotifier struct {
	publisher events.Publisher
	logger    *log.Logger
	timeout   time.Duration
}

func NewEventNotifier(publisher events.Publisher, logger *log.Logger) *EventNotifier {
	return &EventNotifier{publisher: publisher, logger: logger, timeout: 2 * time.Second}
}

func (n *EventNotifier) ReservationAccepted(ctx context.Context, reservation *models.Reservation) {
	n.publish(ctx, reservation.Date, events.NewEvent(EventReservationAccepted, AcceptedPayload{
		ID:     reservation.ID,
		Name:   reservation.Name,
		Date:   reservation.Date,
		Time:   reservation.Time,
		Guests: reservation.Guests,
	}))
}

func (n *EventNotifier) ReservationsPurged(ctx context.Context, date string, count int64) {
	n.publish(ctx, date, events.NewEvent(EventReservationsPurged, PurgedPayload{Date: date, Count: count}))
}

func (n *EventNotifier) publish(ctx context.Context, key string, event events.Event) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, eventsTopic, key, event); err != nil {
		log.GetLoggerInstanceFromContext(ctx, n.logger).Warn("Failed to publish reservation event",
			"event", event.Type,
			"key", key,
			"error", err,
		)
	}
}
