package reservation

import (
	"context"
	"strings"

	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/constants"
	apperrors "github.com/akeren/tablebook/pkg/errors"
)

type ReservationService interface {
	CheckAvailability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error)
	// Reserve returns a conflict wrapping ErrCapacityExceeded when the slot cannot take the party.
	Reserve(ctx context.Context, req *CreateReservationRequest) (*ReservationResponse, error)
}

type ServiceConfig struct {
	// Capacity defaults to constants.DefaultSlotCapacity.
	Capacity  int
	Metrics   *Metrics
	Listeners []ChangeListener
}

type reservationService struct {
	logger     *log.Logger
	repository ReservationRepository
	capacity   int
	metrics    *Metrics
	listeners  []ChangeListener
}

func NewReservationService(logger *log.Logger, repository ReservationRepository, cfg ServiceConfig) ReservationService {
	if cfg.Capacity <= 0 {
		cfg.Capacity = constants.DefaultSlotCapacity
	}

	return &reservationService{
		logger:     logger,
		repository: repository,
		capacity:   cfg.Capacity,
		metrics:    cfg.Metrics,
		listeners:  cfg.Listeners,
	}
}

func (s *reservationService) CheckAvailability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("CheckAvailability received nil request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	if err := validateDate(req.Date); err != nil {
		return nil, err
	}

	slot, err := ComputeSlot(req.Time)
	if err != nil {
		return nil, err
	}

	usage, err := s.repository.CheckSlot(ctx, req.Date, slot)
	if err != nil {
		logger.Error("Failed to check slot availability", "date", req.Date, "time", req.Time, "error", err)
		return nil, err
	}

	s.afterPurge(ctx, logger, req.Date, usage.Purged)

	return &AvailabilityResponse{
		Date:      req.Date,
		Slot:      slot,
		Booked:    usage.Booked,
		Capacity:  s.capacity,
		Remaining: remaining(usage.Booked, s.capacity),
	}, nil
}

func (s *reservationService) Reserve(ctx context.Context, req *CreateReservationRequest) (*ReservationResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Reserve received nil request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, apperrors.NewInvalidRequestError(ErrEmptyName.Error(), ErrEmptyName)
	}
	if req.Guests <= 0 {
		return nil, apperrors.NewInvalidRequestError(ErrInvalidGuests.Error(), ErrInvalidGuests)
	}
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}

	slot, err := ComputeSlot(req.Time)
	if err != nil {
		return nil, err
	}
	if slot.Wraps() {
		logger.Warn("Reservation slot starts before midnight; the rest of the date will be purged",
			"date", req.Date, "time", slot.End)
	}

	reservation := ToReservationModel(req, slot)

	outcome, err := s.repository.ReserveIfCapacity(ctx, reservation, slot, s.capacity)
	if err != nil {
		logger.Error("Failed to reserve", "date", req.Date, "time", slot.End, "error", err)
		s.metrics.observe(outcomeFailed, 0, 0)
		return nil, err
	}

	s.afterPurge(ctx, logger, req.Date, outcome.Usage.Purged)

	if !outcome.Accepted {
		logger.Info("Reservation rejected",
			"date", req.Date,
			"time", slot.End,
			"guests", req.Guests,
			"booked", outcome.Usage.Booked,
			"capacity", s.capacity,
		)
		s.metrics.observe(outcomeRejected, req.Guests, 0)
		return nil, NewCapacityExceededError()
	}

	logger.Info("Reservation accepted",
		"id", reservation.ID,
		"date", reservation.Date,
		"time", reservation.Time,
		"guests", reservation.Guests,
		"booked", outcome.Usage.Booked,
	)
	s.metrics.observe(outcomeAccepted, reservation.Guests, 0)

	for _, l := range s.listeners {
		l.ReservationAccepted(ctx, reservation)
	}

	resp := ToReservationResponse(reservation, slot, outcome.Usage.Booked, s.capacity)
	return &resp, nil
}

func (s *reservationService) afterPurge(ctx context.Context, logger *log.Logger, date string, purged int64) {
	if purged <= 0 {
		return
	}

	logger.Info("Purged stale reservations", "date", date, "count", purged)
	s.metrics.observePurge(purged)

	for _, l := range s.listeners {
		l.ReservationsPurged(ctx, date, purged)
	}
}
