package reservation

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=reservation

import (
	"context"
	"errors"

	"github.com/akeren/tablebook/internal/models"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	// CheckSlot purges the date's reservations that end before the slot and sums the guests inside it.
	CheckSlot(ctx context.Context, date string, slot Slot) (SlotUsage, error)
	// ReserveIfCapacity runs CheckSlot and inserts the reservation only when the slot still fits it.
	// Both happen in one transaction holding a per-date lock.
	ReserveIfCapacity(ctx context.Context, reservation *models.Reservation, slot Slot, capacity int) (*ReserveOutcome, error)
}

// SlotUsage is the guest total for a slot and how many stale rows were purged to compute it.
type SlotUsage struct {
	Booked int
	Purged int64
}

type ReserveOutcome struct {
	Accepted bool
	Usage    SlotUsage
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) CheckSlot(ctx context.Context, date string, slot Slot) (SlotUsage, error) {
	var usage SlotUsage

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		usage, err = checkSlot(tx, date, slot)
		return err
	})
	if err != nil {
		return SlotUsage{}, asDatabaseError(err, "unable to check slot availability")
	}

	return usage, nil
}

func (r *reservationRepository) ReserveIfCapacity(ctx context.Context, reservation *models.Reservation, slot Slot, capacity int) (*ReserveOutcome, error) {
	outcome := &ReserveOutcome{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDate(tx, reservation.Date); err != nil {
			return err
		}

		usage, err := checkSlot(tx, reservation.Date, slot)
		if err != nil {
			return err
		}
		outcome.Usage = usage

		// Rejection still commits the purge. Compared against the room left so a huge
		// guest count cannot overflow the sum.
		if reservation.Guests > capacity-usage.Booked {
			return nil
		}

		if err := tx.Create(reservation).Error; err != nil {
			return apperrors.NewDatabaseError("unable to save reservation", err)
		}

		outcome.Accepted = true
		outcome.Usage.Booked += reservation.Guests
		return nil
	})
	if err != nil {
		return nil, asDatabaseError(err, "unable to save reservation")
	}

	return outcome, nil
}

func checkSlot(tx *gorm.DB, date string, slot Slot) (SlotUsage, error) {
	purge := tx.Where("date = ? AND time < ?", date, slot.Start).Delete(&models.Reservation{})
	if purge.Error != nil {
		return SlotUsage{}, apperrors.NewDatabaseError("unable to purge stale reservations", purge.Error)
	}

	var booked int64
	err := tx.Model(&models.Reservation{}).
		Select("COALESCE(SUM(guests), 0)").
		Where("date = ? AND time BETWEEN ? AND ?", date, slot.Start, slot.End).
		Scan(&booked).Error
	if err != nil {
		return SlotUsage{}, apperrors.NewDatabaseError("unable to check slot availability", err)
	}

	return SlotUsage{Booked: int(booked), Purged: purge.RowsAffected}, nil
}

// lockDate serialises writers for one date. SQLite needs nothing extra: the purge takes the
// database write lock and the pool holds a single connection.
func lockDate(tx *gorm.DB, date string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}

	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "reservations:"+date).Error; err != nil {
		return apperrors.NewDatabaseError("unable to lock reservation date", err)
	}
	return nil
}

// asDatabaseError wraps failures raised by gorm outside our callbacks, such as a failed BEGIN.
func asDatabaseError(err error, message string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewDatabaseError(message, err)
}
