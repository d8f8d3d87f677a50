package occupancy

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=occupancy

import (
	"context"

	"github.com/akeren/tablebook/internal/models"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"gorm.io/gorm"
)

// DailyTotal is the guest count booked on one date.
type DailyTotal struct {
	Date   string `json:"date"`
	Guests int    `json:"guests"`
}

type OccupancyRepository interface {
	// TotalsByDate sums guests per date, oldest date first.
	TotalsByDate(ctx context.Context) ([]DailyTotal, error)
}

type occupancyRepository struct {
	db *gorm.DB
}

func NewOccupancyRepository(db *gorm.DB) OccupancyRepository {
	return &occupancyRepository{db: db}
}

func (r *occupancyRepository) TotalsByDate(ctx context.Context) ([]DailyTotal, error) {
	var totals []DailyTotal

	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("date, SUM(guests) AS guests").
		Group("date").
		Order("date ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to load occupancy totals", err)
	}

	return totals, nil
}
