package occupancy

import (
	"context"
	"encoding/json"
	"time"

	"github.com/akeren/tablebook/domain/reservation"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/internal/models"
	apperrors "github.com/akeren/tablebook/pkg/errors"
)

const (
	cacheKeyPrefix = "tablebook:occupancy:"
	// generationKey is bumped on every change; cached totals are keyed by the generation they
	// were read under, so a read racing a write can never repopulate the current key.
	generationKey = cacheKeyPrefix + "generation"
)

// Cache is the subset of config.Cache the report needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

type DayTotal struct {
	Weekday string `json:"weekday"`
	Guests  int    `json:"guests"`
}

type Report struct {
	Mode  Mode          `json:"mode"`
	Days  []DayTotal    `json:"days"`
	Dates []DailyTotal  `json:"dates"`
	Empty bool          `json:"empty"`
	Week  WeekdayTotals `json:"-"`
}

type OccupancyService interface {
	Report(ctx context.Context) (*Report, error)
	// Chart renders the report; an empty report yields an empty Chart and no error.
	Chart(ctx context.Context) (*Chart, error)

	reservation.ChangeListener
}

type ServiceConfig struct {
	Mode     Mode
	Cache    Cache
	CacheTTL time.Duration
	Renderer ChartRenderer
}

type occupancyService struct {
	logger     *log.Logger
	repository OccupancyRepository
	mode       Mode
	cache      Cache
	cacheTTL   time.Duration
	renderer   ChartRenderer
}

func NewOccupancyService(logger *log.Logger, repository OccupancyRepository, cfg ServiceConfig) OccupancyService {
	if cfg.Mode == "" {
		cfg.Mode = ModeOverwrite
	}
	if cfg.Renderer == nil {
		cfg.Renderer = NewBarChartRenderer()
	}

	return &occupancyService{
		logger:     logger,
		repository: repository,
		mode:       cfg.Mode,
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
		renderer:   cfg.Renderer,
	}
}

func (s *occupancyService) totalsKey(generation string) string {
	if generation == "" {
		generation = "0"
	}
	return cacheKeyPrefix + string(s.mode) + ":" + generation
}

func (s *occupancyService) Report(ctx context.Context) (*Report, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	// The generation is read before the store so a concurrent change leaves this read behind.
	key, cacheable := s.currentTotalsKey(ctx, logger)

	totals, ok := s.cachedTotals(ctx, logger, key, cacheable)
	if !ok {
		var err error
		totals, err = s.repository.TotalsByDate(ctx)
		if err != nil {
			logger.Error("Failed to load occupancy totals", "error", err)
			return nil, err
		}
		if cacheable {
			s.storeTotals(ctx, logger, key, totals)
		}
	}

	week, err := AggregateByWeekday(totals, s.mode)
	if err != nil {
		logger.Error("Failed to aggregate occupancy", "error", err)
		return nil, apperrors.NewInternalServerError("unable to build occupancy report", err)
	}

	report := &Report{
		Mode:  s.mode,
		Days:  make([]DayTotal, 0, len(week)),
		Dates: totals,
		Empty: len(totals) == 0,
		Week:  week,
	}
	if report.Dates == nil {
		report.Dates = []DailyTotal{}
	}
	for i, guests := range week {
		report.Days = append(report.Days, DayTotal{Weekday: Weekdays[i], Guests: guests})
	}

	return report, nil
}

func (s *occupancyService) Chart(ctx context.Context) (*Chart, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	if report.Empty {
		return &Chart{Empty: true}, nil
	}

	png, err := s.renderer.RenderPNG(report.Week)
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to render occupancy chart", "error", err)
		return nil, apperrors.NewInternalServerError("unable to render occupancy chart", err)
	}

	return &Chart{PNG: png}, nil
}

func (s *occupancyService) ReservationAccepted(ctx context.Context, _ *models.Reservation) {
	s.invalidate(ctx)
}

func (s *occupancyService) ReservationsPurged(ctx context.Context, _ string, _ int64) {
	s.invalidate(ctx)
}

// The cache only ever holds per-date totals. A cache failure degrades to a store read.

func (s *occupancyService) currentTotalsKey(ctx context.Context, logger *log.Logger) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	generation, err := s.cache.Get(ctx, generationKey)
	if err != nil {
		logger.Warn("Occupancy cache read failed", "error", err)
		return "", false
	}
	return s.totalsKey(generation), true
}

func (s *occupancyService) cachedTotals(ctx context.Context, logger *log.Logger, key string, cacheable bool) ([]DailyTotal, bool) {
	if !cacheable {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Occupancy cache read failed", "error", err)
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	var totals []DailyTotal
	if err := json.Unmarshal([]byte(raw), &totals); err != nil {
		logger.Warn("Discarding unreadable occupancy cache entry", "error", err)
		return nil, false
	}
	return totals, true
}

func (s *occupancyService) storeTotals(ctx context.Context, logger *log.Logger, key string, totals []DailyTotal) {
	if totals == nil {
		totals = []DailyTotal{}
	}
	raw, err := json.Marshal(totals)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		logger.Warn("Occupancy cache write failed", "error", err)
	}
}

// invalidate moves every reader to a fresh key. Entries under older generations age out by TTL.
func (s *occupancyService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	generation, err := s.cache.Incr(ctx, generationKey)
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Warn("Occupancy cache invalidation failed", "error", err)
		return
	}
	log.GetLoggerInstanceFromContext(ctx, s.logger).Debug("Occupancy cache invalidated", "generation", generation)
}
