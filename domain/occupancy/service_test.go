package occupancy

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/internal/testutil"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memoryCache struct {
	values map[string]string
	ttls   map[string]time.Duration
	incrs  int
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.values[key], nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.incrs++
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

type stubRenderer struct {
	calls int
	err   error
}

func (r *stubRenderer) RenderPNG(WeekdayTotals) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png"), nil
}

var januaryMondays = []DailyTotal{
	{Date: "2024-01-01", Guests: 10},
	{Date: "2024-01-08", Guests: 7},
}

func TestReport_OverwriteAndAccumulate(t *testing.T) {
	tests := []struct {
		mode   Mode
		monday int
	}{
		{mode: ModeOverwrite, monday: 7},
		{mode: ModeAccumulate, monday: 17},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := NewMockOccupancyRepository(ctrl)
			repo.EXPECT().TotalsByDate(gomock.Any()).Return(januaryMondays, nil)

			service := NewOccupancyService(testutil.DiscardLogger(), repo, ServiceConfig{Mode: tt.mode})
			report, err := service.Report(context.Background())

			require.NoError(t, err)
			assert.False(t, report.Empty)
			assert.Equal(t, tt.mode, report.Mode)
			require.Len(t, report.Days, 7)
			assert.Equal(t, DayTotal{Weekday: "Monday", Guests: tt.monday}, report.Days[0])
			assert.Equal(t, tt.monday, report.Week[0])
		})
	}
}

func TestReport_CachesTotalsUntilInvalidated(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockOccupancyRepository(ctrl)
	cache := newMemoryCache()

	repo.EXPECT().TotalsByDate(gomock.Any()).Return(januaryMondays, nil).Times(2)

	service := NewOccupancyService(testutil.DiscardLogger(), repo, ServiceConfig{
		Cache:    cache,
		CacheTTL: time.Minute,
	})
	ctx := context.Background()

	_, err := service.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cache.ttls["tablebook:occupancy:overwrite:0"])

	cached, err := service.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, cached.Week[0])

	service.ReservationAccepted(ctx, &models.Reservation{Date: "2024-01-15"})
	assert.Equal(t, 1, cache.incrs)

	_, err = service.Report(ctx)
	require.NoError(t, err)
	assert.Contains(t, cache.values, "tablebook:occupancy:overwrite:1")

	service.ReservationsPurged(ctx, "2024-01-15", 3)
	assert.Equal(t, 2, cache.incrs)
	assert.Equal(t, "2", cache.values["tablebook:occupancy:generation"])
}

func TestReport_ChangeDuringStoreReadIsNotCachedAsCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockOccupancyRepository(ctrl)
	cache := newMemoryCache()
	ctx := context.Background()

	var service OccupancyService
	stale := []DailyTotal{{Date: "2024-01-01", Guests: 10}}
	fresh := []DailyTotal{{Date: "2024-01-01", Guests: 14}}

	gomock.InOrder(
		repo.EXPECT().TotalsByDate(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]DailyTotal, error) {
			// A booking commits after the totals were read but before they reach the cache.
			service.ReservationAccepted(ctx, &models.Reservation{Date: "2024-01-01", Guests: 4})
			return stale, nil
		}),
		repo.EXPECT().TotalsByDate(gomock.Any()).Return(fresh, nil),
	)

	service = NewOccupancyService(testutil.DiscardLogger(), repo, ServiceConfig{Cache: cache, CacheTTL: time.Minute})

	first, err := service.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, first.Week[0])

	second, err := service.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14, second.Week[0])

	third, err := service.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14, third.Week[0], "served from the current generation")
}

func TestReport_CacheFailureFallsBackToStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockOccupancyRepository(ctrl)
	cache := newMemoryCache()
	cache.getErr = errors.New("connection reset")

	repo.EXPECT().TotalsByDate(gomock.Any()).Return(januaryMondays, nil)

	service := NewOccupancyService(testutil.DiscardLogger(), repo, ServiceConfig{Cache: cache})
	report, err := service.Report(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7, report.Week[0])
}

func TestReport_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockOccupancyRepository(ctrl)
	repo.EXPECT().TotalsByDate(gomock.Any()).
		Return(nil, apperrors.NewDatabaseError("unable to load occupancy totals", errors.New("no such table")))

	service := NewOccupancyService(testutil.DiscardLogger(), repo, ServiceConfig{})

	report, err := service.Report(context.Background())
	assert.Nil(t, report)
	assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
}

func TestChart_EmptyReportSkipsRendering(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockOccupancyRepository(ctrl)
	renderer := &stubRenderer{}
	repo.EXPECT().TotalsByDate(gomock.Any()).Return(nil, nil)

	service := NewOccupancyService(testutil.DiscardLogger(), repo, ServiceConfig{Renderer: renderer})
	chart, err := service.Chart(context.Background())

	require.NoError(t, err)
	assert.True(t, chart.Empty)
	assert.Empty(t, chart.PNG)
	assert.Zero(t, renderer.calls)
}

func TestChart_RendersWhenReservationsExist(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockOccupancyRepository(ctrl)
	renderer := &stubRenderer{}
	repo.EXPECT().TotalsByDate(gomock.Any()).Return(januaryMondays, nil)

	service := NewOccupancyService(testutil.DiscardLogger(), repo, ServiceConfig{Renderer: renderer})
	chart, err := service.Chart(context.Background())

	require.NoError(t, err)
	assert.False(t, chart.Empty)
	assert.Equal(t, []byte("png"), chart.PNG)
}

func TestChart_RenderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockOccupancyRepository(ctrl)
	repo.EXPECT().TotalsByDate(gomock.Any()).Return(januaryMondays, nil)

	service := NewOccupancyService(testutil.DiscardLogger(), repo, ServiceConfig{
		Renderer: &stubRenderer{err: errors.New("font missing")},
	})
	chart, err := service.Chart(context.Background())

	assert.Nil(t, chart)
	assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
}
