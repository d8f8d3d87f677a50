package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/akeren/tablebook/domain/monitoring"
	"github.com/akeren/tablebook/domain/occupancy"
	"github.com/akeren/tablebook/domain/reservation"
	"github.com/akeren/tablebook/internal/models"
	"github.com/stretchr/testify/suite"
)

type ReservationAPITestSuite struct {
	appSuite
}

func TestReservationAPITestSuite(t *testing.T) {
	suite.Run(t, new(ReservationAPITestSuite))
}

func (s *ReservationAPITestSuite) TestHealthCheck() {
	resp, env := s.getJSON("/health")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("tablebook health check completed", env.Message)

	var status monitoring.HealthStatus
	s.Require().NoError(json.Unmarshal(env.Data, &status))
	s.Equal(monitoring.StatusOK, status.Status)
	s.Equal(1, status.Database)
	s.Zero(status.Cache)
	s.Zero(status.MessageQueue)
}

func (s *ReservationAPITestSuite) TestReserveFillsSlotThenRejects() {
	s.seed(
		models.Reservation{Name: "early", Date: "2024-03-01", Time: "14:00", Guests: 10},
		models.Reservation{Name: "late", Date: "2024-03-01", Time: "14:45", Guests: 5},
	)

	resp, env := s.postJSON("/v1/reservations", `{"name":"Ada","date":"2024-03-01","time":"15:00","guests":5}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Equal("Reservation created successfully", env.Message)

	var created reservation.ReservationResponse
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.NotZero(created.ID)
	s.Equal(20, created.Booked)
	s.Zero(created.Remaining)
	s.Equal(reservation.Slot{Start: "14:00", End: "15:00"}, created.Slot)

	resp, env = s.postJSON("/v1/reservations", `{"name":"Bob","date":"2024-03-01","time":"15:00","guests":1}`)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("No space available. Try again with fewer guests.", env.Message)

	s.Equal(int64(3), s.count("reservations"))
}

func (s *ReservationAPITestSuite) TestHugePartyDoesNotBreakTheSlot() {
	s.seed(models.Reservation{Name: "tea", Date: "2024-03-01", Time: "14:30", Guests: 5})

	resp, env := s.postJSON("/v1/reservations", `{"name":"Crowd","date":"2024-03-01","time":"15:00","guests":9223372036854775807}`)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("No space available. Try again with fewer guests.", env.Message)
	s.Equal(int64(1), s.count("reservations"))

	resp, env = s.getJSON("/v1/reservations/availability?date=2024-03-01&time=15:00")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var availability reservation.AvailabilityResponse
	s.Require().NoError(json.Unmarshal(env.Data, &availability))
	s.Equal(5, availability.Booked)
	s.Equal(15, availability.Remaining)
}

func (s *ReservationAPITestSuite) TestAvailabilityPurgesStaleReservations() {
	s.seed(
		models.Reservation{Name: "lunch", Date: "2024-03-01", Time: "12:00", Guests: 3},
		models.Reservation{Name: "tea", Date: "2024-03-01", Time: "14:30", Guests: 4},
		models.Reservation{Name: "tomorrow", Date: "2024-03-02", Time: "09:00", Guests: 6},
	)

	resp, env := s.getJSON("/v1/reservations/availability?date=2024-03-01&time=15:00")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var availability reservation.AvailabilityResponse
	s.Require().NoError(json.Unmarshal(env.Data, &availability))
	s.Equal(4, availability.Booked)
	s.Equal(20, availability.Capacity)
	s.Equal(16, availability.Remaining)

	s.Equal(int64(2), s.count("reservations"), "the 12:00 booking is purged, the other date is untouched")
}

func (s *ReservationAPITestSuite) TestReserveValidation() {
	bodies := []string{
		`{"name":"Ada","date":"2024-03-01","time":"15:00","guests":0}`,
		`{"name":"Ada","date":"01/03/2024","time":"15:00","guests":2}`,
		`{"name":"Ada","date":"2024-03-01","time":"3pm","guests":2}`,
		`{"name":"","date":"2024-03-01","time":"15:00","guests":2}`,
		`{"name":"Ada","date":"2024-03-01","time":"15:00","guests":"two"}`,
	}

	for _, body := range bodies {
		resp, env := s.postJSON("/v1/reservations", body)
		s.Equal(http.StatusBadRequest, resp.StatusCode, body)
		s.Equal(http.StatusBadRequest, env.Code, body)
	}

	s.Zero(s.count("reservations"))
}

func (s *ReservationAPITestSuite) TestConcurrentReservationsNeverExceedCapacity() {
	const attempts = 10

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			body := fmt.Sprintf(`{"name":"guest %d","date":"2024-03-01","time":"19:00","guests":5}`, i)
			resp, err := http.Post(s.baseURL+"/v1/reservations", "application/json", strings.NewReader(body))
			if err != nil {
				return
			}
			resp.Body.Close()

			mu.Lock()
			statuses[resp.StatusCode]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	s.Equal(4, statuses[http.StatusCreated])
	s.Equal(attempts-4, statuses[http.StatusConflict])

	var total int64
	s.Require().NoError(s.db.Model(&models.Reservation{}).Select("COALESCE(SUM(guests), 0)").Scan(&total).Error)
	s.Equal(int64(20), total)
}

func (s *ReservationAPITestSuite) TestOccupancyReport() {
	s.seed(
		models.Reservation{Name: "first monday", Date: "2024-01-01", Time: "19:00", Guests: 10},
		models.Reservation{Name: "second monday", Date: "2024-01-08", Time: "19:00", Guests: 7},
		models.Reservation{Name: "friday", Date: "2024-01-05", Time: "20:00", Guests: 3},
	)

	resp, env := s.getJSON("/v1/occupancy")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var report occupancy.Report
	s.Require().NoError(json.Unmarshal(env.Data, &report))
	s.Equal(occupancy.ModeOverwrite, report.Mode)
	s.False(report.Empty)
	s.Require().Len(report.Days, 7)
	s.Equal(occupancy.DayTotal{Weekday: "Monday", Guests: 7}, report.Days[0])
	s.Equal(occupancy.DayTotal{Weekday: "Friday", Guests: 3}, report.Days[4])

	chart, err := http.Get(s.baseURL + "/v1/occupancy/chart.png")
	s.Require().NoError(err)
	body := s.readBody(chart)
	s.Equal(http.StatusOK, chart.StatusCode)
	s.Equal("image/png", chart.Header.Get("Content-Type"))
	s.True(strings.HasPrefix(body, "\x89PNG"))
}

func (s *ReservationAPITestSuite) TestEmptyOccupancyChart() {
	resp, env := s.getJSON("/v1/occupancy/chart.png")

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("No reservations yet", env.Message)
}

func (s *ReservationAPITestSuite) TestHomePage() {
	resp, body := s.getPage("/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "No reservations yet.")

	s.seed(models.Reservation{Name: "walk-in", Date: "2024-03-01", Time: "19:00", Guests: 2})

	resp, body = s.getPage("/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `src="data:image/png;base64,`)
}

func (s *ReservationAPITestSuite) TestReserveForm() {
	form := url.Values{"name": {"Ada"}, "date": {"2024-03-01"}, "time": {"19:00"}, "guests": {"18"}}

	resp, body := s.postForm("/reserve", form)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Reservation successful!")
	s.Contains(body, `src="data:image/png;base64,`, "the refreshed report includes the new booking")

	form.Set("guests", "3")
	resp, body = s.postForm("/reserve", form)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Contains(body, "No space available. Try again with fewer guests.")

	form.Set("guests", "lots")
	resp, body = s.postForm("/reserve", form)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(body, "Please check your reservation details.")

	s.Equal(int64(1), s.count("reservations"))
}

func (s *ReservationAPITestSuite) TestMetricsExposeReservationOutcomes() {
	resp, _ := s.postJSON("/v1/reservations", `{"name":"Ada","date":"2024-03-01","time":"19:00","guests":2}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, body := s.getPage("/metrics")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `tablebook_reservation_requests_total{outcome="accepted"} 1`)
	s.Contains(body, "tablebook_reserved_guests_total 2")
}
