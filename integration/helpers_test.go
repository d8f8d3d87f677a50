package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/akeren/tablebook/config"
	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/domain"
	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/internal/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// appSuite boots the full domain against a fresh in-memory SQLite database for every test.
type appSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	appConfig *config.ApplicationConfig
}

func (s *appSuite) SetupTest() {
	s.db = testutil.NewSQLiteDB(s.T())
	logger := testutil.DiscardLogger()

	s.appConfig = &config.ApplicationConfig{
		DB:     s.db,
		Logger: logger,
		Config: &config.AppConfig{
			SlotCapacity:         20,
			OccupancyAggregation: config.AggregationOverwrite,
		},
	}
	s.appConfig.RouterService = router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	domain.SetupCoreDomain(s.appConfig)

	s.server = httptest.NewServer(s.appConfig.RouterService.GetEngine())
	s.baseURL = s.server.URL
}

func (s *appSuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
	s.appConfig.RouterService.Cleanup()
}

func (s *appSuite) seed(rows ...models.Reservation) {
	for i := range rows {
		s.Require().NoError(s.db.Create(&rows[i]).Error)
	}
}

func (s *appSuite) postJSON(path, body string) (*http.Response, envelope) {
	resp, err := http.Post(s.baseURL+path, "application/json", strings.NewReader(body))
	s.Require().NoError(err)
	return resp, s.decode(resp)
}

func (s *appSuite) getJSON(path string) (*http.Response, envelope) {
	resp, err := http.Get(s.baseURL + path)
	s.Require().NoError(err)
	return resp, s.decode(resp)
}

func (s *appSuite) decode(resp *http.Response) envelope {
	defer resp.Body.Close()

	var env envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func (s *appSuite) postForm(path string, form url.Values) (*http.Response, string) {
	resp, err := http.PostForm(s.baseURL+path, form)
	s.Require().NoError(err)
	return resp, s.readBody(resp)
}

func (s *appSuite) getPage(path string) (*http.Response, string) {
	resp, err := http.Get(s.baseURL + path)
	s.Require().NoError(err)
	return resp, s.readBody(resp)
}

func (s *appSuite) readBody(resp *http.Response) string {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return string(body)
}

func (s *appSuite) count(table string) int64 {
	var n int64
	s.Require().NoError(s.db.Table(table).Count(&n).Error)
	return n
}
