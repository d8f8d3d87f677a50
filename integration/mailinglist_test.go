package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/akeren/tablebook/domain/mailinglist"
	"github.com/akeren/tablebook/internal/models"
	"github.com/stretchr/testify/suite"
)

type MailingListAPITestSuite struct {
	appSuite
}

func TestMailingListAPITestSuite(t *testing.T) {
	suite.Run(t, new(MailingListAPITestSuite))
}

func (s *MailingListAPITestSuite) TestSubscribe() {
	resp, env := s.postJSON("/v1/mailing-list", `{"email":"Guest@Example.com"}`)

	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Equal("Mailing list signup created successfully", env.Message)

	var created mailinglist.SubscriptionResponse
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.NotZero(created.ID)
	s.Equal("Guest@example.com", created.Email)

	var stored models.EmailSignup
	s.Require().NoError(s.db.First(&stored, created.ID).Error)
	s.Equal("Guest@example.com", stored.Email)
}

func (s *MailingListAPITestSuite) TestSubscribeValidationError() {
	resp, env := s.postJSON("/v1/mailing-list", `{"email":"invalid-email"}`)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Invalid request payload", env.Message)

	var fields []map[string]string
	s.Require().NoError(json.Unmarshal(env.Data, &fields))
	s.Require().Len(fields, 1)
	s.Equal("email", fields[0]["field"])
	s.Equal("Invalid email format", fields[0]["message"])

	s.Zero(s.count("user_email"))
}

func (s *MailingListAPITestSuite) TestSubmitEmailForm() {
	resp, body := s.postForm("/submit-email", url.Values{"email": {"guest@example.com"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Email submitted successfully!")

	resp, body = s.postForm("/submit-email", url.Values{"email": {""}})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(body, "Error submitting email. Please try again.")

	s.Equal(int64(1), s.count("user_email"))
}

func (s *MailingListAPITestSuite) TestSubmitEmailStoreFailure() {
	s.Require().NoError(s.db.Migrator().DropTable(&models.EmailSignup{}))

	resp, body := s.postForm("/submit-email", url.Values{"email": {"guest@example.com"}})

	s.Equal(http.StatusInternalServerError, resp.StatusCode)
	s.Contains(body, "Error submitting email. Please try again.")
}
