package mailinglist

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/akeren/tablebook/internal/log"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"github.com/akeren/tablebook/pkg/events"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	EventSubscribed = "mailing_list.subscribed"

	eventsTopic    = "mailing-list"
	publishTimeout = 2 * time.Second
)

type MailingListService interface {
	Subscribe(ctx context.Context, req *SubscribeRequest) (*SubscriptionResponse, error)
}

type ServiceConfig struct {
	// Publisher defaults to events.NoopPublisher.
	Publisher events.Publisher
	// Signups may be nil.
	Signups prometheus.Counter
}

type mailingListService struct {
	logger     *log.Logger
	repository MailingListRepository
	publisher  events.Publisher
	signups    prometheus.Counter
}

func NewMailingListService(logger *log.Logger, repository MailingListRepository, cfg ServiceConfig) MailingListService {
	if cfg.Publisher == nil {
		cfg.Publisher = events.NoopPublisher{}
	}

	return &mailingListService{
		logger:     logger,
		repository: repository,
		publisher:  cfg.Publisher,
		signups:    cfg.Signups,
	}
}

// NewSignupCounter registers tablebook_mailing_list_signups_total.
func NewSignupCounter(reg prometheus.Registerer) prometheus.Counter {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tablebook",
		Name:      "mailing_list_signups_total",
		Help:      "Email addresses added to the mailing list.",
	})
	reg.MustRegister(counter)
	return counter
}

func (s *mailingListService) Subscribe(ctx context.Context, req *SubscribeRequest) (*SubscriptionResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Subscribe received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	req.Email = normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, apperrors.NewInvalidRequestError("invalid email address", err)
	}

	signup, err := s.repository.CreateSignup(ctx, ToEmailSignupModel(req))
	if err != nil {
		logger.Error("Failed to save email", "error", err)
		return nil, err
	}

	logger.Info("Email added to mailing list", "id", signup.ID)
	if s.signups != nil {
		s.signups.Inc()
	}
	s.publish(ctx, logger, SubscribedPayload{ID: signup.ID, Email: signup.Email})

	response := ToSubscriptionResponse(signup)
	return &response, nil
}

// normalizeEmail trims the address and lower-cases only the domain; the local part is case-sensitive.
func normalizeEmail(raw string) string {
	email := strings.TrimSpace(raw)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func (s *mailingListService) publish(ctx context.Context, logger *log.Logger, payload SubscribedPayload) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, eventsTopic, payload.Email, events.NewEvent(EventSubscribed, payload)); err != nil {
		logger.Warn("Failed to publish mailing list event", "error", err)
	}
}
