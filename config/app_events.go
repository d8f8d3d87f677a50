package config

import (
	"time"

	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/circuitbreaker"
	"github.com/akeren/tablebook/pkg/events"
	"github.com/akeren/tablebook/pkg/utils"
)

func NewEventsConfig() *events.Config {
	return &events.Config{
		Brokers:     events.ParseBrokers(utils.GetEnvTrimmed("KAFKA_BROKERS")),
		TopicPrefix: utils.GetEnvTrimmedOrDefault("KAFKA_TOPIC_PREFIX", "tablebook."),
	}
}

// NewEventPublisher returns a Kafka publisher behind a circuit breaker, or a no-op when
// KAFKA_BROKERS is empty. Event delivery never blocks startup.
func NewEventPublisher(logger *log.Logger, cfg *events.Config) events.Publisher {
	if cfg == nil || !cfg.IsConfigured() {
		logger.Info("Event publishing disabled (KAFKA_BROKERS not set)")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg)
	if err != nil {
		logger.Error("Failed to create event publisher; events disabled", "error", err)
		return events.NoopPublisher{}
	}

	breaker := circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: utils.GetEnvPositiveInt("KAFKA_BREAKER_FAILURES", 5),
		RecoveryTimeout:  utils.GetEnvPositiveDuration("KAFKA_BREAKER_RECOVERY", 30*time.Second),
		SuccessThreshold: 2,
		OnStateChange: func(from, to circuitbreaker.CircuitState) {
			logger.Warn("Event publisher circuit changed state", "from", from.String(), "to", to.String())
		},
	})

	logger.Info("Event publishing enabled", "brokers", cfg.Brokers, "topic_prefix", cfg.TopicPrefix)
	return events.NewGuardedPublisher(publisher, breaker)
}

func CloseEventPublisher(publisher events.Publisher, logger *log.Logger) {
	if publisher == nil {
		return
	}

	if err := publisher.Close(); err != nil {
		logger.Error("Failed to close event publisher", "error", err)
	}
}
