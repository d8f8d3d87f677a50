package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/tablebook/pkg/circuitbreaker"
	"github.com/segmentio/kafka-go"
)

// Event is the envelope written to every topic.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func NewEvent(eventType string, payload any) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Brokers     []string
	TopicPrefix string
}

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) IsConfigured() bool {
	return len(c.Brokers) > 0
}

// KafkaPublisher writes JSON events synchronously; the topic is chosen per message.
type KafkaPublisher struct {
	writer      *kafka.Writer
	brokers     []string
	topicPrefix string
}

func NewKafkaPublisher(cfg *Config) (*KafkaPublisher, error) {
	if cfg == nil || !cfg.IsConfigured() {
		return nil, errors.New("events: no kafka brokers configured")
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
		},
		brokers:     cfg.Brokers,
		topicPrefix: cfg.TopicPrefix,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Topic: p.topicPrefix + topic,
		Key:   []byte(key),
		Value: value,
		Time:  event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publish %s: %w", msg.Topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return err
	}
	return conn.Close()
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, Event) error { return nil }

func (NoopPublisher) Ping(context.Context) error { return ErrNotConfigured }

func (NoopPublisher) Close() error { return nil }

var ErrNotConfigured = errors.New("events: publisher not configured")

// GuardedPublisher stops calling a failing broker until the breaker lets a probe through.
type GuardedPublisher struct {
	next    Publisher
	breaker circuitbreaker.CircuitBreaker
}

func NewGuardedPublisher(next Publisher, breaker circuitbreaker.CircuitBreaker) *GuardedPublisher {
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(nil)
	}
	return &GuardedPublisher{next: next, breaker: breaker}
}

func (g *GuardedPublisher) Publish(ctx context.Context, topic, key string, event Event) error {
	return g.breaker.Call(func() error {
		return g.next.Publish(ctx, topic, key, event)
	})
}

func (g *GuardedPublisher) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

func (g *GuardedPublisher) Close() error {
	return g.next.Close()
}
