package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-listing/internal/logger"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is the payload written to the listing.* topics.
type Event struct {
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   int64     `json:"entity_id"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent builds an event of type listing.<entity>.<action>.
func NewEvent(entity, action string, id int64, name string) Event {
	return Event{
		Type:       fmt.Sprintf("listing.%s.%s", entity, action),
		Entity:     entity,
		EntityID:   id,
		Name:       name,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher is what the services need from a producer.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, event Event) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer messageWriter
	Logger *logger.Logger
}

func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &Producer{Writer: writer, Logger: log}
}

// Publish writes a raw message to topic.
func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

// PublishEvent streams a listing event keyed by entity id, so every change to
// one entity lands on the same partition.
func (p *Producer) PublishEvent(ctx context.Context, topic string, event Event) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.Publish(ctx, topic, strconv.FormatInt(event.EntityID, 10), msgBytes); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, topic, err)
	}
	p.Logger.LogKafka("PUBLISH", topic, event.Type)
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NoopPublisher drops events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(context.Context, string, Event) error { return nil }

// Notify publishes after a committed change. Failures are logged and never
// returned; a listing change must not fail because the broker is down.
func Notify(ctx context.Context, pub Publisher, log *logger.Logger, topic string, event Event) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, topic, event); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Failed to publish %s: %v", event.Type, err))
	}
}
