// Package kafka publishes lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Event types written to the topic.
const (
	EventContentCreated           = "content.created"
	EventContentUpdated           = "content.updated"
	EventContentStatusChanged     = "content.status_changed"
	EventContentDeleted           = "content.deleted"
	EventTranslationCreated       = "translation.created"
	EventTranslationStatusChanged = "translation.status_changed"
	EventMediaUploaded            = "media.uploaded"
	EventMediaDeleted             = "media.deleted"
)

// Event is the JSON envelope of every message. The message key is SubjectID.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       string      `json:"type"`
	SubjectID  uuid.UUID   `json:"subject_id"`
	From       string      `json:"from,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

// Writer is the subset of *kafka.Writer used by the sink.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ simplecms.EventSink = (*Sink)(nil)

// Sink implements simplecms.EventSink on top of a Kafka writer.
type Sink struct {
	writer Writer
	now    func() time.Time
}

// NewSink creates a sink writing to topic on brokers
func NewSink(brokers []string, topic string) (*Sink, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	return NewSinkWithWriter(w), nil
}

// NewSinkWithWriter wraps an existing writer
func NewSinkWithWriter(w Writer) *Sink {
	return &Sink{writer: w, now: func() time.Time { return time.Now().UTC() }}
}

// Close flushes and closes the writer
func (s *Sink) Close() error { return s.writer.Close() }

func (s *Sink) publish(ctx context.Context, eventType string, subject uuid.UUID, from string, data interface{}) error {
	event := Event{
		ID:         uuid.New(),
		Type:       eventType,
		SubjectID:  subject,
		From:       from,
		OccurredAt: s.now(),
		Data:       data,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}
	msg := kafka.Message{
		Key:   []byte(subject.String()),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

func (s *Sink) ContentCreated(ctx context.Context, c *simplecms.Content) error {
	return s.publish(ctx, EventContentCreated, c.ID, "", c)
}

func (s *Sink) ContentUpdated(ctx context.Context, c *simplecms.Content) error {
	return s.publish(ctx, EventContentUpdated, c.ID, "", c)
}

func (s *Sink) ContentStatusChanged(ctx context.Context, c *simplecms.Content, from simplecms.ContentStatus) error {
	return s.publish(ctx, EventContentStatusChanged, c.ID, string(from), c)
}

func (s *Sink) ContentDeleted(ctx context.Context, id uuid.UUID) error {
	return s.publish(ctx, EventContentDeleted, id, "", nil)
}

func (s *Sink) TranslationCreated(ctx context.Context, t *simplecms.Translation) error {
	return s.publish(ctx, EventTranslationCreated, t.ID, "", t)
}

func (s *Sink) TranslationStatusChanged(ctx context.Context, t *simplecms.Translation, from simplecms.TranslationStatus) error {
	return s.publish(ctx, EventTranslationStatusChanged, t.ID, string(from), t)
}

func (s *Sink) MediaUploaded(ctx context.Context, m *simplecms.Media) error {
	return s.publish(ctx, EventMediaUploaded, m.ID, "", m)
}

func (s *Sink) MediaDeleted(ctx context.Context, id uuid.UUID) error {
	return s.publish(ctx, EventMediaDeleted, id, "", nil)
}
