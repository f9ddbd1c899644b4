package simplecms

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink discards every event.
type NoopEventSink struct{}

// NewNoopEventSink creates an event sink that does nothing
func NewNoopEventSink() *NoopEventSink {
	return &NoopEventSink{}
}

func (NoopEventSink) ContentCreated(context.Context, *Content) error {
	return nil
}

func (NoopEventSink) ContentUpdated(context.Context, *Content) error {
	return nil
}

func (NoopEventSink) ContentStatusChanged(context.Context, *Content, ContentStatus) error {
	return nil
}

func (NoopEventSink) ContentDeleted(context.Context, uuid.UUID) error {
	return nil
}

func (NoopEventSink) TranslationCreated(context.Context, *Translation) error {
	return nil
}

func (NoopEventSink) TranslationStatusChanged(context.Context, *Translation, TranslationStatus) error {
	return nil
}

func (NoopEventSink) MediaUploaded(context.Context, *Media) error {
	return nil
}

func (NoopEventSink) MediaDeleted(context.Context, uuid.UUID) error {
	return nil
}

// LoggingEventSink writes each event as a structured log record.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates an event sink that logs at info level
func NewLoggingEventSink(logger *slog.Logger) *LoggingEventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) ContentCreated(ctx context.Context, c *Content) error {
	l.logger.InfoContext(ctx, "content created", "content_id", c.ID, "slug", c.Slug, "language", c.Language, "author_id", c.AuthorID)
	return nil
}

func (l *LoggingEventSink) ContentUpdated(ctx context.Context, c *Content) error {
	l.logger.InfoContext(ctx, "content updated", "content_id", c.ID)
	return nil
}

func (l *LoggingEventSink) ContentStatusChanged(ctx context.Context, c *Content, from ContentStatus) error {
	l.logger.InfoContext(ctx, "content status changed", "content_id", c.ID, "from", from, "to", c.Status)
	return nil
}

func (l *LoggingEventSink) ContentDeleted(ctx context.Context, id uuid.UUID) error {
	l.logger.InfoContext(ctx, "content deleted", "content_id", id)
	return nil
}

func (l *LoggingEventSink) TranslationCreated(ctx context.Context, t *Translation) error {
	l.logger.InfoContext(ctx, "translation created", "translation_id", t.ID, "content_id", t.ContentID, "language", t.Language)
	return nil
}

func (l *LoggingEventSink) TranslationStatusChanged(ctx context.Context, t *Translation, from TranslationStatus) error {
	l.logger.InfoContext(ctx, "translation status changed", "translation_id", t.ID, "from", from, "to", t.Status)
	return nil
}

func (l *LoggingEventSink) MediaUploaded(ctx context.Context, m *Media) error {
	l.logger.InfoContext(ctx, "media uploaded", "media_id", m.ID, "media_type", m.MediaType, "size", m.FileSize)
	return nil
}

func (l *LoggingEventSink) MediaDeleted(ctx context.Context, id uuid.UUID) error {
	l.logger.InfoContext(ctx, "media deleted", "media_id", id)
	return nil
}
