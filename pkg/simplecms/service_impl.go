package simplecms

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultImageProcessingTimeout bounds the derivative pipeline per upload.
const DefaultImageProcessingTimeout = 30 * time.Second

// service implements the Service interface
type service struct {
	repository   Repository
	blobStore    BlobStore
	storeName    string
	processor    ImageProcessor
	imageTimeout time.Duration
	eventSink    EventSink
	logger       *slog.Logger
	now          Clock
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob store media are written to
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		s.storeName = name
		s.blobStore = store
	}
}

// WithImageProcessor enables the derivative pipeline for image uploads. A
// non-positive timeout selects DefaultImageProcessingTimeout.
func WithImageProcessor(processor ImageProcessor, timeout time.Duration) Option {
	return func(s *service) {
		s.processor = processor
		if timeout > 0 {
			s.imageTimeout = timeout
		}
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger for best-effort failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source
func WithClock(clock Clock) Option {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		imageTimeout: DefaultImageProcessingTimeout,
		eventSink:    NewNoopEventSink(),
		logger:       slog.Default(),
		now:          func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// emit delivers an event; failures are logged and never surfaced.
func (s *service) emit(ctx context.Context, event string, fire func(EventSink) error) {
	if s.eventSink == nil {
		return
	}
	if err := fire(s.eventSink); err != nil {
		s.logger.WarnContext(ctx, "event delivery failed", "event", event, "err", err)
	}
}
