package simplecms

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Repository defines the record store used by the service.
//
// Implementations enforce the (slug, language) uniqueness of Content and the
// (content_id, language) uniqueness of Translation themselves and report
// violations as ErrConflict; the service's pre-checks are advisory only.
type Repository interface {
	// Content operations
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentBySlug(ctx context.Context, slug, language string) (*Content, error)
	UpdateContent(ctx context.Context, content *Content) error
	// DeleteContent removes the record, its translations, and nulls the
	// content reference on attached media.
	DeleteContent(ctx context.Context, id uuid.UUID) error
	ListContent(ctx context.Context, filter ContentFilter) ([]*Content, int, error)

	// Translation operations
	CreateTranslation(ctx context.Context, translation *Translation) error
	GetTranslation(ctx context.Context, id uuid.UUID) (*Translation, error)
	GetTranslationByLanguage(ctx context.Context, contentID uuid.UUID, language string) (*Translation, error)
	ListTranslations(ctx context.Context, contentID uuid.UUID, status *TranslationStatus) ([]*Translation, error)
	UpdateTranslation(ctx context.Context, translation *Translation) error
	DeleteTranslation(ctx context.Context, id uuid.UUID) error

	// Media operations
	CreateMedia(ctx context.Context, media *Media) error
	GetMedia(ctx context.Context, id uuid.UUID) (*Media, error)
	ListMedia(ctx context.Context, filter MediaFilter) ([]*Media, int, error)
	UpdateMedia(ctx context.Context, media *Media) error
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

// ContentFilter selects content for ListContent. Zero-valued fields do not
// filter. Results are ordered by published_at descending with nulls last,
// then updated_at descending.
type ContentFilter struct {
	ContentType *ContentType
	Statuses    []ContentStatus
	Language    string
	// Tags matches content carrying any of the tags.
	Tags     []string
	AuthorID *uuid.UUID
	// Search is a case-insensitive substring match over title and body.
	Search string
	Offset int
	Limit  int
}

// MediaFilter selects media for ListMedia. Results are ordered by created_at
// descending.
type MediaFilter struct {
	MediaType  *MediaType
	UploadedBy *uuid.UUID
	ContentID  *uuid.UUID
	Offset     int
	Limit      int
}

// BlobStore defines the interface for storage backends
type BlobStore interface {
	// Save stores the payload under a fresh locator derived from originalName
	Save(ctx context.Context, reader io.Reader, originalName, mimeType string) (locator string, url string, err error)

	// Put stores the payload under an explicit locator, replacing any existing blob
	Put(ctx context.Context, locator string, reader io.Reader, mimeType string) (url string, err error)

	// Open returns a reader for a stored blob
	Open(ctx context.Context, locator string) (io.ReadCloser, error)

	// Delete removes a blob and reports whether it existed
	Delete(ctx context.Context, locator string) (bool, error)

	// ResolvePath maps a locator to the backend's filesystem path or object URI
	ResolvePath(locator string) string
}

// Derivative is one processed image written back to storage.
type Derivative struct {
	Locator string
	URL     string
	Width   int
	Height  int
}

// ImageResult describes the outcome of the derivative pipeline.
type ImageResult struct {
	// Width and Height of the stored original after normalization
	Width  int
	Height int
	// Size is the byte length of the re-encoded original
	Size int64
	// Thumbnail is nil when no thumbnail could be produced
	Thumbnail *Derivative
}

// ImageProcessor is the image derivative engine. It rewrites the original at
// locator (normalized color, bounded size, fixed quality) and writes a
// thumbnail next to it.
type ImageProcessor interface {
	Process(ctx context.Context, store BlobStore, locator string) (*ImageResult, error)
}

// EventSink receives lifecycle notifications. Failures are logged by the
// service and never fail the originating operation.
type EventSink interface {
	ContentCreated(ctx context.Context, content *Content) error
	ContentUpdated(ctx context.Context, content *Content) error
	ContentStatusChanged(ctx context.Context, content *Content, from ContentStatus) error
	ContentDeleted(ctx context.Context, contentID uuid.UUID) error
	TranslationCreated(ctx context.Context, translation *Translation) error
	TranslationStatusChanged(ctx context.Context, translation *Translation, from TranslationStatus) error
	MediaUploaded(ctx context.Context, media *Media) error
	MediaDeleted(ctx context.Context, mediaID uuid.UUID) error
}

// Clock returns the current time. Overridable for tests.
type Clock func() time.Time
