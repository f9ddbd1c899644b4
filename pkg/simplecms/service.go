package simplecms

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

// ContentService manages content items and their publication workflow.
//
// Every method takes the calling principal; nil means an anonymous caller.
type ContentService interface {
	CreateContent(ctx context.Context, p *auth.Principal, req CreateContentRequest) (*Content, error)
	GetContent(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Content, error)
	GetContentBySlug(ctx context.Context, p *auth.Principal, slug, language string) (*Content, error)
	ListContent(ctx context.Context, p *auth.Principal, req ListContentRequest) (*Page[*Content], error)
	// ListMyContent lists the caller's own content in every status.
	ListMyContent(ctx context.Context, p *auth.Principal, req ListContentRequest) (*Page[*Content], error)
	UpdateContent(ctx context.Context, p *auth.Principal, id uuid.UUID, req UpdateContentRequest) (*Content, error)
	// DeleteContent archives the content; the record is kept.
	DeleteContent(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Content, error)
	ChangeContentStatus(ctx context.Context, p *auth.Principal, id uuid.UUID, status ContentStatus) (*Content, error)
	PublishContent(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Content, error)
	// PurgeContent physically removes content and its translations and
	// detaches its media. Superusers only.
	PurgeContent(ctx context.Context, p *auth.Principal, id uuid.UUID) error
}

// TranslationService manages per-language translations of content.
type TranslationService interface {
	CreateTranslation(ctx context.Context, p *auth.Principal, req CreateTranslationRequest) (*Translation, error)
	GetTranslation(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Translation, error)
	GetTranslationByLanguage(ctx context.Context, p *auth.Principal, contentID uuid.UUID, language string) (*Translation, error)
	ListTranslations(ctx context.Context, p *auth.Principal, contentID uuid.UUID, status *TranslationStatus) ([]*Translation, error)
	UpdateTranslation(ctx context.Context, p *auth.Principal, id uuid.UUID, req UpdateTranslationRequest) (*Translation, error)
	DeleteTranslation(ctx context.Context, p *auth.Principal, id uuid.UUID) error
	ChangeTranslationStatus(ctx context.Context, p *auth.Principal, id uuid.UUID, status TranslationStatus) (*Translation, error)
	// BulkCreatePlaceholders creates pending translations for every language
	// that does not have one yet and returns only the new records.
	BulkCreatePlaceholders(ctx context.Context, p *auth.Principal, contentID uuid.UUID, languages []string) ([]*Translation, error)
	AvailableLanguages(ctx context.Context, p *auth.Principal, contentID uuid.UUID) (*AvailableLanguages, error)
}

// MediaService manages uploaded media files.
type MediaService interface {
	UploadMedia(ctx context.Context, p *auth.Principal, req UploadMediaRequest) (*Media, error)
	GetMedia(ctx context.Context, id uuid.UUID) (*Media, error)
	OpenMedia(ctx context.Context, id uuid.UUID) (*Media, io.ReadCloser, error)
	ListMediaForContent(ctx context.Context, contentID uuid.UUID, mediaType *MediaType) ([]*Media, error)
	ListMedia(ctx context.Context, req ListMediaRequest) (*Page[*Media], error)
	UpdateMedia(ctx context.Context, p *auth.Principal, id uuid.UUID, req UpdateMediaRequest) (*Media, error)
	DeleteMedia(ctx context.Context, p *auth.Principal, id uuid.UUID) error
}

// Service is the main interface for the content management core.
type Service interface {
	ContentService
	TranslationService
	MediaService
}
