package simplecms

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatus is the publication state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusReview    ContentStatus = "review"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// ContentType classifies content items.
type ContentType string

const (
	ContentTypeStory         ContentType = "story"
	ContentTypeUpdate        ContentType = "update"
	ContentTypeTestimonial   ContentType = "testimonial"
	ContentTypePrayerRequest ContentType = "prayer_request"
	ContentTypeBlogPost      ContentType = "blog_post"
)

// TranslationStatus is the workflow state of a translation.
type TranslationStatus string

const (
	TranslationStatusPending    TranslationStatus = "pending"
	TranslationStatusInProgress TranslationStatus = "in_progress"
	TranslationStatusCompleted  TranslationStatus = "completed"
	TranslationStatusReviewed   TranslationStatus = "reviewed"
)

// MediaType classifies uploaded media.
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeAudio    MediaType = "audio"
	MediaTypeDocument MediaType = "document"
)

// Metadata keys written by the media pipeline.
const (
	MetadataThumbnailPath = "thumbnail_path"
	MetadataThumbnailURL  = "thumbnail_url"
)

// Content is an authored item in a single language.
type Content struct {
	ID               uuid.UUID              `json:"id"`
	Title            string                 `json:"title"`
	Slug             string                 `json:"slug"`
	Body             string                 `json:"body"`
	ContentType      ContentType            `json:"content_type"`
	Status           ContentStatus          `json:"status"`
	AuthorID         uuid.UUID              `json:"author_id"`
	Language         string                 `json:"language"`
	FeaturedImageURL string                 `json:"featured_image_url,omitempty"`
	Tags             []string               `json:"tags"`
	Metadata         map[string]interface{} `json:"metadata"`
	PublishedAt      *time.Time             `json:"published_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Translation is a per-language variant of a Content item.
type Translation struct {
	ID              uuid.UUID         `json:"id"`
	ContentID       uuid.UUID         `json:"content_id"`
	Language        string            `json:"language"`
	TranslatedTitle string            `json:"translated_title"`
	TranslatedBody  string            `json:"translated_body"`
	TranslatedSlug  string            `json:"translated_slug"`
	TranslatorID    *uuid.UUID        `json:"translator_id,omitempty"`
	Status          TranslationStatus `json:"translation_status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Media is an uploaded file, optionally attached to a Content item.
type Media struct {
	ID          uuid.UUID              `json:"id"`
	ContentID   *uuid.UUID             `json:"content_id,omitempty"`
	MediaType   MediaType              `json:"media_type"`
	Filename    string                 `json:"filename"`
	URL         string                 `json:"url"`
	StoragePath string                 `json:"storage_path"`
	FileSize    int64                  `json:"file_size"`
	MimeType    string                 `json:"mime_type"`
	Width       *int                   `json:"width,omitempty"`
	Height      *int                   `json:"height,omitempty"`
	Duration    *int                   `json:"duration,omitempty"`
	Metadata    map[string]interface{} `json:"metadata"`
	UploadedBy  uuid.UUID              `json:"uploaded_by"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Page is one slice of a filtered listing.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Pages    int `json:"pages"`
}

// AvailableLanguages reports which supported languages a content item can be
// read in and which are still missing.
type AvailableLanguages struct {
	ContentID uuid.UUID `json:"content_id"`
	Available []string  `json:"available_languages"`
	Missing   []string  `json:"missing_languages"`
}

// IsValid reports whether s is a known content status.
func (s ContentStatus) IsValid() bool {
	_, ok := contentTransitions[s]
	return ok
}

// IsValid reports whether s is a known translation status.
func (s TranslationStatus) IsValid() bool {
	_, ok := translationTransitions[s]
	return ok
}

// IsPublic reports whether a translation in this status may be shown to
// anonymous readers.
func (s TranslationStatus) IsPublic() bool {
	return s == TranslationStatusCompleted || s == TranslationStatusReviewed
}

// IsValid reports whether t is a known content type.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeStory, ContentTypeUpdate, ContentTypeTestimonial, ContentTypePrayerRequest, ContentTypeBlogPost:
		return true
	}
	return false
}

// IsValid reports whether t is a known media type.
func (t MediaType) IsValid() bool {
	_, ok := mediaRules[t]
	return ok
}
