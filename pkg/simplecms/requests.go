package simplecms

import (
	"io"

	"github.com/google/uuid"
)

// CreateContentRequest contains parameters for creating content
type CreateContentRequest struct {
	Title            string
	Slug             string
	Body             string
	ContentType      ContentType
	Language         string // defaults to "en"
	FeaturedImageURL string
	Tags             []string
	Metadata         map[string]interface{}
	Status           ContentStatus // defaults to draft
}

// UpdateContentRequest is a partial update: nil fields are left unchanged.
// A non-nil empty Tags or Metadata clears the field.
type UpdateContentRequest struct {
	Title            *string
	Slug             *string
	Body             *string
	ContentType      *ContentType
	Status           *ContentStatus
	Language         *string
	FeaturedImageURL *string
	Tags             []string
	Metadata         map[string]interface{}
}

// ListContentRequest contains filters for listing content
type ListContentRequest struct {
	ContentType *ContentType
	Status      *ContentStatus
	Language    string
	Tags        []string
	AuthorID    *uuid.UUID
	Search      string
	Page        int
	PageSize    int
}

// CreateTranslationRequest contains parameters for creating a translation
type CreateTranslationRequest struct {
	ContentID       uuid.UUID
	Language        string
	TranslatedTitle string
	TranslatedBody  string
	TranslatedSlug  string
	Status          TranslationStatus // defaults to pending
	// TranslatorID is honored for superusers; everyone else translates as themselves.
	TranslatorID *uuid.UUID
}

// UpdateTranslationRequest is a partial update: nil fields are left unchanged.
type UpdateTranslationRequest struct {
	Language        *string
	TranslatedTitle *string
	TranslatedBody  *string
	TranslatedSlug  *string
	Status          *TranslationStatus
	TranslatorID    *uuid.UUID
}

// UploadMediaRequest contains an upload and its declared type
type UploadMediaRequest struct {
	MediaType MediaType
	Filename  string
	// MimeType is the client-declared content type; empty skips the check
	// and the sniffed type is recorded instead.
	MimeType  string
	Reader    io.Reader
	ContentID *uuid.UUID
	Metadata  map[string]interface{}
}

// UpdateMediaRequest is a partial update: nil fields are left unchanged.
type UpdateMediaRequest struct {
	ContentID *uuid.UUID
	Filename  *string
	Width     *int
	Height    *int
	Duration  *int
	Metadata  map[string]interface{}
}

// ListMediaRequest contains filters for listing media
type ListMediaRequest struct {
	MediaType  *MediaType
	UploadedBy *uuid.UUID
	ContentID  *uuid.UUID
	Page       int
	PageSize   int
}
