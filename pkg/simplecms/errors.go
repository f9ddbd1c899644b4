package simplecms

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/language"
)

// Error types
var (
	// ErrUnauthenticated indicates a missing or invalid credential
	ErrUnauthenticated = auth.ErrUnauthenticated

	// ErrForbidden indicates the principal may not perform the operation
	ErrForbidden = auth.ErrForbidden

	// ErrNotFound indicates a record is absent or hidden from the caller
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition indicates a workflow state machine rejected a move
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnsupportedLanguage indicates a language code outside the registry
	ErrUnsupportedLanguage = language.ErrUnsupported

	// ErrInvalidFileType indicates a payload that does not match its declared media type
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrValidation indicates malformed input
	ErrValidation = errors.New("validation failed")

	ErrContentNotFound     = fmt.Errorf("content %w", ErrNotFound)
	ErrTranslationNotFound = fmt.Errorf("translation %w", ErrNotFound)
	ErrMediaNotFound       = fmt.Errorf("media %w", ErrNotFound)
	ErrBlobNotFound        = fmt.Errorf("blob %w", ErrNotFound)

	// ErrNoBlobStore is returned by uploads when no storage backend is configured
	ErrNoBlobStore = errors.New("no blob store configured")

	// ErrFileTooLarge indicates an upload over the per-type size limit
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrValidation)
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// TranslationError represents an error related to translation operations
type TranslationError struct {
	TranslationID uuid.UUID
	Op            string
	Err           error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation operation %s failed for translation %s: %v", e.Op, e.TranslationID, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// MediaError represents an error related to media operations
type MediaError struct {
	MediaID uuid.UUID
	Op      string
	Err     error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media operation %s failed for media %s: %v", e.Op, e.MediaID, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
