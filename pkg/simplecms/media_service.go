package simplecms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
)

// sniffLen is how much of an upload is buffered for type detection.
const sniffLen = 3072

// sizeLimitReader fails with ErrFileTooLarge once more than max bytes are read.
type sizeLimitReader struct {
	r   io.Reader
	n   int64
	max int64
}

func (l *sizeLimitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		return n, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, l.max)
	}
	return n, err
}

// reservedMetadataKeys are written by the image pipeline and cannot be set
// by clients.
var reservedMetadataKeys = map[string]bool{
	MetadataThumbnailPath: true,
	MetadataThumbnailURL:  true,
}

func validateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("filename", "must not be empty")
	}
	if utf8.RuneCountInString(name) > maxFilenameLen {
		return invalid("filename", "must be at most %d characters", maxFilenameLen)
	}
	return nil
}

func (s *service) UploadMedia(ctx context.Context, p *auth.Principal, req UploadMediaRequest) (*Media, error) {
	if err := auth.RequireActive(p); err != nil {
		return nil, err
	}
	if !req.MediaType.IsValid() {
		return nil, invalid("media_type", "unknown media type %q", req.MediaType)
	}
	if err := validateFilename(req.Filename); err != nil {
		return nil, err
	}
	if req.Reader == nil {
		return nil, invalid("file", "is required")
	}
	for k := range req.Metadata {
		if reservedMetadataKeys[k] {
			return nil, invalid("metadata", "%q is managed by the media pipeline", k)
		}
	}
	if req.MimeType != "" && !IsAllowedMimeType(req.MediaType, req.MimeType) {
		return nil, fmt.Errorf("%w: %s is not allowed for %s", ErrInvalidFileType, baseMimeType(req.MimeType), req.MediaType)
	}
	if req.ContentID != nil {
		if _, err := s.loadContentForMutation(ctx, p, *req.ContentID); err != nil {
			return nil, err
		}
	}
	if s.blobStore == nil {
		return nil, ErrNoBlobStore
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(req.Reader, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, invalid("file", "must not be empty")
	}

	detected, err := sniffMimeType(req.MediaType, head)
	if err != nil {
		return nil, err
	}
	mimeType := detected
	if req.MimeType != "" {
		mimeType = baseMimeType(req.MimeType)
	}

	body := &sizeLimitReader{
		r:   io.MultiReader(bytes.NewReader(head), req.Reader),
		max: MaxFileSize(req.MediaType),
	}
	locator, url, err := s.blobStore.Save(ctx, body, storageFilename(req.Filename, detected), mimeType)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, fmt.Errorf("%w: limit for %s is %d bytes", ErrFileTooLarge, req.MediaType, body.max)
		}
		return nil, &StorageError{Backend: s.storeName, Key: req.Filename, Op: "save", Err: err}
	}

	blobs := []string{locator}
	if err := ctx.Err(); err != nil {
		s.discardBlobs(ctx, blobs)
		return nil, err
	}

	now := s.now()
	media := &Media{
		ID:          uuid.New(),
		ContentID:   req.ContentID,
		MediaType:   req.MediaType,
		Filename:    req.Filename,
		URL:         url,
		StoragePath: locator,
		FileSize:    body.n,
		MimeType:    mimeType,
		Metadata:    copyMetadata(req.Metadata),
		UploadedBy:  p.ID,
		CreatedAt:   now,
	}

	if req.MediaType == MediaTypeImage && s.processor != nil {
		if thumb := s.processImage(ctx, media); thumb != "" {
			blobs = append(blobs, thumb)
		}
		if err := ctx.Err(); err != nil {
			s.discardBlobs(ctx, blobs)
			return nil, err
		}
	}

	if err := s.repository.CreateMedia(ctx, media); err != nil {
		s.discardBlobs(ctx, blobs)
		return nil, &MediaError{MediaID: media.ID, Op: "create", Err: err}
	}

	s.emit(ctx, "media.uploaded", func(sink EventSink) error { return sink.MediaUploaded(ctx, media) })
	return media, nil
}

// processImage runs the derivative pipeline under the configured timeout and
// records its output on media. Failures leave the upload as stored. It
// returns the thumbnail locator, if one was written.
func (s *service) processImage(ctx context.Context, media *Media) string {
	pctx, cancel := context.WithTimeout(ctx, s.imageTimeout)
	defer cancel()

	result, err := s.processor.Process(pctx, s.blobStore, media.StoragePath)
	if err != nil {
		s.logger.WarnContext(ctx, "image processing failed", "media_id", media.ID, "path", media.StoragePath, "err", err)
		return ""
	}
	if result.Size > 0 {
		media.FileSize = result.Size
	}
	if result.Width > 0 && result.Height > 0 {
		width, height := result.Width, result.Height
		media.Width = &width
		media.Height = &height
	}
	if result.Thumbnail == nil {
		return ""
	}
	media.Metadata[MetadataThumbnailPath] = result.Thumbnail.Locator
	media.Metadata[MetadataThumbnailURL] = result.Thumbnail.URL
	return result.Thumbnail.Locator
}

// discardBlobs removes blobs written for an upload that did not complete.
func (s *service) discardBlobs(ctx context.Context, locators []string) {
	ctx = context.WithoutCancel(ctx)
	for _, locator := range locators {
		if _, err := s.blobStore.Delete(ctx, locator); err != nil {
			s.logger.WarnContext(ctx, "failed to discard blob", "backend", s.storeName, "path", locator, "err", err)
		}
	}
}

func (s *service) GetMedia(ctx context.Context, id uuid.UUID) (*Media, error) {
	return s.repository.GetMedia(ctx, id)
}

// OpenMedia returns the record and its stored bytes. The caller closes the reader.
func (s *service) OpenMedia(ctx context.Context, id uuid.UUID) (*Media, io.ReadCloser, error) {
	media, err := s.repository.GetMedia(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.blobStore == nil {
		return nil, nil, ErrNoBlobStore
	}
	rc, err := s.blobStore.Open(ctx, media.StoragePath)
	if err != nil {
		return nil, nil, &StorageError{Backend: s.storeName, Key: media.StoragePath, Op: "open", Err: err}
	}
	return media, rc, nil
}

func (s *service) ListMediaForContent(ctx context.Context, contentID uuid.UUID, mediaType *MediaType) ([]*Media, error) {
	if mediaType != nil && !mediaType.IsValid() {
		return nil, invalid("media_type", "unknown media type %q", *mediaType)
	}
	items, _, err := s.repository.ListMedia(ctx, MediaFilter{
		MediaType: mediaType,
		ContentID: &contentID,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Media{}
	}
	return items, nil
}

func (s *service) ListMedia(ctx context.Context, req ListMediaRequest) (*Page[*Media], error) {
	if req.MediaType != nil && !req.MediaType.IsValid() {
		return nil, invalid("media_type", "unknown media type %q", *req.MediaType)
	}
	page, pageSize := NormalizePage(req.Page, req.PageSize, DefaultMediaPageSize)
	items, total, err := s.repository.ListMedia(ctx, MediaFilter{
		MediaType:  req.MediaType,
		UploadedBy: req.UploadedBy,
		ContentID:  req.ContentID,
		Offset:     Offset(page, pageSize),
		Limit:      pageSize,
	})
	if err != nil {
		return nil, err
	}
	return NewPage(items, total, page, pageSize), nil
}

func (s *service) loadMediaForMutation(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Media, error) {
	if err := auth.RequireActive(p); err != nil {
		return nil, err
	}
	media, err := s.repository.GetMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, &media.UploadedBy, "media"); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *service) UpdateMedia(ctx context.Context, p *auth.Principal, id uuid.UUID, req UpdateMediaRequest) (*Media, error) {
	media, err := s.loadMediaForMutation(ctx, p, id)
	if err != nil {
		return nil, err
	}
	updated := *media

	if req.ContentID != nil {
		if _, err := s.loadContentForMutation(ctx, p, *req.ContentID); err != nil {
			return nil, err
		}
		contentID := *req.ContentID
		updated.ContentID = &contentID
	}
	if req.Filename != nil {
		if err := validateFilename(*req.Filename); err != nil {
			return nil, err
		}
		updated.Filename = *req.Filename
	}
	for _, dim := range []struct {
		field string
		value *int
		dst   **int
	}{
		{"width", req.Width, &updated.Width},
		{"height", req.Height, &updated.Height},
		{"duration", req.Duration, &updated.Duration},
	} {
		if dim.value == nil {
			continue
		}
		if *dim.value < 0 {
			return nil, invalid(dim.field, "must not be negative")
		}
		v := *dim.value
		*dim.dst = &v
	}
	if req.Metadata != nil {
		// Metadata merges; a nil value removes the key.
		merged := copyMetadata(media.Metadata)
		for k, v := range req.Metadata {
			if reservedMetadataKeys[k] {
				return nil, invalid("metadata", "%q is managed by the media pipeline", k)
			}
			if v == nil {
				delete(merged, k)
				continue
			}
			merged[k] = v
		}
		updated.Metadata = merged
	}

	if err := s.repository.UpdateMedia(ctx, &updated); err != nil {
		return nil, &MediaError{MediaID: id, Op: "update", Err: err}
	}
	return &updated, nil
}

func (s *service) DeleteMedia(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	media, err := s.loadMediaForMutation(ctx, p, id)
	if err != nil {
		return err
	}

	if s.blobStore != nil {
		locators := []string{media.StoragePath}
		// Only the derivative the pipeline wrote for this upload is removed.
		if thumb, ok := media.Metadata[MetadataThumbnailPath].(string); ok && thumb == objectkey.ThumbnailKey(media.StoragePath) {
			locators = append(locators, thumb)
		}
		for _, locator := range locators {
			if _, err := s.blobStore.Delete(ctx, locator); err != nil {
				s.logger.WarnContext(ctx, "failed to delete media file", "media_id", id, "path", locator, "err", err)
			}
		}
	}

	if err := s.repository.DeleteMedia(ctx, id); err != nil {
		return &MediaError{MediaID: id, Op: "delete", Err: err}
	}

	s.emit(ctx, "media.deleted", func(sink EventSink) error { return sink.MediaDeleted(ctx, id) })
	return nil
}
