package simplecms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

func (s *service) CreateContent(ctx context.Context, p *auth.Principal, req CreateContentRequest) (*Content, error) {
	if err := auth.RequireActive(p); err != nil {
		return nil, err
	}

	lang, err := contentLanguage(req.Language)
	if err != nil {
		return nil, err
	}
	if err := validateTitle("title", req.Title); err != nil {
		return nil, err
	}
	if err := validateSlug("slug", req.Slug); err != nil {
		return nil, err
	}
	if err := validateBody("body", req.Body); err != nil {
		return nil, err
	}
	if !req.ContentType.IsValid() {
		return nil, invalid("content_type", "unknown content type %q", req.ContentType)
	}
	if err := validateFeaturedImageURL(req.FeaturedImageURL); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = ContentStatusDraft
	}
	if err := validateInitialContentStatus(status); err != nil {
		return nil, err
	}

	if _, err := s.repository.GetContentBySlug(ctx, req.Slug, lang); err == nil {
		return nil, fmt.Errorf("%w: content with slug %q already exists for language %q", ErrConflict, req.Slug, lang)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now()
	content := &Content{
		ID:               uuid.New(),
		Title:            req.Title,
		Slug:             req.Slug,
		Body:             req.Body,
		ContentType:      req.ContentType,
		Status:           status,
		AuthorID:         p.ID,
		Language:         lang,
		FeaturedImageURL: req.FeaturedImageURL,
		Tags:             normalizeTags(req.Tags),
		Metadata:         copyMetadata(req.Metadata),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if status == ContentStatusPublished {
		content.PublishedAt = &now
	}

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	s.emit(ctx, "content.created", func(sink EventSink) error { return sink.ContentCreated(ctx, content) })
	return content, nil
}

func (s *service) GetContent(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Content, error) {
	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewContent(p, content) {
		return nil, ErrContentNotFound
	}
	return content, nil
}

func (s *service) GetContentBySlug(ctx context.Context, p *auth.Principal, slug, language string) (*Content, error) {
	lang, err := contentLanguage(language)
	if err != nil {
		return nil, err
	}
	content, err := s.repository.GetContentBySlug(ctx, slug, lang)
	if err != nil {
		return nil, err
	}
	if !canViewContent(p, content) {
		return nil, ErrContentNotFound
	}
	return content, nil
}

func (s *service) ListContent(ctx context.Context, p *auth.Principal, req ListContentRequest) (*Page[*Content], error) {
	page, pageSize := NormalizePage(req.Page, req.PageSize, DefaultContentPageSize)

	filter := ContentFilter{
		ContentType: req.ContentType,
		Tags:        normalizeTags(req.Tags),
		AuthorID:    req.AuthorID,
		Search:      req.Search,
		Offset:      Offset(page, pageSize),
		Limit:       pageSize,
	}
	if req.ContentType != nil && !req.ContentType.IsValid() {
		return nil, invalid("content_type", "unknown content type %q", *req.ContentType)
	}
	if req.Language != "" {
		lang, err := contentLanguage(req.Language)
		if err != nil {
			return nil, err
		}
		filter.Language = lang
	}

	privileged := p.IsSuperuser() || (req.AuthorID != nil && p.Is(*req.AuthorID))
	switch {
	case req.Status == nil && !privileged:
		filter.Statuses = []ContentStatus{ContentStatusPublished}
	case req.Status == nil:
	case !req.Status.IsValid():
		return nil, invalid("status", "unknown content status %q", *req.Status)
	default:
		filter.Statuses = []ContentStatus{*req.Status}
		if *req.Status != ContentStatusPublished && !privileged {
			// Unpublished content of others stays hidden; narrow to the
			// caller's own records.
			if p == nil || req.AuthorID != nil {
				return NewPage[*Content](nil, 0, page, pageSize), nil
			}
			self := p.ID
			filter.AuthorID = &self
		}
	}

	items, total, err := s.repository.ListContent(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return NewPage(items, total, page, pageSize), nil
}

func (s *service) ListMyContent(ctx context.Context, p *auth.Principal, req ListContentRequest) (*Page[*Content], error) {
	if err := auth.RequireActive(p); err != nil {
		return nil, err
	}
	self := p.ID
	req.AuthorID = &self
	return s.ListContent(ctx, p, req)
}

// loadContentForMutation fetches content and checks the caller may change it.
func (s *service) loadContentForMutation(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Content, error) {
	if err := auth.RequireActive(p); err != nil {
		return nil, err
	}
	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, &content.AuthorID, "content"); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *service) UpdateContent(ctx context.Context, p *auth.Principal, id uuid.UUID, req UpdateContentRequest) (*Content, error) {
	content, err := s.loadContentForMutation(ctx, p, id)
	if err != nil {
		return nil, err
	}
	updated := *content
	previousStatus := content.Status

	if req.Title != nil {
		if err := validateTitle("title", *req.Title); err != nil {
			return nil, err
		}
		updated.Title = *req.Title
	}
	if req.Slug != nil {
		if err := validateSlug("slug", *req.Slug); err != nil {
			return nil, err
		}
		updated.Slug = *req.Slug
	}
	if req.Body != nil {
		if err := validateBody("body", *req.Body); err != nil {
			return nil, err
		}
		updated.Body = *req.Body
	}
	if req.ContentType != nil {
		if !req.ContentType.IsValid() {
			return nil, invalid("content_type", "unknown content type %q", *req.ContentType)
		}
		updated.ContentType = *req.ContentType
	}
	if req.Language != nil {
		lang, err := contentLanguage(*req.Language)
		if err != nil {
			return nil, err
		}
		updated.Language = lang
	}
	if req.FeaturedImageURL != nil {
		if err := validateFeaturedImageURL(*req.FeaturedImageURL); err != nil {
			return nil, err
		}
		updated.FeaturedImageURL = *req.FeaturedImageURL
	}
	if req.Tags != nil {
		updated.Tags = normalizeTags(req.Tags)
	}
	if req.Metadata != nil {
		updated.Metadata = copyMetadata(req.Metadata)
	}

	now := s.now()
	if req.Status != nil && *req.Status != content.Status {
		if err := validateContentTransition(content.Status, *req.Status); err != nil {
			return nil, err
		}
		applyContentStatus(&updated, *req.Status, now)
	}

	if updated.Slug != content.Slug || updated.Language != content.Language {
		existing, err := s.repository.GetContentBySlug(ctx, updated.Slug, updated.Language)
		switch {
		case err == nil && existing.ID != content.ID:
			return nil, fmt.Errorf("%w: content with slug %q already exists for language %q", ErrConflict, updated.Slug, updated.Language)
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	updated.UpdatedAt = now
	if err := s.repository.UpdateContent(ctx, &updated); err != nil {
		return nil, &ContentError{ContentID: id, Op: "update", Err: err}
	}

	s.emit(ctx, "content.updated", func(sink EventSink) error { return sink.ContentUpdated(ctx, &updated) })
	if updated.Status != previousStatus {
		s.emit(ctx, "content.status_changed", func(sink EventSink) error {
			return sink.ContentStatusChanged(ctx, &updated, previousStatus)
		})
	}
	return &updated, nil
}

// applyContentStatus sets status and stamps published_at on the first entry
// into published. An existing timestamp is never overwritten.
func applyContentStatus(c *Content, status ContentStatus, now time.Time) {
	c.Status = status
	if status == ContentStatusPublished && c.PublishedAt == nil {
		published := now
		c.PublishedAt = &published
	}
}

func (s *service) DeleteContent(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Content, error) {
	content, err := s.loadContentForMutation(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if content.Status == ContentStatusArchived {
		return content, nil
	}

	previousStatus := content.Status
	archived := *content
	archived.Status = ContentStatusArchived
	archived.UpdatedAt = s.now()
	if err := s.repository.UpdateContent(ctx, &archived); err != nil {
		return nil, &ContentError{ContentID: id, Op: "archive", Err: err}
	}

	s.emit(ctx, "content.status_changed", func(sink EventSink) error {
		return sink.ContentStatusChanged(ctx, &archived, previousStatus)
	})
	return &archived, nil
}

func (s *service) ChangeContentStatus(ctx context.Context, p *auth.Principal, id uuid.UUID, status ContentStatus) (*Content, error) {
	content, err := s.loadContentForMutation(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := validateContentTransition(content.Status, status); err != nil {
		return nil, err
	}

	previousStatus := content.Status
	now := s.now()
	changed := *content
	applyContentStatus(&changed, status, now)
	changed.UpdatedAt = now
	if err := s.repository.UpdateContent(ctx, &changed); err != nil {
		return nil, &ContentError{ContentID: id, Op: "change_status", Err: err}
	}

	s.emit(ctx, "content.status_changed", func(sink EventSink) error {
		return sink.ContentStatusChanged(ctx, &changed, previousStatus)
	})
	return &changed, nil
}

func (s *service) PublishContent(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Content, error) {
	return s.ChangeContentStatus(ctx, p, id, ContentStatusPublished)
}

func (s *service) PurgeContent(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	if err := auth.RequireSuperuser(p); err != nil {
		return err
	}
	if _, err := s.repository.GetContent(ctx, id); err != nil {
		return err
	}
	if err := s.repository.DeleteContent(ctx, id); err != nil {
		return &ContentError{ContentID: id, Op: "purge", Err: err}
	}

	s.emit(ctx, "content.deleted", func(sink EventSink) error { return sink.ContentDeleted(ctx, id) })
	return nil
}
