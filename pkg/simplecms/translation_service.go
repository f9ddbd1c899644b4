package simplecms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/language"
)

// visibleContent loads content and hides it when the caller may not see it.
func (s *service) visibleContent(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Content, error) {
	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewContent(p, content) {
		return nil, ErrContentNotFound
	}
	return content, nil
}

func (s *service) CreateTranslation(ctx context.Context, p *auth.Principal, req CreateTranslationRequest) (*Translation, error) {
	if err := auth.RequireActive(p); err != nil {
		return nil, err
	}

	lang, err := language.Validate(req.Language)
	if err != nil {
		return nil, err
	}
	if err := validateTitle("translated_title", req.TranslatedTitle); err != nil {
		return nil, err
	}
	if err := validateBody("translated_body", req.TranslatedBody); err != nil {
		return nil, err
	}
	if err := validateSlug("translated_slug", req.TranslatedSlug); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = TranslationStatusPending
	}
	if !status.IsValid() {
		return nil, invalid("translation_status", "unknown translation status %q", status)
	}

	if _, err := s.visibleContent(ctx, p, req.ContentID); err != nil {
		return nil, err
	}
	if _, err := s.repository.GetTranslationByLanguage(ctx, req.ContentID, lang); err == nil {
		return nil, fmt.Errorf("%w: translation for language %q already exists for this content", ErrConflict, lang)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	translator := p.ID
	if req.TranslatorID != nil && p.IsSuperuser() {
		translator = *req.TranslatorID
	}

	now := s.now()
	translation := &Translation{
		ID:              uuid.New(),
		ContentID:       req.ContentID,
		Language:        lang,
		TranslatedTitle: req.TranslatedTitle,
		TranslatedBody:  req.TranslatedBody,
		TranslatedSlug:  req.TranslatedSlug,
		TranslatorID:    &translator,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repository.CreateTranslation(ctx, translation); err != nil {
		return nil, &TranslationError{TranslationID: translation.ID, Op: "create", Err: err}
	}

	s.emit(ctx, "translation.created", func(sink EventSink) error { return sink.TranslationCreated(ctx, translation) })
	return translation, nil
}

// checkTranslationVisible hides a translation whose parent content the
// caller cannot see, and otherwise applies the translation's own visibility.
func (s *service) checkTranslationVisible(ctx context.Context, p *auth.Principal, t *Translation) error {
	parent, err := s.repository.GetContent(ctx, t.ContentID)
	if errors.Is(err, ErrNotFound) {
		return ErrTranslationNotFound
	}
	if err != nil {
		return err
	}
	if !canViewContent(p, parent) || !canViewTranslation(p, t, parent) {
		return ErrTranslationNotFound
	}
	return nil
}

func (s *service) GetTranslation(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Translation, error) {
	translation, err := s.repository.GetTranslation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTranslationVisible(ctx, p, translation); err != nil {
		return nil, err
	}
	return translation, nil
}

func (s *service) GetTranslationByLanguage(ctx context.Context, p *auth.Principal, contentID uuid.UUID, lang string) (*Translation, error) {
	code, err := language.Validate(lang)
	if err != nil {
		return nil, err
	}
	translation, err := s.repository.GetTranslationByLanguage(ctx, contentID, code)
	if err != nil {
		return nil, err
	}
	if err := s.checkTranslationVisible(ctx, p, translation); err != nil {
		return nil, err
	}
	return translation, nil
}

func (s *service) ListTranslations(ctx context.Context, p *auth.Principal, contentID uuid.UUID, status *TranslationStatus) ([]*Translation, error) {
	if status != nil && !status.IsValid() {
		return nil, invalid("translation_status", "unknown translation status %q", *status)
	}
	content, err := s.repository.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	if p.IsSuperuser() || p.Is(content.AuthorID) {
		return s.repository.ListTranslations(ctx, contentID, status)
	}
	if !canViewContent(p, content) {
		return nil, ErrContentNotFound
	}

	if status == nil {
		reviewed := TranslationStatusReviewed
		translations, err := s.repository.ListTranslations(ctx, contentID, &reviewed)
		if err != nil {
			return nil, err
		}
		if len(translations) > 0 {
			return translations, nil
		}
		completed := TranslationStatusCompleted
		return s.repository.ListTranslations(ctx, contentID, &completed)
	}

	translations, err := s.repository.ListTranslations(ctx, contentID, status)
	if err != nil {
		return nil, err
	}
	visible := make([]*Translation, 0, len(translations))
	for _, t := range translations {
		if canViewTranslation(p, t, content) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// loadTranslationForMutation fetches a translation and checks the caller is
// its translator or a superuser.
func (s *service) loadTranslationForMutation(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Translation, error) {
	if err := auth.RequireActive(p); err != nil {
		return nil, err
	}
	translation, err := s.repository.GetTranslation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, translation.TranslatorID, "translation"); err != nil {
		return nil, err
	}
	return translation, nil
}

func (s *service) UpdateTranslation(ctx context.Context, p *auth.Principal, id uuid.UUID, req UpdateTranslationRequest) (*Translation, error) {
	translation, err := s.loadTranslationForMutation(ctx, p, id)
	if err != nil {
		return nil, err
	}
	updated := *translation
	previousStatus := translation.Status

	if req.Language != nil {
		lang, err := language.Validate(*req.Language)
		if err != nil {
			return nil, err
		}
		updated.Language = lang
	}
	if req.TranslatedTitle != nil {
		if err := validateTitle("translated_title", *req.TranslatedTitle); err != nil {
			return nil, err
		}
		updated.TranslatedTitle = *req.TranslatedTitle
	}
	if req.TranslatedBody != nil {
		if err := validateBody("translated_body", *req.TranslatedBody); err != nil {
			return nil, err
		}
		updated.TranslatedBody = *req.TranslatedBody
	}
	if req.TranslatedSlug != nil {
		if err := validateSlug("translated_slug", *req.TranslatedSlug); err != nil {
			return nil, err
		}
		updated.TranslatedSlug = *req.TranslatedSlug
	}
	if req.Status != nil {
		if err := validateTranslationTransition(translation.Status, *req.Status); err != nil {
			return nil, err
		}
		updated.Status = *req.Status
	}
	if req.TranslatorID != nil {
		if !p.IsSuperuser() && *req.TranslatorID != p.ID {
			return nil, fmt.Errorf("%w: only a superuser may reassign a translation", ErrForbidden)
		}
		translator := *req.TranslatorID
		updated.TranslatorID = &translator
	}

	if updated.Language != translation.Language {
		if _, err := s.repository.GetTranslationByLanguage(ctx, updated.ContentID, updated.Language); err == nil {
			return nil, fmt.Errorf("%w: translation for language %q already exists for this content", ErrConflict, updated.Language)
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	updated.UpdatedAt = s.now()
	if err := s.repository.UpdateTranslation(ctx, &updated); err != nil {
		return nil, &TranslationError{TranslationID: id, Op: "update", Err: err}
	}

	if updated.Status != previousStatus {
		s.emit(ctx, "translation.status_changed", func(sink EventSink) error {
			return sink.TranslationStatusChanged(ctx, &updated, previousStatus)
		})
	}
	return &updated, nil
}

func (s *service) DeleteTranslation(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	if _, err := s.loadTranslationForMutation(ctx, p, id); err != nil {
		return err
	}
	if err := s.repository.DeleteTranslation(ctx, id); err != nil {
		return &TranslationError{TranslationID: id, Op: "delete", Err: err}
	}
	return nil
}

func (s *service) ChangeTranslationStatus(ctx context.Context, p *auth.Principal, id uuid.UUID, status TranslationStatus) (*Translation, error) {
	translation, err := s.loadTranslationForMutation(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := validateTranslationTransition(translation.Status, status); err != nil {
		return nil, err
	}

	previousStatus := translation.Status
	changed := *translation
	changed.Status = status
	changed.UpdatedAt = s.now()
	if err := s.repository.UpdateTranslation(ctx, &changed); err != nil {
		return nil, &TranslationError{TranslationID: id, Op: "change_status", Err: err}
	}

	if status != previousStatus {
		s.emit(ctx, "translation.status_changed", func(sink EventSink) error {
			return sink.TranslationStatusChanged(ctx, &changed, previousStatus)
		})
	}
	return &changed, nil
}

func (s *service) BulkCreatePlaceholders(ctx context.Context, p *auth.Principal, contentID uuid.UUID, languages []string) ([]*Translation, error) {
	if err := auth.RequireActive(p); err != nil {
		return nil, err
	}
	codes, err := language.ValidateAll(languages)
	if err != nil {
		return nil, err
	}
	content, err := s.visibleContent(ctx, p, contentID)
	if err != nil {
		return nil, err
	}

	created := make([]*Translation, 0, len(codes))
	for _, code := range codes {
		_, err := s.repository.GetTranslationByLanguage(ctx, contentID, code)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return created, err
		}

		translation := placeholderTranslation(content, code, p.ID, s.now())
		if err := s.repository.CreateTranslation(ctx, translation); err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return created, &TranslationError{TranslationID: translation.ID, Op: "create_placeholder", Err: err}
		}
		created = append(created, translation)
		s.emit(ctx, "translation.created", func(sink EventSink) error { return sink.TranslationCreated(ctx, translation) })
	}
	return created, nil
}

func placeholderTranslation(content *Content, code string, translator uuid.UUID, now time.Time) *Translation {
	return &Translation{
		ID:              uuid.New(),
		ContentID:       content.ID,
		Language:        code,
		TranslatedTitle: fmt.Sprintf("[%s] %s", strings.ToUpper(code), content.Title),
		TranslatedBody:  fmt.Sprintf("Translation pending for %s", code),
		TranslatedSlug:  fmt.Sprintf("%s-%s", content.Slug, code),
		TranslatorID:    &translator,
		Status:          TranslationStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *service) AvailableLanguages(ctx context.Context, p *auth.Principal, contentID uuid.UUID) (*AvailableLanguages, error) {
	content, err := s.visibleContent(ctx, p, contentID)
	if err != nil {
		return nil, err
	}

	var translations []*Translation
	for _, status := range []TranslationStatus{TranslationStatusReviewed, TranslationStatusCompleted} {
		status := status
		translations, err = s.repository.ListTranslations(ctx, contentID, &status)
		if err != nil {
			return nil, err
		}
		if len(translations) > 0 {
			break
		}
	}
	if len(translations) == 0 {
		translations, err = s.repository.ListTranslations(ctx, contentID, nil)
		if err != nil {
			return nil, err
		}
	}

	seen := map[string]bool{content.Language: true}
	available := []string{content.Language}
	for _, t := range translations {
		if !seen[t.Language] {
			seen[t.Language] = true
			available = append(available, t.Language)
		}
	}
	sort.Strings(available)

	missing := language.Missing(available)
	if missing == nil {
		missing = []string{}
	}
	return &AvailableLanguages{
		ContentID: contentID,
		Available: available,
		Missing:   missing,
	}, nil
}
