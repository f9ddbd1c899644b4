package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Repository implements simplecms.Repository using in-memory storage
type Repository struct {
	mu           sync.RWMutex
	contents     map[uuid.UUID]*simplecms.Content
	translations map[uuid.UUID]*simplecms.Translation
	media        map[uuid.UUID]*simplecms.Media
}

// New creates a new in-memory repository
func New() simplecms.Repository {
	return &Repository{
		contents:     make(map[uuid.UUID]*simplecms.Content),
		translations: make(map[uuid.UUID]*simplecms.Translation),
		media:        make(map[uuid.UUID]*simplecms.Media),
	}
}

func copyContent(c *simplecms.Content) *simplecms.Content {
	out := *c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	out.Metadata = copyMap(c.Metadata)
	if c.PublishedAt != nil {
		t := *c.PublishedAt
		out.PublishedAt = &t
	}
	return &out
}

func copyTranslation(t *simplecms.Translation) *simplecms.Translation {
	out := *t
	if t.TranslatorID != nil {
		id := *t.TranslatorID
		out.TranslatorID = &id
	}
	return &out
}

func copyMedia(m *simplecms.Media) *simplecms.Media {
	out := *m
	if m.ContentID != nil {
		id := *m.ContentID
		out.ContentID = &id
	}
	out.Width = copyInt(m.Width)
	out.Height = copyInt(m.Height)
	out.Duration = copyInt(m.Duration)
	out.Metadata = copyMap(m.Metadata)
	return &out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Content operations

// slugTaken must be called with the lock held.
func (r *Repository) slugTaken(slug, language string, except uuid.UUID) bool {
	for id, c := range r.contents {
		if id != except && c.Slug == slug && c.Language == language {
			return true
		}
	}
	return false
}

func (r *Repository) CreateContent(ctx context.Context, content *simplecms.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; exists {
		return fmt.Errorf("%w: content %s already exists", simplecms.ErrConflict, content.ID)
	}
	if r.slugTaken(content.Slug, content.Language, content.ID) {
		return fmt.Errorf("%w: slug %q already exists for language %q", simplecms.ErrConflict, content.Slug, content.Language)
	}
	r.contents[content.ID] = copyContent(content)
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*simplecms.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, simplecms.ErrContentNotFound
	}
	return copyContent(content), nil
}

func (r *Repository) GetContentBySlug(ctx context.Context, slug, language string) (*simplecms.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.contents {
		if c.Slug == slug && c.Language == language {
			return copyContent(c), nil
		}
	}
	return nil, simplecms.ErrContentNotFound
}

func (r *Repository) UpdateContent(ctx context.Context, content *simplecms.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return simplecms.ErrContentNotFound
	}
	if r.slugTaken(content.Slug, content.Language, content.ID) {
		return fmt.Errorf("%w: slug %q already exists for language %q", simplecms.ErrConflict, content.Slug, content.Language)
	}
	r.contents[content.ID] = copyContent(content)
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return simplecms.ErrContentNotFound
	}
	delete(r.contents, id)

	for tid, t := range r.translations {
		if t.ContentID == id {
			delete(r.translations, tid)
		}
	}
	for _, m := range r.media {
		if m.ContentID != nil && *m.ContentID == id {
			m.ContentID = nil
		}
	}
	return nil
}

func matchesContent(c *simplecms.Content, filter simplecms.ContentFilter) bool {
	if filter.ContentType != nil && c.ContentType != *filter.ContentType {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			if c.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Language != "" && c.Language != filter.Language {
		return false
	}
	if filter.AuthorID != nil && c.AuthorID != *filter.AuthorID {
		return false
	}
	if len(filter.Tags) > 0 && !overlaps(c.Tags, filter.Tags) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(c.Title), needle) && !strings.Contains(strings.ToLower(c.Body), needle) {
			return false
		}
	}
	return true
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// contentLess orders by published_at descending with nulls last, then
// updated_at descending. ID breaks ties so pages are stable.
func contentLess(a, b *simplecms.Content) bool {
	switch {
	case a.PublishedAt != nil && b.PublishedAt == nil:
		return true
	case a.PublishedAt == nil && b.PublishedAt != nil:
		return false
	case a.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
		return a.PublishedAt.After(*b.PublishedAt)
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func (r *Repository) ListContent(ctx context.Context, filter simplecms.ContentFilter) ([]*simplecms.Content, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*simplecms.Content
	for _, c := range r.contents {
		if matchesContent(c, filter) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return contentLess(matched[i], matched[j]) })

	window := simplecms.Window(matched, filter.Offset, filter.Limit)
	out := make([]*simplecms.Content, len(window))
	for i, c := range window {
		out[i] = copyContent(c)
	}
	return out, len(matched), nil
}

// Translation operations

// languageTaken must be called with the lock held.
func (r *Repository) languageTaken(contentID uuid.UUID, language string, except uuid.UUID) bool {
	for id, t := range r.translations {
		if id != except && t.ContentID == contentID && t.Language == language {
			return true
		}
	}
	return false
}

func (r *Repository) CreateTranslation(ctx context.Context, translation *simplecms.Translation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[translation.ContentID]; !exists {
		return simplecms.ErrContentNotFound
	}
	if _, exists := r.translations[translation.ID]; exists {
		return fmt.Errorf("%w: translation %s already exists", simplecms.ErrConflict, translation.ID)
	}
	if r.languageTaken(translation.ContentID, translation.Language, translation.ID) {
		return fmt.Errorf("%w: translation for language %q already exists", simplecms.ErrConflict, translation.Language)
	}
	r.translations[translation.ID] = copyTranslation(translation)
	return nil
}

func (r *Repository) GetTranslation(ctx context.Context, id uuid.UUID) (*simplecms.Translation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	translation, exists := r.translations[id]
	if !exists {
		return nil, simplecms.ErrTranslationNotFound
	}
	return copyTranslation(translation), nil
}

func (r *Repository) GetTranslationByLanguage(ctx context.Context, contentID uuid.UUID, language string) (*simplecms.Translation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.translations {
		if t.ContentID == contentID && t.Language == language {
			return copyTranslation(t), nil
		}
	}
	return nil, simplecms.ErrTranslationNotFound
}

func (r *Repository) ListTranslations(ctx context.Context, contentID uuid.UUID, status *simplecms.TranslationStatus) ([]*simplecms.Translation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*simplecms.Translation{}
	for _, t := range r.translations {
		if t.ContentID != contentID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, copyTranslation(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Language < out[j].Language })
	return out, nil
}

func (r *Repository) UpdateTranslation(ctx context.Context, translation *simplecms.Translation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.translations[translation.ID]; !exists {
		return simplecms.ErrTranslationNotFound
	}
	if r.languageTaken(translation.ContentID, translation.Language, translation.ID) {
		return fmt.Errorf("%w: translation for language %q already exists", simplecms.ErrConflict, translation.Language)
	}
	r.translations[translation.ID] = copyTranslation(translation)
	return nil
}

func (r *Repository) DeleteTranslation(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.translations[id]; !exists {
		return simplecms.ErrTranslationNotFound
	}
	delete(r.translations, id)
	return nil
}

// Media operations

func (r *Repository) CreateMedia(ctx context.Context, media *simplecms.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.media[media.ID]; exists {
		return fmt.Errorf("%w: media %s already exists", simplecms.ErrConflict, media.ID)
	}
	if media.ContentID != nil {
		if _, exists := r.contents[*media.ContentID]; !exists {
			return simplecms.ErrContentNotFound
		}
	}
	r.media[media.ID] = copyMedia(media)
	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id uuid.UUID) (*simplecms.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media, exists := r.media[id]
	if !exists {
		return nil, simplecms.ErrMediaNotFound
	}
	return copyMedia(media), nil
}

func (r *Repository) ListMedia(ctx context.Context, filter simplecms.MediaFilter) ([]*simplecms.Media, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*simplecms.Media
	for _, m := range r.media {
		if filter.MediaType != nil && m.MediaType != *filter.MediaType {
			continue
		}
		if filter.UploadedBy != nil && m.UploadedBy != *filter.UploadedBy {
			continue
		}
		if filter.ContentID != nil && (m.ContentID == nil || *m.ContentID != *filter.ContentID) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	window := simplecms.Window(matched, filter.Offset, filter.Limit)
	out := make([]*simplecms.Media, len(window))
	for i, m := range window {
		out[i] = copyMedia(m)
	}
	return out, len(matched), nil
}

func (r *Repository) UpdateMedia(ctx context.Context, media *simplecms.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.media[media.ID]; !exists {
		return simplecms.ErrMediaNotFound
	}
	if media.ContentID != nil {
		if _, exists := r.contents[*media.ContentID]; !exists {
			return simplecms.ErrContentNotFound
		}
	}
	r.media[media.ID] = copyMedia(media)
	return nil
}

func (r *Repository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.media[id]; !exists {
		return simplecms.ErrMediaNotFound
	}
	delete(r.media, id)
	return nil
}
