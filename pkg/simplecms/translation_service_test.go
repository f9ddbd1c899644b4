package simplecms_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

func createTranslation(t *testing.T, svc simplecms.Service, p *auth.Principal, contentID uuid.UUID, lang string, status simplecms.TranslationStatus) *simplecms.Translation {
	t.Helper()
	translation, err := svc.CreateTranslation(context.Background(), p, simplecms.CreateTranslationRequest{
		ContentID:       contentID,
		Language:        lang,
		TranslatedTitle: "Title " + lang,
		TranslatedBody:  "Body " + lang,
		TranslatedSlug:  "slug-" + lang,
		Status:          status,
	})
	require.NoError(t, err)
	return translation
}

func TestCreateTranslation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	author := newUser()
	translator := newUser()
	content := createContent(t, svc, author, "story", simplecms.ContentStatusPublished)

	translation := createTranslation(t, svc, translator, content.ID, "PT_BR", "")
	assert.Equal(t, "pt-br", translation.Language)
	assert.Equal(t, simplecms.TranslationStatusPending, translation.Status)
	require.NotNil(t, translation.TranslatorID)
	assert.Equal(t, translator.ID, *translation.TranslatorID)

	t.Run("duplicate language", func(t *testing.T) {
		_, err := svc.CreateTranslation(ctx, translator, simplecms.CreateTranslationRequest{
			ContentID: content.ID, Language: "pt-BR", TranslatedTitle: "t", TranslatedBody: "b", TranslatedSlug: "s",
		})
		assert.ErrorIs(t, err, simplecms.ErrConflict)
	})

	t.Run("unsupported language", func(t *testing.T) {
		_, err := svc.CreateTranslation(ctx, translator, simplecms.CreateTranslationRequest{
			ContentID: content.ID, Language: "xx", TranslatedTitle: "t", TranslatedBody: "b", TranslatedSlug: "s",
		})
		assert.ErrorIs(t, err, simplecms.ErrUnsupportedLanguage)
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := svc.CreateTranslation(ctx, translator, simplecms.CreateTranslationRequest{
			ContentID: uuid.New(), Language: "es", TranslatedTitle: "t", TranslatedBody: "b", TranslatedSlug: "s",
		})
		assert.ErrorIs(t, err, simplecms.ErrNotFound)
	})

	t.Run("hidden content", func(t *testing.T) {
		draft := createContent(t, svc, author, "draft-story", "")
		_, err := svc.CreateTranslation(ctx, translator, simplecms.CreateTranslationRequest{
			ContentID: draft.ID, Language: "es", TranslatedTitle: "t", TranslatedBody: "b", TranslatedSlug: "s",
		})
		assert.ErrorIs(t, err, simplecms.ErrContentNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.CreateTranslation(ctx, nil, simplecms.CreateTranslationRequest{ContentID: content.ID, Language: "fr"})
		assert.ErrorIs(t, err, simplecms.ErrUnauthenticated)
	})

	t.Run("superuser assigns translator", func(t *testing.T) {
		assignee := uuid.New()
		tr, err := svc.CreateTranslation(ctx, newSuperuser(), simplecms.CreateTranslationRequest{
			ContentID: content.ID, Language: "fr", TranslatedTitle: "t", TranslatedBody: "b", TranslatedSlug: "s",
			TranslatorID: &assignee,
		})
		require.NoError(t, err)
		assert.Equal(t, assignee, *tr.TranslatorID)
	})
}

func TestTranslationStatusWorkflow(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	author := newUser()
	translator := newUser()
	content := createContent(t, svc, author, "story", simplecms.ContentStatusPublished)
	translation := createTranslation(t, svc, translator, content.ID, "es", "")

	steps := []struct {
		to      simplecms.TranslationStatus
		wantErr error
	}{
		{simplecms.TranslationStatusCompleted, simplecms.ErrInvalidTransition},
		{simplecms.TranslationStatusInProgress, nil},
		{simplecms.TranslationStatusInProgress, nil},
		{simplecms.TranslationStatusCompleted, nil},
		{simplecms.TranslationStatusReviewed, nil},
		{simplecms.TranslationStatusCompleted, simplecms.ErrInvalidTransition},
		{simplecms.TranslationStatusPending, nil},
	}
	for _, step := range steps {
		got, err := svc.ChangeTranslationStatus(ctx, translator, translation.ID, step.to)
		if step.wantErr != nil {
			assert.ErrorIs(t, err, step.wantErr, "to %s", step.to)
			continue
		}
		require.NoError(t, err, "to %s", step.to)
		assert.Equal(t, step.to, got.Status)
	}

	_, err := svc.ChangeTranslationStatus(ctx, newUser(), translation.ID, simplecms.TranslationStatusInProgress)
	assert.ErrorIs(t, err, simplecms.ErrForbidden)
}

func TestTranslationVisibility(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	author := newUser()
	translator := newUser()
	content := createContent(t, svc, author, "story", simplecms.ContentStatusPublished)
	pending := createTranslation(t, svc, translator, content.ID, "es", "")
	done := createTranslation(t, svc, translator, content.ID, "fr", simplecms.TranslationStatusInProgress)
	_, err := svc.ChangeTranslationStatus(ctx, translator, done.ID, simplecms.TranslationStatusCompleted)
	require.NoError(t, err)

	_, err = svc.GetTranslation(ctx, nil, pending.ID)
	assert.ErrorIs(t, err, simplecms.ErrTranslationNotFound)

	_, err = svc.GetTranslation(ctx, nil, done.ID)
	assert.NoError(t, err)

	_, err = svc.GetTranslation(ctx, translator, pending.ID)
	assert.NoError(t, err)

	// The parent's author sees work in progress on their content.
	_, err = svc.GetTranslation(ctx, author, pending.ID)
	assert.NoError(t, err)

	_, err = svc.GetTranslationByLanguage(ctx, newUser(), content.ID, "es")
	assert.ErrorIs(t, err, simplecms.ErrNotFound)

	got, err := svc.GetTranslationByLanguage(ctx, nil, content.ID, "FR")
	require.NoError(t, err)
	assert.Equal(t, done.ID, got.ID)
}

func TestTranslationOfHiddenContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	author := newUser()
	draft := createContent(t, svc, author, "embargoed", "")
	es := createTranslation(t, svc, author, draft.ID, "es", simplecms.TranslationStatusCompleted)

	for _, p := range []*auth.Principal{nil, newUser()} {
		_, err := svc.GetTranslation(ctx, p, es.ID)
		assert.ErrorIs(t, err, simplecms.ErrTranslationNotFound)

		_, err = svc.GetTranslationByLanguage(ctx, p, draft.ID, "es")
		assert.ErrorIs(t, err, simplecms.ErrTranslationNotFound)
	}

	got, err := svc.GetTranslationByLanguage(ctx, author, draft.ID, "es")
	require.NoError(t, err)
	assert.Equal(t, es.ID, got.ID)

	_, err = svc.GetTranslation(ctx, newSuperuser(), es.ID)
	assert.NoError(t, err)

	_, err = svc.PublishContent(ctx, author, draft.ID)
	require.NoError(t, err)
	_, err = svc.GetTranslation(ctx, nil, es.ID)
	assert.NoError(t, err)
}

func TestListTranslations(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	author := newUser()
	translator := newUser()
	content := createContent(t, svc, author, "story", simplecms.ContentStatusPublished)

	es := createTranslation(t, svc, translator, content.ID, "es", simplecms.TranslationStatusInProgress)
	_, err := svc.ChangeTranslationStatus(ctx, translator, es.ID, simplecms.TranslationStatusCompleted)
	require.NoError(t, err)
	createTranslation(t, svc, translator, content.ID, "fr", "")

	t.Run("public falls back to completed", func(t *testing.T) {
		items, err := svc.ListTranslations(ctx, nil, content.ID, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "es", items[0].Language)
	})

	t.Run("public prefers reviewed", func(t *testing.T) {
		_, err := svc.ChangeTranslationStatus(ctx, translator, es.ID, simplecms.TranslationStatusReviewed)
		require.NoError(t, err)
		pt := createTranslation(t, svc, translator, content.ID, "pt-br", simplecms.TranslationStatusInProgress)
		_, err = svc.ChangeTranslationStatus(ctx, translator, pt.ID, simplecms.TranslationStatusCompleted)
		require.NoError(t, err)

		items, err := svc.ListTranslations(ctx, nil, content.ID, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, simplecms.TranslationStatusReviewed, items[0].Status)
	})

	t.Run("author sees all", func(t *testing.T) {
		items, err := svc.ListTranslations(ctx, author, content.ID, nil)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("explicit pending filter is narrowed by visibility", func(t *testing.T) {
		pending := simplecms.TranslationStatusPending
		items, err := svc.ListTranslations(ctx, nil, content.ID, &pending)
		require.NoError(t, err)
		assert.Empty(t, items)

		items, err = svc.ListTranslations(ctx, translator, content.ID, &pending)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := svc.ListTranslations(ctx, nil, uuid.New(), nil)
		assert.ErrorIs(t, err, simplecms.ErrNotFound)
	})

	t.Run("unpublished parent is hidden", func(t *testing.T) {
		draft := createContent(t, svc, author, "draft-list", "")
		_, err := svc.ListTranslations(ctx, nil, draft.ID, nil)
		assert.ErrorIs(t, err, simplecms.ErrContentNotFound)

		items, err := svc.ListTranslations(ctx, author, draft.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestUpdateTranslation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	author := newUser()
	translator := newUser()
	content := createContent(t, svc, author, "story", simplecms.ContentStatusPublished)
	es := createTranslation(t, svc, translator, content.ID, "es", "")
	createTranslation(t, svc, translator, content.ID, "fr", "")

	updated, err := svc.UpdateTranslation(ctx, translator, es.ID, simplecms.UpdateTranslationRequest{
		TranslatedTitle: ptr("Nuevo título"),
		Status:          ptr(simplecms.TranslationStatusInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo título", updated.TranslatedTitle)
	assert.Equal(t, es.TranslatedBody, updated.TranslatedBody)
	assert.Equal(t, simplecms.TranslationStatusInProgress, updated.Status)

	_, err = svc.UpdateTranslation(ctx, translator, es.ID, simplecms.UpdateTranslationRequest{Language: ptr("fr")})
	assert.ErrorIs(t, err, simplecms.ErrConflict)

	_, err = svc.UpdateTranslation(ctx, translator, es.ID, simplecms.UpdateTranslationRequest{TranslatorID: ptr(uuid.New())})
	assert.ErrorIs(t, err, simplecms.ErrForbidden)

	_, err = svc.UpdateTranslation(ctx, author, es.ID, simplecms.UpdateTranslationRequest{TranslatedBody: ptr("x")})
	assert.ErrorIs(t, err, simplecms.ErrForbidden)

	require.NoError(t, svc.DeleteTranslation(ctx, translator, es.ID))
	_, err = svc.GetTranslation(ctx, translator, es.ID)
	assert.ErrorIs(t, err, simplecms.ErrNotFound)
}

func TestBulkCreatePlaceholders(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	author := newUser()
	content := createContent(t, svc, author, "my-story", simplecms.ContentStatusPublished)
	createTranslation(t, svc, author, content.ID, "es", "")

	created, err := svc.BulkCreatePlaceholders(ctx, author, content.ID, []string{"es", "fr", "pt-br", "FR"})
	require.NoError(t, err)
	require.Len(t, created, 2)

	fr := created[0]
	assert.Equal(t, "fr", fr.Language)
	assert.Equal(t, "[FR] Title for my-story", fr.TranslatedTitle)
	assert.Equal(t, "Translation pending for fr", fr.TranslatedBody)
	assert.Equal(t, "my-story-fr", fr.TranslatedSlug)
	assert.Equal(t, simplecms.TranslationStatusPending, fr.Status)
	assert.Equal(t, author.ID, *fr.TranslatorID)
	assert.Equal(t, "[PT-BR] Title for my-story", created[1].TranslatedTitle)

	t.Run("one bad code creates nothing", func(t *testing.T) {
		other := createContent(t, svc, author, "other-story", simplecms.ContentStatusPublished)
		_, err := svc.BulkCreatePlaceholders(ctx, author, other.ID, []string{"es", "de"})
		assert.ErrorIs(t, err, simplecms.ErrUnsupportedLanguage)

		items, err := svc.ListTranslations(ctx, author, other.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("nothing missing", func(t *testing.T) {
		created, err := svc.BulkCreatePlaceholders(ctx, author, content.ID, []string{"es", "fr"})
		require.NoError(t, err)
		assert.Empty(t, created)
	})
}

func TestAvailableLanguages(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	author := newUser()
	content := createContent(t, svc, author, "story", simplecms.ContentStatusPublished)

	langs, err := svc.AvailableLanguages(ctx, nil, content.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, langs.Available)
	assert.Equal(t, []string{"es", "fr", "pt-br"}, langs.Missing)

	// With nothing completed or reviewed, every translation counts.
	createTranslation(t, svc, author, content.ID, "fr", "")
	langs, err = svc.AvailableLanguages(ctx, nil, content.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, langs.Available)
	assert.Equal(t, []string{"es", "pt-br"}, langs.Missing)

	// Once one is completed, only completed ones count.
	es := createTranslation(t, svc, author, content.ID, "es", simplecms.TranslationStatusInProgress)
	_, err = svc.ChangeTranslationStatus(ctx, author, es.ID, simplecms.TranslationStatusCompleted)
	require.NoError(t, err)
	langs, err = svc.AvailableLanguages(ctx, nil, content.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "es"}, langs.Available)
	assert.Equal(t, []string{"fr", "pt-br"}, langs.Missing)

	draft := createContent(t, svc, author, "hidden", "")
	_, err = svc.AvailableLanguages(ctx, nil, draft.ID)
	assert.ErrorIs(t, err, simplecms.ErrNotFound)
}
