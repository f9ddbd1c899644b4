package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

func TestTranslationHandler_Lifecycle(t *testing.T) {
	env := setupRouterTest(t)
	author := env.user()
	content := env.createContent(author, "welcome")
	base := "/api/v1/content/" + content.ID.String()

	w := env.do(http.MethodPost, base+"/publish", author, nil)
	require.Equal(t, http.StatusOK, w.Code)

	translator := env.user()
	w = env.do(http.MethodPost, base+"/translations", translator, CreateTranslationRequest{
		Language:        "es",
		TranslatedTitle: "Bienvenido",
		TranslatedBody:  "Hola",
		TranslatedSlug:  "bienvenido",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	translation := decode[simplecms.Translation](t, w)
	assert.Equal(t, simplecms.TranslationStatusPending, translation.Status)
	require.NotNil(t, translation.TranslatorID)
	assert.Equal(t, translator.ID, *translation.TranslatorID)

	w = env.do(http.MethodPost, base+"/translations", translator, CreateTranslationRequest{
		Language:        "es",
		TranslatedTitle: "Otra",
		TranslatedBody:  "Otra",
		TranslatedSlug:  "otra",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Pending translations are hidden from the public.
	w = env.do(http.MethodGet, base+"/translations", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[TranslationList](t, w).Items)

	w = env.do(http.MethodGet, base+"/translations/es", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	tURL := "/api/v1/content/translations/" + translation.ID.String()
	w = env.do(http.MethodPost, tURL+"/status", env.user(), StatusRequest{Status: "in_progress"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, tURL+"/status", translator, StatusRequest{Status: "completed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_transition", decode[ErrorResponse](t, w).Code)

	for _, status := range []string{"in_progress", "completed"} {
		w = env.do(http.MethodPost, tURL+"/status", translator, StatusRequest{Status: status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, base+"/translations/es", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bienvenido", decode[simplecms.Translation](t, w).TranslatedTitle)

	w = env.do(http.MethodGet, base+"/translations", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[TranslationList](t, w)
	assert.Equal(t, 1, list.Total)

	title := "Bienvenidos"
	w = env.do(http.MethodPut, tURL, translator, UpdateTranslationRequest{TranslatedTitle: &title})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bienvenidos", decode[simplecms.Translation](t, w).TranslatedTitle)

	w = env.do(http.MethodGet, tURL, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, tURL, translator, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, tURL, translator, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranslationHandler_BulkAndLanguages(t *testing.T) {
	env := setupRouterTest(t)
	author := env.user()
	content := env.createContent(author, "bulk")
	base := "/api/v1/content/" + content.ID.String()

	w := env.do(http.MethodPost, base+"/translations/bulk", author, BulkTranslationRequest{Languages: []string{"es", "fr"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[TranslationList](t, w)
	require.Equal(t, 2, created.Total)
	for _, tr := range created.Items {
		assert.Equal(t, simplecms.TranslationStatusPending, tr.Status)
		assert.Equal(t, "bulk-"+tr.Language, tr.TranslatedSlug)
	}

	w = env.do(http.MethodPost, base+"/translations/bulk", author, BulkTranslationRequest{Languages: []string{"es", "pt-br"}})
	require.Equal(t, http.StatusCreated, w.Code)
	again := decode[TranslationList](t, w)
	require.Equal(t, 1, again.Total)
	assert.Equal(t, "pt-br", again.Items[0].Language)

	w = env.do(http.MethodPost, base+"/translations/bulk", author, BulkTranslationRequest{Languages: []string{"de"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, base+"/languages", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	langs := decode[simplecms.AvailableLanguages](t, w)
	assert.Equal(t, []string{"en", "es", "fr", "pt-br"}, langs.Available)
	assert.Empty(t, langs.Missing)

	// Draft content is invisible to everyone else.
	w = env.do(http.MethodGet, base+"/languages", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranslationHandler_ListRejectsUnknownStatus(t *testing.T) {
	env := setupRouterTest(t)
	content := env.createContent(env.user(), "filter")

	w := env.do(http.MethodGet, "/api/v1/content/"+content.ID.String()+"/translations?status=done", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
