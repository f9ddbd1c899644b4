package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

// TranslationHandler handles HTTP requests for translations. Its routes live
// under the content prefix.
type TranslationHandler struct {
	service simplecms.TranslationService
	logger  *slog.Logger
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(service simplecms.TranslationService, logger *slog.Logger) *TranslationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationHandler{service: service, logger: logger}
}

// Routes registers the translation endpoints on the content router r
func (h *TranslationHandler) Routes(r chi.Router) {
	r.Get("/{id}/translations", h.ListTranslations)
	r.Get("/{id}/translations/{language}", h.GetTranslationByLanguage)
	r.Get("/{id}/languages", h.AvailableLanguages)
	r.Get("/translations/{translationID}", h.GetTranslation)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.logger))
		r.Post("/{id}/translations", h.CreateTranslation)
		r.Post("/{id}/translations/bulk", h.BulkCreate)
		r.Put("/translations/{translationID}", h.UpdateTranslation)
		r.Delete("/translations/{translationID}", h.DeleteTranslation)
		r.Post("/translations/{translationID}/status", h.ChangeStatus)
	})
}

// CreateTranslationRequest is the request body for creating a translation
type CreateTranslationRequest struct {
	Language        string     `json:"language"`
	TranslatedTitle string     `json:"translated_title"`
	TranslatedBody  string     `json:"translated_body"`
	TranslatedSlug  string     `json:"translated_slug"`
	Status          string     `json:"translation_status,omitempty"`
	TranslatorID    *uuid.UUID `json:"translator_id,omitempty"`
}

// UpdateTranslationRequest is the request body for a partial translation update
type UpdateTranslationRequest struct {
	Language        *string    `json:"language,omitempty"`
	TranslatedTitle *string    `json:"translated_title,omitempty"`
	TranslatedBody  *string    `json:"translated_body,omitempty"`
	TranslatedSlug  *string    `json:"translated_slug,omitempty"`
	Status          *string    `json:"translation_status,omitempty"`
	TranslatorID    *uuid.UUID `json:"translator_id,omitempty"`
}

// BulkTranslationRequest lists the languages to create placeholders for
type BulkTranslationRequest struct {
	Languages []string `json:"languages"`
}

// TranslationList is the response body for translation listings
type TranslationList struct {
	Items []*simplecms.Translation `json:"items"`
	Total int                      `json:"total"`
}

func newTranslationList(items []*simplecms.Translation) TranslationList {
	if items == nil {
		items = []*simplecms.Translation{}
	}
	return TranslationList{Items: items, Total: len(items)}
}

func (h *TranslationHandler) CreateTranslation(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req CreateTranslationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	translation, err := h.service.CreateTranslation(r.Context(), auth.FromContext(r.Context()), simplecms.CreateTranslationRequest{
		ContentID:       contentID,
		Language:        req.Language,
		TranslatedTitle: req.TranslatedTitle,
		TranslatedBody:  req.TranslatedBody,
		TranslatedSlug:  req.TranslatedSlug,
		Status:          simplecms.TranslationStatus(req.Status),
		TranslatorID:    req.TranslatorID,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, translation)
}

func (h *TranslationHandler) ListTranslations(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var status *simplecms.TranslationStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := simplecms.TranslationStatus(v)
		if !s.IsValid() {
			writeError(w, r, h.logger, badRequest("status", "unknown translation status"))
			return
		}
		status = &s
	}

	items, err := h.service.ListTranslations(r.Context(), auth.FromContext(r.Context()), contentID, status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, newTranslationList(items))
}

func (h *TranslationHandler) GetTranslationByLanguage(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	translation, err := h.service.GetTranslationByLanguage(r.Context(), auth.FromContext(r.Context()),
		contentID, chi.URLParam(r, "language"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, translation)
}

func (h *TranslationHandler) GetTranslation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "translationID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	translation, err := h.service.GetTranslation(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, translation)
}

func (h *TranslationHandler) UpdateTranslation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "translationID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req UpdateTranslationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	update := simplecms.UpdateTranslationRequest{
		Language:        req.Language,
		TranslatedTitle: req.TranslatedTitle,
		TranslatedBody:  req.TranslatedBody,
		TranslatedSlug:  req.TranslatedSlug,
		TranslatorID:    req.TranslatorID,
	}
	if req.Status != nil {
		status := simplecms.TranslationStatus(*req.Status)
		update.Status = &status
	}

	translation, err := h.service.UpdateTranslation(r.Context(), auth.FromContext(r.Context()), id, update)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, translation)
}

func (h *TranslationHandler) DeleteTranslation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "translationID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.service.DeleteTranslation(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.NoContent(w, r)
}

func (h *TranslationHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "translationID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	translation, err := h.service.ChangeTranslationStatus(r.Context(), auth.FromContext(r.Context()), id,
		simplecms.TranslationStatus(req.Status))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, translation)
}

func (h *TranslationHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req BulkTranslationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	created, err := h.service.BulkCreatePlaceholders(r.Context(), auth.FromContext(r.Context()), contentID, req.Languages)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newTranslationList(created))
}

func (h *TranslationHandler) AvailableLanguages(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	langs, err := h.service.AvailableLanguages(r.Context(), auth.FromContext(r.Context()), contentID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, langs)
}
