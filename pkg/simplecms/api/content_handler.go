package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

// ContentHandler handles HTTP requests for content items
type ContentHandler struct {
	service simplecms.ContentService
	logger  *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(service simplecms.ContentService, logger *slog.Logger) *ContentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentHandler{service: service, logger: logger}
}

// Routes registers the content endpoints on r
func (h *ContentHandler) Routes(r chi.Router) {
	r.Get("/", h.ListContent)
	r.Get("/slug/{slug}", h.GetContentBySlug)
	r.Get("/{id}", h.GetContent)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.logger))
		r.Post("/", h.CreateContent)
		r.Get("/mine", h.ListMyContent)
		r.Put("/{id}", h.UpdateContent)
		r.Delete("/{id}", h.DeleteContent)
		r.Post("/{id}/publish", h.PublishContent)
		r.Post("/{id}/status", h.ChangeStatus)
		r.With(RequireSuperuser(h.logger)).Delete("/{id}/purge", h.PurgeContent)
	})
}

// CreateContentRequest is the request body for creating content
type CreateContentRequest struct {
	Title            string                 `json:"title"`
	Slug             string                 `json:"slug"`
	Body             string                 `json:"body"`
	ContentType      string                 `json:"content_type"`
	Language         string                 `json:"language,omitempty"`
	FeaturedImageURL string                 `json:"featured_image_url,omitempty"`
	Tags             []string               `json:"tags,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	Status           string                 `json:"status,omitempty"`
}

// UpdateContentRequest is the request body for a partial content update.
// Absent fields are left unchanged.
type UpdateContentRequest struct {
	Title            *string                `json:"title,omitempty"`
	Slug             *string                `json:"slug,omitempty"`
	Body             *string                `json:"body,omitempty"`
	ContentType      *string                `json:"content_type,omitempty"`
	Status           *string                `json:"status,omitempty"`
	Language         *string                `json:"language,omitempty"`
	FeaturedImageURL *string                `json:"featured_image_url,omitempty"`
	Tags             []string               `json:"tags"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// StatusRequest is the request body for workflow transitions
type StatusRequest struct {
	Status string `json:"status"`
}

func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req CreateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	content, err := h.service.CreateContent(r.Context(), auth.FromContext(r.Context()), simplecms.CreateContentRequest{
		Title:            req.Title,
		Slug:             req.Slug,
		Body:             req.Body,
		ContentType:      simplecms.ContentType(req.ContentType),
		Language:         req.Language,
		FeaturedImageURL: req.FeaturedImageURL,
		Tags:             req.Tags,
		Metadata:         req.Metadata,
		Status:           simplecms.ContentStatus(req.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "content created", "content_id", content.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, content)
}

func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	content, err := h.service.GetContent(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, content)
}

func (h *ContentHandler) GetContentBySlug(w http.ResponseWriter, r *http.Request) {
	content, err := h.service.GetContentBySlug(r.Context(), auth.FromContext(r.Context()),
		chi.URLParam(r, "slug"), r.URL.Query().Get("language"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, content)
}

func (h *ContentHandler) listRequest(r *http.Request) (simplecms.ListContentRequest, error) {
	q := r.URL.Query()
	page, pageSize, err := pageQuery(r)
	if err != nil {
		return simplecms.ListContentRequest{}, err
	}
	authorID, err := optionalUUIDQuery(r, "author_id")
	if err != nil {
		return simplecms.ListContentRequest{}, err
	}

	req := simplecms.ListContentRequest{
		Language: q.Get("language"),
		Tags:     listQuery(r, "tags"),
		AuthorID: authorID,
		Search:   q.Get("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if v := q.Get("content_type"); v != "" {
		contentType := simplecms.ContentType(v)
		req.ContentType = &contentType
	}
	if v := q.Get("status"); v != "" {
		status := simplecms.ContentStatus(v)
		req.Status = &status
	}
	return req, nil
}

func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	req, err := h.listRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := h.service.ListContent(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *ContentHandler) ListMyContent(w http.ResponseWriter, r *http.Request) {
	req, err := h.listRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := h.service.ListMyContent(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req UpdateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	update := simplecms.UpdateContentRequest{
		Title:            req.Title,
		Slug:             req.Slug,
		Body:             req.Body,
		Language:         req.Language,
		FeaturedImageURL: req.FeaturedImageURL,
		Tags:             req.Tags,
		Metadata:         req.Metadata,
	}
	if req.ContentType != nil {
		contentType := simplecms.ContentType(*req.ContentType)
		update.ContentType = &contentType
	}
	if req.Status != nil {
		status := simplecms.ContentStatus(*req.Status)
		update.Status = &status
	}

	content, err := h.service.UpdateContent(r.Context(), auth.FromContext(r.Context()), id, update)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, content)
}

// DeleteContent archives the content and returns the archived record
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	content, err := h.service.DeleteContent(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, content)
}

func (h *ContentHandler) PublishContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	content, err := h.service.PublishContent(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, content)
}

func (h *ContentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	content, err := h.service.ChangeContentStatus(r.Context(), auth.FromContext(r.Context()), id, simplecms.ContentStatus(req.Status))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, content)
}

func (h *ContentHandler) PurgeContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.service.PurgeContent(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(r.Context(), "content purged", "content_id", id)
	render.NoContent(w, r)
}
