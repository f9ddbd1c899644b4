package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

const (
	// maxUploadBody bounds a multipart upload: the largest per-type limit plus
	// room for the form fields.
	maxUploadBody = 101 << 20
	// maxUploadMemory is how much of a multipart form is kept in memory
	// before parts spill to temporary files.
	maxUploadMemory = 32 << 20
)

// MediaHandler handles HTTP requests for media files
type MediaHandler struct {
	service simplecms.MediaService
	logger  *slog.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(service simplecms.MediaService, logger *slog.Logger) *MediaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaHandler{service: service, logger: logger}
}

// Routes registers the media endpoints on r
func (h *MediaHandler) Routes(r chi.Router) {
	r.Get("/", h.ListMedia)
	r.Get("/{id}", h.GetMedia)
	r.Get("/{id}/download", h.DownloadMedia)
	r.Get("/content/{contentID}/media", h.ListMediaForContent)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.logger))
		r.Post("/upload", h.UploadMedia)
		r.Post("/content/{contentID}/upload", h.UploadMedia)
		r.Put("/{id}", h.UpdateMedia)
		r.Delete("/{id}", h.DeleteMedia)
	})
}

// UpdateMediaRequest is the request body for a partial media update
type UpdateMediaRequest struct {
	ContentID *uuid.UUID             `json:"content_id,omitempty"`
	Filename  *string                `json:"filename,omitempty"`
	Width     *int                   `json:"width,omitempty"`
	Height    *int                   `json:"height,omitempty"`
	Duration  *int                   `json:"duration,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// MediaList is the response body for unpaged media listings
type MediaList struct {
	Items []*simplecms.Media `json:"items"`
	Total int                `json:"total"`
}

// UploadMedia accepts a multipart form with a "file" part and "media_type",
// plus optional "content_id" and JSON "metadata" fields. The content id may
// also come from the path.
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if !errors.As(err, &maxBytes) {
			err = badRequest("body", err.Error())
		}
		writeError(w, r, h.logger, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, file, err := h.uploadRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	defer file.Close()

	media, err := h.service.UploadMedia(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "media uploaded", "media_id", media.ID, "size", media.FileSize)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, media)
}

func (h *MediaHandler) uploadRequest(r *http.Request) (simplecms.UploadMediaRequest, io.Closer, error) {
	var req simplecms.UploadMediaRequest

	mediaType := r.FormValue("media_type")
	if mediaType == "" {
		return req, nil, badRequest("media_type", "is required")
	}
	req.MediaType = simplecms.MediaType(mediaType)

	contentID := chi.URLParam(r, "contentID")
	if contentID == "" {
		contentID = r.FormValue("content_id")
	}
	if contentID != "" {
		id, err := uuid.Parse(contentID)
		if err != nil {
			return req, nil, badRequest("content_id", "must be a UUID")
		}
		req.ContentID = &id
	}

	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Metadata); err != nil {
			return req, nil, badRequest("metadata", "must be a JSON object")
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return req, nil, badRequest("file", "is required")
	}
	req.Filename = header.Filename
	req.MimeType = header.Header.Get("Content-Type")
	req.Reader = file
	return req, file, nil
}

func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	media, err := h.service.GetMedia(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, media)
}

// DownloadMedia streams the stored file as an attachment
func (h *MediaHandler) DownloadMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	media, rc, err := h.service.OpenMedia(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", media.MimeType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": media.Filename}))
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.WarnContext(r.Context(), "download interrupted", "media_id", media.ID, "err", err)
	}
}

func (h *MediaHandler) mediaTypeQuery(r *http.Request) *simplecms.MediaType {
	if v := r.URL.Query().Get("media_type"); v != "" {
		mediaType := simplecms.MediaType(v)
		return &mediaType
	}
	return nil
}

func (h *MediaHandler) ListMediaForContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuidParam(r, "contentID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	items, err := h.service.ListMediaForContent(r.Context(), contentID, h.mediaTypeQuery(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, MediaList{Items: items, Total: len(items)})
}

func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	uploadedBy, err := optionalUUIDQuery(r, "uploaded_by")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	contentID, err := optionalUUIDQuery(r, "content_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.service.ListMedia(r.Context(), simplecms.ListMediaRequest{
		MediaType:  h.mediaTypeQuery(r),
		UploadedBy: uploadedBy,
		ContentID:  contentID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *MediaHandler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req UpdateMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	media, err := h.service.UpdateMedia(r.Context(), auth.FromContext(r.Context()), id, simplecms.UpdateMediaRequest{
		ContentID: req.ContentID,
		Filename:  req.Filename,
		Width:     req.Width,
		Height:    req.Height,
		Duration:  req.Duration,
		Metadata:  req.Metadata,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, media)
}

func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.service.DeleteMedia(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(r.Context(), "media deleted", "media_id", id)
	render.NoContent(w, r)
}

// inlineTypes may be rendered by the browser; everything else, SVG included,
// is served as an attachment.
var inlineTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// FilesHandler serves stored blobs by locator under a route prefix
func FilesHandler(store simplecms.BlobStore, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		locator := chi.URLParam(r, "*")
		if locator == "" {
			writeError(w, r, logger, simplecms.ErrBlobNotFound)
			return
		}
		rc, err := store.Open(r.Context(), locator)
		if err != nil {
			writeError(w, r, logger, fmt.Errorf("open %s: %w", locator, err))
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(locator))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if !inlineTypes[ct] {
			w.Header().Set("Content-Disposition", "attachment")
		}
		if _, err := io.Copy(w, rc); err != nil {
			logger.WarnContext(r.Context(), "file transfer interrupted", "path", locator, "err", err)
		}
	}
}
