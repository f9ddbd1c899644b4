package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/language"
)

// Option configures the router
type Option func(*router)

type router struct {
	logger     *slog.Logger
	files      simplecms.BlobStore
	filesRoute string
}

// WithLogger sets the logger used for request failures
func WithLogger(logger *slog.Logger) Option {
	return func(r *router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFiles serves blobs from store under route, e.g. "/media/files/"
func WithFiles(route string, store simplecms.BlobStore) Option {
	return func(r *router) {
		r.filesRoute = route
		r.files = store
	}
}

// LanguagesResponse lists the supported languages
type LanguagesResponse struct {
	Languages []language.Language `json:"languages"`
	Default   string              `json:"default"`
}

// NewRouter builds the HTTP surface of the service. Every request is
// authenticated optionally; mutating endpoints require a principal.
func NewRouter(service simplecms.Service, resolver *auth.Resolver, opts ...Option) chi.Router {
	cfg := &router{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	contents := NewContentHandler(service, cfg.logger)
	translations := NewTranslationHandler(service, cfg.logger)
	media := NewMediaHandler(service, cfg.logger)

	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	if cfg.files != nil {
		route := "/" + strings.Trim(cfg.filesRoute, "/") + "/*"
		r.Get(route, FilesHandler(cfg.files, cfg.logger))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticator(resolver))

		r.Get("/languages", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, LanguagesResponse{Languages: language.All(), Default: language.Default})
		})

		r.Route("/content", func(r chi.Router) {
			contents.Routes(r)
			translations.Routes(r)
		})
		r.Route("/media", media.Routes)
	})

	return r
}
