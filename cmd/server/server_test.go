package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/api"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/config"
)

const testSecret = "server-test-secret"

type testServer struct {
	handler http.Handler
	runtime *config.Runtime
	signer  *auth.JWTVerifier
}

func newTestServer(t *testing.T, opts ...config.Option) *testServer {
	t.Helper()
	opts = append([]config.Option{
		config.WithEnvironment("testing"),
		config.WithJWTSecret(testSecret, "HS256"),
	}, opts...)
	cfg, err := config.Load(opts...)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt, err := cfg.BuildService(context.Background(), logger)
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	resolver, err := cfg.BuildResolver()
	require.NoError(t, err)

	signer, err := auth.NewJWTVerifier([]byte(testSecret))
	require.NoError(t, err)

	return &testServer{
		handler: NewHTTPServer(rt, resolver, cfg, logger).Routes(),
		runtime: rt,
		signer:  signer,
	}
}

func (s *testServer) do(t *testing.T, method, path string, p *auth.Principal, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		token, err := s.signer.Sign(*p, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func editor() *auth.Principal {
	return &auth.Principal{ID: uuid.New(), Email: "editor@example.com", Roles: []string{"editor"}, Active: true}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))
}

func TestCreateAndPublishContent(t *testing.T) {
	ts := newTestServer(t)
	author := editor()

	rr := ts.do(t, http.MethodPost, "/api/v1/content/", nil, api.CreateContentRequest{
		Title: "Launch", Slug: "launch", Body: "We are live", ContentType: "news",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/v1/content/", author, api.CreateContentRequest{
		Title: "Launch", Slug: "launch", Body: "We are live", ContentType: "news",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var content simplecms.Content
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &content))

	rr = ts.do(t, http.MethodGet, "/api/v1/content/slug/launch", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/v1/content/"+content.ID.String()+"/publish", author, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.do(t, http.MethodGet, "/api/v1/content/slug/launch", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORSInDevelopment(t *testing.T) {
	ts := newTestServer(t, config.WithEnvironment("development"))

	rr := ts.do(t, http.MethodOptions, "/api/v1/content/", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	ts = newTestServer(t)
	rr = ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestServesFilesystemMedia(t *testing.T) {
	ts := newTestServer(t, config.WithFilesystemStorage(t.TempDir(), ""))

	media, err := ts.runtime.Service.UploadMedia(context.Background(), editor(), simplecms.UploadMediaRequest{
		MediaType: simplecms.MediaTypeDocument,
		Filename:  "readme.txt",
		MimeType:  "text/plain",
		Reader:    bytes.NewReader([]byte("read me first")),
	})
	require.NoError(t, err)
	assert.Equal(t, "/media/files/"+media.StoragePath, media.URL)

	rr := ts.do(t, http.MethodGet, media.URL, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "read me first", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}
