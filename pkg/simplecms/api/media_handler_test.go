package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

type uploadForm struct {
	fields   map[string]string
	filename string
	mimeType string
	data     []byte
}

// upload posts a multipart form; a nil principal sends no credential.
func (e *testEnv) upload(target string, p *auth.Principal, form uploadForm) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range form.fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	if form.filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, form.filename))
		h.Set("Content-Type", form.mimeType)
		part, err := mw.CreatePart(h)
		require.NoError(e.t, err)
		_, err = part.Write(form.data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if p != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(p))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func textUpload(fields map[string]string) uploadForm {
	return uploadForm{
		fields:   fields,
		filename: "notes.txt",
		mimeType: "text/plain",
		data:     []byte("meeting notes"),
	}
}

func TestMediaHandler_Upload(t *testing.T) {
	env := setupRouterTest(t)
	uploader := env.user()

	w := env.upload("/api/v1/media/upload", uploader, textUpload(map[string]string{
		"media_type": "document",
		"metadata":   `{"source":"scanner"}`,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	media := decode[simplecms.Media](t, w)
	assert.Equal(t, simplecms.MediaTypeDocument, media.MediaType)
	assert.Equal(t, "notes.txt", media.Filename)
	assert.Equal(t, "text/plain", media.MimeType)
	assert.Equal(t, int64(len("meeting notes")), media.FileSize)
	assert.Equal(t, uploader.ID, media.UploadedBy)
	assert.Equal(t, "scanner", media.Metadata["source"])
	assert.Nil(t, media.ContentID)

	w = env.do(http.MethodGet, "/api/v1/media/"+media.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, media.ID, decode[simplecms.Media](t, w).ID)

	w = env.do(http.MethodGet, "/api/v1/media/"+media.ID.String()+"/download", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "meeting notes", w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, `attachment; filename=notes.txt`, w.Header().Get("Content-Disposition"))
}

func TestMediaHandler_UploadErrors(t *testing.T) {
	env := setupRouterTest(t)
	uploader := env.user()

	tests := []struct {
		name   string
		p      *auth.Principal
		form   uploadForm
		status int
		code   string
	}{
		{"no credential", nil, textUpload(map[string]string{"media_type": "document"}), http.StatusUnauthorized, "unauthenticated"},
		{"missing media type", uploader, textUpload(nil), http.StatusBadRequest, "validation_error"},
		{"unknown media type", uploader, textUpload(map[string]string{"media_type": "hologram"}), http.StatusBadRequest, "validation_error"},
		{"missing file", uploader, uploadForm{fields: map[string]string{"media_type": "document"}}, http.StatusBadRequest, "validation_error"},
		{"bad content id", uploader, textUpload(map[string]string{"media_type": "document", "content_id": "nope"}), http.StatusBadRequest, "validation_error"},
		{"bad metadata", uploader, textUpload(map[string]string{"media_type": "document", "metadata": "[1,2]"}), http.StatusBadRequest, "validation_error"},
		{"wrong declared type", uploader, textUpload(map[string]string{"media_type": "image"}), http.StatusBadRequest, "invalid_file_type"},
		{
			"payload does not match",
			uploader,
			uploadForm{
				fields:   map[string]string{"media_type": "image"},
				filename: "fake.png",
				mimeType: "image/png",
				data:     []byte("definitely not a png"),
			},
			http.StatusBadRequest,
			"invalid_file_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.upload("/api/v1/media/upload", tt.p, tt.form)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestMediaHandler_ContentMedia(t *testing.T) {
	env := setupRouterTest(t)
	author := env.user()
	content := env.createContent(author, "gallery")
	target := "/api/v1/media/content/" + content.ID.String() + "/upload"

	w := env.upload(target, env.user(), textUpload(map[string]string{"media_type": "document"}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.upload(target, author, textUpload(map[string]string{"media_type": "document"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	attached := decode[simplecms.Media](t, w)
	require.NotNil(t, attached.ContentID)
	assert.Equal(t, content.ID, *attached.ContentID)

	w = env.upload("/api/v1/media/upload", author, textUpload(map[string]string{"media_type": "document"}))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodGet, "/api/v1/media/content/"+content.ID.String()+"/media", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[MediaList](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, attached.ID, list.Items[0].ID)

	w = env.do(http.MethodGet, "/api/v1/media/content/"+content.ID.String()+"/media?media_type=image", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[MediaList](t, w).Items)

	w = env.do(http.MethodGet, "/api/v1/media/?content_id="+content.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[simplecms.Page[simplecms.Media]](t, w)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, simplecms.DefaultMediaPageSize, page.PageSize)

	w = env.do(http.MethodGet, "/api/v1/media/?uploaded_by="+author.ID.String()+"&media_type=document", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[simplecms.Page[simplecms.Media]](t, w).Total)

	w = env.do(http.MethodGet, "/api/v1/media/?media_type=hologram", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_UpdateAndDelete(t *testing.T) {
	env := setupRouterTest(t)
	uploader := env.user()

	w := env.upload("/api/v1/media/upload", uploader, textUpload(map[string]string{"media_type": "document"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	media := decode[simplecms.Media](t, w)
	target := "/api/v1/media/" + media.ID.String()

	filename := "minutes.txt"
	w = env.do(http.MethodPut, target, env.user(), UpdateMediaRequest{Filename: &filename})
	assert.Equal(t, http.StatusForbidden, w.Code)

	width := -1
	w = env.do(http.MethodPut, target, uploader, UpdateMediaRequest{Width: &width})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPut, target, uploader, UpdateMediaRequest{
		Filename: &filename,
		Metadata: map[string]interface{}{"reviewed": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[simplecms.Media](t, w)
	assert.Equal(t, "minutes.txt", updated.Filename)
	assert.Equal(t, true, updated.Metadata["reviewed"])

	w = env.do(http.MethodDelete, target, env.user(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodDelete, target, env.superuser(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, target, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, err := env.store.Open(context.Background(), media.StoragePath)
	assert.ErrorIs(t, err, simplecms.ErrBlobNotFound)
}
