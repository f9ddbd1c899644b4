package postgres

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

func TestHandlePostgresError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "slug unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "content_slug_language_key"},
			want: simplecms.ErrConflict,
		},
		{
			name: "translation unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "content_translation_content_language_key"},
			want: simplecms.ErrConflict,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503"},
			want: simplecms.ErrNotFound,
		},
		{
			name: "not null violation",
			err:  &pgconn.PgError{Code: "23502", ColumnName: "title"},
			want: simplecms.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, handlePostgresError("op", tt.err), tt.want)
		})
	}

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := handlePostgresError("list content", cause)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "list content")
	})
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound("get", pgx.ErrNoRows, simplecms.ErrMediaNotFound), simplecms.ErrMediaNotFound)
	assert.NotErrorIs(t, notFound("get", errors.New("boom"), simplecms.ErrMediaNotFound), simplecms.ErrNotFound)
}

func TestContentWhere(t *testing.T) {
	story := simplecms.ContentTypeStory
	author := uuid.New()

	w := contentWhere(simplecms.ContentFilter{
		ContentType: &story,
		Statuses:    []simplecms.ContentStatus{simplecms.ContentStatusPublished, simplecms.ContentStatusDraft},
		Language:    "es",
		AuthorID:    &author,
		Tags:        []string{"news"},
		Search:      "50%_off",
	})

	assert.Equal(t,
		" WHERE content_type = $1 AND status = ANY($2) AND language = $3 AND author_id = $4 AND tags && $5 AND (title ILIKE $6 OR body ILIKE $6)",
		w.String())
	assert.Equal(t, []interface{}{
		"story",
		[]string{"published", "draft"},
		"es",
		author,
		[]string{"news"},
		`%50\%\_off%`,
	}, w.args)

	assert.Equal(t, " LIMIT $7 OFFSET $8", w.limitClause(20, 10))
	assert.Equal(t, []interface{}{10, 20}, w.args[6:])
}

func TestContentWhere_Empty(t *testing.T) {
	w := contentWhere(simplecms.ContentFilter{})
	assert.Equal(t, "", w.String())
	assert.Empty(t, w.args)
	assert.Equal(t, "", w.limitClause(0, 0))
}

func TestMediaWhere(t *testing.T) {
	image := simplecms.MediaTypeImage
	contentID := uuid.New()

	w := mediaWhere(simplecms.MediaFilter{MediaType: &image, ContentID: &contentID})
	assert.Equal(t, " WHERE media_type = $1 AND content_id = $2", w.String())
	assert.Equal(t, []interface{}{"image", contentID}, w.args)
}
