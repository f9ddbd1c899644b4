package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

//go:embed schema.sql
var schema string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplecms.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simplecms.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simplecms.Repository {
	return &Repository{db: pool}
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return handlePostgresError("migrate", err)
	}
	return nil
}

// handlePostgresError maps driver errors onto the package's sentinel errors.
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			switch {
			case strings.Contains(pgErr.ConstraintName, "slug"):
				return fmt.Errorf("%w: slug already exists for this language", simplecms.ErrConflict)
			case strings.Contains(pgErr.ConstraintName, "translation"):
				return fmt.Errorf("%w: translation already exists for this language", simplecms.ErrConflict)
			}
			return fmt.Errorf("%w: duplicate entry", simplecms.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: referenced record not found", simplecms.ErrNotFound)
		case "23502": // not_null_violation
			return &simplecms.ValidationError{Field: pgErr.ColumnName, Reason: "is required"}
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// notFound translates an empty result into the given sentinel.
func notFound(operation string, err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return handlePostgresError(operation, err)
}

// whereBuilder accumulates SQL predicates with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// limitClause appends LIMIT/OFFSET placeholders; a non-positive limit means all rows.
func (w *whereBuilder) limitClause(offset, limit int) string {
	if limit <= 0 {
		return ""
	}
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

func contentWhere(filter simplecms.ContentFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.ContentType != nil {
		w.add("content_type = ?", string(*filter.ContentType))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		w.add("status = ANY(?)", statuses)
	}
	if filter.Language != "" {
		w.add("language = ?", filter.Language)
	}
	if filter.AuthorID != nil {
		w.add("author_id = ?", *filter.AuthorID)
	}
	if len(filter.Tags) > 0 {
		w.add("tags && ?", filter.Tags)
	}
	if filter.Search != "" {
		w.add("(title ILIKE ? OR body ILIKE ?)", "%"+escapeLike(filter.Search)+"%")
	}
	return w
}

func mediaWhere(filter simplecms.MediaFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.MediaType != nil {
		w.add("media_type = ?", string(*filter.MediaType))
	}
	if filter.UploadedBy != nil {
		w.add("uploaded_by = ?", *filter.UploadedBy)
	}
	if filter.ContentID != nil {
		w.add("content_id = ?", *filter.ContentID)
	}
	return w
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Content operations

const contentColumns = `id, title, slug, body, content_type, status, author_id, language,
	featured_image_url, tags, metadata, published_at, created_at, updated_at`

func scanContent(row pgx.Row) (*simplecms.Content, error) {
	var c simplecms.Content
	err := row.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Body, &c.ContentType, &c.Status, &c.AuthorID, &c.Language,
		&c.FeaturedImageURL, &c.Tags, &c.Metadata, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Metadata == nil {
		c.Metadata = map[string]interface{}{}
	}
	return &c, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func metadataOrEmpty(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}

func (r *Repository) CreateContent(ctx context.Context, content *simplecms.Content) error {
	query := `
		INSERT INTO content (` + contentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		content.ID, content.Title, content.Slug, content.Body, string(content.ContentType),
		string(content.Status), content.AuthorID, content.Language, content.FeaturedImageURL,
		tagsOrEmpty(content.Tags), metadataOrEmpty(content.Metadata), content.PublishedAt,
		content.CreatedAt, content.UpdatedAt)
	if err != nil {
		return handlePostgresError("create content", err)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*simplecms.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE id = $1`

	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound("get content", err, simplecms.ErrContentNotFound)
	}
	return content, nil
}

func (r *Repository) GetContentBySlug(ctx context.Context, slug, language string) (*simplecms.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE slug = $1 AND language = $2`

	content, err := scanContent(r.db.QueryRow(ctx, query, slug, language))
	if err != nil {
		return nil, notFound("get content by slug", err, simplecms.ErrContentNotFound)
	}
	return content, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *simplecms.Content) error {
	query := `
		UPDATE content SET
			title = $2, slug = $3, body = $4, content_type = $5, status = $6,
			language = $7, featured_image_url = $8, tags = $9, metadata = $10,
			published_at = $11, updated_at = $12
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		content.ID, content.Title, content.Slug, content.Body, string(content.ContentType),
		string(content.Status), content.Language, content.FeaturedImageURL,
		tagsOrEmpty(content.Tags), metadataOrEmpty(content.Metadata), content.PublishedAt,
		content.UpdatedAt)
	if err != nil {
		return handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrContentNotFound
	}
	return nil
}

// DeleteContent relies on the foreign keys: translations cascade and media
// references are set to NULL.
func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrContentNotFound
	}
	return nil
}

func (r *Repository) ListContent(ctx context.Context, filter simplecms.ContentFilter) ([]*simplecms.Content, int, error) {
	w := contentWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM content`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, handlePostgresError("count content", err)
	}

	query := `SELECT ` + contentColumns + ` FROM content` + w.String() +
		` ORDER BY published_at DESC NULLS LAST, updated_at DESC, id`
	query += w.limitClause(filter.Offset, filter.Limit)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, handlePostgresError("list content", err)
	}
	defer rows.Close()

	items := []*simplecms.Content{}
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, 0, handlePostgresError("scan content", err)
		}
		items = append(items, content)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, handlePostgresError("list content", err)
	}
	return items, total, nil
}

// Translation operations

const translationColumns = `id, content_id, language, translated_title, translated_body,
	translated_slug, translator_id, translation_status, created_at, updated_at`

func scanTranslation(row pgx.Row) (*simplecms.Translation, error) {
	var t simplecms.Translation
	err := row.Scan(&t.ID, &t.ContentID, &t.Language, &t.TranslatedTitle, &t.TranslatedBody,
		&t.TranslatedSlug, &t.TranslatorID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) CreateTranslation(ctx context.Context, translation *simplecms.Translation) error {
	query := `
		INSERT INTO content_translation (` + translationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		translation.ID, translation.ContentID, translation.Language, translation.TranslatedTitle,
		translation.TranslatedBody, translation.TranslatedSlug, translation.TranslatorID,
		string(translation.Status), translation.CreatedAt, translation.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return simplecms.ErrContentNotFound
		}
		return handlePostgresError("create translation", err)
	}
	return nil
}

func (r *Repository) GetTranslation(ctx context.Context, id uuid.UUID) (*simplecms.Translation, error) {
	query := `SELECT ` + translationColumns + ` FROM content_translation WHERE id = $1`

	translation, err := scanTranslation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound("get translation", err, simplecms.ErrTranslationNotFound)
	}
	return translation, nil
}

func (r *Repository) GetTranslationByLanguage(ctx context.Context, contentID uuid.UUID, language string) (*simplecms.Translation, error) {
	query := `SELECT ` + translationColumns + ` FROM content_translation WHERE content_id = $1 AND language = $2`

	translation, err := scanTranslation(r.db.QueryRow(ctx, query, contentID, language))
	if err != nil {
		return nil, notFound("get translation by language", err, simplecms.ErrTranslationNotFound)
	}
	return translation, nil
}

func (r *Repository) ListTranslations(ctx context.Context, contentID uuid.UUID, status *simplecms.TranslationStatus) ([]*simplecms.Translation, error) {
	w := &whereBuilder{}
	w.add("content_id = ?", contentID)
	if status != nil {
		w.add("translation_status = ?", string(*status))
	}
	query := `SELECT ` + translationColumns + ` FROM content_translation` + w.String() + ` ORDER BY language`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, handlePostgresError("list translations", err)
	}
	defer rows.Close()

	items := []*simplecms.Translation{}
	for rows.Next() {
		translation, err := scanTranslation(rows)
		if err != nil {
			return nil, handlePostgresError("scan translation", err)
		}
		items = append(items, translation)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list translations", err)
	}
	return items, nil
}

func (r *Repository) UpdateTranslation(ctx context.Context, translation *simplecms.Translation) error {
	query := `
		UPDATE content_translation SET
			language = $2, translated_title = $3, translated_body = $4, translated_slug = $5,
			translator_id = $6, translation_status = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		translation.ID, translation.Language, translation.TranslatedTitle, translation.TranslatedBody,
		translation.TranslatedSlug, translation.TranslatorID, string(translation.Status), translation.UpdatedAt)
	if err != nil {
		return handlePostgresError("update translation", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrTranslationNotFound
	}
	return nil
}

func (r *Repository) DeleteTranslation(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_translation WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete translation", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrTranslationNotFound
	}
	return nil
}

// Media operations

const mediaColumns = `id, content_id, media_type, filename, url, storage_path, file_size,
	mime_type, width, height, duration, metadata, uploaded_by, created_at`

func scanMedia(row pgx.Row) (*simplecms.Media, error) {
	var m simplecms.Media
	err := row.Scan(&m.ID, &m.ContentID, &m.MediaType, &m.Filename, &m.URL, &m.StoragePath, &m.FileSize,
		&m.MimeType, &m.Width, &m.Height, &m.Duration, &m.Metadata, &m.UploadedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if m.Metadata == nil {
		m.Metadata = map[string]interface{}{}
	}
	return &m, nil
}

func (r *Repository) CreateMedia(ctx context.Context, media *simplecms.Media) error {
	query := `
		INSERT INTO media (` + mediaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		media.ID, media.ContentID, string(media.MediaType), media.Filename, media.URL, media.StoragePath,
		media.FileSize, media.MimeType, media.Width, media.Height, media.Duration,
		metadataOrEmpty(media.Metadata), media.UploadedBy, media.CreatedAt)
	if err != nil {
		return handlePostgresError("create media", err)
	}
	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id uuid.UUID) (*simplecms.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`

	media, err := scanMedia(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound("get media", err, simplecms.ErrMediaNotFound)
	}
	return media, nil
}

func (r *Repository) ListMedia(ctx context.Context, filter simplecms.MediaFilter) ([]*simplecms.Media, int, error) {
	w := mediaWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM media`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, handlePostgresError("count media", err)
	}

	query := `SELECT ` + mediaColumns + ` FROM media` + w.String() + ` ORDER BY created_at DESC, id`
	query += w.limitClause(filter.Offset, filter.Limit)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, handlePostgresError("list media", err)
	}
	defer rows.Close()

	items := []*simplecms.Media{}
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, 0, handlePostgresError("scan media", err)
		}
		items = append(items, media)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, handlePostgresError("list media", err)
	}
	return items, total, nil
}

func (r *Repository) UpdateMedia(ctx context.Context, media *simplecms.Media) error {
	query := `
		UPDATE media SET
			content_id = $2, filename = $3, width = $4, height = $5, duration = $6, metadata = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		media.ID, media.ContentID, media.Filename, media.Width, media.Height, media.Duration,
		metadataOrEmpty(media.Metadata))
	if err != nil {
		return handlePostgresError("update media", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrMediaNotFound
	}
	return nil
}

func (r *Repository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete media", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrMediaNotFound
	}
	return nil
}
