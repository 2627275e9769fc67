package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/romangod6/sitemapd/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS attachments (
            id UUID PRIMARY KEY,
            url VARCHAR(2048) NOT NULL,
            title TEXT,
            alt TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS documents (
            id UUID PRIMARY KEY,
            type VARCHAR(64) NOT NULL,
            slug VARCHAR(255) NOT NULL,
            title TEXT,
            status VARCHAR(32) NOT NULL,
            robots VARCHAR(32),
            thumbnail_id UUID REFERENCES attachments(id) ON DELETE SET NULL,
            gallery_ids TEXT[],
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(type, slug)
        )`,
		`CREATE TABLE IF NOT EXISTS terms (
            id UUID PRIMARY KEY,
            taxonomy VARCHAR(64) NOT NULL,
            slug VARCHAR(255) NOT NULL,
            name VARCHAR(255) NOT NULL,
            description TEXT,
            robots VARCHAR(32),
            thumbnail_id UUID REFERENCES attachments(id) ON DELETE SET NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(taxonomy, slug)
        )`,
		`CREATE TABLE IF NOT EXISTS document_terms (
            document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
            term_id UUID NOT NULL REFERENCES terms(id) ON DELETE CASCADE,
            PRIMARY KEY(document_id, term_id)
        )`,
		`CREATE TABLE IF NOT EXISTS options (
            key VARCHAR(191) PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_documents_type_status ON documents(type, status, updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_terms_taxonomy ON terms(taxonomy)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) UpsertDocument(ctx context.Context, doc *models.Document) error {
	query := `
        INSERT INTO documents (id, type, slug, title, status, robots, thumbnail_id, gallery_ids, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            type = EXCLUDED.type,
            slug = EXCLUDED.slug,
            title = EXCLUDED.title,
            status = EXCLUDED.status,
            robots = EXCLUDED.robots,
            thumbnail_id = EXCLUDED.thumbnail_id,
            gallery_ids = EXCLUDED.gallery_ids,
            updated_at = EXCLUDED.updated_at
    `

	gallery := make([]string, 0, len(doc.GalleryIDs))
	for _, id := range doc.GalleryIDs {
		gallery = append(gallery, id.String())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, query,
		doc.ID,
		doc.Type,
		doc.Slug,
		doc.Title,
		doc.Status,
		string(doc.Robots),
		nullableID(doc.ThumbnailID),
		pq.Array(gallery),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error upserting document %s: %w", doc.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_terms WHERE document_id = $1`, doc.ID); err != nil {
		return err
	}

	for _, termID := range doc.TermIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_terms (document_id, term_id) VALUES ($1, $2)`,
			doc.ID, termID,
		); err != nil {
			return fmt.Errorf("error assigning term %s: %w", termID, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `
        SELECT id, type, slug, title, status, robots, thumbnail_id, gallery_ids, created_at, updated_at,
               ARRAY(SELECT term_id::text FROM document_terms WHERE document_id = documents.id)
        FROM documents
        WHERE id = $1
    `

	var termIDs []string
	doc, err := scanPostgresDocument(s.db.QueryRowContext(ctx, query, id), pq.Array(&termIDs))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, raw := range termIDs {
		if termID, err := uuid.Parse(raw); err == nil {
			doc.TermIDs = append(doc.TermIDs, termID)
		}
	}

	return doc, nil
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) ListPublishedDocuments(ctx context.Context, docType string, excludeSlugs []string) ([]*models.Document, error) {
	query := `
        SELECT id, type, slug, title, status, robots, thumbnail_id, gallery_ids, created_at, updated_at
        FROM documents
        WHERE type = $1 AND status = $2 AND NOT (slug = ANY($3))
        ORDER BY updated_at DESC
    `

	if excludeSlugs == nil {
		excludeSlugs = []string{}
	}

	rows, err := s.db.QueryContext(ctx, query, docType, models.StatusPublish, pq.Array(excludeSlugs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanPostgresDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (s *PostgresStore) LatestModification(ctx context.Context) (time.Time, error) {
	var updated sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(updated_at) FROM documents WHERE status = $1`,
		models.StatusPublish,
	).Scan(&updated)
	if err != nil {
		return time.Time{}, err
	}
	return updated.Time, nil
}

func (s *PostgresStore) UpsertTerm(ctx context.Context, term *models.Term) error {
	query := `
        INSERT INTO terms (id, taxonomy, slug, name, description, robots, thumbnail_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE SET
            taxonomy = EXCLUDED.taxonomy,
            slug = EXCLUDED.slug,
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            robots = EXCLUDED.robots,
            thumbnail_id = EXCLUDED.thumbnail_id,
            updated_at = EXCLUDED.updated_at
    `

	_, err := s.db.ExecContext(ctx, query,
		term.ID,
		term.Taxonomy,
		term.Slug,
		term.Name,
		term.Description,
		string(term.Robots),
		nullableID(term.ThumbnailID),
		term.CreatedAt,
		term.UpdatedAt,
	)

	return err
}

func (s *PostgresStore) ListNonEmptyTerms(ctx context.Context, taxonomy string) ([]*models.Term, error) {
	query := `
        SELECT t.id, t.taxonomy, t.slug, t.name, t.description, t.robots, t.thumbnail_id, t.created_at, t.updated_at
        FROM terms t
        WHERE t.taxonomy = $1
          AND EXISTS (
            SELECT 1 FROM document_terms dt
            JOIN documents d ON d.id = dt.document_id
            WHERE dt.term_id = t.id AND d.status = $2
          )
        ORDER BY t.name
    `

	rows, err := s.db.QueryContext(ctx, query, taxonomy, models.StatusPublish)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		term := &models.Term{}
		var description, robots sql.NullString
		var thumbnailID uuid.NullUUID

		err := rows.Scan(
			&term.ID,
			&term.Taxonomy,
			&term.Slug,
			&term.Name,
			&description,
			&robots,
			&thumbnailID,
			&term.CreatedAt,
			&term.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		term.Description = description.String
		term.Robots = models.RobotsDirective(robots.String)
		term.ThumbnailID = idPtr(thumbnailID)
		terms = append(terms, term)
	}

	return terms, rows.Err()
}

func (s *PostgresStore) UpsertAttachment(ctx context.Context, att *models.Attachment) error {
	query := `
        INSERT INTO attachments (id, url, title, alt, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            url = EXCLUDED.url,
            title = EXCLUDED.title,
            alt = EXCLUDED.alt
    `

	_, err := s.db.ExecContext(ctx, query, att.ID, att.URL, att.Title, att.Alt, att.CreatedAt)
	return err
}

func (s *PostgresStore) GetAttachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	query := `
        SELECT id, url, title, alt, created_at
        FROM attachments
        WHERE id = $1
    `

	att := &models.Attachment{}
	var title, alt sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&att.ID,
		&att.URL,
		&title,
		&alt,
		&att.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	att.Title = title.String
	att.Alt = alt.String

	return att, nil
}

func (s *PostgresStore) GetOption(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%s: %w", key, ErrOptionNotFound)
	}
	return value, err
}

func (s *PostgresStore) SetOption(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO options (key, value, updated_at)
        VALUES ($1, $2, CURRENT_TIMESTAMP)
        ON CONFLICT (key) DO UPDATE SET
            value = EXCLUDED.value,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanPostgresDocument(row rowScanner, extra ...interface{}) (*models.Document, error) {
	doc := &models.Document{}
	var title, robots sql.NullString
	var thumbnailID uuid.NullUUID
	var gallery []string

	dest := []interface{}{
		&doc.ID,
		&doc.Type,
		&doc.Slug,
		&title,
		&doc.Status,
		&robots,
		&thumbnailID,
		pq.Array(&gallery),
		&doc.CreatedAt,
		&doc.UpdatedAt,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	doc.Title = title.String
	doc.Robots = models.RobotsDirective(robots.String)
	doc.ThumbnailID = idPtr(thumbnailID)
	for _, raw := range gallery {
		if id, err := uuid.Parse(raw); err == nil {
			doc.GalleryIDs = append(doc.GalleryIDs, id)
		}
	}

	return doc, nil
}
