package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/sitemapd/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS attachments (
            id TEXT PRIMARY KEY,
            url TEXT NOT NULL,
            title TEXT,
            alt TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS documents (
            id TEXT PRIMARY KEY,
            type TEXT NOT NULL,
            slug TEXT NOT NULL,
            title TEXT,
            status TEXT NOT NULL,
            robots TEXT,
            thumbnail_id TEXT,
            gallery_ids TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(type, slug)
        )`,
		`CREATE TABLE IF NOT EXISTS terms (
            id TEXT PRIMARY KEY,
            taxonomy TEXT NOT NULL,
            slug TEXT NOT NULL,
            name TEXT NOT NULL,
            description TEXT,
            robots TEXT,
            thumbnail_id TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(taxonomy, slug)
        )`,
		`CREATE TABLE IF NOT EXISTS document_terms (
            document_id TEXT NOT NULL,
            term_id TEXT NOT NULL,
            PRIMARY KEY(document_id, term_id),
            FOREIGN KEY(document_id) REFERENCES documents(id),
            FOREIGN KEY(term_id) REFERENCES terms(id)
        )`,
		`CREATE TABLE IF NOT EXISTS options (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_documents_type_status ON documents(type, status)`,
		`CREATE INDEX IF NOT EXISTS idx_terms_taxonomy ON terms(taxonomy)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) UpsertDocument(ctx context.Context, doc *models.Document) error {
	query := `
        INSERT INTO documents (id, type, slug, title, status, robots, thumbnail_id, gallery_ids, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            type = excluded.type,
            slug = excluded.slug,
            title = excluded.title,
            status = excluded.status,
            robots = excluded.robots,
            thumbnail_id = excluded.thumbnail_id,
            gallery_ids = excluded.gallery_ids,
            updated_at = excluded.updated_at
    `

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, query,
		doc.ID.String(),
		doc.Type,
		doc.Slug,
		doc.Title,
		doc.Status,
		string(doc.Robots),
		nullableID(doc.ThumbnailID),
		joinIDs(doc.GalleryIDs),
		doc.CreatedAt.UTC(),
		doc.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error upserting document %s: %w", doc.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_terms WHERE document_id = ?`, doc.ID.String()); err != nil {
		return err
	}

	for _, termID := range doc.TermIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_terms (document_id, term_id) VALUES (?, ?)`,
			doc.ID.String(), termID.String(),
		); err != nil {
			return fmt.Errorf("error assigning term %s: %w", termID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `
        SELECT id, type, slug, title, status, robots, thumbnail_id, gallery_ids, created_at, updated_at
        FROM documents
        WHERE id = ?
    `

	doc, err := scanSQLiteDocument(s.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT term_id FROM document_terms WHERE document_id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var termID uuid.UUID
		if err := rows.Scan(&termID); err != nil {
			return nil, err
		}
		doc.TermIDs = append(doc.TermIDs, termID)
	}

	return doc, rows.Err()
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_terms WHERE document_id = ?`, id.String()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id.String()); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListPublishedDocuments(ctx context.Context, docType string, excludeSlugs []string) ([]*models.Document, error) {
	query := `
        SELECT id, type, slug, title, status, robots, thumbnail_id, gallery_ids, created_at, updated_at
        FROM documents
        WHERE type = ? AND status = ?`

	args := []interface{}{docType, models.StatusPublish}
	if len(excludeSlugs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(excludeSlugs)), ", ")
		query += ` AND slug NOT IN (` + placeholders + `)`
		for _, slug := range excludeSlugs {
			args = append(args, slug)
		}
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanSQLiteDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (s *SQLiteStore) LatestModification(ctx context.Context) (time.Time, error) {
	query := `
        SELECT updated_at
        FROM documents
        WHERE status = ?
        ORDER BY updated_at DESC
        LIMIT 1
    `

	var updated time.Time
	err := s.db.QueryRowContext(ctx, query, models.StatusPublish).Scan(&updated)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	return updated, err
}

func (s *SQLiteStore) UpsertTerm(ctx context.Context, term *models.Term) error {
	query := `
        INSERT INTO terms (id, taxonomy, slug, name, description, robots, thumbnail_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            taxonomy = excluded.taxonomy,
            slug = excluded.slug,
            name = excluded.name,
            description = excluded.description,
            robots = excluded.robots,
            thumbnail_id = excluded.thumbnail_id,
            updated_at = excluded.updated_at
    `

	_, err := s.db.ExecContext(ctx, query,
		term.ID.String(),
		term.Taxonomy,
		term.Slug,
		term.Name,
		term.Description,
		string(term.Robots),
		nullableID(term.ThumbnailID),
		term.CreatedAt.UTC(),
		term.UpdatedAt.UTC(),
	)

	return err
}

func (s *SQLiteStore) ListNonEmptyTerms(ctx context.Context, taxonomy string) ([]*models.Term, error) {
	query := `
        SELECT t.id, t.taxonomy, t.slug, t.name, t.description, t.robots, t.thumbnail_id, t.created_at, t.updated_at
        FROM terms t
        WHERE t.taxonomy = ?
          AND EXISTS (
            SELECT 1 FROM document_terms dt
            JOIN documents d ON d.id = dt.document_id
            WHERE dt.term_id = t.id AND d.status = ?
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
		var term models.Term
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
		terms = append(terms, &term)
	}

	return terms, rows.Err()
}

func (s *SQLiteStore) UpsertAttachment(ctx context.Context, att *models.Attachment) error {
	query := `
        INSERT INTO attachments (id, url, title, alt, created_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            url = excluded.url,
            title = excluded.title,
            alt = excluded.alt
    `

	_, err := s.db.ExecContext(ctx, query,
		att.ID.String(),
		att.URL,
		att.Title,
		att.Alt,
		att.CreatedAt.UTC(),
	)

	return err
}

func (s *SQLiteStore) GetAttachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	query := `
        SELECT id, url, title, alt, created_at
        FROM attachments
        WHERE id = ?
    `

	att := &models.Attachment{}
	var title, alt sql.NullString

	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(
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

func (s *SQLiteStore) GetOption(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%s: %w", key, ErrOptionNotFound)
	}
	return value, err
}

func (s *SQLiteStore) SetOption(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO options (key, value, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at
    `

	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSQLiteDocument(row rowScanner) (*models.Document, error) {
	doc := &models.Document{}
	var title, robots, galleryIDs sql.NullString
	var thumbnailID uuid.NullUUID

	err := row.Scan(
		&doc.ID,
		&doc.Type,
		&doc.Slug,
		&title,
		&doc.Status,
		&robots,
		&thumbnailID,
		&galleryIDs,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Title = title.String
	doc.Robots = models.RobotsDirective(robots.String)
	doc.ThumbnailID = idPtr(thumbnailID)
	doc.GalleryIDs = splitIDs(galleryIDs.String)

	return doc, nil
}
