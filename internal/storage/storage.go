package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/sitemapd/internal/models"
)

var ErrOptionNotFound = errors.New("option not found")

type Store interface {
	Initialize() error
	Close() error

	// Document operations
	UpsertDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	ListPublishedDocuments(ctx context.Context, docType string, excludeSlugs []string) ([]*models.Document, error)
	LatestModification(ctx context.Context) (time.Time, error)

	// Term operations
	UpsertTerm(ctx context.Context, term *models.Term) error
	ListNonEmptyTerms(ctx context.Context, taxonomy string) ([]*models.Term, error)

	// Attachment operations
	UpsertAttachment(ctx context.Context, att *models.Attachment) error
	GetAttachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error)

	// Option operations
	GetOption(ctx context.Context, key string) (string, error)
	SetOption(ctx context.Context, key, value string) error
}

// Open returns the store for the configured driver.
func Open(driver, url string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgresStore(url)
	default:
		return NewSQLiteStore(url)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}

// splitIDs parses a comma separated id list, dropping malformed entries.
func splitIDs(s string) []uuid.UUID {
	var ids []uuid.UUID
	for _, part := range strings.Split(s, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func nullableID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func idPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}
