package models

import (
	"time"

	"github.com/google/uuid"
)

// Document types served from the documents table.
const (
	TypePost    = "post"
	TypePage    = "page"
	TypeProduct = "product"
)

// Taxonomies served from the terms table.
const (
	TaxonomyProductCat = "product_cat"
	TaxonomyCategory   = "category"
)

const StatusPublish = "publish"

type Document struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type" binding:"required,oneof=post page product"`
	Slug        string          `json:"slug" binding:"required"`
	Title       string          `json:"title"`
	Status      string          `json:"status"`
	Robots      RobotsDirective `json:"robots,omitempty" binding:"omitempty,robots"`
	ThumbnailID *uuid.UUID      `json:"thumbnail_id,omitempty"`
	GalleryIDs  []uuid.UUID     `json:"gallery_ids,omitempty"`
	TermIDs     []uuid.UUID     `json:"term_ids,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Term struct {
	ID          uuid.UUID       `json:"id"`
	Taxonomy    string          `json:"taxonomy" binding:"required,oneof=product_cat category"`
	Slug        string          `json:"slug" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description,omitempty"`
	Robots      RobotsDirective `json:"robots,omitempty" binding:"omitempty,robots"`
	ThumbnailID *uuid.UUID      `json:"thumbnail_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Attachment struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url" binding:"required,url"`
	Title     string    `json:"title"`
	Alt       string    `json:"alt,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Option struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocument creates a published document with generated UUID and timestamps
func NewDocument(docType, slug, title string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.New(),
		Type:      docType,
		Slug:      slug,
		Title:     title,
		Status:    StatusPublish,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTerm creates a new term with generated UUID and timestamps
func NewTerm(taxonomy, slug, name string) *Term {
	now := time.Now().UTC()
	return &Term{
		ID:        uuid.New(),
		Taxonomy:  taxonomy,
		Slug:      slug,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewAttachment creates a new attachment with generated UUID
func NewAttachment(url, title, alt string) *Attachment {
	return &Attachment{
		ID:        uuid.New(),
		URL:       url,
		Title:     title,
		Alt:       alt,
		CreatedAt: time.Now().UTC(),
	}
}

// IsPublished returns true if the document is publicly visible
func (d *Document) IsPublished() bool {
	return d.Status == StatusPublish
}
