package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/romangod6/sitemapd/internal/logger"
	"github.com/romangod6/sitemapd/internal/models"
	"github.com/romangod6/sitemapd/internal/storage"
)

// Options read for the homepage entry.
const (
	OptionSiteName   = "site_name"
	OptionSiteLogoID = "site_logo_id"
)

type Config struct {
	BaseURL       string
	ExcludedPages []string
}

// Source turns stored documents, terms and attachments into sitemap items.
type Source struct {
	store         storage.Store
	baseURL       string
	excludedPages []string
	log           zerolog.Logger
}

// NewSource falls back to DefaultExcludedPages when cfg lists none.
func NewSource(store storage.Store, cfg Config) *Source {
	excluded := cfg.ExcludedPages
	if excluded == nil {
		excluded = DefaultExcludedPages
	}
	return &Source{
		store:         store,
		baseURL:       cfg.BaseURL,
		excludedPages: excluded,
		log:           logger.With("content"),
	}
}

// Documents returns published documents of docType, most recently
// modified first.
func (s *Source) Documents(ctx context.Context, docType string) ([]models.ContentItem, error) {
	var exclude []string
	if docType == models.TypePage {
		exclude = s.excludedPages
	}

	docs, err := s.store.ListPublishedDocuments(ctx, docType, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", docType, err)
	}

	items := make([]models.ContentItem, 0, len(docs))
	for _, doc := range docs {
		link := DocumentLink(s.baseURL, doc.Type, doc.Slug)
		if link == "" {
			s.log.Debug().Str("id", doc.ID.String()).Msg("Skipping document without permalink")
			continue
		}

		item := models.ContentItem{
			URL:          link,
			LastModified: doc.UpdatedAt,
			Robots:       doc.Robots,
		}

		if doc.Type == models.TypeProduct {
			item.Images, err = s.productImages(ctx, doc)
			if err != nil {
				return nil, err
			}
		}

		items = append(items, item)
	}

	return items, nil
}

// productImages returns the featured image followed by the gallery.
func (s *Source) productImages(ctx context.Context, doc *models.Document) ([]models.ImageRef, error) {
	ids := make([]uuid.UUID, 0, len(doc.GalleryIDs)+1)
	if doc.ThumbnailID != nil {
		ids = append(ids, *doc.ThumbnailID)
	}
	ids = append(ids, doc.GalleryIDs...)

	var images []models.ImageRef
	for _, id := range ids {
		att, err := s.store.GetAttachment(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load attachment %s: %w", id, err)
		}
		if att == nil || att.URL == "" {
			s.log.Debug().Str("attachment", id.String()).Msg("Skipping unresolvable attachment")
			continue
		}
		images = append(images, models.ImageRef{
			URL:     att.URL,
			Title:   doc.Title,
			Caption: att.Alt,
		})
	}
	return images, nil
}

// Terms returns the terms of taxonomy that have published content.
func (s *Source) Terms(ctx context.Context, taxonomy string) ([]models.ContentItem, error) {
	terms, err := s.store.ListNonEmptyTerms(ctx, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s terms: %w", taxonomy, err)
	}

	items := make([]models.ContentItem, 0, len(terms))
	for _, term := range terms {
		link := TermLink(s.baseURL, term.Taxonomy, term.Slug)
		if link == "" {
			s.log.Debug().Str("term", term.Name).Msg("Skipping term without link")
			continue
		}

		item := models.ContentItem{
			URL:          link,
			LastModified: term.UpdatedAt,
			Robots:       term.Robots,
		}

		if term.ThumbnailID != nil {
			att, err := s.store.GetAttachment(ctx, *term.ThumbnailID)
			if err != nil {
				return nil, fmt.Errorf("failed to load attachment %s: %w", *term.ThumbnailID, err)
			}
			if att != nil && att.URL != "" {
				item.Images = append(item.Images, models.ImageRef{
					URL:     att.URL,
					Title:   term.Name,
					Caption: plainText(term.Description),
				})
			}
		}

		items = append(items, item)
	}

	return items, nil
}

// Homepage returns the single homepage item.
func (s *Source) Homepage(ctx context.Context) ([]models.ContentItem, error) {
	latest, err := s.store.LatestModification(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest modification: %w", err)
	}

	item := models.ContentItem{
		URL:          HomeLink(s.baseURL),
		LastModified: latest,
	}

	logo, err := s.logo(ctx)
	if err != nil {
		return nil, err
	}
	if logo != nil {
		item.Images = append(item.Images, *logo)
	}

	return []models.ContentItem{item}, nil
}

func (s *Source) logo(ctx context.Context) (*models.ImageRef, error) {
	raw, err := s.option(ctx, OptionSiteLogoID)
	if err != nil || raw == "" {
		return nil, err
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		s.log.Debug().Str("value", raw).Msg("Ignoring malformed site logo id")
		return nil, nil
	}

	att, err := s.store.GetAttachment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load site logo: %w", err)
	}
	if att == nil || att.URL == "" {
		return nil, nil
	}

	name, err := s.option(ctx, OptionSiteName)
	if err != nil {
		return nil, err
	}

	return &models.ImageRef{URL: att.URL, Title: name}, nil
}

// option returns "" for unset options.
func (s *Source) option(ctx context.Context, key string) (string, error) {
	v, err := s.store.GetOption(ctx, key)
	if errors.Is(err, storage.ErrOptionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read option %s: %w", key, err)
	}
	return v, nil
}
