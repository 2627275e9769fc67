package sitemap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/romangod6/sitemapd/internal/models"
)

// SettingsLookup returns the stored settings of one content type.
type SettingsLookup func(ctx context.Context, key string) (models.TypeSettings, error)

// IndexBuilder renders the <sitemapindex> pointing at every included type.
type IndexBuilder struct {
	registry *Registry
	baseURL  string
	now      func() time.Time
}

// NewIndexBuilder uses time.Now when now is nil.
func NewIndexBuilder(registry *Registry, baseURL string, now func() time.Time) *IndexBuilder {
	if now == nil {
		now = time.Now
	}
	return &IndexBuilder{
		registry: registry,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      now,
	}
}

func (ib *IndexBuilder) Build(ctx context.Context, lookup SettingsLookup) (string, error) {
	index := models.SitemapIndex{Xmlns: models.SitemapNamespace}
	lastMod := ib.now().Format(time.RFC3339)

	for _, desc := range ib.registry.List() {
		settings, err := lookup(ctx, desc.Key)
		if err != nil {
			return "", fmt.Errorf("failed to load settings for %s: %w", desc.Key, err)
		}
		if !settings.Included {
			continue
		}
		index.Sitemaps = append(index.Sitemaps, models.SitemapRef{
			Loc:     ib.baseURL + "/sitemap-" + desc.Key + ".xml",
			LastMod: lastMod,
		})
	}

	return renderDocument(stylesheetHref(ib.baseURL), index)
}
