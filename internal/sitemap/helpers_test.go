package sitemap

import (
	"context"
	"errors"

	"github.com/romangod6/sitemapd/internal/models"
)

type fakeSource struct {
	documents map[string][]models.ContentItem
	terms     map[string][]models.ContentItem
	homepage  []models.ContentItem
	err       error
}

func (f *fakeSource) Documents(ctx context.Context, docType string) ([]models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.documents[docType], nil
}

func (f *fakeSource) Terms(ctx context.Context, taxonomy string) ([]models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.terms[taxonomy], nil
}

func (f *fakeSource) Homepage(ctx context.Context) ([]models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.homepage, nil
}

type fakeSettings map[string]models.TypeSettings

func (f fakeSettings) TypeSettings(ctx context.Context, key string) (models.TypeSettings, error) {
	if s, ok := f[key]; ok {
		return s, nil
	}
	return models.DefaultTypeSettings(), nil
}

type failingSettings struct{}

func (failingSettings) TypeSettings(ctx context.Context, key string) (models.TypeSettings, error) {
	return models.TypeSettings{}, errors.New("settings backend down")
}

type countingFlusher struct {
	flushes int
}

func (c *countingFlusher) Flush() {
	c.flushes++
}
