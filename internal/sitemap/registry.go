package sitemap

import (
	"context"
	"fmt"

	"github.com/romangod6/sitemapd/internal/models"
)

// Content type keys.
const (
	KeyPost       = models.TypePost
	KeyPage       = models.TypePage
	KeyProduct    = models.TypeProduct
	KeyProductCat = models.TaxonomyProductCat
	KeyCategory   = models.TaxonomyCategory
	KeyHomepage   = "homepage"
)

// Reserved request values handled by the dispatcher.
const (
	RequestIndex = "index"
	RequestXSL   = "xsl"
)

// ContentSource supplies the published items of each kind of content.
// Items come back in the order they should appear in the sitemap.
type ContentSource interface {
	Documents(ctx context.Context, docType string) ([]models.ContentItem, error)
	Terms(ctx context.Context, taxonomy string) ([]models.ContentItem, error)
	Homepage(ctx context.Context) ([]models.ContentItem, error)
}

// Generator pulls the items of one content type from a source.
type Generator func(ctx context.Context, src ContentSource) ([]models.ContentItem, error)

// Descriptor describes one sitemap content type.
type Descriptor struct {
	Key       string
	Label     string
	Generator Generator
}

// Registry is an ordered, read-only table of content types.
type Registry struct {
	descs []Descriptor
	byKey map[string]int
}

// NewRegistry keeps descriptors in the given order. A repeated key keeps
// its first definition.
func NewRegistry(descs ...Descriptor) *Registry {
	r := &Registry{byKey: make(map[string]int, len(descs))}
	for _, d := range descs {
		if _, exists := r.byKey[d.Key]; exists {
			continue
		}
		r.byKey[d.Key] = len(r.descs)
		r.descs = append(r.descs, d)
	}
	return r
}

// DefaultRegistry returns the six built-in content types.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Descriptor{Key: KeyPost, Label: "Posts", Generator: DocumentGenerator(models.TypePost)},
		Descriptor{Key: KeyPage, Label: "Pages", Generator: DocumentGenerator(models.TypePage)},
		Descriptor{Key: KeyProduct, Label: "Products", Generator: DocumentGenerator(models.TypeProduct)},
		Descriptor{Key: KeyProductCat, Label: "Product Categories", Generator: TermGenerator(models.TaxonomyProductCat)},
		Descriptor{Key: KeyCategory, Label: "Post Categories", Generator: TermGenerator(models.TaxonomyCategory)},
		Descriptor{Key: KeyHomepage, Label: "Homepage", Generator: HomepageGenerator()},
	)
}

// List returns the descriptors in insertion order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.descs))
	copy(out, r.descs)
	return out
}

// Get returns the descriptor for key or an error wrapping ErrNotFound.
func (r *Registry) Get(key string) (Descriptor, error) {
	i, ok := r.byKey[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	return r.descs[i], nil
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// DocumentGenerator lists published documents of one type.
func DocumentGenerator(docType string) Generator {
	return func(ctx context.Context, src ContentSource) ([]models.ContentItem, error) {
		return src.Documents(ctx, docType)
	}
}

// TermGenerator lists the non-empty terms of one taxonomy.
func TermGenerator(taxonomy string) Generator {
	return func(ctx context.Context, src ContentSource) ([]models.ContentItem, error) {
		return src.Terms(ctx, taxonomy)
	}
}

// HomepageGenerator yields the single homepage entry.
func HomepageGenerator() Generator {
	return func(ctx context.Context, src ContentSource) ([]models.ContentItem, error) {
		return src.Homepage(ctx)
	}
}
