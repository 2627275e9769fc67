package content

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romangod6/sitemapd/internal/models"
	"github.com/romangod6/sitemapd/internal/storage"
)

const base = "https://shop.example"

func newTestSource(t *testing.T) (*Source, *storage.SQLiteStore) {
	t.Helper()
	db, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return NewSource(db, Config{BaseURL: base + "/"}), db
}

func addDocument(t *testing.T, db storage.Store, docType, slug string, updated time.Time, mutate func(*models.Document)) *models.Document {
	t.Helper()
	doc := models.NewDocument(docType, slug, slug)
	doc.UpdatedAt = updated
	if mutate != nil {
		mutate(doc)
	}
	require.NoError(t, db.UpsertDocument(context.Background(), doc))
	return doc
}

func urls(items []models.ContentItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.URL)
	}
	return out
}

func TestSource_PagesExcludeSystemPages(t *testing.T) {
	src, db := newTestSource(t)
	ctx := context.Background()
	now := time.Now().UTC()

	addDocument(t, db, models.TypePage, "about", now.Add(-2*time.Hour), nil)
	addDocument(t, db, models.TypePage, "contact", now.Add(-time.Hour), nil)
	addDocument(t, db, models.TypePage, "checkout", now, nil)
	addDocument(t, db, models.TypePage, "my-account", now, nil)
	addDocument(t, db, models.TypePage, "draft", now, func(d *models.Document) { d.Status = "draft" })

	items, err := src.Documents(ctx, models.TypePage)
	require.NoError(t, err)
	assert.Equal(t, []string{base + "/contact/", base + "/about/"}, urls(items))
}

func TestSource_CustomExcludedPages(t *testing.T) {
	_, db := newTestSource(t)
	src := NewSource(db, Config{BaseURL: base, ExcludedPages: []string{"about"}})
	now := time.Now().UTC()

	addDocument(t, db, models.TypePage, "about", now, nil)
	addDocument(t, db, models.TypePage, "cart", now.Add(-time.Minute), nil)

	items, err := src.Documents(context.Background(), models.TypePage)
	require.NoError(t, err)
	assert.Equal(t, []string{base + "/cart/"}, urls(items))
}

func TestSource_PostsKeepRobotsAndLastModified(t *testing.T) {
	src, db := newTestSource(t)
	updated := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	addDocument(t, db, models.TypePost, "hello-world", updated, func(d *models.Document) {
		d.Robots = models.RobotsNoindexFollow
	})

	items, err := src.Documents(context.Background(), models.TypePost)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, base+"/hello-world/", items[0].URL)
	assert.Equal(t, models.RobotsNoindexFollow, items[0].Robots)
	assert.True(t, updated.Equal(items[0].LastModified))
	assert.Empty(t, items[0].Images)
}

func TestSource_ProductImages(t *testing.T) {
	src, db := newTestSource(t)
	ctx := context.Background()

	featured := models.NewAttachment(base+"/uploads/mug.jpg", "mug", "Blue mug front")
	side := models.NewAttachment(base+"/uploads/mug-side.jpg", "mug side", "Blue mug side")
	top := models.NewAttachment(base+"/uploads/mug-top.jpg", "mug top", "Blue mug top")
	for _, a := range []*models.Attachment{featured, side, top} {
		require.NoError(t, db.UpsertAttachment(ctx, a))
	}

	addDocument(t, db, models.TypeProduct, "blue-mug", time.Now().UTC(), func(d *models.Document) {
		d.Title = "Blue Mug"
		d.ThumbnailID = &featured.ID
		d.GalleryIDs = []uuid.UUID{side.ID, uuid.New(), top.ID}
	})

	items, err := src.Documents(ctx, models.TypeProduct)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, base+"/product/blue-mug/", items[0].URL)

	assert.Equal(t, []models.ImageRef{
		{URL: featured.URL, Title: "Blue Mug", Caption: "Blue mug front"},
		{URL: side.URL, Title: "Blue Mug", Caption: "Blue mug side"},
		{URL: top.URL, Title: "Blue Mug", Caption: "Blue mug top"},
	}, items[0].Images)
}

func TestSource_TermsHideEmpty(t *testing.T) {
	src, db := newTestSource(t)
	ctx := context.Background()

	logo := models.NewAttachment(base+"/uploads/mugs.png", "mugs", "")
	require.NoError(t, db.UpsertAttachment(ctx, logo))

	mugs := models.NewTerm(models.TaxonomyProductCat, "mugs", "Mugs")
	mugs.Description = "<p>All our <strong>mugs</strong></p><script>x()</script>"
	mugs.ThumbnailID = &logo.ID
	empty := models.NewTerm(models.TaxonomyProductCat, "plates", "Plates")
	draftOnly := models.NewTerm(models.TaxonomyProductCat, "bowls", "Bowls")
	for _, term := range []*models.Term{mugs, empty, draftOnly} {
		require.NoError(t, db.UpsertTerm(ctx, term))
	}

	addDocument(t, db, models.TypeProduct, "blue-mug", time.Now().UTC(), func(d *models.Document) {
		d.TermIDs = []uuid.UUID{mugs.ID}
	})
	addDocument(t, db, models.TypeProduct, "soup-bowl", time.Now().UTC(), func(d *models.Document) {
		d.Status = "draft"
		d.TermIDs = []uuid.UUID{draftOnly.ID}
	})

	items, err := src.Terms(ctx, models.TaxonomyProductCat)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, base+"/product-category/mugs/", items[0].URL)
	assert.Equal(t, []models.ImageRef{{URL: logo.URL, Title: "Mugs", Caption: "All our mugs"}}, items[0].Images)
	assert.False(t, items[0].LastModified.IsZero())
}

func TestSource_TermWithoutSlugSkipped(t *testing.T) {
	src, db := newTestSource(t)
	ctx := context.Background()

	news := models.NewTerm(models.TaxonomyCategory, "news", "News")
	broken := models.NewTerm(models.TaxonomyCategory, "", "Broken")
	require.NoError(t, db.UpsertTerm(ctx, news))
	require.NoError(t, db.UpsertTerm(ctx, broken))

	addDocument(t, db, models.TypePost, "hello", time.Now().UTC(), func(d *models.Document) {
		d.TermIDs = []uuid.UUID{news.ID, broken.ID}
	})

	items, err := src.Terms(ctx, models.TaxonomyCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{base + "/category/news/"}, urls(items))
}

func TestSource_Homepage(t *testing.T) {
	src, db := newTestSource(t)
	ctx := context.Background()

	items, err := src.Homepage(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, base+"/", items[0].URL)
	assert.True(t, items[0].LastModified.IsZero())
	assert.Empty(t, items[0].Images)

	latest := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	addDocument(t, db, models.TypePost, "older", latest.Add(-time.Hour), nil)
	addDocument(t, db, models.TypePage, "newest", latest, nil)

	logo := models.NewAttachment(base+"/uploads/logo.svg", "logo", "ignored alt")
	require.NoError(t, db.UpsertAttachment(ctx, logo))
	require.NoError(t, db.SetOption(ctx, OptionSiteLogoID, logo.ID.String()))
	require.NoError(t, db.SetOption(ctx, OptionSiteName, "Shop Example"))

	items, err = src.Homepage(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, latest.Equal(items[0].LastModified))
	assert.Equal(t, []models.ImageRef{{URL: logo.URL, Title: "Shop Example"}}, items[0].Images)
}

func TestSource_HomepageMalformedLogo(t *testing.T) {
	src, db := newTestSource(t)
	require.NoError(t, db.SetOption(context.Background(), OptionSiteLogoID, "42"))

	items, err := src.Homepage(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items[0].Images)
}
