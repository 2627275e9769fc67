package sitemap

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romangod6/sitemapd/internal/models"
)

const testBase = "https://shop.example"

func included(freq, prio string) models.TypeSettings {
	return models.TypeSettings{Included: true, Frequency: freq, Priority: prio}
}

func TestBuild_UnknownKey(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)

	_, err := b.Build("nosuchtype", included("", ""), nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBuild_ExcludedTypeIsEmpty(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)
	items := []models.ContentItem{{URL: testBase + "/hello/"}}

	for _, d := range DefaultRegistry().List() {
		out, err := b.Build(d.Key, models.TypeSettings{Included: false, Frequency: "daily", Priority: "0.5"}, items)
		require.NoError(t, err)
		assert.Empty(t, out, d.Key)
	}
}

func TestBuild_HomepageDefaults(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)
	items := []models.ContentItem{{URL: testBase + "/", LastModified: time.Date(2024, 3, 9, 17, 4, 0, 0, time.UTC)}}

	out, err := b.Build("homepage", included("", ""), items)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "<url>"))
	assert.Contains(t, out, "<changefreq>daily</changefreq>")
	assert.Contains(t, out, "<priority>1.0</priority>")
	assert.Contains(t, out, "<lastmod>2024-03-09</lastmod>")
}

func TestBuild_FrequencyAndPriorityFallback(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)
	items := []models.ContentItem{{URL: testBase + "/item/"}}

	tests := []struct {
		name     string
		key      string
		freq     string
		prio     string
		wantFreq string
		wantPrio string
	}{
		{"valid values verbatim", "post", "hourly", "0.3", "hourly", "0.3"},
		{"empty post", "post", "", "", "weekly", "0.8"},
		{"empty page", "page", "", "", "monthly", "0.6"},
		{"empty product", "product", "", "", "daily", "0.8"},
		{"empty product_cat", "product_cat", "", "", "weekly", "0.7"},
		{"empty category", "category", "", "", "weekly", "0.7"},
		{"unknown frequency", "page", "fortnightly", "0.5", "monthly", "0.5"},
		{"frequency match is exact", "page", "Daily", "0.5", "monthly", "0.5"},
		{"unparseable priority", "product", "never", "high", "never", "0.8"},
		{"priority above one", "product", "yearly", "1.5", "yearly", "0.8"},
		{"negative priority", "category", "always", "-0.1", "always", "0.7"},
		{"NaN priority", "post", "weekly", "NaN", "weekly", "0.8"},
		{"bounds are valid", "homepage", "monthly", "0.0", "monthly", "0.0"},
		{"priority kept as written", "post", "weekly", "0.50", "weekly", "0.50"},
		{"leading dot decimal", "post", "weekly", ".5", "weekly", ".5"},
		{"hex float priority", "post", "weekly", "0x1p-1", "weekly", "0.8"},
		{"hex fraction priority", "post", "weekly", "0x.8p0", "weekly", "0.8"},
		{"exponent priority", "page", "weekly", "5e-1", "weekly", "0.6"},
		{"signed priority", "page", "weekly", "+0.5", "weekly", "0.6"},
		{"negative zero priority", "product", "weekly", "-0", "weekly", "0.8"},
		{"infinity priority", "product", "weekly", "Inf", "weekly", "0.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := b.Build(tt.key, included(tt.freq, tt.prio), items)
			require.NoError(t, err)
			assert.Contains(t, out, "<changefreq>"+tt.wantFreq+"</changefreq>")
			assert.Contains(t, out, "<priority>"+tt.wantPrio+"</priority>")
		})
	}
}

func TestBuild_RobotsFiltering(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)
	items := []models.ContentItem{
		{URL: testBase + "/a/"},
		{URL: testBase + "/b/", Robots: models.RobotsNoindexFollow},
		{URL: testBase + "/c/", Robots: models.RobotsIndexNofollow},
		{URL: testBase + "/d/", Robots: models.RobotsNoindexNofollow},
		{URL: testBase + "/e/", Robots: models.RobotsIndexFollow},
	}

	out, err := b.Build("post", included("", ""), items)
	require.NoError(t, err)

	for _, kept := range []string{"/a/", "/c/", "/e/"} {
		assert.Contains(t, out, "<loc>"+testBase+kept+"</loc>")
	}
	for _, dropped := range []string{"/b/", "/d/"} {
		assert.NotContains(t, out, testBase+dropped)
	}
	assert.Equal(t, 3, strings.Count(out, "<url>"))

	// source order is preserved
	assert.Less(t, strings.Index(out, "/a/"), strings.Index(out, "/c/"))
	assert.Less(t, strings.Index(out, "/c/"), strings.Index(out, "/e/"))
}

func TestBuild_ProductImages(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)
	items := []models.ContentItem{{
		URL: testBase + "/product/mug/",
		Images: []models.ImageRef{
			{URL: testBase + "/uploads/mug.jpg", Title: "Mug", Caption: "Front"},
			{URL: testBase + "/uploads/mug-side.jpg", Title: "Mug", Caption: "Side"},
			{URL: testBase + "/uploads/mug-top.jpg", Title: "Mug", Caption: "Top"},
		},
	}}

	out, err := b.Build("product", included("", ""), items)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "<url>"))
	assert.Equal(t, 3, strings.Count(out, "<image:image>"))
	assert.Equal(t, 3, strings.Count(out, "<image:title>Mug</image:title>"))
	for _, c := range []string{"Front", "Side", "Top"} {
		assert.Contains(t, out, "<image:caption>"+c+"</image:caption>")
	}
}

func TestBuild_SkipsBadURLs(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)
	items := []models.ContentItem{
		{URL: ""},
		{URL: "/relative/"},
		{URL: "ftp://shop.example/file"},
		{URL: testBase + "/good/", Images: []models.ImageRef{
			{URL: "not a url", Title: "Broken"},
			{URL: testBase + "/ok.png", Title: "Ok"},
		}},
	}

	out, err := b.Build("page", included("", ""), items)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "<url>"))
	assert.Equal(t, 1, strings.Count(out, "<image:image>"))
	assert.NotContains(t, out, "Broken")
}

func TestBuild_EmptyURLSet(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase+"/")

	out, err := b.Build("category", included("", ""), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"))
	assert.Contains(t, out, `<?xml-stylesheet type="text/xsl" href="https://shop.example/sitemap.xsl"?>`)
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">`)
	assert.Contains(t, out, "</urlset>")
	assert.NotContains(t, out, "<url>")
}

func TestBuild_EscapesText(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)
	items := []models.ContentItem{{
		URL:    testBase + "/search/?a=1&b=2",
		Images: []models.ImageRef{{URL: testBase + "/x.png", Title: `Salt & "Pepper" <set>`}},
	}}

	out, err := b.Build("product", included("", ""), items)
	require.NoError(t, err)

	assert.Contains(t, out, "<loc>https://shop.example/search/?a=1&amp;b=2</loc>")
	assert.Contains(t, out, "Salt &amp; &#34;Pepper&#34; &lt;set&gt;")
}

func TestBuild_NoLastModWhenUnknown(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)

	out, err := b.Build("category", included("", ""), []models.ContentItem{{URL: testBase + "/category/news/"}})
	require.NoError(t, err)
	assert.NotContains(t, out, "<lastmod>")
}

func TestBuild_Idempotent(t *testing.T) {
	b := NewBuilder(DefaultRegistry(), testBase)
	items := []models.ContentItem{
		{URL: testBase + "/a/", LastModified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{URL: testBase + "/b/", Images: []models.ImageRef{{URL: testBase + "/b.png", Title: "B"}}},
	}

	first, err := b.Build("post", included("weekly", "0.4"), items)
	require.NoError(t, err)
	second, err := b.Build("post", included("weekly", "0.4"), items)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_CustomTypeUsesFallbackDefaults(t *testing.T) {
	reg := NewRegistry(Descriptor{Key: "event", Label: "Events"})
	b := NewBuilder(reg, testBase)

	out, err := b.Build("event", included("", ""), []models.ContentItem{{URL: testBase + "/event/launch/"}})
	require.NoError(t, err)
	assert.Contains(t, out, "<changefreq>weekly</changefreq>")
	assert.Contains(t, out, "<priority>0.5</priority>")
}

func TestEffective(t *testing.T) {
	freq, prio := Effective("page", models.TypeSettings{Frequency: "bogus", Priority: "0.9"})
	assert.Equal(t, models.FrequencyMonthly, freq)
	assert.Equal(t, "0.9", prio)
}
