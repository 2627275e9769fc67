package models

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsDirective_IsNoindex(t *testing.T) {
	tests := []struct {
		directive RobotsDirective
		want      bool
	}{
		{"", false},
		{RobotsIndexFollow, false},
		{RobotsIndexNofollow, false},
		{RobotsNoindexFollow, true},
		{RobotsNoindexNofollow, true},
		{"noindex", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.directive), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.directive.IsNoindex())
		})
	}
}

func TestRobotsDirective_Valid(t *testing.T) {
	assert.True(t, RobotsDirective("").Valid())
	for _, d := range RobotsDirectives {
		assert.True(t, d.Valid(), d)
	}
	assert.False(t, RobotsDirective("noindex").Valid())
	assert.False(t, RobotsDirective("index, follow").Valid())
}

func TestParseChangeFrequency(t *testing.T) {
	for _, f := range ChangeFrequencies {
		got, ok := ParseChangeFrequency(string(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}

	for _, s := range []string{"", "Daily", " weekly", "fortnightly"} {
		_, ok := ParseChangeFrequency(s)
		assert.False(t, ok, "%q should be rejected", s)
	}
}

func TestURLSet_MarshalImageExtension(t *testing.T) {
	set := URLSet{
		Xmlns:      SitemapNamespace,
		XmlnsImage: ImageNamespace,
		URLs: []URL{{
			Loc:        "https://shop.example/product/mug/?a=1&b=2",
			ChangeFreq: "daily",
			Priority:   "0.8",
			Images: []Image{
				{Loc: "https://shop.example/mug.jpg", Title: "Mug <Large>"},
			},
		}},
	}

	data, err := xml.Marshal(set)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, `<urlset xmlns="`+SitemapNamespace+`" xmlns:image="`+ImageNamespace+`">`))
	assert.Contains(t, out, "<loc>https://shop.example/product/mug/?a=1&amp;b=2</loc>")
	assert.Contains(t, out, "<image:title>Mug &lt;Large&gt;</image:title>")
	assert.NotContains(t, out, "<lastmod>")
	assert.NotContains(t, out, "<image:caption>")
}

func TestDefaultTypeSettings(t *testing.T) {
	s := DefaultTypeSettings()
	assert.True(t, s.Included)
	assert.Empty(t, s.Frequency)
	assert.Empty(t, s.Priority)
}
