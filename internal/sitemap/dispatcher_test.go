package sitemap

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romangod6/sitemapd/internal/models"
)

func newTestDispatcher(settings SettingsReader, src ContentSource, router Flusher) *Dispatcher {
	return NewDispatcher(DefaultRegistry(), settings, src, Options{
		BaseURL: testBase,
		Now:     fixedClock,
		Router:  router,
	})
}

func TestDispatch_XSL(t *testing.T) {
	d := newTestDispatcher(fakeSettings{}, &fakeSource{}, nil)

	resp, err := d.Dispatch(context.Background(), "xsl")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "text/xsl", resp.ContentType)
	assert.Contains(t, resp.Body, "<xsl:stylesheet")
	assert.Contains(t, resp.Body, "sitemap:sitemapindex/sitemap:sitemap")
}

func TestDispatch_Index(t *testing.T) {
	d := newTestDispatcher(fakeSettings{"post": {Included: false}}, &fakeSource{}, nil)

	resp, err := d.Dispatch(context.Background(), "index")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/xml; charset=utf-8", resp.ContentType)
	assert.Equal(t, 5, strings.Count(resp.Body, "<sitemap>"))
}

func TestDispatch_TypeKey(t *testing.T) {
	src := &fakeSource{documents: map[string][]models.ContentItem{
		"product": {{
			URL: testBase + "/product/mug/",
			Images: []models.ImageRef{
				{URL: testBase + "/mug.jpg", Title: "Mug"},
				{URL: testBase + "/mug-1.jpg", Title: "Mug", Caption: "Gallery one"},
				{URL: testBase + "/mug-2.jpg", Title: "Mug", Caption: "Gallery two"},
			},
		}},
	}}
	d := newTestDispatcher(fakeSettings{}, src, nil)

	resp, err := d.Dispatch(context.Background(), "product")
	require.NoError(t, err)
	assert.Equal(t, "application/xml; charset=utf-8", resp.ContentType)
	assert.Equal(t, 1, strings.Count(resp.Body, "<url>"))
	assert.Equal(t, 3, strings.Count(resp.Body, "<image:image>"))
}

func TestDispatch_UnknownType(t *testing.T) {
	d := newTestDispatcher(fakeSettings{}, &fakeSource{}, nil)

	resp, err := d.Dispatch(context.Background(), "nosuchtype")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, resp.Body)
}

func TestDispatch_ExcludedType(t *testing.T) {
	d := newTestDispatcher(fakeSettings{"page": {Included: false}}, &fakeSource{}, nil)

	_, err := d.Dispatch(context.Background(), "page")
	assert.True(t, errors.Is(err, ErrNotIncluded))
}

func TestDispatch_SourceFailure(t *testing.T) {
	boom := errors.New("query failed")
	d := newTestDispatcher(fakeSettings{}, &fakeSource{err: boom}, nil)

	resp, err := d.Dispatch(context.Background(), "post")
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, resp.Body)
}

func TestDispatch_SettingsFailure(t *testing.T) {
	d := newTestDispatcher(failingSettings{}, &fakeSource{}, nil)

	_, err := d.Dispatch(context.Background(), "post")
	assert.Error(t, err)

	_, err = d.Dispatch(context.Background(), "index")
	assert.Error(t, err)
}

func TestOnContentChanged_FlushesRouter(t *testing.T) {
	router := &countingFlusher{}
	d := newTestDispatcher(fakeSettings{}, &fakeSource{}, router)

	d.OnContentChanged()
	d.OnContentChanged()
	assert.Equal(t, 2, router.flushes)

	// no router configured
	newTestDispatcher(fakeSettings{}, &fakeSource{}, nil).OnContentChanged()
}
