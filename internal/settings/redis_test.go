package settings

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romangod6/sitemapd/internal/models"
)

// Requires a reachable server, e.g. SITEMAPD_TEST_REDIS_URL=redis://localhost:6379/15
func TestRedisStore_RoundTrip(t *testing.T) {
	url := os.Getenv("SITEMAPD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SITEMAPD_TEST_REDIS_URL not set")
	}

	store, err := NewRedisStore(url, "sitemapd_test:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Clear(ctx))
	defer store.Clear(ctx)

	got, err := store.TypeSettings(ctx, "post")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTypeSettings(), got)

	want := models.TypeSettings{Included: false, Frequency: "yearly", Priority: "0.2"}
	require.NoError(t, store.SaveTypeSettings(ctx, "post", want))

	got, err = store.TypeSettings(ctx, "post")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("not-a-redis-url", "x:")
	assert.Error(t, err)
}
