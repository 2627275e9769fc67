package settings

import (
	"context"
	"strconv"

	"github.com/romangod6/sitemapd/internal/models"
)

// Store reads and writes the sitemap settings of each content type.
type Store interface {
	TypeSettings(ctx context.Context, key string) (models.TypeSettings, error)
	SaveTypeSettings(ctx context.Context, key string, s models.TypeSettings) error
}

func IncludeKey(typeKey string) string   { return "sitemap_" + typeKey + "_include" }
func FrequencyKey(typeKey string) string { return "sitemap_" + typeKey + "_frequency" }
func PriorityKey(typeKey string) string  { return "sitemap_" + typeKey + "_priority" }

// parseIncluded treats a missing or unreadable flag as included.
func parseIncluded(raw string, found bool) bool {
	if !found {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func formatIncluded(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
