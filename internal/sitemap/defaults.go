package sitemap

import "github.com/romangod6/sitemapd/internal/models"

// TypeDefaults are the values used when stored settings are empty or invalid.
type TypeDefaults struct {
	Frequency models.ChangeFrequency
	Priority  string
}

var typeDefaults = map[string]TypeDefaults{
	KeyHomepage:   {Frequency: models.FrequencyDaily, Priority: "1.0"},
	KeyPost:       {Frequency: models.FrequencyWeekly, Priority: "0.8"},
	KeyPage:       {Frequency: models.FrequencyMonthly, Priority: "0.6"},
	KeyProduct:    {Frequency: models.FrequencyDaily, Priority: "0.8"},
	KeyProductCat: {Frequency: models.FrequencyWeekly, Priority: "0.7"},
	KeyCategory:   {Frequency: models.FrequencyWeekly, Priority: "0.7"},
}

// fallbackDefaults applies to types registered outside the built-in six.
var fallbackDefaults = TypeDefaults{Frequency: models.FrequencyWeekly, Priority: "0.5"}

// DefaultsFor returns the default frequency and priority of a type.
func DefaultsFor(key string) TypeDefaults {
	if d, ok := typeDefaults[key]; ok {
		return d
	}
	return fallbackDefaults
}
