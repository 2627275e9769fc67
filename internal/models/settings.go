package models

// ChangeFrequency is the sitemaps.org <changefreq> token.
type ChangeFrequency string

const (
	FrequencyAlways  ChangeFrequency = "always"
	FrequencyHourly  ChangeFrequency = "hourly"
	FrequencyDaily   ChangeFrequency = "daily"
	FrequencyWeekly  ChangeFrequency = "weekly"
	FrequencyMonthly ChangeFrequency = "monthly"
	FrequencyYearly  ChangeFrequency = "yearly"
	FrequencyNever   ChangeFrequency = "never"
)

var ChangeFrequencies = []ChangeFrequency{
	FrequencyAlways,
	FrequencyHourly,
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyYearly,
	FrequencyNever,
}

// ParseChangeFrequency returns the token for s, or false when s is not
// one of the seven protocol values. Matching is exact.
func ParseChangeFrequency(s string) (ChangeFrequency, bool) {
	for _, f := range ChangeFrequencies {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// TypeSettings holds the stored sitemap options of one content type.
// Frequency and Priority are kept as raw strings; the builder falls back
// to the type default when they are empty or invalid.
type TypeSettings struct {
	Included  bool   `json:"included"`
	Frequency string `json:"frequency"`
	Priority  string `json:"priority"`
}

// DefaultTypeSettings is what a store returns for a type with no stored options.
func DefaultTypeSettings() TypeSettings {
	return TypeSettings{Included: true}
}
