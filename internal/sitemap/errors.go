package sitemap

import "errors"

var (
	// ErrNotFound is returned for a key that is not in the registry.
	ErrNotFound = errors.New("sitemap type not found")
	// ErrNotIncluded is returned for a registered type whose settings
	// exclude it from the sitemap.
	ErrNotIncluded = errors.New("sitemap type not included")
)
