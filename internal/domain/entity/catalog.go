package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CatalogEntry holds product metadata returned by the external catalog.
// Optional fields are pointers: a nil field means the catalog did not
// supply a value, which downstream rendering shows as N/A.
type CatalogEntry struct {
	Key      string   `json:"key"`
	Title    *string  `json:"title,omitempty"`
	Category *string  `json:"category,omitempty"`
	Brand    *string  `json:"brand,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
}

// CatalogKey derives the external lookup key from a product id. Input
// files carry ids like "P101" while the catalog is keyed numerically, so
// a leading P is stripped. Any other shape is passed through unchanged.
func CatalogKey(productID string) string {
	id := strings.TrimSpace(productID)
	if len(id) > 1 && (id[0] == 'P' || id[0] == 'p') {
		return id[1:]
	}
	return id
}

var titleCaser = cases.Title(language.English)

// CanonicalCase normalizes a grouping key to title casing so that
// buckets never split on casing differences ("north" vs "North").
// Normalizing to a fixed casing, rather than keeping the first-seen
// spelling, keeps aggregation independent of input order.
func CanonicalCase(s string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(s)))
}
