// Package dedupe merges overlapping result sets from multiple recipe
// sources by title.
package dedupe

import (
	"strings"

	"github.com/forkful/backend/internal/models"
)

// Key normalizes a title for duplicate comparison.
func Key(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Recipes removes title duplicates from a merged result set in a single
// pass. Comparison is against the trimmed, lowercased title; recipes with
// an empty title are dropped; the first occurrence in source order wins
// and survivor order is preserved.
func Recipes(in []models.Recipe) []models.Recipe {
	seen := make(map[string]struct{}, len(in))
	out := make([]models.Recipe, 0, len(in))
	for _, r := range in {
		k := Key(r.Title)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
