// Package filter applies cuisine, diet and cook-time predicates to
// recipes from any source.
package filter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/forkful/backend/internal/models"
)

// Filters narrows a result set. Zero values mean "no constraint".
type Filters struct {
	Cuisine         string
	Diet            string
	MaxReadyMinutes int
}

var (
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*mins?`)
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*hours?`)
)

// Matches reports whether a recipe satisfies every set predicate.
// Cuisine and diet compare case-insensitively. When a time bound is set
// and no minute value can be derived from the recipe, the recipe is
// excluded: an unknown cook time cannot satisfy a bound.
func (f Filters) Matches(r models.Recipe) bool {
	if f.Cuisine != "" && !strings.EqualFold(strings.TrimSpace(f.Cuisine), strings.TrimSpace(r.CuisineType)) {
		return false
	}
	if f.Diet != "" && !strings.EqualFold(strings.TrimSpace(f.Diet), strings.TrimSpace(r.DietType)) {
		return false
	}
	if f.MaxReadyMinutes > 0 {
		minutes, ok := readyMinutes(r)
		if !ok || minutes > f.MaxReadyMinutes {
			return false
		}
	}
	return true
}

// Apply returns the recipes that pass the filters, preserving order.
func (f Filters) Apply(in []models.Recipe) []models.Recipe {
	out := make([]models.Recipe, 0, len(in))
	for _, r := range in {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Empty reports whether no predicate is set.
func (f Filters) Empty() bool {
	return f.Cuisine == "" && f.Diet == "" && f.MaxReadyMinutes == 0
}

func readyMinutes(r models.Recipe) (int, bool) {
	if r.CookTimeMinutes != nil {
		return *r.CookTimeMinutes, true
	}
	return ParseMinutes(r.CookTime)
}

// ParseMinutes derives a minute count from a free-text cook time label
// such as "30 mins" or "1 hour 15 mins".
func ParseMinutes(label string) (int, bool) {
	total := 0
	found := false
	if m := hoursPattern.FindStringSubmatch(label); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil {
			total += h * 60
			found = true
		}
	}
	if m := minutesPattern.FindStringSubmatch(label); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += n
			found = true
		}
	}
	return total, found
}
