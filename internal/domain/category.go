package domain

import "strings"

const (
	CategoryHeritage          = "heritage"
	CategoryNatural           = "natural"
	CategoryTourismAttraction = "tourism.attraction"
	CategoryTourismArtwork    = "tourism.attraction.artwork"
	CategoryTourism           = "tourism"
	CategoryBuilding          = "building"
	CategoryMemorial          = "memorial"

	CategoryUnknown = "unknown"
)

// SupportedCategories is the default set of place categories the app asks
// for and accepts back.
var SupportedCategories = []string{
	CategoryHeritage,
	CategoryNatural,
	CategoryTourismAttraction,
	CategoryTourismArtwork,
	CategoryTourism,
	CategoryBuilding,
	CategoryMemorial,
}

// MatchesCategory reports whether category is supported itself or one of its
// dotted sub-categories.
func MatchesCategory(category, supported string) bool {
	return category == supported || strings.HasPrefix(category, supported+".")
}

// MatchSupportedCategory returns the first of categories that matches any
// entry of supported.
func MatchSupportedCategory(categories []string, supported []string) (string, bool) {
	for _, category := range categories {
		for _, candidate := range supported {
			if MatchesCategory(category, candidate) {
				return category, true
			}
		}
	}

	return "", false
}

func NormalizeCategories(categories []string) []string {
	normalized := make([]string, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		trimmed := strings.TrimSpace(category)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}

	return normalized
}
