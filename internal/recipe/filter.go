package recipe

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category sentinels accepted by Filter besides authored badge values.
const (
	CategoryAll   = "all"
	CategoryQuick = "quick"
)

// QuickMinutes is the upper bound (inclusive) for the quick category.
const QuickMinutes = 30

// Filter narrows recipes by a free-text term and a category. Both must match; input
// order is preserved.
//
// The term matches when the title, the description or any badge contains it, ignoring
// case. Only the empty term matches everything; whitespace is matched literally. The
// category matches CategoryAll, an exact badge (authored value or display
// label), or CategoryQuick for recipes of at most QuickMinutes.
func Filter(recipes []Localized, term, category string) []Localized {
	fold := cases.Fold()
	needle := fold.String(term)
	category = strings.TrimSpace(category)

	out := make([]Localized, 0, len(recipes))
	for _, r := range recipes {
		if matchesTerm(fold, r, needle) && matchesCategory(r, category) {
			out = append(out, r)
		}
	}
	return out
}

func matchesTerm(fold cases.Caser, r Localized, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(fold.String(r.Title), needle) || strings.Contains(fold.String(r.Description), needle) {
		return true
	}
	for _, b := range r.Badges {
		if strings.Contains(fold.String(b), needle) {
			return true
		}
	}
	return false
}

func matchesCategory(r Localized, category string) bool {
	switch category {
	case "", CategoryAll:
		return true
	case CategoryQuick:
		return r.Time != "" && r.Minutes <= QuickMinutes
	}
	return containsString(r.Tags, category) || containsString(r.Badges, category)
}
