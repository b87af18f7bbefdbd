// Package recipe holds the recipe catalog: the read-only, ordered list of recipes shown on
// the site, their per-language views and the search/category filter over them.
package recipe

import (
	"errors"
	"strconv"
	"strings"
)

// SourceLanguage is the language recipes are authored in. Translated fields apply to
// every other language.
const SourceLanguage = "sv"

// ErrNotFound is returned when a recipe id is not in the catalog.
var ErrNotFound = errors.New("recipe: not found")

// Recipe is a catalog record as authored.
type Recipe struct {
	ID                    string            `yaml:"id"`
	Title                 string            `yaml:"title"`
	TranslatedTitle       string            `yaml:"translated_title"`
	Description           string            `yaml:"description"`
	TranslatedDescription string            `yaml:"translated_description"`
	Image                 string            `yaml:"image"`
	Emoji                 string            `yaml:"emoji"`
	Time                  string            `yaml:"time"`
	Portions              string            `yaml:"portions"`
	Rating                float64           `yaml:"rating"`
	Reviews               int               `yaml:"reviews"`
	Likes                 int               `yaml:"likes"`
	Badges                []string          `yaml:"badges"`
	TranslatedBadges      map[string]string `yaml:"translated_badges"`
}

// Minutes parses Time. ok is false when Time is not a whole number of minutes.
func (r Recipe) Minutes() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.Time))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Localized is the per-language view of a Recipe used by search and the page views.
type Localized struct {
	ID          string
	Title       string
	Description string
	Image       string
	Emoji       string
	Time        string
	Minutes     int
	Portions    string
	Rating      float64
	Reviews     int
	Likes       int
	// Badges are display labels; Tags are the authored badge values in the same order.
	Badges []string
	Tags   []string
}

// Localize returns the view of r for lang. Missing translations fall back to the
// authored text.
func (r Recipe) Localize(lang string) Localized {
	translated := lang != "" && lang != SourceLanguage
	minutes, _ := r.Minutes()
	out := Localized{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Emoji:       r.Emoji,
		Time:        r.Time,
		Minutes:     minutes,
		Portions:    r.Portions,
		Rating:      r.Rating,
		Reviews:     r.Reviews,
		Likes:       r.Likes,
		Badges:      make([]string, len(r.Badges)),
		Tags:        append([]string(nil), r.Badges...),
	}
	copy(out.Badges, r.Badges)
	if !translated {
		return out
	}
	if r.TranslatedTitle != "" {
		out.Title = r.TranslatedTitle
	}
	if r.TranslatedDescription != "" {
		out.Description = r.TranslatedDescription
	}
	for i, b := range r.Badges {
		if v, ok := r.TranslatedBadges[b]; ok && v != "" {
			out.Badges[i] = v
		}
	}
	return out
}

func (l Localized) clone() Localized {
	l.Badges = append([]string(nil), l.Badges...)
	l.Tags = append([]string(nil), l.Tags...)
	return l
}

// BadgeLabel returns the display label of an authored badge for lang.
func (r Recipe) BadgeLabel(badge, lang string) string {
	if lang != "" && lang != SourceLanguage {
		if v, ok := r.TranslatedBadges[badge]; ok && v != "" {
			return v
		}
	}
	return badge
}

func cloneRecipe(src Recipe) Recipe {
	cp := src
	cp.Badges = append([]string(nil), src.Badges...)
	if src.TranslatedBadges != nil {
		cp.TranslatedBadges = make(map[string]string, len(src.TranslatedBadges))
		for k, v := range src.TranslatedBadges {
			cp.TranslatedBadges[k] = v
		}
	}
	return cp
}
