package nav

import (
	"path"
	"strings"
)

// Section ids of the home page, in document order.
const (
	SectionRecipes    = "recept"
	SectionAbout      = "om"
	SectionNewsletter = "nyhetsbrev"
	SectionContact    = "kontakt"
)

// RecipesPath is the recipe list page.
const RecipesPath = "/recept/alla"

// Item represents a top-level navigation item. Items with a Section point at an anchor on
// the home page.
type Item struct {
	Section  string
	LabelKey string // i18n key, e.g. "nav.about"
}

// Href returns the item's link target.
func (it Item) Href() string { return "/#" + it.Section }

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	Section  string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Section: SectionRecipes, LabelKey: "nav.recipes"},
	{Section: SectionAbout, LabelKey: "nav.about"},
	{Section: SectionNewsletter, LabelKey: "nav.newsletter"},
	{Section: SectionContact, LabelKey: "nav.contact"},
}

// SectionIDs returns the home page section ids in order.
func SectionIDs() []string {
	ids := make([]string, 0, len(Main))
	for _, it := range Main {
		ids = append(ids, it.Section)
	}
	return ids
}

// Build renders navigation items. On the home page the item for activeSection is marked;
// on recipe pages the recipes item is.
func Build(currentPath, activeSection string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	onRecipes := strings.HasPrefix(currentPath, "/recept/") || strings.HasPrefix(currentPath, "/recipe/")
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		active := false
		switch {
		case currentPath == "/":
			active = it.Section == activeSection
		case onRecipes:
			active = it.Section == SectionRecipes
		}
		items = append(items, RenderedItem{
			Href:     it.Href(),
			Section:  it.Section,
			LabelKey: it.LabelKey,
			Active:   active,
		})
	}
	return items
}

// Breadcrumbs builds breadcrumb entries from the current path. Recipe pages hang below the
// recipe list; leaf overrides the label of the last crumb when set.
func Breadcrumbs(currentPath, leaf string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "breadcrumb.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	switch parts[0] {
	case "recept", "recipe":
		crumbs = append(crumbs, Crumb{
			Href:     RecipesPath,
			LabelKey: "breadcrumb.recipes",
			Active:   parts[0] == "recept",
		})
		if parts[0] == "recipe" && len(parts) > 1 {
			label := leaf
			if label == "" {
				label = titleFromSegment(parts[len(parts)-1])
			}
			crumbs = append(crumbs, Crumb{Href: clean, Label: label, Active: true})
		}
	default:
		crumbs = append(crumbs, Crumb{Href: clean, Label: firstNonEmpty(leaf, titleFromSegment(parts[len(parts)-1])), Active: true})
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
