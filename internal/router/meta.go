package router

// Meta is the document metadata applied for a route.
type Meta struct {
	Title       string
	Description string
	Image       string
	URL         string
}

// MetaSource resolves the metadata for the active route.
type MetaSource interface {
	Lookup(route Route, fragment string) Meta
}

// MetaTable is a static lookup: pages are keyed by fragment, recipes by id, and
// Fallback covers list fragments and anything without an explicit entry.
type MetaTable struct {
	Pages    map[string]Meta
	Recipes  map[string]Meta
	Fallback Meta
}

// Lookup implements MetaSource.
func (t MetaTable) Lookup(route Route, fragment string) Meta {
	switch route.Kind {
	case KindRecipeDetail:
		if m, ok := t.Recipes[route.ID]; ok {
			return m
		}
	case KindHome:
		if m, ok := t.Pages[""]; ok {
			return m
		}
	default:
		if m, ok := t.Pages[Normalize(fragment)]; ok {
			return m
		}
	}
	return t.Fallback
}
