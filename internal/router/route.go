// Package router classifies URL fragments into page routes and drives the view-state
// machine that decides which top-level page is showing.
//
// The package has no dependency on a browser or on net/http: observable side effects
// (document title, meta tags, fragment writes, scrolling) go through the Effects interface,
// so the same state machine serves the HTTP handlers and the unit tests.
package router

import "strings"

// Kind enumerates the page variants a fragment can resolve to.
type Kind int

const (
	KindHome Kind = iota
	KindRecipeDetail
	KindRecipeList
	KindUnknown
)

// String returns a stable, lowercase name used in logs and JSON payloads.
func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindRecipeDetail:
		return "recipe"
	case KindRecipeList:
		return "recipes"
	default:
		return "unknown"
	}
}

// Fragment prefixes of the URL contract.
const (
	RecipePrefix = "recipe/"
	ListPrefix   = "recept/"
	// DefaultListFragment is the canonical link target for the full recipe list.
	DefaultListFragment = ListPrefix + "alla"
)

// Route is the classified interpretation of a fragment. ID is only set for
// KindRecipeDetail.
type Route struct {
	Kind Kind
	ID   string
}

// Home is the route of the empty fragment.
func Home() Route { return Route{Kind: KindHome} }

// RecipeDetail returns the detail route for id.
func RecipeDetail(id string) Route { return Route{Kind: KindRecipeDetail, ID: id} }

// RecipeList returns the list route.
func RecipeList() Route { return Route{Kind: KindRecipeList} }

// Unknown returns the route of an unrecognized fragment.
func Unknown() Route { return Route{Kind: KindUnknown} }

func (r Route) String() string {
	if r.Kind == KindRecipeDetail {
		return r.Kind.String() + "(" + r.ID + ")"
	}
	return r.Kind.String()
}

// Classify maps a fragment onto exactly one Route. It never fails: anything that is
// not the empty fragment, a recipe fragment or a list fragment is KindUnknown.
// A leading "#" is ignored so raw location.hash values can be passed as-is.
func Classify(fragment string) Route {
	f := Normalize(fragment)
	switch {
	case f == "":
		return Home()
	case strings.HasPrefix(f, RecipePrefix):
		id := strings.TrimPrefix(f, RecipePrefix)
		if id == "" || strings.Contains(id, "/") {
			return Unknown()
		}
		return RecipeDetail(id)
	case strings.HasPrefix(f, ListPrefix):
		// the trailing segment ("alla", a category, ...) belongs to the list page
		return RecipeList()
	default:
		return Unknown()
	}
}

// Normalize strips the leading "#" from a fragment. Whitespace is part of the fragment,
// so a blank fragment is not the empty one.
func Normalize(fragment string) string {
	return strings.TrimPrefix(fragment, "#")
}

// RecipeFragment builds the fragment that addresses recipe id.
func RecipeFragment(id string) string { return RecipePrefix + id }
