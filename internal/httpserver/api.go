package httpserver

import (
	"net/http"

	"smakrik.se/web/internal/handlers"
	"smakrik.se/web/internal/i18n"
	custommw "smakrik.se/web/internal/middleware"
	"smakrik.se/web/internal/recipe"
	"smakrik.se/web/internal/router"
)

type routeResponse struct {
	Route       string `json:"route"`
	ID          string `json:"id,omitempty"`
	Fragment    string `json:"fragment"`
	Path        string `json:"path"`
	Corrected   bool   `json:"corrected"`
	Unchanged   bool   `json:"unchanged"`
	ScrollTop   bool   `json:"scrollTop"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
}

// handleRoute classifies a fragment with the router. With from set, the router starts on
// from and navigates to fragment, so navigating to the current fragment reports unchanged.
func (s *server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fragment := q.Get("fragment")

	var (
		rt     *router.Router
		doc    *router.Document
		before router.DocumentState
		fixes  int
	)
	if q.Has("from") {
		rt, doc = s.navigate(r, q.Get("from"))
		before = doc.State()
		fixes = rt.Corrections()
		rt.NavigateTo(fragment)
	} else {
		rt, doc = s.navigate(r, fragment)
	}

	after := doc.State()
	route := rt.CurrentRoute()
	resp := routeResponse{
		Route:       route.Kind.String(),
		ID:          route.ID,
		Fragment:    rt.Fragment(),
		Path:        "/" + rt.Fragment(),
		Corrected:   rt.Corrections() > fixes,
		Unchanged:   q.Has("from") && after.FragmentWrites == before.FragmentWrites && after.MetaWrites == before.MetaWrites && after.Scrolls == before.Scrolls,
		ScrollTop:   after.Scrolls > before.Scrolls,
		Title:       after.Meta.Title,
		Description: after.Meta.Description,
		Image:       after.Meta.Image,
		URL:         after.Meta.URL,
	}
	custommw.WriteJSON(w, http.StatusOK, resp)
}

type recipeResponse struct {
	ID          string   `json:"id"`
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Time        string   `json:"time"`
	Minutes     int      `json:"minutes"`
	Portions    string   `json:"portions"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Likes       int      `json:"likes"`
	Badges      []string `json:"badges"`
}

// handleRecipes returns the localized, filtered catalog. The lang parameter selects a
// language for this response only.
func (s *server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang := custommw.Lang(r)
	if code := q.Get("lang"); code != "" {
		parsed, err := s.bundle.Parse(code)
		if err != nil {
			custommw.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": i18n.ErrUnsupportedLanguage.Error()})
			return
		}
		lang = parsed
	}
	category := q.Get("kategori")
	if category == "" {
		category = recipe.CategoryAll
	}
	matches := recipe.Filter(s.catalog.Localized(lang.String()), q.Get("q"), category)
	out := make([]recipeResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, recipeResponse{
			ID:          m.ID,
			Path:        handlers.RecipePath(m.ID),
			Title:       m.Title,
			Description: m.Description,
			Image:       m.Image,
			Time:        m.Time,
			Minutes:     m.Minutes,
			Portions:    m.Portions,
			Rating:      m.Rating,
			Reviews:     m.Reviews,
			Likes:       m.Likes,
			Badges:      m.Badges,
		})
	}
	custommw.WriteJSON(w, http.StatusOK, map[string]any{
		"lang":    lang.String(),
		"count":   len(out),
		"recipes": out,
	})
}
