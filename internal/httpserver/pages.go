package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"smakrik.se/web/internal/content"
	"smakrik.se/web/internal/handlers"
	"smakrik.se/web/internal/logging"
	"smakrik.se/web/internal/nav"
	"smakrik.se/web/internal/router"
)

// handleHome renders the landing page. A section query parameter marks the visited section
// in the navigation.
func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	p := s.homePage(r)
	s.render(w, r, http.StatusOK, "base", p)
}

func (s *server) homePage(r *http.Request) handlers.PageData {
	rt, doc := s.navigate(r, "")
	if section := r.URL.Query().Get("section"); section != "" && isSection(section) {
		rt.Dispatch(router.SectionAnchor{ID: section})
	}
	p := s.page(r, handlers.ViewHome, "/")
	p.Nav = nav.Build("/", rt.Section())
	s.applyRoute(&p, doc)
	p.JSONLD = handlers.HomeJSONLD(s.baseURL, p.Language())
	p.Home = handlers.BuildHomeData(s.bundle, p.Language(), s.catalog, s.loadPage(r, content.KindPage, "about", p.Lang))
	return p
}

// handleRecipe renders a recipe. Unknown ids are corrected to the home page.
func (s *server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rt, doc := s.navigate(r, router.RecipeFragment(id))
	route := rt.CurrentRoute()
	if route.Kind != router.KindRecipeDetail {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	p := s.page(r, handlers.ViewRecipe, handlers.RecipePath(route.ID))
	rec, err := s.catalog.LocalizedByID(route.ID, p.Lang)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.applyRoute(&p, doc)
	p.Breadcrumbs = nav.Breadcrumbs(p.Path, rec.Title)
	p.JSONLD = handlers.RecipeJSONLD(s.bundle, s.baseURL, p.Language(), rec)
	p.Recipe = handlers.BuildRecipeData(s.bundle, p.Language(), rec, s.loadPage(r, content.KindRecipe, route.ID, p.Lang))
	s.render(w, r, http.StatusOK, "base", p)
}

// handleList renders the searchable recipe list for any recept/<segment> path.
func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	fragment := strings.TrimPrefix(r.URL.Path, "/")
	rt, doc := s.navigate(r, fragment)
	if rt.CurrentRoute().Kind != router.KindRecipeList {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	q := r.URL.Query()
	p := s.page(r, handlers.ViewList, r.URL.Path)
	s.applyRoute(&p, doc)
	p.List = handlers.BuildListData(s.bundle, p.Language(), s.catalog, q.Get("q"), q.Get("kategori"))
	s.render(w, r, http.StatusOK, "base", p)
}

// loadPage fetches a markdown page; a missing page yields nil.
func (s *server) loadPage(r *http.Request, kind, slug, lang string) *content.Page {
	page, err := s.content.Get(r.Context(), kind, slug, lang)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			logging.FromContext(r.Context()).Warn("load content", zap.String("kind", kind), zap.String("slug", slug), zap.Error(err))
		}
		return nil
	}
	return &page
}

func isSection(id string) bool {
	for _, s := range nav.SectionIDs() {
		if s == id {
			return true
		}
	}
	return false
}
