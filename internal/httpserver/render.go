package httpserver

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"smakrik.se/web/internal/handlers"
	"smakrik.se/web/internal/i18n"
	"smakrik.se/web/internal/logging"
	custommw "smakrik.se/web/internal/middleware"
	"smakrik.se/web/internal/nav"
	"smakrik.se/web/internal/router"
	"smakrik.se/web/templates"
)

var funcMap = template.FuncMap{
	"now": time.Now,
}

// renderer executes the base layout. In dev mode with a templates directory, templates are
// reparsed on each request.
type renderer struct {
	dir    string
	cached *template.Template
}

func newRenderer(dev bool, dir string) (*renderer, error) {
	v := &renderer{}
	if dev && dir != "" {
		v.dir = dir
		return v, nil
	}
	t, err := templates.Parse(templates.FS(), funcMap)
	if err != nil {
		return nil, fmt.Errorf("httpserver: parse templates: %w", err)
	}
	v.cached = t
	return v, nil
}

func (v *renderer) lookup() (*template.Template, error) {
	if v.dir != "" {
		return templates.Parse(os.DirFS(v.dir), funcMap)
	}
	if v.cached == nil {
		return nil, fmt.Errorf("template not initialized")
	}
	return v.cached, nil
}

func (v *renderer) execute(name string, data any) ([]byte, error) {
	t, err := v.lookup()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// render writes template name with status. A failing template is replaced by the error
// page.
func (s *server) render(w http.ResponseWriter, r *http.Request, code int, name string, data handlers.PageData) {
	body, err := s.views.execute(name, data)
	if err != nil {
		logging.FromContext(r.Context()).Error("render template", zap.String("template", name), zap.Error(err))
		s.renderError(w, r, data.Language())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// renderCrash renders the error page after a recovered panic. The request may not have
// passed the locale middleware, so the language is resolved from the request.
func (s *server) renderCrash(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, s.requestLanguage(r))
}

func (s *server) renderError(w http.ResponseWriter, r *http.Request, lang i18n.Language) {
	p := handlers.NewPage(s.bundle, lang, handlers.ViewError, r.URL.Path)
	p.SEO.Title = p.T("error.title")
	p.SEO.Description = p.T("error.body")
	p.Nav = nav.Build(r.URL.Path, "")
	body, err := s.views.execute("base", p)
	if err != nil {
		http.Error(w, p.T("error.body"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(body)
}

func (s *server) requestLanguage(r *http.Request) i18n.Language {
	if store := custommw.LanguageStore(r); store != nil {
		return store.Language()
	}
	if c, err := r.Cookie(custommw.LangCookie); err == nil {
		if lang, err := s.bundle.Parse(c.Value); err == nil {
			return lang
		}
	}
	return s.bundle.Resolve(r.Header.Get("Accept-Language"))
}

// page returns the layout view model shared by every page.
func (s *server) page(r *http.Request, view, path string) handlers.PageData {
	lang := custommw.Lang(r)
	p := handlers.NewPage(s.bundle, lang, view, path)
	p.Analytics = s.ga
	p.Nav = nav.Build(path, "")
	p.Breadcrumbs = nav.Breadcrumbs(path, "")
	sess := custommw.GetSession(r)
	p.CSRFToken = custommw.CSRFToken(r)
	p.Announcement = sess.TakeAnnouncement()
	p.ShowNewsletterPopup = !sess.NewsletterDone
	return p
}

// navigate runs the router once for fragment and returns it with the recorded document.
func (s *server) navigate(r *http.Request, fragment string) (*router.Router, *router.Document) {
	doc := &router.Document{}
	rt := router.New(router.Options{
		Recipes: s.catalog,
		Meta:    s.meta[custommw.Lang(r)],
		Effects: doc,
		Frames:  router.Immediate,
		Logger:  logging.FromContext(r.Context()),
	})
	rt.Start(fragment)
	return rt, doc
}

// applyRoute copies the routed metadata and scroll behavior onto p.
func (s *server) applyRoute(p *handlers.PageData, doc *router.Document) {
	st := doc.State()
	p.SEO = handlers.SEOFromMeta(s.baseURL, st.Meta, p.Path, p.Language())
	p.ScrollTop = st.Scrolls > 0 && st.SmoothScroll
}
