// Package httpserver wires the site's routes, middleware stack and page handlers.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"smakrik.se/web/internal/content"
	"smakrik.se/web/internal/handlers"
	"smakrik.se/web/internal/i18n"
	custommw "smakrik.se/web/internal/middleware"
	"smakrik.se/web/internal/recipe"
	"smakrik.se/web/internal/router"
	"smakrik.se/web/internal/status"
	"smakrik.se/web/internal/webhook"
	"smakrik.se/web/public"
)

// Config holds runtime options for the web server.
type Config struct {
	Address string
	BaseURL string
	// Dev reparses templates from TemplatesDir on every request when TemplatesDir is set.
	Dev               bool
	TemplatesDir      string
	SecureCookies     bool
	SessionSigningKey []byte
	Analytics         handlers.Analytics

	Catalog *recipe.Catalog
	Bundle  *i18n.Bundle
	Content *content.Store
	Webhook *webhook.Client
	Health  *status.Checker
	Logger  *zap.Logger
}

type server struct {
	baseURL string
	log     *zap.Logger
	catalog *recipe.Catalog
	bundle  *i18n.Bundle
	content *content.Store
	webhook *webhook.Client
	health  *status.Checker
	meta    map[i18n.Language]router.MetaTable
	views   *renderer
	ga      handlers.Analytics
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	s, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           s.routes(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, nil
}

func newServer(cfg Config) (*server, error) {
	s := &server{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		log:     cfg.Logger,
		catalog: cfg.Catalog,
		bundle:  cfg.Bundle,
		content: cfg.Content,
		webhook: cfg.Webhook,
		health:  cfg.Health,
		ga:      cfg.Analytics,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	var err error
	if s.catalog == nil {
		if s.catalog, err = recipe.Default(); err != nil {
			return nil, fmt.Errorf("httpserver: load catalog: %w", err)
		}
	}
	if s.bundle == nil {
		if s.bundle, err = i18n.Default(); err != nil {
			return nil, fmt.Errorf("httpserver: load translations: %w", err)
		}
	}
	if s.content == nil {
		s.content = content.New(content.Embedded(), content.WithLogger(s.log))
	}
	if s.webhook == nil {
		s.webhook = webhook.NewClient("", webhook.WithLogger(s.log))
	}
	if s.health == nil {
		s.health = status.NewChecker(CatalogCheck(s.catalog))
	}
	if s.views, err = newRenderer(cfg.Dev, cfg.TemplatesDir); err != nil {
		return nil, err
	}
	s.meta = handlers.MetaTables(s.bundle, s.catalog, s.baseURL)
	return s, nil
}

func (s *server) routes(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(custommw.Logger(s.log))
	r.Use(custommw.Recoverer(s.renderCrash))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	if static, err := public.StaticFS(); err == nil {
		r.Handle("/assets/*", http.StripPrefix("/assets", custommw.AssetsWithCache(static)))
	} else {
		s.log.Error("embed static", zap.Error(err))
	}
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/sitemap.xml", s.handleSitemap)

	r.Group(func(r chi.Router) {
		r.Use(custommw.HTMX)
		r.Use(custommw.VaryLocale)
		r.Use(custommw.Session(custommw.SessionConfig{
			SigningKey: cfg.SessionSigningKey,
			Secure:     cfg.SecureCookies,
			Logger:     s.log,
		}))
		r.Use(custommw.Locale(s.bundle, cfg.SecureCookies))
		r.Use(custommw.CSRF(cfg.SecureCookies))

		r.Get("/", s.handleHome)
		r.Get("/recipe/{id}", s.handleRecipe)
		r.Get("/recept/*", s.handleList)

		r.Get("/api/route", s.handleRoute)
		r.Get("/api/recipes", s.handleRecipes)

		r.Post("/newsletter", s.handleNewsletter)
		r.Post("/newsletter/dismiss", s.handleNewsletterDismiss)
		r.Post("/contact", s.handleContact)
		r.Post("/lang", s.handleLanguage)
	})

	r.NotFound(s.handleNotFound)
	return r
}

// handleNotFound redirects anything unrouted to the home page; the site has no 404 page.
func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		custommw.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	summary := s.health.Summary(r.Context())
	code := http.StatusOK
	if summary.State == status.StateDown {
		code = http.StatusServiceUnavailable
	}
	custommw.WriteJSON(w, code, summary)
}

// CatalogCheck reports the catalog size; an empty catalog is down.
func CatalogCheck(c *recipe.Catalog) status.Check {
	return status.Check{
		Name: "catalog",
		Probe: func(context.Context) (string, error) {
			if c == nil || c.Len() == 0 {
				return "", fmt.Errorf("no recipes loaded")
			}
			return fmt.Sprintf("%d recipes", c.Len()), nil
		},
	}
}
