package httpserver

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"smakrik.se/web/internal/handlers"
	"smakrik.se/web/internal/nav"
	"smakrik.se/web/internal/seo"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

func (s *server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs,
		sitemapURL{Loc: seo.Absolute(s.baseURL, "/"), ChangeFreq: "weekly", Priority: "1.0"},
		sitemapURL{Loc: seo.Absolute(s.baseURL, nav.RecipesPath), ChangeFreq: "weekly", Priority: "0.8"},
	)
	for _, id := range s.catalog.IDs() {
		set.URLs = append(set.URLs, sitemapURL{Loc: seo.Absolute(s.baseURL, handlers.RecipePath(id)), ChangeFreq: "monthly", Priority: "0.6"})
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		s.log.Error("encode sitemap", zap.Error(err))
	}
}

func (s *server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /api/\nSitemap: %s\n", seo.Absolute(s.baseURL, "/sitemap.xml"))
}
