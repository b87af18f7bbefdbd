package seo

import (
	"net/url"
	"strings"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	URL         string
	Type        string
	Locale      string
	SiteName    string
}

type Twitter struct {
	Card  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// OGLocale maps a UI language to an og:locale value.
func OGLocale(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		return "en_US"
	}
	return "sv_SE"
}

// New builds page metadata where OpenGraph and Twitter mirror the page title, description
// and image. Relative image and page URLs are resolved against base.
func New(base, title, description, pagePath, image, lang string) Meta {
	canonical := Absolute(base, pagePath)
	img := Absolute(base, image)
	card := "summary"
	if img != "" {
		card = "summary_large_image"
	}
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       img,
			URL:         canonical,
			Type:        "website",
			Locale:      OGLocale(lang),
			SiteName:    "Smakrik",
		},
		Twitter: Twitter{Card: card, Image: img},
	}
}

// Absolute resolves ref against base. Absolute refs are returned unchanged; an empty ref
// yields "".
func Absolute(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return ref
	}
	b, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/") + "/")
	if err != nil || base == "" {
		return ref
	}
	return b.ResolveReference(r).String()
}
