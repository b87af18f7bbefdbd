package handlers

import (
	"html/template"

	"smakrik.se/web/internal/content"
	"smakrik.se/web/internal/i18n"
	"smakrik.se/web/internal/nav"
	"smakrik.se/web/internal/recipe"
)

// FeaturedCount is the number of recipes shown on the home page.
const FeaturedCount = 6

// HomeData is the view model for the home page.
type HomeData struct {
	Featured    []Card
	RecipesHref string
	About       *AboutData
}

// AboutData is the rendered about section.
type AboutData struct {
	Title   string
	Summary string
	HTML    template.HTML
}

// BuildHomeData constructs the landing page view model. about may be nil when the page
// could not be loaded; the section then shows only its heading.
func BuildHomeData(bundle *i18n.Bundle, lang i18n.Language, catalog *recipe.Catalog, about *content.Page) *HomeData {
	featured := catalog.Localized(lang.String())
	if len(featured) > FeaturedCount {
		featured = featured[:FeaturedCount]
	}
	d := &HomeData{
		Featured:    Cards(bundle, lang, featured),
		RecipesHref: nav.RecipesPath,
		About:       &AboutData{Title: bundle.T(lang, "about.title")},
	}
	if about != nil {
		d.About.Title = about.Title
		d.About.Summary = about.Summary
		d.About.HTML = template.HTML(about.HTML)
	}
	return d
}
