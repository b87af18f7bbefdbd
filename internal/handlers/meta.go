package handlers

import (
	"html/template"

	"smakrik.se/web/internal/format"
	"smakrik.se/web/internal/i18n"
	"smakrik.se/web/internal/nav"
	"smakrik.se/web/internal/recipe"
	"smakrik.se/web/internal/router"
	"smakrik.se/web/internal/seo"
)

// SiteName is the brand used in titles and structured data.
const SiteName = "Smakrik"

// MetaTables builds the router metadata table of every supported language. Home is keyed
// by the empty fragment, recipes by id, and the recipe list is the fallback.
func MetaTables(bundle *i18n.Bundle, catalog *recipe.Catalog, baseURL string) map[i18n.Language]router.MetaTable {
	out := make(map[i18n.Language]router.MetaTable, len(bundle.Supported()))
	for _, lang := range bundle.Supported() {
		t := router.MetaTable{
			Pages: map[string]router.Meta{
				"": {
					Title:       bundle.T(lang, "meta.home.title"),
					Description: bundle.T(lang, "meta.home.description"),
					URL:         seo.Absolute(baseURL, "/"),
				},
			},
			Recipes: make(map[string]router.Meta, catalog.Len()),
			Fallback: router.Meta{
				Title:       bundle.T(lang, "meta.recipes.title"),
				Description: bundle.T(lang, "meta.recipes.description"),
				URL:         seo.Absolute(baseURL, nav.RecipesPath),
			},
		}
		for _, r := range catalog.Localized(lang.String()) {
			t.Recipes[r.ID] = router.Meta{
				Title:       bundle.Tf(lang, "meta.recipe.title", r.Title),
				Description: r.Description,
				Image:       seo.Absolute(baseURL, r.Image),
				URL:         seo.Absolute(baseURL, RecipePath(r.ID)),
			}
		}
		out[lang] = t
	}
	return out
}

// SEOFromMeta turns router metadata into the page's head tags.
func SEOFromMeta(baseURL string, m router.Meta, pagePath string, lang i18n.Language) seo.Meta {
	meta := seo.New(baseURL, m.Title, m.Description, pagePath, m.Image, lang.String())
	if m.URL != "" {
		meta.Canonical = m.URL
		meta.OG.URL = m.URL
	}
	return meta
}

// HomeJSONLD returns the WebSite and Organization payloads of the home page.
func HomeJSONLD(baseURL string, lang i18n.Language) []template.JS {
	site := seo.Absolute(baseURL, "/")
	return jsonLD(
		seo.WebSite(SiteName, site, lang.String(), seo.Absolute(baseURL, nav.RecipesPath)+"?q="),
		seo.Organization(SiteName, site, seo.Absolute(baseURL, "/assets/img/logo.svg")),
	)
}

// RecipeJSONLD returns the Recipe and BreadcrumbList payloads of a detail page.
func RecipeJSONLD(bundle *i18n.Bundle, baseURL string, lang i18n.Language, r recipe.Localized) []template.JS {
	schema := seo.RecipeSchema{
		Name:        r.Title,
		Description: r.Description,
		URL:         seo.Absolute(baseURL, RecipePath(r.ID)),
		Image:       seo.Absolute(baseURL, r.Image),
		Author:      SiteName,
		Lang:        lang.String(),
		TotalTime:   format.FmtISODuration(r.Minutes),
		Yield:       r.Portions,
		Keywords:    r.Badges,
		Rating:      r.Rating,
		RatingCount: r.Reviews,
	}
	crumbs := seo.BreadcrumbList([]seo.BreadcrumbItem{
		{Name: bundle.T(lang, "breadcrumb.home"), Item: seo.Absolute(baseURL, "/")},
		{Name: bundle.T(lang, "breadcrumb.recipes"), Item: seo.Absolute(baseURL, nav.RecipesPath)},
		{Name: r.Title, Item: schema.URL},
	})
	return jsonLD(seo.Recipe(schema), crumbs)
}

func jsonLD(payloads ...map[string]any) []template.JS {
	out := make([]template.JS, 0, len(payloads))
	for _, p := range payloads {
		if s := seo.JSON(p); s != "" {
			// json.Marshal escapes <, > and & so the payload cannot close the script element
			out = append(out, template.JS(s))
		}
	}
	return out
}
