package seo

import (
	"encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema with optional SearchAction.
func WebSite(name, url, lang, searchActionURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	if searchActionURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchActionURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// RecipeSchema carries the fields of a schema.org Recipe.
type RecipeSchema struct {
	Name        string
	Description string
	URL         string
	Image       string
	Author      string
	Lang        string
	TotalTime   string // ISO 8601 duration
	Yield       string
	Keywords    []string
	Rating      float64
	RatingCount int
}

// Recipe returns a schema.org Recipe payload. The aggregate rating is omitted without
// reviews.
func Recipe(r RecipeSchema) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Recipe",
		"name":        r.Name,
		"description": r.Description,
	}
	if r.URL != "" {
		m["url"] = r.URL
	}
	if r.Image != "" {
		m["image"] = []string{r.Image}
	}
	if r.Author != "" {
		m["author"] = map[string]any{"@type": "Person", "name": r.Author}
	}
	if r.Lang != "" {
		m["inLanguage"] = r.Lang
	}
	if r.TotalTime != "" {
		m["totalTime"] = r.TotalTime
	}
	if r.Yield != "" {
		m["recipeYield"] = r.Yield
	}
	if len(r.Keywords) > 0 {
		m["keywords"] = r.Keywords
	}
	if r.RatingCount > 0 {
		m["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": r.Rating,
			"ratingCount": r.RatingCount,
			"bestRating":  5,
		}
	}
	return m
}
