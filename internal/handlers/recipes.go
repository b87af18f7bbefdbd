package handlers

import (
	"html/template"
	"net/url"

	"smakrik.se/web/internal/content"
	"smakrik.se/web/internal/format"
	"smakrik.se/web/internal/i18n"
	"smakrik.se/web/internal/nav"
	"smakrik.se/web/internal/recipe"
	"smakrik.se/web/internal/router"
)

// Card is the view model of a recipe card.
type Card struct {
	ID          string
	Href        string
	Title       string
	Description string
	Image       string
	Emoji       string
	// ImageMissing is the caption shown with the emoji when the image is absent or fails.
	ImageMissing string
	Time         string
	Portions     string
	Rating       string
	Badges       []string
}

// NewCard builds the card of r in lang.
func NewCard(bundle *i18n.Bundle, lang i18n.Language, r recipe.Localized) Card {
	l := lang.String()
	emoji := r.Emoji
	if emoji == "" {
		emoji = "🍽️"
	}
	return Card{
		ID:           r.ID,
		Href:         RecipePath(r.ID),
		Title:        r.Title,
		Description:  r.Description,
		Image:        r.Image,
		Emoji:        emoji,
		ImageMissing: bundle.T(lang, "recipe.image_missing"),
		Time:         format.FmtMinutesString(r.Time, l),
		Portions:     format.FmtPortions(r.Portions, l),
		Rating:       format.FmtRating(r.Rating, l),
		Badges:       append([]string(nil), r.Badges...),
	}
}

// Cards builds cards for recipes, keeping their order.
func Cards(bundle *i18n.Bundle, lang i18n.Language, recipes []recipe.Localized) []Card {
	out := make([]Card, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, NewCard(bundle, lang, r))
	}
	return out
}

// RecipePath is the page path of the recipe detail view.
func RecipePath(id string) string { return "/" + router.RecipeFragment(id) }

// RecipeData is the view model of the recipe detail page.
type RecipeData struct {
	Card
	Reviews  string
	Likes    string
	Story    template.HTML
	Headings []content.Heading
	BackHref string
}

// BuildRecipeData builds the detail view of r. story may be nil when the recipe has no
// written story.
func BuildRecipeData(bundle *i18n.Bundle, lang i18n.Language, r recipe.Localized, story *content.Page) *RecipeData {
	l := lang.String()
	d := &RecipeData{
		Card:     NewCard(bundle, lang, r),
		Reviews:  bundle.Tf(lang, "recipe.reviews", format.FmtCount(r.Reviews, l)),
		Likes:    bundle.Tf(lang, "recipe.likes", format.FmtCount(r.Likes, l)),
		BackHref: nav.RecipesPath,
	}
	if story != nil {
		// sanitized by the content store
		d.Story = template.HTML(story.HTML)
		d.Headings = story.Headings
	}
	return d
}

// CategoryOption is a filter chip of the recipe list.
type CategoryOption struct {
	Value  string
	Label  string
	Href   string
	Active bool
}

// ListData is the view model of the recipe list page.
type ListData struct {
	Query      string
	Category   string
	Categories []CategoryOption
	Cards      []Card
	Count      string
}

// Empty reports whether no recipe matched.
func (l *ListData) Empty() bool { return len(l.Cards) == 0 }

// BuildListData filters the catalog by query and category and builds the list view.
func BuildListData(bundle *i18n.Bundle, lang i18n.Language, catalog *recipe.Catalog, query, category string) *ListData {
	if category == "" {
		category = recipe.CategoryAll
	}
	matches := recipe.Filter(catalog.Localized(lang.String()), query, category)
	d := &ListData{
		Query:    query,
		Category: category,
		Cards:    Cards(bundle, lang, matches),
		Count:    bundle.Tf(lang, "recipes.count", format.FmtCount(len(matches), lang.String())),
	}
	options := []recipe.Category{
		{Value: recipe.CategoryAll, Label: bundle.T(lang, "recipes.filter.all")},
		{Value: recipe.CategoryQuick, Label: bundle.T(lang, "recipes.filter.quick")},
	}
	options = append(options, catalog.Categories(lang.String())...)
	for _, c := range options {
		d.Categories = append(d.Categories, CategoryOption{
			Value:  c.Value,
			Label:  c.Label,
			Href:   listHref(query, c.Value),
			Active: c.Value == category,
		})
	}
	return d
}

func listHref(query, category string) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if category != "" && category != recipe.CategoryAll {
		v.Set("kategori", category)
	}
	if len(v) == 0 {
		return nav.RecipesPath
	}
	return nav.RecipesPath + "?" + v.Encode()
}
