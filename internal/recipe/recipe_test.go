package recipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func loadDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func ids(views []Localized) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestDefaultCatalogLoads(t *testing.T) {
	t.Parallel()

	c := loadDefault(t)
	require.Greater(t, c.Len(), 5)
	require.True(t, c.Has("lax-risbowl"))
	require.True(t, c.Has("kafta-bil-sejnie"))
	require.False(t, c.Has("does-not-exist"))

	r, err := c.Get("kafta-bil-sejnie")
	require.NoError(t, err)
	require.Equal(t, "Köttbullar i tomatsås", r.Title)

	_, err = c.Get("does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseRejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"duplicate id": `
recipes:
  - {id: a, title: A, time: "10"}
  - {id: a, title: B, time: "10"}`,
		"bad slug": `
recipes:
  - {id: "Not A Slug", title: A, time: "10"}`,
		"missing title": `
recipes:
  - {id: a, time: "10"}`,
		"non numeric time": `
recipes:
  - {id: a, title: A, time: "en timme"}`,
		"rating out of range": `
recipes:
  - {id: a, title: A, time: "10", rating: 5.5}`,
		"orphan badge translation": `
recipes:
  - {id: a, title: A, time: "10", badges: [Fisk], translated_badges: {Kött: Meat}}`,
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		require.Error(t, err, name)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()

	c := loadDefault(t)
	r, err := c.Get("lax-risbowl")
	require.NoError(t, err)
	r.Badges[0] = "mutated"
	r.TranslatedBadges["Fisk"] = "mutated"

	again, err := c.Get("lax-risbowl")
	require.NoError(t, err)
	require.NotEqual(t, "mutated", again.Badges[0])
	require.Equal(t, "Fish", again.TranslatedBadges["Fisk"])
}

func TestLocalize(t *testing.T) {
	t.Parallel()

	c := loadDefault(t)
	sv, err := c.LocalizedByID("lax-risbowl", "sv")
	require.NoError(t, err)
	require.Equal(t, "Kryddig lax- & risbowl", sv.Title)
	require.Equal(t, []string{"Snabbt", "Fisk", "Populärt"}, sv.Badges)
	require.Equal(t, 25, sv.Minutes)

	en, err := c.LocalizedByID("lax-risbowl", "en")
	require.NoError(t, err)
	require.Equal(t, "Spicy salmon & rice bowl", en.Title)
	require.Equal(t, []string{"Quick", "Fish", "Popular"}, en.Badges)
	require.Equal(t, []string{"Snabbt", "Fisk", "Populärt"}, en.Tags)
}

func TestLocalizeFallsBackToAuthoredText(t *testing.T) {
	t.Parallel()

	r := Recipe{ID: "x", Title: "Pannkakor", Time: "20", Badges: []string{"Fika"}}
	v := r.Localize("en")
	require.Equal(t, "Pannkakor", v.Title)
	require.Equal(t, []string{"Fika"}, v.Badges)
}

func TestLocalizedPreservesOrderAndIsMemoized(t *testing.T) {
	t.Parallel()

	c := loadDefault(t)
	first := c.Localized("en")
	require.Equal(t, c.IDs(), ids(first))

	first[0], first[1] = first[1], first[0]
	require.Equal(t, c.IDs(), ids(c.Localized("en")))

	edited := c.Localized("en")
	require.NotEmpty(t, edited[0].Badges)
	want, wantTag := edited[0].Badges[0], edited[0].Tags[0]
	edited[0].Badges[0] = "changed"
	edited[0].Tags[0] = "changed"
	again := c.Localized("en")
	require.Equal(t, want, again[0].Badges[0])
	require.Equal(t, wantTag, again[0].Tags[0])
}

func TestCategories(t *testing.T) {
	t.Parallel()

	c := loadDefault(t)
	cats := c.Categories("en")
	require.NotEmpty(t, cats)
	require.Equal(t, Category{Value: "Snabbt", Label: "Quick"}, cats[0])

	seen := map[string]bool{}
	for _, cat := range cats {
		require.False(t, seen[cat.Value], "duplicate category %s", cat.Value)
		seen[cat.Value] = true
	}
}
