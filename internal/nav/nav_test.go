package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func activeSections(items []RenderedItem) []string {
	var out []string
	for _, it := range items {
		if it.Active {
			out = append(out, it.Section)
		}
	}
	return out
}

func TestBuildMarksActiveSection(t *testing.T) {
	t.Parallel()

	items := Build("/", SectionAbout)
	require.Len(t, items, len(Main))
	require.Equal(t, "/#recept", items[0].Href)
	require.Equal(t, []string{SectionAbout}, activeSections(items))

	require.Equal(t, []string{SectionRecipes}, activeSections(Build("/recept/alla", SectionContact)))
	require.Equal(t, []string{SectionRecipes}, activeSections(Build("/recipe/fattoush", "")))
	require.Empty(t, activeSections(Build("", "")))
}

func TestActiveSection(t *testing.T) {
	t.Parallel()

	sections := []SectionOffset{
		{ID: SectionRecipes, Top: 600},
		{ID: SectionAbout, Top: 1400},
		{ID: SectionNewsletter, Top: 2000},
		{ID: SectionContact, Top: 2600},
	}
	cases := []struct {
		name    string
		scrollY float64
		want    string
	}{
		{"above first section", 0, SectionRecipes},
		{"reading recipes", 500, SectionRecipes},
		{"about crosses the third line", 1100, SectionAbout},
		{"just before newsletter", 1699, SectionAbout},
		{"newsletter", 1700, SectionNewsletter},
		{"bottom of page", 5000, SectionContact},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ActiveSection(sections, tc.scrollY, 900), tc.name)
	}
	require.Equal(t, "", ActiveSection(nil, 100, 900))
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	home := Breadcrumbs("/", "")
	require.Equal(t, []Crumb{{Href: "/", LabelKey: "breadcrumb.home", Active: true}}, home)

	list := Breadcrumbs("/recept/alla", "")
	require.Len(t, list, 2)
	require.Equal(t, RecipesPath, list[1].Href)
	require.True(t, list[1].Active)

	detail := Breadcrumbs("/recipe/kafta-bil-sejnie", "Köttbullar i tomatsås")
	require.Len(t, detail, 3)
	require.False(t, detail[1].Active)
	require.Equal(t, Crumb{Href: "/recipe/kafta-bil-sejnie", Label: "Köttbullar i tomatsås", Active: true}, detail[2])

	require.Equal(t, "Fattoush", Breadcrumbs("/recipe/fattoush", "")[2].Label)
}
