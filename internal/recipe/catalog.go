package recipe

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed recipes.yaml
var defaultCatalog []byte

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Catalog is an immutable, ordered recipe list. Localized views are memoized per
// language; the catalog is safe for concurrent use.
type Catalog struct {
	recipes []Recipe
	index   map[string]int

	mu        sync.RWMutex
	localized map[string][]Localized
}

type catalogFile struct {
	Recipes []Recipe `yaml:"recipes"`
}

// Default returns the catalog shipped with the site.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a YAML catalog document and validates every record.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("recipe: decode catalog: %w", err)
	}
	return New(f.Recipes)
}

// New builds a catalog from recipes, preserving their order.
func New(recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes:   make([]Recipe, 0, len(recipes)),
		index:     make(map[string]int, len(recipes)),
		localized: map[string][]Localized{},
	}
	for i, r := range recipes {
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("recipe: entry %d: %w", i, err)
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("recipe: entry %d: duplicate id %q", i, r.ID)
		}
		c.index[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, cloneRecipe(r))
	}
	return c, nil
}

func validate(r Recipe) error {
	if !slugPattern.MatchString(r.ID) {
		return fmt.Errorf("invalid id %q", r.ID)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%s: title is required", r.ID)
	}
	if _, ok := r.Minutes(); !ok {
		return fmt.Errorf("%s: time %q is not a number of minutes", r.ID, r.Time)
	}
	if r.Rating < 0 || r.Rating > 5 {
		return fmt.Errorf("%s: rating %.1f out of range", r.ID, r.Rating)
	}
	if r.Reviews < 0 || r.Likes < 0 {
		return fmt.Errorf("%s: negative counts", r.ID)
	}
	for badge := range r.TranslatedBadges {
		if !containsString(r.Badges, badge) {
			return fmt.Errorf("%s: translation for unknown badge %q", r.ID, badge)
		}
	}
	return nil
}

// Len returns the number of recipes.
func (c *Catalog) Len() int { return len(c.recipes) }

// Has reports whether id is a catalog recipe.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns a copy of the recipe with id.
func (c *Catalog) Get(id string) (Recipe, error) {
	i, ok := c.index[id]
	if !ok {
		return Recipe{}, ErrNotFound
	}
	return cloneRecipe(c.recipes[i]), nil
}

// IDs returns recipe ids in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.recipes))
	for _, r := range c.recipes {
		out = append(out, r.ID)
	}
	return out
}

// All returns copies of every recipe in catalog order.
func (c *Catalog) All() []Recipe {
	out := make([]Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		out = append(out, cloneRecipe(r))
	}
	return out
}

// Localized returns the catalog viewed in lang, in catalog order. The result is a deep
// copy; callers may reorder or edit it without affecting the memoized views.
func (c *Catalog) Localized(lang string) []Localized {
	c.mu.RLock()
	views, ok := c.localized[lang]
	c.mu.RUnlock()
	if !ok {
		views = make([]Localized, 0, len(c.recipes))
		for _, r := range c.recipes {
			views = append(views, r.Localize(lang))
		}
		c.mu.Lock()
		c.localized[lang] = views
		c.mu.Unlock()
	}
	out := make([]Localized, len(views))
	for i, v := range views {
		out[i] = v.clone()
	}
	return out
}

// LocalizedByID returns the view of one recipe in lang.
func (c *Catalog) LocalizedByID(id, lang string) (Localized, error) {
	i, ok := c.index[id]
	if !ok {
		return Localized{}, ErrNotFound
	}
	return c.recipes[i].Localize(lang), nil
}

// Category is a selectable filter value with its display label.
type Category struct {
	Value string
	Label string
}

// Categories lists the distinct authored badges in first-seen order, labelled for lang.
func (c *Catalog) Categories(lang string) []Category {
	seen := map[string]bool{}
	var out []Category
	for _, r := range c.recipes {
		for _, b := range r.Badges {
			if seen[b] {
				continue
			}
			seen[b] = true
			out = append(out, Category{Value: b, Label: r.BadgeLabel(b, lang)})
		}
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
