// Package content serves the site's markdown pages (the about section, recipe stories).
// Files live at <kind>/<lang>/<slug>.md with optional YAML front matter and are rendered to
// sanitized HTML.
package content

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Kinds of content.
const (
	KindPage   = "pages"
	KindRecipe = "recipes"
)

// ErrNotFound is returned when no language variant of a page exists.
var ErrNotFound = errors.New("content: not found")

//go:embed pages recipes
var embedded embed.FS

// Embedded returns the content shipped with the binary.
func Embedded() fs.FS { return embedded }

// Page is a rendered markdown document.
type Page struct {
	Kind      string
	Slug      string
	Lang      string
	Title     string
	Summary   string
	HTML      string // sanitized
	Excerpt   string // plain text
	Headings  []Heading
	UpdatedAt time.Time
	SEO       SEO
}

// SEO holds optional metadata overrides from front matter.
type SEO struct {
	Title       string
	Description string
	OGImage     string
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	Lang      string `yaml:"lang"`
	UpdatedAt string `yaml:"updated_at"`
	SEO       struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		OGImage     string `yaml:"og_image"`
	} `yaml:"seo"`
}

const (
	defaultTTL        = 5 * time.Minute
	defaultExcerptLen = 160
)

// Store reads and renders pages from a filesystem, caching results per kind, language
// and slug.
type Store struct {
	fsys     fs.FS
	fallback string
	ttl      time.Duration
	now      func() time.Time
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	log      *zap.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the cache duration. Zero or negative disables caching.
func WithTTL(d time.Duration) Option { return func(s *Store) { s.ttl = d } }

// WithFallbackLanguage sets the language tried when the requested one has no variant.
func WithFallbackLanguage(lang string) Option {
	return func(s *Store) { s.fallback = normalizeLang(lang) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// New returns a Store reading from fsys.
func New(fsys fs.FS, opts ...Option) *Store {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	s := &Store{
		fsys:     fsys,
		fallback: "sv",
		ttl:      defaultTTL,
		now:      time.Now,
		md:       md,
		policy:   newPolicy(),
		cache:    map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Get returns the page for kind/slug in lang, falling back to the store's fallback
// language. ErrNotFound is returned when neither exists.
func (s *Store) Get(ctx context.Context, kind, slug, lang string) (Page, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	slug = sanitizeSlug(slug)
	if kind == "" || slug == "" {
		return Page{}, ErrNotFound
	}
	lang = normalizeLang(lang)
	key := kind + "|" + lang + "|" + slug
	if page, ok := s.cached(key); ok {
		return page, nil
	}

	priority := []string{lang}
	if s.fallback != "" && s.fallback != lang {
		priority = append(priority, s.fallback)
	}
	for _, candidate := range priority {
		if err := ctx.Err(); err != nil {
			return Page{}, err
		}
		page, err := s.read(kind, slug, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Page{}, err
		}
		s.store(key, page)
		return clonePage(page), nil
	}
	return Page{}, ErrNotFound
}

// Invalidate drops every cached page.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = map[string]cacheEntry{}
	s.mu.Unlock()
}

func (s *Store) read(kind, slug, lang string) (Page, error) {
	name := path.Join(kind, lang, slug+".md")
	raw, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return Page{}, err
	}
	fm, body := splitFrontMatter(string(raw))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", name, err)
	}
	sanitized := strings.TrimSpace(s.policy.Sanitize(buf.String()))
	text, headings := inspectHTML(sanitized)

	page := Page{
		Kind:     kind,
		Slug:     slug,
		Lang:     firstNonEmpty(normalizeLang(front.Lang), lang),
		Title:    strings.TrimSpace(front.Title),
		Summary:  strings.TrimSpace(front.Summary),
		HTML:     sanitized,
		Excerpt:  Excerpt(text, defaultExcerptLen),
		Headings: headings,
		SEO: SEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
		UpdatedAt: parseDate(front.UpdatedAt),
	}
	if page.UpdatedAt.IsZero() {
		if info, err := fs.Stat(s.fsys, name); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	if page.Title == "" {
		if len(headings) > 0 {
			page.Title = headings[0].Text
		} else {
			page.Title = prettifySlug(slug)
		}
	}
	s.log.Debug("content rendered", zap.String("file", name), zap.Int("bytes", len(sanitized)))
	return page, nil
}

func (s *Store) cached(key string) (Page, bool) {
	if s.ttl <= 0 {
		return Page{}, false
	}
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expires) {
		return Page{}, false
	}
	return clonePage(entry.page), true
}

func (s *Store) store(key string, page Page) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.cache[key] = cacheEntry{page: clonePage(page), expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

func clonePage(src Page) Page {
	cp := src
	cp.Headings = append([]Heading(nil), src.Headings...)
	return cp
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.ToLower(strings.TrimSpace(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
