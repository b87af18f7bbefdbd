// Package i18n holds the site's UI strings. Translations live in a single keyed table
// (key → language → text) that must be total: every key is present in every supported
// language, which Parse enforces.
package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Language is a supported UI language code.
type Language string

const (
	Swedish Language = "sv"
	English Language = "en"
)

func (l Language) String() string { return string(l) }

// ErrUnsupportedLanguage is returned for codes outside the supported set.
var ErrUnsupportedLanguage = errors.New("i18n: unsupported language")

//go:embed translations.yaml
var defaultTable []byte

// ParityError lists table entries missing for a supported language.
type ParityError struct {
	Missing []string // "key (lang)"
}

func (e *ParityError) Error() string {
	return fmt.Sprintf("i18n: %d missing translations: %s", len(e.Missing), strings.Join(e.Missing, ", "))
}

// Bundle is an immutable, validated translation table.
type Bundle struct {
	dict      map[Language]map[string]string
	keys      []string
	fallback  Language
	supported []Language
	matcher   language.Matcher
}

// Default returns the bundle shipped with the site: Swedish first, English second.
func Default() (*Bundle, error) {
	return Parse(defaultTable, Swedish, []Language{Swedish, English})
}

// Load reads a table file from fsys.
func Load(fsys fs.FS, name string, fallback Language, supported []Language) (*Bundle, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", name, err)
	}
	return Parse(raw, fallback, supported)
}

// Parse decodes a YAML table and validates it for locale parity. The fallback must be
// one of supported; the first supported language is preferred when Accept-Language
// matches nothing.
func Parse(data []byte, fallback Language, supported []Language) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []Language{Swedish, English}
	}
	var table map[string]map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("i18n: decode table: %w", err)
	}
	b := &Bundle{
		dict:      make(map[Language]map[string]string, len(supported)),
		fallback:  fallback,
		supported: append([]Language(nil), supported...),
	}
	tags := make([]language.Tag, 0, len(supported))
	hasFallback := false
	for _, l := range supported {
		b.dict[l] = make(map[string]string, len(table))
		tags = append(tags, language.Make(string(l)))
		if l == fallback {
			hasFallback = true
		}
	}
	if !hasFallback {
		return nil, fmt.Errorf("i18n: fallback %q is not a supported language", fallback)
	}
	b.matcher = language.NewMatcher(tags)

	var missing []string
	for key, entry := range table {
		b.keys = append(b.keys, key)
		for _, l := range supported {
			text, ok := entry[string(l)]
			if !ok || strings.TrimSpace(text) == "" {
				missing = append(missing, key+" ("+string(l)+")")
				continue
			}
			b.dict[l][key] = text
		}
	}
	sort.Strings(b.keys)
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ParityError{Missing: missing}
	}
	return b, nil
}

// Supported returns the supported languages in preference order.
func (b *Bundle) Supported() []Language {
	return append([]Language(nil), b.supported...)
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() Language { return b.fallback }

// Keys returns every table key, sorted.
func (b *Bundle) Keys() []string { return append([]string(nil), b.keys...) }

// Has reports whether key exists in the table.
func (b *Bundle) Has(key string) bool {
	_, ok := b.dict[b.fallback][key]
	return ok
}

// Parse validates a language code. Region subtags and case are ignored, so "en-GB"
// and "EN" both yield English.
func (b *Bundle) Parse(code string) (Language, error) {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return "", ErrUnsupportedLanguage
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	base, _ := tag.Base()
	l := Language(base.String())
	if _, ok := b.dict[l]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return l, nil
}

// Resolve chooses the best supported language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) Language {
	if strings.TrimSpace(acceptLang) == "" {
		return b.fallback
	}
	tag, _ := language.MatchStrings(b.matcher, acceptLang)
	base, _ := tag.Base()
	if l := Language(base.String()); b.isSupported(l) {
		return l
	}
	return b.fallback
}

func (b *Bundle) isSupported(l Language) bool {
	_, ok := b.dict[l]
	return ok
}

// T returns the text for key in lang. An unsupported lang reads the fallback table; an
// unknown key is returned as-is so it shows up in review.
func (b *Bundle) T(lang Language, key string) string {
	m, ok := b.dict[lang]
	if !ok {
		m = b.dict[b.fallback]
	}
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

// Tf formats the text for key with args.
func (b *Bundle) Tf(lang Language, key string, args ...any) string {
	return fmt.Sprintf(b.T(lang, key), args...)
}

// Dict returns a copy of the full table for lang.
func (b *Bundle) Dict(lang Language) map[string]string {
	m, ok := b.dict[lang]
	if !ok {
		m = b.dict[b.fallback]
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
