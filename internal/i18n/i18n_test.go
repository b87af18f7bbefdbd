package i18n

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestDefaultBundleHasParity(t *testing.T) {
	t.Parallel()

	b, err := Default()
	require.NoError(t, err)
	require.Equal(t, []Language{Swedish, English}, b.Supported())
	require.Equal(t, Swedish, b.Fallback())

	sv := b.Dict(Swedish)
	en := b.Dict(English)
	require.Len(t, en, len(sv))
	for _, key := range b.Keys() {
		require.NotEmpty(t, sv[key], key)
		require.NotEmpty(t, en[key], key)
	}
	require.True(t, b.Has(AnnouncementKey))
}

func TestParseReportsMissingTranslations(t *testing.T) {
	t.Parallel()

	doc := []byte(`
greeting:
  sv: Hej
  en: Hello
farewell:
  sv: Hej då
`)
	_, err := Parse(doc, Swedish, []Language{Swedish, English})
	var parity *ParityError
	require.True(t, errors.As(err, &parity))
	require.Equal(t, []string{"farewell (en)"}, parity.Missing)
}

func TestParseRejectsUnsupportedFallback(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`a: {sv: x, en: y}`), "de", []Language{Swedish, English})
	require.Error(t, err)
}

func TestLoadReadsFromFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"t.yaml": {Data: []byte("hello: {sv: Hej, en: Hello}\n")}}
	b, err := Load(fsys, "t.yaml", Swedish, nil)
	require.NoError(t, err)
	require.Equal(t, "Hello", b.T(English, "hello"))

	_, err = Load(fsys, "missing.yaml", Swedish, nil)
	require.Error(t, err)
}

func TestResolveHonorsQValues(t *testing.T) {
	t.Parallel()

	b, err := Default()
	require.NoError(t, err)
	require.Equal(t, English, b.Resolve("sv;q=0.8, en;q=0.9"))
	require.Equal(t, Swedish, b.Resolve("sv-SE,sv;q=0.9,en;q=0.5"))
	require.Equal(t, English, b.Resolve("en-US"))
	require.Equal(t, Swedish, b.Resolve("fr-FR"))
	require.Equal(t, Swedish, b.Resolve(""))
}

func TestBundleParse(t *testing.T) {
	t.Parallel()

	b, err := Default()
	require.NoError(t, err)

	for code, want := range map[string]Language{"sv": Swedish, "EN": English, "en-GB": English, "sv_SE": Swedish} {
		got, err := b.Parse(code)
		require.NoError(t, err, code)
		require.Equal(t, want, got, code)
	}
	for _, code := range []string{"", "de", "not a tag"} {
		_, err := b.Parse(code)
		require.ErrorIs(t, err, ErrUnsupportedLanguage, code)
	}
}

func TestTranslateUnknownKeyReturnsKey(t *testing.T) {
	t.Parallel()

	b, err := Default()
	require.NoError(t, err)
	require.Equal(t, "no.such.key", b.T(English, "no.such.key"))
	require.Equal(t, b.T(Swedish, "nav.home"), b.T("de", "nav.home"))
	require.Equal(t, "9 recipes", b.Tf(English, "recipes.count", "9"))
}

type memoryPersister struct {
	value string
	saves int
	err   error
}

func (m *memoryPersister) LoadLanguage() (string, bool) { return m.value, m.value != "" }

func (m *memoryPersister) SaveLanguage(lang Language) error {
	if m.err != nil {
		return m.err
	}
	m.value = string(lang)
	m.saves++
	return nil
}

func TestStoreSetLanguagePersistsAcrossReload(t *testing.T) {
	t.Parallel()

	b, err := Default()
	require.NoError(t, err)
	persist := &memoryPersister{}
	var announced []string
	announcer := AnnouncerFunc(func(msg string) { announced = append(announced, msg) })

	s := NewStore(b, persist, announcer, "sv-SE")
	require.Equal(t, Swedish, s.Language())

	var notified []Language
	cancel := s.Subscribe(func(l Language) { notified = append(notified, l) })

	require.NoError(t, s.SetLanguage("en"))
	require.Equal(t, English, s.Language())
	require.Equal(t, "en", persist.value)
	require.Equal(t, []string{"Language changed to English"}, announced)
	require.Equal(t, []Language{English}, notified)
	require.Equal(t, "Home", s.T("nav.home"))

	cancel()
	require.NoError(t, s.SetLanguage("sv"))
	require.Len(t, notified, 1)

	// a reload reads the persisted choice before the browser locale
	require.NoError(t, s.SetLanguage("en"))
	reloaded := NewStore(b, persist, nil, "sv-SE")
	require.Equal(t, English, reloaded.Language())
	dict := reloaded.Dict()
	for _, key := range b.Keys() {
		require.NotEqual(t, key, dict[key], "English dictionary must be total")
	}
}

func TestStoreRejectsUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	b, err := Default()
	require.NoError(t, err)
	persist := &memoryPersister{}
	s := NewStore(b, persist, nil, "")

	require.ErrorIs(t, s.SetLanguage("de"), ErrUnsupportedLanguage)
	require.Equal(t, Swedish, s.Language())
	require.Zero(t, persist.saves)

	persist.err = errors.New("disk full")
	require.Error(t, s.SetLanguage("en"))
	require.Equal(t, Swedish, s.Language())
}

func TestStoreUsesBrowserLocaleWithoutPreference(t *testing.T) {
	t.Parallel()

	b, err := Default()
	require.NoError(t, err)
	require.Equal(t, English, NewStore(b, &memoryPersister{}, nil, "en-US,en;q=0.9").Language())
	require.Equal(t, English, NewStore(b, &memoryPersister{value: "xx"}, nil, "en").Language())
	require.Equal(t, Swedish, NewStore(b, nil, nil, "").Language())
}
