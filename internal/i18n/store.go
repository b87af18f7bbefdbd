package i18n

import (
	"fmt"
	"sync"
)

// AnnouncementKey is the table key announced to assistive technology after a language
// change. It is read from the new language.
const AnnouncementKey = "a11y.language_changed"

// Persister stores the chosen language durably (a cookie, local storage).
type Persister interface {
	LoadLanguage() (string, bool)
	SaveLanguage(lang Language) error
}

// Announcer publishes a polite live-region message.
type Announcer interface {
	Announce(message string)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(message string)

// Announce implements Announcer.
func (f AnnouncerFunc) Announce(message string) { f(message) }

// Store owns the current language. SetLanguage is the only writer; readers may subscribe
// to changes.
type Store struct {
	bundle    *Bundle
	persist   Persister
	announcer Announcer

	mu      sync.RWMutex
	lang    Language
	subs    map[int]func(Language)
	nextSub int
}

// NewStore initializes the current language from the persisted preference, then the
// browser locale (an Accept-Language value), then the bundle fallback.
func NewStore(bundle *Bundle, persist Persister, announcer Announcer, browserLocale string) *Store {
	s := &Store{
		bundle:    bundle,
		persist:   persist,
		announcer: announcer,
		subs:      map[int]func(Language){},
	}
	s.lang = bundle.Fallback()
	if persist != nil {
		if saved, ok := persist.LoadLanguage(); ok {
			if l, err := bundle.Parse(saved); err == nil {
				s.lang = l
				return s
			}
		}
	}
	if browserLocale != "" {
		s.lang = bundle.Resolve(browserLocale)
	}
	return s
}

// Language returns the current language.
func (s *Store) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage validates code, persists it, makes it current, announces the change and
// notifies subscribers. The current language is left untouched on error.
func (s *Store) SetLanguage(code string) error {
	lang, err := s.bundle.Parse(code)
	if err != nil {
		return err
	}
	if s.persist != nil {
		if err := s.persist.SaveLanguage(lang); err != nil {
			return fmt.Errorf("i18n: persist language: %w", err)
		}
	}
	s.mu.Lock()
	s.lang = lang
	subs := make([]func(Language), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if s.announcer != nil {
		s.announcer.Announce(s.bundle.T(lang, AnnouncementKey))
	}
	for _, fn := range subs {
		fn(lang)
	}
	return nil
}

// T translates key in the current language.
func (s *Store) T(key string) string {
	return s.bundle.T(s.Language(), key)
}

// Dict returns the full dictionary of the current language.
func (s *Store) Dict() map[string]string {
	return s.bundle.Dict(s.Language())
}

// Subscribe registers fn for language changes and returns its cancel function.
func (s *Store) Subscribe(fn func(Language)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
