package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"smakrik.se/web/internal/i18n"
	"smakrik.se/web/internal/logging"
)

// LangCookie is the durable cookie holding the chosen language.
const LangCookie = "lang"

const langCookieMaxAge = 365 * 24 * 60 * 60

// VaryLocale sets Vary header for Accept-Language and Cookie on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Add("Vary", "Cookie")
		next.ServeHTTP(w, r)
	})
}

// cookiePersister stores the language choice in a one-year cookie.
type cookiePersister struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
}

func (p *cookiePersister) LoadLanguage() (string, bool) {
	c, err := p.r.Cookie(LangCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (p *cookiePersister) SaveLanguage(lang i18n.Language) error {
	http.SetCookie(p.w, &http.Cookie{
		Name:     LangCookie,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   langCookieMaxAge,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Locale builds the request's language store: the lang cookie wins, then
// Accept-Language, then the bundle fallback. An hl query parameter switches and persists
// the language. The session carries the change announcement to the rendered page.
func Locale(bundle *i18n.Bundle, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r)
			store := i18n.NewStore(bundle,
				&cookiePersister{r: r, w: w, secure: secure},
				i18n.AnnouncerFunc(sess.Announce),
				r.Header.Get("Accept-Language"),
			)
			if q := r.URL.Query().Get("hl"); q != "" {
				if lang, err := bundle.Parse(q); err == nil && lang != store.Language() {
					if err := store.SetLanguage(q); err != nil {
						logging.FromContext(r.Context()).Warn("set language", zap.String("hl", q), zap.Error(err))
					}
				}
			}
			w.Header().Set("Content-Language", store.Language().String())
			ctx := context.WithValue(r.Context(), ctxKeyLanguage, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LanguageStore returns the request's language store, or nil outside Locale.
func LanguageStore(r *http.Request) *i18n.Store {
	s, _ := r.Context().Value(ctxKeyLanguage).(*i18n.Store)
	return s
}

// Lang returns the current language, defaulting to Swedish.
func Lang(r *http.Request) i18n.Language {
	if s := LanguageStore(r); s != nil {
		return s.Language()
	}
	return i18n.Swedish
}
