package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"smakrik.se/web/internal/i18n"
	"smakrik.se/web/internal/logging"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func sessionHandler(fn func(w http.ResponseWriter, r *http.Request)) http.Handler {
	return Session(SessionConfig{SigningKey: testKey})(http.HandlerFunc(fn))
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	h := sessionHandler(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		if r.URL.Query().Get("done") != "" {
			s.SetNewsletterDone()
		}
		_, _ = w.Write([]byte(s.ID))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?done=1", nil))
	ck := cookieNamed(rec.Result().Cookies(), sessionCookieName)
	require.NotNil(t, ck)
	require.True(t, ck.HttpOnly)
	require.Zero(t, ck.MaxAge)
	require.True(t, ck.Expires.IsZero())
	id := rec.Body.String()
	require.NotEmpty(t, id)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	var got *SessionData
	h = sessionHandler(func(w http.ResponseWriter, r *http.Request) {
		got = GetSession(r)
	})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, id, got.ID)
	require.True(t, got.NewsletterDone)
	// an unchanged session is not rewritten
	require.Nil(t, cookieNamed(rec.Result().Cookies(), sessionCookieName))
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	var first string
	h := sessionHandler(func(w http.ResponseWriter, r *http.Request) {
		first = GetSession(r).ID
		GetSession(r).SetNewsletterDone()
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	ck := cookieNamed(rec.Result().Cookies(), sessionCookieName)
	require.NotNil(t, ck)

	parts := strings.SplitN(ck.Value, ".", 2)
	ck.Value = parts[0] + "x." + parts[1]

	var got *SessionData
	h = sessionHandler(func(w http.ResponseWriter, r *http.Request) { got = GetSession(r) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotEqual(t, first, got.ID)
	require.False(t, got.NewsletterDone)
}

func TestAnnouncementIsTakenOnce(t *testing.T) {
	s := &SessionData{}
	s.Announce("hej")
	require.True(t, s.dirty)
	require.Equal(t, "hej", s.TakeAnnouncement())
	require.Empty(t, s.TakeAnnouncement())
}

func TestCSRF(t *testing.T) {
	var token string
	chain := Session(SessionConfig{SigningKey: testKey})(CSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = CSRFToken(r)
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotEmpty(t, token)
	session := cookieNamed(rec.Result().Cookies(), sessionCookieName)
	require.NotNil(t, session)
	csrfCookie := cookieNamed(rec.Result().Cookies(), csrfCookieName)
	require.NotNil(t, csrfCookie)
	require.Equal(t, token, csrfCookie.Value)

	post := func(form url.Values, header string) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(CSRFHeader, header)
		}
		req.AddCookie(session)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusForbidden, post(url.Values{}, ""))
	require.Equal(t, http.StatusForbidden, post(url.Values{CSRFField: {"wrong"}}, ""))
	require.Equal(t, http.StatusNoContent, post(url.Values{CSRFField: {token}}, ""))
	require.Equal(t, http.StatusNoContent, post(url.Values{}, token))
}

func TestLocale(t *testing.T) {
	bundle, err := i18n.Default()
	require.NoError(t, err)

	var lang i18n.Language
	var announced string
	chain := Session(SessionConfig{SigningKey: testKey})(Locale(bundle, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang = Lang(r)
		announced = GetSession(r).Announcement
	})))

	serve := func(target string, mutate func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if mutate != nil {
			mutate(req)
		}
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec
	}

	serve("/", nil)
	require.Equal(t, i18n.Swedish, lang)

	serve("/", func(r *http.Request) { r.Header.Set("Accept-Language", "en-US,en;q=0.8") })
	require.Equal(t, i18n.English, lang)

	serve("/", func(r *http.Request) {
		r.Header.Set("Accept-Language", "en-US")
		r.AddCookie(&http.Cookie{Name: LangCookie, Value: "sv"})
	})
	require.Equal(t, i18n.Swedish, lang)

	rec := serve("/?hl=en", nil)
	require.Equal(t, i18n.English, lang)
	require.Equal(t, "Language changed to English", announced)
	ck := cookieNamed(rec.Result().Cookies(), LangCookie)
	require.NotNil(t, ck)
	require.Equal(t, "en", ck.Value)
	require.Equal(t, langCookieMaxAge, ck.MaxAge)

	rec = serve("/?hl=xx", nil)
	require.Equal(t, i18n.Swedish, lang)
	require.Nil(t, cookieNamed(rec.Result().Cookies(), LangCookie))
}

func TestLangOutsideLocaleDefaultsToSwedish(t *testing.T) {
	require.Equal(t, i18n.Swedish, Lang(httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Nil(t, LanguageStore(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestAssetsWithCache(t *testing.T) {
	fsys := fstest.MapFS{"css/site.css": {Data: []byte("body{}")}}
	h := http.StripPrefix("/assets", AssetsWithCache(fsys))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{}", rec.Body.String())
	etag := rec.Header().Get("ETag")
	require.True(t, strings.HasPrefix(etag, `W/"`))
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}

func TestLoggerAndRecoverer(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var fallbackCalled bool
	fallback := func(w http.ResponseWriter, r *http.Request) {
		fallbackCalled = true
		w.WriteHeader(http.StatusInternalServerError)
	}
	h := Logger(zap.New(core))(Recoverer(fallback)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("inside")
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipe/x", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.True(t, fallbackCalled)

	require.Equal(t, 1, logs.FilterMessage("inside").Len())
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	require.EqualValues(t, http.StatusInternalServerError, fields["status"])
	require.Equal(t, "/recipe/x", fields["route"])
}

func TestRecovererAnswersJSONForAPI(t *testing.T) {
	h := Recoverer(func(http.ResponseWriter, *http.Request) { t.Fatal("fallback must not run") })(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/route", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
