package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionCookieName = "SMAKRIK_SESSION"

// SessionData is the signed, browser-session scoped state of a visitor. The cookie carries
// no expiry so it ends with the browser session.
type SessionData struct {
	ID string `json:"id"`
	// NewsletterDone records that the newsletter popup was dismissed or the visitor
	// subscribed; the popup stays hidden for the rest of the session.
	NewsletterDone bool `json:"nl,omitempty"`
	// Announcement is a one-shot live-region message shown on the next rendered page.
	Announcement string    `json:"ann,omitempty"`
	CSRFToken    string    `json:"csrf,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// SessionConfig configures the session cookie.
type SessionConfig struct {
	SigningKey []byte
	Secure     bool
	Logger     *zap.Logger
}

// Session loads or initializes a session and stores it in request context. Without a
// signing key a process-ephemeral key is generated.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	key := cfg.SigningKey
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			key = []byte("insecure-dev-key-please-set-SMAKRIK_SESSION_SIGNING_KEY")
		}
		if cfg.Logger != nil {
			cfg.Logger.Warn("session: using ephemeral signing key; set SMAKRIK_SESSION_SIGNING_KEY for production")
		}
	}
	codec := sessionCodec{key: key, secure: cfg.Secure}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromCookie := codec.read(r)
			if sd.ID == "" {
				sd.ID = uuid.NewString()
				sd.CreatedAt = time.Now().UTC()
				sd.UpdatedAt = sd.CreatedAt
				sd.CSRFToken = newCSRFToken()
				sd.dirty = true
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sd)
			rw := NewResponseRecorder(w)
			// the cookie must go out with the header, so it is written just before it
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromCookie {
					codec.write(w, sd)
				}
			})
			next.ServeHTTP(rw, r.WithContext(ctx))
			// nothing written (e.g. HEAD): persist now
			if !rw.Wrote() && (sd.dirty || !fromCookie) {
				codec.write(w, sd)
			}
		})
	}
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// SetNewsletterDone hides the newsletter popup for the rest of the session.
func (s *SessionData) SetNewsletterDone() {
	if !s.NewsletterDone {
		s.NewsletterDone = true
		s.MarkDirty()
	}
}

// Announce queues a live-region message for the next rendered page.
func (s *SessionData) Announce(message string) {
	s.Announcement = message
	s.MarkDirty()
}

// TakeAnnouncement returns and clears the queued announcement.
func (s *SessionData) TakeAnnouncement() string {
	msg := s.Announcement
	if msg != "" {
		s.Announcement = ""
		s.MarkDirty()
	}
	return msg
}

type sessionCodec struct {
	key    []byte
	secure bool
}

// read parses and verifies the session cookie
func (c sessionCodec) read(r *http.Request) (*SessionData, bool) {
	ck, err := r.Cookie(sessionCookieName)
	if err != nil || ck.Value == "" {
		return &SessionData{}, false
	}
	parts := strings.Split(ck.Value, ".")
	if len(parts) != 2 {
		return &SessionData{}, false
	}
	payloadB, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return &SessionData{}, false
	}
	sigB, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return &SessionData{}, false
	}
	if !hmac.Equal(sigB, c.sign(payloadB)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payloadB, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (c sessionCodec) write(w http.ResponseWriter, sd *SessionData) {
	b, _ := json.Marshal(sd)
	val := base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(c.sign(b))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c sessionCodec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)
}
