package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"smakrik.se/web/internal/handlers"
	"smakrik.se/web/internal/logging"
	custommw "smakrik.se/web/internal/middleware"
	"smakrik.se/web/internal/webhook"
)

// handleNewsletter validates and forwards a newsletter signup. htmx requests receive the
// form fragment; plain posts the full home page.
func (s *server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	sub := webhook.Submission{
		Type:  webhook.TypeNewsletter,
		Email: r.PostFormValue("email"),
	}
	p := s.homePage(r)
	state, code := s.submit(r, p, sub)
	if state.Success {
		custommw.GetSession(r).SetNewsletterDone()
		p.ShowNewsletterPopup = false
	}
	p.Newsletter = state
	s.respondForm(w, r, code, "newsletter-form", p)
}

// handleContact validates and forwards a contact message.
func (s *server) handleContact(w http.ResponseWriter, r *http.Request) {
	sub := webhook.Submission{
		Type:    webhook.TypeContact,
		Email:   r.PostFormValue("email"),
		Name:    r.PostFormValue("name"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}
	p := s.homePage(r)
	state, code := s.submit(r, p, sub)
	p.Contact = state
	s.respondForm(w, r, code, "contact-form", p)
}

// submit sends sub and maps the outcome onto the form state and the status code of a
// plain (non-htmx) response. The form state keeps the input exactly as typed.
func (s *server) submit(r *http.Request, p handlers.PageData, sub webhook.Submission) (handlers.FormState, int) {
	state := handlers.NewFormState(sub)
	_, err := s.webhook.Submit(r.Context(), sub)
	var invalid webhook.ValidationErrors
	switch {
	case err == nil:
		state.Success = true
	case errors.As(err, &invalid):
		state.Errors = p.FieldErrors(invalid)
	default:
		state.Failed = true
		logging.FromContext(r.Context()).Warn("form submission failed", zap.String("type", string(sub.Type)), zap.Error(err))
	}
	switch {
	case state.HasErrors():
		return state, http.StatusUnprocessableEntity
	case state.Failed:
		return state, http.StatusBadGateway
	default:
		return state, http.StatusOK
	}
}

func (s *server) respondForm(w http.ResponseWriter, r *http.Request, code int, fragment string, p handlers.PageData) {
	if custommw.IsHTMX(r.Context()) {
		// htmx only swaps successful responses
		s.render(w, r, http.StatusOK, fragment, p)
		return
	}
	s.render(w, r, code, "base", p)
}

// handleNewsletterDismiss hides the newsletter popup for the rest of the session.
func (s *server) handleNewsletterDismiss(w http.ResponseWriter, r *http.Request) {
	custommw.GetSession(r).SetNewsletterDone()
	if custommw.IsHTMX(r.Context()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, localRedirect(r.PostFormValue("redirect")), http.StatusSeeOther)
}

// handleLanguage switches and persists the visitor's language, then returns to the page
// the switch was made on.
func (s *server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	code := r.PostFormValue("lang")
	if store := custommw.LanguageStore(r); store != nil {
		if err := store.SetLanguage(code); err != nil {
			logging.FromContext(r.Context()).Warn("set language", zap.String("lang", code), zap.Error(err))
		}
	}
	http.Redirect(w, r, localRedirect(r.PostFormValue("redirect")), http.StatusSeeOther)
}

// localRedirect only allows same-site absolute paths.
func localRedirect(target string) string {
	target = strings.TrimSpace(target)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
