// Package handlers builds the view models rendered by the site templates.
package handlers

import (
	"html/template"
	"time"

	"smakrik.se/web/internal/i18n"
	"smakrik.se/web/internal/nav"
	"smakrik.se/web/internal/seo"
	"smakrik.se/web/internal/webhook"
)

// Views rendered by the base layout.
const (
	ViewHome   = "home"
	ViewRecipe = "recipe"
	ViewList   = "list"
	ViewError  = "error"
)

// PageData is the view model for every page using the shared layout.
type PageData struct {
	View      string
	Lang      string
	Languages []LanguageOption
	Path      string
	SEO       seo.Meta
	JSONLD    []template.JS
	Analytics Analytics

	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	CSRFToken           string
	Announcement        string
	ShowNewsletterPopup bool
	// ScrollTop is set when entering the route scrolls the viewport to the top.
	ScrollTop bool
	Year      int

	// Per-view payloads
	Home   *HomeData
	Recipe *RecipeData
	List   *ListData

	Newsletter FormState
	Contact    FormState

	bundle *i18n.Bundle
	lang   i18n.Language
}

// LanguageOption is an entry of the language switcher.
type LanguageOption struct {
	Code   string
	Label  string
	Active bool
}

// NewPage returns a PageData for view at path, translated into lang.
func NewPage(bundle *i18n.Bundle, lang i18n.Language, view, path string) PageData {
	p := PageData{
		View:   view,
		Lang:   lang.String(),
		Path:   path,
		Year:   time.Now().Year(),
		bundle: bundle,
		lang:   lang,
	}
	for _, l := range bundle.Supported() {
		p.Languages = append(p.Languages, LanguageOption{
			Code:   l.String(),
			Label:  bundle.T(lang, "lang."+l.String()),
			Active: l == lang,
		})
	}
	return p
}

// Language returns the page language.
func (p PageData) Language() i18n.Language { return p.lang }

// T translates key into the page language.
func (p PageData) T(key string) string {
	if p.bundle == nil {
		return key
	}
	return p.bundle.T(p.lang, key)
}

// Tf translates key and formats it with args.
func (p PageData) Tf(key string, args ...any) string {
	if p.bundle == nil {
		return key
	}
	return p.bundle.Tf(p.lang, key, args...)
}

// CrumbLabel returns the display label of a breadcrumb.
func (p PageData) CrumbLabel(c nav.Crumb) string {
	if c.LabelKey != "" {
		return p.T(c.LabelKey)
	}
	return c.Label
}

// FormState carries submitted values and their outcome back into a form.
type FormState struct {
	Values  map[string]string
	Errors  map[string]string // field -> translated message
	Success bool
	// Failed is set when the submission could not be delivered.
	Failed bool
}

// Value returns the submitted value of field.
func (f FormState) Value(field string) string { return f.Values[field] }

// Error returns the translated error of field.
func (f FormState) Error(field string) string { return f.Errors[field] }

// HasErrors reports whether any field failed validation.
func (f FormState) HasErrors() bool { return len(f.Errors) > 0 }

// NewFormState keeps the submitted values so the form stays editable.
func NewFormState(s webhook.Submission) FormState {
	values := map[string]string{"email": s.Email}
	if s.Type == webhook.TypeContact {
		values["name"] = s.Name
		values["subject"] = s.Subject
		values["message"] = s.Message
	}
	return FormState{Values: values}
}

// FieldErrors translates validation errors into the page language.
func (p PageData) FieldErrors(errs webhook.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, key := range errs {
		out[field] = p.T(key)
	}
	return out
}
