package webhook

import (
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// Type is the kind of form being submitted.
type Type string

const (
	TypeNewsletter Type = "newsletter"
	TypeContact    Type = "contact"
)

// Field limits, in runes.
const (
	MinMessageLength = 10
	MaxMessageLength = 5000
	MaxNameLength    = 100
	MaxSubjectLength = 150
	MaxEmailLength   = 254
)

// Validation message keys, resolved against the translation table by the caller.
const (
	ErrKeyRequired     = "form.error.required"
	ErrKeyEmail        = "form.error.email"
	ErrKeyMessageShort = "form.error.message_short"
	ErrKeyTooLong      = "form.error.too_long"
)

// Submission is a newsletter signup or contact message.
type Submission struct {
	Type    Type   `json:"type"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationErrors maps form field names to translation keys.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "webhook: invalid submission: " + strings.Join(parts, ", ")
}

// Has reports whether field failed validation.
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Normalize returns a copy with surrounding space trimmed and the email lower-cased.
// Newsletter submissions drop the contact-only fields.
func (s Submission) Normalize() Submission {
	out := Submission{
		Type:  Type(strings.ToLower(strings.TrimSpace(string(s.Type)))),
		Email: strings.ToLower(strings.TrimSpace(s.Email)),
	}
	if out.Type == TypeContact {
		out.Name = strings.TrimSpace(s.Name)
		out.Subject = strings.TrimSpace(s.Subject)
		out.Message = strings.TrimSpace(s.Message)
	}
	return out
}

// Validate checks the submission and returns nil or a ValidationErrors.
// Contact messages require name, email and a message of at least MinMessageLength runes;
// the subject is optional.
func (s Submission) Validate() error {
	errs := ValidationErrors{}
	switch s.Type {
	case TypeNewsletter, TypeContact:
	default:
		errs["type"] = ErrKeyRequired
	}

	email := strings.TrimSpace(s.Email)
	switch {
	case email == "":
		errs["email"] = ErrKeyRequired
	case utf8.RuneCountInString(email) > MaxEmailLength || !validEmail(email):
		errs["email"] = ErrKeyEmail
	}

	if s.Type == TypeContact {
		name := strings.TrimSpace(s.Name)
		switch {
		case name == "":
			errs["name"] = ErrKeyRequired
		case utf8.RuneCountInString(name) > MaxNameLength:
			errs["name"] = ErrKeyTooLong
		}
		if utf8.RuneCountInString(strings.TrimSpace(s.Subject)) > MaxSubjectLength {
			errs["subject"] = ErrKeyTooLong
		}
		msg := strings.TrimSpace(s.Message)
		n := utf8.RuneCountInString(msg)
		switch {
		case n == 0:
			errs["message"] = ErrKeyRequired
		case n < MinMessageLength:
			errs["message"] = ErrKeyMessageShort
		case n > MaxMessageLength:
			errs["message"] = ErrKeyTooLong
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validEmail accepts a bare address with a dotted domain. Display-name forms
// ("Rima <r@x.se>") are rejected.
func validEmail(email string) bool {
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email || parsed.Name != "" {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
