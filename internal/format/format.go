package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer(lang string) *message.Printer {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		tag = language.Swedish
	}
	return message.NewPrinter(tag)
}

// FmtMinutes formats a cooking time. Example: FmtMinutes(25, "sv") => "25 min"
func FmtMinutes(minutes int, lang string) string {
	if minutes <= 0 {
		return ""
	}
	return printer(lang).Sprintf("%d min", minutes)
}

// FmtMinutesString formats a numeric-as-string time; non-numeric input is returned trimmed.
func FmtMinutesString(v, lang string) string {
	v = strings.TrimSpace(v)
	n, err := strconv.Atoi(v)
	if err != nil {
		return v
	}
	return FmtMinutes(n, lang)
}

// FmtISODuration renders minutes as an ISO 8601 duration for structured data.
// Example: FmtISODuration(90) => "PT1H30M"
func FmtISODuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("PT%dM", m)
	case m == 0:
		return fmt.Sprintf("PT%dH", h)
	default:
		return fmt.Sprintf("PT%dH%dM", h, m)
	}
}

// FmtRating formats a 0–5 rating with one decimal using the locale separator.
// Example: FmtRating(4.8, "sv") => "4,8"
func FmtRating(r float64, lang string) string {
	return printer(lang).Sprintf("%.1f", r)
}

// FmtCount formats an integer with locale grouping.
// Example: FmtCount(1240, "en") => "1,240"
func FmtCount(n int, lang string) string {
	return printer(lang).Sprintf("%d", n)
}

// FmtPortions formats a portion count or range.
// Example: FmtPortions("4-6", "en") => "4–6 servings"
func FmtPortions(p, lang string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "-", "–")
	unit := "portioner"
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		unit = "servings"
		if p == "1" {
			unit = "serving"
		}
	} else if p == "1" {
		unit = "portion"
	}
	return p + " " + unit
}

var swedishMonths = [...]string{"januari", "februari", "mars", "april", "maj", "juni", "juli", "augusti", "september", "oktober", "november", "december"}

// FmtDate formats time in a locale-friendly long form.
func FmtDate(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	switch strings.ToLower(lang) {
	case "en":
		return t.Format("January 2, 2006")
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), swedishMonths[t.Month()-1], t.Year())
	}
}
