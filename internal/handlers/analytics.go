package handlers

import "strings"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	Debug            bool
}

// NewAnalytics builds Analytics from the configured measurement id.
func NewAnalytics(measurementID string, debug bool) Analytics {
	return Analytics{
		GA4MeasurementID: strings.TrimSpace(measurementID),
		Debug:            debug,
	}
}

// Enabled reports whether the analytics snippet should be rendered.
func (a Analytics) Enabled() bool { return a.GA4MeasurementID != "" }
