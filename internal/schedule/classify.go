// Package schedule classifies appointments by calendar date and narrows them
// to a date window for display.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of appointment dates.
const DateLayout = "2006-01-02"

// Status is the temporal bucket of an appointment relative to today.
type Status string

const (
	StatusToday    Status = "hoje"
	StatusTomorrow Status = "amanha"
	StatusFuture   Status = "futuro"
	StatusPast     Status = "passado"
	// StatusUnknown marks entries whose date could not be parsed.
	StatusUnknown Status = "indefinido"
)

// Label returns the human-readable name of s.
func (s Status) Label() string {
	switch s {
	case StatusToday:
		return "Hoje"
	case StatusTomorrow:
		return "Amanhã"
	case StatusFuture:
		return "Futuro"
	case StatusPast:
		return "Passado"
	default:
		return "Sem data"
	}
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Classify buckets date against the calendar day of now. The date is read in
// now's location, so the time of day of now never matters.
func Classify(date time.Time, now time.Time) Status {
	today := Midnight(now)
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	switch {
	case day.Equal(today):
		return StatusToday
	case day.Equal(tomorrow):
		return StatusTomorrow
	case day.After(tomorrow):
		return StatusFuture
	default:
		return StatusPast
	}
}

// ClassifyString parses raw and classifies it, returning StatusUnknown for
// missing or malformed dates.
func ClassifyString(raw string, now time.Time) Status {
	d, err := ParseDate(raw, now.Location())
	if err != nil {
		return StatusUnknown
	}
	return Classify(d, now)
}
