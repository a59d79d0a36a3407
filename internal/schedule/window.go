package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Window is a named date range used to narrow the appointment list.
type Window string

const (
	WindowToday    Window = "hoje"
	WindowTomorrow Window = "amanha"
	WindowWeek     Window = "semana"
	WindowMonth    Window = "mes"
	WindowAll      Window = "todos"
)

// DefaultWindow is selected when a board is created.
const DefaultWindow = WindowToday

// Windows lists every window in display order.
var Windows = []Window{WindowToday, WindowTomorrow, WindowWeek, WindowMonth, WindowAll}

// ParseWindow accepts a window name, case-insensitively.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Windows {
		if w == known {
			return w, nil
		}
	}
	return "", fmt.Errorf("filtro desconhecido: %q (use hoje, amanha, semana, mes ou todos)", s)
}

// Range returns the inclusive first and last calendar day of w around now.
// ok is false for WindowAll, which has no bounds.
func (w Window) Range(now time.Time) (from, to time.Time, ok bool) {
	today := Midnight(now)
	switch w {
	case WindowToday:
		return today, today, true
	case WindowTomorrow:
		tomorrow := today.AddDate(0, 0, 1)
		return tomorrow, tomorrow, true
	case WindowWeek:
		sunday := today.AddDate(0, 0, -int(today.Weekday()))
		return sunday, sunday.AddDate(0, 0, 6), true
	case WindowMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return first, first.AddDate(0, 1, -1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether the calendar day of date falls inside w.
func (w Window) Contains(date, now time.Time) bool {
	from, to, ok := w.Range(now)
	if !ok {
		return true
	}
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return !day.Before(from) && !day.After(to)
}
