package schedule

import (
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/bookingapi"
)

// Entry is an appointment paired with its status and final price.
type Entry struct {
	Appointment bookingapi.Appointment
	Status      Status
	FinalCents  int64
}

// Filter keeps the appointments whose date falls in w, preserving order.
// Entries with a missing or malformed date only appear under WindowAll.
func Filter(list []bookingapi.Appointment, w Window, now time.Time) []Entry {
	out := make([]Entry, 0, len(list))
	for _, a := range list {
		date, err := ParseDate(a.Date, now.Location())
		if err != nil {
			if w == WindowAll {
				out = append(out, Entry{Appointment: a, Status: StatusUnknown, FinalCents: a.FinalCents()})
			}
			continue
		}
		if !w.Contains(date, now) {
			continue
		}
		out = append(out, Entry{Appointment: a, Status: Classify(date, now), FinalCents: a.FinalCents()})
	}
	return out
}
