package appointment

import "context"

// Stats aggregates revenue figures for the admin report.
type Stats struct {
	Total          int64
	RevenueCents   int64
	DiscountCents  int64
	WithVoucher    int64
	CountByPayment map[string]int64
	CountByService map[string]int64
}

// AppointmentRepository defines the persistence contract for Appointment aggregates.
type AppointmentRepository interface {
	// FindByID retrieves an appointment by its ID.
	FindByID(ctx context.Context, id int64) (*Appointment, error)

	// List returns every appointment in creation order.
	List(ctx context.Context) ([]*Appointment, error)

	// ListByDate returns the appointments booked for a YYYY-MM-DD date.
	ListByDate(ctx context.Context, date string) ([]*Appointment, error)

	// ExistsDuplicate reports whether owner already booked clientName at the slot.
	// excludeID skips the appointment being edited; pass 0 on create.
	ExistsDuplicate(ctx context.Context, owner, clientName, date, timeSlot string, excludeID int64) (bool, error)

	// CountByOwner returns how many appointments owner has booked.
	CountByOwner(ctx context.Context, owner string) (int64, error)

	// GetStats returns revenue statistics (admin).
	GetStats(ctx context.Context) (*Stats, error)

	// Save persists a new appointment and assigns its ID.
	Save(ctx context.Context, a *Appointment) error

	// Update persists changes with optimistic locking.
	Update(ctx context.Context, a *Appointment) error

	// Delete removes an appointment.
	Delete(ctx context.Context, id int64) error
}
