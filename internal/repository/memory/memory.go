// Package memory holds map-backed repositories for local runs without Postgres
// and for service tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"github.com/Barbearia-Digital/service-booking/internal/domain/catalog"
	"github.com/Barbearia-Digital/service-booking/internal/domain/voucher"
)

// ServiceRepository is an in-memory catalog.ServiceRepository.
type ServiceRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]catalog.Service
}

// NewServiceRepository creates an empty catalog.
func NewServiceRepository() *ServiceRepository {
	return &ServiceRepository{rows: make(map[int64]catalog.Service)}
}

func (r *ServiceRepository) Save(_ context.Context, s *catalog.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.AssignID(r.nextID)
	r.rows[s.ID()] = *s
	return nil
}

func (r *ServiceRepository) FindByID(_ context.Context, id int64) (*catalog.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("Corte", strconv.FormatInt(id, 10))
	}
	return &s, nil
}

func (r *ServiceRepository) FindByName(_ context.Context, name string) (*catalog.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.rows {
		if strings.EqualFold(s.Name(), name) {
			return &s, nil
		}
	}
	return nil, domain.NewNotFoundError("Corte", name)
}

func (r *ServiceRepository) List(_ context.Context) ([]*catalog.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*catalog.Service, 0, len(r.rows))
	for _, s := range r.rows {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// VoucherRepository is an in-memory voucher.VoucherRepository.
type VoucherRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]voucher.Voucher
}

// NewVoucherRepository creates an empty voucher store.
func NewVoucherRepository() *VoucherRepository {
	return &VoucherRepository{rows: make(map[int64]voucher.Voucher)}
}

func (r *VoucherRepository) Save(_ context.Context, v *voucher.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Code() == v.Code() {
			return domain.NewConflictError("código de voucher já existe")
		}
	}
	r.nextID++
	v.AssignID(r.nextID)
	r.rows[v.ID()] = *v
	return nil
}

func (r *VoucherRepository) Update(_ context.Context, v *voucher.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[v.ID()]; !ok {
		return domain.NewNotFoundError("Voucher", strconv.FormatInt(v.ID(), 10))
	}
	r.rows[v.ID()] = *v
	return nil
}

func (r *VoucherRepository) MarkRedeemed(_ context.Context, v *voucher.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[v.ID()]
	if !ok {
		return domain.NewNotFoundError("Voucher", strconv.FormatInt(v.ID(), 10))
	}
	if stored.Used() {
		return domain.NewConflictError(voucher.ErrAlreadyUsed.Error())
	}
	r.rows[v.ID()] = *v
	return nil
}

func (r *VoucherRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.NewNotFoundError("Voucher", strconv.FormatInt(id, 10))
	}
	delete(r.rows, id)
	return nil
}

func (r *VoucherRepository) FindByID(_ context.Context, id int64) (*voucher.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("Voucher", strconv.FormatInt(id, 10))
	}
	return &v, nil
}

func (r *VoucherRepository) FindByCode(_ context.Context, code string) (*voucher.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.rows {
		if v.Code() == code {
			return &v, nil
		}
	}
	return nil, domain.NewNotFoundError("Voucher", code)
}

func (r *VoucherRepository) List(_ context.Context) ([]*voucher.Voucher, error) {
	return r.filter(func(*voucher.Voucher) bool { return true }), nil
}

func (r *VoucherRepository) ListAvailable(_ context.Context, user string) ([]*voucher.Voucher, error) {
	return r.filter(func(v *voucher.Voucher) bool {
		return !v.Used() && (v.IsPublic() || (user != "" && v.Owner() == user))
	}), nil
}

func (r *VoucherRepository) filter(keep func(*voucher.Voucher) bool) []*voucher.Voucher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*voucher.Voucher, 0, len(r.rows))
	for _, v := range r.rows {
		v := v
		if keep(&v) {
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	return out
}

// AppointmentRepository is an in-memory appointment.AppointmentRepository.
type AppointmentRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]appointment.Appointment
}

// NewAppointmentRepository creates an empty appointment store.
func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{rows: make(map[int64]appointment.Appointment)}
}

func (r *AppointmentRepository) FindByID(_ context.Context, id int64) (*appointment.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("Agendamento", strconv.FormatInt(id, 10))
	}
	return &a, nil
}

func (r *AppointmentRepository) List(_ context.Context) ([]*appointment.Appointment, error) {
	return r.filter(func(*appointment.Appointment) bool { return true }), nil
}

func (r *AppointmentRepository) ListByDate(_ context.Context, date string) ([]*appointment.Appointment, error) {
	out := r.filter(func(a *appointment.Appointment) bool { return a.Date() == date })
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimeSlot() < out[j].TimeSlot() })
	return out, nil
}

func (r *AppointmentRepository) ExistsDuplicate(_ context.Context, owner, clientName, date, timeSlot string, excludeID int64) (bool, error) {
	dups := r.filter(func(a *appointment.Appointment) bool {
		return a.ID() != excludeID && a.Owner() == owner && a.ClientName() == clientName &&
			a.Date() == date && a.TimeSlot() == timeSlot
	})
	return len(dups) > 0, nil
}

func (r *AppointmentRepository) CountByOwner(_ context.Context, owner string) (int64, error) {
	return int64(len(r.filter(func(a *appointment.Appointment) bool { return a.Owner() == owner }))), nil
}

func (r *AppointmentRepository) GetStats(_ context.Context) (*appointment.Stats, error) {
	stats := &appointment.Stats{
		CountByPayment: make(map[string]int64),
		CountByService: make(map[string]int64),
	}
	for _, a := range r.filter(func(*appointment.Appointment) bool { return true }) {
		stats.Total++
		stats.RevenueCents += a.FinalCents()
		stats.DiscountCents += a.DiscountCents()
		if a.HasVoucher() {
			stats.WithVoucher++
		}
		stats.CountByPayment[string(a.Payment())]++
		stats.CountByService[a.ServiceType()]++
	}
	return stats, nil
}

func (r *AppointmentRepository) Save(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.AssignID(r.nextID)
	r.rows[a.ID()] = *a
	return nil
}

func (r *AppointmentRepository) Update(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[a.ID()]
	if !ok || stored.Version() != a.Version()-1 {
		return domain.NewConflictError("agendamento foi alterado por outra operação")
	}
	r.rows[a.ID()] = *a
	return nil
}

func (r *AppointmentRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.NewNotFoundError("Agendamento", strconv.FormatInt(id, 10))
	}
	delete(r.rows, id)
	return nil
}

func (r *AppointmentRepository) filter(keep func(*appointment.Appointment) bool) []*appointment.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*appointment.Appointment, 0, len(r.rows))
	for _, a := range r.rows {
		a := a
		if keep(&a) {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
