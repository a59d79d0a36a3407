package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"gorm.io/gorm"
)

// AppointmentModel is the GORM persistence model for the agendamentos table.
type AppointmentModel struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	Owner             string    `gorm:"type:varchar(100);not null;index"`
	ClientName        string    `gorm:"type:varchar(150);not null"`
	ServiceType       string    `gorm:"type:varchar(100);not null"`
	Date              string    `gorm:"type:varchar(10);not null;index"`
	TimeSlot          string    `gorm:"type:varchar(5);not null"`
	PaymentMethod     string    `gorm:"type:varchar(20);not null"`
	VoucherCode       *string   `gorm:"type:varchar(50)"`
	VoucherPercentage int       `gorm:"not null;default:0"`
	PriceCents        int64     `gorm:"not null"`
	DiscountCents     int64     `gorm:"not null;default:0"`
	FinalCents        int64     `gorm:"not null"`
	Version           int64     `gorm:"not null;default:1"`
	CreatedAt         time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt         time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (AppointmentModel) TableName() string {
	return "agendamentos"
}

// AppointmentRepositoryImpl is the GORM-based implementation of AppointmentRepository.
type AppointmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new GORM-based appointment repository.
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepositoryImpl {
	return &AppointmentRepositoryImpl{db: db}
}

// FindByID retrieves an appointment by its ID.
func (r *AppointmentRepositoryImpl) FindByID(ctx context.Context, id int64) (*appointment.Appointment, error) {
	var model AppointmentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Agendamento", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return toAppointmentDomain(&model), nil
}

// List returns every appointment in creation order.
func (r *AppointmentRepositoryImpl) List(ctx context.Context) ([]*appointment.Appointment, error) {
	var models []AppointmentModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toAppointmentDomains(models), nil
}

// ListByDate returns the appointments for a date ordered by time slot.
func (r *AppointmentRepositoryImpl) ListByDate(ctx context.Context, date string) ([]*appointment.Appointment, error) {
	var models []AppointmentModel
	if err := r.db.WithContext(ctx).Where("date = ?", date).Order("time_slot ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toAppointmentDomains(models), nil
}

// ExistsDuplicate reports whether the same owner already booked the client at the slot.
func (r *AppointmentRepositoryImpl) ExistsDuplicate(ctx context.Context, owner, clientName, date, timeSlot string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Where("owner = ? AND client_name = ? AND date = ? AND time_slot = ? AND id <> ?",
			owner, clientName, date, timeSlot, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CountByOwner returns how many appointments owner has booked.
func (r *AppointmentRepositoryImpl) CountByOwner(ctx context.Context, owner string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AppointmentModel{}).Where("owner = ?", owner).Count(&count).Error
	return count, err
}

// GetStats returns revenue statistics (admin).
func (r *AppointmentRepositoryImpl) GetStats(ctx context.Context) (*appointment.Stats, error) {
	stats := &appointment.Stats{
		CountByPayment: make(map[string]int64),
		CountByService: make(map[string]int64),
	}

	var totals struct {
		Total         int64
		RevenueCents  int64
		DiscountCents int64
		WithVoucher   int64
	}
	if err := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Select("COUNT(*) AS total, " +
			"COALESCE(SUM(final_cents), 0) AS revenue_cents, " +
			"COALESCE(SUM(discount_cents), 0) AS discount_cents, " +
			"COUNT(voucher_code) AS with_voucher").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.Total = totals.Total
	stats.RevenueCents = totals.RevenueCents
	stats.DiscountCents = totals.DiscountCents
	stats.WithVoucher = totals.WithVoucher

	type groupCount struct {
		Label string
		Count int64
	}

	var byPayment []groupCount
	if err := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Select("payment_method AS label, count(*) AS count").
		Group("payment_method").
		Find(&byPayment).Error; err != nil {
		return nil, err
	}
	for _, g := range byPayment {
		stats.CountByPayment[g.Label] = g.Count
	}

	var byService []groupCount
	if err := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Select("service_type AS label, count(*) AS count").
		Group("service_type").
		Find(&byService).Error; err != nil {
		return nil, err
	}
	for _, g := range byService {
		stats.CountByService[g.Label] = g.Count
	}

	return stats, nil
}

// Save persists a new appointment and assigns its ID.
func (r *AppointmentRepositoryImpl) Save(ctx context.Context, a *appointment.Appointment) error {
	model := toAppointmentModel(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	a.AssignID(model.ID)
	return nil
}

// Update persists changes to an existing appointment with optimistic locking.
func (r *AppointmentRepositoryImpl) Update(ctx context.Context, a *appointment.Appointment) error {
	model := toAppointmentModel(a)
	previousVersion := a.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&AppointmentModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Select("*").Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("agendamento foi alterado por outra operação")
	}

	return nil
}

// Delete removes an appointment.
func (r *AppointmentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&AppointmentModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Agendamento", strconv.FormatInt(id, 10))
	}
	return nil
}

// toAppointmentDomain maps an AppointmentModel to the domain aggregate.
func toAppointmentDomain(m *AppointmentModel) *appointment.Appointment {
	code := ""
	if m.VoucherCode != nil {
		code = *m.VoucherCode
	}
	return appointment.Reconstitute(
		m.ID,
		m.Owner,
		m.ClientName,
		m.ServiceType,
		m.Date,
		m.TimeSlot,
		appointment.PaymentMethod(m.PaymentMethod),
		code,
		m.VoucherPercentage,
		m.PriceCents,
		m.DiscountCents,
		m.FinalCents,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toAppointmentDomains(models []AppointmentModel) []*appointment.Appointment {
	out := make([]*appointment.Appointment, len(models))
	for i := range models {
		out[i] = toAppointmentDomain(&models[i])
	}
	return out
}

// toAppointmentModel maps the domain aggregate to an AppointmentModel for persistence.
func toAppointmentModel(a *appointment.Appointment) *AppointmentModel {
	var code *string
	if a.HasVoucher() {
		c := a.VoucherCode()
		code = &c
	}
	return &AppointmentModel{
		ID:                a.ID(),
		Owner:             a.Owner(),
		ClientName:        a.ClientName(),
		ServiceType:       a.ServiceType(),
		Date:              a.Date(),
		TimeSlot:          a.TimeSlot(),
		PaymentMethod:     string(a.Payment()),
		VoucherCode:       code,
		VoucherPercentage: a.VoucherPercentage(),
		PriceCents:        a.PriceCents(),
		DiscountCents:     a.DiscountCents(),
		FinalCents:        a.FinalCents(),
		Version:           a.Version(),
		CreatedAt:         a.CreatedAt(),
		UpdatedAt:         a.UpdatedAt(),
	}
}
