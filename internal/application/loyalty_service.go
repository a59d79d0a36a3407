package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"go.uber.org/zap"
)

// LoyaltyPolicy says how often and how generously repeat clients are rewarded.
type LoyaltyPolicy struct {
	Every      int
	Percentage int
	ValidDays  int
}

// LoyaltyService grants vouchers to clients who keep coming back.
type LoyaltyService struct {
	appointments appointment.AppointmentRepository
	vouchers     *VoucherService
	producer     kafka.Publisher
	policy       LoyaltyPolicy
	logger       *zap.Logger
}

// NewLoyaltyService creates a new LoyaltyService. A policy with Every <= 0 disables it.
func NewLoyaltyService(
	appointments appointment.AppointmentRepository,
	vouchers *VoucherService,
	producer kafka.Publisher,
	policy LoyaltyPolicy,
	logger *zap.Logger,
) *LoyaltyService {
	return &LoyaltyService{
		appointments: appointments,
		vouchers:     vouchers,
		producer:     producer,
		policy:       policy,
		logger:       logger,
	}
}

// HandleAppointmentCreated issues a voucher when the owner's booking count
// reaches a multiple of the policy interval.
func (s *LoyaltyService) HandleAppointmentCreated(ctx context.Context, event bookingevents.AppointmentCreatedEvent) error {
	if s.policy.Every <= 0 || event.Owner == "" {
		return nil
	}

	count, err := s.appointments.CountByOwner(ctx, event.Owner)
	if err != nil {
		return fmt.Errorf("count appointments for %s: %w", event.Owner, err)
	}
	if count == 0 || count%int64(s.policy.Every) != 0 {
		return nil
	}

	dto, err := s.vouchers.IssueLoyaltyVoucher(ctx, event.Owner, s.policy.Percentage, s.policy.ValidDays)
	if err != nil {
		return err
	}

	validUntil := ""
	if dto.ValidUntil != nil {
		validUntil = *dto.ValidUntil
	}
	ce, err := kafka.NewCloudEvent(bookingevents.Source, bookingevents.LoyaltyVoucherIssued, bookingevents.LoyaltyVoucherIssuedEvent{
		Code:       dto.Code,
		User:       event.Owner,
		Percentage: dto.Percentage,
		ValidUntil: validUntil,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create cloud event: %w", err)
	}
	ce.Subject = "usuario/" + event.Owner
	if err := s.producer.PublishEvent(ctx, bookingevents.TopicBookingEvents, ce); err != nil {
		s.logger.Warn("failed to publish loyalty event", zap.Error(err))
	}
	return nil
}
