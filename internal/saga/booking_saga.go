package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"github.com/Barbearia-Digital/service-booking/internal/domain/voucher"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"go.uber.org/zap"
)

// BookingSagaService orchestrates appointment creation.
type BookingSagaService struct {
	appointments appointment.AppointmentRepository
	vouchers     voucher.VoucherRepository
	publisher    kafka.Publisher
	logger       *zap.Logger
}

// NewBookingSagaService creates a new BookingSagaService.
func NewBookingSagaService(
	appointments appointment.AppointmentRepository,
	vouchers voucher.VoucherRepository,
	publisher kafka.Publisher,
	logger *zap.Logger,
) *BookingSagaService {
	return &BookingSagaService{
		appointments: appointments,
		vouchers:     vouchers,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateBookingSaga redeems the voucher (if any), persists the appointment and
// publishes AppointmentCreated. Any failure releases the voucher and removes the row.
func (s *BookingSagaService) CreateBookingSaga(ctx context.Context, a *appointment.Appointment, v *voucher.Voucher) error {
	saga := NewSaga("create_booking", s.logger)

	if v != nil {
		saga.AddStep(SagaStep{
			Name: "redeem_voucher",
			Execute: func(ctx context.Context) error {
				if err := v.Redeem(a.Owner(), time.Now()); err != nil {
					return err
				}
				return s.vouchers.MarkRedeemed(ctx, v)
			},
			Compensate: func(ctx context.Context) error {
				v.Release()
				return s.vouchers.Update(ctx, v)
			},
		})
	}

	saga.AddStep(SagaStep{
		Name: "save_appointment",
		Execute: func(ctx context.Context) error {
			return s.appointments.Save(ctx, a)
		},
		Compensate: func(ctx context.Context) error {
			return s.appointments.Delete(ctx, a.ID())
		},
	})

	saga.AddStep(SagaStep{
		Name: "publish_appointment_created_event",
		Execute: func(ctx context.Context) error {
			event := bookingevents.AppointmentCreatedEvent{
				AppointmentID: a.ID(),
				Owner:         a.Owner(),
				ClientName:    a.ClientName(),
				ServiceType:   a.ServiceType(),
				Date:          a.Date(),
				TimeSlot:      a.TimeSlot(),
				Payment:       string(a.Payment()),
				VoucherCode:   a.VoucherCode(),
				FinalCents:    a.FinalCents(),
				OccurredAt:    time.Now().UTC(),
			}
			return s.publish(ctx, bookingevents.AppointmentCreated, a.ID(), event)
		},
	})

	if err := saga.Execute(ctx); err != nil {
		s.publishFailedEvent(ctx, a, err.Error())
		return err
	}

	if v != nil {
		event := bookingevents.VoucherEvent{
			Code:          v.Code(),
			User:          a.Owner(),
			AppointmentID: a.ID(),
			OccurredAt:    time.Now().UTC(),
		}
		if err := s.publish(ctx, bookingevents.VoucherRedeemed, a.ID(), event); err != nil {
			s.logger.Warn("failed to publish voucher redeemed event", zap.Error(err))
		}
	}
	return nil
}

func (s *BookingSagaService) publish(ctx context.Context, eventType string, appointmentID int64, data any) error {
	ce, err := kafka.NewCloudEvent(bookingevents.Source, eventType, data)
	if err != nil {
		return fmt.Errorf("failed to create cloud event: %w", err)
	}
	ce.Subject = fmt.Sprintf("agendamento/%d", appointmentID)
	return s.publisher.PublishEvent(ctx, bookingevents.TopicBookingEvents, ce)
}

// publishFailedEvent publishes an AppointmentFailedEvent.
func (s *BookingSagaService) publishFailedEvent(ctx context.Context, a *appointment.Appointment, reason string) {
	event := bookingevents.AppointmentFailedEvent{
		Owner:      a.Owner(),
		ClientName: a.ClientName(),
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publish(ctx, bookingevents.AppointmentFailed, 0, event); err != nil {
		s.logger.Error("failed to publish appointment failed event", zap.Error(err))
	}
}
