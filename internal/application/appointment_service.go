package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"github.com/Barbearia-Digital/service-booking/internal/domain/catalog"
	"github.com/Barbearia-Digital/service-booking/internal/domain/voucher"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"github.com/Barbearia-Digital/service-booking/internal/metrics"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
	"github.com/Barbearia-Digital/service-booking/internal/saga"
	"go.uber.org/zap"
)

// CreateAppointmentRequest is the booking form payload. Prices sent by the
// client are advisory; the server re-prices from the catalog.
type CreateAppointmentRequest struct {
	ClientName      string   `json:"nome_cliente" binding:"required"`
	ServiceType     string   `json:"tipo_corte" binding:"required"`
	Date            string   `json:"data" binding:"required"`
	TimeSlot        string   `json:"horario" binding:"required"`
	Payment         string   `json:"pagamento" binding:"required"`
	Voucher         *string  `json:"voucher"`
	ServicePrice    float64  `json:"valor_corte"`
	VoucherDiscount float64  `json:"desconto_voucher"`
	FinalPrice      *float64 `json:"valor_final"`
}

// UpdateAppointmentRequest is a partial edit. Nil fields are left untouched;
// an empty voucher string removes the voucher.
type UpdateAppointmentRequest struct {
	ClientName  *string `json:"nome_cliente"`
	ServiceType *string `json:"tipo_corte"`
	Date        *string `json:"data"`
	TimeSlot    *string `json:"horario"`
	Payment     *string `json:"pagamento"`
	Voucher     *string `json:"voucher"`
}

// AppointmentDTO is the API representation of an appointment.
type AppointmentDTO struct {
	ID                int64     `json:"id"`
	ClientName        string    `json:"nome_cliente"`
	ServiceType       string    `json:"tipo_corte"`
	Date              string    `json:"data"`
	TimeSlot          string    `json:"horario"`
	Payment           string    `json:"pagamento"`
	Voucher           *string   `json:"voucher"`
	VoucherPercentage int       `json:"porcentagem_voucher"`
	ServicePrice      float64   `json:"valor_corte"`
	VoucherDiscount   float64   `json:"desconto_voucher"`
	FinalPrice        float64   `json:"valor_final"`
	User              string    `json:"usuario"`
	CreatedAt         time.Time `json:"criado_em"`
}

// AppointmentService is the application service that orchestrates booking use cases.
type AppointmentService struct {
	repo     appointment.AppointmentRepository
	catalog  catalog.ServiceRepository
	vouchers *VoucherService
	sagaSvc  *saga.BookingSagaService
	producer kafka.Publisher
	logger   *zap.Logger
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(
	repo appointment.AppointmentRepository,
	catalogRepo catalog.ServiceRepository,
	vouchers *VoucherService,
	sagaSvc *saga.BookingSagaService,
	producer kafka.Publisher,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		catalog:  catalogRepo,
		vouchers: vouchers,
		sagaSvc:  sagaSvc,
		producer: producer,
		logger:   logger,
	}
}

// ListAppointments returns every appointment in creation order.
func (s *AppointmentService) ListAppointments(ctx context.Context) ([]*AppointmentDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	dtos := make([]*AppointmentDTO, len(list))
	for i, a := range list {
		dtos[i] = toAppointmentDTO(a)
	}
	return dtos, nil
}

// GetAppointment retrieves an appointment by ID.
func (s *AppointmentService) GetAppointment(ctx context.Context, id int64) (*AppointmentDTO, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAppointmentDTO(a), nil
}

// CreateAppointment books an appointment for user, pricing it from the catalog
// and redeeming the voucher through the booking saga.
func (s *AppointmentService) CreateAppointment(ctx context.Context, user string, req CreateAppointmentRequest) (*AppointmentDTO, error) {
	payment, err := appointment.ParsePaymentMethod(req.Payment)
	if err != nil {
		return nil, err
	}

	svc, err := s.lookupService(ctx, req.ServiceType)
	if err != nil {
		return nil, err
	}

	a, err := appointment.NewAppointment(user, req.ClientName, svc.Name(), req.Date, req.TimeSlot, payment, svc.PriceCents())
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, a); err != nil {
		metrics.IncAppointmentCreated("duplicate")
		return nil, err
	}

	var v *voucher.Voucher
	if code := voucherCode(req.Voucher); code != "" {
		if !payment.AcceptsVoucher() {
			return nil, domain.NewValidationError("voucher não pode ser usado com pagamento em dinheiro")
		}
		if v, err = s.vouchers.Redeemable(ctx, user, code); err != nil {
			return nil, err
		}
		if err := a.ApplyVoucher(v.Code(), v.Percentage()); err != nil {
			return nil, err
		}
	}

	s.logPriceDrift(req, a)

	if err := s.sagaSvc.CreateBookingSaga(ctx, a, v); err != nil {
		metrics.IncAppointmentCreated("failed")
		s.logger.Error("failed to create appointment", zap.String("usuario", user), zap.Error(err))
		return nil, err
	}

	metrics.IncAppointmentCreated("created")
	s.logger.Info("appointment created",
		zap.Int64("id", a.ID()),
		zap.String("usuario", user),
		zap.String("data", a.Date()),
		zap.String("horario", a.TimeSlot()),
		zap.Int64("valor_final_centavos", a.FinalCents()),
	)
	return toAppointmentDTO(a), nil
}

// UpdateAppointment applies a partial edit (admin only) and re-prices the result.
// Vouchers dropped by the edit are released; a newly attached one is redeemed.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id int64, req UpdateAppointmentRequest) (*AppointmentDTO, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientName != nil {
		if err := a.Rename(*req.ClientName); err != nil {
			return nil, err
		}
	}
	if req.Date != nil || req.TimeSlot != nil {
		date, slot := a.Date(), a.TimeSlot()
		if req.Date != nil {
			date = *req.Date
		}
		if req.TimeSlot != nil {
			slot = *req.TimeSlot
		}
		if err := a.Reschedule(date, slot); err != nil {
			return nil, err
		}
	}
	if req.ServiceType != nil {
		svc, err := s.lookupService(ctx, *req.ServiceType)
		if err != nil {
			return nil, err
		}
		if err := a.ChangeService(svc.Name(), svc.PriceCents()); err != nil {
			return nil, err
		}
	}

	var released []string
	if req.Payment != nil {
		m, err := appointment.ParsePaymentMethod(*req.Payment)
		if err != nil {
			return nil, err
		}
		if code := a.ChangePayment(m); code != "" {
			released = append(released, code)
		}
	}

	var claimed *voucher.Voucher
	if req.Voucher != nil {
		code := strings.TrimSpace(*req.Voucher)
		switch {
		case code == "":
			if a.HasVoucher() {
				released = append(released, a.ClearVoucher())
			}
		case code != a.VoucherCode():
			v, err := s.vouchers.Redeemable(ctx, a.Owner(), code)
			if err != nil {
				return nil, err
			}
			previous := a.VoucherCode()
			if err := a.ApplyVoucher(v.Code(), v.Percentage()); err != nil {
				return nil, err
			}
			if previous != "" {
				released = append(released, previous)
			}
			claimed = v
		}
	}

	if err := s.ensureUnique(ctx, a); err != nil {
		return nil, err
	}

	if claimed != nil {
		if err := s.vouchers.Claim(ctx, a.Owner(), claimed); err != nil {
			return nil, err
		}
	}

	a.IncrementVersion()
	if err := s.repo.Update(ctx, a); err != nil {
		if claimed != nil {
			if relErr := s.vouchers.Release(ctx, claimed.Code()); relErr != nil {
				s.logger.Error("failed to release voucher after update failure", zap.Error(relErr))
			}
		}
		return nil, err
	}

	for _, code := range released {
		if err := s.vouchers.Release(ctx, code); err != nil {
			s.logger.Error("failed to release voucher", zap.String("codigo", code), zap.Error(err))
		}
	}

	s.publish(ctx, bookingevents.AppointmentUpdated, a.ID(), bookingevents.AppointmentUpdatedEvent{
		AppointmentID: a.ID(),
		Date:          a.Date(),
		TimeSlot:      a.TimeSlot(),
		FinalCents:    a.FinalCents(),
		OccurredAt:    time.Now().UTC(),
	})

	s.logger.Info("appointment updated", zap.Int64("id", a.ID()))
	return toAppointmentDTO(a), nil
}

// DeleteAppointment removes an appointment (admin only). The voucher it used
// stays redeemed.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.IncAppointmentRemoved()
	s.publish(ctx, bookingevents.AppointmentRemoved, id, bookingevents.AppointmentRemovedEvent{
		AppointmentID: id,
		OccurredAt:    time.Now().UTC(),
	})

	s.logger.Info("appointment removed", zap.Int64("id", id))
	return nil
}

func (s *AppointmentService) lookupService(ctx context.Context, name string) (*catalog.Service, error) {
	svc, err := s.catalog.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("corte não encontrado: %s", name))
		}
		return nil, err
	}
	return svc, nil
}

func (s *AppointmentService) ensureUnique(ctx context.Context, a *appointment.Appointment) error {
	dup, err := s.repo.ExistsDuplicate(ctx, a.Owner(), a.ClientName(), a.Date(), a.TimeSlot(), a.ID())
	if err != nil {
		return err
	}
	if dup {
		return domain.NewConflictError("Agendamento já existe para este horário")
	}
	return nil
}

// logPriceDrift notes when the form's quote disagrees with the server's.
func (s *AppointmentService) logPriceDrift(req CreateAppointmentRequest, a *appointment.Appointment) {
	if req.FinalPrice == nil {
		return
	}
	if pricing.FromDecimal(*req.FinalPrice) != a.FinalCents() {
		s.logger.Debug("client quote differs from server price",
			zap.Float64("cliente", *req.FinalPrice),
			zap.Int64("servidor_centavos", a.FinalCents()),
		)
	}
}

// publish is best effort; the row is already committed.
func (s *AppointmentService) publish(ctx context.Context, eventType string, id int64, data any) {
	ce, err := kafka.NewCloudEvent(bookingevents.Source, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.Error(err))
		return
	}
	ce.Subject = fmt.Sprintf("agendamento/%d", id)
	if err := s.producer.PublishEvent(ctx, bookingevents.TopicBookingEvents, ce); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}

func voucherCode(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func toAppointmentDTO(a *appointment.Appointment) *AppointmentDTO {
	dto := &AppointmentDTO{
		ID:                a.ID(),
		ClientName:        a.ClientName(),
		ServiceType:       a.ServiceType(),
		Date:              a.Date(),
		TimeSlot:          a.TimeSlot(),
		Payment:           string(a.Payment()),
		VoucherPercentage: a.VoucherPercentage(),
		ServicePrice:      pricing.ToDecimal(a.PriceCents()),
		VoucherDiscount:   pricing.ToDecimal(a.DiscountCents()),
		FinalPrice:        pricing.ToDecimal(a.FinalCents()),
		User:              a.Owner(),
		CreatedAt:         a.CreatedAt(),
	}
	if a.HasVoucher() {
		code := a.VoucherCode()
		dto.Voucher = &code
	}
	return dto
}
