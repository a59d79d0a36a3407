package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Barbearia-Digital/service-booking/internal/bookingapi"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
	"go.uber.org/zap"
)

const (
	msgVoucherEmpty     = "Digite um código de voucher válido."
	msgVoucherNoService = "Selecione um corte antes de aplicar o voucher."
	msgVoucherCash      = "Vouchers não podem ser usados com pagamento em dinheiro."
	msgVoucherApplied   = "Voucher aplicado com sucesso!"
	msgVoucherInvalid   = "Voucher inválido."
	msgVoucherFailed    = "Erro ao validar voucher."
	msgSubmitFailed     = "Erro ao criar agendamento."
	msgConnection       = "Não foi possível conectar ao servidor."
	msgCashConfirmed    = "Agendamento confirmado! Pagamento em dinheiro no local."
)

// API is the part of the booking API the form uses.
type API interface {
	ListServices(ctx context.Context) ([]bookingapi.Service, error)
	ValidateVoucher(ctx context.Context, code string) (*bookingapi.VoucherValidation, error)
	CreateAppointment(ctx context.Context, req bookingapi.AppointmentRequest) (*bookingapi.Appointment, error)
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// ReceiptSink shows the payment summary of a confirmed appointment.
type ReceiptSink interface {
	ShowReceipt(appt bookingapi.Appointment)
}

// Controller owns one booking draft. Methods are safe for concurrent use;
// collaborators are always called without the lock held.
type Controller struct {
	api      API
	notifier Notifier
	receipts ReceiptSink
	logger   *zap.Logger

	mu         sync.Mutex
	catalog    []bookingapi.Service
	draft      draft
	generation uint64
	submitting bool
	inlineErr  string
}

// NewController creates a Controller with an empty draft.
func NewController(api API, notifier Notifier, receipts ReceiptSink, logger *zap.Logger) *Controller {
	return &Controller{
		api:      api,
		notifier: notifier,
		receipts: receipts,
		logger:   logger,
	}
}

// LoadCatalog fetches the services offered for selection.
func (c *Controller) LoadCatalog(ctx context.Context) error {
	services, err := c.api.ListServices(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	c.mu.Lock()
	c.catalog = services
	c.mu.Unlock()
	return nil
}

// Services returns the loaded catalog.
func (c *Controller) Services() []bookingapi.Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]bookingapi.Service(nil), c.catalog...)
}

// SelectService captures the catalog entry with id. An applied voucher is kept
// and re-priced against the new service.
func (c *Controller) SelectService(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.catalog {
		if s.ID == id {
			svc := s
			c.draft.service = &svc
			c.generation++
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownService, id)
}

// DeselectService returns the draft to empty, dropping any voucher.
func (c *Controller) DeselectService() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.service = nil
	c.draft.voucher = nil
	c.generation++
}

// SetClientName sets the client name.
func (c *Controller) SetClientName(name string) {
	c.mu.Lock()
	c.draft.clientName = name
	c.mu.Unlock()
}

// SetDate sets the appointment date (YYYY-MM-DD).
func (c *Controller) SetDate(date string) {
	c.mu.Lock()
	c.draft.date = date
	c.mu.Unlock()
}

// SetTimeSlot sets the appointment time (HH:MM).
func (c *Controller) SetTimeSlot(slot string) {
	c.mu.Lock()
	c.draft.timeSlot = slot
	c.mu.Unlock()
}

// SetPaymentMethod selects how the client pays. Cash hides the voucher section
// and clears any applied voucher.
func (c *Controller) SetPaymentMethod(m PaymentMethod) error {
	if _, err := ParsePaymentMethod(string(m)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.payment = m
	if !m.AcceptsVoucher() {
		c.draft.voucher = nil
		c.generation++
	}
	return nil
}

// ApplyVoucher validates code with the server and applies it to the draft.
//
// A rejection clears any voucher already applied. A failed request leaves the
// draft untouched. A verdict that arrives after the draft changed is dropped and
// ErrStaleResponse is returned.
func (c *Controller) ApplyVoucher(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	c.mu.Lock()
	var local *ValidationError
	switch {
	case code == "":
		local = &ValidationError{Field: "voucher", Message: msgVoucherEmpty}
	case c.draft.service == nil:
		local = &ValidationError{Field: "tipo_corte", Message: msgVoucherNoService}
	case !c.draft.payment.AcceptsVoucher():
		local = &ValidationError{Field: "pagamento", Message: msgVoucherCash}
	}
	if local != nil {
		c.mu.Unlock()
		c.notify(local.Message)
		return local
	}
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	res, err := c.api.ValidateVoucher(ctx, code)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		c.logger.Debug("discarding stale voucher verdict", zap.String("codigo", code))
		return ErrStaleResponse
	}

	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("voucher validation failed", zap.String("codigo", code), zap.Error(err))
		msg := msgVoucherFailed
		if serverMsg, ok := bookingapi.ServerMessage(err); ok {
			msg = serverMsg
		}
		c.notify(msg)
		return err
	}

	if !res.Valid {
		c.draft.voucher = nil
		c.mu.Unlock()
		msg := res.Error
		if msg == "" {
			msg = msgVoucherInvalid
		}
		c.notify(msg)
		return fmt.Errorf("%w: %s", ErrVoucherRejected, msg)
	}

	pct := 0
	if res.Voucher != nil {
		pct = res.Voucher.Percentage
	}
	if pct < 0 || pct > pricing.MaxPercentage {
		c.mu.Unlock()
		c.notify(msgVoucherInvalid)
		return fmt.Errorf("%w: percentage %d out of range", ErrVoucherRejected, pct)
	}
	c.draft.voucher = &AppliedVoucher{Code: code, Percentage: pct}
	c.mu.Unlock()

	c.notify(msgVoucherApplied)
	return nil
}

// SubmitDraft sends the draft to the server. On success the draft is reset
// and the persisted appointment, priced by the server, is returned and shown.
// On failure the draft is kept and the reason is exposed by InlineError.
func (c *Controller) SubmitDraft(ctx context.Context) (*bookingapi.Appointment, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if verr := c.draft.validate(); verr != nil {
		c.inlineErr = verr.Message
		c.mu.Unlock()
		return nil, verr
	}
	req := c.draft.request()
	c.submitting = true
	c.inlineErr = ""
	c.mu.Unlock()

	appt, err := c.api.CreateAppointment(ctx, req)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		switch msg, ok := bookingapi.ServerMessage(err); {
		case ok:
			c.inlineErr = msg
		case bookingapi.IsTransport(err):
			c.inlineErr = msgConnection
		default:
			c.inlineErr = msgSubmitFailed
		}
		c.mu.Unlock()
		c.logger.Warn("booking submission failed", zap.Error(err))
		return nil, err
	}
	c.resetLocked()
	c.mu.Unlock()

	c.logger.Info("appointment booked",
		zap.Int64("id", appt.ID),
		zap.String("data", appt.Date),
		zap.String("horario", appt.TimeSlot),
	)
	if PaymentMethod(appt.Payment) == PaymentCash {
		c.notify(msgCashConfirmed)
	} else if c.receipts != nil {
		c.receipts.ShowReceipt(*appt)
	}
	return appt, nil
}

// Close discards the draft. A reopened form starts empty.
func (c *Controller) Close() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
}

// State returns a snapshot of the form.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Phase:       c.draft.phase(),
		ClientName:  c.draft.clientName,
		Date:        c.draft.date,
		TimeSlot:    c.draft.timeSlot,
		Payment:     c.draft.payment,
		Quote:       c.draft.quote(),
		Submitting:  c.submitting,
		InlineError: c.inlineErr,
	}
	if c.draft.service != nil {
		svc := *c.draft.service
		st.Service = &svc
	}
	if c.draft.voucher != nil {
		v := *c.draft.voucher
		st.Voucher = &v
	}
	return st
}

// Quote returns the current price breakdown.
func (c *Controller) Quote() pricing.Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.quote()
}

// SubmitEnabled reports whether the submit control should be active.
func (c *Controller) SubmitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.submitting
}

// VoucherSectionVisible reports whether the voucher input should be shown.
func (c *Controller) VoucherSectionVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.payment.AcceptsVoucher()
}

// InlineError returns the message of the last failed submission, if any.
func (c *Controller) InlineError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inlineErr
}

func (c *Controller) resetLocked() {
	c.draft = draft{}
	c.inlineErr = ""
	c.generation++
}

func (c *Controller) notify(msg string) {
	if c.notifier != nil {
		c.notifier.Notify(msg)
	}
}

// IsValidation reports whether err was raised locally before any request.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
