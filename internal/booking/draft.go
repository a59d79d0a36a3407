// Package booking implements the booking form: the in-progress appointment
// draft, voucher application, price quote and submission.
package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Barbearia-Digital/service-booking/internal/bookingapi"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
)

// PaymentMethod is how the client will pay.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "dinheiro"
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "cartao"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentPix, PaymentCard, PaymentCash}

// ParsePaymentMethod accepts a method name, case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case PaymentCash, PaymentPix, PaymentCard:
		return m, nil
	}
	return "", fmt.Errorf("forma de pagamento inválida: %q", s)
}

// AcceptsVoucher reports whether vouchers may be used with m. Cash never does.
func (m PaymentMethod) AcceptsVoucher() bool { return m != PaymentCash }

// Phase is the position of the draft in its lifecycle.
type Phase string

const (
	PhaseEmpty          Phase = "vazio"
	PhaseServiceChosen  Phase = "corte_escolhido"
	PhaseVoucherApplied Phase = "voucher_aplicado"
)

// AppliedVoucher is a voucher the server accepted for this draft.
type AppliedVoucher struct {
	Code       string
	Percentage int
}

// State is a snapshot of the form.
type State struct {
	Phase       Phase
	Service     *bookingapi.Service
	ClientName  string
	Date        string
	TimeSlot    string
	Payment     PaymentMethod
	Voucher     *AppliedVoucher
	Quote       pricing.Quote
	Submitting  bool
	InlineError string
}

// ValidationError is a draft problem caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	// ErrStaleResponse is returned when a voucher verdict arrives for a draft
	// that has changed since the request was sent. The verdict is dropped.
	ErrStaleResponse = errors.New("booking: response no longer matches the draft")
	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = errors.New("booking: submission already in progress")
	// ErrVoucherRejected wraps the server's reason for refusing a voucher.
	ErrVoucherRejected = errors.New("voucher rejected")
	// ErrUnknownService is returned when selecting an id absent from the catalog.
	ErrUnknownService = errors.New("booking: service not in catalog")
)

// draft is the mutable form state. The zero value is an empty draft.
type draft struct {
	service    *bookingapi.Service
	clientName string
	date       string
	timeSlot   string
	payment    PaymentMethod
	voucher    *AppliedVoucher
}

func (d *draft) phase() Phase {
	switch {
	case d.service == nil:
		return PhaseEmpty
	case d.voucher == nil:
		return PhaseServiceChosen
	default:
		return PhaseVoucherApplied
	}
}

// quote is always derived from the service price and voucher percentage.
func (d *draft) quote() pricing.Quote {
	if d.service == nil {
		return pricing.Quote{}
	}
	pct := 0
	if d.voucher != nil {
		pct = d.voucher.Percentage
	}
	q, err := pricing.Compute(d.service.PriceCents(), pct)
	if err != nil {
		q, _ = pricing.Compute(max(d.service.PriceCents(), 0), 0)
	}
	return q
}

func (d *draft) validate() *ValidationError {
	switch {
	case d.service == nil:
		return &ValidationError{Field: "tipo_corte", Message: "Selecione um corte."}
	case strings.TrimSpace(d.clientName) == "":
		return &ValidationError{Field: "nome_cliente", Message: "Informe o nome do cliente."}
	case strings.TrimSpace(d.date) == "":
		return &ValidationError{Field: "data", Message: "Informe a data do agendamento."}
	case strings.TrimSpace(d.timeSlot) == "":
		return &ValidationError{Field: "horario", Message: "Informe o horário do agendamento."}
	case d.payment == "":
		return &ValidationError{Field: "pagamento", Message: "Selecione a forma de pagamento."}
	}
	return nil
}

func (d *draft) request() bookingapi.AppointmentRequest {
	q := d.quote()
	req := bookingapi.AppointmentRequest{
		ClientName:      strings.TrimSpace(d.clientName),
		ServiceType:     d.service.Name,
		Date:            strings.TrimSpace(d.date),
		TimeSlot:        strings.TrimSpace(d.timeSlot),
		Payment:         string(d.payment),
		ServicePrice:    pricing.ToDecimal(q.OriginalCents),
		VoucherDiscount: pricing.ToDecimal(q.DiscountCents),
		FinalPrice:      pricing.ToDecimal(q.FinalCents),
	}
	if d.voucher != nil {
		code := d.voucher.Code
		req.Voucher = &code
	}
	return req
}
