package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// PaymentMethod is how the client settles the appointment at the shop.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "dinheiro"
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "cartao"
)

// ParsePaymentMethod validates a wire value.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentCash, PaymentPix, PaymentCard:
		return m, nil
	}
	return "", domain.NewValidationError(fmt.Sprintf("forma de pagamento inválida: %q", s))
}

// AcceptsVoucher reports whether a voucher may be combined with the method.
func (m PaymentMethod) AcceptsVoucher() bool { return m != PaymentCash }

// Appointment is the aggregate root for a booked haircut.
type Appointment struct {
	id                int64
	owner             string
	clientName        string
	serviceType       string
	date              string
	timeSlot          string
	payment           PaymentMethod
	voucherCode       string
	voucherPercentage int
	priceCents        int64
	discountCents     int64
	finalCents        int64
	version           int64
	createdAt         time.Time
	updatedAt         time.Time
}

// NewAppointment creates an appointment priced at priceCents with no voucher.
func NewAppointment(owner, clientName, serviceType, date, timeSlot string, payment PaymentMethod, priceCents int64) (*Appointment, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, domain.NewValidationError("nome_cliente é obrigatório")
	}
	if err := validateSlot(date, timeSlot); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &Appointment{
		owner:       owner,
		clientName:  clientName,
		serviceType: strings.TrimSpace(serviceType),
		date:        date,
		timeSlot:    timeSlot,
		payment:     payment,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
	if err := a.Reprice(priceCents); err != nil {
		return nil, err
	}
	return a, nil
}

func validateSlot(date, timeSlot string) error {
	if strings.TrimSpace(date) == "" {
		return domain.NewValidationError("data é obrigatória")
	}
	if strings.TrimSpace(timeSlot) == "" {
		return domain.NewValidationError("horario é obrigatório")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return domain.NewValidationError(fmt.Sprintf("data inválida %q: use AAAA-MM-DD", date))
	}
	if _, err := time.Parse(TimeLayout, timeSlot); err != nil {
		return domain.NewValidationError(fmt.Sprintf("horario inválido %q: use HH:MM", timeSlot))
	}
	return nil
}

// --- Getters ---

func (a *Appointment) ID() int64                { return a.id }
func (a *Appointment) Owner() string            { return a.owner }
func (a *Appointment) ClientName() string       { return a.clientName }
func (a *Appointment) ServiceType() string      { return a.serviceType }
func (a *Appointment) Date() string             { return a.date }
func (a *Appointment) TimeSlot() string         { return a.timeSlot }
func (a *Appointment) Payment() PaymentMethod   { return a.payment }
func (a *Appointment) VoucherCode() string      { return a.voucherCode }
func (a *Appointment) VoucherPercentage() int   { return a.voucherPercentage }
func (a *Appointment) PriceCents() int64        { return a.priceCents }
func (a *Appointment) DiscountCents() int64     { return a.discountCents }
func (a *Appointment) FinalCents() int64        { return a.finalCents }
func (a *Appointment) Version() int64           { return a.version }
func (a *Appointment) CreatedAt() time.Time     { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time     { return a.updatedAt }
func (a *Appointment) HasVoucher() bool         { return a.voucherCode != "" }

// --- Behavior ---

// Reprice sets the service price and recomputes discount and final price.
func (a *Appointment) Reprice(priceCents int64) error {
	q, err := pricing.Compute(priceCents, a.voucherPercentage)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	a.priceCents = q.OriginalCents
	a.discountCents = q.DiscountCents
	a.finalCents = q.FinalCents
	a.touch()
	return nil
}

// ApplyVoucher attaches a validated voucher and recomputes the quote.
func (a *Appointment) ApplyVoucher(code string, percentage int) error {
	if !a.payment.AcceptsVoucher() {
		return domain.NewValidationError("voucher não pode ser usado com pagamento em dinheiro")
	}
	q, err := pricing.Compute(a.priceCents, percentage)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	a.voucherCode = code
	a.voucherPercentage = percentage
	a.discountCents = q.DiscountCents
	a.finalCents = q.FinalCents
	a.touch()
	return nil
}

// ClearVoucher detaches the voucher and returns the code that was released.
func (a *Appointment) ClearVoucher() string {
	code := a.voucherCode
	a.voucherCode = ""
	a.voucherPercentage = 0
	a.discountCents = 0
	a.finalCents = a.priceCents
	a.touch()
	return code
}

// Rename changes the client name.
func (a *Appointment) Rename(clientName string) error {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return domain.NewValidationError("nome_cliente é obrigatório")
	}
	a.clientName = clientName
	a.touch()
	return nil
}

// Reschedule moves the appointment to another slot.
func (a *Appointment) Reschedule(date, timeSlot string) error {
	if err := validateSlot(date, timeSlot); err != nil {
		return err
	}
	a.date = date
	a.timeSlot = timeSlot
	a.touch()
	return nil
}

// ChangeService switches the haircut and reprices it.
func (a *Appointment) ChangeService(serviceType string, priceCents int64) error {
	a.serviceType = strings.TrimSpace(serviceType)
	return a.Reprice(priceCents)
}

// ChangePayment switches the payment method. Moving to cash drops the voucher;
// the released code is returned so the caller can make it redeemable again.
func (a *Appointment) ChangePayment(m PaymentMethod) string {
	a.payment = m
	released := ""
	if !m.AcceptsVoucher() && a.HasVoucher() {
		released = a.ClearVoucher()
	}
	a.touch()
	return released
}

// AssignID is called by the repository once the row has a key.
func (a *Appointment) AssignID(id int64) { a.id = id }

// IncrementVersion bumps the version for optimistic locking.
func (a *Appointment) IncrementVersion() {
	a.version++
	a.touch()
}

func (a *Appointment) touch() { a.updatedAt = time.Now().UTC() }

// --- Reconstitution ---

// Reconstitute rebuilds an Appointment from persisted data.
func Reconstitute(
	id int64,
	owner, clientName, serviceType, date, timeSlot string,
	payment PaymentMethod,
	voucherCode string,
	voucherPercentage int,
	priceCents, discountCents, finalCents int64,
	version int64,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:                id,
		owner:             owner,
		clientName:        clientName,
		serviceType:       serviceType,
		date:              date,
		timeSlot:          timeSlot,
		payment:           payment,
		voucherCode:       voucherCode,
		voucherPercentage: voucherPercentage,
		priceCents:        priceCents,
		discountCents:     discountCents,
		finalCents:        finalCents,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}
