package bookingapi

import (
	"errors"
	"fmt"

	"github.com/Barbearia-Digital/service-booking/internal/pricing"
)

// Service is a catalog entry ("corte").
type Service struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco"`
}

// PriceCents returns the price in cents.
func (s Service) PriceCents() int64 { return pricing.FromDecimal(s.Price) }

// VoucherInfo is the voucher part of a successful validation.
type VoucherInfo struct {
	Code        string `json:"codigo"`
	Description string `json:"descricao"`
	Percentage  int    `json:"porcentagem"`
}

// VoucherValidation is the server verdict on a voucher code.
type VoucherValidation struct {
	Valid   bool         `json:"valido"`
	Voucher *VoucherInfo `json:"voucher,omitempty"`
	Error   string       `json:"erro,omitempty"`
}

// AppointmentRequest is the body of a booking submission. Prices are advisory;
// the server re-prices from its catalog.
type AppointmentRequest struct {
	ClientName      string  `json:"nome_cliente"`
	ServiceType     string  `json:"tipo_corte"`
	Date            string  `json:"data"`
	TimeSlot        string  `json:"horario"`
	Payment         string  `json:"pagamento"`
	Voucher         *string `json:"voucher"`
	ServicePrice    float64 `json:"valor_corte"`
	VoucherDiscount float64 `json:"desconto_voucher"`
	FinalPrice      float64 `json:"valor_final"`
}

// AppointmentUpdate is a partial edit. Nil fields are left unchanged; an empty
// voucher removes the applied one.
type AppointmentUpdate struct {
	ClientName  *string `json:"nome_cliente,omitempty"`
	ServiceType *string `json:"tipo_corte,omitempty"`
	Date        *string `json:"data,omitempty"`
	TimeSlot    *string `json:"horario,omitempty"`
	Payment     *string `json:"pagamento,omitempty"`
	Voucher     *string `json:"voucher,omitempty"`
}

// Appointment is a persisted booking as returned by the server.
type Appointment struct {
	ID                int64    `json:"id"`
	ClientName        string   `json:"nome_cliente"`
	ServiceType       string   `json:"tipo_corte"`
	Date              string   `json:"data"`
	TimeSlot          string   `json:"horario"`
	Payment           string   `json:"pagamento"`
	Voucher           *string  `json:"voucher"`
	VoucherPercentage int      `json:"porcentagem_voucher,omitempty"`
	ServicePrice      float64  `json:"valor_corte"`
	VoucherDiscount   float64  `json:"desconto_voucher"`
	FinalPrice        *float64 `json:"valor_final"`
	User              string   `json:"usuario,omitempty"`
}

// FinalCents is valor_final when the server sent it, otherwise
// valor_corte minus desconto_voucher.
func (a Appointment) FinalCents() int64 {
	if a.FinalPrice != nil {
		return pricing.FromDecimal(*a.FinalPrice)
	}
	return pricing.FromDecimal(a.ServicePrice) - pricing.FromDecimal(a.VoucherDiscount)
}

// DiscountCents returns desconto_voucher in cents.
func (a Appointment) DiscountCents() int64 { return pricing.FromDecimal(a.VoucherDiscount) }

// PriceCents returns valor_corte in cents.
func (a Appointment) PriceCents() int64 { return pricing.FromDecimal(a.ServicePrice) }

// VoucherCode returns the applied code or "".
func (a Appointment) VoucherCode() string {
	if a.Voucher == nil {
		return ""
	}
	return *a.Voucher
}

// APIError is a request the server answered and refused.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api: %d: %s", e.StatusCode, e.Message)
}

// TransportError is a request that never produced a usable answer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("booking api: %s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// ServerMessage returns the server's message when err is an *APIError.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// IsTransport reports whether err is a connectivity failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
