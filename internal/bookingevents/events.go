// Package bookingevents defines the topic, event types and payloads published
// by the booking service.
package bookingevents

import "time"

// Source identifies this service in cloud event envelopes.
const Source = "service-booking"

// TopicBookingEvents carries every appointment and voucher event.
const TopicBookingEvents = "agendamento.events"

// Event types.
const (
	AppointmentCreated   = "agendamento.criado"
	AppointmentUpdated   = "agendamento.editado"
	AppointmentRemoved   = "agendamento.removido"
	AppointmentReminder  = "agendamento.lembrete"
	AppointmentFailed    = "agendamento.falhou"
	VoucherRedeemed      = "voucher.resgatado"
	VoucherReleased      = "voucher.liberado"
	LoyaltyVoucherIssued = "voucher.fidelidade"
)

// AppointmentCreatedEvent is published once an appointment is persisted.
type AppointmentCreatedEvent struct {
	AppointmentID int64     `json:"agendamento_id"`
	Owner         string    `json:"usuario"`
	ClientName    string    `json:"nome_cliente"`
	ServiceType   string    `json:"tipo_corte"`
	Date          string    `json:"data"`
	TimeSlot      string    `json:"horario"`
	Payment       string    `json:"pagamento"`
	VoucherCode   string    `json:"voucher,omitempty"`
	FinalCents    int64     `json:"valor_final_centavos"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AppointmentUpdatedEvent is published after an admin edit.
type AppointmentUpdatedEvent struct {
	AppointmentID int64     `json:"agendamento_id"`
	Date          string    `json:"data"`
	TimeSlot      string    `json:"horario"`
	FinalCents    int64     `json:"valor_final_centavos"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AppointmentRemovedEvent is published after an admin delete.
type AppointmentRemovedEvent struct {
	AppointmentID int64     `json:"agendamento_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AppointmentReminderEvent asks downstream notifiers to remind the client.
type AppointmentReminderEvent struct {
	AppointmentID int64     `json:"agendamento_id"`
	Owner         string    `json:"usuario"`
	ClientName    string    `json:"nome_cliente"`
	ServiceType   string    `json:"tipo_corte"`
	Date          string    `json:"data"`
	TimeSlot      string    `json:"horario"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AppointmentFailedEvent reports a booking that was rolled back.
type AppointmentFailedEvent struct {
	Owner      string    `json:"usuario"`
	ClientName string    `json:"nome_cliente"`
	Reason     string    `json:"motivo"`
	OccurredAt time.Time `json:"occurred_at"`
}

// VoucherEvent reports a redemption or a release.
type VoucherEvent struct {
	Code          string    `json:"codigo"`
	User          string    `json:"usuario"`
	AppointmentID int64     `json:"agendamento_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// LoyaltyVoucherIssuedEvent reports a voucher granted to a repeat client.
type LoyaltyVoucherIssuedEvent struct {
	Code       string    `json:"codigo"`
	User       string    `json:"usuario"`
	Percentage int       `json:"porcentagem"`
	ValidUntil string    `json:"validade"`
	OccurredAt time.Time `json:"occurred_at"`
}
