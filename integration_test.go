//go:build integration

package main_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/repository"
)

func strPtr(s string) *string { return &s }

// TestCreateAppointment_RedeemsVoucherAndPublishes books with a voucher and
// checks the persisted pricing, the redeemed voucher and the published event.
func TestCreateAppointment_RedeemsVoucherAndPublishes(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers, application.LoyaltyPolicy{})
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	seedService(t, stack, "Degradê", 45.50)
	seedVoucher(t, stack, "PROMO10", 10)

	ctx := context.Background()
	dto, err := stack.Appointments.CreateAppointment(ctx, "ana", application.CreateAppointmentRequest{
		ClientName:  "Ana",
		ServiceType: "Degradê",
		Date:        "2030-01-02",
		TimeSlot:    "10:00",
		Payment:     "pix",
		Voucher:     strPtr("PROMO10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Degradê", dto.ServiceType)
	assert.Equal(t, 45.50, dto.ServicePrice)
	assert.Equal(t, 4.55, dto.VoucherDiscount)
	assert.Equal(t, 40.95, dto.FinalPrice)

	var row repository.AppointmentModel
	require.NoError(t, infra.DB.First(&row, dto.ID).Error)
	assert.Equal(t, int64(4095), row.FinalCents)
	assert.Equal(t, "PROMO10", *row.VoucherCode)

	var v repository.VoucherModel
	require.NoError(t, infra.DB.Where("code = ?", "PROMO10").First(&v).Error)
	assert.True(t, v.Used, "voucher should be redeemed")

	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingevents.TopicBookingEvents,
		bookingevents.AppointmentCreated, 15*time.Second)
	var created bookingevents.AppointmentCreatedEvent
	require.NoError(t, ce.ParseData(&created))
	assert.Equal(t, dto.ID, created.AppointmentID)
	assert.Equal(t, "PROMO10", created.VoucherCode)
	assert.Equal(t, int64(4095), created.FinalCents)

	// A used voucher cannot be redeemed twice.
	_, err = stack.Appointments.CreateAppointment(ctx, "ana", application.CreateAppointmentRequest{
		ClientName:  "Ana",
		ServiceType: "Degradê",
		Date:        "2030-01-03",
		TimeSlot:    "10:00",
		Payment:     "pix",
		Voucher:     strPtr("PROMO10"),
	})
	require.Error(t, err)
}

// TestCreateAppointment_DuplicateSlot verifies the uniqueness rule on
// user, client, date and time.
func TestCreateAppointment_DuplicateSlot(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers, application.LoyaltyPolicy{})
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	seedService(t, stack, "Barba", 30)

	req := application.CreateAppointmentRequest{
		ClientName:  "Bia",
		ServiceType: "Barba",
		Date:        "2030-01-02",
		TimeSlot:    "09:00",
		Payment:     "dinheiro",
	}
	_, err := stack.Appointments.CreateAppointment(context.Background(), "bia", req)
	require.NoError(t, err)

	_, err = stack.Appointments.CreateAppointment(context.Background(), "bia", req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var count int64
	require.NoError(t, infra.DB.Model(&repository.AppointmentModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestLoyalty_IssuesVoucherOnNthBooking verifies that the loyalty consumer picks
// up AppointmentCreated events from Kafka and issues a user-scoped voucher.
func TestLoyalty_IssuesVoucherOnNthBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers, application.LoyaltyPolicy{Every: 3, Percentage: 15, ValidDays: 30})
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	seedService(t, stack, "Corte Social", 35)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	for i := 1; i <= 3; i++ {
		_, err := stack.Appointments.CreateAppointment(ctx, "carla", application.CreateAppointmentRequest{
			ClientName:  "Carla",
			ServiceType: "corte social",
			Date:        fmt.Sprintf("2030-02-0%d", i),
			TimeSlot:    "15:00",
			Payment:     "cartao",
		})
		require.NoError(t, err)
	}

	var issued repository.VoucherModel
	require.Eventually(t, func() bool {
		return infra.DB.Where("owner = ?", "carla").First(&issued).Error == nil
	}, 20*time.Second, 200*time.Millisecond, "loyalty voucher was not issued")

	assert.Equal(t, 15, issued.Percentage)
	assert.False(t, issued.Used)
	assert.Regexp(t, `^FIEL-[A-Z0-9]{8}$`, issued.Code)
	require.NotNil(t, issued.ValidUntil)

	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingevents.TopicBookingEvents,
		bookingevents.LoyaltyVoucherIssued, 15*time.Second)
	var evt bookingevents.LoyaltyVoucherIssuedEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, "carla", evt.User)
	assert.Equal(t, issued.Code, evt.Code)
}
