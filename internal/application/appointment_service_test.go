package application

import (
	"context"
	"testing"

	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointment_PricesFromCatalog(t *testing.T) {
	f := newFixture(t)

	req := bookingRequest(nil)
	wrong := 1.0
	req.ServicePrice = 1
	req.FinalPrice = &wrong

	dto, err := f.appointments.CreateAppointment(context.Background(), "ana", req)
	require.NoError(t, err)

	assert.NotZero(t, dto.ID)
	assert.Equal(t, "Degradê", dto.ServiceType, "canonical catalog name")
	assert.Equal(t, 100.0, dto.ServicePrice)
	assert.Equal(t, 0.0, dto.VoucherDiscount)
	assert.Equal(t, 100.0, dto.FinalPrice)
	assert.Nil(t, dto.Voucher)
	assert.Equal(t, "ana", dto.User)
	assert.Equal(t, []string{bookingevents.AppointmentCreated}, f.seenEvents())
}

func TestCreateAppointment_WithVoucher(t *testing.T) {
	f := newFixture(t)
	f.addVoucher(t, "PROMO20", 20, "", "")

	dto, err := f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(strPtr("PROMO20")))
	require.NoError(t, err)

	require.NotNil(t, dto.Voucher)
	assert.Equal(t, "PROMO20", *dto.Voucher)
	assert.Equal(t, 20, dto.VoucherPercentage)
	assert.Equal(t, 20.0, dto.VoucherDiscount)
	assert.Equal(t, 80.0, dto.FinalPrice)

	res, err := f.vouchers.ValidateVoucher(context.Background(), "ana", ValidateVoucherRequest{Code: "PROMO20"})
	require.NoError(t, err)
	assert.False(t, res.Valid, "redeemed on booking")
}

func TestCreateAppointment_Rejections(t *testing.T) {
	f := newFixture(t)
	f.addVoucher(t, "PROMO20", 20, "", "")

	cash := bookingRequest(strPtr("PROMO20"))
	cash.Payment = "dinheiro"
	_, err := f.appointments.CreateAppointment(context.Background(), "ana", cash)
	assert.ErrorIs(t, err, domain.ErrValidation, "voucher with cash")

	unknown := bookingRequest(nil)
	unknown.ServiceType = "Moicano"
	_, err = f.appointments.CreateAppointment(context.Background(), "ana", unknown)
	assert.ErrorIs(t, err, domain.ErrValidation, "unknown service")

	badPayment := bookingRequest(nil)
	badPayment.Payment = "cheque"
	_, err = f.appointments.CreateAppointment(context.Background(), "ana", badPayment)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(strPtr("NOPE")))
	assert.ErrorIs(t, err, domain.ErrValidation, "unknown voucher")

	list, err := f.appointments.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateAppointment_Duplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(nil))
	require.NoError(t, err)

	_, err = f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(nil))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// another account may book the same name and slot
	_, err = f.appointments.CreateAppointment(context.Background(), "bruno", bookingRequest(nil))
	assert.NoError(t, err)
}

func TestUpdateAppointment_PartialAndRepriced(t *testing.T) {
	f := newFixture(t)
	f.addVoucher(t, "PROMO20", 20, "", "")
	created, err := f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(strPtr("PROMO20")))
	require.NoError(t, err)

	updated, err := f.appointments.UpdateAppointment(context.Background(), created.ID, UpdateAppointmentRequest{
		ServiceType: strPtr("Barba"),
		TimeSlot:    strPtr("16:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Barba", updated.ServiceType)
	assert.Equal(t, "2030-06-10", updated.Date, "untouched")
	assert.Equal(t, "16:00", updated.TimeSlot)
	assert.Equal(t, 50.0, updated.ServicePrice)
	assert.Equal(t, 10.0, updated.VoucherDiscount)
	assert.Equal(t, 40.0, updated.FinalPrice)
}

func TestUpdateAppointment_SwitchToCashReleasesVoucher(t *testing.T) {
	f := newFixture(t)
	f.addVoucher(t, "PROMO20", 20, "", "")
	created, err := f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(strPtr("PROMO20")))
	require.NoError(t, err)

	updated, err := f.appointments.UpdateAppointment(context.Background(), created.ID, UpdateAppointmentRequest{
		Payment: strPtr("dinheiro"),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Voucher)
	assert.Equal(t, 100.0, updated.FinalPrice)

	res, err := f.vouchers.ValidateVoucher(context.Background(), "ana", ValidateVoucherRequest{Code: "PROMO20"})
	require.NoError(t, err)
	assert.True(t, res.Valid, "voucher usable again")
}

func TestUpdateAppointment_ReplaceVoucher(t *testing.T) {
	f := newFixture(t)
	f.addVoucher(t, "PROMO20", 20, "", "")
	f.addVoucher(t, "PROMO50", 50, "", "")
	created, err := f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(strPtr("PROMO20")))
	require.NoError(t, err)

	updated, err := f.appointments.UpdateAppointment(context.Background(), created.ID, UpdateAppointmentRequest{
		Voucher: strPtr("PROMO50"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Voucher)
	assert.Equal(t, "PROMO50", *updated.Voucher)
	assert.Equal(t, 50.0, updated.FinalPrice)

	old, err := f.vouchers.ValidateVoucher(context.Background(), "ana", ValidateVoucherRequest{Code: "PROMO20"})
	require.NoError(t, err)
	assert.True(t, old.Valid)

	replaced, err := f.vouchers.ValidateVoucher(context.Background(), "ana", ValidateVoucherRequest{Code: "PROMO50"})
	require.NoError(t, err)
	assert.False(t, replaced.Valid)

	cleared, err := f.appointments.UpdateAppointment(context.Background(), created.ID, UpdateAppointmentRequest{
		Voucher: strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Voucher)
	assert.Equal(t, 100.0, cleared.FinalPrice)
}

func TestUpdateAppointment_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.appointments.UpdateAppointment(context.Background(), 99, UpdateAppointmentRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(nil))
	require.NoError(t, err)
	second := bookingRequest(nil)
	second.TimeSlot = "15:00"
	other, err := f.appointments.CreateAppointment(context.Background(), "ana", second)
	require.NoError(t, err)

	_, err = f.appointments.UpdateAppointment(context.Background(), other.ID, UpdateAppointmentRequest{
		TimeSlot: strPtr(first.TimeSlot),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.appointments.UpdateAppointment(context.Background(), other.ID, UpdateAppointmentRequest{
		Date: strPtr("amanhã"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t)
	created, err := f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(nil))
	require.NoError(t, err)

	require.NoError(t, f.appointments.DeleteAppointment(context.Background(), created.ID))
	assert.ErrorIs(t, f.appointments.DeleteAppointment(context.Background(), created.ID), domain.ErrNotFound)

	assert.Contains(t, f.seenEvents(), bookingevents.AppointmentRemoved)
}
