package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoyalty_EveryNthBooking(t *testing.T) {
	f := newFixture(t)
	loyalty := NewLoyaltyService(f.apptRepo, f.vouchers, f.bus, LoyaltyPolicy{Every: 3, Percentage: 10, ValidDays: 30}, zap.NewNop())
	f.bus.Subscribe(bookingevents.TopicBookingEvents, func(ctx context.Context, msg kafkago.Message) error {
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil || ce.Type != bookingevents.AppointmentCreated {
			return err
		}
		var event bookingevents.AppointmentCreatedEvent
		if err := ce.ParseData(&event); err != nil {
			return err
		}
		return loyalty.HandleAppointmentCreated(ctx, event)
	})

	for i := 0; i < 6; i++ {
		req := bookingRequest(nil)
		req.TimeSlot = fmt.Sprintf("1%d:00", i)
		_, err := f.appointments.CreateAppointment(context.Background(), "ana", req)
		require.NoError(t, err)
	}

	mine, err := f.vouchers.ListMyVouchers(context.Background(), "ana")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, v := range mine {
		assert.Regexp(t, `^FIEL-`, v.Code)
	}

	issued := 0
	for _, e := range f.seenEvents() {
		if e == bookingevents.LoyaltyVoucherIssued {
			issued++
		}
	}
	assert.Equal(t, 2, issued)
}

func TestLoyalty_Disabled(t *testing.T) {
	f := newFixture(t)
	loyalty := NewLoyaltyService(f.apptRepo, f.vouchers, f.bus, LoyaltyPolicy{}, zap.NewNop())

	require.NoError(t, loyalty.HandleAppointmentCreated(context.Background(), bookingevents.AppointmentCreatedEvent{Owner: "ana"}))

	all, err := f.vouchers.ListVouchers(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, all)
}
