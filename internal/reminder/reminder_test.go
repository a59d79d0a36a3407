package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"github.com/Barbearia-Digital/service-booking/internal/repository/memory"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func book(t *testing.T, repo *memory.AppointmentRepository, client, date, slot string) {
	t.Helper()
	a, err := appointment.NewAppointment("ana", client, "Degradê", date, slot, appointment.PaymentPix, 5000)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), a))
}

func TestRun_PublishesTomorrow(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	book(t, repo, "Ana", "2025-03-13", "09:00")
	book(t, repo, "Bia", "2025-03-13", "10:00")
	book(t, repo, "Caio", "2025-03-12", "10:00")
	book(t, repo, "Duda", "2025-03-14", "10:00")

	bus := kafka.NewLocalBus(zap.NewNop())
	var got []bookingevents.AppointmentReminderEvent
	bus.Subscribe(bookingevents.TopicBookingEvents, func(_ context.Context, msg kafkago.Message) error {
		ce, err := kafka.ParseCloudEvent(msg.Value)
		require.NoError(t, err)
		assert.Equal(t, bookingevents.AppointmentReminder, ce.Type)
		var ev bookingevents.AppointmentReminderEvent
		require.NoError(t, ce.ParseData(&ev))
		got = append(got, ev)
		return nil
	})

	loc := time.FixedZone("BRT", -3*3600)
	job := NewJob(repo, bus, loc, zap.NewNop())
	// 23:30 UTC on the 12th is still the 12th in BRT.
	job.now = func() time.Time { return time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC) }

	n, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, got, 2)
	assert.Equal(t, "Ana", got[0].ClientName)
	assert.Equal(t, "09:00", got[0].TimeSlot)
	assert.Equal(t, "Bia", got[1].ClientName)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	job := NewJob(memory.NewAppointmentRepository(), kafka.NewLocalBus(zap.NewNop()), time.UTC, zap.NewNop())
	assert.Error(t, job.Start("not a cron"))

	require.NoError(t, job.Start("0 18 * * *"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}
