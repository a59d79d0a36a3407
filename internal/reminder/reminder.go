// Package reminder publishes a reminder event for every appointment booked
// for the next day.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"github.com/Barbearia-Digital/service-booking/internal/metrics"
	"github.com/Barbearia-Digital/service-booking/internal/schedule"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job scans tomorrow's appointments on a cron schedule.
type Job struct {
	repo     appointment.AppointmentRepository
	producer kafka.Publisher
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time

	cron *cron.Cron
}

// NewJob creates a Job evaluating dates in loc.
func NewJob(repo appointment.AppointmentRepository, producer kafka.Publisher, loc *time.Location, logger *zap.Logger) *Job {
	return &Job{
		repo:     repo,
		producer: producer,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules Run with a standard five-field cron expression.
func (j *Job) Start(expr string) error {
	j.cron = cron.New(cron.WithLocation(j.loc))
	if _, err := j.cron.AddFunc(expr, func() {
		if _, err := j.Run(context.Background()); err != nil {
			j.logger.Error("reminder run failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", expr, err)
	}
	j.cron.Start()
	j.logger.Info("reminder job scheduled", zap.String("cron", expr), zap.String("tz", j.loc.String()))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish or ctx to expire.
func (j *Job) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Run publishes a reminder for each appointment dated tomorrow and returns how
// many were published.
func (j *Job) Run(ctx context.Context) (int, error) {
	now := j.now().In(j.loc)
	tomorrow := schedule.Midnight(now).AddDate(0, 0, 1).Format(schedule.DateLayout)

	list, err := j.repo.ListByDate(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("list appointments for %s: %w", tomorrow, err)
	}

	published := 0
	for _, a := range list {
		if schedule.ClassifyString(a.Date(), now) != schedule.StatusTomorrow {
			continue
		}
		ce, err := kafka.NewCloudEvent(bookingevents.Source, bookingevents.AppointmentReminder, bookingevents.AppointmentReminderEvent{
			AppointmentID: a.ID(),
			Owner:         a.Owner(),
			ClientName:    a.ClientName(),
			ServiceType:   a.ServiceType(),
			Date:          a.Date(),
			TimeSlot:      a.TimeSlot(),
			OccurredAt:    now.UTC(),
		})
		if err != nil {
			return published, err
		}
		ce.Subject = fmt.Sprintf("agendamento/%d", a.ID())
		if err := j.producer.PublishEvent(ctx, bookingevents.TopicBookingEvents, ce); err != nil {
			j.logger.Warn("failed to publish reminder", zap.Int64("id", a.ID()), zap.Error(err))
			continue
		}
		published++
	}

	metrics.AddRemindersPublished(published)
	j.logger.Info("reminders published", zap.String("data", tomorrow), zap.Int("count", published))
	return published, nil
}
