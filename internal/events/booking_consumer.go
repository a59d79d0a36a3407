package events

import (
	"context"
	"strings"

	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BookingEventConsumer listens to booking events and triggers loyalty rewards.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	loyalty  *application.LoyaltyService
	logger   *zap.Logger
}

// NewBookingEventConsumer creates a consumer bound to Kafka.
func NewBookingEventConsumer(
	brokers []string,
	groupID string,
	loyalty *application.LoyaltyService,
	logger *zap.Logger,
) *BookingEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, bookingevents.TopicBookingEvents, logger)
	return &BookingEventConsumer{
		consumer: consumer,
		loyalty:  loyalty,
		logger:   logger,
	}
}

// NewLocalBookingEventConsumer subscribes the same routing to an in-process bus.
func NewLocalBookingEventConsumer(bus *kafka.LocalBus, loyalty *application.LoyaltyService, logger *zap.Logger) *BookingEventConsumer {
	c := &BookingEventConsumer{loyalty: loyalty, logger: logger}
	bus.Subscribe(bookingevents.TopicBookingEvents, c.HandleMessage)
	return c
}

// Start begins consuming booking events. It blocks until the context is cancelled.
// Consumers bound to the local bus return immediately.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	if c.consumer == nil {
		return nil
	}
	return c.consumer.Consume(ctx, c.HandleMessage)
}

// HandleMessage routes incoming messages to the appropriate handler.
func (c *BookingEventConsumer) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return err
	}

	c.logger.Debug("received booking event",
		zap.String("type", cloudEvent.Type),
		zap.String("id", cloudEvent.ID),
	)

	switch {
	case strings.EqualFold(cloudEvent.Type, bookingevents.AppointmentCreated):
		return c.handleAppointmentCreated(ctx, cloudEvent)

	default:
		return nil
	}
}

// handleAppointmentCreated processes an AppointmentCreatedEvent.
func (c *BookingEventConsumer) handleAppointmentCreated(ctx context.Context, ce kafka.CloudEvent) error {
	var event bookingevents.AppointmentCreatedEvent
	if err := ce.ParseData(&event); err != nil {
		c.logger.Error("failed to parse AppointmentCreatedEvent data", zap.Error(err))
		return err
	}

	return c.loyalty.HandleAppointmentCreated(ctx, event)
}

// Close closes the underlying Kafka consumer.
func (c *BookingEventConsumer) Close() error {
	if c.consumer == nil {
		return nil
	}
	return c.consumer.Close()
}
