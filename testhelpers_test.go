//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/config"
	"github.com/Barbearia-Digital/service-booking/internal/database"
	"github.com/Barbearia-Digital/service-booking/internal/events"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"github.com/Barbearia-Digital/service-booking/internal/repository"
	"github.com/Barbearia-Digital/service-booking/internal/saga"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Catalog         *application.CatalogService
	Vouchers        *application.VoucherService
	Appointments    *application.AppointmentService
	Consumer        *events.BookingEventConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies the
// migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_barbearia",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbCfg := config.DatabaseConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_barbearia",
		SSLMode:  "disable",
	}

	logger := zap.NewNop()
	var db *gorm.DB
	require.Eventually(t, func() bool {
		db, err = database.Connect(dbCfg, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(dbCfg.DatabaseURL(), "migrations", logger))

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, bookingevents.TopicBookingEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires the booking services against Postgres and Kafka.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string, policy application.LoyaltyPolicy) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	loc := config.Location("America/Sao_Paulo")

	catalogRepo := repository.NewGormServiceRepository(db)
	voucherRepo := repository.NewGormVoucherRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	producer := kafka.NewProducer(brokers, logger)

	catalogSvc := application.NewCatalogService(catalogRepo, logger)
	voucherSvc := application.NewVoucherService(voucherRepo, loc, logger)
	sagaSvc := saga.NewBookingSagaService(apptRepo, voucherRepo, producer, logger)
	apptSvc := application.NewAppointmentService(apptRepo, catalogRepo, voucherSvc, sagaSvc, producer, logger)
	loyaltySvc := application.NewLoyaltyService(apptRepo, voucherSvc, producer, policy, logger)

	groupID := fmt.Sprintf("test-loyalty-%s", uuid.New().String()[:8])
	consumer := events.NewBookingEventConsumer(brokers, groupID, loyaltySvc, logger)

	return &bookingStack{
		Catalog:         catalogSvc,
		Vouchers:        voucherSvc,
		Appointments:    apptSvc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedService adds a catalog entry.
func seedService(t *testing.T, stack *bookingStack, name string, price float64) {
	t.Helper()
	_, err := stack.Catalog.CreateService(context.Background(), application.CreateServiceRequest{Name: name, Price: price})
	require.NoError(t, err, "failed to seed service")
}

// seedVoucher adds a public voucher.
func seedVoucher(t *testing.T, stack *bookingStack, code string, percentage int) {
	t.Helper()
	_, err := stack.Vouchers.CreateVoucher(context.Background(), application.VoucherRequest{
		Code:        code,
		Description: "integração",
		Percentage:  percentage,
	})
	require.NoError(t, err, "failed to seed voucher")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
