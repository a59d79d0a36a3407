package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/bookingevents"
	"github.com/Barbearia-Digital/service-booking/internal/domain/catalog"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"github.com/Barbearia-Digital/service-booking/internal/repository/memory"
	"github.com/Barbearia-Digital/service-booking/internal/saga"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	catalogRepo  *memory.ServiceRepository
	voucherRepo  *memory.VoucherRepository
	apptRepo     *memory.AppointmentRepository
	bus          *kafka.LocalBus
	catalog      *CatalogService
	vouchers     *VoucherService
	appointments *AppointmentService

	mu     sync.Mutex
	events []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	f := &fixture{
		catalogRepo: memory.NewServiceRepository(),
		voucherRepo: memory.NewVoucherRepository(),
		apptRepo:    memory.NewAppointmentRepository(),
		bus:         kafka.NewLocalBus(logger),
	}
	f.bus.Subscribe(bookingevents.TopicBookingEvents, func(_ context.Context, msg kafkago.Message) error {
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			return err
		}
		f.mu.Lock()
		f.events = append(f.events, ce.Type)
		f.mu.Unlock()
		return nil
	})

	f.catalog = NewCatalogService(f.catalogRepo, logger)
	f.vouchers = NewVoucherService(f.voucherRepo, time.UTC, logger)
	sagaSvc := saga.NewBookingSagaService(f.apptRepo, f.voucherRepo, f.bus, logger)
	f.appointments = NewAppointmentService(f.apptRepo, f.catalogRepo, f.vouchers, sagaSvc, f.bus, logger)

	for _, s := range []struct {
		name  string
		price int64
	}{{"Degradê", 10000}, {"Barba", 5000}} {
		svc, err := catalog.NewService(s.name, "", s.price)
		require.NoError(t, err)
		require.NoError(t, f.catalogRepo.Save(context.Background(), svc))
	}
	return f
}

func (f *fixture) seenEvents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fixture) addVoucher(t *testing.T, code string, pct int, validade, owner string) {
	t.Helper()
	_, err := f.vouchers.CreateVoucher(context.Background(), VoucherRequest{
		Code: code, Percentage: pct, ValidUntil: validade, Owner: owner,
	})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func bookingRequest(voucher *string) CreateAppointmentRequest {
	return CreateAppointmentRequest{
		ClientName:  "Ana",
		ServiceType: "degradê",
		Date:        "2030-06-10",
		TimeSlot:    "14:30",
		Payment:     "pix",
		Voucher:     voucher,
	}
}
