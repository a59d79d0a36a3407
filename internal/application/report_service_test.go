package application

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestReportService(t *testing.T) {
	f := newFixture(t)
	f.addVoucher(t, "PROMO20", 20, "", "")

	_, err := f.appointments.CreateAppointment(context.Background(), "ana", bookingRequest(strPtr("PROMO20")))
	require.NoError(t, err)
	cash := bookingRequest(nil)
	cash.ServiceType = "Barba"
	cash.Payment = "dinheiro"
	cash.TimeSlot = "16:00"
	_, err = f.appointments.CreateAppointment(context.Background(), "ana", cash)
	require.NoError(t, err)

	reports := NewReportService(f.apptRepo, zap.NewNop())

	stats, err := reports.GetRevenueStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalAppointments)
	assert.Equal(t, 130.0, stats.Revenue)
	assert.Equal(t, 20.0, stats.Discounts)
	assert.Equal(t, int64(1), stats.WithVoucher)
	assert.Equal(t, map[string]int64{"pix": 1, "dinheiro": 1}, stats.ByPayment)

	var buf bytes.Buffer
	require.NoError(t, reports.ExportSpreadsheet(context.Background(), &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Agendamentos")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Cliente", rows[0][1])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "PROMO20", rows[1][6])

	summary, err := wb.GetRows("Resumo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Total de agendamentos", "2"}, summary[0])
}

func TestCatalogService(t *testing.T) {
	f := newFixture(t)

	list, err := f.catalog.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Degradê", list[0].Name)
	assert.Equal(t, 100.0, list[0].Price)

	created, err := f.catalog.CreateService(context.Background(), CreateServiceRequest{Name: "Pigmentação", Price: 35.5})
	require.NoError(t, err)
	assert.Equal(t, 35.5, created.Price)

	_, err = f.catalog.CreateService(context.Background(), CreateServiceRequest{Name: "barba", Price: 10})
	assert.Error(t, err, "names are unique ignoring case")
}
