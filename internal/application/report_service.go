package application

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// RevenueStatsDTO holds booking statistics for the admin dashboard.
type RevenueStatsDTO struct {
	TotalAppointments int64            `json:"total_agendamentos"`
	Revenue           float64          `json:"faturamento"`
	Discounts         float64          `json:"descontos"`
	WithVoucher       int64            `json:"com_voucher"`
	ByPayment         map[string]int64 `json:"por_pagamento"`
	ByService         map[string]int64 `json:"por_corte"`
}

// ReportService builds admin reports.
type ReportService struct {
	repo   appointment.AppointmentRepository
	logger *zap.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(repo appointment.AppointmentRepository, logger *zap.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// GetRevenueStats returns totals across every appointment.
func (s *ReportService) GetRevenueStats(ctx context.Context) (*RevenueStatsDTO, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &RevenueStatsDTO{
		TotalAppointments: stats.Total,
		Revenue:           pricing.ToDecimal(stats.RevenueCents),
		Discounts:         pricing.ToDecimal(stats.DiscountCents),
		WithVoucher:       stats.WithVoucher,
		ByPayment:         stats.CountByPayment,
		ByService:         stats.CountByService,
	}, nil
}

var appointmentHeader = []any{
	"ID", "Cliente", "Corte", "Data", "Horário", "Pagamento",
	"Voucher", "Valor do corte", "Desconto", "Valor final", "Usuário",
}

// ExportSpreadsheet writes an xlsx workbook with every appointment and a summary sheet.
func (s *ReportService) ExportSpreadsheet(ctx context.Context, w io.Writer) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list appointments: %w", err)
	}
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("close workbook", zap.Error(cerr))
		}
	}()

	const sheet = "Agendamentos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &appointmentHeader); err != nil {
		return err
	}
	for i, a := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			a.ID(), a.ClientName(), a.ServiceType(), a.Date(), a.TimeSlot(), string(a.Payment()),
			a.VoucherCode(), pricing.ToDecimal(a.PriceCents()), pricing.ToDecimal(a.DiscountCents()),
			pricing.ToDecimal(a.FinalCents()), a.Owner(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	const summary = "Resumo"
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}
	rows := [][]any{
		{"Total de agendamentos", stats.Total},
		{"Faturamento", pricing.ToDecimal(stats.RevenueCents)},
		{"Descontos concedidos", pricing.ToDecimal(stats.DiscountCents)},
		{"Com voucher", stats.WithVoucher},
		{},
		{"Pagamento", "Quantidade"},
	}
	rows = append(rows, sortedCounts(stats.CountByPayment)...)
	rows = append(rows, []any{}, []any{"Corte", "Quantidade"})
	rows = append(rows, sortedCounts(stats.CountByService)...)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summary, cell, &r); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func sortedCounts(m map[string]int64) [][]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][]any, len(keys))
	for i, k := range keys {
		out[i] = []any{k, m[k]}
	}
	return out
}
