package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Barbearia-Digital/service-booking/internal/bookingapi"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
	"github.com/Barbearia-Digital/service-booking/internal/schedule"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const msgNoAppointments = "Nenhum agendamento encontrado para o filtro selecionado."

var windowTitles = map[schedule.Window]string{
	schedule.WindowToday:    "Hoje",
	schedule.WindowTomorrow: "Amanhã",
	schedule.WindowWeek:     "Esta semana",
	schedule.WindowMonth:    "Este mês",
	schedule.WindowAll:      "Todos",
}

// Display renders board views: a table for admins, cards for everyone else.
type Display struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
}

// NewDisplay creates a Display writing to w.
func NewDisplay(w io.Writer) *Display {
	return &Display{w: w, styles: newStyles(w)}
}

// Render writes v.
func (d *Display) Render(v schedule.View) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintln(d.w, d.styles.title.Render(fmt.Sprintf("Agendamentos: %s", windowTitles[v.Window])))
	if v.Error != "" {
		fmt.Fprintln(d.w, d.styles.discount.Render(v.Error))
	}
	if len(v.Entries) == 0 {
		fmt.Fprintln(d.w, d.styles.muted.Render(msgNoAppointments))
		fmt.Fprintln(d.w, d.styles.muted.Render(`Tente outro período ou "todos".`))
		return
	}

	if v.Mode == schedule.ModeTable {
		fmt.Fprintln(d.w, d.table(v.Entries))
		return
	}
	fmt.Fprintln(d.w, d.cards(v.Entries))
}

func (d *Display) table(entries []schedule.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Cliente", "Data", "Status", "Horário", "Corte", "Pagamento", "Voucher", "Valor").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return d.styles.header
			}
			return d.styles.cell
		})

	for _, e := range entries {
		a := e.Appointment
		value := pricing.Format(e.FinalCents)
		if discount := a.DiscountCents(); discount > 0 {
			value += " (-" + strings.TrimPrefix(pricing.Format(discount), "R$ ") + ")"
		}
		t.Row(
			fmt.Sprint(a.ID),
			orDash(a.ClientName),
			orDash(a.Date),
			d.styles.statusLabel(e.Status),
			orDash(a.TimeSlot),
			orDash(a.ServiceType),
			orDash(a.Payment),
			orDash(a.VoucherCode()),
			value,
		)
	}
	return t.String()
}

func (d *Display) cards(entries []schedule.Entry) string {
	rendered := make([]string, 0, len(entries))
	for _, e := range entries {
		a := e.Appointment
		client := a.ClientName
		if client == "" {
			client = "Cliente"
		}

		lines := []string{
			d.styles.title.Render(client) + "  " + d.styles.statusLabel(e.Status),
			"Data:      " + orDash(a.Date),
			"Horário:   " + orDash(a.TimeSlot),
			"Corte:     " + orDash(a.ServiceType),
			"Pagamento: " + orDash(a.Payment),
		}
		if code := a.VoucherCode(); code != "" {
			lines = append(lines, "Voucher:   "+code)
		}
		if discount := a.DiscountCents(); discount > 0 {
			lines = append(lines,
				d.styles.muted.Render("De "+pricing.Format(a.PriceCents())),
				d.styles.total.Render("Por "+pricing.Format(e.FinalCents)),
				"Economia: "+pricing.Format(discount),
			)
		} else {
			lines = append(lines, d.styles.total.Render(pricing.Format(e.FinalCents)))
		}
		rendered = append(rendered, d.styles.card.Render(strings.Join(lines, "\n")))
	}

	var rows []string
	for i := 0; i < len(rendered); i += 2 {
		end := min(i+2, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Services writes the catalog as a table.
func (d *Display) Services(services []bookingapi.Service) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintln(d.w, d.styles.title.Render("Cortes disponíveis"))
	if len(services) == 0 {
		fmt.Fprintln(d.w, d.styles.muted.Render("Nenhum corte cadastrado."))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Corte", "Descrição", "Preço").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return d.styles.header
			}
			return d.styles.cell
		})
	for _, s := range services {
		t.Row(fmt.Sprint(s.ID), s.Name, orDash(s.Description), pricing.Format(s.PriceCents()))
	}
	fmt.Fprintln(d.w, t.String())
}
