package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Barbearia-Digital/service-booking/internal/bookingapi"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
)

// Receipt prints the payment summary of a confirmed appointment using the
// amounts the server persisted.
type Receipt struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
}

// NewReceipt creates a Receipt writing to w.
func NewReceipt(w io.Writer) *Receipt {
	return &Receipt{w: w, styles: newStyles(w)}
}

// ShowReceipt prints appt.
func (r *Receipt) ShowReceipt(appt bookingapi.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := []string{
		r.styles.total.Render("Agendamento Confirmado!"),
		"",
		"Cliente:   " + appt.ClientName,
		"Data:      " + appt.Date,
		"Horário:   " + appt.TimeSlot,
		"Corte:     " + appt.ServiceType,
		"Pagamento: " + appt.Payment,
	}
	if code := appt.VoucherCode(); code != "" {
		lines = append(lines, "Voucher:   "+code)
	}
	lines = append(lines, "")
	if discount := appt.DiscountCents(); discount > 0 {
		lines = append(lines,
			r.styles.muted.Render("Valor original: "+pricing.Format(appt.PriceCents())),
			r.styles.discount.Render("Desconto: -"+strings.TrimPrefix(pricing.Format(discount), "R$ ")),
		)
	}
	lines = append(lines, r.styles.total.Render("Total: "+pricing.Format(appt.FinalCents())))

	fmt.Fprintln(r.w, r.styles.receipt.Render(strings.Join(lines, "\n")))
}
