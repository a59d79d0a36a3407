// Package terminal renders the booking client in a terminal: notices, the
// appointment board, payment receipts and confirmation prompts.
package terminal

import (
	"io"

	"github.com/Barbearia-Digital/service-booking/internal/schedule"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	notice   lipgloss.Style
	title    lipgloss.Style
	muted    lipgloss.Style
	card     lipgloss.Style
	receipt  lipgloss.Style
	discount lipgloss.Style
	total    lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	status   map[schedule.Status]lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		notice: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		muted: r.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(34),
		receipt: r.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(1, 2),
		discount: r.NewStyle().Foreground(lipgloss.Color("196")),
		total:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1),
		cell:     r.NewStyle().Padding(0, 1),
		status: map[schedule.Status]lipgloss.Style{
			schedule.StatusToday:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			schedule.StatusTomorrow: r.NewStyle().Foreground(lipgloss.Color("214")),
			schedule.StatusFuture:   r.NewStyle().Foreground(lipgloss.Color("39")),
			schedule.StatusPast:     r.NewStyle().Foreground(lipgloss.Color("240")),
			schedule.StatusUnknown:  r.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		},
	}
}

func (s styles) statusLabel(st schedule.Status) string {
	style, ok := s.status[st]
	if !ok {
		return st.Label()
	}
	return style.Render(st.Label())
}
