package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Barbearia-Digital/service-booking/internal/booking"
	"github.com/Barbearia-Digital/service-booking/internal/bookingapi"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
	"github.com/Barbearia-Digital/service-booking/internal/schedule"
	"github.com/Barbearia-Digital/service-booking/internal/terminal"
)

type ServicosCmd struct{}

func (c *ServicosCmd) Run(a *app) error {
	ctrl := a.controller()
	if err := ctrl.LoadCatalog(context.Background()); err != nil {
		return fmt.Errorf("carregar cortes: %w", err)
	}
	a.display.Services(ctrl.Services())
	return nil
}

type AgendaCmd struct {
	Filtro string `short:"f" help:"Período: hoje, amanha, semana, mes ou todos." default:"hoje" enum:"hoje,amanha,semana,mes,todos"`
}

func (c *AgendaCmd) Run(a *app) error {
	w, err := schedule.ParseWindow(c.Filtro)
	if err != nil {
		return err
	}
	b := a.board(nil, schedule.WithWindow(w))
	defer b.Close()
	return b.Load(context.Background())
}

type AgendarCmd struct {
	Nome      string `short:"n" required:"" help:"Nome do cliente."`
	Corte     int64  `short:"c" required:"" help:"ID do corte (veja 'servicos')."`
	Data      string `short:"d" required:"" help:"Data no formato AAAA-MM-DD."`
	Horario   string `short:"H" required:"" help:"Horário no formato HH:MM."`
	Pagamento string `short:"p" required:"" help:"Forma de pagamento: dinheiro, pix ou cartao."`
	Voucher   string `short:"v" help:"Código do voucher (não vale para dinheiro)."`
}

func (c *AgendarCmd) Run(a *app) error {
	ctx := context.Background()
	ctrl := a.controller()
	defer ctrl.Close()

	if err := ctrl.LoadCatalog(ctx); err != nil {
		return fmt.Errorf("carregar cortes: %w", err)
	}
	if err := ctrl.SelectService(c.Corte); err != nil {
		return err
	}
	ctrl.SetClientName(c.Nome)
	ctrl.SetDate(c.Data)
	ctrl.SetTimeSlot(c.Horario)

	method, err := booking.ParsePaymentMethod(c.Pagamento)
	if err != nil {
		return err
	}
	if err := ctrl.SetPaymentMethod(method); err != nil {
		return err
	}

	if code := strings.TrimSpace(c.Voucher); code != "" {
		if err := ctrl.ApplyVoucher(ctx, code); err != nil {
			// The controller already told the user why.
			return errors.New("voucher não aplicado")
		}
		q := ctrl.Quote()
		a.notifier.Notify(fmt.Sprintf("Valor com desconto: %s", formatQuote(q.FinalCents, q.DiscountCents)))
	}

	if _, err := ctrl.SubmitDraft(ctx); err != nil {
		if msg := ctrl.InlineError(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return nil
}

type EditarCmd struct {
	ID         int64  `arg:"" help:"ID do agendamento."`
	Nome       string `help:"Novo nome do cliente."`
	Corte      string `help:"Novo corte (nome)."`
	Data       string `help:"Nova data (AAAA-MM-DD)."`
	Horario    string `help:"Novo horário (HH:MM)."`
	Pagamento  string `help:"Nova forma de pagamento."`
	Voucher    string `help:"Novo código de voucher."`
	SemVoucher bool   `help:"Remove o voucher aplicado."`
}

func (c *EditarCmd) update() (bookingapi.AppointmentUpdate, error) {
	var upd bookingapi.AppointmentUpdate
	set := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	set(&upd.ClientName, c.Nome)
	set(&upd.ServiceType, c.Corte)
	set(&upd.Date, c.Data)
	set(&upd.TimeSlot, c.Horario)
	if c.Pagamento != "" {
		if _, err := booking.ParsePaymentMethod(c.Pagamento); err != nil {
			return upd, err
		}
		set(&upd.Payment, c.Pagamento)
	}
	switch {
	case c.SemVoucher && c.Voucher != "":
		return upd, errors.New("--voucher e --sem-voucher são exclusivos")
	case c.SemVoucher:
		empty := ""
		upd.Voucher = &empty
	default:
		set(&upd.Voucher, c.Voucher)
	}
	if upd == (bookingapi.AppointmentUpdate{}) {
		return upd, errors.New("nada para alterar")
	}
	return upd, nil
}

func (c *EditarCmd) Run(a *app) error {
	upd, err := c.update()
	if err != nil {
		return err
	}
	b := a.board(nil, schedule.WithWindow(schedule.WindowAll))
	defer b.Close()
	_, err = b.Edit(context.Background(), c.ID, upd)
	return err
}

type RemoverCmd struct {
	ID  int64 `arg:"" help:"ID do agendamento."`
	Sim bool  `short:"y" help:"Não pede confirmação."`
}

func (c *RemoverCmd) Run(a *app) error {
	b := a.board(terminal.NewConfirmer(c.Sim, a.logger), schedule.WithWindow(schedule.WindowAll))
	defer b.Close()
	return b.Remove(context.Background(), c.ID)
}

func formatQuote(finalCents, discountCents int64) string {
	return fmt.Sprintf("%s (economia de %s)", pricing.Format(finalCents), pricing.Format(discountCents))
}
