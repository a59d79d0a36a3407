package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/bookingapi"
	"github.com/Barbearia-Digital/service-booking/internal/session"
	"go.uber.org/zap"
)

const (
	msgConfirmRemove = "Tem certeza que deseja remover este agendamento?"
	msgRemoved       = "Agendamento removido com sucesso!"
	msgRemoveFailed  = "Erro ao remover agendamento."
	msgUpdated       = "Agendamento atualizado com sucesso!"
	msgUpdateFailed  = "Erro ao atualizar agendamento."
	msgConnection    = "Erro ao conectar ao servidor."
	msgLoadFailed    = "Erro ao carregar agendamentos."
	msgAdminOnly     = "Apenas administradores podem alterar agendamentos."
)

// ErrForbidden is returned when a non-admin tries to change an appointment.
var ErrForbidden = errors.New("schedule: admin role required")

// API is the part of the booking API the board uses.
type API interface {
	ListAppointments(ctx context.Context) ([]bookingapi.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, upd bookingapi.AppointmentUpdate) (*bookingapi.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) (string, error)
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// Confirmer asks the user to confirm a destructive action and calls onConfirm
// only when they accept.
type Confirmer interface {
	Confirm(message string, onConfirm func())
}

// Identities is the session the board follows.
type Identities interface {
	Current() session.Identity
	Subscribe(fn func(session.Identity)) func()
}

// Mode is how entries are laid out.
type Mode string

const (
	ModeTable Mode = "tabela"
	ModeCards Mode = "cartoes"
)

// View is what the display sink receives on every change.
type View struct {
	Window  Window
	Mode    Mode
	Entries []Entry
	// Error is set when the last fetch failed.
	Error string
}

// DisplaySink renders a View.
type DisplaySink interface {
	Render(View)
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) { b.now = now }
}

// WithWindow starts the board on w instead of DefaultWindow. Unknown windows
// are ignored.
func WithWindow(w Window) BoardOption {
	return func(b *Board) {
		if _, err := ParseWindow(string(w)); err == nil {
			b.window = w
		}
	}
}

// Board keeps the last fetched appointment list and renders the subset that
// matches the selected window. Changing the window never fetches.
type Board struct {
	api       API
	sink      DisplaySink
	notifier  Notifier
	confirmer Confirmer
	session   Identities
	logger    *zap.Logger
	now       func() time.Time

	mu          sync.Mutex
	all         []bookingapi.Appointment
	window      Window
	loadErr     string
	unsubscribe func()
}

// NewBoard creates a Board showing DefaultWindow. It re-renders whenever the
// session identity changes until Close is called.
func NewBoard(api API, sink DisplaySink, notifier Notifier, confirmer Confirmer, sess Identities, logger *zap.Logger, opts ...BoardOption) *Board {
	b := &Board{
		api:       api,
		sink:      sink,
		notifier:  notifier,
		confirmer: confirmer,
		session:   sess,
		logger:    logger,
		now:       time.Now,
		window:    DefaultWindow,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.unsubscribe = sess.Subscribe(func(session.Identity) { b.render() })
	return b
}

// Load fetches the full list and renders it.
func (b *Board) Load(ctx context.Context) error {
	list, err := b.api.ListAppointments(ctx)

	b.mu.Lock()
	if err != nil {
		b.loadErr = msgLoadFailed
	} else {
		b.all = list
		b.loadErr = ""
	}
	b.mu.Unlock()

	if err != nil {
		b.logger.Warn("failed to load appointments", zap.Error(err))
	}
	b.render()
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}
	return nil
}

// SetDateFilter selects w and re-renders from the last fetched list.
func (b *Board) SetDateFilter(w Window) error {
	if _, err := ParseWindow(string(w)); err != nil {
		return err
	}
	b.mu.Lock()
	b.window = w
	b.mu.Unlock()
	b.render()
	return nil
}

// Window returns the selected window.
func (b *Board) Window() Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.window
}

// Filtered returns the entries for the selected window.
func (b *Board) Filtered() []Entry {
	b.mu.Lock()
	list, w := b.all, b.window
	b.mu.Unlock()
	return Filter(list, w, b.now())
}

// Remove asks for confirmation and deletes the appointment with id. The list
// is re-fetched after a successful delete. Only admins may remove.
func (b *Board) Remove(ctx context.Context, id int64) error {
	if !b.session.Current().IsAdmin() {
		b.notify(msgAdminOnly)
		return ErrForbidden
	}

	b.confirmer.Confirm(msgConfirmRemove, func() {
		msg, err := b.api.DeleteAppointment(ctx, id)
		if err != nil {
			b.logger.Warn("failed to remove appointment", zap.Int64("id", id), zap.Error(err))
			b.notify(failureMessage(err, msgRemoveFailed))
			return
		}
		b.logger.Info("appointment removed", zap.Int64("id", id))
		_ = b.Load(ctx)
		if msg == "" {
			msg = msgRemoved
		}
		b.notify(msg)
	})
	return nil
}

// Edit applies upd to the appointment with id and re-fetches the list.
// Only admins may edit.
func (b *Board) Edit(ctx context.Context, id int64, upd bookingapi.AppointmentUpdate) (*bookingapi.Appointment, error) {
	if !b.session.Current().IsAdmin() {
		b.notify(msgAdminOnly)
		return nil, ErrForbidden
	}

	appt, err := b.api.UpdateAppointment(ctx, id, upd)
	if err != nil {
		b.logger.Warn("failed to update appointment", zap.Int64("id", id), zap.Error(err))
		b.notify(failureMessage(err, msgUpdateFailed))
		return nil, err
	}
	_ = b.Load(ctx)
	b.notify(msgUpdated)
	return appt, nil
}

// Close stops following session changes.
func (b *Board) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

func (b *Board) render() {
	b.mu.Lock()
	list, w, loadErr := b.all, b.window, b.loadErr
	b.mu.Unlock()

	mode := ModeCards
	if b.session.Current().IsAdmin() {
		mode = ModeTable
	}
	b.sink.Render(View{
		Window:  w,
		Mode:    mode,
		Entries: Filter(list, w, b.now()),
		Error:   loadErr,
	})
}

func (b *Board) notify(msg string) {
	if b.notifier != nil {
		b.notifier.Notify(msg)
	}
}

func failureMessage(err error, fallback string) string {
	if msg, ok := bookingapi.ServerMessage(err); ok {
		return msg
	}
	if bookingapi.IsTransport(err) {
		return msgConnection
	}
	return fallback
}
