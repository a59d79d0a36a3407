package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Barbearia-Digital/service-booking/internal/booking"
	"github.com/Barbearia-Digital/service-booking/internal/bookingapi"
	"github.com/Barbearia-Digital/service-booking/internal/config"
	"github.com/Barbearia-Digital/service-booking/internal/schedule"
	"github.com/Barbearia-Digital/service-booking/internal/session"
	"github.com/Barbearia-Digital/service-booking/internal/terminal"
)

// app carries the collaborators every command needs.
type app struct {
	logger   *zap.Logger
	loc      *time.Location
	session  *session.Store
	api      *bookingapi.Client
	display  *terminal.Display
	notifier *terminal.Notifier
	receipt  *terminal.Receipt
	redis    *redis.Client
}

func newApp(cfg *config.ClientConfig, logger *zap.Logger, out io.Writer) (*app, error) {
	store := session.NewStore()
	if cfg.User != "" || cfg.Token != "" {
		store.SignIn(cfg.User, cfg.Role, cfg.Token)
	}

	api := bookingapi.New(cfg.APIURL,
		bookingapi.WithTokenSource(store),
		bookingapi.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		bookingapi.WithLogger(logger),
	)

	a := &app{
		logger:   logger,
		loc:      config.Location(cfg.Timezone),
		session:  store,
		api:      api,
		display:  terminal.NewDisplay(out),
		notifier: terminal.NewNotifier(out),
		receipt:  terminal.NewReceipt(out),
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
			_ = a.redis.Close()
			a.redis = nil
		} else {
			api.UseRedisCache(a.redis, cfg.CacheTTL)
		}
	}

	return a, nil
}

func (a *app) controller() *booking.Controller {
	return booking.NewController(a.api, a.notifier, a.receipt, a.logger.Named("booking"))
}

func (a *app) board(confirmer schedule.Confirmer, opts ...schedule.BoardOption) *schedule.Board {
	opts = append([]schedule.BoardOption{
		schedule.WithClock(func() time.Time { return time.Now().In(a.loc) }),
	}, opts...)
	return schedule.NewBoard(a.api, a.display, a.notifier, confirmer, a.session, a.logger.Named("schedule"), opts...)
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
