// Package bookingapi is the HTTP client for the booking API.
package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const servicesCacheKey = "barbearia:cortes"

// TokenSource supplies the bearer token for each request. An empty token sends
// the request anonymously.
type TokenSource interface {
	Token() string
}

// Client talks to the booking API. Requests carry no client-side timeout;
// cancellation comes from the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *zap.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource attaches bearer tokens to requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRateLimit caps outgoing requests at rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseRedisCache caches the service catalog in Redis for ttl.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// ListServices fetches the catalog, served from cache when configured.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if c.readCache(ctx, servicesCacheKey, &services) {
		return services, nil
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/cortes/", nil, &services); err != nil {
		return nil, err
	}
	c.writeCache(ctx, servicesCacheKey, services)
	return services, nil
}

// ValidateVoucher asks the server whether code can be redeemed by the caller.
func (c *Client) ValidateVoucher(ctx context.Context, code string) (*VoucherValidation, error) {
	var out VoucherValidation
	if err := c.doJSON(ctx, http.MethodPost, "/api/vouchers/validar", map[string]string{"codigo": code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAppointment submits a booking and returns the persisted record.
func (c *Client) CreateAppointment(ctx context.Context, req AppointmentRequest) (*Appointment, error) {
	return c.writeAppointment(ctx, http.MethodPost, "/api/agendamentos/", req)
}

// UpdateAppointment edits the appointment with id.
func (c *Client) UpdateAppointment(ctx context.Context, id int64, upd AppointmentUpdate) (*Appointment, error) {
	return c.writeAppointment(ctx, http.MethodPut, "/api/agendamentos/"+strconv.FormatInt(id, 10), upd)
}

// ListAppointments fetches every appointment in server order.
func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var list []Appointment
	if err := c.doJSON(ctx, http.MethodGet, "/api/agendamentos/", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteAppointment removes the appointment with id and returns the server's message.
func (c *Client) DeleteAppointment(ctx context.Context, id int64) (string, error) {
	var out struct {
		Message string `json:"mensagem"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/api/agendamentos/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// writeAppointment accepts both the {mensagem, sucesso, dados} envelope and a
// bare record.
func (c *Client) writeAppointment(ctx context.Context, method, path string, body any) (*Appointment, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, method, path, body, &raw); err != nil {
		return nil, err
	}

	var envelope struct {
		Data json.RawMessage `json:"dados"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		raw = envelope.Data
	}

	var appt Appointment
	if err := json.Unmarshal(raw, &appt); err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &appt, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("booking api request failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("booking api request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"erro"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(val, out); err != nil {
		c.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
