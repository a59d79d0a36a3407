package kafka

import (
	"context"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// LocalBus is an in-process Publisher used when no brokers are configured.
// Handlers run synchronously on the publishing goroutine.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]MessageHandler
	logger   *zap.Logger
}

// NewLocalBus creates an empty bus.
func NewLocalBus(logger *zap.Logger) *LocalBus {
	return &LocalBus{handlers: make(map[string][]MessageHandler), logger: logger}
}

// Subscribe registers handler for topic.
func (b *LocalBus) Subscribe(topic string, handler MessageHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// PublishEvent delivers ce to every handler of topic. Handler errors are logged, not returned.
func (b *LocalBus) PublishEvent(ctx context.Context, topic string, ce CloudEvent) error {
	value, err := ce.MarshalValue()
	if err != nil {
		return err
	}

	b.mu.RLock()
	handlers := append([]MessageHandler(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	msg := kafkago.Message{Topic: topic, Key: []byte(ce.Subject), Value: value}
	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			b.logger.Error("local event handler failed",
				zap.String("topic", topic),
				zap.String("type", ce.Type),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Close is a no-op.
func (b *LocalBus) Close() error { return nil }
