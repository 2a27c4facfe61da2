package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultRevalidationChannel is the Pub/Sub channel revalidation messages travel on
	DefaultRevalidationChannel = "jagopilih:revalidate"

	defaultCloseTimeout = 5 * time.Second
)

// RevalidationMessage tells other instances which cached pages are stale
type RevalidationMessage struct {
	Tags      []string `json:"tags"`
	Origin    string   `json:"origin"`
	Timestamp int64    `json:"timestamp"`
}

// RedisRevalidationBus broadcasts revalidation messages using Redis Pub/Sub
type RedisRevalidationBus struct {
	client    *redis.Client
	channel   string
	logger    *zap.Logger
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// RedisRevalidationBusOption is a functional option for configuring the bus
type RedisRevalidationBusOption func(*RedisRevalidationBus)

// WithBusChannel sets the Pub/Sub channel name
func WithBusChannel(channel string) RedisRevalidationBusOption {
	return func(b *RedisRevalidationBus) {
		if channel != "" {
			b.channel = channel
		}
	}
}

// WithBusLogger sets the logger for the bus
func WithBusLogger(logger *zap.Logger) RedisRevalidationBusOption {
	return func(b *RedisRevalidationBus) {
		b.logger = logger
	}
}

// NewRedisRevalidationBus creates a bus on an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisRevalidationBus(client *redis.Client, opts ...RedisRevalidationBusOption) *RedisRevalidationBus {
	b := &RedisRevalidationBus{
		client:  client,
		channel: DefaultRevalidationChannel,
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Channel returns the Pub/Sub channel name
func (b *RedisRevalidationBus) Channel() string {
	return b.channel
}

// Publish sends a revalidation message to all subscribers
func (b *RedisRevalidationBus) Publish(ctx context.Context, msg RevalidationMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	b.logger.Debug("Published revalidation message",
		zap.Strings("tags", msg.Tags),
		zap.String("channel", b.channel))

	return nil
}

// Subscribe listens for revalidation messages and calls callback for each.
// It blocks until ctx is cancelled or Close is called, so run it in a goroutine.
func (b *RedisRevalidationBus) Subscribe(ctx context.Context, callback func(msg RevalidationMessage)) error {
	b.mu.Lock()
	if b.isRunning {
		b.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	b.isRunning = true
	subCtx, cancel := context.WithCancel(ctx)
	b.cancelFn = cancel
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.isRunning = false
		b.mu.Unlock()
		b.markDone()
	}()

	pubsub := b.client.Subscribe(subCtx, b.channel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Info("Subscribed to revalidation channel", zap.String("channel", b.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			b.logger.Info("Revalidation subscription stopped")
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn("Revalidation channel closed")
				return nil
			}

			var m RevalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				b.logger.Error("Failed to unmarshal revalidation message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			b.dispatch(callback, m)
		}
	}
}

// dispatch runs callback and keeps a panicking callback from ending the subscription
func (b *RedisRevalidationBus) dispatch(callback func(RevalidationMessage), m RevalidationMessage) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Panic in revalidation callback", zap.Any("panic", r))
		}
	}()
	callback(m)
}

// markDone safely marks the subscription as finished
func (b *RedisRevalidationBus) markDone() {
	b.doneOnce.Do(func() {
		close(b.doneCh)
	})
}

// Close stops a running subscription
func (b *RedisRevalidationBus) Close() error {
	b.mu.Lock()
	cancelFn := b.cancelFn
	b.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-b.doneCh:
		case <-time.After(defaultCloseTimeout):
			b.logger.Warn("Timeout waiting for subscription to stop")
		}
	}
	return nil
}
