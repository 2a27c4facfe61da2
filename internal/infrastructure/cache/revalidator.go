package cache

import (
	"context"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher broadcasts revalidation messages to other instances
type Publisher interface {
	Publish(ctx context.Context, msg RevalidationMessage) error
}

// Subscriber receives revalidation messages from other instances
type Subscriber interface {
	Subscribe(ctx context.Context, callback func(msg RevalidationMessage)) error
}

// Revalidator drops stale storefront pages after a write, locally and, when a
// publisher is configured, on every other instance.
type Revalidator struct {
	cache     PageCache
	publisher Publisher
	origin    string
	timeout   time.Duration
	logger    *zap.Logger
}

// RevalidatorOption is a functional option for configuring the revalidator
type RevalidatorOption func(*Revalidator)

// WithPublisher broadcasts revalidations through p
func WithPublisher(p Publisher) RevalidatorOption {
	return func(r *Revalidator) {
		r.publisher = p
	}
}

// WithRevalidatorLogger sets the logger for the revalidator
func WithRevalidatorLogger(logger *zap.Logger) RevalidatorOption {
	return func(r *Revalidator) {
		r.logger = logger
	}
}

// NewRevalidator creates a revalidator for cache. A nil cache is allowed when
// page caching is disabled.
func NewRevalidator(cache PageCache, opts ...RevalidatorOption) *Revalidator {
	r := &Revalidator{
		cache:   cache,
		origin:  uuid.NewString(),
		timeout: 2 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Revalidate invalidates tags locally and broadcasts them. It never fails the
// caller and outlives the caller's cancellation.
func (r *Revalidator) Revalidate(ctx context.Context, tags ...string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	r.invalidate(ctx, tags)

	if r.publisher == nil {
		return
	}
	msg := RevalidationMessage{Tags: tags, Origin: r.origin, Timestamp: time.Now().UnixNano()}
	if err := r.publisher.Publish(ctx, msg); err != nil {
		r.logger.Warn("Failed to publish revalidation", zap.Strings("tags", tags), zap.Error(err))
	}
}

// HandleMessage applies a revalidation received from another instance
func (r *Revalidator) HandleMessage(msg RevalidationMessage) {
	if msg.Origin == r.origin {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.invalidate(ctx, msg.Tags)
}

// Listen applies revalidations from other instances until ctx is done
func (r *Revalidator) Listen(ctx context.Context, sub Subscriber) error {
	return sub.Subscribe(ctx, r.HandleMessage)
}

func (r *Revalidator) invalidate(ctx context.Context, tags []string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, tags...); err != nil {
		r.logger.Warn("Failed to invalidate page cache", zap.Strings("tags", tags), zap.Error(err))
		return
	}
	r.logger.Debug("Page cache revalidated", zap.Strings("tags", tags))
}

// Ensure Revalidator implements shared.Revalidator
var _ shared.Revalidator = (*Revalidator)(nil)
