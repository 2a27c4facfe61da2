package cache

import (
	"context"
	"errors"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stack bundles the page cache and revalidation pieces selected by configuration
type Stack struct {
	Cache       PageCache
	Revalidator *Revalidator
	Bus         *RedisRevalidationBus
	TTL         time.Duration

	client *redis.Client
}

// StackOption is a functional option for configuring the stack factory
type StackOption func(*stackOptions)

type stackOptions struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithStackLogger sets the logger used by the stack and its components
func WithStackLogger(logger *zap.Logger) StackOption {
	return func(o *stackOptions) {
		o.logger = logger
	}
}

// WithInMemoryFallback controls whether the redis driver falls back to an
// in-memory cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StackOption {
	return func(o *stackOptions) {
		o.allowInMemoryFallback = allow
	}
}

// NewStack builds the cache stack for cfg.Cache.Driver:
//
//	memory  in-process page cache, no broadcast
//	redis   shared Redis page cache, revalidations broadcast on Pub/Sub
//	none    no page cache; Revalidate is a no-op
func NewStack(ctx context.Context, cfg *config.Config, opts ...StackOption) (*Stack, error) {
	o := &stackOptions{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(o)
	}

	s := &Stack{TTL: cfg.Cache.TTL}

	switch cfg.Cache.Driver {
	case "none":
		o.logger.Info("Page cache disabled")
		s.Revalidator = NewRevalidator(nil, WithRevalidatorLogger(o.logger))
		return s, nil

	case "redis":
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			if !o.allowInMemoryFallback {
				return nil, err
			}
			o.logger.Warn("Redis unavailable, falling back to in-memory page cache. "+
				"Other instances will not see revalidations.",
				zap.Error(err))
			break
		}
		s.client = client
		s.Cache = NewRedisPageCache(client, "")
		s.Bus = NewRedisRevalidationBus(client,
			WithBusChannel(cfg.Cache.Channel),
			WithBusLogger(o.logger))
		s.Revalidator = NewRevalidator(s.Cache,
			WithPublisher(s.Bus),
			WithRevalidatorLogger(o.logger))
		o.logger.Info("Using Redis page cache", zap.String("channel", s.Bus.Channel()))
		return s, nil
	}

	s.Cache = NewInMemoryPageCache()
	s.Revalidator = NewRevalidator(s.Cache, WithRevalidatorLogger(o.logger))
	o.logger.Info("Using in-memory page cache")
	return s, nil
}

// Close stops the subscriber, the cache and the Redis connection
func (s *Stack) Close() error {
	var errs []error
	if s.Bus != nil {
		errs = append(errs, s.Bus.Close())
	}
	if s.Cache != nil {
		errs = append(errs, s.Cache.Close())
	}
	if s.client != nil {
		errs = append(errs, s.client.Close())
	}
	return errors.Join(errs...)
}
