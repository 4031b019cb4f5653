package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/priceterm/internal/config"
	"github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"go.uber.org/zap"
)

// RedisInvalidator drops the cached pricing of a product after one of its terms is committed,
// then announces the product id on a pub/sub channel for in-process caches.
type RedisInvalidator struct {
	client  redis.UniversalClient
	prefix  string
	channel string
	log     *zap.Logger
}

func NewRedisInvalidator(client redis.UniversalClient, prefix, channel string, log *zap.Logger) *RedisInvalidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisInvalidator{
		client:  client,
		prefix:  prefix,
		channel: channel,
		log:     log.Named("cache.invalidator"),
	}
}

// Key returns the cache key holding the pricing of productID.
func (i *RedisInvalidator) Key(productID string) string {
	return i.prefix + productID
}

func (i *RedisInvalidator) PriceTermCommitted(ctx context.Context, event domain.CommitEvent) error {
	if event.ProductID == 0 {
		return errors.New("invalid_product_id")
	}
	productID := event.ProductID.String()

	pipe := i.client.TxPipeline()
	pipe.Del(ctx, i.Key(productID))
	if i.channel != "" {
		pipe.Publish(ctx, i.channel, productID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate pricing cache for product %s: %w", productID, err)
	}

	i.log.Debug("pricing cache invalidated",
		zap.String("product_id", productID),
		zap.String("term_id", event.TermID.String()),
		zap.String("event", string(event.Event)),
	)
	return nil
}

// NoopInvalidator is used when the pricing cache is disabled.
type NoopInvalidator struct{}

func (NoopInvalidator) PriceTermCommitted(context.Context, domain.CommitEvent) error { return nil }

// NewNotifier returns the commit notifier selected by cfg.Cache.
func NewNotifier(cfg config.Config, log *zap.Logger) (domain.Notifier, error) {
	cacheCfg := cfg.Cache
	if !cacheCfg.Enabled {
		return NoopInvalidator{}, nil
	}

	addr := strings.TrimSpace(cacheCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("pricing cache redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cacheCfg.RedisPassword),
		DB:       cacheCfg.RedisDB,
	})

	return NewRedisInvalidator(client, cacheCfg.KeyPrefix, cacheCfg.Channel, log), nil
}

var (
	_ domain.Notifier = (*RedisInvalidator)(nil)
	_ domain.Notifier = NoopInvalidator{}
)
