// Package cache keeps read-through copies of catalogue data in Redis.
//
// Products never change after seeding, so entries only expire by TTL or are dropped
// wholesale by Invalidate after a seed. Every method is best effort: a Redis failure is
// logged and reported as a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resinstore/internal/config"
	"resinstore/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	allProductsKey   = "products:all"
	productKeyPrefix = "product:"
)

// ProductCache stores product lists and single products.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]model.Product, bool)
	SetProducts(ctx context.Context, products []model.Product)
	GetProduct(ctx context.Context, id string) (*model.Product, bool)
	SetProduct(ctx context.Context, product *model.Product)
	Invalidate(ctx context.Context)
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("redis connected")
	return client, nil
}

type redisProductCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisProductCache creates a Redis-backed product cache.
func NewRedisProductCache(client redis.Cmdable, ttl time.Duration, logger zerolog.Logger) ProductCache {
	return &redisProductCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "product-cache").Logger(),
	}
}

func (c *redisProductCache) GetProducts(ctx context.Context) ([]model.Product, bool) {
	var products []model.Product
	if !c.get(ctx, allProductsKey, &products) {
		return nil, false
	}
	return products, true
}

func (c *redisProductCache) SetProducts(ctx context.Context, products []model.Product) {
	c.set(ctx, allProductsKey, products)
}

func (c *redisProductCache) GetProduct(ctx context.Context, id string) (*model.Product, bool) {
	var product model.Product
	if !c.get(ctx, productKeyPrefix+id, &product) {
		return nil, false
	}
	return &product, true
}

func (c *redisProductCache) SetProduct(ctx context.Context, product *model.Product) {
	c.set(ctx, productKeyPrefix+product.ID, product)
}

// Invalidate drops the product list and every single-product entry.
func (c *redisProductCache) Invalidate(ctx context.Context) {
	keys := []string{allProductsKey}

	iter := c.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to scan product cache keys")
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to invalidate product cache")
	}
}

func (c *redisProductCache) get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		return false
	}
	return true
}

func (c *redisProductCache) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// noopCache is used when Redis is disabled.
type noopCache struct{}

// NewNoopProductCache returns a cache that never hits.
func NewNoopProductCache() ProductCache {
	return noopCache{}
}

func (noopCache) GetProducts(context.Context) ([]model.Product, bool) { return nil, false }
func (noopCache) SetProducts(context.Context, []model.Product) {}
func (noopCache) GetProduct(context.Context, string) (*model.Product, bool) { return nil, false }
func (noopCache) SetProduct(context.Context, *model.Product) {}
func (noopCache) Invalidate(context.Context) {}
