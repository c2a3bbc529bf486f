package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache holds order details. Orders never change after creation, so an
// entry only has to be dropped when the order is deleted. Set never replaces
// an existing entry, and Delete leaves a tombstone, so a read that raced a
// delete cannot bring the order back.
type Cache interface {
	Get(ctx context.Context, id int64) (*Order, bool)
	Set(ctx context.Context, o *Order)
	Delete(ctx context.Context, id int64)
}

const (
	orderKey  = "pos:order:%d"
	tombstone = "deleted"
)

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) Cache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, id int64) (*Order, bool) {
	b, err := c.rdb.Get(ctx, fmt.Sprintf(orderKey, id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Int64("order_id", id).Msg("cache: failed to read order")
		}
		return nil, false
	}
	if string(b) == tombstone {
		return nil, false
	}

	var o Order
	if err := json.Unmarshal(b, &o); err != nil {
		log.Warn().Err(err).Int64("order_id", id).Msg("cache: dropping undecodable order entry")
		if err := c.rdb.Del(ctx, fmt.Sprintf(orderKey, id)).Err(); err != nil {
			log.Warn().Err(err).Int64("order_id", id).Msg("cache: failed to drop order entry")
		}
		return nil, false
	}

	return &o, true
}

func (c *redisCache) Set(ctx context.Context, o *Order) {
	b, err := json.Marshal(o)
	if err != nil {
		log.Warn().Err(err).Int64("order_id", o.ID).Msg("cache: failed to encode order")
		return
	}

	if err := c.rdb.SetNX(ctx, fmt.Sprintf(orderKey, o.ID), b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Int64("order_id", o.ID).Msg("cache: failed to store order")
	}
}

func (c *redisCache) Delete(ctx context.Context, id int64) {
	if err := c.rdb.Set(ctx, fmt.Sprintf(orderKey, id), tombstone, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Int64("order_id", id).Msg("cache: failed to evict order")
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (*Order, bool) { return nil, false }
func (noopCache) Set(context.Context, *Order)               {}
func (noopCache) Delete(context.Context, int64)             {}
