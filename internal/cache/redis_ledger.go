package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLedger(rdb *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{rdb: rdb, ttl: ttl}
}

type deliveredValue struct {
	FileName    string    `json:"fileName"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

func (c *RedisLedger) StoreDelivered(ctx context.Context, day string, fileName string, deliveredAt time.Time) error {
	key := fmt.Sprintf("report:%s", day)
	val := deliveredValue{
		FileName:    fileName,
		DeliveredAt: deliveredAt.UTC(),
	}

	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func (c *RedisLedger) AlreadyDelivered(ctx context.Context, day string) (bool, error) {
	key := fmt.Sprintf("report:%s", day)

	err := c.rdb.Get(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
