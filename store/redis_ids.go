package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisTicketIDRegistry keeps the issued-identifier set in Redis so
// multiple engine instances share one claim space. SET NX makes the
// claim atomic: exactly one of two concurrent claimers wins.
type RedisTicketIDRegistry struct {
	Redis *redis.Client
}

func NewRedisTicketIDRegistry(redisClient *redis.Client) *RedisTicketIDRegistry {
	return &RedisTicketIDRegistry{Redis: redisClient}
}

func ticketIDKey(id string) string {
	return fmt.Sprintf("ticket:id:%s", id)
}

func (r *RedisTicketIDRegistry) ClaimTicketID(ctx context.Context, id string) (bool, error) {
	claimed, err := r.Redis.SetNX(ctx, ticketIDKey(id), "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis claim ticket id: %w", err)
	}
	return claimed, nil
}

func (r *RedisTicketIDRegistry) ReleaseTicketID(ctx context.Context, id string) error {
	if err := r.Redis.Del(ctx, ticketIDKey(id)).Err(); err != nil {
		return fmt.Errorf("redis release ticket id: %w", err)
	}
	return nil
}
