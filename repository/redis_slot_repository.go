package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// redisSlotRepository stores each slot as a plain string key without expiry.
type redisSlotRepository struct {
	client *redis.Client
}

// NewRedisSlotRepository creates a Redis-backed SlotRepository.
func NewRedisSlotRepository(client *redis.Client) SlotRepository {
	return &redisSlotRepository{client: client}
}

func (r *redisSlotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	return val, true, nil
}

func (r *redisSlotRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set slot %s: %w", key, err)
	}
	return nil
}

func (r *redisSlotRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (r *redisSlotRepository) Close() error {
	return r.client.Close()
}
