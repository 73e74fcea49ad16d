package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"NovaStream/core/agent"
	"NovaStream/logger"
	"NovaStream/model"

	"github.com/go-redis/redis/v8"
)

// GetSuggestionKey 根据文件名生成建议缓存的Redis键
func GetSuggestionKey(prefix, fileName string) string {
	return fmt.Sprintf("%ssuggestion:%s", prefix, fileName)
}

// SuggestionCache wraps a Suggester and keeps successful answers in Redis.
// Failures are never cached, so the caller still falls back per request.
type SuggestionCache struct {
	client *redis.Client
	next   agent.Suggester
	prefix string
	ttl    time.Duration
}

// NewSuggestionCache creates the cache. ttl must be positive.
func NewSuggestionCache(client *redis.Client, next agent.Suggester, prefix string, ttl time.Duration) *SuggestionCache {
	return &SuggestionCache{client: client, next: next, prefix: prefix, ttl: ttl}
}

// Suggest implements agent.Suggester.
func (c *SuggestionCache) Suggest(ctx context.Context, fileName string) (model.Suggestion, error) {
	key := GetSuggestionKey(c.prefix, fileName)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached model.Suggestion
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			logger.Debug("[SuggestionCache] hit", logger.String("fileName", fileName))
			return cached, nil
		}
	case !errors.Is(err, redis.Nil):
		// Redis 不可用时直接请求下游
		logger.Warn("[SuggestionCache] read failed", logger.ErrorField(err))
	}

	suggestion, err := c.next.Suggest(ctx, fileName)
	if err != nil {
		return model.Suggestion{}, err
	}

	data, err := json.Marshal(suggestion)
	if err != nil {
		return suggestion, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("[SuggestionCache] write failed", logger.ErrorField(err))
	}
	return suggestion, nil
}
