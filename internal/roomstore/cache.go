package roomstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetCached повертає дані з кешу Redis, або викликає fetch та кешує
// результат із заданим TTL. Узагальнена мемоізація для нечастих вибірок
// (профілі тощо), не частина коректності матчингу.
func (s *RedisStore) GetCached(ctx context.Context, cacheKey string, ttl time.Duration, fetch func() ([]byte, error)) ([]byte, error) {
	cached, err := s.Client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache get %s: %w", cacheKey, err)
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}

	if err := s.Client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		// Невдалий запис у кеш не скасовує успішну вибірку.
		log.Printf("WARNING: failed to cache %s: %v", cacheKey, err)
	}
	return data, nil
}

// InvalidateCache видаляє закешований запис (після редагування профілю).
func (s *RedisStore) InvalidateCache(ctx context.Context, cacheKey string) error {
	if err := s.Client.Unlink(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", cacheKey, err)
	}
	return nil
}
