package util

import (
	"context"
	"fmt"
	"time"

	"furniadmin/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName = "catalog-service"

	// Ключ кеша списка категорий, который читает витрина
	categoriesCacheKey = "categories:all"
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// DeleteCategories сбрасывает кеш категорий
func (r *RedisClient) DeleteCategories(ctx context.Context) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, categoriesCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete categories from cache: %w", err)
	}
	return nil
}

// Locker возвращает блокировку импорта поверх того же соединения
func (r *RedisClient) Locker(ttl time.Duration) *RedisLocker {
	return NewRedisLocker(r.client, ttl)
}

// Ping используется health check
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// NoopCache используется, когда Redis не настроен
type NoopCache struct{}

func (NoopCache) DeleteCategories(context.Context) error { return nil }

func (NoopCache) Close() error { return nil }
