package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tablelog/ratings-service/internal/app/ratings/entity"
	"tablelog/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const summariesCacheKey = "restaurants:summaries"

// RedisClient обертка над Redis для кеширования сводок ресторанов.
// Сигнал инвалидации после каждой записи - просто удаление ключа:
// следующий читатель пересчитает агрегаты из Postgres.
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

func (r *RedisClient) SetSummaries(ctx context.Context, summaries []entity.RestaurantSummary, ttl time.Duration) error {
	timer := metrics.NewRedisTimer("ratings-service", metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal restaurant summaries: %w", err)
	}

	if err := r.client.Set(ctx, summariesCacheKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError("ratings-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set restaurant summaries in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetSummaries(ctx context.Context) ([]entity.RestaurantSummary, error) {
	timer := metrics.NewRedisTimer("ratings-service", metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, summariesCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("ratings-service", "restaurants")
			return nil, nil
		}
		metrics.RecordRedisError("ratings-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get restaurant summaries from cache: %w", err)
	}

	var summaries []entity.RestaurantSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal restaurant summaries: %w", err)
	}

	metrics.RecordCacheHit("ratings-service", "restaurants")
	return summaries, nil
}

func (r *RedisClient) InvalidateSummaries(ctx context.Context) error {
	timer := metrics.NewRedisTimer("ratings-service", metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, summariesCacheKey).Err(); err != nil {
		metrics.RecordRedisError("ratings-service", metrics.RedisOpDel)
		return fmt.Errorf("failed to invalidate restaurant summaries cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
