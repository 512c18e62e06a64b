package util

import (
	"context"
	"time"

	"tablelog/ratings-service/internal/app/ratings/entity"
)

// SummaryCache интерфейс кеша сводок ресторанов в Redis.
// Используется для dependency injection и упрощения тестирования.
type SummaryCache interface {
	SetSummaries(ctx context.Context, summaries []entity.RestaurantSummary, ttl time.Duration) error
	GetSummaries(ctx context.Context) ([]entity.RestaurantSummary, error)
	InvalidateSummaries(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки событий в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
