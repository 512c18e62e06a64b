package repository

import (
	"context"
	"errors"
	"time"

	"tablelog/ratings-service/internal/app/ratings/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrReviewNotFound     = errors.New("review not found")
	// ErrDuplicateKey - нарушение уникального ограничения (Postgres 23505).
	// Service layer использует его как явный сигнал конфликта,
	// а не разбирает текст ошибки драйвера.
	ErrDuplicateKey = errors.New("duplicate key")
)

// RestaurantRepository определяет операции над таблицей restaurants
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *entity.Restaurant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error)
	FindByNameFold(ctx context.Context, name string) (*entity.Restaurant, error)
	Delete(ctx context.Context, id uuid.UUID, createdBy string) (int64, error)
	GetSummaries(ctx context.Context) ([]entity.RestaurantSummary, error)
}

// ReviewRepository определяет операции над таблицами reviews и review_aspects.
// Строки аспектов принадлежат отзыву, поэтому живут в том же репозитории.
type ReviewRepository interface {
	Insert(ctx context.Context, review *entity.Review) error
	UpdateActive(ctx context.Context, restaurantID uuid.UUID, userID string, ratingHalf int, comment *string) (int64, error)
	GetActiveByRestaurantAndUser(ctx context.Context, restaurantID uuid.UUID, userID string) (*entity.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	SoftDelete(ctx context.Context, id uuid.UUID, userID string, deletedAt time.Time) (int64, error)
	CountActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	GetActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]entity.Review, error)
	GetActiveByUser(ctx context.Context, userID string) ([]entity.Review, error)
	DeleteAspects(ctx context.Context, reviewID uuid.UUID) error
	CreateAspects(ctx context.Context, aspects []entity.ReviewAspect) error
	GetAspects(ctx context.Context, reviewID uuid.UUID) ([]entity.ReviewAspect, error)
}
