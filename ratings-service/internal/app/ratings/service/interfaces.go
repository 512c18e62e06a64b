package service

import (
	"context"

	"tablelog/pkg/rating"
	"tablelog/ratings-service/internal/app/ratings/entity"

	"github.com/google/uuid"
)

type ReviewServiceInterface interface {
	AddReview(ctx context.Context, userID string, form *rating.ReviewFormData) (*entity.Review, error)
	DeleteReview(ctx context.Context, userID string, reviewID uuid.UUID) error
	GetRestaurantReviews(ctx context.Context, restaurantID uuid.UUID) ([]entity.Review, error)
	GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error)
	GetReviewAspects(ctx context.Context, reviewID uuid.UUID) ([]entity.ReviewAspect, error)
}

type RestaurantServiceInterface interface {
	AddRestaurant(ctx context.Context, userID string, form *rating.RestaurantFormData) (*entity.Restaurant, error)
	DeleteRestaurant(ctx context.Context, userID string, restaurantID uuid.UUID) error
	GetRestaurants(ctx context.Context) ([]entity.RestaurantSummary, error)
	WarmSummaryCache(ctx context.Context) error
}
