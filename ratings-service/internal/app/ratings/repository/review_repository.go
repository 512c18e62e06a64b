package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tablelog/ratings-service/internal/app/ratings/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository создает новый репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Insert вставляет новый отзыв.
// Конфликт частичного уникального индекса (один активный отзыв на пару
// ресторан/пользователь) возвращается как ErrDuplicateKey,
// service layer переключается на update.
func (r *reviewRepository) Insert(ctx context.Context, review *entity.Review) error {
	result := r.db.WithContext(ctx).Create(review)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert review: %w", result.Error)
	}

	return nil
}

// UpdateActive обновляет оценку и комментарий активного отзыва пары
// (restaurant_id, user_id). Возвращает число затронутых строк.
func (r *reviewRepository) UpdateActive(ctx context.Context, restaurantID uuid.UUID, userID string, ratingHalf int, comment *string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("restaurant_id = ? AND user_id = ? AND deleted_at IS NULL", restaurantID, userID).
		Updates(map[string]interface{}{
			"rating_half": ratingHalf,
			"comment":     comment,
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to update review: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// GetActiveByRestaurantAndUser получает активный отзыв пользователя о ресторане
func (r *reviewRepository) GetActiveByRestaurantAndUser(ctx context.Context, restaurantID uuid.UUID, userID string) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND user_id = ? AND deleted_at IS NULL", restaurantID, userID).
		First(&review)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", result.Error)
	}

	return &review, nil
}

// GetByID получает отзыв по ID (включая мягко удалённые)
func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).First(&review, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", result.Error)
	}

	return &review, nil
}

// SoftDelete проставляет deleted_at, условие включает и id, и user_id.
// Возвращает число затронутых строк - ноль трактуется выше как несогласованность.
func (r *reviewRepository) SoftDelete(ctx context.Context, id uuid.UUID, userID string, deletedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("deleted_at", deletedAt)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to soft delete review: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// CountActiveByRestaurant считает активные отзывы ресторана
func (r *reviewRepository) CountActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("restaurant_id = ? AND deleted_at IS NULL", restaurantID).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", result.Error)
	}

	return count, nil
}

// GetActiveByRestaurant получает все активные отзывы ресторана, новые первыми
func (r *reviewRepository) GetActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND deleted_at IS NULL", restaurantID).
		Order("created_at DESC").
		Find(&reviews)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", result.Error)
	}

	return reviews, nil
}

// GetActiveByUser получает все активные отзывы пользователя, новые первыми
func (r *reviewRepository) GetActiveByUser(ctx context.Context, userID string) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at DESC").
		Find(&reviews)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", result.Error)
	}

	return reviews, nil
}

// DeleteAspects удаляет все строки аспектов отзыва
func (r *reviewRepository) DeleteAspects(ctx context.Context, reviewID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Delete(&entity.ReviewAspect{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete review aspects: %w", result.Error)
	}

	return nil
}

// CreateAspects вставляет новый набор аспектов отзыва
func (r *reviewRepository) CreateAspects(ctx context.Context, aspects []entity.ReviewAspect) error {
	if len(aspects) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Create(&aspects)
	if result.Error != nil {
		return fmt.Errorf("failed to create review aspects: %w", result.Error)
	}

	return nil
}

// GetAspects получает аспекты отзыва в порядке aspect_id
func (r *reviewRepository) GetAspects(ctx context.Context, reviewID uuid.UUID) ([]entity.ReviewAspect, error) {
	var aspects []entity.ReviewAspect
	result := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("aspect_id").
		Find(&aspects)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to get review aspects: %w", result.Error)
	}

	return aspects, nil
}
