package repository

import (
	"context"
	"errors"
	"fmt"

	"tablelog/ratings-service/internal/app/ratings/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository создает новый репозиторий ресторанов
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникального
// ограничения. Postgres отдаёт код 23505, gorm может перевести его в
// ErrDuplicatedKey - принимаем оба варианта.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create вставляет новый ресторан.
// Нарушение уникальности имени возвращается как ErrDuplicateKey.
func (r *restaurantRepository) Create(ctx context.Context, restaurant *entity.Restaurant) error {
	result := r.db.WithContext(ctx).Create(restaurant)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create restaurant: %w", result.Error)
	}

	return nil
}

// GetByID получает ресторан по ID
func (r *restaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error) {
	var restaurant entity.Restaurant
	result := r.db.WithContext(ctx).First(&restaurant, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", result.Error)
	}

	return &restaurant, nil
}

// FindByNameFold ищет ресторан по имени без учёта регистра
func (r *restaurantRepository) FindByNameFold(ctx context.Context, name string) (*entity.Restaurant, error) {
	var restaurant entity.Restaurant
	result := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&restaurant)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to find restaurant by name: %w", result.Error)
	}

	return &restaurant, nil
}

// Delete жёстко удаляет ресторан, условие включает created_by.
// Возвращает число затронутых строк - ноль означает, что ресторан
// не существует или принадлежит другому пользователю.
func (r *restaurantRepository) Delete(ctx context.Context, id uuid.UUID, createdBy string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, createdBy).
		Delete(&entity.Restaurant{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete restaurant: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// GetSummaries получает все рестораны с агрегатами по активным отзывам
func (r *restaurantRepository) GetSummaries(ctx context.Context) ([]entity.RestaurantSummary, error) {
	var summaries []entity.RestaurantSummary

	result := r.db.WithContext(ctx).
		Table("restaurants").
		Select("restaurants.*, AVG(reviews.rating_half) AS avg_half, COUNT(reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.restaurant_id = restaurants.id AND reviews.deleted_at IS NULL").
		Group("restaurants.id").
		Order("restaurants.name").
		Scan(&summaries)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to get restaurant summaries: %w", result.Error)
	}

	return summaries, nil
}
