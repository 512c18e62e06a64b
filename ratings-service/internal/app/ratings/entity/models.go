package entity

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant представляет заведение, доступное для оценки.
// Название уникально без учёта регистра (уникальный индекс на LOWER(name)).
type Restaurant struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name"`
	Address   *string    `json:"address,omitempty"`
	CreatedBy string     `json:"created_by"` // UUID пользователя из внешнего identity provider
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	PlaceID   *string    `json:"place_id,omitempty"` // Внешний идентификатор (Google Places)
	CreatedAt time.Time  `json:"created_at"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// Review представляет отзыв пользователя о ресторане.
// Активным (deleted_at IS NULL) может быть максимум один отзыв
// на пару (restaurant_id, user_id) - частичный уникальный индекс в БД.
// Оценка хранится в половинках звёзд: 1-10 соответствует 0.5-5.0.
type Review struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID  `json:"restaurant_id" gorm:"type:uuid"`
	UserID       string     `json:"user_id"`
	RatingHalf   int        `json:"rating_half"`
	Comment      *string    `json:"comment,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"` // Мягкое удаление, управляется вручную
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewAspect - оценка отзыва по одной из пяти фиксированных категорий.
// Набор строк для review_id всегда полностью заменяется при перезаписи отзыва.
type ReviewAspect struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReviewID  uuid.UUID `json:"review_id" gorm:"type:uuid"`
	AspectID  int       `json:"aspect_id"` // 1-5, см. rating.AspectConfigs
	ScoreHalf int       `json:"score_half"`
}

func (ReviewAspect) TableName() string {
	return "review_aspects"
}

// RestaurantSummary - ресторан с агрегатами по активным отзывам
type RestaurantSummary struct {
	Restaurant
	AvgHalf     *float64 `json:"avg_half,omitempty"` // Средняя оценка в половинках звёзд
	ReviewCount int      `json:"review_count"`
}

// ReviewEvent - событие изменения отзыва для Kafka
type ReviewEvent struct {
	EventType    string    `json:"event_type"` // REVIEW_CREATED, REVIEW_UPDATED, REVIEW_DELETED
	ReviewID     string    `json:"review_id"`
	RestaurantID string    `json:"restaurant_id"`
	UserID       string    `json:"user_id"`
	RatingHalf   int       `json:"rating_half"`
	Timestamp    time.Time `json:"timestamp"`
}

// RestaurantEvent - событие изменения ресторана для Kafka
type RestaurantEvent struct {
	EventType    string    `json:"event_type"` // RESTAURANT_CREATED, RESTAURANT_DELETED
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
}
