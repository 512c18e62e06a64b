package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablelog/pkg/logger"
	"tablelog/pkg/metrics"
	"tablelog/pkg/rating"
	"tablelog/ratings-service/internal/app/ratings/entity"
	"tablelog/ratings-service/internal/app/ratings/repository"
	"tablelog/ratings-service/internal/app/ratings/util"

	"github.com/google/uuid"
)

const summaryCacheTTL = time.Hour

// RestaurantService обрабатывает бизнес-логику ресторанов
type RestaurantService struct {
	restaurantRepo repository.RestaurantRepository
	reviewRepo     repository.ReviewRepository
	summaryCache   util.SummaryCache
	kafkaProducer  util.MessagePublisher
}

// NewRestaurantService создает новый сервис ресторанов с внедрением зависимостей
func NewRestaurantService(
	restaurantRepo repository.RestaurantRepository,
	reviewRepo repository.ReviewRepository,
	summaryCache util.SummaryCache,
	kafkaProducer util.MessagePublisher,
) *RestaurantService {
	return &RestaurantService{
		restaurantRepo: restaurantRepo,
		reviewRepo:     reviewRepo,
		summaryCache:   summaryCache,
		kafkaProducer:  kafkaProducer,
	}
}

// AddRestaurant создает новый ресторан.
// Дубликат имени ловится дважды: предварительной проверкой без учёта
// регистра и уникальным ограничением БД на случай гонки - при конфликте
// имя в ошибке берётся из реально существующей строки, а не из ввода.
func (s *RestaurantService) AddRestaurant(ctx context.Context, userID string, form *rating.RestaurantFormData) (*entity.Restaurant, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	if result := rating.ValidateRestaurantFormData(form); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, result.Error)
	}

	name := strings.TrimSpace(form.Name)

	existing, err := s.restaurantRepo.FindByNameFold(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrRestaurantNotFound) {
		return nil, fmt.Errorf("failed to check restaurant name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, existing.Name)
	}

	restaurant := &entity.Restaurant{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}

	if addr := strings.TrimSpace(form.Address); addr != "" {
		restaurant.Address = &addr
	}
	if pid := strings.TrimSpace(form.PlaceID); pid != "" {
		restaurant.PlaceID = &pid
	}

	// Координаты сохраняются только парой и только в допустимых диапазонах;
	// одиночная широта или долгота молча отбрасывается
	if form.Latitude != nil && form.Longitude != nil {
		lat, lng := *form.Latitude, *form.Longitude
		if lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 {
			restaurant.Latitude = &lat
			restaurant.Longitude = &lng
		}
	}

	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Гонка с параллельной вставкой того же имени:
			// перечитываем, чтобы сообщить реальное существующее имя
			actual, findErr := s.restaurantRepo.FindByNameFold(ctx, name)
			if findErr == nil && actual != nil {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, actual.Name)
			}
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	metrics.RestaurantsCreated.Inc()

	s.invalidateSummaries(ctx)
	s.publishRestaurantEvent(ctx, "RESTAURANT_CREATED", restaurant)

	return restaurant, nil
}

// DeleteRestaurant жёстко удаляет ресторан.
// Удалять может только создатель и только если у ресторана нет активных
// отзывов - удаление никогда не оставляет отзывы-сироты.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, userID string, restaurantID uuid.UUID) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return ErrRestaurantNotFound
		}
		return fmt.Errorf("failed to get restaurant: %w", err)
	}

	if restaurant.CreatedBy != userID {
		return ErrForbidden
	}

	count, err := s.reviewRepo.CountActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("failed to count reviews: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %q has %d active reviews", ErrHasReviews, restaurant.Name, count)
	}

	affected, err := s.restaurantRepo.Delete(ctx, restaurantID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("restaurant %s was not deleted", restaurantID)
	}

	metrics.RestaurantsDeleted.Inc()

	s.invalidateSummaries(ctx)
	s.publishRestaurantEvent(ctx, "RESTAURANT_DELETED", restaurant)

	return nil
}

// GetRestaurants получает список ресторанов с агрегатами, кеш на час.
// Сначала проверяем Redis, при промахе пересчитываем из Postgres.
func (s *RestaurantService) GetRestaurants(ctx context.Context) ([]entity.RestaurantSummary, error) {
	cached, err := s.summaryCache.GetSummaries(ctx)
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read restaurant summaries cache")
	}

	summaries, err := s.restaurantRepo.GetSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurants: %w", err)
	}

	if err := s.summaryCache.SetSummaries(ctx, summaries, summaryCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache restaurant summaries")
	}

	return summaries, nil
}

// WarmSummaryCache принудительно пересчитывает и кеширует сводки.
// Вызывается cron-джобой, чтобы первый запрос после инвалидации
// не платил за агрегацию.
func (s *RestaurantService) WarmSummaryCache(ctx context.Context) error {
	summaries, err := s.restaurantRepo.GetSummaries(ctx)
	if err != nil {
		return fmt.Errorf("failed to recompute restaurant summaries: %w", err)
	}

	if err := s.summaryCache.SetSummaries(ctx, summaries, summaryCacheTTL); err != nil {
		return fmt.Errorf("failed to warm summaries cache: %w", err)
	}

	return nil
}

func (s *RestaurantService) invalidateSummaries(ctx context.Context) {
	if err := s.summaryCache.InvalidateSummaries(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate restaurant summaries cache")
	}
}

func (s *RestaurantService) publishRestaurantEvent(ctx context.Context, eventType string, restaurant *entity.Restaurant) {
	event := entity.RestaurantEvent{
		EventType:    eventType,
		RestaurantID: restaurant.ID.String(),
		Name:         restaurant.Name,
		UserID:       restaurant.CreatedBy,
		Timestamp:    time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to marshal restaurant event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.RestaurantID, data); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish restaurant event")
	}
}
