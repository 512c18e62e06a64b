package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tablelog/pkg/logger"
	"tablelog/pkg/metrics"
	"tablelog/pkg/rating"
	"tablelog/ratings-service/internal/app/ratings/entity"
	"tablelog/ratings-service/internal/app/ratings/repository"
	"tablelog/ratings-service/internal/app/ratings/util"

	"github.com/google/uuid"
)

// ReviewService обрабатывает бизнес-логику отзывов.
// Координирует репозиторий, кеш сводок и Kafka producer.
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	summaryCache  util.SummaryCache
	kafkaProducer util.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	summaryCache util.SummaryCache,
	kafkaProducer util.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		summaryCache:  summaryCache,
		kafkaProducer: kafkaProducer,
	}
}

// AddReview создает или перезаписывает отзыв пользователя о ресторане.
// 1. Нормализует оценку и валидирует форму
// 2. Нормализует аспекты, значения вне диапазона молча отбрасываются
// 3. Вставляет отзыв; при конфликте уникальности обновляет активный отзыв пары
// 4. Полностью заменяет набор аспектов (удаление выполняется всегда,
//    даже если новых аспектов нет - это чистит старые)
// 5. Инвалидирует кеш сводок и отправляет событие в Kafka
//
// Шаги 3 и 4 не обёрнуты в транзакцию: сбой между ними оставляет
// устаревшие аспекты при свежем отзыве. Известный разрыв, компенсации нет.
func (s *ReviewService) AddReview(ctx context.Context, userID string, form *rating.ReviewFormData) (*entity.Review, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	// Нормализуем оценку до валидации: "4.2" превращается в 4.0,
	// а не отклоняется как некратная 0.5
	if form.Rating != nil {
		normalized := rating.NormalizeRating(*form.Rating)
		form.Rating = &normalized
	}

	// Нормализуем аспекты; ключи вне фиксированного набора игнорируются
	aspects := make(map[string]float64)
	for key, raw := range form.Aspects {
		if _, known := rating.AspectIDMap[key]; !known {
			continue
		}
		normalized := rating.NormalizeRating(raw)
		if normalized >= rating.MinRating && normalized <= rating.MaxRating {
			aspects[key] = normalized
		}
	}
	form.Aspects = aspects

	if result := rating.ValidateReviewFormData(form); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, result.Error)
	}

	restaurantID, err := uuid.Parse(form.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid restaurant id", ErrInvalidInput)
	}

	// Информационная проверка согласованности: только лог, никогда не блокирует
	if consistency := rating.CheckRatingConsistency(*form.Rating, aspects); consistency.Warning != "" {
		logger.Debug().
			Str("restaurant_id", form.RestaurantID).
			Str("warning", consistency.Warning).
			Msg("Rating consistency advisory")
	}

	ratingHalf := rating.RatingToHalf(*form.Rating)
	var comment *string
	if form.Comment != "" {
		comment = &form.Comment
	}

	review := &entity.Review{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		UserID:       userID,
		RatingHalf:   ratingHalf,
		Comment:      comment,
		CreatedAt:    time.Now(),
	}

	eventType := "REVIEW_CREATED"

	err = s.reviewRepo.Insert(ctx, review)
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("failed to create review: %w", err)
		}

		// Конфликт "один активный отзыв на пару ресторан/пользователь":
		// переключаемся на обновление существующей активной строки
		affected, updErr := s.reviewRepo.UpdateActive(ctx, restaurantID, userID, ratingHalf, comment)
		if updErr != nil {
			return nil, fmt.Errorf("failed to update review: %w", updErr)
		}
		if affected == 0 {
			return nil, fmt.Errorf("review upsert conflict but no active review was updated")
		}

		existing, getErr := s.reviewRepo.GetActiveByRestaurantAndUser(ctx, restaurantID, userID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to resolve review id: %w", getErr)
		}

		review = existing
		eventType = "REVIEW_UPDATED"
	}

	// Чистая замена аспектов: сначала удаляем все старые строки,
	// затем вставляем ровно то, что пришло в этой отправке
	if err := s.reviewRepo.DeleteAspects(ctx, review.ID); err != nil {
		return nil, fmt.Errorf("failed to replace review aspects: %w", err)
	}

	aspectRows := make([]entity.ReviewAspect, 0, len(aspects))
	for key, value := range aspects {
		aspectRows = append(aspectRows, entity.ReviewAspect{
			ID:        uuid.New(),
			ReviewID:  review.ID,
			AspectID:  rating.AspectIDMap[key],
			ScoreHalf: rating.RatingToHalf(value),
		})
	}

	if err := s.reviewRepo.CreateAspects(ctx, aspectRows); err != nil {
		return nil, fmt.Errorf("failed to insert review aspects: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.Observe(rating.HalfToRating(ratingHalf))

	s.invalidateSummaries(ctx)
	s.publishReviewEvent(ctx, eventType, review)

	return review, nil
}

// DeleteReview мягко удаляет отзыв с проверкой прав доступа
func (s *ReviewService) DeleteReview(ctx context.Context, userID string, reviewID uuid.UUID) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.UserID != userID {
		return ErrForbidden
	}

	// Условие включает и id, и user_id - владелец уже проверен выше,
	// но предикат остаётся как страховка
	affected, err := s.reviewRepo.SoftDelete(ctx, reviewID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("review %s was not updated by soft delete", reviewID)
	}

	metrics.ReviewsDeleted.Inc()

	s.invalidateSummaries(ctx)
	s.publishReviewEvent(ctx, "REVIEW_DELETED", review)

	return nil
}

// GetRestaurantReviews получает все активные отзывы ресторана
func (s *ReviewService) GetRestaurantReviews(ctx context.Context, restaurantID uuid.UUID) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// GetUserReviews получает все активные отзывы пользователя
func (s *ReviewService) GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	reviews, err := s.reviewRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reviews: %w", err)
	}

	return reviews, nil
}

// GetReviewAspects получает оценки отзыва по категориям
func (s *ReviewService) GetReviewAspects(ctx context.Context, reviewID uuid.UUID) ([]entity.ReviewAspect, error) {
	aspects, err := s.reviewRepo.GetAspects(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review aspects: %w", err)
	}

	return aspects, nil
}

// invalidateSummaries сбрасывает кеш сводок ресторанов.
// Отзыв уже записан, проблемы с кешем не критичны - только лог.
func (s *ReviewService) invalidateSummaries(ctx context.Context) {
	if err := s.summaryCache.InvalidateSummaries(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate restaurant summaries cache")
	}
}

// publishReviewEvent отправляет событие об отзыве в Kafka.
// Ошибка публикации не прерывает выполнение - отзыв уже сохранён.
func (s *ReviewService) publishReviewEvent(ctx context.Context, eventType string, review *entity.Review) {
	event := entity.ReviewEvent{
		EventType:    eventType,
		ReviewID:     review.ID.String(),
		RestaurantID: review.RestaurantID.String(),
		UserID:       review.UserID,
		RatingHalf:   review.RatingHalf,
		Timestamp:    time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to marshal review event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.RestaurantID, data); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish review event")
	}
}
