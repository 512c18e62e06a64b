package service

import (
	"context"
	"errors"
	"testing"

	"tablelog/pkg/rating"
	"tablelog/ratings-service/internal/app/ratings/entity"
	"tablelog/ratings-service/internal/app/ratings/repository"
	"tablelog/ratings-service/internal/app/ratings/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newReviewServiceWithMocks() (*ReviewService, *mocks.MockReviewRepository, *mocks.MockSummaryCache, *mocks.MockMessagePublisher) {
	reviewRepo := new(mocks.MockReviewRepository)
	summaryCache := new(mocks.MockSummaryCache)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewReviewService(reviewRepo, summaryCache, kafkaProducer)
	return service, reviewRepo, summaryCache, kafkaProducer
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestAddReview_Success(t *testing.T) {
	service, reviewRepo, summaryCache, kafkaProducer := newReviewServiceWithMocks()

	ctx := context.Background()
	restaurantID := uuid.New()
	form := &rating.ReviewFormData{
		RestaurantID: restaurantID.String(),
		Rating:       floatPtr(4.5),
		Comment:      "Great food",
		Aspects:      map[string]float64{"taste": 5.0, "service": 4.0},
	}

	reviewRepo.On("Insert", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	reviewRepo.On("DeleteAspects", ctx, mock.Anything).Return(nil)
	reviewRepo.On("CreateAspects", ctx, mock.AnythingOfType("[]entity.ReviewAspect")).Return(nil)
	summaryCache.On("InvalidateSummaries", ctx).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, restaurantID.String(), mock.Anything).Return(nil)

	result, err := service.AddReview(ctx, "user-123", form)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "user-123", result.UserID)
	assert.Equal(t, 9, result.RatingHalf)
	assert.NotNil(t, result.Comment)
	assert.Equal(t, "Great food", *result.Comment)
	reviewRepo.AssertExpectations(t)
}

func TestAddReview_Unauthenticated(t *testing.T) {
	service, _, _, _ := newReviewServiceWithMocks()

	form := &rating.ReviewFormData{RestaurantID: uuid.New().String(), Rating: floatPtr(4.0)}

	result, err := service.AddReview(context.Background(), "", form)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, result)
}

func TestAddReview_MissingRating(t *testing.T) {
	service, _, _, _ := newReviewServiceWithMocks()

	form := &rating.ReviewFormData{RestaurantID: uuid.New().String()}

	result, err := service.AddReview(context.Background(), "user-123", form)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, result)
}

func TestAddReview_NormalizesOffStepRating(t *testing.T) {
	service, reviewRepo, summaryCache, kafkaProducer := newReviewServiceWithMocks()

	ctx := context.Background()
	restaurantID := uuid.New()
	// 4.2 не кратно 0.5, но нормализация до валидации превращает его в 4.0
	form := &rating.ReviewFormData{
		RestaurantID: restaurantID.String(),
		Rating:       floatPtr(4.2),
	}

	reviewRepo.On("Insert", ctx, mock.Anything).Return(nil)
	reviewRepo.On("DeleteAspects", ctx, mock.Anything).Return(nil)
	reviewRepo.On("CreateAspects", ctx, mock.Anything).Return(nil)
	summaryCache.On("InvalidateSummaries", ctx).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := service.AddReview(ctx, "user-123", form)

	assert.NoError(t, err)
	assert.Equal(t, 8, result.RatingHalf)
}

func TestAddReview_UnknownAspectsDropped(t *testing.T) {
	service, reviewRepo, summaryCache, kafkaProducer := newReviewServiceWithMocks()

	ctx := context.Background()
	restaurantID := uuid.New()
	form := &rating.ReviewFormData{
		RestaurantID: restaurantID.String(),
		Rating:       floatPtr(4.0),
		Aspects:      map[string]float64{"taste": 4.5, "parking": 5.0},
	}

	reviewRepo.On("Insert", ctx, mock.Anything).Return(nil)
	reviewRepo.On("DeleteAspects", ctx, mock.Anything).Return(nil)
	reviewRepo.On("CreateAspects", ctx, mock.MatchedBy(func(aspects []entity.ReviewAspect) bool {
		return len(aspects) == 1 && aspects[0].AspectID == rating.AspectIDMap["taste"]
	})).Return(nil)
	summaryCache.On("InvalidateSummaries", ctx).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	_, err := service.AddReview(ctx, "user-123", form)

	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}

func TestAddReview_ConflictFallsBackToUpdate(t *testing.T) {
	service, reviewRepo, summaryCache, kafkaProducer := newReviewServiceWithMocks()

	ctx := context.Background()
	restaurantID := uuid.New()
	existingID := uuid.New()
	form := &rating.ReviewFormData{
		RestaurantID: restaurantID.String(),
		Rating:       floatPtr(3.5),
		Comment:      "Updated opinion",
	}

	existing := &entity.Review{
		ID:           existingID,
		RestaurantID: restaurantID,
		UserID:       "user-123",
		RatingHalf:   7,
	}

	reviewRepo.On("Insert", ctx, mock.Anything).Return(repository.ErrDuplicateKey)
	reviewRepo.On("UpdateActive", ctx, restaurantID, "user-123", 7, mock.Anything).Return(int64(1), nil)
	reviewRepo.On("GetActiveByRestaurantAndUser", ctx, restaurantID, "user-123").Return(existing, nil)
	reviewRepo.On("DeleteAspects", ctx, existingID).Return(nil)
	reviewRepo.On("CreateAspects", ctx, mock.Anything).Return(nil)
	summaryCache.On("InvalidateSummaries", ctx).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, restaurantID.String(), mock.Anything).Return(nil)

	result, err := service.AddReview(ctx, "user-123", form)

	assert.NoError(t, err)
	// ID стабилен между повторными отправками - идемпотентный upsert
	assert.Equal(t, existingID, result.ID)
	reviewRepo.AssertExpectations(t)
}

func TestAddReview_ConflictButNothingUpdated(t *testing.T) {
	service, reviewRepo, _, _ := newReviewServiceWithMocks()

	ctx := context.Background()
	restaurantID := uuid.New()
	form := &rating.ReviewFormData{
		RestaurantID: restaurantID.String(),
		Rating:       floatPtr(4.0),
	}

	reviewRepo.On("Insert", ctx, mock.Anything).Return(repository.ErrDuplicateKey)
	reviewRepo.On("UpdateActive", ctx, restaurantID, "user-123", 8, mock.Anything).Return(int64(0), nil)

	result, err := service.AddReview(ctx, "user-123", form)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestAddReview_EmptyAspectsClearOldOnes(t *testing.T) {
	service, reviewRepo, summaryCache, kafkaProducer := newReviewServiceWithMocks()

	ctx := context.Background()
	restaurantID := uuid.New()
	existingID := uuid.New()
	form := &rating.ReviewFormData{
		RestaurantID: restaurantID.String(),
		Rating:       floatPtr(2.5),
	}

	existing := &entity.Review{ID: existingID, RestaurantID: restaurantID, UserID: "user-123"}

	reviewRepo.On("Insert", ctx, mock.Anything).Return(repository.ErrDuplicateKey)
	reviewRepo.On("UpdateActive", ctx, restaurantID, "user-123", 5, mock.Anything).Return(int64(1), nil)
	reviewRepo.On("GetActiveByRestaurantAndUser", ctx, restaurantID, "user-123").Return(existing, nil)
	// Удаление выполняется даже при пустом новом наборе - старые аспекты уходят
	reviewRepo.On("DeleteAspects", ctx, existingID).Return(nil)
	reviewRepo.On("CreateAspects", ctx, mock.MatchedBy(func(aspects []entity.ReviewAspect) bool {
		return len(aspects) == 0
	})).Return(nil)
	summaryCache.On("InvalidateSummaries", ctx).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	_, err := service.AddReview(ctx, "user-123", form)

	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}

func TestAddReview_KafkaErrorIgnored(t *testing.T) {
	service, reviewRepo, summaryCache, kafkaProducer := newReviewServiceWithMocks()

	ctx := context.Background()
	restaurantID := uuid.New()
	form := &rating.ReviewFormData{
		RestaurantID: restaurantID.String(),
		Rating:       floatPtr(5.0),
	}

	reviewRepo.On("Insert", ctx, mock.Anything).Return(nil)
	reviewRepo.On("DeleteAspects", ctx, mock.Anything).Return(nil)
	reviewRepo.On("CreateAspects", ctx, mock.Anything).Return(nil)
	summaryCache.On("InvalidateSummaries", ctx).Return(errors.New("redis down"))
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	result, err := service.AddReview(ctx, "user-123", form)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestDeleteReview_Success(t *testing.T) {
	service, reviewRepo, summaryCache, kafkaProducer := newReviewServiceWithMocks()

	ctx := context.Background()
	reviewID := uuid.New()
	review := &entity.Review{ID: reviewID, RestaurantID: uuid.New(), UserID: "user-123", RatingHalf: 8}

	reviewRepo.On("GetByID", ctx, reviewID).Return(review, nil)
	reviewRepo.On("SoftDelete", ctx, reviewID, "user-123", mock.AnythingOfType("time.Time")).Return(int64(1), nil)
	summaryCache.On("InvalidateSummaries", ctx).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	err := service.DeleteReview(ctx, "user-123", reviewID)

	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}

func TestDeleteReview_NotFound(t *testing.T) {
	service, reviewRepo, _, _ := newReviewServiceWithMocks()

	ctx := context.Background()
	reviewID := uuid.New()

	reviewRepo.On("GetByID", ctx, reviewID).Return(nil, repository.ErrReviewNotFound)

	err := service.DeleteReview(ctx, "user-123", reviewID)

	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestDeleteReview_Forbidden(t *testing.T) {
	service, reviewRepo, _, _ := newReviewServiceWithMocks()

	ctx := context.Background()
	reviewID := uuid.New()
	review := &entity.Review{ID: reviewID, UserID: "someone-else"}

	reviewRepo.On("GetByID", ctx, reviewID).Return(review, nil)

	err := service.DeleteReview(ctx, "user-123", reviewID)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteReview_ZeroRowsAffected(t *testing.T) {
	service, reviewRepo, _, _ := newReviewServiceWithMocks()

	ctx := context.Background()
	reviewID := uuid.New()
	review := &entity.Review{ID: reviewID, UserID: "user-123"}

	reviewRepo.On("GetByID", ctx, reviewID).Return(review, nil)
	reviewRepo.On("SoftDelete", ctx, reviewID, "user-123", mock.Anything).Return(int64(0), nil)

	err := service.DeleteReview(ctx, "user-123", reviewID)

	assert.Error(t, err)
}

func TestGetRestaurantReviews_Success(t *testing.T) {
	service, reviewRepo, _, _ := newReviewServiceWithMocks()

	ctx := context.Background()
	restaurantID := uuid.New()
	reviews := []entity.Review{
		{ID: uuid.New(), RestaurantID: restaurantID, UserID: "user-1", RatingHalf: 10},
		{ID: uuid.New(), RestaurantID: restaurantID, UserID: "user-2", RatingHalf: 6},
	}

	reviewRepo.On("GetActiveByRestaurant", ctx, restaurantID).Return(reviews, nil)

	result, err := service.GetRestaurantReviews(ctx, restaurantID)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestGetUserReviews_Unauthenticated(t *testing.T) {
	service, _, _, _ := newReviewServiceWithMocks()

	result, err := service.GetUserReviews(context.Background(), "")

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, result)
}
