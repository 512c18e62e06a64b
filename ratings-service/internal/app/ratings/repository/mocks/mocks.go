package mocks

import (
	"context"
	"time"

	"tablelog/ratings-service/internal/app/ratings/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRestaurantRepository мок для RestaurantRepository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Create(ctx context.Context, restaurant *entity.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) FindByNameFold(ctx context.Context, name string) (*entity.Restaurant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) Delete(ctx context.Context, id uuid.UUID, createdBy string) (int64, error) {
	args := m.Called(ctx, id, createdBy)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRestaurantRepository) GetSummaries(ctx context.Context) ([]entity.RestaurantSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RestaurantSummary), args.Error(1)
}

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Insert(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) UpdateActive(ctx context.Context, restaurantID uuid.UUID, userID string, ratingHalf int, comment *string) (int64, error) {
	args := m.Called(ctx, restaurantID, userID, ratingHalf, comment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) GetActiveByRestaurantAndUser(ctx context.Context, restaurantID uuid.UUID, userID string) (*entity.Review, error) {
	args := m.Called(ctx, restaurantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) SoftDelete(ctx context.Context, id uuid.UUID, userID string, deletedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, userID, deletedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) CountActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) GetActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]entity.Review, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetActiveByUser(ctx context.Context, userID string) ([]entity.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) DeleteAspects(ctx context.Context, reviewID uuid.UUID) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

func (m *MockReviewRepository) CreateAspects(ctx context.Context, aspects []entity.ReviewAspect) error {
	args := m.Called(ctx, aspects)
	return args.Error(0)
}

func (m *MockReviewRepository) GetAspects(ctx context.Context, reviewID uuid.UUID) ([]entity.ReviewAspect, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ReviewAspect), args.Error(1)
}

// MockSummaryCache мок для кеша сводок ресторанов
type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) SetSummaries(ctx context.Context, summaries []entity.RestaurantSummary, ttl time.Duration) error {
	args := m.Called(ctx, summaries, ttl)
	return args.Error(0)
}

func (m *MockSummaryCache) GetSummaries(ctx context.Context) ([]entity.RestaurantSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RestaurantSummary), args.Error(1)
}

func (m *MockSummaryCache) InvalidateSummaries(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSummaryCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
