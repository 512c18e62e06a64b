package processor

import (
	"context"
	"errors"
	"testing"

	"tablelog/pkg/rating"
	"tablelog/ratings-service/internal/app/ratings/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRestaurantService struct {
	mock.Mock
}

func (m *mockRestaurantService) AddRestaurant(ctx context.Context, userID string, form *rating.RestaurantFormData) (*entity.Restaurant, error) {
	args := m.Called(ctx, userID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Restaurant), args.Error(1)
}

func (m *mockRestaurantService) DeleteRestaurant(ctx context.Context, userID string, restaurantID uuid.UUID) error {
	args := m.Called(ctx, userID, restaurantID)
	return args.Error(0)
}

func (m *mockRestaurantService) GetRestaurants(ctx context.Context) ([]entity.RestaurantSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RestaurantSummary), args.Error(1)
}

func (m *mockRestaurantService) WarmSummaryCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestSummaryRefresher_RefreshSuccess(t *testing.T) {
	svc := new(mockRestaurantService)
	svc.On("WarmSummaryCache", mock.Anything).Return(nil)

	refresher := NewSummaryRefresher(svc)
	refresher.refresh(context.Background())

	svc.AssertExpectations(t)
}

func TestSummaryRefresher_RefreshFailureDoesNotPanic(t *testing.T) {
	svc := new(mockRestaurantService)
	svc.On("WarmSummaryCache", mock.Anything).Return(errors.New("db down"))

	refresher := NewSummaryRefresher(svc)
	refresher.refresh(context.Background())

	svc.AssertExpectations(t)
}

func TestSummaryRefresher_StartRunsInitialRefresh(t *testing.T) {
	svc := new(mockRestaurantService)
	svc.On("WarmSummaryCache", mock.Anything).Return(nil)

	refresher := NewSummaryRefresher(svc)
	err := refresher.Start(context.Background(), "@hourly")
	assert.NoError(t, err)
	refresher.Stop()

	// Start выполняет прогрев сразу, не дожидаясь первого тика расписания
	svc.AssertNumberOfCalls(t, "WarmSummaryCache", 1)
}

func TestSummaryRefresher_BadSchedule(t *testing.T) {
	svc := new(mockRestaurantService)

	refresher := NewSummaryRefresher(svc)
	err := refresher.Start(context.Background(), "not a schedule")

	assert.Error(t, err)
}
