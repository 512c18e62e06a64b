package service

import "errors"

// Ошибки бизнес-логики для обработки в handlers.
// Контекст (имя ресторана, текст валидации) добавляется через fmt.Errorf("%w"),
// поэтому проверять нужно через errors.Is.
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("access denied")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrDuplicateName      = errors.New("restaurant name already exists")
	ErrHasReviews         = errors.New("restaurant has reviews")
)
