package entity

// CreateReviewRequest - плоская форма отзыва.
// Числовые поля приходят строками (form-encoded), разбор и нормализация
// выполняются дальше по цепочке; пустая строка означает "не передано".
type CreateReviewRequest struct {
	RestaurantID   string `form:"restaurant_id" json:"restaurant_id" validate:"required"`
	Rating         string `form:"rating" json:"rating"`
	Comment        string `form:"comment" json:"comment"`
	AspectService  string `form:"aspect_service" json:"aspect_service"`
	AspectAmbience string `form:"aspect_ambience" json:"aspect_ambience"`
	AspectValue    string `form:"aspect_value" json:"aspect_value"`
	AspectTaste    string `form:"aspect_taste" json:"aspect_taste"`
	AspectHygiene  string `form:"aspect_hygiene" json:"aspect_hygiene"`
}

// AspectValues возвращает сырые значения аспектов по ключам
func (r *CreateReviewRequest) AspectValues() map[string]string {
	return map[string]string{
		"service":  r.AspectService,
		"ambience": r.AspectAmbience,
		"value":    r.AspectValue,
		"taste":    r.AspectTaste,
		"hygiene":  r.AspectHygiene,
	}
}

// DeleteReviewRequest - запрос на мягкое удаление отзыва
type DeleteReviewRequest struct {
	ReviewID string `form:"review_id" json:"review_id" validate:"required"`
}

// CreateRestaurantRequest - плоская форма ресторана
type CreateRestaurantRequest struct {
	Name      string `form:"name" json:"name" validate:"required"`
	Address   string `form:"address" json:"address"`
	Latitude  string `form:"latitude" json:"latitude"`
	Longitude string `form:"longitude" json:"longitude"`
	PlaceID   string `form:"place_id" json:"place_id"`
}

// DeleteRestaurantRequest - запрос на удаление ресторана
type DeleteRestaurantRequest struct {
	RestaurantID string `form:"restaurant_id" json:"restaurant_id" validate:"required"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

// RestaurantListResponse - ответ со списком ресторанов и агрегатами
type RestaurantListResponse struct {
	Restaurants []RestaurantSummary `json:"restaurants"`
	Total       int                 `json:"total"`
}
