package rating

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ReviewFormData - разобранные данные формы отзыва.
// Rating и значения Aspects - сырые числа до нормализации,
// указатель отличает "не передано" от нуля.
type ReviewFormData struct {
	RestaurantID string
	Rating       *float64
	Comment      string
	Aspects      map[string]float64
}

// RestaurantFormData - разобранные данные формы ресторана
type RestaurantFormData struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
	PlaceID   string
}

// ValidationResult - вердикт валидации формы.
// Warning носит информационный характер и никогда не блокирует отправку.
type ValidationResult struct {
	Valid   bool
	Error   string
	Warning string
}

// ValidateReviewFormData проверяет данные формы отзыва.
// Проверки последовательные, возвращается первая найденная ошибка.
func ValidateReviewFormData(data *ReviewFormData) ValidationResult {
	if data == nil || data.RestaurantID == "" {
		return ValidationResult{Valid: false, Error: "missing restaurant id"}
	}

	if data.Rating == nil {
		return ValidationResult{Valid: false, Error: "missing rating"}
	}

	if !IsValidHalfStarRating(*data.Rating) {
		return ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("rating must be a half-star value between %.1f and %.1f", MinRating, MaxRating),
		}
	}

	if utf8.RuneCountInString(data.Comment) > MaxCommentLength {
		return ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("comment too long (max %d characters)", MaxCommentLength),
		}
	}

	// Переданные аспекты обязаны быть корректными полузвёздными значениями
	for key, value := range data.Aspects {
		if !IsValidHalfStarRating(value) {
			return ValidationResult{
				Valid: false,
				Error: fmt.Sprintf("aspect %q rating must be a valid half-star value", key),
			}
		}
	}

	return ValidationResult{Valid: true}
}

// ValidateRestaurantFormData проверяет данные формы ресторана.
// Широта и долгота валидируются независимо: правило "обе или ни одной"
// применяется не здесь, а в пути записи.
func ValidateRestaurantFormData(data *RestaurantFormData) ValidationResult {
	if data == nil || data.Name == "" {
		return ValidationResult{Valid: false, Error: "missing restaurant name"}
	}

	trimmed := strings.TrimSpace(data.Name)
	if trimmed == "" {
		return ValidationResult{Valid: false, Error: "restaurant name must not be empty"}
	}

	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("restaurant name too long (max %d characters)", MaxNameLength),
		}
	}

	if utf8.RuneCountInString(data.Address) > MaxAddressLength {
		return ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("address too long (max %d characters)", MaxAddressLength),
		}
	}

	if data.Latitude != nil {
		lat := *data.Latitude
		if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
			return ValidationResult{Valid: false, Error: "invalid latitude value"}
		}
	}

	if data.Longitude != nil {
		lng := *data.Longitude
		if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
			return ValidationResult{Valid: false, Error: "invalid longitude value"}
		}
	}

	return ValidationResult{Valid: true}
}

// CheckRatingConsistency - информационная проверка согласованности оценки.
// Экстремальная общая оценка или большое расхождение с средним по аспектам
// даёт предупреждение, но никогда не блокирует отправку.
func CheckRatingConsistency(overall float64, aspects map[string]float64) ValidationResult {
	normalized := NormalizeRating(overall)

	if normalized <= 1.0 || normalized >= 4.5 {
		return ValidationResult{
			Valid:   true,
			Warning: "extreme rating given, please confirm this reflects your experience",
		}
	}

	if len(aspects) > 0 {
		var sum float64
		for _, v := range aspects {
			sum += v
		}
		avg := sum / float64(len(aspects))

		if math.Abs(avg-normalized) > 1.5 {
			return ValidationResult{
				Valid:   true,
				Warning: fmt.Sprintf("overall rating differs from aspect average (%.1f) by more than 1.5 stars", avg),
			}
		}
	}

	return ValidationResult{Valid: true}
}
