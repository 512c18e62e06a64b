package rating

import "math"

// NormalizeRating приводит оценку к ближайшему допустимому полузвёздному значению.
// NaN и бесконечности превращаются в минимальную оценку, значения вне диапазона
// обрезаются до [MinRating, MaxRating]. Функция тотальна и никогда не возвращает ошибку.
func NormalizeRating(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return MinRating
	}

	clamped := math.Max(MinRating, math.Min(MaxRating, r))

	// Округление до ближайшей половины звезды
	return math.Round(clamped*2) / 2
}

// IsValidHalfStarRating проверяет, является ли значение допустимой полузвёздной оценкой
// (кратно 0.5 в пределах [MinRating, MaxRating], с допуском на погрешность float)
func IsValidHalfStarRating(r float64) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return false
	}

	// Кратность 0.5 с допуском на погрешность представления
	remainder := math.Abs(math.Mod(r*2, 1))
	isHalfStar := remainder < 0.01 || remainder > 0.99

	return isHalfStar && r >= MinRating && r <= MaxRating
}

// RatingToHalf конвертирует оценку в целые половинки звёзд (1-10).
// Сначала нормализует значение, поэтому результат всегда в диапазоне
// даже для мусорного входа - ошибок нет, только обрезка.
func RatingToHalf(r float64) int {
	normalized := NormalizeRating(r)
	half := int(math.Round(normalized * 2))

	if half < 1 {
		half = 1
	}
	if half > 10 {
		half = 10
	}

	return half
}

// HalfToRating конвертирует половинки звёзд обратно в оценку (0.5-5.0).
// Валидации нет: half-unit считается корректным на этой границе,
// обратная конвертация никогда не падает (намеренная асимметрия с RatingToHalf).
func HalfToRating(half int) float64 {
	return float64(half) / 2
}
