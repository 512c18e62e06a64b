package rating

import (
	"fmt"
	"math"
	"strings"
)

// RatingLevel - описание уровня оценки для отображения
type RatingLevel struct {
	Level       string `json:"level"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// RatingStats - агрегированная статистика по набору оценок
type RatingStats struct {
	Average      float64        `json:"average"`
	Count        int            `json:"count"`
	Distribution map[string]int `json:"distribution"`
}

// RatingTrend - направление изменения средней оценки
type RatingTrend struct {
	Direction  string  `json:"direction"` // up, down, stable
	Change     float64 `json:"change"`
	Percentage float64 `json:"percentage"`
}

// GetRatingLevel возвращает уровень оценки по фиксированным порогам
func GetRatingLevel(r *float64) RatingLevel {
	if r == nil {
		return RatingLevel{Level: "unrated", Color: "#999", Description: "no ratings yet"}
	}

	normalized := NormalizeRating(*r)

	switch {
	case normalized >= 4.5:
		return RatingLevel{Level: "excellent", Color: "#22c55e", Description: "highly recommended"}
	case normalized >= 4.0:
		return RatingLevel{Level: "very good", Color: "#84cc16", Description: "recommended"}
	case normalized >= 3.5:
		return RatingLevel{Level: "good", Color: "#eab308", Description: "worth a visit"}
	case normalized >= 3.0:
		return RatingLevel{Level: "average", Color: "#f59e0b", Description: "nothing special"}
	case normalized >= 2.5:
		return RatingLevel{Level: "fair", Color: "#ef4444", Description: "needs improvement"}
	default:
		return RatingLevel{Level: "poor", Color: "#dc2626", Description: "not recommended"}
	}
}

// CalculateRatingStats считает среднее и распределение по звёздным группам.
// NaN и бесконечности отфильтровываются до подсчёта.
func CalculateRatingStats(ratings []float64) RatingStats {
	valid := make([]float64, 0, len(ratings))
	for _, r := range ratings {
		if !math.IsNaN(r) && !math.IsInf(r, 0) {
			valid = append(valid, r)
		}
	}

	if len(valid) == 0 {
		return RatingStats{Distribution: map[string]int{}}
	}

	var sum float64
	distribution := make(map[string]int)
	for _, r := range valid {
		sum += r
		star := int(math.Floor(r))
		key := fmt.Sprintf("%d.0-%d.5", star, star)
		distribution[key]++
	}

	return RatingStats{
		Average:      NormalizeRating(sum / float64(len(valid))),
		Count:        len(valid),
		Distribution: distribution,
	}
}

// CalculateRatingTrend сравнивает текущую и предыдущую среднюю оценку.
// Изменения меньше 0.1 звезды считаются шумом и дают направление stable.
func CalculateRatingTrend(currentAvg, previousAvg *float64) RatingTrend {
	if currentAvg == nil || previousAvg == nil {
		return RatingTrend{Direction: "stable"}
	}

	change := *currentAvg - *previousAvg
	if math.Abs(change) < 0.1 {
		return RatingTrend{Direction: "stable"}
	}

	direction := "up"
	if change < 0 {
		direction = "down"
	}

	percentage := 0.0
	if *previousAvg != 0 {
		percentage = math.Abs(change / *previousAvg * 100)
	}

	return RatingTrend{
		Direction:  direction,
		Change:     math.Abs(change),
		Percentage: percentage,
	}
}

// FormatRating форматирует half-unit для отображения ("4.5★", "—" если оценки нет)
func FormatRating(half *int) string {
	if half == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f★", HalfToRating(*half))
}

// FormatRatingWithStars рисует оценку звёздами: "★★★★½ 4.5"
func FormatRatingWithStars(half *int) string {
	if half == nil {
		return "—"
	}

	r := HalfToRating(*half)
	full := int(math.Floor(r))
	hasHalf := math.Mod(r, 1) >= 0.5
	empty := 5 - full
	if hasHalf {
		empty--
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if hasHalf {
		b.WriteString("½")
	}
	b.WriteString(strings.Repeat("☆", empty))
	fmt.Fprintf(&b, " %.1f", r)

	return b.String()
}
