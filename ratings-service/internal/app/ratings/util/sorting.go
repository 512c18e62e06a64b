package util

import (
	"sort"
	"strings"

	"tablelog/ratings-service/internal/app/ratings/entity"
)

// SortOption - варианты сортировки списка ресторанов
type SortOption string

const (
	SortByName        SortOption = "name"
	SortByRatingDesc  SortOption = "rating_desc"
	SortByRatingAsc   SortOption = "rating_asc"
	SortByReviewsDesc SortOption = "reviews_desc"
	SortByReviewsAsc  SortOption = "reviews_asc"
)

// FilterOption - варианты фильтрации списка ресторанов
type FilterOption string

const (
	FilterAll       FilterOption = "all"
	FilterRated     FilterOption = "rated"
	FilterUnrated   FilterOption = "unrated"
	FilterExcellent FilterOption = "excellent"
	FilterGood      FilterOption = "good"
	FilterAverage   FilterOption = "average"
	FilterPoor      FilterOption = "poor"
)

func avgRating(s *entity.RestaurantSummary) float64 {
	if s.AvgHalf == nil {
		return 0
	}
	return *s.AvgHalf / 2
}

// SortRestaurants сортирует копию списка ресторанов по выбранному критерию.
// Неизвестная опция оставляет исходный порядок.
func SortRestaurants(restaurants []entity.RestaurantSummary, option SortOption) []entity.RestaurantSummary {
	sorted := make([]entity.RestaurantSummary, len(restaurants))
	copy(sorted, restaurants)

	switch option {
	case SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
	case SortByRatingDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return avgRating(&sorted[i]) > avgRating(&sorted[j])
		})
	case SortByRatingAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return avgRating(&sorted[i]) < avgRating(&sorted[j])
		})
	case SortByReviewsDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ReviewCount > sorted[j].ReviewCount
		})
	case SortByReviewsAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ReviewCount < sorted[j].ReviewCount
		})
	}

	return sorted
}

// FilterRestaurants фильтрует список ресторанов по средней оценке.
// Пороги совпадают с уровнями rating.GetRatingLevel.
func FilterRestaurants(restaurants []entity.RestaurantSummary, option FilterOption) []entity.RestaurantSummary {
	if option == FilterAll || option == "" {
		return restaurants
	}

	filtered := make([]entity.RestaurantSummary, 0, len(restaurants))
	for _, r := range restaurants {
		if matchesFilter(&r, option) {
			filtered = append(filtered, r)
		}
	}

	return filtered
}

func matchesFilter(s *entity.RestaurantSummary, option FilterOption) bool {
	switch option {
	case FilterRated:
		return s.ReviewCount > 0
	case FilterUnrated:
		return s.ReviewCount == 0
	case FilterExcellent:
		return s.AvgHalf != nil && avgRating(s) >= 4.5
	case FilterGood:
		return s.AvgHalf != nil && avgRating(s) >= 4.0 && avgRating(s) < 4.5
	case FilterAverage:
		return s.AvgHalf != nil && avgRating(s) >= 3.0 && avgRating(s) < 4.0
	case FilterPoor:
		return s.AvgHalf != nil && avgRating(s) < 3.0
	default:
		return true
	}
}

// ParseSortOption разбирает query-параметр сортировки
func ParseSortOption(raw string) SortOption {
	switch SortOption(raw) {
	case SortByName, SortByRatingDesc, SortByRatingAsc, SortByReviewsDesc, SortByReviewsAsc:
		return SortOption(raw)
	default:
		return SortByName
	}
}

// ParseFilterOption разбирает query-параметр фильтрации
func ParseFilterOption(raw string) FilterOption {
	switch FilterOption(raw) {
	case FilterRated, FilterUnrated, FilterExcellent, FilterGood, FilterAverage, FilterPoor:
		return FilterOption(raw)
	default:
		return FilterAll
	}
}
