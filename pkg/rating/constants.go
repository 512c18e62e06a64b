package rating

// Константы системы оценок
// Оценки хранятся в половинках звёзд (half-unit): целое 1-10 соответствует 0.5-5.0 звёзд
const (
	MinRating        = 0.5 // Минимальная оценка (половина звезды)
	MaxRating        = 5.0 // Максимальная оценка
	RatingStep       = 0.5
	MaxCommentLength = 500 // Максимальная длина комментария к отзыву

	MaxNameLength    = 100 // Максимальная длина названия ресторана
	MaxAddressLength = 200 // Максимальная длина адреса
)

// AspectConfig описывает одну фиксированную категорию оценки (аспект)
type AspectConfig struct {
	Key   string
	Label string
	ID    int
}

// AspectConfigs - закрытый набор из пяти аспектов отзыва
// ID стабильны и совпадают с aspect_id в таблице review_aspects
var AspectConfigs = []AspectConfig{
	{Key: "service", Label: "Service", ID: 1},
	{Key: "ambience", Label: "Ambience", ID: 2},
	{Key: "value", Label: "Value", ID: 3},
	{Key: "taste", Label: "Taste", ID: 4},
	{Key: "hygiene", Label: "Hygiene", ID: 5},
}

// AspectIDMap - маппинг ключа аспекта на стабильный ID для быстрого поиска
var AspectIDMap = map[string]int{
	"service":  1,
	"ambience": 2,
	"value":    3,
	"taste":    4,
	"hygiene":  5,
}
