package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Бизнес-метрики ratings-service
// =============================================================================

// ReviewsCreated - созданные или перезаписанные отзывы
var ReviewsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Total number of reviews created or rewritten",
	},
)

// ReviewsDeleted - мягко удалённые отзывы
var ReviewsDeleted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_deleted_total",
		Help: "Total number of reviews soft-deleted",
	},
)

// ReviewsRating - распределение оценок в звёздах
// Бакеты по полузвёздным значениям от 0.5 до 5.0
var ReviewsRating = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "reviews_rating",
		Help:    "Distribution of review ratings in stars",
		Buckets: []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
	},
)

// RestaurantsCreated - созданные рестораны
var RestaurantsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "restaurants_created_total",
		Help: "Total number of restaurants created",
	},
)

// RestaurantsDeleted - удалённые рестораны
var RestaurantsDeleted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "restaurants_deleted_total",
		Help: "Total number of restaurants deleted",
	},
)

// SummaryCacheRefreshes - прогревы кеша сводок (cron и cache miss)
var SummaryCacheRefreshes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "summary_cache_refreshes_total",
		Help: "Total number of restaurant summary cache refreshes",
	},
	[]string{"status"}, // success, failed
)
