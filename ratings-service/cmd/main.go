package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tablelog/pkg/logger"
	"tablelog/ratings-service/internal/app/ratings/config"
	"tablelog/ratings-service/internal/app/ratings/handler"
	"tablelog/ratings-service/internal/app/ratings/processor"
	"tablelog/ratings-service/internal/app/ratings/repository"
	"tablelog/ratings-service/internal/app/ratings/service"
	"tablelog/ratings-service/internal/app/ratings/util"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("ratings-service", cfg.Log.Level)

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get database handle")
	}
	defer sqlDB.Close()
	logger.Info().
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis хранит кеш сводок ресторанов (средний рейтинг + число отзывов)
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	// События REVIEW_CREATED / REVIEW_UPDATED / REVIEW_DELETED и события
	// ресторанов уходят в общий топик для downstream-потребителей
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	// === СЛОЙ РЕПОЗИТОРИЕВ ===
	restaurantRepo := repository.NewRestaurantRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// === БИЗНЕС-ЛОГИКА ===
	reviewService := service.NewReviewService(reviewRepo, redisClient, kafkaProducer)
	restaurantService := service.NewRestaurantService(restaurantRepo, reviewRepo, redisClient, kafkaProducer)

	// === ФОНОВЫЙ ПРОГРЕВ КЕША СВОДОК ===
	summaryRefresher := processor.NewSummaryRefresher(restaurantService)
	if err := summaryRefresher.Start(context.Background(), cfg.Cron.SummaryRefreshSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start summary cache refresher")
	}
	defer summaryRefresher.Stop()

	// === HTTP HANDLERS И МАРШРУТЫ ===
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	restaurantHandler := handler.NewRestaurantHandler(restaurantService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	router := handler.SetupRoutes(restaurantHandler, reviewHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Ratings Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Ratings Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Ratings Service stopped gracefully")
}

// connectDB подключается к PostgreSQL через GORM с повторными попытками.
// При старте в Docker база может подниматься дольше сервиса.
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// Превращает ошибки драйвера в ошибки GORM,
		// в том числе нарушение уникальности в gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			var sqlDB *sql.DB
			sqlDB, err = db.DB()
			if err == nil {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				if err = sqlDB.Ping(); err == nil {
					return db, nil
				}
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
