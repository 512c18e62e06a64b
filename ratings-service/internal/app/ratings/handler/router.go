package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tablelog/pkg/logger"
	"tablelog/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Ratings Service.
// Чтение списков публичное, любая запись требует аутентификации.
func SetupRoutes(
	restaurantHandler *RestaurantHandler,
	reviewHandler *ReviewHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("ratings-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "ratings-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	restaurants := router.Group("/restaurants")
	{
		restaurants.GET("", restaurantHandler.GetRestaurants)
		restaurants.GET("/:restaurant_id/reviews", reviewHandler.GetRestaurantReviews)

		restaurants.POST("", authMiddleware.Authenticate(), restaurantHandler.CreateRestaurant)
		restaurants.DELETE("/:restaurant_id", authMiddleware.Authenticate(), restaurantHandler.DeleteRestaurant)
	}

	reviews := router.Group("/reviews")
	{
		reviews.GET("/:review_id/aspects", reviewHandler.GetReviewAspects)

		reviews.POST("", authMiddleware.Authenticate(), reviewHandler.CreateReview)
		reviews.GET("/my", authMiddleware.Authenticate(), reviewHandler.GetMyReviews)
		reviews.DELETE("/:review_id", authMiddleware.Authenticate(), reviewHandler.DeleteReview)
	}

	return router
}
