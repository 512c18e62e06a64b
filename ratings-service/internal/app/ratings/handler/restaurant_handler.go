package handler

import (
	"net/http"

	"tablelog/pkg/rating"
	"tablelog/ratings-service/internal/app/ratings/entity"
	"tablelog/ratings-service/internal/app/ratings/service"
	"tablelog/ratings-service/internal/app/ratings/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type RestaurantHandler struct {
	restaurantService service.RestaurantServiceInterface
	validator         *validator.Validate
}

func NewRestaurantHandler(restaurantService service.RestaurantServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		validator:         validator.New(),
	}
}

// CreateRestaurant обрабатывает POST /restaurants
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateRestaurantRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	form := &rating.RestaurantFormData{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  parseOptionalFloat(req.Latitude),
		Longitude: parseOptionalFloat(req.Longitude),
		PlaceID:   req.PlaceID,
	}

	restaurant, err := h.restaurantService.AddRestaurant(c.Request.Context(), userID, form)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, restaurant)
}

// DeleteRestaurant обрабатывает DELETE /restaurants/:restaurant_id
func (h *RestaurantHandler) DeleteRestaurant(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	restaurantID, err := uuid.Parse(c.Param("restaurant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant ID"})
		return
	}

	if err := h.restaurantService.DeleteRestaurant(c.Request.Context(), userID, restaurantID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Restaurant deleted successfully"})
}

// GetRestaurants обрабатывает GET /restaurants?sort=...&filter=...
// Список с агрегатами приходит из кеша, сортировка и фильтрация - поверх
func (h *RestaurantHandler) GetRestaurants(c *gin.Context) {
	restaurants, err := h.restaurantService.GetRestaurants(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	restaurants = util.FilterRestaurants(restaurants, util.ParseFilterOption(c.Query("filter")))
	restaurants = util.SortRestaurants(restaurants, util.ParseSortOption(c.Query("sort")))

	c.JSON(http.StatusOK, entity.RestaurantListResponse{
		Restaurants: restaurants,
		Total:       len(restaurants),
	})
}
