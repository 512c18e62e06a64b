package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tablelog/pkg/rating"
	"tablelog/ratings-service/internal/app/ratings/entity"
	"tablelog/ratings-service/internal/app/ratings/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// parseOptionalFloat разбирает числовое поле формы.
// Пустая строка и мусор дают nil - "не передано".
func parseOptionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// CreateReview обрабатывает POST /reviews
// Принимает плоскую форму: restaurant_id, rating, comment, aspect_<ключ>
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	form := &rating.ReviewFormData{
		RestaurantID: req.RestaurantID,
		Rating:       parseOptionalFloat(req.Rating),
		Comment:      req.Comment,
		Aspects:      make(map[string]float64),
	}

	for key, raw := range req.AspectValues() {
		if v := parseOptionalFloat(raw); v != nil {
			form.Aspects[key] = *v
		}
	}

	review, err := h.reviewService.AddReview(c.Request.Context(), userID, form)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// DeleteReview обрабатывает DELETE /reviews/:review_id (мягкое удаление)
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reviewID, err := uuid.Parse(c.Param("review_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Review deleted successfully"})
}

// GetRestaurantReviews обрабатывает GET /restaurants/:restaurant_id/reviews
func (h *ReviewHandler) GetRestaurantReviews(c *gin.Context) {
	restaurantID, err := uuid.Parse(c.Param("restaurant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant ID"})
		return
	}

	reviews, err := h.reviewService.GetRestaurantReviews(c.Request.Context(), restaurantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{Reviews: reviews, Total: len(reviews)})
}

// GetMyReviews обрабатывает GET /reviews/my
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reviews, err := h.reviewService.GetUserReviews(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{Reviews: reviews, Total: len(reviews)})
}

// GetReviewAspects обрабатывает GET /reviews/:review_id/aspects
func (h *ReviewHandler) GetReviewAspects(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("review_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	aspects, err := h.reviewService.GetReviewAspects(c.Request.Context(), reviewID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"aspects": aspects, "total": len(aspects)})
}

// respondServiceError мапит ошибки бизнес-логики на HTTP статусы.
// Текст сообщения отдаётся как есть - локализация на стороне клиента.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrReviewNotFound), errors.Is(err, service.ErrRestaurantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateName), errors.Is(err, service.ErrHasReviews):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
