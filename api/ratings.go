package api

import (
	"net/http"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/service/ratings"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingHandler struct {
	service ratings.RatingUseCase
}

type rateBookingRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Stars     int    `json:"stars" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=1000"`
}

type ratingResponse struct {
	ID        string `json:"id"`
	FromUser  string `json:"from_user"`
	ToUser    string `json:"to_user"`
	BookingID string `json:"booking_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

func NewRatingHandler(service ratings.RatingUseCase) *RatingHandler {
	return &RatingHandler{service: service}
}

func (h *RatingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/users/:id", h.listForUser)
	router.GET("/users/:id/average", h.averageForUser)
}

func (h *RatingHandler) create(c *gin.Context) {
	var req rateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
		return
	}

	rating, err := h.service.RateBooking(c.Request.Context(), actorFrom(c), bookingID, req.Stars, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRatingResponse(rating))
}

func (h *RatingHandler) listForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	items, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]ratingResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toRatingResponse(&items[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *RatingHandler) averageForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	avg, err := h.service.AverageForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average": avg})
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        r.ID.String(),
		FromUser:  r.FromUser.String(),
		ToUser:    r.ToUser.String(),
		BookingID: r.BookingID.String(),
		Stars:     r.Stars,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
