package api

import (
	"net/http"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	ItineraryID         string  `json:"itinerary_id" binding:"required,uuid"`
	PackageDescription  string  `json:"package_description" binding:"required"`
	PackageWeightKg     float64 `json:"package_weight_kg" binding:"required,gt=0"`
	PackageDimensions   string  `json:"package_dimensions" binding:"required,dimensions"`
	SpecialInstructions string  `json:"special_instructions"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type bookingResponse struct {
	ID                  string  `json:"id"`
	SenderID            string  `json:"sender_id"`
	ItineraryID         string  `json:"itinerary_id"`
	PackageDescription  string  `json:"package_description"`
	PackageWeightKg     float64 `json:"package_weight_kg"`
	PackageDimensions   string  `json:"package_dimensions"`
	SpecialInstructions string  `json:"special_instructions"`
	Status              string  `json:"status"`
	PriceCents          int64   `json:"price_cents"`
	CreatedAt           string  `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id/status", h.updateStatus)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itineraryID, err := uuid.Parse(req.ItineraryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary_id"})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), actorFrom(c), booking.CreateBookingInput{
		ItineraryID:         itineraryID,
		PackageDescription:  req.PackageDescription,
		PackageWeightKg:     req.PackageWeightKg,
		PackageDimensions:   req.PackageDimensions,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), actorFrom(c), id, domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cancelled, err := h.service.CancelBooking(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                  b.ID.String(),
		SenderID:            b.SenderID.String(),
		ItineraryID:         b.ItineraryID.String(),
		PackageDescription:  b.PackageDescription,
		PackageWeightKg:     b.PackageWeightKg,
		PackageDimensions:   b.PackageDimensions,
		SpecialInstructions: b.SpecialInstructions,
		Status:              string(b.Status),
		PriceCents:          b.PriceCents,
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
	}
}
