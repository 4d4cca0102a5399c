package api

import (
	"net/http"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/service/requests"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RequestHandler struct {
	service requests.RequestUseCase
}

type createRequestRequest struct {
	Origin              string  `json:"origin" binding:"required"`
	Destination         string  `json:"destination" binding:"required"`
	PreferredDate       string  `json:"preferred_date" binding:"required"`
	PackageDescription  string  `json:"package_description" binding:"required"`
	PackageWeightKg     float64 `json:"package_weight_kg" binding:"required,gt=0"`
	PackageDimensions   string  `json:"package_dimensions" binding:"required,dimensions"`
	SpecialInstructions string  `json:"special_instructions"`
	PriceOfferCents     int64   `json:"price_offer_cents" binding:"required,gt=0"`
}

type acceptRequestRequest struct {
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	ArrivalDate   string `json:"arrival_date"`
	CapacityKg    string `json:"capacity_kg"`
}

type requestResponse struct {
	ID                  string  `json:"id"`
	SenderID            string  `json:"sender_id"`
	Origin              string  `json:"origin"`
	Destination         string  `json:"destination"`
	PreferredDate       string  `json:"preferred_date"`
	PackageDescription  string  `json:"package_description"`
	PackageWeightKg     float64 `json:"package_weight_kg"`
	PackageDimensions   string  `json:"package_dimensions"`
	SpecialInstructions string  `json:"special_instructions"`
	Status              string  `json:"status"`
	PriceOfferCents     int64   `json:"price_offer_cents"`
	CreatedAt           string  `json:"created_at"`
}

type acceptRequestResponse struct {
	Itinerary itineraryResponse `json:"itinerary"`
	Booking   bookingResponse   `json:"booking"`
}

func NewRequestHandler(service requests.RequestUseCase) *RequestHandler {
	return &RequestHandler{service: service}
}

func (h *RequestHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.POST("/:id/accept", h.accept)
	router.DELETE("/:id", h.cancel)
}

func (h *RequestHandler) list(c *gin.Context) {
	reqs, err := h.service.ListRequests(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]requestResponse, 0, len(reqs))
	for i := range reqs {
		responses = append(responses, toRequestResponse(&reqs[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *RequestHandler) create(c *gin.Context) {
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	preferredDate, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preferred_date must be YYYY-MM-DD"})
		return
	}

	created, err := h.service.CreateRequest(c.Request.Context(), actorFrom(c), requests.CreateRequestInput{
		Origin:              req.Origin,
		Destination:         req.Destination,
		PreferredDate:       preferredDate,
		PackageDescription:  req.PackageDescription,
		PackageWeightKg:     req.PackageWeightKg,
		PackageDimensions:   req.PackageDimensions,
		SpecialInstructions: req.SpecialInstructions,
		PriceOfferCents:     req.PriceOfferCents,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRequestResponse(created))
}

func (h *RequestHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	r, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(r))
}

func (h *RequestHandler) accept(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req acceptRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itinerary, b, err := h.service.AcceptRequest(c.Request.Context(), actorFrom(c), id, requests.ScheduleInput{
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		ArrivalDate:   req.ArrivalDate,
		CapacityKg:    req.CapacityKg,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acceptRequestResponse{
		Itinerary: toItineraryResponse(itinerary),
		Booking:   toBookingResponse(b),
	})
}

func (h *RequestHandler) cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cancelled, err := h.service.CancelRequest(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(cancelled))
}

func toRequestResponse(r *domain.PackageRequest) requestResponse {
	return requestResponse{
		ID:                  r.ID.String(),
		SenderID:            r.SenderID.String(),
		Origin:              r.Origin,
		Destination:         r.Destination,
		PreferredDate:       r.PreferredDate.Format("2006-01-02"),
		PackageDescription:  r.PackageDescription,
		PackageWeightKg:     r.PackageWeightKg,
		PackageDimensions:   r.PackageDimensions,
		SpecialInstructions: r.SpecialInstructions,
		Status:              string(r.Status),
		PriceOfferCents:     r.PriceOfferCents,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
	}
}
