package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/service/itineraries"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItineraryHandler struct {
	service itineraries.ItineraryUseCase
}

type createItineraryRequest struct {
	Origin              string  `json:"origin" binding:"required"`
	Destination         string  `json:"destination" binding:"required"`
	DepartureAt         string  `json:"departure_at" binding:"required"`
	ArrivalAt           string  `json:"arrival_at" binding:"required"`
	CapacityKg          float64 `json:"capacity_kg" binding:"required,gt=0"`
	PackageRestrictions string  `json:"package_restrictions"`
}

type itineraryResponse struct {
	ID                  string  `json:"id"`
	TravelerID          string  `json:"traveler_id"`
	Origin              string  `json:"origin"`
	Destination         string  `json:"destination"`
	DepartureAt         string  `json:"departure_at"`
	ArrivalAt           string  `json:"arrival_at"`
	CapacityKg          float64 `json:"capacity_kg"`
	PackageRestrictions string  `json:"package_restrictions"`
	Status              string  `json:"status"`
}

type saveSearchRequest struct {
	Name              string  `json:"name" binding:"required,max=100"`
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	DepartureDateFrom string  `json:"departure_date_from"`
	DepartureDateTo   string  `json:"departure_date_to"`
	MinCapacityKg     float64 `json:"min_capacity_kg" binding:"omitempty,gt=0"`
	Notify            bool    `json:"notify"`
}

type savedSearchResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Origin            string  `json:"origin,omitempty"`
	Destination       string  `json:"destination,omitempty"`
	DepartureDateFrom string  `json:"departure_date_from,omitempty"`
	DepartureDateTo   string  `json:"departure_date_to,omitempty"`
	MinCapacityKg     float64 `json:"min_capacity_kg,omitempty"`
	Notify            bool    `json:"notify"`
	CreatedAt         string  `json:"created_at"`
}

func NewItineraryHandler(service itineraries.ItineraryUseCase) *ItineraryHandler {
	return &ItineraryHandler{service: service}
}

func (h *ItineraryHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/saved-searches", h.listSavedSearches)
	router.POST("/saved-searches", h.saveSearch)
	router.DELETE("/saved-searches/:id", h.deleteSavedSearch)
	router.GET("/:id", h.get)
	router.GET("/:id/capacity", h.capacity)
	router.DELETE("/:id", h.cancel)
}

func searchFilterFrom(c *gin.Context) domain.ItinerarySearch {
	filter := domain.ItinerarySearch{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
	}
	if from := c.Query("departure_date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.DepartureDateFrom = t
		}
	}
	if to := c.Query("departure_date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.DepartureDateTo = t
		}
	}
	if minCap := c.Query("min_capacity_kg"); minCap != "" {
		if kg, err := strconv.ParseFloat(minCap, 64); err == nil && kg > 0 {
			filter.MinCapacityKg = kg
		}
	}
	return filter
}

func (h *ItineraryHandler) list(c *gin.Context) {
	list, err := h.service.Search(c.Request.Context(), searchFilterFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]itineraryResponse, 0, len(list))
	for i := range list {
		responses = append(responses, toItineraryResponse(&list[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ItineraryHandler) create(c *gin.Context) {
	var req createItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	departureAt, err := time.Parse(time.RFC3339, req.DepartureAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_at"})
		return
	}
	arrivalAt, err := time.Parse(time.RFC3339, req.ArrivalAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival_at"})
		return
	}

	itinerary, err := h.service.Create(c.Request.Context(), actorFrom(c), itineraries.CreateItineraryInput{
		Origin:              req.Origin,
		Destination:         req.Destination,
		DepartureAt:         departureAt,
		ArrivalAt:           arrivalAt,
		CapacityKg:          req.CapacityKg,
		PackageRestrictions: req.PackageRestrictions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItineraryResponse(itinerary))
}

func (h *ItineraryHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	itinerary, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItineraryResponse(itinerary))
}

func (h *ItineraryHandler) capacity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	available, err := h.service.AvailableCapacityKg(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available_capacity_kg": available})
}

func (h *ItineraryHandler) cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	itinerary, err := h.service.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItineraryResponse(itinerary))
}

func (h *ItineraryHandler) saveSearch(c *gin.Context) {
	var req saveSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := domain.ItinerarySearch{
		Origin:        req.Origin,
		Destination:   req.Destination,
		MinCapacityKg: req.MinCapacityKg,
	}
	if req.DepartureDateFrom != "" {
		t, err := time.Parse("2006-01-02", req.DepartureDateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date_from"})
			return
		}
		filter.DepartureDateFrom = t
	}
	if req.DepartureDateTo != "" {
		t, err := time.Parse("2006-01-02", req.DepartureDateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date_to"})
			return
		}
		filter.DepartureDateTo = t
	}

	search, err := h.service.SaveSearch(c.Request.Context(), actorFrom(c), itineraries.SaveSearchInput{
		Name:   req.Name,
		Filter: filter,
		Notify: req.Notify,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSavedSearchResponse(search))
}

func (h *ItineraryHandler) listSavedSearches(c *gin.Context) {
	searches, err := h.service.ListSavedSearches(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]savedSearchResponse, 0, len(searches))
	for i := range searches {
		responses = append(responses, toSavedSearchResponse(&searches[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ItineraryHandler) deleteSavedSearch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.DeleteSavedSearch(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toItineraryResponse(i *domain.Itinerary) itineraryResponse {
	return itineraryResponse{
		ID:                  i.ID.String(),
		TravelerID:          i.TravelerID.String(),
		Origin:              i.Origin,
		Destination:         i.Destination,
		DepartureAt:         i.DepartureAt.Format(time.RFC3339),
		ArrivalAt:           i.ArrivalAt.Format(time.RFC3339),
		CapacityKg:          i.CapacityKg,
		PackageRestrictions: i.PackageRestrictions,
		Status:              string(i.Status),
	}
}

func toSavedSearchResponse(s *domain.SavedSearch) savedSearchResponse {
	resp := savedSearchResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		Origin:        s.Filter.Origin,
		Destination:   s.Filter.Destination,
		MinCapacityKg: s.Filter.MinCapacityKg,
		Notify:        s.Notify,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
	if !s.Filter.DepartureDateFrom.IsZero() {
		resp.DepartureDateFrom = s.Filter.DepartureDateFrom.Format("2006-01-02")
	}
	if !s.Filter.DepartureDateTo.IsZero() {
		resp.DepartureDateTo = s.Filter.DepartureDateTo.Format("2006-01-02")
	}
	return resp
}
