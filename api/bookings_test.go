package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, actor domain.Actor, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func testContext(t *testing.T, actor domain.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(actorKey, actor)
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	RegisterValidators()
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	c, w := testContext(t, sender)

	itineraryID := uuid.New()
	body, _ := json.Marshal(createBookingRequest{
		ItineraryID:        itineraryID.String(),
		PackageDescription: "Books",
		PackageWeightKg:    7,
		PackageDimensions:  "30x20x10",
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Booking{
		ID:                 uuid.New(),
		SenderID:           sender.ID,
		ItineraryID:        itineraryID,
		PackageDescription: "Books",
		PackageWeightKg:    7,
		PackageDimensions:  "30x20x10",
		Status:             domain.BookingStatusPending,
		PriceCents:         8000,
	}

	mockService.On("CreateBooking", c.Request.Context(), sender, booking.CreateBookingInput{
		ItineraryID:        itineraryID,
		PackageDescription: "Books",
		PackageWeightKg:    7,
		PackageDimensions:  "30x20x10",
	}).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, created.ID.String(), response.ID)
	assert.Equal(t, int64(8000), response.PriceCents)
	assert.Equal(t, string(domain.BookingStatusPending), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_badDimensions(t *testing.T) {
	RegisterValidators()
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	c, w := testContext(t, sender)

	body, _ := json.Marshal(createBookingRequest{
		ItineraryID:        uuid.NewString(),
		PackageDescription: "Books",
		PackageWeightKg:    7,
		PackageDimensions:  "big-ish",
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_create_capacityConflict(t *testing.T) {
	RegisterValidators()
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	c, w := testContext(t, sender)

	body, _ := json.Marshal(createBookingRequest{
		ItineraryID:        uuid.NewString(),
		PackageDescription: "Dumbbells",
		PackageWeightKg:    18,
		PackageDimensions:  "50x40x30",
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), sender, mock.Anything).
		Return(nil, domain.ErrCapacityExceeded)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	c, w := testContext(t, sender)

	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/"+id.String(), nil)

	cancelled := &domain.Booking{
		ID:       id,
		SenderID: sender.ID,
		Status:   domain.BookingStatusCancelled,
	}

	mockService.On("CancelBooking", c.Request.Context(), sender, id).Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_updateStatus_conflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	traveler := domain.Actor{ID: uuid.New(), Role: domain.RoleTraveler}
	c, w := testContext(t, traveler)

	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	body, _ := json.Marshal(updateBookingStatusRequest{Status: "delivered"})
	c.Request = httptest.NewRequest("PUT", "/bookings/"+id.String()+"/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("UpdateStatus", c.Request.Context(), traveler, id, domain.BookingStatusDelivered).
		Return(nil, domain.ErrInvalidTransition)

	handler.updateStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_get_invalidID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t, domain.Actor{ID: uuid.New(), Role: domain.RoleSender})
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	c.Request = httptest.NewRequest("GET", "/bookings/not-a-uuid", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetBooking")
}
