package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/gateway"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SetProviderID(ctx context.Context, id uuid.UUID, providerID string) error {
	args := m.Called(ctx, id, providerID)
	return args.Error(0)
}

func (m *MockPaymentRepository) Complete(ctx context.Context, paymentID uuid.UUID, providerID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkFailed(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Refund(ctx context.Context, paymentID uuid.UUID, amountCents int64, externalID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, amountCents, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) AppendRelease(ctx context.Context, paymentID uuid.UUID, amountCents int64, externalID string) (*domain.Transaction, error) {
	args := m.Called(ctx, paymentID, amountCents, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPaymentRepository) ListTransactions(ctx context.Context, paymentID uuid.UUID) ([]domain.Transaction, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateChecked(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBySender(ctx context.Context, senderID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, senderID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByTraveler(ctx context.Context, travelerID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, travelerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) BookedWeightKg(ctx context.Context, itineraryID uuid.UUID) (float64, error) {
	args := m.Called(ctx, itineraryID)
	return args.Get(0).(float64), args.Error(1)
}

type MockItineraryRepository struct {
	mock.Mock
}

func (m *MockItineraryRepository) Create(ctx context.Context, itinerary *domain.Itinerary) error {
	args := m.Called(ctx, itinerary)
	return args.Error(0)
}

func (m *MockItineraryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) Search(ctx context.Context, filter domain.ItinerarySearch) ([]domain.Itinerary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItineraryStatus) (*domain.Itinerary, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) CompleteArrivedBefore(ctx context.Context, deadline time.Time) ([]domain.Itinerary, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Itinerary), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ChargeResult), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, providerPaymentID string, amountCents int64) (*gateway.RefundResult, error) {
	args := m.Called(ctx, providerPaymentID, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.RefundResult), args.Error(1)
}

type MockDeduper struct {
	mock.Mock
}

func (m *MockDeduper) ClaimWebhookEvent(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

type fixedFees struct {
	percent float64
}

func (f fixedFees) PlatformFee(amountCents int64) int64 {
	return int64(float64(amountCents) * f.percent / 100)
}

type paymentFixture struct {
	payments    *MockPaymentRepository
	bookings    *MockBookingRepository
	itineraries *MockItineraryRepository
	provider    *MockGateway
	deduper     *MockDeduper
	service     *PaymentService
}

func newFixture() *paymentFixture {
	f := &paymentFixture{
		payments:    &MockPaymentRepository{},
		bookings:    &MockBookingRepository{},
		itineraries: &MockItineraryRepository{},
		provider:    &MockGateway{},
		deduper:     &MockDeduper{},
	}
	f.service = NewPaymentService(f.payments, f.bookings, f.itineraries, fixedFees{percent: 10}, f.provider, f.deduper, time.Hour, nil, zap.NewNop())
	return f
}

func TestPaymentService_InitiatePayment_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	booking := &domain.Booking{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		Status:     domain.BookingStatusPending,
		PriceCents: 10000,
	}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil).Once()
	f.payments.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()

	payment, err := f.service.InitiatePayment(ctx, sender, booking.ID)

	assert.NoError(t, err)
	assert.Equal(t, booking.ID, payment.BookingID)
	assert.Equal(t, int64(10000), payment.AmountCents)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_InitiatePayment_ReturnsExisting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	booking := &domain.Booking{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		Status:     domain.BookingStatusPending,
		PriceCents: 10000,
	}
	existing := &domain.Payment{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		AmountCents: 10000,
		Status:      domain.PaymentStatusPending,
	}

	// a second initiate hits the unique constraint and hands back the
	// payment already on file
	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil).Once()
	f.payments.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicate).Once()
	f.payments.On("GetByBookingID", ctx, booking.ID).Return(existing, nil).Once()

	payment, err := f.service.InitiatePayment(ctx, sender, booking.ID)

	assert.NoError(t, err)
	assert.Equal(t, existing, payment)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_InitiatePayment_NotSender(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	booking := &domain.Booking{
		ID:       uuid.New(),
		SenderID: uuid.New(),
		Status:   domain.BookingStatusPending,
	}
	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil).Once()

	payment, err := f.service.InitiatePayment(ctx, stranger, booking.ID)

	assert.Nil(t, payment)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	f.payments.AssertNotCalled(t, "Create")
}

func TestPaymentService_ProcessPayment_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	itinerary := &domain.Itinerary{ID: uuid.New(), TravelerID: uuid.New()}
	booking := &domain.Booking{
		ID:          uuid.New(),
		SenderID:    sender.ID,
		ItineraryID: itinerary.ID,
		Status:      domain.BookingStatusPending,
		PriceCents:  10000,
	}
	completed := &domain.Payment{
		ID:                uuid.New(),
		BookingID:         booking.ID,
		AmountCents:       10000,
		Status:            domain.PaymentStatusCompleted,
		ProviderPaymentID: "prov_123",
	}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.itineraries.On("GetByID", ctx, itinerary.ID).Return(itinerary, nil)
	f.payments.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.provider.On("Charge", ctx, mock.AnythingOfType("gateway.ChargeRequest")).
		Return(&gateway.ChargeResult{Status: gateway.StatusSuccess, ProviderPaymentID: "prov_123"}, nil).Once()
	f.payments.On("Complete", ctx, mock.AnythingOfType("uuid.UUID"), "prov_123").Return(completed, nil).Once()

	payment, err := f.service.ProcessPayment(ctx, sender, booking.ID, gateway.Card{Number: "4242424242424242"})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	f.provider.AssertExpectations(t)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_DeclinedMarksFailed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	booking := &domain.Booking{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		Status:     domain.BookingStatusPending,
		PriceCents: 10000,
	}
	failed := &domain.Payment{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		AmountCents: 10000,
		Status:      domain.PaymentStatusFailed,
	}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil).Once()
	f.payments.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.provider.On("Charge", ctx, mock.Anything).
		Return(&gateway.ChargeResult{Status: "declined", ErrorMessage: "insufficient funds"}, nil).Once()
	f.payments.On("MarkFailed", ctx, mock.AnythingOfType("uuid.UUID")).Return(failed, nil).Once()

	payment, err := f.service.ProcessPayment(ctx, sender, booking.ID, gateway.Card{})

	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_TransportErrorMarksFailed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	booking := &domain.Booking{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		Status:     domain.BookingStatusPending,
		PriceCents: 10000,
	}
	failed := &domain.Payment{ID: uuid.New(), Status: domain.PaymentStatusFailed}

	providerErr := errors.New("connection refused")
	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil).Once()
	f.payments.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.provider.On("Charge", ctx, mock.Anything).Return(nil, providerErr).Once()
	f.payments.On("MarkFailed", ctx, mock.AnythingOfType("uuid.UUID")).Return(failed, nil).Once()

	payment, err := f.service.ProcessPayment(ctx, sender, booking.ID, gateway.Card{})

	assert.Nil(t, payment)
	assert.Equal(t, providerErr, err)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_ReleaseToTraveler_NetOfFee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	booking := &domain.Booking{
		ID:       uuid.New(),
		SenderID: sender.ID,
		Status:   domain.BookingStatusDelivered,
	}
	payment := &domain.Payment{
		ID:                uuid.New(),
		BookingID:         booking.ID,
		AmountCents:       10000,
		Status:            domain.PaymentStatusCompleted,
		ProviderPaymentID: "prov_123",
	}
	release := &domain.Transaction{
		ID:          uuid.New(),
		PaymentID:   payment.ID,
		AmountCents: 9000,
		Type:        domain.TransactionTypeRelease,
		Status:      domain.TransactionStatusSucceeded,
		ExternalID:  "release_prov_123",
	}

	f.payments.On("GetByID", ctx, payment.ID).Return(payment, nil).Once()
	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil).Once()
	// $100 at a 10% fee transfers $90
	f.payments.On("AppendRelease", ctx, payment.ID, int64(9000), "release_prov_123").Return(release, nil).Once()

	tx, err := f.service.ReleaseToTraveler(ctx, sender, payment.ID)

	assert.NoError(t, err)
	assert.Equal(t, int64(9000), tx.AmountCents)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_ReleaseToTraveler_Guards(t *testing.T) {
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}

	testCases := []struct {
		name          string
		paymentStatus domain.PaymentStatus
		bookingStatus domain.BookingStatus
	}{
		{"payment not completed", domain.PaymentStatusPending, domain.BookingStatusDelivered},
		{"booking not delivered", domain.PaymentStatusCompleted, domain.BookingStatusInTransit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			booking := &domain.Booking{ID: uuid.New(), SenderID: sender.ID, Status: tc.bookingStatus}
			payment := &domain.Payment{
				ID:          uuid.New(),
				BookingID:   booking.ID,
				AmountCents: 10000,
				Status:      tc.paymentStatus,
			}

			f.payments.On("GetByID", ctx, payment.ID).Return(payment, nil).Once()
			f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil).Once()

			tx, err := f.service.ReleaseToTraveler(ctx, sender, payment.ID)

			assert.Nil(t, tx)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			f.payments.AssertNotCalled(t, "AppendRelease")
		})
	}
}

func TestPaymentService_RefundPayment_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	itinerary := &domain.Itinerary{ID: uuid.New(), TravelerID: uuid.New()}
	booking := &domain.Booking{
		ID:          uuid.New(),
		SenderID:    sender.ID,
		ItineraryID: itinerary.ID,
		Status:      domain.BookingStatusConfirmed,
	}
	payment := &domain.Payment{
		ID:                uuid.New(),
		BookingID:         booking.ID,
		AmountCents:       10000,
		Status:            domain.PaymentStatusCompleted,
		ProviderPaymentID: "prov_123",
	}
	refunded := &domain.Payment{
		ID:          payment.ID,
		BookingID:   booking.ID,
		AmountCents: 10000,
		Status:      domain.PaymentStatusRefunded,
	}

	f.payments.On("GetByID", ctx, payment.ID).Return(payment, nil).Once()
	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.itineraries.On("GetByID", ctx, itinerary.ID).Return(itinerary, nil)
	f.provider.On("Refund", ctx, "prov_123", int64(10000)).
		Return(&gateway.RefundResult{Status: gateway.StatusSuccess, RefundID: "ref_456"}, nil).Once()
	f.payments.On("Refund", ctx, payment.ID, int64(10000), "ref_456").Return(refunded, nil).Once()

	result, err := f.service.RefundPayment(ctx, sender, payment.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRefunded, result.Status)
	f.provider.AssertExpectations(t)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_RefundPayment_ShippedRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sender := domain.Actor{ID: uuid.New(), Role: domain.RoleSender}
	booking := &domain.Booking{
		ID:       uuid.New(),
		SenderID: sender.ID,
		Status:   domain.BookingStatusInTransit,
	}
	payment := &domain.Payment{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		AmountCents: 10000,
		Status:      domain.PaymentStatusCompleted,
	}

	f.payments.On("GetByID", ctx, payment.ID).Return(payment, nil).Once()
	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil).Once()

	result, err := f.service.RefundPayment(ctx, sender, payment.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	f.provider.AssertNotCalled(t, "Refund")
}

func TestPaymentService_HandleWebhookEvent_Completed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	itinerary := &domain.Itinerary{ID: uuid.New(), TravelerID: uuid.New()}
	booking := &domain.Booking{ID: uuid.New(), SenderID: uuid.New(), ItineraryID: itinerary.ID}
	payment := &domain.Payment{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		AmountCents: 10000,
		Status:      domain.PaymentStatusPending,
	}
	completed := &domain.Payment{
		ID:          payment.ID,
		BookingID:   booking.ID,
		AmountCents: 10000,
		Status:      domain.PaymentStatusCompleted,
	}

	f.deduper.On("ClaimWebhookEvent", ctx, "evt_1", time.Hour).Return(true, nil).Once()
	f.payments.On("GetByProviderID", ctx, "prov_123").Return(payment, nil).Once()
	f.payments.On("Complete", ctx, payment.ID, "prov_123").Return(completed, nil).Once()
	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.itineraries.On("GetByID", ctx, itinerary.ID).Return(itinerary, nil)

	err := f.service.HandleWebhookEvent(ctx, gateway.WebhookEvent{
		EventID:   "evt_1",
		EventType: gateway.EventPaymentCompleted,
		PaymentID: "prov_123",
	})

	assert.NoError(t, err)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_HandleWebhookEvent_ReplayDropped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.deduper.On("ClaimWebhookEvent", ctx, "evt_1", time.Hour).Return(false, nil).Once()

	err := f.service.HandleWebhookEvent(ctx, gateway.WebhookEvent{
		EventID:   "evt_1",
		EventType: gateway.EventPaymentCompleted,
		PaymentID: "prov_123",
	})

	assert.NoError(t, err)
	f.payments.AssertNotCalled(t, "GetByProviderID")
}

func TestPaymentService_HandleWebhookEvent_AlreadyCompleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	payment := &domain.Payment{
		ID:     uuid.New(),
		Status: domain.PaymentStatusCompleted,
	}

	f.deduper.On("ClaimWebhookEvent", ctx, "evt_2", time.Hour).Return(true, nil).Once()
	f.payments.On("GetByProviderID", ctx, "prov_123").Return(payment, nil).Once()

	// completed -> completed is not a transition; the event is
	// acknowledged without writes
	err := f.service.HandleWebhookEvent(ctx, gateway.WebhookEvent{
		EventID:   "evt_2",
		EventType: gateway.EventPaymentCompleted,
		PaymentID: "prov_123",
	})

	assert.NoError(t, err)
	f.payments.AssertNotCalled(t, "Complete")
}

func TestPaymentService_HandleWebhookEvent_UnknownPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.deduper.On("ClaimWebhookEvent", ctx, "evt_3", time.Hour).Return(true, nil).Once()
	f.payments.On("GetByProviderID", ctx, "prov_missing").Return(nil, domain.ErrNotFound).Once()

	err := f.service.HandleWebhookEvent(ctx, gateway.WebhookEvent{
		EventID:   "evt_3",
		EventType: gateway.EventPaymentCompleted,
		PaymentID: "prov_missing",
	})

	assert.NoError(t, err)
	f.payments.AssertNotCalled(t, "Complete")
}

func TestPaymentService_HandleWebhookEvent_RefundFallbackID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	itinerary := &domain.Itinerary{ID: uuid.New(), TravelerID: uuid.New()}
	booking := &domain.Booking{ID: uuid.New(), SenderID: uuid.New(), ItineraryID: itinerary.ID}
	payment := &domain.Payment{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		AmountCents: 10000,
		Status:      domain.PaymentStatusCompleted,
	}
	refunded := &domain.Payment{
		ID:          payment.ID,
		BookingID:   booking.ID,
		AmountCents: 10000,
		Status:      domain.PaymentStatusRefunded,
	}

	f.deduper.On("ClaimWebhookEvent", ctx, "evt_4", time.Hour).Return(true, nil).Once()
	f.payments.On("GetByProviderID", ctx, "prov_123").Return(payment, nil).Once()
	f.payments.On("Refund", ctx, payment.ID, int64(10000), "refund_prov_123").Return(refunded, nil).Once()
	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.itineraries.On("GetByID", ctx, itinerary.ID).Return(itinerary, nil)

	err := f.service.HandleWebhookEvent(ctx, gateway.WebhookEvent{
		EventID:   "evt_4",
		EventType: gateway.EventPaymentRefunded,
		PaymentID: "prov_123",
	})

	assert.NoError(t, err)
	f.payments.AssertExpectations(t)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$100.00", formatCents(10000))
	assert.Equal(t, "$16.50", formatCents(1650))
	assert.Equal(t, "$0.05", formatCents(5))
}
