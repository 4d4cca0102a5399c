package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/gateway"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/flyncarry/flyncarry/internal/service/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentUseCase interface {
	InitiatePayment(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Payment, error)
	ProcessPayment(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, card gateway.Card) (*domain.Payment, error)
	ReleaseToTraveler(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) (*domain.Transaction, error)
	RefundPayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) (*domain.Payment, error)
	GetPaymentForBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Payment, error)
	ListTransactions(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) ([]domain.Transaction, error)
	HandleWebhookEvent(ctx context.Context, event gateway.WebhookEvent) error
}

type FeeCalculator interface {
	PlatformFee(amountCents int64) int64
}

// WebhookDeduper remembers provider event ids so replayed webhook
// deliveries are dropped.
type WebhookDeduper interface {
	ClaimWebhookEvent(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}

type PaymentService struct {
	payments    repository.PaymentRepository
	bookings    repository.BookingRepository
	itineraries repository.ItineraryRepository
	fees        FeeCalculator
	provider    gateway.Client
	deduper     WebhookDeduper
	dedupTTL    time.Duration
	notifier    *notify.Emitter
	log         *zap.Logger
}

func NewPaymentService(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	itineraries repository.ItineraryRepository,
	fees FeeCalculator,
	provider gateway.Client,
	deduper WebhookDeduper,
	dedupTTL time.Duration,
	notifier *notify.Emitter,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:    payments,
		bookings:    bookings,
		itineraries: itineraries,
		fees:        fees,
		provider:    provider,
		deduper:     deduper,
		dedupTTL:    dedupTTL,
		notifier:    notifier,
		log:         log,
	}
}

// InitiatePayment gets or creates the single pending payment for a
// booking, with amount fixed to the booking's price.
func (s *PaymentService) InitiatePayment(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.ID != booking.SenderID {
		return nil, fmt.Errorf("%w: only the booking's sender can pay for it", domain.ErrUnauthorized)
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is already %s", domain.ErrValidation, booking.Status)
	}

	payment := &domain.Payment{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		AmountCents: booking.PriceCents,
	}
	err = s.payments.Create(ctx, payment)
	if errors.Is(err, domain.ErrDuplicate) {
		return s.payments.GetByBookingID(ctx, bookingID)
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ProcessPayment charges the card through the provider. Any provider
// failure, transport error included, forces the payment to failed so
// it is never left pending indefinitely.
func (s *PaymentService) ProcessPayment(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, card gateway.Card) (*domain.Payment, error) {
	payment, err := s.InitiatePayment(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentStatusPending {
		return nil, fmt.Errorf("%w: payment is already %s", domain.ErrInvalidTransition, payment.Status)
	}

	result, err := s.provider.Charge(ctx, gateway.ChargeRequest{
		BuyerID:     actor.ID.String(),
		AmountCents: payment.AmountCents,
		Currency:    "USD",
		Card:        card,
		Reference:   payment.ID.String(),
	})
	if err != nil {
		if _, markErr := s.payments.MarkFailed(ctx, payment.ID); markErr != nil {
			s.log.Error("failed to mark payment failed", zap.String("payment", payment.ID.String()), zap.Error(markErr))
		}
		return nil, err
	}
	if result.Status != gateway.StatusSuccess {
		failed, markErr := s.payments.MarkFailed(ctx, payment.ID)
		if markErr != nil {
			return nil, markErr
		}
		if result.ErrorMessage != "" {
			return failed, fmt.Errorf("%w: %s", domain.ErrProvider, result.ErrorMessage)
		}
		return failed, fmt.Errorf("%w: payment processing failed", domain.ErrProvider)
	}

	completed, err := s.payments.Complete(ctx, payment.ID, result.ProviderPaymentID)
	if err != nil {
		return nil, err
	}

	s.notifyPaymentParties(ctx, completed, "Payment Completed",
		"Your payment of %s for booking has been completed.",
		"Payment of %s for a booking on your itinerary has been completed.")
	return completed, nil
}

// ReleaseToTraveler appends the escrow-release ledger entry, amount
// minus the platform fee. The payment status stays completed; release
// is bookkeeping on top of it, not a separate state.
func (s *PaymentService) ReleaseToTraveler(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) (*domain.Transaction, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if actor.ID != booking.SenderID && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only the sender or an admin can release the escrow", domain.ErrUnauthorized)
	}
	if payment.Status != domain.PaymentStatusCompleted {
		return nil, fmt.Errorf("%w: payment is %s, not completed", domain.ErrInvalidTransition, payment.Status)
	}
	if booking.Status != domain.BookingStatusDelivered {
		return nil, fmt.Errorf("%w: booking is %s, not delivered", domain.ErrInvalidTransition, booking.Status)
	}

	transfer := payment.AmountCents - s.fees.PlatformFee(payment.AmountCents)
	return s.payments.AppendRelease(ctx, payment.ID, transfer, "release_"+payment.ProviderPaymentID)
}

// RefundPayment refunds a completed payment while the booking has not
// yet shipped, cancelling the booking with it.
func (s *PaymentService) RefundPayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if actor.ID != booking.SenderID && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only the sender or an admin can refund this payment", domain.ErrUnauthorized)
	}
	if payment.Status != domain.PaymentStatusCompleted {
		return nil, fmt.Errorf("%w: payment is %s, not completed", domain.ErrInvalidTransition, payment.Status)
	}
	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s and can no longer be refunded", domain.ErrInvalidTransition, booking.Status)
	}

	result, err := s.provider.Refund(ctx, payment.ProviderPaymentID, payment.AmountCents)
	if err != nil {
		return nil, err
	}
	if result.Status != gateway.StatusSuccess {
		if result.ErrorMessage != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrProvider, result.ErrorMessage)
		}
		return nil, fmt.Errorf("%w: refund processing failed", domain.ErrProvider)
	}

	refunded, err := s.payments.Refund(ctx, payment.ID, payment.AmountCents, result.RefundID)
	if err != nil {
		return nil, err
	}

	s.notifyPaymentParties(ctx, refunded, "Payment Refunded",
		"Your payment of %s for booking has been refunded.",
		"Payment of %s for a booking on your itinerary has been refunded.")
	return refunded, nil
}

func (s *PaymentService) GetPaymentForBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	payment, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.ID != booking.SenderID && actor.Role != domain.RoleAdmin {
		itinerary, err := s.itineraries.GetByID(ctx, booking.ItineraryID)
		if err != nil {
			return nil, err
		}
		if actor.ID != itinerary.TravelerID {
			return nil, domain.ErrUnauthorized
		}
	}
	return payment, nil
}

func (s *PaymentService) ListTransactions(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) ([]domain.Transaction, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetPaymentForBooking(ctx, actor, payment.BookingID); err != nil {
		return nil, err
	}
	return s.payments.ListTransactions(ctx, paymentID)
}

// HandleWebhookEvent applies a verified provider event. Replayed
// events and events for payments already in the target state are
// acknowledged without writes.
func (s *PaymentService) HandleWebhookEvent(ctx context.Context, event gateway.WebhookEvent) error {
	if event.PaymentID == "" {
		return nil
	}
	if s.deduper != nil && event.EventID != "" {
		first, err := s.deduper.ClaimWebhookEvent(ctx, event.EventID, s.dedupTTL)
		if err == nil && !first {
			return nil
		}
	}

	payment, err := s.payments.GetByProviderID(ctx, event.PaymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("webhook for unknown payment", zap.String("provider_payment_id", event.PaymentID))
			return nil
		}
		return err
	}

	switch event.EventType {
	case gateway.EventPaymentCompleted:
		if !payment.Status.CanTransitionTo(domain.PaymentStatusCompleted) {
			return nil
		}
		completed, err := s.payments.Complete(ctx, payment.ID, event.PaymentID)
		if err != nil {
			return err
		}
		s.notifyPaymentParties(ctx, completed, "Payment Completed",
			"Your payment of %s for booking has been completed.",
			"Payment of %s for a booking on your itinerary has been completed.")
	case gateway.EventPaymentFailed:
		if !payment.Status.CanTransitionTo(domain.PaymentStatusFailed) {
			return nil
		}
		if _, err := s.payments.MarkFailed(ctx, payment.ID); err != nil {
			return err
		}
	case gateway.EventPaymentRefunded:
		if !payment.Status.CanTransitionTo(domain.PaymentStatusRefunded) {
			return nil
		}
		externalID := event.RefundID
		if externalID == "" {
			externalID = "refund_" + event.PaymentID
		}
		refunded, err := s.payments.Refund(ctx, payment.ID, payment.AmountCents, externalID)
		if err != nil {
			return err
		}
		s.notifyPaymentParties(ctx, refunded, "Payment Refunded",
			"Your payment of %s for booking has been refunded.",
			"Payment of %s for a booking on your itinerary has been refunded.")
	default:
		s.log.Warn("unknown webhook event type", zap.String("event_type", event.EventType))
	}
	return nil
}

func (s *PaymentService) notifyPaymentParties(ctx context.Context, payment *domain.Payment, title, senderFormat, travelerFormat string) {
	booking, err := s.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return
	}
	itinerary, err := s.itineraries.GetByID(ctx, booking.ItineraryID)
	if err != nil {
		return
	}

	amount := formatCents(payment.AmountCents)
	link := "/bookings/" + booking.ID.String()
	s.notifier.Emit(ctx, booking.SenderID, domain.NotificationTypePayment, title, fmt.Sprintf(senderFormat, amount), link)
	s.notifier.Emit(ctx, itinerary.TravelerID, domain.NotificationTypePayment, title, fmt.Sprintf(travelerFormat, amount), link)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

var _ PaymentUseCase = (*PaymentService)(nil)
