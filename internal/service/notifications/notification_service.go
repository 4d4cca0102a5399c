package notifications

import (
	"context"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/kafka"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/google/uuid"
)

type NotificationUseCase interface {
	List(ctx context.Context, actor domain.Actor) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, actor domain.Actor) (int, error)
	MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	MarkAllRead(ctx context.Context, actor domain.Actor) error
	Store(ctx context.Context, event kafka.NotificationEvent) (*domain.Notification, error)
}

type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	return s.notifications.ListByUser(ctx, actor.ID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor domain.Actor) (int, error) {
	return s.notifications.CountUnread(ctx, actor.ID)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, id, actor.ID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	return s.notifications.MarkAllRead(ctx, actor.ID)
}

// Store materializes a consumed event into a notification row. Called
// by the worker, not by the request path.
func (s *NotificationService) Store(ctx context.Context, event kafka.NotificationEvent) (*domain.Notification, error) {
	notification := &domain.Notification{
		ID:      uuid.New(),
		UserID:  event.RecipientID,
		Type:    domain.NotificationType(event.Type),
		Title:   event.Title,
		Message: event.Message,
		Link:    event.Link,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

var _ NotificationUseCase = (*NotificationService)(nil)
