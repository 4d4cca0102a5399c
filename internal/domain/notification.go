package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBooking NotificationType = "booking"
	NotificationTypePayment NotificationType = "payment"
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeRating  NotificationType = "rating"
	NotificationTypeSystem  NotificationType = "system"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      NotificationType
	Title     string
	Message   string
	Link      string
	IsRead    bool
	CreatedAt time.Time
}
