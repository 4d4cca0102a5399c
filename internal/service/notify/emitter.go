package notify

import (
	"context"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/kafka"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Emitter publishes notification events from lifecycle operations.
// Emission is fire-and-forget: a broker failure is logged and never
// rolls back the domain write that triggered it.
type Emitter struct {
	producer Producer
	topic    string
	log      *zap.Logger
}

func NewEmitter(producer Producer, topic string, log *zap.Logger) *Emitter {
	return &Emitter{producer: producer, topic: topic, log: log}
}

func (e *Emitter) Emit(ctx context.Context, recipient uuid.UUID, kind domain.NotificationType, title, message, link string) {
	if e == nil || e.producer == nil || e.topic == "" {
		return
	}

	event := kafka.NotificationEvent{
		EventID:     uuid.NewString(),
		RecipientID: recipient,
		Type:        string(kind),
		Title:       title,
		Message:     message,
		Link:        link,
		OccurredAt:  time.Now(),
	}
	if err := e.producer.Publish(ctx, e.topic, recipient.String(), event); err != nil && e.log != nil {
		e.log.Warn("failed to publish notification event",
			zap.String("recipient", recipient.String()),
			zap.String("title", title),
			zap.Error(err))
	}
}
