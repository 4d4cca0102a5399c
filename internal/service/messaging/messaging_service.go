package messaging

import (
	"context"
	"fmt"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/flyncarry/flyncarry/internal/service/notify"
	"github.com/google/uuid"
)

type MessagingUseCase interface {
	SendMessage(ctx context.Context, actor domain.Actor, recipientID uuid.UUID, content string) (*domain.Message, error)
	ListConversations(ctx context.Context, actor domain.Actor) ([]domain.Conversation, error)
	ListMessages(ctx context.Context, actor domain.Actor, conversationID uuid.UUID) ([]domain.Message, error)
}

type MessagingService struct {
	messages repository.MessageRepository
	notifier *notify.Emitter
}

func NewMessagingService(messages repository.MessageRepository, notifier *notify.Emitter) *MessagingService {
	return &MessagingService{messages: messages, notifier: notifier}
}

func (s *MessagingService) SendMessage(ctx context.Context, actor domain.Actor, recipientID uuid.UUID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", domain.ErrValidation)
	}
	if recipientID == actor.ID || recipientID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid recipient", domain.ErrValidation)
	}

	conversation, err := s.messages.GetOrCreateConversation(ctx, actor.ID, recipientID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		SenderID:       actor.ID,
		Content:        content,
	}
	if err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	// Cut by runes so a multi-byte character on the boundary is not
	// split into invalid UTF-8.
	preview := content
	if runes := []rune(preview); len(runes) > 50 {
		preview = string(runes[:50]) + "..."
	}
	s.notifier.Emit(ctx, recipientID, domain.NotificationTypeMessage, "New message",
		preview, "/messages/conversation/"+conversation.ID.String())
	return message, nil
}

func (s *MessagingService) ListConversations(ctx context.Context, actor domain.Actor) ([]domain.Conversation, error) {
	return s.messages.ListConversations(ctx, actor.ID)
}

// ListMessages returns the thread and marks the counterparty's
// messages read for the caller.
func (s *MessagingService) ListMessages(ctx context.Context, actor domain.Actor, conversationID uuid.UUID) ([]domain.Message, error) {
	conversation, err := s.messages.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(actor.ID) {
		return nil, domain.ErrUnauthorized
	}

	messages, err := s.messages.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	_ = s.messages.MarkMessagesRead(ctx, conversationID, actor.ID)
	return messages, nil
}

var _ MessagingUseCase = (*MessagingService)(nil)
