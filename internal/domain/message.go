package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a two-party message thread.
type Conversation struct {
	ID           uuid.UUID
	Participants [2]uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OtherParticipant returns the counterparty, or uuid.Nil when the
// given user is not part of the conversation.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	switch userID {
	case c.Participants[0]:
		return c.Participants[1]
	case c.Participants[1]:
		return c.Participants[0]
	}
	return uuid.Nil
}

func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	IsRead         bool
	SentAt         time.Time
}
