package repository

import (
	"context"
	"errors"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository interface {
	// GetOrCreateConversation returns the conversation between the two
	// users, creating it when none exists. Participant order is
	// normalized so the pair is unique.
	GetOrCreateConversation(ctx context.Context, a, b uuid.UUID) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	CreateMessage(ctx context.Context, message *domain.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error
}

type PGMessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) MessageRepository {
	return &PGMessageRepository{db: db}
}

func orderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

func (r *PGMessageRepository) GetOrCreateConversation(ctx context.Context, a, b uuid.UUID) (*domain.Conversation, error) {
	first, second := orderedPair(a, b)

	var c domain.Conversation
	row := r.db.QueryRow(ctx, `SELECT id, participant_a, participant_b, created_at, updated_at FROM conversations WHERE participant_a=$1 AND participant_b=$2`, first, second)
	err := row.Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.CreatedAt, &c.UpdatedAt)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	c = domain.Conversation{ID: uuid.New(), Participants: [2]uuid.UUID{first, second}}
	err = r.db.QueryRow(ctx, `INSERT INTO conversations (id, participant_a, participant_b)
		VALUES ($1, $2, $3)
		ON CONFLICT (participant_a, participant_b) DO UPDATE SET updated_at=now()
		RETURNING id, created_at, updated_at`,
		c.ID, first, second).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGMessageRepository) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var c domain.Conversation
	row := r.db.QueryRow(ctx, `SELECT id, participant_a, participant_b, created_at, updated_at FROM conversations WHERE id=$1`, id)
	if err := row.Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGMessageRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, participant_a, participant_b, created_at, updated_at FROM conversations WHERE participant_a=$1 OR participant_b=$1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]domain.Conversation, 0)
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (r *PGMessageRepository) CreateMessage(ctx context.Context, m *domain.Message) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO messages (id, conversation_id, sender_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING sent_at`,
		m.ID, m.ConversationID, m.SenderID, m.Content).
		Scan(&m.SentAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE conversations SET updated_at=now() WHERE id=$1`, m.ConversationID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGMessageRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, `SELECT id, conversation_id, sender_id, content, is_read, sent_at FROM messages WHERE conversation_id=$1 ORDER BY sent_at`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.IsRead, &m.SentAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PGMessageRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE messages SET is_read=true WHERE conversation_id=$1 AND sender_id <> $2 AND is_read=false`, conversationID, readerID)
	return err
}

var _ MessageRepository = (*PGMessageRepository)(nil)
