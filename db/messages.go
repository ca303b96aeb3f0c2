package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Message is a directed message between two users. Content is immutable
// after creation; the only mutation is marking it read.
type Message struct {
	ID         int       `db:"id" json:"id"`
	SenderID   int       `db:"sender_id" json:"senderId"`
	ReceiverID int       `db:"receiver_id" json:"receiverId"`
	Content    string    `db:"content" json:"content"`
	IsRead     bool      `db:"is_read" json:"isRead"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

func (s *Storage) CreateMessage(ctx context.Context, m *Message) (*Message, error) {
	ts := now()
	query := `
        INSERT INTO messages
            (sender_id, receiver_id, content, is_read, created_at, updated_at)
        VALUES
            ($1, $2, $3, FALSE, $4, $5)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		m.SenderID, m.ReceiverID, m.Content, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("message %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetMessage(ctx context.Context, id int) (*Message, error) {
	m := &Message{}
	err := s.db.GetContext(ctx, m, `SELECT * FROM messages WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetUserMessages returns every message the user sent or received, newest
// first.
func (s *Storage) GetUserMessages(ctx context.Context, userID int) ([]Message, error) {
	messages := []Message{}
	err := s.db.SelectContext(ctx, &messages, `
        SELECT * FROM messages
        WHERE sender_id=$1 OR receiver_id=$1
        ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GetConversation returns the messages between two users in chronological
// order, whichever direction each one went.
func (s *Storage) GetConversation(ctx context.Context, userA, userB int) ([]Message, error) {
	messages := []Message{}
	err := s.db.SelectContext(ctx, &messages, `
        SELECT * FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2)
           OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY created_at ASC, id ASC`, userA, userB)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Storage) MarkMessageRead(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET is_read=TRUE, updated_at=$1 WHERE id=$2`, now(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
