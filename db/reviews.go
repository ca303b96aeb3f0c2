package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Review is a rating one user leaves for another. Reviews feed
// UpdateUserRating on the recipient.
type Review struct {
	ID          int       `db:"id" json:"id"`
	AuthorID    int       `db:"author_id" json:"authorId"`
	RecipientID int       `db:"recipient_id" json:"recipientId"`
	Rating      int       `db:"rating" json:"rating"`
	Comment     string    `db:"comment" json:"comment"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

func (s *Storage) CreateReview(ctx context.Context, r *Review) (*Review, error) {
	query := `
        INSERT INTO reviews
            (author_id, recipient_id, rating, comment, created_at)
        VALUES
            ($1, $2, $3, $4, $5)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		r.AuthorID, r.RecipientID, r.Rating, r.Comment, now()).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("review %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetReview(ctx context.Context, id int) (*Review, error) {
	r := &Review{}
	err := s.db.GetContext(ctx, r, `SELECT * FROM reviews WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Storage) GetUserReviews(ctx context.Context, recipientID int) ([]Review, error) {
	reviews := []Review{}
	err := s.db.SelectContext(ctx, &reviews,
		`SELECT * FROM reviews WHERE recipient_id=$1 ORDER BY created_at DESC`, recipientID)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *Storage) DeleteReview(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
