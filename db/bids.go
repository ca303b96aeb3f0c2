package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TenderBid is one contractor's offer on a tender.
type TenderBid struct {
	ID          int       `db:"id" json:"id"`
	TenderID    int       `db:"tender_id" json:"tenderId"`
	BidderID    int       `db:"bidder_id" json:"bidderId"`
	Amount      float64   `db:"amount" json:"amount"`
	Description string    `db:"description" json:"description"`
	IsAccepted  bool      `db:"is_accepted" json:"isAccepted"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type TenderBidPatch struct {
	Amount      *float64
	Description *string
}

func (s *Storage) CreateTenderBid(ctx context.Context, b *TenderBid) (*TenderBid, error) {
	ts := now()
	query := `
        INSERT INTO tender_bids
            (tender_id, bidder_id, amount, description, is_accepted, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, FALSE, $5, $6)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		b.TenderID, b.BidderID, b.Amount, b.Description, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetTenderBid(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("tender bid %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetTenderBid(ctx context.Context, id int) (*TenderBid, error) {
	b := &TenderBid{}
	err := s.db.GetContext(ctx, b, `SELECT * FROM tender_bids WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Storage) GetTenderBids(ctx context.Context, tenderID int) ([]TenderBid, error) {
	bids := []TenderBid{}
	err := s.db.SelectContext(ctx, &bids,
		`SELECT * FROM tender_bids WHERE tender_id=$1 ORDER BY created_at DESC`, tenderID)
	if err != nil {
		return nil, err
	}
	return bids, nil
}

func (s *Storage) GetUserTenderBids(ctx context.Context, bidderID int) ([]TenderBid, error) {
	bids := []TenderBid{}
	err := s.db.SelectContext(ctx, &bids,
		`SELECT * FROM tender_bids WHERE bidder_id=$1 ORDER BY created_at DESC`, bidderID)
	if err != nil {
		return nil, err
	}
	return bids, nil
}

func (s *Storage) UpdateTenderBid(ctx context.Context, id int, p *TenderBidPatch) (*TenderBid, error) {
	ok, err := s.applyPatch(ctx, "tender_bids", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetTenderBid(ctx, id)
}

func (s *Storage) DeleteTenderBid(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tender_bids WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AcceptTenderBid marks the bid accepted and moves its tender to in_progress
// in one transaction; either both rows change or neither does. Accepting an
// already-accepted bid is idempotent on the flag and re-applies the tender
// status.
func (s *Storage) AcceptTenderBid(ctx context.Context, bidID int) (*TenderBid, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	bid := &TenderBid{}
	err = tx.GetContext(ctx, bid, `SELECT * FROM tender_bids WHERE id=$1`, bidID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ts := now()
	_, err = tx.ExecContext(ctx,
		`UPDATE tender_bids SET is_accepted=TRUE, updated_at=$1 WHERE id=$2`, ts, bidID)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE tenders SET status=$1, updated_at=$2 WHERE id=$3`,
		TenderStatusInProgress, ts, bid.TenderID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetTenderBid(ctx, bidID)
}
