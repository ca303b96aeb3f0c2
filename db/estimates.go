package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Estimate is a priced breakdown of work, owned by a user and optionally
// attached to a tender. It owns its items.
type Estimate struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"userId"`
	TenderID    *int      `db:"tender_id" json:"tenderId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Total       float64   `db:"total" json:"total"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type EstimatePatch struct {
	Title       *string
	Description *string
	Total       *float64
}

// EstimateItem is one line of an estimate.
type EstimateItem struct {
	ID         int       `db:"id" json:"id"`
	EstimateID int       `db:"estimate_id" json:"estimateId"`
	Name       string    `db:"name" json:"name"`
	Unit       string    `db:"unit" json:"unit"`
	Quantity   float64   `db:"quantity" json:"quantity"`
	UnitPrice  float64   `db:"unit_price" json:"unitPrice"`
	Amount     float64   `db:"amount" json:"amount"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type EstimateItemPatch struct {
	Name      *string
	Unit      *string
	Quantity  *float64
	UnitPrice *float64
	Amount    *float64
}

func (s *Storage) CreateEstimate(ctx context.Context, e *Estimate) (*Estimate, error) {
	ts := now()
	query := `
        INSERT INTO estimates
            (user_id, tender_id, title, description, total, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		e.UserID, e.TenderID, e.Title, e.Description, e.Total, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("estimate %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetEstimate(ctx context.Context, id int) (*Estimate, error) {
	e := &Estimate{}
	err := s.db.GetContext(ctx, e, `SELECT * FROM estimates WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Storage) GetUserEstimates(ctx context.Context, userID int) ([]Estimate, error) {
	estimates := []Estimate{}
	err := s.db.SelectContext(ctx, &estimates,
		`SELECT * FROM estimates WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return estimates, nil
}

func (s *Storage) GetTenderEstimates(ctx context.Context, tenderID int) ([]Estimate, error) {
	estimates := []Estimate{}
	err := s.db.SelectContext(ctx, &estimates,
		`SELECT * FROM estimates WHERE tender_id=$1 ORDER BY created_at DESC`, tenderID)
	if err != nil {
		return nil, err
	}
	return estimates, nil
}

func (s *Storage) UpdateEstimate(ctx context.Context, id int, p *EstimatePatch) (*Estimate, error) {
	ok, err := s.applyPatch(ctx, "estimates", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetEstimate(ctx, id)
}

// DeleteEstimate removes the estimate and its items together; items never
// outlive their estimate.
func (s *Storage) DeleteEstimate(ctx context.Context, id int) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM estimate_items WHERE estimate_id=$1`, id); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM estimates WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) CreateEstimateItem(ctx context.Context, it *EstimateItem) (*EstimateItem, error) {
	ts := now()
	query := `
        INSERT INTO estimate_items
            (estimate_id, name, unit, quantity, unit_price, amount, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		it.EstimateID, it.Name, it.Unit, it.Quantity, it.UnitPrice, it.Amount, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetEstimateItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("estimate item %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetEstimateItem(ctx context.Context, id int) (*EstimateItem, error) {
	it := &EstimateItem{}
	err := s.db.GetContext(ctx, it, `SELECT * FROM estimate_items WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Storage) GetEstimateItems(ctx context.Context, estimateID int) ([]EstimateItem, error) {
	items := []EstimateItem{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT * FROM estimate_items WHERE estimate_id=$1 ORDER BY id ASC`, estimateID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Storage) UpdateEstimateItem(ctx context.Context, id int, p *EstimateItemPatch) (*EstimateItem, error) {
	ok, err := s.applyPatch(ctx, "estimate_items", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetEstimateItem(ctx, id)
}

func (s *Storage) DeleteEstimateItem(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM estimate_items WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
