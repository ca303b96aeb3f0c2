package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Tender lifecycle. A tender opens, moves to in_progress when a bid is
// accepted, and reaches its terminal states outside this layer.
const (
	TenderStatusOpen       = "open"
	TenderStatusInProgress = "in_progress"
	TenderStatusCompleted  = "completed"
	TenderStatusCancelled  = "cancelled"
)

type Tender struct {
	ID                  int        `db:"id" json:"id"`
	UserID              int        `db:"user_id" json:"userId"`
	Title               string     `db:"title" json:"title"`
	Description         string     `db:"description" json:"description"`
	Category            string     `db:"category" json:"category"`
	Budget              float64    `db:"budget" json:"budget"`
	Deadline            *time.Time `db:"deadline" json:"deadline"`
	Status              string     `db:"status" json:"status"`
	Images              StringList `db:"images" json:"images"`
	RequiredProfessions StringList `db:"required_professions" json:"requiredProfessions"`
	ViewsCount          int        `db:"views_count" json:"viewsCount"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

type TenderPatch struct {
	Title               *string
	Description         *string
	Category            *string
	Budget              *float64
	Deadline            *time.Time
	Status              *string
	Images              *StringList
	RequiredProfessions *StringList
}

func (s *Storage) CreateTender(ctx context.Context, t *Tender) (*Tender, error) {
	if t.Status == "" {
		t.Status = TenderStatusOpen
	}
	ts := now()
	query := `
        INSERT INTO tenders
            (user_id, title, description, category, budget, deadline, status,
             images, required_professions, views_count, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		t.UserID, t.Title, t.Description, t.Category, t.Budget, t.Deadline,
		t.Status, t.Images, t.RequiredProfessions, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetTender(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("tender %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetTender(ctx context.Context, id int) (*Tender, error) {
	t := &Tender{}
	err := s.db.GetContext(ctx, t, `SELECT * FROM tenders WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Storage) GetTenders(ctx context.Context, f *TenderFilters) ([]Tender, error) {
	query, args, err := f.apply(qb.Select("*").From("tenders")).
		OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	tenders := []Tender{}
	if err := s.db.SelectContext(ctx, &tenders, query, args...); err != nil {
		return nil, err
	}
	// Exact profession matching happens after the fetch: a substring match
	// against the serialized column would also hit substrings of other
	// elements.
	if f != nil && f.RequiredProfession != nil {
		matched := make([]Tender, 0, len(tenders))
		for _, t := range tenders {
			if t.RequiredProfessions.Contains(*f.RequiredProfession) {
				matched = append(matched, t)
			}
		}
		tenders = matched
	}
	return tenders, nil
}

func (s *Storage) UpdateTender(ctx context.Context, id int, p *TenderPatch) (*Tender, error) {
	ok, err := s.applyPatch(ctx, "tenders", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetTender(ctx, id)
}

func (s *Storage) DeleteTender(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tenders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrementTenderViews bumps the view counter in a single statement, so
// concurrent increments never lose updates.
func (s *Storage) IncrementTenderViews(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tenders SET views_count = views_count + 1 WHERE id=$1`, id)
	return err
}
