package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const GuaranteeStatusPending = "pending"

// BankGuarantee secures a deal between a customer and a contractor,
// optionally tied to a tender.
type BankGuarantee struct {
	ID           int       `db:"id" json:"id"`
	CustomerID   int       `db:"customer_id" json:"customerId"`
	ContractorID int       `db:"contractor_id" json:"contractorId"`
	TenderID     *int      `db:"tender_id" json:"tenderId"`
	Amount       float64   `db:"amount" json:"amount"`
	Description  string    `db:"description" json:"description"`
	Terms        string    `db:"terms" json:"terms"`
	StartDate    time.Time `db:"start_date" json:"startDate"`
	EndDate      time.Time `db:"end_date" json:"endDate"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// BankGuaranteeInput carries guarantee fields as they arrive from callers,
// with the validity dates still in string form.
type BankGuaranteeInput struct {
	CustomerID   int
	ContractorID int
	TenderID     *int
	Amount       float64
	Description  string
	Terms        string
	StartDate    string
	EndDate      string
	Status       string
}

type BankGuaranteePatch struct {
	Amount      *float64
	Description *string
	Terms       *string
	Status      *string
}

// ParseGuaranteeDate accepts the date formats guarantee payloads arrive in:
// RFC 3339 or a plain calendar date.
func ParseGuaranteeDate(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized guarantee date %q", v)
}

func (s *Storage) CreateBankGuarantee(ctx context.Context, in *BankGuaranteeInput) (*BankGuarantee, error) {
	start, err := ParseGuaranteeDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseGuaranteeDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = GuaranteeStatusPending
	}
	ts := now()
	query := `
        INSERT INTO bank_guarantees
            (customer_id, contractor_id, tender_id, amount, description, terms,
             start_date, end_date, status, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id`
	var id int
	err = s.db.QueryRowContext(ctx, query,
		in.CustomerID, in.ContractorID, in.TenderID, in.Amount, in.Description,
		in.Terms, start, end, status, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetBankGuarantee(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("bank guarantee %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetBankGuarantee(ctx context.Context, id int) (*BankGuarantee, error) {
	g := &BankGuarantee{}
	err := s.db.GetContext(ctx, g, `SELECT * FROM bank_guarantees WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetUserBankGuarantees returns guarantees where the user is either side of
// the deal.
func (s *Storage) GetUserBankGuarantees(ctx context.Context, userID int) ([]BankGuarantee, error) {
	guarantees := []BankGuarantee{}
	err := s.db.SelectContext(ctx, &guarantees, `
        SELECT * FROM bank_guarantees
        WHERE customer_id=$1 OR contractor_id=$1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return guarantees, nil
}

func (s *Storage) UpdateBankGuarantee(ctx context.Context, id int, p *BankGuaranteePatch) (*BankGuarantee, error) {
	ok, err := s.applyPatch(ctx, "bank_guarantees", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetBankGuarantee(ctx, id)
}

func (s *Storage) UpdateBankGuaranteeStatus(ctx context.Context, id int, status string) (*BankGuarantee, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bank_guarantees SET status=$1, updated_at=$2 WHERE id=$3`, status, now(), id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetBankGuarantee(ctx, id)
}
