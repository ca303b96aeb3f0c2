package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DeliveryOption is a way to ship marketplace goods. Options are never
// removed, only deactivated, because existing orders keep referencing them.
type DeliveryOption struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Price         float64   `db:"price" json:"price"`
	EstimatedDays int       `db:"estimated_days" json:"estimatedDays"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

type DeliveryOptionPatch struct {
	Name          *string
	Description   *string
	Price         *float64
	EstimatedDays *int
	IsActive      *bool
}

// DeliveryOrder tracks one shipment. Status and tracking code are updated
// independently as the shipment progresses.
type DeliveryOrder struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"userId"`
	OptionID     int       `db:"option_id" json:"optionId"`
	ListingID    *int      `db:"listing_id" json:"listingId"`
	Address      string    `db:"address" json:"address"`
	Status       string    `db:"status" json:"status"`
	TrackingCode string    `db:"tracking_code" json:"trackingCode"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

func (s *Storage) CreateDeliveryOption(ctx context.Context, o *DeliveryOption) (*DeliveryOption, error) {
	ts := now()
	query := `
        INSERT INTO delivery_options
            (name, description, price, estimated_days, is_active, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, TRUE, $5, $6)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		o.Name, o.Description, o.Price, o.EstimatedDays, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetDeliveryOption(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("delivery option %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

// GetDeliveryOption returns the option whether or not it is active, so
// existing orders can still resolve a deactivated one.
func (s *Storage) GetDeliveryOption(ctx context.Context, id int) (*DeliveryOption, error) {
	o := &DeliveryOption{}
	err := s.db.GetContext(ctx, o, `SELECT * FROM delivery_options WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetDeliveryOptionByName resolves an option by its unique name, whether or
// not it is active. Deactivated options must stay visible here so startup
// seeding does not resurrect them.
func (s *Storage) GetDeliveryOptionByName(ctx context.Context, name string) (*DeliveryOption, error) {
	o := &DeliveryOption{}
	err := s.db.GetContext(ctx, o, `SELECT * FROM delivery_options WHERE name=$1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetDeliveryOptions lists only active options.
func (s *Storage) GetDeliveryOptions(ctx context.Context) ([]DeliveryOption, error) {
	options := []DeliveryOption{}
	err := s.db.SelectContext(ctx, &options,
		`SELECT * FROM delivery_options WHERE is_active=TRUE ORDER BY price ASC`)
	if err != nil {
		return nil, err
	}
	return options, nil
}

func (s *Storage) UpdateDeliveryOption(ctx context.Context, id int, p *DeliveryOptionPatch) (*DeliveryOption, error) {
	ok, err := s.applyPatch(ctx, "delivery_options", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetDeliveryOption(ctx, id)
}

// DeleteDeliveryOption is a soft delete: the row stays, flagged inactive.
func (s *Storage) DeleteDeliveryOption(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE delivery_options SET is_active=FALSE, updated_at=$1 WHERE id=$2`, now(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) CreateDeliveryOrder(ctx context.Context, o *DeliveryOrder) (*DeliveryOrder, error) {
	if o.Status == "" {
		o.Status = "pending"
	}
	ts := now()
	query := `
        INSERT INTO delivery_orders
            (user_id, option_id, listing_id, address, status, tracking_code, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		o.UserID, o.OptionID, o.ListingID, o.Address, o.Status, o.TrackingCode, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetDeliveryOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("delivery order %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetDeliveryOrder(ctx context.Context, id int) (*DeliveryOrder, error) {
	o := &DeliveryOrder{}
	err := s.db.GetContext(ctx, o, `SELECT * FROM delivery_orders WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Storage) GetUserDeliveryOrders(ctx context.Context, userID int) ([]DeliveryOrder, error) {
	orders := []DeliveryOrder{}
	err := s.db.SelectContext(ctx, &orders,
		`SELECT * FROM delivery_orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Storage) UpdateDeliveryOrderStatus(ctx context.Context, id int, status string) (*DeliveryOrder, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE delivery_orders SET status=$1, updated_at=$2 WHERE id=$3`, status, now(), id)
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
	return s.GetDeliveryOrder(ctx, id)
}

func (s *Storage) UpdateDeliveryOrderTracking(ctx context.Context, id int, trackingCode string) (*DeliveryOrder, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE delivery_orders SET tracking_code=$1, updated_at=$2 WHERE id=$3`, trackingCode, now(), id)
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
	return s.GetDeliveryOrder(ctx, id)
}
