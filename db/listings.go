package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MarketplaceListing is a materials or services ad on the marketplace.
type MarketplaceListing struct {
	ID          int        `db:"id" json:"id"`
	UserID      int        `db:"user_id" json:"userId"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Category    string     `db:"category" json:"category"`
	Subcategory string     `db:"subcategory" json:"subcategory"`
	ListingType string     `db:"listing_type" json:"listingType"`
	Price       float64    `db:"price" json:"price"`
	Location    string     `db:"location" json:"location"`
	Images      StringList `db:"images" json:"images"`
	ViewsCount  int        `db:"views_count" json:"viewsCount"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type MarketplaceListingPatch struct {
	Title       *string
	Description *string
	Category    *string
	Subcategory *string
	ListingType *string
	Price       *float64
	Location    *string
	Images      *StringList
}

func (s *Storage) CreateListing(ctx context.Context, l *MarketplaceListing) (*MarketplaceListing, error) {
	ts := now()
	query := `
        INSERT INTO marketplace_listings
            (user_id, title, description, category, subcategory, listing_type,
             price, location, images, views_count, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		l.UserID, l.Title, l.Description, l.Category, l.Subcategory,
		l.ListingType, l.Price, l.Location, l.Images, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("listing %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetListing(ctx context.Context, id int) (*MarketplaceListing, error) {
	l := &MarketplaceListing{}
	err := s.db.GetContext(ctx, l, `SELECT * FROM marketplace_listings WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Storage) GetListings(ctx context.Context, f *ListingFilters) ([]MarketplaceListing, error) {
	query, args, err := f.apply(qb.Select("*").From("marketplace_listings")).
		OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	listings := []MarketplaceListing{}
	if err := s.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Storage) UpdateListing(ctx context.Context, id int, p *MarketplaceListingPatch) (*MarketplaceListing, error) {
	ok, err := s.applyPatch(ctx, "marketplace_listings", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetListing(ctx, id)
}

func (s *Storage) DeleteListing(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM marketplace_listings WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) IncrementListingViews(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE marketplace_listings SET views_count = views_count + 1 WHERE id=$1`, id)
	return err
}
