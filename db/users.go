package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

// User is a marketplace account: an individual, a company or a contractor.
type User struct {
	ID                int       `db:"id" json:"id"`
	Username          string    `db:"username" json:"username"`
	Email             string    `db:"email" json:"email"`
	Password          string    `db:"password" json:"-"`
	FullName          string    `db:"full_name" json:"fullName"`
	Phone             string    `db:"phone" json:"phone"`
	Location          string    `db:"location" json:"location"`
	Bio               string    `db:"bio" json:"bio"`
	Avatar            string    `db:"avatar" json:"avatar"`
	Website           string    `db:"website" json:"website"`
	TaxID             string    `db:"tax_id" json:"taxId"`
	UserType          string    `db:"user_type" json:"userType"`
	Rating            int       `db:"rating" json:"rating"`
	CompletedProjects int       `db:"completed_projects" json:"completedProjects"`
	WalletBalance     float64   `db:"wallet_balance" json:"walletBalance"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// UserPatch is a partial update; nil fields are left unchanged.
type UserPatch struct {
	Email             *string
	Password          *string
	FullName          *string
	Phone             *string
	Location          *string
	Bio               *string
	Avatar            *string
	Website           *string
	TaxID             *string
	UserType          *string
	CompletedProjects *int
	WalletBalance     *float64
}

func (s *Storage) CreateUser(ctx context.Context, u *User) (*User, error) {
	ts := now()
	query := `
        INSERT INTO users
            (username, email, password, full_name, phone, location, bio, avatar,
             website, tax_id, user_type, rating, completed_projects, wallet_balance,
             created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.Password, u.FullName, u.Phone, u.Location, u.Bio,
		u.Avatar, u.Website, u.TaxID, u.UserType, u.Rating, u.CompletedProjects,
		u.WalletBalance, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetUser(ctx context.Context, id int) (*User, error) {
	u := &User{}
	err := s.db.GetContext(ctx, u, `SELECT * FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u := &User{}
	err := s.db.GetContext(ctx, u, `SELECT * FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.db.GetContext(ctx, u, `SELECT * FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Storage) GetUsers(ctx context.Context, f *UserFilters) ([]User, error) {
	query, args, err := f.apply(qb.Select("*").From("users")).
		OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	users := []User{}
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, id int, p *UserPatch) (*User, error) {
	ok, err := s.applyPatch(ctx, "users", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetUser(ctx, id)
}

func (s *Storage) DeleteUser(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateUserRating recomputes the aggregate rating from every review
// addressed to the user and persists the rounded mean. With no reviews it
// returns 0 and leaves the row untouched.
func (s *Storage) UpdateUserRating(ctx context.Context, userID int) (int, error) {
	ratings := []int{}
	err := s.db.SelectContext(ctx, &ratings,
		`SELECT rating FROM reviews WHERE recipient_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	if len(ratings) == 0 {
		return 0, nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := int(math.Round(float64(sum) / float64(len(ratings))))
	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET rating=$1, updated_at=$2 WHERE id=$3`, avg, now(), userID)
	if err != nil {
		return 0, err
	}
	return avg, nil
}
