package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Crew is a work brigade owned by one user, with members, portfolio entries
// and per-member skills hanging off it.
type Crew struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"userId"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	Specialization string    `db:"specialization" json:"specialization"`
	Location       string    `db:"location" json:"location"`
	IsVerified     bool      `db:"is_verified" json:"isVerified"`
	IsAvailable    bool      `db:"is_available" json:"isAvailable"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

type CrewPatch struct {
	Name           *string
	Description    *string
	Specialization *string
	Location       *string
	IsVerified     *bool
	IsAvailable    *bool
}

type CrewMember struct {
	ID         int       `db:"id" json:"id"`
	CrewID     int       `db:"crew_id" json:"crewId"`
	Name       string    `db:"name" json:"name"`
	Profession string    `db:"profession" json:"profession"`
	Experience int       `db:"experience" json:"experience"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type CrewMemberPatch struct {
	Name       *string
	Profession *string
	Experience *int
}

type CrewPortfolio struct {
	ID          int        `db:"id" json:"id"`
	CrewID      int        `db:"crew_id" json:"crewId"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Images      StringList `db:"images" json:"images"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type CrewMemberSkill struct {
	ID        int       `db:"id" json:"id"`
	MemberID  int       `db:"member_id" json:"memberId"`
	Skill     string    `db:"skill" json:"skill"`
	Level     string    `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CreateCrew inserts a new crew. Verification is earned, not declared:
// c.IsVerified is ignored and every crew starts unverified, to be raised
// later through UpdateCrew.
func (s *Storage) CreateCrew(ctx context.Context, c *Crew) (*Crew, error) {
	ts := now()
	query := `
        INSERT INTO crews
            (user_id, name, description, specialization, location, is_verified,
             is_available, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, FALSE, $6, $7, $8)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.Description, c.Specialization, c.Location,
		c.IsAvailable, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetCrew(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("crew %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetCrew(ctx context.Context, id int) (*Crew, error) {
	c := &Crew{}
	err := s.db.GetContext(ctx, c, `SELECT * FROM crews WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Storage) GetCrews(ctx context.Context, f *CrewFilters) ([]Crew, error) {
	query, args, err := f.apply(qb.Select("*").From("crews")).
		OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	crews := []Crew{}
	if err := s.db.SelectContext(ctx, &crews, query, args...); err != nil {
		return nil, err
	}
	return crews, nil
}

func (s *Storage) UpdateCrew(ctx context.Context, id int, p *CrewPatch) (*Crew, error) {
	ok, err := s.applyPatch(ctx, "crews", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetCrew(ctx, id)
}

func (s *Storage) DeleteCrew(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM crews WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) CreateCrewMember(ctx context.Context, m *CrewMember) (*CrewMember, error) {
	ts := now()
	query := `
        INSERT INTO crew_members
            (crew_id, name, profession, experience, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		m.CrewID, m.Name, m.Profession, m.Experience, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetCrewMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("crew member %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetCrewMember(ctx context.Context, id int) (*CrewMember, error) {
	m := &CrewMember{}
	err := s.db.GetContext(ctx, m, `SELECT * FROM crew_members WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Storage) GetCrewMembers(ctx context.Context, crewID int) ([]CrewMember, error) {
	members := []CrewMember{}
	err := s.db.SelectContext(ctx, &members,
		`SELECT * FROM crew_members WHERE crew_id=$1 ORDER BY id ASC`, crewID)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Storage) UpdateCrewMember(ctx context.Context, id int, p *CrewMemberPatch) (*CrewMember, error) {
	ok, err := s.applyPatch(ctx, "crew_members", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetCrewMember(ctx, id)
}

func (s *Storage) DeleteCrewMember(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM crew_members WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) CreateCrewPortfolio(ctx context.Context, p *CrewPortfolio) (*CrewPortfolio, error) {
	ts := now()
	query := `
        INSERT INTO crew_portfolios
            (crew_id, title, description, images, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		p.CrewID, p.Title, p.Description, p.Images, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetCrewPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("crew portfolio %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetCrewPortfolio(ctx context.Context, id int) (*CrewPortfolio, error) {
	p := &CrewPortfolio{}
	err := s.db.GetContext(ctx, p, `SELECT * FROM crew_portfolios WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Storage) GetCrewPortfolios(ctx context.Context, crewID int) ([]CrewPortfolio, error) {
	portfolios := []CrewPortfolio{}
	err := s.db.SelectContext(ctx, &portfolios,
		`SELECT * FROM crew_portfolios WHERE crew_id=$1 ORDER BY created_at DESC`, crewID)
	if err != nil {
		return nil, err
	}
	return portfolios, nil
}

func (s *Storage) DeleteCrewPortfolio(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM crew_portfolios WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) AddCrewMemberSkill(ctx context.Context, sk *CrewMemberSkill) (*CrewMemberSkill, error) {
	query := `
        INSERT INTO crew_member_skills
            (member_id, skill, level, created_at)
        VALUES
            ($1, $2, $3, $4)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		sk.MemberID, sk.Skill, sk.Level, now()).Scan(&id)
	if err != nil {
		return nil, err
	}
	created := &CrewMemberSkill{}
	err = s.db.GetContext(ctx, created, `SELECT * FROM crew_member_skills WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("crew member skill %d: %w", id, ErrIntegrity)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Storage) GetCrewMemberSkills(ctx context.Context, memberID int) ([]CrewMemberSkill, error) {
	skills := []CrewMemberSkill{}
	err := s.db.SelectContext(ctx, &skills,
		`SELECT * FROM crew_member_skills WHERE member_id=$1 ORDER BY id ASC`, memberID)
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (s *Storage) DeleteCrewMemberSkill(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM crew_member_skills WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
