package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DesignProject is a design commission with two independent file lists:
// rendered visualizations and working project files.
type DesignProject struct {
	ID                int        `db:"id" json:"id"`
	UserID            int        `db:"user_id" json:"userId"`
	Title             string     `db:"title" json:"title"`
	Description       string     `db:"description" json:"description"`
	Status            string     `db:"status" json:"status"`
	VisualizationURLs StringList `db:"visualization_urls" json:"visualizationUrls"`
	ProjectFiles      StringList `db:"project_files" json:"projectFiles"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

type DesignProjectPatch struct {
	Title       *string
	Description *string
	Status      *string
}

func (s *Storage) CreateDesignProject(ctx context.Context, p *DesignProject) (*DesignProject, error) {
	if p.Status == "" {
		p.Status = "new"
	}
	ts := now()
	query := `
        INSERT INTO design_projects
            (user_id, title, description, status, visualization_urls, project_files,
             created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`
	var id int
	err := s.db.QueryRowContext(ctx, query,
		p.UserID, p.Title, p.Description, p.Status, p.VisualizationURLs,
		p.ProjectFiles, ts, ts).Scan(&id)
	if err != nil {
		return nil, err
	}
	created, err := s.GetDesignProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("design project %d: %w", id, ErrIntegrity)
	}
	return created, nil
}

func (s *Storage) GetDesignProject(ctx context.Context, id int) (*DesignProject, error) {
	p := &DesignProject{}
	err := s.db.GetContext(ctx, p, `SELECT * FROM design_projects WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Storage) GetDesignProjects(ctx context.Context, f *DesignProjectFilters) ([]DesignProject, error) {
	query, args, err := f.apply(qb.Select("*").From("design_projects")).
		OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	projects := []DesignProject{}
	if err := s.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Storage) UpdateDesignProject(ctx context.Context, id int, p *DesignProjectPatch) (*DesignProject, error) {
	ok, err := s.applyPatch(ctx, "design_projects", id, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.GetDesignProject(ctx, id)
}

func (s *Storage) DeleteDesignProject(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM design_projects WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddProjectVisualization appends one URL to the visualization list, leaving
// project_files untouched.
func (s *Storage) AddProjectVisualization(ctx context.Context, id int, url string) (*DesignProject, error) {
	return s.appendProjectList(ctx, id, "visualization_urls", url)
}

// AddProjectFile appends one URL to the project file list, leaving
// visualization_urls untouched.
func (s *Storage) AddProjectFile(ctx context.Context, id int, url string) (*DesignProject, error) {
	return s.appendProjectList(ctx, id, "project_files", url)
}

func (s *Storage) appendProjectList(ctx context.Context, id int, column, url string) (*DesignProject, error) {
	p, err := s.GetDesignProject(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	list := p.VisualizationURLs
	if column == "project_files" {
		list = p.ProjectFiles
	}
	list = append(list, url)
	query := fmt.Sprintf(`UPDATE design_projects SET %s=$1, updated_at=$2 WHERE id=$3`, column)
	if _, err := s.db.ExecContext(ctx, query, list, now(), id); err != nil {
		return nil, err
	}
	return s.GetDesignProject(ctx, id)
}
