package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/GophTasks/internal/models"
)

const projectColumns = `id, name, description, color, user_id, created_at, updated_at`

type projectWithCount struct {
	models.Project
	TodoCount int `db:"todo_count"`
}

// RecentProjects returns the newest projects of a user with their todo
// counts.
func (q *Queries) RecentProjects(ctx context.Context, userID int64, limit int) ([]models.Project, error) {
	var rows []projectWithCount
	err := q.db.SelectContext(ctx, &rows, `
		SELECT p.id, p.name, p.description, p.color, p.user_id, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM todos t WHERE t.project_id = p.id) AS todo_count
		  FROM projects p
		 WHERE p.user_id = $1
		 ORDER BY p.created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("RecentProjects: %w", err)
	}

	projects := make([]models.Project, 0, len(rows))
	for _, r := range rows {
		p := r.Project
		p.Count = &models.ProjectCount{Todos: r.TodoCount}
		projects = append(projects, p)
	}
	return projects, nil
}

// ListProjects returns every project of a user, newest first.
func (q *Queries) ListProjects(ctx context.Context, userID int64) ([]models.Project, error) {
	projects := []models.Project{}
	err := q.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListProjects: %w", err)
	}
	return projects, nil
}

// GetProject loads a project by id regardless of owner.
func (q *Queries) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	if err := q.get(ctx, &p, "GetProject",
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectForUpdate is GetProject with a row lock held until the
// surrounding transaction ends.
func (q *Queries) GetProjectForUpdate(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	if err := q.get(ctx, &p, "GetProjectForUpdate",
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts p and fills in its generated columns.
func (q *Queries) CreateProject(ctx context.Context, p *models.Project) error {
	err := q.db.QueryRowxContext(ctx, `
		INSERT INTO projects (name, description, color, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.Color, p.UserID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateProject: %w", err)
	}
	return nil
}

// UpdateProject writes the mutable columns of p.
func (q *Queries) UpdateProject(ctx context.Context, p *models.Project) error {
	err := q.db.QueryRowxContext(ctx, `
		UPDATE projects SET name = $1, description = $2, color = $3, updated_at = now()
		 WHERE id = $4
		RETURNING updated_at`,
		p.Name, p.Description, p.Color, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("UpdateProject: %w", err)
	}
	return nil
}

// DeleteProject removes a project; its todos go with it.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("DeleteProject: %w", err)
	}
	return nil
}
