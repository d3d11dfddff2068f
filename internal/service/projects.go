package service

import (
	"context"
	"errors"
	"strings"

	"github.com/atinyakov/GophTasks/internal/access"
	"github.com/atinyakov/GophTasks/internal/models"
	"github.com/atinyakov/GophTasks/internal/repository"
	"github.com/atinyakov/GophTasks/internal/validation"
)

// ProjectService manages the projects of the requesting user.
type ProjectService struct {
	store *repository.Store
}

// NewProjectService constructs a ProjectService on top of store.
func NewProjectService(store *repository.Store) *ProjectService {
	return &ProjectService{store: store}
}

// Recent returns the newest projects of the user with their todo counts.
func (s *ProjectService) Recent(ctx context.Context, userID int64) ([]models.Project, error) {
	return s.store.RecentProjects(ctx, userID, models.RecentProjectsLimit)
}

// List returns every project of the user, newest first.
func (s *ProjectService) List(ctx context.Context, userID int64) ([]models.Project, error) {
	return s.store.ListProjects(ctx, userID)
}

// Get returns a project with its todos and their tags.
func (s *ProjectService) Get(ctx context.Context, userID, id int64) (*models.ProjectDetail, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, missing(err, "Project not found")
	}
	if err := access.Project.Owns(p.UserID, userID); err != nil {
		return nil, err
	}

	todos, err := s.store.ListProjectTodos(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ProjectDetail{Project: *p, Todos: todos}, nil
}

// Create validates in and stores a new project owned by the user.
func (s *ProjectService) Create(ctx context.Context, userID int64, in models.ProjectInput) (*models.Project, error) {
	name, err := validation.ProjectName.Clean(in.Name)
	if err != nil {
		return nil, err
	}
	desc, err := validation.ProjectDescription.Optional(in.Description)
	if err != nil {
		return nil, err
	}
	color, err := validation.Color(in.Color, models.DefaultProjectColor)
	if err != nil {
		return nil, err
	}

	p := &models.Project{Name: name, Description: desc, Color: color, UserID: userID}
	err = s.store.Transact(ctx, func(q *repository.Queries) error {
		return q.CreateProject(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges patch into the stored project. Omitted or blank fields keep
// their stored value.
func (s *ProjectService) Update(ctx context.Context, userID, id int64, patch models.ProjectPatch) (*models.Project, error) {
	var updated *models.Project
	err := s.store.Transact(ctx, func(q *repository.Queries) error {
		p, err := q.GetProjectForUpdate(ctx, id)
		if err != nil {
			return missing(err, "Project not found")
		}
		if err := access.Project.Owns(p.UserID, userID); err != nil {
			return err
		}

		if p.Name, err = validation.ProjectName.Merge(patch.Name, p.Name); err != nil {
			return err
		}
		if patch.Description != nil && strings.TrimSpace(*patch.Description) != "" {
			if p.Description, err = validation.ProjectDescription.Optional(*patch.Description); err != nil {
				return err
			}
		}
		if patch.Color != nil && *patch.Color != "" {
			if p.Color, err = validation.Color(*patch.Color, p.Color); err != nil {
				return err
			}
		}

		if err := q.UpdateProject(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a project owned by the user together with its todos.
func (s *ProjectService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Transact(ctx, func(q *repository.Queries) error {
		p, err := q.GetProjectForUpdate(ctx, id)
		if err != nil {
			return missing(err, "Project not found")
		}
		if err := access.Project.Owns(p.UserID, userID); err != nil {
			return err
		}
		return q.DeleteProject(ctx, id)
	})
}

// missing turns a repository not-found error into a client-facing one.
func missing(err error, msg string) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NotFound(msg)
	}
	return err
}
