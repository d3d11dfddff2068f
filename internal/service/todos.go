package service

import (
	"context"

	"github.com/atinyakov/GophTasks/internal/access"
	"github.com/atinyakov/GophTasks/internal/models"
	"github.com/atinyakov/GophTasks/internal/repository"
	"github.com/atinyakov/GophTasks/internal/validation"
)

var errTagsNotFound = models.NotFound("One or more tags not found")

// TodoService manages the todos of the requesting user.
type TodoService struct {
	store *repository.Store
}

// NewTodoService constructs a TodoService on top of store.
func NewTodoService(store *repository.Store) *TodoService {
	return &TodoService{store: store}
}

// List returns every todo of the user with its project and tags.
func (s *TodoService) List(ctx context.Context, userID int64) ([]models.Todo, error) {
	return s.store.ListTodos(ctx, userID)
}

// Create validates in, checks the referenced project and tags, and stores
// the todo with its tag links in one transaction.
func (s *TodoService) Create(ctx context.Context, userID int64, in models.TodoInput) (*models.Todo, error) {
	name, err := validation.TodoName.Clean(in.Name)
	if err != nil {
		return nil, err
	}
	title, err := validation.TodoTitle.Clean(in.Title)
	if err != nil {
		return nil, err
	}
	desc, err := validation.TodoDescription.Optional(in.Description)
	if err != nil {
		return nil, err
	}
	tagIDs, err := validation.IDs(in.TagIDs.IDs)
	if err != nil {
		return nil, err
	}

	todo := &models.Todo{
		Name:        name,
		Title:       title,
		Status:      validation.Status(in.Status, models.StatusOngoing),
		Description: desc,
		UserID:      userID,
		ProjectID:   in.ProjectID.Ptr(),
	}

	var created *models.Todo
	err = s.store.Transact(ctx, func(q *repository.Queries) error {
		if todo.ProjectID != nil {
			if err := checkProject(ctx, q, userID, *todo.ProjectID); err != nil {
				return err
			}
		}
		if err := checkTags(ctx, q, userID, tagIDs); err != nil {
			return err
		}

		if err := q.CreateTodo(ctx, todo); err != nil {
			return err
		}
		if err := q.LinkTags(ctx, todo.ID, tagIDs); err != nil {
			return err
		}

		full, err := q.GetTodo(ctx, todo.ID)
		if err != nil {
			return err
		}
		created = full
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update merges patch into the stored todo.
//
// Name and title keep their stored value when omitted or blank; status keeps
// it when omitted or unknown. A present description replaces the stored one,
// and a blank one clears it. ProjectID and TagIDs are left alone when the key
// is absent; null unlinks the project and an empty list clears the tags.
func (s *TodoService) Update(ctx context.Context, userID, id int64, patch models.TodoPatch) (*models.Todo, error) {
	var updated *models.Todo
	err := s.store.Transact(ctx, func(q *repository.Queries) error {
		todo, err := q.GetTodoForUpdate(ctx, id)
		if err != nil {
			return missing(err, "Todo not found")
		}
		if err := access.Todo.Owns(todo.UserID, userID); err != nil {
			return err
		}

		if todo.Name, err = validation.TodoName.Merge(patch.Name, todo.Name); err != nil {
			return err
		}
		if todo.Title, err = validation.TodoTitle.Merge(patch.Title, todo.Title); err != nil {
			return err
		}
		if patch.Status != nil {
			todo.Status = validation.Status(*patch.Status, todo.Status)
		}
		if patch.Description != nil {
			if todo.Description, err = validation.TodoDescription.Optional(*patch.Description); err != nil {
				return err
			}
		}

		if patch.ProjectID.Set {
			if patch.ProjectID.Valid {
				if err := checkProject(ctx, q, userID, patch.ProjectID.ID); err != nil {
					return err
				}
			}
			todo.ProjectID = patch.ProjectID.Ptr()
		}

		if patch.TagIDs.Set {
			tagIDs, err := validation.IDs(patch.TagIDs.IDs)
			if err != nil {
				return err
			}
			if err := checkTags(ctx, q, userID, tagIDs); err != nil {
				return err
			}
			if err := q.ReplaceTodoTags(ctx, todo.ID, tagIDs); err != nil {
				return err
			}
		}

		if err := q.UpdateTodo(ctx, todo); err != nil {
			return err
		}

		updated, err = q.GetTodo(ctx, todo.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a todo owned by the user.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Transact(ctx, func(q *repository.Queries) error {
		todo, err := q.GetTodoForUpdate(ctx, id)
		if err != nil {
			return missing(err, "Todo not found")
		}
		if err := access.Todo.Owns(todo.UserID, userID); err != nil {
			return err
		}
		return q.DeleteTodo(ctx, id)
	})
}

func checkProject(ctx context.Context, q *repository.Queries, userID, projectID int64) error {
	p, err := q.GetProject(ctx, projectID)
	if err != nil {
		return missing(err, "Project not found")
	}
	return access.LinkedProject.Owns(p.UserID, userID)
}

// checkTags requires every id to name a tag the user may read: a global
// tag or one of their own.
func checkTags(ctx context.Context, q *repository.Queries, userID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	tags, err := q.GetTags(ctx, tagIDs)
	if err != nil {
		return err
	}
	if len(tags) != len(tagIDs) {
		return errTagsNotFound
	}
	for _, t := range tags {
		if access.TagRead.Authorize(t.UserID, userID) != nil {
			return errTagsNotFound
		}
	}
	return nil
}
