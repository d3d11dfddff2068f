package service

import (
	"context"

	"github.com/atinyakov/GophTasks/internal/access"
	"github.com/atinyakov/GophTasks/internal/models"
	"github.com/atinyakov/GophTasks/internal/repository"
	"github.com/atinyakov/GophTasks/internal/validation"
)

// TagService manages the custom tags of the requesting user.
type TagService struct {
	store *repository.Store
}

// NewTagService constructs a TagService on top of store.
func NewTagService(store *repository.Store) *TagService {
	return &TagService{store: store}
}

// List returns the global tags and the user's own tags.
func (s *TagService) List(ctx context.Context, userID int64) ([]models.Tag, error) {
	return s.store.ListTags(ctx, userID)
}

// Create stores a custom tag whose name is free among the global tags and
// the user's tags.
func (s *TagService) Create(ctx context.Context, userID int64, in models.TagInput) (*models.Tag, error) {
	name, err := validation.TagName.Clean(in.Name)
	if err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: name, Type: models.TagCustom, UserID: &userID}
	err = s.store.Transact(ctx, func(q *repository.Queries) error {
		taken, err := q.TagNameTaken(ctx, userID, name)
		if err != nil {
			return err
		}
		if taken {
			return models.Invalid(repository.TagNameTakenMessage)
		}
		if tag.Color, err = validation.Color(in.Color, models.DefaultTagColor); err != nil {
			return err
		}
		return q.CreateTag(ctx, tag)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes a custom tag owned by the user. Predefined tags can never
// be deleted.
func (s *TagService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Transact(ctx, func(q *repository.Queries) error {
		tag, err := q.GetTagForUpdate(ctx, id)
		if err != nil {
			return missing(err, "Tag not found")
		}
		if err := access.CanDeleteTag(tag, userID); err != nil {
			return err
		}
		return q.DeleteTag(ctx, id)
	})
}
