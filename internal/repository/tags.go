package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/GophTasks/internal/models"
)

const tagColumns = `id, name, color, type, user_id, created_at`

// TagNameTakenMessage is the client message for a duplicate tag name.
const TagNameTakenMessage = "A tag with this name already exists"

// ListTags returns the global tags and the user's own tags, predefined
// first, then by name.
func (q *Queries) ListTags(ctx context.Context, userID int64) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := q.db.SelectContext(ctx, &tags, `
		SELECT `+tagColumns+` FROM tags
		 WHERE user_id IS NULL OR user_id = $1
		 ORDER BY CASE type WHEN 'PREDEFINED' THEN 0 ELSE 1 END, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListTags: %w", err)
	}
	return tags, nil
}

// GetTagForUpdate loads a tag and locks it.
func (q *Queries) GetTagForUpdate(ctx context.Context, id int64) (*models.Tag, error) {
	var t models.Tag
	if err := q.get(ctx, &t, "GetTagForUpdate",
		`SELECT `+tagColumns+` FROM tags WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTags loads the tags named by ids. Unknown ids are skipped.
func (q *Queries) GetTags(ctx context.Context, ids []int64) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := q.db.SelectContext(ctx, &tags,
		`SELECT `+tagColumns+` FROM tags WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("GetTags: %w", err)
	}
	return tags, nil
}

// TagNameTaken reports whether name is used by a global tag or one of the
// user's tags.
func (q *Queries) TagNameTaken(ctx context.Context, userID int64, name string) (bool, error) {
	var taken bool
	err := q.db.QueryRowxContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1 AND (user_id IS NULL OR user_id = $2))`,
		name, userID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("TagNameTaken: %w", err)
	}
	return taken, nil
}

// CreateTag inserts t and fills in its generated columns. A clash on the
// per-user name index is reported as a validation error.
func (q *Queries) CreateTag(ctx context.Context, t *models.Tag) error {
	err := q.db.QueryRowxContext(ctx, `
		INSERT INTO tags (name, color, type, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		t.Name, t.Color, t.Type, t.UserID,
	).Scan(&t.ID, &t.CreatedAt)
	if isUniqueViolation(err) {
		return models.Invalid(TagNameTakenMessage)
	}
	if err != nil {
		return fmt.Errorf("CreateTag: %w", err)
	}
	return nil
}

// DeleteTag removes a tag and its todo links.
func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return fmt.Errorf("DeleteTag: %w", err)
	}
	return nil
}
