package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/GophTasks/internal/models"
)

const todoColumns = `id, name, title, status, description, user_id, project_id, created_at, updated_at`

type todoTag struct {
	TodoID int64 `db:"todo_id"`
	models.Tag
}

// ListTodos returns every todo of a user, newest first, with its project and
// tags.
func (q *Queries) ListTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	todos := []models.Todo{}
	err := q.db.SelectContext(ctx, &todos,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListTodos: %w", err)
	}
	if err := q.attachProjects(ctx, todos); err != nil {
		return nil, err
	}
	if err := q.attachTags(ctx, todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// ListProjectTodos returns the todos of one project, newest first, with
// their tags.
func (q *Queries) ListProjectTodos(ctx context.Context, projectID int64) ([]models.Todo, error) {
	todos := []models.Todo{}
	err := q.db.SelectContext(ctx, &todos,
		`SELECT `+todoColumns+` FROM todos WHERE project_id = $1 ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListProjectTodos: %w", err)
	}
	if err := q.attachTags(ctx, todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo loads a todo with its project and tags.
func (q *Queries) GetTodo(ctx context.Context, id int64) (*models.Todo, error) {
	var t models.Todo
	if err := q.get(ctx, &t, "GetTodo",
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id); err != nil {
		return nil, err
	}
	todos := []models.Todo{t}
	if err := q.attachProjects(ctx, todos); err != nil {
		return nil, err
	}
	if err := q.attachTags(ctx, todos); err != nil {
		return nil, err
	}
	return &todos[0], nil
}

// GetTodoForUpdate loads the bare todo row and locks it.
func (q *Queries) GetTodoForUpdate(ctx context.Context, id int64) (*models.Todo, error) {
	var t models.Todo
	if err := q.get(ctx, &t, "GetTodoForUpdate",
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTodo inserts t and fills in its generated columns.
func (q *Queries) CreateTodo(ctx context.Context, t *models.Todo) error {
	err := q.db.QueryRowxContext(ctx, `
		INSERT INTO todos (name, title, status, description, user_id, project_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		t.Name, t.Title, t.Status, t.Description, t.UserID, t.ProjectID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateTodo: %w", err)
	}
	return nil
}

// UpdateTodo writes the mutable columns of t.
func (q *Queries) UpdateTodo(ctx context.Context, t *models.Todo) error {
	err := q.db.QueryRowxContext(ctx, `
		UPDATE todos
		   SET name = $1, title = $2, status = $3, description = $4, project_id = $5, updated_at = now()
		 WHERE id = $6
		RETURNING updated_at`,
		t.Name, t.Title, t.Status, t.Description, t.ProjectID, t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("UpdateTodo: %w", err)
	}
	return nil
}

// DeleteTodo removes a todo and its tag links.
func (q *Queries) DeleteTodo(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("DeleteTodo: %w", err)
	}
	return nil
}

// LinkTags attaches tags to a todo.
func (q *Queries) LinkTags(ctx context.Context, todoID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO todo_tags (todo_id, tag_id)
		SELECT $1, UNNEST($2::bigint[])
		ON CONFLICT DO NOTHING`,
		todoID, pq.Array(tagIDs))
	if err != nil {
		return fmt.Errorf("LinkTags: %w", err)
	}
	return nil
}

// ReplaceTodoTags removes every tag link of a todo and inserts tagIDs.
func (q *Queries) ReplaceTodoTags(ctx context.Context, todoID int64, tagIDs []int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM todo_tags WHERE todo_id = $1`, todoID); err != nil {
		return fmt.Errorf("ReplaceTodoTags: %w", err)
	}
	return q.LinkTags(ctx, todoID, tagIDs)
}

func (q *Queries) attachProjects(ctx context.Context, todos []models.Todo) error {
	var ids []int64
	seen := make(map[int64]bool)
	for _, t := range todos {
		if t.ProjectID != nil && !seen[*t.ProjectID] {
			seen[*t.ProjectID] = true
			ids = append(ids, *t.ProjectID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var projects []models.Project
	err := q.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load todo projects: %w", err)
	}

	byID := make(map[int64]*models.Project, len(projects))
	for i := range projects {
		byID[projects[i].ID] = &projects[i]
	}
	for i := range todos {
		if todos[i].ProjectID != nil {
			todos[i].Project = byID[*todos[i].ProjectID]
		}
	}
	return nil
}

func (q *Queries) attachTags(ctx context.Context, todos []models.Todo) error {
	for i := range todos {
		todos[i].Tags = []models.Tag{}
	}
	if len(todos) == 0 {
		return nil
	}

	ids := make([]int64, len(todos))
	index := make(map[int64]int, len(todos))
	for i, t := range todos {
		ids[i] = t.ID
		index[t.ID] = i
	}

	var links []todoTag
	err := q.db.SelectContext(ctx, &links, `
		SELECT tt.todo_id, t.id, t.name, t.color, t.type, t.user_id, t.created_at
		  FROM todo_tags tt
		  JOIN tags t ON t.id = tt.tag_id
		 WHERE tt.todo_id = ANY($1)
		 ORDER BY t.name`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load todo tags: %w", err)
	}

	for _, l := range links {
		if i, ok := index[l.TodoID]; ok {
			todos[i].Tags = append(todos[i].Tags, l.Tag)
		}
	}
	return nil
}
