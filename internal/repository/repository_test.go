package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/atinyakov/GophTasks/internal/models"
)

var (
	now          = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	projectCols  = []string{"id", "name", "description", "color", "user_id", "created_at", "updated_at"}
	todoCols     = []string{"id", "name", "title", "status", "description", "user_id", "project_id", "created_at", "updated_at"}
	tagCols      = []string{"id", "name", "color", "type", "user_id", "created_at"}
	todoTagCols  = append([]string{"todo_id"}, tagCols...)
	errQueryFail = errors.New("query failed")
)

func setupMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "postgres")), mock
}

func checkExpectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestTransact_Commit(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Transact(context.Background(), func(q *Queries) error {
		return q.DeleteTodo(context.Background(), 4)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkExpectations(t, mock)
}

func TestTransact_RollbackOnError(t *testing.T) {
	store, mock := setupMock(t)
	wantErr := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.Transact(context.Background(), func(q *Queries) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("Transact error = %v; want %v", err, wantErr)
	}
	checkExpectations(t, mock)
}

func TestTransact_BeginError(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	called := false
	err := store.Transact(context.Background(), func(q *Queries) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if called {
		t.Error("fn must not run when begin fails")
	}
}

func TestUserExists(t *testing.T) {
	for _, want := range []bool{true, false} {
		store, mock := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
			WithArgs("a@b.c").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(want))

		got, err := store.UserExists(context.Background(), "a@b.c")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("UserExists = %v; want %v", got, want)
		}
		checkExpectations(t, mock)
	}
}

func TestCreateUser(t *testing.T) {
	store, mock := setupMock(t)
	hash := []byte("$2a$10$hash")

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs("Ann", "ann@example.com", hash).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	id, err := store.CreateUser(context.Background(), "Ann", "ann@example.com", hash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 9 {
		t.Errorf("id = %d; want 9", id)
	}
	checkExpectations(t, mock)
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := store.CreateUser(context.Background(), "Ann", "ann@example.com", []byte("x"))
	if !errors.Is(err, models.ErrUserExists) {
		t.Fatalf("CreateUser error = %v; want ErrUserExists", err)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, password, created_at FROM users WHERE email = $1`)).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at"}))

	_, err := store.GetUserByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("GetUserByEmail error = %v; want ErrNotFound", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at"}).
			AddRow(int64(3), "Ann", "ann@example.com", []byte("hash"), now))

	u, err := store.GetUserByEmail(context.Background(), "ann@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 3 || string(u.PasswordHash) != "hash" {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestRecentProjects(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`AS todo_count FROM projects p WHERE p.user_id = $1 ORDER BY p.created_at DESC LIMIT $2`)).
		WithArgs(int64(1), models.RecentProjectsLimit).
		WillReturnRows(sqlmock.NewRows(append(projectCols, "todo_count")).
			AddRow(int64(2), "Beta", nil, "#3B82F6", int64(1), now, now, 4).
			AddRow(int64(1), "Alpha", "desc", "#10B981", int64(1), now, now, 0))

	projects, err := store.RecentProjects(context.Background(), 1, models.RecentProjectsLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Count == nil || projects[0].Count.Todos != 4 {
		t.Errorf("first project count = %+v; want 4", projects[0].Count)
	}
	if projects[1].Description == nil || *projects[1].Description != "desc" {
		t.Errorf("second project description = %v", projects[1].Description)
	}
	checkExpectations(t, mock)
}

func TestGetProjectForUpdate_NotFound(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM projects WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows(projectCols))

	_, err := store.GetProjectForUpdate(context.Background(), 77)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
}

func TestCreateProject(t *testing.T) {
	store, mock := setupMock(t)
	desc := "things"
	p := &models.Project{Name: "Home", Description: &desc, Color: "#3B82F6", UserID: 5}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO projects (name, description, color, user_id)`)).
		WithArgs("Home", "things", "#3B82F6", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	if err := store.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 11 || !p.CreatedAt.Equal(now) {
		t.Errorf("generated columns not filled: %+v", p)
	}
	checkExpectations(t, mock)
}

func TestListTodos_AttachesProjectsAndTags(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM todos WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(todoCols).
			AddRow(int64(20), "n2", "t2", "URGENT", nil, int64(1), int64(7), now, now).
			AddRow(int64(10), "n1", "t1", "ONGOING", "d", int64(1), nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM projects WHERE id = ANY($1)`)).
		WithArgs(pq.Array([]int64{7})).
		WillReturnRows(sqlmock.NewRows(projectCols).
			AddRow(int64(7), "Work", nil, "#3B82F6", int64(1), now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM todo_tags tt JOIN tags t ON t.id = tt.tag_id WHERE tt.todo_id = ANY($1)`)).
		WithArgs(pq.Array([]int64{20, 10})).
		WillReturnRows(sqlmock.NewRows(todoTagCols).
			AddRow(int64(10), int64(1), "Backend", "#3B82F6", "PREDEFINED", nil, now).
			AddRow(int64(10), int64(30), "mine", "#6B7280", "CUSTOM", int64(1), now))

	todos, err := store.ListTodos(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if todos[0].Project == nil || todos[0].Project.Name != "Work" {
		t.Errorf("first todo project = %+v; want Work", todos[0].Project)
	}
	if todos[0].Tags == nil || len(todos[0].Tags) != 0 {
		t.Errorf("first todo tags = %v; want empty non-nil slice", todos[0].Tags)
	}
	if todos[1].Project != nil {
		t.Errorf("second todo should have no project")
	}
	if len(todos[1].Tags) != 2 || todos[1].Tags[0].Type != models.TagPredefined || todos[1].Tags[0].UserID != nil {
		t.Errorf("second todo tags = %+v", todos[1].Tags)
	}
	checkExpectations(t, mock)
}

func TestListTodos_Empty(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM todos WHERE user_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(todoCols))

	todos, err := store.ListTodos(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", todos)
	}
	checkExpectations(t, mock)
}

func TestReplaceTodoTags(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todo_tags WHERE todo_id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO todo_tags (todo_id, tag_id) SELECT $1, UNNEST($2::bigint[])`)).
		WithArgs(int64(3), pq.Array([]int64{1, 2})).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := store.ReplaceTodoTags(context.Background(), 3, []int64{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkExpectations(t, mock)
}

func TestReplaceTodoTags_Clear(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todo_tags WHERE todo_id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := store.ReplaceTodoTags(context.Background(), 3, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkExpectations(t, mock)
}

func TestListTags(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id IS NULL OR user_id = $1 ORDER BY CASE type WHEN 'PREDEFINED' THEN 0 ELSE 1 END, name`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(tagCols).
			AddRow(int64(1), "Backend", "#3B82F6", "PREDEFINED", nil, now).
			AddRow(int64(9), "chores", "#6B7280", "CUSTOM", int64(2), now))

	tags, err := store.ListTags(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 2 || tags[1].UserID == nil || *tags[1].UserID != 2 {
		t.Errorf("unexpected tags: %+v", tags)
	}
	checkExpectations(t, mock)
}

func TestGetTags(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, color, type, user_id, created_at FROM tags WHERE id = ANY($1)`)).
		WithArgs(pq.Array([]int64{1, 5})).
		WillReturnRows(sqlmock.NewRows(tagCols).AddRow(int64(1), "Backend", "#3B82F6", "PREDEFINED", nil, time.Now()))

	tags, err := store.GetTags(context.Background(), []int64{1, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 1 || tags[0].UserID != nil {
		t.Errorf("unexpected tags: %+v", tags)
	}
	checkExpectations(t, mock)
}

func TestTagNameTaken_Error(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1`)).
		WillReturnError(errQueryFail)

	if _, err := store.TagNameTaken(context.Background(), 2, "x"); !errors.Is(err, errQueryFail) {
		t.Fatalf("error = %v; want wrapped query failure", err)
	}
}

func TestCreateTag_UniqueViolation(t *testing.T) {
	store, mock := setupMock(t)
	owner := int64(2)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tags (name, color, type, user_id)`)).
		WithArgs("chores", "#6B7280", "CUSTOM", owner).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := store.CreateTag(context.Background(), &models.Tag{
		Name: "chores", Color: "#6B7280", Type: models.TagCustom, UserID: &owner,
	})
	var merr *models.Error
	if !errors.As(err, &merr) || merr.Message != TagNameTakenMessage {
		t.Fatalf("CreateTag error = %v; want duplicate-name validation error", err)
	}
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("duplicate name should be a validation error")
	}
}
