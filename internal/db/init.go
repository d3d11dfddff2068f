// Package db opens the PostgreSQL pool, creates the schema and seeds the
// global tags.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password BYTEA NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS projects (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    color TEXT NOT NULL DEFAULT '#3B82F6',
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS projects_user_created_idx ON projects (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS todos (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'ONGOING' CHECK (status IN ('URGENT', 'ONGOING', 'COMPLETED')),
    description TEXT,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    project_id BIGINT REFERENCES projects(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS todos_user_created_idx ON todos (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS todos_project_idx ON todos (project_id);

CREATE TABLE IF NOT EXISTS tags (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '#6B7280',
    type TEXT NOT NULL DEFAULT 'CUSTOM' CHECK (type IN ('PREDEFINED', 'CUSTOM')),
    user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS tags_global_name_idx ON tags (name) WHERE user_id IS NULL;
CREATE UNIQUE INDEX IF NOT EXISTS tags_user_name_idx ON tags (user_id, name) WHERE user_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS todo_tags (
    todo_id BIGINT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
    tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (todo_id, tag_id)
);
`

// InitPostgres opens the pool, checks connectivity and applies the schema.
func InitPostgres(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates every table and index that does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SeedPredefinedTags inserts the global tags that are missing. Running it
// again is a no-op.
func SeedPredefinedTags(ctx context.Context, db *sqlx.DB, log *zap.Logger) error {
	query, args := seedQuery(models.PredefinedTags)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("seed predefined tags: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows > 0 {
		log.Info("seeded predefined tags", zap.Int64("inserted", rows))
	}
	return nil
}

func seedQuery(tags []models.PredefinedTag) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO tags (name, color, type, user_id) VALUES `)
	args := make([]any, 0, len(tags)*2)
	for i, t := range tags {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "($%d, $%d, 'PREDEFINED', NULL)", i*2+1, i*2+2)
		args = append(args, t.Name, t.Color)
	}
	b.WriteString(` ON CONFLICT DO NOTHING`)
	return b.String(), args
}
