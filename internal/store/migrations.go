package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eleven-am/dayplan/internal/logger"
)

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id          BIGSERIAL PRIMARY KEY,
	text        TEXT NOT NULL,
	date        DATE NOT NULL,
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	order_index INTEGER NOT NULL CHECK (order_index >= 0)
);

CREATE TABLE IF NOT EXISTS subtasks (
	id          BIGSERIAL PRIMARY KEY,
	todo_id     BIGINT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
	text        TEXT NOT NULL,
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	order_index INTEGER NOT NULL CHECK (order_index >= 0)
);

CREATE INDEX IF NOT EXISTS idx_todos_date_order ON todos(date, order_index);
CREATE INDEX IF NOT EXISTS idx_subtasks_todo_order ON subtasks(todo_id, order_index);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

// Migrate checks the current schema version and applies any outstanding
// migrations in order, each in its own transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	currentVersion := 0

	var exists bool
	err := db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'schema_version')")
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if exists {
		err := db.GetContext(ctx, &currentVersion,
			"SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		err := withTx(ctx, db, func(tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, m.sql)
			return err
		})
		if err != nil {
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		logger.Migration().WithField("version", m.version).Info("schema migration applied")
	}

	return nil
}
