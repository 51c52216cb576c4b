package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/eleven-am/dayplan/internal/logger"
	"github.com/eleven-am/dayplan/internal/model"
)

const subtasksTable = "subtasks"

var subtaskColumns = []string{"id", "todo_id", "text", "completed", "order_index"}

// SubtaskPatch is a partial update for a subtask.
type SubtaskPatch struct {
	Text      *string
	Completed *bool
}

func (p SubtaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil
}

// SubtaskStore persists subtasks scoped to their parent todo.
type SubtaskStore struct {
	db *sqlx.DB
}

func NewSubtaskStore(db *sqlx.DB) *SubtaskStore {
	return &SubtaskStore{db: db}
}

// Create inserts a subtask at the end of its parent's partition. The parent
// is checked explicitly first: a foreign-key failure alone is not
// distinguishable enough at the API boundary, and the caller needs a
// ValidationError it can map to 400. The check locks the parent row, which
// serializes concurrent creates under the same todo so two transactions
// cannot read the same max index.
func (s *SubtaskStore) Create(ctx context.Context, todoID int64, text string) (*model.Subtask, error) {
	var subtask model.Subtask
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query, args, err := sq.Select("id").
			From(todosTable).
			Where(sq.Eq{"id": todoID}).
			Suffix("FOR UPDATE").
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return &Error{Op: "create", Table: subtasksTable, Err: err}
		}

		var parentID int64
		if err := sqlx.GetContext(ctx, tx, &parentID, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ValidationError{Field: "todo_id", Message: "Todo not found"}
			}
			return ParsePostgresError(err, "create", subtasksTable)
		}

		next, err := nextOrderIndex(ctx, tx, subtasksTable, sq.Eq{"todo_id": todoID})
		if err != nil {
			return err
		}

		query, args, err = sq.Insert(subtasksTable).
			Columns("todo_id", "text", "completed", "order_index").
			Values(todoID, text, false, next).
			Suffix("RETURNING " + strings.Join(subtaskColumns, ", ")).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return &Error{Op: "create", Table: subtasksTable, Err: err}
		}

		if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&subtask); err != nil {
			return ParsePostgresError(err, "create", subtasksTable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Store().WithFields(map[string]interface{}{
		"id":      subtask.ID,
		"todo_id": subtask.TodoID,
	}).Debug("subtask created")

	return &subtask, nil
}

// Update applies the supplied fields only.
func (s *SubtaskStore) Update(ctx context.Context, id int64, patch SubtaskPatch) (*model.Subtask, error) {
	if patch.IsEmpty() {
		return nil, ValidationError{Field: "patch", Message: "At least one field required"}
	}

	builder := sq.Update(subtasksTable)
	if patch.Text != nil {
		builder = builder.Set("text", *patch.Text)
	}
	if patch.Completed != nil {
		builder = builder.Set("completed", *patch.Completed)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(subtaskColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "update", Table: subtasksTable, Err: err}
	}

	var subtask model.Subtask
	if err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&subtask); err != nil {
		return nil, ParsePostgresError(err, "update", subtasksTable)
	}
	return &subtask, nil
}

// Delete removes a subtask.
func (s *SubtaskStore) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete(subtasksTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return &Error{Op: "delete", Table: subtasksTable, Err: err}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ParsePostgresError(err, "delete", subtasksTable)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return ParsePostgresError(err, "delete", subtasksTable)
	}
	if rows == 0 {
		return &Error{Op: "delete", Table: subtasksTable, Err: ErrNotFound}
	}
	return nil
}

// Reorder replaces the order_index of every listed subtask as one atomic
// batch. The update is scoped to the parent todo, so a batch submitted under
// one todo can never reindex another todo's subtasks.
func (s *SubtaskStore) Reorder(ctx context.Context, todoID int64, items []OrderUpdate) error {
	if len(items) == 0 {
		return nil
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return reorderRows(ctx, tx, subtasksTable, items, sq.Eq{"todo_id": todoID})
	})
}
