package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/eleven-am/dayplan/internal/logger"
	"github.com/eleven-am/dayplan/internal/model"
)

const todosTable = "todos"

var todoColumns = []string{"id", "text", "date", "completed", "order_index"}

// TodoPatch is a partial update. Nil fields are left untouched; order_index
// is never part of a patch, only reorder operations may change it.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

func (p TodoPatch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil
}

// TodoStore persists todos. It is stateless apart from the db handle and is
// shared by all requests; coordination happens in the database.
type TodoStore struct {
	db *sqlx.DB
}

func NewTodoStore(db *sqlx.DB) *TodoStore {
	return &TodoStore{db: db}
}

// List returns todos ordered by order_index, each with its subtasks nested in
// their own order. A non-nil date restricts the result to that partition.
func (s *TodoStore) List(ctx context.Context, date *model.Date) ([]model.Todo, error) {
	builder := sq.Select(todoColumns...).
		From(todosTable).
		OrderBy("date", "order_index").
		PlaceholderFormat(sq.Dollar)
	if date != nil {
		builder = builder.Where(sq.Eq{"date": *date})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, &Error{Op: "list", Table: todosTable, Err: err}
	}

	todos := []model.Todo{}
	if err := sqlx.SelectContext(ctx, s.db, &todos, query, args...); err != nil {
		return nil, ParsePostgresError(err, "list", todosTable)
	}

	if err := s.attachSubtasks(ctx, todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// attachSubtasks loads the subtasks of every listed todo in one query and
// nests them in order_index order.
func (s *TodoStore) attachSubtasks(ctx context.Context, todos []model.Todo) error {
	for i := range todos {
		todos[i].Subtasks = []model.Subtask{}
	}
	if len(todos) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(todos))
	byID := make(map[int64]*model.Todo, len(todos))
	for i := range todos {
		ids = append(ids, todos[i].ID)
		byID[todos[i].ID] = &todos[i]
	}

	query, args, err := sq.Select(subtaskColumns...).
		From(subtasksTable).
		Where(sq.Eq{"todo_id": ids}).
		OrderBy("todo_id", "order_index").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return &Error{Op: "list", Table: subtasksTable, Err: err}
	}

	var subtasks []model.Subtask
	if err := sqlx.SelectContext(ctx, s.db, &subtasks, query, args...); err != nil {
		return ParsePostgresError(err, "list", subtasksTable)
	}

	for _, st := range subtasks {
		parent := byID[st.TodoID]
		if parent == nil {
			continue
		}
		parent.Subtasks = append(parent.Subtasks, st)
	}
	return nil
}

// Create inserts a todo at the end of its date partition. The next index
// computation and the insert run in one transaction so concurrent creates on
// the same date cannot claim the same slot. Text is pre-validated by the
// request layer and trusted here.
func (s *TodoStore) Create(ctx context.Context, text string, date *model.Date) (*model.Todo, error) {
	d := model.Today()
	if date != nil {
		d = *date
	}

	var todo model.Todo
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		// Serializes concurrent creates on the same date. The lock is keyed
		// on the date string and released at commit; without it two
		// transactions at READ COMMITTED can read the same max index.
		if _, err := tx.ExecContext(ctx,
			"SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", d.String()); err != nil {
			return ParsePostgresError(err, "create", todosTable)
		}

		next, err := nextOrderIndex(ctx, tx, todosTable, sq.Eq{"date": d})
		if err != nil {
			return err
		}

		query, args, err := sq.Insert(todosTable).
			Columns("text", "date", "completed", "order_index").
			Values(text, d, false, next).
			Suffix("RETURNING " + strings.Join(todoColumns, ", ")).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return &Error{Op: "create", Table: todosTable, Err: err}
		}

		if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&todo); err != nil {
			return ParsePostgresError(err, "create", todosTable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Store().WithFields(map[string]interface{}{
		"id":   todo.ID,
		"date": todo.Date.String(),
	}).Debug("todo created")

	todo.Subtasks = []model.Subtask{}
	return &todo, nil
}

// Update applies the supplied fields only and returns the updated todo with
// its subtasks.
func (s *TodoStore) Update(ctx context.Context, id int64, patch TodoPatch) (*model.Todo, error) {
	if patch.IsEmpty() {
		return nil, ValidationError{Field: "patch", Message: "At least one field required"}
	}

	builder := sq.Update(todosTable)
	if patch.Text != nil {
		builder = builder.Set("text", *patch.Text)
	}
	if patch.Completed != nil {
		builder = builder.Set("completed", *patch.Completed)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(todoColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "update", Table: todosTable, Err: err}
	}

	var todo model.Todo
	if err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&todo); err != nil {
		return nil, ParsePostgresError(err, "update", todosTable)
	}

	single := []model.Todo{todo}
	if err := s.attachSubtasks(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// Delete removes a todo and its subtasks. The subtask delete runs first in
// the same transaction; the schema's ON DELETE CASCADE is a safety net, not
// the mechanism.
func (s *TodoStore) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query, args, err := sq.Delete(subtasksTable).
			Where(sq.Eq{"todo_id": id}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return &Error{Op: "delete", Table: subtasksTable, Err: err}
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return ParsePostgresError(err, "delete", subtasksTable)
		}

		query, args, err = sq.Delete(todosTable).
			Where(sq.Eq{"id": id}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return &Error{Op: "delete", Table: todosTable, Err: err}
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return ParsePostgresError(err, "delete", todosTable)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return ParsePostgresError(err, "delete", todosTable)
		}
		if rows == 0 {
			return &Error{Op: "delete", Table: todosTable, Err: ErrNotFound}
		}
		return nil
	})
}

// Reorder replaces the order_index of every listed todo as one atomic batch.
// An empty batch is a no-op.
func (s *TodoStore) Reorder(ctx context.Context, items []OrderUpdate) error {
	if len(items) == 0 {
		return nil
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return reorderRows(ctx, tx, todosTable, items, nil)
	})
}
