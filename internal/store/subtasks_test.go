package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var subtaskRows = []string{"id", "todo_id", "text", "completed", "order_index"}

func TestSubtaskStoreCreate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSubtaskStore(db)

	t.Run("checks and locks the parent before inserting", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM todos WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(order_index\) \+ 1, 0\) FROM subtasks WHERE todo_id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO subtasks \(todo_id,text,completed,order_index\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING id, todo_id, text, completed, order_index`).
			WithArgs(int64(1), "step", false, 1).
			WillReturnRows(sqlmock.NewRows(subtaskRows).
				AddRow(int64(10), int64(1), "step", false, 1))
		mock.ExpectCommit()

		subtask, err := s.Create(context.Background(), 1, "step")
		require.NoError(t, err)
		assert.Equal(t, int64(10), subtask.ID)
		assert.Equal(t, int64(1), subtask.TodoID)
		assert.Equal(t, "step", subtask.Text)
		assert.False(t, subtask.Completed)
		assert.Equal(t, 1, subtask.OrderIndex)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing parent fails validation with no insert", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM todos WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(9999)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := s.Create(context.Background(), 9999, "orphan")

		var ve ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "Todo not found", ve.Message)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubtaskStoreUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSubtaskStore(db)

	t.Run("updates supplied fields only", func(t *testing.T) {
		text := "revised"

		mock.ExpectQuery(`UPDATE subtasks SET text = \$1 WHERE id = \$2 RETURNING id, todo_id, text, completed, order_index`).
			WithArgs("revised", int64(10)).
			WillReturnRows(sqlmock.NewRows(subtaskRows).
				AddRow(int64(10), int64(1), "revised", false, 0))

		subtask, err := s.Update(context.Background(), 10, SubtaskPatch{Text: &text})
		require.NoError(t, err)
		assert.Equal(t, "revised", subtask.Text)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing subtask yields not found", func(t *testing.T) {
		completed := true

		mock.ExpectQuery(`UPDATE subtasks SET completed = \$1 WHERE id = \$2`).
			WithArgs(true, int64(999)).
			WillReturnRows(sqlmock.NewRows(subtaskRows))

		_, err := s.Update(context.Background(), 999, SubtaskPatch{Completed: &completed})
		assert.True(t, errors.Is(err, ErrNotFound))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		_, err := s.Update(context.Background(), 10, SubtaskPatch{})

		var ve ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "At least one field required", ve.Message)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubtaskStoreDelete(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSubtaskStore(db)

	t.Run("deletes by id", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM subtasks WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(context.Background(), 10))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing subtask yields not found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM subtasks WHERE id = \$1`).
			WithArgs(int64(999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Delete(context.Background(), 999)
		assert.True(t, errors.Is(err, ErrNotFound))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubtaskStoreReorder(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSubtaskStore(db)

	// The batch is always scoped to the parent todo; ids belonging to
	// another todo fall outside the WHERE clause and stay untouched.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE subtasks SET order_index = CASE id WHEN \$1 THEN \$2 WHEN \$3 THEN \$4 END WHERE id IN \(\$5,\$6\) AND todo_id = \$7`).
		WithArgs(int64(10), 1, int64(11), 0, int64(10), int64(11), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := s.Reorder(context.Background(), 1, []OrderUpdate{
		{ID: 10, OrderIndex: 1},
		{ID: 11, OrderIndex: 0},
	})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
