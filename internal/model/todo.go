package model

// Todo is a single entry on a day's list. Order within a date is explicit:
// order_index is unique per date and controlled by the user through reorder
// operations, never by timestamps.
type Todo struct {
	ID         int64     `db:"id" json:"id"`
	Text       string    `db:"text" json:"text"`
	Date       Date      `db:"date" json:"date"`
	Completed  bool      `db:"completed" json:"completed"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	Subtasks   []Subtask `db:"-" json:"subtasks"`
}

// Subtask belongs to exactly one todo and is ordered within it the same way
// todos are ordered within a date. Deleting the parent removes its subtasks.
type Subtask struct {
	ID         int64  `db:"id" json:"id"`
	TodoID     int64  `db:"todo_id" json:"todo_id"`
	Text       string `db:"text" json:"text"`
	Completed  bool   `db:"completed" json:"completed"`
	OrderIndex int    `db:"order_index" json:"order_index"`
}
