package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// OrderUpdate assigns a new order_index to one row.
type OrderUpdate struct {
	ID         int64 `json:"id" db:"id"`
	OrderIndex int   `json:"order_index" db:"order_index"`
}

// nextOrderIndex returns max(order_index)+1 within the given partition, or 0
// when the partition is empty. Callers must run it on the same transaction as
// the insert that consumes the index, otherwise two concurrent creates can
// observe the same value.
func nextOrderIndex(ctx context.Context, q sqlx.ExtContext, table string, partition sq.Eq) (int, error) {
	query, args, err := sq.Select("COALESCE(MAX(order_index) + 1, 0)").
		From(table).
		Where(partition).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, &Error{Op: "nextOrderIndex", Table: table, Err: err}
	}

	var next int
	if err := sqlx.GetContext(ctx, q, &next, query, args...); err != nil {
		return 0, ParsePostgresError(err, "nextOrderIndex", table)
	}
	return next, nil
}

// reorderRows applies every (id, order_index) pair in one conditional UPDATE:
//
//	UPDATE <table> SET order_index = CASE id WHEN $1 THEN $2 ... END
//	WHERE id IN (...)
//
// A single statement keeps the batch atomic and avoids N round trips. The
// engine does not check that the pairs cover a whole partition or that the
// new indices are contiguous; callers always submit the complete item set of
// one partition. A non-empty scope restricts the update to that partition so
// a batch cannot touch rows outside it. An empty batch is a no-op.
func reorderRows(ctx context.Context, q sqlx.ExtContext, table string, items []OrderUpdate, scope sq.Eq) error {
	if len(items) == 0 {
		return nil
	}

	caseExpr := sq.Case("id")
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		caseExpr = caseExpr.When(sq.Expr("?", item.ID), sq.Expr("?", item.OrderIndex))
		ids = append(ids, item.ID)
	}

	builder := sq.Update(table).
		Set("order_index", caseExpr).
		Where(sq.Eq{"id": ids})
	if len(scope) > 0 {
		builder = builder.Where(scope)
	}

	query, args, err := builder.
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return &Error{Op: "reorder", Table: table, Err: err}
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return ParsePostgresError(err, "reorder", table)
	}
	return nil
}
