package repository

import (
	"context"
	"database/sql"
	"errors"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/shopspring/decimal"
)

// scanID runs a query expected to return at most one integer column.
// found is false when no row came back.
func scanID(ctx context.Context, q dialect.ExecQuerier, query string, args []any) (id int64, found bool, err error) {
	if args == nil {
		args = []any{}
	}
	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return 0, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, false, rows.Err()
	}
	if err := rows.Scan(&id); err != nil {
		return 0, false, err
	}
	return id, true, rows.Err()
}

// exec runs a statement that returns no rows.
func exec(ctx context.Context, q dialect.ExecQuerier, query string, args []any) error {
	if args == nil {
		args = []any{}
	}
	var res sql.Result
	return q.Exec(ctx, query, args, &res)
}

// rollback aborts tx, keeping cause as the reported error.
func rollback(tx dialect.Tx, cause error) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return errors.Join(cause, err)
	}
	return cause
}

// text binds an optional string.
func text(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// money binds a nullable decimal as exact text.
func money(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}
