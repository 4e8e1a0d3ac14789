// Package database runs the generated statements inside transactions and
// returns rows as column maps.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// ErrOneRecordExpected is returned by QuerySingle when the statement does
// not produce exactly one row.
var ErrOneRecordExpected = errors.New("database: one record expected")

// Row is one result row keyed by column name.
type Row map[string]any

type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens a pool for driver and dsn and checks the connection.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return New(db, logger), nil
}

func New(db *sql.DB, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{db: db, logger: logger}
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx, logger: d.logger}, nil
}

// Transaction runs fn in a new transaction. It commits when fn succeeds and
// rolls back when fn fails or panics; a panic is re-raised after rollback.
func (d *DB) Transaction(ctx context.Context, fn func(*Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			d.logger.Error("Rollback failed", "error", rerr)
		}
		return err
	}
	return tx.Commit()
}

type Tx struct {
	tx     *sql.Tx
	logger *slog.Logger
}

func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Query runs text and collects every row.
func (t *Tx) Query(ctx context.Context, text string, args ...any) ([]Row, error) {
	t.logger.Debug("Query", "sql", text, "args", len(args))
	rows, err := t.tx.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(Row, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// QuerySingle runs text and fails with ErrOneRecordExpected unless it
// returns exactly one row.
func (t *Tx) QuerySingle(ctx context.Context, text string, args ...any) (Row, error) {
	rows, err := t.Query(ctx, text, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("%w, got %d", ErrOneRecordExpected, len(rows))
	}
	return rows[0], nil
}

// Exec runs a statement and returns the number of affected rows.
func (t *Tx) Exec(ctx context.Context, text string, args ...any) (int64, error) {
	t.logger.Debug("Exec", "sql", text, "args", len(args))
	res, err := t.tx.ExecContext(ctx, text, args...)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	// Not every driver reports affected rows.
	n, _ := res.RowsAffected()
	return n, nil
}
