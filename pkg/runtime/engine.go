// Package runtime executes statements built with the query and ddl
// packages against a database/sql connection pool.
//
// Every call outside a Transaction takes its own connection from the pool
// and blocks until the backend answers. Backend failures surface as
// *ExecutionError carrying the backend's message.
package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/TechXTT/sqlkit/internal/typeconv"
	"github.com/TechXTT/sqlkit/pkg/query"
)

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

var (
	_ dbtx = (*sql.DB)(nil)
	_ dbtx = (*sql.Tx)(nil)
)

// Database is the execution engine. It owns the connection pool and the
// dialect chosen at connect time.
type Database struct {
	mu      sync.RWMutex
	pool    *sql.DB
	dialect query.Dialect
	log     *slog.Logger
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used for statement and transaction debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Database) {
		if l != nil {
			d.log = l
		}
	}
}

// New returns an unconnected Database.
func New(opts ...Option) *Database {
	d := &Database{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wrap adopts an already opened pool.
func Wrap(pool *sql.DB, dialect query.Dialect, opts ...Option) *Database {
	d := New(opts...)
	d.pool, d.dialect = pool, dialect
	return d
}

// Dialect returns the dialect selected at connect time.
func (d *Database) Dialect() query.Dialect {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dialect
}

// Connected reports whether a pool is configured.
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pool != nil
}

// Ping verifies the pool is reachable.
func (d *Database) Ping(ctx context.Context) error {
	pool, _, err := d.conn()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

func (d *Database) conn() (*sql.DB, query.Dialect, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.pool == nil {
		return nil, query.Generic, ErrNotConnected
	}
	return d.pool, d.dialect, nil
}

// prepare validates and renders stmt and converts its values to driver arguments.
func (d *Database) prepare(dialect query.Dialect, stmt query.Statement) (string, []interface{}, error) {
	if v, ok := stmt.(query.Validator); ok {
		if err := v.Validate(); err != nil {
			return "", nil, err
		}
	}
	text, values := stmt.Render(dialect)
	if len(values) > 0 {
		text = query.Rebind(dialect, text)
	}
	d.log.Debug("preparing statement", "sql", text, "values", values)
	return text, query.Bind(values), nil
}

// Execute runs stmt and returns the first generated key, or nil when the
// backend produced none.
func (d *Database) Execute(ctx context.Context, stmt query.Statement) (interface{}, error) {
	pool, dialect, err := d.conn()
	if err != nil {
		return nil, err
	}
	return d.execute(ctx, pool, dialect, stmt)
}

func (d *Database) execute(ctx context.Context, q dbtx, dialect query.Dialect, stmt query.Statement) (interface{}, error) {
	text, args, err := d.prepare(dialect, stmt)
	if err != nil {
		return nil, err
	}
	switch stmt.(type) {
	case *query.Select:
		rows, err := q.QueryContext(ctx, text, args...)
		if err != nil {
			return nil, newExecutionError(text, err)
		}
		return nil, rows.Close()
	case *query.Insert:
		if dialect == query.PostgreSQL {
			return d.returning(ctx, q, text, args)
		}
		res, err := q.ExecContext(ctx, text, args...)
		if err != nil {
			return nil, newExecutionError(text, err)
		}
		return lastInsertID(res), nil
	}
	if _, err := q.ExecContext(ctx, text, args...); err != nil {
		return nil, newExecutionError(text, err)
	}
	return nil, nil
}

// returning runs an INSERT ... RETURNING and yields the first column of the first row.
func (d *Database) returning(ctx context.Context, q dbtx, text string, args []interface{}) (interface{}, error) {
	rows, err := q.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, newExecutionError(text, err)
	}
	defer rows.Close()
	var key interface{}
	if rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to get columns: %w", err)
		}
		vals, err := scanRow(rows, len(cols))
		if err != nil {
			return nil, newExecutionError(text, err)
		}
		if len(vals) > 0 {
			key = vals[0]
		}
	}
	if err := rows.Err(); err != nil {
		return nil, newExecutionError(text, err)
	}
	return key, nil
}

func lastInsertID(res sql.Result) interface{} {
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		return nil
	}
	return id
}

// ExecuteBatch runs b once per value row inside one transaction and returns
// the generated keys in execution order. The transaction always finishes,
// so the connection returns to the pool in auto-commit mode.
func (d *Database) ExecuteBatch(ctx context.Context, b *query.BatchInsert) (keys []interface{}, err error) {
	pool, dialect, err := d.conn()
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	text, rows := b.Render(dialect)
	text = query.Rebind(dialect, text)

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				d.log.Warn("batch rollback failed", "error", rbErr)
			}
		}
	}()

	d.log.Debug("preparing batch statement", "sql", text, "rows", len(rows))
	stmt, err := tx.PrepareContext(ctx, text)
	if err != nil {
		return nil, newExecutionError(text, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		d.log.Debug("batch values", "values", row)
		args := query.Bind(row)
		if dialect == query.PostgreSQL {
			var id interface{}
			if err := stmt.QueryRowContext(ctx, args...).Scan(&id); err != nil {
				return nil, newExecutionError(text, err)
			}
			keys = append(keys, id)
			continue
		}
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return nil, newExecutionError(text, err)
		}
		if id := lastInsertID(res); id != nil {
			keys = append(keys, id)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, newExecutionError(text, err)
	}
	return keys, nil
}

// Query runs s and materializes each row into a Record. The result must
// have between MinRecordArity and MaxRecordArity columns.
func (d *Database) Query(ctx context.Context, s *query.Select) ([]Record, error) {
	var records []Record
	err := d.each(ctx, s, func(vals []interface{}) error {
		records = append(records, newRecord(vals))
		return nil
	}, true)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Fetch runs s and hands each row's column values, in select order, to
// decode. Large text arrives as string and temporal columns as time.Time.
func Fetch[T any](ctx context.Context, d *Database, s *query.Select, decode func(values []interface{}) (T, error)) ([]T, error) {
	var out []T
	err := d.each(ctx, s, func(vals []interface{}) error {
		item, err := decode(vals)
		if err != nil {
			return fmt.Errorf("decode row %d: %w", len(out), err)
		}
		out = append(out, item)
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Database) each(ctx context.Context, s *query.Select, fn func([]interface{}) error, checkArity bool) error {
	pool, dialect, err := d.conn()
	if err != nil {
		return err
	}
	text, args, err := d.prepare(dialect, s)
	if err != nil {
		return err
	}
	rows, err := pool.QueryContext(ctx, text, args...)
	if err != nil {
		return newExecutionError(text, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}
	n := len(types)
	if checkArity && (n < MinRecordArity || n > MaxRecordArity) {
		return fmt.Errorf("%w: got %d", ErrUnsupportedResultArity, n)
	}
	for rows.Next() {
		vals, err := scanRow(rows, n)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		for i, ct := range types {
			vals[i] = typeconv.Materialize(ct.DatabaseTypeName(), vals[i])
		}
		if err := fn(vals); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return newExecutionError(text, err)
	}
	return nil
}

func scanRow(rows *sql.Rows, n int) ([]interface{}, error) {
	vals := make([]interface{}, n)
	ptrs := make([]interface{}, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return vals, nil
}
