package query

import (
	"fmt"
	"strings"
)

// Insert is a single-row INSERT builder.
type Insert struct {
	table   string
	columns []string
	values  []Value
}

// InsertInto starts an INSERT on table.
func InsertInto(table string) *Insert {
	return &Insert{table: table}
}

// Columns appends target columns; their order fixes the bind order.
func (i *Insert) Columns(cols ...string) *Insert {
	i.columns = append(i.columns, cols...)
	return i
}

// Values appends row values in column order.
func (i *Insert) Values(vals ...interface{}) *Insert {
	i.values = append(i.values, Values(vals...)...)
	return i
}

// Render returns the INSERT text. PostgreSQL gets RETURNING * so the
// engine can read back the generated key.
func (i *Insert) Render(d Dialect) (string, []Value) {
	text := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		i.table, strings.Join(i.columns, ", "), placeholders(len(i.values)))
	if d == PostgreSQL {
		text += " RETURNING *"
	}
	return text, append([]Value(nil), i.values...)
}

func (i *Insert) String() string {
	text, _ := i.Render(Generic)
	return text
}

func (i *Insert) Validate() error {
	if i.table == "" || len(i.columns) == 0 {
		return ErrEmptyStatement
	}
	if len(i.values) != len(i.columns) {
		return fmt.Errorf("insert into %s: %d columns, %d values: %w",
			i.table, len(i.columns), len(i.values), ErrColumnMismatch)
	}
	return nil
}

// BatchInsert is an INSERT executed once per value row with the same
// prepared text.
type BatchInsert struct {
	table   string
	columns []string
	rows    [][]Value
}

// BatchInsertInto starts a batch INSERT on table.
func BatchInsertInto(table string) *BatchInsert {
	return &BatchInsert{table: table}
}

// Columns appends target columns shared by every row.
func (b *BatchInsert) Columns(cols ...string) *BatchInsert {
	b.columns = append(b.columns, cols...)
	return b
}

// Values adds one row.
func (b *BatchInsert) Values(vals ...interface{}) *BatchInsert {
	b.rows = append(b.rows, Values(vals...))
	return b
}

// Rows returns the accumulated value rows.
func (b *BatchInsert) Rows() [][]Value {
	out := make([][]Value, len(b.rows))
	for i, r := range b.rows {
		out[i] = append([]Value(nil), r...)
	}
	return out
}

// Render returns text with placeholders for exactly one row. PostgreSQL
// gets RETURNING id, narrower than Insert's RETURNING *.
func (b *BatchInsert) Render(d Dialect) (string, [][]Value) {
	text := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.table, strings.Join(b.columns, ", "), placeholders(len(b.columns)))
	if d == PostgreSQL {
		text += " RETURNING id"
	}
	return text, b.Rows()
}

func (b *BatchInsert) String() string {
	text, _ := b.Render(Generic)
	return text
}

func (b *BatchInsert) Validate() error {
	if b.table == "" || len(b.columns) == 0 || len(b.rows) == 0 {
		return ErrEmptyStatement
	}
	for n, row := range b.rows {
		if len(row) != len(b.columns) {
			return fmt.Errorf("batch insert into %s: row %d has %d values for %d columns: %w",
				b.table, n, len(row), len(b.columns), ErrColumnMismatch)
		}
	}
	return nil
}
