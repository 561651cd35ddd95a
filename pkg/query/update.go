package query

import (
	"strings"
)

// Update is a fluent UPDATE builder.
type Update struct {
	table   string
	columns []string
	values  []Value
	where   Predicate
}

// UpdateTable starts an UPDATE on table.
func UpdateTable(table string) *Update {
	return &Update{table: table}
}

// Set assigns column. Setting a column again replaces its value but keeps
// its original position.
func (u *Update) Set(column string, v interface{}) *Update {
	for i, c := range u.columns {
		if c == column {
			u.values[i] = V(v)
			return u
		}
	}
	u.columns = append(u.columns, column)
	u.values = append(u.values, V(v))
	return u
}

// Where sets the row filter.
func (u *Update) Where(p Predicate) *Update {
	u.where = p
	return u
}

// Render returns the UPDATE text; SET values precede the filter's values.
func (u *Update) Render(Dialect) (string, []Value) {
	sets := make([]string, len(u.columns))
	for i, c := range u.columns {
		sets[i] = c + " = ?"
	}
	text := "UPDATE " + u.table + " SET " + strings.Join(sets, ", ")
	vals := append([]Value(nil), u.values...)
	if u.where != nil {
		text += " WHERE " + u.where.String()
		vals = append(vals, u.where.Values()...)
	}
	return text, vals
}

func (u *Update) String() string {
	text, _ := u.Render(Generic)
	return text
}

func (u *Update) Validate() error {
	if u.table == "" || len(u.columns) == 0 {
		return ErrEmptyStatement
	}
	return nil
}
