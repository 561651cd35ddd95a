package query

import (
	"fmt"
	"strings"
)

// Direction is an ORDER BY direction. The zero value emits none.
type Direction int

const (
	Unordered Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ASC"
	case Descending:
		return "DESC"
	default:
		return ""
	}
}

// Select is a fluent SELECT builder.
type Select struct {
	table     string
	columns   []string
	where     Predicate
	orderBy   string
	direction Direction
	limit     int
	offset    int
	fetchNext int
}

// SelectFrom starts a SELECT on table.
func SelectFrom(table string) *Select {
	return &Select{table: table}
}

// Columns appends to the projection. With none, * is selected.
func (s *Select) Columns(cols ...string) *Select {
	s.columns = append(s.columns, cols...)
	return s
}

// Where sets the row filter.
func (s *Select) Where(p Predicate) *Select {
	s.where = p
	return s
}

// OrderBy sets the single ORDER BY column.
func (s *Select) OrderBy(column string) *Select {
	s.orderBy = column
	return s
}

// Asc orders ascending.
func (s *Select) Asc() *Select {
	s.direction = Ascending
	return s
}

// Desc orders descending.
func (s *Select) Desc() *Select {
	s.direction = Descending
	return s
}

// Limit sets the LIMIT clause
func (s *Select) Limit(n int) *Select {
	s.limit = n
	return s
}

// Offset sets the OFFSET n ROWS clause
func (s *Select) Offset(n int) *Select {
	s.offset = n
	return s
}

// FetchNext sets the FETCH NEXT n ROWS ONLY clause
func (s *Select) FetchNext(n int) *Select {
	s.fetchNext = n
	return s
}

// Table returns the target table.
func (s *Select) Table() string { return s.table }

// ColumnNames returns the projected columns, empty for *.
func (s *Select) ColumnNames() []string {
	return append([]string(nil), s.columns...)
}

// Render assembles the SELECT. The dialect does not change its text.
func (s *Select) Render(Dialect) (string, []Value) {
	parts := []string{"SELECT"}
	if len(s.columns) > 0 {
		parts = append(parts, strings.Join(s.columns, ", "))
	} else {
		parts = append(parts, "*")
	}
	parts = append(parts, "FROM", s.table)
	if s.where != nil {
		parts = append(parts, "WHERE", s.where.String())
	}
	if s.orderBy != "" {
		parts = append(parts, "ORDER BY", s.orderBy)
		if s.direction != Unordered {
			parts = append(parts, s.direction.String())
		}
	}
	if s.limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %d", s.limit))
	}
	if s.offset > 0 {
		parts = append(parts, fmt.Sprintf("OFFSET %d ROWS", s.offset))
	}
	if s.fetchNext > 0 {
		parts = append(parts, fmt.Sprintf("FETCH NEXT %d ROWS ONLY", s.fetchNext))
	}
	return strings.Join(parts, " "), s.Values()
}

// Values returns the bound values of the row filter.
func (s *Select) Values() []Value {
	if s.where == nil {
		return nil
	}
	return s.where.Values()
}

func (s *Select) String() string {
	text, _ := s.Render(Generic)
	return text
}

func (s *Select) Validate() error {
	if s.table == "" {
		return ErrEmptyStatement
	}
	return nil
}
