// Package ddl renders CREATE TABLE and DROP TABLE statements.
//
// The force flag mirrors an unconditional statement: with force the plain
// form is emitted, without it IF NOT EXISTS / IF EXISTS is added so the
// statement is a no-op when the table already exists (or is already gone).
package ddl

import (
	"strings"

	"github.com/TechXTT/sqlkit/pkg/query"
)

// CreateTable collects column definitions in declaration order.
type CreateTable struct {
	name    string
	force   bool
	columns []*Column
}

// NewCreateTable starts a CREATE TABLE for name.
func NewCreateTable(name string, force bool) *CreateTable {
	return &CreateTable{name: name, force: force}
}

func (t *CreateTable) add(name string, typ Type, length int) *Column {
	c := &Column{name: name, typ: typ, length: length}
	t.columns = append(t.columns, c)
	return c
}

func (t *CreateTable) Varchar(name string, length int) *Column {
	return t.add(name, Varchar, length)
}

func (t *CreateTable) Bigint(name string) *Column    { return t.add(name, Bigint, 0) }
func (t *CreateTable) Bigserial(name string) *Column { return t.add(name, Bigserial, 0) }
func (t *CreateTable) Clob(name string) *Column      { return t.add(name, Clob, 0) }
func (t *CreateTable) Text(name string) *Column      { return t.add(name, Text, 0) }
func (t *CreateTable) Timestamp(name string) *Column { return t.add(name, Timestamp, 0) }
func (t *CreateTable) Boolean(name string) *Column   { return t.add(name, Boolean, 0) }
func (t *CreateTable) Jsonb(name string) *Column     { return t.add(name, Jsonb, 0) }

// Columns returns the definitions added so far.
func (t *CreateTable) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

func (t *CreateTable) String() string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE")
	if !t.force {
		sb.WriteString(" IF NOT EXISTS")
	}
	sb.WriteString(" ")
	sb.WriteString(t.name)
	defs := make([]string, len(t.columns))
	for i, c := range t.columns {
		defs[i] = c.String()
	}
	sb.WriteString(" (")
	sb.WriteString(strings.Join(defs, ", "))
	sb.WriteString(")")
	return sb.String()
}

// Render implements query.Statement. DDL carries no bound values.
func (t *CreateTable) Render(query.Dialect) (string, []query.Value) {
	return t.String(), nil
}

func (t *CreateTable) Validate() error {
	if t.name == "" || len(t.columns) == 0 {
		return query.ErrEmptyStatement
	}
	return nil
}

// DropTable is a DROP TABLE statement.
type DropTable struct {
	name  string
	force bool
}

// NewDropTable returns a DROP TABLE for name.
func NewDropTable(name string, force bool) *DropTable {
	return &DropTable{name: name, force: force}
}

func (t *DropTable) String() string {
	if t.force {
		return "DROP TABLE " + t.name
	}
	return "DROP TABLE IF EXISTS " + t.name
}

func (t *DropTable) Render(query.Dialect) (string, []query.Value) {
	return t.String(), nil
}

func (t *DropTable) Validate() error {
	if t.name == "" {
		return query.ErrEmptyStatement
	}
	return nil
}
