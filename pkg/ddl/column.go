package ddl

import (
	"fmt"
	"strings"

	"github.com/TechXTT/sqlkit/pkg/query"
)

// Type is one of the supported column data types.
type Type int

const (
	Varchar Type = iota
	Bigint
	Bigserial
	Clob
	Text
	Timestamp
	Boolean
	Jsonb
)

// SQL renders the type; length only applies to Varchar.
func (t Type) SQL(length int) string {
	switch t {
	case Varchar:
		return fmt.Sprintf("VARCHAR(%d)", length)
	case Bigint:
		return "BIGINT"
	case Bigserial:
		return "BIGSERIAL"
	case Clob:
		return "CLOB"
	case Text:
		return "TEXT"
	case Timestamp:
		return "TIMESTAMP"
	case Boolean:
		return "BOOLEAN"
	case Jsonb:
		return "JSONB"
	default:
		return "TEXT"
	}
}

// Column is a column definition inside CREATE TABLE.
type Column struct {
	name          string
	typ           Type
	length        int
	primaryKey    bool
	autoIncrement bool
	unique        bool
	nullable      bool
	def           *query.Value
}

func (c *Column) PrimaryKey() *Column {
	c.primaryKey = true
	return c
}

func (c *Column) AutoIncrement() *Column {
	c.autoIncrement = true
	return c
}

func (c *Column) Unique() *Column {
	c.unique = true
	return c
}

// Nullable drops the NOT NULL constraint. It has no effect on a primary key.
func (c *Column) Nullable() *Column {
	c.nullable = true
	return c
}

// Default sets the DEFAULT literal. Function-call text such as NOW() is
// emitted unquoted.
func (c *Column) Default(v interface{}) *Column {
	val := query.V(v)
	c.def = &val
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

func (c *Column) String() string {
	var sb strings.Builder
	sb.WriteString(c.name)
	sb.WriteString(" ")
	sb.WriteString(c.typ.SQL(c.length))
	if c.unique {
		sb.WriteString(" UNIQUE")
	}
	if c.autoIncrement {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if c.primaryKey {
		sb.WriteString(" PRIMARY KEY")
	} else if !c.nullable {
		sb.WriteString(" NOT NULL")
	}
	if c.def != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(c.def.Literal())
	}
	return sb.String()
}
