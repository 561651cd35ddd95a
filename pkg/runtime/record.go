package runtime

import (
	"time"

	"github.com/TechXTT/sqlkit/internal/typeconv"
)

// Result arities Query can materialize.
const (
	MinRecordArity = 1
	MaxRecordArity = 7
)

// Record is an immutable, positionally indexed result row. Any value may be nil.
type Record struct {
	values []interface{}
}

func newRecord(vals []interface{}) Record {
	return Record{values: vals}
}

// Size is the number of columns.
func (r Record) Size() int { return len(r.values) }

// At returns column i. It panics when i is out of range.
func (r Record) At(i int) interface{} { return r.values[i] }

// Values returns a copy of the columns.
func (r Record) Values() []interface{} {
	return append([]interface{}(nil), r.values...)
}

// Int64 returns column i as an integer.
func (r Record) Int64(i int) (int64, bool) {
	return typeconv.ToInt64(r.values[i])
}

// Text returns column i as a string.
func (r Record) Text(i int) (string, bool) {
	s, ok := r.values[i].(string)
	return s, ok
}

// Time returns column i as a time.
func (r Record) Time(i int) (time.Time, bool) {
	t, ok := r.values[i].(time.Time)
	return t, ok
}
