package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the layout used when a temporal value is embedded as a literal.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Kind classifies the scalar held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInteger
	KindBoolean
	KindTemporal
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindTemporal:
		return "temporal"
	default:
		return "other"
	}
}

// Value wraps a single scalar that is either embedded into SQL text as a
// literal or handed to the driver as a bound parameter.
type Value struct {
	v    interface{}
	kind Kind
}

// V wraps x. A Value (or *Value) passed in is returned unchanged and nil
// pointers become NULL.
func V(x interface{}) Value {
	switch v := x.(type) {
	case Value:
		return v
	case *Value:
		if v == nil {
			return Null
		}
		return *v
	}
	x = deref(x)
	return Value{v: x, kind: kindOf(x)}
}

// Null is the NULL value.
var Null = Value{}

func deref(x interface{}) interface{} {
	if x == nil {
		return nil
	}
	rv := reflect.ValueOf(x)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func kindOf(x interface{}) Kind {
	switch x.(type) {
	case nil:
		return KindNull
	case time.Time:
		return KindTemporal
	case uuid.UUID:
		return KindText
	}
	// Named types (type status string, json.RawMessage) classify by their underlying kind.
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.String:
		return KindText
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindText
		}
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger
	}
	return KindOther
}

// textOf returns the character data of a KindText value.
func textOf(x interface{}) string {
	if id, ok := x.(uuid.UUID); ok {
		return id.String()
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Slice {
		return string(rv.Bytes())
	}
	return rv.String()
}

// Kind reports the classification of the wrapped scalar.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the wrapped scalar as given.
func (v Value) Interface() interface{} { return v.v }

// Literal renders v for embedding in SQL text, e.g. as a column DEFAULT.
// Text shaped like a function call (NOW(), uuid_generate_v4()) is emitted verbatim.
func (v Value) Literal() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindText:
		s := textOf(v.v)
		if isFunctionCall(s) {
			return s
		}
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	case KindBoolean:
		if reflect.ValueOf(v.v).Bool() {
			return "TRUE"
		}
		return "FALSE"
	case KindTemporal:
		return v.v.(time.Time).Format(TimestampLayout)
	case KindInteger:
		rv := reflect.ValueOf(v.v)
		if rv.CanInt() {
			return strconv.FormatInt(rv.Int(), 10)
		}
		return strconv.FormatUint(rv.Uint(), 10)
	default:
		return fmt.Sprint(v.v)
	}
}

// Bind returns the value handed to the driver for a placeholder. Temporal
// values are truncated to the literal precision; everything else passes through.
func (v Value) Bind() interface{} {
	if v.kind == KindTemporal {
		return v.v.(time.Time).Truncate(time.Millisecond)
	}
	return v.v
}

// String implements fmt.Stringer using the literal form.
func (v Value) String() string { return v.Literal() }

func isFunctionCall(s string) bool {
	return strings.Contains(s, "(") && strings.HasSuffix(s, ")")
}

// Values wraps each element of xs.
func Values(xs ...interface{}) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = V(x)
	}
	return out
}

// Bind converts vs to driver arguments in order.
func Bind(vs []Value) []interface{} {
	args := make([]interface{}, len(vs))
	for i, v := range vs {
		args[i] = v.Bind()
	}
	return args
}
