package typeconv

import (
	"strconv"
	"strings"
	"time"
)

// CanonicalType normalizes driver-reported column type names for comparison.
func CanonicalType(typ string) string {
	t := strings.ToUpper(typ)
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "INT2", "INT4", "INT8", "INTEGER", "BIGINT", "SMALLINT", "HUGEINT":
		return "INTEGER"
	case "BOOL", "BOOLEAN":
		return "BOOLEAN"
	case "TEXT", "CLOB", "VARCHAR", "CHAR", "BPCHAR", "CHARACTER VARYING", "JSON", "JSONB":
		return "TEXT"
	case "REAL", "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE":
		return "REAL"
	case "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE", "DATETIME", "DATE":
		return "TIMESTAMP"
	case "BYTEA", "BLOB":
		return "BLOB"
	case "UUID":
		return "UUID"
	default:
		return t
	}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// Materialize converts a scanned driver value into an in-memory Go value:
// large text arriving as bytes becomes a string and temporal columns
// reported as text become time.Time. Binary columns are copied.
func Materialize(dbType string, v interface{}) interface{} {
	canon := CanonicalType(dbType)
	switch x := v.(type) {
	case []byte:
		if canon == "BLOB" {
			return append([]byte(nil), x...)
		}
		if canon == "TIMESTAMP" {
			if t, ok := parseTime(string(x)); ok {
				return t
			}
		}
		return string(x)
	case string:
		if canon == "TIMESTAMP" {
			if t, ok := parseTime(x); ok {
				return t
			}
		}
	}
	return v
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToInt64 converts integer-like scanned values.
func ToInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case float64:
		return int64(x), true
	case []byte:
		n, err := strconv.ParseInt(string(x), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
