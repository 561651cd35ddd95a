package runtime

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// TableName derives a table name from T's type name: UserAccount -> user_account.
func TableName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var sb strings.Builder
	for i, r := range t.Name() {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Into returns a decode function for Fetch that fills the exported fields of
// the struct T in declaration order, one field per result column. NULL leaves
// the field at its zero value.
func Into[T any]() func(values []interface{}) (T, error) {
	return func(values []interface{}) (T, error) {
		var dest T
		v := reflect.ValueOf(&dest).Elem()
		if v.Kind() != reflect.Struct {
			return dest, fmt.Errorf("dest must be a struct, got %s", v.Type())
		}
		fields := exportedFields(v.Type())
		if len(values) > len(fields) {
			return dest, fmt.Errorf("%s has %d fields for %d columns", v.Type(), len(fields), len(values))
		}
		for i, val := range values {
			if val == nil {
				continue
			}
			if err := assign(v.Field(fields[i]), reflect.ValueOf(val)); err != nil {
				return dest, fmt.Errorf("column %d into %s.%s: %w", i, v.Type(), v.Type().Field(fields[i]).Name, err)
			}
		}
		return dest, nil
	}
}

func exportedFields(t reflect.Type) []int {
	var idx []int
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			idx = append(idx, i)
		}
	}
	return idx
}

func assign(field, val reflect.Value) error {
	if field.Kind() == reflect.Ptr {
		p := reflect.New(field.Type().Elem())
		if err := assign(p.Elem(), val); err != nil {
			return err
		}
		field.Set(p)
		return nil
	}
	switch {
	case val.Type().AssignableTo(field.Type()):
		field.Set(val)
	case field.Kind() == reflect.String && val.Kind() != reflect.String:
		// int -> string conversion would yield a rune, not digits
		return fmt.Errorf("cannot convert %s to %s", val.Type(), field.Type())
	case val.Type().ConvertibleTo(field.Type()):
		field.Set(val.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot convert %s to %s", val.Type(), field.Type())
	}
	return nil
}
