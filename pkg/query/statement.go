// Package query builds parameterized SQL statements. Builders accumulate
// state through chained setters and render dialect-aware text together with
// the ordered values bound to its ? placeholders.
package query

import (
	"errors"
	"strings"
)

var (
	// ErrColumnMismatch is returned when a row's value count differs from its column count.
	ErrColumnMismatch = errors.New("query: value count does not match column count")
	// ErrEmptyStatement is returned when a statement has nothing to render.
	ErrEmptyStatement = errors.New("query: statement is empty")
)

// Statement is anything the engine can render and run as a single command.
type Statement interface {
	Render(d Dialect) (string, []Value)
	String() string
}

// Validator is implemented by statements that can be checked before binding.
type Validator interface {
	Validate() error
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// RawStatement is SQL text passed through verbatim with positional arguments.
type RawStatement struct {
	text string
	args []Value
}

// Raw wraps text, using ? for each of args.
func Raw(text string, args ...interface{}) *RawStatement {
	return &RawStatement{text: text, args: Values(args...)}
}

func (r *RawStatement) Render(Dialect) (string, []Value) {
	return r.text, r.args
}

func (r *RawStatement) String() string { return r.text }

func (r *RawStatement) Validate() error {
	if strings.TrimSpace(r.text) == "" {
		return ErrEmptyStatement
	}
	return nil
}
