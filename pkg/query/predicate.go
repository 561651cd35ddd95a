package query

// Predicate is a boolean expression used in a WHERE clause. Its rendered
// text and its Values are always in the same left-to-right order.
type Predicate interface {
	String() string
	Values() []Value
}

// Operator is a comparison operator.
type Operator string

const (
	OpEq  Operator = "="
	OpNe  Operator = "!="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
)

// Combinator joins two predicates.
type Combinator string

const (
	CombAnd Combinator = "AND"
	CombOr  Combinator = "OR"
)

// Comparison is a leaf predicate contributing exactly one bound value.
type Comparison struct {
	Column string
	Op     Operator
	Value  Value
}

func (c Comparison) String() string {
	return c.Column + " " + string(c.Op) + " ?"
}

func (c Comparison) Values() []Value {
	return []Value{c.Value}
}

// Composite joins two predicates with AND or OR.
type Composite struct {
	Left       Predicate
	Right      Predicate
	Combinator Combinator
}

func (c Composite) String() string {
	return c.Left.String() + " " + string(c.Combinator) + " " + c.Right.String()
}

func (c Composite) Values() []Value {
	l, r := c.Left.Values(), c.Right.Values()
	out := make([]Value, 0, len(l)+len(r))
	out = append(out, l...)
	return append(out, r...)
}

func Eq(column string, v interface{}) Comparison  { return Comparison{column, OpEq, V(v)} }
func Ne(column string, v interface{}) Comparison  { return Comparison{column, OpNe, V(v)} }
func Lt(column string, v interface{}) Comparison  { return Comparison{column, OpLt, V(v)} }
func Lte(column string, v interface{}) Comparison { return Comparison{column, OpLte, V(v)} }
func Gt(column string, v interface{}) Comparison  { return Comparison{column, OpGt, V(v)} }
func Gte(column string, v interface{}) Comparison { return Comparison{column, OpGte, V(v)} }

// And joins l and r. No parentheses are emitted, so when AND and OR are
// mixed the caller must nest the tree to get the intended SQL precedence.
func And(l, r Predicate) Composite { return Composite{l, r, CombAnd} }

// Or joins l and r. See And for precedence.
func Or(l, r Predicate) Composite { return Composite{l, r, CombOr} }

// AllOf chains ps with AND, nesting to the right: a AND (b AND c).
// It returns nil for no predicates.
func AllOf(ps ...Predicate) Predicate { return chain(CombAnd, ps) }

// AnyOf chains ps with OR, nesting to the right.
func AnyOf(ps ...Predicate) Predicate { return chain(CombOr, ps) }

func chain(comb Combinator, ps []Predicate) Predicate {
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	}
	return Composite{ps[0], chain(comb, ps[1:]), comb}
}
