package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicate_Render(t *testing.T) {
	cases := []struct {
		pred Predicate
		want string
	}{
		{And(Lte("age", 42), Gte("shoeSize", 42)), "age <= ? AND shoeSize >= ?"},
		{And(Eq("firstName", "Donald"), Ne("lastName", "Trump")), "firstName = ? AND lastName != ?"},
		{And(Lt("age", V(32)), Lte("shoeSize", V(43))), "age < ? AND shoeSize <= ?"},
		{Or(Lt("age", 42), Gt("shoeSize", 42)), "age < ? OR shoeSize > ?"},
		{Or(Lte("age", V(42)), Gt("shoeSize", V(39))), "age <= ? OR shoeSize > ?"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.pred.String())
	}
}

func TestPredicate_ValuesInRenderOrder(t *testing.T) {
	p := And(Eq("a", 1), Or(Eq("b", "two"), And(Gt("c", 3), Lt("d", 4))))

	require.Equal(t, "a = ? AND b = ? OR c > ? AND d < ?", p.String())
	require.Equal(t, []interface{}{1, "two", 3, 4}, Bind(p.Values()))
}

func TestPredicate_ExplicitValueIsKept(t *testing.T) {
	v := V("x")
	c := Eq("col", v)
	require.Equal(t, v, c.Value)
	require.Equal(t, []Value{v}, c.Values())
}

func TestAllOf_RightAssociates(t *testing.T) {
	p := AllOf(Eq("a", 1), Eq("b", 2), Eq("c", 3))

	comp, ok := p.(Composite)
	require.True(t, ok)
	require.Equal(t, Eq("a", 1), comp.Left)
	inner, ok := comp.Right.(Composite)
	require.True(t, ok)
	require.Equal(t, CombAnd, inner.Combinator)
	require.Equal(t, "a = ? AND b = ? AND c = ?", p.String())
	require.Equal(t, []interface{}{1, 2, 3}, Bind(p.Values()))
}

func TestAnyOf_Edges(t *testing.T) {
	require.Nil(t, AnyOf())
	require.Equal(t, Predicate(Eq("a", 1)), AnyOf(Eq("a", 1)))
	require.Equal(t, "a = ? OR b = ?", AnyOf(Eq("a", 1), Eq("b", 2)).String())
}
