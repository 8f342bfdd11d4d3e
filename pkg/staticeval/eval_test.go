package staticeval_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpast/pkg/invoker"
	"github.com/yaklabco/phpast/pkg/staticeval"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

func node(typ string, value any, children ...[]any) []any {
	return tokenNode(typ, value, nil, children...)
}

func tokenNode(typ string, value, token any, children ...[]any) []any {
	d := []any{typ, value, token}
	if len(children) > 0 {
		kids := make([]any, 0, len(children))
		for _, child := range children {
			kids = append(kids, child)
		}
		d = append(d, kids)
	}
	return d
}

func op(symbol string) []any {
	return node(staticeval.TypeOperator, symbol)
}

func str(value string) []any {
	return node(staticeval.TypeStringScalar, value)
}

func num(value string) []any {
	return node(staticeval.TypeNumericScalar, value)
}

func sym(value string) []any {
	return node(staticeval.TypeSymbolName, value)
}

func item(key, value []any) []any {
	return node(staticeval.TypeArrayValue, nil, key, value)
}

func empty() []any {
	return node(staticeval.TypeEmpty, nil)
}

// evalExpr builds a one-statement tree around expr and evaluates the
// statement node.
func evalExpr(t *testing.T, expr []any) (any, error) {
	t.Helper()

	root := node(xhpast.StatementType, nil, expr)
	out, err := json.Marshal(map[string]any{"tree": root, "stream": [][]any{}})
	require.NoError(t, err)

	tree, err := xhpast.NewTree(nil, xhpast.ExecResult{Stdout: out})
	require.NoError(t, err)
	t.Cleanup(tree.Dispose)

	statement, err := tree.Root()
	require.NoError(t, err)
	return staticeval.New().EvalStatic(statement)
}

func TestEvalStatic_Scalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr []any
		want any
	}{
		{"decimal", num("42"), int64(42)},
		{"hex", num("0x1A"), int64(26)},
		{"octal", num("017"), int64(15)},
		{"binary", num("0b101"), int64(5)},
		{"separators", num("1_000"), int64(1000)},
		{"float", num("1.5"), 1.5},
		{"exponent", num("2e3"), 2000.0},
		{"overflow", num("9223372036854775808"), 9223372036854775808.0},
		{"true", sym("TRUE"), true},
		{"false", sym("false"), false},
		{"null", sym("Null"), nil},
		{"infinity", sym("INF"), math.Inf(1)},
		{"string value", str("plain"), "plain"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := evalExpr(t, testCase.expr)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestEvalStatic_Unary(t *testing.T) {
	t.Parallel()

	unary := func(symbol string, operand []any) []any {
		return node(staticeval.TypeUnaryPrefix, nil, op(symbol), operand)
	}

	tests := []struct {
		name string
		expr []any
		want any
	}{
		{"negate int", unary("-", num("5")), int64(-5)},
		{"negate float", unary("-", num("0.5")), -0.5},
		{"plus numeric string", unary("+", str("12")), int64(12)},
		{"plus bool", unary("+", sym("true")), int64(1)},
		{"not false", unary("!", sym("false")), true},
		{"not string zero", unary("!", str("0")), true},
		{"nested", unary("-", unary("-", num("3"))), int64(3)},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := evalExpr(t, testCase.expr)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestEvalStatic_Concatenation(t *testing.T) {
	t.Parallel()

	list := node(staticeval.TypeConcatenationList, nil,
		str("a"), op("."), num("1"), op("."), sym("true"), op("."), sym("null"), op("."), num("2.5"))
	got, err := evalExpr(t, list)
	require.NoError(t, err)
	assert.Equal(t, "a112.5", got)

	binary := node(staticeval.TypeBinaryExpression, nil, str("x"), op("."), str("y"))
	got, err = evalExpr(t, binary)
	require.NoError(t, err)
	assert.Equal(t, "xy", got)
}

func TestEvalStatic_ArrayLiteral(t *testing.T) {
	t.Parallel()

	literal := node(staticeval.TypeArrayLiteral, nil,
		node(staticeval.TypeArrayValueList, nil,
			item(empty(), str("first")),
			item(str("k"), str("v")),
			item(str("5"), num("10")),
			item(empty(), str("after five")),
			item(num("0"), str("replaced")),
		),
	)

	got, err := evalExpr(t, literal)
	require.NoError(t, err)

	arr, ok := got.(*staticeval.Array)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, []staticeval.Entry{
		{Key: int64(0), Value: "replaced"},
		{Key: "k", Value: "v"},
		{Key: int64(5), Value: int64(10)},
		{Key: int64(6), Value: "after five"},
	}, arr.Entries())

	encoded, err := json.Marshal(arr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"0":"replaced","k":"v","5":10,"6":"after five"}`, string(encoded))
}

func TestEvalStatic_EmptyAndListArrays(t *testing.T) {
	t.Parallel()

	got, err := evalExpr(t, node(staticeval.TypeArrayLiteral, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, got.(*staticeval.Array).Len())

	got, err = evalExpr(t, node(staticeval.TypeArrayLiteral, nil,
		node(staticeval.TypeArrayValueList, nil,
			item(empty(), num("1")),
			item(empty(), num("2")),
		),
	))
	require.NoError(t, err)

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(encoded))
}

func TestEvalStatic_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr []any
		want error
	}{
		{"variable", node("n_VARIABLE", "$x"), staticeval.ErrUnsupportedNode},
		{"unknown symbol", sym("PHP_EOL"), staticeval.ErrUnknownSymbol},
		{"addition", node(staticeval.TypeBinaryExpression, nil, num("1"), op("+"), num("2")), staticeval.ErrUnsupportedOperator},
		{"bitwise not", node(staticeval.TypeUnaryPrefix, nil, op("~"), num("1")), staticeval.ErrUnsupportedOperator},
		{"bad number", num("12abc"), staticeval.ErrBadLiteral},
		{"missing operand", node(staticeval.TypeUnaryPrefix, nil, op("-")), staticeval.ErrMalformedNode},
		{
			"array in string",
			node(staticeval.TypeBinaryExpression, nil, str("a"), op("."), node(staticeval.TypeArrayLiteral, nil)),
			staticeval.ErrArrayToString,
		},
		{
			"array key",
			node(staticeval.TypeArrayLiteral, nil,
				node(staticeval.TypeArrayValueList, nil, item(node(staticeval.TypeArrayLiteral, nil), num("1")))),
			staticeval.ErrIllegalKey,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := evalExpr(t, testCase.expr)
			assert.Nil(t, got)
			require.ErrorIs(t, err, testCase.want)

			var evalErr *staticeval.Error
			assert.ErrorAs(t, err, &evalErr)
		})
	}
}

func TestEvalStaticString_EndToEnd(t *testing.T) {
	t.Parallel()

	fragment := `'it\'s' . "x\ty"`
	source := xhpast.WrapFragment(fragment)

	root := node("n_PROGRAM", nil,
		node("n_STATEMENT_LIST", nil,
			tokenNode("n_OPEN_TAG", nil, 0),
			node(xhpast.StatementType, nil,
				node(staticeval.TypeBinaryExpression, nil,
					tokenNode(staticeval.TypeStringScalar, nil, 1),
					tokenNode(staticeval.TypeOperator, nil, 3),
					tokenNode(staticeval.TypeStringScalar, nil, 5),
				),
			),
		),
	)
	stream := [][]any{
		{"T_OPEN_TAG", 6},
		{"T_CONSTANT_ENCAPSED_STRING", 7},
		{"T_WHITESPACE", 1},
		{".", 1},
		{"T_WHITESPACE", 1},
		{"T_CONSTANT_ENCAPSED_STRING", 6},
		{";", 1},
	}
	out, err := json.Marshal(map[string]any{"tree": root, "stream": stream})
	require.NoError(t, err)

	inv := invoker.Func(func(_ context.Context, src []byte) (xhpast.ExecResult, error) {
		assert.Equal(t, source, string(src))
		return xhpast.ExecResult{Stdout: out}, nil
	})

	got, err := xhpast.EvalStaticString(context.Background(), inv, staticeval.New(), fragment)
	require.NoError(t, err)
	assert.Equal(t, "it's"+"x\ty", got)
}

func TestToString_Floats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1.5"},
		{0.1 + 0.2, "0.3"},
		{1e20, "1.0E+20"},
		{1.5e20, "1.5E+20"},
		{-2e15, "-2.0E+15"},
		{1e-7, "1.0E-7"},
		{1.25e-10, "1.25E-10"},
		{0.0001, "0.0001"},
		{math.Inf(1), "INF"},
		{math.Inf(-1), "-INF"},
		{math.NaN(), "NAN"},
	}

	for _, testCase := range tests {
		got, err := staticeval.ToString(testCase.in)
		require.NoError(t, err)
		assert.Equal(t, testCase.want, got, "ToString(%v)", testCase.in)
	}
}

func TestJSONValue_NonFiniteFloats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INF", staticeval.JSONValue(math.Inf(1)))
	assert.Equal(t, "NAN", staticeval.JSONValue(math.NaN()))
	assert.Equal(t, 2.5, staticeval.JSONValue(2.5))

	list := staticeval.NewArray()
	list.Append(math.Inf(-1))
	list.Append(int64(1))
	encoded, err := json.Marshal(staticeval.JSONValue(list))
	require.NoError(t, err)
	assert.JSONEq(t, `["-INF", 1]`, string(encoded))

	mapped := staticeval.NewArray()
	require.NoError(t, mapped.Set("x", math.NaN()))
	encoded, err = json.Marshal(mapped)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": "NAN"}`, string(encoded))

	// The evaluated INF symbol encodes too.
	got, err := evalExpr(t, sym("INF"))
	require.NoError(t, err)
	encoded, err = json.Marshal(staticeval.JSONValue(got))
	require.NoError(t, err)
	assert.JSONEq(t, `"INF"`, string(encoded))
}
