// Package staticeval computes compile-time values of constant PHP expressions.
//
// Values are represented as nil, bool, int64, float64, string or *Array.
package staticeval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yaklabco/phpast/pkg/xhpast"
)

// Node types understood by the evaluator.
const (
	TypeStatement         = xhpast.StatementType
	TypeStringScalar      = "n_STRING_SCALAR"
	TypeNumericScalar     = "n_NUMERIC_SCALAR"
	TypeSymbolName        = "n_SYMBOL_NAME"
	TypeUnaryPrefix       = "n_UNARY_PREFIX_EXPRESSION"
	TypeBinaryExpression  = "n_BINARY_EXPRESSION"
	TypeConcatenationList = "n_CONCATENATION_LIST"
	TypeArrayLiteral      = "n_ARRAY_LITERAL"
	TypeArrayValueList    = "n_ARRAY_VALUE_LIST"
	TypeArrayValue        = "n_ARRAY_VALUE"
	TypeOperator          = "n_OPERATOR"
	TypeEmpty             = "n_EMPTY"
)

// Sentinel errors.
var (
	ErrUnsupportedNode     = errors.New("unsupported node")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrInterpolation       = errors.New("string interpolation is not static")
	ErrMalformedNode       = errors.New("malformed node")
	ErrIllegalKey          = errors.New("illegal array key")
	ErrArrayToString       = errors.New("array to string conversion")
)

// Error reports where evaluation failed.
type Error struct {
	NodeType string
	Line     int
	Err      error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s on line %d: %v", e.NodeType, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.NodeType, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Evaluator is the default xhpast.StaticEvaluator.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

var _ xhpast.StaticEvaluator = (*Evaluator)(nil)

// EvalStatic implements xhpast.StaticEvaluator.
func (e *Evaluator) EvalStatic(n *xhpast.Node) (any, error) {
	return eval(n)
}

func eval(n *xhpast.Node) (any, error) {
	if n == nil {
		return nil, &Error{NodeType: "<nil>", Err: ErrMalformedNode}
	}

	switch n.Type {
	case TypeStatement:
		return eval(n.Child(0))
	case TypeStringScalar:
		return evalString(n)
	case TypeNumericScalar:
		return evalNumber(n)
	case TypeSymbolName:
		return evalSymbol(n)
	case TypeUnaryPrefix:
		return evalUnary(n)
	case TypeBinaryExpression:
		return evalBinary(n)
	case TypeConcatenationList:
		return evalConcatenation(n)
	case TypeArrayLiteral:
		return evalArray(n)
	default:
		return nil, fail(n, ErrUnsupportedNode)
	}
}

func fail(n *xhpast.Node, err error) error {
	return &Error{NodeType: n.Type, Line: n.LineNumber(), Err: err}
}

// lexeme is the node's source text, or its literal value when no token
// anchors it.
func lexeme(n *xhpast.Node) string {
	if s := n.ConcreteString(); s != "" {
		return strings.TrimSpace(s)
	}
	return n.Value
}

func evalString(n *xhpast.Node) (any, error) {
	raw := n.ConcreteString()
	if raw == "" {
		if !n.HasValue {
			return nil, fail(n, ErrMalformedNode)
		}
		return n.Value, nil
	}

	s, err := UnquoteString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fail(n, err)
	}
	return s, nil
}

func evalNumber(n *xhpast.Node) (any, error) {
	v, err := ParseNumber(lexeme(n))
	if err != nil {
		return nil, fail(n, err)
	}
	return v, nil
}

func evalSymbol(n *xhpast.Node) (any, error) {
	name := lexeme(n)
	if name == "INF" {
		return math.Inf(1), nil
	}
	switch strings.ToLower(name) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	default:
		return nil, fail(n, fmt.Errorf("%w: %q", ErrUnknownSymbol, name))
	}
}

func evalUnary(n *xhpast.Node) (any, error) {
	operator, operand := n.Child(0), n.Child(1)
	if operator == nil || operand == nil || operator.Type != TypeOperator {
		return nil, fail(n, ErrMalformedNode)
	}

	value, err := eval(operand)
	if err != nil {
		return nil, err
	}

	switch op := lexeme(operator); op {
	case "-":
		return negate(toNumber(value)), nil
	case "+":
		return toNumber(value), nil
	case "!":
		return !truthy(value), nil
	default:
		return nil, fail(n, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op))
	}
}

func evalBinary(n *xhpast.Node) (any, error) {
	left, operator, right := n.Child(0), n.Child(1), n.Child(2)
	if left == nil || operator == nil || right == nil || operator.Type != TypeOperator {
		return nil, fail(n, ErrMalformedNode)
	}

	if op := lexeme(operator); op != "." {
		return nil, fail(n, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op))
	}

	return concat(n, []*xhpast.Node{left, right})
}

func evalConcatenation(n *xhpast.Node) (any, error) {
	operands := make([]*xhpast.Node, 0, n.ChildCount())
	for _, child := range n.Children() {
		if child.Type == TypeOperator {
			continue
		}
		operands = append(operands, child)
	}
	return concat(n, operands)
}

func concat(n *xhpast.Node, operands []*xhpast.Node) (any, error) {
	var b strings.Builder
	for _, operand := range operands {
		value, err := eval(operand)
		if err != nil {
			return nil, err
		}
		s, err := ToString(value)
		if err != nil {
			return nil, fail(n, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func evalArray(n *xhpast.Node) (any, error) {
	result := NewArray()

	list := n.Child(0)
	if list == nil {
		return result, nil
	}
	if list.Type != TypeArrayValueList {
		return nil, fail(n, ErrMalformedNode)
	}

	for _, item := range list.Children() {
		if item.Type != TypeArrayValue || item.ChildCount() != 2 {
			return nil, fail(item, ErrMalformedNode)
		}

		value, err := eval(item.Child(1))
		if err != nil {
			return nil, err
		}

		keyNode := item.Child(0)
		if keyNode.Type == TypeEmpty {
			result.Append(value)
			continue
		}

		key, err := eval(keyNode)
		if err != nil {
			return nil, err
		}
		if err := result.Set(key, value); err != nil {
			return nil, fail(item, err)
		}
	}

	return result, nil
}

// ToString converts a value the way PHP's string cast does.
func ToString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		if v {
			return "1", nil
		}
		return "", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return formatFloat(v), nil
	case *Array:
		return "", ErrArrayToString
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedNode, value)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NAN"
	}
	formatted := strconv.FormatFloat(f, 'G', 14, 64)
	mantissa, exponent, found := strings.Cut(formatted, "E")
	if !found {
		return formatted
	}

	// PHP keeps a fractional digit in the mantissa and drops exponent padding.
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	sign, digits := exponent[:1], strings.TrimLeft(exponent[1:], "0")
	return mantissa + "E" + sign + digits
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != "" && v != "0"
	case *Array:
		return v.Len() > 0
	default:
		return true
	}
}

func toNumber(value any) any {
	switch v := value.(type) {
	case int64, float64:
		return v
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case string:
		if n, err := ParseNumber(strings.TrimSpace(v)); err == nil {
			return n
		}
		return int64(0)
	case *Array:
		if v.Len() > 0 {
			return int64(1)
		}
		return int64(0)
	default:
		return int64(0)
	}
}

func negate(value any) any {
	switch v := value.(type) {
	case int64:
		if v == math.MinInt64 {
			return -float64(v)
		}
		return -v
	case float64:
		return -v
	default:
		return value
	}
}
