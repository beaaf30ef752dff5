package query

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/nlstn/go-odata-query/internal/edm"
	"github.com/shopspring/decimal"
)

// NodeKind identifies the shape of an AST node. Binary nodes report their
// operator ("eq", "and", ...) as their kind.
type NodeKind string

const (
	KindProperty     NodeKind = "property"
	KindLiteral      NodeKind = "literal"
	KindFunctionCall NodeKind = "functioncall"
)

// ASTNode represents a node in the abstract syntax tree
type ASTNode interface {
	astNode()
	Kind() NodeKind
	String() string
}

// BinaryOperator is one of the comparison or logical operators.
type BinaryOperator string

const (
	OpEqual              BinaryOperator = "eq"
	OpNotEqual           BinaryOperator = "ne"
	OpLessThan           BinaryOperator = "lt"
	OpLessThanOrEqual    BinaryOperator = "le"
	OpGreaterThan        BinaryOperator = "gt"
	OpGreaterThanOrEqual BinaryOperator = "ge"
	OpAnd                BinaryOperator = "and"
	OpOr                 BinaryOperator = "or"
)

// IsComparison reports whether o is eq, ne, lt, le, gt or ge.
func (o BinaryOperator) IsComparison() bool {
	switch o {
	case OpEqual, OpNotEqual, OpLessThan, OpLessThanOrEqual, OpGreaterThan, OpGreaterThanOrEqual:
		return true
	}
	return false
}

// IsLogical reports whether o is and or or.
func (o BinaryOperator) IsLogical() bool {
	return o == OpAnd || o == OpOr
}

// precedence orders operators from loosest (or) to tightest (comparisons).
func (o BinaryOperator) precedence() int {
	switch o {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	default:
		return 3
	}
}

// BinaryExpr represents a comparison or logical expression (e.g., Price gt 100, A and B)
type BinaryExpr struct {
	Left     ASTNode
	Operator BinaryOperator
	Right    ASTNode
}

func (e *BinaryExpr) astNode()       {}
func (e *BinaryExpr) Kind() NodeKind { return NodeKind(e.Operator) }

// FunctionCallExpr represents a function call (e.g., substringof('x', Name))
type FunctionCallExpr struct {
	Function string
	Args     []ASTNode
}

func (e *FunctionCallExpr) astNode()       {}
func (e *FunctionCallExpr) Kind() NodeKind { return KindFunctionCall }

// PropertyExpr references a property or a slash-separated property path.
type PropertyExpr struct {
	Name string
}

func (e *PropertyExpr) astNode()       {}
func (e *PropertyExpr) Kind() NodeKind { return KindProperty }

// LiteralExpr represents a literal value. Value holds a string, int64, bool,
// time.Time, uuid.UUID or nil depending on Type; Edm.Decimal literals keep
// their source text as a string.
type LiteralExpr struct {
	Value interface{}
	Type  edm.TypeName
}

func (e *LiteralExpr) astNode()       {}
func (e *LiteralExpr) Kind() NodeKind { return KindLiteral }

// NewLiteral builds a literal from a Go value, inferring its EDM type.
// Floats and decimal.Decimal values are stored as decimal text.
func NewLiteral(value interface{}) (*LiteralExpr, error) {
	typeName, err := edm.FromGoValue(value)
	if err != nil {
		return nil, err
	}

	switch typeName {
	case edm.TypeInt64:
		rv := reflect.ValueOf(value)
		if rv.CanInt() {
			value = rv.Int()
		} else {
			value = int64(rv.Uint())
		}
	case edm.TypeDecimal:
		if d, ok := value.(decimal.Decimal); ok {
			value = d.String()
		} else {
			rv := reflect.ValueOf(value)
			value = strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits())
		}
	}

	return &LiteralExpr{Value: value, Type: typeName}, nil
}

// Decimal returns the literal as an arbitrary-precision decimal. It is valid
// for Edm.Decimal and Edm.Int64 literals.
func (e *LiteralExpr) Decimal() (decimal.Decimal, error) {
	switch v := e.Value.(type) {
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		if e.Type == edm.TypeDecimal {
			return edm.ParseDecimal(v)
		}
	}
	return decimal.Decimal{}, fmt.Errorf("literal of type %s is not numeric", e.Type)
}

// Walk visits node and its descendants depth-first, left to right, stopping
// at the first error returned by fn.
func Walk(node ASTNode, fn func(ASTNode) error) error {
	if node == nil {
		return nil
	}
	if err := fn(node); err != nil {
		return err
	}
	switch n := node.(type) {
	case *BinaryExpr:
		if err := Walk(n.Left, fn); err != nil {
			return err
		}
		return Walk(n.Right, fn)
	case *FunctionCallExpr:
		for _, arg := range n.Args {
			if err := Walk(arg, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
