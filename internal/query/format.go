package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nlstn/go-odata-query/internal/edm"
)

// String renders the expression as filter text, adding parentheses only
// where precedence requires them.
func (e *BinaryExpr) String() string {
	var b strings.Builder
	writeOperand(&b, e, e.Left, false)
	b.WriteByte(' ')
	b.WriteString(string(e.Operator))
	b.WriteByte(' ')
	writeOperand(&b, e, e.Right, true)
	return b.String()
}

func writeOperand(b *strings.Builder, parent *BinaryExpr, child ASTNode, right bool) {
	if needsParens(parent, child, right) {
		b.WriteByte('(')
		b.WriteString(child.String())
		b.WriteByte(')')
		return
	}
	b.WriteString(child.String())
}

func needsParens(parent *BinaryExpr, child ASTNode, right bool) bool {
	bin, ok := child.(*BinaryExpr)
	if !ok {
		return false
	}
	if parent.Operator.IsComparison() {
		return true
	}
	childPrec, parentPrec := bin.Operator.precedence(), parent.Operator.precedence()
	return childPrec < parentPrec || (right && childPrec == parentPrec)
}

func (e *FunctionCallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = arg.String()
	}
	return e.Function + "(" + strings.Join(args, ", ") + ")"
}

func (e *PropertyExpr) String() string {
	return e.Name
}

// String renders the literal in filter syntax, re-escaping quotes.
func (e *LiteralExpr) String() string {
	switch v := e.Value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		if e.Type == edm.TypeDateTime {
			return "datetime" + quote(edm.FormatDateTime(v))
		}
		return "datetimeoffset" + quote(edm.FormatDateTimeOffset(v))
	case uuid.UUID:
		return "guid" + quote(v.String())
	case string:
		if e.Type == edm.TypeDecimal {
			return v
		}
		return quote(v)
	}
	return ""
}

// quote wraps s in single quotes, doubling embedded quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
