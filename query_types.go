package odata

import "github.com/nlstn/go-odata-query/internal/query"

// Result represents the parsed options of one query string.
//
// Absent options keep their zero value: Top and Skip are nil, the slices are
// nil and Filter is nil. When an option is rejected, Error holds its message,
// FailedOption names it and the options that appeared before it are kept.
//
// Results returned by a Parser with a cache are shared between callers and
// must not be modified.
type Result = query.Result

// QueryOption names a recognized query option, e.g. "$top".
type QueryOption = query.Option

// Recognized query options.
const (
	OptionTop         = query.OptionTop
	OptionSkip        = query.OptionSkip
	OptionSelect      = query.OptionSelect
	OptionExpand      = query.OptionExpand
	OptionOrderBy     = query.OptionOrderBy
	OptionInlineCount = query.OptionInlineCount
	OptionFormat      = query.OptionFormat
	OptionFilter      = query.OptionFilter
)

// ASTNode is a node of a parsed $filter expression. Concrete nodes are
// *BinaryExpr, *FunctionCallExpr, *PropertyExpr and *LiteralExpr.
type ASTNode = query.ASTNode

// NodeKind re-exports the node kind for external consumers.
type NodeKind = query.NodeKind

// BinaryOperator re-exports comparison and logical operators for external consumers.
type BinaryOperator = query.BinaryOperator

// BinaryExpr re-exports the binary expression node for external consumers.
type BinaryExpr = query.BinaryExpr

// FunctionCallExpr re-exports the function call node for external consumers.
type FunctionCallExpr = query.FunctionCallExpr

// PropertyExpr re-exports the property path node for external consumers.
type PropertyExpr = query.PropertyExpr

// LiteralExpr re-exports the literal node for external consumers.
type LiteralExpr = query.LiteralExpr

// OrderByItem re-exports the parsed $orderby item type for external consumers.
type OrderByItem = query.OrderByItem

// Direction re-exports the $orderby sort direction.
type Direction = query.Direction

// InlineCount re-exports the $inlinecount value.
type InlineCount = query.InlineCount

const (
	KindProperty     = query.KindProperty
	KindLiteral      = query.KindLiteral
	KindFunctionCall = query.KindFunctionCall

	OpEqual              = query.OpEqual
	OpNotEqual           = query.OpNotEqual
	OpLessThan           = query.OpLessThan
	OpLessThanOrEqual    = query.OpLessThanOrEqual
	OpGreaterThan        = query.OpGreaterThan
	OpGreaterThanOrEqual = query.OpGreaterThanOrEqual
	OpAnd                = query.OpAnd
	OpOr                 = query.OpOr

	Ascending  = query.Ascending
	Descending = query.Descending

	InlineCountAllPages = query.InlineCountAllPages
	InlineCountNone     = query.InlineCountNone
)

// ParseFilter parses a $filter value on its own.
func ParseFilter(filter string) (ASTNode, error) {
	return query.ParseFilter(filter)
}

// CheckArity verifies every function call in node against the function
// catalogue. Parsing does not check arity unless WithStrictArity is set.
func CheckArity(node ASTNode) error {
	return query.CheckArity(node)
}

// Walk visits node and its descendants depth first, stopping at the first
// error returned by fn.
func Walk(node ASTNode, fn func(ASTNode) error) error {
	return query.Walk(node, fn)
}

// Functions returns the names of the supported $filter functions.
func Functions() []string {
	return query.Functions()
}
