package query

import (
	"errors"
	"fmt"
)

// Option validation errors. Their text is the in-band message reported in
// Result.Error.
var (
	ErrInvalidTop         = errors.New("invalid $top parameter")
	ErrInvalidSkip        = errors.New("invalid $skip parameter")
	ErrInvalidSelect      = errors.New("invalid $select parameter")
	ErrInvalidExpand      = errors.New("invalid $expand parameter")
	ErrInvalidOrderBy     = errors.New("invalid $orderby parameter")
	ErrInvalidInlineCount = errors.New("invalid $inlinecount parameter")
	ErrInvalidFormat      = errors.New("invalid $format parameter")
	ErrInvalidFilter      = errors.New("invalid $filter parameter")
	ErrInvalidQuery       = errors.New("invalid query string")
)

// Grammar error messages
const (
	msgUnterminatedString  = "unterminated string literal"
	msgInvalidNumber       = "invalid numeric literal"
	msgExpectedPathSegment = "expected identifier after '/' in property path"
	msgUnexpectedChar      = "unexpected character '%c'"
	msgEmptyFilter         = "empty filter expression"
	msgChainedComparison   = "comparison operators cannot be chained"
	msgWildcardInFilter    = "wildcard path is not allowed in $filter"
	msgOperatorSpacing     = "operator '%s' must be surrounded by whitespace"
	msgUnknownFunction     = "unknown function '%s'"
	msgUnexpectedToken     = "unexpected %s"
	msgUnexpectedAfterExpr = "unexpected %s after expression"
	msgExpectedToken       = "expected %s, got %s"
)

// LexError reports input the literal lexer could not recognize.
type LexError struct {
	Pos int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

// SyntaxError reports a $filter value that does not conform to the grammar.
// Err holds the underlying *LexError when tokenizing failed.
type SyntaxError struct {
	Pos int
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Is makes every syntax error match ErrInvalidFilter.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// ArityError reports a function call whose argument count is not declared
// in the function catalogue.
type ArityError struct {
	Function string
	Got      int
	Accepted []int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("function %s does not accept %d argument(s), accepted: %v", e.Function, e.Got, e.Accepted)
}
