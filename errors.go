package odata

import "github.com/nlstn/go-odata-query/internal/query"

// Sentinel errors for rejected query options. These can be used with
// errors.Is() against Result.Err(); their text is the message reported in
// Result.Error.
var (
	ErrInvalidTop         = query.ErrInvalidTop
	ErrInvalidSkip        = query.ErrInvalidSkip
	ErrInvalidSelect      = query.ErrInvalidSelect
	ErrInvalidExpand      = query.ErrInvalidExpand
	ErrInvalidOrderBy     = query.ErrInvalidOrderBy
	ErrInvalidInlineCount = query.ErrInvalidInlineCount
	ErrInvalidFormat      = query.ErrInvalidFormat

	// ErrInvalidFilter matches every *SyntaxError.
	ErrInvalidFilter = query.ErrInvalidFilter

	// ErrInvalidQuery is reported by ParseRequest when the raw query string
	// cannot be URL-decoded.
	ErrInvalidQuery = query.ErrInvalidQuery
)

// SyntaxError reports a $filter value that does not conform to the grammar.
// Pos is the byte offset into the $filter value, or -1 when the error is not
// tied to a position.
type SyntaxError = query.SyntaxError

// LexError reports a literal the lexer could not recognize. It is wrapped by
// a SyntaxError.
type LexError = query.LexError

// ArityError reports a function call with an undeclared argument count.
type ArityError = query.ArityError
