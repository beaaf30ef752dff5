package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nlstn/go-odata-query/internal/edm"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdentifier
	TokenLiteral
	TokenComparison
	TokenLogical
	TokenLParen
	TokenRParen
	TokenComma
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return "identifier"
	case TokenLiteral:
		return "literal"
	case TokenComparison:
		return "comparison operator"
	case TokenLogical:
		return "logical operator"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token represents a single token in the filter expression
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	// Spaced is true when the token is preceded by whitespace or starts the input.
	Spaced bool
	// Literal holds the decoded value of a TokenLiteral.
	Literal *LiteralExpr
}

func (t *Token) describe() string {
	switch t.Type {
	case TokenEOF, TokenLParen, TokenRParen, TokenComma:
		return t.Type.String()
	}
	return fmt.Sprintf("%s '%s'", t.Type, t.Value)
}

// typed literal prefixes, longest first so datetimeoffset wins over datetime
var typedLiteralPrefixes = []struct {
	prefix string
	decode func(string) (*LiteralExpr, error)
}{
	{"datetimeoffset'", func(s string) (*LiteralExpr, error) {
		v, err := edm.ParseDateTimeOffset(s)
		return &LiteralExpr{Value: v, Type: edm.TypeDateTimeOffset}, err
	}},
	{"datetime'", func(s string) (*LiteralExpr, error) {
		v, err := edm.ParseDateTime(s)
		return &LiteralExpr{Value: v, Type: edm.TypeDateTime}, err
	}},
	{"guid'", func(s string) (*LiteralExpr, error) {
		v, err := edm.ParseGuid(s)
		return &LiteralExpr{Value: v, Type: edm.TypeGuid}, err
	}},
}

// Tokenizer tokenizes OData filter expressions. A Tokenizer is scoped to a
// single input and must not be shared.
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

func (t *Tokenizer) atEnd() bool {
	return t.pos >= len(t.input)
}

func (t *Tokenizer) peekByte(offset int) byte {
	if t.pos+offset >= len(t.input) {
		return 0
	}
	return t.input[t.pos+offset]
}

// skipWhitespace skips whitespace characters and reports whether any were skipped
func (t *Tokenizer) skipWhitespace() bool {
	start := t.pos
	for !t.atEnd() {
		switch t.input[t.pos] {
		case ' ', '\t', '\n', '\r':
			t.pos++
			continue
		}
		break
	}
	return t.pos > start
}

// NextToken returns the next token
func (t *Tokenizer) NextToken() (*Token, error) {
	spaced := t.skipWhitespace() || t.pos == 0

	if t.atEnd() {
		return &Token{Type: TokenEOF, Pos: t.pos, Spaced: spaced}, nil
	}

	pos := t.pos
	token, err := t.scan(pos)
	if err != nil {
		return nil, err
	}
	token.Pos = pos
	token.Spaced = spaced
	return token, nil
}

// scan tries each alternative in priority order: quoted string, typed
// literal, keyword or identifier, number, punctuation.
func (t *Tokenizer) scan(pos int) (*Token, error) {
	if token, err := t.tokenizeString(); token != nil || err != nil {
		return token, err
	}

	if token, err := t.tokenizeTypedLiteral(); token != nil || err != nil {
		return token, err
	}

	if token, err := t.tokenizeIdentifierOrKeyword(); token != nil || err != nil {
		return token, err
	}

	if token, err := t.tokenizeNumber(); token != nil || err != nil {
		return token, err
	}

	if token := t.tokenizeSpecialChar(); token != nil {
		return token, nil
	}

	r, _ := utf8.DecodeRuneInString(t.input[pos:])
	return nil, &LexError{Pos: pos, Msg: fmt.Sprintf(msgUnexpectedChar, r)}
}

// readString reads a single-quoted string; a doubled quote decodes to one quote
func (t *Tokenizer) readString() (string, error) {
	start := t.pos
	t.pos++ // skip opening quote

	var result strings.Builder
	for !t.atEnd() {
		ch := t.input[t.pos]
		if ch == '\'' {
			if t.peekByte(1) == '\'' {
				result.WriteByte('\'')
				t.pos += 2
				continue
			}
			t.pos++ // skip closing quote
			return result.String(), nil
		}
		result.WriteByte(ch)
		t.pos++
	}

	return "", &LexError{Pos: start, Msg: msgUnterminatedString}
}

// tokenizeString tokenizes string literals
func (t *Tokenizer) tokenizeString() (*Token, error) {
	if t.input[t.pos] != '\'' {
		return nil, nil
	}
	value, err := t.readString()
	if err != nil {
		return nil, err
	}
	return &Token{
		Type:    TokenLiteral,
		Value:   value,
		Literal: &LiteralExpr{Value: value, Type: edm.TypeString},
	}, nil
}

// tokenizeTypedLiteral tokenizes datetime'...', datetimeoffset'...' and guid'...'
func (t *Tokenizer) tokenizeTypedLiteral() (*Token, error) {
	rest := t.input[t.pos:]
	for _, typed := range typedLiteralPrefixes {
		if !strings.HasPrefix(rest, typed.prefix) {
			continue
		}
		start := t.pos
		t.pos += len(typed.prefix) - 1 // leave the opening quote for readString
		body, err := t.readString()
		if err != nil {
			return nil, err
		}
		literal, err := typed.decode(body)
		if err != nil {
			return nil, &LexError{Pos: start, Msg: err.Error()}
		}
		return &Token{Type: TokenLiteral, Value: t.input[start:t.pos], Literal: literal}, nil
	}
	return nil, nil
}

// tokenizeIdentifierOrKeyword tokenizes identifiers, paths and keywords.
// Keywords only match when they make up the whole identifier, so "trueValue"
// and "order" stay identifiers.
func (t *Tokenizer) tokenizeIdentifierOrKeyword() (*Token, error) {
	r, _ := utf8.DecodeRuneInString(t.input[t.pos:])
	if !isIdentStart(r) && r != '*' {
		return nil, nil
	}

	end, err := scanPath(t.input, t.pos, true)
	if err != nil {
		return nil, err
	}
	value := t.input[t.pos:end]
	t.pos = end

	if token := classifyKeyword(value); token != nil {
		return token, nil
	}
	return &Token{Type: TokenIdentifier, Value: value}, nil
}

// classifyKeyword classifies a keyword and returns the appropriate token.
// Keywords are case-sensitive.
func classifyKeyword(word string) *Token {
	switch word {
	case "and", "or":
		return &Token{Type: TokenLogical, Value: word}
	case "eq", "ne", "lt", "le", "gt", "ge":
		return &Token{Type: TokenComparison, Value: word}
	case "true", "false":
		return &Token{Type: TokenLiteral, Value: word, Literal: &LiteralExpr{Value: word == "true", Type: edm.TypeBoolean}}
	case "null":
		return &Token{Type: TokenLiteral, Value: word, Literal: &LiteralExpr{Value: nil, Type: edm.TypeNull}}
	}
	return nil
}

// tokenizeNumber tokenizes numeric literals. A '-' directly before a digit
// belongs to the number.
func (t *Tokenizer) tokenizeNumber() (*Token, error) {
	ch := t.input[t.pos]
	if !isDigit(ch) && !(ch == '-' && isDigit(t.peekByte(1))) {
		return nil, nil
	}

	start := t.pos
	value, isDecimal := t.readNumber()

	if !t.atEnd() {
		r, _ := utf8.DecodeRuneInString(t.input[t.pos:])
		if isIdentPart(r) || r == '.' {
			return nil, &LexError{Pos: start, Msg: msgInvalidNumber}
		}
	}

	if !isDecimal {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return &Token{Type: TokenLiteral, Value: value, Literal: &LiteralExpr{Value: intVal, Type: edm.TypeInt64}}, nil
		}
		// Out of Edm.Int64 range: keep the digits as decimal text.
	}
	if !edm.IsDecimal(value) {
		return nil, &LexError{Pos: start, Msg: msgInvalidNumber}
	}
	return &Token{Type: TokenLiteral, Value: value, Literal: &LiteralExpr{Value: value, Type: edm.TypeDecimal}}, nil
}

// readNumber reads digits greedily, with optional sign, fraction and exponent
func (t *Tokenizer) readNumber() (string, bool) {
	start := t.pos
	isDecimal := false

	if t.input[t.pos] == '-' {
		t.pos++
	}

	// Read integer part
	for !t.atEnd() && isDigit(t.input[t.pos]) {
		t.pos++
	}

	// Read decimal part
	if t.peekByte(0) == '.' && isDigit(t.peekByte(1)) {
		isDecimal = true
		t.pos++
		for !t.atEnd() && isDigit(t.input[t.pos]) {
			t.pos++
		}
	}

	// Read exponent part
	if c := t.peekByte(0); c == 'e' || c == 'E' {
		digitAt := 1
		if s := t.peekByte(1); s == '+' || s == '-' {
			digitAt = 2
		}
		if isDigit(t.peekByte(digitAt)) {
			isDecimal = true
			t.pos += digitAt
			for !t.atEnd() && isDigit(t.input[t.pos]) {
				t.pos++
			}
		}
	}

	return t.input[start:t.pos], isDecimal
}

// tokenizeSpecialChar tokenizes parentheses and commas
func (t *Tokenizer) tokenizeSpecialChar() *Token {
	switch t.input[t.pos] {
	case '(':
		t.pos++
		return &Token{Type: TokenLParen, Value: "("}
	case ')':
		t.pos++
		return &Token{Type: TokenRParen, Value: ")"}
	case ',':
		t.pos++
		return &Token{Type: TokenComma, Value: ","}
	}
	return nil
}

// TokenizeAll returns all tokens from the input
func (t *Tokenizer) TokenizeAll() ([]*Token, error) {
	var tokens []*Token

	for {
		token, err := t.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)

		if token.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}

// scanPath scans a property path starting at pos and returns its end offset.
//
//	path    = segment *( "/" segment )
//	segment = "*" / name *( "." name ) [ ".*" ]
//
// Wildcard segments are only accepted when allowWildcard is set.
func scanPath(s string, pos int, allowWildcard bool) (int, error) {
	for {
		end, ok := scanSegment(s, pos, allowWildcard)
		if !ok {
			return pos, &LexError{Pos: pos, Msg: msgExpectedPathSegment}
		}
		pos = end
		if pos < len(s) && s[pos] == '/' {
			pos++
			continue
		}
		return pos, nil
	}
}

func scanSegment(s string, pos int, allowWildcard bool) (int, bool) {
	if pos < len(s) && s[pos] == '*' {
		return pos + 1, allowWildcard
	}

	end, ok := scanName(s, pos)
	if !ok {
		return pos, false
	}
	for end < len(s) && s[end] == '.' {
		if end+1 < len(s) && s[end+1] == '*' {
			if !allowWildcard {
				return pos, false
			}
			return end + 2, true
		}
		next, ok := scanName(s, end+1)
		if !ok {
			return pos, false
		}
		end = next
	}
	return end, true
}

func scanName(s string, pos int) (int, bool) {
	r, size := utf8.DecodeRuneInString(s[pos:])
	if pos >= len(s) || !isIdentStart(r) {
		return pos, false
	}
	pos += size
	for pos < len(s) {
		r, size = utf8.DecodeRuneInString(s[pos:])
		if !isIdentPart(r) {
			break
		}
		pos += size
	}
	return pos, true
}

// IsPath reports whether s is exactly one property path.
func IsPath(s string, allowWildcard bool) bool {
	if s == "" {
		return false
	}
	end, err := scanPath(s, 0, allowWildcard)
	return err == nil && end == len(s)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
