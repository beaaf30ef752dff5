package query

import "fmt"

// ASTParser parses filter expressions into an AST. It holds the cursor for a
// single token stream and must not be reused across inputs.
type ASTParser struct {
	tokens  []*Token
	current int
}

// NewASTParser creates a new AST parser
func NewASTParser(tokens []*Token) *ASTParser {
	return &ASTParser{
		tokens:  tokens,
		current: 0,
	}
}

// ParseFilter tokenizes and parses a $filter value. Any failure is returned
// as a *SyntaxError.
func ParseFilter(filter string) (ASTNode, error) {
	tokens, err := NewTokenizer(filter).TokenizeAll()
	if err != nil {
		syntaxErr := &SyntaxError{Pos: -1, Msg: err.Error(), Err: err}
		if lexErr, ok := err.(*LexError); ok {
			syntaxErr.Pos = lexErr.Pos
			syntaxErr.Msg = lexErr.Msg
		}
		return nil, syntaxErr
	}
	if len(tokens) == 1 {
		return nil, &SyntaxError{Pos: 0, Msg: msgEmptyFilter}
	}
	return NewASTParser(tokens).Parse()
}

// currentToken returns the current token
func (p *ASTParser) currentToken() *Token {
	if p.current >= len(p.tokens) {
		return &Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

// peekToken returns the token after the current one
func (p *ASTParser) peekToken() *Token {
	if p.current+1 >= len(p.tokens) {
		return &Token{Type: TokenEOF}
	}
	return p.tokens[p.current+1]
}

// advance moves to the next token
func (p *ASTParser) advance() *Token {
	token := p.currentToken()
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return token
}

// expect checks if the current token matches the expected type and advances
func (p *ASTParser) expect(tokenType TokenType) error {
	token := p.currentToken()
	if token.Type != tokenType {
		return p.errorAt(token, msgExpectedToken, tokenType, token.describe())
	}
	p.advance()
	return nil
}

func (p *ASTParser) errorAt(token *Token, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Pos: token.Pos, Msg: fmt.Sprintf(format, args...)}
}

// Parse parses the tokens into an AST
func (p *ASTParser) Parse() (ASTNode, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	// Verify all tokens were consumed (except EOF)
	if token := p.currentToken(); token.Type != TokenEOF {
		return nil, p.errorAt(token, msgUnexpectedAfterExpr, token.describe())
	}

	return node, nil
}

// binaryOperator consumes the current token as an operator, checking that it
// is separated from both operands by whitespace. A missing right operand is
// left for the operand parser to report.
func (p *ASTParser) binaryOperator() (BinaryOperator, error) {
	op := p.currentToken()
	next := p.peekToken()
	if !op.Spaced || (next.Type != TokenEOF && !next.Spaced) {
		return "", p.errorAt(op, msgOperatorSpacing, op.Value)
	}
	p.advance()
	return BinaryOperator(op.Value), nil
}

// parseOr handles OR expressions (lowest precedence)
func (p *ASTParser) parseOr() (ASTNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenLogical && p.currentToken().Value == string(OpOr) {
		op, err := p.binaryOperator()
		if err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: op,
			Right:    right,
		}
	}

	return left, nil
}

// parseAnd handles AND expressions
func (p *ASTParser) parseAnd() (ASTNode, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenLogical && p.currentToken().Value == string(OpAnd) {
		op, err := p.binaryOperator()
		if err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: op,
			Right:    right,
		}
	}

	return left, nil
}

// parseComparison handles comparison expressions. Both operands are
// primaries; a nested comparison needs parentheses.
func (p *ASTParser) parseComparison() (ASTNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.currentToken().Type != TokenComparison {
		return left, nil
	}

	op, err := p.binaryOperator()
	if err != nil {
		return nil, err
	}
	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if token := p.currentToken(); token.Type == TokenComparison {
		return nil, p.errorAt(token, msgChainedComparison)
	}

	return &BinaryExpr{
		Left:     left,
		Operator: op,
		Right:    right,
	}, nil
}

// parsePrimary handles primary expressions (literals, properties, function calls, grouped expressions)
func (p *ASTParser) parsePrimary() (ASTNode, error) {
	token := p.currentToken()

	switch token.Type {
	case TokenLParen:
		return p.parseGroupedExpression()
	case TokenLiteral:
		p.advance()
		return token.Literal, nil
	case TokenIdentifier:
		return p.parseIdentifierOrFunctionCall(token)
	}

	return nil, p.errorAt(token, msgUnexpectedToken, token.describe())
}

// parseGroupedExpression parses a grouped expression like (expr). The
// parentheses only steer precedence and leave no node behind.
func (p *ASTParser) parseGroupedExpression() (ASTNode, error) {
	p.advance() // consume '('
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseIdentifierOrFunctionCall parses a property path or, when the name is
// immediately followed by '(', a function call
func (p *ASTParser) parseIdentifierOrFunctionCall(token *Token) (ASTNode, error) {
	p.advance()

	if next := p.currentToken(); next.Type == TokenLParen && !next.Spaced {
		return p.parseFunctionCall(token)
	}

	if !IsPath(token.Value, false) {
		return nil, p.errorAt(token, msgWildcardInFilter)
	}
	return &PropertyExpr{Name: token.Value}, nil
}
