package query

import "sort"

// functionArity lists the accepted argument counts of each built-in function.
var functionArity = map[string][]int{
	"substringof": {2},
	"startswith":  {2},
	"endswith":    {2},
	"tolower":     {1},
	"toupper":     {1},
	"trim":        {1},
	"year":        {1},
	"month":       {1},
	"day":         {1},
	"hour":        {1},
	"minute":      {1},
	"second":      {1},
	"indexof":     {2},
	"concat":      {2},
	"substring":   {2, 3},
	"replace":     {2, 3},
}

// IsFunction reports whether name is a built-in function.
func IsFunction(name string) bool {
	_, ok := functionArity[name]
	return ok
}

// Functions returns the names of the built-in functions in sorted order.
func Functions() []string {
	names := make([]string, 0, len(functionArity))
	for name := range functionArity {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseFunctionCall parses a function call like func(arg1, arg2). Argument
// counts are not checked here; see CheckArity.
func (p *ASTParser) parseFunctionCall(name *Token) (ASTNode, error) {
	if !IsFunction(name.Value) {
		return nil, p.errorAt(name, msgUnknownFunction, name.Value)
	}
	p.advance() // consume '('

	var args []ASTNode

	// Parse function arguments
	if p.currentToken().Type != TokenRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.currentToken().Type == TokenComma {
				p.advance()
			} else {
				break
			}
		}
	}

	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return &FunctionCallExpr{
		Function: name.Value,
		Args:     args,
	}, nil
}

// CheckArity reports an *ArityError when the call's argument count is not
// declared for its function.
func (e *FunctionCallExpr) CheckArity() error {
	accepted, ok := functionArity[e.Function]
	if !ok {
		return &ArityError{Function: e.Function, Got: len(e.Args)}
	}
	for _, n := range accepted {
		if n == len(e.Args) {
			return nil
		}
	}
	return &ArityError{Function: e.Function, Got: len(e.Args), Accepted: accepted}
}

// CheckArity walks node and returns the first arity violation found.
func CheckArity(node ASTNode) error {
	return Walk(node, func(n ASTNode) error {
		if call, ok := n.(*FunctionCallExpr); ok {
			return call.CheckArity()
		}
		return nil
	})
}
