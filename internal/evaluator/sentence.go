package evaluator

import (
	"kite/internal/object"
	"kite/internal/token"
)

// evalSentence evaluates statements until the end of input or a closing
// bracket, which is left for the caller. A trailing ';' yields VOID.
func (e *Evaluator) evalSentence() (object.Object, error) {
	var result object.Object = object.VOID

	for !e.atEnd() {
		if e.curTokenIs(token.RPAREN) || e.curTokenIs(token.RBRACE) {
			break
		}
		if e.curTokenIs(token.SEMICOLON) {
			e.nextToken()
			result = object.VOID
			continue
		}

		value, err := e.evalStatement()
		if err != nil {
			return nil, err
		}
		result = value
	}

	return result, nil
}

func (e *Evaluator) evalStatement() (object.Object, error) {
	tok := e.curToken()
	switch {
	case tok.Type == token.WORD && tok.Literal == token.LET:
		return e.evalLetStatement()
	case tok.Is(token.LBRACE):
		return e.evalBlock()
	default:
		return e.evalExpression()
	}
}

// evalLetStatement declares the identifier after let. Anything following the
// identifier is evaluated as an expression starting at it.
func (e *Evaluator) evalLetStatement() (object.Object, error) {
	e.nextToken()
	if e.atTerminator() {
		return nil, object.InvalidExpression("Expected an identifier after %q.", token.LET)
	}

	ident := e.curToken()
	if !isIdentifier(ident) {
		return nil, object.InvalidExpression("%q cannot be declared.", ident.Literal)
	}
	e.env.Declare(ident.Literal)

	start := e.pos
	e.nextToken()
	if e.atTerminator() {
		return object.VOID, nil
	}

	e.pos = start
	return e.evalExpression()
}

// evalBlock evaluates '{' sentence '}' in a new scope.
func (e *Evaluator) evalBlock() (object.Object, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.leave()

	e.nextToken()
	e.env.EnterScope()

	result, err := e.evalSentence()
	if err != nil {
		return nil, err
	}
	if !e.curTokenIs(token.RBRACE) {
		return nil, object.BracketError(token.LBRACE)
	}
	e.nextToken()

	if err := e.env.ExitScope(); err != nil {
		return nil, err
	}
	return result, nil
}

func isIdentifier(t token.Token) bool {
	return t.Type == token.WORD && t.Literal != token.LET && !startsWithDigit(t.Literal)
}
