package evaluator

import (
	"errors"
	"log/slog"

	"kite/internal/lexer"
	"kite/internal/log"
	"kite/internal/object"
	"kite/internal/token"
	"kite/internal/util"
)

// DefaultMaxDepth bounds the nesting of brackets and blocks when the
// configuration leaves MaxDepth unset.
const DefaultMaxDepth = 256

// Evaluator lexes, parses and evaluates source text in one pass. Tokens of
// input with unclosed brackets stay buffered until a later Parse closes them.
type Evaluator struct {
	env   *object.Environment
	lexer *lexer.Lexer

	tokens   []token.Token
	pos      int
	nesting  int
	maxDepth int
}

func New(config util.Configuration) *Evaluator {
	maxDepth := config.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Evaluator{
		env:      object.NewEnvironment(),
		lexer:    lexer.New(),
		maxDepth: maxDepth,
	}
}

// Parse evaluates src appended to any buffered tokens and returns the value of
// the last statement. On error the scope stack is unwound to the top level;
// top-level bindings made before the failing statement are kept.
func (e *Evaluator) Parse(src string) (object.Object, error) {
	e.lexer.Feed(src)

	if err := e.checkBrackets(); err != nil {
		slog.Debug("parse deferred",
			slog.Any("error", err),
			slog.Int("pending", e.lexer.Len()))
		return nil, err
	}

	e.tokens = append([]token.Token(nil), e.lexer.Tokens()...)
	e.pos = 0
	e.nesting = 0
	e.lexer.Reset()

	slog.Debug("parse started", slog.Int("tokens", len(e.tokens)))

	result, err := e.evalSentence()
	if err == nil && !e.atEnd() {
		err = object.BracketError(e.curToken().Literal)
	}
	err = e.locate(err)
	e.tokens = nil

	if err != nil {
		e.env.Unwind(0)
		slog.Debug("parse failed", slog.Any("error", err))
		return nil, err
	}

	slog.Debug("parse finished",
		slog.String("type", string(result.Type())),
		slog.String("value", result.Inspect()))
	return result, nil
}

// Reset drops buffered tokens and every binding.
func (e *Evaluator) Reset() {
	e.lexer.Reset()
	e.env.Reset()
	e.tokens = nil
	e.pos = 0
	e.nesting = 0
	slog.Debug("evaluator reset")
}

// Discard drops buffered tokens and keeps every binding.
func (e *Evaluator) Discard() {
	e.lexer.Reset()
}

// Pending reports how many tokens are buffered waiting for closing brackets.
func (e *Evaluator) Pending() int {
	return e.lexer.Len()
}

func (e *Evaluator) Env() *object.Environment {
	return e.env
}

// checkBrackets compares opening and closing bracket counts over the buffer.
// Missing closers keep the buffer for the next Parse; excess closers drop it.
func (e *Evaluator) checkBrackets() error {
	parens, braces := 0, 0
	for _, t := range e.lexer.Tokens() {
		switch {
		case t.Is(token.LPAREN):
			parens++
		case t.Is(token.RPAREN):
			parens--
		case t.Is(token.LBRACE):
			braces++
		case t.Is(token.RBRACE):
			braces--
		}
	}

	switch {
	case parens < 0:
		e.lexer.Reset()
		return object.BracketError(token.RPAREN)
	case braces < 0:
		e.lexer.Reset()
		return object.BracketError(token.RBRACE)
	case parens > 0:
		return object.BracketError(token.LPAREN)
	case braces > 0:
		return object.BracketError(token.LBRACE)
	}
	return nil
}

// locate attaches the position of the token being consumed when err occurred,
// or of the last token once the input is exhausted.
func (e *Evaluator) locate(err error) error {
	var oe *object.Error
	if err == nil || len(e.tokens) == 0 || !errors.As(err, &oe) {
		return err
	}
	pos := len(e.tokens) - 1
	if !e.atEnd() {
		pos = e.pos
	}
	return oe.At(e.tokens[pos].Position)
}

func (e *Evaluator) atEnd() bool {
	return e.pos >= len(e.tokens)
}

// atTerminator reports the end of an expression.
func (e *Evaluator) atTerminator() bool {
	return e.atEnd() || e.curToken().IsTerminator()
}

func (e *Evaluator) curToken() token.Token {
	return e.tokens[e.pos]
}

func (e *Evaluator) curTokenIs(literal string) bool {
	return !e.atEnd() && e.curToken().Is(literal)
}

func (e *Evaluator) nextToken() {
	log.Trace("token consumed",
		slog.String("literal", e.curToken().Literal),
		slog.Int("position", e.curToken().Position))
	e.pos++
}

// enter guards recursion into brackets and blocks.
func (e *Evaluator) enter() error {
	if e.nesting >= e.maxDepth {
		return object.InvalidExpression("Nesting exceeds %d levels.", e.maxDepth)
	}
	e.nesting++
	return nil
}

func (e *Evaluator) leave() {
	e.nesting--
}
