package evaluator

import (
	"errors"

	"kite/internal/object"
	"kite/internal/token"
)

// frame queues the operands of one binary operator until it can be reduced.
type frame struct {
	op       token.Operator
	operands []term
}

// evalExpression scans operands and binary operators up to a terminator,
// reducing frames as soon as a looser operator arrives.
func (e *Evaluator) evalExpression() (object.Object, error) {
	var stack []*frame

	for {
		operand, err := e.parseOperand(len(stack) > 0)
		if err != nil {
			return nil, err
		}

		if e.atTerminator() {
			return e.reduceAll(stack, operand)
		}

		tok := e.curToken()
		if !tok.Binary.IsBinary() {
			return nil, object.InvalidExpression("Unexpected %q after an operand.", tok.Literal)
		}
		e.nextToken()

		stack, err = e.pushOperator(stack, tok.Binary, operand)
		if err != nil {
			return nil, err
		}
	}
}

// pushOperator places operand and the upcoming operator op on the stack.
func (e *Evaluator) pushOperator(stack []*frame, op token.Operator, operand term) ([]*frame, error) {
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.op == op {
			top.operands = append(top.operands, operand)
			return stack, nil
		}
		if op.BindsTighter(top.op) {
			break
		}
		if op.Priority() == top.op.Priority() && op.IsAssignment() {
			// assignment groups to the right
			break
		}

		top.operands = append(top.operands, operand)
		stack = stack[:len(stack)-1]
		value, err := e.reduce(top)
		if err != nil {
			return nil, err
		}
		operand = immediate{value: value}
	}

	return append(stack, &frame{op: op, operands: []term{operand}}), nil
}

// reduceAll folds the remaining frames top-down once the expression ends.
func (e *Evaluator) reduceAll(stack []*frame, operand term) (object.Object, error) {
	for i := len(stack) - 1; i >= 0; i-- {
		top := stack[i]
		top.operands = append(top.operands, operand)
		value, err := e.reduce(top)
		if err != nil {
			return nil, err
		}
		operand = immediate{value: value}
	}
	return operand.resolve(e.env)
}

func (e *Evaluator) reduce(f *frame) (object.Object, error) {
	if len(f.operands) < 2 {
		return nil, object.ErrUnhandled
	}
	if f.op.IsAssignment() {
		return e.reduceAssignment(f)
	}

	acc, err := f.operands[0].resolve(e.env)
	if err != nil {
		return nil, err
	}
	for _, operand := range f.operands[1:] {
		if short, ok := shortCircuit(f.op, acc); ok {
			return short, nil
		}
		right, err := operand.resolve(e.env)
		if err != nil {
			return nil, err
		}
		if acc, err = object.Binary(f.op, acc, right); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// shortCircuit settles && once the left side is 0 and || once it is nonzero,
// yielding the left side unchanged.
func shortCircuit(op token.Operator, left object.Object) (object.Object, bool) {
	i, ok := left.(*object.Integer)
	if !ok {
		return nil, false
	}
	switch {
	case op == token.LogicalAnd && i.Value == 0,
		op == token.LogicalOr && i.Value != 0:
		return left, true
	}
	return nil, false
}

// reduceAssignment stores the last operand into every earlier one, right to
// left, so that a = b = 1 assigns both.
func (e *Evaluator) reduceAssignment(f *frame) (object.Object, error) {
	last := len(f.operands) - 1
	value, err := f.operands[last].resolve(e.env)
	if err != nil {
		return nil, err
	}

	for i := last - 1; i >= 0; i-- {
		target, ok := f.operands[i].(variable)
		if !ok {
			return nil, object.InvalidExpression("The left-hand must be variable.")
		}
		binding, err := e.env.Binding(target.name)
		if err != nil {
			return nil, err
		}
		stored, err := object.Assign(f.op, binding.Value, value)
		if err != nil {
			return nil, err
		}
		binding.Value = stored
		value = stored
	}

	return object.VOID, nil
}

// parseOperand reads unary prefixes and one primary.
func (e *Evaluator) parseOperand(afterOperator bool) (term, error) {
	var prefixes []token.Operator

	for {
		if e.atTerminator() {
			if afterOperator || len(prefixes) > 0 {
				return nil, object.InvalidExpression("Missing operand.")
			}
			return nil, object.ErrNoInput
		}

		tok := e.curToken()
		switch {
		case tok.Is(token.LPAREN):
			value, err := e.evalGroup()
			if err != nil {
				return nil, err
			}
			return applyPrefixes(immediate{value: value}, prefixes), nil

		case tok.Is(token.LBRACE):
			value, err := e.evalBlock()
			if err != nil {
				return nil, err
			}
			return applyPrefixes(immediate{value: value}, prefixes), nil

		case tok.Type == token.WORD && startsWithDigit(tok.Literal):
			value, err := parseInteger(tok.Literal)
			if err != nil {
				return nil, err
			}
			e.nextToken()
			return applyPrefixes(immediate{value: value}, prefixes), nil

		case tok.Type == token.WORD && e.env.Has(tok.Literal):
			e.nextToken()
			return applyPrefixes(variable{name: tok.Literal}, prefixes), nil

		case tok.Unary != token.NoOp:
			prefixes = append(prefixes, tok.Unary)
			e.nextToken()

		case tok.Binary != token.NoOp:
			return nil, object.InvalidExpression("Illegal operator %q.", tok.Literal)

		case tok.Type == token.STRING:
			e.nextToken()
			return applyPrefixes(immediate{value: parseString(tok.Literal)}, prefixes), nil

		default:
			return nil, object.VariableNotFound(tok.Literal)
		}
	}
}

// evalGroup evaluates '(' expression ')'.
func (e *Evaluator) evalGroup() (object.Object, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.leave()

	e.nextToken()
	value, err := e.evalExpression()
	if errors.Is(err, object.ErrNoInput) && e.curTokenIs(token.RBRACE) {
		// ( } ) balances by count but closes the block first
		return nil, object.BracketError(token.LPAREN)
	}
	if err != nil {
		return nil, err
	}
	if !e.curTokenIs(token.RPAREN) {
		return nil, object.BracketError(token.LPAREN)
	}
	e.nextToken()
	return value, nil
}
