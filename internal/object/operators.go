package object

import (
	"math"

	"kite/internal/token"
)

// compound assignment operators and the pure operator they apply
var compoundOperators = map[token.Operator]token.Operator{
	token.AddAssign: token.Add,
	token.SubAssign: token.Sub,
	token.MulAssign: token.Mul,
	token.DivAssign: token.Div,
	token.RemAssign: token.Rem,
	token.OrAssign:  token.BitOr,
	token.AndAssign: token.BitAnd,
	token.XorAssign: token.BitXor,
	token.ShrAssign: token.Shr,
	token.ShlAssign: token.Shl,
}

// Binary applies a pure binary operator. Neither operand is modified.
func Binary(op token.Operator, left, right Object) (Object, error) {
	if IsEmpty(left) || IsEmpty(right) {
		return nil, ErrVoidOperation
	}

	switch op {
	case token.Add:
		if l, ok := left.(*String); ok {
			if r, ok := right.(*String); ok {
				return &String{Value: l.Value + r.Value}, nil
			}
			return nil, InvalidExpression("Invalid operation.")
		}
		return integerOperation(op, left, right)
	case token.Sub, token.Mul, token.Div, token.Rem,
		token.Shr, token.Shl, token.BitAnd, token.BitOr, token.BitXor,
		token.LogicalAnd, token.LogicalOr:
		return integerOperation(op, left, right)
	case token.Eq:
		return nativeBool(Equal(left, right)), nil
	case token.NotEq:
		return nativeBool(!Equal(left, right)), nil
	case token.Gt, token.Lt, token.GtEq, token.LtEq:
		c, ok := Compare(left, right)
		if !ok {
			return nil, InvalidExpression("Cannot compare %s and %s.", left.Inspect(), right.Inspect())
		}
		switch op {
		case token.Gt:
			return nativeBool(c > 0), nil
		case token.Lt:
			return nativeBool(c < 0), nil
		case token.GtEq:
			return nativeBool(c >= 0), nil
		default:
			return nativeBool(c <= 0), nil
		}
	}
	return nil, InvalidExpression("Invalid operator %q.", op.String())
}

// Assign computes the value a binding holds after op is applied with value.
// Plain assignment stores any value, empty ones included.
func Assign(op token.Operator, current, value Object) (Object, error) {
	if op == token.Assign {
		return value, nil
	}

	pure, ok := compoundOperators[op]
	if !ok {
		return nil, InvalidExpression("Invalid operator %q.", op.String())
	}
	return Binary(pure, current, value)
}

// Unary applies + - ~ or ! to an integer.
func Unary(op token.Operator, operand Object) (Object, error) {
	if IsEmpty(operand) {
		return nil, ErrVoidOperation
	}
	i, ok := operand.(*Integer)
	if !ok {
		return nil, InvalidExpression("Cannot apply %q to %s.", op.String(), operand.Inspect())
	}

	switch op {
	case token.Plus:
		return i, nil
	case token.Negate:
		return fitInteger(-int64(i.Value))
	case token.Complement:
		return &Integer{Value: ^i.Value}, nil
	case token.Not:
		return nativeBool(i.Value == 0), nil
	}
	return nil, InvalidExpression("Invalid operator %q.", op.String())
}

// AddressOf captures operand in a new pointer.
func AddressOf(operand Object) (Object, error) {
	if IsEmpty(operand) {
		return nil, ErrVoidOperation
	}
	return &Pointer{Target: operand}, nil
}

// Dereference returns the value captured by a pointer.
func Dereference(operand Object) (Object, error) {
	if p, ok := operand.(*Pointer); ok {
		return p.Target, nil
	}
	return nil, InvalidExpression("Cannot dereference %s.", operand.Inspect())
}

func integerOperation(op token.Operator, left, right Object) (Object, error) {
	l, lok := left.(*Integer)
	r, rok := right.(*Integer)
	if !lok || !rok {
		return nil, InvalidExpression("Invalid operation.")
	}
	a, b := int64(l.Value), int64(r.Value)

	switch op {
	case token.Add:
		return fitInteger(a + b)
	case token.Sub:
		return fitInteger(a - b)
	case token.Mul:
		return fitInteger(a * b)
	case token.Div:
		if b == 0 {
			return nil, ErrDivideByZero
		}
		return fitInteger(a / b)
	case token.Rem:
		if b == 0 {
			return nil, ErrDivideByZero
		}
		return fitInteger(a % b)
	case token.Shl:
		if b < 0 || b > 31 {
			return nil, ErrOperationOverflow
		}
		return &Integer{Value: l.Value << uint(b)}, nil
	case token.Shr:
		if b < 0 || b > 31 {
			return nil, ErrOperationUnderflow
		}
		return &Integer{Value: l.Value >> uint(b)}, nil
	case token.BitAnd:
		return &Integer{Value: l.Value & r.Value}, nil
	case token.BitOr:
		return &Integer{Value: l.Value | r.Value}, nil
	case token.BitXor:
		return &Integer{Value: l.Value ^ r.Value}, nil
	case token.LogicalAnd:
		return nativeBool(a != 0 && b != 0), nil
	case token.LogicalOr:
		return nativeBool(a != 0 || b != 0), nil
	}
	return nil, InvalidExpression("Invalid operator %q.", op.String())
}

func fitInteger(v int64) (Object, error) {
	if v > math.MaxInt32 {
		return nil, ErrOperationOverflow
	}
	if v < math.MinInt32 {
		return nil, ErrOperationUnderflow
	}
	return &Integer{Value: int32(v)}, nil
}
