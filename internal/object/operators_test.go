package object

import (
	"math"
	"testing"

	"kite/internal/token"
)

func TestBinary(t *testing.T) {
	cases := []struct {
		name     string
		op       token.Operator
		a, b     Object
		expected Object
	}{
		{"add", token.Add, NewInteger(2), NewInteger(3), NewInteger(5)},
		{"concat", token.Add, NewString("ab"), NewString("cd"), NewString("abcd")},
		{"sub", token.Sub, NewInteger(2), NewInteger(3), NewInteger(-1)},
		{"mul", token.Mul, NewInteger(-4), NewInteger(3), NewInteger(-12)},
		{"div truncates", token.Div, NewInteger(7), NewInteger(2), NewInteger(3)},
		{"rem", token.Rem, NewInteger(-7), NewInteger(2), NewInteger(-1)},
		{"min rem -1", token.Rem, NewInteger(math.MinInt32), NewInteger(-1), NewInteger(0)},
		{"shl", token.Shl, NewInteger(1), NewInteger(4), NewInteger(16)},
		{"shr keeps sign", token.Shr, NewInteger(-16), NewInteger(2), NewInteger(-4)},
		{"and", token.BitAnd, NewInteger(12), NewInteger(10), NewInteger(8)},
		{"or", token.BitOr, NewInteger(12), NewInteger(10), NewInteger(14)},
		{"xor", token.BitXor, NewInteger(12), NewInteger(10), NewInteger(6)},
		{"eq strings", token.Eq, NewString("a"), NewString("a"), NewInteger(1)},
		{"eq mixed kinds", token.Eq, NewString("1"), NewInteger(1), NewInteger(0)},
		{"not eq", token.NotEq, NewInteger(1), NewInteger(2), NewInteger(1)},
		{"gt", token.Gt, NewInteger(3), NewInteger(2), NewInteger(1)},
		{"lt", token.Lt, NewInteger(3), NewInteger(2), NewInteger(0)},
		{"gt eq", token.GtEq, NewInteger(2), NewInteger(2), NewInteger(1)},
		{"lt eq", token.LtEq, NewInteger(3), NewInteger(2), NewInteger(0)},
		{"logical and", token.LogicalAnd, NewInteger(3), NewInteger(0), NewInteger(0)},
		{"logical or", token.LogicalOr, NewInteger(0), NewInteger(-2), NewInteger(1)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := Binary(c.op, c.a, c.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Equal(result, c.expected) {
				t.Errorf("expected %s, got %s", c.expected.Inspect(), result.Inspect())
			}
		})
	}
}

func TestBinaryErrors(t *testing.T) {
	cases := []struct {
		name     string
		op       token.Operator
		a, b     Object
		expected ErrorKind
	}{
		{"overflow", token.Add, NewInteger(math.MaxInt32), NewInteger(1), OPERATION_OVERFLOW},
		{"underflow", token.Sub, NewInteger(math.MinInt32), NewInteger(1), OPERATION_UNDERFLOW},
		{"mul overflow", token.Mul, NewInteger(1 << 20), NewInteger(1 << 12), OPERATION_OVERFLOW},
		{"min div -1", token.Div, NewInteger(math.MinInt32), NewInteger(-1), OPERATION_OVERFLOW},
		{"div zero", token.Div, NewInteger(5), NewInteger(0), DIVIDE_BY_ZERO},
		{"rem zero", token.Rem, NewInteger(5), NewInteger(0), DIVIDE_BY_ZERO},
		{"shl out of range", token.Shl, NewInteger(1), NewInteger(32), OPERATION_OVERFLOW},
		{"shr negative", token.Shr, NewInteger(1), NewInteger(-1), OPERATION_UNDERFLOW},
		{"void left", token.Add, VOID, NewInteger(1), VOID_OPERATION},
		{"uninitialized right", token.Mul, NewInteger(1), BINDING_UNINITIALIZED, VOID_OPERATION},
		{"uninitialized equality", token.Eq, BINDING_UNINITIALIZED, NewInteger(0), VOID_OPERATION},
		{"string minus", token.Sub, NewString("a"), NewString("b"), INVALID_EXPRESSION},
		{"string plus integer", token.Add, NewString("a"), NewInteger(1), INVALID_EXPRESSION},
		{"compare strings", token.Gt, NewString("a"), NewString("b"), INVALID_EXPRESSION},
		{"compare pointers", token.Lt, &Pointer{Target: NewInteger(1)}, NewInteger(2), INVALID_EXPRESSION},
		{"logical on strings", token.LogicalAnd, NewString("a"), NewInteger(1), INVALID_EXPRESSION},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Binary(c.op, c.a, c.b)
			if KindOf(err) != c.expected {
				t.Errorf("expected %s, got %v", c.expected, err)
			}
		})
	}
}

func TestAssign(t *testing.T) {
	cases := []struct {
		name     string
		op       token.Operator
		current  Object
		value    Object
		expected Object
		kind     ErrorKind
	}{
		{"plain", token.Assign, BINDING_UNINITIALIZED, NewInteger(5), NewInteger(5), ""},
		{"plain replaces kind", token.Assign, NewInteger(1), NewString("s"), NewString("s"), ""},
		{"add", token.AddAssign, NewInteger(1), NewInteger(2), NewInteger(3), ""},
		{"concat", token.AddAssign, NewString("a"), NewString("b"), NewString("ab"), ""},
		{"shl", token.ShlAssign, NewInteger(3), NewInteger(2), NewInteger(12), ""},
		{"xor", token.XorAssign, NewInteger(6), NewInteger(3), NewInteger(5), ""},
		{"assign void", token.Assign, NewInteger(1), VOID, VOID, ""},
		{"assign uninitialized", token.Assign, NewInteger(1), BINDING_UNINITIALIZED, BINDING_UNINITIALIZED, ""},
		{"compound on uninitialized", token.AddAssign, BINDING_UNINITIALIZED, NewInteger(1), nil, VOID_OPERATION},
		{"compound with void", token.SubAssign, NewInteger(1), VOID, nil, VOID_OPERATION},
		{"div zero", token.DivAssign, NewInteger(1), NewInteger(0), nil, DIVIDE_BY_ZERO},
		{"mul overflow", token.MulAssign, NewInteger(math.MaxInt32), NewInteger(2), nil, OPERATION_OVERFLOW},
		{"shr out of range", token.ShrAssign, NewInteger(1), NewInteger(40), nil, OPERATION_UNDERFLOW},
		{"pure operator", token.Add, NewInteger(1), NewInteger(1), nil, INVALID_EXPRESSION},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := Assign(c.op, c.current, c.value)
			if c.kind != "" {
				if KindOf(err) != c.kind {
					t.Errorf("expected %s, got %v", c.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Equal(result, c.expected) {
				t.Errorf("expected %s, got %s", c.expected.Inspect(), result.Inspect())
			}
		})
	}
}

func TestUnary(t *testing.T) {
	cases := []struct {
		name     string
		op       token.Operator
		operand  Object
		expected Object
		kind     ErrorKind
	}{
		{"plus", token.Plus, NewInteger(4), NewInteger(4), ""},
		{"negate", token.Negate, NewInteger(4), NewInteger(-4), ""},
		{"negate min", token.Negate, NewInteger(math.MinInt32), nil, OPERATION_OVERFLOW},
		{"complement", token.Complement, NewInteger(0), NewInteger(-1), ""},
		{"not zero", token.Not, NewInteger(0), NewInteger(1), ""},
		{"not nonzero", token.Not, NewInteger(7), NewInteger(0), ""},
		{"not string", token.Not, NewString("a"), nil, INVALID_EXPRESSION},
		{"negate pointer", token.Negate, &Pointer{Target: NewInteger(1)}, nil, INVALID_EXPRESSION},
		{"negate void", token.Negate, VOID, nil, VOID_OPERATION},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := Unary(c.op, c.operand)
			if c.kind != "" {
				if KindOf(err) != c.kind {
					t.Errorf("expected %s, got %v", c.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Equal(result, c.expected) {
				t.Errorf("expected %s, got %s", c.expected.Inspect(), result.Inspect())
			}
		})
	}
}

func TestPointers(t *testing.T) {
	p, err := AddressOf(NewInteger(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := Dereference(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(v, NewInteger(3)) {
		t.Errorf("expected 3, got %s", v.Inspect())
	}

	if _, err := AddressOf(BINDING_UNINITIALIZED); KindOf(err) != VOID_OPERATION {
		t.Errorf("expected %s, got %v", VOID_OPERATION, err)
	}
	if _, err := Dereference(NewInteger(3)); KindOf(err) != INVALID_EXPRESSION {
		t.Errorf("expected %s, got %v", INVALID_EXPRESSION, err)
	}
	for _, empty := range []Object{VOID, BINDING_UNINITIALIZED} {
		if _, err := Dereference(empty); KindOf(err) != INVALID_EXPRESSION {
			t.Errorf("expected %s, got %v", INVALID_EXPRESSION, err)
		}
	}
}
