package token

import "testing"

func TestNew(t *testing.T) {
	cases := []struct {
		literal string
		typ     TokenType
		binary  Operator
		unary   Operator
	}{
		{"abc", WORD, NoOp, NoOp},
		{"12", WORD, NoOp, NoOp},
		{"_x", WORD, NoOp, NoOp},
		{`"hi"`, STRING, NoOp, NoOp},
		{"+", PUNCT, Add, Plus},
		{"-", PUNCT, Sub, Negate},
		{"&&", PUNCT, LogicalAnd, AddressOfAddress},
		{"*", PUNCT, Mul, Deref},
		{"<<=", PUNCT, ShlAssign, NoOp},
		{"!", PUNCT, NoOp, Not},
		{"(", PUNCT, NoOp, NoOp},
	}

	for _, c := range cases {
		t.Run(c.literal, func(t *testing.T) {
			tok := New(c.literal, 3)
			if tok.Type != c.typ {
				t.Errorf("expected type %s, got %s", c.typ, tok.Type)
			}
			if tok.Binary != c.binary || tok.Unary != c.unary {
				t.Errorf("expected operators %s/%s, got %s/%s", c.binary, c.unary, tok.Binary, tok.Unary)
			}
			if tok.Position != 3 {
				t.Errorf("expected position 3, got %d", tok.Position)
			}
		})
	}
}

func TestTerminators(t *testing.T) {
	for _, lit := range []string{";", ")", "}"} {
		if !New(lit, 0).IsTerminator() {
			t.Errorf("expected %q to terminate an expression", lit)
		}
	}
	for _, lit := range []string{"(", "{", "+", "x", `";"`} {
		if New(lit, 0).IsTerminator() {
			t.Errorf("expected %q not to terminate an expression", lit)
		}
	}
}

func TestIsPunct(t *testing.T) {
	for _, ch := range "!#$%&()*+,-./:;<=>?@[\\]^`{|}~" {
		if !IsPunct(ch) {
			t.Errorf("expected %q to be punctuation", ch)
		}
	}
	for _, ch := range "_aZ09 é" {
		if IsPunct(ch) {
			t.Errorf("expected %q not to be punctuation", ch)
		}
	}
}

func TestPriority(t *testing.T) {
	ordered := []Operator{Mul, Add, Shl, BitXor, LtEq, LogicalOr, AddAssign}
	for i := 1; i < len(ordered); i++ {
		if !ordered[i-1].BindsTighter(ordered[i]) {
			t.Errorf("expected %s to bind tighter than %s", ordered[i-1], ordered[i])
		}
	}

	if Mul.BindsTighter(Rem) || Rem.BindsTighter(Mul) {
		t.Errorf("expected * and %% to share a level")
	}
	if !Assign.IsAssignment() || !ShrAssign.IsAssignment() || Eq.IsAssignment() {
		t.Errorf("unexpected assignment classification")
	}
	if Negate.IsBinary() || NoOp.IsBinary() {
		t.Errorf("expected unary operators not to be binary")
	}
	if NoOp.String() != "?" || XorAssign.String() != "^=" {
		t.Errorf("unexpected operator names %s %s", NoOp, XorAssign)
	}
}
