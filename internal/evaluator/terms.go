package evaluator

import (
	"strconv"
	"strings"

	"kite/internal/object"
	"kite/internal/token"
)

// term is an operand waiting for reduction. Variables resolve when their frame
// reduces so that assignment can reach the binding itself.
type term interface {
	resolve(env *object.Environment) (object.Object, error)
}

type immediate struct {
	value object.Object
}

func (t immediate) resolve(*object.Environment) (object.Object, error) {
	return t.value, nil
}

type variable struct {
	name string
}

func (t variable) resolve(env *object.Environment) (object.Object, error) {
	return env.Get(t.name)
}

// monomial is a unary operator applied to an operand.
type monomial struct {
	op      token.Operator
	operand term
}

func (t monomial) resolve(env *object.Environment) (object.Object, error) {
	value, err := t.operand.resolve(env)
	if err != nil {
		return nil, err
	}

	switch t.op {
	case token.AddressOf:
		return object.AddressOf(value)
	case token.AddressOfAddress:
		inner, err := object.AddressOf(value)
		if err != nil {
			return nil, err
		}
		return object.AddressOf(inner)
	case token.Deref:
		return object.Dereference(value)
	default:
		return object.Unary(t.op, value)
	}
}

// applyPrefixes wraps primary so that the prefix closest to it applies first.
func applyPrefixes(primary term, prefixes []token.Operator) term {
	t := primary
	for i := len(prefixes) - 1; i >= 0; i-- {
		t = monomial{op: prefixes[i], operand: t}
	}
	return t
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// parseInteger reads decimal, 0x hex and 0b binary literals with optional '_'
// separators into an int32.
func parseInteger(literal string) (*object.Integer, error) {
	digits := strings.ReplaceAll(literal, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		base, digits = 16, digits[2:]
	case strings.HasPrefix(digits, "0b"), strings.HasPrefix(digits, "0B"):
		base, digits = 2, digits[2:]
	}

	if digits == "" {
		return nil, object.NewError(object.INVALID_INTEGER, literal)
	}
	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return nil, object.NewError(object.INVALID_INTEGER, literal)
	}
	return object.NewInteger(int32(n)), nil
}

// parseString strips the surrounding quotes of a string token and unescapes \".
func parseString(literal string) *object.String {
	s := strings.TrimPrefix(literal, `"`)
	if strings.HasSuffix(s, `"`) && !strings.HasSuffix(s, `\"`) {
		s = s[:len(s)-1]
	}
	return object.NewString(strings.ReplaceAll(s, `\"`, `"`))
}
