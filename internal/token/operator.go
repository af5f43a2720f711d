package token

// Operator is the closed set of binary and unary operators.
type Operator uint8

const (
	NoOp Operator = iota

	// binary, pure
	Mul
	Div
	Rem
	Add
	Sub
	Shr
	Shl
	BitAnd
	BitOr
	BitXor
	Eq
	NotEq
	Gt
	Lt
	GtEq
	LtEq
	LogicalAnd
	LogicalOr

	// binary, assigning
	Assign
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	RemAssign
	OrAssign
	AndAssign
	XorAssign
	ShrAssign
	ShlAssign

	// unary
	Plus
	Negate
	AddressOf
	AddressOfAddress
	Deref
	Not
	Complement
)

// AssignPriority is the loosest binding level, shared by every assignment operator.
const AssignPriority = 6

var binaryOperators = map[string]Operator{
	"*":   Mul,
	"/":   Div,
	"%":   Rem,
	"+":   Add,
	"-":   Sub,
	">>":  Shr,
	"<<":  Shl,
	"&":   BitAnd,
	"|":   BitOr,
	"^":   BitXor,
	"==":  Eq,
	"!=":  NotEq,
	">":   Gt,
	"<":   Lt,
	">=":  GtEq,
	"<=":  LtEq,
	"&&":  LogicalAnd,
	"||":  LogicalOr,
	"=":   Assign,
	"+=":  AddAssign,
	"-=":  SubAssign,
	"*=":  MulAssign,
	"/=":  DivAssign,
	"%=":  RemAssign,
	"|=":  OrAssign,
	"&=":  AndAssign,
	"^=":  XorAssign,
	">>=": ShrAssign,
	"<<=": ShlAssign,
}

var unaryOperators = map[string]Operator{
	"+":  Plus,
	"-":  Negate,
	"&":  AddressOf,
	"&&": AddressOfAddress,
	"*":  Deref,
	"!":  Not,
	"~":  Complement,
}

var operatorNames = map[Operator]string{}

func init() {
	for lit, op := range binaryOperators {
		operatorNames[op] = lit
	}
	for lit, op := range unaryOperators {
		operatorNames[op] = lit
	}
}

// LookupBinary returns the binary operator spelled by lit, or NoOp.
func LookupBinary(lit string) Operator {
	if op, ok := binaryOperators[lit]; ok {
		return op
	}
	return NoOp
}

// LookupUnary returns the unary operator spelled by lit, or NoOp.
func LookupUnary(lit string) Operator {
	if op, ok := unaryOperators[lit]; ok {
		return op
	}
	return NoOp
}

// Priority returns the binding level of a binary operator, 0 binding tightest.
// It returns -1 for anything that is not a binary operator.
func (op Operator) Priority() int {
	switch op {
	case Mul, Div, Rem:
		return 0
	case Add, Sub:
		return 1
	case Shr, Shl:
		return 2
	case BitAnd, BitOr, BitXor:
		return 3
	case Eq, NotEq, Gt, Lt, GtEq, LtEq:
		return 4
	case LogicalAnd, LogicalOr:
		return 5
	case Assign, AddAssign, SubAssign, MulAssign, DivAssign, RemAssign,
		OrAssign, AndAssign, XorAssign, ShrAssign, ShlAssign:
		return AssignPriority
	default:
		return -1
	}
}

func (op Operator) IsBinary() bool { return op.Priority() >= 0 }

func (op Operator) IsAssignment() bool { return op.Priority() == AssignPriority }

// BindsTighter reports whether op takes its operands before other does.
func (op Operator) BindsTighter(other Operator) bool {
	return op.Priority() < other.Priority()
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "?"
}
