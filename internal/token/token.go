package token

type TokenType string

const (
	// WORD covers identifiers, integer literals and keywords
	WORD   = "WORD"
	STRING = "STRING" // "foobar", quotes included
	PUNCT  = "PUNCT"  // operators, brackets, separators

	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	SEMICOLON = ";"
	QUOTE     = '"'

	LET = "let"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // byte offset of the token in the fed source

	// operator meanings resolved at lex time, NoOp when the literal is not one
	Binary Operator
	Unary  Operator
}

// New classifies a lexed word and resolves its operator meanings.
func New(literal string, position int) Token {
	t := Token{Literal: literal, Position: position}
	switch {
	case literal != "" && literal[0] == QUOTE:
		t.Type = STRING
	case literal != "" && IsPunct(rune(literal[0])):
		t.Type = PUNCT
		t.Binary = LookupBinary(literal)
		t.Unary = LookupUnary(literal)
	default:
		t.Type = WORD
	}
	return t
}

// IsTerminator reports whether the token ends an expression.
func (t Token) IsTerminator() bool {
	if t.Type != PUNCT {
		return false
	}
	switch t.Literal {
	case SEMICOLON, RPAREN, RBRACE:
		return true
	}
	return false
}

func (t Token) Is(literal string) bool {
	return t.Type == PUNCT && t.Literal == literal
}

// IsPunct reports ASCII punctuation, with '_' counted as part of words.
func IsPunct(ch rune) bool {
	if ch == '_' {
		return false
	}
	return (ch >= '!' && ch <= '/') ||
		(ch >= ':' && ch <= '@') ||
		(ch >= '[' && ch <= '`') ||
		(ch >= '{' && ch <= '~')
}

// IsSpace reports ASCII whitespace.
func IsSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
