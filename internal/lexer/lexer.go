package lexer

import (
	"strings"
	"unicode/utf8"

	"kite/internal/log"
	"kite/internal/token"
)

// Lexer splits source text into tokens. Tokens from successive Feed calls
// accumulate in one buffer until Reset.
type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
	offset       int  // bytes fed before the current input

	word      strings.Builder
	wordStart int
	last      rune // last rune appended to word
	inString  bool

	tokens []token.Token
}

func New() *Lexer {
	return &Lexer{}
}

// Tokenize lexes src on its own.
func Tokenize(src string) []token.Token {
	l := New()
	l.Feed(src)
	return l.Tokens()
}

// Feed lexes src and appends its tokens to the buffer. An unterminated string
// or comment is closed at the end of src.
func (l *Lexer) Feed(src string) {
	l.input = src
	l.position = 0
	l.readPosition = 0
	before := len(l.tokens)

	for l.readChar() {
		if l.inString {
			l.appendChar()
			if l.ch == token.QUOTE && l.previous() != '\\' {
				l.inString = false
			}
			continue
		}

		if l.ch == '/' {
			switch l.peekChar() {
			case '/':
				l.skipLineComment()
				continue
			case '*':
				l.skipBlockComment()
				continue
			}
		}

		switch {
		case token.IsSpace(l.ch):
			l.flush()
		case l.ch == token.QUOTE:
			l.flush()
			l.appendChar()
			l.inString = true
		case token.IsPunct(l.ch):
			if l.word.Len() > 0 && token.LookupBinary(l.word.String()+string(l.ch)) == token.NoOp {
				l.flush()
			}
			l.appendChar()
		default:
			if l.word.Len() > 0 && token.IsPunct(l.last) {
				l.flush()
			}
			l.appendChar()
		}
	}
	l.flush()
	l.inString = false
	l.offset += len(src)

	log.Trace("lexed input",
		"tokens", len(l.tokens)-before,
		"buffered", len(l.tokens))
}

// Tokens returns the buffered tokens.
func (l *Lexer) Tokens() []token.Token {
	return l.tokens
}

func (l *Lexer) Len() int {
	return len(l.tokens)
}

// Reset drops all buffered tokens.
func (l *Lexer) Reset() {
	l.tokens = nil
	l.offset = 0
	l.word.Reset()
	l.inString = false
}

func (l *Lexer) appendChar() {
	if l.word.Len() == 0 {
		l.wordStart = l.offset + l.position
	}
	l.word.WriteRune(l.ch)
	l.last = l.ch
}

// previous returns the rune written before the current one.
func (l *Lexer) previous() rune {
	s := l.word.String()
	s = s[:len(s)-utf8.RuneLen(l.ch)]
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func (l *Lexer) flush() {
	if l.word.Len() == 0 {
		return
	}
	l.tokens = append(l.tokens, token.New(l.word.String(), l.wordStart))
	l.word.Reset()
	l.last = 0
}

func (l *Lexer) skipLineComment() {
	for l.peekChar() != '\n' && l.readChar() {
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar() // consume '*'
	for l.readChar() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			return
		}
	}
}

// readChar advances by one UTF-8 rune and reports whether one was read
func (l *Lexer) readChar() bool {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		return false
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	return true
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}
