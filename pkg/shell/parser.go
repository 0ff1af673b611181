package shell

import (
	"errors"
	"io"
	"strings"
	"unicode"
)

var (
	ErrUnclosedQuote      = errors.New("unclosed quote")
	ErrUnescapedCharacter = errors.New("unescaped character")
)

// Token is one word of an input line. Quoted is set when any part of the
// word came from quotes or an escape, so it is never read as an operator.
type Token struct {
	Text   string
	Quoted bool
}

type DefaultParser struct {
	newReader  func(string) io.RuneReader
	newBuilder func() *strings.Builder
}

func NewDefaultParser() *DefaultParser {
	d := &DefaultParser{
		newReader: func(s string) io.RuneReader {
			return strings.NewReader(s)
		},
		newBuilder: func() *strings.Builder {
			return &strings.Builder{}
		},
	}

	return d
}

type parseState int

const (
	stateOutside parseState = iota
	stateSingleQuote
	stateDoubleQuote
)

type tokenBuffer struct {
	builder *strings.Builder
	quoted  bool
}

func newTokenBuffer(builder *strings.Builder) *tokenBuffer {
	return &tokenBuffer{builder: builder}
}

func (tb *tokenBuffer) appendRune(r rune) {
	tb.builder.WriteRune(r)
}

func (tb *tokenBuffer) markQuoted() {
	tb.quoted = true
}

func (tb *tokenBuffer) flushIfNotEmpty(tokens []Token) []Token {
	if tb.builder.Len() == 0 {
		tb.quoted = false
		return tokens
	}

	tokens = append(tokens, Token{Text: tb.builder.String(), Quoted: tb.quoted})
	tb.builder.Reset()
	tb.quoted = false
	return tokens
}

type lexer struct {
	state    parseState
	escaping bool
	buf      *tokenBuffer
	tokens   []Token
}

func (l *lexer) outside(ch rune) {
	if l.escaping {
		l.buf.appendRune(ch)
		l.buf.markQuoted()
		l.escaping = false
		return
	}

	switch {
	case unicode.IsSpace(ch):
		l.tokens = l.buf.flushIfNotEmpty(l.tokens)
	case ch == '\'':
		l.state = stateSingleQuote
		l.buf.markQuoted()
	case ch == '"':
		l.state = stateDoubleQuote
		l.buf.markQuoted()
	case ch == '\\':
		l.escaping = true
	default:
		l.buf.appendRune(ch)
	}
}

func (l *lexer) singleQuote(ch rune) {
	if ch == '\'' {
		l.state = stateOutside
		return
	}
	l.buf.appendRune(ch)
}

func (l *lexer) doubleQuote(ch rune) {
	if l.escaping {
		// inside double quotes only \\ and \" are escapes
		if ch != '\\' && ch != '"' {
			l.buf.appendRune('\\')
		}
		l.buf.appendRune(ch)
		l.escaping = false
		return
	}

	switch ch {
	case '"':
		l.state = stateOutside
	case '\\':
		l.escaping = true
	default:
		l.buf.appendRune(ch)
	}
}

// Parse splits line into words, honouring single quotes, double quotes and
// backslash escapes.
func (p *DefaultParser) Parse(line string) ([]Token, error) {
	runeReader := p.newReader(line)
	l := &lexer{
		state:  stateOutside,
		buf:    newTokenBuffer(p.newBuilder()),
		tokens: []Token{},
	}

	for {
		ch, _, err := runeReader.ReadRune()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		switch l.state {
		case stateOutside:
			l.outside(ch)
		case stateSingleQuote:
			l.singleQuote(ch)
		case stateDoubleQuote:
			l.doubleQuote(ch)
		}
	}

	if l.state == stateSingleQuote || l.state == stateDoubleQuote {
		return nil, ErrUnclosedQuote
	}

	if l.escaping {
		return nil, ErrUnescapedCharacter
	}

	return l.buf.flushIfNotEmpty(l.tokens), nil
}
