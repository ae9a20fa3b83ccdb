package parser

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/token"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// lexeme is a token with its exact source text.
type lexeme struct {
	kind tree.Kind
	text string
	pos  token.Position
}

// Lexer tokenizes SQL input without dropping whitespace or comments, so the
// concatenated lexemes always reproduce the input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.pos < len(l.input) && l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) error {
	return &ParseError{Line: pos.Line, Column: pos.Column, Message: fmt.Sprintf(format, args...)}
}

// next returns the next lexeme. ok is false at end of input.
func (l *Lexer) next() (lexeme, bool, error) {
	if l.atEOF() {
		return lexeme{}, false, nil
	}
	pos := l.currentPos()
	start := l.pos
	kind, err := l.scan(pos)
	if err != nil {
		return lexeme{}, false, err
	}
	return lexeme{kind: kind, text: l.input[start:l.pos], pos: pos}, true, nil
}

func (l *Lexer) scan(pos token.Position) (tree.Kind, error) {
	switch {
	case isSpace(l.ch):
		for !l.atEOF() && isSpace(l.ch) {
			l.readChar()
		}
		return tree.KindWhitespace, nil
	case l.ch == '-' && l.peekChar() == '-':
		for !l.atEOF() && l.ch != '\n' {
			l.readChar()
		}
		return tree.KindLineComment, nil
	case l.ch == '/' && l.peekChar() == '*':
		return tree.KindBlockComment, l.readBlockComment(pos)
	case l.ch == '{' && (l.peekChar() == '{' || l.peekChar() == '%' || l.peekChar() == '#'):
		return tree.KindTemplate, l.readTemplate(pos)
	case l.ch == '\'':
		return tree.KindString, l.readQuoted('\'', pos, ErrUnterminatedString)
	case l.ch == '"':
		return tree.KindQuotedIdent, l.readQuoted('"', pos, ErrUnterminatedIdentifier)
	case l.ch == '`':
		return tree.KindQuotedIdent, l.readQuoted('`', pos, ErrUnterminatedIdentifier)
	case isLetter(l.ch) || l.ch == '_':
		start := l.pos
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
			l.readChar()
		}
		if token.IsKeyword(l.input[start:l.pos]) {
			return tree.KindKeyword, nil
		}
		return tree.KindIdent, nil
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		l.readNumber()
		return tree.KindNumber, nil
	}

	switch l.ch {
	case ',', ';', '(', ')', '[', ']', '.':
		l.readChar()
		return tree.KindPunct, nil
	case '<':
		l.readChar()
		if l.ch == '=' || l.ch == '>' {
			l.readChar()
		}
		return tree.KindOperator, nil
	case '>', '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
		}
		return tree.KindOperator, nil
	case '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
		}
		return tree.KindOperator, nil
	case ':':
		l.readChar()
		if l.ch == ':' {
			l.readChar()
		}
		return tree.KindOperator, nil
	case '-':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			if l.ch == '>' {
				l.readChar()
			}
		}
		return tree.KindOperator, nil
	case '+', '*', '/', '%', '=', '?', '@', '$', '&', '^', '~', '#', '{', '}':
		l.readChar()
		return tree.KindOperator, nil
	}
	return 0, l.errorf(pos, ErrIllegalCharacter, l.ch)
}

// readBlockComment consumes a /* ... */ comment.
func (l *Lexer) readBlockComment(pos token.Position) error {
	l.readChar() // skip '/'
	l.readChar() // skip '*'
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			return nil
		}
		l.readChar()
	}
	return l.errorf(pos, ErrUnterminatedComment)
}

// readQuoted consumes a quoted string or identifier. A doubled quote is an
// escaped quote: 'it''s'.
func (l *Lexer) readQuoted(quote byte, pos token.Position, msg string) error {
	l.readChar() // skip opening quote
	for !l.atEOF() {
		if l.ch == quote {
			if l.peekChar() == quote {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return nil
		}
		l.readChar()
	}
	return l.errorf(pos, "%s", msg)
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() {
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar() // skip sign
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
}

// readTemplate scans a {{ ... }}, {% ... %} or {# ... #} template tag.
// Quoted strings inside the tag are skipped so braces in literals do not
// close it.
func (l *Lexer) readTemplate(pos token.Position) error {
	l.readChar() // skip '{'
	closer := l.ch
	if closer == '{' {
		closer = '}'
	}
	l.readChar()
	for !l.atEOF() {
		switch {
		case (l.ch == '\'' || l.ch == '"') && closer != '#':
			q := l.ch
			l.readChar()
			for !l.atEOF() && l.ch != q {
				if l.ch == '\\' && l.peekChar() != 0 {
					l.readChar()
				}
				l.readChar()
			}
			l.readChar()
		case l.ch == closer && l.peekChar() == '}':
			l.readChar()
			l.readChar()
			return nil
		default:
			l.readChar()
		}
	}
	return l.errorf(pos, ErrUnterminatedTemplate)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

// isLetter accepts ASCII letters and every byte of a multi-byte UTF-8
// sequence, so non-ASCII identifiers lex as a single identifier.
func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch >= 0x80
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
