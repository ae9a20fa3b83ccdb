package parser

import "fmt"

// ParseError reports text the lexer cannot turn into a tree.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Common error messages
const (
	ErrUnterminatedString     = "unterminated string literal"
	ErrUnterminatedIdentifier = "unterminated quoted identifier"
	ErrUnterminatedComment    = "unterminated block comment"
	ErrUnterminatedTemplate   = "unterminated template tag"
	ErrUnbalancedParen        = "unbalanced parenthesis"
	ErrUnclosedParen          = "unclosed parenthesis"
	ErrIllegalCharacter       = "illegal character %q"
)
