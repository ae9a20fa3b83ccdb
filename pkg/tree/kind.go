package tree

import "fmt"

// Kind tags a node with its syntactic category.
type Kind uint8

// Node kinds. Branch kinds come first.
const (
	KindFile Kind = iota
	KindStatement
	KindParen

	KindKeyword
	KindIdent
	KindQuotedIdent
	KindString
	KindNumber
	KindOperator
	KindPunct
	KindWhitespace
	KindLineComment
	KindBlockComment
	KindTemplate
)

var kindNames = map[Kind]string{
	KindFile:         "FILE",
	KindStatement:    "STATEMENT",
	KindParen:        "PAREN",
	KindKeyword:      "KEYWORD",
	KindIdent:        "IDENT",
	KindQuotedIdent:  "QUOTED_IDENT",
	KindString:       "STRING",
	KindNumber:       "NUMBER",
	KindOperator:     "OPERATOR",
	KindPunct:        "PUNCT",
	KindWhitespace:   "WHITESPACE",
	KindLineComment:  "LINE_COMMENT",
	KindBlockComment: "BLOCK_COMMENT",
	KindTemplate:     "TEMPLATE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", k)
}

// IsBranch returns true for kinds that hold children instead of text.
func (k Kind) IsBranch() bool {
	return k <= KindParen
}

// IsComment returns true for line and block comments.
func (k Kind) IsComment() bool {
	return k == KindLineComment || k == KindBlockComment
}
