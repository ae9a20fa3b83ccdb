// Package parser turns SQL text into a lossless syntax tree.
//
// Every byte of the input ends up in exactly one leaf, so rendering the tree
// reproduces the input. Statements are split on semicolons and parenthesised
// groups become PAREN branches; no grammar beyond that is validated.
package parser

import (
	"github.com/leapstack-labs/leaplint/pkg/token"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// Parse builds a tree for text. It is a pure function of its input.
func Parse(text string) (*tree.Tree, error) {
	p := &builder{t: tree.New(), stmt: tree.NoNode}
	l := NewLexer(text)
	for {
		lx, ok, err := l.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if err := p.add(lx); err != nil {
			return nil, err
		}
	}
	if len(p.parens) > 0 {
		open := p.parens[len(p.parens)-1]
		return nil, &ParseError{Line: open.pos.Line, Column: open.pos.Column, Message: ErrUnclosedParen}
	}
	p.flush(p.t.Root())
	return p.t, nil
}

type openParen struct {
	id  tree.NodeID
	pos token.Position
}

type builder struct {
	t       *tree.Tree
	stmt    tree.NodeID
	parens  []openParen
	pending []lexeme // whitespace and comments not yet attached
}

// container returns the branch new tokens are appended to.
func (p *builder) container() tree.NodeID {
	if n := len(p.parens); n > 0 {
		return p.parens[n-1].id
	}
	return p.stmt
}

func (p *builder) add(lx lexeme) error {
	if lx.kind == tree.KindWhitespace || lx.kind.IsComment() {
		p.pending = append(p.pending, lx)
		return nil
	}

	if p.stmt == tree.NoNode {
		if lx.text == ")" {
			return &ParseError{Line: lx.pos.Line, Column: lx.pos.Column, Message: ErrUnbalancedParen}
		}
		p.flush(p.t.Root())
		p.stmt = p.t.NewBranch(tree.KindStatement)
		p.appendNode(p.t.Root(), p.stmt)
	}

	switch lx.text {
	case "(":
		p.flush(p.container())
		paren := p.t.NewBranch(tree.KindParen)
		p.appendNode(p.container(), paren)
		p.appendLeaf(paren, lx)
		p.parens = append(p.parens, openParen{id: paren, pos: lx.pos})
		return nil
	case ")":
		if len(p.parens) == 0 {
			return &ParseError{Line: lx.pos.Line, Column: lx.pos.Column, Message: ErrUnbalancedParen}
		}
		p.flush(p.container())
		p.appendLeaf(p.container(), lx)
		p.parens = p.parens[:len(p.parens)-1]
		return nil
	case ";":
		if len(p.parens) > 0 {
			open := p.parens[len(p.parens)-1]
			return &ParseError{Line: open.pos.Line, Column: open.pos.Column, Message: ErrUnclosedParen}
		}
		p.flush(p.stmt)
		p.appendLeaf(p.stmt, lx)
		p.stmt = tree.NoNode
		return nil
	}

	p.flush(p.container())
	p.appendLeaf(p.container(), lx)
	return nil
}

func (p *builder) flush(parent tree.NodeID) {
	for _, lx := range p.pending {
		p.appendLeaf(parent, lx)
	}
	p.pending = p.pending[:0]
}

func (p *builder) appendLeaf(parent tree.NodeID, lx lexeme) {
	p.appendNode(parent, p.t.NewLeaf(lx.kind, lx.text))
}

// appendNode cannot fail: parent is always a branch and n is always fresh.
func (p *builder) appendNode(parent, n tree.NodeID) {
	if err := p.t.Append(parent, n); err != nil {
		panic(err)
	}
}
