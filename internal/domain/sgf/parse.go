package sgf

import (
	"fmt"
	"strings"
	"unicode"

	"weiqi_client/internal/errors"
)

type parser struct {
	src []rune
	pos int
}

// Parse reads the first game tree of an SGF collection.
func Parse(text string) (*SGF, error) {
	p := &parser{src: []rune(text)}
	p.skipSpace()
	if !p.consume('(') {
		return nil, p.errorf("expected '('")
	}
	tree, err := p.parseTree()
	if err != nil {
		return nil, err
	}
	return &SGF{Root: tree}, nil
}

// parseTree expects the opening '(' to be consumed already.
func (p *parser) parseTree() (*GameTree, error) {
	tree := &GameTree{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unexpected end of input")
		}
		switch p.src[p.pos] {
		case ';':
			if len(tree.Children) > 0 {
				return nil, p.errorf("node after variation")
			}
			p.pos++
			node, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			tree.Nodes = append(tree.Nodes, node)
		case '(':
			p.pos++
			child, err := p.parseTree()
			if err != nil {
				return nil, err
			}
			tree.Children = append(tree.Children, child)
		case ')':
			p.pos++
			if len(tree.Nodes) == 0 {
				return nil, p.errorf("empty game tree")
			}
			return tree, nil
		default:
			return nil, p.errorf("unexpected %q", p.src[p.pos])
		}
	}
}

func (p *parser) parseNode() (Node, error) {
	node := NewNode()
	for {
		p.skipSpace()
		if p.eof() || !unicode.IsUpper(p.src[p.pos]) {
			return node, nil
		}
		start := p.pos
		for !p.eof() && unicode.IsUpper(p.src[p.pos]) {
			p.pos++
		}
		key := string(p.src[start:p.pos])

		p.skipSpace()
		if p.eof() || p.src[p.pos] != '[' {
			return node, p.errorf("property %s has no value", key)
		}
		for {
			p.skipSpace()
			if p.eof() || p.src[p.pos] != '[' {
				break
			}
			p.pos++
			value, err := p.parseValue()
			if err != nil {
				return node, err
			}
			node.Add(key, value)
		}
	}
}

func (p *parser) parseValue() (string, error) {
	var b strings.Builder
	for !p.eof() {
		r := p.src[p.pos]
		p.pos++
		switch r {
		case '\\':
			if p.eof() {
				return "", p.errorf("dangling escape")
			}
			b.WriteRune(p.src[p.pos])
			p.pos++
		case ']':
			return b.String(), nil
		default:
			b.WriteRune(r)
		}
	}
	return "", p.errorf("unterminated value")
}

func (p *parser) consume(r rune) bool {
	if p.eof() || p.src[p.pos] != r {
		return false
	}
	p.pos++
	return true
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", errors.ErrMalformedSGF, p.pos, fmt.Sprintf(format, args...))
}
