package parser

import (
	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/token"
)

// block parses the body of a construct with item until one of these holds,
// checked in order before every item:
//
//  1. the input ends;
//  2. "end <closer>" is next, which is consumed and reported as closed;
//  3. stop reports true;
//  4. the next token is left of the column of the first item;
//  5. a top-level declaration starts at column 0.
//
// An item that fails ends the block without failing the parse; the cursor is
// put back where the item started, so an enclosing parser sees the same tokens.
func (p *Parser) block(closer string, stop func() bool, item func() ast.Node) ([]ast.Node, bool) {
	items := []ast.Node{}
	p.skipNewlines()
	start := p.peek().Location.Column

	for p.tick() {
		p.skipNewlines()
		if p.IsAtEnd() {
			break
		}
		if p.closes(closer) {
			p.advance()
			p.advance()

			return items, true
		}
		if stop != nil && stop() {
			break
		}
		column := p.peek().Location.Column
		if column < start {
			break
		}
		if column == 0 && p.topLevelDeclaration() {
			break
		}

		node, err := try(p, item, func() ast.Node { return nil })
		if err != nil {
			if !p.outOfFuel {
				p.logger.Debug("block ended by statement error", "closer", closer, "at", p.peek().Location.String(), "error", err)
			}

			break
		}
		if p.outOfFuel {
			break
		}
		if node != nil {
			items = append(items, node)
		}
	}

	return items, false
}

// closes reports whether the next tokens are "end" followed by closer.
func (p *Parser) closes(closer string) bool {
	return closer != "" && p.checkSoft(token.SoftEnd) && word(p.lookahead(1)) == closer
}

// topLevelDeclaration reports whether the current token starts a declaration
// that always belongs to the top level: define, import or "the variable".
func (p *Parser) topLevelDeclaration() bool {
	switch p.peek().Kind {
	case token.DEFINE, token.IMPORT:
		return true
	case token.THE:
		return p.lookahead(1).Kind == token.VARIABLE
	}

	return false
}

// wrap turns block items into a single node: Void for none, the item itself
// for one, and a Program for more.
func (p *Parser) wrap(items []ast.Node) ast.Node {
	switch len(items) {
	case 0:
		return ast.NewVoid(p.peek().Location)
	case 1:
		return items[0]
	}

	return &ast.Program{Location: items[0].Pos(), Statements: items}
}
