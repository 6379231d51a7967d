package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/token"
)

// typ = "maybe" typ
// | "tuple" "of" "(" typ ("," typ)* ")"
// | "set" "of" typ
// | "function" ("of" ("(" typ ("," typ)* ")" | typ))? ("returning" typ)?
// | "list" ("of" typ)?
// | "dictionary" ("of" typ ("," | "to") typ)?
// | NAME ;
func (p *Parser) typ() ast.Type {
	p.skipNewlines()
	t := p.peek()

	switch {
	case p.check(token.MAYBE):
		p.advance()

		return ast.MaybeType{Inner: p.typ()}
	case p.checkSoft(token.SoftTuple) && p.peekAt(1).Kind == token.OF:
		p.advance()
		p.advance()

		return ast.TupleType{Elements: p.typeList()}
	case p.checkSoft(token.SoftSet) && p.peekAt(1).Kind == token.OF:
		p.advance()
		p.advance()

		return ast.SetType{Element: p.typ()}
	case p.check(token.FUNCTION):
		p.advance()

		return p.functionType()
	case p.check(token.DICTIONARY):
		p.advance()

		return p.dictionaryType()
	case p.check(token.ANY):
		p.advance()

		return ast.AnyType
	case p.check(token.NOTHING):
		p.advance()

		return ast.Void
	case p.check(token.IDENTIFIER, token.TYPEIDENTIFIER):
		p.advance()
	default:
		p.recover(unexpectedToken(t, "type"))

		return nil
	}

	if strings.EqualFold(t.Text, "list") {
		if p.match(token.OF) {
			return ast.ListType{Element: p.typ()}
		}

		return ast.ListType{Element: ast.AnyType}
	}

	return namedType(t.Text)
}

// namedType resolves a type written as a single word. Capitalized names that
// are not builtin are classes; anything else is a generic parameter.
func namedType(name string) ast.Type {
	switch strings.ToLower(name) {
	case "number":
		return ast.Number
	case "any":
		return ast.AnyType
	case "string", "text":
		return ast.String
	case "bool", "boolean":
		return ast.Bool
	case "void", "nothing":
		return ast.Void
	case "list":
		return ast.ListType{Element: ast.AnyType}
	}

	if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
		return ast.ClassType{Name: name}
	}

	return ast.GenericType{Name: name}
}

// typeList = "(" typ ("," typ)* ")" ;
func (p *Parser) typeList() []ast.Type {
	p.consume(token.LEFTPAREN)
	types := []ast.Type{p.typ()}
	for !p.failed() && p.match(token.COMMA) {
		types = append(types, p.typ())
	}
	p.consume(token.RIGHTPAREN)

	return types
}

func (p *Parser) functionType() ast.Type {
	fn := ast.FunctionType{Parameters: []ast.Type{}, Return: ast.Void}
	if p.check(token.OF) {
		p.advance()
		if p.check(token.LEFTPAREN) {
			fn.Parameters = p.typeList()
		} else {
			fn.Parameters = []ast.Type{p.typ()}
		}
	}
	if p.check(token.RETURNING) {
		p.advance()
		fn.Return = p.typ()
	}

	return fn
}

func (p *Parser) dictionaryType() ast.Type {
	if !p.check(token.OF) {
		return ast.DictionaryType{Key: ast.String, Value: ast.AnyType}
	}
	p.advance()
	key := p.typ()
	if !p.match(token.COMMA, token.TO) {
		p.recover(unexpectedToken(p.peek(), "`,`", "`to`"))

		return nil
	}

	return ast.DictionaryType{Key: key, Value: p.typ()}
}
