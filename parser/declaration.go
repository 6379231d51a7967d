package parser

import (
	"fmt"

	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/token"
	"github.com/layman-lang/layman/utils"
)

// define = "define" ("class" class | "struct" struct | "type" sumType
// | "module" module | "background"? "function" function | variable) ;
func (p *Parser) define() ast.Node {
	where := p.consume(token.DEFINE)
	if p.failed() {
		return nil
	}

	switch {
	case p.checkSoft(token.SoftClass):
		p.advance()

		return p.classDeclaration(where)
	case p.check(token.STRUCT):
		p.advance()

		return p.structDeclaration(where)
	case p.checkSoft(token.SoftType):
		p.advance()

		return p.typeDeclaration(where)
	case p.checkSoft(token.SoftModule):
		p.advance()

		return p.moduleDeclaration(where)
	case p.check(token.BACKGROUND):
		p.advance()
		if !p.check(token.FUNCTION) {
			p.recover(unexpectedToken(p.peek(), "`function` after `background`"))

			return nil
		}
		p.advance()

		return p.function(where, true)
	case p.check(token.FUNCTION):
		p.advance()

		return p.function(where, false)
	}

	return p.variableDeclaration(where)
}

// variable = ("variable" | "constant") IDENT ("as" typ | "of" "type" typ)? (("is" | "equals") expression)? ;
// A declaration without a value must have a type; its value is Void.
func (p *Parser) variableDeclaration(where token.Token) ast.Node {
	mode := p.peek()
	if !p.match(token.VARIABLE, token.CONSTANT) {
		p.recover(unexpectedToken(p.peek(), "`variable`", "`constant`"))

		return nil
	}
	name := p.identifier()
	if p.failed() {
		return nil
	}
	decl := &ast.DeclareStatement{Location: where.Location, Name: name.Text, IsMutable: mode.Kind == token.VARIABLE}

	switch {
	case p.check(token.AS):
		p.advance()
		decl.TypeAnnotation = p.typ()
	case p.check(token.OF) && p.lookaheadSoft(1) == token.SoftType:
		p.advance()
		p.advance()
		decl.TypeAnnotation = p.typ()
	}
	if p.failed() {
		return nil
	}

	if p.match(token.IS, token.EQUALS) {
		decl.Value = p.expression()

		return decl
	}
	if decl.TypeAnnotation == nil {
		p.recover(utils.PosError{Where: name, Err: fmt.Errorf("variable %s must be initialized", name.Text)})

		return nil
	}
	decl.Value = ast.NewVoid(name.Location)

	return decl
}

// function = IDENT "that"? ("takes" parameter (("and" | ",") parameter)*)?
// "and"? ("returns" typ)? block ;
// parameter = IDENT ("as" typ)? ;
//
// The result is never nil, so it can be returned as an ast.Node directly.
func (p *Parser) function(where token.Token, async bool) *ast.FunctionDeclaration {
	name := p.identifier()
	fn := &ast.FunctionDeclaration{Location: where.Location, Name: name.Text, Parameters: []ast.Parameter{}, IsAsync: async}
	if p.failed() {
		return fn
	}
	p.match(token.THAT)

	if p.match(token.TAKES) {
		for !p.failed() {
			param := ast.Parameter{Name: p.identifier().Text}
			if p.match(token.AS) {
				param.TypeAnnotation = p.typ()
			}
			fn.Parameters = append(fn.Parameters, param)
			if p.returnsNext() || !p.separator() {
				break
			}
		}
	}

	if p.returnsNext() {
		p.advance()
	}
	if p.match(token.RETURNS) {
		fn.ReturnType = p.typ()
	}
	if p.failed() {
		return fn
	}

	items, _ := p.block("function", nil, p.statement)
	fn.Body = p.wrap(items)

	return fn
}

// returnsNext reports whether "and returns" is next, leaving the cursor on "and".
func (p *Parser) returnsNext() bool {
	saved := p.current
	p.skipNewlines()
	if p.check(token.AND) && p.lookahead(1).Kind == token.RETURNS {
		return true
	}
	p.current = saved

	return false
}

// class = NAME "that" ("extends" NAME ("and" "has")? | "has") member* ;
func (p *Parser) classDeclaration(where token.Token) ast.Node {
	name := p.identifier()
	p.consume(token.THAT)
	class := &ast.ClassDeclaration{
		Location:   where.Location,
		Name:       name.Text,
		Properties: []*ast.PropertyDeclaration{},
		Methods:    []*ast.FunctionDeclaration{},
	}
	if p.failed() {
		return nil
	}

	switch {
	case p.matchSoft(token.SoftExtends):
		class.Extends = p.identifier().Text
		saved := p.current
		if !p.match(token.AND) || !p.matchSoft(token.SoftHas) {
			p.current = saved
		}
	case p.matchSoft(token.SoftHas):
	default:
		p.recover(unexpectedToken(p.peek(), "`has`", "`extends`"))

		return nil
	}
	if p.failed() {
		return nil
	}

	members, _ := p.block("class", nil, p.member)
	for _, m := range members {
		switch m := m.(type) {
		case *ast.PropertyDeclaration:
			class.Properties = append(class.Properties, m)
		case *ast.FunctionDeclaration:
			class.Methods = append(class.Methods, m)
		}
	}

	return class
}

// member = "define" "background"? "function" function | "property" property ;
func (p *Parser) member() ast.Node {
	p.skipNewlines()
	where := p.peek()
	switch {
	case p.check(token.DEFINE):
		p.advance()
		async := p.match(token.BACKGROUND)
		p.consume(token.FUNCTION)
		if p.failed() {
			return nil
		}

		return p.function(where, async)
	case p.checkSoft(token.SoftProperty):
		p.advance()

		return p.property(where)
	}
	p.recover(unexpectedToken(where, "`property`", "`define function`"))

	return nil
}

// property = IDENT ("which"? "is")? ("of" "type")? typ ;
func (p *Parser) property(where token.Token) ast.Node {
	name := p.identifier()
	if p.matchSoft(token.SoftWhich) {
		p.match(token.IS)
	} else {
		p.match(token.IS, token.AS)
	}
	if p.match(token.OF) && !p.matchSoft(token.SoftType) {
		p.recover(unexpectedToken(p.peek(), "`type` after `of`"))

		return nil
	}
	annotation := p.typ()
	if p.failed() {
		return nil
	}

	return &ast.PropertyDeclaration{Location: where.Location, Name: name.Text, TypeAnnotation: annotation}
}

// struct = NAME ("with" IDENT "as" typ (("," | "and") IDENT "as" typ)*)? ;
func (p *Parser) structDeclaration(where token.Token) ast.Node {
	name := p.identifier()
	decl := &ast.StructDeclaration{Location: where.Location, Name: name.Text, Properties: []*ast.PropertyDeclaration{}}
	if p.failed() || !p.match(token.WITH) {
		return decl
	}
	for !p.failed() {
		p.skipNewlines()
		field := p.identifier()
		p.consume(token.AS)
		annotation := p.typ()
		decl.Properties = append(decl.Properties, &ast.PropertyDeclaration{Location: field.Location, Name: field.Text, TypeAnnotation: annotation})
		if !p.separator() {
			break
		}
	}

	return decl
}

// sumType = NAME "as" "either" variant ("or" variant)* ;
// variant = NAME ("with" field ("and" field)*)? ;
// field = IDENT ("of" "type"?)? NAME ;
//
// Each variant also gets a constructor function named after it, taking the
// fields in order and returning a MakeVariant call.
func (p *Parser) typeDeclaration(where token.Token) ast.Node {
	name := p.identifier()
	p.consume(token.AS)
	p.consume(token.EITHER)
	if p.failed() {
		return nil
	}

	decl := &ast.TypeDeclaration{Location: where.Location, Name: name.Text}
	for {
		at := p.peek()
		variant := p.variant()
		if p.failed() {
			return nil
		}
		decl.Variants = append(decl.Variants, variant)
		decl.Constructors = append(decl.Constructors, constructor(at.Location, name.Text, variant))
		if !p.match(token.OR) {
			break
		}
	}

	return decl
}

func (p *Parser) variant() ast.Variant {
	name := p.identifier()
	v := ast.Variant{Name: name.Text, Fields: []ast.Field{}}
	if !p.match(token.WITH) {
		return v
	}
	for !p.failed() {
		field := p.identifier()
		if p.match(token.OF) {
			p.matchSoft(token.SoftType)
		}
		p.skipNewlines()
		typeName := p.peek()
		if !p.check(token.IDENTIFIER, token.TYPEIDENTIFIER, token.ANY, token.NOTHING) {
			p.recover(utils.PosError{Where: typeName, Err: fmt.Errorf("expected type for field %s", field.Text)})

			return v
		}
		p.advance()
		v.Fields = append(v.Fields, ast.Field{Name: field.Text, Type: typeName.Text})
		if !p.matchAnd() {
			break
		}
	}

	return v
}

func constructor(loc token.Location, typeName string, v ast.Variant) *ast.FunctionDeclaration {
	params := make([]ast.Parameter, 0, len(v.Fields))
	args := []ast.Node{ast.NewString(loc, typeName), ast.NewString(loc, v.Name)}
	for _, f := range v.Fields {
		params = append(params, ast.Parameter{Name: f.Name, TypeAnnotation: namedType(f.Type)})
		args = append(args, ast.NewString(loc, f.Name), &ast.VariableExpression{Location: loc, Identifier: f.Name})
	}

	return &ast.FunctionDeclaration{
		Location:   loc,
		Name:       v.Name,
		Parameters: params,
		ReturnType: ast.ClassType{Name: typeName},
		Body: &ast.ReturnStatement{
			Location:   loc,
			Expression: &ast.CallExpression{Location: loc, FunctionName: ast.MakeVariant, Arguments: args},
		},
	}
}

// module = NAME "that" "exports" IDENT (("," | "and") IDENT)* ;
func (p *Parser) moduleDeclaration(where token.Token) ast.Node {
	name := p.identifier()
	p.consume(token.THAT)
	if p.failed() {
		return nil
	}
	if !p.matchSoft(token.SoftExports) {
		p.recover(unexpectedToken(p.peek(), "`exports`"))

		return nil
	}

	decl := &ast.ModuleDeclaration{Location: where.Location, Name: name.Text, Exports: []string{}}
	for !p.failed() {
		decl.Exports = append(decl.Exports, p.identifier().Text)
		if !p.separator() {
			break
		}
	}
	if p.failed() {
		return nil
	}

	return decl
}

// import = "import" ("the" "module"?)? source ("as" IDENT)?
// | "from" source "import" name (("," | "and") name)* ;
// source = "file" TEXT | TEXT | IDENT ;
// name = ("function" | "variable" | "class")? IDENT ;
func (p *Parser) importStatement() ast.Node {
	where := p.advance()
	stmt := &ast.ImportStatement{Location: where.Location, SpecificImports: []string{}}

	if where.Kind == token.FROM {
		p.importSource(stmt)
		p.consume(token.IMPORT)
		for !p.failed() {
			if !p.match(token.FUNCTION, token.VARIABLE) {
				p.matchSoft(token.SoftClass)
			}
			stmt.SpecificImports = append(stmt.SpecificImports, p.identifier().Text)
			if !p.separator() {
				break
			}
		}
		if p.failed() {
			return nil
		}

		return stmt
	}

	if p.match(token.THE) {
		p.matchSoft(token.SoftModule)
	}
	p.importSource(stmt)
	if p.match(token.AS) {
		stmt.Alias = p.identifier().Text
	}
	if p.failed() {
		return nil
	}

	return stmt
}

func (p *Parser) importSource(stmt *ast.ImportStatement) {
	p.skipNewlines()
	if p.checkSoft(token.SoftFile) && p.peekAt(1).Kind == token.TEXT {
		p.advance()
		stmt.IsFilePath = true
	}
	if p.check(token.TEXT) {
		path, _ := p.advance().Literal.(string)
		stmt.ModuleName = path

		return
	}
	stmt.ModuleName = p.identifier().Text
}
