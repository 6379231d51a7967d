package parser

import (
	"errors"

	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/token"
	"github.com/layman-lang/layman/utils"
)

// statement dispatches on the current token. The order of the cases matters:
// many productions share a leading word. A nil node with no error is a no-op
// such as a skipped line.
func (p *Parser) statement() ast.Node {
	p.skipNewlines()
	t := p.peek()
	if p.IsAtEnd() {
		p.recover(unexpectedToken(t, "statement"))

		return nil
	}

	// Declarations at column 0 always start a new top-level declaration.
	if t.Location.Column == 0 {
		switch t.Kind {
		case token.DEFINE:
			return p.define()
		case token.IMPORT:
			return p.importStatement()
		case token.STRUCT:
			p.advance()

			return p.structDeclaration(t)
		}
	}

	switch {
	case p.check(token.RETURN):
		return p.returnStatement()
	case p.checkSoft(token.SoftPrint):
		return p.printStatement()
	case p.checkSoft(token.SoftNoop):
		p.skipLine()

		return nil
	case p.check(token.PERIOD):
		p.advance()

		return nil
	case p.checkSoft(token.SoftEnd, token.SoftStrayEnd):
		p.errorf("unmatched closing block %q", t.Text)

		return nil
	case p.check(token.THE):
		return p.theStatement()
	case p.check(token.DEFINE):
		return p.define()
	case p.check(token.STRUCT):
		p.advance()

		return p.structDeclaration(t)
	case p.check(token.CALL):
		return &ast.ExpressionStatement{Location: t.Location, Expression: p.callExpression()}
	case p.check(token.IMPORT, token.FROM):
		return p.importStatement()
	case p.check(token.IF):
		return p.ifStatement()
	case p.check(token.INSPECT):
		return p.inspectStatement()
	case p.check(token.FOR):
		if p.lookahead(1).Kind == token.EACH {
			return p.forEachStatement()
		}
		p.skipLine()

		return nil
	case p.check(token.WHILE):
		return p.whileStatement()
	case p.check(token.REPEAT):
		return p.repeatStatement()
	case p.check(token.THROW):
		return p.throwStatement()
	case p.check(token.USING):
		return p.usingStatement()
	case p.check(token.RUN) && p.lookahead(1).Kind == token.CONCURRENTLY:
		return p.runConcurrentlyStatement()
	case p.check(token.TRY):
		return p.tryStatement()
	case p.check(token.DESCRIBE):
		return p.describeStatement()
	case p.check(token.TEST):
		return p.testStatement()
	case p.check(token.EXPECT):
		return p.expectStatement()
	case p.checkSoft(token.SoftSet) && isName(p.peekAt(1)):
		return p.setStatement()
	case p.check(token.IDENTIFIER) && p.isShortAssignment():
		return p.assignStatement()
	}

	return p.expressionStatement()
}

func isName(t token.Token) bool {
	return t.Kind == token.IDENTIFIER || t.Kind == token.TYPEIDENTIFIER
}

// isShortAssignment reports whether "NAME is|equals ..." assigns rather than
// compares. Comparison phrases such as "x is greater than 5" are expressions.
func (p *Parser) isShortAssignment() bool {
	switch p.peekAt(1).Kind {
	case token.EQUALS:
		return true
	case token.IS:
		switch p.peekAt(2).Kind {
		case token.GREATERTHAN, token.LESSTHAN, token.NOT:
			return false
		}

		return true
	}

	return false
}

// return = "return" expression? ;
func (p *Parser) returnStatement() ast.Node {
	ret := p.advance()
	if p.check(token.NEWLINE, token.EOF) {
		return &ast.ReturnStatement{Location: ret.Location}
	}

	return &ast.ReturnStatement{Location: ret.Location, Expression: p.expression()}
}

// print = "print" ("the" "variable")? expression ;
func (p *Parser) printStatement() ast.Node {
	where := p.advance()
	if p.check(token.THE) && p.peekAt(1).Kind == token.VARIABLE {
		p.advance()
		p.advance()
	}
	value := p.expression()

	return &ast.ExpressionStatement{
		Location:   where.Location,
		Expression: &ast.CallExpression{
			Location:     where.Location,
			FunctionName: "print",
			Arguments:    []ast.Node{value},
		},
	}
}

// theStatement handles a statement opening with "the". Only "the variable"
// and "the constant" declare; any other sentence is prose and is skipped.
func (p *Parser) theStatement() ast.Node {
	the := p.peek()
	switch p.lookahead(1).Kind {
	case token.VARIABLE, token.CONSTANT:
		switch p.lookahead(2).Kind {
		case token.RETURN, token.DEFINE, token.IMPORT:
			p.skipLine()

			return nil
		}
		p.advance()

		return p.variableDeclaration(the)
	}
	p.skipLine()

	return nil
}

// assign = IDENT ("is" | "equals") expression ;
func (p *Parser) assignStatement() ast.Node {
	name := p.advance()
	p.advance()

	return &ast.AssignStatement{
		Location:   name.Location,
		Identifier: name.Text,
		Expression: p.expression(),
		IsMutable:  true,
	}
}

// set = "set" IDENT ("in" | "of") postfix ("to" | "is" | "equals") expression
// | "set" IDENT ("to" | "is" | "equals") expression ;
func (p *Parser) setStatement() ast.Node {
	set := p.advance()
	name := p.identifier()

	if p.match(token.IN, token.OF) {
		object := p.postfix()
		if !p.match(token.TO, token.IS, token.EQUALS) {
			p.recover(unexpectedToken(p.peek(), "`to`", "`is`"))

			return nil
		}

		return &ast.SetStatement{Location: set.Location, Property: name.Text, Object: object, Value: p.expression()}
	}

	if p.match(token.TO, token.IS, token.EQUALS) {
		return &ast.AssignStatement{Location: set.Location, Identifier: name.Text, Expression: p.expression(), IsMutable: true}
	}

	p.recover(unexpectedToken(p.peek(), "`in`", "`of`", "`to`"))

	return nil
}

// if = "if" expression "then"? block (("otherwise" | "else") (if | block))? ;
func (p *Parser) ifStatement() ast.Node {
	return p.conditional(p.peek().Location)
}

// conditional parses an if whose else branches may not start left of anchor,
// the location of the first if of an else-if chain.
func (p *Parser) conditional(anchor token.Location) ast.Node {
	where := p.consume(token.IF)
	stmt := &ast.ConditionalStatement{Location: where.Location, Condition: p.expression()}
	p.match(token.THEN)
	if p.failed() {
		return stmt
	}

	atElse := func() bool { return p.check(token.ELSE, token.OTHERWISE) }
	items, closed := p.block("if", atElse, p.statement)
	stmt.ThenBranch = p.wrap(items)
	if closed {
		return stmt
	}

	// An else belongs to this if only when it is on the same line or not
	// left of anchor. Anything else is left for an enclosing if.
	saved := p.current
	p.skipNewlines()
	next := p.peek()
	if !atElse() || (next.Location.Line != where.Location.Line && next.Location.Column < anchor.Column) {
		p.current = saved

		return stmt
	}
	p.advance()
	if p.check(token.IF) {
		stmt.ElseBranch = p.conditional(anchor)

		return stmt
	}
	items, _ = p.block("if", nil, p.statement)
	stmt.ElseBranch = p.wrap(items)

	return stmt
}

// forEach = "for" "each" IDENT "in" expression "do" block ;
func (p *Parser) forEachStatement() ast.Node {
	where := p.consume(token.FOR)
	p.consume(token.EACH)
	iterator := p.identifier()
	p.consume(token.IN)
	loop := &ast.LoopStatement{Location: where.Location, LoopType: ast.ForEach, Iterator: iterator.Text, Collection: p.expression()}
	p.consume(token.DO)
	if p.failed() {
		return loop
	}
	items, _ := p.block("for", nil, p.statement)
	loop.Body = p.wrap(items)

	return loop
}

// while = "while" expression "do" block ;
func (p *Parser) whileStatement() ast.Node {
	where := p.consume(token.WHILE)
	loop := &ast.LoopStatement{Location: where.Location, LoopType: ast.While, Condition: p.expression()}
	p.consume(token.DO)
	if p.failed() {
		return loop
	}
	items, _ := p.block("while", nil, p.statement)
	loop.Body = p.wrap(items)

	return loop
}

// repeat = "repeat" block "until" expression ;
func (p *Parser) repeatStatement() ast.Node {
	where := p.consume(token.REPEAT)
	atUntil := func() bool { return p.check(token.UNTIL) }
	items, _ := p.block("repeat", atUntil, p.statement)
	loop := &ast.LoopStatement{Location: where.Location, LoopType: ast.Repeat, Body: p.wrap(items)}
	p.consume(token.UNTIL)
	loop.Condition = p.expression()

	return loop
}

var errThrowWithoutValue = errors.New("throw statement requires an expression")

// throw = "throw" expression ;
func (p *Parser) throwStatement() ast.Node {
	throw := p.advance()
	if p.check(token.NEWLINE, token.EOF) {
		p.recover(utils.PosError{Where: throw, Err: errThrowWithoutValue})

		return nil
	}

	return &ast.ThrowStatement{Location: throw.Location, Expression: p.expression()}
}

// try = "try" block ("catch" IDENT? block)? ;
func (p *Parser) tryStatement() ast.Node {
	where := p.advance()
	atCatch := func() bool { return p.check(token.CATCH) }
	items, closed := p.block("try", atCatch, p.statement)
	stmt := &ast.TryCatchStatement{Location: where.Location, TryBlock: p.wrap(items)}
	if closed {
		return stmt
	}

	saved := p.current
	if !p.match(token.CATCH) {
		p.current = saved

		return stmt
	}
	// The error name must be on the catch line.
	if p.check(token.IDENTIFIER) {
		stmt.ErrorVariable = p.advance().Text
	}
	items, _ = p.block("try", nil, p.statement)
	stmt.CatchBlock = p.wrap(items)

	return stmt
}

// using = "using" expression "as" IDENT "do" block ;
func (p *Parser) usingStatement() ast.Node {
	where := p.advance()
	resource := p.expression()
	p.consume(token.AS)
	name := p.identifier()
	p.consume(token.DO)
	stmt := &ast.UsingStatement{Location: where.Location, Resource: resource, Identifier: name.Text}
	if p.failed() {
		return stmt
	}
	items, _ := p.block("using", nil, p.statement)
	stmt.Body = p.wrap(items)

	return stmt
}

// runConcurrently = "run" "concurrently" block "and" "wait" "for" "all" ;
func (p *Parser) runConcurrentlyStatement() ast.Node {
	where := p.advance()
	p.consume(token.CONCURRENTLY)
	atWait := func() bool { return p.check(token.AND) && p.lookahead(1).Kind == token.WAIT }
	items, _ := p.block("", atWait, p.statement)
	p.consume(token.AND)
	p.consume(token.WAIT)
	p.consume(token.FOR)
	p.consume(token.ALL)

	return &ast.RunConcurrentlyStatement{Location: where.Location, Statements: items}
}

// inspect = "inspect" expression case* ;
func (p *Parser) inspectStatement() ast.Node {
	where := p.advance()
	stmt := &ast.InspectStatement{Location: where.Location, Expression: p.expression(), Cases: []*ast.Case{}}
	if p.failed() {
		return stmt
	}
	items, _ := p.block("inspect", nil, p.caseClause)
	for _, item := range items {
		if c, ok := item.(*ast.Case); ok {
			stmt.Cases = append(stmt.Cases, c)
		}
	}

	return stmt
}

// case = "case" IDENT "do" block ;
func (p *Parser) caseClause() ast.Node {
	where := p.consume(token.CASE)
	variant := p.identifier()
	p.consume(token.DO)
	c := &ast.Case{Location: where.Location, VariantName: variant.Text}
	if p.failed() {
		return c
	}
	items, _ := p.block("case", nil, p.statement)
	c.Body = p.wrap(items)

	return c
}

// suiteName = TEXT | IDENT ;
func (p *Parser) suiteName(construct string) string {
	p.skipNewlines()
	t := p.peek()
	switch {
	case t.Kind == token.TEXT:
		p.advance()
		name, _ := t.Literal.(string)

		return name
	case isName(t):
		p.advance()

		return t.Text
	}
	p.errorf("%s statement requires a name", construct)

	return ""
}

// mismatchedEnd returns a block stop that fails on "end <other>".
func (p *Parser) mismatchedEnd(closer, other string) func() bool {
	return func() bool {
		if p.checkSoft(token.SoftEnd) && word(p.lookahead(1)) == other {
			p.errorf("mismatched closing block: found `end %s`, expected `end %s`", other, closer)

			return true
		}

		return false
	}
}

// describe = "describe" suiteName block ;
// It is lowered to a call of the describe builtin with the name and a program.
func (p *Parser) describeStatement() ast.Node {
	where := p.advance()
	name := p.suiteName("describe")
	if p.failed() {
		return nil
	}
	items, _ := p.block("describe", p.mismatchedEnd("describe", "test"), p.statement)

	return &ast.CallExpression{
		Location:     where.Location,
		FunctionName: "describe",
		Arguments:    []ast.Node{
			ast.NewString(where.Location, name),
			&ast.Program{Location: where.Location, Statements: items},
		},
	}
}

// test = "test" suiteName block ;
func (p *Parser) testStatement() ast.Node {
	where := p.advance()
	name := p.suiteName("test")
	if p.failed() {
		return nil
	}
	items, _ := p.block("test", p.mismatchedEnd("test", "describe"), p.statement)

	return &ast.TestStatement{
		Location: where.Location,
		Name:     name,
		Body:     &ast.Program{Location: where.Location, Statements: items},
	}
}

// expect = "expect" expression ("is" expression)? ;
// It is lowered to a call of the expect builtin with the actual and expected values.
func (p *Parser) expectStatement() ast.Node {
	where := p.advance()
	actual := p.expression()
	if p.failed() {
		return nil
	}
	if op, ok := actual.(*ast.OperationExpression); ok && op.Operator == ast.Equals {
		return &ast.CallExpression{Location: where.Location, FunctionName: "expect", Arguments: []ast.Node{op.Left, op.Right}}
	}
	p.consume(token.IS)
	expected := p.expression()

	return &ast.CallExpression{Location: where.Location, FunctionName: "expect", Arguments: []ast.Node{actual, expected}}
}

// expressionStatement = expression ;
// An equality whose left side is an index, as in "a[i] = v", is an index assignment.
func (p *Parser) expressionStatement() ast.Node {
	where := p.peek()
	expr := p.expression()
	if p.failed() {
		return nil
	}
	if op, ok := expr.(*ast.OperationExpression); ok && op.Operator == ast.Equals {
		if index, ok := op.Left.(*ast.IndexExpression); ok {
			return &ast.IndexSetStatement{Location: where.Location, Object: index.Object, Index: index.Index, Value: op.Right}
		}
	}

	return &ast.ExpressionStatement{Location: where.Location, Expression: expr}
}
