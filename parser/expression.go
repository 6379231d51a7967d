package parser

import (
	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/token"
	"github.com/layman-lang/layman/utils"
)

// expression = or ;
func (p *Parser) expression() ast.Node {
	return p.or()
}

func binary(where token.Token, op ast.Operator, left, right ast.Node) *ast.OperationExpression {
	return &ast.OperationExpression{Location: where.Location, Operator: op, Left: left, Right: right}
}

// or = and ("or" and)* ;
func (p *Parser) or() ast.Node {
	expr := p.and()
	for !p.failed() && p.match(token.OR) {
		op := p.tokenAt(p.current - 1)
		expr = binary(op, ast.Or, expr, p.and())
	}

	return expr
}

// and = comparison ("and" comparison)* ;
// An "and" followed by "wait" closes a run-concurrently block and is left alone.
func (p *Parser) and() ast.Node {
	expr := p.comparison()
	for !p.failed() && p.matchAnd() {
		op := p.tokenAt(p.current - 1)
		expr = binary(op, ast.And, expr, p.comparison())
	}

	return expr
}

// matchAnd consumes an "and" that is not the start of "and wait".
func (p *Parser) matchAnd() bool {
	saved := p.current
	p.skipNewlines()
	if p.check(token.AND) && p.lookahead(1).Kind != token.WAIT {
		p.advance()

		return true
	}
	p.current = saved

	return false
}

// comparison = additive (comparisonOp additive | "exists")* ;
// comparisonOp = "is" ("greater" | "less") "than" ("or" "equal" "to"?)?
// | "is" "not" | "is" | "equals"
// | ("greater" | "less" | ">" | "<") "than"? (("or")? "equal" "to"?)? ;
func (p *Parser) comparison() ast.Node {
	expr := p.additive()
	for !p.failed() {
		p.skipNewlines()
		where := p.peek()
		switch {
		case p.check(token.EXISTS):
			p.advance()
			expr = &ast.OperationExpression{Location: where.Location, Operator: ast.Exists, Left: expr}
		case p.check(token.IS):
			next := p.lookahead(1).Kind
			if next == token.A && p.lookahead(2).Kind == token.NEW {
				// "is a new" is object construction, not a comparison.
				return expr
			}
			switch {
			case (next == token.GREATERTHAN || next == token.LESSTHAN) && p.lookahead(2).Kind == token.THAN:
				p.advance()
				p.advance()
				p.advance()
				op := ast.GreaterThan
				if next == token.LESSTHAN {
					op = ast.LessThan
				}
				expr = binary(where, p.orEqual(op), expr, p.additive())
			case next == token.NOT:
				p.advance()
				p.advance()
				expr = binary(where, ast.NotEquals, expr, p.additive())
			default:
				p.advance()
				expr = binary(where, ast.Equals, expr, p.additive())
			}
		case p.check(token.EQUALS):
			p.advance()
			expr = binary(where, ast.Equals, expr, p.additive())
		case p.check(token.GREATERTHAN, token.LESSTHAN):
			p.advance()
			op := ast.GreaterThan
			if where.Kind == token.LESSTHAN {
				op = ast.LessThan
			}
			p.match(token.THAN)
			if p.check(token.EQUALS) {
				// Symbol form: ">=" and "<=".
				p.advance()
				op = orEqual(op)
			} else {
				op = p.orEqual(op)
			}
			expr = binary(where, op, expr, p.additive())
		default:
			return expr
		}
	}

	return expr
}

// orEqual consumes an optional "or equal [to]" and widens op accordingly.
// "or" is left alone unless "equal" follows it.
func (p *Parser) orEqual(op ast.Operator) ast.Operator {
	saved := p.current
	p.skipNewlines()
	if p.check(token.OR) && p.lookahead(1).Kind == token.EQUALS {
		p.advance()
		p.advance()
		p.match(token.TO)

		return orEqual(op)
	}
	p.current = saved

	return op
}

func orEqual(op ast.Operator) ast.Operator {
	switch op {
	case ast.GreaterThan:
		return ast.GreaterThanOrEqual
	case ast.LessThan:
		return ast.LessThanOrEqual
	}

	return op
}

// additive = multiplicative (("+" | "-") multiplicative)* ;
func (p *Parser) additive() ast.Node {
	expr := p.multiplicative()
	for !p.failed() && p.match(token.PLUS, token.MINUS) {
		op := p.tokenAt(p.current - 1)
		operator := ast.Plus
		if op.Kind == token.MINUS {
			operator = ast.Minus
		}
		expr = binary(op, operator, expr, p.multiplicative())
	}

	return expr
}

// multiplicative = unary (("*" | "divided" "by"? | "/" | "%" | "modulo") unary)* ;
func (p *Parser) multiplicative() ast.Node {
	expr := p.unary()
	for !p.failed() && p.match(token.TIMES, token.DIVIDEDBY, token.MODULO) {
		op := p.tokenAt(p.current - 1)
		var operator ast.Operator
		switch op.Kind {
		case token.TIMES:
			operator = ast.Times
		case token.DIVIDEDBY:
			operator = ast.DividedBy
			if p.check(token.BY) {
				p.advance()
			}
		default:
			operator = ast.Modulo
		}
		expr = binary(op, operator, expr, p.unary())
	}

	return expr
}

// unary = "not" unary | "-" unary | "start" unary | "wait" "for" unary | postfix ;
func (p *Parser) unary() ast.Node {
	p.skipNewlines()
	where := p.peek()
	switch {
	case p.check(token.NOT):
		p.advance()

		return &ast.OperationExpression{Location: where.Location, Operator: ast.Not, Left: p.unary()}
	case p.check(token.MINUS):
		p.advance()

		return binary(where, ast.Minus, ast.NewNumber(where.Location, 0), p.unary())
	case p.check(token.START):
		p.advance()

		return &ast.StartExpression{Location: where.Location, Expression: p.unary()}
	case p.check(token.WAIT):
		p.advance()
		if !p.match(token.FOR) {
			p.recover(unexpectedToken(p.peek(), "`for` after `wait`"))

			return nil
		}

		return &ast.WaitExpression{Location: where.Location, Expression: p.unary()}
	}

	return p.postfix()
}

// postfix = callExpr | primary ("." IDENT | "[" expression "]")* ;
func (p *Parser) postfix() ast.Node {
	if p.check(token.CALL) {
		return p.callExpression()
	}

	expr := p.primary()
	for !p.failed() {
		saved := p.current
		p.skipNewlines()
		switch {
		case p.isAccess(p.current):
			p.advance()
			name := p.advance()
			if p.check(token.LEFTPAREN) {
				p.recover(utils.PosError{Where: name, Err: errCStyleCall})

				return expr
			}
			expr = &ast.AccessExpression{Location: expr.Pos(), Object: expr, Property: name.Text}
		case p.check(token.LEFTBRACKET):
			p.advance()
			index := p.expression()
			p.consume(token.RIGHTBRACKET)
			expr = &ast.IndexExpression{Location: expr.Pos(), Object: expr, Index: index}
		default:
			// A period that ends a sentence stays for the statement loop.
			p.current = saved

			return expr
		}
	}

	return expr
}

// isAccess reports whether the period at i starts a property access: the name
// must follow the period directly, and soft keywords are excluded. Otherwise
// the period ends a sentence, as in "print x. print y".
func (p *Parser) isAccess(i int) bool {
	period, name := p.tokenAt(i), p.tokenAt(i+1)
	if period.Kind != token.PERIOD || name.Location.Line != period.Location.Line ||
		name.Location.Column != period.Location.Column+1 {
		return false
	}
	switch name.Kind {
	case token.TYPEIDENTIFIER:
		return true
	case token.IDENTIFIER:
		return p.softAt(i+1) == token.SoftNone
	}

	return false
}

// callExpr = "call" "function"? name ("." name)* ("on" postfix)? ("with" arguments)? ;
func (p *Parser) callExpression() ast.Node {
	call := p.consume(token.CALL)
	p.match(token.FUNCTION)
	name := p.identifier()
	functionName := name.Text
	for !p.failed() && p.isAccess(p.current) {
		p.advance()
		functionName += "." + p.advance().Text
	}

	if p.checkSoft(token.SoftOn) {
		p.advance()
		object := p.postfix()
		method := &ast.MethodCall{Location: call.Location, Object: object, MethodName: functionName, Arguments: []ast.Node{}}
		if p.match(token.WITH) {
			method.Arguments = p.arguments()
		}

		return method
	}

	expr := &ast.CallExpression{Location: call.Location, FunctionName: functionName, Arguments: []ast.Node{}}
	if p.match(token.WITH) {
		expr.Arguments = p.arguments()
	}

	return expr
}

// arguments = ("argument" | "value" | "amount")? additive (("," | "and") arguments)? ;
func (p *Parser) arguments() []ast.Node {
	var args []ast.Node
	for !p.failed() {
		p.matchSoft(token.SoftArgument, token.SoftValue, token.SoftAmount)
		args = append(args, p.additive())
		if !p.separator() {
			break
		}
	}

	return args
}

// separator consumes a "," or an "and" that is not the start of "and wait".
func (p *Parser) separator() bool {
	if p.match(token.COMMA) {
		return true
	}

	return p.matchAnd()
}

// identifier consumes an identifier of either case. The article "a" is
// accepted too, since programs use it as a variable name.
func (p *Parser) identifier() token.Token {
	p.skipNewlines()
	if p.check(token.IDENTIFIER, token.TYPEIDENTIFIER, token.A) {
		return p.advance()
	}
	p.recover(unexpectedToken(p.peek(), "identifier"))

	return p.peek()
}

// primary = literal | lambda | "(" expression ")" | inlineIf | list | dictionary
// | item | new | get | "a" | IDENT ;
func (p *Parser) primary() ast.Node {
	p.skipNewlines()
	t := p.peek()
	switch t.Kind {
	case token.BOOLEAN:
		p.advance()
		value, _ := t.Literal.(bool)

		return ast.NewBool(t.Location, value)
	case token.NOTHING:
		p.advance()

		return ast.NewNothing(t.Location)
	case token.TEXT:
		p.advance()
		value, _ := t.Literal.(string)

		return ast.NewString(t.Location, value)
	case token.NUMBER:
		p.advance()
		value, _ := t.Literal.(float64)

		return ast.NewNumber(t.Location, value)
	case token.FUNCTION:
		return p.lambda()
	case token.LEFTPAREN:
		p.advance()
		expr := p.expression()
		p.consume(token.RIGHTPAREN)

		return expr
	case token.IF:
		return p.conditionalExpression()
	case token.THE, token.A:
		if node, ok := p.collection(); ok {
			return node
		}
	case token.DICTIONARY:
		return p.dictionary(t)
	}

	switch {
	case p.check(token.IS) && p.lookahead(1).Kind == token.A && p.lookahead(2).Kind == token.NEW:
		p.advance()
		p.advance()
		p.advance()

		return p.objectCreation(t)
	case p.check(token.NEW):
		p.advance()

		return p.objectCreation(t)
	case p.check(token.A) && p.lookahead(1).Kind == token.NEW:
		p.advance()
		p.advance()

		return p.objectCreation(t)
	case p.checkSoft(token.SoftItem) && p.isItemAccess():
		return p.item()
	case p.checkSoft(token.SoftGet):
		return p.get()
	case p.check(token.A):
		// "a" doubles as a variable name, as in "a modulo b".
		p.advance()

		return &ast.VariableExpression{Location: t.Location, Identifier: "a"}
	case p.check(token.IDENTIFIER, token.TYPEIDENTIFIER):
		p.advance()

		return &ast.VariableExpression{Location: t.Location, Identifier: t.Text}
	}

	p.recover(unexpectedToken(t, "expression"))

	return nil
}

// lambda = "function" "of" IDENT ("," IDENT)* "returning" expression ;
func (p *Parser) lambda() ast.Node {
	fn := p.consume(token.FUNCTION)
	if !p.match(token.OF) {
		p.recover(unexpectedToken(p.peek(), "`of` after `function` in lambda"))

		return nil
	}
	params := []ast.Parameter{{Name: p.identifier().Text}}
	for !p.failed() && p.match(token.COMMA) {
		params = append(params, ast.Parameter{Name: p.identifier().Text})
	}
	p.consume(token.RETURNING)
	body := p.expression()
	if p.failed() {
		return nil
	}

	return &ast.FunctionDeclaration{
		Location:   fn.Location,
		Name:       ast.LambdaName,
		Parameters: params,
		Body:       &ast.ReturnStatement{Location: body.Pos(), Expression: body},
	}
}

// inlineIf = "if" expression "then" expression ("otherwise" | "else") expression ;
func (p *Parser) conditionalExpression() ast.Node {
	where := p.consume(token.IF)
	condition := p.expression()
	p.consume(token.THEN)
	then := p.expression()
	if !p.match(token.OTHERWISE, token.ELSE) {
		p.recover(unexpectedToken(p.peek(), "`otherwise`", "`else`"))

		return nil
	}
	otherwise := p.expression()

	return &ast.ConditionalExpression{Location: where.Location, Condition: condition, ThenExpr: then, ElseExpr: otherwise}
}

// collection parses "the|a [empty] list ..." and "the|a [empty] dictionary ...".
// It reports false, consuming nothing, when the article starts something else.
func (p *Parser) collection() (ast.Node, bool) {
	article := p.peek()
	n := 1
	if p.lookaheadSoft(n) == token.SoftEmpty {
		n++
	}
	switch {
	case p.lookaheadSoft(n) == token.SoftList:
		p.advance()
		p.matchSoft(token.SoftEmpty)
		p.advance()

		return p.list(article), true
	case p.lookahead(n).Kind == token.DICTIONARY:
		p.advance()
		p.matchSoft(token.SoftEmpty)

		return p.dictionary(article), true
	}

	return nil, false
}

// list = "list" (("containing" | "with") additive (("," | "and") additive)*)? ;
func (p *Parser) list(where token.Token) ast.Node {
	call := &ast.CallExpression{Location: where.Location, FunctionName: ast.CreateList, Arguments: []ast.Node{}}
	if !p.check(token.WITH) && !p.checkSoft(token.SoftContaining) {
		return call
	}
	p.advance()
	for !p.failed() {
		call.Arguments = append(call.Arguments, p.additive())
		if !p.separator() {
			break
		}
	}

	return call
}

// dictionary = "dictionary" (("with" | "containing") entry (("," | "and") entry)*)? ;
// entry = additive ("is" | "equals") additive ;
func (p *Parser) dictionary(where token.Token) ast.Node {
	p.consume(token.DICTIONARY)
	call := &ast.CallExpression{Location: where.Location, FunctionName: ast.CreateDictionary, Arguments: []ast.Node{}}
	if !p.check(token.WITH) && !p.checkSoft(token.SoftContaining) {
		return call
	}
	p.advance()
	for !p.failed() {
		key := p.additive()
		if !p.match(token.IS, token.EQUALS) {
			p.recover(unexpectedToken(p.peek(), "`is`", "`equals`"))

			return call
		}
		call.Arguments = append(call.Arguments, key, p.additive())
		if !p.separator() {
			break
		}
	}

	return call
}

// isItemAccess tells "item N of C" apart from a variable named item.
func (p *Parser) isItemAccess() bool {
	switch p.peekAt(1).Kind {
	case token.NEWLINE, token.EOF, token.PLUS, token.MINUS, token.TIMES, token.DIVIDEDBY, token.MODULO,
		token.EQUALS, token.IS, token.GREATERTHAN, token.LESSTHAN, token.AND, token.OR, token.THEN, token.DO,
		token.COMMA, token.RIGHTPAREN, token.RIGHTBRACKET, token.PERIOD:
		return false
	}

	return true
}

// item = "item" additive ("of" | "in") additive ;
func (p *Parser) item() ast.Node {
	where := p.advance()
	index := p.additive()
	if !p.match(token.OF, token.IN) {
		p.recover(unexpectedToken(p.peek(), "`of`", "`in`"))

		return nil
	}
	object := p.additive()

	return &ast.IndexExpression{Location: where.Location, Object: object, Index: index}
}

// get = "get" IDENT "from" additive ;
func (p *Parser) get() ast.Node {
	where := p.advance()
	property := p.identifier()
	p.consume(token.FROM)
	object := p.additive()

	return &ast.AccessExpression{Location: where.Location, Object: object, Property: property.Text}
}

// objectCreation = ClassName ("with" property ((("," | "and") | NEWLINE) property)*)? ;
// property = IDENT ("which" "is"? | "is" | "as" | "equals") comparison ;
func (p *Parser) objectCreation(where token.Token) ast.Node {
	class := p.identifier()
	object := &ast.ObjectCreation{Location: where.Location, ClassName: class.Text, Properties: []ast.PropertyAssignment{}}
	if !p.match(token.WITH) {
		return object
	}
	p.skipNewlines()
	for !p.failed() && p.isPropertyStart(p.current) {
		name := p.advance()
		if p.matchSoft(token.SoftWhich) {
			p.match(token.IS)
		} else {
			p.match(token.IS, token.AS, token.EQUALS)
		}
		value := p.comparison()
		object.Properties = append(object.Properties, ast.PropertyAssignment{Location: name.Location, Name: name.Text, Value: value})

		// A separator only counts when another property follows it.
		saved := p.current
		p.skipNewlines()
		if p.check(token.COMMA, token.AND) {
			p.advance()
			p.skipNewlines()
		}
		if !p.isPropertyStart(p.current) {
			p.current = saved

			break
		}
	}

	return object
}

// isPropertyStart reports whether the tokens at i read as "name which|is|as|equals".
func (p *Parser) isPropertyStart(i int) bool {
	switch p.tokenAt(i).Kind {
	case token.IDENTIFIER, token.TYPEIDENTIFIER:
	default:
		return false
	}
	j := i + 1
	for j < len(p.tokens) && p.tokens[j].Kind == token.NEWLINE {
		j++
	}
	if p.softAt(j) == token.SoftWhich {
		return true
	}
	switch p.tokenAt(j).Kind {
	case token.IS, token.AS, token.EQUALS:
		return true
	}

	return false
}
