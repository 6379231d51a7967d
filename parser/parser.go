package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/token"
	"github.com/layman-lang/layman/utils"
)

// DefaultMaxIterations bounds the statement and block loops of one parse.
const DefaultMaxIterations = 100000

// ErrMaxIterations is returned when a parse runs out of iterations, which only
// happens when some production stops advancing the cursor.
var ErrMaxIterations = errors.New("parser exceeded maximum iterations - possible infinite loop")

// Parser turns a token stream into a program. A Parser is used for one parse.
type Parser struct {
	tokens  []token.Token
	soft    []token.Soft
	current int
	err     error

	iterations    int
	maxIterations int
	outOfFuel     bool

	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxIterations overrides DefaultMaxIterations. Values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxIterations = n
		}
	}
}

// WithLogger sets the logger receiving debug records, such as statement errors
// that end a block instead of failing the parse.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser returns a parser over tokens, which should end with an EOF token.
func NewParser(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{
		tokens:        tokens,
		soft:          make([]token.Soft, len(tokens)),
		maxIterations: DefaultMaxIterations,
		logger:        slog.New(slog.DiscardHandler),
	}
	for i, t := range tokens {
		p.soft[i] = token.Classify(t)
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse parses the whole token stream. Any statement error at the top level
// fails the parse and no partial program is returned.
func (p *Parser) Parse() (*ast.Program, error) {
	p.err = nil
	statements := []ast.Node{}
	for p.tick() {
		p.skipNewlines()
		if p.IsAtEnd() {
			break
		}
		stmt := p.statement()
		if p.failed() {
			break
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}

	if p.outOfFuel {
		return nil, ErrMaxIterations
	}
	if p.err != nil {
		return nil, p.err
	}

	location := p.peek().Location
	if len(statements) > 0 {
		location = statements[0].Pos()
	}

	return &ast.Program{Location: location, Statements: statements}, nil
}

// ParseExpression parses a single expression, skipping leading newlines.
func (p *Parser) ParseExpression() (ast.Node, error) {
	p.err = nil
	p.skipNewlines()
	expr := p.expression()

	if p.outOfFuel {
		return nil, ErrMaxIterations
	}
	if p.err != nil {
		return nil, p.err
	}

	return expr, nil
}

// tick spends one iteration. It reports false once the budget is spent.
func (p *Parser) tick() bool {
	if p.iterations >= p.maxIterations {
		p.outOfFuel = true

		return false
	}
	p.iterations++

	return true
}

func (p *Parser) failed() bool {
	return p.err != nil || p.outOfFuel
}

func (p *Parser) recover(err error) {
	if p.err == nil {
		p.err = err
	}
}

// errorf records an error positioned at the current token.
func (p *Parser) errorf(format string, args ...any) {
	p.recover(utils.PosError{Where: p.peek(), Err: fmt.Errorf(format, args...)})
}

func (p *Parser) tokenAt(i int) token.Token {
	if len(p.tokens) == 0 {
		return token.Token{Kind: token.EOF}
	}
	if i < 0 {
		i = 0
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[i]
}

func (p *Parser) softAt(i int) token.Soft {
	if i < 0 || i >= len(p.soft) {
		return token.SoftNone
	}

	return p.soft[i]
}

func (p *Parser) peek() token.Token {
	return p.tokenAt(p.current)
}

// peekAt returns the token n positions ahead, newlines included.
func (p *Parser) peekAt(n int) token.Token {
	return p.tokenAt(p.current + n)
}

// lookaheadIndex returns the index of the n-th non-newline token after the current one.
func (p *Parser) lookaheadIndex(n int) int {
	i := p.current
	for ; n > 0; n-- {
		i++
		for i < len(p.tokens) && p.tokens[i].Kind == token.NEWLINE {
			i++
		}
	}

	return i
}

func (p *Parser) lookahead(n int) token.Token {
	return p.tokenAt(p.lookaheadIndex(n))
}

func (p *Parser) lookaheadSoft(n int) token.Soft {
	return p.softAt(p.lookaheadIndex(n))
}

func (p *Parser) IsAtEnd() bool {
	return p.peek().Kind == token.EOF
}

// advance returns the current token and moves past it. The cursor never moves
// beyond the last token; a stream that does not end in EOF spends an iteration
// each time it gets stuck there.
func (p *Parser) advance() token.Token {
	t := p.peek()
	switch {
	case p.IsAtEnd():
	case p.current < len(p.tokens)-1:
		p.current++
	default:
		p.tick()
	}

	return t
}

// check reports whether the current token has one of the kinds. It neither
// skips newlines nor consumes.
func (p *Parser) check(kinds ...token.Kind) bool {
	if p.outOfFuel {
		return false
	}
	k := p.peek().Kind
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}

	return false
}

func (p *Parser) checkSoft(softs ...token.Soft) bool {
	if p.outOfFuel {
		return false
	}
	s := p.softAt(p.current)
	for _, soft := range softs {
		if s == soft {
			return true
		}
	}

	return false
}

// match skips newlines, then consumes the current token if it has one of the kinds.
func (p *Parser) match(kinds ...token.Kind) bool {
	p.skipNewlines()
	if p.check(kinds...) {
		p.advance()

		return true
	}

	return false
}

func (p *Parser) matchSoft(softs ...token.Soft) bool {
	p.skipNewlines()
	if p.checkSoft(softs...) {
		p.advance()

		return true
	}

	return false
}

func (p *Parser) consume(kind token.Kind) token.Token {
	p.skipNewlines()
	if p.check(kind) {
		return p.advance()
	}

	p.recover(unexpectedToken(p.peek(), kind.String()))

	return p.peek()
}

func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) && p.current < len(p.tokens)-1 {
		p.current++
	}
}

// skipLine drops the rest of the current line, leaving the newline in place.
func (p *Parser) skipLine() {
	for !p.IsAtEnd() && !p.check(token.NEWLINE) && !p.outOfFuel {
		p.advance()
	}
}

// word returns the lowercased text of a token, used for closing keywords.
func word(t token.Token) string {
	return strings.ToLower(t.Text)
}

// UnexpectedTokenError lists what the parser expected where it failed.
type UnexpectedTokenError struct {
	Expected []string
}

func (e UnexpectedTokenError) Error() string {
	return "unexpected token: expected " + strings.Join(e.Expected, ", ")
}

var errCStyleCall = errors.New("C-style calls like obj.method() are not allowed, use `call method on obj`")

func unexpectedToken(t token.Token, expected ...string) error {
	return utils.PosError{Where: t, Err: UnexpectedTokenError{Expected: expected}}
}

// try runs action speculatively. If action records an error, the cursor and
// the error state are restored and the result of recover is returned together
// with the error.
func try[T any](p *Parser, action func() T, recover func() T) (T, error) {
	savedErr := p.err
	savedCurrent := p.current

	node := action()
	if p.err != nil {
		raisedErr := p.err
		p.err = savedErr
		p.current = savedCurrent

		return recover(), raisedErr
	}

	return node, nil
}
