package driver

import (
	"fmt"

	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/lexer"
	"github.com/layman-lang/layman/parser"
)

type Pass interface {
	Init(*ast.Program) error
	Run(*ast.Program) (*ast.Program, error)
}

type PassRunner struct {
	passes []Pass
	opts   []parser.Option
}

// NewPassRunner returns a runner without passes. The options are given to
// every parser created by RunSource.
func NewPassRunner(opts ...parser.Option) *PassRunner {
	return &PassRunner{opts: opts}
}

// AddPass adds a pass to the end of the pass list.
func (r *PassRunner) AddPass(pass Pass) {
	r.passes = append(r.passes, pass)
}

// Run executes passes in order.
// If an error occurs, it stops the execution and returns the current program.
func (r *PassRunner) Run(program *ast.Program) (*ast.Program, error) {
	for _, pass := range r.passes {
		err := pass.Init(program)
		if err != nil {
			return program, fmt.Errorf("init: %w", err)
		}
		program, err = pass.Run(program)
		if err != nil {
			return program, fmt.Errorf("run: %w", err)
		}
	}

	return program, nil
}

// RunSource lexes and parses the source code and executes passes in order.
func (r *PassRunner) RunSource(source, filename string) (*ast.Program, error) {
	program, err := Parse(source, filename, r.opts...)
	if err != nil {
		return nil, err
	}

	return r.Run(program)
}

// Parse lexes and parses source without running any pass.
func Parse(source, filename string, opts ...parser.Option) (*ast.Program, error) {
	tokens, err := lexer.Lex(source, filename)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	program, err := parser.NewParser(tokens, opts...).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return program, nil
}
