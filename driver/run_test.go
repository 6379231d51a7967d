package driver_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/driver"
	"github.com/layman-lang/layman/lexer"
	"github.com/layman-lang/layman/parser"
)

// recorder appends its name to a shared log when it is initialized and run.
type recorder struct {
	name    string
	log     *[]string
	initErr error
	runErr  error
}

func (r *recorder) Init(*ast.Program) error {
	*r.log = append(*r.log, "init "+r.name)
	return r.initErr
}

func (r *recorder) Run(program *ast.Program) (*ast.Program, error) {
	*r.log = append(*r.log, "run "+r.name)
	return program, r.runErr
}

// dropper removes every statement after the first.
type dropper struct{}

func (dropper) Init(*ast.Program) error { return nil }

func (dropper) Run(program *ast.Program) (*ast.Program, error) {
	if len(program.Statements) > 1 {
		program.Statements = program.Statements[:1]
	}
	return program, nil
}

func TestPassOrder(t *testing.T) {
	t.Parallel()

	var log []string
	r := driver.NewPassRunner()
	r.AddPass(&recorder{name: "first", log: &log})
	r.AddPass(dropper{})
	r.AddPass(&recorder{name: "second", log: &log})

	program, err := r.RunSource("print 1\nprint 2\n", "order.lay")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"init first", "run first", "init second", "run second"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("pass order mismatch (-want +got):\n%s", diff)
	}
	if got := program.String(); got != "(program (stmt (call print 1)))" {
		t.Errorf("program = %s", got)
	}
}

func TestPassErrorsStopTheRunner(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	tests := []struct {
		name    string
		pass    *recorder
		prefix  string
		wantLog []string
	}{
		{"init", &recorder{name: "bad", initErr: errBoom}, "init: ", []string{"init bad"}},
		{"run", &recorder{name: "bad", runErr: errBoom}, "run: ", []string{"init bad", "run bad"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var log []string
			tt.pass.log = &log
			r := driver.NewPassRunner()
			r.AddPass(tt.pass)
			r.AddPass(&recorder{name: "never", log: &log})

			program, err := r.RunSource("print 1", "")
			if !errors.Is(err, errBoom) {
				t.Fatalf("got %v, want %v", err, errBoom)
			}
			if !strings.HasPrefix(err.Error(), tt.prefix) {
				t.Errorf("error %q does not start with %q", err, tt.prefix)
			}
			if program == nil {
				t.Error("the program is returned with the error")
			}
			if diff := cmp.Diff(tt.wantLog, log); diff != "" {
				t.Errorf("log mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := driver.Parse("x is 1.2.3", "bad.lay")
	var invalid lexer.InvalidNumberError
	if !errors.As(err, &invalid) || !strings.HasPrefix(err.Error(), "lex: ") {
		t.Errorf("got %v, want a lex error", err)
	}

	_, err = driver.Parse("end if", "bad.lay")
	if err == nil || !strings.HasPrefix(err.Error(), "parse: ") {
		t.Errorf("got %v, want a parse error", err)
	}

	// The parser options reach the parser.
	_, err = driver.Parse("print 1\nprint 2", "", parser.WithMaxIterations(1))
	if !errors.Is(err, parser.ErrMaxIterations) {
		t.Errorf("got %v, want ErrMaxIterations", err)
	}
}

func TestRunSourceUsesOptions(t *testing.T) {
	t.Parallel()

	var log []string
	r := driver.NewPassRunner(parser.WithMaxIterations(1))
	r.AddPass(&recorder{name: "unreached", log: &log})
	if _, err := r.RunSource("print 1\nprint 2", ""); !errors.Is(err, parser.ErrMaxIterations) {
		t.Errorf("got %v, want ErrMaxIterations", err)
	}
	if len(log) != 0 {
		t.Errorf("passes ran after a failed parse: %v", log)
	}
}
