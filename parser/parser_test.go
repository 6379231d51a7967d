package parser_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/driver"
	"github.com/layman-lang/layman/lexer"
	"github.com/layman-lang/layman/parser"
	"github.com/layman-lang/layman/token"
	"github.com/layman-lang/layman/utils"
)

// ignoreLocations compares trees by shape only.
var ignoreLocations = cmp.Options{cmpopts.IgnoreTypes(token.Location{}), cmpopts.EquateEmpty()}

func runTest(tb testing.TB, label, input string, expected map[string]string) {
	tb.Helper()
	program, err := driver.Parse(input, "")

	if want, ok := expected["error"]; ok {
		if err == nil {
			tb.Errorf("%s: expected error containing %q, got %v", label, want, program)
		} else if !strings.Contains(err.Error(), want) {
			tb.Errorf("%s: error %q does not contain %q", label, err, want)
		}
		return
	}

	if err != nil {
		tb.Errorf("%s: %v", label, err)
		return
	}
	if want, ok := expected["parser"]; ok && program.String() != want {
		tb.Errorf("%s: mismatch (-want +got):\n%s", label, cmp.Diff(want, program.String()))
	}
}

func TestParseFromTestData(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)
	for _, testcase := range testcases {
		runTest(t, testcase.Label, testcase.Input, testcase.Expected)
	}
}

func BenchmarkFromTestData(b *testing.B) {
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)

	for _, testcase := range testcases {
		b.Run(testcase.Label, func(b *testing.B) {
			for range b.N {
				runTest(b, testcase.Label, testcase.Input, testcase.Expected)
			}
		})
	}
}

func mustParse(t *testing.T, src string, opts ...parser.Option) *ast.Program {
	t.Helper()
	tokens, err := lexer.Lex(src, "test.lay")
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	program, err := parser.NewParser(tokens, opts...).Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return program
}

func parseErr(t *testing.T, src string, opts ...parser.Option) error {
	t.Helper()
	tokens, err := lexer.Lex(src, "test.lay")
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	program, err := parser.NewParser(tokens, opts...).Parse()
	if err == nil {
		t.Fatalf("parse %q: expected an error, got %v", src, program)
	}
	if program != nil {
		t.Errorf("parse %q: a failed parse returned a partial program %v", src, program)
	}
	return err
}

func variable(name string) *ast.VariableExpression {
	return &ast.VariableExpression{Identifier: name}
}

func number(n float64) *ast.LiteralExpression {
	return ast.NewNumber(token.Location{}, n)
}

func TestObjectCreationIsNotComparison(t *testing.T) {
	t.Parallel()

	program := mustParse(t, "the variable p is a new Point with x which is 1 and y which is 2")
	want := []ast.Node{
		&ast.DeclareStatement{
			Name:      "p",
			IsMutable: true,
			Value: &ast.ObjectCreation{
				ClassName: "Point",
				Properties: []ast.PropertyAssignment{
					{Name: "x", Value: number(1)},
					{Name: "y", Value: number(2)},
				},
			},
		},
	}
	if diff := cmp.Diff(want, program.Statements, ignoreLocations); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPrecedence(t *testing.T) {
	t.Parallel()

	program := mustParse(t, "x is 3 plus 4 times 2")
	want := []ast.Node{
		&ast.AssignStatement{
			Identifier: "x",
			IsMutable:  true,
			Expression: &ast.OperationExpression{
				Operator: ast.Plus,
				Left:     number(3),
				Right:    &ast.OperationExpression{Operator: ast.Times, Left: number(4), Right: number(2)},
			},
		},
	}
	if diff := cmp.Diff(want, program.Statements, ignoreLocations); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSumTypeLowering(t *testing.T) {
	t.Parallel()

	program := mustParse(t, "define type Shape as either Circle with radius of type Number or Square with side of type Number")
	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Statements))
	}
	decl, ok := program.Statements[0].(*ast.TypeDeclaration)
	if !ok {
		t.Fatalf("got %T, want *ast.TypeDeclaration", program.Statements[0])
	}

	wantVariants := []ast.Variant{
		{Name: "Circle", Fields: []ast.Field{{Name: "radius", Type: "Number"}}},
		{Name: "Square", Fields: []ast.Field{{Name: "side", Type: "Number"}}},
	}
	if diff := cmp.Diff(wantVariants, decl.Variants); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}

	wantCircle := &ast.FunctionDeclaration{
		Name:       "Circle",
		Parameters: []ast.Parameter{{Name: "radius", TypeAnnotation: ast.Number}},
		ReturnType: ast.ClassType{Name: "Shape"},
		Body: &ast.ReturnStatement{
			Expression: &ast.CallExpression{
				FunctionName: ast.MakeVariant,
				Arguments: []ast.Node{
					ast.NewString(token.Location{}, "Shape"),
					ast.NewString(token.Location{}, "Circle"),
					ast.NewString(token.Location{}, "radius"),
					variable("radius"),
				},
			},
		},
	}
	if len(decl.Constructors) != 2 {
		t.Fatalf("got %d constructors, want 2", len(decl.Constructors))
	}
	if diff := cmp.Diff(wantCircle, decl.Constructors[0], ignoreLocations); diff != "" {
		t.Errorf("constructor mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockBodyShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, body ast.Node)
	}{
		{
			name:  "empty body is void",
			input: "define function f\ndefine function g\n",
			check: func(t *testing.T, body ast.Node) {
				lit, ok := body.(*ast.LiteralExpression)
				if !ok || lit.Kind != ast.VoidLiteral {
					t.Errorf("body = %v, want a void literal", body)
				}
			},
		},
		{
			name:  "single statement is used directly",
			input: "define function f\n    return 1\n",
			check: func(t *testing.T, body ast.Node) {
				if _, ok := body.(*ast.ReturnStatement); !ok {
					t.Errorf("body = %T, want *ast.ReturnStatement", body)
				}
			},
		},
		{
			name:  "several statements are wrapped",
			input: "define function f\n    print 1\n    return 2\nend function\n",
			check: func(t *testing.T, body ast.Node) {
				p, ok := body.(*ast.Program)
				if !ok || len(p.Statements) != 2 {
					t.Errorf("body = %v, want a program of two statements", body)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			program := mustParse(t, tt.input)
			fn, ok := program.Statements[0].(*ast.FunctionDeclaration)
			if !ok {
				t.Fatalf("got %T, want *ast.FunctionDeclaration", program.Statements[0])
			}
			tt.check(t, fn.Body)
		})
	}
}

func TestBlockEndsAtTopLevelDeclaration(t *testing.T) {
	t.Parallel()

	src := `define function first
    print 1
the variable x is 2
define function second
    print 3
`
	program := mustParse(t, src)
	want := "(program (function first () (stmt (call print 1))) (declare variable x 2) (function second () (stmt (call print 3))))"
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestBlockEndsOnDedent(t *testing.T) {
	t.Parallel()

	src := `if x is 1 then
    print 1
    print 2
print 3
`
	program := mustParse(t, src)
	want := "(program (if (= x 1) (program (stmt (call print 1)) (stmt (call print 2)))) (stmt (call print 3)))"
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestClosingWordIgnoresCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"while x do\n    print 1\nEnd While\nprint 2\n", "(program (while x (stmt (call print 1))) (stmt (call print 2)))"},
		{"define function f\n    print 1\nEND FUNCTION\nprint 2\n", "(program (function f () (stmt (call print 1))) (stmt (call print 2)))"},
		{"try\n    print 1\nEnd try\nprint 2\n", "(program (try (stmt (call print 1))) (stmt (call print 2)))"},
	}

	for _, tt := range tests {
		program := mustParse(t, tt.input)
		if got := program.String(); got != tt.want {
			t.Errorf("%q: mismatch (-want +got):\n%s", tt.input, cmp.Diff(tt.want, got))
		}
	}

	err := parseErr(t, "print 1\nEND if\n")
	if !strings.Contains(err.Error(), "unmatched closing block") {
		t.Errorf("got %v, want an unmatched closing block error", err)
	}
}

func TestNestedBlocksCloseIndependently(t *testing.T) {
	t.Parallel()

	src := `define function f
    while x is less than 3 do
        x is x plus 1
    end while
    return x
end function
print 1
`
	program := mustParse(t, src)
	want := "(program (function f () (program (while (< x 3) (assign x (+ x 1))) (return x))) (stmt (call print 1)))"
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestElseBindsByColumn(t *testing.T) {
	t.Parallel()

	src := `if a is 1 then
    if b is 2 then
        print 1
otherwise
    print 2
`
	program := mustParse(t, src)
	want := "(program (if (= a 1) (if (= b 2) (stmt (call print 1))) (stmt (call print 2))))"
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestElseIf(t *testing.T) {
	t.Parallel()

	src := `if x is 1 then
    print "one"
otherwise if x is 2 then
    print "two"
otherwise
    print "many"
`
	program := mustParse(t, src)
	want := `(program (if (= x 1) (stmt (call print "one")) (if (= x 2) (stmt (call print "two")) (stmt (call print "many")))))`
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestTopLevelIsStrict(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "print 1\nfor each in items do\n    print 2\n")

	var unexpected parser.UnexpectedTokenError
	if !errors.As(err, &unexpected) {
		t.Fatalf("error %v does not wrap an UnexpectedTokenError", err)
	}
	if diff := cmp.Diff([]string{"identifier"}, unexpected.Expected); diff != "" {
		t.Errorf("expected mismatch (-want +got):\n%s", diff)
	}

	var pos utils.PosError
	if !errors.As(err, &pos) {
		t.Fatalf("error %v is not positioned", err)
	}
	if pos.Where.Location.Line != 2 || pos.Where.Location.Column != 9 {
		t.Errorf("error at %v, want 2:9", pos.Where.Location)
	}
}

func TestBlockIsForgiving(t *testing.T) {
	t.Parallel()

	// "print" is not a class member, so the class body ends there and the
	// statement is parsed again at the top level.
	src := `define class Counter that has
    property count which is Number
    print "ready"
`
	program := mustParse(t, src)
	want := `(program (class Counter (property count Number)) (stmt (call print "ready")))`
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestMaxIterations(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "print 1\nprint 2\n", parser.WithMaxIterations(1))
	if !errors.Is(err, parser.ErrMaxIterations) {
		t.Errorf("got %v, want ErrMaxIterations", err)
	}

	// The default budget is far above what ordinary programs use.
	mustParse(t, strings.Repeat("print 1\n", 1000))
}

func TestStreamWithoutEOFRunsOutOfFuel(t *testing.T) {
	t.Parallel()

	tokens := []token.Token{{Kind: token.IDENTIFIER, Text: "x"}}
	_, err := parser.NewParser(tokens, parser.WithMaxIterations(50)).Parse()
	if !errors.Is(err, parser.ErrMaxIterations) {
		t.Errorf("got %v, want ErrMaxIterations", err)
	}
}

func TestParseExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"1 plus 2 times 3", "(+ 1 (* 2 3))"},
		{"(1 plus 2) times 3", "(* (+ 1 2) 3)"},
		{"10 divided by 2 minus 1", "(- (/ 10 2) 1)"},
		{"a modulo b", "(% a b)"},
		{"x > 3 and y <= 4 or z", "(or (and (> x 3) (<= y 4)) z)"},
		{"x is not nothing", "(!= x nothing)"},
		{"x is less than or equal to 2", "(<= x 2)"},
		{"x greater than 2", "(> x 2)"},
		{"result exists", "(exists result)"},
		{"dog.name", "(access dog name)"},
		{"dog.owner.name", "(access (access dog owner) name)"},
		{"grid[1][2]", "(index (index grid 1) 2)"},
		{"get name from dog", "(access dog name)"},
		{"wait for start call fetch", "(wait (start (call fetch)))"},
		{"call math.sqrt with 16", "(call math.sqrt 16)"},
		{"call function add with argument 1 and value 2", "(call add 1 2)"},
		{"the empty list", "(call create_list)"},
		{"an empty dictionary", "(call create_dictionary)"},
		{"new Point", "(new Point)"},
		{`"a" plus "b"`, `(+ "a" "b")`},
		{"true and not false", "(and true (not false))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			tokens, err := lexer.Lex(tt.input, "")
			if err != nil {
				t.Fatalf("lex: %v", err)
			}
			expr, err := parser.NewParser(tokens).ParseExpression()
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := expr.String(); got != tt.want {
				t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(tt.want, got))
			}
		})
	}
}

func TestCStyleCallIsRejected(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "print dog.bark()")
	if !strings.Contains(err.Error(), "C-style calls") {
		t.Errorf("got %v, want the C-style call error", err)
	}
}

func TestPeriodEndsSentence(t *testing.T) {
	t.Parallel()

	program := mustParse(t, "print x. print y.")
	want := "(program (stmt (call print x)) (stmt (call print y)))"
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  ast.Type
	}{
		{"number", ast.Number},
		{"text", ast.String},
		{"Boolean", ast.Bool},
		{"nothing", ast.Void},
		{"any", ast.AnyType},
		{"list", ast.ListType{Element: ast.AnyType}},
		{"list of number", ast.ListType{Element: ast.Number}},
		{"maybe Dog", ast.MaybeType{Inner: ast.ClassType{Name: "Dog"}}},
		{"dictionary", ast.DictionaryType{Key: ast.String, Value: ast.AnyType}},
		{"dictionary of text to number", ast.DictionaryType{Key: ast.String, Value: ast.Number}},
		{"tuple of (number, text)", ast.TupleType{Elements: []ast.Type{ast.Number, ast.String}}},
		{"set of number", ast.SetType{Element: ast.Number}},
		{"function of (number, number) returning number", ast.FunctionType{
			Parameters: []ast.Type{ast.Number, ast.Number},
			Return:     ast.Number,
		}},
		{"function", ast.FunctionType{Parameters: []ast.Type{}, Return: ast.Void}},
		{"element", ast.GenericType{Name: "element"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			program := mustParse(t, "the variable v as "+tt.input)
			decl, ok := program.Statements[0].(*ast.DeclareStatement)
			if !ok {
				t.Fatalf("got %T, want *ast.DeclareStatement", program.Statements[0])
			}
			if diff := cmp.Diff(tt.want, decl.TypeAnnotation, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatementLocations(t *testing.T) {
	t.Parallel()

	program := mustParse(t, "x is 1\n  y is 2\n")
	type pos struct{ Line, Column int }
	var got []pos
	for _, s := range program.Statements {
		got = append(got, pos{s.Pos().Line, s.Pos().Column})
	}
	if diff := cmp.Diff([]pos{{1, 0}, {2, 2}}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if file := program.Statements[1].Pos().File; file != "test.lay" {
		t.Errorf("file = %q, want test.lay", file)
	}
}

func TestNoOps(t *testing.T) {
	t.Parallel()

	src := `output the greeting
for the record this line is prose
print 1
.
`
	program := mustParse(t, src)
	want := "(program (stmt (call print 1)))"
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestImports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  *ast.ImportStatement
	}{
		{"import math", &ast.ImportStatement{ModuleName: "math"}},
		{`import file "lib/util.lay" as util`, &ast.ImportStatement{ModuleName: "lib/util.lay", Alias: "util", IsFilePath: true}},
		{"from shapes import function area, class Circle and variable pi", &ast.ImportStatement{
			ModuleName:      "shapes",
			SpecificImports: []string{"area", "Circle", "pi"},
		}},
	}

	for _, tt := range tests {
		program := mustParse(t, tt.input)
		if diff := cmp.Diff([]ast.Node{tt.want}, program.Statements, ignoreLocations); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestBackgroundFunctionAndModule(t *testing.T) {
	t.Parallel()

	src := `define background function fetch that takes url
    return url
define module web that exports fetch, post and get
`
	program := mustParse(t, src)
	want := "(program (background-function fetch (url) (return url)) (module web fetch post get))"
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestStruct(t *testing.T) {
	t.Parallel()

	program := mustParse(t, "struct Point with x as number and y as number")
	want := []ast.Node{
		&ast.StructDeclaration{
			Name: "Point",
			Properties: []*ast.PropertyDeclaration{
				{Name: "x", TypeAnnotation: ast.Number},
				{Name: "y", TypeAnnotation: ast.Number},
			},
		},
	}
	if diff := cmp.Diff(want, program.Statements, ignoreLocations); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUsing(t *testing.T) {
	t.Parallel()

	src := `using call open with "data.txt" as file do
    print file
end using
`
	program := mustParse(t, src)
	want := `(program (using (call open "data.txt") file (stmt (call print file))))`
	if got := program.String(); got != want {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestThrowRequiresValue(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "throw\n")
	if !strings.Contains(err.Error(), "throw statement requires an expression") {
		t.Errorf("got %v", err)
	}
}
