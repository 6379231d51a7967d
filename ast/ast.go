package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/layman-lang/layman/token"
)

// Reserved builtin names. Some surface forms are lowered to calls of these
// instead of getting their own node, so every consumer of the tree must know them.
const (
	// CreateList receives the list elements in order.
	CreateList = "create_list"
	// CreateDictionary receives alternating keys and values.
	CreateDictionary = "create_dictionary"
	// MakeVariant receives the type name, the variant name, and then a
	// field name literal followed by the field value for each field.
	MakeVariant = "__make_variant"
	// LambdaName names the FunctionDeclaration built for `function of ... returning ...`.
	LambdaName = "<lambda>"
)

type Node interface {
	fmt.Stringer
	Pos() token.Location
	// Plate applies the given function to each child node.
	// If f returns an error, f also must return the original argument n.
	Plate(error, func(Node, error) (Node, error)) (Node, error)
}

// plate applies f to a child that may be nil.
func plate(n Node, err error, f func(Node, error) (Node, error)) (Node, error) {
	if n == nil {
		return nil, err
	}
	return f(n, err)
}

// plateAs is plate for children stored with a concrete type. A replacement of
// another type is ignored.
func plateAs[T Node](n T, err error, f func(Node, error) (Node, error)) (T, error) {
	r, err := f(n, err)
	if t, ok := r.(T); ok {
		return t, err
	}
	return n, err
}

func plateAll(ns []Node, err error, f func(Node, error) (Node, error)) error {
	for i, n := range ns {
		ns[i], err = f(n, err)
	}
	return err
}

// Program is the root of a parse, and also the wrapper of block bodies with
// more than one statement.
type Program struct {
	Location   token.Location `json:"location"`
	Statements []Node         `json:"statements"`
}

func (p Program) String() string {
	return parenthesize("program", concat(p.Statements)).String()
}

func (p *Program) Pos() token.Location { return p.Location }

func (p *Program) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	return p, plateAll(p.Statements, err, f)
}

var _ Node = &Program{}

// Statements

type AssignStatement struct {
	Location   token.Location `json:"location"`
	Identifier string         `json:"identifier"`
	Expression Node           `json:"expression"`
	IsMutable  bool           `json:"is_mutable"`
}

func (a AssignStatement) String() string {
	return parenthesize("assign", atom(a.Identifier), a.Expression).String()
}

func (a *AssignStatement) Pos() token.Location { return a.Location }

func (a *AssignStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	a.Expression, err = plate(a.Expression, err, f)
	return a, err
}

var _ Node = &AssignStatement{}

type DeclareStatement struct {
	Location       token.Location `json:"location"`
	Name           string         `json:"name"`
	Value          Node           `json:"value"`
	TypeAnnotation Type           `json:"type_annotation"`
	IsMutable      bool           `json:"is_mutable"`
}

func (d DeclareStatement) String() string {
	mode := "variable"
	if !d.IsMutable {
		mode = "constant"
	}
	return parenthesize("declare", atom(mode), atom(d.Name), typeString(d.TypeAnnotation), d.Value).String()
}

func (d *DeclareStatement) Pos() token.Location { return d.Location }

func (d *DeclareStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	d.Value, err = plate(d.Value, err, f)
	return d, err
}

var _ Node = &DeclareStatement{}

type ConditionalStatement struct {
	Location   token.Location `json:"location"`
	Condition  Node           `json:"condition"`
	ThenBranch Node           `json:"then_branch"`
	ElseBranch Node           `json:"else_branch"`
}

func (c ConditionalStatement) String() string {
	return parenthesize("if", c.Condition, c.ThenBranch, optional(c.ElseBranch)).String()
}

func (c *ConditionalStatement) Pos() token.Location { return c.Location }

func (c *ConditionalStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	c.Condition, err = plate(c.Condition, err, f)
	c.ThenBranch, err = plate(c.ThenBranch, err, f)
	c.ElseBranch, err = plate(c.ElseBranch, err, f)
	return c, err
}

var _ Node = &ConditionalStatement{}

type LoopType int

const (
	ForEach LoopType = iota
	While
	Repeat
)

func (t LoopType) String() string {
	switch t {
	case ForEach:
		return "ForEach"
	case While:
		return "While"
	case Repeat:
		return "Repeat"
	}
	return fmt.Sprintf("LoopType(%d)", int(t))
}

func (t LoopType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// LoopStatement covers the three loop forms. ForEach uses Iterator and
// Collection, While and Repeat use Condition.
type LoopStatement struct {
	Location   token.Location `json:"location"`
	LoopType   LoopType       `json:"loop_type"`
	Condition  Node           `json:"condition"`
	Iterator   string         `json:"iterator,omitempty"`
	Collection Node           `json:"collection"`
	Body       Node           `json:"body"`
}

func (l LoopStatement) String() string {
	switch l.LoopType {
	case ForEach:
		return parenthesize("for-each", atom(l.Iterator), optional(l.Collection), l.Body).String()
	case Repeat:
		return parenthesize("repeat", l.Body, optional(l.Condition)).String()
	default:
		return parenthesize("while", optional(l.Condition), l.Body).String()
	}
}

func (l *LoopStatement) Pos() token.Location { return l.Location }

func (l *LoopStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	l.Condition, err = plate(l.Condition, err, f)
	l.Collection, err = plate(l.Collection, err, f)
	l.Body, err = plate(l.Body, err, f)
	return l, err
}

var _ Node = &LoopStatement{}

type ReturnStatement struct {
	Location   token.Location `json:"location"`
	Expression Node           `json:"expression"`
}

func (r ReturnStatement) String() string {
	return parenthesize("return", optional(r.Expression)).String()
}

func (r *ReturnStatement) Pos() token.Location { return r.Location }

func (r *ReturnStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	r.Expression, err = plate(r.Expression, err, f)
	return r, err
}

var _ Node = &ReturnStatement{}

type ImportStatement struct {
	Location        token.Location `json:"location"`
	ModuleName      string         `json:"module_name"`
	Alias           string         `json:"alias,omitempty"`
	SpecificImports []string       `json:"specific_imports"`
	IsFilePath      bool           `json:"is_file_path"`
}

func (i ImportStatement) String() string {
	var module fmt.Stringer = atom(i.ModuleName)
	if i.IsFilePath {
		module = parenthesize("file", atom(strconv.Quote(i.ModuleName)))
	}
	var alias fmt.Stringer = atom("")
	if i.Alias != "" {
		alias = parenthesize("as", atom(i.Alias))
	}
	var names fmt.Stringer = atom("")
	if len(i.SpecificImports) > 0 {
		names = parenthesize("names", atoms(i.SpecificImports))
	}
	return parenthesize("import", module, alias, names).String()
}

func (i *ImportStatement) Pos() token.Location { return i.Location }

func (i *ImportStatement) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return i, err
}

var _ Node = &ImportStatement{}

type ExpressionStatement struct {
	Location   token.Location `json:"location"`
	Expression Node           `json:"expression"`
}

func (e ExpressionStatement) String() string {
	return parenthesize("stmt", e.Expression).String()
}

func (e *ExpressionStatement) Pos() token.Location { return e.Location }

func (e *ExpressionStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	e.Expression, err = plate(e.Expression, err, f)
	return e, err
}

var _ Node = &ExpressionStatement{}

type ThrowStatement struct {
	Location   token.Location `json:"location"`
	Expression Node           `json:"expression"`
}

func (t ThrowStatement) String() string {
	return parenthesize("throw", t.Expression).String()
}

func (t *ThrowStatement) Pos() token.Location { return t.Location }

func (t *ThrowStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	t.Expression, err = plate(t.Expression, err, f)
	return t, err
}

var _ Node = &ThrowStatement{}

type TryCatchStatement struct {
	Location      token.Location `json:"location"`
	TryBlock      Node           `json:"try_block"`
	CatchBlock    Node           `json:"catch_block"`
	ErrorVariable string         `json:"error_variable,omitempty"`
}

func (t TryCatchStatement) String() string {
	var catch fmt.Stringer = atom("")
	if t.CatchBlock != nil {
		catch = parenthesize("catch", atom(t.ErrorVariable), t.CatchBlock)
	}
	return parenthesize("try", t.TryBlock, catch).String()
}

func (t *TryCatchStatement) Pos() token.Location { return t.Location }

func (t *TryCatchStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	t.TryBlock, err = plate(t.TryBlock, err, f)
	t.CatchBlock, err = plate(t.CatchBlock, err, f)
	return t, err
}

var _ Node = &TryCatchStatement{}

type UsingStatement struct {
	Location   token.Location `json:"location"`
	Resource   Node           `json:"resource"`
	Identifier string         `json:"identifier"`
	Body       Node           `json:"body"`
}

func (u UsingStatement) String() string {
	return parenthesize("using", u.Resource, atom(u.Identifier), u.Body).String()
}

func (u *UsingStatement) Pos() token.Location { return u.Location }

func (u *UsingStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	u.Resource, err = plate(u.Resource, err, f)
	u.Body, err = plate(u.Body, err, f)
	return u, err
}

var _ Node = &UsingStatement{}

// SetStatement assigns Value to the property Property of Object.
type SetStatement struct {
	Location token.Location `json:"location"`
	Property string         `json:"property"`
	Object   Node           `json:"object"`
	Value    Node           `json:"value"`
}

func (s SetStatement) String() string {
	return parenthesize("set", s.Object, atom(s.Property), s.Value).String()
}

func (s *SetStatement) Pos() token.Location { return s.Location }

func (s *SetStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	s.Object, err = plate(s.Object, err, f)
	s.Value, err = plate(s.Value, err, f)
	return s, err
}

var _ Node = &SetStatement{}

type IndexSetStatement struct {
	Location token.Location `json:"location"`
	Object   Node           `json:"object"`
	Index    Node           `json:"index"`
	Value    Node           `json:"value"`
}

func (s IndexSetStatement) String() string {
	return parenthesize("index-set", s.Object, s.Index, s.Value).String()
}

func (s *IndexSetStatement) Pos() token.Location { return s.Location }

func (s *IndexSetStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	s.Object, err = plate(s.Object, err, f)
	s.Index, err = plate(s.Index, err, f)
	s.Value, err = plate(s.Value, err, f)
	return s, err
}

var _ Node = &IndexSetStatement{}

type RunConcurrentlyStatement struct {
	Location   token.Location `json:"location"`
	Statements []Node         `json:"statements"`
}

func (r RunConcurrentlyStatement) String() string {
	return parenthesize("run-concurrently", concat(r.Statements)).String()
}

func (r *RunConcurrentlyStatement) Pos() token.Location { return r.Location }

func (r *RunConcurrentlyStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	return r, plateAll(r.Statements, err, f)
}

var _ Node = &RunConcurrentlyStatement{}

type TestStatement struct {
	Location token.Location `json:"location"`
	Name     string         `json:"name"`
	Body     *Program       `json:"body"`
}

func (t TestStatement) String() string {
	return parenthesize("test", atom(strconv.Quote(t.Name)), t.Body).String()
}

func (t *TestStatement) Pos() token.Location { return t.Location }

func (t *TestStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	t.Body, err = plateAs(t.Body, err, f)
	return t, err
}

var _ Node = &TestStatement{}

type InspectStatement struct {
	Location   token.Location `json:"location"`
	Expression Node           `json:"expression"`
	Cases      []*Case        `json:"cases"`
}

func (i InspectStatement) String() string {
	return parenthesize("inspect", i.Expression, concat(i.Cases)).String()
}

func (i *InspectStatement) Pos() token.Location { return i.Location }

func (i *InspectStatement) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	i.Expression, err = plate(i.Expression, err, f)
	for j, c := range i.Cases {
		i.Cases[j], err = plateAs(c, err, f)
	}
	return i, err
}

var _ Node = &InspectStatement{}

// Case is one `case Variant do ...` arm of an inspect statement.
type Case struct {
	Location    token.Location `json:"location"`
	VariantName string         `json:"variant_name"`
	Body        Node           `json:"body"`
}

func (c Case) String() string {
	return parenthesize("case", atom(c.VariantName), c.Body).String()
}

func (c *Case) Pos() token.Location { return c.Location }

func (c *Case) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	c.Body, err = plate(c.Body, err, f)
	return c, err
}

var _ Node = &Case{}

// Expressions

type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	VoidLiteral
	NothingLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case NumberLiteral:
		return "Number"
	case StringLiteral:
		return "String"
	case BoolLiteral:
		return "Bool"
	case VoidLiteral:
		return "Void"
	case NothingLiteral:
		return "Nothing"
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

func (k LiteralKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// LiteralExpression holds a float64, string or bool Value for the Number,
// String and Bool kinds. Void and Nothing have no value.
type LiteralExpression struct {
	Location token.Location `json:"location"`
	Kind     LiteralKind    `json:"literal"`
	Value    any            `json:"value,omitempty"`
}

func NewNumber(loc token.Location, n float64) *LiteralExpression {
	return &LiteralExpression{Location: loc, Kind: NumberLiteral, Value: n}
}

func NewString(loc token.Location, s string) *LiteralExpression {
	return &LiteralExpression{Location: loc, Kind: StringLiteral, Value: s}
}

func NewBool(loc token.Location, b bool) *LiteralExpression {
	return &LiteralExpression{Location: loc, Kind: BoolLiteral, Value: b}
}

func NewVoid(loc token.Location) *LiteralExpression {
	return &LiteralExpression{Location: loc, Kind: VoidLiteral}
}

func NewNothing(loc token.Location) *LiteralExpression {
	return &LiteralExpression{Location: loc, Kind: NothingLiteral}
}

func (l LiteralExpression) String() string {
	switch v := l.Value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return strings.ToLower(l.Kind.String())
}

func (l *LiteralExpression) Pos() token.Location { return l.Location }

func (l *LiteralExpression) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return l, err
}

var _ Node = &LiteralExpression{}

type VariableExpression struct {
	Location   token.Location `json:"location"`
	Identifier string         `json:"identifier"`
}

func (v VariableExpression) String() string {
	return v.Identifier
}

func (v *VariableExpression) Pos() token.Location { return v.Location }

func (v *VariableExpression) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return v, err
}

var _ Node = &VariableExpression{}

type CallExpression struct {
	Location     token.Location `json:"location"`
	FunctionName string         `json:"function_name"`
	Arguments    []Node         `json:"arguments"`
}

func (c CallExpression) String() string {
	return parenthesize("call", atom(c.FunctionName), concat(c.Arguments)).String()
}

func (c *CallExpression) Pos() token.Location { return c.Location }

func (c *CallExpression) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	return c, plateAll(c.Arguments, err, f)
}

var _ Node = &CallExpression{}

// OperationExpression applies Operator to Left and Right. Right is nil for the
// unary Exists and Not.
type OperationExpression struct {
	Location token.Location `json:"location"`
	Operator Operator       `json:"operator"`
	Left     Node           `json:"left"`
	Right    Node           `json:"right"`
}

func (o OperationExpression) String() string {
	return parenthesize(o.Operator.Symbol(), o.Left, optional(o.Right)).String()
}

func (o *OperationExpression) Pos() token.Location { return o.Location }

func (o *OperationExpression) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	o.Left, err = plate(o.Left, err, f)
	o.Right, err = plate(o.Right, err, f)
	return o, err
}

var _ Node = &OperationExpression{}

type ConditionalExpression struct {
	Location  token.Location `json:"location"`
	Condition Node           `json:"condition"`
	ThenExpr  Node           `json:"then_expr"`
	ElseExpr  Node           `json:"else_expr"`
}

func (c ConditionalExpression) String() string {
	return parenthesize("if-expr", c.Condition, c.ThenExpr, c.ElseExpr).String()
}

func (c *ConditionalExpression) Pos() token.Location { return c.Location }

func (c *ConditionalExpression) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	c.Condition, err = plate(c.Condition, err, f)
	c.ThenExpr, err = plate(c.ThenExpr, err, f)
	c.ElseExpr, err = plate(c.ElseExpr, err, f)
	return c, err
}

var _ Node = &ConditionalExpression{}

type AccessExpression struct {
	Location token.Location `json:"location"`
	Object   Node           `json:"object"`
	Property string         `json:"property"`
}

func (a AccessExpression) String() string {
	return parenthesize("access", a.Object, atom(a.Property)).String()
}

func (a *AccessExpression) Pos() token.Location { return a.Location }

func (a *AccessExpression) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	a.Object, err = plate(a.Object, err, f)
	return a, err
}

var _ Node = &AccessExpression{}

type IndexExpression struct {
	Location token.Location `json:"location"`
	Object   Node           `json:"object"`
	Index    Node           `json:"index"`
}

func (i IndexExpression) String() string {
	return parenthesize("index", i.Object, i.Index).String()
}

func (i *IndexExpression) Pos() token.Location { return i.Location }

func (i *IndexExpression) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	i.Object, err = plate(i.Object, err, f)
	i.Index, err = plate(i.Index, err, f)
	return i, err
}

var _ Node = &IndexExpression{}

type StartExpression struct {
	Location   token.Location `json:"location"`
	Expression Node           `json:"expression"`
}

func (s StartExpression) String() string {
	return parenthesize("start", s.Expression).String()
}

func (s *StartExpression) Pos() token.Location { return s.Location }

func (s *StartExpression) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	s.Expression, err = plate(s.Expression, err, f)
	return s, err
}

var _ Node = &StartExpression{}

type WaitExpression struct {
	Location   token.Location `json:"location"`
	Expression Node           `json:"expression"`
}

func (w WaitExpression) String() string {
	return parenthesize("wait", w.Expression).String()
}

func (w *WaitExpression) Pos() token.Location { return w.Location }

func (w *WaitExpression) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	w.Expression, err = plate(w.Expression, err, f)
	return w, err
}

var _ Node = &WaitExpression{}

// Declarations

type Parameter struct {
	Name           string `json:"name"`
	TypeAnnotation Type   `json:"type_annotation"`
}

func (p Parameter) String() string {
	if p.TypeAnnotation == nil {
		return p.Name
	}
	return parenthesize("", atom(p.Name), p.TypeAnnotation).String()
}

type FunctionDeclaration struct {
	Location   token.Location `json:"location"`
	Name       string         `json:"name"`
	Parameters []Parameter    `json:"parameters"`
	ReturnType Type           `json:"return_type"`
	Body       Node           `json:"body"`
	IsAsync    bool           `json:"is_async"`
}

func (f FunctionDeclaration) String() string {
	head := "function"
	if f.IsAsync {
		head = "background-function"
	}
	return parenthesize(head, atom(f.Name), parenthesize("", concat(f.Parameters)), typeString(f.ReturnType), f.Body).String()
}

func (f *FunctionDeclaration) Pos() token.Location { return f.Location }

func (f *FunctionDeclaration) Plate(err error, g func(Node, error) (Node, error)) (Node, error) {
	f.Body, err = plate(f.Body, err, g)
	return f, err
}

var _ Node = &FunctionDeclaration{}

// Field is a named, typed field of a sum-type variant. Type is the type name as written.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (f Field) String() string {
	return parenthesize("", atom(f.Name), atom(f.Type)).String()
}

type Variant struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

func (v Variant) String() string {
	return parenthesize(v.Name, concat(v.Fields)).String()
}

// TypeDeclaration is a sum type. Constructors holds one synthetic function per
// variant, in the same order as Variants, whose body returns a MakeVariant call.
type TypeDeclaration struct {
	Location     token.Location         `json:"location"`
	Name         string                 `json:"name"`
	Variants     []Variant              `json:"variants"`
	Constructors []*FunctionDeclaration `json:"constructors"`
}

func (t TypeDeclaration) String() string {
	return parenthesize("type", atom(t.Name), concat(t.Variants)).String()
}

func (t *TypeDeclaration) Pos() token.Location { return t.Location }

func (t *TypeDeclaration) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, c := range t.Constructors {
		t.Constructors[i], err = plateAs(c, err, f)
	}
	return t, err
}

var _ Node = &TypeDeclaration{}

type ModuleDeclaration struct {
	Location token.Location `json:"location"`
	Name     string         `json:"name"`
	Exports  []string       `json:"exports"`
}

func (m ModuleDeclaration) String() string {
	return parenthesize("module", atom(m.Name), atoms(m.Exports)).String()
}

func (m *ModuleDeclaration) Pos() token.Location { return m.Location }

func (m *ModuleDeclaration) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return m, err
}

var _ Node = &ModuleDeclaration{}

type PropertyDeclaration struct {
	Location       token.Location `json:"location"`
	Name           string         `json:"name"`
	TypeAnnotation Type           `json:"type_annotation"`
}

func (p PropertyDeclaration) String() string {
	return parenthesize("property", atom(p.Name), typeString(p.TypeAnnotation)).String()
}

func (p *PropertyDeclaration) Pos() token.Location { return p.Location }

func (p *PropertyDeclaration) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return p, err
}

var _ Node = &PropertyDeclaration{}

type ClassDeclaration struct {
	Location   token.Location         `json:"location"`
	Name       string                 `json:"name"`
	Extends    string                 `json:"extends,omitempty"`
	Properties []*PropertyDeclaration `json:"properties"`
	Methods    []*FunctionDeclaration `json:"methods"`
}

func (c ClassDeclaration) String() string {
	var extends fmt.Stringer = atom("")
	if c.Extends != "" {
		extends = parenthesize("extends", atom(c.Extends))
	}
	return parenthesize("class", atom(c.Name), extends, concat(c.Properties), concat(c.Methods)).String()
}

func (c *ClassDeclaration) Pos() token.Location { return c.Location }

func (c *ClassDeclaration) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, p := range c.Properties {
		c.Properties[i], err = plateAs(p, err, f)
	}
	for i, m := range c.Methods {
		c.Methods[i], err = plateAs(m, err, f)
	}
	return c, err
}

var _ Node = &ClassDeclaration{}

type StructDeclaration struct {
	Location   token.Location         `json:"location"`
	Name       string                 `json:"name"`
	Properties []*PropertyDeclaration `json:"properties"`
}

func (s StructDeclaration) String() string {
	return parenthesize("struct", atom(s.Name), concat(s.Properties)).String()
}

func (s *StructDeclaration) Pos() token.Location { return s.Location }

func (s *StructDeclaration) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, p := range s.Properties {
		s.Properties[i], err = plateAs(p, err, f)
	}
	return s, err
}

var _ Node = &StructDeclaration{}

// OOP expressions

type PropertyAssignment struct {
	Location token.Location `json:"location"`
	Name     string         `json:"name"`
	Value    Node           `json:"value"`
}

func (p PropertyAssignment) String() string {
	return parenthesize("", atom(p.Name), p.Value).String()
}

type ObjectCreation struct {
	Location   token.Location       `json:"location"`
	ClassName  string               `json:"class_name"`
	Properties []PropertyAssignment `json:"properties"`
}

func (o ObjectCreation) String() string {
	return parenthesize("new", atom(o.ClassName), concat(o.Properties)).String()
}

func (o *ObjectCreation) Pos() token.Location { return o.Location }

func (o *ObjectCreation) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i := range o.Properties {
		o.Properties[i].Value, err = plate(o.Properties[i].Value, err, f)
	}
	return o, err
}

var _ Node = &ObjectCreation{}

type MethodCall struct {
	Location   token.Location `json:"location"`
	Object     Node           `json:"object"`
	MethodName string         `json:"method_name"`
	Arguments  []Node         `json:"arguments"`
}

func (m MethodCall) String() string {
	return parenthesize("method", m.Object, atom(m.MethodName), concat(m.Arguments)).String()
}

func (m *MethodCall) Pos() token.Location { return m.Location }

func (m *MethodCall) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	m.Object, err = plate(m.Object, err, f)
	return m, plateAll(m.Arguments, err, f)
}

var _ Node = &MethodCall{}

// atom is a bare word in the S-expression output.
type atom string

func (a atom) String() string { return string(a) }

func atoms(names []string) fmt.Stringer {
	elems := make([]atom, len(names))
	for i, n := range names {
		elems[i] = atom(n)
	}
	return concat(elems)
}

// optional renders a child that may be nil as nothing at all.
func optional(n Node) fmt.Stringer {
	if n == nil {
		return atom("")
	}
	return n
}

func typeString(t Type) fmt.Stringer {
	if t == nil {
		return atom("")
	}
	return t
}

func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	elemsStr := concat(elems).String()
	if head != "" {
		b.WriteString(head)
	}
	if elemsStr != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat takes a slice of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is separated by a space.
// Empty strings are skipped.
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for _, elem := range elems {
		str := elem.String()
		if str == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}

// Traverse the [Node] in depth-first order.
// f is called for each node.
// If f returns an error, f also must return the original argument n.
// Traverse modifies each child before n.
func Traverse(n Node, f func(Node, error) (Node, error)) (Node, error) {
	n, err := n.Plate(nil, func(n Node, err error) (Node, error) {
		n, err2 := Traverse(n, f)
		if err == nil {
			err = err2
		}
		return n, err
	})
	return f(n, err)
}

func Children(n Node) []Node {
	var children []Node
	_, err := n.Plate(nil, func(n Node, _ error) (Node, error) {
		children = append(children, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return children
}

// Universe lists n and all of its descendants, children first.
func Universe(n Node) []Node {
	var nodes []Node
	_, err := Traverse(n, func(n Node, _ error) (Node, error) {
		nodes = append(nodes, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return nodes
}
