// Package outline lists the declarations of a program.
package outline

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/layman-lang/layman/ast"
	"github.com/layman-lang/layman/token"
)

type Kind string

const (
	Function    Kind = "function"
	Method      Kind = "method"
	Constructor Kind = "constructor"
	Class       Kind = "class"
	Struct      Kind = "struct"
	Type        Kind = "type"
	Module      Kind = "module"
	Import      Kind = "import"
	Test        Kind = "test"
)

type Entry struct {
	Kind     Kind
	Name     string
	Location token.Location
	// Detail is the parameter list of functions, the parent of classes, the
	// variants of types and the exports of modules.
	Detail string
}

func (e Entry) String() string {
	s := fmt.Sprintf("%v %s %s", e.Location, e.Kind, e.Name)
	if e.Detail != "" {
		s += " " + e.Detail
	}
	return s
}

// Outline is a driver pass collecting the declarations of a program in source
// order. It does not change the program.
type Outline struct {
	Entries []Entry
	owned   map[*ast.FunctionDeclaration]Kind
}

func New() *Outline {
	return &Outline{}
}

func (o *Outline) Name() string {
	return "outline.Outline"
}

// Init resets the outline and records which functions belong to a class or a
// sum type, so they are listed as methods and constructors.
func (o *Outline) Init(program *ast.Program) error {
	o.Entries = nil
	o.owned = make(map[*ast.FunctionDeclaration]Kind)
	for _, n := range ast.Universe(program) {
		switch n := n.(type) {
		case *ast.ClassDeclaration:
			for _, m := range n.Methods {
				o.owned[m] = Method
			}
		case *ast.TypeDeclaration:
			for _, c := range n.Constructors {
				o.owned[c] = Constructor
			}
		}
	}
	return nil
}

func (o *Outline) Run(program *ast.Program) (*ast.Program, error) {
	for _, n := range ast.Universe(program) {
		if e, ok := o.entry(n); ok {
			o.Entries = append(o.Entries, e)
		}
	}
	slices.SortStableFunc(o.Entries, func(a, b Entry) int {
		if c := cmp.Compare(a.Location.Line, b.Location.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Location.Column, b.Location.Column)
	})
	return program, nil
}

func (o *Outline) entry(n ast.Node) (Entry, bool) {
	switch n := n.(type) {
	case *ast.FunctionDeclaration:
		if n.Name == ast.LambdaName {
			return Entry{}, false
		}
		kind, ok := o.owned[n]
		if !ok {
			kind = Function
		}
		return Entry{Kind: kind, Name: n.Name, Location: n.Location, Detail: parameters(n.Parameters)}, true
	case *ast.ClassDeclaration:
		detail := ""
		if n.Extends != "" {
			detail = "extends " + n.Extends
		}
		return Entry{Kind: Class, Name: n.Name, Location: n.Location, Detail: detail}, true
	case *ast.StructDeclaration:
		names := make([]string, len(n.Properties))
		for i, p := range n.Properties {
			names[i] = p.Name
		}
		return Entry{Kind: Struct, Name: n.Name, Location: n.Location, Detail: "(" + strings.Join(names, ", ") + ")"}, true
	case *ast.TypeDeclaration:
		names := make([]string, len(n.Variants))
		for i, v := range n.Variants {
			names[i] = v.Name
		}
		return Entry{Kind: Type, Name: n.Name, Location: n.Location, Detail: strings.Join(names, " | ")}, true
	case *ast.ModuleDeclaration:
		return Entry{Kind: Module, Name: n.Name, Location: n.Location, Detail: strings.Join(n.Exports, ", ")}, true
	case *ast.ImportStatement:
		detail := ""
		if n.Alias != "" {
			detail = "as " + n.Alias
		}
		if len(n.SpecificImports) > 0 {
			detail = "(" + strings.Join(n.SpecificImports, ", ") + ")"
		}
		return Entry{Kind: Import, Name: n.ModuleName, Location: n.Location, Detail: detail}, true
	case *ast.TestStatement:
		return Entry{Kind: Test, Name: n.Name, Location: n.Location}, true
	case *ast.CallExpression:
		// describe blocks are lowered to calls with the suite name first.
		if n.FunctionName != "describe" || len(n.Arguments) == 0 {
			return Entry{}, false
		}
		if lit, ok := n.Arguments[0].(*ast.LiteralExpression); ok {
			if name, ok := lit.Value.(string); ok {
				return Entry{Kind: Test, Name: name, Location: n.Location, Detail: "describe"}, true
			}
		}
	}
	return Entry{}, false
}

func parameters(params []ast.Parameter) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
		if p.TypeAnnotation != nil {
			names[i] += " " + p.TypeAnnotation.String()
		}
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func (o *Outline) String() string {
	var b strings.Builder
	for _, e := range o.Entries {
		b.WriteString(e.String())
		b.WriteString("\n")
	}
	return b.String()
}
