package ast

import (
	"encoding/json"
	"strconv"
)

// Every node and type marshals as a JSON object whose "kind" member names its Go type,
// so a consumer can decode the tree without knowing the interface layout.

// marshalTagged marshals v, which must encode as an object, with a leading "kind" member.
func marshalTagged(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := []byte(`{"kind":` + strconv.Quote(kind))
	if len(body) > 2 {
		out = append(out, ',')
	}
	return append(out, body[1:]...), nil
}

func (p *Program) MarshalJSON() ([]byte, error) {
	type alias Program
	return marshalTagged("Program", (*alias)(p))
}

func (a *AssignStatement) MarshalJSON() ([]byte, error) {
	type alias AssignStatement
	return marshalTagged("AssignStatement", (*alias)(a))
}

func (d *DeclareStatement) MarshalJSON() ([]byte, error) {
	type alias DeclareStatement
	return marshalTagged("DeclareStatement", (*alias)(d))
}

func (c *ConditionalStatement) MarshalJSON() ([]byte, error) {
	type alias ConditionalStatement
	return marshalTagged("ConditionalStatement", (*alias)(c))
}

func (l *LoopStatement) MarshalJSON() ([]byte, error) {
	type alias LoopStatement
	return marshalTagged("LoopStatement", (*alias)(l))
}

func (r *ReturnStatement) MarshalJSON() ([]byte, error) {
	type alias ReturnStatement
	return marshalTagged("ReturnStatement", (*alias)(r))
}

func (i *ImportStatement) MarshalJSON() ([]byte, error) {
	type alias ImportStatement
	return marshalTagged("ImportStatement", (*alias)(i))
}

func (e *ExpressionStatement) MarshalJSON() ([]byte, error) {
	type alias ExpressionStatement
	return marshalTagged("ExpressionStatement", (*alias)(e))
}

func (t *ThrowStatement) MarshalJSON() ([]byte, error) {
	type alias ThrowStatement
	return marshalTagged("ThrowStatement", (*alias)(t))
}

func (t *TryCatchStatement) MarshalJSON() ([]byte, error) {
	type alias TryCatchStatement
	return marshalTagged("TryCatchStatement", (*alias)(t))
}

func (u *UsingStatement) MarshalJSON() ([]byte, error) {
	type alias UsingStatement
	return marshalTagged("UsingStatement", (*alias)(u))
}

func (s *SetStatement) MarshalJSON() ([]byte, error) {
	type alias SetStatement
	return marshalTagged("SetStatement", (*alias)(s))
}

func (s *IndexSetStatement) MarshalJSON() ([]byte, error) {
	type alias IndexSetStatement
	return marshalTagged("IndexSetStatement", (*alias)(s))
}

func (r *RunConcurrentlyStatement) MarshalJSON() ([]byte, error) {
	type alias RunConcurrentlyStatement
	return marshalTagged("RunConcurrentlyStatement", (*alias)(r))
}

func (t *TestStatement) MarshalJSON() ([]byte, error) {
	type alias TestStatement
	return marshalTagged("TestStatement", (*alias)(t))
}

func (i *InspectStatement) MarshalJSON() ([]byte, error) {
	type alias InspectStatement
	return marshalTagged("InspectStatement", (*alias)(i))
}

func (c *Case) MarshalJSON() ([]byte, error) {
	type alias Case
	return marshalTagged("Case", (*alias)(c))
}

func (l *LiteralExpression) MarshalJSON() ([]byte, error) {
	type alias LiteralExpression
	return marshalTagged("LiteralExpression", (*alias)(l))
}

func (v *VariableExpression) MarshalJSON() ([]byte, error) {
	type alias VariableExpression
	return marshalTagged("VariableExpression", (*alias)(v))
}

func (c *CallExpression) MarshalJSON() ([]byte, error) {
	type alias CallExpression
	return marshalTagged("CallExpression", (*alias)(c))
}

func (o *OperationExpression) MarshalJSON() ([]byte, error) {
	type alias OperationExpression
	return marshalTagged("OperationExpression", (*alias)(o))
}

func (c *ConditionalExpression) MarshalJSON() ([]byte, error) {
	type alias ConditionalExpression
	return marshalTagged("ConditionalExpression", (*alias)(c))
}

func (a *AccessExpression) MarshalJSON() ([]byte, error) {
	type alias AccessExpression
	return marshalTagged("AccessExpression", (*alias)(a))
}

func (i *IndexExpression) MarshalJSON() ([]byte, error) {
	type alias IndexExpression
	return marshalTagged("IndexExpression", (*alias)(i))
}

func (s *StartExpression) MarshalJSON() ([]byte, error) {
	type alias StartExpression
	return marshalTagged("StartExpression", (*alias)(s))
}

func (w *WaitExpression) MarshalJSON() ([]byte, error) {
	type alias WaitExpression
	return marshalTagged("WaitExpression", (*alias)(w))
}

func (f *FunctionDeclaration) MarshalJSON() ([]byte, error) {
	type alias FunctionDeclaration
	return marshalTagged("FunctionDeclaration", (*alias)(f))
}

func (t *TypeDeclaration) MarshalJSON() ([]byte, error) {
	type alias TypeDeclaration
	return marshalTagged("TypeDeclaration", (*alias)(t))
}

func (m *ModuleDeclaration) MarshalJSON() ([]byte, error) {
	type alias ModuleDeclaration
	return marshalTagged("ModuleDeclaration", (*alias)(m))
}

func (p *PropertyDeclaration) MarshalJSON() ([]byte, error) {
	type alias PropertyDeclaration
	return marshalTagged("PropertyDeclaration", (*alias)(p))
}

func (c *ClassDeclaration) MarshalJSON() ([]byte, error) {
	type alias ClassDeclaration
	return marshalTagged("ClassDeclaration", (*alias)(c))
}

func (s *StructDeclaration) MarshalJSON() ([]byte, error) {
	type alias StructDeclaration
	return marshalTagged("StructDeclaration", (*alias)(s))
}

func (o *ObjectCreation) MarshalJSON() ([]byte, error) {
	type alias ObjectCreation
	return marshalTagged("ObjectCreation", (*alias)(o))
}

func (m *MethodCall) MarshalJSON() ([]byte, error) {
	type alias MethodCall
	return marshalTagged("MethodCall", (*alias)(m))
}

// Types

func (t BasicType) MarshalJSON() ([]byte, error) {
	type alias BasicType
	return marshalTagged("BasicType", alias(t))
}

func (t ListType) MarshalJSON() ([]byte, error) {
	type alias ListType
	return marshalTagged("ListType", alias(t))
}

func (t DictionaryType) MarshalJSON() ([]byte, error) {
	type alias DictionaryType
	return marshalTagged("DictionaryType", alias(t))
}

func (t MaybeType) MarshalJSON() ([]byte, error) {
	type alias MaybeType
	return marshalTagged("MaybeType", alias(t))
}

func (t TupleType) MarshalJSON() ([]byte, error) {
	type alias TupleType
	return marshalTagged("TupleType", alias(t))
}

func (t SetType) MarshalJSON() ([]byte, error) {
	type alias SetType
	return marshalTagged("SetType", alias(t))
}

func (t FunctionType) MarshalJSON() ([]byte, error) {
	type alias FunctionType
	return marshalTagged("FunctionType", alias(t))
}

func (t GenericType) MarshalJSON() ([]byte, error) {
	type alias GenericType
	return marshalTagged("GenericType", alias(t))
}

func (t ClassType) MarshalJSON() ([]byte, error) {
	type alias ClassType
	return marshalTagged("ClassType", alias(t))
}
