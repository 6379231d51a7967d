package ast

import "fmt"

// Type is a syntactic type annotation. Nothing here is checked; a type
// checker downstream gives these meaning.
type Type interface {
	fmt.Stringer
	isType()
}

type BasicKind int

const (
	NumberKind BasicKind = iota
	StringKind
	BoolKind
	VoidKind
	AnyKind
)

func (k BasicKind) String() string {
	switch k {
	case NumberKind:
		return "Number"
	case StringKind:
		return "String"
	case BoolKind:
		return "Bool"
	case VoidKind:
		return "Void"
	case AnyKind:
		return "Any"
	}
	return fmt.Sprintf("BasicKind(%d)", int(k))
}

func (k BasicKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type BasicType struct {
	Kind BasicKind `json:"name"`
}

var (
	Number  = BasicType{Kind: NumberKind}
	String  = BasicType{Kind: StringKind}
	Bool    = BasicType{Kind: BoolKind}
	Void    = BasicType{Kind: VoidKind}
	AnyType = BasicType{Kind: AnyKind}
)

func (t BasicType) String() string { return t.Kind.String() }

func (BasicType) isType() {}

type ListType struct {
	Element Type `json:"element"`
}

func (t ListType) String() string { return parenthesize("list", t.Element).String() }

func (ListType) isType() {}

type DictionaryType struct {
	Key   Type `json:"key"`
	Value Type `json:"value"`
}

func (t DictionaryType) String() string {
	return parenthesize("dictionary", t.Key, t.Value).String()
}

func (DictionaryType) isType() {}

type MaybeType struct {
	Inner Type `json:"inner"`
}

func (t MaybeType) String() string { return parenthesize("maybe", t.Inner).String() }

func (MaybeType) isType() {}

type TupleType struct {
	Elements []Type `json:"elements"`
}

func (t TupleType) String() string { return parenthesize("tuple", concat(t.Elements)).String() }

func (TupleType) isType() {}

type SetType struct {
	Element Type `json:"element"`
}

func (t SetType) String() string { return parenthesize("set", t.Element).String() }

func (SetType) isType() {}

type FunctionType struct {
	Parameters []Type `json:"parameters"`
	Return     Type   `json:"return"`
}

func (t FunctionType) String() string {
	return parenthesize("function", parenthesize("", concat(t.Parameters)), t.Return).String()
}

func (FunctionType) isType() {}

// GenericType is a lowercase type name the parser does not know, such as a type parameter.
type GenericType struct {
	Name string `json:"name"`
}

func (t GenericType) String() string { return parenthesize("generic", atom(t.Name)).String() }

func (GenericType) isType() {}

// ClassType is an uppercase type name the parser does not know: a class, struct or sum type.
type ClassType struct {
	Name string `json:"name"`
}

func (t ClassType) String() string { return parenthesize("class", atom(t.Name)).String() }

func (ClassType) isType() {}

var (
	_ Type = BasicType{}
	_ Type = ListType{}
	_ Type = DictionaryType{}
	_ Type = MaybeType{}
	_ Type = TupleType{}
	_ Type = SetType{}
	_ Type = FunctionType{}
	_ Type = GenericType{}
	_ Type = ClassType{}
)
