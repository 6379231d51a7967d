package ast

import "fmt"

type Operator int

const (
	Plus Operator = iota
	Minus
	Times
	DividedBy
	Modulo
	Exists
	Equals
	NotEquals
	GreaterThan
	LessThan
	GreaterThanOrEqual
	LessThanOrEqual
	And
	Or
	Not
)

var operatorNames = [...]string{
	Plus:               "Plus",
	Minus:              "Minus",
	Times:              "Times",
	DividedBy:          "DividedBy",
	Modulo:             "Modulo",
	Exists:             "Exists",
	Equals:             "Equals",
	NotEquals:          "NotEquals",
	GreaterThan:        "GreaterThan",
	LessThan:           "LessThan",
	GreaterThanOrEqual: "GreaterThanOrEqual",
	LessThanOrEqual:    "LessThanOrEqual",
	And:                "And",
	Or:                 "Or",
	Not:                "Not",
}

var operatorSymbols = [...]string{
	Plus:               "+",
	Minus:              "-",
	Times:              "*",
	DividedBy:          "/",
	Modulo:             "%",
	Exists:             "exists",
	Equals:             "=",
	NotEquals:          "!=",
	GreaterThan:        ">",
	LessThan:           "<",
	GreaterThanOrEqual: ">=",
	LessThanOrEqual:    "<=",
	And:                "and",
	Or:                 "or",
	Not:                "not",
}

func (o Operator) valid() bool {
	return o >= 0 && int(o) < len(operatorNames)
}

func (o Operator) String() string {
	if !o.valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Symbol is the head used for the operator in S-expressions.
func (o Operator) Symbol() string {
	if !o.valid() {
		return o.String()
	}
	return operatorSymbols[o]
}

func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Unary reports whether the operator takes only a left operand.
func (o Operator) Unary() bool {
	return o == Exists || o == Not
}
