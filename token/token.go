package token

import (
	"fmt"
	"strings"
)

type Kind int

const (
	EOF Kind = iota

	// Punctuation.
	NEWLINE
	PERIOD
	COMMA
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACKET
	RIGHTBRACKET

	// Operators. Word forms ("plus", "greater") share the kind of their symbol.
	PLUS
	MINUS
	TIMES
	DIVIDEDBY
	MODULO
	GREATERTHAN
	LESSTHAN
	THAN

	// Literals and identifiers.
	NUMBER
	TEXT
	BOOLEAN
	IDENTIFIER
	TYPEIDENTIFIER

	// Keywords.
	A
	ALL
	AND
	ANY
	AS
	BACKGROUND
	BY
	CALL
	CASE
	CATCH
	CONCURRENTLY
	CONSTANT
	DEFINE
	DESCRIBE
	DICTIONARY
	DO
	EACH
	EITHER
	ELSE
	EQUALS
	EXISTS
	EXPECT
	FOR
	FROM
	FUNCTION
	IF
	IMPORT
	IN
	INSPECT
	IS
	KEYS
	MAYBE
	NEW
	NOT
	NOTHING
	OF
	OR
	OTHERWISE
	REPEAT
	RETURN
	RETURNING
	RETURNS
	RUN
	START
	STRUCT
	TAKES
	TEST
	THAT
	THE
	THEN
	THROW
	TO
	TRY
	UNTIL
	USE
	USING
	VALUES
	VARIABLE
	WAIT
	WHILE
	WITH
)

var kindNames = [...]string{
	EOF:            "EOF",
	NEWLINE:        "NEWLINE",
	PERIOD:         "PERIOD",
	COMMA:          "COMMA",
	LEFTPAREN:      "LEFTPAREN",
	RIGHTPAREN:     "RIGHTPAREN",
	LEFTBRACKET:    "LEFTBRACKET",
	RIGHTBRACKET:   "RIGHTBRACKET",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	TIMES:          "TIMES",
	DIVIDEDBY:      "DIVIDEDBY",
	MODULO:         "MODULO",
	GREATERTHAN:    "GREATERTHAN",
	LESSTHAN:       "LESSTHAN",
	THAN:           "THAN",
	NUMBER:         "NUMBER",
	TEXT:           "TEXT",
	BOOLEAN:        "BOOLEAN",
	IDENTIFIER:     "IDENTIFIER",
	TYPEIDENTIFIER: "TYPEIDENTIFIER",
	A:              "A",
	ALL:            "ALL",
	AND:            "AND",
	ANY:            "ANY",
	AS:             "AS",
	BACKGROUND:     "BACKGROUND",
	BY:             "BY",
	CALL:           "CALL",
	CASE:           "CASE",
	CATCH:          "CATCH",
	CONCURRENTLY:   "CONCURRENTLY",
	CONSTANT:       "CONSTANT",
	DEFINE:         "DEFINE",
	DESCRIBE:       "DESCRIBE",
	DICTIONARY:     "DICTIONARY",
	DO:             "DO",
	EACH:           "EACH",
	EITHER:         "EITHER",
	ELSE:           "ELSE",
	EQUALS:         "EQUALS",
	EXISTS:         "EXISTS",
	EXPECT:         "EXPECT",
	FOR:            "FOR",
	FROM:           "FROM",
	FUNCTION:       "FUNCTION",
	IF:             "IF",
	IMPORT:         "IMPORT",
	IN:             "IN",
	INSPECT:        "INSPECT",
	IS:             "IS",
	KEYS:           "KEYS",
	MAYBE:          "MAYBE",
	NEW:            "NEW",
	NOT:            "NOT",
	NOTHING:        "NOTHING",
	OF:             "OF",
	OR:             "OR",
	OTHERWISE:      "OTHERWISE",
	REPEAT:         "REPEAT",
	RETURN:         "RETURN",
	RETURNING:      "RETURNING",
	RETURNS:        "RETURNS",
	RUN:            "RUN",
	START:          "START",
	STRUCT:         "STRUCT",
	TAKES:          "TAKES",
	TEST:           "TEST",
	THAT:           "THAT",
	THE:            "THE",
	THEN:           "THEN",
	THROW:          "THROW",
	TO:             "TO",
	TRY:            "TRY",
	UNTIL:          "UNTIL",
	USE:            "USE",
	USING:          "USING",
	VALUES:         "VALUES",
	VARIABLE:       "VARIABLE",
	WAIT:           "WAIT",
	WHILE:          "WHILE",
	WITH:           "WITH",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps lowercased words to their kind. Matching is case-insensitive.
var keywords = map[string]Kind{
	"a":            A,
	"all":          ALL,
	"an":           A,
	"and":          AND,
	"any":          ANY,
	"as":           AS,
	"asynchronous": BACKGROUND,
	"background":   BACKGROUND,
	"by":           BY,
	"call":         CALL,
	"case":         CASE,
	"catch":        CATCH,
	"concurrently": CONCURRENTLY,
	"constant":     CONSTANT,
	"define":       DEFINE,
	"describe":     DESCRIBE,
	"dictionary":   DICTIONARY,
	"divided":      DIVIDEDBY,
	"do":           DO,
	"each":         EACH,
	"either":       EITHER,
	"else":         ELSE,
	"equal":        EQUALS,
	"equals":       EQUALS,
	"exists":       EXISTS,
	"expect":       EXPECT,
	"false":        BOOLEAN,
	"for":          FOR,
	"from":         FROM,
	"function":     FUNCTION,
	"greater":      GREATERTHAN,
	"if":           IF,
	"import":       IMPORT,
	"in":           IN,
	"inspect":      INSPECT,
	"is":           IS,
	"keys":         KEYS,
	"less":         LESSTHAN,
	"maybe":        MAYBE,
	"minus":        MINUS,
	"modulo":       MODULO,
	"new":          NEW,
	"not":          NOT,
	"nothing":      NOTHING,
	"of":           OF,
	"or":           OR,
	"otherwise":    OTHERWISE,
	"plus":         PLUS,
	"repeat":       REPEAT,
	"return":       RETURN,
	"returning":    RETURNING,
	"returns":      RETURNS,
	"run":          RUN,
	"start":        START,
	"struct":       STRUCT,
	"takes":        TAKES,
	"test":         TEST,
	"than":         THAN,
	"that":         THAT,
	"the":          THE,
	"then":         THEN,
	"throw":        THROW,
	"times":        TIMES,
	"to":           TO,
	"true":         BOOLEAN,
	"try":          TRY,
	"until":        UNTIL,
	"use":          USE,
	"using":        USING,
	"values":       VALUES,
	"variable":     VARIABLE,
	"wait":         WAIT,
	"while":        WHILE,
	"with":         WITH,
}

// Keyword reports the keyword kind of word, ignoring case.
func Keyword(word string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(word)]
	return k, ok
}

// Location is a position in a source file. Line is 1-based and Column is 0-based;
// the parser compares columns to decide where blocks end.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Source string `json:"source,omitempty"`
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

type Token struct {
	Kind     Kind
	Location Location
	Text     string
	// Literal is a float64 for NUMBER, the unquoted string for TEXT and a bool for BOOLEAN.
	Literal any
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %d:%d, %v}", t.Kind, t.Text, t.Location.Line, t.Location.Column, t.Literal)
}
