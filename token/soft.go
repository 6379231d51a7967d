package token

import "strings"

// Soft is the class of a soft keyword: an ordinary identifier whose lowercased
// text gives it a meaning in some grammar positions.
type Soft int

const (
	SoftNone Soft = iota
	SoftAmount
	SoftArgument
	SoftClass
	SoftContaining
	SoftEmpty
	SoftEnd
	SoftExports
	SoftExtends
	SoftFile
	SoftGet
	SoftHas
	SoftItem
	SoftList
	SoftModule
	SoftNoop
	SoftOn
	SoftPrint
	SoftProperty
	SoftSet
	SoftStrayEnd
	SoftTuple
	SoftType
	SoftValue
	SoftWhich
)

var softWords = map[string]Soft{
	"amount":      SoftAmount,
	"argument":    SoftArgument,
	"class":       SoftClass,
	"containing":  SoftContaining,
	"done":        SoftStrayEnd,
	"empty":       SoftEmpty,
	"end":         SoftEnd,
	"endfor":      SoftStrayEnd,
	"endfunction": SoftStrayEnd,
	"endif":       SoftStrayEnd,
	"exports":     SoftExports,
	"extends":     SoftExtends,
	"file":        SoftFile,
	"get":         SoftGet,
	"has":         SoftHas,
	"item":        SoftItem,
	"list":        SoftList,
	"module":      SoftModule,
	"on":          SoftOn,
	"output":      SoftNoop,
	"print":       SoftPrint,
	"property":    SoftProperty,
	"set":         SoftSet,
	"tuple":       SoftTuple,
	"type":        SoftType,
	"value":       SoftValue,
	"which":       SoftWhich,
}

// Classify returns the soft keyword class of t, or SoftNone. Only IDENTIFIER
// tokens can be soft keywords, except that closing words such as "End" or
// "ENDIF" are recognized in any case.
func Classify(t Token) Soft {
	switch t.Kind {
	case IDENTIFIER:
		return softWords[strings.ToLower(t.Text)]
	case TYPEIDENTIFIER:
		switch s := softWords[strings.ToLower(t.Text)]; s {
		case SoftEnd, SoftStrayEnd:
			return s
		}
	}
	return SoftNone
}
