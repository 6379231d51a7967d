package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/layman-lang/layman/token"
)

// Lex scans source into tokens. The result always ends with exactly one EOF token.
// Unknown characters are dropped and unterminated strings are cut at the end of
// the line; only malformed numbers are reported as errors.
func Lex(source, filename string) ([]token.Token, error) {
	lexer := lexer{
		source:   source,
		filename: filename,
		tokens:   []token.Token{},
		line:     1,
	}

	var err error

	for !lexer.isAtEnd() {
		err = errors.Join(err, lexer.scanToken())
	}

	lexer.tokens = append(lexer.tokens, token.Token{
		Kind:     token.EOF,
		Location: token.Location{File: filename, Line: lexer.line, Column: lexer.column},
	})

	return lexer.tokens, err
}

type lexer struct {
	source   string
	filename string
	tokens   []token.Token

	start   int // start of current lexeme
	current int // current position in source
	line    int // current line number
	column  int // current column, counted in characters

	startLine   int
	startColumn int
}

func (l lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l lexer) peek() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current:])

	return runeValue
}

func (l *lexer) advance() rune {
	runeValue, width := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += width
	if runeValue == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	return runeValue
}

func (l lexer) location() token.Location {
	return token.Location{
		File:   l.filename,
		Line:   l.startLine,
		Column: l.startColumn,
		Source: l.source[l.start:l.current],
	}
}

func (l *lexer) addToken(kind token.Kind, literal any) {
	l.tokens = append(l.tokens, token.Token{
		Kind:     kind,
		Location: l.location(),
		Text:     l.source[l.start:l.current],
		Literal:  literal,
	})
}

type InvalidNumberError struct {
	Where token.Location
	Text  string
}

func (e InvalidNumberError) Error() string {
	return fmt.Sprintf("%v: invalid number %q", e.Where, e.Text)
}

func (l *lexer) scanToken() error {
	l.start = l.current
	l.startLine = l.line
	l.startColumn = l.column
	char := l.advance()
	switch char {
	case ' ', '\r', '\t':
		return nil
	case '#':
		// The newline ending a comment is still a token.
		for l.peek() != '\n' && !l.isAtEnd() {
			l.advance()
		}

		return nil
	case '\'', '"', '‘', '’', '“', '”':
		l.string(char)

		return nil
	default:
		if k, ok := getReservedSymbol(char); ok {
			l.addToken(k, nil)

			return nil
		}
		if isDigit(char) {
			return l.number()
		}
		if isAlpha(char) {
			l.identifier()

			return nil
		}
	}

	// Anything else is dropped.
	return nil
}

// closes reports whether c ends a string opened with opener. Straight and smart
// quotes of the same family close each other.
func closes(opener, c rune) bool {
	switch opener {
	case '\'', '’':
		return c == '\'' || c == '’'
	case '"', '”':
		return c == '"' || c == '”'
	case '‘':
		return c == '’' || c == '\''
	case '“':
		return c == '”' || c == '"'
	}

	return c == opener
}

func (l *lexer) string(opener rune) {
	for !l.isAtEnd() && !closes(opener, l.peek()) && l.peek() != '\n' {
		l.advance()
	}

	body := l.start + utf8.RuneLen(opener)
	if l.isAtEnd() || l.peek() == '\n' {
		// Unterminated: keep what was scanned.
		l.addToken(token.TEXT, l.source[body:l.current])

		return
	}

	end := l.current
	l.advance()
	l.addToken(token.TEXT, l.source[body:end])
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) number() error {
	for isDigit(l.peek()) || l.peek() == '.' {
		l.advance()
	}

	text := l.source[l.start:l.current]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return InvalidNumberError{Where: l.location(), Text: text}
	}
	l.addToken(token.NUMBER, value)

	return nil
}

func isAlpha(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func (l *lexer) identifier() {
	for isAlpha(l.peek()) || unicode.IsDigit(l.peek()) {
		l.advance()
	}

	word := l.source[l.start:l.current]

	if k, ok := token.Keyword(word); ok {
		var literal any
		if k == token.BOOLEAN {
			literal = word[0] == 't' || word[0] == 'T'
		}
		l.addToken(k, literal)

		return
	}

	first, _ := utf8.DecodeRuneInString(word)
	if unicode.IsUpper(first) {
		l.addToken(token.TYPEIDENTIFIER, nil)
	} else {
		l.addToken(token.IDENTIFIER, nil)
	}
}

func getReservedSymbol(char rune) (token.Kind, bool) {
	reservedSymbols := map[rune]token.Kind{
		'\n': token.NEWLINE,
		'.':  token.PERIOD,
		',':  token.COMMA,
		'(':  token.LEFTPAREN,
		')':  token.RIGHTPAREN,
		'[':  token.LEFTBRACKET,
		']':  token.RIGHTBRACKET,
		'+':  token.PLUS,
		'-':  token.MINUS,
		'*':  token.TIMES,
		'/':  token.DIVIDEDBY,
		'%':  token.MODULO,
		'=':  token.EQUALS,
		'<':  token.LESSTHAN,
		'>':  token.GREATERTHAN,
	}
	if k, ok := reservedSymbols[char]; ok {
		return k, true
	}

	return token.EOF, false
}
