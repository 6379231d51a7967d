package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/layman-lang/layman/driver"
	"github.com/layman-lang/layman/lexer"
	"github.com/layman-lang/layman/token"
	"github.com/layman-lang/layman/utils"
	"github.com/peterh/liner"
)

var (
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

const continuationPrompt = "... "

// runPrompt reads programs line by line and prints their trees. A line that
// opens a block, or ends in the middle of a statement, is continued on the
// next lines until an empty line is entered.
func runPrompt(w io.Writer) error {
	history := cfg.REPL.History
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if f, err := os.Create(history); err == nil {
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		line.Close()
	}()

	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	fmt.Fprintln(w, dimStyle.Render("Enter a program. Ctrl-D exits."))

	var buffer []string
	for {
		prompt := cfg.REPL.Prompt
		if len(buffer) > 0 {
			prompt = continuationPrompt
		}
		input, err := line.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return err
		}
		line.AppendHistory(input)

		if len(buffer) > 0 && strings.TrimSpace(input) == "" {
			source := strings.Join(buffer, "\n")
			buffer = nil
			printResult(w, source, true)
			continue
		}
		buffer = append(buffer, input)
		if len(buffer) == 1 && opensBlock(input) {
			continue
		}
		if len(buffer) > 1 || !printResult(w, input, false) {
			continue
		}
		buffer = nil
	}
}

// printResult parses source and prints its tree or its error. It reports false
// without printing when the input stops mid-statement and final is not set.
func printResult(w io.Writer, source string, final bool) bool {
	program, err := driver.Parse(source, "<stdin>", parserOptions()...)
	if err == nil {
		fmt.Fprintln(w, program)
		return true
	}
	if !final && incomplete(err) {
		return false
	}
	printError(err)
	return true
}

// opensBlock reports whether line starts a construct whose body follows on
// the next lines.
func opensBlock(line string) bool {
	tokens, err := lexer.Lex(line, "<stdin>")
	if err != nil || len(tokens) < 2 {
		return false
	}
	first, last := tokens[0], tokens[len(tokens)-2]
	switch first.Kind {
	case token.DEFINE:
		return tokens[1].Kind != token.VARIABLE && tokens[1].Kind != token.CONSTANT
	case token.DESCRIBE, token.TEST, token.REPEAT, token.TRY, token.INSPECT:
		return true
	case token.RUN:
		return last.Kind == token.CONCURRENTLY
	}
	switch last.Kind {
	case token.THEN, token.DO, token.ELSE, token.OTHERWISE:
		return true
	}
	return false
}

// incomplete reports whether err was raised at the end of the input.
func incomplete(err error) bool {
	var pos utils.PosError
	return errors.As(err, &pos) && pos.Where.Kind == token.EOF
}

func printError(err error) {
	var errs interface{ Unwrap() []error }
	if errors.As(err, &errs) {
		for _, err := range errs.Unwrap() {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		}
		return
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
}
