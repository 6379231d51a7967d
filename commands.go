package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/layman-lang/layman/driver"
	"github.com/layman-lang/layman/lexer"
	"github.com/layman-lang/layman/outline"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the tokens of a file, one per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		tokens, err := lexer.Lex(string(source), args[0])
		for _, t := range tokens {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return err
	},
}

var format string

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a file and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		program, err := driver.Parse(string(source), args[0], parserOptions()...)
		if err != nil {
			return err
		}
		return printProgram(cmd.OutOrStdout(), program, format)
	},
}

var outlineCmd = &cobra.Command{
	Use:   "outline FILE...",
	Short: "List the declarations of files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			o := outline.New()
			r := driver.NewPassRunner(parserOptions()...)
			r.AddPass(o)
			if _, err := r.RunSource(string(source), path); err != nil {
				return err
			}
			if len(args) > 1 {
				fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render(path))
			}
			fmt.Fprint(cmd.OutOrStdout(), o)
		}
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPrompt(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		version := "(devel)"
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			version = info.Main.Version
		}
		fmt.Fprintln(cmd.OutOrStdout(), "layman", version)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&format, "format", "f", "sexpr", "output format: sexpr or json")
}

func printProgram(w io.Writer, program fmt.Stringer, format string) error {
	switch format {
	case "sexpr":
		_, err := fmt.Fprintln(w, program)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(program)
	}
	return fmt.Errorf("unknown format %q, want sexpr or json", format)
}
