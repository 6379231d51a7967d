package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/layman-lang/layman/config"
	"github.com/layman-lang/layman/parser"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	verbose       bool
	maxIterations int

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "layman",
	Short: "Front end of the layman language",
	Long: `layman tokenizes and parses programs written in plain English sentences.

Without a command it starts an interactive prompt that prints the tree of
each line it reads.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPrompt(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvConfig+", ./layman.toml or the XDG config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug records, including statement errors that end a block")
	rootCmd.PersistentFlags().IntVar(&maxIterations, "max-iterations", 0, "parser iteration budget (overrides the config)")

	rootCmd.AddCommand(tokensCmd, parseCmd, outlineCmd, replCmd, versionCmd)
}

// setup loads the configuration and builds the logger shared by the commands.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.Parser.MaxIterations = maxIterations
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	logger.Debug("configuration loaded", "max_iterations", cfg.Parser.MaxIterations, "log_level", level.String())

	return nil
}

func parserOptions() []parser.Option {
	return []parser.Option{
		parser.WithMaxIterations(cfg.Parser.MaxIterations),
		parser.WithLogger(logger),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}
