package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/layman-lang/layman/config"
)

// These tests change the environment, so none of them run in parallel.

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layman.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{config.EnvConfig, config.EnvMaxIterations, config.EnvLogLevel, config.EnvHistory} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[parser]
max_iterations = 500

[log]
level = "debug"

[repl]
prompt = "> "
history = "/tmp/layman-history"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := &config.Config{
		Parser: config.ParserConfig{MaxIterations: 500},
		Log:    config.LogConfig{Level: "debug"},
		REPL:   config.REPLConfig{Prompt: "> ", History: "/tmp/layman-history"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v", level, err)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[log]\nlevel = \"WARN\"\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := &config.Config{
		Parser: config.ParserConfig{MaxIterations: config.DefaultMaxIterations},
		Log:    config.LogConfig{Level: "WARN"},
		REPL:   config.REPLConfig{Prompt: config.DefaultPrompt, History: config.DefaultHistory()},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if level, _ := cfg.SlogLevel(); level != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v, want WARN", level)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[parser]\nmax_iteration = 5\n", "unknown config keys"},
		{"syntax", "[parser\n", "failed to parse config"},
		{"negative limit", "[parser]\nmax_iterations = -1\n", "must be positive"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want an error containing %q", err, tt.want)
			}
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("got %v for a missing file", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[parser]\nmax_iterations = 500\n")
	t.Setenv(config.EnvMaxIterations, "42")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvHistory, "/tmp/elsewhere")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parser.MaxIterations != 42 || cfg.Log.Level != "error" || cfg.REPL.History != "/tmp/elsewhere" {
		t.Errorf("environment not applied: %+v", cfg)
	}
}

func TestDefault(t *testing.T) {
	clearEnv(t)

	cfg := config.Default()
	if cfg.Parser.MaxIterations != config.DefaultMaxIterations || cfg.Log.Level != config.DefaultLogLevel {
		t.Errorf("Default() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if !strings.HasSuffix(cfg.REPL.History, filepath.Join("layman", "history")) {
		t.Errorf("history = %q", cfg.REPL.History)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[repl]\nprompt = \"? \"\n")
	t.Setenv("LAYMAN_TEST_DIR", filepath.Dir(path))
	t.Setenv(config.EnvConfig, "$LAYMAN_TEST_DIR/layman.toml")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.REPL.Prompt != "? " {
		t.Errorf("prompt = %q, want the one from %s", cfg.REPL.Prompt, path)
	}
}

func TestEnvIsReadOnEveryLoad(t *testing.T) {
	clearEnv(t)

	t.Setenv(config.EnvMaxIterations, "7")
	if got := config.Default().Parser.MaxIterations; got != 7 {
		t.Fatalf("max iterations = %d, want 7", got)
	}

	t.Setenv(config.EnvMaxIterations, "8")
	t.Setenv(config.EnvLogLevel, "debug")
	cfg := config.Default()
	if cfg.Parser.MaxIterations != 8 || cfg.Log.Level != "debug" {
		t.Errorf("a changed environment was not picked up: %+v", cfg)
	}

	path := writeConfig(t, "[repl]\nprompt = \"% \"\n")
	t.Setenv(config.EnvConfig, path)
	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.REPL.Prompt != "% " {
		t.Errorf("prompt = %q, want the one from %s", cfg.REPL.Prompt, path)
	}
}
