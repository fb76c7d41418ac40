package main

import (
	"strings"
	"testing"
	"time"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "labsite" {
			t.Errorf("expected use 'labsite', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		subcommands := cmd.Commands()
		if len(subcommands) == 0 {
			t.Error("expected subcommands")
		}

		want := []string{"serve", "build", "preview", "sync", "history", "init", "version"}
		have := make(map[string]bool, len(subcommands))
		for _, sub := range subcommands {
			have[sub.Name()] = true
		}
		for _, name := range want {
			if !have[name] {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has log-json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.PersistentFlags().Lookup("log-json") == nil {
			t.Fatal("expected log-json flag")
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestBindEnv tests copying LABSITE_ variables into flags.
// It cannot run in parallel because it sets environment variables.
func TestBindEnv(t *testing.T) {
	t.Setenv("LABSITE_CONFIG_DOC", "https://example.org/config.json")
	t.Setenv("LABSITE_FETCH_TIMEOUT", "5s")
	t.Setenv("LABSITE_ADDR", ":9999")

	cmd := NewServeCmd()
	if err := cmd.ParseFlags([]string{"--addr", ":7000"}); err != nil {
		t.Fatal(err)
	}
	if err := bindEnv(cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("unset flag takes the environment value", func(t *testing.T) {
		got, err := cmd.Flags().GetString("config-doc")
		if err != nil {
			t.Fatal(err)
		}
		if got != "https://example.org/config.json" {
			t.Errorf("config-doc = %q", got)
		}
		if !cmd.Flags().Changed("config-doc") {
			t.Error("expected config-doc to count as changed")
		}
	})

	t.Run("typed flag is parsed", func(t *testing.T) {
		got, err := cmd.Flags().GetDuration("fetch-timeout")
		if err != nil {
			t.Fatal(err)
		}
		if got != 5*time.Second {
			t.Errorf("fetch-timeout = %v", got)
		}
	})

	t.Run("explicit flag wins over environment", func(t *testing.T) {
		got, err := cmd.Flags().GetString("addr")
		if err != nil {
			t.Fatal(err)
		}
		if got != ":7000" {
			t.Errorf("addr = %q, want :7000", got)
		}
	})
}

// TestBindEnvInvalidValue tests that a malformed variable is reported.
func TestBindEnvInvalidValue(t *testing.T) {
	t.Setenv("LABSITE_SESSION_TTL", "forever")

	cmd := NewServeCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	err := bindEnv(cmd)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "LABSITE_SESSION_TTL") {
		t.Errorf("expected variable name in error, got %v", err)
	}
}
