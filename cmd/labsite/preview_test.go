package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewPreviewCmd(t *testing.T) {
	t.Parallel()

	cmd := NewPreviewCmd()

	if cmd.Use != "preview" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}
	if f := cmd.Flags().Lookup("raw"); f == nil || f.DefValue != "false" {
		t.Error("expected raw flag defaulting to false")
	}
	if f := cmd.Flags().Lookup("width"); f == nil || f.DefValue != "80" {
		t.Error("expected width flag defaulting to 80")
	}
}

func TestRunPreviewCmd(t *testing.T) {
	t.Parallel()

	t.Run("raw prints markdown", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath, pubsPath := writeDocs(t, dir)

		var out bytes.Buffer
		cmd := NewPreviewCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config-doc", cfgPath, "--publications-doc", pubsPath, "--raw"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{"# Min Wu, Ph.D.", "## Publications", "https://doi.org/10.1/x"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected %q in output:\n%s", want, out.String())
			}
		}
	})

	t.Run("styled output contains the name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath, pubsPath := writeDocs(t, dir)

		var out bytes.Buffer
		cmd := NewPreviewCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config-doc", cfgPath, "--publications-doc", pubsPath, "--width", "120"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Wu") {
			t.Errorf("expected name in styled output:\n%s", out.String())
		}
	})

	t.Run("missing configuration document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cmd := NewPreviewCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{
			"--config-doc", filepath.Join(dir, "nope.json"),
			"--publications-doc", filepath.Join(dir, "nope-either.json"),
		})
		if err := cmd.Execute(); !errors.Is(err, errNotLoaded) {
			t.Errorf("expected errNotLoaded, got %v", err)
		}
	})
}
