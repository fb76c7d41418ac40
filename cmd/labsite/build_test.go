package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wulab/labsite/internal/config"
	"github.com/wulab/labsite/internal/pipeline"
)

const testConfigDoc = `{
  "profile": {
    "name": "Min Wu, Ph.D.",
    "title": "Professor",
    "department": "Department of Radiology",
    "institution": "West China Hospital",
    "email": "wu@example.edu",
    "orcidLink": "https://orcid.org/0000-0002-7733-2498"
  },
  "researchDirs": [
    {"id": "imaging", "title": "Molecular Imaging", "description": "Imaging.", "details": ["MRI", "PET"]}
  ]
}`

const testPublicationsDoc = `[
  {"year": "2024", "title": "T", "journal": "J", "doi": "10.1/x"}
]`

// writeDocs writes both documents into dir and returns their paths.
func writeDocs(t *testing.T, dir string) (string, string) {
	t.Helper()

	cfgPath := filepath.Join(dir, "config.json")
	pubsPath := filepath.Join(dir, "publications.json")
	if err := os.WriteFile(cfgPath, []byte(testConfigDoc), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pubsPath, []byte(testPublicationsDoc), 0600); err != nil {
		t.Fatal(err)
	}
	return cfgPath, pubsPath
}

func TestNewBuildCmd(t *testing.T) {
	t.Parallel()

	cmd := NewBuildCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "build" {
			t.Errorf("expected use 'build', got %q", cmd.Use)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultOutputDir {
			t.Errorf("expected default %q, got %q", config.DefaultOutputDir, flag.DefValue)
		}
	})

	t.Run("has document flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"config-doc", "publications-doc", "static-dir", "fetch-timeout", "max-document-size", "user-agent"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

func TestRunBuildCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes the snapshot", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath, pubsPath := writeDocs(t, dir)
		outDir := filepath.Join(dir, "dist")

		var out bytes.Buffer
		cmd := NewBuildCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{
			"--config-doc", cfgPath,
			"--publications-doc", pubsPath,
			"--static-dir", filepath.Join(dir, "missing"),
			"-o", outDir,
		})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(out.String(), "1 publications") {
			t.Errorf("unexpected summary: %q", out.String())
		}
		for _, name := range []string{pipeline.IndexFile, pipeline.MarkdownFile, pipeline.ConfigFile, pipeline.PublicationsFile} {
			if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
			if !strings.Contains(out.String(), filepath.Join(outDir, name)) {
				t.Errorf("expected %s in output", name)
			}
		}

		html, err := os.ReadFile(filepath.Join(outDir, pipeline.IndexFile))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(html), "https://doi.org/10.1/x") {
			t.Error("expected DOI link in index.html")
		}
	})

	t.Run("fails without configuration document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, pubsPath := writeDocs(t, dir)

		cmd := NewBuildCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{
			"--config-doc", filepath.Join(dir, "nope.json"),
			"--publications-doc", pubsPath,
			"-o", filepath.Join(dir, "dist"),
		})
		err := cmd.Execute()
		if !errors.Is(err, pipeline.ErrSiteNotLoaded) {
			t.Errorf("expected ErrSiteNotLoaded, got %v", err)
		}
	})

	t.Run("refuses to clean the document directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath, pubsPath := writeDocs(t, dir)

		cmd := NewBuildCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{
			"--config-doc", cfgPath,
			"--publications-doc", pubsPath,
			"--static-dir", filepath.Join(dir, "missing"),
			"-o", dir,
		})
		if err := cmd.Execute(); !errors.Is(err, pipeline.ErrUnsafeOutputDir) {
			t.Fatalf("expected ErrUnsafeOutputDir, got %v", err)
		}
		for _, path := range []string{cfgPath, pubsPath} {
			if _, err := os.Stat(path); err != nil {
				t.Errorf("document %s should survive: %v", path, err)
			}
		}
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		t.Parallel()

		cmd := NewBuildCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--fetch-timeout=-1s", "-o", filepath.Join(t.TempDir(), "dist")})
		err := cmd.Execute()
		if !errors.Is(err, config.ErrInvalidFetchTimeout) {
			t.Errorf("expected ErrInvalidFetchTimeout, got %v", err)
		}
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("project file applies under flags", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		projectPath := filepath.Join(dir, "site.yaml")
		content := `site:
  configDocument: from-file.json
  outputDir: from-file-dist
serve:
  addr: ":9000"
`
		if err := os.WriteFile(projectPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewRootCmd()
		sub, _, err := cmd.Find([]string{"build"})
		if err != nil {
			t.Fatal(err)
		}
		if err := sub.ParseFlags([]string{"--config", projectPath, "-o", "from-flag"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(sub)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ConfigDocument != "from-file.json" {
			t.Errorf("ConfigDocument = %q, want from-file.json", cfg.ConfigDocument)
		}
		if cfg.OutputDir != "from-flag" {
			t.Errorf("OutputDir = %q, want from-flag", cfg.OutputDir)
		}
		if cfg.Addr != ":9000" {
			t.Errorf("Addr = %q, want :9000", cfg.Addr)
		}
		if cfg.PublicationsDocument != config.DefaultPublicationsDocument {
			t.Errorf("PublicationsDocument = %q", cfg.PublicationsDocument)
		}
	})

	t.Run("explicit missing project file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		sub, _, err := cmd.Find([]string{"build"})
		if err != nil {
			t.Fatal(err)
		}
		if err := sub.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(sub); err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}
