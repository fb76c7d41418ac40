package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wulab/labsite/internal/config"
	"github.com/wulab/labsite/internal/pipeline"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a static snapshot of the homepage",
		Long: `Build reads both documents once and writes a static snapshot of the
homepage into the output directory:

  index.html         the page; research modals open through #anchors and the
                     avatar gesture runs in a small inline script
  homepage.md        a Markdown rendition of the page
  config.json        the configuration document as loaded
  publications.json  the publications document as loaded
  assets/            a copy of the static directory

The output directory is removed and recreated on every build. It may not
hold the local documents, nor overlap the static directory. The build
fails when the configuration document cannot be loaded; a missing
publications document only leaves the list empty.

Examples:
  # Build into ./dist
  labsite build

  # Build into a custom directory
  labsite build -o public_html`,
		Args: cobra.NoArgs,
		RunE: runBuildCmd,
	}

	addDocumentFlags(cmd)
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Output directory (removed and recreated)")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	b := pipeline.NewBuild(cfg.OutputDir, started)
	p := pipeline.NewBuildPipeline(newLoader(cfg, logger), cfg.StaticDir, localDocuments(cfg), logger)
	if err := p.Execute(ctx, b); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	out := cmd.OutOrStdout()
	files := b.Files()
	fmt.Fprintf(out, "Built %s (%d files, %d publications) in %s\n",
		cfg.OutputDir, len(files), len(b.Documents.Publications),
		time.Since(started).Round(time.Millisecond))
	for _, f := range files {
		fmt.Fprintf(out, "  %s\n", filepath.Join(cfg.OutputDir, f))
	}
	return nil
}
