package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/wulab/labsite/internal/page"
	"github.com/wulab/labsite/internal/render"
)

// defaultPreviewWidth is the word wrap width of the terminal preview.
const defaultPreviewWidth = 80

// errNotLoaded is returned by preview when the configuration document
// could not be loaded.
var errNotLoaded = errors.New("configuration document not loaded")

// NewPreviewCmd creates the preview command.
func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the homepage in the terminal",
		Long: `Preview reads both documents and renders the Markdown rendition of the
homepage to the terminal.

Examples:
  # Styled preview
  labsite preview

  # Raw Markdown, e.g. to pipe into another tool
  labsite preview --raw > homepage.md`,
		Args: cobra.NoArgs,
		RunE: runPreviewCmd,
	}

	addDocumentFlags(cmd)
	cmd.Flags().Bool("raw", false, "Print Markdown without terminal styling")
	cmd.Flags().Int("width", defaultPreviewWidth, "Word wrap width")

	return cmd
}

// runPreviewCmd executes the preview command.
func runPreviewCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return err
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)

	store := page.NewStore()
	page.Load(context.Background(), newLoader(cfg, logger), store, logger)
	docs := store.Snapshot()
	if !docs.Ready() {
		if docs.SiteErr != nil {
			return fmt.Errorf("%w: %w", errNotLoaded, docs.SiteErr)
		}
		return errNotLoaded
	}

	var buf bytes.Buffer
	if _, err := render.NewMarkdownWriter(&buf).Write(page.NewView(docs, page.Session{}, time.Now())); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	if raw {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	styled, err := renderer.Render(buf.String())
	if err != nil {
		return fmt.Errorf("failed to style markdown: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), styled)
	return err
}
