package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wulab/labsite/internal/config"
)

//go:embed templates/labsite.yaml templates/config.json templates/publications.json
var templates embed.FS

// configFileName is the default project file name.
const configFileName = config.DefaultConfigFile

// defaultDocsDir receives the sample documents.
const defaultDocsDir = "public"

// sampleDocuments are the embedded sample documents written by init.
var sampleDocuments = []string{"config.json", "publications.json"}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new labsite project",
		Long: `Initialize creates a .labsite project file in the current directory and
sample documents next to it.

The generated files include:
- .labsite with the default document locations and server settings
- public/config.json with a sample profile and research directions
- public/publications.json with two sample publications

Existing files are kept unless -f is given.

Examples:
  # Create .labsite and public/ in the current directory
  labsite init

  # Create the project file at a specific path
  labsite init -o site.yaml

  # Put the sample documents somewhere else
  labsite init --docs-dir data

  # Force overwrite existing files
  labsite init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the project file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")
	cmd.Flags().String("docs-dir", defaultDocsDir,
		"Directory for the sample documents (empty to skip them)")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	docsDir, err := cmd.Flags().GetString("docs-dir")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	if err := writeTemplate("labsite.yaml", outputPath, 0600); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)

	if docsDir != "" {
		for _, name := range sampleDocuments {
			path := filepath.Join(docsDir, name)
			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Kept existing document: %s\n", path)
					continue
				}
			}
			if err := writeTemplate(name, path, 0644); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created sample document: %s\n", path)
		}
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  - Edit the documents with your profile and research directions")
	fmt.Fprintln(out, "  - Run 'labsite serve --watch' to preview the page")
	fmt.Fprintln(out, "  - Set orcid.id and run 'labsite sync' to fetch your publications")

	return nil
}

// writeTemplate copies an embedded template to path, creating parent
// directories as needed.
func writeTemplate(name, path string, perm os.FileMode) error {
	content, err := templates.ReadFile("templates/" + name)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", name, err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
