package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wulab/labsite/internal/config"
	"github.com/wulab/labsite/internal/database"
	"github.com/wulab/labsite/internal/model"
	"github.com/wulab/labsite/internal/render"
)

// historyTimeLayout is the timestamp format of the text output.
const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
// This command lists and compares publication snapshots stored by sync.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and compare publication snapshots",
		Long: `History shows the publication snapshots recorded by 'labsite sync'.

Without flags it lists the stored snapshots, newest first. With --diff it
compares the latest snapshot with the one before it and shows:
- Publications added since the previous snapshot
- Publications removed since the previous snapshot
- The number of unchanged publications

Publications are matched by DOI, or by title when they have none.

Examples:
  # List snapshots
  labsite history

  # Compare the latest two snapshots
  labsite history --diff

  # Compare the latest snapshot with snapshot #3
  labsite history --with-id 3

  # Output the comparison in Markdown
  labsite history --diff --markdown`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	// Comparison flags
	cmd.Flags().BoolP("diff", "d", false,
		"Compare the latest two snapshots")
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare the latest snapshot with a specific snapshot by ID (implies --diff)")
	cmd.Flags().IntP("limit", "n", 0,
		"Number of snapshots to list (0 = all)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the comparison in Markdown format")

	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the snapshot database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}

	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	setupLogger(cmd, cfg)

	// History only reads, so a missing database is not created.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if diff || withID > 0 {
		return runComparison(ctx, out, db, withID, cfg)
	}
	return listSnapshots(ctx, out, db, limit, cfg.JSONReport)
}

// listSnapshots lists the stored snapshots, newest first.
func listSnapshots(ctx context.Context, out io.Writer, db *database.SnapshotDB, limit int, jsonOutput bool) error {
	history, err := db.History(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to get snapshot history: %w", err)
	}

	if jsonOutput {
		return encodeJSON(out, history)
	}

	if len(history) == 0 {
		fmt.Fprintln(out, "No snapshots found in the database.")
		fmt.Fprintln(out, "\nUse 'labsite sync' to record one.")
		return nil
	}

	fmt.Fprintf(out, "Publication snapshots (%d):\n\n", len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-12s  %s\n", "ID", "Date", "Publications", "Source")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %-12d  %s\n",
			meta.ID,
			meta.TakenAt.Local().Format(historyTimeLayout),
			meta.PublicationCount,
			meta.Source,
		)
	}

	fmt.Fprintln(out, "\nUse 'labsite history --diff' to compare the latest two snapshots.")
	fmt.Fprintln(out, "Use 'labsite history --with-id <id>' to compare with a specific snapshot.")

	return nil
}

// runComparison compares the latest snapshot with withID, or with the one
// before it when withID is zero.
func runComparison(ctx context.Context, out io.Writer, db *database.SnapshotDB, withID int64, cfg *config.Config) error {
	snaps, err := db.LatestSnapshots(ctx, 2)
	if err != nil {
		return fmt.Errorf("failed to get snapshots: %w", err)
	}
	if len(snaps) == 0 {
		return errors.New("no snapshots found (run 'labsite sync' first)")
	}

	current := snaps[0]
	var previous *model.Snapshot

	if withID > 0 {
		previous, err = db.SnapshotByID(ctx, withID)
		if err != nil {
			return fmt.Errorf("failed to get snapshot with ID %d: %w", withID, err)
		}
		if previous == nil {
			return fmt.Errorf("snapshot with ID %d not found", withID)
		}
	} else {
		if len(snaps) < 2 {
			return fmt.Errorf("at least 2 snapshots are required for comparison (found %d)", len(snaps))
		}
		previous = snaps[1]
	}

	result := model.ComparePublications(previous, current)

	if cfg.JSONReport {
		return encodeJSON(out, result)
	}
	if cfg.MarkdownReport {
		_, err := render.NewDiffMarkdownWriter(out).Write(result)
		return err
	}
	outputComparisonText(out, result)
	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *model.PublicationDiff) {
	fmt.Fprintf(out, "Publication Comparison: #%d -> #%d\n", result.OldID, result.NewID)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious snapshot: %s\n", result.OldTakenAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(out, "Current snapshot:  %s\n", result.NewTakenAt.Local().Format(historyTimeLayout))

	previousCount := len(result.Removed) + result.Unchanged
	currentCount := len(result.Added) + result.Unchanged
	fmt.Fprintf(out, "\nPublications: %d -> %d (%s)\n",
		previousCount, currentCount, formatDelta(currentCount-previousCount))

	if !result.HasChanges() {
		fmt.Fprintln(out, "\nNo publications were added or removed.")
	}

	if len(result.Added) > 0 {
		fmt.Fprintf(out, "\nAdded (%d):\n", len(result.Added))
		for _, p := range result.Added {
			fmt.Fprintf(out, "  [+] %s\n", formatPublication(p))
		}
	}

	if len(result.Removed) > 0 {
		fmt.Fprintf(out, "\nRemoved (%d):\n", len(result.Removed))
		for _, p := range result.Removed {
			fmt.Fprintf(out, "  [-] %s\n", formatPublication(p))
		}
	}

	if result.Unchanged > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d publications\n", result.Unchanged)
	}
}

// formatPublication formats one record on a single line.
func formatPublication(p model.Publication) string {
	line := fmt.Sprintf("[%s] %s (%s)", p.Year, p.Title, p.Journal)
	if p.DOI != "" {
		line += " doi:" + p.DOI
	}
	return line
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

// encodeJSON writes v as indented JSON.
func encodeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
