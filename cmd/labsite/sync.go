package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wulab/labsite/internal/config"
	"github.com/wulab/labsite/internal/database"
	"github.com/wulab/labsite/internal/model"
	"github.com/wulab/labsite/internal/orcid"
	"github.com/wulab/labsite/internal/source"
)

// errRemotePublications is returned when sync would have to write a
// publications document that lives behind a URL.
var errRemotePublications = errors.New("cannot write a remote publications document")

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Update the publications document from ORCID",
		Long: `Sync fetches the works of an ORCID iD from the ORCID public API and
rewrites the publications document with the first --limit of them.

Each work becomes one record: a missing year reads "N/A", a missing journal
reads "Unknown Journal", and the DOI is taken from the work's external ids.
If the API answers with anything but 200 the document is left untouched.

Every synced document is also stored as a snapshot in the local database
when it differs from the previous one. Use 'labsite history' to list and
compare snapshots.

Examples:
  # Sync the ten most recent works
  labsite sync --orcid 0000-0002-7733-2498

  # Show what would be written without touching any file
  labsite sync --orcid 0000-0002-7733-2498 --dry-run

  # Keep 25 works and skip the snapshot database
  labsite sync --orcid 0000-0002-7733-2498 --limit 25 --no-db`,
		Args: cobra.NoArgs,
		RunE: runSyncCmd,
	}

	cmd.Flags().String("publications-doc", config.DefaultPublicationsDocument,
		"Path of the publications document to write")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header of ORCID requests")
	cmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout,
		"Timeout of the ORCID request (0 = no timeout)")
	cmd.Flags().String("orcid", "", "ORCID iD, e.g. 0000-0002-7733-2498")
	cmd.Flags().String("orcid-url", config.DefaultORCIDBaseURL, "ORCID API root")
	cmd.Flags().Int("limit", config.DefaultORCIDLimit, "Number of works to keep")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the snapshot database")
	cmd.Flags().Bool("dry-run", false, "Print the document instead of writing it")
	cmd.Flags().Bool("no-db", false, "Do not record a snapshot")

	return cmd
}

// runSyncCmd executes the sync command.
func runSyncCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateSync(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return err
	}

	if !dryRun && source.IsRemote(cfg.PublicationsDocument) {
		return fmt.Errorf("%w: %s", errRemotePublications, cfg.PublicationsDocument)
	}

	logger := setupLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
	}

	client := orcid.NewClient(
		orcid.WithBaseURL(cfg.ORCIDBaseURL),
		orcid.WithUserAgent(cfg.UserAgent),
		orcid.WithLogger(logger),
	)
	takenAt := time.Now()
	pubs, err := client.Works(ctx, cfg.ORCIDID, cfg.ORCIDLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch works: %w", err)
	}

	out := cmd.OutOrStdout()
	if dryRun {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(pubs)
	}

	if err := writePublications(cfg.PublicationsDocument, pubs); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d publications to %s\n", len(pubs), cfg.PublicationsDocument)

	if noDB {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	snap := &model.Snapshot{
		TakenAt:      takenAt,
		Source:       "orcid:" + cfg.ORCIDID,
		Publications: pubs,
	}
	added, err := db.SaveSnapshot(ctx, snap)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if added {
		fmt.Fprintf(out, "Saved snapshot #%d\n", snap.ID)
	} else {
		fmt.Fprintf(out, "Publications unchanged since snapshot #%d\n", snap.ID)
	}
	return nil
}

// writePublications replaces the document at path. The records are written
// to a temporary file in the same directory first, so readers never see a
// partial document.
func writePublications(path string, pubs []model.Publication) (err error) {
	if pubs == nil {
		pubs = []model.Publication{}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".publications-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(pubs); err != nil {
		return fmt.Errorf("failed to encode publications: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
