package page

import (
	"context"
	"log/slog"
	"time"

	"github.com/wulab/labsite/internal/model"
	"golang.org/x/sync/errgroup"
)

// Loader reads the two documents.
type Loader interface {
	LoadSiteConfig(ctx context.Context) (*model.SiteConfig, error)
	LoadPublications(ctx context.Context) ([]model.Publication, error)
}

// Load reads both documents concurrently and writes each result to its
// slot of store as soon as it arrives. It returns when both reads are done.
//
// Design decision: Neither goroutine returns its error to the errgroup.
// A failure is a state of the slot (loading placeholder, empty list), not
// a reason to cancel the other read.
func Load(ctx context.Context, loader Loader, store *Store, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	var g errgroup.Group

	g.Go(func() error {
		start := time.Now()
		cfg, err := loader.LoadSiteConfig(ctx)
		store.SetSite(cfg, err)
		if err != nil || cfg == nil {
			logger.Warn("configuration document not loaded; page stays in loading state", "error", err)
			return nil
		}
		logger.Debug("configuration document loaded",
			"research_dirs", len(cfg.ResearchDirs),
			"elapsed", time.Since(start),
		)
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		pubs, err := loader.LoadPublications(ctx)
		store.SetPublications(pubs, err)
		if err != nil {
			logger.Warn("publications document not loaded; list is empty", "error", err)
			return nil
		}
		logger.Debug("publications document loaded",
			"publications", len(pubs),
			"elapsed", time.Since(start),
		)
		return nil
	})

	_ = g.Wait() //nolint:errcheck // goroutines never return errors
}
