package pipeline

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/wulab/labsite/internal/page"
)

var (
	// ErrSiteNotLoaded is returned when the configuration document could not
	// be loaded. A static snapshot of the loading placeholder is never written.
	ErrSiteNotLoaded = errors.New("configuration document not loaded")

	// ErrUnsafeOutputDir is returned for output directories that must not
	// be wiped, such as "", ".", the filesystem root or a directory
	// holding the build's own documents or static assets.
	ErrUnsafeOutputDir = errors.New("refusing to clean output directory")
)

// Build is the state a pipeline run accumulates.
// Steps inside a Group run concurrently; AddFile is safe for that use.
type Build struct {
	// OutputDir is the destination directory.
	OutputDir string

	// StartedAt is when the build began. It fixes the footer year.
	StartedAt time.Time

	// Documents are the loaded documents. Filled by LoadStep.
	Documents page.Documents

	// PerformedSteps lists the names of the steps that ran, in order.
	PerformedSteps []string

	// Error is the error of the step that stopped the build, if any.
	Error error

	// Canceled is set when the context ended the build early.
	Canceled bool

	mu    sync.Mutex
	files []string
}

// NewBuild creates a Build writing into outputDir.
func NewBuild(outputDir string, startedAt time.Time) *Build {
	return &Build{
		OutputDir: outputDir,
		StartedAt: startedAt,
	}
}

// View returns the static page view of the loaded documents.
func (b *Build) View() page.View {
	return page.NewView(b.Documents, page.Session{}, b.StartedAt)
}

// AddFile records a written file, relative to OutputDir.
func (b *Build) AddFile(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files = append(b.files, name)
}

// Files returns the written files in sorted order.
func (b *Build) Files() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	files := slices.Clone(b.files)
	slices.Sort(files)
	return files
}
