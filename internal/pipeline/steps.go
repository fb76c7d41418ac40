package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wulab/labsite/internal/page"
	"github.com/wulab/labsite/internal/render"
)

// Output file names inside the build directory.
const (
	IndexFile        = "index.html"
	MarkdownFile     = "homepage.md"
	ConfigFile       = "config.json"
	PublicationsFile = "publications.json"
	AssetsDir        = "assets"
)

// LoadStep reads both documents into the build.
type LoadStep struct {
	loader page.Loader
	logger *slog.Logger
}

// NewLoadStep creates a LoadStep.
func NewLoadStep(loader page.Loader, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{loader: loader, logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads the documents. Load failures are recorded in the documents,
// not returned; RequireSiteStep decides whether they are fatal.
func (s *LoadStep) Do(ctx context.Context, b *Build) error {
	store := page.NewStore()
	page.Load(ctx, s.loader, store, s.logger)
	b.Documents = store.Snapshot()
	return nil
}

// RequireSiteStep stops the build when the configuration is missing.
type RequireSiteStep struct{}

// Name returns the step name.
func (RequireSiteStep) Name() string {
	return "require_site"
}

// Do returns ErrSiteNotLoaded, wrapping the load error if there was one.
func (RequireSiteStep) Do(_ context.Context, b *Build) error {
	if b.Documents.Site != nil {
		return nil
	}
	if b.Documents.SiteErr != nil {
		return fmt.Errorf("%w: %w", ErrSiteNotLoaded, b.Documents.SiteErr)
	}
	return ErrSiteNotLoaded
}

// CleanStep empties the output directory.
type CleanStep struct {
	staticDir string
	documents []string
}

// NewCleanStep creates a CleanStep that refuses to remove staticDir or any
// of the local documents.
func NewCleanStep(staticDir string, documents []string) *CleanStep {
	return &CleanStep{staticDir: staticDir, documents: documents}
}

// Name returns the step name.
func (*CleanStep) Name() string {
	return "clean"
}

// Do removes and recreates the output directory.
func (s *CleanStep) Do(_ context.Context, b *Build) error {
	if err := checkOutputDir(b.OutputDir, s.staticDir, s.documents); err != nil {
		return err
	}
	if err := os.RemoveAll(b.OutputDir); err != nil {
		return fmt.Errorf("failed to clean %s: %w", b.OutputDir, err)
	}
	if err := os.MkdirAll(b.OutputDir, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", b.OutputDir, err)
	}
	return nil
}

// checkOutputDir rejects directories whose removal would destroy more than
// a build: the working directory, the home directory, the root, and any
// directory holding the build's own inputs. The output may not overlap the
// static directory in either direction.
func checkOutputDir(dir, staticDir string, documents []string) error {
	if dir == "" {
		return fmt.Errorf("%w: empty path", ErrUnsafeOutputDir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if abs == filepath.Dir(abs) {
		return fmt.Errorf("%w: %s is the filesystem root", ErrUnsafeOutputDir, abs)
	}
	if cwd, err := os.Getwd(); err == nil && abs == cwd {
		return fmt.Errorf("%w: %s is the working directory", ErrUnsafeOutputDir, abs)
	}
	if home, err := os.UserHomeDir(); err == nil && abs == home {
		return fmt.Errorf("%w: %s is the home directory", ErrUnsafeOutputDir, abs)
	}

	if staticDir != "" {
		static, err := filepath.Abs(staticDir)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", staticDir, err)
		}
		if within(abs, static) || within(static, abs) {
			return fmt.Errorf("%w: %s overlaps the static directory %s", ErrUnsafeOutputDir, abs, static)
		}
	}
	for _, doc := range documents {
		if doc == "" {
			continue
		}
		docAbs, err := filepath.Abs(doc)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", doc, err)
		}
		if within(abs, docAbs) {
			return fmt.Errorf("%w: %s contains the document %s", ErrUnsafeOutputDir, abs, docAbs)
		}
	}
	return nil
}

// within reports whether path is parent or lies below it.
func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// CopyStaticStep copies the static asset directory to OutputDir/assets.
type CopyStaticStep struct {
	dir    string
	logger *slog.Logger
}

// NewCopyStaticStep creates a CopyStaticStep for dir.
func NewCopyStaticStep(dir string, logger *slog.Logger) *CopyStaticStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CopyStaticStep{dir: dir, logger: logger}
}

// Name returns the step name.
func (s *CopyStaticStep) Name() string {
	return "copy_static"
}

// Do copies the directory. A missing or unset directory is skipped.
func (s *CopyStaticStep) Do(_ context.Context, b *Build) error {
	if s.dir == "" {
		return nil
	}
	info, err := os.Stat(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("static directory not found, skipping", "dir", s.dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", s.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("static path %s is not a directory", s.dir)
	}

	src := os.DirFS(s.dir)
	dst := filepath.Join(b.OutputDir, AssetsDir)
	if err := os.CopyFS(dst, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", s.dir, err)
	}

	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			b.AddFile(filepath.ToSlash(filepath.Join(AssetsDir, path)))
		}
		return nil
	})
}

// WriteViewStep renders the page view with a render.Writer into one file.
type WriteViewStep struct {
	name      string
	file      string
	newWriter func(io.Writer) render.Writer
}

// NewWriteHTMLStep writes index.html in static mode.
func NewWriteHTMLStep() *WriteViewStep {
	return &WriteViewStep{
		name: "write_html",
		file: IndexFile,
		newWriter: func(w io.Writer) render.Writer {
			return render.NewHTMLWriter(w, render.WithMode(render.ModeStatic))
		},
	}
}

// NewWriteMarkdownStep writes homepage.md.
func NewWriteMarkdownStep() *WriteViewStep {
	return &WriteViewStep{
		name: "write_markdown",
		file: MarkdownFile,
		newWriter: func(w io.Writer) render.Writer {
			return render.NewMarkdownWriter(w)
		},
	}
}

// Name returns the step name.
func (s *WriteViewStep) Name() string {
	return s.name
}

// Do renders the view into the step's file.
func (s *WriteViewStep) Do(_ context.Context, b *Build) error {
	return writeOutput(b, s.file, func(w io.Writer) error {
		_, err := s.newWriter(w).Write(b.View())
		return err
	})
}

// WriteDocumentsStep writes the loaded documents next to the page, so the
// snapshot carries the data it was rendered from.
type WriteDocumentsStep struct{}

// Name returns the step name.
func (WriteDocumentsStep) Name() string {
	return "write_documents"
}

// Do writes config.json and publications.json.
func (WriteDocumentsStep) Do(_ context.Context, b *Build) error {
	if b.Documents.Site != nil {
		if err := writeJSON(b, ConfigFile, b.Documents.Site); err != nil {
			return err
		}
	}
	return writeJSON(b, PublicationsFile, b.Documents.Publications)
}

func writeJSON(b *Build, name string, v any) error {
	return writeOutput(b, name, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	})
}

// writeOutput creates name inside the output directory, fills it with fn
// and records it in the build.
func writeOutput(b *Build, name string, fn func(io.Writer) error) (err error) {
	path := filepath.Join(b.OutputDir, name)
	f, err := os.Create(path) //nolint:gosec // path is inside the output directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := fn(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	b.AddFile(name)
	return nil
}

// NewBuildPipeline assembles the full static build: load, check, clean,
// then write every rendition concurrently. documents are the local document
// paths the clean must leave alone; remote documents are not listed.
func NewBuildPipeline(loader page.Loader, staticDir string, documents []string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := New(WithLogger(logger))
	p.AddSteps(
		NewLoadStep(loader, logger),
		RequireSiteStep{},
		NewCleanStep(staticDir, documents),
		NewGroup([]Step{
			NewCopyStaticStep(staticDir, logger),
			NewWriteHTMLStep(),
			NewWriteMarkdownStep(),
			WriteDocumentsStep{},
		}, WithGroupLogger(logger)),
	)
	return p
}
