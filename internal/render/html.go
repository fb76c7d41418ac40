package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/wulab/labsite/internal/model"
	"github.com/wulab/labsite/internal/page"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// navSections are the anchors listed in the header, in order.
var navSections = []string{"about", "research", "publications"}

var bioParser = goldmark.New(goldmark.WithExtensions(extension.Linkify))

var pageTemplates = template.Must(
	template.New("labsite").Funcs(template.FuncMap{
		"upper":    upper,
		"markdown": markdownHTML,
		"before":   before,
		"modal":    newModalData,
	}).ParseFS(templateFS, "templates/*.html"),
)

// Mode selects how interactive controls are rendered.
type Mode int

const (
	// ModeInteractive renders controls as forms posting to the server.
	ModeInteractive Mode = iota
	// ModeStatic renders anchors and an inline script, for file hosting.
	ModeStatic
)

// HTMLWriter renders the homepage as an HTML document.
type HTMLWriter struct {
	baseWriter
	mode       Mode
	liveReload string
}

// HTMLOption configures an HTMLWriter.
type HTMLOption func(*HTMLWriter)

// WithMode sets the rendering mode. The default is ModeInteractive.
func WithMode(m Mode) HTMLOption {
	return func(w *HTMLWriter) {
		w.mode = m
	}
}

// WithLiveReload embeds a script that reloads the page whenever the
// websocket at path sends a message. An empty path disables it.
func WithLiveReload(path string) HTMLOption {
	return func(w *HTMLWriter) {
		w.liveReload = path
	}
}

// NewHTMLWriter creates an HTMLWriter writing to output.
func NewHTMLWriter(output io.Writer, opts ...HTMLOption) *HTMLWriter {
	w := &HTMLWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// pageData is the root value of the page template.
type pageData struct {
	View       page.View
	Static     bool
	LiveReload string
	Threshold  int
	Nav        []string
}

// Write renders v.
func (w *HTMLWriter) Write(v page.View) (int, error) {
	var buf bytes.Buffer
	data := pageData{
		View:       v,
		Static:     w.mode == ModeStatic,
		LiveReload: w.liveReload,
		Threshold:  page.AwardThreshold,
		Nav:        navSections,
	}
	if err := pageTemplates.ExecuteTemplate(&buf, "page", data); err != nil {
		return 0, fmt.Errorf("failed to render page: %w", err)
	}
	return w.output.Write(buf.Bytes())
}

// modalData is the value of the research-modal template.
type modalData struct {
	Dir    model.ResearchDirection
	Static bool
}

func newModalData(dir model.ResearchDirection, static bool) modalData {
	return modalData{Dir: dir, Static: static}
}

// markdownHTML renders the profile bio. Raw HTML inside the Markdown is
// dropped by goldmark's default renderer, so the result is safe to embed.
func markdownHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := bioParser.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // unsafe HTML is disabled in goldmark
}

// upper upper-cases card titles and header labels.
// A Caser keeps state, so each call gets its own.
func upper(s string) string {
	return cases.Upper(language.English).String(s)
}

// before returns s up to the first sep, trimmed.
// "West China Hospital, Sichuan University" becomes "West China Hospital".
func before(s, sep string) string {
	head, _, _ := strings.Cut(s, sep)
	return strings.TrimSpace(head)
}
