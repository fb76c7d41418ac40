package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/wulab/labsite/internal/page"
)

// MarkdownWriter renders the homepage as Markdown.
// Interaction state is ignored: every research direction is listed with its
// details, and the award content is not part of the document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter writing to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders v.
func (w *MarkdownWriter) Write(v page.View) (int, error) {
	md := markdown.NewMarkdown(w.output)

	if !v.Ready {
		md.H1("Loading")
		md.PlainText("")
		md.Note("The configuration document has not been loaded.")
		return len(md.String()), md.Build()
	}

	w.writeProfile(md, v)
	w.writeResearch(md, v)
	w.writePublications(md, v)
	w.writeFooter(md, v)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeProfile(md *markdown.Markdown, v page.View) {
	p := v.Site.Profile

	md.H1(p.Name)
	md.PlainText("")
	md.PlainTextf("%s at %s", p.Title, markdown.Bold(p.Institution))
	md.PlainText("")

	items := make([]string, 0, 3)
	if p.Department != "" {
		items = append(items, p.Department)
	}
	if p.Email != "" {
		items = append(items, "Email: "+markdown.Code(p.Email))
	}
	if p.OrcidLink != "" {
		items = append(items, markdown.Link("ORCID Profile", p.OrcidLink))
	}
	if len(items) > 0 {
		md.BulletList(items...)
		md.PlainText("")
	}

	if p.Bio != "" {
		md.PlainText(p.Bio)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeResearch(md *markdown.Markdown, v page.View) {
	md.H2("Research Directions")
	md.PlainText("")
	md.PlainText(markdown.Italic(v.Site.ResearchTagline()))
	md.PlainText("")

	for _, dir := range v.Site.ResearchDirs {
		md.H3(dir.Title)
		md.PlainText("")
		md.PlainText(dir.Description)
		md.PlainText("")
		if len(dir.Details) > 0 {
			md.BulletList(dir.Details...)
			md.PlainText("")
		}
	}
}

func (w *MarkdownWriter) writePublications(md *markdown.Markdown, v page.View) {
	md.H2("Publications")
	md.PlainText("")
	md.PlainTextf("Synchronized with %s database", markdown.Bold(v.Site.PublicationsSource()))
	md.PlainText("")

	if v.Syncing() {
		md.Note(fmt.Sprintf("Syncing publications from %s...", v.Site.PublicationsSource()))
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(v.Publications))
	for _, pub := range v.Publications {
		title := pub.Title
		if href := pub.TitleHref(); href != "" {
			title = markdown.Link(pub.Title, href)
		}
		doi := ""
		if pub.DOI != "" {
			doi = markdown.Link(pub.DOI, pub.Href())
		}
		rows = append(rows, []string{pub.Year, title, pub.Journal, doi})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Year", "Title", "Journal", "DOI"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainText(markdown.Italic(strconv.Itoa(len(v.Publications)) + " publication(s)"))
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, v page.View) {
	md.HorizontalRule()
	md.PlainText("")
	line := fmt.Sprintf("© %d %s Laboratory", v.Year, v.Site.Profile.ShortName())
	if inst := before(v.Site.Profile.Institution, ","); inst != "" {
		line += " / " + inst
	}
	md.PlainText(line)
}
