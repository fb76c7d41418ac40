package render

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/wulab/labsite/internal/model"
)

const dateLayout = "2006-01-02 15:04"

// DiffMarkdownWriter renders a publication history diff as Markdown.
type DiffMarkdownWriter struct {
	baseWriter
}

// NewDiffMarkdownWriter creates a DiffMarkdownWriter writing to output.
func NewDiffMarkdownWriter(output io.Writer) *DiffMarkdownWriter {
	return &DiffMarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders d.
func (w *DiffMarkdownWriter) Write(d *model.PublicationDiff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Publication History")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "Snapshot", "Taken At"},
		Rows: [][]string{
			{"Previous", "#" + strconv.FormatInt(d.OldID, 10), d.OldTakenAt.Format(dateLayout)},
			{"Current", "#" + strconv.FormatInt(d.NewID, 10), d.NewTakenAt.Format(dateLayout)},
		},
	})
	md.PlainText("")

	if !d.HasChanges() {
		md.Tip("No publications were added or removed.")
		md.PlainText("")
	}

	if len(d.Added) > 0 {
		md.H2("Added (" + strconv.Itoa(len(d.Added)) + ")")
		md.PlainText("")
		md.BulletList(publicationLines(d.Added, false)...)
		md.PlainText("")
	}

	if len(d.Removed) > 0 {
		md.H2("Removed (" + strconv.Itoa(len(d.Removed)) + ")")
		md.PlainText("")
		md.BulletList(publicationLines(d.Removed, true)...)
		md.PlainText("")
	}

	if d.Unchanged > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainText(markdown.Italic(strconv.Itoa(d.Unchanged) + " publication(s) unchanged"))
	}

	return len(md.String()), md.Build()
}

func publicationLines(pubs []model.Publication, struck bool) []string {
	lines := make([]string, 0, len(pubs))
	for _, p := range pubs {
		line := markdown.Bold(p.Year) + " " + p.Title + " " + markdown.Italic(p.Journal)
		if href := p.Href(); href != "" && p.DOI != "" {
			line += " " + markdown.Link(p.DOI, href)
		}
		if struck {
			line = markdown.Strikethrough(line)
		}
		lines = append(lines, line)
	}
	return lines
}
