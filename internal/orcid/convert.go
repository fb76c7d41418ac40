package orcid

import (
	"strings"

	"github.com/wulab/labsite/internal/model"
	"golang.org/x/net/html"
)

// Defaults for fields a work summary leaves out.
const (
	UnknownYear    = "N/A"
	UnknownJournal = "Unknown Journal"
)

// Convert turns work groups into publication records, keeping at most limit
// of them in API order. A non-positive limit keeps all.
func Convert(groups []workGroup, limit int) []model.Publication {
	if limit <= 0 || limit > len(groups) {
		limit = len(groups)
	}

	pubs := make([]model.Publication, 0, limit)
	for _, group := range groups[:limit] {
		if len(group.WorkSummary) == 0 {
			continue
		}
		pubs = append(pubs, convertSummary(group.WorkSummary[0]))
	}
	return pubs
}

func convertSummary(ws workSummary) model.Publication {
	pub := model.Publication{
		Year:    UnknownYear,
		Journal: UnknownJournal,
	}

	if ws.Title != nil && ws.Title.Title != nil {
		pub.Title = StripMarkup(ws.Title.Title.Value)
	}
	if ws.PublicationDate != nil && ws.PublicationDate.Year != nil && ws.PublicationDate.Year.Value != "" {
		pub.Year = ws.PublicationDate.Year.Value
	}
	if ws.JournalTitle != nil && ws.JournalTitle.Value != "" {
		pub.Journal = ws.JournalTitle.Value
	}
	if ws.ExternalIDs != nil {
		// The last DOI wins.
		for _, eid := range ws.ExternalIDs.ExternalID {
			if eid.Type == "doi" {
				pub.DOI = eid.Value
			}
		}
	}
	return pub
}

// StripMarkup returns the text content of s with entities decoded and runs
// of whitespace collapsed. Plain text passes through unchanged apart from
// whitespace.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			// Inline markup such as <i> or <sub> joins its neighbours.
			b.Write(z.Text())
		}
	}
}
