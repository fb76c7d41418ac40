package model

import "strings"

// DOIResolver is the address prefix used to turn a bare DOI into a link.
const DOIResolver = "https://doi.org/"

// Publication is one bibliographic record of the publications document.
// No uniqueness constraint is enforced; the document order is the render order.
type Publication struct {
	Year    string `json:"year"`
	Title   string `json:"title"`
	Journal string `json:"journal"`

	// DOI is optional. An empty DOI means the record has no DOI line.
	DOI string `json:"doi,omitempty"`

	// Link is optional. When present it overrides the DOI resolver address.
	Link string `json:"link,omitempty"`
}

// Href returns the address the DOI line links to.
// An explicit Link wins; otherwise the DOI is resolved through doi.org.
// Returns "" when the record has neither.
func (p Publication) Href() string {
	if p.Link != "" {
		return p.Link
	}
	if p.DOI != "" {
		return DOIResolver + p.DOI
	}
	return ""
}

// TitleHref returns the address the title links to.
// Only an explicit Link makes the title a link.
func (p Publication) TitleHref() string {
	return p.Link
}

// Key identifies a publication across snapshots.
// The DOI is used when present (case-insensitive, as DOIs are); otherwise the
// whitespace-normalized lower-case title.
func (p Publication) Key() string {
	if doi := strings.TrimSpace(p.DOI); doi != "" {
		return "doi:" + strings.ToLower(doi)
	}
	return "title:" + strings.ToLower(strings.Join(strings.Fields(p.Title), " "))
}
