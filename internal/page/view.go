package page

import (
	"time"

	"github.com/wulab/labsite/internal/model"
)

// View is everything a renderer needs for one page.
type View struct {
	// Ready is false until the configuration document has loaded.
	// A view that is not ready carries no site content at all.
	Ready bool

	Site         *model.SiteConfig
	LabName      string
	Publications []model.Publication

	// Selected is the research direction whose modal is open, or nil.
	Selected *model.ResearchDirection

	// AwardOpen reports whether the award modal is shown.
	AwardOpen bool
	Award     model.Award

	// AvatarClicks is the click count since the last trigger.
	AvatarClicks int

	// Year is the copyright year of the footer.
	Year int

	// Version is the document version the view was built from.
	Version uint64
}

// NewView combines the documents and one session's state.
// A zero Session gives the initial state: no selection, award closed.
func NewView(docs Documents, sess Session, now time.Time) View {
	v := View{
		Ready:   docs.Ready(),
		Year:    now.Year(),
		Version: docs.Version,
	}
	if !v.Ready {
		return v
	}

	v.Site = docs.Site
	v.LabName = docs.Site.LabName()
	v.Publications = docs.Publications
	v.Award = docs.Site.AwardContent()
	v.AwardOpen = sess.Award.IsOpen()
	v.AvatarClicks = sess.Avatar.Count()

	if dir, ok := docs.Site.FindResearch(sess.Research.ID()); ok {
		v.Selected = &dir
	}
	return v
}

// Syncing reports whether the publications list shows the syncing
// placeholder. Failed reads and empty documents look the same.
func (v View) Syncing() bool {
	return len(v.Publications) == 0
}
