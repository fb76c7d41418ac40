package page

import (
	"time"

	"github.com/wulab/labsite/internal/model"
)

// AwardThreshold is the number of avatar clicks that open the award modal.
const AwardThreshold = 5

// AvatarCounter counts clicks on the avatar.
// There is no debounce and no decay.
type AvatarCounter struct {
	count int
}

// Click registers one click. It reports true when the click reaches
// AwardThreshold, in which case the counter is back at zero.
func (c *AvatarCounter) Click() bool {
	c.count++
	if c.count >= AwardThreshold {
		c.count = 0
		return true
	}
	return false
}

// Count returns the clicks registered since the last trigger.
func (c AvatarCounter) Count() int {
	return c.count
}

// Selection is the research direction whose detail modal is open.
type Selection struct {
	id string
}

// Select opens the detail modal of the direction with id.
// Unknown ids are ignored and leave the selection unchanged.
func (s *Selection) Select(site *model.SiteConfig, id string) bool {
	if site == nil {
		return false
	}
	if _, ok := site.FindResearch(id); !ok {
		return false
	}
	s.id = id
	return true
}

// Clear closes the detail modal.
func (s *Selection) Clear() {
	s.id = ""
}

// ID returns the selected id, or "" when nothing is selected.
func (s Selection) ID() string {
	return s.id
}

// AwardModal is the open/closed flag of the award modal.
type AwardModal struct {
	open bool
}

// Open shows the modal.
func (m *AwardModal) Open() { m.open = true }

// Close hides the modal.
func (m *AwardModal) Close() { m.open = false }

// IsOpen reports whether the modal is shown.
func (m AwardModal) IsOpen() bool { return m.open }

// Session is the interaction state of one browser.
type Session struct {
	ID       string
	Avatar   AvatarCounter
	Research Selection
	Award    AwardModal

	CreatedAt time.Time
	LastSeen  time.Time
}

// ClickAvatar registers an avatar click and opens the award modal on the
// threshold click. The avatar only exists once the configuration has
// loaded, so with a nil site this is a no-op.
func (s *Session) ClickAvatar(site *model.SiteConfig) bool {
	if site == nil {
		return false
	}
	if s.Avatar.Click() {
		s.Award.Open()
		return true
	}
	return false
}

// SelectResearch opens the detail modal of a research direction.
func (s *Session) SelectResearch(site *model.SiteConfig, id string) bool {
	return s.Research.Select(site, id)
}

// CloseResearch closes the research detail modal.
func (s *Session) CloseResearch() {
	s.Research.Clear()
}

// CloseAward closes the award modal.
func (s *Session) CloseAward() {
	s.Award.Close()
}
