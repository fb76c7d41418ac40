package model

// Default texts used when the configuration document leaves them out.
const (
	// DefaultResearchTagline is the subtitle of the research section.
	DefaultResearchTagline = "Interdisciplinary focus on molecular-level medical solutions."

	// DefaultPublicationsSource names where the publications document comes from.
	DefaultPublicationsSource = "ORCID"
)

// SiteConfig is the configuration document.
// It is the unit of atomic load and failure: either the whole document is
// decoded or the page stays in its loading state.
type SiteConfig struct {
	Profile      Profile             `json:"profile"`
	ResearchDirs []ResearchDirection `json:"researchDirs"`

	// Site holds optional page-level texts.
	Site SiteSettings `json:"site,omitempty"`

	// Award holds the optional award modal content.
	// Nil means DefaultAward is used.
	Award *Award `json:"award,omitempty"`
}

// SiteSettings are optional page-level texts.
type SiteSettings struct {
	// LabName is shown in the header and footer, e.g. "Wu Lab".
	LabName string `json:"labName,omitempty"`

	// ResearchTagline is the subtitle of the research section.
	ResearchTagline string `json:"researchTagline,omitempty"`

	// PublicationsSource is named in the publications subtitle.
	PublicationsSource string `json:"publicationsSource,omitempty"`
}

// LabName returns the configured lab name, or "<Surname> Lab".
func (c *SiteConfig) LabName() string {
	if c.Site.LabName != "" {
		return c.Site.LabName
	}
	if surname := c.Profile.Surname(); surname != "" {
		return surname + " Lab"
	}
	return "Lab"
}

// ResearchTagline returns the configured tagline or DefaultResearchTagline.
func (c *SiteConfig) ResearchTagline() string {
	if c.Site.ResearchTagline != "" {
		return c.Site.ResearchTagline
	}
	return DefaultResearchTagline
}

// PublicationsSource returns the configured source or DefaultPublicationsSource.
func (c *SiteConfig) PublicationsSource() string {
	if c.Site.PublicationsSource != "" {
		return c.Site.PublicationsSource
	}
	return DefaultPublicationsSource
}

// AwardContent returns the award block with every empty field filled in
// from DefaultAward.
func (c *SiteConfig) AwardContent() Award {
	def := DefaultAward(c.Profile)
	if c.Award == nil {
		return def
	}
	return c.Award.withDefaults(def)
}

// FindResearch returns the research direction with the given id.
func (c *SiteConfig) FindResearch(id string) (ResearchDirection, bool) {
	for _, dir := range c.ResearchDirs {
		if dir.ID == id {
			return dir, true
		}
	}
	return ResearchDirection{}, false
}
