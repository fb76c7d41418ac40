package config

import "time"

// File represents the structure of the .labsite project file.
// Every field is optional; empty fields leave the current value untouched.
type File struct {
	// Site holds document and directory locations.
	Site SiteSection `yaml:"site,omitempty"`

	// Serve holds serve command settings.
	Serve ServeSection `yaml:"serve,omitempty"`

	// ORCID holds sync command settings.
	ORCID ORCIDSection `yaml:"orcid,omitempty"`
}

// SiteSection locates the documents and directories of the site.
type SiteSection struct {
	ConfigDocument       string `yaml:"configDocument,omitempty"`
	PublicationsDocument string `yaml:"publicationsDocument,omitempty"`
	StaticDir            string `yaml:"staticDir,omitempty"`
	OutputDir            string `yaml:"outputDir,omitempty"`
}

// ServeSection configures the interactive server.
type ServeSection struct {
	Addr       string        `yaml:"addr,omitempty"`
	Watch      bool          `yaml:"watch,omitempty"`
	SessionTTL time.Duration `yaml:"sessionTTL,omitempty"`
}

// ORCIDSection configures the publications sync.
type ORCIDSection struct {
	ID      string `yaml:"id,omitempty"`
	BaseURL string `yaml:"baseURL,omitempty"`
	Limit   int    `yaml:"limit,omitempty"`
}

// ApplyFile copies every non-empty value of the project file into the config.
// It is applied before flags, so explicit flags still win.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&c.ConfigDocument, f.Site.ConfigDocument)
	setString(&c.PublicationsDocument, f.Site.PublicationsDocument)
	setString(&c.StaticDir, f.Site.StaticDir)
	setString(&c.OutputDir, f.Site.OutputDir)
	setString(&c.Addr, f.Serve.Addr)
	setString(&c.ORCIDID, f.ORCID.ID)
	setString(&c.ORCIDBaseURL, f.ORCID.BaseURL)

	if f.Serve.Watch {
		c.Watch = true
	}
	if f.Serve.SessionTTL > 0 {
		c.SessionTTL = f.Serve.SessionTTL
	}
	if f.ORCID.Limit > 0 {
		c.ORCIDLimit = f.ORCID.Limit
	}
}
