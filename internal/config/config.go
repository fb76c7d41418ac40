package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultConfigDocument is the configuration document location.
	// Relative paths are resolved against the working directory.
	DefaultConfigDocument = "public/config.json"

	// DefaultPublicationsDocument is the publications document location.
	DefaultPublicationsDocument = "public/publications.json"

	// DefaultStaticDir holds images and other assets served under /assets.
	DefaultStaticDir = "public"

	// DefaultOutputDir is where the build command writes the static snapshot.
	DefaultOutputDir = "dist"

	// DefaultAddr is the listen address of the serve command.
	// Loopback only; exposing the page publicly is a deployment decision.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultSessionTTL is how long an idle browser session keeps its
	// interaction state (click counter, open modals).
	DefaultSessionTTL = 30 * time.Minute

	// DefaultFetchTimeout of zero means document reads never time out.
	// The page has always waited for its documents indefinitely.
	DefaultFetchTimeout = time.Duration(0)

	// DefaultMaxDocumentSize caps a single document read.
	// 5MB is far above any realistic homepage document.
	DefaultMaxDocumentSize = 5 * 1024 * 1024

	// DefaultORCIDBaseURL is the ORCID public API root.
	DefaultORCIDBaseURL = "https://pub.orcid.org/v3.0"

	// DefaultORCIDLimit is how many works the sync keeps.
	DefaultORCIDLimit = 10

	// DefaultUserAgent identifies labsite in outgoing HTTP requests.
	DefaultUserAgent = "labsite/1.0 (+https://github.com/wulab/labsite)"

	// AppName is the application name used for XDG directory paths.
	AppName = "labsite"
)

// Config holds all configuration options for labsite.
// It is populated from defaults, the .labsite project file, environment
// variables and CLI flags, in increasing order of precedence, and passed
// down explicitly rather than kept in global state.
//
// Design decision: A single flat struct, as the number of options is small
// and every command reads a different subset of it.
type Config struct {
	// ConfigDocument is the path or http(s) URL of the configuration document.
	ConfigDocument string

	// PublicationsDocument is the path or http(s) URL of the publications document.
	PublicationsDocument string

	// StaticDir is the directory of static assets. Optional: a missing
	// directory is skipped.
	StaticDir string

	// OutputDir is the build destination. It is wiped before each build.
	OutputDir string

	// Addr is the serve listen address in "host:port" format.
	Addr string

	// Watch enables reloading documents on change and live reload in browsers.
	Watch bool

	// SessionTTL is how long idle sessions are kept.
	SessionTTL time.Duration

	// FetchTimeout bounds a single document read. Zero disables the bound.
	FetchTimeout time.Duration

	// MaxDocumentSize caps a single document read in bytes.
	// Zero means DefaultMaxDocumentSize.
	MaxDocumentSize int64

	// UserAgent is sent with HTTP document reads and ORCID requests.
	UserAgent string

	// ORCIDID is the iD whose works the sync command fetches.
	ORCIDID string

	// ORCIDBaseURL is the ORCID API root.
	ORCIDBaseURL string

	// ORCIDLimit is how many works the sync keeps.
	ORCIDLimit int

	// DBDir is the directory of the snapshot database.
	// Defaults to the XDG data directory.
	DBDir string

	// JSONReport and MarkdownReport select the history output format.
	// They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// ConfigFilePath is the explicit project file path, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ConfigDocument:       DefaultConfigDocument,
		PublicationsDocument: DefaultPublicationsDocument,
		StaticDir:            DefaultStaticDir,
		OutputDir:            DefaultOutputDir,
		Addr:                 DefaultAddr,
		SessionTTL:           DefaultSessionTTL,
		FetchTimeout:         DefaultFetchTimeout,
		MaxDocumentSize:      DefaultMaxDocumentSize,
		UserAgent:            DefaultUserAgent,
		ORCIDBaseURL:         DefaultORCIDBaseURL,
		ORCIDLimit:           DefaultORCIDLimit,
		DBDir:                XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for labsite.
// On Linux: ~/.local/share/labsite
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for labsite.
// On Linux: ~/.config/labsite
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.ConfigDocument == "" {
		return ErrNoConfigDocument
	}

	if c.PublicationsDocument == "" {
		return ErrNoPublicationsDocument
	}

	if c.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}

	if c.FetchTimeout < 0 {
		return ErrInvalidFetchTimeout
	}

	if c.MaxDocumentSize < 0 {
		return ErrInvalidMaxDocumentSize
	}

	if c.ORCIDLimit <= 0 {
		return ErrInvalidORCIDLimit
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// ValidateSync checks the options the sync command needs on top of Validate.
func (c *Config) ValidateSync() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ORCIDID == "" {
		return ErrNoORCIDID
	}
	if !orcidIDPattern.MatchString(c.ORCIDID) {
		return ErrInvalidORCIDID
	}
	return nil
}

// EffectiveMaxDocumentSize returns MaxDocumentSize, or the default when unset.
func (c *Config) EffectiveMaxDocumentSize() int64 {
	if c.MaxDocumentSize == 0 {
		return DefaultMaxDocumentSize
	}
	return c.MaxDocumentSize
}
