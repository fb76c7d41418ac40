package config

import (
	"errors"
	"regexp"
)

// orcidIDPattern matches the four-block ORCID iD form, the last character
// being a digit or the X checksum.
var orcidIDPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// Configuration validation errors returned by Validate and ValidateSync.
// Callers can match them with errors.Is.
var (
	// ErrNoConfigDocument is returned when the configuration document location is empty.
	ErrNoConfigDocument = errors.New("no configuration document specified: set --config-doc")

	// ErrNoPublicationsDocument is returned when the publications document location is empty.
	ErrNoPublicationsDocument = errors.New("no publications document specified: set --publications-doc")

	// ErrInvalidSessionTTL is returned when the session TTL is not positive.
	ErrInvalidSessionTTL = errors.New("invalid session ttl: must be positive")

	// ErrInvalidFetchTimeout is returned when the fetch timeout is negative.
	// Use 0 to disable the timeout.
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout: must be non-negative")

	// ErrInvalidMaxDocumentSize is returned when the max document size is negative.
	ErrInvalidMaxDocumentSize = errors.New("invalid max document size: must be non-negative")

	// ErrInvalidORCIDLimit is returned when the ORCID work limit is not positive.
	ErrInvalidORCIDLimit = errors.New("invalid orcid limit: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoORCIDID is returned by ValidateSync when no ORCID iD is configured.
	ErrNoORCIDID = errors.New("no orcid id specified: set --orcid or orcid.id in .labsite")

	// ErrInvalidORCIDID is returned by ValidateSync for a malformed ORCID iD.
	ErrInvalidORCIDID = errors.New("invalid orcid id: expected 0000-0000-0000-000X")
)
