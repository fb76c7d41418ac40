package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/wulab/labsite/internal/model"
)

// Loader decodes the configuration and publications documents.
type Loader struct {
	fetcher         *Fetcher
	configDoc       string
	publicationsDoc string
}

// NewLoader creates a Loader reading the two document locations through f.
func NewLoader(f *Fetcher, configDoc, publicationsDoc string) *Loader {
	return &Loader{
		fetcher:         f,
		configDoc:       configDoc,
		publicationsDoc: publicationsDoc,
	}
}

// ConfigLocation returns the configuration document location.
func (l *Loader) ConfigLocation() string {
	return l.configDoc
}

// PublicationsLocation returns the publications document location.
func (l *Loader) PublicationsLocation() string {
	return l.publicationsDoc
}

// LoadSiteConfig reads and decodes the configuration document.
// It returns either a complete SiteConfig or an error, never both.
func (l *Loader) LoadSiteConfig(ctx context.Context) (*model.SiteConfig, error) {
	data, err := l.fetcher.Fetch(ctx, l.configDoc)
	if err != nil {
		return nil, err
	}
	return DecodeSiteConfig(data)
}

// LoadPublications reads and decodes the publications document.
func (l *Loader) LoadPublications(ctx context.Context) ([]model.Publication, error) {
	data, err := l.fetcher.Fetch(ctx, l.publicationsDoc)
	if err != nil {
		return nil, err
	}
	return DecodePublications(data)
}

// DecodeSiteConfig decodes a configuration document.
// A JSON null is rejected like any other malformed document.
func DecodeSiteConfig(data []byte) (*model.SiteConfig, error) {
	if isNull(data) {
		return nil, fmt.Errorf("%w: configuration document is null", ErrMalformed)
	}
	var cfg model.SiteConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &cfg, nil
}

// DecodePublications decodes a publications document.
// A JSON null decodes as an empty list.
func DecodePublications(data []byte) ([]model.Publication, error) {
	var pubs []model.Publication
	if err := json.Unmarshal(data, &pubs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if pubs == nil {
		pubs = []model.Publication{}
	}
	return pubs, nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
