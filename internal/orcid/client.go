package orcid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wulab/labsite/internal/model"
)

// DefaultBaseURL is the ORCID public API root.
const DefaultBaseURL = "https://pub.orcid.org/v3.0"

// maxResponseSize caps the works response. Large bibliographies run to a
// few hundred kilobytes.
const maxResponseSize = 20 * 1024 * 1024

var (
	// ErrUnexpectedStatus is returned when the API answers anything but 200.
	ErrUnexpectedStatus = errors.New("unexpected orcid api status")

	// ErrEmptyID is returned when no ORCID iD is given.
	ErrEmptyID = errors.New("empty orcid id")
)

// Client fetches works from the ORCID public API.
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root, e.g. for the sandbox or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client for the public API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Works returns up to limit publications of the researcher with the given
// iD, in the order the API lists them.
func (c *Client) Works(ctx context.Context, id string, limit int) ([]model.Publication, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	endpoint := c.baseURL + "/" + url.PathEscape(id) + "/works"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("fetching orcid works", "url", endpoint)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orcid works: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d for %s", ErrUnexpectedStatus, resp.StatusCode, id)
	}

	var works worksResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&works); err != nil {
		return nil, fmt.Errorf("failed to decode orcid works: %w", err)
	}

	pubs := Convert(works.Group, limit)
	c.logger.Debug("fetched orcid works", "groups", len(works.Group), "kept", len(pubs))
	return pubs, nil
}
