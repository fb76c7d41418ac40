package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/wulab/labsite/internal/model"
	"github.com/wulab/labsite/internal/page"
)

var errFetch = errors.New("fetch failed")

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testSite() *model.SiteConfig {
	return &model.SiteConfig{
		Profile: model.Profile{
			Name:        "Min Wu, Ph.D.",
			Title:       "Professor & Ph.D. Supervisor",
			Department:  "Department of Radiology",
			Institution: "West China Hospital, Sichuan University",
			Email:       "wumin@example.edu",
			OrcidLink:   "https://orcid.org/0000-0002-7733-2498",
		},
		ResearchDirs: []model.ResearchDirection{
			{ID: "imaging", Title: "Smart Imaging", Description: "Responsive probes.", Details: []string{"MRI", "PET", "Optical"}},
			{ID: "theranostics", Title: "Theranostics", Description: "Therapy and diagnosis.", Details: []string{"Nanomedicine"}},
		},
	}
}

type stubLoader struct {
	site    *model.SiteConfig
	siteErr error
	pubs    []model.Publication
	pubsErr error
}

func (s stubLoader) LoadSiteConfig(context.Context) (*model.SiteConfig, error) {
	return s.site, s.siteErr
}

func (s stubLoader) LoadPublications(context.Context) ([]model.Publication, error) {
	return s.pubs, s.pubsErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newLoadedServer returns a server whose documents are already loaded.
func newLoadedServer(t *testing.T, loader page.Loader, opts ...Option) *Server {
	t.Helper()

	opts = append([]Option{WithLogger(discardLogger()), WithClock(func() time.Time { return testNow })}, opts...)
	s := New(loader, page.NewStore(), opts...)
	s.Reload(context.Background())
	return s
}

// client drives a server through a recorder, carrying the session cookie
// from response to request the way a browser does.
type client struct {
	t      *testing.T
	s      *Server
	cookie *http.Cookie
}

func newClient(t *testing.T, s *Server) *client {
	t.Helper()
	return &client{t: t, s: s}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.s.Handler().ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == SessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) page() *goquery.Document {
	c.t.Helper()
	rec := c.get("/")
	if rec.Code != http.StatusOK {
		c.t.Fatalf("GET / = %d", rec.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		c.t.Fatal(err)
	}
	return doc
}

func httptestGet(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
