package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wulab/labsite/internal/page"
)

// Routes.
const (
	PathIndex          = "/"
	PathAvatar         = "/avatar"
	PathResearchSelect = "/research/select"
	PathResearchClose  = "/research/close"
	PathAwardClose     = "/award/close"
	PathHealth         = "/healthz"
	PathAssets         = "/assets"
	PathLiveReload     = "/ws"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "labsite_session"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the interactive homepage.
type Server struct {
	addr       string
	staticDir  string
	watch      bool
	watchFiles []string
	sessionTTL time.Duration

	loader   page.Loader
	store    *page.Store
	sessions *page.SessionStore
	hub      *Hub
	logger   *slog.Logger
	now      func() time.Time

	engine *gin.Engine

	// reloadMu serializes document reloads.
	reloadMu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithStaticDir serves dir under /assets. A missing directory is skipped.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithWatch enables live reload. files are the local document paths to
// watch; the static directory is watched as well.
func WithWatch(files ...string) Option {
	return func(s *Server) {
		s.watch = true
		s.watchFiles = files
	}
}

// WithSessionTTL sets how long idle sessions are kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithClock replaces time.Now for sessions and the footer year.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a Server reading documents with loader into store.
// Loading is started by Run, or explicitly with Reload.
func New(loader page.Loader, store *page.Store, opts ...Option) *Server {
	s := &Server{
		addr:       "127.0.0.1:8080",
		sessionTTL: 30 * time.Minute,
		loader:     loader,
		store:      store,
		hub:        NewHub(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.sessions = page.NewSessionStore(s.sessionTTL, page.WithClock(s.now))
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Hub returns the live-reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Sessions returns the session store.
func (s *Server) Sessions() *page.SessionStore {
	return s.sessions
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	_ = r.SetTrustedProxies(nil)

	r.GET(PathIndex, s.index)
	r.HEAD(PathIndex, s.index)
	r.POST(PathAvatar, s.clickAvatar)
	r.POST(PathResearchSelect, s.selectResearch)
	r.POST(PathResearchClose, s.closeResearch)
	r.POST(PathAwardClose, s.closeAward)
	r.GET(PathHealth, s.health)

	if s.staticDir != "" {
		if info, err := os.Stat(s.staticDir); err == nil && info.IsDir() {
			r.Static(PathAssets, s.staticDir)
		} else {
			s.logger.Debug("static directory not served", "dir", s.staticDir)
		}
	}
	if s.watch {
		r.GET(PathLiveReload, wsHandler(s.hub))
	}
	return r
}

// requestLogger logs each request at debug level.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// Reload reads both documents into the store and notifies live-reload
// clients. Concurrent calls run one after the other.
func (s *Server) Reload(ctx context.Context) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	page.Load(ctx, s.loader, s.store, s.logger)
	if s.watch {
		s.hub.Broadcast(ReloadMessage{Type: "reload", Version: s.store.Snapshot().Version})
	}
}

// Run loads the documents in the background and serves until ctx is done.
// announce, if not nil, is called with the listen address once the
// listener is open.
func (s *Server) Run(ctx context.Context, announce func(addr string)) error {
	httpSrv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Reload(runCtx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.pruneSessions(runCtx)
	}()

	if s.watch {
		dirs := []string{}
		if s.staticDir != "" {
			dirs = append(dirs, s.staticDir)
		}
		w, err := NewWatcher(s.watchFiles, dirs, func() { s.Reload(runCtx) }, s.logger)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(runCtx)
		}()
	}

	errCh := make(chan error, 1)
	ln, err := listen(ctx, s.addr)
	if err != nil {
		return err
	}
	if announce != nil {
		announce(ln.Addr().String())
	}
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	}

	s.logger.Debug("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	s.hub.CloseAll()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// pruneSessions drops expired sessions periodically.
func (s *Server) pruneSessions(ctx context.Context) {
	interval := s.sessionTTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Prune(); n > 0 {
				s.logger.Debug("pruned sessions", "removed", n, "remaining", s.sessions.Len())
			}
		}
	}
}
