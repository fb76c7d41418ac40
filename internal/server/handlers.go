package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wulab/labsite/internal/page"
	"github.com/wulab/labsite/internal/render"
)

// index renders the page for the caller's session.
func (s *Server) index(c *gin.Context) {
	sess := s.touchSession(c, nil)
	view := page.NewView(s.store.Snapshot(), sess, s.now())

	opts := []render.HTMLOption{render.WithMode(render.ModeInteractive)}
	if s.watch {
		opts = append(opts, render.WithLiveReload(PathLiveReload))
	}

	var buf bytes.Buffer
	if _, err := render.NewHTMLWriter(&buf, opts...).Write(view); err != nil {
		s.logger.Error("failed to render page", "error", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	etag := ETag(buf.Bytes())
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		c.AbortWithStatus(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// clickAvatar counts one avatar click. Before the configuration has loaded
// the page has no avatar, and the click is ignored.
func (s *Server) clickAvatar(c *gin.Context) {
	site := s.store.Snapshot().Site
	var opened bool
	s.touchSession(c, func(sess *page.Session) {
		opened = sess.ClickAvatar(site)
	})
	if opened {
		s.logger.Debug("award modal opened")
	}
	c.Redirect(http.StatusSeeOther, "/#about")
}

// selectResearch opens the modal of the posted research direction id.
// Unknown ids are ignored.
func (s *Server) selectResearch(c *gin.Context) {
	site := s.store.Snapshot().Site
	id := c.PostForm("id")
	s.touchSession(c, func(sess *page.Session) {
		sess.SelectResearch(site, id)
	})
	c.Redirect(http.StatusSeeOther, "/#research")
}

func (s *Server) closeResearch(c *gin.Context) {
	s.touchSession(c, func(sess *page.Session) {
		sess.CloseResearch()
	})
	c.Redirect(http.StatusSeeOther, "/#research")
}

func (s *Server) closeAward(c *gin.Context) {
	s.touchSession(c, func(sess *page.Session) {
		sess.CloseAward()
	})
	c.Redirect(http.StatusSeeOther, "/#about")
}

// health reports document state. The page shows a failed publications
// read like an empty list; this endpoint tells them apart.
func (s *Server) health(c *gin.Context) {
	docs := s.store.Snapshot()

	body := gin.H{
		"status":            "ok",
		"ready":             docs.Ready(),
		"publications":      len(docs.Publications),
		"version":           docs.Version,
		"sessions":          s.sessions.Len(),
		"liveReloadClients": s.hub.Count(),
	}
	if !docs.UpdatedAt.IsZero() {
		body["updatedAt"] = docs.UpdatedAt.UTC()
	}
	if docs.SiteErr != nil {
		body["configError"] = docs.SiteErr.Error()
	}
	if docs.PublicationsErr != nil {
		body["publicationsError"] = docs.PublicationsErr.Error()
	}

	status := http.StatusOK
	if !docs.Ready() {
		body["status"] = "loading"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}

// touchSession runs fn on the caller's session and reissues the cookie
// when the session is new.
func (s *Server) touchSession(c *gin.Context, fn func(*page.Session)) page.Session {
	id, _ := c.Cookie(SessionCookie)
	sess := s.sessions.Touch(id, fn)
	if sess.ID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID, int(s.sessionTTL.Seconds()), "/", "", false, true)
	}
	return sess
}
