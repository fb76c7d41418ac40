package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wulab/labsite/internal/model"
	"github.com/wulab/labsite/internal/page"
)

func TestRun(t *testing.T) {
	t.Parallel()

	s := New(stubLoader{site: testSite()}, page.NewStore(),
		WithAddr("127.0.0.1:0"),
		WithLogger(discardLogger()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(addr string) { addrCh <- addr })
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("Run() returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := client.Get("http://" + addr + PathHealth)
		if err != nil {
			t.Fatalf("GET /healthz: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("documents never loaded, last status %d", resp.StatusCode)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestLiveReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pubsPath := filepath.Join(dir, "publications.json")

	s := newLoadedServer(t, stubLoader{site: testSite()}, WithWatch(pubsPath))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	t.Run("page embeds the reload script", func(t *testing.T) {
		rec := newClient(t, s).get("/")
		if !strings.Contains(rec.Body.String(), "new WebSocket") {
			t.Error("live reload script missing")
		}
	})

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + PathLiveReload
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	defer ws.Close()

	deadline := time.Now().Add(5 * time.Second)
	for s.Hub().Count() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	before := s.store.Snapshot().Version
	s.Reload(context.Background())

	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ReloadMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "reload" || msg.Version <= before {
		t.Errorf("message = %+v, version before %d", msg, before)
	}
}

func TestLiveReloadDisabled(t *testing.T) {
	t.Parallel()

	s := newLoadedServer(t, stubLoader{site: testSite()})
	rec := newClient(t, s).get(PathLiveReload)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /ws without watch = %d, want 404", rec.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "avatar.jpg"), []byte("jpg"), 0600); err != nil {
		t.Fatal(err)
	}

	s := newLoadedServer(t, stubLoader{site: testSite()}, WithStaticDir(dir))
	rec := newClient(t, s).get(PathAssets + "/avatar.jpg")
	if rec.Code != http.StatusOK || rec.Body.String() != "jpg" {
		t.Errorf("GET asset = %d %q", rec.Code, rec.Body.String())
	}
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "publications.json")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(doc, []byte("[]"), 0600); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 4)
	w, err := NewWatcher([]string{doc}, nil, func() { changed <- struct{}{} }, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(other, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(200 * time.Millisecond):
	}

	pubs, _ := json.Marshal([]model.Publication{{Title: "New"}})
	if err := os.WriteFile(doc, pubs, 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("document change not detected")
	}
}

func TestWatcherRunWaitsForChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "config.json")
	if err := os.WriteFile(doc, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	w, err := NewWatcher([]string{doc}, nil, func() {
		select {
		case <-entered:
		default:
			close(entered)
		}
		<-release
	}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	if err := os.WriteFile(doc, []byte(`{"profile":{}}`), 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		close(release)
		t.Fatal("document change not detected")
	}

	// Run must not return while the change callback is still running.
	cancel()
	select {
	case <-stopped:
		t.Error("Run returned before the change callback finished")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
