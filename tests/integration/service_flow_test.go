package integration

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/tonehub/tonehub/internal/cache"
	"github.com/tonehub/tonehub/internal/config"
	"github.com/tonehub/tonehub/internal/media"
	"github.com/tonehub/tonehub/internal/server"
	"github.com/tonehub/tonehub/internal/server/routes"
	"github.com/tonehub/tonehub/internal/store"
)

func TestMediaProgressiveDownloadFlow(t *testing.T) {
	env := newServiceEnv(t)
	defer env.close()

	payload := make([]byte, 3000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	env.writeTrack(t, "album/track.mp3", payload)

	// Full download.
	resp := env.get(t, "/media/album/track.mp3", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	full, _ := io.ReadAll(resp.Body)
	if len(full) != 3000 {
		t.Fatalf("expected full object, got %d bytes", len(full))
	}

	// Progressive download: three chunked requests cover the object.
	var assembled []byte
	for _, header := range []string{"bytes=0-", "bytes=1024-", "bytes=2048-"} {
		resp := env.get(t, "/media/album/track.mp3", header)
		if resp.StatusCode != fiber.StatusPartialContent {
			t.Fatalf("range %q: expected 206, got %d", header, resp.StatusCode)
		}
		chunk, _ := io.ReadAll(resp.Body)
		if len(chunk) > 1024 {
			t.Fatalf("range %q: chunk exceeds max size, got %d", header, len(chunk))
		}
		assembled = append(assembled, chunk...)
	}
	if string(assembled) != string(payload) {
		t.Fatalf("assembled chunks do not reproduce the object")
	}
}

func TestResolveFlowSurvivesRestart(t *testing.T) {
	var calls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"serial":%d}`, calls.Add(1))
	}))
	defer upstream.Close()

	storeDir := t.TempDir()
	body := fmt.Sprintf(`{"method":"GET","url":%q}`, upstream.URL)

	env := newServiceEnvWithStore(t, storeDir)
	first := env.postResolve(t, body)
	if first.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", first.StatusCode)
	}
	firstBody, _ := io.ReadAll(first.Body)
	env.close()

	// A rebuilt service over the same store directory must serve the hit
	// without touching the upstream again.
	restarted := newServiceEnvWithStore(t, storeDir)
	defer restarted.close()

	second := restarted.postResolve(t, body)
	if second.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 after restart, got %d", second.StatusCode)
	}
	if hit := second.Header.Get("X-Tonehub-Cache-Hit"); hit != "true" {
		t.Fatalf("restarted service should hit the persisted entry, header=%q", hit)
	}
	secondBody, _ := io.ReadAll(second.Body)
	if string(secondBody) != string(firstBody) {
		t.Fatalf("persisted payload mismatch: %s vs %s", firstBody, secondBody)
	}
	if calls.Load() != 1 {
		t.Fatalf("upstream should be called exactly once, got %d", calls.Load())
	}
}

type serviceEnv struct {
	app      *fiber.App
	library  *media.Library
	kv       store.Store
	mediaDir string
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	return newServiceEnvWithStore(t, t.TempDir())
}

// newServiceEnvWithStore assembles the full service the way main does:
// config -> library -> store -> resolver -> app -> routes.
func newServiceEnvWithStore(t *testing.T, storeDir string) *serviceEnv {
	t.Helper()

	mediaDir := filepath.Join(t.TempDir(), "media")
	cfg := &config.Config{
		ListenPort:      5100,
		MediaPath:       mediaDir,
		StorePath:       storeDir,
		MaxChunkSize:    1024,
		UpstreamTimeout: config.Duration(5 * time.Second),
		AllowedMethods:  []string{"GET", "POST"},
	}

	library, err := media.NewLibrary(cfg.MediaPath)
	if err != nil {
		t.Fatalf("library error: %v", err)
	}

	kv, err := store.NewStore(cfg.StorePath)
	if err != nil {
		t.Fatalf("store error: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	resolver := cache.NewResolver(kv, logger, cfg.NormalizedMethods())
	client := server.NewUpstreamClient(cfg)

	app, err := server.NewApp(server.AppOptions{Logger: logger})
	if err != nil {
		t.Fatalf("app error: %v", err)
	}
	routes.RegisterMediaRoutes(app, library, logger, cfg.MaxChunkSize)
	routes.RegisterResolveRoutes(app, resolver, client, logger)
	routes.RegisterStatusRoutes(app, cfg, library)

	return &serviceEnv{app: app, library: library, kv: kv, mediaDir: mediaDir}
}

func (e *serviceEnv) close() {
	_ = e.kv.Close()
}

func (e *serviceEnv) writeTrack(t *testing.T, rel string, payload []byte) {
	t.Helper()
	path := filepath.Join(e.mediaDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write track error: %v", err)
	}
}

func (e *serviceEnv) get(t *testing.T, path, rangeHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	return resp
}

func (e *serviceEnv) postResolve(t *testing.T, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", "/resolve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	return resp
}
