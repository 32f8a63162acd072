package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/tonehub/tonehub/internal/config"
	"github.com/tonehub/tonehub/internal/media"
	"github.com/tonehub/tonehub/internal/server"
)

func TestStatusRouteReportsConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "media")
	lib, err := media.NewLibrary(dir)
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}

	cfg := &config.Config{
		ListenPort:     5100,
		StorePath:      "/var/lib/tonehub/store",
		MaxChunkSize:   1 << 20,
		AllowedMethods: []string{"GET", "POST"},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app, err := server.NewApp(server.AppOptions{Logger: logger})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	RegisterStatusRoutes(app, cfg, lib)

	resp, err := app.Test(httptest.NewRequest("GET", "/-/status", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Version        string   `json:"version"`
		ListenPort     int      `json:"listen_port"`
		MediaPath      string   `json:"media_path"`
		StorePath      string   `json:"store_path"`
		MaxChunkSize   int64    `json:"max_chunk_size"`
		AllowedMethods []string `json:"allowed_methods"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode status payload: %v", err)
	}
	if payload.ListenPort != 5100 {
		t.Fatalf("unexpected listen_port %d", payload.ListenPort)
	}
	if payload.MediaPath != lib.BasePath() {
		t.Fatalf("media_path should report library root, got %q", payload.MediaPath)
	}
	if payload.MaxChunkSize != 1<<20 {
		t.Fatalf("unexpected max_chunk_size %d", payload.MaxChunkSize)
	}
	if len(payload.AllowedMethods) != 2 {
		t.Fatalf("unexpected allowed_methods %v", payload.AllowedMethods)
	}
	if payload.Version == "" {
		t.Fatalf("version should be populated")
	}
}
