package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

const lampYAML = `
name: Lamp
description: One sphere under a point light
group: Tests
camera:
  origin: [0, 0, -4]
spheres:
  - center: [0, 0, 0]
    radius: 1
lights:
  - type: point
    origin: [0, 3, -3]
    intensity: 20
`

// newTestServer returns a server whose scenes directory holds lamp.yaml
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lamp.yaml")
	if err := os.WriteFile(path, []byte(lampYAML), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return NewServer(0, dir), path
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("Unexpected health response: %v, %v", body, err)
	}
}

func TestHandleScenes(t *testing.T) {
	s, path := newTestServer(t)
	rec := get(t, s, "/api/scenes")

	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and Tests groups, got %+v", response.Groups)
	}
	if response.Groups[0].Name != "Built-in Scenes" || len(response.Groups[0].Scenes) == 0 {
		t.Errorf("Expected built-in scenes first, got %q", response.Groups[0].Name)
	}
	tests := response.Groups[1]
	if tests.Name != "Tests" || len(tests.Scenes) != 1 || tests.Scenes[0].ID != path {
		t.Errorf("Expected lamp.yaml in the Tests group, got %+v", tests)
	}
}

func TestHandleRender(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/render?scene=single-sphere&width=32&height=24")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if mode := rec.Header().Get("X-Render-Mode"); mode != "combined" {
		t.Errorf("Expected combined mode, got %q", mode)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("Expected 32x24, got %v", img.Bounds())
	}
	// Center is on the red sphere, corners are background
	if r, g, _, _ := img.At(16, 12).RGBA(); r == 0 || g != 0 {
		t.Errorf("Expected red center pixel, got r=%d g=%d", r, g)
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r|g|b != 0 {
		t.Errorf("Expected black corner pixel")
	}
}

func TestHandleRenderFormats(t *testing.T) {
	s, path := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
		magic       string
	}{
		{"webp", "image/webp", "RIFF"},
		{"bmp", "image/bmp", "BM"},
		{"png", "image/png", "\x89PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := get(t, s, "/api/render?width=16&height=16&format="+tt.format+"&scene="+path)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Expected %s, got %s", tt.contentType, ct)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte(tt.magic)) {
				t.Errorf("Expected body to start with %q", tt.magic)
			}
		})
	}
}

func TestHandleRenderErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"width too small", "width=5", http.StatusBadRequest},
		{"width not a number", "width=wide", http.StatusBadRequest},
		{"unknown mode", "mode=path-traced", http.StatusBadRequest},
		{"unknown format", "format=gif", http.StatusBadRequest},
		{"bad shadows flag", "shadows=maybe", http.StatusBadRequest},
		{"tile size of one pixel", "width=2000&height=2000&tileSize=1", http.StatusBadRequest},
		{"tile size below minimum", "tileSize=7", http.StatusBadRequest},
		{"tile size above maximum", "tileSize=257", http.StatusBadRequest},
		{"unknown scene", "scene=nonexistent", http.StatusNotFound},
		{"file outside scenes dir", "scene=../../etc/scene.yaml", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/render?"+tt.query)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

// sseEvent is one parsed server-sent event
type sseEvent struct {
	name string
	data string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if current.name != "" {
				events = append(events, current)
			}
			current = sseEvent{}
		}
	}
	return events
}

func TestHandleStream(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/stream?scene=cube&width=16&height=16&frames=2&fps=10")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	var frames []FrameUpdate
	var completed bool
	for _, event := range parseSSE(t, rec.Body.String()) {
		switch event.name {
		case "frame":
			var update FrameUpdate
			if err := json.Unmarshal([]byte(event.data), &update); err != nil {
				t.Fatalf("Failed to decode frame: %v", err)
			}
			frames = append(frames, update)
		case "complete":
			completed = true
		case "error":
			t.Fatalf("Unexpected error event: %s", event.data)
		}
	}

	if len(frames) != 2 || !completed {
		t.Fatalf("Expected 2 frames and completion, got %d frames, completed=%v", len(frames), completed)
	}
	if frames[0].FrameNumber != 1 || frames[1].FrameNumber != 2 || !frames[1].IsLast || frames[0].IsLast {
		t.Errorf("Unexpected frame sequence: %+v", frames)
	}
	if frames[1].Time != 0.1 {
		t.Errorf("Expected second frame at t=0.1, got %g", frames[1].Time)
	}
	if frames[0].ImageData == "" || frames[0].Stats.TotalPixels != 256 {
		t.Errorf("Expected encoded image and stats, got %+v", frames[0].Stats)
	}
}

func TestHandleStreamInvalidRequest(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/stream?mode=wireframe")

	events := parseSSE(t, rec.Body.String())
	if len(events) != 1 || events[0].name != "error" {
		t.Errorf("Expected a single error event, got %+v", events)
	}
}

func TestHandleStreamStopsOnDisconnect(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())

	// frames=0 streams until the client goes away
	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream?scene=reference&width=16&height=16&frames=0", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("Stream ended before the first frame: %v", err)
		}
		if strings.HasPrefix(line, "event: frame") {
			break
		}
	}
	cancel()
	resp.Body.Close()

	// Close waits for in-flight handlers
	closed := make(chan struct{})
	go func() {
		ts.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(10 * time.Second):
		t.Fatal("Stream handler kept running after the client disconnected")
	}
}

func TestHandleInspect(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/inspect?scene=single-sphere&width=64&height=64&x=32&y=32")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Hit || response.MaterialType != "solid" || response.Properties["color"] != "#ff0000" {
		t.Errorf("Expected a hit on the red solid sphere, got %+v", response)
	}
	if len(response.Lights) != 1 || response.Lights[0].Status != "lit" {
		t.Errorf("Expected one lit light, got %+v", response.Lights)
	}
	if response.Mode != "combined" {
		t.Errorf("Expected combined mode, got %q", response.Mode)
	}

	miss := get(t, s, "/api/inspect?scene=single-sphere&width=64&height=64&x=0&y=0")
	var missResponse InspectResponse
	json.NewDecoder(miss.Body).Decode(&missResponse)
	if missResponse.Hit || missResponse.MaterialType != "" {
		t.Errorf("Expected a miss at the corner, got %+v", missResponse)
	}
}

func TestHandleInspectErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing x", "y=1", http.StatusBadRequest},
		{"bad y", "x=1&y=top", http.StatusBadRequest},
		{"out of bounds", "width=32&height=32&x=32&y=0", http.StatusBadRequest},
		{"unknown scene", "scene=nonexistent&x=0&y=0", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/inspect?"+tt.query)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestParseRenderRequestTileSize(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", renderer.DefaultTileSize, false},
		{"tileSize=8", 8, false},
		{"tileSize=256", 256, false},
		{"tileSize=1", 0, true},
		{"tileSize=0", 0, true},
		{"tileSize=2000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render?"+tt.query, nil))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got tile size %d", tt.query, req.TileSize)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if req.TileSize != tt.want {
				t.Errorf("Expected tile size %d, got %d", tt.want, req.TileSize)
			}
		})
	}
}
