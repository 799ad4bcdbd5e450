package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// Request limits
const (
	minImageSize = 16
	maxImageSize = 2000
	minTileSize  = 8
	maxTileSize  = 256
	maxFrames    = 1000
	maxFPS       = 120
)

// Server handles web requests for the direct lighting raytracer
type Server struct {
	port      int
	scenesDir string
	staticDir string
}

// NewServer creates a new web server. Scene description files are only
// loaded from scenesDir.
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir, staticDir: "static/"}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the description files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// RenderRequest holds the query parameters shared by the render, stream and inspect endpoints
type RenderRequest struct {
	Scene    string                `json:"scene"`
	Width    int                   `json:"width"`
	Height   int                   `json:"height"`
	Mode     renderer.LightingMode `json:"mode"`
	Shadows  bool                  `json:"shadows"`
	Format   output.Format         `json:"format"`
	TileSize int                   `json:"tileSize"`
	Frames   int                   `json:"frames"` // Stream only; 0 streams until the client disconnects
	FPS      int                   `json:"fps"`    // Stream only
}

// parseRenderRequest parses and validates request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "reference"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 300, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", renderer.DefaultTileSize, minTileSize, maxTileSize); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(query, "frames", 60, 0, maxFrames); err != nil {
		return nil, err
	}
	if req.FPS, err = parseIntParam(query, "fps", 30, 1, maxFPS); err != nil {
		return nil, err
	}
	if req.Shadows, err = parseBoolParam(query, "shadows", true); err != nil {
		return nil, err
	}

	req.Mode = renderer.Combined
	if mode := query.Get("mode"); mode != "" {
		if req.Mode, err = renderer.ParseLightingMode(mode); err != nil {
			return nil, err
		}
	}

	req.Format = output.PNG
	if format := query.Get("format"); format != "" {
		if req.Format, err = output.ParseFormat(format); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds a fresh scene for a request. Only built-in scenes and
// files listed in the scenes directory are accepted, so clients cannot make
// the server read arbitrary paths.
func (s *Server) createScene(id string) (*scene.Scene, error) {
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, ".") {
		files, err := scene.ListFileScenes(s.scenesDir)
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == id {
				return scene.Create(info.FilePath)
			}
		}
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, id)
	}
	return scene.Create(id)
}

// newRaytracer builds the scene and raytracer described by req
func (s *Server) newRaytracer(req *RenderRequest) (*renderer.Raytracer, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}
	rt := renderer.NewRaytracer(sceneObj)
	rt.SetMode(req.Mode)
	rt.SetShadows(req.Shadows)
	return rt, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
