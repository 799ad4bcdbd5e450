package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// Stats represents render statistics
type Stats struct {
	TotalPixels   int     `json:"totalPixels"`
	HitPixels     int     `json:"hitPixels"`
	Coverage      float64 `json:"coverage"`
	MeanLuminance float64 `json:"meanLuminance"`
	StdLuminance  float64 `json:"stdLuminance"`
	RenderMs      int64   `json:"renderMs"`
}

func newStats(fs renderer.FrameStats) Stats {
	return Stats{
		TotalPixels:   fs.TotalPixels,
		HitPixels:     fs.HitPixels,
		Coverage:      fs.Coverage,
		MeanLuminance: fs.MeanLuminance,
		StdLuminance:  fs.StdLuminance,
		RenderMs:      fs.Duration.Milliseconds(),
	}
}

// FrameUpdate is one animation frame sent via SSE
type FrameUpdate struct {
	FrameNumber int     `json:"frameNumber"`
	TotalFrames int     `json:"totalFrames"` // 0 for an unbounded stream
	Time        float64 `json:"time"`        // Animation time in seconds
	ImageData   string  `json:"imageData"`   // Base64 encoded PNG
	Stats       Stats   `json:"stats"`
	IsLast      bool    `json:"isLast"`
	ElapsedMs   int64   `json:"elapsedMs"`
}

// handleRender renders a single frame and returns it as an image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	rt, err := s.newRaytracer(req)
	if err != nil {
		writeSceneError(w, err)
		return
	}

	logger := NewWebLogger(req.Scene, nil)
	pr := renderer.NewParallelRenderer(rt, renderer.ParallelConfig{TileSize: req.TileSize}, logger)

	fb := renderer.NewFrameBuffer(req.Width, req.Height)
	stats, err := pr.RenderFrame(r.Context(), fb)
	if err != nil {
		// Client went away; nothing useful can be written
		logger.Printf("Render of %s aborted: %v\n", req.Scene, err)
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, fb, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Mode", req.Mode.String())
	w.Header().Set("X-Render-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Coverage", strconv.FormatFloat(stats.Coverage, 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleStream renders an animation and streams each frame via SSE until the
// requested frame count is reached or the client disconnects
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	rt, err := s.newRaytracer(req)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	// Only this goroutine writes to w; log lines are queued and sent between frames
	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(req.Scene, consoleChan)
	pr := renderer.NewParallelRenderer(rt, renderer.ParallelConfig{TileSize: req.TileSize}, logger)

	ctx := r.Context()
	startTime := time.Now()
	timer := core.NewFixedTimer(float64(req.FPS))
	frames, errs := pr.RenderAnimation(ctx, req.Width, req.Height, req.Frames, timer)

	for frame := range frames {
		s.flushConsole(w, consoleChan)

		imageData, err := imageToBase64PNG(frame.Frame)
		if err != nil {
			s.sendSSEError(w, fmt.Sprintf("failed to encode image: %v", err))
			return
		}
		update := FrameUpdate{
			FrameNumber: frame.FrameNumber,
			TotalFrames: req.Frames,
			Time:        frame.Time,
			ImageData:   imageData,
			Stats:       newStats(frame.Stats),
			IsLast:      frame.IsLast,
			ElapsedMs:   time.Since(startTime).Milliseconds(),
		}
		if err := s.sendSSEJSON(w, "frame", update); err != nil {
			return
		}
	}

	if err := <-errs; err != nil {
		if ctx.Err() == nil {
			s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		}
		return
	}
	s.flushConsole(w, consoleChan)
	s.sendSSEEvent(w, "complete", "Rendering completed")
}

// flushConsole forwards queued log lines without blocking
func (s *Server) flushConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		default:
			return
		}
	}
}

func writeSceneError(w http.ResponseWriter, err error) {
	if errors.Is(err, scene.ErrUnknownScene) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, output.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEJSON sends v as the JSON payload of an SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming not supported")
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
