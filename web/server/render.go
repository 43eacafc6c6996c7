package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ImageUpdate is the final SSE payload of a render
type ImageUpdate struct {
	Scene     string `json:"scene"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// renderResult carries the outcome of a background render
type renderResult struct {
	framebuffer *renderer.Framebuffer
	stats       renderer.RenderStats
	err         error
}

// handleRender renders a scene and streams console output and the finished
// image via SSE. Closing the connection cancels the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sceneObj, camera, err := s.buildScene(req)
	if err != nil {
		s.sendSSEEvent(w, "error", err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan)

	done := make(chan renderResult, 1)
	go func() {
		fb, stats, err := renderer.Render(ctx, camera, sceneObj.World, renderer.RenderOptions{
			Seed:             req.Seed,
			Logger:           logger,
			ProgressInterval: 500 * time.Millisecond,
		})
		done <- renderResult{framebuffer: fb, stats: stats, err: err}
	}()

	// All writes to w happen on this goroutine
	for {
		select {
		case msg := <-consoleChan:
			data, _ := json.Marshal(msg)
			if err := s.sendSSEEvent(w, "console", string(data)); err != nil {
				return
			}

		case result := <-done:
			s.drainConsole(w, consoleChan)
			if result.err != nil {
				s.sendSSEEvent(w, "error", fmt.Sprintf("Render error: %v", result.err))
				return
			}
			data, err := output.EncodeBytes(result.framebuffer, output.FormatPNG)
			if err != nil {
				s.sendSSEEvent(w, "error", fmt.Sprintf("Failed to encode image: %v", err))
				return
			}
			update, _ := json.Marshal(ImageUpdate{
				Scene:     sceneObj.Name,
				ImageData: base64.StdEncoding.EncodeToString(data),
				Stats:     newStats(result.stats),
			})
			s.sendSSEEvent(w, "image", string(update))
			s.sendSSEEvent(w, "complete", "Rendering completed")
			return

		case <-ctx.Done():
			// Client disconnected; the render stops at the next row
			return
		}
	}
}

// drainConsole forwards messages still buffered when the render finishes
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			data, _ := json.Marshal(msg)
			s.sendSSEEvent(w, "console", string(data))
		default:
			return
		}
	}
}

// handleImage renders a scene and returns the encoded image directly
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	format, err := output.FormatFromPath("image." + req.Format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sceneObj, camera, err := s.buildScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	data, stats, err := s.renderImage(r.Context(), sceneObj.World, camera, req.Seed, format)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Render-Samples", fmt.Sprintf("%d", stats.TotalSamples))
	w.Header().Set("X-Render-Ms", fmt.Sprintf("%d", stats.Duration.Milliseconds()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) renderImage(ctx context.Context, world geometry.Shape, camera *renderer.Camera, seed uint64, format output.Format) ([]byte, renderer.RenderStats, error) {
	fb, stats, err := renderer.Render(ctx, camera, world, renderer.RenderOptions{Seed: seed})
	if err != nil {
		return nil, stats, err
	}
	data, err := output.EncodeBytes(fb, format)
	return data, stats, err
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
