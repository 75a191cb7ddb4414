// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package dashboard serves the live telemetry page, its JSON API and a
// websocket stream of frames.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/panel"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

//go:embed static
var staticFiles embed.FS

const (
	defaultChartWidth  = 640
	defaultChartHeight = 240
	maxChartSide       = 2048
	subscriberBuffer   = 16
	writeTimeout       = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard is served on the local network only
	},
}

// Frame is what the page receives per refresh cycle.
type Frame struct {
	Type     string             `json:"type"`
	Snapshot telemetry.Snapshot `json:"snapshot"`
	Gauges   panel.Gauges       `json:"gauges"`
	Trend    []history.Entry    `json:"trend"`
	Stats    history.Stats      `json:"stats"`
	Status   []string           `json:"status"`
}

// Session describes this dashboard process.
type Session struct {
	ID      string    `json:"id"`
	Started time.Time `json:"started"`
	Frames  int64     `json:"frames"`
	Clients int       `json:"clients"`
}

// Server is a refresh.Renderer that keeps the latest frame for HTTP
// readers and pushes every frame to websocket subscribers.
type Server struct {
	mu          sync.RWMutex
	latest      *Frame
	encoded     []byte
	frames      int64
	subscribers map[chan []byte]struct{}

	id      uuid.UUID
	started time.Time
	now     func() time.Time
}

func NewServer() *Server {
	return &Server{
		subscribers: make(map[chan []byte]struct{}),
		id:          uuid.New(),
		started:     time.Now(),
		now:         time.Now,
	}
}

// SessionID identifies this process in the session API and mDNS TXT.
func (s *Server) SessionID() string { return s.id.String() }

// Render implements refresh.Renderer.
func (s *Server) Render(snap telemetry.Snapshot, trend []history.Entry) error {
	frame := &Frame{
		Type:     "telemetry",
		Snapshot: snap,
		Gauges:   panel.GaugesFor(snap),
		Trend:    trend,
		Stats:    history.Summarize(trend),
		Status:   panel.StatusLines(snap, s.now()),
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	s.mu.Lock()
	s.latest = frame
	s.encoded = payload
	s.frames++
	for ch := range s.subscribers {
		select {
		case ch <- payload:
		default:
			// slow client; it catches up on the next frame
		}
	}
	s.mu.Unlock()
	return nil
}

// Latest returns the most recent frame, if any.
func (s *Server) Latest() (Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Frame{}, false
	}
	return *s.latest, true
}

func (s *Server) subscribe() (chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	if s.encoded != nil {
		ch <- s.encoded
	}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.subscribers, ch)
		s.mu.Unlock()
	}
}

// Handler returns the dashboard routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/telemetry", s.handleTelemetry)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/chart.png", s.handleChart)
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/ws", s.handleWS)

	root, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded at build time
	}
	mux.Handle("/", http.FileServer(http.FS(root)))
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("dashboard: web server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("dashboard shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	frame, ok := s.Latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, frame.Snapshot)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	frame, _ := s.Latest()
	trend := frame.Trend
	if trend == nil {
		trend = []history.Entry{}
	}
	writeJSON(w, struct {
		Trend []history.Entry `json:"trend"`
		Stats history.Stats   `json:"stats"`
	}{trend, frame.Stats})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	width, err := sizeParam(r, "w", defaultChartWidth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := sizeParam(r, "h", defaultChartHeight)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	frame, _ := s.Latest()
	img, err := panel.TrendChart(frame.Trend, width, height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := png.Encode(w, img); err != nil {
		log.Printf("dashboard: png encode error: %v", err)
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.RLock()
	sess := Session{
		ID:      s.id.String(),
		Started: s.started,
		Frames:  s.frames,
		Clients: len(s.subscribers),
	}
	s.mu.RUnlock()
	writeJSON(w, sess)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch, cancel := s.subscribe()
	defer cancel()

	// The page never sends anything; reading only surfaces the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("dashboard: websocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case payload := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("dashboard: websocket write error: %v", err)
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func sizeParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxChartSide {
		return 0, fmt.Errorf("invalid %s %q: must be 1-%d", name, raw, maxChartSide)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("dashboard: json encode error: %v", err)
	}
}
