// Package remote exposes the navigator's reduced control facet over HTTP
// so the timeline can be driven from another process. Only simple value
// types cross the boundary: the state snapshot and plain (start, end)
// pairs, never event subscriptions.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Dicklesworthstone/tln/internal/events"
	"github.com/Dicklesworthstone/tln/internal/timeline"
)

// Server serves the remote control facet.
type Server struct {
	remote *timeline.Remote
	bus    *events.Bus
	addr   string
	server *http.Server
}

// NewServer creates a server over the given facet. bus may be nil; when
// set, recent events are readable at /api/v1/events.
func NewServer(remote *timeline.Remote, bus *events.Bus, addr string) *Server {
	s := &Server{remote: remote, bus: bus, addr: addr}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table, usable directly in tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/cursor", s.handleCursor)
		r.Post("/mode", s.handleMode)
		r.Post("/play", s.handlePlay)
		r.Post("/stop", s.handleStop)
		r.Post("/zoom", s.handleZoom)
		r.Get("/events", s.handleEvents)
	})
	return r
}

// Start begins listening. It returns once the listener is bound; serving
// continues in the background until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("remote listen on %s: %w", s.addr, err)
	}
	go s.server.Serve(ln)
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.remote.Snapshot())
}

type cursorRequest struct {
	Cursor time.Time `json:"cursor"`
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	var req cursorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.remote.SetCursor(req.Cursor)
	writeJSON(w, http.StatusOK, s.remote.Snapshot())
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, err := timeline.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if mode == timeline.ModePlayback {
		s.remote.SetMode(timeline.RemotePlayback)
	} else {
		s.remote.SetMode(timeline.RemoteLive)
	}
	writeJSON(w, http.StatusOK, s.remote.Snapshot())
}

type playRequest struct {
	Speed float64 `json:"speed"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	req := playRequest{Speed: 1.0}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if err := s.remote.Play(req.Speed); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, timeline.ErrInvalidMode) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, s.remote.Snapshot())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.remote.StopPlaying()
	writeJSON(w, http.StatusOK, s.remote.Snapshot())
}

type zoomRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.remote.Zoom(req.Start, req.End); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.remote.Snapshot())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.bus == nil {
		writeError(w, http.StatusNotFound, errors.New("event history not enabled"))
		return
	}
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("bad limit %q", q))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.bus.History(limit))
}
