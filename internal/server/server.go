package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"casualgames/internal/game"
	"casualgames/internal/session"
)

// RequestTimeout bounds every REST handler. The WebSocket route is exempt.
const RequestTimeout = 10 * time.Second

// Scores reports the persisted 2048 best score.
type Scores interface {
	Best() int
}

// Server is the HTTP server.
type Server struct {
	router   chi.Router
	registry *game.Registry
	manager  *session.Manager
	scores   Scores
	static   fs.FS
}

// New creates a server with all routes. A nil static filesystem serves
// the API only.
func New(registry *game.Registry, manager *session.Manager, scores Scores, static fs.FS) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		registry: registry,
		manager:  manager,
		scores:   scores,
		static:   static,
	}
	manager.OnUpdate(s.broadcastState)
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(RequestTimeout))
			r.Get("/games", s.handleListGames)
			r.Get("/scores/best", s.handleBestScore)
			r.Post("/sessions", s.handleCreateSession)
			r.Get("/sessions/{code}", s.handleGetSession)
			r.Post("/sessions/{code}/start", s.handleStartSession)
			r.Post("/sessions/{code}/actions", s.handleApplyAction)
			r.Get("/sessions/{code}/history", s.handleHistory)
		})
		r.Get("/sessions/{code}/ws", s.handleWebSocket)
	})

	if s.static != nil {
		r.Handle("/*", http.FileServer(http.FS(s.static)))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"games":    len(s.registry.Names()),
		"sessions": len(s.manager.List()),
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleBestScore(w http.ResponseWriter, r *http.Request) {
	best := 0
	if s.scores != nil {
		best = s.scores.Best()
	}
	writeJSON(w, http.StatusOK, map[string]int{"bestScore": best})
}

type createSessionRequest struct {
	GameType string          `json:"gameType"`
	PlayerID string          `json:"playerId"`
	Options  json.RawMessage `json:"options,omitempty"`
	Seed     string          `json:"seed,omitempty"`
	Start    bool            `json:"start,omitempty"`
}

type createSessionResponse struct {
	Code string `json:"code"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.GameType = strings.TrimSpace(req.GameType)
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.GameType == "" || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "gameType and playerId required")
		return
	}

	sess, err := s.manager.Create(req.GameType, req.Options, req.Seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.AddPlayer(req.PlayerID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if req.Start {
		if err := s.manager.Start(sess); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{Code: sess.Code})
}

// session resolves the {code} parameter, writing a 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.manager.Get(chi.URLParam(r, "code"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess, ok
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := s.manager.Start(sess); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.broadcastState(sess)
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

type applyActionRequest struct {
	PlayerID string      `json:"playerId"`
	Action   game.Action `json:"action"`
}

func (s *Server) handleApplyAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req applyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action.Type == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sess.GetPlayer(req.PlayerID) == nil {
		writeError(w, http.StatusForbidden, "player not in session")
		return
	}
	err := s.manager.Apply(sess, req.PlayerID, req.Action)
	switch {
	case err == nil:
		s.broadcastState(sess)
	case errors.Is(err, game.ErrRejected):
		// a refused move is a no-op; the caller gets the unchanged state
	case errors.Is(err, session.ErrNotStarted):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, session.ErrInternalAction):
		writeError(w, http.StatusForbidden, err.Error())
		return
	default:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot(sess, req.PlayerID))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.History())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
