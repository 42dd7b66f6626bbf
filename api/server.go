package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/wordgrid/game/service"
	"github.com/wricardo/wordgrid/game/session"
	"github.com/wricardo/wordgrid/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	ws      *websocket.Handler
	router  *mux.Router
}

// NewServer creates a new API server. ws may be nil to serve without /ws.
func NewServer(gameService service.GameService, ws *websocket.Handler) *Server {
	s := &Server{
		service: gameService,
		ws:      ws,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	// Rooms
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{code}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{code}", s.handleDeleteSession).Methods("DELETE")

	// Players
	api.HandleFunc("/sessions/{code}/players", s.handleJoin).Methods("POST")
	api.HandleFunc("/sessions/{code}/players/{id}", s.handleLeave).Methods("DELETE")
	api.HandleFunc("/sessions/{code}/players/{id}/rack", s.handleGetRack).Methods("GET")

	// Turns
	api.HandleFunc("/sessions/{code}/moves", s.handleSubmitMove).Methods("POST")
	api.HandleFunc("/sessions/{code}/pass", s.handlePass).Methods("POST")

	// Rules
	api.HandleFunc("/rules", s.handleRules).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	if s.ws != nil {
		s.router.HandleFunc("/ws", s.ws.HandleWebSocket)
	}
}

// Handle mounts an extra handler on the router, for example the MCP endpoint.
func (s *Server) Handle(path string, h http.Handler) {
	s.router.Handle(path, h)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	respondJSON(w, status, ErrorResponse{Error: err.Error(), Reason: service.ReasonCode(err)})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindProtocol:
		return http.StatusConflict
	case service.KindValidation:
		return http.StatusUnprocessableEntity
	case service.KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v. An empty body leaves v unchanged.
func decode(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", service.ErrInvalidRequest, err)
	}
	return nil
}

// Room Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	created, err := s.service.CreateSession(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	total := len(sessions)

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created" (default), "active"
	order := query.Get("order") // "asc", "desc" (default)
	if sortBy != "active" {
		sortBy = "created"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "active" {
			ti, tj = sessions[i].LastActive, sessions[j].LastActive
		} else {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < len(sessions) {
		sessions = sessions[:l]
	}
	if sessions == nil {
		sessions = []session.Summary{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.GetState(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	code := session.NormalizeCode(mux.Vars(r)["code"])

	if err := s.service.DeleteSession(r.Context(), code); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", code),
	})
}

// Player Handlers

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req service.JoinRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.RoomCode = mux.Vars(r)["code"]

	joined, err := s.service.JoinSession(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, joined)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	req := service.PlayerRequest{RoomCode: vars["code"], PlayerID: vars["id"]}

	if err := s.service.LeaveSession(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetRack(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	req := service.PlayerRequest{RoomCode: vars["code"], PlayerID: vars["id"]}

	rack, err := s.service.GetRack(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"rack": rack})
}

// Turn Handlers

func (s *Server) handleSubmitMove(w http.ResponseWriter, r *http.Request) {
	var req service.MoveRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.RoomCode = mux.Vars(r)["code"]

	result, err := s.service.SubmitMove(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	var req service.PlayerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.RoomCode = mux.Vars(r)["code"]

	result, err := s.service.PassTurn(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Rules Handler

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	overview, err := s.service.Rules(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs one debug line per request. WebSocket upgrades pass
// through untouched since the recorder does not implement http.Hijacker.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}
