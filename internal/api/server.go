// Package api provides the HTTP API for watching and playing a table.
// GET endpoints are public (read-only observation).
// Player commands are rate limited per client; saving and system commands
// require a bearer token.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/engine"
	"github.com/talgya/maigreifinn/internal/ledger"
	"github.com/talgya/maigreifinn/internal/market"
)

// Saver persists snapshots of a game.
type Saver interface {
	SaveGame(gameID string, snap engine.Snapshot) error
}

// Server serves a table over HTTP.
type Server struct {
	Table    *engine.Table
	DB       Saver // Nil disables /save
	GameID   string
	Addr     string
	AdminKey string // Bearer token for admin endpoints. Empty = disabled.

	Limiter *RateLimiter // Nil disables command rate limiting

	upgrader websocket.Upgrader
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	command := s.handleCommand
	if s.Limiter != nil {
		command = RateLimitMiddleware(s.Limiter, command)
	}

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("GET /api/v1/board", s.handleBoard)
	mux.HandleFunc("GET /api/v1/players", s.handlePlayers)
	mux.HandleFunc("GET /api/v1/market", s.handleMarket)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/standings", s.handleStandings)
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	mux.HandleFunc("POST /api/v1/command", command)

	// Admin endpoints (require bearer token).
	mux.HandleFunc("POST /api/v1/save", s.adminOnly(s.handleSave))

	return corsMiddleware(mux)
}

// Run serves until ctx is done, then shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminKey != "")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return s.AdminKey != "" && strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no admin key set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// view encodes whatever fn returns while on the table goroutine, so the
// response never races with a command.
func (s *Server) view(w http.ResponseWriter, r *http.Request, fn func(g *engine.Game) any) {
	var body []byte
	var encErr error
	err := s.Table.View(r.Context(), func(g *engine.Game) {
		body, encErr = json.MarshalIndent(fn(g), "", "  ")
	})
	if err != nil {
		http.Error(w, "table unavailable", http.StatusServiceUnavailable)
		return
	}
	if encErr != nil {
		slog.Error("encode response", "path", r.URL.Path, "error", encErr)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

type stateResponse struct {
	Phase      engine.Phase     `json:"phase"`
	Round      int              `json:"round"`
	Active     board.PlayerID   `json:"active"`
	ActiveName string           `json:"active_name"`
	Autonomous bool             `json:"autonomous"`
	Winner     *board.PlayerID  `json:"winner,omitempty"`
	Market     market.State     `json:"market"`
	Pending    any              `json:"fate_options,omitempty"`
	Offers     any              `json:"shipyard_offers,omitempty"`
	Voyage     any              `json:"voyage,omitempty"`
	Players    []*ledger.Player `json:"players"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(g *engine.Game) any {
		p := g.Active()
		st := stateResponse{
			Phase:      g.Turn.Phase,
			Round:      g.Turn.Round,
			Active:     p.ID,
			ActiveName: p.Name,
			Autonomous: p.Autonomous,
			Winner:     g.Turn.Winner,
			Market:     g.Market,
			Players:    g.Ledger.Players,
		}
		if len(g.Pending) > 0 {
			st.Pending = g.Pending
		}
		if len(g.Offers) > 0 {
			st.Offers = g.Offers
		}
		if g.Session != nil {
			st.Voyage = g.Session.Masked()
		}
		return st
	})
}

type spaceRent struct {
	Space int `json:"space"`
	Rent  int `json:"rent"`
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(g *engine.Game) any {
		var rents []spaceRent
		for _, sp := range g.Board.Spaces {
			if _, ok := sp.Property(); ok {
				rents = append(rents, spaceRent{Space: sp.ID, Rent: g.Rent(sp)})
			}
		}
		return map[string]any{
			"spaces": g.Board.Spaces,
			"rents":  rents,
		}
	})
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(g *engine.Game) any {
		return map[string]any{
			"mode":      g.Ledger.Mode,
			"players":   g.Ledger.Players,
			"companies": g.Ledger.Companies,
		}
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(g *engine.Game) any {
		return map[string]any{
			"current": g.Market,
			"history": g.History.States,
			"trends":  g.History.TrendCounts(),
		}
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	var since uint64
	if v := r.URL.Query().Get("since"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			since = n
		}
	}

	s.view(w, r, func(g *engine.Game) any {
		events := make([]engine.Event, 0, limit)
		for _, e := range g.Log {
			if e.Seq > since {
				events = append(events, e)
			}
		}
		if len(events) > limit {
			events = events[len(events)-limit:]
		}
		return events
	})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(g *engine.Game) any {
		return g.Ledger.Standings(g.Board)
	})
}

// commandRequest is a player command. Player, when set, must match the
// active seat.
type commandRequest struct {
	engine.Command
	Player *board.PlayerID `json:"player,omitempty"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.System() && !s.checkBearerToken(r) {
		http.Error(w, "system commands require the admin key", http.StatusUnauthorized)
		return
	}

	if req.Player != nil {
		st, err := s.Table.Status(r.Context())
		if err != nil {
			http.Error(w, "table unavailable", http.StatusServiceUnavailable)
			return
		}
		if board.PlayerID(st.Active) != *req.Player {
			writeError(w, http.StatusConflict, fmt.Errorf("%w: not player %d's turn", engine.ErrWrongPhase, *req.Player))
			return
		}
	}

	events, err := s.Table.Submit(r.Context(), req.Command)
	if err != nil {
		writeError(w, commandStatus(err), err)
		return
	}
	st, _ := s.Table.Status(r.Context())
	writeJSON(w, map[string]any{
		"events": events,
		"status": st,
	})
}

// commandStatus maps a rejected command to an HTTP status.
func commandStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrWrongPhase):
		return http.StatusConflict
	case errors.Is(err, engine.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTableClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		// Bad index, insufficient funds, not for sale.
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	snap, err := s.Table.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "table unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := s.DB.SaveGame(s.GameID, snap); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"game":    s.GameID,
		"round":   snap.Turn.Round,
		"message": "snapshot saved",
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
