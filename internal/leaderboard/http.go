package leaderboard

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/smidgyy/Cursorrrr/internal/identity"
)

// Handler serves the score-mirror API:
//
//	POST /api/score            {"username": "...", "score": 123}
//	GET  /api/leaderboard      [{"username": "...", "score": 123}, ...]
//	GET  /api/leaderboard/live websocket ranking feed
type Handler struct {
	store  *Store
	hub    *Hub
	topN   int
	logger *log.Logger
	now    func() time.Time
}

func NewHandler(store *Store, hub *Hub, topN int, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	if topN <= 0 {
		topN = 50
	}
	return &Handler{
		store:  store,
		hub:    hub,
		topN:   topN,
		logger: logger,
		now:    time.Now,
	}
}

// Register attaches the routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/score", h.PostScore)
	mux.HandleFunc("/api/leaderboard", h.GetLeaderboard)
	if h.hub != nil {
		mux.HandleFunc("/api/leaderboard/live", h.hub.ServeWS)
	}
}

type scorePush struct {
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

func (h *Handler) PostScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var push scorePush
	if err := json.NewDecoder(r.Body).Decode(&push); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return
	}
	push.Username = strings.TrimSpace(push.Username)
	if err := identity.Validate(push.Username); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if push.Score < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "score must be non-negative"})
		return
	}

	if err := h.store.Upsert(push.Username, push.Score, h.now()); err != nil {
		h.logger.Printf("score upsert failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	if h.hub != nil {
		if entries, err := h.store.Top(h.topN); err == nil {
			h.hub.Broadcast(entries)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.store.Top(h.topN)
	if err != nil {
		h.logger.Printf("leaderboard query failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
