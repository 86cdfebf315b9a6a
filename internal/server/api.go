package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/smidgyy/Cursorrrr/internal/feedback"
	"github.com/smidgyy/Cursorrrr/internal/game"
	"github.com/smidgyy/Cursorrrr/internal/httpmw"
	"github.com/smidgyy/Cursorrrr/internal/identity"
	"github.com/smidgyy/Cursorrrr/internal/score"
	"github.com/smidgyy/Cursorrrr/internal/session"
	staticfiles "github.com/smidgyy/Cursorrrr/static"
)

// App bundles what the handlers depend on.
type App struct {
	Engine  *game.Engine
	Session *session.Session
	Scores  *score.Client
	Logger  *log.Logger
}

// NewHandler wires the game API, the embedded UI, and the middleware
// chain into one handler.
func NewHandler(app *App) http.Handler {
	if app.Logger == nil {
		app.Logger = log.Default()
	}

	mux := http.NewServeMux()
	rr := &RouteRegistry{}
	RegisterStatic(mux)
	RegisterAPIRoutes(mux, rr, app)

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(app.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(app.Logger),
	)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterStatic serves the embedded UI at the root.
func RegisterStatic(mux *http.ServeMux) {
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticfiles.EmbeddedFS()))))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticfiles.EmbeddedFS(), "index.html")
	})
}

// stateView is the full HUD payload.
type stateView struct {
	Username       string             `json:"username,omitempty"`
	Joined         bool               `json:"joined"`
	Balance        float64            `json:"balance"`
	BalanceText    string             `json:"balanceText"`
	TotalClicks    int64              `json:"totalClicks"`
	ClickPower     float64            `json:"clickPower"`
	AutoClickPower float64            `json:"autoClickPower"`
	Muted          bool               `json:"isMuted"`
	Upgrades       []game.UpgradeView `json:"upgrades"`
	FloatingTexts  []feedback.Text    `json:"floatingTexts"`
}

// RegisterAPIRoutes attaches the game endpoints.
func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	engine := app.Engine

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "cursorrrr",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	Handle(mux, rr, "GET /api/state", "Current game state", "", func(w http.ResponseWriter, r *http.Request) {
		st := engine.State()
		writeJSON(w, http.StatusOK, stateView{
			Username:       st.Username,
			Joined:         st.Username != "",
			Balance:        st.Balance,
			BalanceText:    game.FormatNumber(st.Balance),
			TotalClicks:    st.TotalClicks,
			ClickPower:     st.ClickPower,
			AutoClickPower: st.AutoClickPower,
			Muted:          st.Muted,
			Upgrades:       engine.Upgrades(),
			FloatingTexts:  engine.FloatingTexts(),
		})
	})

	Handle(mux, rr, "POST /api/join", "Claim a username", `{"username":"clicker42"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
			return
		}

		err := app.Session.Join(body.Username)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "username": body.Username})
		case errors.Is(err, game.ErrAlreadyJoined):
			writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
		case isValidationError(err):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		default:
			app.Logger.Printf("join failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		}
	})

	Handle(mux, rr, "POST /api/click", "Register a manual click", `{"x":12,"y":-4}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}
		// An empty body is fine; the coordinates only place feedback.
		_ = json.NewDecoder(r.Body).Decode(&body)

		res := engine.HandleClick(body.X, body.Y)
		writeJSON(w, http.StatusOK, res)
	})

	Handle(mux, rr, "POST /api/buy", "Buy an upgrade", `{"id":"reply-guy"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
			return
		}

		res, err := engine.BuyUpgrade(body.ID)
		if errors.Is(err, game.ErrUnknownUpgrade) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
			return
		}
		if err != nil {
			app.Logger.Printf("buy failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	Handle(mux, rr, "POST /api/mute", "Toggle sound", `{"muted":true}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Muted bool `json:"muted"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
			return
		}
		engine.SetMuted(body.Muted)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "muted": body.Muted})
	})

	Handle(mux, rr, "GET /api/leaderboard", "Global rankings (offline-aware)", "", func(w http.ResponseWriter, r *http.Request) {
		if app.Scores == nil {
			writeJSON(w, http.StatusOK, map[string]any{"offline": true})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		entries, err := app.Scores.Top(ctx)
		if err != nil {
			// Offline is a state the UI renders, not an HTTP failure.
			writeJSON(w, http.StatusOK, map[string]any{"offline": true})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"offline": false, "entries": entries})
	})

	Handle(mux, rr, "GET /api/routes", "List registered API routes", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, identity.ErrTooShort) ||
		errors.Is(err, identity.ErrTooLong) ||
		errors.Is(err, identity.ErrInvalidChars) ||
		errors.Is(err, identity.ErrDisallowed)
}
