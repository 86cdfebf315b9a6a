package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/smidgyy/Cursorrrr/internal/config"
	"github.com/smidgyy/Cursorrrr/internal/httpmw"
	"github.com/smidgyy/Cursorrrr/internal/leaderboard"
)

// Leaderboard service. Game sessions push scores here and read the top
// list back; browsers can also watch it live over a websocket.
func main() {
	cfg, err := config.Load("cursorrrr_config.yml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if dir := filepath.Dir(cfg.Leaderboard.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create db dir: %v", err)
		}
	}

	store, err := leaderboard.OpenStore(cfg.Leaderboard.DBPath)
	if err != nil {
		log.Fatalf("open leaderboard store: %v", err)
	}
	defer store.Close()

	hub := leaderboard.NewHub(log.Default())
	handler := leaderboard.NewHandler(store, hub, cfg.Leaderboard.TopN, log.Default())

	mux := http.NewServeMux()
	handler.Register(mux)

	chained := httpmw.Chain(
		mux,
		httpmw.WithAccessLog(log.Default()),
		httpmw.WithRequestID,
		httpmw.WithRecover(log.Default()),
	)

	log.Printf("leaderboard listening on http://localhost%s", cfg.Leaderboard.Addr)
	log.Fatal(http.ListenAndServe(cfg.Leaderboard.Addr, chained))
}
