// Package leaderboard is the score-mirror service: it accepts best-effort
// score pushes from game sessions and serves the global rankings.
package leaderboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/smidgyy/Cursorrrr/internal/score"
)

// Store keeps one row per username in a local SQLite file.
type Store struct {
	db *sqlx.DB
}

// OpenStore opens or creates the score database at path. Use ":memory:"
// for tests.
func OpenStore(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open score db: %w", err)
	}
	if strings.Contains(path, ":memory:") {
		// Every pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate score db: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scores (
		username   TEXT PRIMARY KEY,
		score      INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert records a score push. Since total clicks only ever grow, a lower
// incoming score is a stale or tampered report and the stored maximum
// wins.
func (s *Store) Upsert(username string, sc int64, now time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO scores (username, score, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			score = MAX(scores.score, excluded.score),
			updated_at = excluded.updated_at
	`, username, sc, now.UTC())
	return err
}

// Top returns up to n entries, highest score first, ties broken by name
// for a stable order.
func (s *Store) Top(n int) ([]score.Entry, error) {
	rows := []struct {
		Username string `db:"username"`
		Score    int64  `db:"score"`
	}{}
	err := s.db.Select(&rows, `
		SELECT username, score FROM scores
		ORDER BY score DESC, username ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}

	entries := make([]score.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, score.Entry{Username: r.Username, Score: r.Score})
	}
	return entries, nil
}
