// Package save persists game snapshots to a single JSON file and settles
// offline passive earnings on load.
package save

import (
	"encoding/json"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/smidgyy/Cursorrrr/internal/game"
)

const fileName = "state.json"

// Store is the local save slot. Writes go through an atomic rename so a
// crash mid-save never corrupts the previous snapshot.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
}

func NewStore(dataDir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		path:   filepath.Join(dataDir, fileName),
		logger: logger,
	}, nil
}

// Load reads the prior snapshot. Missing or malformed data is not an
// error: the caller gets (nil, nil) and starts fresh.
func (s *Store) Load() (*game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snap game.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		s.logger.Printf("save file corrupted, starting fresh: %v", err)
		return nil, nil
	}
	return &snap, nil
}

// Save writes the snapshot, replacing the previous one.
func (s *Store) Save(snap game.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Path returns the save file location (for the ops tool).
func (s *Store) Path() string { return s.path }

// ReconcileOffline computes the one-time welcome-back credit for a prior
// snapshot: floor(secondsOffline * autoClickPower), but only when the
// player owned passive income and was away strictly longer than five
// seconds.
func ReconcileOffline(snap *game.Snapshot, now time.Time) float64 {
	if snap == nil || snap.LastSaveMillis == 0 || snap.AutoClickPower <= 0 {
		return 0
	}
	seconds := now.Sub(snap.LastSaveTime()).Seconds()
	if seconds <= 5 {
		return 0
	}
	return math.Floor(seconds * snap.AutoClickPower)
}
