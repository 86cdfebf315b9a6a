package game

import (
	"time"

	"github.com/smidgyy/Cursorrrr/internal/catalog"
)

// State is the live game state. The engine is its single writer; callers
// only ever see copies.
type State struct {
	Username       string
	Balance        float64
	TotalClicks    int64
	ClickPower     float64
	AutoClickPower float64
	UpgradeCounts  map[string]int
	Muted          bool
}

func (s State) clone() State {
	counts := make(map[string]int, len(s.UpgradeCounts))
	for id, n := range s.UpgradeCounts {
		counts[id] = n
	}
	s.UpgradeCounts = counts
	return s
}

// Snapshot is the serialized form written to the save file and handed to
// the persistence codec. Field names match the browser save format so old
// saves keep working.
type Snapshot struct {
	Username       string         `json:"username,omitempty"`
	Balance        float64        `json:"balance"`
	TotalClicks    int64          `json:"totalClicks"`
	ClickPower     float64        `json:"clickPower"`
	AutoClickPower float64        `json:"autoClickPower"`
	Upgrades       []UpgradeState `json:"upgrades"`
	Muted          bool           `json:"isMuted"`
	LastSaveMillis int64          `json:"lastSaveTime"`
}

// UpgradeState records purchase progress for one catalog entry.
type UpgradeState struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// LastSaveTime converts the stored unix-millisecond stamp back to a time.
func (s Snapshot) LastSaveTime() time.Time {
	return time.UnixMilli(s.LastSaveMillis)
}

// seedState builds a fresh default state: balance 0, click power 1, no
// passive income, every upgrade at count 0.
func seedState(cat *catalog.Catalog) State {
	counts := make(map[string]int, cat.Len())
	for _, up := range cat.All() {
		counts[up.ID] = 0
	}
	return State{
		ClickPower:    1,
		UpgradeCounts: counts,
	}
}

// restoreState rebinds a snapshot to the catalog. Counts for ids the
// catalog no longer carries are dropped; missing ids start at 0.
func restoreState(cat *catalog.Catalog, snap Snapshot) State {
	st := seedState(cat)
	st.Username = snap.Username
	st.Balance = snap.Balance
	st.TotalClicks = snap.TotalClicks
	st.ClickPower = snap.ClickPower
	st.AutoClickPower = snap.AutoClickPower
	st.Muted = snap.Muted
	if st.ClickPower < 1 {
		st.ClickPower = 1
	}
	if st.Balance < 0 {
		st.Balance = 0
	}
	if st.AutoClickPower < 0 {
		st.AutoClickPower = 0
	}
	for _, us := range snap.Upgrades {
		if _, ok := cat.Get(us.ID); !ok {
			continue
		}
		if us.Count < 0 {
			continue
		}
		st.UpgradeCounts[us.ID] = us.Count
	}
	return st
}
