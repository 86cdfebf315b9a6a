package ops

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/smidgyy/Cursorrrr/internal/game"
	"github.com/smidgyy/Cursorrrr/internal/save"
)

// Report summarizes a save file for operators.
type Report struct {
	Path           string
	Username       string
	Balance        float64
	TotalClicks    int64
	ClickPower     float64
	AutoClickPower float64
	Upgrades       []game.UpgradeState
	LastSave       time.Time
	OfflineCredit  float64
}

// Inspect loads the snapshot from dataDir and builds a Report, including
// the offline credit the game would grant if the player rejoined now.
func Inspect(dataDir string, now time.Time) (Report, error) {
	store, err := save.NewStore(dataDir, log.New(io.Discard, "", 0))
	if err != nil {
		return Report{}, err
	}
	snap, err := store.Load()
	if err != nil {
		return Report{}, err
	}
	if snap == nil {
		return Report{}, fmt.Errorf("no save file at %s", store.Path())
	}
	return Report{
		Path:           store.Path(),
		Username:       snap.Username,
		Balance:        snap.Balance,
		TotalClicks:    snap.TotalClicks,
		ClickPower:     snap.ClickPower,
		AutoClickPower: snap.AutoClickPower,
		Upgrades:       snap.Upgrades,
		LastSave:       snap.LastSaveTime(),
		OfflineCredit:  save.ReconcileOffline(snap, now),
	}, nil
}

// String renders the report in a compact operator-friendly form.
func (r Report) String() string {
	var b strings.Builder
	name := r.Username
	if name == "" {
		name = "(anonymous)"
	}
	fmt.Fprintf(&b, "save:       %s\n", r.Path)
	fmt.Fprintf(&b, "player:     %s\n", name)
	fmt.Fprintf(&b, "balance:    %s\n", game.FormatNumber(r.Balance))
	fmt.Fprintf(&b, "clicks:     %d\n", r.TotalClicks)
	fmt.Fprintf(&b, "click pwr:  %s\n", game.FormatNumber(r.ClickPower))
	fmt.Fprintf(&b, "auto pwr:   %s/s\n", game.FormatNumber(r.AutoClickPower))
	fmt.Fprintf(&b, "last save:  %s\n", r.LastSave.UTC().Format(time.RFC3339))
	if r.OfflineCredit > 0 {
		fmt.Fprintf(&b, "offline:    +%s pending\n", game.FormatNumber(r.OfflineCredit))
	}
	for _, up := range r.Upgrades {
		if up.Count > 0 {
			fmt.Fprintf(&b, "  upgrade %-16s x%d\n", up.ID, up.Count)
		}
	}
	return b.String()
}
