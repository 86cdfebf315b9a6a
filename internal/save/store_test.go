package save

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smidgyy/Cursorrrr/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreForTest(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	s := newStoreForTest(t)
	snap, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestLoadMalformedFileFallsBack(t *testing.T) {
	s := newStoreForTest(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	snap, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStoreForTest(t)
	in := game.Snapshot{
		Username:       "clicker42",
		Balance:        1234.5,
		TotalClicks:    987,
		ClickPower:     4,
		AutoClickPower: 6,
		Upgrades: []game.UpgradeState{
			{ID: "reply-guy", Count: 3},
			{ID: "diamond-hands", Count: 1},
		},
		Muted:          true,
		LastSaveMillis: 1770000000000,
	}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s := newStoreForTest(t)
	require.NoError(t, s.Save(game.Snapshot{Balance: 1}))
	require.NoError(t, s.Save(game.Snapshot{Balance: 2}))

	out, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, float64(2), out.Balance)

	// No stray temp file left behind.
	_, err = os.Stat(filepath.Join(filepath.Dir(s.Path()), fileName+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestReconcileOffline(t *testing.T) {
	now := time.UnixMilli(1770000000000)

	snapAt := func(agoMillis int64, auto float64) *game.Snapshot {
		return &game.Snapshot{
			AutoClickPower: auto,
			LastSaveMillis: now.UnixMilli() - agoMillis,
		}
	}

	// 10s away at 10/sec: floor(10 * 10) = 100.
	assert.Equal(t, float64(100), ReconcileOffline(snapAt(10000, 10), now))
	// The 5s threshold is exclusive.
	assert.Equal(t, float64(0), ReconcileOffline(snapAt(5000, 10), now))
	assert.Equal(t, float64(52), ReconcileOffline(snapAt(5250, 10), now))
	// No passive income, no credit.
	assert.Equal(t, float64(0), ReconcileOffline(snapAt(60000, 0), now))
	// No prior stamp, no credit.
	assert.Equal(t, float64(0), ReconcileOffline(&game.Snapshot{AutoClickPower: 5}, now))
	assert.Equal(t, float64(0), ReconcileOffline(nil, now))
}
