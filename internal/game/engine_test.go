package game

import (
	"testing"
	"time"

	"github.com/smidgyy/Cursorrrr/internal/catalog"
	"github.com/smidgyy/Cursorrrr/internal/identity"
	"github.com/smidgyy/Cursorrrr/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngineForTest(saved *Snapshot) (*Engine, *FakeClock, *telemetry.MemoryRepository) {
	fake := NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := telemetry.NewMemoryRepository()
	repo.SetNow(fake.Now)
	e := NewEngine(Options{
		Clock: fake,
		Bus:   telemetry.NewBus(repo),
		Saved: saved,
	})
	return e, fake, repo
}

func countEvents(t *testing.T, repo *telemetry.MemoryRepository, kind telemetry.EventType) int {
	t.Helper()
	evs, err := repo.GetEvents(time.Time{}, []telemetry.EventType{kind})
	require.NoError(t, err)
	return len(evs)
}

func TestFreshEngineSeedsDefaults(t *testing.T) {
	e, _, _ := newEngineForTest(nil)
	st := e.State()

	assert.Empty(t, st.Username)
	assert.Equal(t, float64(0), st.Balance)
	assert.Equal(t, int64(0), st.TotalClicks)
	assert.Equal(t, float64(1), st.ClickPower)
	assert.Equal(t, float64(0), st.AutoClickPower)
	for id, n := range st.UpgradeCounts {
		assert.Zero(t, n, "upgrade %s", id)
	}
}

func TestHandleClickAccepted(t *testing.T) {
	e, fake, repo := newEngineForTest(nil)

	res := e.HandleClick(10, 20)
	require.True(t, res.Accepted)
	assert.Equal(t, float64(1), res.Power)
	assert.Equal(t, float64(1), res.Text.Value)
	assert.Empty(t, res.Text.Text)

	st := e.State()
	assert.Equal(t, float64(1), st.Balance)
	assert.Equal(t, int64(1), st.TotalClicks)
	assert.Equal(t, 1, countEvents(t, repo, telemetry.EventClick))

	fake.Advance(100 * time.Millisecond)
	res = e.HandleClick(0, 0)
	assert.True(t, res.Accepted)
	assert.Equal(t, int64(2), e.State().TotalClicks)
}

func TestHandleClickRateLimited(t *testing.T) {
	e, fake, repo := newEngineForTest(nil)

	for i := 0; i < 35; i++ {
		require.True(t, e.HandleClick(0, 0).Accepted)
		fake.Advance(10 * time.Millisecond)
	}

	res := e.HandleClick(0, 0)
	assert.False(t, res.Accepted)
	assert.Equal(t, "SLOW DOWN", res.Text.Text)
	assert.Equal(t, "red", res.Text.Color)

	// Rejection mutates neither counter.
	st := e.State()
	assert.Equal(t, float64(35), st.Balance)
	assert.Equal(t, int64(35), st.TotalClicks)
	assert.Equal(t, 1, countEvents(t, repo, telemetry.EventRateLimited))

	// Once the window passes the oldest clicks, input flows again.
	fake.Advance(3 * time.Second)
	assert.True(t, e.HandleClick(0, 0).Accepted)
}

func TestBuyUpgradePurchaseIsAtomic(t *testing.T) {
	e, _, repo := newEngineForTest(&Snapshot{
		Balance:        15,
		ClickPower:     1,
		AutoClickPower: 0,
	})

	res, err := e.BuyUpgrade("reply-guy") // passive, base cost 15, effect +1
	require.NoError(t, err)
	require.True(t, res.Purchased)
	assert.Equal(t, float64(15), res.Cost)
	assert.Equal(t, 1, res.Count)

	st := e.State()
	assert.Equal(t, float64(0), st.Balance)
	assert.Equal(t, float64(1), st.AutoClickPower)
	assert.Equal(t, float64(1), st.ClickPower)
	assert.Equal(t, 1, st.UpgradeCounts["reply-guy"])
	assert.Equal(t, 1, countEvents(t, repo, telemetry.EventUpgradePurchased))
}

func TestBuyUpgradeInsufficientFundsIsNoOp(t *testing.T) {
	e, _, repo := newEngineForTest(&Snapshot{Balance: 14, ClickPower: 1})

	before := e.State()
	res, err := e.BuyUpgrade("reply-guy")
	require.NoError(t, err)
	assert.False(t, res.Purchased)
	assert.Equal(t, float64(15), res.Cost)

	after := e.State()
	assert.Equal(t, before.Balance, after.Balance)
	assert.Equal(t, before.ClickPower, after.ClickPower)
	assert.Equal(t, before.AutoClickPower, after.AutoClickPower)
	assert.Equal(t, before.UpgradeCounts["reply-guy"], after.UpgradeCounts["reply-guy"])
	assert.Equal(t, 0, countEvents(t, repo, telemetry.EventUpgradePurchased))
}

func TestBuyUpgradeClickEffect(t *testing.T) {
	e, _, _ := newEngineForTest(&Snapshot{Balance: 250, ClickPower: 1})

	res, err := e.BuyUpgrade("diamond-hands") // click, base cost 250, effect +3
	require.NoError(t, err)
	require.True(t, res.Purchased)

	st := e.State()
	assert.Equal(t, float64(4), st.ClickPower)
	assert.Equal(t, float64(0), st.AutoClickPower)
}

func TestBuyUpgradeUnknownID(t *testing.T) {
	e, _, _ := newEngineForTest(nil)
	_, err := e.BuyUpgrade("moon-lambo")
	assert.ErrorIs(t, err, ErrUnknownUpgrade)
}

func TestBuyUpgradeCostRises(t *testing.T) {
	e, _, _ := newEngineForTest(&Snapshot{Balance: 1e6, ClickPower: 1})

	first, err := e.BuyUpgrade("reply-guy")
	require.NoError(t, err)
	second, err := e.BuyUpgrade("reply-guy")
	require.NoError(t, err)
	assert.Greater(t, second.Cost, first.Cost)
}

func TestJoin(t *testing.T) {
	e, _, repo := newEngineForTest(nil)

	assert.ErrorIs(t, e.Join("ab"), identity.ErrTooShort)
	require.NoError(t, e.Join("clicker42"))
	assert.Equal(t, "clicker42", e.State().Username)
	assert.Equal(t, 1, countEvents(t, repo, telemetry.EventUIOpen))

	// Identity is set once per session.
	assert.ErrorIs(t, e.Join("someone"), ErrAlreadyJoined)
	assert.Equal(t, "clicker42", e.State().Username)
}

func TestPassiveTick(t *testing.T) {
	e, _, _ := newEngineForTest(nil)
	assert.Equal(t, float64(0), e.PassiveTick())

	e2, _, _ := newEngineForTest(&Snapshot{ClickPower: 1, AutoClickPower: 7})
	assert.Equal(t, float64(7), e2.PassiveTick())
	assert.Equal(t, float64(7), e2.State().Balance)
}

func TestApplyOfflineCredit(t *testing.T) {
	e, _, repo := newEngineForTest(&Snapshot{ClickPower: 1, AutoClickPower: 10})

	e.ApplyOfflineCredit(100)
	assert.Equal(t, float64(100), e.State().Balance)
	assert.Equal(t, 1, countEvents(t, repo, telemetry.EventWelcomeBack))

	e.ApplyOfflineCredit(0)
	e.ApplyOfflineCredit(-5)
	assert.Equal(t, float64(100), e.State().Balance)
	assert.Equal(t, 1, countEvents(t, repo, telemetry.EventWelcomeBack))
}

func TestSnapshotRoundTrip(t *testing.T) {
	e, fake, _ := newEngineForTest(nil)
	require.NoError(t, e.Join("clicker42"))
	e.SetMuted(true)
	for i := 0; i < 15; i++ {
		require.True(t, e.HandleClick(0, 0).Accepted)
		fake.Advance(100 * time.Millisecond)
	}
	res, err := e.BuyUpgrade("reply-guy")
	require.NoError(t, err)
	require.True(t, res.Purchased)

	snap := e.Snapshot()
	assert.Equal(t, fake.Now().UnixMilli(), snap.LastSaveMillis)

	restored := NewEngine(Options{Clock: fake, Saved: &snap})
	assert.Equal(t, e.State(), restored.State())
}

func TestUpgradesView(t *testing.T) {
	e, _, _ := newEngineForTest(&Snapshot{Balance: 120, ClickPower: 1})

	views := e.Upgrades()
	require.Len(t, views, catalog.Default().Len())
	assert.Equal(t, "reply-guy", views[0].ID)
	assert.True(t, views[0].Affordable)  // 15 <= 120
	assert.True(t, views[1].Affordable)  // 100 <= 120
	assert.False(t, views[2].Affordable) // 250 > 120
}

func TestFeedbackSweep(t *testing.T) {
	e, fake, _ := newEngineForTest(nil)

	e.HandleClick(0, 0)
	require.Len(t, e.FloatingTexts(), 1)

	fake.Advance(800 * time.Millisecond)
	assert.Equal(t, 1, e.SweepFeedback())
	assert.Empty(t, e.FloatingTexts())
}

// The end-to-end economy scenario: 15 clicks buy the first passive upgrade,
// then three passive ticks accrue three units.
func TestClickBuyTickScenario(t *testing.T) {
	e, fake, _ := newEngineForTest(nil)

	for i := 0; i < 15; i++ {
		require.True(t, e.HandleClick(0, 0).Accepted)
		fake.Advance(100 * time.Millisecond)
	}
	st := e.State()
	require.Equal(t, float64(15), st.Balance)
	require.Equal(t, int64(15), st.TotalClicks)

	res, err := e.BuyUpgrade("reply-guy")
	require.NoError(t, err)
	require.True(t, res.Purchased)

	st = e.State()
	require.Equal(t, float64(0), st.Balance)
	require.Equal(t, float64(1), st.AutoClickPower)
	require.Equal(t, 1, st.UpgradeCounts["reply-guy"])

	for i := 0; i < 3; i++ {
		fake.Advance(time.Second)
		e.PassiveTick()
	}
	assert.Equal(t, float64(3), e.State().Balance)
}
