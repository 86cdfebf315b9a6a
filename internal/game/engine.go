package game

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/smidgyy/Cursorrrr/internal/catalog"
	"github.com/smidgyy/Cursorrrr/internal/feedback"
	"github.com/smidgyy/Cursorrrr/internal/identity"
	"github.com/smidgyy/Cursorrrr/internal/ratelimit"
	"github.com/smidgyy/Cursorrrr/internal/telemetry"
)

var (
	ErrUnknownUpgrade = errors.New("unknown upgrade")
	ErrAlreadyJoined  = errors.New("username already set for this session")
	ErrNotJoined      = errors.New("join with a username first")
)

// Engine owns the mutable game state. Every mutation happens under one
// mutex, so timer callbacks and request handlers never interleave inside
// an operation.
type Engine struct {
	mu      sync.Mutex
	clock   Clock
	catalog *catalog.Catalog
	limiter *ratelimit.Limiter
	texts   *feedback.Stack
	bus     *telemetry.Bus
	st      State
}

// Options configures a new engine. Saved, when present, restores a prior
// snapshot; otherwise the engine seeds catalog defaults.
type Options struct {
	Catalog *catalog.Catalog
	Limiter *ratelimit.Limiter
	Clock   Clock
	Bus     *telemetry.Bus
	Saved   *Snapshot
}

func NewEngine(opts Options) *Engine {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewDefault()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Bus == nil {
		opts.Bus = telemetry.NewBus(nil)
	}

	st := seedState(opts.Catalog)
	if opts.Saved != nil {
		st = restoreState(opts.Catalog, *opts.Saved)
	}

	return &Engine{
		clock:   opts.Clock,
		catalog: opts.Catalog,
		limiter: opts.Limiter,
		texts:   feedback.NewStack(),
		bus:     opts.Bus,
		st:      st,
	}
}

// ClickResult reports what a manual click did.
type ClickResult struct {
	Accepted bool          `json:"accepted"`
	Power    float64       `json:"power"`
	Text     feedback.Text `json:"text"`
}

// HandleClick runs the rate-limit gate, then applies the click. A rejected
// click mutates nothing and only produces the SLOW DOWN feedback.
func (e *Engine) HandleClick(x, y float64) ClickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if !e.limiter.CheckAndRegister(now) {
		ft := e.texts.Push(feedback.Text{
			X:         x,
			Y:         y,
			Text:      "SLOW DOWN",
			Color:     "red",
			CreatedAt: now,
		})
		e.bus.Publish(telemetry.EventRateLimited, nil)
		return ClickResult{Accepted: false, Text: ft}
	}

	e.st.Balance += e.st.ClickPower
	e.st.TotalClicks++

	ft := e.texts.Push(feedback.Text{
		X:         x,
		Y:         y,
		Value:     e.st.ClickPower,
		CreatedAt: now,
	})
	e.bus.Publish(telemetry.EventClick, telemetry.EventMetadata{
		"power": e.st.ClickPower,
	})
	return ClickResult{Accepted: true, Power: e.st.ClickPower, Text: ft}
}

// PurchaseResult reports a purchase attempt. Purchased false with a nil
// error means the player simply could not afford it.
type PurchaseResult struct {
	Purchased bool    `json:"purchased"`
	Cost      float64 `json:"cost"`
	Count     int     `json:"count"`
	Balance   float64 `json:"balance"`
}

// BuyUpgrade deducts the current cost, bumps the count, and applies the
// effect to exactly one of the two powers. All three writes happen under
// the lock; a failed precondition writes nothing.
func (e *Engine) BuyUpgrade(id string) (PurchaseResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	up, ok := e.catalog.Get(id)
	if !ok {
		return PurchaseResult{}, fmt.Errorf("%w: %s", ErrUnknownUpgrade, id)
	}

	count := e.st.UpgradeCounts[id]
	cost := up.CostAt(count)
	if e.st.Balance < cost {
		return PurchaseResult{Cost: cost, Count: count, Balance: e.st.Balance}, nil
	}

	e.st.Balance -= cost
	e.st.UpgradeCounts[id] = count + 1
	switch up.EffectType {
	case catalog.EffectClick:
		e.st.ClickPower += up.EffectValue
	case catalog.EffectPassive:
		e.st.AutoClickPower += up.EffectValue
	}

	e.bus.Publish(telemetry.EventUpgradePurchased, telemetry.EventMetadata{
		"upgrade_id": id,
		"cost":       cost,
		"count":      count + 1,
	})
	return PurchaseResult{
		Purchased: true,
		Cost:      cost,
		Count:     count + 1,
		Balance:   e.st.Balance,
	}, nil
}

// Join sets the session identity. It may succeed at most once.
func (e *Engine) Join(name string) error {
	if err := identity.Validate(name); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st.Username != "" {
		return ErrAlreadyJoined
	}
	e.st.Username = name
	e.bus.Publish(telemetry.EventUIOpen, telemetry.EventMetadata{
		"username": name,
	})
	return nil
}

// PassiveTick accrues one second of passive income and returns the amount
// added (zero when no passive upgrades are owned).
func (e *Engine) PassiveTick() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st.AutoClickPower <= 0 {
		return 0
	}
	e.st.Balance += e.st.AutoClickPower
	return e.st.AutoClickPower
}

// ApplyOfflineCredit grants the one-time welcome-back earnings computed by
// the persistence codec at startup.
func (e *Engine) ApplyOfflineCredit(earned float64) {
	if earned <= 0 {
		return
	}
	earned = math.Floor(earned)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.Balance += earned
	e.bus.Publish(telemetry.EventWelcomeBack, telemetry.EventMetadata{
		"earned":   earned,
		"earned_h": FormatNumber(earned),
		"username": e.st.Username,
	})
}

// SetMuted stores the sound preference; it rides along in the next save.
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	e.st.Muted = muted
	e.mu.Unlock()
}

// State returns a copy of the live state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.clone()
}

// Snapshot freezes the state for persistence, stamping lastSaveTime with
// the engine clock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	ups := make([]UpgradeState, 0, e.catalog.Len())
	for _, up := range e.catalog.All() {
		ups = append(ups, UpgradeState{ID: up.ID, Count: e.st.UpgradeCounts[up.ID]})
	}
	return Snapshot{
		Username:       e.st.Username,
		Balance:        e.st.Balance,
		TotalClicks:    e.st.TotalClicks,
		ClickPower:     e.st.ClickPower,
		AutoClickPower: e.st.AutoClickPower,
		Upgrades:       ups,
		Muted:          e.st.Muted,
		LastSaveMillis: e.clock.Now().UnixMilli(),
	}
}

// UpgradeView is one catalog row priced for the current state.
type UpgradeView struct {
	catalog.Upgrade
	Count      int     `json:"count"`
	Cost       float64 `json:"cost"`
	Affordable bool    `json:"affordable"`
}

// Upgrades prices the whole catalog against the current balance, in
// catalog order. The UI uses Affordable instead of probing purchases.
func (e *Engine) Upgrades() []UpgradeView {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]UpgradeView, 0, e.catalog.Len())
	for _, up := range e.catalog.All() {
		count := e.st.UpgradeCounts[up.ID]
		cost := up.CostAt(count)
		out = append(out, UpgradeView{
			Upgrade:    up,
			Count:      count,
			Cost:       cost,
			Affordable: e.st.Balance >= cost,
		})
	}
	return out
}

// FloatingTexts returns the live feedback entries, oldest first.
func (e *Engine) FloatingTexts() []feedback.Text {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.texts.Live()
}

// SweepFeedback expires stale floating texts; the session clock calls this
// on its shortest schedule.
func (e *Engine) SweepFeedback() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.texts.Sweep(e.clock.Now())
}
