// Package session runs the game clock: passive income, autosave plus
// remote sync, and feedback expiry, all torn down together.
package session

import (
	"context"
	"log"
	"time"

	"github.com/smidgyy/Cursorrrr/internal/game"
	"github.com/smidgyy/Cursorrrr/internal/save"
	"github.com/smidgyy/Cursorrrr/internal/score"
	"github.com/smidgyy/Cursorrrr/internal/telemetry"
)

const (
	DefaultIncomePeriod   = time.Second
	DefaultAutosavePeriod = 5 * time.Second
	DefaultSweepPeriod    = 100 * time.Millisecond
)

type Options struct {
	Engine *game.Engine
	Store  *save.Store
	Scores *score.Client
	Bus    *telemetry.Bus
	Logger *log.Logger

	// Periods default to the stock 1s / 5s / 100ms schedules.
	IncomePeriod   time.Duration
	AutosavePeriod time.Duration
	SweepPeriod    time.Duration
}

type Session struct {
	engine *game.Engine
	store  *save.Store
	scores *score.Client
	bus    *telemetry.Bus
	logger *log.Logger

	incomePeriod   time.Duration
	autosavePeriod time.Duration
	sweepPeriod    time.Duration
}

func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.IncomePeriod <= 0 {
		opts.IncomePeriod = DefaultIncomePeriod
	}
	if opts.AutosavePeriod <= 0 {
		opts.AutosavePeriod = DefaultAutosavePeriod
	}
	if opts.SweepPeriod <= 0 {
		opts.SweepPeriod = DefaultSweepPeriod
	}
	return &Session{
		engine:         opts.Engine,
		store:          opts.Store,
		scores:         opts.Scores,
		bus:            opts.Bus,
		logger:         opts.Logger,
		incomePeriod:   opts.IncomePeriod,
		autosavePeriod: opts.AutosavePeriod,
		sweepPeriod:    opts.SweepPeriod,
	}
}

// Run drives all three schedules until ctx is cancelled, then performs a
// final save so no progress is lost on teardown.
func (s *Session) Run(ctx context.Context) {
	income := time.NewTicker(s.incomePeriod)
	autosave := time.NewTicker(s.autosavePeriod)
	sweep := time.NewTicker(s.sweepPeriod)
	defer income.Stop()
	defer autosave.Stop()
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			s.SaveNow()
			return
		case <-income.C:
			s.engine.PassiveTick()
		case <-autosave.C:
			s.SaveNow()
			s.SyncNow()
		case <-sweep.C:
			s.engine.SweepFeedback()
		}
	}
}

// Join sets the identity and kicks off the initial opportunistic sync.
func (s *Session) Join(name string) error {
	if err := s.engine.Join(name); err != nil {
		return err
	}
	s.SyncNow()
	return nil
}

// SaveNow snapshots the current state to the local store.
func (s *Session) SaveNow() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.engine.Snapshot()); err != nil {
		s.logger.Printf("autosave failed: %v", err)
	}
}

// SyncNow pushes the score in a detached goroutine when a username is set.
// The outcome is consumed only for telemetry and logging; the next
// autosave tick is the only retry.
func (s *Session) SyncNow() {
	if s.scores == nil {
		return
	}
	st := s.engine.State()
	if st.Username == "" {
		return
	}

	go func(username string, clicks int64) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		err := s.scores.Push(ctx, username, clicks)
		if err != nil {
			s.logger.Printf("score sync failed (will retry next tick): %v", err)
		}
		if s.bus != nil {
			s.bus.Publish(telemetry.EventScoreSynced, telemetry.EventMetadata{
				"ok":    err == nil,
				"score": clicks,
			})
		}
	}(st.Username, st.TotalClicks)
}
