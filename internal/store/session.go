package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/scramble/internal/game"
	"github.com/robalobadob/scramble/internal/ticker"
)

// Mode selects how a session's words are drawn.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDaily   Mode = "daily"
)

// subscriberBuffer bounds how far a slow listener can lag before older
// snapshots are dropped in favour of the newest one.
const subscriberBuffer = 16

// Session is one player's engine plus the plumbing around it: a lock that
// serialises every operation, snapshot fan-out, and the tick driver.
type Session struct {
	ID        string
	Mode      Mode
	CreatedAt time.Time

	mu     sync.Mutex // guards engine and publish order
	engine *game.Engine

	subMu   sync.Mutex
	subs    map[int]chan game.Snapshot
	nextSub int

	tickMu   sync.Mutex
	stopTick context.CancelFunc
}

// NewSession wraps e.
func NewSession(id string, mode Mode, e *game.Engine) *Session {
	return &Session{
		ID:        id,
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
		engine:    e,
		subs:      make(map[int]chan game.Snapshot),
	}
}

// Do runs fn against the engine under the session lock and publishes the
// resulting snapshot to subscribers, even when fn returns an error.
func (s *Session) Do(fn func(e *game.Engine) (game.Snapshot, error)) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := fn(s.engine)
	s.publish(snap)
	return snap, err
}

// Snapshot reads the engine state without notifying subscribers.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// LoadCatalog swaps the engine's catalog.
func (s *Session) LoadCatalog(entries []game.WordEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.LoadCatalog(entries)
}

// Subscribe returns a channel receiving every published snapshot and a func
// that detaches it. The channel is closed on unsubscribe.
func (s *Session) Subscribe() (<-chan game.Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan game.Snapshot, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Session) publish(snap game.Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// full: drop the oldest, keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Restart starts a fresh round and its tick driver. The previous driver is
// cancelled before the round resets, so none of its ticks land on the new
// round. On error no driver is left running.
func (s *Session) Restart(parent context.Context, interval time.Duration) (game.Snapshot, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.cancelTickerLocked()

	snap, err := s.Do(func(e *game.Engine) (game.Snapshot, error) { return e.StartRound() })
	if err != nil {
		return snap, err
	}
	s.startTickerLocked(parent, interval)
	return snap, nil
}

// startTickerLocked needs tickMu held. The driver exits by itself once the
// round is no longer active.
func (s *Session) startTickerLocked(parent context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(parent)
	s.stopTick = cancel

	go func() {
		defer cancel()
		_ = ticker.Run(ctx, interval, func() bool {
			snap, _ := s.Do(func(e *game.Engine) (game.Snapshot, error) {
				// a tick that waited on the lock while its driver was replaced
				if ctx.Err() != nil {
					return e.Snapshot(), nil
				}
				return e.Tick(), nil
			})
			return snap.Active && ctx.Err() == nil
		})
	}()
}

func (s *Session) cancelTickerLocked() {
	if s.stopTick != nil {
		s.stopTick()
		s.stopTick = nil
	}
}

// StopTicker cancels the tick driver, if any.
func (s *Session) StopTicker() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.cancelTickerLocked()
}
