// internal/game/engine.go
//
// Round engine for a single scramble session.
// Responsibilities:
//   - Hold the catalog and the per-round pool drawn without replacement.
//   - Pick and scramble words, refilling the pool when it runs dry.
//   - Apply guesses, skips and ticks; track score and remaining time.
//   - Track state transitions: not_started → active → ended.
//
// Notes:
//   - The engine owns no timer; callers invoke Tick once per elapsed second.
//   - It is not safe for concurrent use. Wrap it (see store.Session) when
//     several goroutines drive the same round.
package game

import (
	"fmt"
	"strings"
)

const (
	DefaultRoundSeconds = 30

	PointsCorrect    = 10
	PenaltyIncorrect = 5
	PenaltySkip      = 2
)

// Engine is one player's round state machine.
type Engine struct {
	rng          Rand
	newRand      func() Rand
	roundSeconds int

	catalog   []WordEntry
	remaining []WordEntry

	hint      string
	answer    string // uppercased word being guessed
	scrambled string

	state    State
	timedOut bool
	score    int
	timeLeft int
	message  string
	notice   string

	solved  int
	skipped int
	refills int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source (defaults to fastrand).
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithRandFactory makes every StartRound draw from a fresh source built by
// f, so each round replays the same sequence for a given seed.
func WithRandFactory(f func() Rand) Option {
	return func(e *Engine) {
		e.newRand = f
	}
}

// WithRoundSeconds overrides the round length. Non-positive values are ignored.
func WithRoundSeconds(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.roundSeconds = n
		}
	}
}

// New constructs an engine with an empty catalog.
func New(opts ...Option) *Engine {
	e := &Engine{
		rng:          fastRand{},
		roundSeconds: DefaultRoundSeconds,
		state:        StateNotStarted,
	}
	for _, o := range opts {
		o(e)
	}
	e.timeLeft = e.roundSeconds
	return e
}

// LoadCatalog replaces the catalog with a copy of entries.
// An empty catalog leaves the engine not ready and returns ErrEmptyCatalog;
// a round already in progress keeps its current pool.
func (e *Engine) LoadCatalog(entries []WordEntry) error {
	if len(entries) == 0 {
		e.catalog = nil
		return ErrEmptyCatalog
	}
	e.catalog = append([]WordEntry(nil), entries...)
	return nil
}

// Ready reports whether a round can be started.
func (e *Engine) Ready() bool { return len(e.catalog) > 0 }

// CatalogSize returns the number of loaded entries.
func (e *Engine) CatalogSize() int { return len(e.catalog) }

// StartRound resets score, timer and pool and draws the first word.
// Calling it mid-round restarts the round.
func (e *Engine) StartRound() (Snapshot, error) {
	e.notice = ""
	if !e.Ready() {
		if e.state == StateActive {
			e.state = StateEnded
		}
		e.message = MsgNoWords
		return e.Snapshot(), ErrEmptyCatalog
	}

	if e.newRand != nil {
		if r := e.newRand(); r != nil {
			e.rng = r
		}
	}
	e.score = 0
	e.timeLeft = e.roundSeconds
	e.timedOut = false
	e.solved, e.skipped, e.refills = 0, 0, 0
	e.remaining = append(make([]WordEntry, 0, len(e.catalog)), e.catalog...)
	e.state = StateActive
	e.message = MsgGoodLuck

	e.nextWord()
	return e.Snapshot(), nil
}

// SubmitGuess compares text (trimmed, case-insensitive) with the current word.
// A match scores and advances; a miss costs points and keeps the same scramble.
func (e *Engine) SubmitGuess(text string) (GuessResult, error) {
	if e.state != StateActive {
		return GuessResult{Snapshot: e.Snapshot()}, ErrRoundInactive
	}
	e.notice = ""

	if strings.ToUpper(strings.TrimSpace(text)) == e.answer {
		e.score += PointsCorrect
		e.solved++
		e.message = MsgCorrect
		e.nextWord()
		return GuessResult{Correct: true, Snapshot: e.Snapshot()}, nil
	}

	e.score = max(0, e.score-PenaltyIncorrect)
	e.message = MsgIncorrect
	return GuessResult{Snapshot: e.Snapshot()}, nil
}

// Skip abandons the current word for a small penalty and draws the next one.
func (e *Engine) Skip() (Snapshot, error) {
	if e.state != StateActive {
		return e.Snapshot(), ErrRoundInactive
	}
	e.notice = ""
	e.score = max(0, e.score-PenaltySkip)
	e.skipped++
	e.message = MsgSkipped
	e.nextWord()
	return e.Snapshot(), nil
}

// Tick consumes one second. When time runs out the round ends and the
// snapshot is flagged TimedOut. Outside an active round it changes nothing.
func (e *Engine) Tick() Snapshot {
	if e.state != StateActive {
		return e.Snapshot()
	}
	e.timeLeft--
	if e.timeLeft <= 0 {
		e.timeLeft = 0
		e.state = StateEnded
		e.timedOut = true
		e.message = fmt.Sprintf("Time's up! Your final score is: %d", e.score)
	}
	return e.Snapshot()
}

// Stop ends an active round without touching the score. Idempotent.
func (e *Engine) Stop() Snapshot {
	if e.state == StateActive {
		e.state = StateEnded
		e.notice = ""
	}
	return e.Snapshot()
}

// Snapshot returns the current observable state. The scramble and hint are
// only shown while a round is active.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:         e.state,
		Active:        e.state == StateActive,
		TimedOut:      e.timedOut,
		Score:         e.score,
		TimeRemaining: e.timeLeft,
		Scrambled:     e.scrambled,
		Hint:          e.hint,
		Message:       e.message,
		Notice:        e.notice,
		Solved:        e.solved,
		Skipped:       e.skipped,
		Refills:       e.refills,
		Remaining:     len(e.remaining),
	}
	if e.state != StateActive {
		snap.Scrambled, snap.Hint = "", ""
	}
	return snap
}

// nextWord draws a random entry from the pool, refilling it from the catalog
// first if it is empty. With no catalog left the round ends.
func (e *Engine) nextWord() {
	if len(e.remaining) == 0 {
		if len(e.catalog) == 0 {
			e.state = StateEnded
			e.message = MsgNoWords
			return
		}
		e.remaining = append(e.remaining[:0], e.catalog...)
		e.refills++
		e.notice = MsgPoolExhausted
	}

	i := e.rng.IntN(len(e.remaining))
	entry := e.remaining[i]
	e.remaining = append(e.remaining[:i], e.remaining[i+1:]...)

	e.answer = strings.ToUpper(entry.Word)
	e.hint = entry.Hint
	e.scrambled = Scramble(e.answer, e.rng)
}
