// internal/game/types.go
//
// Core type definitions for the scramble round engine.
// Defines:
//   - WordEntry: one word/hint pair from the catalog.
//   - State: round lifecycle (not_started → active → ended).
//   - Snapshot: the externally visible round state returned after every operation.
//   - GuessResult: outcome of a submitted guess.
//   - Sentinel errors surfaced to callers.

package game

import "errors"

// WordEntry is a single catalog item. JSON shape matches the word list file.
type WordEntry struct {
	Word string `json:"word"`
	Hint string `json:"hint"`
}

// State is the coarse round lifecycle.
type State string

const (
	StateNotStarted State = "not_started"
	StateActive     State = "active"
	StateEnded      State = "ended"
)

// User-facing messages, kept identical across every front end.
const (
	MsgGoodLuck      = "Good luck!"
	MsgCorrect       = "Correct! Well done!"
	MsgIncorrect     = "Incorrect, try again!"
	MsgSkipped       = "Word skipped."
	MsgPoolExhausted = "All words exhausted! Starting a new set of words."
	MsgStartFirst    = "Please start a new round first!"
	MsgNoWords       = "No words available to start a new round."
)

var (
	// ErrEmptyCatalog is returned when a round is requested but no words are loaded.
	ErrEmptyCatalog = errors.New("empty catalog")
	// ErrRoundInactive is returned by guess/skip outside an active round.
	ErrRoundInactive = errors.New("round inactive")
)

// Snapshot holds everything a presentation layer needs to render a round.
type Snapshot struct {
	State         State  `json:"state"`
	Active        bool   `json:"active"`
	TimedOut      bool   `json:"timedOut"`
	Score         int    `json:"score"`
	TimeRemaining int    `json:"timeRemaining"` // seconds
	Scrambled     string `json:"scrambled"`
	Hint          string `json:"hint"`
	Message       string `json:"message,omitempty"`
	Notice        string `json:"notice,omitempty"` // transient, e.g. pool exhausted
	Solved        int    `json:"solved"`
	Skipped       int    `json:"skipped"`
	Refills       int    `json:"refills"`
	Remaining     int    `json:"remaining"` // words left in the pool before the next refill
}

// GuessResult is returned by SubmitGuess.
type GuessResult struct {
	Correct  bool     `json:"correct"`
	Snapshot Snapshot `json:"snapshot"`
}
