package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/scramble/internal/game"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	e := game.New(game.WithRand(game.NewSeededRand(1, 2)), game.WithRoundSeconds(3))
	require.NoError(t, e.LoadCatalog([]game.WordEntry{{Word: "cat", Hint: "A small pet"}}))
	return newApp(screen, e)
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func typeText(a *app, s string) {
	for _, r := range s {
		a.handle(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func text(a *app) string {
	var b strings.Builder
	for _, l := range a.lines() {
		b.WriteString(l.text)
		b.WriteByte('\n')
	}
	return b.String()
}

func TestApp_GuessBeforeStart(t *testing.T) {
	a := newTestApp(t)
	typeText(a, "cat")
	assert.True(t, a.handle(key(tcell.KeyEnter)))
	assert.Equal(t, game.MsgStartFirst, a.message())
	assert.Equal(t, "cat", string(a.guess), "guess is kept until a round runs")

	// an idle tick leaves the message on screen
	a.handle(tcell.NewEventInterrupt(nil))
	assert.Contains(t, text(a), game.MsgStartFirst)

	a.handle(key(tcell.KeyTab))
	assert.Equal(t, game.MsgStartFirst, a.message())
	a.handle(key(tcell.KeyCtrlN))
	assert.Equal(t, game.MsgGoodLuck, a.message())
}

func TestApp_PlayRound(t *testing.T) {
	a := newTestApp(t)
	a.handle(key(tcell.KeyCtrlN))
	require.True(t, a.last.Active)
	assert.Contains(t, text(a), "Hint: A small pet")

	typeText(a, "CAT")
	a.handle(key(tcell.KeyEnter))
	assert.Equal(t, 10, a.last.Score)
	assert.Empty(t, a.guess)
	assert.Contains(t, text(a), "Score: 10")

	a.handle(key(tcell.KeyTab))
	assert.Equal(t, 8, a.last.Score)
	assert.Equal(t, 1, a.last.Skipped)
}

func TestApp_EditingGuess(t *testing.T) {
	a := newTestApp(t)
	typeText(a, "ca t")
	assert.Equal(t, "cat", string(a.guess), "spaces are ignored")
	a.handle(key(tcell.KeyBackspace2))
	assert.Equal(t, "ca", string(a.guess))
	a.handle(key(tcell.KeyBackspace))
	a.handle(key(tcell.KeyBackspace))
	a.handle(key(tcell.KeyBackspace))
	assert.Empty(t, a.guess)

	typeText(a, strings.Repeat("x", maxGuessLen+5))
	assert.Len(t, a.guess, maxGuessLen)
}

func TestApp_InterruptTicksClock(t *testing.T) {
	a := newTestApp(t)
	a.handle(key(tcell.KeyCtrlN))
	for i := 0; i < 3; i++ {
		a.handle(tcell.NewEventInterrupt(nil))
	}
	assert.True(t, a.last.TimedOut)
	assert.False(t, a.last.Active)
	assert.Contains(t, text(a), "Time's up! Your final score is: 0")
	assert.Contains(t, text(a), "GAME OVER!")
	assert.NotContains(t, text(a), "Hint:")
}

func TestApp_NewRoundRestartsClock(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.clock = ctx
	a.interval = time.Hour

	a.handle(key(tcell.KeyCtrlN))
	require.NotNil(t, a.stopClock)

	// an interrupt from the driver that was running before the restart
	stale, staleCancel := context.WithCancel(ctx)
	staleCancel()
	a.handle(key(tcell.KeyCtrlN))
	a.handle(tcell.NewEventInterrupt(stale))
	assert.Equal(t, 3, a.last.TimeRemaining, "stale tick is ignored")
	assert.NotNil(t, a.stopClock)

	live, liveCancel := context.WithCancel(ctx)
	defer liveCancel()
	a.handle(tcell.NewEventInterrupt(live))
	assert.Equal(t, 2, a.last.TimeRemaining)

	a.handle(key(tcell.KeyEscape))
	assert.Nil(t, a.stopClock)
}

func TestApp_Quit(t *testing.T) {
	a := newTestApp(t)
	assert.False(t, a.handle(key(tcell.KeyEscape)))
	assert.False(t, a.handle(key(tcell.KeyCtrlC)))
	a.draw()
}
