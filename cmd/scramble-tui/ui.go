package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/scramble/internal/game"
	"github.com/robalobadob/scramble/internal/ticker"
)

const maxGuessLen = 32

var (
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleWord   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleNotice = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// app owns the engine; every call happens on the event loop goroutine.
type app struct {
	screen tcell.Screen
	engine *game.Engine
	guess  []rune
	last   game.Snapshot
	flash  string // shown instead of last.Message until the next action

	// clock is the parent of each round's tick driver; nil runs no driver.
	clock     context.Context
	interval  time.Duration
	stopClock context.CancelFunc
}

func newApp(screen tcell.Screen, e *game.Engine) *app {
	return &app{screen: screen, engine: e, last: e.Snapshot(), interval: ticker.DefaultInterval}
}

// restartClock replaces the tick driver so a new round gets full seconds.
// Each interrupt carries its driver's context; stale ones are ignored.
func (a *app) restartClock() {
	a.haltClock()
	if a.clock == nil {
		return
	}
	ctx, cancel := context.WithCancel(a.clock)
	a.stopClock = cancel
	go func() {
		_ = ticker.Run(ctx, a.interval, func() bool {
			// a full event queue just drops this second's tick
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(ctx))
			return true
		})
	}()
}

func (a *app) haltClock() {
	if a.stopClock != nil {
		a.stopClock()
		a.stopClock = nil
	}
}

// handle applies one event and reports whether the loop should keep going.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		if ctx, ok := ev.Data().(context.Context); ok && ctx.Err() != nil {
			return true
		}
		a.last = a.engine.Tick()
		if !a.last.Active {
			a.haltClock()
		}
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		return a.key(ev)
	}
	return true
}

func (a *app) key(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.haltClock()
		return false
	case tcell.KeyCtrlN:
		a.guess = a.guess[:0]
		a.flash = ""
		snap, err := a.engine.StartRound()
		a.last = snap
		if err != nil {
			// the snapshot carries the no-words message
			a.haltClock()
			return true
		}
		a.restartClock()
	case tcell.KeyEnter:
		res, err := a.engine.SubmitGuess(string(a.guess))
		if err != nil {
			a.flash = game.MsgStartFirst
			return true
		}
		a.last, a.flash = res.Snapshot, ""
		a.guess = a.guess[:0]
	case tcell.KeyTab:
		snap, err := a.engine.Skip()
		if err != nil {
			a.flash = game.MsgStartFirst
			return true
		}
		a.last, a.flash = snap, ""
		a.guess = a.guess[:0]
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.guess); n > 0 {
			a.guess = a.guess[:n-1]
		}
	case tcell.KeyRune:
		if r := ev.Rune(); r != ' ' && len(a.guess) < maxGuessLen {
			a.guess = append(a.guess, r)
		}
	}
	return true
}

// line is one row of the screen.
type line struct {
	text  string
	style tcell.Style
}

func (a *app) lines() []line {
	s := a.last
	out := []line{
		{"WORD SCRAMBLE", styleTitle},
		{fmt.Sprintf("Score: %d   Time: %ds   Solved: %d   Skipped: %d", s.Score, s.TimeRemaining, s.Solved, s.Skipped), styleText},
		{"", styleText},
	}
	switch {
	case s.Scrambled != "":
		out = append(out, line{strings.ToUpper(s.Scrambled), styleWord})
	case s.State == game.StateEnded:
		out = append(out, line{"GAME OVER!", styleTitle})
	default:
		out = append(out, line{"-", styleDim})
	}
	if s.Hint != "" {
		out = append(out, line{"Hint: " + s.Hint, styleText})
	} else {
		out = append(out, line{"", styleText})
	}
	out = append(out,
		line{"", styleText},
		line{"> " + string(a.guess), styleText},
		line{"", styleText},
		line{a.message(), styleText},
	)
	if s.Notice != "" {
		out = append(out, line{s.Notice, styleNotice})
	}
	out = append(out,
		line{"", styleText},
		line{"Enter: guess   Tab: skip   Ctrl-N: new round   Esc: quit", styleDim},
	)
	return out
}

func (a *app) message() string {
	if a.flash != "" {
		return a.flash
	}
	return a.last.Message
}

func (a *app) draw() {
	a.screen.Clear()
	for y, l := range a.lines() {
		drawText(a.screen, 2, y+1, l.text, l.style)
	}
	// cursor sits after the typed guess, on the "> " row
	a.screen.ShowCursor(2+2+len(a.guess), 1+6)
	a.screen.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
