// Command scramble-tui plays word scramble rounds in the terminal against an
// in-process engine. The word list comes from WORDS_DB, WORDS_FILE or the
// embedded default, in that order.
package main

import (
	"context"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scramble/internal/game"
	"github.com/robalobadob/scramble/internal/words"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog, err := words.Load(ctx, words.Source{
		File: os.Getenv("WORDS_FILE"),
		DB:   os.Getenv("WORDS_DB"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	e := game.New()
	if err := e.LoadCatalog(catalog); err != nil {
		log.Fatal().Err(err).Msg("word list is empty")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("creating screen")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("initializing screen")
	}
	defer screen.Fini()

	a := newApp(screen, e)
	a.clock = ctx
	a.draw()
	for {
		ev := screen.PollEvent()
		if ev == nil || !a.handle(ev) {
			return
		}
		a.draw()
	}
}
