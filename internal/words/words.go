// internal/words/words.go
//
// Word catalog loading for the round engine.
//
// Responsibilities:
//   - Parse the JSON word list (array of {"word","hint"} objects).
//   - Normalise entries: trim fields, drop entries without a word.
//   - Pick a source: SQLite catalog, a JSON file, or the embedded default.
//
// Initialization behavior (Load):
//   1. If Source.DB is set, open the SQLite catalog, apply migrations and
//      read it. An empty table is seeded from Source.File (or the embedded
//      default) first.
//   2. Else if Source.File is set, read that JSON file.
//   3. Else fall back to the embedded assets/wordsAndHints.json.
//
// Failures are returned to the caller; the engine only ever sees the
// resulting slice, possibly empty.

package words

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scramble/assets"
	"github.com/robalobadob/scramble/internal/game"
)

// Source names where the catalog comes from. Zero value means "embedded".
type Source struct {
	File string // JSON word list path
	DB   string // SQLite DSN / path
}

// Load reads the catalog from src.
func Load(ctx context.Context, src Source) ([]game.WordEntry, error) {
	switch {
	case src.DB != "":
		return loadFromDB(ctx, src)
	case src.File != "":
		return LoadFile(src.File)
	default:
		return Default()
	}
}

// ParseJSON decodes a word list and normalises it.
func ParseJSON(r io.Reader) ([]game.WordEntry, error) {
	var raw []game.WordEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("words: decode json: %w", err)
	}
	return normalize(raw), nil
}

// LoadFile reads a JSON word list from disk.
func LoadFile(path string) ([]game.WordEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseJSON(f)
}

// Default returns the embedded word list.
func Default() ([]game.WordEntry, error) {
	return ParseJSON(bytes.NewReader(assets.WordsJSON()))
}

// normalize trims both fields and drops entries with an empty word.
func normalize(in []game.WordEntry) []game.WordEntry {
	out := make([]game.WordEntry, 0, len(in))
	for i, e := range in {
		w := strings.TrimSpace(e.Word)
		if w == "" {
			log.Warn().Int("index", i).Msg("words: dropping entry without a word")
			continue
		}
		out = append(out, game.WordEntry{Word: w, Hint: strings.TrimSpace(e.Hint)})
	}
	return out
}

func loadFromDB(ctx context.Context, src Source) ([]game.WordEntry, error) {
	db, err := OpenDB(src.DB)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		return nil, err
	}

	n, err := CountDB(ctx, db)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		seed, err := Load(ctx, Source{File: src.File})
		if err != nil {
			return nil, fmt.Errorf("words: seed catalog: %w", err)
		}
		if err := ImportDB(ctx, db, seed); err != nil {
			return nil, err
		}
		log.Info().Int("words", len(seed)).Str("db", src.DB).Msg("seeded word catalog")
	}
	return LoadDB(ctx, db)
}
