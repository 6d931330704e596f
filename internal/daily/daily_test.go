package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/scramble/internal/game"
)

func TestDateKey_UTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 3, 1, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-02-28", DateKey(ts))
}

func TestSeed_StablePerDay(t *testing.T) {
	morning := time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	next := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	a1, a2 := Seed(morning, "salt")
	b1, b2 := Seed(evening, "salt")
	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)

	c1, _ := Seed(next, "salt")
	assert.NotEqual(t, a1, c1)

	d1, _ := Seed(morning, "pepper")
	assert.NotEqual(t, a1, d1)
}

func TestNewRand_SameRoundForSameDay(t *testing.T) {
	day := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	catalog := []game.WordEntry{
		{Word: "planet", Hint: "orbits"},
		{Word: "comet", Hint: "tail"},
		{Word: "nebula", Hint: "cloud"},
		{Word: "quasar", Hint: "bright"},
	}

	play := func() []string {
		e := game.New(game.WithRand(NewRand(day, "salt")))
		require.NoError(t, e.LoadCatalog(catalog))
		snap, err := e.StartRound()
		require.NoError(t, err)
		out := []string{snap.Scrambled}
		for i := 0; i < 5; i++ {
			snap, err = e.Skip()
			require.NoError(t, err)
			out = append(out, snap.Scrambled)
		}
		return out
	}
	assert.Equal(t, play(), play())
}
