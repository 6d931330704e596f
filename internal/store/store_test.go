package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/scramble/internal/game"
)

func newTestSession(t *testing.T, id string, roundSeconds int) *Session {
	t.Helper()
	e := game.New(game.WithRoundSeconds(roundSeconds), game.WithRand(game.NewSeededRand(1, 1)))
	require.NoError(t, e.LoadCatalog([]game.WordEntry{{Word: "cat", Hint: "pet"}, {Word: "dog", Hint: "pet"}}))
	return NewSession(id, ModeClassic, e)
}

func TestLRUStore_CRUD(t *testing.T) {
	ctx := context.Background()
	st, err := NewLRUStore(4)
	require.NoError(t, err)

	s := newTestSession(t, "a", 30)
	require.NoError(t, st.Save(ctx, s))
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Delete(ctx, "a"))
	require.ErrorIs(t, st.Delete(ctx, "a"), ErrNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestLRUStore_InvalidSize(t *testing.T) {
	_, err := NewLRUStore(0)
	require.Error(t, err)
}

func TestLRUStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	st, err := NewLRUStore(2)
	require.NoError(t, err)

	require.NoError(t, st.Save(ctx, newTestSession(t, "a", 30)))
	require.NoError(t, st.Save(ctx, newTestSession(t, "b", 30)))
	_, err = st.Get(ctx, "a") // a is now most recent
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, newTestSession(t, "c", 30)))

	_, err = st.Get(ctx, "b")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, "a")
	require.NoError(t, err)
}

func TestLRUStore_EvictionStopsTicker(t *testing.T) {
	ctx := context.Background()
	st, err := NewLRUStore(1)
	require.NoError(t, err)

	s := newTestSession(t, "a", 1000)
	require.NoError(t, st.Save(ctx, s))
	_, err = s.Restart(ctx, time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, st.Save(ctx, newTestSession(t, "b", 30)))

	// once stopped, the remaining time settles
	time.Sleep(20 * time.Millisecond)
	settled := s.Snapshot().TimeRemaining
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, s.Snapshot().TimeRemaining)
	assert.True(t, s.Snapshot().Active)
}

func TestLRUStore_Range(t *testing.T) {
	ctx := context.Background()
	st, err := NewLRUStore(8)
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, st.Save(ctx, newTestSession(t, id, 30)))
	}

	var ids []string
	st.Range(ctx, func(s *Session) bool {
		ids = append(ids, s.ID)
		return true
	})
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)

	var visited int
	st.Range(ctx, func(s *Session) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}
