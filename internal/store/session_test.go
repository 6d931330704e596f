package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/scramble/internal/game"
)

func TestSession_DoPublishes(t *testing.T) {
	s := newTestSession(t, "s1", 30)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	snap, err := s.Do(func(e *game.Engine) (game.Snapshot, error) { return e.StartRound() })
	require.NoError(t, err)

	got := <-ch
	assert.Equal(t, snap, got)
	assert.True(t, got.Active)
}

func TestSession_DoPublishesOnError(t *testing.T) {
	s := newTestSession(t, "s1", 30)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	_, err := s.Do(func(e *game.Engine) (game.Snapshot, error) { return e.Skip() })
	require.ErrorIs(t, err, game.ErrRoundInactive)
	got := <-ch
	assert.Equal(t, game.StateNotStarted, got.State)
}

func TestSession_UnsubscribeClosesChannel(t *testing.T) {
	s := newTestSession(t, "s1", 30)
	ch, unsubscribe := s.Subscribe()
	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)

	// publishing with no subscribers must not block
	_, err := s.Do(func(e *game.Engine) (game.Snapshot, error) { return e.StartRound() })
	require.NoError(t, err)
}

func TestSession_SlowSubscriberKeepsNewest(t *testing.T) {
	s := newTestSession(t, "s1", 1000)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	_, err := s.Do(func(e *game.Engine) (game.Snapshot, error) { return e.StartRound() })
	require.NoError(t, err)
	var last game.Snapshot
	for i := 0; i < subscriberBuffer*3; i++ {
		last, _ = s.Do(func(e *game.Engine) (game.Snapshot, error) { return e.Tick(), nil })
	}

	var got game.Snapshot
	for len(ch) > 0 {
		got = <-ch
	}
	assert.Equal(t, last, got)
}

func TestSession_TickerRunsRoundToTimeout(t *testing.T) {
	s := newTestSession(t, "s1", 3)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	_, err := s.Restart(context.Background(), time.Millisecond)
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.TimedOut {
				assert.False(t, snap.Active)
				assert.Equal(t, 0, snap.TimeRemaining)
				return
			}
		case <-deadline:
			t.Fatal("round never timed out")
		}
	}
}

func TestSession_StopTickerFreezesClock(t *testing.T) {
	s := newTestSession(t, "s1", 1000)
	_, err := s.Restart(context.Background(), time.Millisecond)
	require.NoError(t, err)
	_, err = s.Restart(context.Background(), time.Millisecond) // replaces the first driver
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	s.StopTicker()
	s.StopTicker()

	time.Sleep(5 * time.Millisecond)
	frozen := s.Snapshot().TimeRemaining
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, s.Snapshot().TimeRemaining)
	assert.Less(t, frozen, 1000)
}

func TestSession_RestartIgnoresPreviousDriver(t *testing.T) {
	ctx := context.Background()
	for run := 0; run < 20; run++ {
		s := newTestSession(t, "s1", 30)
		_, err := s.Restart(ctx, time.Millisecond)
		require.NoError(t, err)

		// keep the lock across several tick boundaries so the old driver queues on it
		held, release := make(chan struct{}), make(chan struct{})
		go func() {
			_, _ = s.Do(func(e *game.Engine) (game.Snapshot, error) {
				close(held)
				<-release
				return e.Snapshot(), nil
			})
		}()
		<-held
		time.Sleep(5 * time.Millisecond)

		restarted := make(chan game.Snapshot, 1)
		go func() {
			snap, err := s.Restart(ctx, time.Hour)
			assert.NoError(t, err)
			restarted <- snap
		}()
		time.Sleep(2 * time.Millisecond)
		close(release)

		assert.Equal(t, 30, (<-restarted).TimeRemaining, "run %d", run)
		time.Sleep(5 * time.Millisecond)
		assert.Equal(t, 30, s.Snapshot().TimeRemaining, "run %d", run)
		s.StopTicker()
	}
}

func TestSession_RestartFailureStopsDriver(t *testing.T) {
	s := newTestSession(t, "s1", 1000)
	_, err := s.Restart(context.Background(), time.Millisecond)
	require.NoError(t, err)

	require.ErrorIs(t, s.LoadCatalog(nil), game.ErrEmptyCatalog)
	snap, err := s.Restart(context.Background(), time.Millisecond)
	require.ErrorIs(t, err, game.ErrEmptyCatalog)
	assert.Equal(t, game.StateEnded, snap.State)

	time.Sleep(5 * time.Millisecond)
	frozen := s.Snapshot().TimeRemaining
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, frozen, s.Snapshot().TimeRemaining)
}
