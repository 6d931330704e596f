// Package ticker is the external clock for round engines: it calls a tick
// function at a fixed interval until the round is over or the context ends.
package ticker

import (
	"context"
	"time"
)

// DefaultInterval is one game second.
const DefaultInterval = time.Second

// Run invokes tick every interval. tick returns false once the round has
// ended, which makes Run return nil. Cancelling ctx returns ctx.Err().
func Run(ctx context.Context, interval time.Duration, tick func() bool) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if !tick() {
				return nil
			}
		}
	}
}
