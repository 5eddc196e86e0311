package playback

import (
	"context"
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
)

// DefaultPeriod is the playback clock cadence.
const DefaultPeriod = time.Millisecond * TickMillis

// Clock is a periodic tick source with an explicit lifetime: StartClock acquires it and
// Stop releases it. A consumer that falls behind simply misses ticks, which delays
// playback but never corrupts it, since every tick is applied against current state.
type Clock struct {
	ticks  <-chan time.Time
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// StartClock starts a clock ticking every period until Stop is called or ctx is done.
// A non-positive period falls back to DefaultPeriod.
func StartClock(ctx context.Context, period time.Duration) *Clock {
	if period <= 0 {
		period = DefaultPeriod
	}
	clockCtx, cancel := context.WithCancel(ctx)
	return &Clock{
		ticks:  channerics.NewTicker(clockCtx.Done(), period),
		ctx:    clockCtx,
		cancel: cancel,
	}
}

// Ticks delivers the clock's ticks.
func (c *Clock) Ticks() <-chan time.Time {
	return c.ticks
}

// Done is closed once the clock has been stopped.
func (c *Clock) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Stop cancels the clock and waits for its ticker to wind down. It is safe to call more
// than once. It must not be called while another goroutine still reads Ticks.
func (c *Clock) Stop() {
	c.once.Do(func() {
		c.cancel()
		for range c.ticks {
		}
	})
}
