// Package progress reports coarse, monotonically increasing completion
// percentages and lets the caller abort a comparison between milestones.
package progress

import (
	"context"
	"fmt"

	"github.com/nconklindev/diffcheck/internal/types"
)

// Func receives a percentage in 0..100. Returning a non-nil error asks the
// engine to stop at the next milestone.
type Func func(percent int) error

// Tracker forwards milestones to a Func. A nil *Tracker is valid and only
// checks for cancellation of nothing.
type Tracker struct {
	ctx  context.Context
	fn   Func
	last int
}

// New returns a tracker bound to ctx. fn may be nil.
func New(ctx context.Context, fn Func) *Tracker {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Tracker{ctx: ctx, fn: fn, last: -1}
}

// Report records a milestone. Values are clamped to 0..100 and never go
// backwards; repeated values are not re-sent. The returned error wraps
// types.ErrAborted when the context is done or the callback refuses.
func (t *Tracker) Report(percent int) error {
	if t == nil {
		return nil
	}
	if err := t.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrAborted, err)
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent <= t.last {
		return nil
	}
	t.last = percent

	if t.fn == nil {
		return nil
	}
	if err := t.fn(percent); err != nil {
		return fmt.Errorf("%w at %d%%: %w", types.ErrAborted, percent, err)
	}
	return nil
}

// Last returns the highest percentage reported so far, or -1.
func (t *Tracker) Last() int {
	if t == nil {
		return -1
	}
	return t.last
}

// Scale maps step i of total onto the band [from, to].
func Scale(from, to, i, total int) int {
	if total <= 0 {
		total = 1
	}
	return from + (to-from)*i/total
}

// Channel adapts a buffered channel into a Func. Sends never block: when the
// receiver lags behind, intermediate values are dropped.
func Channel(ch chan<- float64) Func {
	return func(percent int) error {
		select {
		case ch <- float64(percent) / 100:
		default:
		}
		return nil
	}
}
