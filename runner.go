package physim

import (
	"context"
	"time"
)

const (
	// DefaultStep is the fixed simulation step (60 Hz).
	DefaultStep = time.Second / 60
	// DefaultMaxFrame caps the wall time a single frame may feed the accumulator.
	DefaultMaxFrame = time.Second / 3
)

// Runner drives a Sim with a fixed timestep. Wall-clock time is accumulated
// and consumed in whole steps; a frame longer than the max frame time is
// clamped so a stall cannot trigger an unbounded burst of catch-up ticks.
type Runner struct {
	sim         *Sim
	step        time.Duration
	maxFrame    time.Duration
	now         func() time.Time
	onStep      func(UpdateStats)
	accumulator time.Duration
	last        time.Time
	steps       int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStep sets the fixed step duration.
func WithStep(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.step = d
		}
	}
}

// WithMaxFrame sets the per-frame clamp.
func WithMaxFrame(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.maxFrame = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithStepHook is called after every successful step.
func WithStepHook(fn func(UpdateStats)) RunnerOption {
	return func(r *Runner) {
		r.onStep = fn
	}
}

// NewRunner creates a Runner for sim.
func NewRunner(sim *Sim, opts ...RunnerOption) *Runner {
	r := &Runner{
		sim:      sim,
		step:     DefaultStep,
		maxFrame: DefaultMaxFrame,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Steps returns the number of ticks run so far.
func (r *Runner) Steps() int64 {
	return r.steps
}

// Advance feeds elapsed wall time into the accumulator and runs as many
// fixed steps as it covers. It returns the number of steps run.
func (r *Runner) Advance(ctx context.Context, elapsed time.Duration) (int, error) {
	elapsed = min(max(elapsed, 0), r.maxFrame)
	r.accumulator += elapsed

	n := 0
	dt := float32(r.step.Seconds())
	for r.accumulator >= r.step {
		if err := r.sim.Update(ctx, dt); err != nil {
			return n, err
		}
		r.accumulator -= r.step
		r.steps++
		n++
		if r.onStep != nil {
			r.onStep(r.sim.LastUpdate())
		}
	}
	return n, nil
}

// Run processes frames until frames have elapsed (frames <= 0 means until
// ctx is done). When the Sim was created with WithTickRate each frame first
// waits for the rate limiter; otherwise frames run back to back.
func (r *Runner) Run(ctx context.Context, frames int) error {
	r.last = r.now()
	for i := 0; frames <= 0 || i < frames; i++ {
		if err := r.waitFrame(ctx); err != nil {
			return err
		}

		now := r.now()
		elapsed := now.Sub(r.last)
		r.last = now

		if _, err := r.Advance(ctx, elapsed); err != nil {
			return err
		}
	}
	return nil
}

// Frame runs one frame without blocking, for callers that own the outer
// loop. When the Sim's tick limiter has no token the frame is skipped and 0
// is returned; the skipped wall time is carried into the next frame.
func (r *Runner) Frame(ctx context.Context) (int, error) {
	if !r.sim.controller.TryTick() {
		return 0, nil
	}

	now := r.now()
	if r.last.IsZero() {
		r.last = now
	}
	elapsed := now.Sub(r.last)
	r.last = now

	return r.Advance(ctx, elapsed)
}

func (r *Runner) waitFrame(ctx context.Context) error {
	return r.sim.controller.WaitTick(ctx)
}
