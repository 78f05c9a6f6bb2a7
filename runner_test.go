package physim_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/physim"
)

type fakeClock struct {
	now  time.Time
	tick time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.tick)
	return t
}

func TestRunner_Advance(t *testing.T) {
	sim := newSim(t)
	createSpheres(t, sim, 3)
	ctx := context.Background()

	var hooked int
	r := physim.NewRunner(sim, physim.WithStepHook(func(s physim.UpdateStats) {
		hooked++
		assert.Equal(t, 3, s.Pairs)
	}))

	n, err := r.Advance(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Zero(t, n, "less than one step accumulated")

	n, err = r.Advance(ctx, 40*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "50ms covers three 60Hz steps")

	n, err = r.Advance(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 20, n, "a long frame is clamped to a third of a second")

	n, err = r.Advance(ctx, -time.Second)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, int64(23), r.Steps())
	assert.Equal(t, 23, hooked)
}

func TestRunner_Run(t *testing.T) {
	sim := newSim(t)
	createSpheres(t, sim, 2)

	clock := &fakeClock{now: time.Unix(0, 0), tick: 20 * time.Millisecond}
	r := physim.NewRunner(sim,
		physim.WithClock(clock.Now),
		physim.WithStep(10*time.Millisecond),
	)

	require.NoError(t, r.Run(context.Background(), 5))
	assert.Equal(t, int64(10), r.Steps(), "each 20ms frame runs two 10ms steps")
}

func TestRunner_Frame(t *testing.T) {
	t.Run("unpaced", func(t *testing.T) {
		sim := newSim(t)
		clock := &fakeClock{now: time.Unix(0, 0), tick: 20 * time.Millisecond}
		r := physim.NewRunner(sim, physim.WithClock(clock.Now))

		n, err := r.Frame(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n, "the first frame only starts the clock")

		for range 3 {
			n, err = r.Frame(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		}
		assert.Equal(t, int64(3), r.Steps())
	})

	t.Run("paced", func(t *testing.T) {
		sim := newSim(t, physim.WithTickRate(0.001))
		clock := &fakeClock{now: time.Unix(0, 0), tick: time.Second}
		r := physim.NewRunner(sim, physim.WithClock(clock.Now))

		_, err := r.Frame(context.Background())
		require.NoError(t, err)

		n, err := r.Frame(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n, "limiter has no token left")
		assert.Zero(t, r.Steps())
	})
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	sim := newSim(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	clock := func() time.Time {
		calls++
		if calls > 3 {
			cancel()
		}
		return time.Unix(0, int64(calls)*int64(time.Millisecond))
	}

	r := physim.NewRunner(sim, physim.WithClock(clock))
	err := r.Run(ctx, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_TickRate(t *testing.T) {
	sim := newSim(t, physim.WithTickRate(1000))
	createSpheres(t, sim, 2)

	r := physim.NewRunner(sim, physim.WithStep(time.Millisecond))

	start := time.Now()
	require.NoError(t, r.Run(context.Background(), 20))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond, "frames are paced by the limiter")
}

func TestRunner_PropagatesUpdateError(t *testing.T) {
	sim, err := physim.New()
	require.NoError(t, err)
	require.NoError(t, sim.Close())

	r := physim.NewRunner(sim)
	_, err = r.Advance(context.Background(), time.Second)
	assert.ErrorIs(t, err, physim.ErrClosed)
}
