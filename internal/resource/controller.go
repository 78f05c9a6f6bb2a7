package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// TickRate is the maximum number of simulation ticks per second.
	// If 0, ticks are not paced.
	TickRate float64

	// TickBurst is how many ticks may run back to back after a stall.
	// If 0, defaults to 1.
	TickBurst int
}

// Controller manages simulation resources (memory budget, tick pacing).
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64
	memPeak atomic.Int64

	// Ticks
	tickLimiter *rate.Limiter // nil if unpaced
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.TickBurst <= 0 {
		cfg.TickBurst = 1
	}

	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.TickRate > 0 {
		c.tickLimiter = rate.NewLimiter(rate.Limit(cfg.TickRate), cfg.TickBurst)
	}

	return c
}

// AcquireMemory attempts to reserve memory.
// Returns ErrMemoryLimitExceeded if limit would be exceeded.
// Non-blocking: an allocation that does not fit fails immediately.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	used := c.memUsed.Add(bytes)
	for {
		peak := c.memPeak.Load()
		if used <= peak || c.memPeak.CompareAndSwap(peak, used) {
			break
		}
	}
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryPeak returns the highest memory usage observed.
func (c *Controller) MemoryPeak() int64 {
	if c == nil {
		return 0
	}
	return c.memPeak.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// WaitTick blocks until the tick limiter admits one more tick.
func (c *Controller) WaitTick(ctx context.Context) error {
	if c == nil || c.tickLimiter == nil {
		return ctx.Err()
	}
	return c.tickLimiter.Wait(ctx)
}

// TryTick reports whether a tick may run now without waiting.
func (c *Controller) TryTick() bool {
	if c == nil || c.tickLimiter == nil {
		return true
	}
	return c.tickLimiter.AllowN(time.Now(), 1)
}
