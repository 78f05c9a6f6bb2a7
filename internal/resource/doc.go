// Package resource implements the Controller for simulation-wide limits.
//
// The Controller governs two resources:
//
//   - Memory: a hard byte budget (non-blocking, fail-fast) shared by every
//     allocator a simulation context creates.
//   - Ticks: a token bucket pacing how often the fixed-timestep runner steps.
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20, // 64MB limit
//	})
//
//	if err := rc.AcquireMemory(1 << 20); err != nil {
//	    // ErrMemoryLimitExceeded - abort the tick
//	}
//	defer rc.ReleaseMemory(1 << 20)
//
// The Controller satisfies mem.Budget, so it plugs straight into mem.Budgeted.
//
// # Tick Pacing
//
//	rc := resource.NewController(resource.Config{TickRate: 60})
//	for {
//	    if err := rc.WaitTick(ctx); err != nil {
//	        return err
//	    }
//	    sim.Update(ctx, 1.0/60)
//	}
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
