package physim

import (
	"log/slog"

	"github.com/hupe1980/physim/collision"
	"github.com/hupe1980/physim/internal/mem"
)

type options struct {
	allocator        mem.Allocator
	noFallback       bool
	registrations    []collision.Registration
	metricsCollector MetricsCollector
	logger           *Logger
	memoryLimit      int64
	tickRate         float64
	blockSize        int
	bodyCapacity     int
	contactListener  func(Contact)
}

// Option configures a Sim.
type Option func(*options)

// WithAllocator sets the allocator every arena block and container buffer
// is drawn from. A nil allocator falls back to HeapAllocator unless
// WithoutFallbackAllocator is also given. Body records and the collision
// dispatch table hold Go pointers and stay on the Go heap; WithMemoryLimit
// still accounts for body storage.
//
// Example with an allocator built from plain functions:
//
//	sim, _ := physim.New(physim.WithAllocator(physim.AllocatorFuncs{
//	    AllocateFunc: myAlloc,
//	    FreeFunc:     myFree,
//	}))
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithoutFallbackAllocator makes New fail with ErrInvalidAllocator instead of
// falling back to HeapAllocator when no usable allocator is configured.
func WithoutFallbackAllocator() Option {
	return func(o *options) {
		o.noFallback = true
	}
}

// WithShapeRegistration adds collision handlers for custom shape types.
// Registrations are applied after the built-in handlers and may override them.
//
// Example:
//
//	const Box = shape.TypeUser
//	sim, _ := physim.New(physim.WithShapeRegistration(collision.Registration{
//	    Type: Box,
//	    Handlers: []collision.Handler{
//	        {Other: shape.TypeConvex, Func: boxVsConvex},
//	    },
//	}))
func WithShapeRegistration(regs ...collision.Registration) Option {
	return func(o *options) {
		o.registrations = append(o.registrations, regs...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &physim.BasicMetricsCollector{}
//	sim, _ := physim.New(physim.WithMetricsCollector(metrics))
//	// ... run ticks ...
//	stats := metrics.GetStats()
//	fmt.Printf("Ticks: %d, Avg latency: %dns\n", stats.UpdateCount, stats.UpdateAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := physim.NewJSONLogger(slog.LevelInfo)
//	sim, _ := physim.New(physim.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMemoryLimit caps the bytes the Sim may draw from its allocator,
// body storage included. Exceeding it fails the operation with an error
// wrapping ErrOutOfMemory. Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithTickRate paces Runner to at most hz ticks per second.
func WithTickRate(hz float64) Option {
	return func(o *options) {
		o.tickRate = hz
	}
}

// WithArenaBlockSize sets the minimum block size of both arenas.
func WithArenaBlockSize(size int) Option {
	return func(o *options) {
		o.blockSize = size
	}
}

// WithBodyCapacity sets the number of body slots reserved up front.
func WithBodyCapacity(n int) Option {
	return func(o *options) {
		o.bodyCapacity = n
	}
}

// WithContactListener receives every contact reported during a tick.
// It runs on the updating goroutine before the tick's temp memory is reset.
func WithContactListener(fn func(Contact)) Option {
	return func(o *options) {
		o.contactListener = fn
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
