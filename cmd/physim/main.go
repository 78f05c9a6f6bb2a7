// Command physim loads a scene (or generates a grid of spheres) and runs the
// broadphase at a fixed tick rate, logging throughput and memory use.
//
// Profiling:
//
//	physim -spheres 2000 -frames 600 -profile cpu
//	go tool pprof -http=":8000" cpu.pprof
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/physim"
	"github.com/hupe1980/physim/codec"
	"github.com/hupe1980/physim/collision"
	"github.com/hupe1980/physim/scene"
	"github.com/hupe1980/physim/shape"
)

type config struct {
	scenePath   string
	savePath    string
	codecName   string
	spheres     int
	radius      float64
	spacing     float64
	frames      int
	tickRate    float64
	memoryLimit int64
	useMmap     bool
	logLevel    string
	logFormat   string
	report      time.Duration
	profileMode string
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("physim", flag.ContinueOnError)
	fs.StringVar(&cfg.scenePath, "scene", "", "scene file to load (.json, .json.zst, .json.lz4)")
	fs.StringVar(&cfg.savePath, "save", "", "write the scene that was run to this path")
	fs.StringVar(&cfg.codecName, "codec", "go-json", "scene codec: json or go-json")
	fs.IntVar(&cfg.spheres, "spheres", 64, "number of spheres to generate when no scene is given")
	fs.Float64Var(&cfg.radius, "radius", 0.6, "radius of generated spheres")
	fs.Float64Var(&cfg.spacing, "spacing", 1, "grid spacing of generated spheres")
	fs.IntVar(&cfg.frames, "frames", 600, "frames to run; 0 runs until interrupted")
	fs.Float64Var(&cfg.tickRate, "hz", 60, "frame rate limit; 0 runs frames back to back")
	fs.Int64Var(&cfg.memoryLimit, "mem", 0, "memory limit in bytes; 0 is unlimited")
	fs.BoolVar(&cfg.useMmap, "mmap", false, "back the arenas with anonymous mmap")
	fs.StringVar(&cfg.logLevel, "log", "info", "log level: debug, info, warn, error")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "log format: text or json")
	fs.DurationVar(&cfg.report, "report", time.Second, "stats report interval; 0 disables")
	fs.StringVar(&cfg.profileMode, "profile", "", "profile mode: cpu, mem or allocs")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if _, ok := codec.ByName(cfg.codecName); !ok {
		return cfg, fmt.Errorf("unknown codec %q", cfg.codecName)
	}
	if cfg.spheres < 0 || cfg.frames < 0 {
		return cfg, errors.New("spheres and frames must not be negative")
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

func newLogger(cfg config) (*physim.Logger, error) {
	level, err := parseLevel(cfg.logLevel)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.logFormat) {
	case "text":
		return physim.NewTextLogger(level), nil
	case "json":
		return physim.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.logFormat)
	}
}

func startProfile(mode string) (interface{ Stop() }, error) {
	opts := []func(*profile.Profile){profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet}
	switch mode {
	case "":
		return nil, nil
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	case "allocs":
		opts = append(opts, profile.MemProfileAllocs)
	default:
		return nil, fmt.Errorf("unknown profile mode %q", mode)
	}
	return profile.Start(opts...), nil
}

func loadScene(cfg config) (*scene.Scene, error) {
	c, _ := codec.ByName(cfg.codecName)
	if cfg.scenePath != "" {
		return scene.Load(cfg.scenePath, c)
	}
	return scene.Spheres(cfg.spheres, float32(cfg.radius), float32(cfg.spacing)), nil
}

func run(ctx context.Context, cfg config, logger *physim.Logger) error {
	s, err := loadScene(cfg)
	if err != nil {
		return err
	}
	if cfg.savePath != "" {
		c, _ := codec.ByName(cfg.codecName)
		if err := scene.Save(cfg.savePath, s, c); err != nil {
			return err
		}
	}

	metrics := &physim.BasicMetricsCollector{}
	opts := []physim.Option{
		physim.WithLogger(logger),
		physim.WithMetricsCollector(metrics),
		physim.WithMemoryLimit(cfg.memoryLimit),
		physim.WithTickRate(cfg.tickRate),
		physim.WithBodyCapacity(len(s.Bodies)),
		physim.WithShapeRegistration(collision.Registration{
			Type:     shape.TypeConvex,
			Handlers: []collision.Handler{{Other: shape.TypeConvex, Func: sphereContact}},
		}),
	}
	if cfg.useMmap {
		opts = append(opts, physim.WithAllocator(physim.MmapAllocator{}))
	}

	sim, err := physim.New(opts...)
	if err != nil {
		return err
	}
	defer sim.Close()

	if _, err := scene.Apply(sim, s); err != nil {
		return err
	}
	logger.Info("scene loaded", "bodies", sim.BodyCount(), "arena_bytes", sim.ArenaStats().BytesUsed)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var runnerOpts []physim.RunnerOption
	if cfg.tickRate <= 0 {
		runnerOpts = append(runnerOpts, physim.WithClock(steppingClock(physim.DefaultStep)))
	}
	runner := physim.NewRunner(sim, runnerOpts...)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		err := runner.Run(gctx, cfg.frames)
		if err != nil && ctx.Err() != nil {
			// Interrupted from outside.
			return nil
		}
		return err
	})
	if cfg.report > 0 {
		g.Go(func() error {
			report(gctx, logger, sim, metrics, cfg.report)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	st := metrics.GetStats()
	logger.Info("done",
		"steps", runner.Steps(),
		"elapsed", time.Since(start),
		"avg_update", time.Duration(st.UpdateAvgNanos),
		"pairs", st.PairsTotal,
		"contacts", st.ContactsTotal,
		"memory", sim.MemoryInUse(),
	)
	return nil
}

// steppingClock advances by step on every call, so an unpaced Runner runs
// exactly one tick per frame.
func steppingClock(step time.Duration) func() time.Time {
	t := time.Now()
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

// report logs the metrics counters until ctx is done. Only atomic counters
// are read; everything else on the Sim belongs to the runner goroutine.
func report(ctx context.Context, logger *physim.Logger, sim *physim.Sim, metrics *physim.BasicMetricsCollector, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var prev physim.BasicMetricsStats
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := metrics.GetStats()
			ms := sim.MemoryStats()
			logger.Info("stats",
				"ticks", st.UpdateCount-prev.UpdateCount,
				"avg_update", time.Duration(st.UpdateAvgNanos),
				"contacts", st.ContactsTotal-prev.ContactsTotal,
				"errors", st.UpdateErrors,
				"memory", ms.InUse,
				"budget_peak", ms.Peak,
			)
			prev = st
		}
	}
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	p, err := startProfile(cfg.profileMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if p != nil {
		p.Stop()
	}
	if err != nil {
		logger.Error("physim failed", "error", err)
		os.Exit(1)
	}
}
