// Randomized soundness and determinism run over independent containers
// Each seed runs twice in parallel; both runs must validate after every step
// and finish with identical snapshots
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/syncmap"

	"github.com/lixenwraith/hitgrid/parameter"
	"github.com/lixenwraith/hitgrid/snapshot"
)

var (
	workers = flag.Int("workers", 0, "Concurrent containers (overrides HITGRID_BENCH_WORKERS)")
	steps   = flag.Int("steps", 0, "Steps per run (overrides HITGRID_BENCH_STEPS)")
	seeds   = flag.Int("seeds", 4, "Distinct seeds, each run twice")
)

type runKey struct {
	seed    uint64
	replica int
}

type runResult struct {
	frame    snapshot.Frame
	size     int
	elapsed  time.Duration
	rejected int
}

func main() {
	flag.Parse()

	cfg, err := parameter.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.BenchWorkers = *workers
	}
	if *steps > 0 {
		cfg.BenchSteps = *steps
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := runAll(ctx, cfg, *seeds)
	if err != nil {
		logger.Error("bench failed", "error", err)
		os.Exit(1)
	}

	diverged := 0
	for i := 0; i < *seeds; i++ {
		seed := uint64(cfg.BenchSeed) + uint64(i)
		a, _ := results.Load(runKey{seed, 0})
		b, _ := results.Load(runKey{seed, 1})
		ra, rb := a.(runResult), b.(runResult)
		if d := snapshot.Diff(ra.frame, rb.frame); len(d) > 0 {
			diverged++
			logger.Error("replicas diverged", "seed", seed, "diffs", d)
			continue
		}
		logger.Info("seed verified",
			"seed", seed,
			"nodes", len(ra.frame.Nodes),
			"members", len(ra.frame.Members),
			"chunks", len(ra.frame.Chunks),
			"snapshot_bytes", ra.size,
			"rejected_ops", ra.rejected,
			"elapsed", ra.elapsed)
	}

	logger.Info("bench done", "seeds", *seeds, "steps", cfg.BenchSteps, "workers", cfg.BenchWorkers, "elapsed", time.Since(start))
	if diverged > 0 {
		os.Exit(1)
	}
}

// runAll executes every seed twice with at most BenchWorkers containers live
func runAll(ctx context.Context, cfg parameter.Config, seeds int) (*syncmap.Map, error) {
	var results syncmap.Map
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.BenchWorkers))

	for i := 0; i < seeds; i++ {
		for replica := 0; replica < 2; replica++ {
			key := runKey{seed: uint64(cfg.BenchSeed) + uint64(i), replica: replica}
			g.Go(func() error {
				res, err := runOne(ctx, cfg, key.seed)
				if err != nil {
					return fmt.Errorf("seed %d replica %d: %w", key.seed, key.replica, err)
				}
				results.Store(key, res)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &results, nil
}

func runOne(ctx context.Context, cfg parameter.Config, seed uint64) (runResult, error) {
	start := time.Now()
	s, err := newScene(cfg, seed)
	if err != nil {
		return runResult{}, err
	}
	defer s.c.Close()

	for i := 0; i < cfg.BenchSteps; i++ {
		if i%64 == 0 && ctx.Err() != nil {
			return runResult{}, ctx.Err()
		}
		s.step()
		if err := s.c.Validate(); err != nil {
			return runResult{}, fmt.Errorf("step %d after %s: %w", i, opNames[s.last], err)
		}
		s.c.Advance()
	}

	frame := snapshot.Capture(s.c)
	b, err := snapshot.Encode(frame)
	if err != nil {
		return runResult{}, err
	}
	slog.Debug("run finished", "seed", seed, "container", s.c.ID, "ops", s.ops)
	return runResult{frame: frame, size: len(b), elapsed: time.Since(start), rejected: s.rejected}, nil
}
