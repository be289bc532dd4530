package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/setupsched/pkg/bnb"
	"github.com/matzehuels/setupsched/pkg/bound"
	"github.com/matzehuels/setupsched/pkg/cache"
	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/heuristic"
	pkgio "github.com/matzehuels/setupsched/pkg/io"
	"github.com/matzehuels/setupsched/pkg/meta"
	"github.com/matzehuels/setupsched/pkg/observability"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// Runner encapsulates solving with caching.
// Both CLI and API use it so caching and defaults behave the same.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedResult is what the cache stores for a solve.
type cachedResult struct {
	Solution sched.Solution `json:"solution"`
	Optimal  bool           `json:"optimal"`
	Stats    Stats          `json:"stats"`
}

// Solve computes a schedule for inst, consulting the cache first.
// A deadline ending the search is not an error; cancellation of ctx is.
func (r *Runner) Solve(ctx context.Context, inst *sched.Instance, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if inst.N() == 0 {
		return nil, errors.New(errors.ErrCodeNoFeasible, "no feasible initial solution: instance has no jobs")
	}

	hash, err := InstanceHash(inst)
	if err != nil {
		return nil, err
	}
	result := &Result{
		RunID:        uuid.NewString(),
		InstanceHash: hash,
		Mode:         opts.Mode,
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	key := r.Keyer.SolveKey(hash, opts.SolveKeyOpts(inst.N()))

	hooks := observability.Solve()
	start := time.Now()
	hooks.OnSolveStart(ctx, string(opts.Mode), inst.N())

	if !opts.Refresh {
		if entry, ok := r.lookup(ctx, inst, key); ok {
			result.Solution = entry.Solution
			result.Optimal = entry.Optimal
			result.Stats = entry.Stats
			result.CacheHit = true
			hooks.OnSolveComplete(ctx, string(opts.Mode), entry.Solution.Cost, time.Since(start), nil)
			logger.Info("cached solution", "cost", entry.Solution.Cost, "optimal", entry.Optimal)
			return result, nil
		}
	}

	timeout := opts.TimeoutFor(inst.N())
	logger.Debug("solving",
		"mode", opts.Mode,
		"jobs", inst.N(),
		"severity", fmt.Sprintf("%.3f", inst.Metrics.Severity),
		"timeout", timeout)

	switch opts.Mode {
	case ModeExact:
		err = r.solveExact(ctx, inst, &opts, timeout, result)
	case ModeHeuristic:
		err = r.solveHeuristic(ctx, inst, &opts, timeout, result)
	case ModeHybrid:
		err = r.solveHybrid(ctx, inst, &opts, timeout, result)
	}
	result.Stats.Elapsed = time.Since(start)
	result.Solution.Elapsed = result.Stats.Elapsed
	hooks.OnSolveComplete(ctx, string(opts.Mode), result.Solution.Cost, result.Stats.Elapsed, err)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, result)
	logger.Info("solved",
		"mode", opts.Mode,
		"cost", result.Solution.Cost,
		"optimal", result.Optimal,
		"elapsed", result.Stats.Elapsed.Round(time.Millisecond))
	return result, nil
}

func (r *Runner) solveExact(ctx context.Context, inst *sched.Instance, opts *Options, timeout time.Duration, result *Result) error {
	sol, st, err := r.search(opts, timeout).Solve(ctx, inst)
	if err != nil {
		return err
	}
	result.Solution = sol
	result.Optimal = st.Optimal()
	result.Stats = Stats{
		InitialCost:  st.InitialCost,
		InitialRule:  st.InitialRule,
		Bound:        st.Strategy,
		Explored:     st.Explored,
		Pruned:       st.Pruned,
		Improvements: st.Improvements,
		TimedOut:     st.TimedOut,
	}
	return nil
}

func (r *Runner) solveHeuristic(ctx context.Context, inst *sched.Instance, opts *Options, timeout time.Duration, result *Result) error {
	sol, st, err := r.refiner(opts, timeout, nil).Refine(ctx, inst)
	if err != nil {
		return err
	}
	result.Solution = sol
	result.Stats = Stats{
		InitialCost:  st.InitialCost,
		InitialRule:  opts.Init,
		Rounds:       st.Rounds,
		Improvements: st.Improvements,
		TimedOut:     timeout > 0 && opts.Rounds == 0,
	}
	return nil
}

// solveHybrid runs the exact search and the refiner against one incumbent.
// The refiner stops as soon as the exact search finishes.
func (r *Runner) solveHybrid(ctx context.Context, inst *sched.Instance, opts *Options, timeout time.Duration, result *Result) error {
	strategy := bound.Resolve(opts.Bound, inst.Metrics)
	rule := bnb.InitialRule(strategy)
	initial, err := heuristic.Build(inst, rule)
	if err != nil {
		return err
	}
	best := sched.NewBest(initial)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		exact  bnb.Stats
		refine meta.Stats
		g      errgroup.Group
	)
	g.Go(func() error {
		defer cancel()
		st, err := r.search(opts, timeout).SolveShared(runCtx, inst, best)
		exact = st
		return err
	})
	g.Go(func() error {
		_, st, err := r.refiner(opts, timeout, best).Refine(runCtx, inst)
		refine = st
		if stderrors.Is(err, context.Canceled) && ctx.Err() == nil {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	result.Solution = best.Solution()
	result.Optimal = exact.Optimal()
	result.Stats = Stats{
		InitialCost:  initial.Cost,
		InitialRule:  rule,
		Bound:        exact.Strategy,
		Explored:     exact.Explored,
		Pruned:       exact.Pruned,
		Rounds:       refine.Rounds,
		Improvements: exact.Improvements + refine.Improvements,
		TimedOut:     exact.TimedOut,
	}
	return nil
}

func (r *Runner) search(opts *Options, timeout time.Duration) *bnb.Search {
	return &bnb.Search{
		Strategy: opts.Bound,
		Timeout:  timeout,
		Workers:  opts.Workers,
		Logger:   opts.Logger,
		Progress: opts.Progress,
	}
}

func (r *Runner) refiner(opts *Options, timeout time.Duration, best *sched.Best) *meta.Refiner {
	return &meta.Refiner{
		Alpha:   opts.Alpha,
		Policy:  opts.Policy,
		Kinds:   opts.kinds,
		Init:    opts.Init,
		Timeout: timeout,
		Rounds:  opts.Rounds,
		Starts:  opts.Starts,
		Seed:    opts.Seed,
		Logger:  opts.Logger,
		Best:    best,
	}
}

// lookup returns a cached result if one exists and still fits inst.
func (r *Runner) lookup(ctx context.Context, inst *sched.Instance, key string) (cachedResult, bool) {
	hooks := observability.Cache()
	entry, hit, err := cache.GetJSON[cachedResult](ctx, r.Cache, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "err", err)
	}
	if !hit {
		hooks.OnCacheMiss(ctx, key)
		return cachedResult{}, false
	}
	if err := entry.Solution.Check(inst); err != nil {
		r.Logger.Debug("discarding stale cache entry", "err", err)
		hooks.OnCacheMiss(ctx, key)
		return cachedResult{}, false
	}
	hooks.OnCacheHit(ctx, key)
	return entry, true
}

func (r *Runner) store(ctx context.Context, key string, result *Result) {
	data, err := json.Marshal(cachedResult{
		Solution: result.Solution,
		Optimal:  result.Optimal,
		Stats:    result.Stats,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Warn("cache store failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// InstanceHash returns the content hash of inst's text encoding.
func InstanceHash(inst *sched.Instance) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteInstance(inst, &buf); err != nil {
		return "", fmt.Errorf("hash instance: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
