package bnb

import (
	"cmp"
	"context"
	stderrors "errors"
	"io"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/setupsched/pkg/bound"
	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/heuristic"
	"github.com/matzehuels/setupsched/pkg/observability"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// DefaultProgressInterval is how often Progress is called while searching.
const DefaultProgressInterval = 250 * time.Millisecond

// ProgressFunc receives search counters and the current best cost.
// It is called from a single goroutine.
type ProgressFunc func(explored, pruned, best int64)

// Search configures an exact search. The zero value searches to exhaustion
// with one goroutine per available CPU and the severity-selected bound.
type Search struct {
	Strategy bound.Strategy // Auto when empty
	Timeout  time.Duration  // 0 means no limit
	Workers  int            // 0 means runtime.GOMAXPROCS(0)

	Logger           *log.Logger
	Progress         ProgressFunc
	ProgressInterval time.Duration
}

// Stats describes a finished search.
type Stats struct {
	Strategy     bound.Strategy `json:"strategy"`
	InitialRule  heuristic.Rule `json:"initial_rule"`
	InitialCost  int64          `json:"initial_cost"`
	Explored     int64          `json:"explored"`
	Pruned       int64          `json:"pruned"`
	Improvements int64          `json:"improvements"`
	TimedOut     bool           `json:"timed_out"`
	Elapsed      time.Duration  `json:"elapsed"`
}

// Optimal reports whether the search ran to exhaustion.
func (st Stats) Optimal() bool { return !st.TimedOut }

// InitialRule returns the construction rule that seeds a strategy.
func InitialRule(s bound.Strategy) heuristic.Rule {
	if s == bound.Assignment {
		return heuristic.ACTS
	}
	return heuristic.BestInsertion
}

// Solve seeds a best-result cell from a construction heuristic and searches.
func (s *Search) Solve(ctx context.Context, inst *sched.Instance) (sched.Solution, Stats, error) {
	start := time.Now()
	if inst.N() == 0 {
		return sched.Solution{}, Stats{}, errors.New(errors.ErrCodeNoFeasible, "no feasible initial solution: instance has no jobs")
	}

	strategy := bound.Resolve(s.Strategy, inst.Metrics)
	rule := InitialRule(strategy)
	initial, err := heuristic.Build(inst, rule)
	if err != nil {
		return sched.Solution{}, Stats{}, err
	}
	s.logger().Debug("initial solution", "rule", rule, "cost", initial.Cost, "strategy", strategy)

	best := sched.NewBest(initial)
	stats, err := s.SolveShared(ctx, inst, best)
	stats.InitialRule = rule
	stats.InitialCost = initial.Cost

	sol := best.Solution()
	sol.Elapsed = time.Since(start)
	stats.Elapsed = sol.Elapsed
	return sol, stats, err
}

// SolveShared searches inst, reading and improving an existing best-result
// cell. It lets other solvers running concurrently share the same incumbent.
// best must hold a complete solution for inst.
func (s *Search) SolveShared(ctx context.Context, inst *sched.Instance, best *sched.Best) (Stats, error) {
	start := time.Now()
	strategy := bound.Resolve(s.Strategy, inst.Metrics)

	searchCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	e := &engine{
		ctx:      searchCtx,
		inst:     inst,
		strategy: strategy,
		best:     best,
		sem:      semaphore.NewWeighted(int64(max(workers-1, 1))),
		logger:   s.logger(),
		hooks:    observability.Search(),
	}
	e.single = workers == 1

	stop := s.report(e)
	e.hooks.OnSearchStart(searchCtx, inst.N(), string(strategy))
	e.explore(sched.Root(inst))
	stop()

	stats := Stats{
		Strategy:     strategy,
		Explored:     e.explored.Load(),
		Pruned:       e.pruned.Load(),
		Improvements: e.improvements.Load(),
		TimedOut:     e.timedOut.Load(),
		Elapsed:      time.Since(start),
	}
	e.hooks.OnSearchComplete(searchCtx, best.Cost(), stats.Explored, stats.Pruned, stats.TimedOut)
	s.logger().Debug("search finished",
		"strategy", strategy,
		"explored", stats.Explored,
		"pruned", stats.Pruned,
		"improvements", stats.Improvements,
		"timed_out", stats.TimedOut,
		"cost", best.Cost())

	if err := ctx.Err(); err != nil && !stderrors.Is(err, context.DeadlineExceeded) {
		return stats, err
	}
	return stats, nil
}

func (s *Search) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(io.Discard)
}

// report starts the progress goroutine and returns a function that stops it
// after a final report.
func (s *Search) report(e *engine) func() {
	if s.Progress == nil {
		return func() {}
	}
	interval := s.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Progress(e.explored.Load(), e.pruned.Load(), e.best.Cost())
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		<-finished
		s.Progress(e.explored.Load(), e.pruned.Load(), e.best.Cost())
	}
}

type child struct {
	node  *sched.Node
	bound int64
}

type engine struct {
	ctx      context.Context
	inst     *sched.Instance
	strategy bound.Strategy
	best     *sched.Best
	sem      *semaphore.Weighted
	single   bool
	logger   *log.Logger
	hooks    observability.SearchHooks

	explored     atomic.Int64
	pruned       atomic.Int64
	improvements atomic.Int64
	timedOut     atomic.Bool
}

func (e *engine) explore(node *sched.Node) {
	if e.ctx.Err() != nil {
		e.timedOut.Store(true)
		return
	}
	e.explored.Add(1)

	if node.Leaf() {
		sol := sched.Solution{Sequence: node.Placed, Cost: node.Cost, Makespan: node.Time}
		if e.best.Offer(sol) {
			e.improvements.Add(1)
			e.hooks.OnImprovement(e.ctx, node.Cost)
			e.logger.Debug("improved", "cost", node.Cost)
		}
		return
	}

	children := e.expand(node)
	if len(children) == 0 {
		return
	}

	var g errgroup.Group
	for _, c := range children {
		if c.bound >= e.best.Cost() {
			e.pruned.Add(1)
			continue
		}
		if !e.single && e.sem.TryAcquire(1) {
			g.Go(func() error {
				defer e.sem.Release(1)
				e.explore(c.node)
				return nil
			})
			continue
		}
		e.explore(c.node)
	}
	_ = g.Wait()
}

// expand builds every child of node, drops those that cannot beat the best
// cost and returns the rest in ascending bound order.
func (e *engine) expand(node *sched.Node) []child {
	jobs := node.Remaining.Members(make([]int, 0, e.inst.N()-node.Depth()))
	children := make([]child, 0, len(jobs))
	for _, j := range jobs {
		c := node.Append(e.inst, j)
		lb := bound.Lower(e.inst, c, e.strategy)
		if lb >= e.best.Cost() {
			e.pruned.Add(1)
			continue
		}
		children = append(children, child{node: c, bound: lb})
	}
	slices.SortStableFunc(children, func(a, b child) int {
		return cmp.Compare(a.bound, b.bound)
	})
	return children
}
