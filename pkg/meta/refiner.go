package meta

import (
	"context"
	stderrors "errors"
	"io"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/heuristic"
	"github.com/matzehuels/setupsched/pkg/observability"
	"github.com/matzehuels/setupsched/pkg/sched"
)

const (
	DefaultAlpha = 0.3
	DefaultSeed  = 42

	// DefaultRounds bounds a refinement that has neither a timeout nor a
	// context deadline.
	DefaultRounds = 200
)

// Construction choices accepted by Refiner.Init besides the heuristic rules.
const (
	InitGRASP     heuristic.Rule = "grasp"
	InitPortfolio heuristic.Rule = "portfolio"
)

// ParseInit converts a construction name into a Refiner.Init value. The
// empty string means InitGRASP.
func ParseInit(s string) (heuristic.Rule, error) {
	switch r := heuristic.Rule(strings.ToLower(strings.TrimSpace(s))); r {
	case "", InitGRASP:
		return InitGRASP, nil
	case InitPortfolio:
		return r, nil
	}
	return heuristic.ParseRule(s)
}

// Refiner improves schedules with GRASP construction followed by variable
// neighborhood search.
type Refiner struct {
	Alpha   float64        // GRASP greediness in (0, 1]; 0 means DefaultAlpha
	Policy  Policy         // move acceptance; empty means BestImprovement
	Kinds   []Kind         // neighborhoods in order; nil means Kinds
	Init    heuristic.Rule // InitGRASP, InitPortfolio or a heuristic rule; empty means GRASP
	Timeout time.Duration  // 0 means no limit
	Rounds  int            // VNS rounds per start; 0 means unlimited under a deadline
	Starts  int            // independent starts run concurrently; 0 means 1
	Seed    int64          // 0 means DefaultSeed

	Logger *log.Logger
	Best   *sched.Best // optional cell shared with other solvers

	// OnRound is called after every VNS round. It is called concurrently
	// when Starts > 1.
	OnRound func(start, round int, cost int64)
}

// Stats describes a finished refinement.
type Stats struct {
	InitialCost  int64         `json:"initial_cost"`
	Rounds       int64         `json:"rounds"`
	Improvements int64         `json:"improvements"`
	Starts       int           `json:"starts"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Refine returns the best schedule found before the deadline, the round
// limit, or cancellation of ctx. Only cancellation is reported as an error.
func (r *Refiner) Refine(ctx context.Context, inst *sched.Instance) (sched.Solution, Stats, error) {
	start := time.Now()
	if inst.N() == 0 {
		return sched.Solution{}, Stats{}, errors.New(errors.ErrCodeNoFeasible, "no feasible initial solution: instance has no jobs")
	}
	if err := r.validate(); err != nil {
		return sched.Solution{}, Stats{}, err
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	rounds := r.Rounds
	if _, hasDeadline := runCtx.Deadline(); rounds == 0 && !hasDeadline {
		rounds = DefaultRounds
	}

	starts := max(r.Starts, 1)
	seeds := make([]*rand.Rand, starts)
	base := rngFromSeed(r.seed())
	for i := range seeds {
		seeds[i] = rand.New(rand.NewSource(deriveSeed(base.Int63(), uint64(i))))
	}

	// every start begins from its own construction; the first one also
	// seeds the shared cell when none was provided
	initial := make([]*sched.Schedule, starts)
	for i := range initial {
		initial[i] = r.construct(inst, seeds[i])
	}
	best := r.Best
	if best == nil {
		best = sched.NewBest(initial[0].Solution())
	}
	stats := Stats{InitialCost: initial[0].Score, Starts: starts}

	var (
		roundCount  atomic.Int64
		improvement atomic.Int64
		g           errgroup.Group
	)
	logger := r.logger()
	hooks := observability.Search()
	hooks.OnSearchStart(runCtx, inst.N(), "vns")

	for i := range starts {
		g.Go(func() error {
			incumbent := initial[i]
			if best.Offer(incumbent.Solution()) {
				improvement.Add(1)
			}
			work := incumbent.Clone()
			for round := 0; rounds == 0 || round < rounds; round++ {
				if runCtx.Err() != nil {
					break
				}
				VND(runCtx, incumbent, r.kinds(), r.policy())
				vnsRound(runCtx, incumbent, work, r.kinds(), r.policy(), seeds[i])
				roundCount.Add(1)

				if best.Offer(incumbent.Solution()) {
					improvement.Add(1)
					hooks.OnImprovement(runCtx, incumbent.Score)
					logger.Debug("improved", "start", i, "round", round, "cost", incumbent.Score)
				}
				if r.OnRound != nil {
					r.OnRound(i, round, incumbent.Score)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	sol := best.Solution()
	sol.Elapsed = time.Since(start)
	stats.Rounds = roundCount.Load()
	stats.Improvements = improvement.Load()
	stats.Elapsed = sol.Elapsed
	hooks.OnSearchComplete(runCtx, sol.Cost, stats.Rounds, 0, runCtx.Err() != nil)
	logger.Debug("refinement finished", "cost", sol.Cost, "initial", stats.InitialCost, "rounds", stats.Rounds)

	if err := ctx.Err(); err != nil && !stderrors.Is(err, context.DeadlineExceeded) {
		return sol, stats, err
	}
	return sol, stats, nil
}

func (r *Refiner) construct(inst *sched.Instance, rng *rand.Rand) *sched.Schedule {
	switch r.Init {
	case "", InitGRASP:
	case InitPortfolio:
		if sol, _, err := heuristic.Portfolio(inst); err == nil {
			return sched.NewSchedule(inst, sol.Sequence)
		}
	default:
		if sol, err := heuristic.Build(inst, r.Init); err == nil {
			return sched.NewSchedule(inst, sol.Sequence)
		}
	}
	return Construct(inst, r.alpha(), rng)
}

func (r *Refiner) validate() error {
	if r.Alpha != 0 {
		if err := errors.ValidateAlpha(r.Alpha); err != nil {
			return err
		}
	}
	if err := errors.ValidateTimeout(r.Timeout); err != nil {
		return err
	}
	if r.Policy != "" && r.Policy != BestImprovement && r.Policy != FirstImprovement {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown improvement policy %q", r.Policy)
	}
	if r.Init != "" {
		if _, err := ParseInit(string(r.Init)); err != nil {
			return err
		}
	}
	for _, k := range r.Kinds {
		if k < Swap || k > BlockMove {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown neighborhood %v", k)
		}
	}
	return nil
}

func (r *Refiner) alpha() float64 {
	if r.Alpha == 0 {
		return DefaultAlpha
	}
	return r.Alpha
}

func (r *Refiner) policy() Policy {
	if r.Policy == "" {
		return BestImprovement
	}
	return r.Policy
}

func (r *Refiner) kinds() []Kind {
	if len(r.Kinds) == 0 {
		return Kinds
	}
	return r.Kinds
}

func (r *Refiner) seed() int64 {
	if r.Seed == 0 {
		return DefaultSeed
	}
	return r.Seed
}

func (r *Refiner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}

func rngFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream id with a SplitMix64 finalizer
// so concurrent starts draw from decorrelated streams.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
