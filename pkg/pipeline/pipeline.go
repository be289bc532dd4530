// Package pipeline drives a complete solve for setupsched.
//
// It is the single place where the CLI and the HTTP service turn an
// instance and a set of options into a schedule. A solve runs in one of
// three modes:
//
//  1. Exact: branch-and-bound seeded by a construction heuristic
//  2. Heuristic: GRASP construction refined by variable neighborhood search
//  3. Hybrid: both at once, sharing one incumbent so local search
//     improvements tighten the exact search's pruning
//
// Results are cached by instance content and the options that affect them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Mode: pipeline.ModeExact, Timeout: 10 * time.Second}
//	result, err := runner.Solve(ctx, inst, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Solution.Cost, result.Solution.Sequence)
package pipeline

import (
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/setupsched/pkg/bnb"
	"github.com/matzehuels/setupsched/pkg/bound"
	"github.com/matzehuels/setupsched/pkg/cache"
	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/heuristic"
	"github.com/matzehuels/setupsched/pkg/meta"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMode is the solve mode used when none is given.
	DefaultMode = ModeExact

	// DefaultAlpha is the GRASP greediness.
	DefaultAlpha = meta.DefaultAlpha

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = int64(meta.DefaultSeed)

	// MinTimeout floors the size-derived default budget.
	MinTimeout = time.Second
)

// DefaultWorkers is the default parallelism of the exact search.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultTimeout returns the budget for an instance of n jobs when none is
// configured: n/10 seconds, at least MinTimeout.
func DefaultTimeout(n int) time.Duration {
	return max(time.Duration(n)*time.Second/10, MinTimeout)
}

// Mode selects which solver family runs.
type Mode string

const (
	ModeExact     Mode = "exact"
	ModeHeuristic Mode = "heuristic"
	ModeHybrid    Mode = "hybrid"
)

// Modes lists every solve mode.
var Modes = []Mode{ModeExact, ModeHeuristic, ModeHybrid}

// ParseMode converts a name into a Mode. The empty string means DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return DefaultMode, nil
	case ModeExact, ModeHeuristic, ModeHybrid:
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "invalid mode: %q (must be one of: exact, heuristic, hybrid)", s)
}

// =============================================================================
// Options - Solve Configuration
// =============================================================================

// Options contains all configuration for a solve.
// It decodes from JSON (API requests) and TOML (config files).
type Options struct {
	Mode Mode `json:"mode,omitempty" toml:"mode"`

	// Exact search
	Bound      bound.Strategy `json:"bound,omitempty" toml:"bound"`
	Workers    int            `json:"workers,omitempty" toml:"workers"`
	Exhaustive bool           `json:"exhaustive,omitempty" toml:"exhaustive"` // ignore Timeout and search to completion

	// Refinement
	Alpha         float64        `json:"alpha,omitempty" toml:"alpha"`
	Policy        meta.Policy    `json:"policy,omitempty" toml:"policy"`
	Init          heuristic.Rule `json:"init,omitempty" toml:"init"`
	Neighborhoods []string       `json:"neighborhoods,omitempty" toml:"neighborhoods"`
	Starts        int            `json:"starts,omitempty" toml:"starts"`
	Rounds        int            `json:"rounds,omitempty" toml:"rounds"`
	Seed          int64          `json:"seed,omitempty" toml:"seed"`

	// Timeout is the wall-clock budget. Zero selects DefaultTimeout for
	// the instance size.
	Timeout time.Duration `json:"timeout,omitempty" toml:"timeout"`

	// Refresh skips the cache lookup and overwrites any stored result.
	Refresh bool `json:"refresh,omitempty" toml:"refresh"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-" toml:"-"`
	Progress bnb.ProgressFunc `json:"-" toml:"-"`

	kinds     []meta.Kind
	validated bool
}

// Result contains the outputs of a solve.
type Result struct {
	// RunID identifies this solve in logs and API responses.
	RunID string

	// InstanceHash is the content hash of the instance.
	InstanceHash string

	Mode     Mode
	Solution sched.Solution

	// Optimal is true when an exact search ran to exhaustion.
	Optimal bool

	// CacheHit reports whether the solution came from the cache.
	CacheHit bool

	Stats Stats
}

// Stats contains solve statistics. Only the sections for the solvers that
// ran are filled in.
type Stats struct {
	InitialCost  int64          `json:"initial_cost"`
	InitialRule  heuristic.Rule `json:"initial_rule,omitempty"`
	Bound        bound.Strategy `json:"bound,omitempty"`
	Explored     int64          `json:"explored,omitempty"`
	Pruned       int64          `json:"pruned,omitempty"`
	Rounds       int64          `json:"rounds,omitempty"`
	Improvements int64          `json:"improvements"`
	TimedOut     bool           `json:"timed_out"`
	Elapsed      time.Duration  `json:"elapsed"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with their defaults. Timeout is left alone
// because its default depends on the instance.
func (o *Options) SetDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Bound == "" {
		o.Bound = bound.Auto
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}
	if o.Policy == "" {
		o.Policy = meta.BestImprovement
	}
	if o.Init == "" {
		o.Init = meta.InitGRASP
	}
	if o.Starts == 0 {
		o.Starts = 1
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate reports the first invalid field.
func (o *Options) Validate() error {
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if _, err := bound.ParseStrategy(string(o.Bound)); err != nil {
		return err
	}
	if _, err := meta.ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	if _, err := meta.ParseInit(string(o.Init)); err != nil {
		return err
	}
	if err := errors.ValidateWorkers(o.Workers); err != nil {
		return err
	}
	if err := errors.ValidateAlpha(o.Alpha); err != nil {
		return err
	}
	if err := errors.ValidateTimeout(o.Timeout); err != nil {
		return err
	}
	if o.Starts < 0 || o.Rounds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "starts and rounds cannot be negative")
	}
	o.kinds = o.kinds[:0]
	for _, name := range o.Neighborhoods {
		k, err := meta.ParseKind(name)
		if err != nil {
			return err
		}
		o.kinds = append(o.kinds, k)
	}
	return nil
}

// TimeoutFor returns the effective budget for an instance of n jobs.
// Zero means unlimited.
func (o *Options) TimeoutFor(n int) time.Duration {
	switch {
	case o.Exhaustive:
		return 0
	case o.Timeout > 0:
		return o.Timeout
	}
	return DefaultTimeout(n)
}

// SolveKeyOpts returns the cache key options for a solve of n jobs.
func (o *Options) SolveKeyOpts(n int) cache.SolveKeyOpts {
	k := cache.SolveKeyOpts{
		Mode:    string(o.Mode),
		Timeout: o.TimeoutFor(n).Milliseconds(),
	}
	if o.Mode != ModeHeuristic {
		k.Bound = string(o.Bound)
	}
	if o.Mode != ModeExact {
		k.Alpha = o.Alpha
		k.Policy = string(o.Policy)
		k.Seed = o.Seed
		k.Init = string(o.Init)
		k.Starts = o.Starts
		k.Rounds = o.Rounds
		names := make([]string, len(o.Neighborhoods))
		for i, name := range o.Neighborhoods {
			if kind, err := meta.ParseKind(name); err == nil {
				name = kind.String()
			}
			names[i] = name
		}
		k.Neighborhoods = strings.Join(names, ",")
	}
	return k
}
