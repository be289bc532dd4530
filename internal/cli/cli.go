// Package cli implements the setupsched command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setupsched/pkg/bound"
	"github.com/matzehuels/setupsched/pkg/cache"
	"github.com/matzehuels/setupsched/pkg/meta"
	"github.com/matzehuels/setupsched/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "setupsched"

	// envRedisAddr selects the Redis cache backend when set.
	envRedisAddr = "SETUPSCHED_REDIS_ADDR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache picks the cache backend: none, Redis when envRedisAddr is set,
// otherwise files under cacheDir. An unreachable Redis falls back to files.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", addr)
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/setupsched/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// solveFlags holds the flags shared by solve and refine.
type solveFlags struct {
	config     string
	mode       string
	bound      string
	timeout    time.Duration
	workers    int
	exhaustive bool

	alpha  float64
	policy string
	init   string
	seed   int64
	starts int
	rounds int

	output  string
	json    bool
	noCache bool
	refresh bool
}

func (f *solveFlags) addCommon(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "TOML file with solve options (flags override it)")
	fl.DurationVar(&f.timeout, "timeout", 0, "time budget (default: jobs/10 seconds, at least 1s)")
	fl.StringVarP(&f.output, "output", "o", "", "write the solution to this file instead of stdout")
	fl.BoolVar(&f.json, "json", false, "print the result as JSON")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached results and store a fresh one")
}

func (f *solveFlags) addExact(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.mode, "mode", string(pipeline.DefaultMode), "solver: exact, heuristic or hybrid")
	fl.StringVar(&f.bound, "bound", string(bound.Auto), "lower bound: auto, unconstrained, assignment or hybrid")
	fl.IntVar(&f.workers, "workers", 0, "search goroutines (default: GOMAXPROCS)")
	fl.BoolVar(&f.exhaustive, "exhaustive", false, "search until optimality is proven, ignoring --timeout")
}

func (f *solveFlags) addRefine(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.alpha, "alpha", pipeline.DefaultAlpha, "GRASP greediness in (0, 1]")
	fl.StringVar(&f.policy, "policy", string(meta.BestImprovement), "local search policy: best or first")
	fl.StringVar(&f.init, "init", string(meta.InitGRASP), "construction: grasp, portfolio, insertion, acts, erd or spt")
	fl.Int64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")
	fl.IntVar(&f.starts, "starts", 1, "independent concurrent starts")
	fl.IntVar(&f.rounds, "rounds", 0, "VNS rounds per start (default: until the time budget)")
}

// options builds pipeline options from the config file and the flags the
// user actually set. mode, when non-empty, is forced.
func (f *solveFlags) options(cmd *cobra.Command, mode pipeline.Mode) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		loaded, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("mode") {
		m, err := pipeline.ParseMode(f.mode)
		if err != nil {
			return opts, err
		}
		opts.Mode = m
	}
	if mode != "" {
		opts.Mode = mode
	}
	if fl.Changed("bound") {
		s, err := bound.ParseStrategy(f.bound)
		if err != nil {
			return opts, err
		}
		opts.Bound = s
	}
	if fl.Changed("policy") {
		p, err := meta.ParsePolicy(f.policy)
		if err != nil {
			return opts, err
		}
		opts.Policy = p
	}
	if fl.Changed("init") {
		r, err := meta.ParseInit(f.init)
		if err != nil {
			return opts, err
		}
		opts.Init = r
	}
	if fl.Changed("timeout") {
		opts.Timeout = f.timeout
	}
	if fl.Changed("workers") {
		opts.Workers = f.workers
	}
	if fl.Changed("alpha") {
		opts.Alpha = f.alpha
	}
	if fl.Changed("seed") {
		opts.Seed = f.seed
	}
	if fl.Changed("starts") {
		opts.Starts = f.starts
	}
	if fl.Changed("rounds") {
		opts.Rounds = f.rounds
	}
	opts.Exhaustive = opts.Exhaustive || f.exhaustive
	opts.Refresh = opts.Refresh || f.refresh
	return opts, opts.ValidateAndSetDefaults()
}
