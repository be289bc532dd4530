package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/setupsched/pkg/io"
	"github.com/matzehuels/setupsched/pkg/pipeline"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve INSTANCE",
		Short: "Find a schedule minimizing total completion time",
		Long: `Solve an instance with branch-and-bound (default), local search, or both.

The exact search stops at the time budget and returns the best schedule found;
use --exhaustive to run until optimality is proven.`,
		Example: `  setupsched solve jobs.txt
  setupsched solve jobs.txt --mode hybrid --timeout 30s -o jobs.sol
  setupsched solve jobs.txt --bound assignment --workers 8 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], &f, "")
		},
	}
	f.addCommon(cmd)
	f.addExact(cmd)
	f.addRefine(cmd)
	return cmd
}

// refineCommand creates the refine command, a heuristic-only solve.
func (c *CLI) refineCommand() *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "refine INSTANCE",
		Short: "Improve a schedule with GRASP and variable neighborhood search",
		Example: `  setupsched refine jobs.txt --timeout 10s
  setupsched refine jobs.txt --init portfolio --policy first --starts 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], &f, pipeline.ModeHeuristic)
		},
	}
	f.addCommon(cmd)
	f.addRefine(cmd)
	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, path string, f *solveFlags, mode pipeline.Mode) error {
	ctx := cmd.Context()

	inst, err := pkgio.ImportInstance(path)
	if err != nil {
		return err
	}
	opts, err := f.options(cmd, mode)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger

	reporter := newSearchReporter(c.Logger, opts.TimeoutFor(inst.N()))
	opts.Progress = reporter.onProgress

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	c.Logger.Infof("Solving %s: %d jobs, setup severity %.2f", path, inst.N(), inst.Metrics.Severity)
	prog := newProgress(c.Logger)
	res, err := runner.Solve(ctx, inst, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Schedule cost %d", res.Solution.Cost))
	reporter.finish(res)

	if f.output != "" {
		if err := pkgio.ExportSolution(res.Solution, f.output); err != nil {
			return err
		}
		printSolveSummary(res)
		printFile(f.output)
		return nil
	}
	if f.json {
		return writeResultJSON(cmd.OutOrStdout(), res)
	}
	return pkgio.WriteSolution(res.Solution, cmd.OutOrStdout())
}

// resultJSON is the --json output of solve and refine.
type resultJSON struct {
	RunID     string         `json:"run_id"`
	Mode      string         `json:"mode"`
	Cost      int64          `json:"cost"`
	Makespan  int64          `json:"makespan"`
	Sequence  []int          `json:"sequence"`
	Optimal   bool           `json:"optimal"`
	CacheHit  bool           `json:"cache_hit"`
	ElapsedMS int64          `json:"elapsed_ms"`
	Stats     pipeline.Stats `json:"stats"`
}

func writeResultJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resultJSON{
		RunID:     res.RunID,
		Mode:      string(res.Mode),
		Cost:      res.Solution.Cost,
		Makespan:  res.Solution.Makespan,
		Sequence:  res.Solution.Sequence,
		Optimal:   res.Optimal,
		CacheHit:  res.CacheHit,
		ElapsedMS: res.Solution.Elapsed.Milliseconds(),
		Stats:     res.Stats,
	})
}
