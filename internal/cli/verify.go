package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/setupsched/pkg/io"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var optimal bool
	cmd := &cobra.Command{
		Use:   "verify INSTANCE [SOLUTION]",
		Short: "Validate an instance and optionally a solution for it",
		Long: `Validate the structure of an instance file. With a solution file, also check
that it schedules every job exactly once and that its stated cost is correct.

--optimal enumerates every sequence to report the true optimum; it is only
available for small instances.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := pkgio.ImportInstance(args[0])
			if err != nil {
				return err
			}
			printSuccess("Instance is valid")
			printInstanceStats(inst)

			var sol *sched.Solution
			if len(args) == 2 {
				s, err := pkgio.ImportSolution(args[1])
				if err != nil {
					return err
				}
				if err := pkgio.VerifySolution(inst, &s); err != nil {
					printError("Solution is invalid")
					return err
				}
				sol = &s
				printSuccess("Solution is valid")
				printKeyValue("cost", fmt.Sprint(s.Cost))
				printKeyValue("makespan", fmt.Sprint(s.Makespan))
			}

			if optimal {
				return c.checkOptimal(cmd, inst, sol)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&optimal, "optimal", false, fmt.Sprintf("enumerate all sequences (at most %d jobs)", sched.MaxEnumerate))
	return cmd
}

func (c *CLI) checkOptimal(cmd *cobra.Command, inst *sched.Instance, sol *sched.Solution) error {
	if inst.N() > sched.MaxEnumerate {
		printWarning("Too many jobs to enumerate (%d > %d)", inst.N(), sched.MaxEnumerate)
		return nil
	}

	spinner := newSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Enumerating %d! sequences...", inst.N()))
	spinner.Start()
	best, _ := sched.Enumerate(inst)
	if spinner.Interrupted() {
		spinner.Stop()
		return cmd.Context().Err()
	}
	spinner.StopWithSuccess("Enumerated every sequence")

	printKeyValue("optimum", fmt.Sprint(best.Cost))
	printKeyValue("sequence", fmt.Sprint(best.Sequence))
	if sol != nil {
		if gap := sol.Cost - best.Cost; gap > 0 {
			printWarning("Solution is %d above the optimum (%.2f%%)", gap, 100*float64(gap)/float64(best.Cost))
		} else {
			printSuccess("Solution is optimal")
		}
	}
	return nil
}
