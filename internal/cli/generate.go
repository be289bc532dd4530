package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/setupsched/pkg/generate"
	pkgio "github.com/matzehuels/setupsched/pkg/io"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts   generate.Options
		output string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random instance",
		Example: `  setupsched generate -n 20 --seed 7 -o jobs.txt
  setupsched generate -n 50 --max-setup 80 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := generate.New(opts)
			if err != nil {
				return err
			}
			c.Logger.Debug("generated instance", "jobs", inst.N(), "severity", inst.Metrics.Severity)

			switch {
			case output != "":
				if err := pkgio.ExportInstance(inst, output); err != nil {
					return err
				}
				printSuccess("Generated %d jobs", inst.N())
				printInstanceStats(inst)
				printFile(output)
				return nil
			case asJSON:
				return pkgio.WriteJSON(inst, cmd.OutOrStdout())
			}
			return pkgio.WriteInstance(inst, cmd.OutOrStdout())
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&opts.Jobs, "jobs", "n", 10, "number of jobs")
	fl.Int64Var(&opts.Seed, "seed", 1, "random seed")
	fl.Int64Var(&opts.MaxProcessing, "max-processing", generate.MaxProcessing, "exclusive upper bound on processing times")
	fl.Int64Var(&opts.MaxSetup, "max-setup", generate.MaxSetup, "exclusive upper bound on setup times")
	fl.StringVarP(&output, "output", "o", "", "write the instance to this file instead of stdout")
	fl.BoolVar(&asJSON, "json", false, "write JSON instead of the text format")
	return cmd
}
