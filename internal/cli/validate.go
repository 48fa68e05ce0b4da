package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/standardmorph/standardmorph/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		noCache bool
		refresh bool
		details bool
	)
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "validate <file.swc> [more.swc...]",
		Short: "Run quality-control rules against SWC files",
		Long: `Run quality-control rules against one or more SWC files.

Each file is parsed, its tree model is built, and every registered rule is
evaluated: soma count, soma-child branching and distance, axon and dendrite
origins, orphan nodes, duplicate IDs, and loops. Findings are printed per
file; the command exits non-zero when any file fails a check.

Results are cached locally keyed by file content and settings, so repeated
runs are fast. Use --refresh to force re-evaluation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Refresh = refresh
			opts.IncludeNodeDetails = details
			return c.runValidate(cmd.Context(), args, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", opts.Delimiter, "column delimiter (default: any whitespace)")
	cmd.Flags().Float64VarP(&opts.SomaChildrenDistanceThreshold, "threshold", "t", opts.SomaChildrenDistanceThreshold, "max soma-to-child distance in microns (default 50)")
	cmd.Flags().StringVar(&opts.Convention, "convention", opts.Convention, "filename convention to check: AIND, AIBS")
	cmd.Flags().BoolVar(&details, "details", false, "include node coordinates in findings")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")

	return cmd
}

// runValidate executes the pipeline for each input and prints findings.
func (c *CLI) runValidate(ctx context.Context, paths []string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Validating %d file(s)...", len(paths)))
	spinner.Start()
	results, err := runner.ExecuteBatch(ctx, opts, paths)
	spinner.Stop()

	failed := 0
	for _, res := range results {
		printFindings(res.Report)
		printStats(res.Stats.NodeCount, res.Stats.FindingCount, res.CacheInfo.ReportHit)
		if !res.Report.Passed() {
			failed++
		}
	}
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	prog.done(fmt.Sprintf("Validated %d file(s)", len(results)))
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(results))
	}
	return nil
}
