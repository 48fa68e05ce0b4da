package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/standardmorph/standardmorph/pkg/pipeline"
)

// standardizeCommand creates the standardize command, which validates and
// writes a renumbered copy of the input.
func (c *CLI) standardizeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "standardize <file.swc>",
		Short: "Validate and write a renumbered SWC file",
		Long: `Validate an SWC file and write a standardized copy.

The standardized copy has node IDs renumbered breadth-first from the root:
the root becomes 1 and every parent ID precedes its children. Coordinates,
radii, and structure types are preserved exactly. Validation findings are
printed but do not block the rewrite; structurally broken files keep their
anomalies (minus the renumbering) in the output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStandardize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <input>_standardized.swc)")
	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", opts.Delimiter, "column delimiter (default: any whitespace)")
	cmd.Flags().Float64VarP(&opts.SomaChildrenDistanceThreshold, "threshold", "t", opts.SomaChildrenDistanceThreshold, "max soma-to-child distance in microns (default 50)")
	cmd.Flags().StringVar(&opts.Convention, "convention", opts.Convention, "filename convention to check: AIND, AIBS")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runStandardize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.InputPath = input
	opts.Renumber = true
	opts.Formats = []string{pipeline.FormatSWC}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Standardizing %s...", filepath.Base(input)))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Standardization failed")
		return fmt.Errorf("standardize: %w", err)
	}
	spinner.Stop()

	printFindings(res.Report)

	if output == "" {
		output = standardizedPath(input)
	}
	if err := os.WriteFile(output, res.Artifacts[pipeline.FormatSWC], 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Wrote standardized file")
	printFile(output)
	return nil
}

// standardizedPath derives the default output path from the input name.
func standardizedPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_standardized" + ext
}
