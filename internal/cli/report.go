package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/standardmorph/standardmorph/pkg/mip"
	"github.com/standardmorph/standardmorph/pkg/pipeline"
	"github.com/standardmorph/standardmorph/pkg/report"
)

// reportCommand creates the report command for rendering standardization
// reports to files.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		details    bool
		imagePath  string
		mipOutDir  string
		cropSize   int
		mipDepth   int
	)
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "report <file.swc> [more.swc...]",
		Short: "Render standardization reports",
		Long: `Validate SWC files and render standardization reports.

With one input, the report is written per format as <input>.report.<ext>.
With several inputs and the html format, a single combined page is written
with one row per neuron.

When an image store path is given, a soma MIP artifact is generated per
file and embedded in the HTML report.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Refresh = refresh
			opts.IncludeNodeDetails = details
			opts.MIP = mip.Options{
				ImagePath: imagePath,
				OutputDir: mipOutDir,
				CropSize:  cropSize,
				Depth:     mipDepth,
			}
			return c.runReport(cmd.Context(), args, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "report format(s): json (default), html (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", opts.Delimiter, "column delimiter (default: any whitespace)")
	cmd.Flags().Float64VarP(&opts.SomaChildrenDistanceThreshold, "threshold", "t", opts.SomaChildrenDistanceThreshold, "max soma-to-child distance in microns (default 50)")
	cmd.Flags().StringVar(&opts.Convention, "convention", opts.Convention, "filename convention to check: AIND, AIBS")
	cmd.Flags().BoolVar(&details, "details", false, "include node coordinates in findings")
	cmd.Flags().StringVar(&imagePath, "image-path", "", "volumetric image store path for soma MIP generation")
	cmd.Flags().StringVar(&mipOutDir, "mip-dir", "", "directory for generated MIP artifacts")
	cmd.Flags().IntVar(&cropSize, "crop-size", 0, "soma MIP crop size in pixels (default 512)")
	cmd.Flags().IntVar(&mipDepth, "mip-depth", 0, "soma MIP projection depth (default 100)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")

	return cmd
}

func (c *CLI) runReport(ctx context.Context, paths []string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Reporting on %d file(s)...", len(paths)))
	spinner.Start()
	results, err := runner.ExecuteBatch(ctx, opts, paths)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if len(results) > 1 && opts.WantsFormat(pipeline.FormatHTML) {
		if err := c.writeCombinedHTML(results, output); err != nil {
			return err
		}
	}

	for _, res := range results {
		for _, format := range opts.Formats {
			if format == pipeline.FormatHTML && len(results) > 1 {
				continue // covered by the combined page
			}
			path := reportPath(res.Report.InputFile, format, output, len(results) > 1)
			if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printFile(path)
		}
		printStats(res.Stats.NodeCount, res.Stats.FindingCount, res.CacheInfo.ReportHit)
	}

	printSuccess("Reported on %d file(s)", len(results))
	return nil
}

// writeCombinedHTML renders all reports into one page.
func (c *CLI) writeCombinedHTML(results []*pipeline.Result, output string) error {
	reports := make([]report.Report, len(results))
	for i, res := range results {
		reports[i] = res.Report
	}

	path := output
	if path == "" {
		path = "qc_report.html"
	} else if filepath.Ext(path) == "" {
		path += ".html"
	}

	if err := report.WriteHTMLFile(path, report.Merge(reports...)); err != nil {
		return fmt.Errorf("write combined report: %w", err)
	}
	printFile(path)
	return nil
}

// reportPath derives the output file for one report artifact.
func reportPath(input, format, output string, multi bool) string {
	if output != "" && !multi {
		if filepath.Ext(output) == "" {
			return output + "." + format
		}
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".report." + format
}
