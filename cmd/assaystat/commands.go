package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"assaystat/app"
	"assaystat/domain/dataset"
	"assaystat/domain/stats"
	"assaystat/internal"
	"assaystat/internal/analysis"
	"assaystat/internal/config"
	"assaystat/internal/container"
	"assaystat/internal/errors"
)

// setup loads configuration, applies flag overrides and wires the
// container
func setup(cmd *cobra.Command, flags *globalFlags) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return nil, err
	}
	logger := internal.NewLoggerTo(cmd.ErrOrStderr(), internal.ParseLogLevel(cfg.LogLevel))
	return container.New(cfg, logger)
}

// runFiles runs fn for every input with at most workers in flight. The
// first failure cancels the remaining files. Results are printed in
// input order once all files are done.
func runFiles[T any](ctx context.Context, inputs []string, workers int, fn func(context.Context, string) (T, error), show func(string, T) error) error {
	results := make([]T, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			res, err := fn(gctx, input)
			if err != nil {
				return errors.Wrapf(err, "%s", input)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, input := range inputs {
		if err := show(input, results[i]); err != nil {
			return err
		}
	}
	return nil
}

func newAnovaCmd(flags *globalFlags) *cobra.Command {
	var (
		design    analysis.AnovaDesign
		delimiter string
		sheet     string
		alpha     float64
	)

	cmd := &cobra.Command{
		Use:   "anova <file>...",
		Short: "Two-way ANOVA with Tukey HSD over the combined factor levels",
		Long: `Decompose the variance of a response into two factor effects, their
interaction and the residual, then compare every combined level pair with
Tukey's HSD.

Example: assaystat anova assay.txt --factor1 genotype --factor2 treatment --response value`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			sep, err := parseDelimiter(delimiter)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("alpha") {
				alpha = c.Config.Analysis.Alpha
			}

			return runFiles(cmd.Context(), args, c.Config.Workers,
				func(ctx context.Context, input string) (*app.AnovaResult, error) {
					return c.Anova.Run(ctx, app.AnovaRequest{
						Input:     input,
						Design:    design,
						Delimiter: sep,
						Sheet:     sheet,
						Alpha:     alpha,
						OutputDir: c.Config.Output.Dir,
						Workbook:  c.Config.Output.ExportXLSX,
					})
				},
				func(input string, res *app.AnovaResult) error {
					if flags.quiet {
						return nil
					}
					out := cmd.OutOrStdout()
					if err := c.Printer.PrintTable(out, input+": two-way ANOVA", res.Anova.Records()); err != nil {
						return err
					}
					if err := c.Printer.PrintTable(out, input+": Tukey HSD", res.Tukey.Records()); err != nil {
						return err
					}
					return printOutputs(out, res.Outputs, res.Manifest)
				})
		},
	}

	cmd.Flags().StringVar(&design.Factor1, "factor1", "", "First categorical column")
	cmd.Flags().StringVar(&design.Factor2, "factor2", "", "Second categorical column")
	cmd.Flags().StringVar(&design.Response, "response", "", "Numeric response column")
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field separator (default tab)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet of xlsx input (default first sheet)")
	cmd.Flags().Float64Var(&alpha, "alpha", analysis.DefaultAlpha, "Family-wise error rate of Tukey HSD")
	for _, name := range []string{"factor1", "factor2", "response"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

type comparisonCommand struct {
	use   string
	short string
	steps app.Step
}

var (
	comparisonDescribe = comparisonCommand{"describe", "Per-group statistics, outlier counts and histograms", app.StepDescribe}
	comparisonTTest    = comparisonCommand{"ttest", "Two-sample t-test between two ordered groups", app.StepTTest}
	comparisonPlot     = comparisonCommand{"plot", "Box and/or bar charts with the raw values and histograms", app.StepPlot}
	comparisonClean    = comparisonCommand{"clean", "Write the input without the outliers of every group", app.StepClean}
)

func newComparisonCmd(flags *globalFlags, kind comparisonCommand) *cobra.Command {
	var (
		group      string
		response   string
		order      []string
		sorted     bool
		delimiter  string
		sheet      string
		fence      float64
		variance   string
		plotStyle  string
		noDescribe bool
	)

	cmd := &cobra.Command{
		Use:   kind.use + " <file>...",
		Short: kind.short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			cfg := c.Config

			sep, err := parseDelimiter(delimiter)
			if err != nil {
				return err
			}

			opts := app.DefaultComparisonOptions()
			opts.Order = order
			opts.ExportDescriptive = cfg.Output.ExportDescriptive && !noDescribe
			opts.Fence.Multiplier = cfg.Analysis.FenceMultiplier
			if cmd.Flags().Changed("fence") {
				opts.Fence.Multiplier = fence
			}
			opts.Variance = stats.VarianceAssumption(cfg.Analysis.TTestVariance)
			if cmd.Flags().Changed("variance") {
				opts.Variance = stats.VarianceAssumption(variance)
			}
			if opts.PlotStyle, err = app.ParsePlotStyle(cfg.Plot.Style); err != nil {
				return err
			}
			if cmd.Flags().Changed("style") {
				if opts.PlotStyle, err = app.ParsePlotStyle(plotStyle); err != nil {
					return err
				}
			}
			if sorted {
				opts.Ordering = dataset.Sorted
			}

			return runFiles(cmd.Context(), args, cfg.Workers,
				func(ctx context.Context, input string) (*app.ComparisonResult, error) {
					return c.Comparison.Run(ctx, app.ComparisonRequest{
						Input:          input,
						GroupColumn:    group,
						ResponseColumn: response,
						Delimiter:      sep,
						Sheet:          sheet,
						OutputDir:      cfg.Output.Dir,
						Workbook:       cfg.Output.ExportXLSX,
						Options:        opts,
					}, kind.steps)
				},
				func(input string, res *app.ComparisonResult) error {
					if flags.quiet {
						return nil
					}
					return printComparison(cmd.OutOrStdout(), c, input, res)
				})
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Categorical column defining the groups")
	cmd.Flags().StringVarP(&response, "response", "r", "", "Numeric response column")
	cmd.Flags().StringSliceVar(&order, "order", nil, "Group labels in order, e.g. --order wt,ko")
	cmd.Flags().BoolVar(&sorted, "sorted", false, "Order groups lexicographically instead of first-seen")
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field separator (default: detected)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet of xlsx input (default first sheet)")
	cmd.Flags().Float64Var(&fence, "fence", 2, "Outlier fence multiplier applied to the 1.5*IQR step")
	cmd.Flags().StringVar(&variance, "variance", "pooled", "t-test variance assumption: pooled or welch")
	cmd.Flags().StringVar(&plotStyle, "style", "both", "Charts to draw: box, bar or both")
	cmd.Flags().BoolVar(&noDescribe, "no-descriptive", false, "Skip <base>_descr_stats.csv unless describing")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("response")
	return cmd
}

func printComparison(w io.Writer, c *container.Container, input string, res *app.ComparisonResult) error {
	if err := c.Printer.PrintTable(w, input+": descriptive statistics", stats.SummaryRecords(res.Summaries)); err != nil {
		return err
	}
	if res.TTest != nil {
		title := fmt.Sprintf("%s: t-test %s vs %s (%s)", input, res.TTest.GroupA, res.TTest.GroupB, res.TTest.Variance)
		if err := c.Printer.PrintTable(w, title, res.TTest.Records()); err != nil {
			return err
		}
	}
	if res.Removed > 0 {
		fmt.Fprintf(w, "%s: removed %d outlier rows\n", input, res.Removed)
	}
	return printOutputs(w, res.Outputs, res.Manifest)
}

func printOutputs(w io.Writer, outputs []string, manifest string) error {
	for _, p := range outputs {
		if _, err := fmt.Fprintln(w, "  wrote", p); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "  manifest", manifest)
	return err
}
