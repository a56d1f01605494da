package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"assaystat/internal/errors"
)

func main() {
	// A missing .env is fine; the environment alone configures the tool
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "assaystat",
		Short: "Two-way ANOVA and two-group comparisons for assay tables",
		Long: `assaystat reads delimited text or xlsx tables and writes result tables,
charts, an optional report and a JSON run manifest next to each input.

Configuration comes from ASSAYSTAT_* environment variables (a .env file is
loaded first); flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(rootCmd)

	rootCmd.AddCommand(
		newAnovaCmd(&flags),
		newComparisonCmd(&flags, comparisonDescribe),
		newComparisonCmd(&flags, comparisonTTest),
		newComparisonCmd(&flags, comparisonPlot),
		newComparisonCmd(&flags, comparisonClean),
	)
	return rootCmd
}
