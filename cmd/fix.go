package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ternlint/internal/fixer"
	"github.com/gnolang/ternlint/lint"
)

// a nested convertible if is only offered once its enclosing rewrite has
// been applied, so fixing repeats until nothing changes
const maxFixPasses = 5

var (
	dryRun              bool
	confidenceThreshold float64
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Automatically fix issues",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// initialize the lint engine
		engine, err := newEngine(cmd)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		if err := runAutoFix(ctx, logger, engine, args, dryRun, confidenceThreshold); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
	fixCmd.Flags().Float64Var(&confidenceThreshold, "confidence", 0.75, "Confidence threshold for auto-fixing (0.0 to 1.0)")
}

func runAutoFix(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, dryRun bool, confidenceThreshold float64) error {
	fix := fixer.New(dryRun, confidenceThreshold)

	passes := maxFixPasses
	if dryRun {
		passes = 1
	}

	var lastErr error
	for pass := 0; pass < passes; pass++ {
		issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
		if err != nil {
			logger.Error("error processing paths", zap.Error(err))
			lastErr = err
			if ctx.Err() != nil {
				return err
			}
		}

		fixed, err := fix.FixAll(issues)
		if err != nil {
			logger.Error("error fixing issues", zap.Error(err))
			return err
		}
		logger.Debug("fix pass done", zap.Int("pass", pass+1), zap.Int("fixed", fixed))
		if fixed == 0 {
			break
		}
	}
	return lastErr
}
