package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ternlint/internal"
	tt "github.com/gnolang/ternlint/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Lint files again whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, err := newEngine(cmd)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		if err := engine.Watch(ctx, args, reportChange(logger)); err != nil {
			logger.Fatal("Watch failed", zap.Error(err))
		}
	},
}

// reportChange prints the issues of a re-linted file.
func reportChange(logger *zap.Logger) internal.ReportFunc {
	return func(filename string, issues []tt.Issue, err error) {
		if err != nil {
			logger.Error("Error linting file", zap.String("file", filename), zap.Error(err))
			return
		}
		if len(issues) == 0 {
			fmt.Printf("%s: no issues\n", filename)
			return
		}
		if err := printIssues(os.Stdout, logger, issues, false, ""); err != nil {
			logger.Error("Error printing issues", zap.Error(err))
		}
	}
}
