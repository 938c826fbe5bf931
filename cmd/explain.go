package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ternlint/internal/lints"
)

var funcName string

var explainCmd = &cobra.Command{
	Use:   "explain --func Name [files...]",
	Short: "Explain why each if statement of a function is or is not converted",
	Long: `Runs every rule on each if statement of the named function and prints the outcome.
Example) ternlint explain --func Pick Program.cs`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 || funcName == "" {
			fmt.Println("error: Please provide a function name and file paths")
			os.Exit(1)
		}
		// timeout is a global variable declared in root.go
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine(cmd)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		found := false
		for _, path := range args {
			verdicts, err := engine.Explain(ctx, path, funcName)
			if err != nil {
				logger.Debug("Function not explained", zap.String("path", path), zap.Error(err))
				continue
			}
			found = true
			printVerdicts(os.Stdout, path, verdicts)
		}
		if !found {
			fmt.Printf("Function not found: %s\n", funcName)
			os.Exit(1)
		}
	},
}

func init() {
	explainCmd.Flags().StringVar(&funcName, "func", "", "Function name to explain")
}

func printVerdicts(w io.Writer, path string, verdicts []lints.Verdict) {
	if len(verdicts) == 0 {
		fmt.Fprintf(w, "%s: %s has no if statements\n", path, funcName)
		return
	}
	for _, v := range verdicts {
		fmt.Fprintf(w, "%s:%d: %s: %s\n", path, v.Line, v.Rule, v.Reason)
	}
}
