package cmd

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ternlint/lint"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "ternlint [paths...]",
	Short:            "ternlint - finds if statements that can become a single conditional expression",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			// display help when only 'ternlint' is entered
			_ = cmd.Help()
			return
		}
		// Format: ternlint [path1 path2 ...] => behaves like the lint subcommand
		lintCmd.Run(lintCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", lint.DefaultConfigName, "Path to the configuration file (.yaml or .toml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for the linter")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(explainCmd)
}

// configPath returns the configuration to load. A missing default file means
// the built-in defaults; an explicitly named file must exist.
func configPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("config") || cfgFile != lint.DefaultConfigName {
		return cfgFile
	}
	if _, err := os.Stat(cfgFile); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return cfgFile
}
