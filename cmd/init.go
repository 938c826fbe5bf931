package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ternlint/lint"
)

var forceInit bool

// initCmd: ternlint init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new linter configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile, forceInit); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Configuration file created: %s\n", cfgFile)
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) error {
	if configurationPath == "" {
		configurationPath = lint.DefaultConfigName
	}

	if !force {
		if _, err := os.Stat(configurationPath); err == nil {
			return fmt.Errorf("%s already exists", configurationPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return lint.WriteConfigurationFile(configurationPath, lint.DefaultConfig())
}
