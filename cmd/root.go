package cmd

import (
	"fmt"
	"os"

	"country-cache/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "country-cache",
	Short: "Country Cache Service",
	Long: `Country Cache keeps a local table of country facts enriched with
exchange-rate based GDP estimates, refreshed from two external sources.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configPath is the directory holding the optional .env file.
var configPath string

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config keeps CLI errors readable
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing the .env file")
}
