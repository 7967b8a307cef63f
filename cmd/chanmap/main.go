// Command chanmap renders ion channel variant maps and inspects the segment
// tables behind them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/chanmap/internal/config"
	"github.com/ha1tch/chanmap/internal/logging"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// Global flags.
var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chanmap",
		Short: "chanmap - ion channel variant maps",
		Long: `chanmap draws the transmembrane topology of a voltage-gated sodium or
potassium channel and places user-supplied mutations on it.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default $HOME/"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newInfoCommand())
	rootCmd.AddCommand(newVariantsCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newExportTableCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the settings file and applies the log level, with the
// flag taking precedence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if err := logging.SetLevel(level); err != nil {
		return nil, err
	}
	return cfg, nil
}
