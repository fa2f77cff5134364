package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "drover",
	Short: "Drive an AI coding agent through a prioritized task list",
	Long: `Drover works through a task document one task per agent session,
carrying learnings between sessions in an append-only progress journal.

Get started:
  drover plan -d "what to build"  Plan a task document interactively
  drover run                      Work through the open tasks
  drover runs                     Show run history`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "drover.hcl", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger builds the root logger; verbosity is decided here and threaded
// everywhere as a parameter.
func newLogger() hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "drover",
		Level:  level,
		Output: os.Stderr,
	})
}
