package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor is a deferred-construction configuration system",
	Long: `Arbor describes object construction as a mutable graph of deferred calls.
The CLI inspects, diffs and renders serialized graphs, and serves stored
graphs over HTTP or MCP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log verbosity: debug, info, warn or error")
}

// newLogger builds the application logger from the persistent flags.
func newLogger(cmd *cobra.Command) *slog.Logger {
	name, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(name)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return logging.New(level)
}
