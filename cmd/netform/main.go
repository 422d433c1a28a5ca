package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netform",
		Short: "Monte-Carlo simulator of voluntary resource-pooling networks",
		Long: `netform simulates heterogeneous agents who negotiate to pool resources
under configurable rule-sets, quantifying how entry conditions shape the
networks that emerge and the value their members capture.

Each run crosses the configured negotiation variants with the agent
motivations, repeats every condition for a number of randomized trials, and
stores one flat record per trial for later export.`,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().String("db", "netform.db", "Path to the results database")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newValidateCmd(),
		newListCmd(),
		newExportCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "netform version %s\n", version)
		},
	}
}
