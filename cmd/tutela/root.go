package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tutela",
	Short: "Tutela - cognitive interaction classification and risk governance engine",
	Long: `Tutela classifies learner utterances in AI-assisted learning environments
and governs how the assistant may respond.

For each interaction it produces:
  - A multi-label signal classification with a derived cognitive intent
  - A cognitive state transition for the learner's session
  - Risk findings across five dimensions (cognitive, ethical, epistemic,
    technical, governance)
  - A governance verdict with a routing decision (allow, warn, escalate, block)
  - An immutable trace record for the audit trail`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
