// Package cmd implements the CLI host (C12): a thin cobra command surface
// wiring the command runner (C0) into the crash-to-fix pipeline (C10).
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tsugix/tsugix/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// StartTime records when command execution began, for duration reporting.
var StartTime time.Time

// cfg holds the resolved configuration (C11), loaded once in
// PersistentPreRunE and shared by every subcommand.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "tsugix",
	Short: "Run a command and auto-heal the crash it produces",
	Long: `tsugix runs a child command, and if it crashes, parses the stack
trace, asks an LLM for a fix, and applies it after confirmation.

Requirements:
  - OPENAI_API_KEY or ANTHROPIC_API_KEY in the environment`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		StartTime = time.Now()
		cfg = config.Load()
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(configCmd)
}
