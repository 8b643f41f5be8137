package main

import (
	"github.com/spf13/cobra"
)

// quitCmd matters for single-command-on-argv invocation ("bentool
// quit"); the REPL loop in repl.go special-cases the literal token
// "quit" before cobra dispatch is ever reached.
var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Exit the interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}
