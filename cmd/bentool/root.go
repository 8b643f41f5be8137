package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/config"
	"github.com/srg/bentool/internal/engine"
)

// appState is this process's single Engine plus the CLI-layer session
// state the reference tracks in its global btdev: the selected HCI
// device name and the operator-chosen RPI/AEM preset for beaconing. It
// is deliberately not package-global state wired through the core (see
// internal/engine's G1 design note) — it is the CLI shell's own
// bookkeeping, analogous to a REPL's local variables, just living for
// the process's lifetime because cobra commands are registered as
// package-level values.
type appState struct {
	eng       *engine.Engine
	hciDevice string
	rpi       [16]byte
	aem       [4]byte
	randomBDA [6]byte
}

var app = &appState{}

var (
	flagConfigPath string
	flagLogLevel   string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "bentool",
	Short: "Bluetooth Exposure Notification beacon reconnaissance tool",
	Long: `bentool scans for, transmits, and correlates Bluetooth Low Energy
"Exposure Notification" (Google/Apple contact-tracing) beacons.

Run with no command to enter an interactive session; run with a command
name and arguments for a single invocation.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initEngine,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd)
	},
}

func initEngine(cmd *cobra.Command, args []string) error {
	if app.eng != nil {
		return nil
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return &bonderr.ConfigError{Field: "--config", Err: err}
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	} else if flagVerbose {
		cfg.LogLevel = "debug"
	}

	app.eng = engine.New(cfg)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path (or $BENTOOL_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "shorthand for --log-level debug")

	rootCmd.AddCommand(devCmd)
	rootCmd.AddCommand(lerandaddrCmd)
	rootCmd.AddCommand(gaRpiCmd)
	rootCmd.AddCommand(gaAemCmd)
	rootCmd.AddCommand(beaconCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(bondingCmd)
	rootCmd.AddCommand(resolveRpaCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(quitCmd)

	rootCmd.InitDefaultHelpCmd()
	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" {
			c.Aliases = append(c.Aliases, "?")
		}
	}
}

// printf is a small seam kept for parity with the reference's direct
// printf calls; every command writes through cmd.OutOrStdout() instead,
// but this helper keeps that one line short at call sites.
func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
