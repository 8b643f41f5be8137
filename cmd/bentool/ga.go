package main

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
)

var gaRpiCmd = &cobra.Command{
	Use:   "ga_rpi [32hex]",
	Short: "Display or set the advertised Rolling Proximity Identifier",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			b, err := parseFixedHex("RPI", args[0], len(app.rpi))
			if err != nil {
				return &bonderr.ConfigError{Field: "RPI", Err: err}
			}
			copy(app.rpi[:], b)
		}
		printf(cmd, "RPI: %s\n", hex.EncodeToString(app.rpi[:]))
		return nil
	},
}

var gaAemCmd = &cobra.Command{
	Use:   "ga_aem [8hex]",
	Short: "Display or set the advertised Associated Encrypted Metadata",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			b, err := parseFixedHex("AEM", args[0], len(app.aem))
			if err != nil {
				return &bonderr.ConfigError{Field: "AEM", Err: err}
			}
			copy(app.aem[:], b)
		}
		printf(cmd, "AEM: %s\n", hex.EncodeToString(app.aem[:]))
		return nil
	},
}
