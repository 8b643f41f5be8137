package main

import (
	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/rpa"
)

var resolveRpaCmd = &cobra.Command{
	Use:   "resolve_rpa BDA 32hex",
	Short: "Check whether a resolvable private address resolves against an IRK",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bda, err := parseBDA(args[0])
		if err != nil {
			return &bonderr.ConfigError{Field: "BDA", Err: err}
		}

		raw, err := parseFixedHex("IRK", args[1], len(rpa.IRK{}))
		if err != nil {
			return &bonderr.ConfigError{Field: "IRK", Err: err}
		}
		var irk rpa.IRK
		copy(irk[:], raw)

		ok := app.eng.ResolveRPA(irk, bda)
		if ok {
			printf(cmd, "%s resolves against the given IRK\n", formatBDA(bda))
		} else {
			printf(cmd, "%s does not resolve against the given IRK\n", formatBDA(bda))
		}
		return nil
	},
}
