package main

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/bonding"
	"github.com/srg/bentool/internal/rpa"
)

var (
	flagBondingBDA string
	flagBondingIRK string
)

var bondingCmd = &cobra.Command{
	Use:   "bonding NAME [--bda BDA] [--irk 32hex]",
	Short: "Record or update a known identity's public address and/or IRK",
	Long: `Upserts an entry in the Bonding Registry, keyed by name with
prefix matching (see internal/bonding). At least one of --bda or --irk
must be given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagBondingBDA == "" && flagBondingIRK == "" {
			return &bonderr.ConfigError{Field: "--bda/--irk", Err: errNoBondingFields}
		}

		b := bonding.Bonding{Name: args[0]}

		if flagBondingBDA != "" {
			bda, err := parseBDA(flagBondingBDA)
			if err != nil {
				return &bonderr.ConfigError{Field: "--bda", Err: err}
			}
			b.BDAPublic = bda
		}

		if flagBondingIRK != "" {
			raw, err := parseFixedHex("--irk", flagBondingIRK, len(rpa.IRK{}))
			if err != nil {
				return &bonderr.ConfigError{Field: "--irk", Err: err}
			}
			copy(b.IRK[:], raw)
		}

		app.eng.Bonding().Upsert(b)

		printf(cmd, "bonding %q: bda=%s irk=%s\n", b.Name, formatBDA(b.BDAPublic), hex.EncodeToString(b.IRK[:]))
		return nil
	},
}

func init() {
	bondingCmd.Flags().StringVar(&flagBondingBDA, "bda", "", "public device address (XX:XX:XX:XX:XX:XX)")
	bondingCmd.Flags().StringVar(&flagBondingIRK, "irk", "", "identity resolving key (32 hex chars)")
}
