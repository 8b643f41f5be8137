package main

import (
	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/hciradio"
)

var lerandaddrCmd = &cobra.Command{
	Use:   "lerandaddr [BDA]",
	Short: "Display or set the BLE random address",
	Long: `With no argument, prints the session's current random address.
With a BDA argument (XX:XX:XX:XX:XX:XX), sets the controller's LE
random address and adopts it as the session's address.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			bda, err := parseBDA(args[0])
			if err != nil {
				return &bonderr.ConfigError{Field: "BDA", Err: err}
			}
			if app.hciDevice == "" {
				return &bonderr.DeviceError{Op: "set random address", Err: errNoDeviceSelected}
			}
			if err := hciradio.SetRandomAddress(app.hciDevice, bda); err != nil {
				return err
			}
			app.randomBDA = bda
		}

		printf(cmd, "Random BA: %s\n", formatBDA(app.randomBDA))
		return nil
	},
}
