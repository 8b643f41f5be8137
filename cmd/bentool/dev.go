package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/hciradio"
)

var devCmd = &cobra.Command{
	Use:   "dev [hciX]",
	Short: "List Bluetooth devices or select the HCI device",
	Long: `With no argument, lists the available Bluetooth controllers.
With hciX, further commands (scan, beacon, lerandaddr) are sent to
that controller.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listHciDevices(cmd)
		}

		if err := checkHciDeviceExists(args[0]); err != nil {
			return &bonderr.DeviceError{Op: "select " + args[0], Err: err}
		}
		app.hciDevice = args[0]
		return nil
	},
}

// listHciDevices prints every local HCI controller the kernel reports,
// mirroring cmd_dev's no-argument branch (hci_for_each_dev over
// xhci_dev_info).
func listHciDevices(cmd *cobra.Command) error {
	devices, err := hciradio.ListDevices()
	if err != nil {
		return &bonderr.DeviceError{Op: "enumerate HCI devices", Err: err}
	}
	for _, d := range devices {
		printf(cmd, "\t%s\n", d)
	}
	return nil
}

// checkHciDeviceExists validates a controller name before it is adopted
// as the session's active device, mirroring cmd_dev's hci_devid lookup.
func checkHciDeviceExists(name string) error {
	ok, err := hciradio.DeviceExists(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no such device %q", name)
	}
	return nil
}
