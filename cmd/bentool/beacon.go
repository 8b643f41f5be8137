package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/hciradio"
	"github.com/srg/bentool/internal/packet"
)

var beaconCmd = &cobra.Command{
	Use:   "beacon",
	Short: "Transmit a synthetic Exposure Notification beacon",
	Long: `Advertises the session's current RPI/AEM (see ga_rpi, ga_aem) on
the selected HCI device until interrupted with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.hciDevice == "" {
			return &bonderr.DeviceError{Op: "beacon", Err: errNoDeviceSelected}
		}

		b, err := hciradio.OpenBeacon(app.hciDevice, hciradio.AdvertiseParams{
			MinIntervalMs: app.eng.Config.AdvMinIntervalMs,
			MaxIntervalMs: app.eng.Config.AdvMaxIntervalMs,
		})
		if err != nil {
			return err
		}
		defer b.Close()

		ga := packet.EnGa{
			Length:      0x17,
			AdType:      0x16,
			ServiceUUID: packet.ServiceUUID,
		}
		copy(ga.RPI[:], app.rpi[:])
		copy(ga.AEM[:], app.aem[:])

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		printf(cmd, "Beaconing on %s, Ctrl-C to stop\n", app.hciDevice)
		return b.Run(ctx, ga)
	},
}
