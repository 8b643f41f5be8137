package hciradio

import (
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/cmd"

	"github.com/srg/bentool/internal/bonderr"
)

// SetRandomAddress is H3: issues LE_Set_Random_Address on the named HCI
// adapter, for the `lerandaddr BDA` command.
func SetRandomAddress(hciDevice string, bda [6]byte) error {
	dev, err := linux.NewDeviceWithName(hciDevice)
	if err != nil {
		return &bonderr.DeviceError{Op: "open " + hciDevice, Err: err}
	}
	defer dev.Stop()

	var addr [6]byte
	// HCI wire order is little-endian (least significant octet first);
	// bda is stored most-significant-first (matching the CSV codec), so
	// reverse it here.
	for i := range bda {
		addr[i] = bda[len(bda)-1-i]
	}

	hc := dev.HCI()
	if err := hc.Send(&cmd.LESetRandomAddress{RandomAddress: addr}, nil); err != nil {
		return &bonderr.TransportError{Op: "set random address", Err: err}
	}
	return nil
}
