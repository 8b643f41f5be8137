package hciradio

import (
	"context"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/packet"
)

// AdvertiseParams mirrors the reference's le_set_advertising_parameters_cp
// for an EN beacon: non-connectable undirected (advtype=3), own address
// type random. A Beacon stores them but Run does not pass them to the
// backend, which advertises with its own advertising parameters.
type AdvertiseParams struct {
	MinIntervalMs uint16
	MaxIntervalMs uint16
}

// Beacon is H2: configures and toggles transmission of a synthetic EN
// advertisement built by the core.
type Beacon struct {
	dev    *linux.Device
	params AdvertiseParams
}

// OpenBeacon opens the named HCI adapter for advertising.
func OpenBeacon(hciDevice string, params AdvertiseParams) (*Beacon, error) {
	dev, err := linux.NewDeviceWithName(hciDevice)
	if err != nil {
		return nil, &bonderr.DeviceError{Op: "open " + hciDevice, Err: err}
	}
	return &Beacon{dev: dev, params: params}, nil
}

// Close releases the underlying HCI socket.
func (b *Beacon) Close() error {
	return b.dev.Stop()
}

// Run configures advertising data from ga (the RPI+AEM service-data
// payload the reference packs behind the `03 03 6F FD` service-UUID
// prefix) and advertises it through go-ble until ctx is cancelled.
func (b *Beacon) Run(ctx context.Context, ga packet.EnGa) error {
	ble.SetDefaultDevice(b.dev)

	serviceData := ga.Bytes()[4:] // RPI(16) + AEM(4), the prefix is implied by the 16-bit service UUID below

	if err := ble.AdvertiseServiceData16(ctx, packet.ServiceUUID, serviceData); err != nil {
		if err == context.Canceled {
			return nil
		}
		return &bonderr.TransportError{Op: "advertise service data", Err: err}
	}
	return nil
}
