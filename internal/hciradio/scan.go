package hciradio

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/packet"
)

// rawAdvertisement is implemented by the linux backend's concrete
// advertisement type, exposing the fields the reference's
// le_advertising_info carries that the portable ble.Advertisement
// interface does not: the full, unparsed AD structure bytes and the
// address type bit.
type rawAdvertisement interface {
	ble.Advertisement
	Data() []byte
	AddressType() byte
}

// ScanParams mirrors the reference's hci_le_set_scan_parameters call:
// passive scanning, own address type random, 10ms window/interval
// (0x0010 in controller ticks of 0.625ms; here expressed in
// milliseconds). A Scanner keeps them for diagnostics (String) only: Run
// does not pass them to the backend, which scans with its own defaults.
type ScanParams struct {
	IntervalMs uint16
	WindowMs   uint16
}

// Scanner is H1: bridges a Linux HCI adapter to the core's packet
// admission loop via a bounded ReportQueue.
type Scanner struct {
	dev    *linux.Device
	Queue  *ReportQueue
	params ScanParams
}

// OpenScanner opens the named HCI adapter (e.g. "hci0") for passive LE
// scanning.
func OpenScanner(hciDevice string, params ScanParams) (*Scanner, error) {
	dev, err := linux.NewDeviceWithName(hciDevice)
	if err != nil {
		return nil, &bonderr.DeviceError{Op: "open " + hciDevice, Err: err}
	}
	return &Scanner{dev: dev, Queue: NewReportQueue(), params: params}, nil
}

// Close releases the underlying HCI socket.
func (s *Scanner) Close() error {
	return s.dev.Stop()
}

// Run drives LE scanning until ctx is cancelled, pushing every received
// advertisement onto s.Queue as a packet.RawReport. It performs no
// EN-specific parsing: that is the codec's job.
func (s *Scanner) Run(ctx context.Context) error {
	ble.SetDefaultDevice(s.dev)

	handler := func(a ble.Advertisement) {
		raw, ok := a.(rawAdvertisement)
		if !ok {
			return
		}

		var bda [6]byte
		if mac, err := net.ParseMAC(a.Addr().String()); err == nil && len(mac) == 6 {
			copy(bda[:], mac)
		}

		bdaType := packet.AddrPublic
		if raw.AddressType() == 0x01 {
			bdaType = packet.AddrRandom
		}

		r := packet.RawReport{
			BDA:      bda,
			BDAType:  bdaType,
			RSSI:     int8(a.RSSI()),
			RecvTime: time.Now(),
			Payload:  raw.Data(),
		}
		if _, err := s.Queue.Push(r); err != nil {
			return
		}
	}

	err := ble.Scan(ctx, false, handler, nil)
	if err != nil && err != context.Canceled {
		return &bonderr.TransportError{Op: "scan", Err: err}
	}
	return nil
}

// String renders the scan parameters for diagnostic output.
func (p ScanParams) String() string {
	return fmt.Sprintf("interval=%dms window=%dms type=passive own=random", p.IntervalMs, p.WindowMs)
}
