// Package packet implements the wire codec for captured BLE advertising
// reports: classification into Exposure-Notification (G+A) records versus
// opaque advertisements, and the CSV line format used by persistence.
package packet

import (
	"encoding/binary"
	"fmt"
	"time"
)

// AddrType is the Bluetooth device address type carried alongside a BDA.
type AddrType uint8

const (
	AddrPublic AddrType = iota
	AddrRandom
)

func (t AddrType) String() string {
	if t == AddrRandom {
		return "random"
	}
	return "public"
}

// Kind discriminates a Packet's payload.
type Kind uint8

const (
	KindOtherAdv Kind = iota
	KindEnGa
)

// ServiceUUID is the Google/Apple Exposure Notification service UUID.
const ServiceUUID = 0xFD6F

// enGaPrefix is the Complete List of 16-bit Service UUIDs AD structure that
// identifies an Exposure Notification advertisement: length=0x03, type=0x03
// (Complete 16-bit UUIDs), uuid=0xFD6F little-endian.
var enGaPrefix = [4]byte{0x03, 0x03, 0x6F, 0xFD}

// enGaHexPrefix is the lowercase hex of the EnGa struct's own first two
// bytes (length=0x17, ad_type=0x16) followed by the UUID bytes, used to
// re-classify a CSV hex blob on load.
const enGaHexPrefix = "17166ffd"

// EnGaSize is the on-wire size of an EnGa record: length(1) + ad_type(1) +
// uuid(2) + rpi(16) + aem(4).
const EnGaSize = 24

// EnGa is the Apple/Google Exposure Notification service data, packed with
// no padding, little-endian UUID.
type EnGa struct {
	Length      uint8 // 0x17
	AdType      uint8 // 0x16
	ServiceUUID uint16
	RPI         [16]byte
	AEM         [4]byte
}

// Bytes serialises the EnGa record to its 24-byte wire representation.
func (e EnGa) Bytes() []byte {
	b := make([]byte, EnGaSize)
	b[0] = e.Length
	b[1] = e.AdType
	binary.LittleEndian.PutUint16(b[2:4], e.ServiceUUID)
	copy(b[4:20], e.RPI[:])
	copy(b[20:24], e.AEM[:])
	return b
}

// decodeEnGa parses a 24-byte wire blob into an EnGa record. The caller has
// already established the blob carries the EN_GA prefix.
func decodeEnGa(b []byte) (EnGa, error) {
	if len(b) != EnGaSize {
		return EnGa{}, fmt.Errorf("packet: EnGa record must be %d bytes, got %d", EnGaSize, len(b))
	}
	var e EnGa
	e.Length = b[0]
	e.AdType = b[1]
	e.ServiceUUID = binary.LittleEndian.Uint16(b[2:4])
	copy(e.RPI[:], b[4:20])
	copy(e.AEM[:], b[20:24])
	return e, nil
}

// OtherAdv is a non-EN advertisement, retained verbatim: the synthesised
// advertising-info header (matching the wire layout the reference tool
// persists) followed by the AD payload bytes. Neither half is interpreted
// by the core — it is opaque, the same way an EnGa's RPI/AEM are opaque.
type OtherAdv struct {
	Raw []byte
}

// otherAdvHeaderSize mirrors the reference le_advertising_info header:
// evt_type(1) + bdaddr_type(1) + bdaddr(6) + length(1).
const otherAdvHeaderSize = 9

func newOtherAdv(bda [6]byte, bdaType AddrType, payload []byte) OtherAdv {
	raw := make([]byte, otherAdvHeaderSize+len(payload))
	raw[0] = 0x00 // event type is not part of the collaborator's narrow contract
	raw[1] = byte(bdaType)
	copy(raw[2:8], bda[:])
	raw[8] = byte(len(payload))
	copy(raw[9:], payload)
	return OtherAdv{Raw: raw}
}

// Packet is one captured advertisement. older/newer are resolved by the
// owning Stream against its packet arena (see package stream) rather than
// held as raw pointers.
type Packet struct {
	RecvTime time.Time
	BDA      [6]byte
	BDAType  AddrType
	RSSI     int8
	Kind     Kind
	EnGa     EnGa     // valid iff Kind == KindEnGa
	Other    OtherAdv // valid iff Kind == KindOtherAdv
}

// RawReport is the HCI collaborator's "in" contract: one captured
// advertising report, already demultiplexed down to a single device's
// entry within the originating HCI event.
type RawReport struct {
	BDA      [6]byte
	BDAType  AddrType
	RSSI     int8
	RecvTime time.Time
	Payload  []byte
}

// Decode classifies a raw advertising report and builds a Packet. It never
// fails: any payload that is not recognisably EN_GA is retained verbatim as
// OtherAdv.
func Decode(r RawReport) Packet {
	p := Packet{
		RecvTime: r.RecvTime,
		BDA:      r.BDA,
		BDAType:  r.BDAType,
		RSSI:     r.RSSI,
	}

	if len(r.Payload) >= 4 && [4]byte(r.Payload[:4]) == enGaPrefix {
		// memcpy'd from offset 4 in the reference; uuid is byteswapped
		// from little-endian by decodeEnGa via binary.LittleEndian.
		if len(r.Payload) >= 4+EnGaSize {
			if ga, err := decodeEnGa(r.Payload[4 : 4+EnGaSize]); err == nil {
				p.Kind = KindEnGa
				p.EnGa = ga
				return p
			}
		}
	}

	p.Kind = KindOtherAdv
	p.Other = newOtherAdv(r.BDA, r.BDAType, r.Payload)
	return p
}
