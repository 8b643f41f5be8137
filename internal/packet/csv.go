package packet

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EncodeCSV renders one packet as a CSV line (no trailing newline):
// tv_sec,tv_usec,BDA,rssi,hex_blob.
func EncodeCSV(p Packet) string {
	sec := p.RecvTime.Unix()
	usec := p.RecvTime.Nanosecond() / 1000

	var blob []byte
	switch p.Kind {
	case KindEnGa:
		blob = p.EnGa.Bytes()
	default:
		blob = p.Other.Raw
	}

	return fmt.Sprintf("%d,%d,%s,%d,%s", sec, usec, formatBDA(p.BDA), p.RSSI, hex.EncodeToString(blob))
}

// DecodeCSV parses one CSV line into a Packet, re-classifying by the
// hex_blob's leading 8 hex digits rather than trusting any stored kind.
func DecodeCSV(line string) (Packet, error) {
	cols := strings.Split(line, ",")
	if len(cols) != 5 {
		return Packet{}, fmt.Errorf("packet: CSV line has %d columns, want 5", len(cols))
	}

	sec, err := strconv.ParseInt(cols[0], 10, 64)
	if err != nil {
		return Packet{}, fmt.Errorf("packet: bad tv_sec: %w", err)
	}
	usec, err := strconv.ParseInt(cols[1], 10, 64)
	if err != nil {
		return Packet{}, fmt.Errorf("packet: bad tv_usec: %w", err)
	}
	bda, bdaType, err := parseBDA(cols[2])
	if err != nil {
		return Packet{}, err
	}
	rssi, err := strconv.ParseInt(cols[3], 10, 8)
	if err != nil {
		return Packet{}, fmt.Errorf("packet: bad rssi: %w", err)
	}
	blob, err := hex.DecodeString(strings.TrimSpace(cols[4]))
	if err != nil {
		return Packet{}, fmt.Errorf("packet: bad hex blob: %w", err)
	}

	p := Packet{
		RecvTime: time.Unix(sec, usec*1000),
		BDA:      bda,
		BDAType:  bdaType,
		RSSI:     int8(rssi),
	}

	if len(blob) >= len(enGaHexPrefix)/2 && strings.HasPrefix(hex.EncodeToString(blob), enGaHexPrefix) {
		ga, err := decodeEnGa(blob)
		if err != nil {
			return Packet{}, fmt.Errorf("packet: EN_GA prefix but malformed record: %w", err)
		}
		p.Kind = KindEnGa
		p.EnGa = ga
		return p, nil
	}

	p.Kind = KindOtherAdv
	p.Other = OtherAdv{Raw: blob}
	return p, nil
}

func formatBDA(bda [6]byte) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", bda[0], bda[1], bda[2], bda[3], bda[4], bda[5])
}

// parseBDA parses a colon-separated BDA string. The address type is not
// carried by the CSV format (the reference tool only persists public
// addresses it already resolved); bda_type is inferred from the RPA
// resolvability marker so that reloaded streams still merge correctly.
func parseBDA(s string) ([6]byte, AddrType, error) {
	var bda [6]byte
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return bda, AddrPublic, fmt.Errorf("packet: bad BDA %q", s)
	}
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return bda, AddrPublic, fmt.Errorf("packet: bad BDA %q: %w", s, err)
		}
		bda[i] = byte(v)
	}
	bdaType := AddrPublic
	if bda[0]&0xC0 == 0x40 {
		bdaType = AddrRandom
	}
	return bda, bdaType, nil
}
