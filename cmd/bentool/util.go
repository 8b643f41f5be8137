package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// errNoDeviceSelected is returned by commands that require an HCI
// device to have been chosen first via "dev hciX".
var errNoDeviceSelected = errors.New("no HCI device selected, run \"dev hciX\" first")

// errNoBondingFields is returned when a "bonding" invocation supplies
// neither --bda nor --irk, leaving nothing to upsert.
var errNoBondingFields = errors.New("at least one of --bda or --irk is required")

// errDumpAndLoad is returned when "track" receives both --dump and
// --load, which is ambiguous about load/track/dump ordering.
var errDumpAndLoad = errors.New("--dump and --load are mutually exclusive")

// parseBDA parses a colon-separated MAC string ("4A:A0:D4:FF:C8:57") with
// the first-written octet at index 0 (display order; HCI wire order is the
// reverse). The string is the same format the reference's str2ba/ba2str
// use and the one every bentool command accepts a device address in.
func parseBDA(s string) ([6]byte, error) {
	var bda [6]byte
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return bda, fmt.Errorf("bad BDA %q: want 6 colon-separated hex octets", s)
	}
	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return bda, fmt.Errorf("bad BDA %q: octet %d is not a hex byte", s, i)
		}
		bda[i] = b[0]
	}
	return bda, nil
}

func formatBDA(bda [6]byte) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		bda[0], bda[1], bda[2], bda[3], bda[4], bda[5])
}

// parseFixedHex decodes s into exactly n bytes, erroring with the field
// name on any length or encoding mismatch.
func parseFixedHex(field, s string, n int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	if len(b) != n {
		return nil, fmt.Errorf("%s: want %d bytes, got %d", field, n, len(b))
	}
	return b, nil
}
