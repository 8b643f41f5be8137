package packet

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_RoundTrip_EnGa(t *testing.T) {
	p := Packet{
		RecvTime: time.Unix(1700000000, 123000),
		BDA:      [6]byte{0x4A, 0xA0, 0xD4, 0xFF, 0xC8, 0x57},
		BDAType:  AddrRandom,
		RSSI:     -72,
		Kind:     KindEnGa,
		EnGa: EnGa{
			Length:      0x17,
			AdType:      0x16,
			ServiceUUID: ServiceUUID,
			RPI:         [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			AEM:         [4]byte{0xDE, 0xAD, 0xBE, 0xEF},
		},
	}

	line := EncodeCSV(p)
	assert.True(t, strings.HasPrefix(line, "1700000000,123,4A:A0:D4:FF:C8:57,-72,17166ffd"))

	back, err := DecodeCSV(line)
	require.NoError(t, err)

	assert.Equal(t, p.RecvTime.Unix(), back.RecvTime.Unix())
	assert.Equal(t, p.RecvTime.Nanosecond()/1000, back.RecvTime.Nanosecond()/1000)
	assert.Equal(t, p.BDA, back.BDA)
	assert.Equal(t, p.BDAType, back.BDAType)
	assert.Equal(t, p.RSSI, back.RSSI)
	assert.Equal(t, p.Kind, back.Kind)
	assert.Equal(t, p.EnGa, back.EnGa)
}

func TestCSV_RoundTrip_OtherAdv(t *testing.T) {
	p := Decode(RawReport{
		BDA:      [6]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
		BDAType:  AddrPublic,
		RSSI:     -55,
		RecvTime: time.Unix(42, 500000),
		Payload:  []byte{0x02, 0x01, 0x06, 0x03, 0x03, 0x12, 0x34},
	})

	line := EncodeCSV(p)
	back, err := DecodeCSV(line)
	require.NoError(t, err)

	assert.Equal(t, KindOtherAdv, back.Kind)
	assert.Equal(t, p.Other.Raw, back.Other.Raw)
	assert.Equal(t, p.RSSI, back.RSSI)
}

func TestDecodeCSV_ReclassifiesByHexPrefix(t *testing.T) {
	// Kind is decided purely from the blob's leading hex digits, not from
	// any stored marker: a 24-byte blob starting with 17166ffd always
	// decodes as EN_GA even if nothing produced it that way deliberately.
	ga := EnGa{Length: 0x17, AdType: 0x16, ServiceUUID: ServiceUUID}
	line := "1,2,00:00:00:00:00:00,0," + hex.EncodeToString(ga.Bytes())

	p, err := DecodeCSV(line)
	require.NoError(t, err)
	assert.Equal(t, KindEnGa, p.Kind)
}

func TestDecodeCSV_WrongColumnCount(t *testing.T) {
	_, err := DecodeCSV("1,2,3,4")
	assert.Error(t, err)
}
