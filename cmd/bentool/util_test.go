package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBDA(t *testing.T) {
	bda, err := parseBDA("4A:A0:D4:FF:C8:57")
	require.NoError(t, err)
	assert.Equal(t, [6]byte{0x4A, 0xA0, 0xD4, 0xFF, 0xC8, 0x57}, bda)
}

func TestParseBDA_Errors(t *testing.T) {
	cases := []string{
		"4A:A0:D4:FF:C8",       // too few octets
		"4A:A0:D4:FF:C8:57:00", // too many octets
		"ZZ:A0:D4:FF:C8:57",    // bad hex
	}
	for _, s := range cases {
		_, err := parseBDA(s)
		assert.Error(t, err, s)
	}
}

func TestFormatBDA_RoundTrips(t *testing.T) {
	bda, err := parseBDA("4a:a0:d4:ff:c8:57")
	require.NoError(t, err)
	assert.Equal(t, "4A:A0:D4:FF:C8:57", formatBDA(bda))
}

func TestParseFixedHex(t *testing.T) {
	b, err := parseFixedHex("RPI", "00112233445566778899aabbccddeeff", 16)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, b)

	b, err = parseFixedHex("AEM", "deadbeef", 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)

	_, err = parseFixedHex("RPI", "00112233445566778899aabbccddeeff00", 16)
	assert.Error(t, err) // 34 hex chars, not 32
}

func TestParseFixedHex_BadEncoding(t *testing.T) {
	_, err := parseFixedHex("AEM", "zzzzzzzz", 4)
	assert.Error(t, err)
}
