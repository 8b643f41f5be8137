package packet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecode_EnGa(t *testing.T) {
	ga := EnGa{
		Length:      0x17,
		AdType:      0x16,
		ServiceUUID: ServiceUUID,
		RPI:         [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		AEM:         [4]byte{0xAA, 0xBB, 0xCC, 0xDD},
	}
	payload := append([]byte{0x03, 0x03, 0x6F, 0xFD}, ga.Bytes()...)

	r := RawReport{
		BDA:      [6]byte{1, 2, 3, 4, 5, 6},
		BDAType:  AddrRandom,
		RSSI:     -60,
		RecvTime: time.Unix(1000, 2000),
		Payload:  payload,
	}

	p := Decode(r)

	assert.Equal(t, KindEnGa, p.Kind)
	assert.Equal(t, ga, p.EnGa)
	assert.Equal(t, r.BDA, p.BDA)
	assert.Equal(t, AddrRandom, p.BDAType)
	assert.Equal(t, int8(-60), p.RSSI)
}

func TestDecode_OtherAdv(t *testing.T) {
	payload := []byte{0x02, 0x01, 0x06, 0x05, 0x09, 'h', 'e', 'l', 'l'}

	r := RawReport{
		BDA:     [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		BDAType: AddrPublic,
		RSSI:    -40,
		Payload: payload,
	}

	p := Decode(r)

	assert.Equal(t, KindOtherAdv, p.Kind)
	assert.Len(t, p.Other.Raw, otherAdvHeaderSize+len(payload))
	assert.Equal(t, payload, p.Other.Raw[otherAdvHeaderSize:])
	assert.Equal(t, byte(len(payload)), p.Other.Raw[8])
	assert.Equal(t, byte(AddrPublic), p.Other.Raw[1])
}

func TestDecode_ShortEnGaPrefixFallsBackToOther(t *testing.T) {
	// Matches the EN_GA AD-structure prefix but is truncated before a full
	// EnGa record follows: must not be misclassified.
	r := RawReport{Payload: []byte{0x03, 0x03, 0x6F, 0xFD, 0x01, 0x02}}

	p := Decode(r)

	assert.Equal(t, KindOtherAdv, p.Kind)
}

func TestEnGa_Bytes_RoundTrip(t *testing.T) {
	ga := EnGa{
		Length:      0x17,
		AdType:      0x16,
		ServiceUUID: ServiceUUID,
		RPI:         [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		AEM:         [4]byte{9, 9, 9, 9},
	}

	back, err := decodeEnGa(ga.Bytes())

	assert.NoError(t, err)
	assert.Equal(t, ga, back)
}
