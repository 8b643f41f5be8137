package engine

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/bonding"
	"github.com/srg/bentool/internal/config"
	"github.com/srg/bentool/internal/packet"
	"github.com/srg/bentool/internal/rpa"
	"github.com/srg/bentool/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaPacket(bda [6]byte, rpi [16]byte, aem [4]byte, t time.Time) packet.Packet {
	return packet.Packet{
		RecvTime: t,
		BDA:      bda,
		BDAType:  packet.AddrRandom,
		RSSI:     -60,
		Kind:     packet.KindEnGa,
		EnGa: packet.EnGa{
			Length: 0x17, AdType: 0x16, ServiceUUID: packet.ServiceUUID,
			RPI: rpi, AEM: aem,
		},
	}
}

func testEngine(t *testing.T, maxStreams int) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.MaxStreams = maxStreams
	cfg.LogLevel = "error" // keep test output quiet
	return New(cfg)
}

func TestAdmit_ReturnsStoreExhausted(t *testing.T) {
	e := testEngine(t, 1)
	base := time.Unix(1, 0)

	_, err := e.Admit(gaPacket([6]byte{1}, [16]byte{1}, [4]byte{1}, base))
	require.NoError(t, err)

	_, err = e.Admit(gaPacket([6]byte{2}, [16]byte{2}, [4]byte{2}, base))
	assert.True(t, errors.Is(err, bonderr.ErrStoreExhausted))
}

func TestResolveRPA_S1Vector(t *testing.T) {
	e := testEngine(t, 0)
	irk := mustIRK(t, "e2270523033eb8f92204cba9ea221cf3")
	bda := [6]byte{0x4A, 0xA0, 0xD4, 0xFF, 0xC8, 0x57}

	assert.True(t, e.ResolveRPA(irk, bda))
}

func TestDumpLoadRoundTripThroughEngine(t *testing.T) {
	e := testEngine(t, 0)
	base := time.Unix(1_700_000_000, 0)
	_, err := e.Admit(gaPacket([6]byte{1}, [16]byte{1}, [4]byte{1}, base))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Dump(&buf))

	e2 := testEngine(t, 0)
	n, err := e2.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoad_WrapsDecodeErrorsAsDataError(t *testing.T) {
	e := testEngine(t, 0)
	_, err := e.Load(bytes.NewBufferString("bad,line\n"))
	require.Error(t, err)

	var target *bonderr.DataError
	assert.True(t, errors.As(err, &target))
}

func TestTrack_MergesAcrossRotation(t *testing.T) {
	e := testEngine(t, 0)
	start := time.Unix(500_000, 0)

	for i := 0; i < 30; i++ {
		_, err := e.Admit(gaPacket([6]byte{0xAA}, [16]byte{1}, [4]byte{1}, start.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}
	nStart := start.Add(29*time.Second + 2*time.Second)
	for i := 0; i < 30; i++ {
		_, err := e.Admit(gaPacket([6]byte{0xBB}, [16]byte{2}, [4]byte{2}, nStart.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	merges := e.Track(tracker.Options{})
	assert.Equal(t, 1, merges)
}

func TestClear(t *testing.T) {
	e := testEngine(t, 0)
	_, err := e.Admit(gaPacket([6]byte{1}, [16]byte{1}, [4]byte{1}, time.Unix(1, 0)))
	require.NoError(t, err)

	e.Clear()

	var buf bytes.Buffer
	require.NoError(t, e.Dump(&buf))
	assert.Empty(t, buf.String())
}

func TestBonding_ReturnsEngineRegistry(t *testing.T) {
	e := testEngine(t, 0)
	e.Bonding().Upsert(bonding.Bonding{Name: "phone"})
	assert.Len(t, e.Bonding().List(), 1)
}

func mustIRK(t *testing.T, s string) rpa.IRK {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	var k rpa.IRK
	copy(k[:], b)
	return k
}
