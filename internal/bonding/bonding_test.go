package bonding

import (
	"encoding/hex"
	"testing"

	"github.com/srg/bentool/internal/rpa"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_Upsert_NewNamePrepends(t *testing.T) {
	r := NewRegistry()
	r.Upsert(Bonding{Name: "alice", BDAPublic: [6]byte{1, 2, 3, 4, 5, 6}})
	r.Upsert(Bonding{Name: "bob", BDAPublic: [6]byte{9, 9, 9, 9, 9, 9}})

	got := r.List()
	assert.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].Name)
	assert.Equal(t, "alice", got[1].Name)
}

func TestRegistry_Upsert_PrefixMatchMergesNonZeroFields(t *testing.T) {
	r := NewRegistry()
	irk := rpa.IRK{1, 2, 3}
	r.Upsert(Bonding{Name: "phone_0", BDAPublic: [6]byte{1, 1, 1, 1, 1, 1}})

	r.Upsert(Bonding{Name: "phone_1", IRK: irk})

	got := r.List()
	assert.Len(t, got, 1)
	assert.Equal(t, "phone_0", got[0].Name, "existing entry is kept, only its fields are updated")
	assert.Equal(t, [6]byte{1, 1, 1, 1, 1, 1}, got[0].BDAPublic, "zero BDA in the upsert must not clobber the existing one")
	assert.Equal(t, irk, got[0].IRK)
}

func TestRegistry_Upsert_AllZeroIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Upsert(Bonding{Name: "phone_0", BDAPublic: [6]byte{1, 1, 1, 1, 1, 1}, IRK: rpa.IRK{1}})

	r.Upsert(Bonding{Name: "phone_1"})

	got := r.List()
	assert.Equal(t, [6]byte{1, 1, 1, 1, 1, 1}, got[0].BDAPublic)
	assert.Equal(t, rpa.IRK{1}, got[0].IRK)
}

func TestRegistry_ResolvesBoth(t *testing.T) {
	r := NewRegistry()
	irk := mustIRK("e2270523033eb8f92204cba9ea221cf3")
	r.Upsert(Bonding{Name: "phone", IRK: irk})

	a := mustBDA("4aa0d4ffc857")
	b := mustBDA("4aa0d4ffc857")

	assert.True(t, r.ResolvesBoth(a, b))
	assert.False(t, r.ResolvesBoth(a, [6]byte{0xAA, 0, 0, 0, 0, 0}))
}

func mustIRK(s string) rpa.IRK {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	var k rpa.IRK
	copy(k[:], b)
	return k
}

func mustBDA(s string) [6]byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	var bda [6]byte
	copy(bda[:], b)
	return bda
}
