package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Crockford's base32 alphabet, the TypeID suffix encoding.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random tail of an ID. Injected by tests that need
// reproducible IDs; nil means crypto/rand.
type RandSource interface {
	Intn(n int) int
}

// Generator produces hand, table, and tournament identifiers: UUIDv7 values
// rendered as 26-character base32 strings. IDs sort roughly by creation time.
type Generator struct {
	randSource RandSource
}

// NewGenerator returns a Generator using the given RandSource, or crypto/rand
// when nil.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates an ID with the default crypto/rand source.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new 26-character ID.
func (g *Generator) Generate() string {
	return encodeBase32(g.newUUIDv7())
}

// newUUIDv7 builds a 128-bit UUIDv7: a 48-bit millisecond timestamp followed
// by version, variant, and random bits.
func (g *Generator) newUUIDv7() [16]byte {
	var uuid [16]byte

	now := time.Now().UnixMilli()
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.randSource.Intn(256))
		}
	} else {
		if _, err := rand.Read(uuid[6:]); err != nil {
			panic("gameid: reading entropy: " + err.Error())
		}
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70 // version 7
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // variant 10

	return uuid
}

// encodeBase32 renders 128 bits as 26 base32 characters, most significant
// bits first, with two zero bits of padding at the tail.
func encodeBase32(data [16]byte) string {
	var out [26]byte
	var acc uint32
	accBits := 0
	i := 0
	for _, b := range data {
		acc = acc<<8 | uint32(b)
		accBits += 8
		for accBits >= 5 {
			out[i] = alphabet[(acc>>(uint(accBits)-5))&0x1f]
			accBits -= 5
			i++
		}
	}
	out[i] = alphabet[(acc<<(5-uint(accBits)))&0x1f]
	return string(out[:])
}

// Validate checks that an ID is 26 characters of the base32 alphabet with a
// leading character small enough to decode back into 128 bits.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("id must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
