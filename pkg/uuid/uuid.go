// Package uuid provides UUID v7 generation.
// UUID v7 sorts by creation time, which keeps database indexes and
// timestamped session keys in insertion order.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// UUID represents a UUID v7 identifier.
type UUID [16]byte

// NewV7 generates a new UUID v7 (draft-ietf-uuidrev-rfc4122bis):
// 48 bits of millisecond UNIX timestamp, version and variant bits,
// and 74 random bits.
func NewV7() UUID {
	var u UUID

	now := uint64(time.Now().UnixMilli())
	binary.BigEndian.PutUint64(u[0:8], now<<16)

	// The timestamp only filled bytes 0-5; randomize the rest.
	if _, err := rand.Read(u[6:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}

	// Version nibble 0111 in byte 6, variant 10 in byte 7.
	u[6] = 0x70 | (u[6] & 0x0f)
	u[7] = 0x80 | (u[7] & 0x3f)

	return u
}

// NewString is shorthand for NewV7().String().
func NewString() string {
	return NewV7().String()
}

// String returns the UUID in standard form: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	)
}
