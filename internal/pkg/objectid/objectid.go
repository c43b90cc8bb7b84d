// Package objectid generates 24-character hexadecimal identifiers laid out as
// a 4-byte timestamp, 5 random bytes and a 3-byte counter.
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

var (
	processUnique [5]byte
	counter       atomic.Uint32
)

func init() {
	if _, err := rand.Read(processUnique[:]); err != nil {
		panic(err)
	}
	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic(err)
	}
	counter.Store(binary.BigEndian.Uint32(seed[:]))
}

// New returns a fresh identifier.
func New() string {
	return NewAt(time.Now())
}

func NewAt(t time.Time) string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(t.Unix()))
	copy(b[4:9], processUnique[:])
	c := counter.Add(1)
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)

	return hex.EncodeToString(b[:])
}

// IsValid reports whether s is a well-formed identifier.
func IsValid(s string) bool {
	if len(s) != 24 {
		return false
	}
	_, err := hex.DecodeString(s)

	return err == nil
}
