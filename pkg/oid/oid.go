// Package oid provides the raw and kind-branded object identifier types
// shared by both object stores.
package oid

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// Size is the byte length of a digest (SHA-1).
	Size = 20
	// HexSize is the length of the lowercase hex form.
	HexSize = 2 * Size
)

// ErrInvalidLength is returned when constructing an identifier from input
// of the wrong length.
var ErrInvalidLength = errors.New("oid: invalid length")

// Raw is a fixed-size content digest. The zero value is the null
// identifier, meaning "absent/unresolved".
type Raw [Size]byte

// Null is the reserved all-zero identifier.
var Null Raw

// FromRawBytes constructs a Raw from exactly Size bytes.
func FromRawBytes(b []byte) (Raw, error) {
	if len(b) != Size {
		return Null, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), Size)
	}
	var r Raw
	copy(r[:], b)
	return r, nil
}

// Parse decodes a full-length hex identifier.
func Parse(s string) (Raw, error) {
	if len(s) != HexSize {
		return Null, fmt.Errorf("%w: got %d hex digits, want %d", ErrInvalidLength, len(s), HexSize)
	}
	var r Raw
	if _, err := hex.Decode(r[:], []byte(s)); err != nil {
		return Null, fmt.Errorf("oid: parse %q: %w", s, err)
	}
	return r, nil
}

// MustParse is Parse for known-good constants; it panics on error.
func MustParse(s string) Raw {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// IsNull reports whether the identifier is the all-zero sentinel.
func (r Raw) IsNull() bool {
	return r == Null
}

// RawBytes returns the digest bytes.
func (r Raw) RawBytes() []byte {
	return r[:]
}

// Compare orders identifiers bytewise. The ordering exists so digests can
// key sorted structures; it carries no semantic meaning.
func (r Raw) Compare(o Raw) int {
	return bytes.Compare(r[:], o[:])
}

// String renders the lowercase hex form.
func (r Raw) String() string {
	return hex.EncodeToString(r[:])
}
