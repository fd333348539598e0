package oid

import (
	"encoding/hex"
	"fmt"
)

const (
	// MinAbbrevLen is the shortest accepted hex prefix.
	MinAbbrevLen = 4
)

// Abbrev is a variable-length hex prefix standing in for a full identifier
// of kind K. Only the leading HexLen digits are meaningful; trailing bytes
// of the backing digest are not guaranteed to be zero and must not be
// compared.
type Abbrev[K any] struct {
	raw    Raw
	hexLen int
}

// ParseAbbrev decodes a hex prefix of 4 to 40 digits. For odd lengths the
// top nibble of the last significant byte is kept.
func ParseAbbrev[K any](s string) (Abbrev[K], error) {
	if len(s) < MinAbbrevLen || len(s) > HexSize {
		return Abbrev[K]{}, fmt.Errorf("%w: abbreviation %q has %d hex digits, want %d..%d",
			ErrInvalidLength, s, len(s), MinAbbrevLen, HexSize)
	}
	padded := s
	if len(padded)%2 != 0 {
		padded += "0"
	}
	buf, err := hex.DecodeString(padded)
	if err != nil {
		return Abbrev[K]{}, fmt.Errorf("oid: parse abbreviation %q: %w", s, err)
	}
	var r Raw
	copy(r[:], buf)
	return Abbrev[K]{raw: r, hexLen: len(s)}, nil
}

// FullAbbrev wraps a complete identifier as a 40-digit abbreviation.
func FullAbbrev[K any](t Typed[K]) Abbrev[K] {
	return Abbrev[K]{raw: t.Raw(), hexLen: HexSize}
}

// HexLen returns the number of significant hex digits.
func (a Abbrev[K]) HexLen() int {
	return a.hexLen
}

// IsFull reports whether the abbreviation covers the whole digest.
func (a Abbrev[K]) IsFull() bool {
	return a.hexLen == HexSize
}

// Raw returns the backing digest. Bytes past the significant prefix are
// meaningless.
func (a Abbrev[K]) Raw() Raw {
	return a.raw
}

// Matches reports whether r starts with the significant prefix.
func (a Abbrev[K]) Matches(r Raw) bool {
	full := a.hexLen / 2
	for i := 0; i < full; i++ {
		if r[i] != a.raw[i] {
			return false
		}
	}
	if a.hexLen%2 != 0 {
		return r[full]>>4 == a.raw[full]>>4
	}
	return true
}

// String renders the significant prefix.
func (a Abbrev[K]) String() string {
	return hex.EncodeToString(a.raw[:])[:a.hexLen]
}
