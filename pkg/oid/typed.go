package oid

// Typed is a Raw digest branded with a zero-size kind marker. Two Typed
// values of different kinds are distinct Go types even when their bytes
// are equal; at rest a Typed is bit-identical to a Raw.
//
// The kind is a construction-time contract, not a runtime check: a
// Typed[TreeKind] promises that the code path that built it verified the
// digest references a tree. Unchecked bypasses that promise and must only
// be used when the caller has already classified the digest.
type Typed[K any] struct {
	raw Raw
}

// Unchecked brands a raw digest with kind K without any validation.
func Unchecked[K any](r Raw) Typed[K] {
	return Typed[K]{raw: r}
}

// ParseTyped decodes a full-length hex identifier as kind K.
func ParseTyped[K any](s string) (Typed[K], error) {
	r, err := Parse(s)
	if err != nil {
		return Typed[K]{}, err
	}
	return Typed[K]{raw: r}, nil
}

// Raw strips the kind brand. This direction never fails; going back
// requires an explicit classification step.
func (t Typed[K]) Raw() Raw {
	return t.raw
}

// IsNull reports whether the underlying digest is the null sentinel.
func (t Typed[K]) IsNull() bool {
	return t.raw.IsNull()
}

// RawBytes returns the digest bytes.
func (t Typed[K]) RawBytes() []byte {
	return t.raw.RawBytes()
}

func (t Typed[K]) String() string {
	return t.raw.String()
}
