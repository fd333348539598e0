// Package store provides the object-store engine the mapping layer runs
// on: a content-addressed write/read primitive, loose refs, and the git
// tree and commit wire codecs.
package store

import (
	"crypto/sha1"
	"fmt"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/oid"
)

// Backend is the object-store surface the mapping layer consumes. The
// core never touches a filesystem directly; tests run it against Mem.
type Backend interface {
	// WriteObject stores content under the "type len\0content" envelope
	// and returns its digest. Writing the same bytes twice is idempotent.
	WriteObject(typ gitobj.ObjectType, data []byte) (oid.Raw, error)

	// ReadObject retrieves an object by digest.
	ReadObject(id oid.Raw) (gitobj.ObjectType, []byte, error)

	// ResolveRef returns the digest a ref points at, or the null id when
	// the ref does not exist.
	ResolveRef(name string) (oid.Raw, error)

	// UpdateRef points a ref at the given digest.
	UpdateRef(name string, id oid.Raw) error
}

// EmptyTree is the well-known digest of the empty tree object.
var EmptyTree = oid.MustParse("4b825dc642cb6eb9a060e54bf8d69288fbee4904")

// HashObject computes the digest of an object without storing it:
// SHA-1 over "type len\0content", exactly as git does.
func HashObject(typ gitobj.ObjectType, data []byte) oid.Raw {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", typ, len(data))
	h.Write(data)
	var r oid.Raw
	copy(r[:], h.Sum(nil))
	return r
}
