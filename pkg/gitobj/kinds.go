// Package gitobj defines the git-side object kinds, tree-entry file modes,
// and the classified object reference built from them.
package gitobj

import "github.com/vermilionhq/vermilion/pkg/oid"

// Zero-size kind markers. They exist only to brand oid.Typed values.
type (
	BlobKind   struct{}
	TreeKind   struct{}
	CommitKind struct{}
)

// Kind-branded identifiers. A BlobId and a CommitId with equal bytes are
// distinct types and cannot be mixed up at compile time.
type (
	BlobId   = oid.Typed[BlobKind]
	TreeId   = oid.Typed[TreeKind]
	CommitId = oid.Typed[CommitKind]
)

// ObjectType names the kind of object stored, as written in the object
// envelope.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)
