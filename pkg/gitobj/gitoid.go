package gitobj

import "github.com/vermilionhq/vermilion/pkg/oid"

type objKind uint8

const (
	kindBlob objKind = iota + 1
	kindTree
	kindCommit
)

// GitOid records which of the three object kinds a digest denotes in the
// context it was referenced from. Kind is a property of the reference, not
// of the bytes: the same digest classified under a different mode yields a
// different variant, and both are legal.
//
// All construction goes through Classify or one of the From* wrappers;
// the zero value is invalid and answers false to every predicate.
type GitOid struct {
	kind objKind
	raw  oid.Raw
}

// Classify builds a GitOid from a digest and the file mode it was
// referenced under. Total and deterministic: GITLINK means commit
// (submodule-style link), DIRECTORY means tree, anything else is a blob.
func Classify(r oid.Raw, mode FileMode) GitOid {
	switch mode.Typ() {
	case ModeGitlink:
		return GitOid{kind: kindCommit, raw: r}
	case ModeDirectory:
		return GitOid{kind: kindTree, raw: r}
	default:
		return GitOid{kind: kindBlob, raw: r}
	}
}

// FromBlob wraps an already-classified blob identifier.
func FromBlob(id BlobId) GitOid {
	return GitOid{kind: kindBlob, raw: id.Raw()}
}

// FromTree wraps an already-classified tree identifier.
func FromTree(id TreeId) GitOid {
	return GitOid{kind: kindTree, raw: id.Raw()}
}

// FromCommit wraps an already-classified commit identifier.
func FromCommit(id CommitId) GitOid {
	return GitOid{kind: kindCommit, raw: id.Raw()}
}

func (g GitOid) IsBlob() bool   { return g.kind == kindBlob }
func (g GitOid) IsTree() bool   { return g.kind == kindTree }
func (g GitOid) IsCommit() bool { return g.kind == kindCommit }

// Blob returns the typed blob identifier when the reference is a blob.
func (g GitOid) Blob() (BlobId, bool) {
	if g.kind != kindBlob {
		return BlobId{}, false
	}
	return oid.Unchecked[BlobKind](g.raw), true
}

// Tree returns the typed tree identifier when the reference is a tree.
func (g GitOid) Tree() (TreeId, bool) {
	if g.kind != kindTree {
		return TreeId{}, false
	}
	return oid.Unchecked[TreeKind](g.raw), true
}

// Commit returns the typed commit identifier when the reference is a
// commit.
func (g GitOid) Commit() (CommitId, bool) {
	if g.kind != kindCommit {
		return CommitId{}, false
	}
	return oid.Unchecked[CommitKind](g.raw), true
}

// Raw strips the classification; lossless and total.
func (g GitOid) Raw() oid.Raw {
	return g.raw
}

// RawBytes returns the digest bytes regardless of variant.
func (g GitOid) RawBytes() []byte {
	return g.raw.RawBytes()
}

// Equal compares by raw bytes only. The variant tag never participates:
// callers holding a typed, generic, or classified form of the same digest
// compare equal through Raw().
func (g GitOid) Equal(r oid.Raw) bool {
	return g.raw == r
}

// ObjectType names the variant for object-store envelopes.
func (g GitOid) ObjectType() ObjectType {
	switch g.kind {
	case kindTree:
		return TypeTree
	case kindCommit:
		return TypeCommit
	default:
		return TypeBlob
	}
}

func (g GitOid) String() string {
	return g.raw.String()
}
