// Package hgobj defines the mercurial-side object kinds. Mercurial digests
// share the git digest width, so conversion between the two namespaces is
// a re-brand, never a reshape.
package hgobj

import "github.com/vermilionhq/vermilion/pkg/oid"

// Zero-size kind markers for the foreign store.
type (
	ChangesetKind struct{}
	ManifestKind  struct{}
	FileKind      struct{}
)

type (
	ChangesetId = oid.Typed[ChangesetKind]
	ManifestId  = oid.Typed[ManifestKind]
	FileId      = oid.Typed[FileKind]
)
