package metadata

import (
	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/notes"
	"github.com/vermilionhq/vermilion/pkg/oid"
)

// GitNotes is the typed view of a namespace keyed by git commits, mapping
// each commit to the metadata blob describing its changeset.
type GitNotes struct {
	tree *notes.Tree
}

// Get returns the metadata blob recorded for a commit.
func (n *GitNotes) Get(id gitobj.CommitId) (gitobj.BlobId, bool, error) {
	v, ok, err := n.tree.Get(id.Raw())
	if err != nil || !ok {
		return gitobj.BlobId{}, ok, err
	}
	return oid.Unchecked[gitobj.BlobKind](v), true, nil
}

// Add records a metadata blob for a commit. An existing mapping wins over
// the incoming one.
func (n *GitNotes) Add(id gitobj.CommitId, note gitobj.BlobId) error {
	return n.tree.Add(id.Raw(), note.Raw())
}

// Remove drops the mapping for a commit if present.
func (n *GitNotes) Remove(id gitobj.CommitId) error {
	return n.tree.Remove(id.Raw())
}

// ForEach visits every mapping in key order.
func (n *GitNotes) ForEach(visit func(id gitobj.CommitId, note gitobj.BlobId)) error {
	return n.tree.ForEach(func(k, v oid.Raw) {
		visit(oid.Unchecked[gitobj.CommitKind](k), oid.Unchecked[gitobj.BlobKind](v))
	})
}

// HgNotes is the typed view of a namespace keyed by mercurial digests.
// Values stay untyped: the hg2git namespace maps changesets to commits,
// manifests to commits, and files to blobs, so the value's kind depends
// on what the key was.
type HgNotes struct {
	tree *notes.Tree
}

// Get returns the git object recorded for a mercurial digest. The digest
// is used as a key directly; both namespaces share a width.
func (n *HgNotes) Get(id oid.Raw) (oid.Raw, bool, error) {
	return n.tree.Get(id)
}

// Add records a git object for a mercurial digest. An existing mapping
// wins over the incoming one.
func (n *HgNotes) Add(id, note oid.Raw) error {
	return n.tree.Add(id, note)
}

// Remove drops the mapping for a mercurial digest if present.
func (n *HgNotes) Remove(id oid.Raw) error {
	return n.tree.Remove(id)
}

// ForEach visits every mapping in key order.
func (n *HgNotes) ForEach(visit func(id, note oid.Raw)) error {
	return n.tree.ForEach(visit)
}

// GetAbbrev resolves a possibly-abbreviated mercurial identifier of any
// kind. A full-length abbreviation behaves exactly like Get; shorter ones
// resolve to the lowest matching key in byte order.
func GetAbbrev[K any](n *HgNotes, a oid.Abbrev[K]) (oid.Raw, bool, error) {
	return n.tree.GetAbbrev(a.Raw(), a.HexLen())
}
