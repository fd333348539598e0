// Package metadata owns the three bridge mapping namespaces and their
// lifecycle: lazy initialization on first use, snapshot commits on
// persist, explicit teardown at the end of a session.
package metadata

import (
	"bytes"
	"fmt"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/notes"
	"github.com/vermilionhq/vermilion/pkg/oid"
	"github.com/vermilionhq/vermilion/pkg/store"
)

// Handle names one of the three singleton mapping namespaces.
type Handle int

const (
	// Git2Hg maps git commits to changeset metadata blobs.
	Git2Hg Handle = iota
	// Hg2Git maps mercurial objects to git objects.
	Hg2Git
	// FilesMeta maps mercurial file revisions to file metadata blobs.
	FilesMeta
)

func (h Handle) String() string {
	switch h {
	case Git2Hg:
		return "git2hg"
	case Hg2Git:
		return "hg2git"
	case FilesMeta:
		return "files-meta"
	}
	return fmt.Sprintf("Handle(%d)", int(h))
}

// Ref returns the ref under which the namespace's root commit is recorded.
func (h Handle) Ref() string {
	switch h {
	case Git2Hg:
		return "refs/vermilion/git2hg"
	case Hg2Git:
		return "refs/vermilion/hg2git"
	case FilesMeta:
		return "refs/vermilion/files-meta"
	}
	panic(fmt.Sprintf("metadata: unknown handle %d", int(h)))
}

// Mode returns the tree-entry mode the namespace persists under. Hg2Git
// records git objects as commit-like links; the metadata namespaces
// record blobs.
func (h Handle) Mode() gitobj.FileMode {
	if h == Hg2Git {
		return gitobj.ModeGitlink
	}
	return gitobj.ModeRegular | gitobj.ModeRW
}

// Flags control which optional namespaces are active.
type Flags uint

const (
	// FlagFilesMeta activates the file-metadata namespace. When unset the
	// namespace starts empty regardless of what its ref points at.
	FlagFilesMeta Flags = 1 << iota
)

// Metadata is the per-session context owning the three mapping stores.
// It is process-wide mutable state with a strict lifecycle: construct
// once, use from a single logical thread, Close before the session ends.
type Metadata struct {
	backend store.Backend
	trees   [3]*notes.Tree
}

// New constructs an uninitialized context over a backend. No namespace is
// loaded until first use; a session that never touches a namespace never
// pays for it.
func New(backend store.Backend, flags Flags) *Metadata {
	m := &Metadata{backend: backend}
	for _, h := range []Handle{Git2Hg, Hg2Git, FilesMeta} {
		initEmpty := h == FilesMeta && flags&FlagFilesMeta == 0
		m.trees[h] = notes.New(backend, func() (oid.Raw, error) {
			return backend.ResolveRef(h.Ref())
		}, initEmpty)
	}
	return m
}

// tree returns the store behind a handle. An out-of-range handle is a
// programming error in the orchestration layer, not a runtime condition.
func (m *Metadata) tree(h Handle) *notes.Tree {
	if h < Git2Hg || h > FilesMeta {
		panic(fmt.Sprintf("metadata: unknown handle %d", int(h)))
	}
	return m.trees[h]
}

// Git2Hg returns the commit→changeset-metadata namespace.
func (m *Metadata) Git2Hg() *GitNotes {
	return &GitNotes{tree: m.tree(Git2Hg)}
}

// Hg2Git returns the mercurial→git object namespace.
func (m *Metadata) Hg2Git() *HgNotes {
	return &HgNotes{tree: m.tree(Hg2Git)}
}

// FilesMeta returns the file-metadata namespace.
func (m *Metadata) FilesMeta() *HgNotes {
	return &HgNotes{tree: m.tree(FilesMeta)}
}

// Dirty reports whether any namespace has unflushed mutations.
func (m *Metadata) Dirty() bool {
	for _, t := range m.trees {
		if t.Dirty() {
			return true
		}
	}
	return false
}

// Snapshot persists one namespace. When the store is dirty its current
// state is flushed to a tree and wrapped in a parentless commit with a
// fixed placeholder identity and zero timestamp; each snapshot is a
// disconnected root, not part of a history. When nothing is dirty the
// fallback is returned verbatim, so a caller chaining snapshots passes
// the previous result and gets it back unchanged; a null fallback with
// nothing to persist yields the null id.
func (m *Metadata) Snapshot(h Handle, fallback gitobj.CommitId) (gitobj.CommitId, error) {
	t := m.tree(h)

	tree := oid.Null
	if t.Dirty() {
		var err error
		tree, err = t.Flush(h.Mode())
		if err != nil {
			return gitobj.CommitId{}, fmt.Errorf("metadata: snapshot %s: %w", h, err)
		}
	}
	if tree.IsNull() {
		return fallback, nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree)
	buf.WriteString("author  <vermilion@git> 0 +0000\ncommitter  <vermilion@git> 0 +0000\n\n")
	commit, err := m.backend.WriteObject(gitobj.TypeCommit, buf.Bytes())
	if err != nil {
		return gitobj.CommitId{}, fmt.Errorf("metadata: snapshot %s: %w", h, err)
	}
	return oid.Unchecked[gitobj.CommitKind](commit), nil
}

// Persist snapshots every namespace and advances its ref to the result.
// Untouched namespaces keep their previous root.
func (m *Metadata) Persist() (map[Handle]gitobj.CommitId, error) {
	results := make(map[Handle]gitobj.CommitId, len(m.trees))
	for _, h := range []Handle{Git2Hg, Hg2Git, FilesMeta} {
		prev, err := m.backend.ResolveRef(h.Ref())
		if err != nil {
			return nil, fmt.Errorf("metadata: persist %s: %w", h, err)
		}
		result, err := m.Snapshot(h, oid.Unchecked[gitobj.CommitKind](prev))
		if err != nil {
			return nil, err
		}
		if result.Raw() != prev {
			if err := m.backend.UpdateRef(h.Ref(), result.Raw()); err != nil {
				return nil, fmt.Errorf("metadata: persist %s: %w", h, err)
			}
		}
		results[h] = result
	}
	return results, nil
}

// Close tears down all three namespaces. Safe when some or all were never
// initialized; must be the last use of the context.
func (m *Metadata) Close() {
	for _, t := range m.trees {
		t.Done()
	}
}
