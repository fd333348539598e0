// Package notes implements the persistent key→value mapping store backing
// the bridge metadata: an in-memory index over digests, loaded lazily from
// a tree object in the backing store and flushed back to a new tree on
// demand.
package notes

import (
	"fmt"
	"sort"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/oid"
	"github.com/vermilionhq/vermilion/pkg/store"
)

// RootFunc resolves the commit id holding the persisted root of a tree,
// or the null id when no root has been persisted yet.
type RootFunc func() (oid.Raw, error)

// Tree is a persistent associative structure from one digest namespace to
// another. It is single-threaded by contract: exactly one logical thread
// of control may touch an instance, and Flush must not overlap any other
// operation.
type Tree struct {
	backend store.Backend
	root    RootFunc

	// initEmpty forces an empty start even when the root ref still points
	// at stale data.
	initEmpty bool

	initialized bool
	dirty       bool
	entries     map[oid.Raw]oid.Raw
	keys        []oid.Raw
	keysSorted  bool
}

// New creates an uninitialized Tree. Nothing is loaded until the first
// operation.
func New(backend store.Backend, root RootFunc, initEmpty bool) *Tree {
	return &Tree{
		backend:   backend,
		root:      root,
		initEmpty: initEmpty,
	}
}

// Initialized reports whether lazy initialization has run.
func (t *Tree) Initialized() bool {
	return t.initialized
}

// Dirty reports whether there are mutations not yet flushed.
func (t *Tree) Dirty() bool {
	return t.dirty
}

// ensure performs lazy initialization: load the persisted root if one
// exists, otherwise start empty.
func (t *Tree) ensure() error {
	if t.initialized {
		return nil
	}
	t.entries = make(map[oid.Raw]oid.Raw)
	t.keys = nil
	t.keysSorted = true
	t.dirty = false
	t.initialized = true

	if t.initEmpty {
		return nil
	}
	root, err := t.root()
	if err != nil {
		return fmt.Errorf("notes: resolve root: %w", err)
	}
	if root.IsNull() {
		return nil
	}
	if err := t.load(root); err != nil {
		t.initialized = false
		return err
	}
	return nil
}

// load reads the root commit and its tree into the in-memory index.
func (t *Tree) load(root oid.Raw) error {
	typ, data, err := t.backend.ReadObject(root)
	if err != nil {
		return fmt.Errorf("notes: read root %s: %w", root, err)
	}
	treeId := root
	if typ == gitobj.TypeCommit {
		treeId, err = store.CommitTreeId(data)
		if err != nil {
			return fmt.Errorf("notes: root %s: %w", root, err)
		}
		typ, data, err = t.backend.ReadObject(treeId)
		if err != nil {
			return fmt.Errorf("notes: read tree %s: %w", treeId, err)
		}
	}
	if typ != gitobj.TypeTree {
		return fmt.Errorf("notes: root %s resolves to a %s, want tree", root, typ)
	}
	entries, err := store.UnmarshalTree(data)
	if err != nil {
		return fmt.Errorf("notes: tree %s: %w", treeId, err)
	}
	for _, e := range entries {
		key, err := oid.Parse(e.Name)
		if err != nil {
			return fmt.Errorf("notes: tree %s: entry %q: %w", treeId, e.Name, err)
		}
		if _, exists := t.entries[key]; !exists {
			t.keys = append(t.keys, key)
			t.keysSorted = false
		}
		t.entries[key] = e.Id
	}
	return nil
}

func (t *Tree) sortedKeys() []oid.Raw {
	if !t.keysSorted {
		sort.Slice(t.keys, func(i, j int) bool {
			return t.keys[i].Compare(t.keys[j]) < 0
		})
		t.keysSorted = true
	}
	return t.keys
}

// Get returns the value mapped to key. Absence is not an error.
func (t *Tree) Get(key oid.Raw) (oid.Raw, bool, error) {
	if err := t.ensure(); err != nil {
		return oid.Null, false, err
	}
	v, ok := t.entries[key]
	return v, ok, nil
}

// GetAbbrev resolves a hex prefix of hexLen digits. A full-length prefix
// behaves exactly like Get. Shorter prefixes return the entry with the
// lowest matching key in byte order; multiple full keys sharing the
// prefix is a caller-visible hazard this operation does not disambiguate
// beyond that.
func (t *Tree) GetAbbrev(prefix oid.Raw, hexLen int) (oid.Raw, bool, error) {
	if hexLen < oid.MinAbbrevLen || hexLen > oid.HexSize {
		return oid.Null, false, fmt.Errorf("%w: abbreviation of %d hex digits", oid.ErrInvalidLength, hexLen)
	}
	if hexLen == oid.HexSize {
		return t.Get(prefix)
	}
	if err := t.ensure(); err != nil {
		return oid.Null, false, err
	}

	// Bytes past the significant digits carry no meaning and must not
	// steer the search; zero them before comparing.
	bound := maskPrefix(prefix, hexLen)

	keys := t.sortedKeys()
	// Matching keys are contiguous and start at the first key >= the
	// zero-padded prefix, so the first candidate is the deterministic
	// lowest-key match.
	i := sort.Search(len(keys), func(i int) bool {
		return keys[i].Compare(bound) >= 0
	})
	if i < len(keys) && matchesPrefix(keys[i], bound, hexLen) {
		return t.entries[keys[i]], true, nil
	}
	return oid.Null, false, nil
}

// maskPrefix zeroes everything past the significant hex digits: the low
// nibble of the last byte for odd lengths, and every byte after that.
func maskPrefix(prefix oid.Raw, hexLen int) oid.Raw {
	full := hexLen / 2
	if hexLen%2 != 0 {
		prefix[full] &= 0xf0
		full++
	}
	for i := full; i < oid.Size; i++ {
		prefix[i] = 0
	}
	return prefix
}

func matchesPrefix(key, prefix oid.Raw, hexLen int) bool {
	full := hexLen / 2
	for i := 0; i < full; i++ {
		if key[i] != prefix[i] {
			return false
		}
	}
	if hexLen%2 != 0 {
		return key[full]>>4 == prefix[full]>>4
	}
	return true
}

// Add inserts a mapping. A key that is already mapped keeps its existing
// value: the collision policy for every namespace is to ignore the
// incoming note. The store is marked dirty only when the index actually
// changed.
func (t *Tree) Add(key, value oid.Raw) error {
	if err := t.ensure(); err != nil {
		return err
	}
	if _, exists := t.entries[key]; exists {
		return nil
	}
	t.entries[key] = value
	t.keys = append(t.keys, key)
	t.keysSorted = false
	t.dirty = true
	return nil
}

// Remove deletes the mapping for key. Removing an absent key is a no-op,
// not an error.
func (t *Tree) Remove(key oid.Raw) error {
	if err := t.ensure(); err != nil {
		return err
	}
	if _, exists := t.entries[key]; !exists {
		return nil
	}
	delete(t.entries, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	t.dirty = true
	return nil
}

// ForEach visits every entry in key order. The traversal is one-shot and
// finite; the store must not be mutated until it completes.
func (t *Tree) ForEach(visit func(key, value oid.Raw)) error {
	if err := t.ensure(); err != nil {
		return err
	}
	for _, k := range t.sortedKeys() {
		visit(k, t.entries[k])
	}
	return nil
}

// Len returns the number of entries.
func (t *Tree) Len() (int, error) {
	if err := t.ensure(); err != nil {
		return 0, err
	}
	return len(t.entries), nil
}

// Flush serializes pending mutations into a new tree object, one entry
// per key named by the key's full hex under the given mode, and clears
// the dirty flag. When nothing is dirty it returns the null id without
// touching the backend. An empty dirty store resolves to the well-known
// empty-tree id.
func (t *Tree) Flush(mode gitobj.FileMode) (oid.Raw, error) {
	if err := t.ensure(); err != nil {
		return oid.Null, err
	}
	if !t.dirty {
		return oid.Null, nil
	}
	entries := make([]store.TreeEntry, 0, len(t.entries))
	for _, k := range t.sortedKeys() {
		entries = append(entries, store.TreeEntry{
			Mode: mode,
			Name: k.String(),
			Id:   t.entries[k],
		})
	}
	treeId, err := t.backend.WriteObject(gitobj.TypeTree, store.MarshalTree(entries))
	if err != nil {
		return oid.Null, fmt.Errorf("notes: flush: %w", err)
	}
	t.dirty = false
	return treeId, nil
}

// Done releases the initialized state. Safe on an uninitialized store.
// It must be the last operation of a session; the owning layer prevents
// use after teardown.
func (t *Tree) Done() {
	t.initialized = false
	t.dirty = false
	t.entries = nil
	t.keys = nil
	t.keysSorted = false
}
