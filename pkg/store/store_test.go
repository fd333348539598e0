package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/oid"
)

func tempStore(t *testing.T, opts FileStoreOptions) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHashObjectEmptyTree(t *testing.T) {
	// The digest of the empty tree is fixed by the wire format.
	if got := HashObject(gitobj.TypeTree, nil); got != EmptyTree {
		t.Errorf("HashObject(tree, nil) = %s, want %s", got, EmptyTree)
	}
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t, FileStoreOptions{})
	data := []byte("hello world")
	id, err := s.WriteObject(gitobj.TypeBlob, data)
	if err != nil {
		t.Fatalf("WriteObject: %v", err)
	}

	gotType, gotData, err := s.ReadObject(id)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if gotType != gitobj.TypeBlob {
		t.Errorf("Type: got %q, want %q", gotType, gitobj.TypeBlob)
	}
	if !bytes.Equal(gotData, data) {
		t.Errorf("Data: got %q, want %q", gotData, data)
	}
}

func TestStoreDuplicateWrite(t *testing.T) {
	s := tempStore(t, FileStoreOptions{})
	data := []byte("duplicate")
	id1, err := s.WriteObject(gitobj.TypeBlob, data)
	if err != nil {
		t.Fatalf("WriteObject 1: %v", err)
	}
	id2, err := s.WriteObject(gitobj.TypeBlob, data)
	if err != nil {
		t.Fatalf("WriteObject 2: %v", err)
	}
	if id1 != id2 {
		t.Errorf("duplicate writes produced different digests: %s vs %s", id1, id2)
	}
}

func TestStoreFanoutLayout(t *testing.T) {
	s := tempStore(t, FileStoreOptions{})
	id, err := s.WriteObject(gitobj.TypeBlob, []byte("fanout test"))
	if err != nil {
		t.Fatalf("WriteObject: %v", err)
	}
	hex := id.String()
	objPath := filepath.Join(s.root, "objects", hex[:2], hex[2:])
	if _, err := os.Stat(objPath); os.IsNotExist(err) {
		t.Errorf("expected fan-out file at %s", objPath)
	}
}

func TestStoreCompressedRoundTrip(t *testing.T) {
	s := tempStore(t, FileStoreOptions{Compress: true, Level: 2})
	data := []byte(strings.Repeat("compressible content ", 64))
	id, err := s.WriteObject(gitobj.TypeBlob, data)
	if err != nil {
		t.Fatalf("WriteObject: %v", err)
	}

	// At rest the object should be a zstd frame.
	raw, err := os.ReadFile(s.objectPath(id))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(raw, zstdMagic) {
		t.Error("stored object is not zstd-compressed")
	}

	// Digest is over the uncompressed envelope.
	if want := HashObject(gitobj.TypeBlob, data); id != want {
		t.Errorf("digest: got %s, want %s", id, want)
	}

	_, gotData, err := s.ReadObject(id)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if !bytes.Equal(gotData, data) {
		t.Error("compressed round trip lost data")
	}
}

func TestStoreReadsCompressedWithoutEncoder(t *testing.T) {
	dir := t.TempDir()
	compressed, err := NewFileStore(dir, FileStoreOptions{Compress: true})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	data := []byte(strings.Repeat("written by an earlier session ", 32))
	id, err := compressed.WriteObject(gitobj.TypeBlob, data)
	if err != nil {
		t.Fatalf("WriteObject: %v", err)
	}
	compressed.Close()

	plain, err := NewFileStore(dir, FileStoreOptions{})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer plain.Close()
	_, gotData, err := plain.ReadObject(id)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if !bytes.Equal(gotData, data) {
		t.Error("uncompressed store failed to read compressed object")
	}
}

func TestRefs(t *testing.T) {
	s := tempStore(t, FileStoreOptions{})

	got, err := s.ResolveRef("refs/vermilion/hg2git")
	if err != nil {
		t.Fatalf("ResolveRef missing: %v", err)
	}
	if !got.IsNull() {
		t.Errorf("missing ref resolved to %s, want null", got)
	}

	id := oid.MustParse("0123456789abcdef0123456789abcdef01234567")
	if err := s.UpdateRef("refs/vermilion/hg2git", id); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	got, err = s.ResolveRef("refs/vermilion/hg2git")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if got != id {
		t.Errorf("ResolveRef: got %s, want %s", got, id)
	}

	// Null update deletes.
	if err := s.UpdateRef("refs/vermilion/hg2git", oid.Null); err != nil {
		t.Fatalf("UpdateRef null: %v", err)
	}
	got, err = s.ResolveRef("refs/vermilion/hg2git")
	if err != nil {
		t.Fatalf("ResolveRef after delete: %v", err)
	}
	if !got.IsNull() {
		t.Errorf("deleted ref resolved to %s, want null", got)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	entries := []TreeEntry{
		{Mode: gitobj.ModeGitlink, Name: "bb33000000000000000000000000000000000000", Id: oid.MustParse("1111111111111111111111111111111111111111")},
		{Mode: gitobj.ModeRegular | gitobj.ModeRW, Name: "aa11000000000000000000000000000000000000", Id: oid.MustParse("2222222222222222222222222222222222222222")},
	}
	data := MarshalTree(entries)
	parsed, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("entries: got %d, want 2", len(parsed))
	}
	// Marshal sorts by name.
	if parsed[0].Name != entries[1].Name || parsed[1].Name != entries[0].Name {
		t.Errorf("entries not sorted by name: %q, %q", parsed[0].Name, parsed[1].Name)
	}
	if parsed[0].Mode != gitobj.ModeRegular|gitobj.ModeRW || parsed[1].Mode != gitobj.ModeGitlink {
		t.Error("modes did not round-trip")
	}
	if parsed[0].Id != entries[1].Id || parsed[1].Id != entries[0].Id {
		t.Error("digests did not round-trip")
	}
}

func TestMarshalTreeEmptyHashesToEmptyTree(t *testing.T) {
	if got := HashObject(gitobj.TypeTree, MarshalTree(nil)); got != EmptyTree {
		t.Errorf("empty tree digest: got %s, want %s", got, EmptyTree)
	}
}

func TestUnmarshalTreeCorrupt(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("garbage"),
		[]byte("100644 name-without-nul"),
		append([]byte("100644 short\x00"), 0xab),
	} {
		if _, err := UnmarshalTree(data); err == nil {
			t.Errorf("UnmarshalTree(%q): expected error", data)
		}
	}
}

func TestCommitTreeId(t *testing.T) {
	tree := oid.MustParse("4b825dc642cb6eb9a060e54bf8d69288fbee4904")
	data := []byte("tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\nauthor  <vermilion@git> 0 +0000\n\n")
	got, err := CommitTreeId(data)
	if err != nil {
		t.Fatalf("CommitTreeId: %v", err)
	}
	if got != tree {
		t.Errorf("CommitTreeId: got %s, want %s", got, tree)
	}
	if _, err := CommitTreeId([]byte("parent abc\n")); err == nil {
		t.Error("CommitTreeId accepted a non-tree first line")
	}
}

func TestMemBackend(t *testing.T) {
	m := NewMem()
	data := []byte("in memory")
	id, err := m.WriteObject(gitobj.TypeBlob, data)
	if err != nil {
		t.Fatalf("WriteObject: %v", err)
	}
	typ, gotData, err := m.ReadObject(id)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if typ != gitobj.TypeBlob || !bytes.Equal(gotData, data) {
		t.Error("mem round trip mismatch")
	}
	if _, _, err := m.ReadObject(oid.MustParse("00000000000000000000000000000000000000ff")); err == nil {
		t.Error("ReadObject of missing object should fail")
	}

	if err := m.UpdateRef("refs/test", id); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	got, _ := m.ResolveRef("refs/test")
	if got != id {
		t.Errorf("ResolveRef: got %s, want %s", got, id)
	}
}
