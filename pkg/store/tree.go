package store

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/oid"
)

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode gitobj.FileMode
	Name string
	Id   oid.Raw
}

// MarshalTree serializes entries in git's tree wire format:
// "<octal mode> <name>\0<20 raw digest bytes>" per entry, sorted by name.
func MarshalTree(entries []TreeEntry) []byte {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	for _, e := range sorted {
		fmt.Fprintf(&buf, "%s %s\x00", e.Mode, e.Name)
		buf.Write(e.Id.RawBytes())
	}
	return buf.Bytes()
}

// UnmarshalTree parses git tree wire format.
func UnmarshalTree(data []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	rest := data
	for len(rest) > 0 {
		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: missing mode separator")
		}
		mode, err := strconv.ParseUint(string(rest[:sp]), 8, 16)
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: invalid mode %q: %w", rest[:sp], err)
		}
		rest = rest[sp+1:]

		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: missing name terminator")
		}
		name := string(rest[:nul])
		rest = rest[nul+1:]

		if len(rest) < oid.Size {
			return nil, fmt.Errorf("unmarshal tree: truncated digest for %q", name)
		}
		id, err := oid.FromRawBytes(rest[:oid.Size])
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		rest = rest[oid.Size:]

		entries = append(entries, TreeEntry{
			Mode: gitobj.FileMode(mode),
			Name: name,
			Id:   id,
		})
	}
	return entries, nil
}

// CommitTreeId extracts the tree digest from a commit object's first line,
// "tree <hex>".
func CommitTreeId(data []byte) (oid.Raw, error) {
	line := data
	if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
		line = data[:nl]
	}
	if !bytes.HasPrefix(line, []byte("tree ")) {
		return oid.Null, fmt.Errorf("commit: first line %q is not a tree header", line)
	}
	id, err := oid.Parse(string(line[len("tree "):]))
	if err != nil {
		return oid.Null, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}
