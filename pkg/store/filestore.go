package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/oid"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// FileStore is a Backend over a directory, with a 2-character fan-out
// layout: objects/ab/cdef0123... Objects may be zstd-compressed at rest;
// digests are always computed over the uncompressed envelope.
type FileStore struct {
	root    string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	// Compress enables zstd compression of stored objects.
	Compress bool
	// Level selects the zstd speed/ratio trade-off: 1 fastest, 2 default,
	// 3 better compression. Ignored when Compress is false.
	Level int
}

// NewFileStore creates a FileStore rooted at the given directory. The
// objects/ subdirectory is created lazily on first write.
func NewFileStore(root string, opts FileStoreOptions) (*FileStore, error) {
	s := &FileStore{root: root}

	// Reads must always cope with compressed objects written by an
	// earlier session, so the decoder is unconditional.
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("store: init decoder: %w", err)
	}
	s.decoder = dec

	if opts.Compress {
		var level zstd.EncoderLevel
		switch opts.Level {
		case 1:
			level = zstd.SpeedFastest
		case 3:
			level = zstd.SpeedBetterCompression
		default:
			level = zstd.SpeedDefault
		}
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(level),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, fmt.Errorf("store: init encoder: %w", err)
		}
		s.encoder = enc
	}
	return s, nil
}

// Close releases the compression codecs.
func (s *FileStore) Close() error {
	if s.encoder != nil {
		s.encoder.Close()
	}
	if s.decoder != nil {
		s.decoder.Close()
	}
	return nil
}

func (s *FileStore) objectPath(id oid.Raw) string {
	hex := id.String()
	return filepath.Join(s.root, "objects", hex[:2], hex[2:])
}

// Has reports whether the store contains an object with the given digest.
func (s *FileStore) Has(id oid.Raw) bool {
	_, err := os.Stat(s.objectPath(id))
	return err == nil
}

// WriteObject stores an object and returns its content digest. Writes are
// atomic: data goes to a temp file and is renamed into place.
func (s *FileStore) WriteObject(typ gitobj.ObjectType, data []byte) (oid.Raw, error) {
	envelope := fmt.Sprintf("%s %d\x00", typ, len(data))
	raw := append([]byte(envelope), data...)

	id := HashObject(typ, data)

	// Fast path: already exists.
	if s.Has(id) {
		return id, nil
	}

	if s.encoder != nil && len(raw) >= 128 {
		compressed := s.encoder.EncodeAll(raw, make([]byte, 0, len(raw)))
		if len(compressed) < len(raw) {
			raw = compressed
		}
	}

	hex := id.String()
	dir := filepath.Join(s.root, "objects", hex[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return oid.Null, fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return oid.Null, fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return oid.Null, fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return oid.Null, fmt.Errorf("object write close: %w", err)
	}
	if err := os.Rename(tmpName, s.objectPath(id)); err != nil {
		os.Remove(tmpName)
		return oid.Null, fmt.Errorf("object write rename: %w", err)
	}

	return id, nil
}

// ReadObject retrieves an object by digest, returning its type and raw
// content.
func (s *FileStore) ReadObject(id oid.Raw) (gitobj.ObjectType, []byte, error) {
	raw, err := os.ReadFile(s.objectPath(id))
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", id, err)
	}

	if bytes.HasPrefix(raw, zstdMagic) {
		raw, err = s.decoder.DecodeAll(raw, nil)
		if err != nil {
			return "", nil, fmt.Errorf("object read %s: decompress: %w", id, err)
		}
	}

	// Parse envelope: "type len\0content"
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: invalid format (no NUL)", id)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("object read %s: invalid header %q", id, header)
	}
	typ := gitobj.ObjectType(parts[0])
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: invalid length %q: %w", id, parts[1], err)
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("object read %s: length mismatch (header=%d, actual=%d)", id, length, len(content))
	}

	return typ, content, nil
}

func (s *FileStore) refPath(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// ResolveRef reads a loose ref. A missing ref resolves to the null id.
func (s *FileStore) ResolveRef(name string) (oid.Raw, error) {
	data, err := os.ReadFile(s.refPath(name))
	if os.IsNotExist(err) {
		return oid.Null, nil
	}
	if err != nil {
		return oid.Null, fmt.Errorf("resolve ref %s: %w", name, err)
	}
	id, err := oid.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return oid.Null, fmt.Errorf("resolve ref %s: %w", name, err)
	}
	return id, nil
}

// UpdateRef atomically writes a loose ref. Updating to the null id
// deletes the ref.
func (s *FileStore) UpdateRef(name string, id oid.Raw) error {
	path := s.refPath(name)
	if id.IsNull() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete ref %s: %w", name, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("update ref %s: mkdir: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ref-tmp-*")
	if err != nil {
		return fmt.Errorf("update ref %s: tmpfile: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := fmt.Fprintf(tmp, "%s\n", id); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("update ref %s: write: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("update ref %s: close: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("update ref %s: rename: %w", name, err)
	}
	return nil
}
