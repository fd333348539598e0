package store

import (
	"fmt"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/oid"
)

type memObject struct {
	typ  gitobj.ObjectType
	data []byte
}

// Mem is an in-memory Backend for tests and ephemeral sessions.
type Mem struct {
	objects map[oid.Raw]memObject
	refs    map[string]oid.Raw
}

// NewMem creates an empty in-memory backend.
func NewMem() *Mem {
	return &Mem{
		objects: make(map[oid.Raw]memObject),
		refs:    make(map[string]oid.Raw),
	}
}

// WriteObject stores an object in memory and returns its digest.
func (m *Mem) WriteObject(typ gitobj.ObjectType, data []byte) (oid.Raw, error) {
	id := HashObject(typ, data)
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[id] = memObject{typ: typ, data: stored}
	return id, nil
}

// ReadObject retrieves an object by digest.
func (m *Mem) ReadObject(id oid.Raw) (gitobj.ObjectType, []byte, error) {
	obj, ok := m.objects[id]
	if !ok {
		return "", nil, fmt.Errorf("object read %s: not found", id)
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return obj.typ, data, nil
}

// Has reports whether the backend holds an object with the given digest.
func (m *Mem) Has(id oid.Raw) bool {
	_, ok := m.objects[id]
	return ok
}

// ResolveRef returns the digest a ref points at, or the null id.
func (m *Mem) ResolveRef(name string) (oid.Raw, error) {
	return m.refs[name], nil
}

// UpdateRef points a ref at a digest; the null id deletes it.
func (m *Mem) UpdateRef(name string, id oid.Raw) error {
	if id.IsNull() {
		delete(m.refs, name)
		return nil
	}
	m.refs[name] = id
	return nil
}
