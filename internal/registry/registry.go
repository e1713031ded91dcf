// Package registry stores resolved bindings by key.
package registry

import (
	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/typesys"
)

// Entry pairs a key with its binding.
type Entry struct {
	Key     typesys.Key
	Binding binding.Binding
}

// Registry maps keys to bindings and remembers the order in which keys were
// first put. A child registry sees its parent's bindings but writes only to
// its own map, so a child may shadow a parent key.
//
// Registry is not safe for concurrent use; a generation run owns its
// registries.
type Registry struct {
	parent   *Registry
	bindings map[typesys.Key]binding.Binding
	order    []typesys.Key
}

// New creates an empty root registry.
func New() *Registry {
	return &Registry{bindings: make(map[typesys.Key]binding.Binding)}
}

// NewChild creates an empty registry that falls back to r for lookups.
func (r *Registry) NewChild() *Registry {
	child := New()
	child.parent = r
	return child
}

// Parent returns the registry r falls back to, or nil.
func (r *Registry) Parent() *Registry { return r.parent }

// Lookup finds the binding of k in r or its ancestors.
func (r *Registry) Lookup(k typesys.Key) (binding.Binding, bool) {
	for cur := r; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[k]; ok {
			return b, true
		}
	}
	return nil, false
}

// LookupLocal finds the binding of k in r only.
func (r *Registry) LookupLocal(k typesys.Key) (binding.Binding, bool) {
	b, ok := r.bindings[k]
	return b, ok
}

// Put records b as the binding of k. It fails with DuplicateBindingError
// when r already holds a binding for k; bindings held by ancestors do not
// conflict.
func (r *Registry) Put(k typesys.Key, b binding.Binding) error {
	if k.IsZero() {
		return ErrKeyZero
	}
	if b == nil {
		return ErrBindingNil
	}
	if existing, ok := r.bindings[k]; ok {
		return DuplicateBindingError{Key: k, Existing: existing, Duplicate: b}
	}
	r.bindings[k] = b
	r.order = append(r.order, k)
	return nil
}

// Entries returns the local bindings in the order they were put.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.order))
	for i, k := range r.order {
		entries[i] = Entry{Key: k, Binding: r.bindings[k]}
	}
	return entries
}

// Keys returns the local keys in the order they were put.
func (r *Registry) Keys() []typesys.Key {
	return append([]typesys.Key(nil), r.order...)
}

// Len returns the number of local bindings.
func (r *Registry) Len() int { return len(r.order) }
