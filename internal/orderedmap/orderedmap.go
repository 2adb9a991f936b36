// Package orderedmap provides a map that iterates in insertion order.
//
// Route maps, schema properties and namespace children all rely on source
// order for deterministic output, so none of them can live in a plain Go map.
package orderedmap

import "iter"

// Map is an insertion-ordered association. The zero value is not usable;
// create one with New.
type Map[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

// New returns an empty Map with room for size entries.
func New[K comparable, V any](size int) *Map[K, V] {
	return &Map[K, V]{
		keys:  make([]K, 0, size),
		index: make(map[K]int, size),
		vals:  make([]V, 0, size),
	}
}

// Set stores value under key. Overwriting an existing key keeps its
// original position.
func (m *Map[K, V]) Set(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[key]
	return ok
}

// Delete removes key, preserving the relative order of the remaining entries.
func (m *Map[K, V]) Delete(key K) {
	i, ok := m.index[key]
	if !ok {
		return
	}
	delete(m.index, key)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
}

// Len returns the number of entries. A nil Map has length zero.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns a copy of the values in insertion order.
func (m *Map[K, V]) Values() []V {
	if m == nil {
		return nil
	}
	out := make([]V, len(m.vals))
	copy(out, m.vals)
	return out
}

// All iterates over key/value pairs in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}
