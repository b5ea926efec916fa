// Package orderedmap is a small key-ordered map built on github.com/google/btree. It
// provides the handful of operations the free map indices need: point lookup, insertion,
// removal, predecessor/successor search, ordered iteration, and an atomic get-compute-
// put-or-delete update.
package orderedmap

import (
	"github.com/google/btree"
	"golang.org/x/exp/constraints"
)

// DefaultDegree is the btree degree used by New when a non-positive degree is provided
const DefaultDegree = 32

// Entry is a single key/value pair stored in a Map
type Entry[K constraints.Ordered, V any] struct {
	Key   K
	Value V
}

// Map is an ordered map from K to V. It is not safe for concurrent use.
type Map[K constraints.Ordered, V any] struct {
	tree *btree.BTreeG[Entry[K, V]]
}

func New[K constraints.Ordered, V any](degree int) *Map[K, V] {
	if degree < 2 {
		degree = DefaultDegree
	}

	return &Map[K, V]{
		tree: btree.NewG[Entry[K, V]](degree, func(a, b Entry[K, V]) bool {
			return a.Key < b.Key
		}),
	}
}

func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	entry, ok := m.tree.Get(Entry[K, V]{Key: key})
	return entry.Value, ok
}

// Set inserts or replaces the value stored at key, returning the previous value if one existed
func (m *Map[K, V]) Set(key K, value V) (V, bool) {
	old, replaced := m.tree.ReplaceOrInsert(Entry[K, V]{Key: key, Value: value})
	return old.Value, replaced
}

// Delete removes key from the map, returning the removed value if one existed
func (m *Map[K, V]) Delete(key K) (V, bool) {
	old, deleted := m.tree.Delete(Entry[K, V]{Key: key})
	return old.Value, deleted
}

// Update looks up key and passes its current value (and whether it exists) to update. If update
// returns keep=true, the returned value is stored at key; otherwise key is removed if present.
// The map is not modified until update returns, so update may abort by returning the value it
// was given.
func (m *Map[K, V]) Update(key K, update func(value V, exists bool) (newValue V, keep bool)) {
	current, exists := m.Get(key)
	newValue, keep := update(current, exists)

	if keep {
		m.tree.ReplaceOrInsert(Entry[K, V]{Key: key, Value: newValue})
	} else if exists {
		m.tree.Delete(Entry[K, V]{Key: key})
	}
}

// Ceil returns the entry with the smallest key greater than or equal to key
func (m *Map[K, V]) Ceil(key K) (Entry[K, V], bool) {
	var found Entry[K, V]
	var ok bool
	m.tree.AscendGreaterOrEqual(Entry[K, V]{Key: key}, func(item Entry[K, V]) bool {
		found = item
		ok = true
		return false
	})

	return found, ok
}

// Higher returns the entry with the smallest key strictly greater than key
func (m *Map[K, V]) Higher(key K) (Entry[K, V], bool) {
	var found Entry[K, V]
	var ok bool
	m.tree.AscendGreaterOrEqual(Entry[K, V]{Key: key}, func(item Entry[K, V]) bool {
		if item.Key == key {
			return true
		}

		found = item
		ok = true
		return false
	})

	return found, ok
}

// Floor returns the entry with the largest key less than or equal to key
func (m *Map[K, V]) Floor(key K) (Entry[K, V], bool) {
	var found Entry[K, V]
	var ok bool
	m.tree.DescendLessOrEqual(Entry[K, V]{Key: key}, func(item Entry[K, V]) bool {
		found = item
		ok = true
		return false
	})

	return found, ok
}

func (m *Map[K, V]) Min() (Entry[K, V], bool) {
	return m.tree.Min()
}

func (m *Map[K, V]) Max() (Entry[K, V], bool) {
	return m.tree.Max()
}

// Ascend calls iterator for every entry in key order until iterator returns false
func (m *Map[K, V]) Ascend(iterator func(key K, value V) bool) {
	m.tree.Ascend(func(item Entry[K, V]) bool {
		return iterator(item.Key, item.Value)
	})
}

// Clear removes every entry from the map
func (m *Map[K, V]) Clear() {
	m.tree.Clear(true)
}
