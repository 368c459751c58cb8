package bplus

import (
	"iter"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrIteratorInvalidated is reported by Iterator.Err when the tree was
// modified after the iterator was positioned.
var ErrIteratorInvalidated = errors.New("bplus: tree modified during iteration")

// --- RANGE (The Iterator) ---

// Iterator walks the leaf chain in ascending key order. It never looks at
// internal nodes after the initial descent.
type Iterator struct {
	t       *Tree
	leaf    *leafNode
	pos     int
	key     uint64
	version uint64
	err     error
}

// Seek returns an iterator positioned before the first key >= start.
func (t *Tree) Seek(start uint64) *Iterator {
	it := &Iterator{t: t}
	it.Seek(start)
	return it
}

// Seek repositions the iterator before the first key >= start. It also
// revalidates an iterator invalidated by a mutation.
func (it *Iterator) Seek(start uint64) {
	leaf := it.t.findLeaf(start)
	it.leaf = leaf
	it.pos, _ = slices.BinarySearch(leaf.keys, start)
	it.version = it.t.version
	it.err = nil
}

// Next advances to the next key, following the leaf chain. It returns false at
// the end of the keys or once the tree has been modified.
func (it *Iterator) Next() bool {
	if it.leaf == nil {
		return false
	}
	if it.version != it.t.version {
		it.leaf = nil
		it.err = ErrIteratorInvalidated
		return false
	}
	for it.pos >= len(it.leaf.keys) {
		if it.leaf.next == noNode {
			it.leaf = nil
			return false
		}
		it.leaf = it.t.nodes.leaf(it.leaf.next)
		it.pos = 0
	}
	it.key = it.leaf.keys[it.pos]
	it.pos++
	return true
}

// Key is the key at the current position. Only valid after Next returned true.
func (it *Iterator) Key() uint64 { return it.key }

// Err is ErrIteratorInvalidated if Next stopped because the tree changed.
func (it *Iterator) Err() error { return it.err }

// Scan returns up to count keys >= start in ascending order. The result is
// empty, never nil, when nothing matches.
func (t *Tree) Scan(start uint64, count int) []uint64 {
	if count <= 0 {
		return []uint64{}
	}
	out := make([]uint64, 0, min(count, t.count))
	it := t.Seek(start)
	for len(out) < count && it.Next() {
		out = append(out, it.Key())
	}
	return out
}

// Ascend yields keys >= start in ascending order. Iteration stops early if
// the tree is modified by the loop body.
func (t *Tree) Ascend(start uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := t.Seek(start)
		for it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}
