// Package bplus implements an in-memory B+ tree over uint64 keys.
//
// Internal nodes hold separator keys only; every key lives in exactly one
// leaf and the leaves are chained left to right for range scans. Nodes are
// kept in an arena and addressed by integer handles, so merges release slots
// instead of leaving pointers behind.
//
// For an order m (maximum children of an internal node):
//
//	max keys per node        m-1
//	min keys per leaf        ⌈(m-1)/2⌉
//	min children (internal)  ⌈m/2⌉
//
// The root is exempt from the minimums. A Tree is not safe for concurrent use.
package bplus

import (
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// MinOrder is the smallest order that still allows nodes to split.
const MinOrder = 3

// ErrInvalidOrder is returned by New when the order is below MinOrder.
var ErrInvalidOrder = errors.New("bplus: order must be at least 3")

// Stats counts structural changes since the tree was created.
type Stats struct {
	LeafSplits     uint64
	InternalSplits uint64
	Borrows        uint64
	LeafMerges     uint64
	InternalMerges uint64
	RootGrowths    uint64
	RootCollapses  uint64
}

// Tree is an in-memory B+ tree over uint64 keys. Keys live only in the
// leaves, which are chained left to right for range scans. A Tree is not
// safe for concurrent use.
type Tree struct {
	order  int
	root   nodeID
	nodes  arena
	count  int
	height int // edges from the root to any leaf

	// version changes on every mutation and invalidates live iterators.
	version uint64
	path    []frame
	stats   Stats

	log             *zap.Logger
	checkInvariants bool
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger makes the tree log splits, merges and root changes at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.log = l
		}
	}
}

// WithInvariantChecks runs Check after every mutation and panics with the
// assertion failure if the tree is no longer well formed.
func WithInvariantChecks(on bool) Option {
	return func(t *Tree) { t.checkInvariants = on }
}

// New returns an empty tree whose internal nodes hold at most order children.
func New(order int, opts ...Option) (*Tree, error) {
	if order < MinOrder {
		return nil, errors.Wrapf(ErrInvalidOrder, "order %d", order)
	}
	t := &Tree{
		order: order,
		nodes: newArena(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.nodes.alloc(&leafNode{})
	return t, nil
}

// Order is the maximum number of children of an internal node.
func (t *Tree) Order() int { return t.order }

// Len is the number of keys in the tree.
func (t *Tree) Len() int { return t.count }

// Stats returns the structural change counters since New.
func (t *Tree) Stats() Stats { return t.stats }

// Height is the number of edges between the root and the leaves. A tree
// whose root is a leaf has height 0.
func (t *Tree) Height() int { return t.height }

func (t *Tree) maxKeys() int         { return t.order - 1 }
func (t *Tree) minLeafKeys() int     { return t.order / 2 }
func (t *Tree) minInternalKeys() int { return (t.order+1)/2 - 1 }

func (t *Tree) minKeys(n node) int {
	if n.isLeaf() {
		return t.minLeafKeys()
	}
	return t.minInternalKeys()
}

// --- Traversal ---

// frame records one step of a descent: the internal node visited and the
// child slot taken out of it.
type frame struct {
	id   nodeID
	slot int
}

// childSlot is the upper-bound position of key among the separators.
func childSlot(keys []uint64, key uint64) int {
	i, found := slices.BinarySearch(keys, key)
	if found {
		return i + 1
	}
	return i
}

// findLeaf returns the leaf that would hold key.
func (t *Tree) findLeaf(key uint64) *leafNode {
	id := t.root
	for {
		switch n := t.nodes.get(id).(type) {
		case *leafNode:
			return n
		case *internalNode:
			id = n.children[childSlot(n.keys, key)]
		}
	}
}

// descend is findLeaf that also records the ancestor path. The returned
// slice aliases t.path and is only valid until the next descent.
func (t *Tree) descend(key uint64) (nodeID, []frame) {
	path := t.path[:0]
	id := t.root
	for {
		switch n := t.nodes.get(id).(type) {
		case *leafNode:
			t.path = path
			return id, path
		case *internalNode:
			slot := childSlot(n.keys, key)
			path = append(path, frame{id: id, slot: slot})
			id = n.children[slot]
		}
	}
}

// --- GET (Point Query) ---

// Contains reports whether key is in the tree.
func (t *Tree) Contains(key uint64) bool {
	leaf := t.findLeaf(key)
	_, found := slices.BinarySearch(leaf.keys, key)
	return found
}

// Min returns the smallest key, or false if the tree is empty.
func (t *Tree) Min() (uint64, bool) {
	id := t.root
	for {
		switch n := t.nodes.get(id).(type) {
		case *leafNode:
			if len(n.keys) == 0 {
				return 0, false
			}
			return n.keys[0], true
		case *internalNode:
			id = n.children[0]
		}
	}
}

// Max returns the largest key, or false if the tree is empty.
func (t *Tree) Max() (uint64, bool) {
	id := t.root
	for {
		switch n := t.nodes.get(id).(type) {
		case *leafNode:
			if len(n.keys) == 0 {
				return 0, false
			}
			return n.keys[len(n.keys)-1], true
		case *internalNode:
			id = n.children[len(n.children)-1]
		}
	}
}

func (t *Tree) mutated() {
	t.version++
	if !t.checkInvariants {
		return
	}
	if err := t.Check(); err != nil {
		panic(err)
	}
}
