package bplus

import (
	"slices"

	"go.uber.org/zap"
)

// promotion is what a split hands to the parent: the separator between the
// split node and its new right sibling.
type promotion struct {
	sep   uint64
	right nodeID
}

// --- INSERT ---

// Insert adds key to the tree. Inserting a key that is already present
// leaves the tree unchanged.
func (t *Tree) Insert(key uint64) {
	leafID, path := t.descend(key)
	leaf := t.nodes.leaf(leafID)
	idx, found := slices.BinarySearch(leaf.keys, key)
	if found {
		return
	}
	leaf.keys = slices.Insert(leaf.keys, idx, key)
	t.count++

	if len(leaf.keys) > t.maxKeys() {
		t.insertIntoParents(path, t.splitLeaf(leaf))
	}
	t.mutated()
}

// insertIntoParents walks the recorded path bottom-up, placing p next to the
// child it was split from and splitting ancestors that overflow in turn.
func (t *Tree) insertIntoParents(path []frame, p promotion) {
	for level := len(path) - 1; level >= 0; level-- {
		f := path[level]
		parent := t.nodes.internal(f.id)
		parent.keys = slices.Insert(parent.keys, f.slot, p.sep)
		parent.children = slices.Insert(parent.children, f.slot+1, p.right)
		if len(parent.keys) <= t.maxKeys() {
			return
		}
		p = t.splitInternal(parent)
	}

	// The root split: grow the tree by one level.
	oldRoot := t.root
	t.root = t.nodes.alloc(&internalNode{
		keys:     []uint64{p.sep},
		children: []nodeID{oldRoot, p.right},
	})
	t.height++
	t.stats.RootGrowths++
	if ce := t.log.Check(zap.DebugLevel, "root split"); ce != nil {
		ce.Write(zap.Uint64("separator", p.sep), zap.Int("height", t.height))
	}
}

// splitLeaf moves the upper half of leaf into a new right sibling. The left
// half keeps the extra key when the count is odd. The separator is a copy of
// the right leaf's first key.
func (t *Tree) splitLeaf(leaf *leafNode) promotion {
	mid := (len(leaf.keys) + 1) / 2
	right := &leafNode{
		keys: slices.Clone(leaf.keys[mid:]),
		next: leaf.next,
	}
	leaf.keys = leaf.keys[:mid]
	rightID := t.nodes.alloc(right)
	leaf.next = rightID

	t.stats.LeafSplits++
	if ce := t.log.Check(zap.DebugLevel, "split leaf"); ce != nil {
		ce.Write(zap.Uint64("separator", right.keys[0]), zap.Int("left", len(leaf.keys)), zap.Int("right", len(right.keys)))
	}
	return promotion{sep: right.keys[0], right: rightID}
}

// splitInternal moves the middle separator up and the keys and children to
// its right into a new sibling.
func (t *Tree) splitInternal(n *internalNode) promotion {
	mid := len(n.keys) / 2
	sep := n.keys[mid]
	right := &internalNode{
		keys:     slices.Clone(n.keys[mid+1:]),
		children: slices.Clone(n.children[mid+1:]),
	}
	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]
	rightID := t.nodes.alloc(right)

	t.stats.InternalSplits++
	if ce := t.log.Check(zap.DebugLevel, "split internal node"); ce != nil {
		ce.Write(zap.Uint64("separator", sep), zap.Int("left", len(n.keys)), zap.Int("right", len(right.keys)))
	}
	return promotion{sep: sep, right: rightID}
}
