package bplus

import (
	"slices"

	"go.uber.org/zap"
)

// --- DELETE ---

// Delete removes key and reports whether it was present.
//
// An underflowing node first tries to borrow from its left sibling, then
// from its right one. If neither can spare a key it is merged into its left
// sibling, or absorbs its right sibling when it is the first child. The
// check repeats on the parent, and an internal root left with a single
// child is replaced by that child.
func (t *Tree) Delete(key uint64) bool {
	leafID, path := t.descend(key)
	leaf := t.nodes.leaf(leafID)
	idx, found := slices.BinarySearch(leaf.keys, key)
	if !found {
		return false
	}
	leaf.keys = slices.Delete(leaf.keys, idx, idx+1)
	t.count--

	t.rebalance(path, leafID)
	t.mutated()
	return true
}

func (t *Tree) underflows(id nodeID) bool {
	n := t.nodes.get(id)
	return n.numKeys() < t.minKeys(n)
}

// rebalance restores minimum occupancy from id up the recorded path.
func (t *Tree) rebalance(path []frame, id nodeID) {
	for level := len(path) - 1; level >= 0; level-- {
		if !t.underflows(id) {
			return
		}
		f := path[level]
		parent := t.nodes.internal(f.id)
		if !t.borrow(parent, f.slot) {
			t.merge(parent, f.slot)
		}
		id = f.id
	}
	t.collapseRoot()
}

// borrow moves one entry into parent.children[slot] from an adjacent sibling
// that holds more than the minimum. It reports whether it succeeded.
func (t *Tree) borrow(parent *internalNode, slot int) bool {
	if slot > 0 {
		left := t.nodes.get(parent.children[slot-1])
		if left.numKeys() > t.minKeys(left) {
			t.borrowFromLeft(parent, slot)
			return true
		}
	}
	if slot < len(parent.children)-1 {
		right := t.nodes.get(parent.children[slot+1])
		if right.numKeys() > t.minKeys(right) {
			t.borrowFromRight(parent, slot)
			return true
		}
	}
	return false
}

func (t *Tree) borrowFromLeft(parent *internalNode, slot int) {
	t.stats.Borrows++
	switch n := t.nodes.get(parent.children[slot]).(type) {
	case *leafNode:
		left := t.nodes.leaf(parent.children[slot-1])
		last := len(left.keys) - 1
		k := left.keys[last]
		left.keys = left.keys[:last]
		n.keys = slices.Insert(n.keys, 0, k)
		parent.keys[slot-1] = k
	case *internalNode:
		left := t.nodes.internal(parent.children[slot-1])
		lastKey, lastChild := len(left.keys)-1, len(left.children)-1
		n.keys = slices.Insert(n.keys, 0, parent.keys[slot-1])
		n.children = slices.Insert(n.children, 0, left.children[lastChild])
		parent.keys[slot-1] = left.keys[lastKey]
		left.keys = left.keys[:lastKey]
		left.children = left.children[:lastChild]
	}
}

func (t *Tree) borrowFromRight(parent *internalNode, slot int) {
	t.stats.Borrows++
	switch n := t.nodes.get(parent.children[slot]).(type) {
	case *leafNode:
		right := t.nodes.leaf(parent.children[slot+1])
		n.keys = append(n.keys, right.keys[0])
		right.keys = slices.Delete(right.keys, 0, 1)
		parent.keys[slot] = right.keys[0]
	case *internalNode:
		right := t.nodes.internal(parent.children[slot+1])
		n.keys = append(n.keys, parent.keys[slot])
		n.children = append(n.children, right.children[0])
		parent.keys[slot] = right.keys[0]
		right.keys = slices.Delete(right.keys, 0, 1)
		right.children = slices.Delete(right.children, 0, 1)
	}
}

// merge folds parent.children[slot] together with a sibling, preferring the
// left one.
func (t *Tree) merge(parent *internalNode, slot int) {
	if slot > 0 {
		t.mergeChildren(parent, slot-1)
		return
	}
	t.mergeChildren(parent, slot)
}

// mergeChildren appends parent.children[i+1] to parent.children[i] and drops
// separator i from the parent.
func (t *Tree) mergeChildren(parent *internalNode, i int) {
	leftID, rightID := parent.children[i], parent.children[i+1]
	sep := parent.keys[i]
	switch left := t.nodes.get(leftID).(type) {
	case *leafNode:
		right := t.nodes.leaf(rightID)
		left.keys = append(left.keys, right.keys...)
		left.next = right.next
		t.stats.LeafMerges++
	case *internalNode:
		right := t.nodes.internal(rightID)
		left.keys = append(left.keys, sep)
		left.keys = append(left.keys, right.keys...)
		left.children = append(left.children, right.children...)
		t.stats.InternalMerges++
	}
	t.nodes.release(rightID)
	parent.keys = slices.Delete(parent.keys, i, i+1)
	parent.children = slices.Delete(parent.children, i+1, i+2)

	if ce := t.log.Check(zap.DebugLevel, "merge nodes"); ce != nil {
		ce.Write(zap.Uint64("separator", sep), zap.Uint32("into", uint32(leftID)))
	}
}

func (t *Tree) collapseRoot() {
	root, ok := t.nodes.get(t.root).(*internalNode)
	if !ok || len(root.keys) > 0 {
		return
	}
	old := t.root
	t.root = root.children[0]
	t.nodes.release(old)
	t.height--
	t.stats.RootCollapses++
	if ce := t.log.Check(zap.DebugLevel, "root collapsed"); ce != nil {
		ce.Write(zap.Int("height", t.height))
	}
}
