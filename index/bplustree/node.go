package bplus

import "github.com/cockroachdb/errors"

// nodeID is a handle into the tree's arena. The zero handle is never
// allocated and doubles as "no node" for leaf chain links.
type nodeID uint32

const noNode nodeID = 0

// node is closed over *leafNode and *internalNode.
type node interface {
	isLeaf() bool
	numKeys() int
}

type leafNode struct {
	keys []uint64
	// next is the following leaf in key order. It never owns the target.
	next nodeID
}

type internalNode struct {
	keys     []uint64
	children []nodeID // len(children) == len(keys)+1
}

func (*leafNode) isLeaf() bool       { return true }
func (l *leafNode) numKeys() int     { return len(l.keys) }
func (*internalNode) isLeaf() bool   { return false }
func (n *internalNode) numKeys() int { return len(n.keys) }

// ─── Arena ────────────────────────────────────────────────────────────────────

type arena struct {
	slots []node // slots[0] stays nil
	free  []nodeID
}

func newArena() arena {
	return arena{slots: make([]node, 1, 64)}
}

func (a *arena) alloc(n node) nodeID {
	if k := len(a.free); k > 0 {
		id := a.free[k-1]
		a.free = a.free[:k-1]
		a.slots[id] = n
		return id
	}
	a.slots = append(a.slots, n)
	return nodeID(len(a.slots) - 1)
}

func (a *arena) release(id nodeID) {
	a.slots[id] = nil
	a.free = append(a.free, id)
}

// live is the number of allocated nodes.
func (a *arena) live() int {
	return len(a.slots) - 1 - len(a.free)
}

func (a *arena) lookup(id nodeID) (node, bool) {
	if id == noNode || int(id) >= len(a.slots) || a.slots[id] == nil {
		return nil, false
	}
	return a.slots[id], true
}

func (a *arena) get(id nodeID) node {
	n, ok := a.lookup(id)
	if !ok {
		panic(errors.AssertionFailedf("bplus: dangling node handle %d", id))
	}
	return n
}

func (a *arena) leaf(id nodeID) *leafNode {
	l, ok := a.get(id).(*leafNode)
	if !ok {
		panic(errors.AssertionFailedf("bplus: node %d is not a leaf", id))
	}
	return l
}

func (a *arena) internal(id nodeID) *internalNode {
	n, ok := a.get(id).(*internalNode)
	if !ok {
		panic(errors.AssertionFailedf("bplus: node %d is not an internal node", id))
	}
	return n
}
