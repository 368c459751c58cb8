package bplus

import (
	"github.com/cockroachdb/errors"
)

// Check walks the whole tree and verifies its structural invariants, including
// the leaf chain. A non-nil result is an assertion failure and the tree must
// not be used afterwards.
func (t *Tree) Check() error {
	c := checker{t: t}
	if err := c.walk(t.root, 0, bound{}, bound{}); err != nil {
		return err
	}
	if c.nodes != t.nodes.live() {
		return errors.AssertionFailedf("bplus: %d nodes reachable, %d allocated", c.nodes, t.nodes.live())
	}
	return c.checkChain()
}

type bound struct {
	key uint64
	set bool
}

type checker struct {
	t      *Tree
	leaves []nodeID
	nodes  int
}

func (c *checker) walk(id nodeID, depth int, lo, hi bound) error {
	t := c.t
	c.nodes++
	isRoot := id == t.root
	nd, ok := t.nodes.lookup(id)
	if !ok {
		return errors.AssertionFailedf("bplus: dangling node handle %d", id)
	}
	switch n := nd.(type) {
	case *leafNode:
		if depth != t.height {
			return errors.AssertionFailedf("bplus: leaf %d at depth %d, tree height %d", id, depth, t.height)
		}
		c.leaves = append(c.leaves, id)
		if err := c.occupancy(id, len(n.keys), t.minLeafKeys(), isRoot); err != nil {
			return err
		}
		if err := ascending(id, n.keys); err != nil {
			return err
		}
		for _, k := range n.keys {
			if (lo.set && k < lo.key) || (hi.set && k >= hi.key) {
				return errors.AssertionFailedf("bplus: key %d in leaf %d outside its separator range", k, id)
			}
		}
		return nil

	case *internalNode:
		if depth >= t.height {
			return errors.AssertionFailedf("bplus: internal node %d at depth %d, tree height %d", id, depth, t.height)
		}
		if len(n.children) != len(n.keys)+1 {
			return errors.AssertionFailedf("bplus: internal node %d has %d keys and %d children", id, len(n.keys), len(n.children))
		}
		minKeys := t.minInternalKeys()
		if isRoot {
			minKeys = 1
		}
		if err := c.occupancy(id, len(n.keys), minKeys, false); err != nil {
			return err
		}
		if err := ascending(id, n.keys); err != nil {
			return err
		}
		for i, child := range n.children {
			clo, chi := lo, hi
			if i > 0 {
				clo = bound{key: n.keys[i-1], set: true}
			}
			if i < len(n.keys) {
				chi = bound{key: n.keys[i], set: true}
			}
			if err := c.walk(child, depth+1, clo, chi); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.AssertionFailedf("bplus: node %d has unknown kind", id)
}

func (c *checker) occupancy(id nodeID, keys, minKeys int, exempt bool) error {
	if keys > c.t.maxKeys() || (!exempt && keys < minKeys) {
		return errors.AssertionFailedf("bplus: node %d holds %d keys, want [%d, %d]", id, keys, minKeys, c.t.maxKeys())
	}
	return nil
}

func ascending(id nodeID, keys []uint64) error {
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			return errors.AssertionFailedf("bplus: node %d keys not strictly ascending at %d", id, i)
		}
	}
	return nil
}

// checkChain follows the next links from the leftmost leaf and compares them
// with the leaves found by the tree walk.
func (c *checker) checkChain() error {
	t := c.t
	var (
		total int
		prev  uint64
		seen  bool
		id    = c.leaves[0]
	)
	for i, want := range c.leaves {
		if id != want {
			return errors.AssertionFailedf("bplus: leaf chain position %d is node %d, tree order has %d", i, id, want)
		}
		leaf := t.nodes.leaf(id)
		for _, k := range leaf.keys {
			if seen && k <= prev {
				return errors.AssertionFailedf("bplus: leaf chain key %d follows %d", k, prev)
			}
			prev, seen = k, true
		}
		total += len(leaf.keys)
		id = leaf.next
	}
	if id != noNode {
		return errors.AssertionFailedf("bplus: last leaf links to node %d", id)
	}
	if total != t.count {
		return errors.AssertionFailedf("bplus: leaf chain holds %d keys, tree counts %d", total, t.count)
	}
	return nil
}
