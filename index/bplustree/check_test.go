package bplus

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func buildOrderFour(t *testing.T) *Tree {
	t.Helper()
	tr, err := New(4)
	require.NoError(t, err)
	for _, k := range []uint64{10, 20, 5, 6, 12, 30, 7, 17} {
		tr.Insert(k)
	}
	require.NoError(t, tr.Check())
	return tr
}

func leafAt(tr *Tree, slot int) *leafNode {
	root := tr.nodes.internal(tr.root)
	return tr.nodes.leaf(root.children[slot])
}

func TestCheckDetectsCorruption(t *testing.T) {
	for _, tc := range []struct {
		name    string
		corrupt func(tr *Tree)
	}{
		{"unsorted leaf", func(tr *Tree) {
			l := leafAt(tr, 0)
			l.keys[0], l.keys[1] = l.keys[1], l.keys[0]
		}},
		{"key outside separator range", func(tr *Tree) {
			leafAt(tr, 0).keys[2] = 11
		}},
		{"leaf underflow", func(tr *Tree) {
			l := leafAt(tr, 2)
			l.keys = l.keys[:1]
			tr.count--
		}},
		{"broken leaf chain", func(tr *Tree) {
			leafAt(tr, 0).next = tr.nodes.internal(tr.root).children[2]
		}},
		{"chain runs past last leaf", func(tr *Tree) {
			leafAt(tr, 2).next = tr.nodes.internal(tr.root).children[0]
		}},
		{"child count", func(tr *Tree) {
			root := tr.nodes.internal(tr.root)
			root.keys = root.keys[:1]
		}},
		{"stale count", func(tr *Tree) {
			tr.count++
		}},
		{"wrong height", func(tr *Tree) {
			tr.height = 2
		}},
		{"leaked node", func(tr *Tree) {
			tr.nodes.alloc(&leafNode{})
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tr := buildOrderFour(t)
			tc.corrupt(tr)
			err := tr.Check()
			require.Error(t, err)
			require.True(t, errors.IsAssertionFailure(err), "%v", err)
		})
	}
}

func TestInvariantChecksPanic(t *testing.T) {
	tr, err := New(4, WithInvariantChecks(true))
	require.NoError(t, err)
	for _, k := range []uint64{10, 20, 5, 6, 12, 30, 7, 17} {
		tr.Insert(k)
	}
	tr.count += 3
	require.Panics(t, func() { tr.Insert(100) })
}

func TestArenaRejectsWrongVariant(t *testing.T) {
	tr := buildOrderFour(t)
	require.Panics(t, func() { tr.nodes.leaf(tr.root) })
	require.Panics(t, func() { tr.nodes.internal(leafAt(tr, 0).next) })
	require.Panics(t, func() { tr.nodes.get(noNode) })
}
