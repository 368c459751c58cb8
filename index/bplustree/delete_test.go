package bplus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeleteLeafBorrowAndMerge(t *testing.T) {
	tr := newTree(t, 4, 10, 20, 5, 6, 12, 30, 7, 17)
	require.True(t, tr.Delete(12))
	require.EqualValues(t, 0, tr.Stats().Borrows)

	// [10 17] drops to one key and takes 7 from its left sibling.
	require.True(t, tr.Delete(10))
	require.Equal(t, "[Internal] 7 20\n  [Leaf] 5 6\n  [Leaf] 7 17\n  [Leaf] 20 30\n", tr.String())
	require.EqualValues(t, 1, tr.Stats().Borrows)

	// The last leaf has no right sibling and its left one is at the minimum.
	require.True(t, tr.Delete(30))
	require.Equal(t, "[Internal] 7\n  [Leaf] 5 6\n  [Leaf] 7 17 20\n", tr.String())
	require.EqualValues(t, 1, tr.Stats().LeafMerges)

	// The first leaf borrows from the right.
	require.True(t, tr.Delete(5))
	require.Equal(t, "[Internal] 17\n  [Leaf] 6 7\n  [Leaf] 17 20\n", tr.String())
	require.EqualValues(t, 2, tr.Stats().Borrows)

	// The first leaf absorbs its right sibling and the root collapses.
	require.True(t, tr.Delete(6))
	require.Equal(t, "[Leaf] 7 17 20\n", tr.String())
	require.Equal(t, 0, tr.Height())
	s := tr.Stats()
	require.EqualValues(t, 2, s.LeafMerges)
	require.EqualValues(t, 1, s.RootCollapses)
}

func TestDeleteInternalMergeCollapsesRoot(t *testing.T) {
	tr := newTree(t, 3, 1, 2, 3, 4, 5, 6, 7)
	require.Equal(t, 2, tr.Height())

	require.True(t, tr.Delete(7))
	require.True(t, tr.Delete(6))
	require.Equal(t, "[Internal] 3 5\n  [Leaf] 1 2\n  [Leaf] 3 4\n  [Leaf] 5\n", tr.String())
	require.Equal(t, 1, tr.Height())
	s := tr.Stats()
	require.EqualValues(t, 1, s.InternalMerges)
	require.EqualValues(t, 1, s.RootCollapses)
	requireScan(t, tr, 0, 10, []uint64{1, 2, 3, 4, 5})
}

func TestDeleteInternalBorrowFromRight(t *testing.T) {
	tr := newTree(t, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	require.Equal(t, `[Internal] 5
  [Internal] 3
    [Leaf] 1 2
    [Leaf] 3 4
  [Internal] 7 9
    [Leaf] 5 6
    [Leaf] 7 8
    [Leaf] 9
`, tr.String())

	for _, k := range []uint64{1, 2, 3} {
		require.True(t, tr.Delete(k))
	}
	require.Equal(t, `[Internal] 7
  [Internal] 5
    [Leaf] 4
    [Leaf] 5 6
  [Internal] 9
    [Leaf] 7 8
    [Leaf] 9
`, tr.String())
	require.EqualValues(t, 2, tr.Stats().Borrows)
	require.Equal(t, 2, tr.Height())
}

func TestDeleteInternalBorrowFromLeft(t *testing.T) {
	tr := newTree(t, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0)
	require.Equal(t, "[Internal] 5\n  [Internal] 2 3\n    [Leaf] 0 1\n    [Leaf] 2\n    [Leaf] 3 4\n"+
		"  [Internal] 7 9\n    [Leaf] 5 6\n    [Leaf] 7 8\n    [Leaf] 9\n", tr.String())

	// Emptying the right subtree leaves its internal node with a single
	// child, so it pulls [3 4] across from the left subtree.
	for _, k := range []uint64{9, 8, 7, 6} {
		require.True(t, tr.Delete(k))
	}
	require.Equal(t, `[Internal] 3
  [Internal] 2
    [Leaf] 0 1
    [Leaf] 2
  [Internal] 5
    [Leaf] 3 4
    [Leaf] 5
`, tr.String())
	require.EqualValues(t, 3, tr.Stats().Borrows)
	requireScan(t, tr, 0, 20, []uint64{0, 1, 2, 3, 4, 5})
}

func TestDeleteReleasesNodes(t *testing.T) {
	tr := newTree(t, 4)
	for k := uint64(0); k < 1000; k++ {
		tr.Insert(k)
	}
	grown := tr.nodes.live()
	for k := uint64(0); k < 1000; k += 2 {
		tr.Delete(k)
	}
	require.Less(t, tr.nodes.live(), grown)
	for k := uint64(0); k < 1000; k += 2 {
		tr.Insert(k)
	}
	// Released slots are reused before the arena grows.
	require.LessOrEqual(t, len(tr.nodes.slots), 2*grown)
}
