// Package btree adapts github.com/google/btree to the index.Index interface.
// It is the reference implementation the B+ tree is checked and benchmarked
// against.
package btree

import (
	gbtree "github.com/google/btree"

	"github.com/btree-query-bench/keyindex/index"
)

var _ index.Index = (*BTree)(nil)

// BTree is a set of keys held in a google/btree.
type BTree struct {
	tr *gbtree.BTreeG[uint64]
}

// NewBTree returns an empty set backed by a B-tree of minimum degree t.
func NewBTree(t int) *BTree {
	if t < 2 {
		t = 2
	}
	return &BTree{tr: gbtree.NewOrderedG[uint64](t)}
}

func (bt *BTree) Insert(key uint64) error {
	bt.tr.ReplaceOrInsert(key)
	return nil
}

func (bt *BTree) Contains(key uint64) (bool, error) {
	return bt.tr.Has(key), nil
}

func (bt *BTree) Delete(key uint64) (bool, error) {
	_, ok := bt.tr.Delete(key)
	return ok, nil
}

func (bt *BTree) Scan(start uint64, count int) ([]uint64, error) {
	out := []uint64{}
	if count <= 0 {
		return out, nil
	}
	bt.tr.AscendGreaterOrEqual(start, func(k uint64) bool {
		out = append(out, k)
		return len(out) < count
	})
	return out, nil
}

func (bt *BTree) Len() int     { return bt.tr.Len() }
func (bt *BTree) Close() error { return nil }
