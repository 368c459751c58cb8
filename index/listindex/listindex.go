// Package listindex keeps keys in a single sorted slice. Inserts and deletes
// are O(n); it is the naive baseline for small workloads.
package listindex

import (
	"slices"

	"github.com/btree-query-bench/keyindex/index"
)

var _ index.Index = (*ListIndex)(nil)

type ListIndex struct {
	Keys []uint64
}

func NewListIndex() *ListIndex {
	return &ListIndex{
		Keys: make([]uint64, 0),
	}
}

func (l *ListIndex) Insert(key uint64) error {
	i, found := slices.BinarySearch(l.Keys, key)
	if !found {
		l.Keys = slices.Insert(l.Keys, i, key)
	}
	return nil
}

func (l *ListIndex) Contains(key uint64) (bool, error) {
	_, found := slices.BinarySearch(l.Keys, key)
	return found, nil
}

func (l *ListIndex) Delete(key uint64) (bool, error) {
	i, found := slices.BinarySearch(l.Keys, key)
	if !found {
		return false, nil
	}
	l.Keys = slices.Delete(l.Keys, i, i+1)
	return true, nil
}

func (l *ListIndex) Scan(start uint64, count int) ([]uint64, error) {
	if count <= 0 {
		return []uint64{}, nil
	}
	i, _ := slices.BinarySearch(l.Keys, start)
	end := i + min(count, len(l.Keys)-i)
	return slices.Clone(l.Keys[i:end:end]), nil
}

func (l *ListIndex) Close() error { return nil }
