package bplus

import "github.com/btree-query-bench/keyindex/index"

var (
	_ index.Index    = indexAdapter{}
	_ index.Iterator = (*Iterator)(nil)
)

// AsIndex exposes t through the common index.Index interface. None of the
// returned methods fail.
func AsIndex(t *Tree) index.Index { return indexAdapter{t} }

type indexAdapter struct{ t *Tree }

func (a indexAdapter) Insert(key uint64) error {
	a.t.Insert(key)
	return nil
}

func (a indexAdapter) Contains(key uint64) (bool, error) { return a.t.Contains(key), nil }
func (a indexAdapter) Delete(key uint64) (bool, error)   { return a.t.Delete(key), nil }

func (a indexAdapter) Scan(start uint64, count int) ([]uint64, error) {
	return a.t.Scan(start, count), nil
}

func (a indexAdapter) Close() error { return nil }
