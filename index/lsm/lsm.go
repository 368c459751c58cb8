// Package lsm wraps Pebble (CockroachDB's LSM storage engine) behind the
// common Index interface so it can be benchmarked alongside the B+ tree and
// used as a second reference implementation in differential checks.
package lsm

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/btree-query-bench/keyindex/index"
)

var (
	_ index.Index    = (*LSM)(nil)
	_ index.Iterator = (*RangeIterator)(nil)
)

type LSM struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at dir. An empty dir keeps the
// whole store in memory.
func Open(dir string) (*LSM, error) {
	opts := &pebble.Options{
		MemTableSize: 16 << 20,
		// Keep 2 memtables so one can be flushed while the other is active.
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}
	if dir == "" {
		opts.FS = vfs.NewMem()
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrap(err, "lsm: open")
	}
	return &LSM{db: db}, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (l *LSM) Close() error {
	return l.db.Close()
}

// Insert adds key. Pebble overwrites silently, which makes a repeated
// insert a no-op for a key-only store.
func (l *LSM) Insert(key uint64) error {
	if err := l.db.Set(encodeKey(key), nil, pebble.NoSync); err != nil {
		return errors.Wrap(err, "lsm: set")
	}
	return nil
}

func (l *LSM) Contains(key uint64) (bool, error) {
	_, closer, err := l.db.Get(encodeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "lsm: get")
	}
	return true, closer.Close()
}

// Delete removes key and reports whether it was present.
func (l *LSM) Delete(key uint64) (bool, error) {
	ok, err := l.Contains(key)
	if err != nil || !ok {
		return false, err
	}
	if err := l.db.Delete(encodeKey(key), pebble.NoSync); err != nil {
		return false, errors.Wrap(err, "lsm: delete")
	}
	return true, nil
}

func (l *LSM) Scan(start uint64, count int) ([]uint64, error) {
	it, err := l.Seek(start)
	if err != nil {
		return nil, err
	}
	keys, err := index.Collect(it, count)
	if cerr := it.Close(); err == nil {
		err = cerr
	}
	return keys, err
}

// Seek returns an iterator over all keys >= start. The caller must Close it.
func (l *LSM) Seek(start uint64) (*RangeIterator, error) {
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: encodeKey(start)})
	if err != nil {
		return nil, errors.Wrap(err, "lsm: range")
	}
	iter.First()
	return &RangeIterator{iter: iter, first: true}, nil
}

// ─── Key encoding ─────────────────────────────────────────────────────────────

// encodeKey encodes a key as a big-endian 8-byte slice.
// Big-endian preserves sort order, which Pebble (and all LSM trees) rely on.
func encodeKey(k uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, k)
	return b
}

// ─── Range Iterator ───────────────────────────────────────────────────────────

type RangeIterator struct {
	iter  *pebble.Iterator
	first bool
	key   uint64
	err   error
}

func (it *RangeIterator) Next() bool {
	if it.err != nil {
		return false
	}
	var valid bool
	if it.first {
		// iter.First() was already called in Seek; just check validity.
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		if err := it.iter.Error(); err != nil {
			it.err = errors.Wrap(err, "lsm: iterate")
		}
		return false
	}
	k := it.iter.Key()
	if len(k) != 8 {
		it.err = errors.Newf("lsm: unexpected key length %d", len(k))
		return false
	}
	it.key = binary.BigEndian.Uint64(k)
	return true
}

func (it *RangeIterator) Key() uint64  { return it.key }
func (it *RangeIterator) Err() error   { return it.err }
func (it *RangeIterator) Close() error { return it.iter.Close() }
