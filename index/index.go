package index

// Index is the common interface for all ordered key set implementations.
// Keys are fixed-width unsigned integers; no values are stored.
type Index interface {
	// Insert adds key. Inserting a key that is already present is a no-op.
	Insert(key uint64) error
	Contains(key uint64) (bool, error)
	// Delete removes key and reports whether it was present.
	Delete(key uint64) (bool, error)
	// Scan returns up to count keys >= start in ascending order.
	Scan(start uint64, count int) ([]uint64, error)
	Close() error
}
