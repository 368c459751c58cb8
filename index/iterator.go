package index

// Iterator walks keys in ascending order.
type Iterator interface {
	Next() bool
	Key() uint64
	Err() error
}

// Collect drains up to count keys from it.
func Collect(it Iterator, count int) ([]uint64, error) {
	if count <= 0 {
		return []uint64{}, nil
	}
	out := make([]uint64, 0, min(count, 1024))
	for len(out) < count && it.Next() {
		out = append(out, it.Key())
	}
	return out, it.Err()
}
