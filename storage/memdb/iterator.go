package memdb

import (
	"github.com/benbjohnson/immutable"
	"github.com/jrife/tern/storage/memdb/keys"
)

var _ Iterator[string, string] = (*iterator[string, string])(nil)

// iterator is the Iterator implementation for a transaction. It walks a
// snapshot captured when the iterator was created, so updates made by the
// transaction after that point are not visible to it.
type iterator[K, V any] struct {
	iter    *immutable.SortedMapIterator[K, V]
	rng     keys.Range[K]
	order   SortOrder
	compare func(a, b K) int
	key     K
	value   V
}

func newIterator[K, V any](snapshot *immutable.SortedMap[K, V], rng keys.Range[K], order SortOrder, compare func(a, b K) int) *iterator[K, V] {
	iter := snapshot.Iterator()

	if order == SortOrderDesc {
		if rng.Max != nil {
			// Seek positions the iterator at the first key >= Max, which
			// sits just outside the half-open range. The Prev discards it
			// so that iteration starts at the largest key < Max. If no key
			// is >= Max the whole map is below Max and iteration starts
			// from the last key.
			iter.Seek(*rng.Max)

			if iter.Done() {
				iter.Last()
			} else {
				iter.Prev()
			}
		} else {
			iter.Last()
		}
	} else {
		if rng.Min != nil {
			iter.Seek(*rng.Min)
		} else {
			iter.First()
		}
	}

	return &iterator[K, V]{iter: iter, rng: rng, order: order, compare: compare}
}

// Next implements Iterator.Next
func (iter *iterator[K, V]) Next() bool {
	var key K
	var value V
	var ok bool

	if iter.order == SortOrderDesc {
		key, value, ok = iter.iter.Prev()

		if !ok || iter.rng.Min != nil && iter.compare(key, *iter.rng.Min) < 0 {
			return false
		}
	} else {
		key, value, ok = iter.iter.Next()

		if !ok || iter.rng.Max != nil && iter.compare(key, *iter.rng.Max) >= 0 {
			return false
		}
	}

	iter.key = key
	iter.value = value

	return true
}

// Key implements Iterator.Key
func (iter *iterator[K, V]) Key() K {
	return iter.key
}

// Value implements Iterator.Value
func (iter *iterator[K, V]) Value() V {
	return iter.value
}

// Error implements Iterator.Error
func (iter *iterator[K, V]) Error() error {
	return nil
}
