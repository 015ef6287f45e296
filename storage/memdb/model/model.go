// Package model contains a reference implementation of the memdb
// operation set meant to be compared with the real implementation in
// differential tests. It favors simplicity over performance and is
// not safe for concurrent use.
package model

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/jrife/tern/storage/memdb"
	"github.com/jrife/tern/storage/memdb/keys"
)

// Model models the state of a single memdb store or of one open
// transaction: a flat ordered map.
type Model[K, V any] struct {
	kvs     *treemap.Map
	compare func(a, b K) int
	equal   func(a, b V) bool
}

// New creates an empty model
func New[K, V any](compare func(a, b K) int, equal func(a, b V) bool) *Model[K, V] {
	return &Model[K, V]{
		kvs: treemap.NewWith(func(a, b interface{}) int {
			return compare(a.(K), b.(K))
		}),
		compare: compare,
		equal:   equal,
	}
}

// Clone returns an independent copy of this model. Differential tests
// clone the committed state to model a transaction's working state.
func (model *Model[K, V]) Clone() *Model[K, V] {
	clone := New[K, V](model.compare, model.equal)
	iter := model.kvs.Iterator()

	for iter.Next() {
		clone.kvs.Put(iter.Key(), iter.Value())
	}

	return clone
}

// Exists returns true if key exists
func (model *Model[K, V]) Exists(key K) bool {
	_, ok := model.kvs.Get(key)

	return ok
}

// Get gets a key
func (model *Model[K, V]) Get(key K) (V, bool) {
	value, ok := model.kvs.Get(key)

	if !ok {
		var zero V

		return zero, false
	}

	return value.(V), true
}

// Len returns the number of keys
func (model *Model[K, V]) Len() int {
	return model.kvs.Size()
}

// Put puts a key whether or not it already exists
func (model *Model[K, V]) Put(key K, value V) {
	model.kvs.Put(key, value)
}

// Insert puts a key only if it does not exist
func (model *Model[K, V]) Insert(key K, value V) error {
	if _, ok := model.kvs.Get(key); ok {
		return memdb.ErrKeyExists
	}

	model.kvs.Put(key, value)

	return nil
}

// CompareAndSwap puts a key only if its current state matches old
func (model *Model[K, V]) CompareAndSwap(key K, old *V, new V) error {
	if err := model.match(key, old); err != nil {
		return err
	}

	model.kvs.Put(key, new)

	return nil
}

// Delete deletes a key
func (model *Model[K, V]) Delete(key K) {
	model.kvs.Remove(key)
}

// CompareAndDelete deletes a key only if its current state matches old
func (model *Model[K, V]) CompareAndDelete(key K, old *V) error {
	if err := model.match(key, old); err != nil {
		return err
	}

	model.kvs.Remove(key)

	return nil
}

// Scan collects up to limit key-value pairs in the range in ascending
// key order. limit < 0 indicates no limit.
func (model *Model[K, V]) Scan(rng keys.Range[K], limit int) []memdb.KeyValue[K, V] {
	kvs := []memdb.KeyValue[K, V]{}
	iter := model.kvs.Iterator()

	for iter.Next() {
		key := iter.Key().(K)

		if rng.Min != nil && model.compare(key, *rng.Min) < 0 {
			continue
		}

		if rng.Max != nil && model.compare(key, *rng.Max) >= 0 {
			break
		}

		if limit >= 0 && len(kvs) >= limit {
			break
		}

		kvs = append(kvs, memdb.KeyValue[K, V]{Key: key, Value: iter.Value().(V)})
	}

	return kvs
}

func (model *Model[K, V]) match(key K, old *V) error {
	current, ok := model.kvs.Get(key)

	if old == nil {
		if ok {
			return memdb.ErrValueMismatch
		}

		return nil
	}

	if !ok || !model.equal(current.(V), *old) {
		return memdb.ErrValueMismatch
	}

	return nil
}
