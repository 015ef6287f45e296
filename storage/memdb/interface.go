package memdb

import (
	"context"

	"github.com/jrife/tern/storage/memdb/keys"
)

// SortOrder describes the order in which an iterator
// visits keys. Must be either SortOrderAsc or SortOrderDesc.
// Any other value is treated as SortOrderAsc.
type SortOrder int

const (
	// SortOrderAsc visits keys in increasing order
	SortOrderAsc SortOrder = iota
	// SortOrderDesc visits keys in decreasing order
	SortOrderDesc
)

// KeyValue is a single key-value pair
type KeyValue[K, V any] struct {
	Key   K
	Value V
}

// Store is an in-memory ordered key-value store with snapshot-isolated
// transactions. Read transactions never block and observe a fixed snapshot
// of the store taken when the transaction begins. Write transactions are
// serialized: at most one write transaction exists at a time and each
// begins from the state left by the last committed write. A store is safe
// for use by many goroutines at once.
type Store[K, V any] interface {
	// Begin starts a transaction. writable should be true for read-write
	// transactions and false for read-only transactions. Beginning a
	// read-only transaction never blocks. Beginning a read-write
	// transaction blocks until the current write transaction, if any,
	// commits or rolls back; if ctx is cancelled while waiting Begin
	// returns ctx's error and no transaction. Every transaction returned
	// by Begin must be ended with exactly one call to Commit or Rollback
	// or no write transaction will ever begin again.
	//
	// Don't Do This (Deadlock):
	//   1) txn, _ := store.Begin(ctx, true)
	//   2) store.Begin(ctx, true) from the same goroutine
	//      before txn commits or rolls back
	Begin(ctx context.Context, writable bool) (Transaction[K, V], error)
	// View runs fn inside a read-only transaction which is always rolled
	// back when fn returns. It returns the error returned by fn.
	View(ctx context.Context, fn func(txn Transaction[K, V]) error) error
	// Update runs fn inside a read-write transaction. If fn returns nil
	// the transaction is committed, otherwise it is rolled back and
	// Update returns the error returned by fn.
	Update(ctx context.Context, fn func(txn Transaction[K, V]) error) error
}

// Transaction is a transaction for a store. It must only be used by one
// goroutine at a time. All operations on an ended transaction return
// ErrTxClosed and have no effect. All update operations on a read-only
// transaction return ErrTxNotWritable and have no effect.
type Transaction[K, V any] interface {
	// Exists returns true if key exists
	Exists(key K) (bool, error)
	// Get gets a key. It must observe updates to that key made previously
	// by this transaction. It never observes commits made by other
	// transactions after this one began. The second return value is false
	// if the key does not exist.
	Get(key K) (V, bool, error)
	// Len returns the number of keys
	Len() (int, error)
	// Put puts a key whether or not it already exists
	Put(key K, value V) error
	// Insert puts a key only if it does not exist. It returns
	// ErrKeyExists if the key exists and leaves it unchanged.
	Insert(key K, value V) error
	// CompareAndSwap puts a key only if its current state matches old:
	// a non-nil old matches a key whose value equals *old, a nil old
	// matches an absent key. It returns ErrValueMismatch and changes
	// nothing otherwise.
	CompareAndSwap(key K, old *V, new V) error
	// Delete deletes a key. If the key doesn't exist it has no
	// effect and returns nil.
	Delete(key K) error
	// CompareAndDelete deletes a key only if its current state matches
	// old, under the same matching rule as CompareAndSwap. It returns
	// ErrValueMismatch and changes nothing otherwise.
	CompareAndDelete(key K, old *V) error
	// Keys creates an iterator that iterates over the range of keys in
	// this order. The iterator observes the transaction's state as of
	// this call: it is not affected by later updates within the
	// transaction and stays usable after the transaction ends.
	Keys(rng keys.Range[K], order SortOrder) (Iterator[K, V], error)
	// Scan collects up to limit key-value pairs in the range in
	// ascending key order. limit < 0 indicates no limit.
	Scan(rng keys.Range[K], limit int) ([]KeyValue[K, V], error)
	// Closed returns true if this transaction has ended
	Closed() bool
	// Commit makes all updates made by this transaction visible to
	// transactions that begin after Commit returns and ends the
	// transaction. Transactions that began before Commit are unaffected.
	// Commit on a read-only transaction returns ErrTxNotWritable and the
	// transaction stays open.
	Commit() error
	// Rollback discards all updates made by this transaction and ends it.
	// Rolling back a transaction that made no updates is a no-op aside
	// from ending it.
	Rollback() error
}

// Iterator iterates over a set of keys. It must only be used by one
// goroutine at a time.
type Iterator[K, V any] interface {
	// Next advances the iterator to the next key. A fresh iterator must
	// call Next once to advance to the first key. Next returns false if
	// there is no next key or if it encounters an error.
	Next() bool
	// Key returns the current key. It is only valid after a call to
	// Next that returned true.
	Key() K
	// Value returns the current value. It is only valid after a call to
	// Next that returned true.
	Value() V
	// Error returns the error, if any.
	Error() error
}
