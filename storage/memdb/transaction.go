package memdb

import (
	"github.com/benbjohnson/immutable"
	"github.com/jrife/tern/storage/memdb/keys"
	"go.uber.org/zap"
)

var _ Transaction[string, string] = (*transaction[string, string])(nil)

// transaction implements Transaction. working is the transaction's private
// snapshot: updates replace it with a derived map and nothing outside the
// transaction can observe it until Commit publishes it.
type transaction[K, V any] struct {
	store    *store[K, V]
	logger   *zap.Logger
	writable bool
	closed   bool
	lockHeld bool
	working  *immutable.SortedMap[K, V]
}

// Exists implements Transaction.Exists
func (transaction *transaction[K, V]) Exists(key K) (bool, error) {
	if transaction.closed {
		return false, ErrTxClosed
	}

	_, ok := transaction.working.Get(key)

	return ok, nil
}

// Get implements Transaction.Get
func (transaction *transaction[K, V]) Get(key K) (V, bool, error) {
	if transaction.closed {
		var zero V

		return zero, false, ErrTxClosed
	}

	value, ok := transaction.working.Get(key)

	return value, ok, nil
}

// Len implements Transaction.Len
func (transaction *transaction[K, V]) Len() (int, error) {
	if transaction.closed {
		return 0, ErrTxClosed
	}

	return transaction.working.Len(), nil
}

// Put implements Transaction.Put
func (transaction *transaction[K, V]) Put(key K, value V) error {
	if err := transaction.updatable(); err != nil {
		return err
	}

	transaction.working = transaction.working.Set(key, value)

	return nil
}

// Insert implements Transaction.Insert
func (transaction *transaction[K, V]) Insert(key K, value V) error {
	if err := transaction.updatable(); err != nil {
		return err
	}

	if _, ok := transaction.working.Get(key); ok {
		return ErrKeyExists
	}

	transaction.working = transaction.working.Set(key, value)

	return nil
}

// CompareAndSwap implements Transaction.CompareAndSwap
func (transaction *transaction[K, V]) CompareAndSwap(key K, old *V, new V) error {
	if err := transaction.updatable(); err != nil {
		return err
	}

	if err := transaction.match(key, old); err != nil {
		return err
	}

	transaction.working = transaction.working.Set(key, new)

	return nil
}

// Delete implements Transaction.Delete
func (transaction *transaction[K, V]) Delete(key K) error {
	if err := transaction.updatable(); err != nil {
		return err
	}

	transaction.working = transaction.working.Delete(key)

	return nil
}

// CompareAndDelete implements Transaction.CompareAndDelete
func (transaction *transaction[K, V]) CompareAndDelete(key K, old *V) error {
	if err := transaction.updatable(); err != nil {
		return err
	}

	if err := transaction.match(key, old); err != nil {
		return err
	}

	transaction.working = transaction.working.Delete(key)

	return nil
}

// Keys implements Transaction.Keys
func (transaction *transaction[K, V]) Keys(rng keys.Range[K], order SortOrder) (Iterator[K, V], error) {
	if transaction.closed {
		return nil, ErrTxClosed
	}

	if order != SortOrderDesc {
		order = SortOrderAsc
	}

	return newIterator(transaction.working, rng, order, transaction.store.compare), nil
}

// Scan implements Transaction.Scan
func (transaction *transaction[K, V]) Scan(rng keys.Range[K], limit int) ([]KeyValue[K, V], error) {
	iter, err := transaction.Keys(rng, SortOrderAsc)

	if err != nil {
		return nil, err
	}

	var kvs []KeyValue[K, V]

	if limit < 0 {
		kvs = make([]KeyValue[K, V], 0)
	} else {
		kvs = make([]KeyValue[K, V], 0, limit)
	}

	for iter.Next() && (limit < 0 || len(kvs) < limit) {
		kvs = append(kvs, KeyValue[K, V]{Key: iter.Key(), Value: iter.Value()})
	}

	if iter.Error() != nil {
		return nil, iter.Error()
	}

	return kvs, nil
}

// Closed implements Transaction.Closed
func (transaction *transaction[K, V]) Closed() bool {
	return transaction.closed
}

// Commit implements Transaction.Commit
func (transaction *transaction[K, V]) Commit() error {
	if transaction.closed {
		return ErrTxClosed
	}

	if !transaction.writable {
		return ErrTxNotWritable
	}

	transaction.closed = true
	transaction.store.current.Store(transaction.working)
	transaction.release()
	transaction.logger.Debug("commit", zap.Int("keys", transaction.working.Len()))

	return nil
}

// Rollback implements Transaction.Rollback
func (transaction *transaction[K, V]) Rollback() error {
	if transaction.closed {
		return ErrTxClosed
	}

	transaction.closed = true
	transaction.release()
	transaction.logger.Debug("rollback")

	return nil
}

// updatable guards update operations
func (transaction *transaction[K, V]) updatable() error {
	if transaction.closed {
		return ErrTxClosed
	}

	if !transaction.writable {
		return ErrTxNotWritable
	}

	return nil
}

// match tests the precondition shared by CompareAndSwap and
// CompareAndDelete: if old is non-nil the key must exist with a value
// equal to *old, if old is nil the key must be absent.
func (transaction *transaction[K, V]) match(key K, old *V) error {
	current, ok := transaction.working.Get(key)

	if old == nil {
		if ok {
			return ErrValueMismatch
		}

		return nil
	}

	if !ok || !transaction.store.equal(current, *old) {
		return ErrValueMismatch
	}

	return nil
}

// release returns the write lock, exactly once, if this
// transaction holds it
func (transaction *transaction[K, V]) release() {
	if transaction.lockHeld {
		transaction.lockHeld = false
		transaction.store.writer.Release(1)
	}
}
