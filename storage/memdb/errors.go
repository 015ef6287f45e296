package memdb

import "errors"

var (
	// ErrTxClosed indicates that the transaction was already committed or rolled back
	ErrTxClosed = errors.New("transaction closed")
	// ErrTxNotWritable indicates that an update operation was attempted on a read-only transaction
	ErrTxNotWritable = errors.New("transaction not writable")
	// ErrKeyExists indicates that an insert found the key already present
	ErrKeyExists = errors.New("key already exists")
	// ErrValueMismatch indicates that the current state of a key did not match the
	// state expected by a compare-and-swap or compare-and-delete operation
	ErrValueMismatch = errors.New("current value does not match expected value")
)
