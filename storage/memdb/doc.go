// Package memdb implements an in-memory ordered key-value store with
// transactions.
//
// The store keeps its entire state in a persistent sorted map. Because the
// map is persistent, updated versions share almost all of their structure
// with the versions they were derived from, so taking a snapshot of the
// whole key space costs a single pointer copy no matter how many keys it
// holds. The store publishes a pointer to the current committed map and every
// transaction works on the snapshot it captured when it began.
//
// This gives read transactions snapshot isolation for free: a read
// transaction observes a single committed state for its entire lifetime.
// Readers and writers never block each other and readers never see a
// writer's updates until it commits. Write transactions are serialized by a
// single lock so that each one derives from the latest committed state and
// writes never conflict.
// Committing a write transaction publishes its working map with one atomic
// pointer store.
//
// This model fits read-heavy workloads that want any number of consistent
// readers alongside a modest write rate. It does not fit workloads that need
// concurrent writers: a long-lived write transaction stalls every other
// writer, though never any reader.
//
// Typical usage:
//
//	store := memdb.New[string, string](memdb.Config{})
//
//	err := store.Update(ctx, func(txn memdb.Transaction[string, string]) error {
//		return txn.Put("greeting", "hello")
//	})
//
//	err = store.View(ctx, func(txn memdb.Transaction[string, string]) error {
//		greeting, _, err := txn.Get("greeting")
//		...
//	})
package memdb
