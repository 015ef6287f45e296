package memdb_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jrife/tern/storage/memdb"
	"github.com/jrife/tern/storage/memdb/keys"
)

var iterKvs = []memdb.KeyValue[string, int]{
	{Key: "abc", Value: 1},
	{Key: "def", Value: 2},
	{Key: "ghi", Value: 3},
	{Key: "jkl", Value: 4},
}

func collect(t testing.TB, iter memdb.Iterator[string, int]) []memdb.KeyValue[string, int] {
	kvs := []memdb.KeyValue[string, int]{}

	for iter.Next() {
		kvs = append(kvs, memdb.KeyValue[string, int]{Key: iter.Key(), Value: iter.Value()})
	}

	if err := iter.Error(); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	return kvs
}

func TestTransactionScan(t *testing.T) {
	testCases := map[string]struct {
		kvs    []memdb.KeyValue[string, int]
		rng    keys.Range[string]
		limit  int
		result []memdb.KeyValue[string, int]
	}{
		"empty map": {
			kvs:    []memdb.KeyValue[string, int]{},
			rng:    keys.All[string](),
			limit:  -1,
			result: []memdb.KeyValue[string, int]{},
		},
		"all no limit": {
			kvs:    iterKvs,
			rng:    keys.All[string](),
			limit:  -1,
			result: iterKvs,
		},
		"zero limit": {
			kvs:    iterKvs,
			rng:    keys.All[string](),
			limit:  0,
			result: []memdb.KeyValue[string, int]{},
		},
		"limit truncates": {
			kvs:    iterKvs,
			rng:    keys.All[string](),
			limit:  2,
			result: iterKvs[:2],
		},
		"limit beyond size": {
			kvs:    iterKvs,
			rng:    keys.All[string](),
			limit:  10,
			result: iterKvs,
		},
		"min inclusive": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Gte("def"),
			limit:  -1,
			result: iterKvs[1:],
		},
		"min between keys": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Gte("eee"),
			limit:  -1,
			result: iterKvs[2:],
		},
		"max exclusive": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Lt("ghi"),
			limit:  -1,
			result: iterKvs[:2],
		},
		"max between keys": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Lt("ggg"),
			limit:  -1,
			result: iterKvs[:2],
		},
		"min and max": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Gte("def").Lt("jkl"),
			limit:  -1,
			result: iterKvs[1:3],
		},
		"min and max with limit": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Gte("def").Lt("jkl"),
			limit:  1,
			result: iterKvs[1:2],
		},
		"range above all keys": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Gte("zzz"),
			limit:  -1,
			result: []memdb.KeyValue[string, int]{},
		},
		"range below all keys": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Lt("aaa"),
			limit:  -1,
			result: []memdb.KeyValue[string, int]{},
		},
		"inverted range": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Gte("jkl").Lt("abc"),
			limit:  -1,
			result: []memdb.KeyValue[string, int]{},
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			seed(t, store, testCase.kvs)

			err := store.View(context.Background(), func(txn memdb.Transaction[string, int]) error {
				kvs, err := txn.Scan(testCase.rng, testCase.limit)

				if err != nil {
					return err
				}

				diff := cmp.Diff(testCase.result, kvs)

				if diff != "" {
					t.Fatalf(diff)
				}

				return nil
			})

			if err != nil {
				t.Fatalf("expected err to be nil, got %#v", err)
			}
		})
	}
}

func TestTransactionKeys(t *testing.T) {
	testCases := map[string]struct {
		kvs    []memdb.KeyValue[string, int]
		rng    keys.Range[string]
		order  memdb.SortOrder
		result []memdb.KeyValue[string, int]
	}{
		"asc all": {
			kvs:    iterKvs,
			rng:    keys.All[string](),
			order:  memdb.SortOrderAsc,
			result: iterKvs,
		},
		"asc bounded": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Gte("def").Lt("jkl"),
			order:  memdb.SortOrderAsc,
			result: iterKvs[1:3],
		},
		"asc empty map": {
			kvs:    []memdb.KeyValue[string, int]{},
			rng:    keys.All[string](),
			order:  memdb.SortOrderAsc,
			result: []memdb.KeyValue[string, int]{},
		},
		"desc all": {
			kvs:   iterKvs,
			rng:   keys.All[string](),
			order: memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{
				{Key: "jkl", Value: 4},
				{Key: "ghi", Value: 3},
				{Key: "def", Value: 2},
				{Key: "abc", Value: 1},
			},
		},
		"desc bounded": {
			kvs:   iterKvs,
			rng:   keys.All[string]().Gte("def").Lt("jkl"),
			order: memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{
				{Key: "ghi", Value: 3},
				{Key: "def", Value: 2},
			},
		},
		"desc min only": {
			kvs:   iterKvs,
			rng:   keys.All[string]().Gte("def"),
			order: memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{
				{Key: "jkl", Value: 4},
				{Key: "ghi", Value: 3},
				{Key: "def", Value: 2},
			},
		},
		"desc max only": {
			kvs:   iterKvs,
			rng:   keys.All[string]().Lt("ghi"),
			order: memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{
				{Key: "def", Value: 2},
				{Key: "abc", Value: 1},
			},
		},
		"desc max between keys": {
			kvs:   iterKvs,
			rng:   keys.All[string]().Lt("ggg"),
			order: memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{
				{Key: "def", Value: 2},
				{Key: "abc", Value: 1},
			},
		},
		"desc max above all keys": {
			kvs:   iterKvs,
			rng:   keys.All[string]().Lt("zzz"),
			order: memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{
				{Key: "jkl", Value: 4},
				{Key: "ghi", Value: 3},
				{Key: "def", Value: 2},
				{Key: "abc", Value: 1},
			},
		},
		"desc max at lowest key": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Lt("abc"),
			order:  memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{},
		},
		"desc max below all keys": {
			kvs:    iterKvs,
			rng:    keys.All[string]().Lt("aaa"),
			order:  memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{},
		},
		"desc empty map": {
			kvs:    []memdb.KeyValue[string, int]{},
			rng:    keys.All[string](),
			order:  memdb.SortOrderDesc,
			result: []memdb.KeyValue[string, int]{},
		},
		"unknown order falls back to ascending": {
			kvs:    iterKvs,
			rng:    keys.All[string](),
			order:  memdb.SortOrder(42),
			result: iterKvs,
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			seed(t, store, testCase.kvs)

			err := store.View(context.Background(), func(txn memdb.Transaction[string, int]) error {
				iter, err := txn.Keys(testCase.rng, testCase.order)

				if err != nil {
					return err
				}

				diff := cmp.Diff(testCase.result, collect(t, iter))

				if diff != "" {
					t.Fatalf(diff)
				}

				return nil
			})

			if err != nil {
				t.Fatalf("expected err to be nil, got %#v", err)
			}
		})
	}
}

func TestIteratorSnapshot(t *testing.T) {
	store := newStore(t)
	seed(t, store, iterKvs[:3])

	txn := begin(t, store, true)
	defer txn.Rollback()

	iter, err := txn.Keys(keys.All[string](), memdb.SortOrderAsc)

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	// updates made after the iterator was created must not affect it
	if err := txn.Put("jkl", 4); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	if err := txn.Delete("abc"); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	diff := cmp.Diff(iterKvs[:3], collect(t, iter))

	if diff != "" {
		t.Fatalf(diff)
	}

	// while a fresh scan observes them
	kvs, err := txn.Scan(keys.All[string](), -1)

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	expectedKvs := []memdb.KeyValue[string, int]{
		{Key: "def", Value: 2},
		{Key: "ghi", Value: 3},
		{Key: "jkl", Value: 4},
	}
	diff = cmp.Diff(expectedKvs, kvs)

	if diff != "" {
		t.Fatalf(diff)
	}
}

func TestIteratorOutlivesTransaction(t *testing.T) {
	store := newStore(t)
	seed(t, store, iterKvs)

	txn := begin(t, store, false)

	iter, err := txn.Keys(keys.All[string](), memdb.SortOrderAsc)

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	if err := txn.Rollback(); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	diff := cmp.Diff(iterKvs, collect(t, iter))

	if diff != "" {
		t.Fatalf(diff)
	}
}
