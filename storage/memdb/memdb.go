package memdb

import (
	"cmp"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/google/uuid"
	"github.com/jrife/tern/utils/log"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var _ Store[string, string] = (*store[string, string])(nil)

// Config contains configuration
// for a store
type Config struct {
	// Logger is the logger used by the store.
	// If nil it defaults to the global zap logger.
	Logger *zap.Logger
	// Name identifies this store in log output so lines
	// from different stores can be told apart. If empty
	// a random name is generated.
	Name string
}

// store implements Store. The current committed state lives behind an
// atomic pointer so readers can capture a snapshot without taking any
// lock. writer admits one write transaction at a time.
type store[K, V any] struct {
	logger  *zap.Logger
	compare func(a, b K) int
	equal   func(a, b V) bool
	writer  *semaphore.Weighted
	current atomic.Pointer[immutable.SortedMap[K, V]]
	txnSeq  atomic.Uint64
}

// New creates an empty store for keys with a natural order and
// comparable values.
func New[K cmp.Ordered, V comparable](config Config) Store[K, V] {
	return NewWith[K, V](config, cmp.Compare[K], func(a, b V) bool { return a == b })
}

// NewWith creates an empty store with an explicit key comparison function
// and value equality function. compare must define a total order over keys:
// it returns a negative number, zero, or a positive number when a is less
// than, equal to, or greater than b. equal must define an equivalence
// relation over values. Both must be non-nil.
func NewWith[K, V any](config Config, compare func(a, b K) int, equal func(a, b V) bool) Store[K, V] {
	if compare == nil {
		panic("compare must not be nil")
	}

	if equal == nil {
		panic("equal must not be nil")
	}

	store := &store[K, V]{
		logger:  config.Logger,
		compare: compare,
		equal:   equal,
		writer:  semaphore.NewWeighted(1),
	}

	if store.logger == nil {
		store.logger = zap.L()
	}

	name := config.Name

	if name == "" {
		name = uuid.NewString()
	}

	store.logger = store.logger.With(zap.String("store", name))
	store.current.Store(immutable.NewSortedMap[K, V](comparer[K]{compare: compare}))

	return store
}

// comparer adapts a comparison function to the sorted map's Comparer
// interface. The sorted map's key search matches on exactly -1, 0, and 1
// while compare may return any negative or positive number, so the result
// is reduced to its sign.
type comparer[K any] struct {
	compare func(a, b K) int
}

func (comparer comparer[K]) Compare(a, b K) int {
	result := comparer.compare(a, b)

	if result < 0 {
		return -1
	}

	if result > 0 {
		return 1
	}

	return 0
}

// Begin implements Store.Begin
func (store *store[K, V]) Begin(ctx context.Context, writable bool) (Transaction[K, V], error) {
	if writable {
		if err := store.writer.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("could not acquire write lock: %w", err)
		}
	}

	// The snapshot must be captured after the write lock is held so that
	// a write transaction always starts from the latest committed state.
	transaction := &transaction[K, V]{
		store:    store,
		writable: writable,
		lockHeld: writable,
		working:  store.current.Load(),
	}

	transaction.logger = store.logger.With(zap.Uint64("txn", store.txnSeq.Add(1)), zap.Bool("writable", writable))
	log.WithContext(ctx, transaction.logger).Debug("begin")

	return transaction, nil
}

// View implements Store.View
func (store *store[K, V]) View(ctx context.Context, fn func(txn Transaction[K, V]) error) error {
	transaction, err := store.Begin(ctx, false)

	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer transaction.Rollback()

	return fn(transaction)
}

// Update implements Store.Update
func (store *store[K, V]) Update(ctx context.Context, fn func(txn Transaction[K, V]) error) error {
	transaction, err := store.Begin(ctx, true)

	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer transaction.Rollback()

	if err := fn(transaction); err != nil {
		return err
	}

	return transaction.Commit()
}
