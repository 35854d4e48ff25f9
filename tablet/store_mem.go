package tablet

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// memEngine is a transient in-memory engine intended for tests: a single
// sorted key list behind a mutex.
type memEngine struct {
	mu     sync.RWMutex
	items  []memKV // sorted by key
	closed bool
}

type memKV struct {
	key   []byte
	value []byte
}

func newMemEngine() engine {
	return &memEngine{}
}

func (e *memEngine) close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.items = nil
	return nil
}

func (e *memEngine) update(fn func(engineTx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("engine closed")
	}

	// Snapshot the list so a failed update rolls back (simplicity over
	// efficiency). Entries are never mutated in place, so a shallow copy
	// is enough.
	snap := slices.Clone(e.items)
	if err := fn(memTx{e}); err != nil {
		e.items = snap
		return err
	}
	return nil
}

func (e *memEngine) view(fn func(engineTx) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return fmt.Errorf("engine closed")
	}
	return fn(memTx{e})
}

type memTx struct {
	e *memEngine
}

func (tx memTx) put(key, value []byte) error {
	i, ok := memFind(tx.e.items, key)
	kv := memKV{key: slices.Clone(key), value: slices.Clone(value)}
	if ok {
		tx.e.items[i] = kv
		return nil
	}
	tx.e.items = slices.Insert(tx.e.items, i, kv)
	return nil
}

func (tx memTx) scan(prefix []byte, fn func(key, value []byte) error) error {
	items := tx.e.items
	i, _ := memFind(items, prefix)
	for ; i < len(items) && bytes.HasPrefix(items[i].key, prefix); i++ {
		if err := fn(items[i].key, items[i].value); err != nil {
			return err
		}
	}
	return nil
}

func memFind(items []memKV, key []byte) (idx int, ok bool) {
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, key) >= 0
	})
	if i < len(items) && bytes.Equal(items[i].key, key) {
		return i, true
	}
	return i, false
}
