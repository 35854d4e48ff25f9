package tablet

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type badgerEngine struct {
	bdb *badger.DB
}

func openBadger(dir string, o Options) (engine, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if o.IsTesting {
		opts.SyncWrites = false
	}

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("tablet: %w", err)
	}
	return &badgerEngine{bdb: bdb}, nil
}

func (e *badgerEngine) close() error {
	return e.bdb.Close()
}

func (e *badgerEngine) update(fn func(engineTx) error) error {
	return e.bdb.Update(func(txn *badger.Txn) error {
		return fn(badgerTx{txn})
	})
}

func (e *badgerEngine) view(fn func(engineTx) error) error {
	return e.bdb.View(func(txn *badger.Txn) error {
		return fn(badgerTx{txn})
	})
}

type badgerTx struct {
	txn *badger.Txn
}

func (tx badgerTx) put(key, value []byte) error {
	return tx.txn.Set(key, value)
}

func (tx badgerTx) scan(prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := tx.txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(item.Key(), value); err != nil {
			return err
		}
	}
	return nil
}
