package tablet

import (
	"bytes"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var cellsBucket = []byte("cells")

type boltEngine struct {
	bdb *bbolt.DB
}

func openBolt(path string, o Options) (engine, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if o.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("tablet: %w", err)
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(cellsBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("tablet: creating cells bucket: %w", err)
	}
	return &boltEngine{bdb: bdb}, nil
}

func (e *boltEngine) close() error {
	return e.bdb.Close()
}

func (e *boltEngine) update(fn func(engineTx) error) error {
	return e.bdb.Update(func(btx *bbolt.Tx) error {
		return fn(boltTx{btx.Bucket(cellsBucket)})
	})
}

func (e *boltEngine) view(fn func(engineTx) error) error {
	return e.bdb.View(func(btx *bbolt.Tx) error {
		return fn(boltTx{btx.Bucket(cellsBucket)})
	})
}

type boltTx struct {
	buck *bbolt.Bucket
}

func (tx boltTx) put(key, value []byte) error {
	return tx.buck.Put(key, value)
}

func (tx boltTx) scan(prefix []byte, fn func(key, value []byte) error) error {
	c := tx.buck.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}
