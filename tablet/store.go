// Package tablet is an embedded sorted cell store for facet mutations.
//
// Entries are addressed by (row, family, qualifier, visibility, timestamp)
// and kept in one flat sorted keyspace; see enccell.go for the layout. The
// store applies the batches the facet compilers emit and resolves reads
// through delete markers: a marker at timestamp T hides every version of
// its coordinate with timestamp <= T.
//
// Three interchangeable engines back the keyspace: Bolt (single file,
// default), Badger (directory, LSM) and Memory (transient, for tests).
package tablet

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/facetdb/facet"
)

// Engine selects the storage backend behind a Store.
type Engine int

const (
	Bolt   Engine = iota // file-backed B+tree, the default
	Badger               // directory-backed LSM tree
	Memory               // transient, for tests
)

type Options struct {
	Engine    Engine
	Logf      func(format string, args ...any)
	Verbose   bool
	IsTesting bool // trades durability for speed
}

// Store is an embedded sorted cell store. All methods are safe for
// concurrent use; each Apply call is one atomic transaction.
type Store struct {
	eng     engine
	logf    func(format string, args ...any)
	verbose bool

	ApplyCount atomic.Uint64
	ReadCount  atomic.Uint64
}

// engine is a minimal sorted keyspace. Keys scan in ascending byte order;
// key and value slices passed to scan callbacks are only valid during the
// callback.
type engine interface {
	update(fn func(tx engineTx) error) error
	view(fn func(tx engineTx) error) error
	close() error
}

type engineTx interface {
	put(key, value []byte) error
	scan(prefix []byte, fn func(key, value []byte) error) error
}

// Open opens a store. path names a database file for the Bolt engine and a
// database directory for Badger; the Memory engine ignores it.
func Open(path string, o Options) (*Store, error) {
	var eng engine
	var err error
	switch o.Engine {
	case Bolt:
		eng, err = openBolt(path, o)
	case Badger:
		eng, err = openBadger(path, o)
	case Memory:
		eng = newMemEngine()
	default:
		return nil, fmt.Errorf("tablet: unknown engine %d", o.Engine)
	}
	if err != nil {
		return nil, err
	}
	return &Store{
		eng:     eng,
		logf:    o.Logf,
		verbose: o.Verbose,
	}, nil
}

func (st *Store) Close() error {
	return st.eng.close()
}

// Apply writes all mutations in input order within a single transaction.
// Delete mutations become delete markers at their timestamp; values are
// stored verbatim.
func (st *Store) Apply(muts []facet.Mutation) error {
	st.ApplyCount.Add(1)
	err := st.eng.update(func(tx engineTx) error {
		for _, m := range muts {
			k := cellKey{
				row:        m.Row,
				family:     m.Family,
				qualifier:  m.Qualifier,
				visibility: m.Visibility,
				ts:         m.TimestampMS,
				kind:       kindValue,
			}
			var v []byte
			if m.Delete {
				k.kind = kindDelete
			} else {
				v = m.Value
			}
			if err := tx.put(encodeCellKey(k), v); err != nil {
				return err
			}
			if st.verbose {
				if m.Delete {
					st.log("tablet: DEL %q/%q/%q/%q @%d", m.Row, m.Family, m.Qualifier, m.Visibility, m.TimestampMS)
				} else {
					st.log("tablet: PUT %q/%q/%q/%q @%d (%d bytes)", m.Row, m.Family, m.Qualifier, m.Visibility, m.TimestampMS, len(m.Value))
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tablet: apply: %w", err)
	}
	if st.verbose {
		st.log("tablet: APPLY n=%d", len(muts))
	}
	return nil
}

// Cell is one live version of one coordinate.
type Cell struct {
	Row         string
	Family      string
	Qualifier   string
	Visibility  string
	TimestampMS int64
	Value       []byte
}

// Get returns the newest live version of a coordinate.
func (st *Store) Get(row, family, qualifier, visibility string) (Cell, bool, error) {
	cells, err := st.Versions(row, family, qualifier, visibility)
	if err != nil || len(cells) == 0 {
		return Cell{}, false, err
	}
	return cells[0], true, nil
}

// Versions returns all live versions of a coordinate, newest first.
// Versions hidden by a delete marker are omitted.
func (st *Store) Versions(row, family, qualifier, visibility string) ([]Cell, error) {
	return st.scanLive(coordinatePrefix(row, family, qualifier, visibility))
}

// ScanRow returns the live cells of one row across all families, in key
// order, newest version first within a coordinate.
func (st *Store) ScanRow(row string) ([]Cell, error) {
	return st.scanLive(rowPrefix(row))
}

// ComponentManifests returns the current manifest values of every component
// of the given type stored under docID, the input NewRevisionDelete takes.
// One value is returned per component, its newest live metadata version.
func (st *Store) ComponentManifests(docID, componentType string) ([][]byte, error) {
	cells, err := st.scanLive(familyPrefix(docID, facet.MetadataFamily(componentType)))
	if err != nil {
		return nil, err
	}
	return manifestValues(cells), nil
}

// DocumentManifests returns the current manifest values of every component
// stored under docID regardless of type. Feeding the result to
// NewRevisionDelete removes the document's entire physical footprint.
func (st *Store) DocumentManifests(docID string) ([][]byte, error) {
	cells, err := st.scanLive(rowPrefix(docID))
	if err != nil {
		return nil, err
	}
	var metadata []Cell
	for _, c := range cells {
		if facet.IsMetadataFamily(c.Family) {
			metadata = append(metadata, c)
		}
	}
	return manifestValues(metadata), nil
}

// scanLive walks one prefix of the keyspace and resolves versions: within a
// coordinate, keys arrive newest first with markers ahead of values at the
// same timestamp, so the first marker seen sets the suppression floor for
// everything older.
func (st *Store) scanLive(prefix []byte) ([]Cell, error) {
	st.ReadCount.Add(1)
	var cells []Cell
	err := st.eng.view(func(tx engineTx) error {
		var cur cellKey
		var started bool
		var floor int64
		var hasFloor bool
		return tx.scan(prefix, func(key, value []byte) error {
			k, err := decodeCellKey(key)
			if err != nil {
				return err
			}
			if !started || !sameCoordinate(cur, k) {
				cur, started = k, true
				floor, hasFloor = 0, false
			}
			if k.kind == kindDelete {
				if !hasFloor {
					floor, hasFloor = k.ts, true
				}
				return nil
			}
			if hasFloor && k.ts <= floor {
				return nil
			}
			cells = append(cells, Cell{
				Row:         k.row,
				Family:      k.family,
				Qualifier:   k.qualifier,
				Visibility:  k.visibility,
				TimestampMS: k.ts,
				Value:       append([]byte(nil), value...),
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("tablet: scan: %w", err)
	}
	return cells, nil
}

// manifestValues keeps the newest live cell of each coordinate. scanLive
// returns coordinates grouped and newest first, so that is the first cell
// of every group.
func manifestValues(cells []Cell) [][]byte {
	var values [][]byte
	for i, c := range cells {
		if i > 0 && sameCellCoordinate(cells[i-1], c) {
			continue
		}
		values = append(values, c.Value)
	}
	return values
}

func sameCellCoordinate(a, b Cell) bool {
	return a.Row == b.Row && a.Family == b.Family && a.Qualifier == b.Qualifier && a.Visibility == b.Visibility
}

func (st *Store) log(format string, args ...any) {
	if st.logf != nil {
		st.logf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}
