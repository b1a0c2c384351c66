// Package leveldb implements the ability to read and write blocks to a
// LevelDB database keyed by block index.
package leveldb

import (
	"encoding/binary"
	"encoding/json"
	"errors"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// LevelDB represents the serialization implementation for reading and
// storing blocks in a LevelDB database. This implements the
// database.Serializer interface.
type LevelDB struct {
	db *leveldb.DB
}

// New opens, or creates, the LevelDB database at the specified path.
func New(dbPath string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return nil, err
	}

	return &LevelDB{db: db}, nil
}

// Close closes the underlying database.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Write stores the block under its index.
func (l *LevelDB) Write(blockData database.BlockData) error {
	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	return l.db.Put(key(blockData.Block.Index), data, nil)
}

// GetBlock returns the contents of the specified block by index.
func (l *LevelDB) GetBlock(index uint64) (database.BlockData, error) {
	data, err := l.db.Get(key(index), nil)
	if err != nil {
		return database.BlockData{}, err
	}

	var blockData database.BlockData
	if err := json.Unmarshal(data, &blockData); err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks in index order.
func (l *LevelDB) ForEach() database.Iterator {
	return &levelDBIterator{iter: l.db.NewIterator(nil, nil)}
}

// Reset deletes every block in the database.
func (l *LevelDB) Reset() error {
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()

	var batch leveldb.Batch
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return err
	}

	return l.db.Write(&batch, nil)
}

// key encodes the index big endian so LevelDB orders keys by index.
func key(index uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, index)
	return k
}

// =============================================================================

// levelDBIterator walks the database in key order. This implements the
// database Iterator interface.
type levelDBIterator struct {
	iter iterator.Iterator
	eoc  bool
}

// Next retrieves the next block from the database.
func (li *levelDBIterator) Next() (database.BlockData, error) {
	if li.eoc {
		return database.BlockData{}, errors.New("end of chain")
	}

	if !li.iter.Next() {
		li.eoc = true
		err := li.iter.Error()
		li.iter.Release()
		return database.BlockData{}, err
	}

	var blockData database.BlockData
	if err := json.Unmarshal(li.iter.Value(), &blockData); err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}

// Done returns the end of chain value.
func (li *levelDBIterator) Done() bool {
	return li.eoc
}
