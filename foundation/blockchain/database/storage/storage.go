// Package storage selects a chain storage backend by name.
package storage

import (
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database/storage/disk"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database/storage/leveldb"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database/storage/memory"
)

// Set of supported storage backends.
const (
	Disk    = "disk"
	LevelDB = "leveldb"
	Memory  = "memory"
)

// Open constructs the named storage backend rooted at dbPath. The memory
// backend ignores the path.
func Open(kind string, dbPath string) (database.Serializer, error) {
	switch kind {
	case Disk:
		return disk.New(dbPath)
	case LevelDB:
		return leveldb.New(dbPath)
	case Memory:
		return memory.New()
	}

	return nil, fmt.Errorf("unknown storage %q", kind)
}
