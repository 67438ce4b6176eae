package json

import (
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-cluster/internal/storage"
)

// BlobStorage keeps every key as a json file under <path>/<table>/<shard>.
type BlobStorage struct {
	path  string
	table string
	shard string
	debug bool
}

// BlobShard creates blob storages for the given table under the root path.
func BlobShard(root, table string) storage.Shard {
	return func(shard string) (storage.Persistence, error) {
		return NewJsonBlob(root, table, shard, false), nil
	}
}

func (s BlobStorage) Store(k storage.Key, value interface{}) error {
	p := filepath.Join(s.path, s.table, s.shard)
	err := Save(p, s.file(k), value)
	if err == nil && s.debug {
		log.Debug().Str("path", p).Str("file", s.file(k)).Msg("stored json file")
	}
	return err
}

func (s BlobStorage) Load(k storage.Key, value interface{}) error {
	return Load(filepath.Join(s.path, s.table, s.shard), s.file(k), value)
}

func (s BlobStorage) file(k storage.Key) string {
	return k.Path() + ".json"
}

// NewJsonBlob creates a new blob storage.
// table has the same schema, shard is a logical split.
// An empty root falls back to storage.DefaultDir.
func NewJsonBlob(root, table, shard string, debug bool) *BlobStorage {
	if root == "" {
		root = storage.DefaultDir
	}
	return &BlobStorage{
		table: table,
		shard: shard,
		path:  root,
		debug: debug,
	}
}
