package json

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-cluster/internal/storage"
)

type Event struct {
	Name  string    `json:"name"`
	ID    string    `json:"id"`
	Index int       `json:"index"`
	Value []float64 `json:"value"`
}

func newEvent(i int) Event {
	return Event{
		Name:  "test",
		ID:    uuid.New().String(),
		Index: i,
		Value: []float64{float64(i), 0.5},
	}
}

func TestPersistence(t *testing.T) {
	type test struct {
		shard storage.Shard
	}

	tests := map[string]test{
		"blob": {shard: BlobShard(t.TempDir(), "events")},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store, err := tt.shard("shard")
			require.NoError(t, err)

			k := storage.Key{
				Hash:    1,
				Dataset: "titanic",
				Label:   "model",
			}
			ev := newEvent(3)
			err = store.Store(k, ev)
			assert.NoError(t, err)

			var loaded Event
			err = store.Load(k, &loaded)
			assert.NoError(t, err)
			assert.Equal(t, ev, loaded)

			err = store.Load(storage.Key{Dataset: "other"}, &loaded)
			assert.True(t, errors.Is(err, storage.NotFoundErr))
		})
	}
}

func TestBlobStorage_Path(t *testing.T) {
	root := t.TempDir()
	store := NewJsonBlob(root, "models", "customers", false)
	k := storage.Key{Hash: 2, Dataset: "customers", Label: "kmeans"}
	require.NoError(t, store.Store(k, newEvent(1)))

	_, err := os.Stat(filepath.Join(root, "models", "customers", "customers_2_kmeans.json"))
	assert.NoError(t, err)
}

func TestLoad_Corrupted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	var ev Event
	err := Load(dir, "broken.json", &ev)
	assert.True(t, errors.Is(err, storage.CouldNotLoadErr))
}

func TestVoidStorage(t *testing.T) {
	store, err := storage.VoidShard()("any")
	require.NoError(t, err)
	assert.NoError(t, store.Store(storage.Key{}, newEvent(1)))
	var ev Event
	assert.True(t, errors.Is(store.Load(storage.Key{}, &ev), storage.NotFoundErr))
}
