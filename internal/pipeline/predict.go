package pipeline

import (
	"fmt"
	"io"

	"github.com/drakos74/free-cluster/internal/cluster"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/report"
	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/drakos74/free-cluster/internal/storage/file/json"
)

// Assignment is the outcome of assigning new records to stored clusters.
type Assignment struct {
	Run        string
	Snapshot   cluster.Snapshot
	Assignment model.Assignment
	Written    []string
}

// Predict assigns the records of the input to the clusters of a model stored by a previous segmentation.
func Predict(cfg Config, out io.Writer) (*Assignment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Input == "" {
		return nil, fmt.Errorf("no input file: %w", model.ErrConfig)
	}
	if cfg.Store == "" {
		return nil, fmt.Errorf("no model store: %w", model.ErrConfig)
	}
	r := newRun(cfg)

	store, err := r.store()
	if err != nil {
		return nil, err
	}
	snapshot, err := cluster.Load(store, r.modelKey())
	if err != nil {
		return nil, err
	}
	r.logger.Info().
		Str("model", r.modelKey().Path()).
		Int("k", snapshot.Score.K).
		Strs("features", snapshot.Features).
		Msg("loaded model")

	raw, prepared, err := r.prepare()
	if err != nil {
		return nil, err
	}
	m, err := prepared.Matrix(snapshot.Features)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Dims()
	r.metrics.Shape(rows, cols)
	r.metrics.Selected(snapshot.Score.K)

	assignment := make(model.Assignment, rows)
	x := make([]float64, cols)
	for i := range assignment {
		for j := range x {
			x[j] = m.At(i, j)
		}
		if assignment[i], err = snapshot.Predict(x); err != nil {
			return nil, fmt.Errorf("could not assign row %d: %w", i, err)
		}
	}

	r.reporter.Write(report.ClustersFile, func(path string) error {
		return report.Clusters(path, raw, assignment)
	})
	sizes := assignment.Sizes(len(snapshot.Centroids))
	report.PrintCentroids(out, snapshot.Features, snapshot.Original(), sizes)

	err = r.finish()
	return &Assignment{
		Run:        r.id,
		Snapshot:   snapshot,
		Assignment: assignment,
		Written:    r.reporter.Written(),
	}, err
}

// store is the model storage of the run, sharded by dataset.
// Models are discarded when no store is configured.
func (r *run) store() (storage.Persistence, error) {
	shard := storage.VoidShard()
	if r.config.Store != "" {
		shard = json.BlobShard(r.config.Store, storage.ModelDir)
	}
	store, err := shard(r.config.Dataset)
	if err != nil {
		return nil, fmt.Errorf("could not open model store for '%s': %w", r.config.Dataset, err)
	}
	return store, nil
}

// modelKey identifies the model of a dataset, backend and seed.
func (r *run) modelKey() storage.Key {
	return storage.Key{
		Hash:    int64(r.config.Seed),
		Dataset: r.config.Dataset,
		Label:   r.config.Cluster().Backend,
	}
}
