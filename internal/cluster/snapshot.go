package cluster

import (
	"fmt"

	clustermath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/storage"
)

// Snapshot is the persisted form of a fitted clustering,
// enough to assign new records to the existing clusters.
type Snapshot struct {
	Features  []string                    `json:"features"`
	Scaler    *clustermath.StandardScaler `json:"scaler"`
	Centroids [][]float64                 `json:"centroids"`
	Score     model.Score                 `json:"score"`
}

// NewSnapshot captures the fitted result.
func NewSnapshot(features []string, scaler *clustermath.StandardScaler, result Result) Snapshot {
	ff := make([]string, len(features))
	copy(ff, features)
	return Snapshot{
		Features:  ff,
		Scaler:    scaler,
		Centroids: result.Scaled,
		Score: model.Score{
			K:          result.K,
			Inertia:    result.Inertia,
			Silhouette: result.Silhouette,
		},
	}
}

// Predict assigns a record, given in the original units, to the nearest centroid.
func (s Snapshot) Predict(x []float64) (int, error) {
	if len(x) != len(s.Features) {
		return 0, fmt.Errorf("expected %d features, got %d: %w", len(s.Features), len(x), model.ErrData)
	}
	if len(s.Centroids) == 0 {
		return 0, fmt.Errorf("snapshot has no centroids: %w", model.ErrData)
	}
	scaled := x
	if s.Scaler != nil {
		v, err := s.Scaler.TransformVec(x)
		if err != nil {
			return 0, fmt.Errorf("could not scale record: %w", err)
		}
		scaled = v
	}
	id, _ := ml.Nearest(scaled, s.Centroids)
	return id, nil
}

// Original returns the centroids in the original units.
func (s Snapshot) Original() model.Centroids {
	if s.Scaler == nil || len(s.Centroids) == 0 {
		return s.Centroids
	}
	m, err := clustermath.FromRows(s.Centroids)
	if err != nil {
		return s.Centroids
	}
	original, err := s.Scaler.InverseTransform(m)
	if err != nil {
		return s.Centroids
	}
	return clustermath.Rows(original)
}

// Save persists the snapshot under the given key.
func Save(store storage.Persistence, k storage.Key, s Snapshot) error {
	if err := store.Store(k, s); err != nil {
		return fmt.Errorf("could not store model '%s': %w", k.Path(), err)
	}
	return nil
}

// Load restores a snapshot stored under the given key.
func Load(store storage.Persistence, k storage.Key) (Snapshot, error) {
	var s Snapshot
	if err := store.Load(k, &s); err != nil {
		return Snapshot{}, fmt.Errorf("could not load model '%s': %w", k.Path(), err)
	}
	return s, nil
}
