package cluster

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	clustermath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
)

// Result is a fitted clustering with its centroids in both spaces.
type Result struct {
	K          int
	Assignment model.Assignment
	Inertia    float64
	Silhouette float64
	// Scaled holds the centroids in the space the model was fitted on.
	Scaled model.Centroids
	// Centroids holds the centroids in the original units of the features.
	Centroids model.Centroids
	Model     Model
}

// Fitter fits the final clustering for the selected k.
type Fitter struct {
	clusterer Clusterer
	config    Config
	logger    zerolog.Logger
}

// NewFitter creates a new fitter for the given clusterer.
func NewFitter(clusterer Clusterer, cfg Config, logger zerolog.Logger) *Fitter {
	return &Fitter{
		clusterer: clusterer,
		config:    cfg,
		logger:    logger,
	}
}

// Fit clusters the scaled matrix into k groups and maps the centroids back through the scaler.
// k is lowered to the number of distinct rows if needed. A nil scaler keeps the centroids as fitted.
func (f *Fitter) Fit(m mat.Matrix, k int, scaler *clustermath.StandardScaler) (Result, error) {
	if k < 1 {
		return Result{}, fmt.Errorf("invalid number of clusters %d: %w", k, model.ErrConfig)
	}
	rows, _ := m.Dims()
	if rows == 0 {
		return Result{}, fmt.Errorf("no rows to cluster: %w", model.ErrData)
	}
	if distinct := ml.DistinctRows(m); k > distinct {
		f.logger.Warn().
			Int("k", k).
			Int("distinct", distinct).
			Msg("lowering k to the number of distinct rows")
		k = distinct
	}

	fitted, err := f.clusterer.Fit(m, k, f.config.Seed, f.config.restarts())
	if err != nil {
		return Result{}, fmt.Errorf("could not fit k=%d: %w", k, err)
	}

	scaled := fitted.Centroids()
	centroids := scaled
	if scaler != nil && len(scaled) > 0 {
		c, err := clustermath.FromRows(scaled)
		if err != nil {
			return Result{}, fmt.Errorf("invalid centroids: %w", err)
		}
		original, err := scaler.InverseTransform(c)
		if err != nil {
			return Result{}, fmt.Errorf("could not map centroids to original units: %w", err)
		}
		centroids = clustermath.Rows(original)
	}

	result := Result{
		K:          k,
		Assignment: fitted.Assignments(),
		Inertia:    fitted.Inertia(),
		Silhouette: Silhouette(m, fitted.Assignments()),
		Scaled:     scaled,
		Centroids:  centroids,
		Model:      fitted,
	}
	f.logger.Info().
		Int("k", k).
		Float64("inertia", result.Inertia).
		Float64("silhouette", result.Silhouette).
		Ints("sizes", result.Assignment.Sizes(k)).
		Msg("fitted clusters")
	return result, nil
}
