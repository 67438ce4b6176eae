package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
)

const (
	// KMeansBackend is the native seeded k-means++ implementation.
	KMeansBackend = "kmeans"
	// GomlBackend delegates to the goml k-means implementation.
	GomlBackend = "goml"

	// MinRestarts is the lowest number of initialisations per fit.
	MinRestarts = 10
)

// Model is a fitted clustering.
type Model interface {
	Assignments() []int
	Inertia() float64
	// Centroids are expressed in the space the model was fitted on.
	Centroids() [][]float64
	Predict(x []float64) int
}

// Clusterer fits a clustering with a fixed number of clusters.
type Clusterer interface {
	Fit(m mat.Matrix, k int, seed uint64, restarts int) (Model, error)
}

// ClustererFunc adapts a fitting function to the Clusterer interface.
type ClustererFunc func(m mat.Matrix, k int, seed uint64, restarts int) (Model, error)

func (f ClustererFunc) Fit(m mat.Matrix, k int, seed uint64, restarts int) (Model, error) {
	return f(m, k, seed, restarts)
}

// Config holds the parameters shared by selection and fitting.
type Config struct {
	Backend    string `json:"backend" yaml:"backend"`
	Seed       uint64 `json:"seed" yaml:"seed"`
	Restarts   int    `json:"restarts" yaml:"restarts"`
	Iterations int    `json:"iterations" yaml:"iterations"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Backend {
	case "", KMeansBackend, GomlBackend:
	default:
		return fmt.Errorf("unsupported clustering backend '%s': %w", c.Backend, model.ErrConfig)
	}
	if c.Restarts != 0 && c.Restarts < MinRestarts {
		return fmt.Errorf("at least %d restarts are needed, got %d: %w", MinRestarts, c.Restarts, model.ErrConfig)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("negative iterations %d: %w", c.Iterations, model.ErrConfig)
	}
	return nil
}

func (c Config) restarts() int {
	if c.Restarts < MinRestarts {
		return MinRestarts
	}
	return c.Restarts
}

// New creates the clusterer for the configured backend.
func New(cfg Config) (Clusterer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case GomlBackend:
		g := ml.NewGoml(cfg.Iterations)
		return ClustererFunc(func(m mat.Matrix, k int, seed uint64, restarts int) (Model, error) {
			c, err := g.Fit(m, k, seed, restarts)
			if err != nil {
				return nil, err
			}
			return c, nil
		}), nil
	default:
		km := ml.NewKMeans(cfg.Iterations)
		return ClustererFunc(func(m mat.Matrix, k int, seed uint64, restarts int) (Model, error) {
			c, err := km.Fit(m, k, seed, restarts)
			if err != nil {
				return nil, err
			}
			return c, nil
		}), nil
	}
}

// Silhouette returns the mean silhouette coefficient of the assignments, in [-1, 1].
func Silhouette(m mat.Matrix, assignments []int) float64 {
	return ml.Silhouette(m, assignments)
}
