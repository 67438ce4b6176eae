package cluster

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
)

// LowDataK is the number of clusters reported when the data cannot support a search.
const LowDataK = 2

// KRange is the inclusive range of candidate cluster counts.
type KRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Validate checks that the range starts at 2 or above and is not empty.
func (r KRange) Validate() error {
	if r.Min < 2 {
		return fmt.Errorf("k range must start at 2 or above, got %d: %w", r.Min, model.ErrConfig)
	}
	if r.Max < r.Min {
		return fmt.Errorf("invalid k range [%d,%d]: %w", r.Min, r.Max, model.ErrConfig)
	}
	return nil
}

// Selection is the outcome of a search over the number of clusters.
type Selection struct {
	K     int
	Curve model.ScoreCurve
	// Range is the range effectively tested.
	Range    KRange
	Distinct int
	Clamped  bool
	LowData  bool
}

// Selector picks the number of clusters maximising the silhouette score.
type Selector struct {
	clusterer Clusterer
	config    Config
	logger    zerolog.Logger
}

// NewSelector creates a new selector for the given clusterer.
func NewSelector(clusterer Clusterer, cfg Config, logger zerolog.Logger) *Selector {
	return &Selector{
		clusterer: clusterer,
		config:    cfg,
		logger:    logger,
	}
}

// Select fits a model for every k in the range and keeps the one with the best silhouette.
// The range is clamped to the number of distinct rows minus one. When less than 2 clusters
// can be tested the selection falls back to LowDataK without fitting anything.
func (s *Selector) Select(m mat.Matrix, r KRange) (Selection, error) {
	if err := r.Validate(); err != nil {
		return Selection{}, err
	}
	rows, _ := m.Dims()
	if rows == 0 {
		return Selection{}, fmt.Errorf("no rows to cluster: %w", model.ErrData)
	}

	distinct := ml.DistinctRows(m)
	selection := Selection{
		Range:    r,
		Distinct: distinct,
	}
	if limit := distinct - 1; r.Max > limit {
		selection.Clamped = true
		selection.Range.Max = limit
		if selection.Range.Min > limit {
			selection.Range.Min = limit
		}
		s.logger.Warn().
			Int("distinct", distinct).
			Int("k-max", r.Max).
			Int("clamped", limit).
			Msg("k range exceeds distinct rows")
	}
	if selection.Range.Max < 2 {
		selection.K = LowDataK
		selection.LowData = true
		selection.Curve = model.ScoreCurve{}
		s.logger.Warn().
			Int("rows", rows).
			Int("distinct", distinct).
			Int("k", LowDataK).
			Msg("not enough distinct rows to select k")
		return selection, nil
	}

	curve := make(model.ScoreCurve, 0, selection.Range.Max-selection.Range.Min+1)
	for k := selection.Range.Min; k <= selection.Range.Max; k++ {
		fitted, err := s.clusterer.Fit(m, k, s.config.Seed, s.config.restarts())
		if err != nil {
			return Selection{}, fmt.Errorf("could not fit k=%d: %w", k, err)
		}
		score := model.Score{
			K:          k,
			Inertia:    fitted.Inertia(),
			Silhouette: Silhouette(m, fitted.Assignments()),
		}
		s.logger.Debug().
			Int("k", k).
			Float64("inertia", score.Inertia).
			Float64("silhouette", score.Silhouette).
			Msg("scored")
		curve = append(curve, score)
	}

	best, _ := curve.Best()
	selection.K = best.K
	selection.Curve = curve
	s.logger.Info().
		Int("k", best.K).
		Float64("silhouette", best.Silhouette).
		Int("tested", len(curve)).
		Msg("selected number of clusters")
	return selection, nil
}
