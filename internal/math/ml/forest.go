package ml

import (
	"fmt"
	mrand "math/rand"

	"github.com/rs/zerolog/log"

	randomforest "github.com/malaschitz/randomForest"
)

// RandomForest is a seeded random forest classifier.
type RandomForest struct {
	trees    int
	seed     uint64
	classes  int
	features int
	forest   *randomforest.Forest
}

// NewForest creates a new random forest with the given number of trees.
func NewForest(trees int, seed uint64) *RandomForest {
	if trees <= 0 {
		trees = 100
	}
	return &RandomForest{
		trees: trees,
		seed:  seed,
	}
}

// Train fits the forest on the given samples.
// Class labels must be in the range [0, classes).
func (rf *RandomForest) Train(x [][]float64, y []int) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	classes, err := classCount(y)
	if err != nil {
		return err
	}
	// the forest draws its bootstrap samples and feature subsets from the global source,
	// the library offers no way to pass its own
	mrand.Seed(int64(rf.seed))
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: x, Class: y}
	forest.Train(rf.trees)
	rf.forest = forest
	rf.classes = classes
	rf.features = len(x[0])
	log.Debug().
		Int("trees", rf.trees).
		Int("samples", len(x)).
		Int("features", rf.features).
		Int("classes", classes).
		Msg("trained random forest")
	return nil
}

// Importance returns the feature importance of the trained forest, normalised to sum to 1.
func (rf *RandomForest) Importance() []float64 {
	ff := make([]float64, rf.features)
	if rf.forest == nil {
		return ff
	}
	sum := 0.0
	for i, f := range rf.forest.FeatureImportance {
		if i >= len(ff) {
			break
		}
		ff[i] = f
		sum += f
	}
	if sum > 0 {
		for i := range ff {
			ff[i] /= sum
		}
	}
	return ff
}

// PredictProba returns the share of votes per class for every sample.
func (rf *RandomForest) PredictProba(x [][]float64) ([][]float64, error) {
	if rf.forest == nil {
		return nil, fmt.Errorf("forest is not trained")
	}
	pp := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != rf.features {
			return nil, fmt.Errorf("sample %d has %d features instead of %d", i, len(row), rf.features)
		}
		votes := rf.forest.Vote(row)
		p := make([]float64, rf.classes)
		copy(p, votes)
		pp[i] = p
	}
	return pp, nil
}

func checkTrainingSet(x [][]float64, y []int) error {
	if len(x) == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("samples and labels do not match [ %d | %d ]", len(x), len(y))
	}
	for i, row := range x {
		if len(row) != len(x[0]) {
			return fmt.Errorf("sample %d has %d features instead of %d", i, len(row), len(x[0]))
		}
	}
	return nil
}
