package ml

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/trees"
)

const (
	GiniCriterion    = "gini"
	EntropyCriterion = "entropy"
)

// DecisionTree is a CART classification tree through golearn.
type DecisionTree struct {
	criterion string
	depth     int64
	dir       string
	classes   int
	features  int
	tree      *trees.CARTDecisionTreeClassifier
}

// NewDecisionTree creates a new decision tree.
// A depth below 1 grows the tree until the leaves are pure.
func NewDecisionTree(criterion string, depth int, dir string) *DecisionTree {
	if criterion != EntropyCriterion {
		criterion = GiniCriterion
	}
	d := int64(depth)
	if depth < 1 {
		d = -1
	}
	return &DecisionTree{
		criterion: criterion,
		depth:     d,
		dir:       dir,
	}
}

// Train grows the tree on the given samples.
func (dt *DecisionTree) Train(x [][]float64, y []int) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	classes, err := classCount(y)
	if err != nil {
		return err
	}
	train, err := instances(dt.dir, "tree-train-*.csv", x, y)
	if err != nil {
		return fmt.Errorf("could not load training set: %w", err)
	}
	labels := make([]int64, classes)
	for i := range labels {
		labels[i] = int64(i)
	}
	tree := trees.NewDecisionTreeClassifier(dt.criterion, dt.depth, labels)
	if err := tree.Fit(train); err != nil {
		log.Error().Err(err).Msg("could not train decision tree")
		return err
	}
	dt.tree = tree
	dt.classes = classes
	dt.features = len(x[0])
	log.Debug().
		Str("criterion", dt.criterion).
		Int64("depth", dt.depth).
		Int("samples", len(x)).
		Int("classes", classes).
		Msg("trained decision tree")
	return nil
}

// Predict returns the leaf class for every sample.
func (dt *DecisionTree) Predict(x [][]float64) ([]int, error) {
	if dt.tree == nil || dt.tree.RootNode == nil {
		return nil, fmt.Errorf("decision tree is not trained")
	}
	if len(x) == 0 {
		return []int{}, nil
	}
	if err := checkSamples(x, dt.features); err != nil {
		return nil, err
	}
	test, err := instances(dt.dir, "tree-test-*.csv", x, make([]int, len(x)))
	if err != nil {
		return nil, fmt.Errorf("could not load samples: %w", err)
	}
	predictions := dt.tree.Predict(test)
	if len(predictions) != len(x) {
		return nil, fmt.Errorf("could not align predictions with samples [ %d | %d ]", len(predictions), len(x))
	}
	labels := make([]int, len(predictions))
	for i, p := range predictions {
		labels[i] = int(p)
	}
	return labels, nil
}

// PredictProba returns a one-hot vector for the leaf class of every sample.
func (dt *DecisionTree) PredictProba(x [][]float64) ([][]float64, error) {
	labels, err := dt.Predict(x)
	if err != nil {
		return nil, err
	}
	return oneHot(labels, dt.classes), nil
}
