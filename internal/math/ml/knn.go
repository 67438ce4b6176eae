package ml

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/knn"
)

// Knn applies a k-nearest-neighbours classifier through golearn.
// Instances are staged as temporary csv files under dir.
type Knn struct {
	neighbours int
	dir        string
	classes    int
	features   int
	train      base.FixedDataGrid
}

// NewKnn creates a new knn classifier.
func NewKnn(neighbours int, dir string) *Knn {
	if neighbours <= 0 {
		neighbours = 5
	}
	return &Knn{
		neighbours: neighbours,
		dir:        dir,
	}
}

// Train keeps the training set for the later predictions.
func (k *Knn) Train(x [][]float64, y []int) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	classes, err := classCount(y)
	if err != nil {
		return err
	}
	train, err := instances(k.dir, "knn-train-*.csv", x, y)
	if err != nil {
		return fmt.Errorf("could not load training set: %w", err)
	}
	k.train = train
	k.classes = classes
	k.features = len(x[0])
	return nil
}

// Predict returns the majority class of the nearest neighbours for every sample.
func (k *Knn) Predict(x [][]float64) ([]int, error) {
	if k.train == nil {
		return nil, fmt.Errorf("knn is not trained")
	}
	if len(x) == 0 {
		return []int{}, nil
	}
	if err := checkSamples(x, k.features); err != nil {
		return nil, err
	}

	// class is unknown for the samples, it is only there to keep the layout
	test, err := instances(k.dir, "knn-test-*.csv", x, make([]int, len(x)))
	if err != nil {
		return nil, fmt.Errorf("could not load samples: %w", err)
	}

	cls := knn.NewKnnClassifier("euclidean", "linear", k.neighbours)
	if err := cls.Fit(k.train); err != nil {
		log.Error().Err(err).Msg("could not train knn model")
		return nil, err
	}
	predictions, err := cls.Predict(test)
	if err != nil {
		log.Error().Err(err).Msg("could not predict on knn model")
		return nil, err
	}

	_, rows := predictions.Size()
	if rows != len(x) {
		return nil, fmt.Errorf("could not align predictions with samples [ %d | %d ]", rows, len(x))
	}
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		f, err := strconv.ParseFloat(base.GetClass(predictions, i), 64)
		if err != nil {
			return nil, fmt.Errorf("unexpected class at row %d: %w", i, err)
		}
		labels[i] = int(math.Round(f))
	}
	return labels, nil
}

// PredictProba returns a one-hot vector for the predicted class of every sample.
func (k *Knn) PredictProba(x [][]float64) ([][]float64, error) {
	labels, err := k.Predict(x)
	if err != nil {
		return nil, err
	}
	return oneHot(labels, k.classes), nil
}
