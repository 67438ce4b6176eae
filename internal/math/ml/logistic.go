package ml

import (
	"fmt"
	"io"

	"github.com/cdipaolo/goml/base"
	"github.com/cdipaolo/goml/linear"
	"github.com/rs/zerolog/log"
)

const (
	DefaultLearningRate = 1.0
	DefaultEpochs       = 500
)

// Logistic is a one-vs-rest logistic regression on top of the goml binary model.
type Logistic struct {
	rate     float64
	epochs   int
	features int
	models   []*linear.Logistic
}

// NewLogistic creates a new logistic regression.
// The rate is divided by the number of samples, since goml sums the gradient over the training set.
func NewLogistic(rate float64, epochs int) *Logistic {
	if rate <= 0 {
		rate = DefaultLearningRate
	}
	if epochs <= 0 {
		epochs = DefaultEpochs
	}
	return &Logistic{
		rate:   rate,
		epochs: epochs,
	}
}

// Train fits one binary model per class.
func (l *Logistic) Train(x [][]float64, y []int) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	classes, err := classCount(y)
	if err != nil {
		return err
	}
	alpha := l.rate / float64(len(x))
	models := make([]*linear.Logistic, classes)
	for c := range models {
		target := make([]float64, len(y))
		for i, label := range y {
			if label == c {
				target[i] = 1
			}
		}
		model := linear.NewLogistic(base.BatchGA, alpha, 0, l.epochs, x, target)
		model.Output = io.Discard
		if err := model.Learn(); err != nil {
			return fmt.Errorf("could not train class %d: %w", c, err)
		}
		models[c] = model
	}
	l.models = models
	l.features = len(x[0])
	log.Debug().
		Float64("alpha", alpha).
		Int("epochs", l.epochs).
		Int("samples", len(x)).
		Int("classes", classes).
		Msg("trained logistic regression")
	return nil
}

// PredictProba returns the class scores of every sample normalised to sum to 1.
func (l *Logistic) PredictProba(x [][]float64) ([][]float64, error) {
	if len(l.models) == 0 {
		return nil, fmt.Errorf("logistic regression is not trained")
	}
	if err := checkSamples(x, l.features); err != nil {
		return nil, err
	}
	pp := make([][]float64, len(x))
	for i, row := range x {
		p := make([]float64, len(l.models))
		sum := 0.0
		for c, model := range l.models {
			score, err := model.Predict(row)
			if err != nil {
				return nil, fmt.Errorf("could not predict sample %d: %w", i, err)
			}
			p[c] = score[0]
			sum += score[0]
		}
		if sum > 0 {
			for c := range p {
				p[c] /= sum
			}
		}
		pp[i] = p
	}
	return pp, nil
}
