package evaluate

import (
	"fmt"
	"math"

	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/storage/file/csv"
)

const (
	RowColumn         = "Row"
	ActualColumn      = "Actual"
	PredictedColumn   = "Predicted"
	ProbabilityColumn = "Probability"

	// Positive is the class the probabilities refer to.
	Positive = 1
)

// Prediction is the outcome of a classifier for a single record.
type Prediction struct {
	Row         int
	Actual      int
	Predicted   int
	Probability float64
}

// Predictions holds the outcome of a classifier over a test set.
type Predictions []Prediction

// Align builds the predictions out of the class probabilities of a classifier.
// rows are the source indices of the samples, so every probability stays on the record it was computed for.
func Align(rows []int, actual []int, proba [][]float64) (Predictions, error) {
	if len(rows) != len(actual) || len(rows) != len(proba) {
		return nil, fmt.Errorf("cannot align %d rows with %d labels and %d predictions: %w", len(rows), len(actual), len(proba), model.ErrData)
	}
	pp := make(Predictions, len(rows))
	for i, p := range proba {
		probability := 0.0
		if Positive < len(p) {
			probability = p[Positive]
		}
		pp[i] = Prediction{
			Row:         rows[i],
			Actual:      actual[i],
			Predicted:   ml.Argmax(p),
			Probability: probability,
		}
	}
	return pp, nil
}

// Validate checks that probabilities are within [0,1].
func (pp Predictions) Validate() error {
	if len(pp) == 0 {
		return fmt.Errorf("no predictions: %w", model.ErrData)
	}
	for i, p := range pp {
		if math.IsNaN(p.Probability) || p.Probability < 0 || p.Probability > 1 {
			return fmt.Errorf("probability %f out of range at row %d: %w", p.Probability, p.Row, model.ErrData)
		}
		if p.Actual < 0 || p.Predicted < 0 {
			return fmt.Errorf("negative class at line %d: %w", i, model.ErrData)
		}
	}
	return nil
}

// Table converts the predictions into a record table.
func (pp Predictions) Table() *model.Table {
	t := model.NewTable(RowColumn, ActualColumn, PredictedColumn, ProbabilityColumn)
	for _, p := range pp {
		// the row length always matches the columns
		_ = t.Append(
			model.Num(float64(p.Row)),
			model.Num(float64(p.Actual)),
			model.Num(float64(p.Predicted)),
			model.Num(p.Probability),
		)
	}
	return t
}

// Load reads the predictions from a csv file with Actual, Predicted and Probability columns.
// A Row column is optional, the line index is used otherwise.
func Load(path string) (Predictions, error) {
	t, err := csv.Load(path, csv.Options{})
	if err != nil {
		return nil, err
	}
	if t.Rows() == 0 {
		return nil, fmt.Errorf("no predictions in '%s': %w", path, model.ErrData)
	}
	for _, c := range []string{ActualColumn, PredictedColumn, ProbabilityColumn} {
		if !t.Has(c) {
			return nil, fmt.Errorf("missing column '%s' in '%s': %w", c, path, model.ErrData)
		}
	}

	pp := make(Predictions, t.Rows())
	for i := range pp {
		p := Prediction{Row: i}
		if t.Has(RowColumn) {
			if p.Row, err = integer(t, i, RowColumn, path); err != nil {
				return nil, err
			}
		}
		if p.Actual, err = integer(t, i, ActualColumn, path); err != nil {
			return nil, err
		}
		if p.Predicted, err = integer(t, i, PredictedColumn, path); err != nil {
			return nil, err
		}
		v, err := t.Value(i, ProbabilityColumn)
		if err != nil {
			return nil, err
		}
		if !v.IsNumeric() {
			return nil, fmt.Errorf("invalid probability '%s' at line %d in '%s': %w", v.String(), i, path, model.ErrData)
		}
		p.Probability = v.Num
		pp[i] = p
	}
	if err := pp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid predictions in '%s': %w", path, err)
	}
	return pp, nil
}

func integer(t *model.Table, row int, column, path string) (int, error) {
	v, err := t.Value(row, column)
	if err != nil {
		return 0, err
	}
	if !v.IsNumeric() || v.Num != math.Trunc(v.Num) {
		return 0, fmt.Errorf("invalid %s '%s' at line %d in '%s': %w", column, v.String(), row, path, model.ErrData)
	}
	return int(v.Num), nil
}
