package evaluate

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/drakos74/free-cluster/internal/model"
)

// Curve is a sequence of points, one per threshold.
type Curve struct {
	X          []float64
	Y          []float64
	Thresholds []float64
}

// ROC computes the receiver operating characteristic of the positive class probabilities
// and the area under it. X holds the false positive rate and Y the true positive rate.
func ROC(pp Predictions) (Curve, float64, error) {
	y, classes, err := binary(pp)
	if err != nil {
		return Curve{}, 0, err
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, thresholds := stat.ROC(nil, y, classes, nil)
	auc := integrate.Trapezoidal(fpr, tpr)
	return Curve{
		X:          fpr,
		Y:          tpr,
		Thresholds: thresholds,
	}, auc, nil
}

// PrecisionRecall computes the precision recall curve of the positive class probabilities
// and the average precision. X holds the recall and Y the precision.
func PrecisionRecall(pp Predictions) (Curve, float64, error) {
	y, classes, err := binary(pp)
	if err != nil {
		return Curve{}, 0, err
	}
	order := make([]int, len(y))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return y[order[i]] > y[order[j]]
	})
	positives := 0
	for _, c := range classes {
		if c {
			positives++
		}
	}

	var curve Curve
	tp, fp := 0, 0
	ap, recall := 0.0, 0.0
	for i, idx := range order {
		if classes[idx] {
			tp++
		} else {
			fp++
		}
		// only emit a point once all records sharing the score are counted
		if i+1 < len(order) && y[order[i+1]] == y[idx] {
			continue
		}
		r := float64(tp) / float64(positives)
		p := float64(tp) / float64(tp+fp)
		ap += (r - recall) * p
		recall = r
		curve.X = append(curve.X, r)
		curve.Y = append(curve.Y, p)
		curve.Thresholds = append(curve.Thresholds, y[idx])
	}
	return curve, ap, nil
}

func binary(pp Predictions) ([]float64, []bool, error) {
	if err := pp.Validate(); err != nil {
		return nil, nil, err
	}
	y := make([]float64, len(pp))
	classes := make([]bool, len(pp))
	positives := 0
	for i, p := range pp {
		if p.Actual != 0 && p.Actual != Positive {
			return nil, nil, fmt.Errorf("curves need binary classes, found %d at row %d: %w", p.Actual, p.Row, model.ErrData)
		}
		y[i] = p.Probability
		classes[i] = p.Actual == Positive
		if classes[i] {
			positives++
		}
	}
	if positives == 0 || positives == len(pp) {
		return nil, nil, fmt.Errorf("curves need both classes among %d predictions: %w", len(pp), model.ErrData)
	}
	return y, classes, nil
}
