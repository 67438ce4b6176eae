package evaluate

import (
	"errors"

	"github.com/drakos74/free-cluster/internal/model"
)

// Evaluation gathers the metrics of a model over its predictions.
type Evaluation struct {
	Model     string
	Count     int
	Confusion Confusion
	Accuracy  float64
	Classes   []ClassReport
	ROC       Curve
	AUC       float64
	PR        Curve
	// AP is the average precision, the area under the precision recall curve.
	AP float64
	// Curves is false when the predictions cannot support the ROC and PR curves.
	Curves bool
}

// Evaluate computes all metrics for the predictions.
// Curves are skipped, not failed, when the actual classes are not binary or only one class is present.
func Evaluate(name string, pp Predictions) (Evaluation, error) {
	if err := pp.Validate(); err != nil {
		return Evaluation{}, err
	}
	confusion := ConfusionMatrix(pp)
	e := Evaluation{
		Model:     name,
		Count:     len(pp),
		Confusion: confusion,
		Accuracy:  confusion.Accuracy(),
		Classes:   confusion.Report(),
	}
	roc, auc, err := ROC(pp)
	if err != nil {
		if errors.Is(err, model.ErrData) {
			return e, nil
		}
		return e, err
	}
	pr, ap, err := PrecisionRecall(pp)
	if err != nil {
		return e, err
	}
	e.ROC, e.AUC = roc, auc
	e.PR, e.AP = pr, ap
	e.Curves = true
	return e, nil
}
