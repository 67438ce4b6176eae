package report

import (
	"fmt"
	"strconv"

	"github.com/drakos74/free-cluster/internal/evaluate"
	clustermath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/storage/file/csv"
)

// ClusterColumn is the column appended to the records with their cluster id.
const ClusterColumn = "Cluster"

// Clusters writes the records augmented with their cluster id.
func Clusters(path string, t *model.Table, assignment model.Assignment) error {
	if len(assignment) != t.Rows() {
		return fmt.Errorf("%d assignments for %d rows: %w", len(assignment), t.Rows(), model.ErrData)
	}
	out := t.Clone()
	ids := make([]model.Value, len(assignment))
	for i, c := range assignment {
		ids[i] = model.Num(float64(c))
	}
	if err := out.Set(ClusterColumn, ids); err != nil {
		return err
	}
	return csv.Write(path, out)
}

// Centroids writes one row per cluster id with the centroid in the original units.
func Centroids(path string, features []string, centroids model.Centroids, sizes []int) error {
	header := append([]string{ClusterColumn, "Size"}, features...)
	records := make([][]string, len(centroids))
	for i, c := range centroids {
		if len(c) != len(features) {
			return fmt.Errorf("centroid %d has %d values for %d features: %w", i, len(c), len(features), model.ErrData)
		}
		size := 0
		if i < len(sizes) {
			size = sizes[i]
		}
		record := []string{strconv.Itoa(i), strconv.Itoa(size)}
		for _, v := range c {
			record = append(record, num(v))
		}
		records[i] = record
	}
	return csv.WriteRecords(path, header, records)
}

// Scores writes the score curve.
func Scores(path string, curve model.ScoreCurve) error {
	records := make([][]string, len(curve))
	for i, s := range curve {
		records[i] = []string{strconv.Itoa(s.K), num(s.Inertia), num(s.Silhouette)}
	}
	return csv.WriteRecords(path, []string{"k", "inertia", "silhouette"}, records)
}

// Importance writes the feature importance, one row per feature.
func Importance(path string, features []string, importance []float64) error {
	if len(features) != len(importance) {
		return fmt.Errorf("%d importance values for %d features: %w", len(importance), len(features), model.ErrData)
	}
	records := make([][]string, len(features))
	for i, f := range features {
		records[i] = []string{f, num(importance[i])}
	}
	return csv.WriteRecords(path, []string{"feature", "importance"}, records)
}

// Predictions writes the predictions of a model.
func Predictions(path string, name string, pp evaluate.Predictions) error {
	records := make([][]string, len(pp))
	for i, p := range pp {
		records[i] = []string{
			name,
			strconv.Itoa(p.Row),
			strconv.Itoa(p.Actual),
			strconv.Itoa(p.Predicted),
			num(p.Probability),
		}
	}
	return csv.WriteRecords(path, []string{"Model", evaluate.RowColumn, evaluate.ActualColumn, evaluate.PredictedColumn, evaluate.ProbabilityColumn}, records)
}

// Evaluations writes the metrics of every model, one row per model and class.
func Evaluations(path string, ee []evaluate.Evaluation) error {
	records := make([][]string, 0)
	for _, e := range ee {
		auc := ""
		ap := ""
		if e.Curves {
			auc = num(e.AUC)
			ap = num(e.AP)
		}
		for _, c := range e.Classes {
			records = append(records, []string{
				e.Model,
				strconv.Itoa(c.Class),
				num(c.Precision),
				num(c.Recall),
				num(c.F1),
				strconv.Itoa(c.Support),
				num(e.Accuracy),
				auc,
				ap,
			})
		}
	}
	return csv.WriteRecords(path, []string{"model", "class", "precision", "recall", "f1", "support", "accuracy", "auc", "average_precision"}, records)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// format rounds for console output.
func format(f float64) string {
	return clustermath.Format(f)
}
