package evaluate

import (
	"math"
	"sort"
	"strconv"

	"github.com/sjwhitworth/golearn/evaluation"
)

// Confusion counts predictions per actual and predicted class.
type Confusion struct {
	Classes []int
	// Counts is indexed by the position of the actual and then the predicted class in Classes.
	Counts [][]int
	// Matrix is the same counts keyed by class name, as golearn expects them.
	Matrix evaluation.ConfusionMatrix
}

// ConfusionMatrix builds the confusion matrix of the predictions.
// Every class seen either as actual or predicted gets a full row, so false positives
// of classes that never occur are still counted.
func ConfusionMatrix(pp Predictions) Confusion {
	set := make(map[int]struct{})
	for _, p := range pp {
		set[p.Actual] = struct{}{}
		set[p.Predicted] = struct{}{}
	}
	classes := make([]int, 0, len(set))
	for c := range set {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	matrix := make(evaluation.ConfusionMatrix, len(classes))
	for _, actual := range classes {
		row := make(map[string]int, len(classes))
		for _, predicted := range classes {
			row[name(predicted)] = 0
		}
		matrix[name(actual)] = row
	}
	for _, p := range pp {
		matrix[name(p.Actual)][name(p.Predicted)]++
	}

	counts := make([][]int, len(classes))
	for i, actual := range classes {
		counts[i] = make([]int, len(classes))
		for j, predicted := range classes {
			counts[i][j] = matrix[name(actual)][name(predicted)]
		}
	}
	return Confusion{
		Classes: classes,
		Counts:  counts,
		Matrix:  matrix,
	}
}

// Accuracy is the share of correct predictions.
func (c Confusion) Accuracy() float64 {
	return defined(evaluation.GetAccuracy(c.Matrix))
}

// ClassReport holds the per class metrics.
type ClassReport struct {
	Class     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report computes precision, recall and f1 score for every class.
// Undefined ratios are reported as 0.
func (c Confusion) Report() []ClassReport {
	reports := make([]ClassReport, len(c.Classes))
	for i, class := range c.Classes {
		n := name(class)
		support := 0
		for _, count := range c.Matrix[n] {
			support += count
		}
		reports[i] = ClassReport{
			Class:     class,
			Precision: defined(evaluation.GetPrecision(n, c.Matrix)),
			Recall:    defined(evaluation.GetRecall(n, c.Matrix)),
			F1:        defined(evaluation.GetF1Score(n, c.Matrix)),
			Support:   support,
		}
	}
	return reports
}

// Summary renders the golearn per class summary table.
func (c Confusion) Summary() string {
	if len(c.Matrix) == 0 {
		return ""
	}
	return evaluation.GetSummary(c.Matrix)
}

func name(class int) string {
	return strconv.Itoa(class)
}

// defined maps the NaN of an empty ratio to 0.
func defined(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
