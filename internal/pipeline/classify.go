package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/drakos74/free-cluster/internal/evaluate"
	clustermath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/report"
)

// Classification is the outcome of a classification run.
type Classification struct {
	Run         string
	Features    []string
	Split       ml.Split
	Predictions map[string]evaluate.Predictions
	Evaluations []evaluate.Evaluation
	Written     []string
}

// Classify trains the configured classifiers on a seeded split of the records and evaluates them on the held out part.
func Classify(cfg Config, out io.Writer) (*Classification, error) {
	if err := cfg.ValidateClassify(); err != nil {
		return nil, err
	}
	r := newRun(cfg)
	r.logger.Info().
		Str("input", cfg.Input).
		Str("label", cfg.Label).
		Strs("models", cfg.Models).
		Msg("classifying")

	raw, prepared, err := r.prepare()
	if err != nil {
		return nil, err
	}
	labels, err := classes(prepared, cfg.Label)
	if err != nil {
		return nil, err
	}
	features, err := r.features(prepared, cfg.Label)
	if err != nil {
		return nil, err
	}
	m, err := prepared.Matrix(features)
	if err != nil {
		return nil, err
	}
	rows, _ := m.Dims()
	r.metrics.Shape(rows, len(features))
	r.profile(raw)

	split, err := ml.TrainTestSplit(rows, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("could not split records: %v: %w", err, model.ErrData)
	}
	x := clustermath.Rows(m)
	trainX := ml.Select(x, split.Train)
	testX := ml.Select(x, split.Test)

	// the scaler only sees the training part
	train, err := clustermath.FromRows(trainX)
	if err != nil {
		return nil, err
	}
	scaler := clustermath.FitScaler(train)
	if trainX, err = scaleRows(scaler, trainX); err != nil {
		return nil, err
	}
	if testX, err = scaleRows(scaler, testX); err != nil {
		return nil, err
	}
	trainY := ml.SelectLabels(labels, split.Train)
	testY := ml.SelectLabels(labels, split.Test)

	result := &Classification{
		Run:         r.id,
		Features:    features,
		Split:       split,
		Predictions: make(map[string]evaluate.Predictions),
	}
	for _, name := range cfg.Models {
		start := time.Now()
		classifier := r.classifier(name)
		if err := classifier.Train(trainX, trainY); err != nil {
			return nil, fmt.Errorf("could not train '%s': %w", name, err)
		}
		proba, err := classifier.PredictProba(testX)
		if err != nil {
			return nil, fmt.Errorf("could not predict with '%s': %w", name, err)
		}
		pp, err := evaluate.Align(split.Test, testY, proba)
		if err != nil {
			return nil, err
		}
		e, err := evaluate.Evaluate(name, pp)
		if err != nil {
			return nil, fmt.Errorf("could not evaluate '%s': %w", name, err)
		}
		r.metrics.Stage(name, start)
		r.metrics.Classifier(name, e.Accuracy, e.AUC)
		r.logger.Info().
			Str("model", name).
			Float64("accuracy", e.Accuracy).
			Float64("auc", e.AUC).
			Msg("evaluated")
		r.logger.Debug().Str("model", name).Msg(e.Confusion.Summary())

		result.Predictions[name] = pp
		result.Evaluations = append(result.Evaluations, e)
		r.reporter.Write(report.PredictionsFile(name), func(path string) error {
			return report.Predictions(path, name, pp)
		})
		r.curveReport(e)
	}
	r.reporter.Write(report.EvaluationFile, func(path string) error {
		return report.Evaluations(path, result.Evaluations)
	})

	report.PrintEvaluations(out, result.Evaluations)
	for _, e := range result.Evaluations {
		report.PrintConfusion(out, e.Model, e.Confusion)
	}
	err = r.finish()
	result.Written = r.reporter.Written()
	return result, err
}

func (r *run) classifier(name string) ml.Classifier {
	switch name {
	case LogisticModel:
		return ml.NewLogistic(ml.DefaultLearningRate, ml.DefaultEpochs)
	case TreeModel:
		return ml.NewDecisionTree(ml.GiniCriterion, r.config.Depth, "")
	case KnnModel:
		return ml.NewKnn(r.config.Neighbours, "")
	default:
		return ml.NewForest(r.config.Trees, r.config.Seed)
	}
}

func (r *run) curveReport(e evaluate.Evaluation) {
	if !e.Curves {
		r.logger.Warn().Str("model", e.Model).Msg("predictions cannot support roc and pr curves")
		return
	}
	r.reporter.Write(report.ROCChart(e.Model), func(path string) error {
		return report.CurveChart(path, fmt.Sprintf("ROC %s (auc=%s)", e.Model, clustermath.Format(e.AUC)), "false positive rate", "true positive rate", e.ROC)
	})
	r.reporter.Write(report.PRChart(e.Model), func(path string) error {
		return report.CurveChart(path, fmt.Sprintf("Precision recall %s (ap=%s)", e.Model, clustermath.Format(e.AP)), "recall", "precision", e.PR)
	})
}

// classes reads the label column as non-negative integer classes.
func classes(t *model.Table, label string) ([]int, error) {
	vv, err := t.Column(label)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(vv))
	for i, v := range vv {
		if !v.IsNumeric() || v.Num < 0 || v.Num != math.Trunc(v.Num) {
			return nil, fmt.Errorf("label '%s' has invalid class '%s' at row %d: %w", label, v.String(), i, model.ErrData)
		}
		labels[i] = int(v.Num)
	}
	return labels, nil
}

func scaleRows(scaler *clustermath.StandardScaler, x [][]float64) ([][]float64, error) {
	m, err := clustermath.FromRows(x)
	if err != nil {
		return nil, err
	}
	scaled, err := scaler.Transform(m)
	if err != nil {
		return nil, err
	}
	return clustermath.Rows(scaled), nil
}
