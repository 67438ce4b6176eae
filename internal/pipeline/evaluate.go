package pipeline

import (
	"io"

	"github.com/drakos74/free-cluster/internal/evaluate"
	"github.com/drakos74/free-cluster/internal/report"
)

// Evaluate computes the metrics and curves of a predictions file.
func Evaluate(cfg Config, out io.Writer) (*evaluate.Evaluation, error) {
	if err := cfg.ValidateEvaluate(); err != nil {
		return nil, err
	}
	r := newRun(cfg)
	path := cfg.Predictions
	if path == "" {
		path = cfg.Input
	}
	r.logger.Info().Str("predictions", path).Msg("evaluating")

	pp, err := evaluate.Load(path)
	if err != nil {
		return nil, err
	}
	e, err := evaluate.Evaluate(cfg.Dataset, pp)
	if err != nil {
		return nil, err
	}
	r.metrics.Shape(len(pp), 0)
	r.metrics.Classifier(cfg.Dataset, e.Accuracy, e.AUC)
	r.logger.Debug().Msg(e.Confusion.Summary())

	r.reporter.Write(report.EvaluationFile, func(path string) error {
		return report.Evaluations(path, []evaluate.Evaluation{e})
	})
	r.curveReport(e)

	report.PrintEvaluations(out, []evaluate.Evaluation{e})
	report.PrintConfusion(out, cfg.Dataset, e.Confusion)
	return &e, r.finish()
}
