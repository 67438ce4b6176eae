package pipeline

import (
	"fmt"
	"io"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/drakos74/free-cluster/internal/cluster"
	clustermath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/report"
)

// Summary is the outcome of a segmentation run.
type Summary struct {
	Run        string
	Features   []string
	Selection  cluster.Selection
	Result     cluster.Result
	Importance []float64
	Written    []string
}

// Segment loads the records, selects the number of clusters, fits them and reports the outcome.
// Output failures do not stop the run, they are returned joined once all outputs were attempted.
func Segment(cfg Config, out io.Writer) (*Summary, error) {
	if err := cfg.ValidateSegment(); err != nil {
		return nil, err
	}
	r := newRun(cfg)
	r.logger.Info().
		Str("input", cfg.Input).
		Int("k-min", cfg.K.Min).
		Int("k-max", cfg.K.Max).
		Msg("segmenting")

	raw, prepared, err := r.prepare()
	if err != nil {
		return nil, err
	}
	features, err := r.features(prepared)
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

	scaler := clustermath.FitScaler(m)
	scaled, err := scaler.Transform(m)
	if err != nil {
		return nil, err
	}

	clusterer, err := cluster.New(cfg.Cluster())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	selection, err := cluster.NewSelector(clusterer, cfg.Cluster(), r.logger).Select(scaled, cfg.K)
	if err != nil {
		return nil, fmt.Errorf("could not select number of clusters: %w", err)
	}
	r.metrics.Stage("select", start)
	r.metrics.Curve(selection.Curve)

	start = time.Now()
	result, err := cluster.NewFitter(clusterer, cfg.Cluster(), r.logger).Fit(scaled, selection.K, scaler)
	if err != nil {
		return nil, fmt.Errorf("could not fit clusters: %w", err)
	}
	r.metrics.Stage("fit", start)
	r.metrics.Selected(result.K)

	summary := &Summary{
		Run:       r.id,
		Features:  features,
		Selection: selection,
		Result:    result,
	}

	if cfg.Importance && result.K > 1 {
		forest := ml.NewForest(cfg.Trees, cfg.Seed)
		if err := forest.Train(clustermath.Rows(scaled), result.Assignment); err != nil {
			r.logger.Warn().Err(err).Msg("could not rank features")
		} else {
			summary.Importance = forest.Importance()
		}
	}

	if store, err := r.store(); err != nil {
		r.logger.Error().Err(err).Msg("could not open model store")
	} else if err := cluster.Save(store, r.modelKey(), cluster.NewSnapshot(features, scaler, result)); err != nil {
		r.logger.Error().Err(err).Msg("could not persist model")
	}

	r.segmentReport(raw, scaled, summary)

	report.PrintCentroids(out, features, result.Centroids, result.Assignment.Sizes(result.K))
	if len(selection.Curve) > 0 {
		report.PrintCurve(out, selection.Curve)
	}

	err = r.finish()
	summary.Written = r.reporter.Written()
	return summary, err
}

func (r *run) segmentReport(raw *model.Table, scaled *mat.Dense, summary *Summary) {
	result := summary.Result
	r.reporter.Write(report.ClustersFile, func(path string) error {
		return report.Clusters(path, raw, result.Assignment)
	})
	r.reporter.Write(report.CentroidsFile, func(path string) error {
		return report.Centroids(path, summary.Features, result.Centroids, result.Assignment.Sizes(result.K))
	})
	if len(summary.Selection.Curve) > 0 {
		r.reporter.Write(report.ScoresFile, func(path string) error {
			return report.Scores(path, summary.Selection.Curve)
		})
		r.reporter.Write(report.ScoresChart, func(path string) error {
			return report.ScoreChart(path, summary.Selection.Curve)
		})
	}
	r.reporter.Write(report.ClustersChart, func(path string) error {
		projection, err := clustermath.Project(scaled, 2)
		if err != nil {
			return err
		}
		return report.ClusterChart(path, projection, result.Assignment, result.K)
	})
	if summary.Importance != nil {
		r.reporter.Write(report.ImportanceFile, func(path string) error {
			return report.Importance(path, summary.Features, summary.Importance)
		})
	}
}
