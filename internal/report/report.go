package report

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	ClustersFile   = "clusters.csv"
	CentroidsFile  = "centroids.csv"
	ScoresFile     = "scores.csv"
	ScoresChart    = "scores.html"
	ClustersChart  = "clusters.html"
	MetricsFile    = "metrics.prom"
	ImportanceFile = "feature_importance.csv"
	EvaluationFile = "evaluation.csv"
	ProfileFile    = "profile.csv"
)

// PredictionsFile is the name of the predictions of the given model.
func PredictionsFile(model string) string {
	return fmt.Sprintf("predictions_%s.csv", model)
}

// ROCChart is the name of the roc curve of the given model.
func ROCChart(model string) string {
	return fmt.Sprintf("roc_%s.html", model)
}

// PRChart is the name of the precision recall curve of the given model.
func PRChart(model string) string {
	return fmt.Sprintf("pr_%s.html", model)
}

// Reporter writes the outputs of a run under a root directory.
// Every output is written independently: a failure is logged with the attempted path,
// the remaining outputs are still written and all failures are returned by Err.
type Reporter struct {
	dir     string
	logger  zerolog.Logger
	written []string
	errs    []error
}

// New creates a new reporter writing under dir.
func New(dir string, logger zerolog.Logger) *Reporter {
	return &Reporter{
		dir:    dir,
		logger: logger,
	}
}

// Path resolves the given file name under the output directory.
// Absolute paths are kept as they are.
func (r *Reporter) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(r.dir, name)
}

// Write runs the given writer for the named output and records its outcome.
func (r *Reporter) Write(name string, write func(path string) error) bool {
	path := r.Path(name)
	if err := write(path); err != nil {
		r.logger.Error().Err(err).Str("path", path).Msg("could not write output")
		r.errs = append(r.errs, fmt.Errorf("%s: %w", path, err))
		return false
	}
	r.logger.Debug().Str("path", path).Msg("written output")
	r.written = append(r.written, path)
	return true
}

// Written returns the paths of the outputs written so far.
func (r *Reporter) Written() []string {
	ww := make([]string, len(r.written))
	copy(ww, r.written)
	return ww
}

// Err returns the joined write failures, if any.
func (r *Reporter) Err() error {
	return errors.Join(r.errs...)
}
