package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-cluster/internal/metrics"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/preprocess"
	"github.com/drakos74/free-cluster/internal/report"
	"github.com/drakos74/free-cluster/internal/storage/file/csv"
)

// run holds the state shared by the stages of a pipeline.
type run struct {
	id       string
	config   Config
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	reporter *report.Reporter
}

func newRun(cfg Config) *run {
	id := uuid.New().String()
	logger := log.With().
		Str("run", id).
		Str("dataset", cfg.Dataset).
		Logger()
	return &run{
		id:       id,
		config:   cfg,
		logger:   logger,
		metrics:  metrics.New(id, cfg.Dataset),
		reporter: report.New(cfg.Output, logger),
	}
}

// prepare loads the input and applies the preprocessing plan.
func (r *run) prepare() (raw *model.Table, prepared *model.Table, err error) {
	start := time.Now()
	defer r.metrics.Stage("prepare", start)

	p, err := preprocess.New(r.config.Plan, r.logger)
	if err != nil {
		return nil, nil, err
	}
	raw, err = csv.Load(r.config.Input, csv.Options{Delimiter: r.config.delimiter()})
	if err != nil {
		return nil, nil, err
	}
	if raw.Rows() == 0 {
		return nil, nil, fmt.Errorf("no records in '%s': %w", r.config.Input, model.ErrData)
	}
	prepared, rep, err := p.Apply(raw)
	if err != nil {
		return nil, nil, err
	}
	r.logger.Info().
		Int("rows", prepared.Rows()).
		Int("columns", len(prepared.Columns())).
		Strs("dropped", rep.Dropped).
		Int("imputed", len(rep.Imputed)).
		Int("warnings", len(rep.Warnings)).
		Msg("preprocessed")
	return raw, prepared, nil
}

// features returns the configured features, or every numeric column except the excluded ones.
func (r *run) features(t *model.Table, exclude ...string) ([]string, error) {
	if len(r.config.Features) > 0 {
		for _, f := range r.config.Features {
			if !t.Has(f) {
				return nil, fmt.Errorf("missing feature '%s': %w", f, model.ErrConfig)
			}
		}
		return r.config.Features, nil
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}
	features := make([]string, 0)
	for _, c := range t.Columns() {
		if _, ok := skip[c]; ok {
			continue
		}
		if t.IsNumeric(c) {
			features = append(features, c)
		}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no numeric features left after preprocessing: %w", model.ErrData)
	}
	return features, nil
}

// profile describes the raw input columns.
func (r *run) profile(raw *model.Table) {
	r.reporter.Write(report.ProfileFile, func(path string) error {
		return report.Profile(path, raw)
	})
}

// finish exports the metrics and returns the joined write failures.
func (r *run) finish() error {
	r.reporter.Write(report.MetricsFile, r.metrics.WriteTo)
	return r.reporter.Err()
}
