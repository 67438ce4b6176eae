package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/drakos74/free-cluster/internal/model"
)

// Metrics records the measurements of a single run on its own registry.
type Metrics struct {
	mutex      *sync.RWMutex
	registry   *prometheus.Registry
	prometheus Prometheus
	run        string
	dataset    string
}

// New creates the metrics for the given run.
func New(run, dataset string) *Metrics {
	p := NewPrometheusMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(p.collectors()...)
	return &Metrics{
		mutex:      new(sync.RWMutex),
		registry:   registry,
		prometheus: p,
		run:        run,
		dataset:    dataset,
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Shape(rows, features int) {
	m.prometheus.Rows.WithLabelValues(m.run, m.dataset).Set(float64(rows))
	m.prometheus.Features.WithLabelValues(m.run, m.dataset).Set(float64(features))
}

func (m *Metrics) Selected(k int) {
	m.prometheus.K.WithLabelValues(m.run, m.dataset).Set(float64(k))
}

// Curve records the score of every tested k.
func (m *Metrics) Curve(curve model.ScoreCurve) {
	for _, s := range curve {
		k := strconv.Itoa(s.K)
		m.prometheus.Silhouette.WithLabelValues(m.run, m.dataset, k).Set(s.Silhouette)
		m.prometheus.Inertia.WithLabelValues(m.run, m.dataset, k).Set(s.Inertia)
	}
}

func (m *Metrics) Classifier(name string, accuracy, auc float64) {
	m.prometheus.Accuracy.WithLabelValues(m.run, m.dataset, name).Set(accuracy)
	m.prometheus.AUC.WithLabelValues(m.run, m.dataset, name).Set(auc)
}

// Stage records the time spent since the given start.
func (m *Metrics) Stage(stage string, start time.Time) {
	m.prometheus.Duration.WithLabelValues(m.run, m.dataset, stage).Set(time.Since(start).Seconds())
}

// WriteTo exports the metrics in the text file format of the node exporter.
func (m *Metrics) WriteTo(path string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir for '%s': %w", path, err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("could not write metrics to '%s': %w", path, err)
	}
	return nil
}
