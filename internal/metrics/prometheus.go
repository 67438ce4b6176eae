package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "cluster"

// Prometheus holds the collectors of a run.
type Prometheus struct {
	Rows       *prometheus.GaugeVec
	Features   *prometheus.GaugeVec
	K          *prometheus.GaugeVec
	Silhouette *prometheus.GaugeVec
	Inertia    *prometheus.GaugeVec
	Accuracy   *prometheus.GaugeVec
	AUC        *prometheus.GaugeVec
	Duration   *prometheus.GaugeVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Rows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rows",
				Help:      "records in the dataset after preprocessing",
			}, []string{"run", "dataset"}),
		Features: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "features",
				Help:      "features used by the models",
			}, []string{"run", "dataset"}),
		K: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "selected_k",
				Help:      "selected number of clusters",
			}, []string{"run", "dataset"}),
		Silhouette: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "silhouette",
				Help:      "mean silhouette coefficient per number of clusters",
			}, []string{"run", "dataset", "k"}),
		Inertia: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "inertia",
				Help:      "sum of squared distances to the centroids per number of clusters",
			}, []string{"run", "dataset", "k"}),
		Accuracy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "accuracy",
				Help:      "classifier accuracy on the test set",
			}, []string{"run", "dataset", "model"}),
		AUC: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "auc",
				Help:      "area under the roc curve",
			}, []string{"run", "dataset", "model"}),
		Duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "duration_seconds",
				Help:      "duration of the pipeline stages",
			}, []string{"run", "dataset", "stage"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Rows, p.Features, p.K, p.Silhouette, p.Inertia, p.Accuracy, p.AUC, p.Duration}
}
