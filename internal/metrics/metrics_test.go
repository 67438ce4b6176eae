package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-cluster/internal/model"
)

func TestMetrics(t *testing.T) {
	m := New("run-1", "customers")
	m.Shape(200, 4)
	m.Selected(3)
	m.Curve(model.ScoreCurve{
		{K: 2, Inertia: 120, Silhouette: 0.4},
		{K: 3, Inertia: 60, Silhouette: 0.6},
	})
	m.Classifier("forest", 0.8, 0.9)
	m.Stage("select", time.Now())

	assert.Equal(t, 200.0, testutil.ToFloat64(m.prometheus.Rows))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.prometheus.K))
	assert.Equal(t, 0.6, testutil.ToFloat64(m.prometheus.Silhouette.WithLabelValues("run-1", "customers", "3")))

	path := filepath.Join(t.TempDir(), "out", "metrics.prom")
	require.NoError(t, m.WriteTo(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)
	assert.Contains(t, content, `cluster_selected_k{dataset="customers",run="run-1"} 3`)
	assert.Contains(t, content, `cluster_auc{dataset="customers",model="forest",run="run-1"} 0.9`)
	assert.Contains(t, content, `cluster_inertia{dataset="customers",k="2",run="run-1"} 120`)
}
