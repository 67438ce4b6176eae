package report

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/drakos74/free-cluster/internal/evaluate"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/storage/file/csv"
)

func records(t *testing.T) *model.Table {
	tb := model.NewTable("age", "income")
	require.NoError(t, tb.Append(model.Num(20), model.Num(1000)))
	require.NoError(t, tb.Append(model.Num(22), model.Num(1100)))
	require.NoError(t, tb.Append(model.Num(60), model.Num(9000)))
	return tb
}

func curve() model.ScoreCurve {
	return model.ScoreCurve{
		{K: 2, Inertia: 10, Silhouette: 0.8},
		{K: 3, Inertia: 4, Silhouette: 0.5},
	}
}

func TestReporter_Outputs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	r := New(dir, zerolog.Nop())

	tb := records(t)
	assignment := model.Assignment{0, 0, 1}
	centroids := model.Centroids{{21, 1050}, {60, 9000}}

	r.Write(ClustersFile, func(path string) error {
		return Clusters(path, tb, assignment)
	})
	r.Write(CentroidsFile, func(path string) error {
		return Centroids(path, tb.Columns(), centroids, assignment.Sizes(2))
	})
	r.Write(ScoresFile, func(path string) error {
		return Scores(path, curve())
	})
	r.Write(ScoresChart, func(path string) error {
		return ScoreChart(path, curve())
	})
	r.Write(ClustersChart, func(path string) error {
		return ClusterChart(path, mat.NewDense(3, 2, []float64{-1, 0, -0.9, 0.1, 2, 0}), assignment, 2)
	})
	require.NoError(t, r.Err())
	assert.Equal(t, 5, len(r.Written()))

	clusters, err := csv.Load(filepath.Join(dir, ClustersFile), csv.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "income", ClusterColumn}, clusters.Columns())
	v, err := clusters.Value(2, ClusterColumn)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num)
	// the records are not changed
	assert.False(t, tb.Has(ClusterColumn))

	b, err := os.ReadFile(filepath.Join(dir, CentroidsFile))
	require.NoError(t, err)
	assert.Equal(t, "Cluster,Size,age,income\n0,2,21,1050\n1,1,60,9000\n", string(b))

	b, err = os.ReadFile(filepath.Join(dir, ScoresFile))
	require.NoError(t, err)
	assert.Equal(t, "k,inertia,silhouette\n2,10,0.8\n3,4,0.5\n", string(b))

	for _, chart := range []string{ScoresChart, ClustersChart} {
		b, err := os.ReadFile(filepath.Join(dir, chart))
		require.NoError(t, err)
		assert.Contains(t, string(b), "echarts")
	}
}

func TestReporter_IndependentWrites(t *testing.T) {
	dir := t.TempDir()
	// a file where a directory is expected
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	r := New(dir, zerolog.Nop())
	ok := r.Write(filepath.Join(blocked, ScoresFile), func(path string) error {
		return Scores(path, curve())
	})
	assert.False(t, ok)
	ok = r.Write(ScoresFile, func(path string) error {
		return Scores(path, curve())
	})
	assert.True(t, ok)
	ok = r.Write(ClustersFile, func(path string) error {
		return Clusters(path, records(t), model.Assignment{0})
	})
	assert.False(t, ok)

	err := r.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(blocked, ScoresFile))
	assert.Contains(t, err.Error(), filepath.Join(dir, ClustersFile))
	assert.True(t, errors.Is(err, model.ErrData))
	assert.Equal(t, []string{filepath.Join(dir, ScoresFile)}, r.Written())

	_, err = os.Stat(filepath.Join(dir, ScoresFile))
	assert.NoError(t, err)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	PrintCentroids(&buf, []string{"age", "income"}, model.Centroids{{21, 1050}, {60, 9000}}, []int{2, 1})
	PrintCurve(&buf, curve())

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "INCOME")
	assert.Contains(t, out, "1050.00")
	assert.Contains(t, out, "silhouette for k in [2,3]")

	buf.Reset()
	e, err := evaluate.Evaluate("forest", evaluate.Predictions{
		{Row: 0, Actual: 0, Predicted: 0, Probability: 0.1},
		{Row: 1, Actual: 1, Predicted: 1, Probability: 0.9},
	})
	require.NoError(t, err)
	PrintEvaluations(&buf, []evaluate.Evaluation{e})
	PrintConfusion(&buf, "forest", e.Confusion)
	assert.Contains(t, buf.String(), "forest")
}

func TestEvaluationOutputs(t *testing.T) {
	dir := t.TempDir()
	pp := evaluate.Predictions{
		{Row: 3, Actual: 0, Predicted: 0, Probability: 0.2},
		{Row: 1, Actual: 1, Predicted: 1, Probability: 0.7},
	}
	e, err := evaluate.Evaluate("knn", pp)
	require.NoError(t, err)

	require.NoError(t, Predictions(filepath.Join(dir, PredictionsFile("knn")), "knn", pp))
	require.NoError(t, Evaluations(filepath.Join(dir, EvaluationFile), []evaluate.Evaluation{e}))
	require.NoError(t, CurveChart(filepath.Join(dir, ROCChart("knn")), "ROC knn", "fpr", "tpr", e.ROC))
	require.NoError(t, Importance(filepath.Join(dir, ImportanceFile), []string{"a", "b"}, []float64{0.25, 0.75}))

	b, err := os.ReadFile(filepath.Join(dir, PredictionsFile("knn")))
	require.NoError(t, err)
	assert.Equal(t, "Model,Row,Actual,Predicted,Probability\nknn,3,0,0,0.2\nknn,1,1,1,0.7\n", string(b))

	// predictions written by the reporter can be evaluated again
	loaded, err := evaluate.Load(filepath.Join(dir, PredictionsFile("knn")))
	require.NoError(t, err)
	assert.Equal(t, pp, loaded)

	assert.Error(t, Importance(filepath.Join(dir, ImportanceFile), []string{"a"}, []float64{0.25, 0.75}))
}

func TestProfile(t *testing.T) {
	tb := model.NewTable("age", "sex", "cabin")
	require.NoError(t, tb.Append(model.Num(20), model.Str("male"), model.NA()))
	require.NoError(t, tb.Append(model.NA(), model.Str("female"), model.NA()))
	require.NoError(t, tb.Append(model.Num(40), model.Str("male"), model.NA()))

	profiles := Describe(tb)
	require.Len(t, profiles, 3)

	age := profiles[0]
	assert.True(t, age.Numeric)
	assert.Equal(t, 2, age.Count)
	assert.Equal(t, 1, age.Missing)
	assert.Equal(t, 30.0, age.Stats.Mean())
	assert.Equal(t, 10.0, age.Stats.StDev())

	sex := profiles[1]
	assert.False(t, sex.Numeric)
	assert.Equal(t, 2, sex.Levels)
	assert.Equal(t, 3, sex.Count)

	path := filepath.Join(t.TempDir(), ProfileFile)
	require.NoError(t, Profile(path, tb))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Equal(t, []string{
		"column,kind,count,missing,levels,mean,std,min,max",
		"age,numeric,2,1,0,30,10,20,40",
		"sex,categorical,3,0,2,,,,",
		"cabin,numeric,0,3,0,,,,",
	}, lines)
}

type closingRenderer struct{}

func (closingRenderer) Render(w io.Writer) error {
	return w.(*os.File).Close()
}

func TestRender_CloseError(t *testing.T) {
	err := render(filepath.Join(t.TempDir(), "chart.html"), closingRenderer{})
	assert.True(t, errors.Is(err, os.ErrClosed), err)
}
