package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"

	"github.com/drakos74/free-cluster/internal/evaluate"
	"github.com/drakos74/free-cluster/internal/model"
)

type renderer interface {
	Render(w io.Writer) error
}

// render writes the chart page to the given path, creating the parent directories.
func render(path string, r renderer) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close file: %w", cerr)
		}
	}()
	return r.Render(f)
}

func lineChart(title, x, y string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: x}),
		charts.WithYAxisOpts(opts.YAxis{Name: y}),
	)
	return line
}

// ScoreChart renders the silhouette and inertia per k as two line charts on one page.
func ScoreChart(path string, curve model.ScoreCurve) error {
	if len(curve) == 0 {
		return fmt.Errorf("empty score curve: %w", model.ErrData)
	}
	ks := make([]string, len(curve))
	silhouette := make([]opts.LineData, len(curve))
	inertia := make([]opts.LineData, len(curve))
	for i, s := range curve {
		ks[i] = strconv.Itoa(s.K)
		silhouette[i] = opts.LineData{Value: s.Silhouette}
		inertia[i] = opts.LineData{Value: s.Inertia}
	}

	best, _ := curve.Best()
	sc := lineChart(fmt.Sprintf("Silhouette (k*=%d)", best.K), "k", "silhouette")
	sc.SetXAxis(ks).AddSeries("silhouette", silhouette, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))

	ic := lineChart("Elbow", "k", "inertia")
	ic.SetXAxis(ks).AddSeries("inertia", inertia, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))

	page := components.NewPage()
	page.AddCharts(sc, ic)
	return render(path, page)
}

// ClusterChart renders the 2D projection of the records coloured by cluster id.
func ClusterChart(path string, projection mat.Matrix, assignment model.Assignment, k int) error {
	r, c := projection.Dims()
	if r != len(assignment) {
		return fmt.Errorf("%d assignments for %d projected rows: %w", len(assignment), r, model.ErrData)
	}
	if c < 2 {
		return fmt.Errorf("projection needs 2 components, got %d: %w", c, model.ErrData)
	}
	series := make([][]opts.ScatterData, k)
	for i, id := range assignment {
		if id < 0 || id >= k {
			return fmt.Errorf("cluster id %d out of range [0,%d): %w", id, k, model.ErrData)
		}
		series[id] = append(series[id], opts.ScatterData{
			Value:      []float64{projection.At(i, 0), projection.At(i, 1)},
			SymbolSize: 8,
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Clusters"}),
		charts.WithTitleOpts(opts.Title{Title: "Clusters", Subtitle: "first two principal components"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "pc1", Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "pc2", Type: "value", Scale: opts.Bool(true)}),
	)
	for id, data := range series {
		scatter.AddSeries(fmt.Sprintf("cluster %d", id), data)
	}
	return render(path, scatter)
}

// CurveChart renders an evaluation curve, e.g. roc or precision recall.
func CurveChart(path string, title, x, y string, curve evaluate.Curve) error {
	if len(curve.X) == 0 || len(curve.X) != len(curve.Y) {
		return fmt.Errorf("invalid curve with %d/%d points: %w", len(curve.X), len(curve.Y), model.ErrData)
	}
	data := make([]opts.LineData, len(curve.X))
	for i := range curve.X {
		data[i] = opts.LineData{Value: []float64{curve.X[i], curve.Y[i]}}
	}
	line := lineChart(title, x, y)
	line.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Name: x, Type: "value", Min: 0, Max: 1}),
		charts.WithYAxisOpts(opts.YAxis{Name: y, Type: "value", Min: 0, Max: 1}),
	)
	line.AddSeries(title, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	return render(path, line)
}
