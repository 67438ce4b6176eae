package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"

	"github.com/drakos74/free-cluster/internal/evaluate"
	"github.com/drakos74/free-cluster/internal/model"
)

// PrintCentroids prints the centroid table, one row per cluster.
func PrintCentroids(w io.Writer, features []string, centroids model.Centroids, sizes []int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{ClusterColumn, "Size"}, features...))
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, c := range centroids {
		size := 0
		if i < len(sizes) {
			size = sizes[i]
		}
		row := []string{strconv.Itoa(i), strconv.Itoa(size)}
		for _, v := range c {
			row = append(row, format(v))
		}
		table.Append(row)
	}
	table.Render()
}

// PrintCurve prints the score curve as a table followed by an ascii plot of the silhouette.
func PrintCurve(w io.Writer, curve model.ScoreCurve) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"k", "inertia", "silhouette"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, s := range curve {
		table.Append([]string{strconv.Itoa(s.K), format(s.Inertia), format(s.Silhouette)})
	}
	table.Render()

	// a single point has no range to plot
	if len(curve) < 2 {
		return
	}
	graph := asciigraph.Plot(curve.Silhouettes(),
		asciigraph.Height(8),
		asciigraph.Caption(fmt.Sprintf("silhouette for k in [%d,%d]", curve[0].K, curve[len(curve)-1].K)),
	)
	fmt.Fprintln(w, graph)
}

// PrintEvaluations prints the metrics of every model.
func PrintEvaluations(w io.Writer, ee []evaluate.Evaluation) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"model", "class", "precision", "recall", "f1", "support", "accuracy", "auc"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, e := range ee {
		auc := "-"
		if e.Curves {
			auc = format(e.AUC)
		}
		for _, c := range e.Classes {
			table.Append([]string{
				e.Model,
				strconv.Itoa(c.Class),
				format(c.Precision),
				format(c.Recall),
				format(c.F1),
				strconv.Itoa(c.Support),
				format(e.Accuracy),
				auc,
			})
		}
	}
	table.Render()
}

// PrintConfusion prints the confusion matrix with actual classes as rows.
func PrintConfusion(w io.Writer, name string, c evaluate.Confusion) {
	fmt.Fprintf(w, "%s\n", name)
	table := tablewriter.NewWriter(w)
	header := []string{"actual \\ predicted"}
	for _, class := range c.Classes {
		header = append(header, strconv.Itoa(class))
	}
	table.SetHeader(header)
	for i, class := range c.Classes {
		row := []string{strconv.Itoa(class)}
		for _, n := range c.Counts[i] {
			row = append(row, strconv.Itoa(n))
		}
		table.Append(row)
	}
	table.Render()
}
