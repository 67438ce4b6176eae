package report

import (
	"strconv"

	clustermath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/storage/file/csv"
)

// ColumnProfile summarises a single column of the input.
type ColumnProfile struct {
	Column  string
	Numeric bool
	Count   int
	Missing int
	// Levels is the number of distinct levels of a categorical column.
	Levels int
	Stats  *clustermath.Stats
}

// Describe profiles every column of the table.
func Describe(t *model.Table) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		vv, _ := t.Column(c)
		p := ColumnProfile{
			Column:  c,
			Numeric: t.IsNumeric(c),
			Stats:   clustermath.NewStats(),
		}
		levels := make(map[string]struct{})
		for _, v := range vv {
			switch v.Kind {
			case model.Missing:
				p.Missing++
				continue
			case model.Numeric:
				p.Stats.Push(v.Num)
			}
			levels[v.String()] = struct{}{}
			p.Count++
		}
		if !p.Numeric {
			p.Levels = len(levels)
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// Profile writes the column profiles of the table.
// Numeric moments are left empty for categorical columns.
func Profile(path string, t *model.Table) error {
	profiles := Describe(t)
	records := make([][]string, len(profiles))
	for i, p := range profiles {
		record := []string{p.Column, "categorical", strconv.Itoa(p.Count), strconv.Itoa(p.Missing), strconv.Itoa(p.Levels), "", "", "", ""}
		if p.Numeric {
			record[1] = "numeric"
			if p.Count > 0 {
				record[5] = num(p.Stats.Mean())
				record[6] = num(p.Stats.StDev())
				record[7] = num(p.Stats.Min())
				record[8] = num(p.Stats.Max())
			}
		}
		records[i] = record
	}
	return csv.WriteRecords(path, []string{"column", "kind", "count", "missing", "levels", "mean", "std", "min", "max"}, records)
}
