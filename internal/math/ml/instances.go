package ml

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
)

const classAttribute = "class"

// instances converts the samples into golearn instances.
// golearn parses its instances from csv, so the rows pass through a temporary file under dir
// that is removed once parsed.
func instances(dir, pattern string, x [][]float64, y []int) (base.FixedDataGrid, error) {
	file, err := stage(dir, pattern, x, y)
	if file != "" {
		defer func() {
			if err := os.Remove(file); err != nil {
				log.Warn().Err(err).Str("file", file).Msg("could not clean up staged instances")
			}
		}()
	}
	if err != nil {
		return nil, fmt.Errorf("could not stage instances: %w", err)
	}
	grid, err := base.ParseCSVToInstances(file, true)
	if err != nil {
		return nil, fmt.Errorf("could not parse instances: %w", err)
	}
	return grid, nil
}

func stage(dir, pattern string, x [][]float64, y []int) (name string, err error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	name = f.Name()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	header := make([]string, 0, len(x[0])+1)
	for j := range x[0] {
		header = append(header, fmt.Sprintf("f%d", j))
	}
	header = append(header, classAttribute)
	if err := w.Write(header); err != nil {
		return name, err
	}
	for i, row := range x {
		record := make([]string, 0, len(row)+1)
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		record = append(record, strconv.Itoa(y[i]))
		if err := w.Write(record); err != nil {
			return name, err
		}
	}
	w.Flush()
	return name, w.Error()
}

// classCount returns the number of classes for labels in [0, classes).
func classCount(y []int) (int, error) {
	classes := 0
	for _, c := range y {
		if c < 0 {
			return 0, fmt.Errorf("negative class label: %d", c)
		}
		if c+1 > classes {
			classes = c + 1
		}
	}
	return classes, nil
}

// oneHot expands class labels into probability rows with all the weight on the label.
func oneHot(labels []int, classes int) [][]float64 {
	pp := make([][]float64, len(labels))
	for i, l := range labels {
		p := make([]float64, classes)
		if l >= 0 && l < len(p) {
			p[l] = 1
		}
		pp[i] = p
	}
	return pp
}

func checkSamples(x [][]float64, features int) error {
	for i, row := range x {
		if len(row) != features {
			return fmt.Errorf("sample %d has %d features instead of %d", i, len(row), features)
		}
	}
	return nil
}
