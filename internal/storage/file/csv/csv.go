package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-cluster/internal/model"
)

// Options configures the parsing of a delimited file.
type Options struct {
	// Delimiter separates the fields, defaults to ','.
	Delimiter rune
}

// Load reads a delimited file with a header row into a table.
// A column is categorical as soon as one of its non-missing cells is not a number,
// in which case all its cells are kept as text.
func Load(path string, opts Options) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s': %v: %w", path, err, model.ErrData)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file '%s': %w", path, model.ErrData)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read header of '%s': %v: %w", path, err, model.ErrData)
	}
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			return nil, fmt.Errorf("empty column name at position %d in '%s': %w", i, path, model.ErrData)
		}
		if _, ok := seen[h]; ok {
			return nil, fmt.Errorf("duplicate column '%s' in '%s': %w", h, path, model.ErrData)
		}
		seen[h] = struct{}{}
		header[i] = h
	}

	raw := make([][]string, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed record in '%s': %v: %w", path, err, model.ErrData)
		}
		raw = append(raw, record)
	}

	categorical := make([]bool, len(header))
	for _, record := range raw {
		for j, cell := range record {
			if v := model.Parse(cell); v.Kind == model.Categorical {
				categorical[j] = true
			}
		}
	}

	t := model.NewTable(header...)
	row := make([]model.Value, len(header))
	for _, record := range raw {
		for j, cell := range record {
			v := model.Parse(cell)
			if categorical[j] && !v.IsMissing() {
				v = model.Str(strings.TrimSpace(cell))
			}
			row[j] = v
		}
		if err := t.Append(row...); err != nil {
			return nil, fmt.Errorf("could not load '%s': %w", path, err)
		}
	}

	log.Debug().
		Str("path", path).
		Int("rows", t.Rows()).
		Int("columns", len(header)).
		Msg("loaded table")
	return t, nil
}

// Write stores the table as a comma separated file, creating the parent directories.
func Write(path string, t *model.Table) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not make dir for '%s': %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer closeFile(f, &err)

	if err := Encode(f, t); err != nil {
		return fmt.Errorf("could not write '%s': %w", path, err)
	}
	return nil
}

// Encode writes the table as csv to the given writer.
func Encode(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	record := make([]string, len(t.Columns()))
	for i := 0; i < t.Rows(); i++ {
		for j, v := range t.Row(i) {
			record[j] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecords stores a header and raw records as a comma separated file, creating the parent directories.
func WriteRecords(path string, header []string, records [][]string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir for '%s': %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer closeFile(f, &err)

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("could not write header to '%s': %w", path, err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("could not write records to '%s': %w", path, err)
	}
	return nil
}

// closeFile closes a written file, keeping the first error of the write.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("could not close '%s': %w", f.Name(), cerr)
	}
}
