package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Table is an ordered collection of records, stored column by column.
type Table struct {
	columns []string
	index   map[string]int
	data    [][]Value
	rows    int
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		data:    make([][]Value, 0, len(columns)),
	}
	for _, c := range columns {
		if _, ok := t.index[c]; ok {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
		t.data = append(t.data, make([]Value, 0))
	}
	return t
}

// Append adds a row to the table.
func (t *Table) Append(row ...Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("row %d has %d values for %d columns: %w", t.rows, len(row), len(t.columns), ErrData)
	}
	for i, v := range row {
		t.data[i] = append(t.data[i], v)
	}
	t.rows++
	return nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	cc := make([]string, len(t.columns))
	copy(cc, t.columns)
	return cc
}

// Rows returns the number of records.
func (t *Table) Rows() int {
	return t.rows
}

// Has returns true if the table contains the given column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Column returns a copy of the values of the given column.
func (t *Table) Column(column string) ([]Value, error) {
	i, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("unknown column '%s': %w", column, ErrConfig)
	}
	vv := make([]Value, t.rows)
	copy(vv, t.data[i])
	return vv, nil
}

// Value returns the cell at the given row for the given column.
func (t *Table) Value(row int, column string) (Value, error) {
	i, ok := t.index[column]
	if !ok {
		return NA(), fmt.Errorf("unknown column '%s': %w", column, ErrConfig)
	}
	if row < 0 || row >= t.rows {
		return NA(), fmt.Errorf("row %d out of range [0,%d): %w", row, t.rows, ErrData)
	}
	return t.data[i][row], nil
}

// Row returns the values of the given row in column order.
func (t *Table) Row(row int) []Value {
	vv := make([]Value, len(t.columns))
	for i := range t.columns {
		vv[i] = t.data[i][row]
	}
	return vv
}

// Set replaces the values of an existing column or appends a new one.
func (t *Table) Set(column string, values []Value) error {
	if len(t.columns) > 0 && len(values) != t.rows {
		return fmt.Errorf("column '%s' has %d values for %d rows: %w", column, len(values), t.rows, ErrData)
	}
	vv := make([]Value, len(values))
	copy(vv, values)
	if i, ok := t.index[column]; ok {
		t.data[i] = vv
		return nil
	}
	t.index[column] = len(t.columns)
	t.columns = append(t.columns, column)
	t.data = append(t.data, vv)
	t.rows = len(values)
	return nil
}

// Drop removes the given column. Dropping an unknown column is a no-op.
func (t *Table) Drop(column string) {
	i, ok := t.index[column]
	if !ok {
		return
	}
	t.columns = append(t.columns[:i], t.columns[i+1:]...)
	t.data = append(t.data[:i], t.data[i+1:]...)
	delete(t.index, column)
	for j := i; j < len(t.columns); j++ {
		t.index[t.columns[j]] = j
	}
}

// Clone creates a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable(t.columns...)
	for i := range t.data {
		c.data[i] = make([]Value, len(t.data[i]))
		copy(c.data[i], t.data[i])
	}
	c.rows = t.rows
	return c
}

// Missing returns the number of missing cells in the given column.
func (t *Table) Missing(column string) (int, error) {
	vv, err := t.Column(column)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, v := range vv {
		if v.IsMissing() {
			n++
		}
	}
	return n, nil
}

// MissingFraction returns the share of missing cells in the given column.
func (t *Table) MissingFraction(column string) (float64, error) {
	n, err := t.Missing(column)
	if err != nil {
		return 0, err
	}
	if t.rows == 0 {
		return 0, nil
	}
	return float64(n) / float64(t.rows), nil
}

// IsNumeric returns true if every non-missing cell of the column is numeric.
func (t *Table) IsNumeric(column string) bool {
	vv, err := t.Column(column)
	if err != nil {
		return false
	}
	for _, v := range vv {
		if v.Kind == Categorical {
			return false
		}
	}
	return true
}

// Matrix projects the given columns into a dense rows x len(features) matrix.
// Every cell must be numeric, column order follows the features argument.
func (t *Table) Matrix(features []string) (*mat.Dense, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no features selected: %w", ErrConfig)
	}
	if t.rows == 0 {
		return nil, fmt.Errorf("no rows to project: %w", ErrData)
	}
	m := mat.NewDense(t.rows, len(features), nil)
	for j, f := range features {
		i, ok := t.index[f]
		if !ok {
			return nil, fmt.Errorf("unknown feature '%s': %w", f, ErrConfig)
		}
		for r, v := range t.data[i] {
			if !v.IsNumeric() {
				return nil, fmt.Errorf("feature '%s' has non-numeric value '%s' at row %d: %w", f, v, r, ErrData)
			}
			m.Set(r, j, v.Num)
		}
	}
	return m, nil
}
