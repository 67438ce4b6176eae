package model

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the type of a table cell.
type Kind int

const (
	// Missing marks an empty cell.
	Missing Kind = iota
	// Numeric marks a cell holding a float.
	Numeric
	// Categorical marks a cell holding a free text level.
	Categorical
)

// Value is a single cell of a record table.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Num creates a numeric value.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return NA()
	}
	return Value{Kind: Numeric, Num: f}
}

// Str creates a categorical value.
func Str(s string) Value {
	return Value{Kind: Categorical, Str: s}
}

// NA creates a missing value.
func NA() Value {
	return Value{Kind: Missing}
}

// Parse interprets a raw text cell.
// Empty cells and the usual NA markers are missing, floats are numeric, anything else is categorical.
func Parse(s string) Value {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		return NA()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Num(f)
	}
	return Str(s)
}

// IsMissing returns true if the value is empty.
func (v Value) IsMissing() bool {
	return v.Kind == Missing
}

// IsNumeric returns true if the value holds a float.
func (v Value) IsNumeric() bool {
	return v.Kind == Numeric
}

// String formats the value the way it is written to csv files.
func (v Value) String() string {
	switch v.Kind {
	case Numeric:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case Categorical:
		return v.Str
	default:
		return ""
	}
}
