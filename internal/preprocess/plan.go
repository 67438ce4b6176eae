package preprocess

import (
	"fmt"

	"github.com/drakos74/free-cluster/internal/model"
)

// DefaultDropThreshold is the share of missing values above which a candidate column is dropped.
const DefaultDropThreshold = 0.4

// Strategy is the way missing values of a column are filled.
type Strategy string

const (
	Median Strategy = "median"
	Mean   Strategy = "mean"
	Mode   Strategy = "mode"
)

// Valid returns true for the supported strategies.
func (s Strategy) Valid() bool {
	switch s {
	case Median, Mean, Mode:
		return true
	}
	return false
}

// Rule imputes the missing values of a column.
type Rule struct {
	Column   string   `json:"column" yaml:"column"`
	Strategy Strategy `json:"strategy" yaml:"strategy"`
}

// BinaryMap encodes the levels of a categorical column to explicit numbers.
type BinaryMap struct {
	Column  string             `json:"column" yaml:"column"`
	Mapping map[string]float64 `json:"mapping" yaml:"mapping"`
}

// Derived adds a column holding the sum of other columns plus an offset.
type Derived struct {
	Name   string   `json:"name" yaml:"name"`
	Sum    []string `json:"sum" yaml:"sum"`
	Offset float64  `json:"offset" yaml:"offset"`
}

// Plan lists the transformations applied to a raw table.
// They run in the order drop-always, drop-sparse, impute, derive, binary, one-hot.
type Plan struct {
	Impute []Rule `json:"impute" yaml:"impute"`
	// Drop lists candidate columns removed when their missing share exceeds DropThreshold.
	Drop          []string `json:"drop" yaml:"drop"`
	DropThreshold float64  `json:"drop_threshold" yaml:"drop_threshold"`
	// DropAlways lists columns removed unconditionally.
	DropAlways []string    `json:"drop_always" yaml:"drop_always"`
	Binary     []BinaryMap `json:"binary" yaml:"binary"`
	// OneHot lists columns expanded to one indicator per level, the first level being dropped.
	OneHot []string  `json:"one_hot" yaml:"one_hot"`
	Derive []Derived `json:"derive" yaml:"derive"`
}

// Validate checks the plan on its own, without looking at any data.
func (p Plan) Validate() error {
	for _, r := range p.Impute {
		if r.Column == "" {
			return fmt.Errorf("impute rule without column: %w", model.ErrConfig)
		}
		if !r.Strategy.Valid() {
			return fmt.Errorf("unsupported strategy '%s' for column '%s': %w", r.Strategy, r.Column, model.ErrConfig)
		}
	}
	if p.DropThreshold < 0 || p.DropThreshold > 1 {
		return fmt.Errorf("drop threshold must be in [0,1], got %f: %w", p.DropThreshold, model.ErrConfig)
	}
	for _, b := range p.Binary {
		if len(b.Mapping) == 0 {
			return fmt.Errorf("empty binary mapping for column '%s': %w", b.Column, model.ErrConfig)
		}
	}
	for _, d := range p.Derive {
		if d.Name == "" || len(d.Sum) == 0 {
			return fmt.Errorf("derived column needs a name and at least one source '%s': %w", d.Name, model.ErrConfig)
		}
	}
	return nil
}

func (p Plan) threshold() float64 {
	if p.DropThreshold == 0 {
		return DefaultDropThreshold
	}
	return p.DropThreshold
}

// droppable returns the columns that may legitimately be gone after a previous pass.
func (p Plan) droppable() map[string]struct{} {
	cc := make(map[string]struct{}, len(p.Drop)+len(p.DropAlways))
	for _, c := range p.Drop {
		cc[c] = struct{}{}
	}
	for _, c := range p.DropAlways {
		cc[c] = struct{}{}
	}
	return cc
}

func (p Plan) expands(column string) bool {
	for _, c := range p.OneHot {
		if c == column {
			return true
		}
	}
	return false
}
