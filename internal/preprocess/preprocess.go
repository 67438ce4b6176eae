package preprocess

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	clustermath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
)

// Imputation records the filling of a column.
type Imputation struct {
	Column   string
	Strategy Strategy
	Fill     model.Value
	Count    int
}

// Report describes what a pass of the preprocessor changed.
type Report struct {
	Dropped  []string
	Imputed  []Imputation
	Derived  []string
	Encoded  []string
	Expanded map[string][]string
	Warnings []string
}

// Preprocessor applies a plan to record tables.
type Preprocessor struct {
	plan   Plan
	logger zerolog.Logger
}

// New creates a new preprocessor for the given plan.
func New(plan Plan, logger zerolog.Logger) (*Preprocessor, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &Preprocessor{
		plan:   plan,
		logger: logger,
	}, nil
}

// Apply runs the plan on a copy of the table.
// The plan is checked against the table before anything is changed,
// so a configuration error leaves no partial result behind.
func (p *Preprocessor) Apply(t *model.Table) (*model.Table, Report, error) {
	report := Report{
		Expanded: make(map[string][]string),
	}
	if err := p.check(t); err != nil {
		return nil, report, err
	}

	out := t.Clone()

	for _, c := range p.plan.DropAlways {
		if out.Has(c) {
			out.Drop(c)
			report.Dropped = append(report.Dropped, c)
		}
	}

	threshold := p.plan.threshold()
	for _, c := range p.plan.Drop {
		if !out.Has(c) {
			continue
		}
		f, err := out.MissingFraction(c)
		if err != nil {
			return nil, report, err
		}
		if f > threshold {
			out.Drop(c)
			report.Dropped = append(report.Dropped, c)
			p.logger.Info().
				Str("column", c).
				Float64("missing", f).
				Float64("threshold", threshold).
				Msg("dropped sparse column")
		}
	}

	for _, r := range p.plan.Impute {
		if !out.Has(r.Column) {
			continue
		}
		imputation, err := impute(out, r)
		if err != nil {
			return nil, report, err
		}
		if imputation.Count > 0 {
			report.Imputed = append(report.Imputed, imputation)
			p.logger.Info().
				Str("column", r.Column).
				Str("strategy", string(r.Strategy)).
				Str("fill", imputation.Fill.String()).
				Int("count", imputation.Count).
				Msg("imputed missing values")
		}
	}

	for _, d := range p.plan.Derive {
		missing, err := derive(out, d)
		if err != nil {
			return nil, report, err
		}
		report.Derived = append(report.Derived, d.Name)
		if missing > 0 {
			report.Warnings = append(report.Warnings, p.warn(d.Name, missing, "derived column has missing values"))
		}
	}

	for _, b := range p.plan.Binary {
		if !out.Has(b.Column) {
			continue
		}
		changed, missing, err := encode(out, b)
		if err != nil {
			return nil, report, err
		}
		if changed {
			report.Encoded = append(report.Encoded, b.Column)
		}
		if missing > 0 {
			report.Warnings = append(report.Warnings, p.warn(b.Column, missing, "encoded column has missing values"))
		}
	}

	for _, c := range p.plan.OneHot {
		if !out.Has(c) {
			continue
		}
		columns, missing, err := expand(out, c)
		if err != nil {
			return nil, report, err
		}
		report.Expanded[c] = columns
		if missing > 0 {
			report.Warnings = append(report.Warnings, p.warn(c, missing, "expanded column had missing values"))
		}
	}

	return out, report, nil
}

func (p *Preprocessor) warn(column string, missing int, msg string) string {
	p.logger.Warn().Str("column", column).Int("missing", missing).Msg(msg)
	return fmt.Sprintf("%s: %s (%d)", column, msg, missing)
}

// check validates the plan against the columns of the table.
func (p *Preprocessor) check(t *model.Table) error {
	droppable := p.plan.droppable()
	present := func(column string) (bool, error) {
		if t.Has(column) {
			return true, nil
		}
		if _, ok := droppable[column]; ok {
			return false, nil
		}
		if p.plan.expands(column) && expanded(t, column) {
			return false, nil
		}
		return false, fmt.Errorf("missing column '%s': %w", column, model.ErrConfig)
	}

	for _, r := range p.plan.Impute {
		ok, err := present(r.Column)
		if err != nil {
			return err
		}
		if ok && r.Strategy != Mode && !t.IsNumeric(r.Column) {
			return fmt.Errorf("strategy '%s' needs a numeric column, '%s' is categorical: %w", r.Strategy, r.Column, model.ErrConfig)
		}
	}

	available := make(map[string]struct{})
	for _, c := range t.Columns() {
		available[c] = struct{}{}
	}
	for _, d := range p.plan.Derive {
		for _, s := range d.Sum {
			if _, ok := available[s]; !ok {
				return fmt.Errorf("missing source column '%s' for '%s': %w", s, d.Name, model.ErrConfig)
			}
			if !t.IsNumeric(s) {
				return fmt.Errorf("source column '%s' for '%s' is not numeric: %w", s, d.Name, model.ErrConfig)
			}
		}
		available[d.Name] = struct{}{}
	}

	for _, b := range p.plan.Binary {
		ok, err := present(b.Column)
		if err != nil {
			return err
		}
		if !ok || encoded(t, b) {
			continue
		}
		vv, err := t.Column(b.Column)
		if err != nil {
			return err
		}
		for _, v := range vv {
			if v.IsMissing() {
				continue
			}
			if _, ok := b.Mapping[v.String()]; !ok {
				return fmt.Errorf("level '%s' of column '%s' has no binary mapping: %w", v.String(), b.Column, model.ErrConfig)
			}
		}
	}

	for _, c := range p.plan.OneHot {
		if t.Has(c) {
			continue
		}
		if _, ok := droppable[c]; ok {
			continue
		}
		if !expanded(t, c) {
			return fmt.Errorf("missing column '%s' for one-hot encoding: %w", c, model.ErrConfig)
		}
	}
	return nil
}

func impute(t *model.Table, r Rule) (Imputation, error) {
	imputation := Imputation{
		Column:   r.Column,
		Strategy: r.Strategy,
	}
	vv, err := t.Column(r.Column)
	if err != nil {
		return imputation, err
	}

	nums := make([]float64, 0, len(vv))
	strs := make([]string, 0, len(vv))
	for _, v := range vv {
		switch v.Kind {
		case model.Numeric:
			nums = append(nums, v.Num)
			strs = append(strs, v.String())
		case model.Categorical:
			strs = append(strs, v.Str)
		default:
			imputation.Count++
		}
	}
	if imputation.Count == 0 {
		return imputation, nil
	}
	if len(strs) == 0 {
		return imputation, fmt.Errorf("column '%s' has no values to impute from: %w", r.Column, model.ErrData)
	}

	numeric := len(nums) == len(strs)
	switch r.Strategy {
	case Median:
		imputation.Fill = model.Num(clustermath.Median(nums))
	case Mean:
		imputation.Fill = model.Num(clustermath.Mean(nums))
	case Mode:
		if numeric {
			imputation.Fill = model.Num(clustermath.Mode(nums))
		} else {
			s, _ := clustermath.ModeString(strs)
			imputation.Fill = model.Str(s)
		}
	}

	for i, v := range vv {
		if v.IsMissing() {
			vv[i] = imputation.Fill
		}
	}
	return imputation, t.Set(r.Column, vv)
}

func derive(t *model.Table, d Derived) (int, error) {
	values := make([]model.Value, t.Rows())
	for i := range values {
		values[i] = model.Num(d.Offset)
	}
	for _, s := range d.Sum {
		vv, err := t.Column(s)
		if err != nil {
			return 0, fmt.Errorf("could not derive '%s': %w", d.Name, err)
		}
		for i, v := range vv {
			switch {
			case values[i].IsMissing():
			case v.IsNumeric():
				values[i] = model.Num(values[i].Num + v.Num)
			case v.IsMissing():
				values[i] = model.NA()
			default:
				return 0, fmt.Errorf("non-numeric value '%s' in '%s' for '%s': %w", v.String(), s, d.Name, model.ErrData)
			}
		}
	}
	missing := 0
	for _, v := range values {
		if v.IsMissing() {
			missing++
		}
	}
	return missing, t.Set(d.Name, values)
}

// encoded returns true if the column already holds only mapped numbers.
func encoded(t *model.Table, b BinaryMap) bool {
	if !t.IsNumeric(b.Column) {
		return false
	}
	vv, err := t.Column(b.Column)
	if err != nil {
		return false
	}
	targets := make(map[float64]struct{}, len(b.Mapping))
	for _, f := range b.Mapping {
		targets[f] = struct{}{}
	}
	for _, v := range vv {
		if v.IsMissing() {
			continue
		}
		if _, ok := targets[v.Num]; !ok {
			return false
		}
	}
	return true
}

func encode(t *model.Table, b BinaryMap) (bool, int, error) {
	if encoded(t, b) {
		return false, 0, nil
	}
	vv, err := t.Column(b.Column)
	if err != nil {
		return false, 0, err
	}
	missing := 0
	for i, v := range vv {
		if v.IsMissing() {
			missing++
			continue
		}
		f, ok := b.Mapping[v.String()]
		if !ok {
			return false, 0, fmt.Errorf("level '%s' of column '%s' has no binary mapping: %w", v.String(), b.Column, model.ErrConfig)
		}
		vv[i] = model.Num(f)
	}
	return true, missing, t.Set(b.Column, vv)
}

// expanded returns true if indicator columns for the given column are present.
func expanded(t *model.Table, column string) bool {
	prefix := column + "_"
	for _, c := range t.Columns() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// expand replaces the column with one indicator column per level.
// Levels are sorted and the first one is dropped, unless it is the only one.
func expand(t *model.Table, column string) ([]string, int, error) {
	vv, err := t.Column(column)
	if err != nil {
		return nil, 0, err
	}
	numeric := t.IsNumeric(column)
	levels := make(map[string]model.Value)
	missing := 0
	for _, v := range vv {
		if v.IsMissing() {
			missing++
			continue
		}
		levels[v.String()] = v
	}
	if len(levels) == 0 {
		return nil, missing, fmt.Errorf("column '%s' has no levels to expand: %w", column, model.ErrData)
	}

	keys := make([]string, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if numeric {
			return levels[keys[i]].Num < levels[keys[j]].Num
		}
		return keys[i] < keys[j]
	})
	if len(keys) > 1 {
		keys = keys[1:]
	}

	columns := make([]string, 0, len(keys))
	for _, level := range keys {
		name := fmt.Sprintf("%s_%s", column, level)
		indicator := make([]model.Value, len(vv))
		for i, v := range vv {
			if !v.IsMissing() && v.String() == level {
				indicator[i] = model.Num(1)
			} else {
				indicator[i] = model.Num(0)
			}
		}
		if err := t.Set(name, indicator); err != nil {
			return nil, missing, err
		}
		columns = append(columns, name)
	}
	t.Drop(column)
	return columns, missing, nil
}
