package preprocess

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-cluster/internal/model"
)

func passengers(t *testing.T) *model.Table {
	tb := model.NewTable("PassengerId", "Pclass", "Sex", "Age", "SibSp", "Parch", "Cabin", "Embarked", "Fare")
	require.NoError(t, tb.Append(model.Num(1), model.Num(3), model.Str("male"), model.Num(22), model.Num(1), model.Num(0), model.NA(), model.Str("S"), model.Num(7.25)))
	require.NoError(t, tb.Append(model.Num(2), model.Num(1), model.Str("female"), model.Num(38), model.Num(1), model.Num(0), model.Str("C85"), model.Str("C"), model.Num(71.28)))
	require.NoError(t, tb.Append(model.Num(3), model.Num(3), model.Str("female"), model.NA(), model.Num(0), model.Num(0), model.NA(), model.Str("S"), model.Num(7.92)))
	require.NoError(t, tb.Append(model.Num(4), model.Num(1), model.Str("female"), model.Num(35), model.Num(1), model.Num(0), model.Str("C123"), model.NA(), model.Num(53.1)))
	require.NoError(t, tb.Append(model.Num(5), model.Num(2), model.Str("male"), model.Num(35), model.Num(0), model.Num(2), model.NA(), model.Str("Q"), model.NA()))
	require.NoError(t, tb.Append(model.Num(6), model.Num(3), model.Str("male"), model.NA(), model.Num(0), model.Num(1), model.NA(), model.Str("S"), model.Num(8.46)))
	return tb
}

func titanicPlan() Plan {
	return Plan{
		Impute: []Rule{
			{Column: "Age", Strategy: Median},
			{Column: "Fare", Strategy: Mean},
			{Column: "Embarked", Strategy: Mode},
			{Column: "Cabin", Strategy: Mode},
		},
		Drop:       []string{"Cabin"},
		DropAlways: []string{"PassengerId"},
		Binary: []BinaryMap{
			{Column: "Sex", Mapping: map[string]float64{"male": 0, "female": 1}},
		},
		OneHot: []string{"Embarked", "Pclass"},
		Derive: []Derived{
			{Name: "FamilySize", Sum: []string{"SibSp", "Parch"}, Offset: 1},
		},
	}
}

func TestPreprocessor_Apply(t *testing.T) {
	p, err := New(titanicPlan(), zerolog.Nop())
	require.NoError(t, err)

	in := passengers(t)
	out, report, err := p.Apply(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"Sex", "Age", "SibSp", "Parch", "Fare", "FamilySize", "Embarked_Q", "Embarked_S", "Pclass_2", "Pclass_3"}, out.Columns())
	assert.Equal(t, []string{"PassengerId", "Cabin"}, report.Dropped)
	assert.Equal(t, []string{"Sex"}, report.Encoded)
	assert.Equal(t, []string{"FamilySize"}, report.Derived)
	assert.Equal(t, []string{"Embarked_Q", "Embarked_S"}, report.Expanded["Embarked"])
	assert.Empty(t, report.Warnings)

	for _, c := range out.Columns() {
		n, err := out.Missing(c)
		require.NoError(t, err)
		assert.Equal(t, 0, n, c)
		assert.True(t, out.IsNumeric(c), c)
	}

	age, err := out.Value(2, "Age")
	require.NoError(t, err)
	// median of 22, 38, 35, 35
	assert.Equal(t, 35.0, age.Num)

	embarked, err := out.Value(3, "Embarked_S")
	require.NoError(t, err)
	assert.Equal(t, 1.0, embarked.Num)

	family, err := out.Value(4, "FamilySize")
	require.NoError(t, err)
	assert.Equal(t, 3.0, family.Num)

	sex, err := out.Value(1, "Sex")
	require.NoError(t, err)
	assert.Equal(t, 1.0, sex.Num)

	// the input is left untouched
	assert.Equal(t, passengers(t), in)
}

func TestPreprocessor_Idempotent(t *testing.T) {
	p, err := New(titanicPlan(), zerolog.Nop())
	require.NoError(t, err)

	once, _, err := p.Apply(passengers(t))
	require.NoError(t, err)
	twice, report, err := p.Apply(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Empty(t, report.Dropped)
	assert.Empty(t, report.Imputed)
	assert.Empty(t, report.Encoded)
	assert.Empty(t, report.Warnings)
}

func TestPreprocessor_SparseColumnDropped(t *testing.T) {
	tb := model.NewTable("x", "half")
	for i := 0; i < 10; i++ {
		v := model.NA()
		if i%2 == 0 {
			v = model.Num(float64(i))
		}
		require.NoError(t, tb.Append(model.Num(float64(i)), v))
	}

	p, err := New(Plan{
		Impute: []Rule{{Column: "half", Strategy: Median}},
		Drop:   []string{"half"},
	}, zerolog.Nop())
	require.NoError(t, err)

	out, report, err := p.Apply(tb)
	require.NoError(t, err)
	assert.False(t, out.Has("half"))
	assert.Equal(t, []string{"half"}, report.Dropped)
	assert.Empty(t, report.Imputed)
}

func TestPreprocessor_ConstantMedian(t *testing.T) {
	tb := model.NewTable("c")
	for i := 0; i < 5; i++ {
		require.NoError(t, tb.Append(model.Num(4)))
	}

	p, err := New(Plan{Impute: []Rule{{Column: "c", Strategy: Median}}}, zerolog.Nop())
	require.NoError(t, err)

	out, report, err := p.Apply(tb)
	require.NoError(t, err)
	assert.Equal(t, tb, out)
	assert.Empty(t, report.Imputed)
	assert.Empty(t, report.Warnings)
}

func TestPreprocessor_Errors(t *testing.T) {
	type test struct {
		plan Plan
		new  bool
	}

	tests := map[string]test{
		"unknown-strategy": {
			plan: Plan{Impute: []Rule{{Column: "Age", Strategy: "interpolate"}}},
			new:  true,
		},
		"threshold": {
			plan: Plan{DropThreshold: 1.5},
			new:  true,
		},
		"missing-impute-column": {
			plan: Plan{Impute: []Rule{{Column: "Height", Strategy: Mean}}},
		},
		"mean-on-categorical": {
			plan: Plan{Impute: []Rule{{Column: "Sex", Strategy: Mean}}},
		},
		"missing-binary-level": {
			plan: Plan{Binary: []BinaryMap{{Column: "Embarked", Mapping: map[string]float64{"S": 0, "C": 1}}}},
		},
		"missing-one-hot-column": {
			plan: Plan{OneHot: []string{"Deck"}},
		},
		"missing-derive-source": {
			plan: Plan{Derive: []Derived{{Name: "Family", Sum: []string{"SibSp", "Kids"}}}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := New(tt.plan, zerolog.Nop())
			if tt.new {
				assert.True(t, errors.Is(err, model.ErrConfig))
				return
			}
			require.NoError(t, err)

			in := passengers(t)
			out, _, err := p.Apply(in)
			assert.True(t, errors.Is(err, model.ErrConfig))
			assert.Nil(t, out)
			assert.Equal(t, passengers(t), in)
		})
	}
}

func TestPreprocessor_OneHot(t *testing.T) {
	type test struct {
		values  []model.Value
		columns []string
	}

	tests := map[string]test{
		"text": {
			values:  []model.Value{model.Str("b"), model.Str("a"), model.Str("c"), model.Str("a")},
			columns: []string{"x_b", "x_c"},
		},
		"numeric-levels": {
			values:  []model.Value{model.Num(10), model.Num(2), model.Num(1), model.Num(2)},
			columns: []string{"x_2", "x_10"},
		},
		"single-level": {
			values:  []model.Value{model.Str("a"), model.Str("a")},
			columns: []string{"x_a"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tb := model.NewTable("x")
			for _, v := range tt.values {
				require.NoError(t, tb.Append(v))
			}
			p, err := New(Plan{OneHot: []string{"x"}}, zerolog.Nop())
			require.NoError(t, err)

			out, report, err := p.Apply(tb)
			require.NoError(t, err)
			assert.Equal(t, tt.columns, out.Columns())
			assert.Equal(t, tt.columns, report.Expanded["x"])

			for i := 0; i < out.Rows(); i++ {
				sum := 0.0
				for _, v := range out.Row(i) {
					sum += v.Num
				}
				assert.True(t, sum <= 1)
			}

			again, _, err := p.Apply(out)
			require.NoError(t, err)
			assert.Equal(t, out, again)
		})
	}
}

func TestPreprocessor_ModeOnText(t *testing.T) {
	tb := model.NewTable("port")
	for _, v := range []model.Value{model.Str("S"), model.Str("C"), model.NA(), model.Str("S")} {
		require.NoError(t, tb.Append(v))
	}
	p, err := New(Plan{Impute: []Rule{{Column: "port", Strategy: Mode}}}, zerolog.Nop())
	require.NoError(t, err)

	out, report, err := p.Apply(tb)
	require.NoError(t, err)
	v, err := out.Value(2, "port")
	require.NoError(t, err)
	assert.Equal(t, model.Str("S"), v)
	require.Equal(t, 1, len(report.Imputed))
	assert.Equal(t, 1, report.Imputed[0].Count)
}
