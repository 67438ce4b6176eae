package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {

	type test struct {
		input  float64
		output string
	}

	tests := map[string]test{
		"0": {
			input:  0,
			output: "0.00",
		},
		"-1": {
			input:  -1,
			output: "-1.00",
		},
		"5": {
			input:  1.5555,
			output: "1.56",
		},
		"4": {
			input:  1.4444,
			output: "1.44",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := Format(tt.input)
			assert.Equal(t, tt.output, s)
		})
	}

}

func TestAggregates(t *testing.T) {

	type test struct {
		input  []float64
		mean   float64
		median float64
		mode   float64
	}

	tests := map[string]test{
		"odd": {
			input:  []float64{3, 1, 2},
			mean:   2,
			median: 2,
			mode:   1,
		},
		"even": {
			input:  []float64{4, 1, 3, 2},
			mean:   2.5,
			median: 2.5,
			mode:   1,
		},
		"repeated": {
			input:  []float64{22, 38, 26, 35, 35, 54},
			mean:   35,
			median: 35,
			mode:   35,
		},
		"constant": {
			input:  []float64{7, 7, 7},
			mean:   7,
			median: 7,
			mode:   7,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.mean, Mean(tt.input))
			assert.Equal(t, tt.median, Median(tt.input))
			assert.Equal(t, tt.mode, Mode(tt.input))
		})
	}

	assert.True(t, math.IsNaN(Median(nil)))
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Mode(nil)))
}

func TestModeString(t *testing.T) {
	m, ok := ModeString([]string{"S", "C", "S", "Q", "C"})
	assert.True(t, ok)
	assert.Equal(t, "C", m)

	_, ok = ModeString(nil)
	assert.False(t, ok)
}

func TestBlobs(t *testing.T) {
	points, labels := Blobs([][]float64{{0, 0}, {10, 10}}, 5, 0.5, 42)
	assert.Equal(t, 10, len(points))
	assert.Equal(t, 10, len(labels))
	for i, p := range points {
		center := 10.0 * float64(labels[i])
		for _, v := range p {
			assert.InDelta(t, center, v, 0.5)
		}
	}

	again, _ := Blobs([][]float64{{0, 0}, {10, 10}}, 5, 0.5, 42)
	assert.Equal(t, points, again)
}
