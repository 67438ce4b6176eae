package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCenters(t *testing.T) {
	type test struct {
		input   string
		centers [][]float64
		err     bool
	}

	tests := map[string]test{
		"two": {
			input:   "0,0;10,10",
			centers: [][]float64{{0, 0}, {10, 10}},
		},
		"spaces": {
			input:   "1, 2.5;-3 ,4",
			centers: [][]float64{{1, 2.5}, {-3, 4}},
		},
		"ragged": {
			input: "0,0;1",
			err:   true,
		},
		"text": {
			input: "a,b",
			err:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			centers, err := parseCenters(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.centers, centers)
		})
	}
}

func TestGenerateSegment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "blobs.csv")
	out := filepath.Join(dir, "out")

	rootCmd.SetArgs([]string{"generate", file, "--size", "10", "--seed", "3"})
	require.NoError(t, rootCmd.Execute())

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Equal(t, "x0,x1,label", lines[0])
	assert.Len(t, lines, 21)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"segment", "--input", file, "--output", out, "--k-max", "4"})
	require.NoError(t, rootCmd.Execute())
	assert.FileExists(t, filepath.Join(out, "clusters.csv"))
	assert.NotEmpty(t, stdout.String())
}
