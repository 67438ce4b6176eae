package pipeline

import (
	"fmt"
	"unicode/utf8"

	"github.com/drakos74/free-cluster/internal/cluster"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/preprocess"
)

const (
	LogisticModel = "logistic"
	TreeModel     = "tree"
	ForestModel   = "forest"
	KnnModel      = "knn"

	DefaultOutput       = "output"
	DefaultTestFraction = 0.2
	DefaultTrees        = 100
	DefaultNeighbours   = 5
)

// Config parameterises a pipeline run.
type Config struct {
	Dataset   string `json:"dataset" yaml:"dataset"`
	Input     string `json:"input" yaml:"input"`
	Output    string `json:"output" yaml:"output"`
	Delimiter string `json:"delimiter" yaml:"delimiter"`
	// Features are the columns fed to the models, all numeric columns but the label if empty.
	Features []string        `json:"features" yaml:"features"`
	Plan     preprocess.Plan `json:"plan" yaml:"plan"`

	K          cluster.KRange `json:"k" yaml:"k"`
	Backend    string         `json:"backend" yaml:"backend"`
	Seed       uint64         `json:"seed" yaml:"seed"`
	Restarts   int            `json:"restarts" yaml:"restarts"`
	Iterations int            `json:"iterations" yaml:"iterations"`
	// Importance trains a random forest on the cluster ids to rank the features.
	Importance bool `json:"importance" yaml:"importance"`
	// Store is the root of the model storage, models are not persisted if empty.
	Store string `json:"store" yaml:"store"`

	Label        string   `json:"label" yaml:"label"`
	Models       []string `json:"models" yaml:"models"`
	TestFraction float64  `json:"test_fraction" yaml:"test_fraction"`
	Trees        int      `json:"trees" yaml:"trees"`
	Neighbours   int      `json:"neighbours" yaml:"neighbours"`
	// Depth limits the decision tree, grown until its leaves are pure if 0.
	Depth int `json:"depth" yaml:"depth"`

	// Predictions is the file read by the evaluation.
	Predictions string `json:"predictions" yaml:"predictions"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Dataset:      "dataset",
		Output:       DefaultOutput,
		K:            cluster.KRange{Min: 2, Max: 10},
		Backend:      cluster.KMeansBackend,
		Restarts:     cluster.MinRestarts,
		Models:       []string{LogisticModel, TreeModel, ForestModel, KnnModel},
		TestFraction: DefaultTestFraction,
		Trees:        DefaultTrees,
		Neighbours:   DefaultNeighbours,
	}
}

// Cluster returns the clustering parameters.
func (c Config) Cluster() cluster.Config {
	return cluster.Config{
		Backend:    c.Backend,
		Seed:       c.Seed,
		Restarts:   c.Restarts,
		Iterations: c.Iterations,
	}
}

func (c Config) delimiter() rune {
	if c.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Validate checks the parts of the configuration shared by all pipelines.
func (c Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("no output directory: %w", model.ErrConfig)
	}
	if utf8.RuneCountInString(c.Delimiter) > 1 {
		return fmt.Errorf("delimiter must be a single character, got '%s': %w", c.Delimiter, model.ErrConfig)
	}
	if err := c.Plan.Validate(); err != nil {
		return err
	}
	return c.Cluster().Validate()
}

// ValidateSegment checks the configuration of a segmentation run.
func (c Config) ValidateSegment() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Input == "" {
		return fmt.Errorf("no input file: %w", model.ErrConfig)
	}
	return c.K.Validate()
}

// ValidateClassify checks the configuration of a classification run.
func (c Config) ValidateClassify() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Input == "" {
		return fmt.Errorf("no input file: %w", model.ErrConfig)
	}
	if c.Label == "" {
		return fmt.Errorf("no label column: %w", model.ErrConfig)
	}
	for _, f := range c.Features {
		if f == c.Label {
			return fmt.Errorf("label '%s' cannot be a feature: %w", c.Label, model.ErrConfig)
		}
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("no models to train: %w", model.ErrConfig)
	}
	for _, m := range c.Models {
		switch m {
		case LogisticModel, TreeModel, ForestModel, KnnModel:
		default:
			return fmt.Errorf("unsupported model '%s': %w", m, model.ErrConfig)
		}
	}
	if c.Depth < 0 {
		return fmt.Errorf("tree depth cannot be negative, got %d: %w", c.Depth, model.ErrConfig)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be in (0,1), got %f: %w", c.TestFraction, model.ErrConfig)
	}
	return nil
}

// ValidateEvaluate checks the configuration of an evaluation run.
func (c Config) ValidateEvaluate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Predictions == "" && c.Input == "" {
		return fmt.Errorf("no predictions file: %w", model.ErrConfig)
	}
	return nil
}
