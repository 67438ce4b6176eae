package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	clustermath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/pipeline"
	"github.com/drakos74/free-cluster/internal/storage/file/csv"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Cluster the records and report the segments",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		summary, err := pipeline.Segment(cfg, cmd.OutOrStdout())
		if summary != nil {
			log.Info().
				Str("run", summary.Run).
				Int("k", summary.Result.K).
				Float64("silhouette", summary.Result.Silhouette).
				Strs("written", summary.Written).
				Msg("segmented")
		}
		return err
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Train and evaluate classifiers on the label column",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if label != "" {
			cfg.Label = label
		}
		result, err := pipeline.Classify(cfg, cmd.OutOrStdout())
		if result != nil {
			log.Info().
				Str("run", result.Run).
				Int("train", len(result.Split.Train)).
				Int("test", len(result.Split.Test)).
				Strs("written", result.Written).
				Msg("classified")
		}
		return err
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [predictions.csv]",
	Short: "Compute the metrics of a predictions file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Predictions = args[0]
		}
		_, err = pipeline.Evaluate(cfg, cmd.OutOrStdout())
		return err
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Assign the records to the clusters of a stored model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, err = pipeline.Predict(cfg, cmd.OutOrStdout())
		return err
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Write a synthetic data set of uniform blobs around the given centers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		centers, err := parseCenters(blobCenters)
		if err != nil {
			return err
		}
		points, labels := clustermath.Blobs(centers, blobSize, blobSpread, seed)
		header := make([]string, 0, len(centers[0])+1)
		for j := range centers[0] {
			header = append(header, fmt.Sprintf("x%d", j))
		}
		header = append(header, "label")
		records := make([][]string, len(points))
		for i, p := range points {
			record := make([]string, 0, len(p)+1)
			for _, v := range p {
				record = append(record, fmt.Sprintf("%g", v))
			}
			records[i] = append(record, fmt.Sprintf("%d", labels[i]))
		}
		if err := csv.WriteRecords(args[0], header, records); err != nil {
			return err
		}
		log.Info().Str("file", args[0]).Int("rows", len(records)).Msg("generated")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "free-cluster %s (%s)\n", version, runtime.Version())
	},
}

var (
	label       string
	blobCenters string
	blobSize    int
	blobSpread  float64
)

func init() {
	classifyCmd.Flags().StringVar(&label, "label", "", "label column")

	generateCmd.Flags().StringVar(&blobCenters, "centers", "0,0;10,10", "blob centers, coordinates separated by ',' and centers by ';'")
	generateCmd.Flags().IntVar(&blobSize, "size", 50, "points per center")
	generateCmd.Flags().Float64Var(&blobSpread, "spread", 1, "maximum distance from the center per coordinate")
}

func parseCenters(s string) ([][]float64, error) {
	centers := make([][]float64, 0)
	for _, c := range strings.Split(s, ";") {
		var center []float64
		for _, v := range strings.Split(c, ",") {
			var f float64
			if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err != nil {
				return nil, fmt.Errorf("invalid center coordinate '%s': %w", v, err)
			}
			center = append(center, f)
		}
		if len(centers) > 0 && len(center) != len(centers[0]) {
			return nil, fmt.Errorf("center '%s' has %d coordinates, expected %d", c, len(center), len(centers[0]))
		}
		centers = append(centers, center)
	}
	return centers, nil
}
