package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/drakos74/free-cluster/infra/config"
	"github.com/drakos74/free-cluster/internal/pipeline"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	cfgFile  string
	preset   string
	input    string
	output   string
	store    string
	backend  string
	kMin     int
	kMax     int
	seed     uint64
	logLevel string
	pretty   bool
)

var rootCmd = &cobra.Command{
	Use:   "free-cluster",
	Short: "Segment, classify and evaluate tabular data sets",
	Long: `free-cluster runs parameterised batch pipelines over csv files.

segment picks the number of clusters by silhouette score and reports the fitted clusters,
classify trains and evaluates classifiers on a labelled column,
evaluate computes the metrics of an existing predictions file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file path (json or yaml)")
	flags.StringVar(&preset, "preset", "", "named config under infra/config")
	flags.StringVar(&input, "input", "", "input csv file")
	flags.StringVar(&output, "output", "", "output directory")
	flags.StringVar(&store, "store", "", "model store directory")
	flags.StringVar(&backend, "backend", "", "clustering backend (kmeans|goml)")
	flags.IntVar(&kMin, "k-min", 0, "smallest number of clusters to test")
	flags.IntVar(&kMax, "k-max", 0, "largest number of clusters to test")
	flags.Uint64Var(&seed, "seed", 0, "random seed")
	flags.StringVar(&logLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	flags.BoolVar(&pretty, "pretty", false, "human readable logs")

	rootCmd.AddCommand(segmentCmd, classifyCmd, evaluateCmd, predictCmd, generateCmd, versionCmd)
}

func initLogger() error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", logLevel, err)
	}
	zerolog.SetGlobalLevel(level)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

// loadConfig starts from the defaults, applies the config file and then the flags that were set.
func loadConfig(cmd *cobra.Command) (pipeline.Config, error) {
	cfg := pipeline.Default()
	if preset != "" {
		config.MustLoad(preset, &cfg)
	}
	if cfgFile != "" {
		if err := config.Load(cfgFile, &cfg); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = input
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("store") {
		cfg.Store = store
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("k-min") {
		cfg.K.Min = kMin
	}
	if flags.Changed("k-max") {
		cfg.K.Max = kMax
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}
