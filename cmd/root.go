package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/mcbank/sim"
)

var (
	// CLI flags for the run
	configPath     string  // YAML run configuration
	seed           int64   // Master seed for all RNG streams
	particles      int     // Source particles per generation
	generations    int     // Total generations
	inactive       int     // Generations excluded from k statistics
	workers        int     // Concurrent transport goroutines
	capacityFactor float64 // Fission bank capacity per source particle
	entropyBins    int     // Spatial bins for the Shannon entropy diagnostic
	logLevel       string  // Log verbosity level

	// CLI flags for outputs
	metricsFile string // Prometheus textfile destination
	dumpSource  int    // Number of final source sites to print
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mcbank",
	Short: "Generational Monte Carlo driver with reproducible particle banks",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a generational eigenvalue simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation with %d particles x %d generations (%d inactive), %d workers, fission bank capacity %d",
			cfg.Particles, cfg.Generations, cfg.Inactive, cfg.Workers, cfg.FissionBankCapacity())

		startTime := time.Now()

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Unable to create simulator: %v", err)
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := s.Run(ctx); err != nil {
			// Export what was observed, overflow counts included, before exiting.
			if werr := writeMetrics(s, metricsFile); werr != nil {
				logrus.Errorf("%v", werr)
			}
			logrus.Fatalf("Simulation failed: %v", err)
		}

		out := cmd.OutOrStdout()
		if err := sim.PrintReport(out, s.Trace); err != nil {
			logrus.Fatalf("Unable to print report: %v", err)
		}
		if dumpSource > 0 {
			if err := dumpSourceBank(out, s.Session, dumpSource); err != nil {
				logrus.Errorf("Source bank dump failed: %v (%s)", err, s.Session.ErrMsg())
			}
		}
		if err := writeMetrics(s, metricsFile); err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// writeMetrics exports the simulator's metrics to path; an empty path disables the export.
func writeMetrics(s *sim.Simulator, path string) error {
	if path == "" {
		return nil
	}
	if err := s.Metrics.WriteTextfile(path); err != nil {
		return err
	}
	logrus.Infof("Metrics written to %s", path)
	return nil
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective run configuration as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if err := writeConfig(cmd.OutOrStdout(), cfg); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags adds the flags shared by run and config
func registerRunFlags(cmd *cobra.Command) {
	defaults := sim.DefaultSimConfig()
	cmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration file")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Master seed for all random streams")
	cmd.Flags().IntVar(&particles, "particles", defaults.Particles, "Source particles per generation")
	cmd.Flags().IntVar(&generations, "generations", defaults.Generations, "Total generations")
	cmd.Flags().IntVar(&inactive, "inactive", defaults.Inactive, "Leading generations excluded from k statistics")
	cmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Concurrent transport workers")
	cmd.Flags().Float64Var(&capacityFactor, "capacity-factor", defaults.Bank.CapacityFactor, "Fission bank capacity per source particle")
	cmd.Flags().IntVar(&entropyBins, "entropy-bins", defaults.EntropyBins, "Spatial bins for the Shannon entropy diagnostic")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write prometheus metrics to this file after the run")
	runCmd.Flags().IntVar(&dumpSource, "dump-source", 0, "Print the first N sites of the final source bank")

	registerRunFlags(configCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
