package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/mcbank/sim"
	"github.com/inference-sim/mcbank/sim/bank"
)

// loadRunConfig parses a run configuration file on top of sim.DefaultSimConfig.
// Fields absent from the file keep their defaults.
// Uses strict field checking: typos must cause errors.
func loadRunConfig(path string) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("parse run config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlagOverrides copies explicitly set flags over cfg.
// Flags left at their defaults never override values from the config file.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *sim.SimConfig) {
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("generations") {
		cfg.Generations = generations
	}
	if flags.Changed("inactive") {
		cfg.Inactive = inactive
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("capacity-factor") {
		cfg.Bank.CapacityFactor = capacityFactor
	}
	if flags.Changed("entropy-bins") {
		cfg.EntropyBins = entropyBins
	}
}

// resolveConfig builds the effective configuration: defaults, then --config, then flags.
func resolveConfig(flags *pflag.FlagSet) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	if configPath != "" {
		var err error
		if cfg, err = loadRunConfig(configPath); err != nil {
			return cfg, err
		}
	}
	applyFlagOverrides(flags, &cfg)
	return cfg, cfg.Validate()
}

// writeConfig writes cfg as YAML.
func writeConfig(w io.Writer, cfg sim.SimConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// dumpSourceBank prints the first n sites of the session's source bank.
func dumpSourceBank(w io.Writer, session *bank.Session, n int) error {
	sites, err := session.SourceBank()
	if err != nil {
		return err
	}
	n = min(n, len(sites))
	fmt.Fprintf(w, "=== Source Bank (%d of %d sites) ===\n", n, len(sites))
	for i, s := range sites[:n] {
		fmt.Fprintf(w, "%6d %s\n", i, s)
	}
	return nil
}
