// Package config loads the engine's ambient configuration: the auxiliary
// variable display prefix, the partial-distributive blowup threshold, and
// the external solver binary paths. It follows the reference
// implementation's own habit of a handful of named constants (PRINT_ID,
// VAR_AUX_PREFIX) promoted here to a small, optionally file-backed struct
// rather than compiled-in constants, so a deployment can point at solver
// binaries installed anywhere without a rebuild.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/fexpr-lang/fexpr/solve"
	"github.com/fexpr-lang/fexpr/variable"
)

// Config is the engine configuration. Load or Default should be used to
// construct one; the zero value has an empty AuxPrefix and MaxBlowup,
// which is technically valid (an empty prefix, and a disabled threshold)
// but not what most callers want.
type Config struct {
	// AuxPrefix names auxiliary variables in output, e.g. "_aux_3".
	AuxPrefix string `yaml:"aux_prefix"`
	// MaxBlowup bounds rewrite.PartialDistributive's clause explosion; 0
	// or negative disables the threshold (always distribute fully).
	MaxBlowup int `yaml:"max_blowup"`
	// Solvers names the external solver binaries used by package solve.
	Solvers SolverPaths `yaml:"solvers"`
}

// SolverPaths mirrors solve.Paths for YAML decoding.
type SolverPaths struct {
	Kissat       string `yaml:"kissat"`
	D4           string `yaml:"d4"`
	BCMinisatAll string `yaml:"bc_minisat_all"`
}

// Default returns the built-in configuration: the reference
// implementation's own aux prefix, no blowup threshold, and solver
// binaries resolved bare off PATH.
func Default() Config {
	return Config{
		AuxPrefix: variable.DefaultAuxPrefix,
		MaxBlowup: 0,
		Solvers: SolverPaths{
			Kissat:       "kissat",
			D4:           "d4",
			BCMinisatAll: "bc_minisat_all",
		},
	}
}

// Load reads a YAML configuration file at path, overlaying it on Default:
// any field left unset in the file keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: could not read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: could not parse %q: %w", path, err)
	}
	return cfg, nil
}

// SolvePaths adapts Solvers to solve.Paths.
func (c Config) SolvePaths() solve.Paths {
	return solve.Paths{
		Kissat:       c.Solvers.Kissat,
		D4:           c.Solvers.D4,
		BCMinisatAll: c.Solvers.BCMinisatAll,
	}
}
