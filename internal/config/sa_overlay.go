package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"cohortsort/internal/cohort"
)

// saOverlay carries optional overrides for the simulated-annealing
// refiner's tunables: seed and the cooling schedule. Pointer fields
// distinguish "absent from file" from "explicitly zero".
type saOverlay struct {
	Seed        *int64   `toml:"seed"`
	InitialTemp *float64 `toml:"initial_temp"`
	FinalTemp   *float64 `toml:"final_temp"`
	Alpha       *float64 `toml:"alpha"`
	MaxSteps    *int     `toml:"max_steps"`
}

// LoadSAOverride reads a TOML file of SA parameter overrides and applies
// them on top of base, returning the merged config and the seed to use
// (0 if the file doesn't specify one). An empty path returns base
// unchanged with seed 0.
func LoadSAOverride(path string, base cohort.SAConfig) (cohort.SAConfig, int64, error) {
	if path == "" {
		return base, 0, nil
	}

	var overlay saOverlay
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		return cohort.SAConfig{}, 0, fmt.Errorf("config: loading sa overlay %q: %w", path, err)
	}

	cfg := base
	var seed int64
	if overlay.Seed != nil {
		seed = *overlay.Seed
	}
	if overlay.InitialTemp != nil {
		cfg.InitialTemp = *overlay.InitialTemp
	}
	if overlay.FinalTemp != nil {
		cfg.FinalTemp = *overlay.FinalTemp
	}
	if overlay.Alpha != nil {
		cfg.Alpha = *overlay.Alpha
	}
	if overlay.MaxSteps != nil {
		cfg.MaxSteps = *overlay.MaxSteps
	}

	if err := cfg.Validate(); err != nil {
		return cohort.SAConfig{}, 0, fmt.Errorf("config: sa overlay %q produced invalid config: %w", path, err)
	}

	return cfg, seed, nil
}
