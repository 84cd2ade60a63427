// Package config loads simulation settings from an optional YAML file,
// layered over coded defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds everything the host configures before a run.
type Settings struct {
	Grid      GridSettings      `yaml:"grid"`
	Solver    SolverSettings    `yaml:"solver"`
	Backend   BackendSettings   `yaml:"backend"`
	Server    ServerSettings    `yaml:"server"`
	Telemetry TelemetrySettings `yaml:"telemetry"`
}

// GridSettings fixes the lattice shape. The grid is created once; changing
// these mid-run requires a restart.
type GridSettings struct {
	Nx       int        `yaml:"nx"`
	Ny       int        `yaml:"ny"`
	Nz       int        `yaml:"nz"`
	CellSize float64    `yaml:"cell_size"`
	Origin   [3]float64 `yaml:"origin"`
}

// SolverSettings are the per-tick scalars. Stability of the explicit
// viscosity term under time_step is the operator's call.
type SolverSettings struct {
	TimeStep     float64 `yaml:"time_step"`
	Iterations   int     `yaml:"iterations"`
	FluidDensity float64 `yaml:"fluid_density"`
	Viscosity    float64 `yaml:"viscosity"`
	Friction     float64 `yaml:"friction"`
	Gravity      float64 `yaml:"gravity"` // magnitude, applied along -Y
}

// BackendSettings selects the execution backend.
type BackendSettings struct {
	Parallel bool `yaml:"parallel"`
	Workers  int  `yaml:"workers"` // 0 = GOMAXPROCS
}

// ServerSettings configure the optional field-streaming endpoint.
type ServerSettings struct {
	Enabled          bool `yaml:"enabled"`
	Port             int  `yaml:"port"`
	UpdateIntervalMs int  `yaml:"updateIntervalMs"`
}

// TelemetrySettings configure per-tick statistics collection.
type TelemetrySettings struct {
	Enabled  bool   `yaml:"enabled"`
	Capacity int    `yaml:"capacity"`
	CSVPath  string `yaml:"csv_path"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		Grid: GridSettings{
			Nx:       32,
			Ny:       32,
			Nz:       32,
			CellSize: 0.25,
		},
		Solver: SolverSettings{
			TimeStep:     1.0 / 60.0,
			Iterations:   8,
			FluidDensity: 1000,
			Viscosity:    0,
			Friction:     0.1,
			Gravity:      9.81,
		},
		Backend: BackendSettings{
			Parallel: false,
			Workers:  0,
		},
		Server: ServerSettings{
			Enabled:          false,
			Port:             8080,
			UpdateIntervalMs: 100,
		},
		Telemetry: TelemetrySettings{
			Enabled:  true,
			Capacity: 4096,
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file is
// not an error; the defaults are returned as-is.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s found, using defaults\n", path)
			return s, nil
		}
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return s, nil
}
