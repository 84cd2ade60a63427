package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/omega-ult/FoodSimulation/config"
	"github.com/omega-ult/FoodSimulation/core"
	"github.com/omega-ult/FoodSimulation/physics"
	"github.com/omega-ult/FoodSimulation/telemetry"
)

func main() {
	var (
		configPath = flag.String("config", "fluidsim.yaml", "Settings file")
		ticks      = flag.Int("ticks", 600, "Number of simulation ticks to run")
		parallel   = flag.Bool("parallel", false, "Force the parallel backend")
		serve      = flag.Bool("serve", false, "Stream field snapshots over websocket")
		sphere     = flag.Float64("sphere", 0, "Add a spherical boundary with this radius (world units)")
		csvPath    = flag.String("csv", "", "Write telemetry CSV to this path on exit")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading settings: %v", err)
	}
	if *parallel {
		settings.Backend.Parallel = true
	}
	if *serve {
		settings.Server.Enabled = true
	}
	if *csvPath != "" {
		settings.Telemetry.CSVPath = *csvPath
	}

	grid, err := core.NewGrid(
		settings.Grid.Nx, settings.Grid.Ny, settings.Grid.Nz,
		settings.Grid.CellSize,
		r3.Vec{X: settings.Grid.Origin[0], Y: settings.Grid.Origin[1], Z: settings.Grid.Origin[2]},
	)
	if err != nil {
		log.Fatalf("creating grid: %v", err)
	}
	seedFluid(grid)

	boundary := core.Boundary{Friction: settings.Solver.Friction}
	if *sphere > 0 {
		center := grid.CellCenter(grid.Nx/2, grid.Ny/2, grid.Nz/2)
		boundary.Fields = append(boundary.Fields, SphereField{Center: center, Radius: *sphere})
	}

	backend := physics.SelectBackend(settings.Backend.Parallel, settings.Backend.Workers)
	defer backend.Cleanup()

	solver, err := physics.NewSolver(grid, boundary, physics.Params{
		Gravity:      r3.Vec{Y: -settings.Solver.Gravity},
		FluidDensity: settings.Solver.FluidDensity,
		Viscosity:    settings.Solver.Viscosity,
		Iterations:   settings.Solver.Iterations,
	}, backend)
	if err != nil {
		log.Fatalf("creating solver: %v", err)
	}

	fmt.Printf("=== Grid Fluid Simulator ===\n")
	fmt.Printf("Grid: %dx%dx%d, cell size %g\n", grid.Nx, grid.Ny, grid.Nz, grid.CellSize)
	fmt.Printf("Backend: %s\n", backend.Name())
	fmt.Printf("Boundaries: %d, friction %g\n", len(boundary.Fields), boundary.Friction)

	var server *fieldServer
	if settings.Server.Enabled {
		server = newFieldServer()
		server.start(settings.Server.Port)
	}

	collector := telemetry.NewCollector(settings.Telemetry.Capacity)
	dt := settings.Solver.TimeStep
	simTime := 0.0
	broadcastEvery := 1
	if settings.Server.UpdateIntervalMs > 0 && dt > 0 {
		broadcastEvery = int(float64(settings.Server.UpdateIntervalMs) / (dt * 1000))
		if broadcastEvery < 1 {
			broadcastEvery = 1
		}
	}

	for tick := 1; tick <= *ticks; tick++ {
		solver.Step(dt)
		simTime += dt

		if settings.Telemetry.Enabled {
			collector.Record(telemetry.Measure(grid, tick, simTime))
		}
		if server != nil && tick%broadcastEvery == 0 {
			server.broadcast(snapshotGrid(grid, tick, simTime))
		}
	}

	if settings.Telemetry.Enabled {
		sum := collector.Summarize()
		fmt.Printf("Ran %d ticks, mean RMS divergence %.6g (final %.6g), max speed %.4g\n",
			sum.Ticks, sum.MeanRMSDiv, sum.FinalRMSDiv, sum.MaxSpeed)
		if settings.Telemetry.CSVPath != "" {
			if err := writeCSV(collector, settings.Telemetry.CSVPath); err != nil {
				log.Printf("telemetry export failed: %v", err)
			} else {
				fmt.Printf("Telemetry written to %s\n", settings.Telemetry.CSVPath)
			}
		}
	}
}

// seedFluid fills the lower half of the domain with fluid at unit density,
// leaving a one-cell air margin on every side.
func seedFluid(g *core.Grid) {
	for z := 1; z < g.Nz-1; z++ {
		for y := 1; y < g.Ny/2; y++ {
			for x := 1; x < g.Nx-1; x++ {
				i := g.Idx(x, y, z)
				g.Cells[i] = core.CellFluid
				g.Density[i] = 1
			}
		}
	}
}

func writeCSV(c *telemetry.Collector, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.WriteCSV(f)
}
