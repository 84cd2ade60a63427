package telemetry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/omega-ult/FoodSimulation/core"
)

// Stats is one tick's worth of field diagnostics.
type Stats struct {
	Tick          int     `csv:"tick"`
	SimTime       float64 `csv:"sim_time"`
	FluidCells    int     `csv:"fluid_cells"`
	BoundaryCells int     `csv:"boundary_cells"`
	RMSDivergence float64 `csv:"rms_divergence"`
	MaxSpeed      float64 `csv:"max_speed"`
	TotalDensity  float64 `csv:"total_density"`
}

// Measure computes diagnostics over the grid. RMS divergence is taken over
// interior Fluid cells only, the same population the pressure solve acts
// on.
func Measure(g *core.Grid, tick int, simTime float64) Stats {
	s := Stats{Tick: tick, SimTime: simTime}

	sumSq := 0.0
	interiorFluid := 0
	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				i := g.Idx(x, y, z)
				switch g.Cells[i] {
				case core.CellFluid:
					s.FluidCells++
				case core.CellBoundary:
					s.BoundaryCells++
				}
				s.TotalDensity += g.Density[i]
				if speed := r3.Norm(g.Vel[i]); speed > s.MaxSpeed {
					s.MaxSpeed = speed
				}
				if g.Cells[i] == core.CellFluid && g.Interior(x, y, z) {
					d := g.Divergence(x, y, z)
					sumSq += d * d
					interiorFluid++
				}
			}
		}
	}
	if interiorFluid > 0 {
		s.RMSDivergence = math.Sqrt(sumSq / float64(interiorFluid))
	}
	return s
}
