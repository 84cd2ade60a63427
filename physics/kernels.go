package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/omega-ult/FoodSimulation/core"
)

// The per-cell update rules live here as standalone functions of
// (grid, cell coordinates, parameters). Both execution backends invoke the
// same functions; only the dispatch differs, so the two backends cannot
// drift apart algorithmically.

// forceCell adds an external acceleration to a Fluid cell's velocity.
func forceCell(g *core.Grid, x, y, z int, accel r3.Vec, dt float64) {
	i := g.Idx(x, y, z)
	if g.Cells[i] != core.CellFluid {
		return
	}
	g.Vel[i] = r3.Add(g.Vel[i], r3.Scale(dt, accel))
}

// classifyCell evaluates every boundary collaborator at the cell center.
// Within one cell width of a surface the cell becomes a Boundary cell, and
// an inbound velocity is reflected about the surface normal and scaled by
// (1 - friction). Collaborators are processed in list order; each may
// overwrite the previous one's adjustment. Classification never reverts:
// the solver does not turn Boundary cells back into Fluid.
func classifyCell(g *core.Grid, x, y, z int, b core.Boundary) {
	center := g.CellCenter(x, y, z)
	i := g.Idx(x, y, z)
	for _, f := range b.Fields {
		if f.Distance(center) >= g.CellSize {
			continue
		}
		n := f.Normal(center)
		v := g.Vel[i]
		if vn := r3.Dot(v, n); vn < 0 {
			reflected := r3.Sub(v, r3.Scale(2*vn, n))
			g.Vel[i] = r3.Scale(1-b.Friction, reflected)
		}
		g.Cells[i] = core.CellBoundary
	}
}

// relaxPressureCell performs one relaxation update for an interior Fluid
// cell: average the Fluid face-neighbor pressures and subtract the scaled
// divergence. The shared pressure array is updated in place, so a cell may
// observe neighbor values from the current sweep as well as the previous
// one (Gauss-Seidel-style). That in-place update is deliberate; a true
// Jacobi double buffer would change reference behavior.
func relaxPressureCell(g *core.Grid, x, y, z int, scale float64) {
	if !g.Interior(x, y, z) {
		return
	}
	i := g.Idx(x, y, z)
	if g.Cells[i] != core.CellFluid {
		return
	}

	var nb [6]int
	sum := 0.0
	count := 0
	for _, j := range nb[:faceNeighbors(g, x, y, z, &nb)] {
		if g.Cells[j] == core.CellFluid {
			sum += g.Pressure[j]
			count++
		}
	}
	if count == 0 {
		return
	}
	g.Pressure[i] = (sum - g.Divergence(x, y, z)*scale) / float64(count)
}

// correctCell applies the pressure-gradient correction and, when viscosity
// is positive, an explicit viscous diffusion term to an interior Fluid
// cell. Both terms are computed from the velocities stored at entry; the
// cell's slot is written once at the end. The extra 0.5 on the gradient
// term halves the naive central-difference correction.
func correctCell(g *core.Grid, x, y, z int, p Params, dt float64) {
	if !g.Interior(x, y, z) {
		return
	}
	i := g.Idx(x, y, z)
	if g.Cells[i] != core.CellFluid {
		return
	}

	v := g.Vel[i]
	grad := g.PressureGradient(x, y, z)
	v = r3.Sub(v, r3.Scale(dt/(p.FluidDensity*g.CellSize)*0.5, grad))

	if p.Viscosity > 0 {
		var nb [6]int
		var acc r3.Vec
		for _, j := range nb[:faceNeighbors(g, x, y, z, &nb)] {
			if g.Cells[j] == core.CellFluid {
				acc = r3.Add(acc, r3.Sub(g.Vel[j], g.Vel[i]))
			}
		}
		h := g.CellSize
		v = r3.Add(v, r3.Scale(p.Viscosity*dt/(h*h), acc))
	}

	g.Vel[i] = v
}

// advectVelocityCell back-traces the cell center along the snapshot's
// velocity and resamples the snapshot's velocity field there
// (semi-Lagrangian transport). Reads come from src, the write goes to the
// live grid, so cell order within the phase cannot alias.
func advectVelocityCell(g, src *core.Grid, x, y, z int, dt float64) {
	if !g.Interior(x, y, z) {
		return
	}
	i := g.Idx(x, y, z)
	if g.Cells[i] != core.CellFluid {
		return
	}
	back := r3.Sub(src.CellCenter(x, y, z), r3.Scale(dt, src.Vel[i]))
	g.Vel[i] = src.SampleVelocity(back)
}

// advectDensityCell is the density counterpart of advectVelocityCell.
func advectDensityCell(g, src *core.Grid, x, y, z int, dt float64) {
	if !g.Interior(x, y, z) {
		return
	}
	i := g.Idx(x, y, z)
	if g.Cells[i] != core.CellFluid {
		return
	}
	back := r3.Sub(src.CellCenter(x, y, z), r3.Scale(dt, src.Vel[i]))
	g.Density[i] = src.SampleDensity(back)
}

// faceNeighbors writes the flat indices of the in-range face neighbors
// into buf and returns how many there are.
func faceNeighbors(g *core.Grid, x, y, z int, buf *[6]int) int {
	n := 0
	if x-1 >= 0 {
		buf[n] = g.Idx(x-1, y, z)
		n++
	}
	if x+1 < g.Nx {
		buf[n] = g.Idx(x+1, y, z)
		n++
	}
	if y-1 >= 0 {
		buf[n] = g.Idx(x, y-1, z)
		n++
	}
	if y+1 < g.Ny {
		buf[n] = g.Idx(x, y+1, z)
		n++
	}
	if z-1 >= 0 {
		buf[n] = g.Idx(x, y, z-1)
		n++
	}
	if z+1 < g.Nz {
		buf[n] = g.Idx(x, y, z+1)
		n++
	}
	return n
}
