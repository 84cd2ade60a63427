package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/omega-ult/FoodSimulation/core"
)

// Params are the externally configured scalars of the solver. They are
// read-only during a tick.
type Params struct {
	Gravity      r3.Vec  // external acceleration applied to Fluid cells
	FluidDensity float64 // mass density of the fluid, must be positive
	Viscosity    float64 // explicit diffusion coefficient, 0 disables
	Iterations   int     // pressure relaxation sweeps per tick
}

// Solver owns a grid and advances it one tick at a time through the fixed
// five-phase pipeline: forces, boundary classification, pressure solve,
// velocity correction, advection. Every phase finishes over the whole grid
// before the next begins; the backend's Dispatch return is that barrier.
type Solver struct {
	grid     *core.Grid
	boundary core.Boundary
	params   Params
	backend  Backend
}

// NewSolver validates the configuration and binds the solver to its grid
// and backend. The stability of the explicit viscosity scheme is the
// caller's responsibility; nothing here guards viscosity*dt/h².
func NewSolver(grid *core.Grid, boundary core.Boundary, params Params, backend Backend) (*Solver, error) {
	if grid == nil {
		return nil, fmt.Errorf("solver requires a grid")
	}
	if params.FluidDensity <= 0 {
		return nil, fmt.Errorf("fluid density must be positive, got %g", params.FluidDensity)
	}
	if params.Iterations < 0 {
		return nil, fmt.Errorf("iteration count must be non-negative, got %d", params.Iterations)
	}
	if boundary.Friction < 0 || boundary.Friction > 1 {
		return nil, fmt.Errorf("boundary friction must be in [0,1], got %g", boundary.Friction)
	}
	if backend == nil {
		backend = &SequentialBackend{}
	}
	return &Solver{grid: grid, boundary: boundary, params: params, backend: backend}, nil
}

// Grid returns the live grid for read-out and seeding.
func (s *Solver) Grid() *core.Grid { return s.grid }

// Backend returns the executing backend.
func (s *Solver) Backend() Backend { return s.backend }

// Step advances the simulation by dt. Each tick runs to completion; there
// is no cancellation path.
func (s *Solver) Step(dt float64) {
	s.applyForces(dt)
	s.classifyBoundaries()
	s.solvePressure(dt)
	s.correctVelocities(dt)
	s.advect(dt)
}

func (s *Solver) applyForces(dt float64) {
	g := s.grid
	accel := s.params.Gravity
	s.backend.Dispatch(g.CellCount(), func(i int) {
		x, y, z := g.Coords(i)
		forceCell(g, x, y, z, accel, dt)
	})
}

func (s *Solver) classifyBoundaries() {
	if len(s.boundary.Fields) == 0 {
		return
	}
	g := s.grid
	b := s.boundary
	s.backend.Dispatch(g.CellCount(), func(i int) {
		x, y, z := g.Coords(i)
		classifyCell(g, x, y, z, b)
	})
}

func (s *Solver) solvePressure(dt float64) {
	g := s.grid
	s.backend.Dispatch(g.CellCount(), func(i int) {
		g.Pressure[i] = 0
	})

	h := g.CellSize
	scale := dt / (s.params.FluidDensity * h * h)
	for it := 0; it < s.params.Iterations; it++ {
		s.backend.Dispatch(g.CellCount(), func(i int) {
			x, y, z := g.Coords(i)
			relaxPressureCell(g, x, y, z, scale)
		})
	}
}

func (s *Solver) correctVelocities(dt float64) {
	g := s.grid
	p := s.params
	s.backend.Dispatch(g.CellCount(), func(i int) {
		x, y, z := g.Coords(i)
		correctCell(g, x, y, z, p, dt)
	})
}

func (s *Solver) advect(dt float64) {
	g := s.grid
	src := g.Clone()
	s.backend.Dispatch(g.CellCount(), func(i int) {
		x, y, z := g.Coords(i)
		advectVelocityCell(g, src, x, y, z, dt)
	})
	s.backend.Dispatch(g.CellCount(), func(i int) {
		x, y, z := g.Coords(i)
		advectDensityCell(g, src, x, y, z, dt)
	})
}
