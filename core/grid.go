package core

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a fixed-shape 3D lattice of cells with a uniform cell size and a
// world-space origin. All four field arrays are flat, length Nx*Ny*Nz, and
// are mutated in place by the simulation phases. The shape never changes
// after creation.
//
// Integer-coordinate access through Idx is unchecked: callers validate
// coordinates. Only the world-position sampling entry points clamp.
type Grid struct {
	Nx, Ny, Nz int
	CellSize   float64
	Origin     r3.Vec

	Vel      []r3.Vec
	Pressure []float64
	Density  []float64
	Cells    []CellType
}

// NewGrid allocates a grid of nx*ny*nz cells. All cells start as Air with
// zero velocity, pressure and density.
func NewGrid(nx, ny, nz int, cellSize float64, origin r3.Vec) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("grid resolution must be positive, got %dx%dx%d", nx, ny, nz)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %g", cellSize)
	}
	n := nx * ny * nz
	return &Grid{
		Nx:       nx,
		Ny:       ny,
		Nz:       nz,
		CellSize: cellSize,
		Origin:   origin,
		Vel:      make([]r3.Vec, n),
		Pressure: make([]float64, n),
		Density:  make([]float64, n),
		Cells:    make([]CellType, n),
	}, nil
}

// CellCount returns the total number of cells.
func (g *Grid) CellCount() int { return g.Nx * g.Ny * g.Nz }

// Idx flattens integer cell coordinates. x varies fastest.
func (g *Grid) Idx(x, y, z int) int {
	return x + g.Nx*(y+g.Ny*z)
}

// Coords inverts Idx.
func (g *Grid) Coords(i int) (x, y, z int) {
	x = i % g.Nx
	i /= g.Nx
	y = i % g.Ny
	z = i / g.Ny
	return x, y, z
}

// InBounds reports whether the integer coordinates name a cell.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.Nx && y >= 0 && y < g.Ny && z >= 0 && z < g.Nz
}

// Interior reports whether the cell has a full set of face neighbors.
func (g *Grid) Interior(x, y, z int) bool {
	return x > 0 && x < g.Nx-1 && y > 0 && y < g.Ny-1 && z > 0 && z < g.Nz-1
}

// CellCenter returns the world position of the cell's center.
func (g *Grid) CellCenter(x, y, z int) r3.Vec {
	h := g.CellSize
	return r3.Vec{
		X: g.Origin.X + (float64(x)+0.5)*h,
		Y: g.Origin.Y + (float64(y)+0.5)*h,
		Z: g.Origin.Z + (float64(z)+0.5)*h,
	}
}

// CellAt returns the integer coordinates of the cell containing the world
// position p. The result may be out of bounds; callers check.
func (g *Grid) CellAt(p r3.Vec) (x, y, z int) {
	h := g.CellSize
	x = int(floorDiv(p.X-g.Origin.X, h))
	y = int(floorDiv(p.Y-g.Origin.Y, h))
	z = int(floorDiv(p.Z-g.Origin.Z, h))
	return x, y, z
}

// Clone deep-copies the grid, including all four field arrays. The phases
// that need a read-only snapshot (advection) work against a clone while
// writing to the live grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		Nx:       g.Nx,
		Ny:       g.Ny,
		Nz:       g.Nz,
		CellSize: g.CellSize,
		Origin:   g.Origin,
		Vel:      make([]r3.Vec, len(g.Vel)),
		Pressure: make([]float64, len(g.Pressure)),
		Density:  make([]float64, len(g.Density)),
		Cells:    make([]CellType, len(g.Cells)),
	}
	copy(c.Vel, g.Vel)
	copy(c.Pressure, g.Pressure)
	copy(c.Density, g.Density)
	copy(c.Cells, g.Cells)
	return c
}
