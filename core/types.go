package core

import "gonum.org/v1/gonum/spatial/r3"

// CellType classifies what a grid cell contains and therefore which
// simulation phases act on it. Only Fluid cells receive forces, pressure
// updates and advection; Air and Boundary cells are passive neighbors.
type CellType uint8

const (
	CellAir CellType = iota
	CellFluid
	CellBoundary
)

func (c CellType) String() string {
	switch c {
	case CellAir:
		return "air"
	case CellFluid:
		return "fluid"
	case CellBoundary:
		return "boundary"
	}
	return "unknown"
}

// DistanceField is the capability the solver consumes from external
// geometry providers. Distance returns the signed distance from p to the
// surface (negative inside), Normal the outward unit normal at p.
// Implementations must be pure: the solver may query them concurrently
// for arbitrary positions.
type DistanceField interface {
	Distance(p r3.Vec) float64
	Normal(p r3.Vec) r3.Vec
}

// Boundary bundles the distance-field collaborators with the friction
// coefficient applied when a velocity is reflected off a surface.
// Fields are processed in list order; a later field may overwrite the
// velocity adjustment of an earlier one for the same cell.
type Boundary struct {
	Fields   []DistanceField
	Friction float64 // [0,1], 0 = perfectly elastic reflection
}
