package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func floorDiv(a, h float64) float64 { return math.Floor(a / h) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerpCell resolves a world position to the corners and fractional
// weights of its trilinear interpolation stencil. The base corner is
// clamped to [0, N-2] per axis so the 8-corner stencil never leaves the
// arrays, whatever the world position; sampling exactly at a cell center
// reproduces that cell's stored value.
type lerpCell struct {
	x0, y0, z0 int
	x1, y1, z1 int
	tx, ty, tz float64
}

func (g *Grid) lerpAt(p r3.Vec) lerpCell {
	h := g.CellSize
	fx := clamp((p.X-g.Origin.X)/h-0.5, 0, float64(g.Nx-1))
	fy := clamp((p.Y-g.Origin.Y)/h-0.5, 0, float64(g.Ny-1))
	fz := clamp((p.Z-g.Origin.Z)/h-0.5, 0, float64(g.Nz-1))
	x0 := minInt(int(fx), maxInt(g.Nx-2, 0))
	y0 := minInt(int(fy), maxInt(g.Ny-2, 0))
	z0 := minInt(int(fz), maxInt(g.Nz-2, 0))
	return lerpCell{
		x0: x0, y0: y0, z0: z0,
		x1: minInt(x0+1, g.Nx-1),
		y1: minInt(y0+1, g.Ny-1),
		z1: minInt(z0+1, g.Nz-1),
		tx: fx - float64(x0),
		ty: fy - float64(y0),
		tz: fz - float64(z0),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// corner weight for offset (dx,dy,dz) in {0,1}^3
func (lc lerpCell) weight(dx, dy, dz int) float64 {
	w := 1.0
	if dx == 0 {
		w *= 1 - lc.tx
	} else {
		w *= lc.tx
	}
	if dy == 0 {
		w *= 1 - lc.ty
	} else {
		w *= lc.ty
	}
	if dz == 0 {
		w *= 1 - lc.tz
	} else {
		w *= lc.tz
	}
	return w
}

func (lc lerpCell) corner(dx, dy, dz int) (x, y, z int) {
	x, y, z = lc.x0, lc.y0, lc.z0
	if dx == 1 {
		x = lc.x1
	}
	if dy == 1 {
		y = lc.y1
	}
	if dz == 1 {
		z = lc.z1
	}
	return x, y, z
}

// SampleVelocity trilinearly interpolates the velocity field at a world
// position. Exact at cell centers.
func (g *Grid) SampleVelocity(p r3.Vec) r3.Vec {
	lc := g.lerpAt(p)
	var out r3.Vec
	for dz := 0; dz <= 1; dz++ {
		for dy := 0; dy <= 1; dy++ {
			for dx := 0; dx <= 1; dx++ {
				cx, cy, cz := lc.corner(dx, dy, dz)
				v := g.Vel[g.Idx(cx, cy, cz)]
				out = r3.Add(out, r3.Scale(lc.weight(dx, dy, dz), v))
			}
		}
	}
	return out
}

// SampleDensity trilinearly interpolates the density field at a world
// position.
func (g *Grid) SampleDensity(p r3.Vec) float64 {
	lc := g.lerpAt(p)
	out := 0.0
	for dz := 0; dz <= 1; dz++ {
		for dy := 0; dy <= 1; dy++ {
			for dx := 0; dx <= 1; dx++ {
				cx, cy, cz := lc.corner(dx, dy, dz)
				out += lc.weight(dx, dy, dz) * g.Density[g.Idx(cx, cy, cz)]
			}
		}
	}
	return out
}

// Divergence estimates the local velocity divergence at a cell from
// central differences of the face neighbors. A missing neighbor simply
// drops out of the sum (treated as zero), unlike PressureGradient which
// clamps to the cell's own value. The two policies differ on purpose.
func (g *Grid) Divergence(x, y, z int) float64 {
	div := 0.0
	if x+1 < g.Nx {
		div += 0.5 * g.Vel[g.Idx(x+1, y, z)].X
	}
	if x-1 >= 0 {
		div -= 0.5 * g.Vel[g.Idx(x-1, y, z)].X
	}
	if y+1 < g.Ny {
		div += 0.5 * g.Vel[g.Idx(x, y+1, z)].Y
	}
	if y-1 >= 0 {
		div -= 0.5 * g.Vel[g.Idx(x, y-1, z)].Y
	}
	if z+1 < g.Nz {
		div += 0.5 * g.Vel[g.Idx(x, y, z+1)].Z
	}
	if z-1 >= 0 {
		div -= 0.5 * g.Vel[g.Idx(x, y, z-1)].Z
	}
	return div
}

// PressureGradient estimates the discrete pressure gradient at a cell from
// central differences. An out-of-range neighbor stands in with the cell's
// own pressure, which zeroes that axis's edge contribution.
func (g *Grid) PressureGradient(x, y, z int) r3.Vec {
	pc := g.Pressure[g.Idx(x, y, z)]

	px0, px1 := pc, pc
	if x-1 >= 0 {
		px0 = g.Pressure[g.Idx(x-1, y, z)]
	}
	if x+1 < g.Nx {
		px1 = g.Pressure[g.Idx(x+1, y, z)]
	}

	py0, py1 := pc, pc
	if y-1 >= 0 {
		py0 = g.Pressure[g.Idx(x, y-1, z)]
	}
	if y+1 < g.Ny {
		py1 = g.Pressure[g.Idx(x, y+1, z)]
	}

	pz0, pz1 := pc, pc
	if z-1 >= 0 {
		pz0 = g.Pressure[g.Idx(x, y, z-1)]
	}
	if z+1 < g.Nz {
		pz1 = g.Pressure[g.Idx(x, y, z+1)]
	}

	return r3.Vec{
		X: 0.5 * (px1 - px0),
		Y: 0.5 * (py1 - py0),
		Z: 0.5 * (pz1 - pz0),
	}
}
