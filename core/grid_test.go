package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewGridValidation(t *testing.T) {
	tests := []struct {
		name       string
		nx, ny, nz int
		cellSize   float64
		wantErr    bool
	}{
		{"valid", 4, 4, 4, 0.5, false},
		{"single cell", 1, 1, 1, 1.0, false},
		{"zero nx", 0, 4, 4, 0.5, true},
		{"negative ny", 4, -1, 4, 0.5, true},
		{"zero nz", 4, 4, 0, 0.5, true},
		{"zero cell size", 4, 4, 4, 0, true},
		{"negative cell size", 4, 4, 4, -0.5, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewGrid(tc.nx, tc.ny, tc.nz, tc.cellSize, r3.Vec{})
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			n := tc.nx * tc.ny * tc.nz
			assert.Len(t, g.Vel, n)
			assert.Len(t, g.Pressure, n)
			assert.Len(t, g.Density, n)
			assert.Len(t, g.Cells, n)
			for i := 0; i < n; i++ {
				assert.Equal(t, CellAir, g.Cells[i])
			}
		})
	}
}

func TestIdxIsUniqueAndTotal(t *testing.T) {
	g, err := NewGrid(3, 4, 5, 1.0, r3.Vec{})
	require.NoError(t, err)

	seen := make(map[int]bool)
	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				i := g.Idx(x, y, z)
				require.False(t, seen[i], "index %d assigned twice", i)
				seen[i] = true

				rx, ry, rz := g.Coords(i)
				assert.Equal(t, [3]int{x, y, z}, [3]int{rx, ry, rz})
			}
		}
	}
	assert.Len(t, seen, g.CellCount())
}

func TestCellCenterRoundTrip(t *testing.T) {
	origin := r3.Vec{X: -2, Y: 1.5, Z: 0.25}
	g, err := NewGrid(4, 5, 6, 0.5, origin)
	require.NoError(t, err)

	// Center of cell (0,0,0) sits half a cell off the origin.
	c := g.CellCenter(0, 0, 0)
	assert.InDelta(t, origin.X+0.25, c.X, 1e-12)
	assert.InDelta(t, origin.Y+0.25, c.Y, 1e-12)
	assert.InDelta(t, origin.Z+0.25, c.Z, 1e-12)

	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				cx, cy, cz := g.CellAt(g.CellCenter(x, y, z))
				assert.Equal(t, [3]int{x, y, z}, [3]int{cx, cy, cz})
			}
		}
	}

	// Positions left of the origin land on negative coordinates rather
	// than wrapping.
	x, y, z := g.CellAt(r3.Vec{X: origin.X - 0.1, Y: origin.Y, Z: origin.Z})
	assert.Equal(t, -1, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, 0, z)
}

func TestCloneIsolation(t *testing.T) {
	g, err := NewGrid(3, 3, 3, 1.0, r3.Vec{})
	require.NoError(t, err)
	for i := 0; i < g.CellCount(); i++ {
		g.Vel[i] = r3.Vec{X: float64(i), Y: float64(2 * i), Z: float64(-i)}
		g.Pressure[i] = float64(i) * 0.5
		g.Density[i] = float64(i) * 0.25
		g.Cells[i] = CellFluid
	}

	want := g.Clone() // reference snapshot

	c := g.Clone()
	for i := 0; i < c.CellCount(); i++ {
		c.Vel[i] = r3.Vec{X: 99}
		c.Pressure[i] = 99
		c.Density[i] = 99
		c.Cells[i] = CellBoundary
	}

	if diff := cmp.Diff(want.Vel, g.Vel); diff != "" {
		t.Errorf("velocity changed after mutating clone (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Pressure, g.Pressure); diff != "" {
		t.Errorf("pressure changed after mutating clone (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Density, g.Density); diff != "" {
		t.Errorf("density changed after mutating clone (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Cells, g.Cells); diff != "" {
		t.Errorf("classification changed after mutating clone (-want +got):\n%s", diff)
	}
}
