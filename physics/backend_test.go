package physics

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/omega-ult/FoodSimulation/core"
)

func TestParallelDispatchCoversEveryCellOnce(t *testing.T) {
	b, ok := NewParallelBackend(4)
	require.True(t, ok)
	defer b.Cleanup()

	const n = 10_000
	hits := make([]int32, n)
	b.Dispatch(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i, h := range hits {
		require.Equal(t, int32(1), h, "cell %d", i)
	}
}

func TestParallelDispatchBarriers(t *testing.T) {
	b, ok := NewParallelBackend(4)
	require.True(t, ok)
	defer b.Cleanup()

	// A second dispatch must observe everything the first one wrote.
	const n = 4096
	vals := make([]int64, n)
	b.Dispatch(n, func(i int) { vals[i] = int64(i) })
	var sum int64
	b.Dispatch(1, func(int) {
		for _, v := range vals {
			sum += v
		}
	})
	assert.Equal(t, int64(n)*(n-1)/2, sum)
}

func TestSelectBackendFallsBack(t *testing.T) {
	b := SelectBackend(true, 1)
	defer b.Cleanup()
	assert.Equal(t, "sequential", b.Name(), "single worker cannot run in parallel")
	assert.True(t, b.IsEnabled())

	seq := SelectBackend(false, 0)
	assert.Equal(t, "sequential", seq.Name())

	par := SelectBackend(true, 4)
	defer par.Cleanup()
	assert.Equal(t, "parallel", par.Name())
}

// parityScenario builds the small boundary scenario used for backend
// comparison: an 8³ half-filled tank with a solid sphere in the middle.
func parityScenario(t *testing.T, backend Backend) *Solver {
	t.Helper()
	g, err := core.NewGrid(8, 8, 8, 1.0, r3.Vec{})
	require.NoError(t, err)
	for z := 1; z < 7; z++ {
		for y := 1; y < 5; y++ {
			for x := 1; x < 7; x++ {
				i := g.Idx(x, y, z)
				g.Cells[i] = core.CellFluid
				g.Density[i] = 1
			}
		}
	}
	sphere := sphereField{center: g.CellCenter(4, 4, 4), radius: 1.5}
	s, err := NewSolver(g, core.Boundary{
		Fields:   []core.DistanceField{sphere},
		Friction: 0.2,
	}, Params{
		Gravity:      r3.Vec{Y: -1},
		FluidDensity: 1,
		Viscosity:    0.01,
		Iterations:   4,
	}, backend)
	require.NoError(t, err)
	return s
}

// The two backends need not agree bit for bit: the in-place pressure
// relaxation is iteration-order dependent. They must stay within a
// qualitative tolerance of each other.
func TestBackendParity(t *testing.T) {
	par, ok := NewParallelBackend(4)
	require.True(t, ok)
	defer par.Cleanup()

	seq := parityScenario(t, &SequentialBackend{})
	pll := parityScenario(t, par)

	const ticks = 5
	dt := 0.01
	for tick := 0; tick < ticks; tick++ {
		seq.Step(dt)
		pll.Step(dt)
	}

	gs, gp := seq.Grid(), pll.Grid()
	sumSq := 0.0
	for i := range gs.Vel {
		d := r3.Sub(gs.Vel[i], gp.Vel[i])
		sumSq += r3.Dot(d, d)
	}
	rms := math.Sqrt(sumSq / float64(len(gs.Vel)))
	assert.Less(t, rms, 0.02, "backends diverged beyond tolerance")

	// Classification has no ordering hazard and must agree exactly.
	assert.Equal(t, gs.Cells, gp.Cells)
}
