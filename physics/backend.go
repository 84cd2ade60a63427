package physics

import (
	"log"
	"runtime"
	"sync"
)

// Backend executes one simulation phase as a set of per-cell kernel
// invocations over [0, n). Dispatch returns only after every invocation
// has completed, which is the barrier the orchestrator relies on between
// phases.
type Backend interface {
	Dispatch(n int, kernel func(i int))
	Name() string
	IsEnabled() bool
	Cleanup()
}

// SequentialBackend runs kernels as a single ordered loop. Flat index
// order sweeps x fastest, then y, then z, which fixes the relaxation order
// of the in-place pressure solve.
type SequentialBackend struct{}

func (s *SequentialBackend) Dispatch(n int, kernel func(i int)) {
	for i := 0; i < n; i++ {
		kernel(i)
	}
}

func (s *SequentialBackend) Name() string    { return "sequential" }
func (s *SequentialBackend) IsEnabled() bool { return true }
func (s *SequentialBackend) Cleanup()        {}

// blockSize is the number of cells per dispatch block. Blocks are the
// scheduling unit handed to workers, covering the grid the way fixed-size
// thread groups cover a kernel launch.
const blockSize = 256

type block struct {
	start, end int
	kernel     func(i int)
	done       *sync.WaitGroup
}

// ParallelBackend dispatches kernels over a persistent pool of worker
// goroutines. Invocations within one dispatch carry no ordering guarantee:
// phases that read and write the same array (pressure relaxation, boundary
// classification) may observe a mix of old and already-updated neighbor
// values. Advection is double-buffered on this backend too, so transport
// carries no such hazard.
type ParallelBackend struct {
	workers int
	blocks  chan block
	wg      sync.WaitGroup
}

// NewParallelBackend starts workers goroutines (GOMAXPROCS when workers
// <= 0). It fails with ok=false on a single-CPU configuration, where the
// pool cannot actually run cells concurrently.
func NewParallelBackend(workers int) (*ParallelBackend, bool) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 2 {
		return nil, false
	}
	b := &ParallelBackend{
		workers: workers,
		blocks:  make(chan block, workers),
	}
	for w := 0; w < workers; w++ {
		b.wg.Add(1)
		go b.worker()
	}
	return b, true
}

func (b *ParallelBackend) worker() {
	defer b.wg.Done()
	for blk := range b.blocks {
		for i := blk.start; i < blk.end; i++ {
			blk.kernel(i)
		}
		blk.done.Done()
	}
}

func (b *ParallelBackend) Dispatch(n int, kernel func(i int)) {
	var done sync.WaitGroup
	for s := 0; s < n; s += blockSize {
		e := s + blockSize
		if e > n {
			e = n
		}
		done.Add(1)
		b.blocks <- block{start: s, end: e, kernel: kernel, done: &done}
	}
	done.Wait()
}

func (b *ParallelBackend) Name() string    { return "parallel" }
func (b *ParallelBackend) IsEnabled() bool { return true }

// Cleanup stops the worker pool. The backend must not be dispatched to
// afterwards.
func (b *ParallelBackend) Cleanup() {
	close(b.blocks)
	b.wg.Wait()
}

// SelectBackend returns the configured backend. A parallel request that
// cannot be satisfied falls back to sequential execution; that is logged
// and not an error.
func SelectBackend(parallel bool, workers int) Backend {
	if !parallel {
		return &SequentialBackend{}
	}
	b, ok := NewParallelBackend(workers)
	if !ok {
		log.Printf("parallel backend unavailable (single CPU), falling back to sequential")
		return &SequentialBackend{}
	}
	return b
}
