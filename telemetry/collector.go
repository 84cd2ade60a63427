package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// Collector keeps a bounded history of per-tick stats. When the capacity
// is reached the oldest half is dropped, so long runs keep recent history
// without unbounded growth.
type Collector struct {
	capacity int
	entries  []Stats
}

// NewCollector creates a collector holding at most capacity entries
// (a small default applies when capacity <= 0).
func NewCollector(capacity int) *Collector {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Collector{
		capacity: capacity,
		entries:  make([]Stats, 0, capacity),
	}
}

// Record appends one tick's stats.
func (c *Collector) Record(s Stats) {
	if len(c.entries) >= c.capacity {
		keep := c.capacity / 2
		copy(c.entries, c.entries[len(c.entries)-keep:])
		c.entries = c.entries[:keep]
	}
	c.entries = append(c.entries, s)
}

// Entries returns the recorded stats, oldest first.
func (c *Collector) Entries() []Stats { return c.entries }

// Len returns the number of recorded entries.
func (c *Collector) Len() int { return len(c.entries) }

// Summary aggregates the recorded history.
type Summary struct {
	Ticks            int
	MeanRMSDiv       float64
	FinalRMSDiv      float64
	MaxSpeed         float64
	MeanTotalDensity float64
}

// Summarize reduces the history to headline numbers.
func (c *Collector) Summarize() Summary {
	if len(c.entries) == 0 {
		return Summary{}
	}
	divs := make([]float64, len(c.entries))
	dens := make([]float64, len(c.entries))
	maxSpeed := 0.0
	for i, e := range c.entries {
		divs[i] = e.RMSDivergence
		dens[i] = e.TotalDensity
		if e.MaxSpeed > maxSpeed {
			maxSpeed = e.MaxSpeed
		}
	}
	return Summary{
		Ticks:            len(c.entries),
		MeanRMSDiv:       stat.Mean(divs, nil),
		FinalRMSDiv:      divs[len(divs)-1],
		MaxSpeed:         maxSpeed,
		MeanTotalDensity: stat.Mean(dens, nil),
	}
}

// WriteCSV dumps the history as CSV, header included.
func (c *Collector) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(&c.entries, w); err != nil {
		return fmt.Errorf("writing telemetry csv: %w", err)
	}
	return nil
}
