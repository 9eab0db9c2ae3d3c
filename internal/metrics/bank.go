package metrics

import (
	"math"

	"github.com/san-kum/mctrans/internal/transport"
)

// PeakOccupancy is the largest fraction of the secondary bank used by any
// step.
type PeakOccupancy struct {
	name string
	peak float64
}

func NewPeakOccupancy() *PeakOccupancy {
	return &PeakOccupancy{name: "peak_occupancy"}
}

func (p *PeakOccupancy) Name() string { return p.name }

func (p *PeakOccupancy) Observe(s transport.StepStats) {
	p.peak = math.Max(p.peak, s.Occupancy())
}

func (p *PeakOccupancy) Value() float64 { return p.peak }
func (p *PeakOccupancy) Reset()         { p.peak = 0 }

// Exhaustions counts steps where the bank ran out, retried or not.
type Exhaustions struct {
	name  string
	count int
}

func NewExhaustions() *Exhaustions {
	return &Exhaustions{name: "exhaustions"}
}

func (e *Exhaustions) Name() string { return e.name }

func (e *Exhaustions) Observe(s transport.StepStats) {
	if s.Exhausted || s.Retries > 0 {
		e.count++
	}
}

func (e *Exhaustions) Value() float64 { return float64(e.count) }
func (e *Exhaustions) Reset()         { e.count = 0 }

type DroppedTracks struct {
	name  string
	count int
}

func NewDroppedTracks() *DroppedTracks {
	return &DroppedTracks{name: "dropped_tracks"}
}

func (d *DroppedTracks) Name() string { return d.name }

func (d *DroppedTracks) Observe(s transport.StepStats) { d.count += s.Dropped }

func (d *DroppedTracks) Value() float64 { return float64(d.count) }
func (d *DroppedTracks) Reset()         { d.count = 0 }

// Default returns one of each metric.
func Default() []transport.Metric {
	return []transport.Metric{
		NewSecondaryYield(),
		NewPeakOccupancy(),
		NewExhaustions(),
		NewDroppedTracks(),
	}
}
