package transport

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mctrans/internal/physics"
	"github.com/san-kum/mctrans/internal/quantity"
)

// Policy decides what happens when the secondary bank overflows.
type Policy int

const (
	// PolicyGrow discards the step, enlarges the bank to hold the whole
	// demand and runs the step again.
	PolicyGrow Policy = iota
	// PolicyDrop keeps the step; tracks whose secondaries did not fit are
	// killed and counted as dropped.
	PolicyDrop
)

func (p Policy) String() string {
	switch p {
	case PolicyGrow:
		return "grow"
	case PolicyDrop:
		return "drop"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "grow", "":
		return PolicyGrow, nil
	case "drop":
		return PolicyDrop, nil
	default:
		return PolicyGrow, fmt.Errorf("%w: unknown exhaustion policy %q", ErrInvalidConfig, s)
	}
}

type Config struct {
	MaxSteps    int
	Capacity    int
	MaxCapacity int
	Policy      Policy
	// Cutoff is the kinetic energy below which tracks stop.
	Cutoff quantity.MevEnergy
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:    100,
		Capacity:    1024,
		MaxCapacity: 1 << 22,
		Policy:      PolicyGrow,
		Cutoff:      quantity.New[quantity.Mev](1e-2),
	}
}

func (c Config) Validate() error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("%w: negative bank capacity %d", ErrInvalidConfig, c.Capacity)
	}
	if c.MaxCapacity < c.Capacity {
		return fmt.Errorf("%w: max capacity %d below capacity %d", ErrInvalidConfig, c.MaxCapacity, c.Capacity)
	}
	if c.Policy != PolicyGrow && c.Policy != PolicyDrop {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Policy)
	}
	if c.Cutoff.CompareUnitless(quantity.ZeroQuantity()) < 0 {
		return fmt.Errorf("%w: negative cutoff %v", ErrInvalidConfig, c.Cutoff)
	}
	return nil
}

// Track is a particle in flight.
type Track struct {
	State     physics.ParticleTrackState
	Direction r3.Vec
}

// TrackFromSecondary turns an emitted secondary into a new track.
func TrackFromSecondary(s physics.Secondary) Track {
	return Track{
		State:     physics.ParticleTrackState{Particle: s.Particle, Energy: s.Energy},
		Direction: s.Direction,
	}
}

// StepStats summarizes one completed step.
type StepStats struct {
	Step          int
	Tracks        int
	Secondaries   int
	Alive         int
	Capacity      int
	Claimed       uint64
	FirstClaimed  uint64 // demand of the first attempt, before any retry
	Exhausted     bool   // set if any attempt overflowed the bank
	Retries       int
	Dropped       int
	Deposited     float64 // MeV
	DroppedEnergy float64 // MeV
}

// Occupancy is the fraction of the bank claimed by successful requests.
func (s StepStats) Occupancy() float64 {
	if s.Capacity == 0 {
		return 0
	}
	claimed := min(s.Claimed, uint64(s.Capacity))
	return float64(claimed) / float64(s.Capacity)
}

type Metric interface {
	Name() string
	Observe(s StepStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s StepStats)
}

type Result struct {
	Steps         []StepStats
	Secondaries   []physics.Secondary
	Metrics       map[string]float64
	StepsTaken    int
	Alive         int
	Dropped       int
	Deposited     quantity.MevEnergy
	DroppedEnergy quantity.MevEnergy
	FinalCapacity int
}

// Primaries returns n identical tracks.
func Primaries(n int, state physics.ParticleTrackState, dir r3.Vec) []Track {
	out := make([]Track, n)
	for i := range out {
		out[i] = Track{State: state, Direction: dir}
	}
	return out
}
