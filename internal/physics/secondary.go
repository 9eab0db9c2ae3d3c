package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mctrans/internal/alloc"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/quantity"
)

// Secondary is a particle emitted by an interaction. It is pointer-free so
// that the secondary bank can live in device memory.
type Secondary struct {
	Particle  ids.ParticleDefID
	Energy    quantity.MevEnergy
	Direction r3.Vec
}

// SecondaryAllocator hands out secondary slots from the per-step bank.
type SecondaryAllocator = alloc.View[Secondary]

type Action int

const (
	// ActionScattered leaves the primary alive with the new energy and direction.
	ActionScattered Action = iota
	// ActionAbsorbed kills the primary.
	ActionAbsorbed
	// ActionFailed means the secondary bank could not hold the result.
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionScattered:
		return "scattered"
	case ActionAbsorbed:
		return "absorbed"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Interaction is the outcome of one model call for one track.
type Interaction struct {
	Action           Action
	Energy           quantity.MevEnergy
	Direction        r3.Vec
	Secondaries      []Secondary
	EnergyDeposition quantity.MevEnergy
}

// FromBankFailure is the interaction reported when allocation fails.
func FromBankFailure() Interaction {
	return Interaction{Action: ActionFailed}
}

func (i Interaction) Alive() bool { return i.Action == ActionScattered }
