package transport

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mctrans/internal/grid"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/physics"
	"github.com/san-kum/mctrans/internal/quantity"
)

// The models in this file are deterministic stand-ins that produce
// secondaries at realistic rates; they are not physics.

// ModelConfig tunes the stand-in models.
type ModelConfig struct {
	YieldEmin        float64 // MeV
	YieldEmax        float64 // MeV
	YieldPoints      int
	YieldPerDecade   float64
	RadiatedFraction float64
	LossFraction     float64
	OpeningCos       float64
}

func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		YieldEmin:        1e-2,
		YieldEmax:        1e4,
		YieldPoints:      61,
		YieldPerDecade:   1,
		RadiatedFraction: 0.3,
		LossFraction:     0.2,
		OpeningCos:       0.95,
	}
}

// Validate rejects tunings that would give non-unit directions or a
// negative energy after a cascade step.
func (c ModelConfig) Validate() error {
	switch {
	case !(c.OpeningCos >= -1 && c.OpeningCos <= 1):
		return fmt.Errorf("%w: opening cosine %g outside [-1, 1]", ErrInvalidConfig, c.OpeningCos)
	case !(c.RadiatedFraction >= 0 && c.RadiatedFraction <= 1):
		return fmt.Errorf("%w: radiated fraction %g outside [0, 1]", ErrInvalidConfig, c.RadiatedFraction)
	case !(c.LossFraction >= 0 && c.LossFraction <= 1):
		return fmt.Errorf("%w: loss fraction %g outside [0, 1]", ErrInvalidConfig, c.LossFraction)
	case c.RadiatedFraction+c.LossFraction > 1:
		return fmt.Errorf("%w: radiated and loss fractions sum to %g", ErrInvalidConfig, c.RadiatedFraction+c.LossFraction)
	case !(c.YieldEmin > 0):
		return fmt.Errorf("%w: yield table minimum %g must be positive", ErrInvalidConfig, c.YieldEmin)
	case !(c.YieldEmax > c.YieldEmin):
		return fmt.Errorf("%w: yield table maximum %g not above minimum %g", ErrInvalidConfig, c.YieldEmax, c.YieldEmin)
	case c.YieldPoints < 2:
		return fmt.Errorf("%w: yield table needs at least 2 points, got %d", ErrInvalidConfig, c.YieldPoints)
	case !(c.YieldPerDecade >= 0):
		return fmt.Errorf("%w: negative yield per decade %g", ErrInvalidConfig, c.YieldPerDecade)
	}
	return nil
}

// YieldTable tabulates photons per step as YieldPerDecade*log10(E/YieldEmin).
func (c ModelConfig) YieldTable() (*grid.LogInterp, error) {
	n := max(c.YieldPoints, 2)
	values := make([]float64, n)
	for i := range values {
		values[i] = c.YieldPerDecade * float64(i) / float64(n-1) * math.Log10(c.YieldEmax/c.YieldEmin)
	}
	return grid.NewLogInterp(mev(c.YieldEmin), mev(c.YieldEmax), values)
}

func mev(v float64) quantity.MevEnergy { return quantity.New[quantity.Mev](v) }

func emitPair(slots []physics.Secondary, a, b ids.ParticleDefID, each float64, cos float64, dir r3.Vec) {
	slots[0] = physics.Secondary{Particle: a, Energy: mev(each), Direction: physics.Rotate(physics.FromSpherical(cos, 0), dir)}
	slots[1] = physics.Secondary{Particle: b, Energy: mev(each), Direction: physics.Rotate(physics.FromSpherical(cos, math.Pi), dir)}
}

// PairSplit converts a photon above 2 m_e c^2 into an electron-positron
// pair sharing the remaining kinetic energy.
type PairSplit struct {
	photon, electron, positron ids.ParticleDefID
	threshold                  float64
	openingCos                 float64
}

func NewPairSplit(photon, electron, positron ids.ParticleDefID, electronMass quantity.MevMass, cfg ModelConfig) *PairSplit {
	return &PairSplit{
		photon:     photon,
		electron:   electron,
		positron:   positron,
		threshold:  2 * electronMass.Value(),
		openingCos: cfg.OpeningCos,
	}
}

func (m *PairSplit) Label() string { return "pair-split" }

func (m *PairSplit) Applicability() physics.Applicability {
	a := physics.NewApplicability(m.photon)
	a.Lower = mev(m.threshold)
	return a
}

func (m *PairSplit) Interact(track physics.ParticleTrackView, dir r3.Vec, bank physics.SecondaryAllocator) physics.Interaction {
	slots, err := bank.Allocate(2)
	if err != nil {
		return physics.FromBankFailure()
	}
	each := 0.5 * (track.Energy().Value() - m.threshold)
	emitPair(slots, m.electron, m.positron, each, m.openingCos, dir)
	return physics.Interaction{Action: physics.ActionAbsorbed, Secondaries: slots}
}

// Cascade makes a charged particle radiate photons, their number taken
// from a yield table, and lose a fixed fraction of its energy locally.
type Cascade struct {
	particle, photon ids.ParticleDefID
	yield            *grid.LogInterp
	radiated         float64
	loss             float64
	openingCos       float64
}

func NewCascade(particle, photon ids.ParticleDefID, yield *grid.LogInterp, cfg ModelConfig) *Cascade {
	return &Cascade{
		particle:   particle,
		photon:     photon,
		yield:      yield,
		radiated:   cfg.RadiatedFraction,
		loss:       cfg.LossFraction,
		openingCos: cfg.OpeningCos,
	}
}

func (m *Cascade) Label() string { return "cascade" }

func (m *Cascade) Applicability() physics.Applicability {
	return physics.NewApplicability(m.particle)
}

func (m *Cascade) Interact(track physics.ParticleTrackView, dir r3.Vec, bank physics.SecondaryAllocator) physics.Interaction {
	energy := track.Energy().Value()
	n := int(m.yield.Eval(track.Energy()))

	var emitted []physics.Secondary
	radiated := 0.0
	if n > 0 {
		slots, err := bank.Allocate(n)
		if err != nil {
			return physics.FromBankFailure()
		}
		radiated = energy * m.radiated
		for k := range slots {
			phi := 2 * math.Pi * float64(k) / float64(n)
			slots[k] = physics.Secondary{
				Particle:  m.photon,
				Energy:    mev(radiated / float64(n)),
				Direction: physics.Rotate(physics.FromSpherical(m.openingCos, phi), dir),
			}
		}
		emitted = slots
	}

	loss := energy * m.loss
	return physics.Interaction{
		Action:           physics.ActionScattered,
		Energy:           mev(max(energy-radiated-loss, 0)),
		Direction:        dir,
		Secondaries:      emitted,
		EnergyDeposition: mev(loss),
	}
}

// Annihilation turns a stopped positron into two back-to-back photons.
type Annihilation struct {
	positron, photon ids.ParticleDefID
	restEnergy       float64
}

func NewAnnihilation(positron, photon ids.ParticleDefID, electronMass quantity.MevMass) *Annihilation {
	return &Annihilation{positron: positron, photon: photon, restEnergy: electronMass.Value()}
}

func (m *Annihilation) Label() string { return "annihilation" }

func (m *Annihilation) Applicability() physics.Applicability {
	return physics.AtRest(m.positron)
}

func (m *Annihilation) Interact(track physics.ParticleTrackView, dir r3.Vec, bank physics.SecondaryAllocator) physics.Interaction {
	slots, err := bank.Allocate(2)
	if err != nil {
		return physics.FromBankFailure()
	}
	emitPair(slots, m.photon, m.photon, m.restEnergy, 1, dir)
	slots[1].Direction = r3.Scale(-1, slots[0].Direction)
	return physics.Interaction{Action: physics.ActionAbsorbed, Secondaries: slots}
}
