package physics

import (
	"math"

	"github.com/san-kum/mctrans/internal/assert"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/particles"
	"github.com/san-kum/mctrans/internal/quantity"
)

// ParticleTrackState is the mutable per-track particle data.
type ParticleTrackState struct {
	Particle ids.ParticleDefID
	Energy   quantity.MevEnergy
}

// ParticleTrackView combines a track's state with the static definition of
// its species.
type ParticleTrackView struct {
	params particles.View
	state  *ParticleTrackState
}

func NewParticleTrackView(params particles.View, state *ParticleTrackState) ParticleTrackView {
	assert.Expect(state != nil, "nil track state")
	return ParticleTrackView{params: params, state: state}
}

// Initialize overwrites the state.
func (v ParticleTrackView) Initialize(init ParticleTrackState) {
	assert.Expect(init.Particle.Get() < v.params.Size(), "particle id out of range")
	assert.Expect(init.Energy.CompareUnitless(quantity.ZeroQuantity()) >= 0, "negative kinetic energy")
	*v.state = init
}

func (v ParticleTrackView) ParticleID() ids.ParticleDefID { return v.state.Particle }

// Energy is the kinetic energy.
func (v ParticleTrackView) Energy() quantity.MevEnergy { return v.state.Energy }

// SetEnergy changes the kinetic energy of a live particle.
func (v ParticleTrackView) SetEnergy(e quantity.MevEnergy) {
	assert.Expect(v.state.Particle.Valid(), "energy change on an unset particle")
	assert.Expect(e.CompareUnitless(quantity.ZeroQuantity()) >= 0, "negative kinetic energy")
	v.state.Energy = e
}

func (v ParticleTrackView) IsStopped() bool {
	return v.state.Energy.CompareUnitless(quantity.ZeroQuantity()) == 0
}

func (v ParticleTrackView) def() particles.Def {
	return v.params.Get(v.state.Particle)
}

func (v ParticleTrackView) Mass() quantity.MevMass            { return v.def().Mass }
func (v ParticleTrackView) Charge() quantity.ElementaryCharge { return v.def().Charge }
func (v ParticleTrackView) DecayConstant() float64            { return v.def().DecayConstant }

// Speed is sqrt(1 - 1/gamma^2) in units of c, written so that massless
// particles move at c.
func (v ParticleTrackView) Speed() quantity.LightSpeed {
	mcsq := v.Mass().Value()
	invGamma := mcsq / (v.Energy().Value() + mcsq)
	return quantity.New[quantity.CLight](math.Sqrt(1 - invGamma*invGamma))
}

// LorentzFactor is 1 + K/(mc^2). The particle must be massive.
func (v ParticleTrackView) LorentzFactor() float64 {
	assert.Expect(v.Mass().Value() > 0, "lorentz factor of a massless particle")
	return 1 + v.Energy().Value()/v.Mass().Value()
}

// MomentumSq is K^2 + 2 mc^2 K, in MeV^2/c^2.
func (v ParticleTrackView) MomentumSq() quantity.MevMomentumSq {
	k := v.Energy().Value()
	result := k*k + 2*v.Mass().Value()*k
	assert.Ensure(result >= 0, "negative momentum squared")
	return quantity.New[quantity.UnitDivide[quantity.UnitProduct[quantity.Mev, quantity.Mev], quantity.CLightSq]](result)
}

func (v ParticleTrackView) Momentum() quantity.MevMomentum {
	return quantity.New[quantity.UnitDivide[quantity.Mev, quantity.CLight]](math.Sqrt(v.MomentumSq().Value()))
}
