package physics

import (
	"fmt"

	"github.com/san-kum/mctrans/internal/assert"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/quantity"
)

// Applicability is the range where a model is valid. The energy interval
// is open at Lower and closed at Upper, so a threshold reaction sets Lower
// to its threshold. An unset Material applies to every material; Particle
// must always be set.
type Applicability struct {
	Material ids.MaterialDefID
	Particle ids.ParticleDefID
	Lower    quantity.MevEnergy
	Upper    quantity.MevEnergy
}

// NewApplicability covers every positive energy of a particle.
func NewApplicability(particle ids.ParticleDefID) Applicability {
	assert.Expect(particle.Valid(), "applicability needs a particle")
	return Applicability{
		Particle: particle,
		Lower:    quantity.From[quantity.Mev](quantity.ZeroQuantity()),
		Upper:    quantity.From[quantity.Mev](quantity.MaxQuantity()),
	}
}

// AtRest covers a stopped particle: the interval (-inf, 0].
func AtRest(particle ids.ParticleDefID) Applicability {
	assert.Expect(particle.Valid(), "at-rest applicability needs a particle")
	return Applicability{
		Particle: particle,
		Lower:    quantity.From[quantity.Mev](quantity.NegMaxQuantity()),
		Upper:    quantity.From[quantity.Mev](quantity.ZeroQuantity()),
	}
}

// Contains reports whether a particle of the given energy in the given
// material falls inside the range.
func (a Applicability) Contains(material ids.MaterialDefID, particle ids.ParticleDefID, energy quantity.MevEnergy) bool {
	if particle != a.Particle {
		return false
	}
	if a.Material.Valid() && material != a.Material {
		return false
	}
	return energy.Gt(a.Lower) && energy.Le(a.Upper)
}

func (a Applicability) String() string {
	return fmt.Sprintf("{material=%v particle=%v energy=(%v, %v] MeV}", a.Material, a.Particle, a.Lower, a.Upper)
}

// CompareApplicability orders lexicographically by material, particle,
// lower and upper energy.
func CompareApplicability(a, b Applicability) int {
	if c := ids.Compare(a.Material, b.Material); c != 0 {
		return c
	}
	if c := ids.Compare(a.Particle, b.Particle); c != 0 {
		return c
	}
	if c := quantity.Compare(a.Lower, b.Lower); c != 0 {
		return c
	}
	return quantity.Compare(a.Upper, b.Upper)
}

func (a Applicability) Equal(b Applicability) bool { return CompareApplicability(a, b) == 0 }
func (a Applicability) Less(b Applicability) bool  { return CompareApplicability(a, b) < 0 }
