package quantity

import (
	"gonum.org/v1/gonum/unit"
	"gonum.org/v1/gonum/unit/constant"
)

// Mev is one mega-electronvolt, in joules.
type Mev struct{}

func (Mev) Value() float64 { return 1e6 * float64(constant.ElementaryCharge) }

// EChargeUnit is the elementary charge, in coulombs.
type EChargeUnit struct{}

func (EChargeUnit) Value() float64 { return float64(constant.ElementaryCharge) }

// CLight is the speed of light, in metres per second.
type CLight struct{}

func (CLight) Value() float64 { return float64(constant.LightSpeedInVacuum) }

type UnitProduct[A, B Unit] struct{}

func (UnitProduct[A, B]) Value() float64 {
	var a A
	var b B
	return a.Value() * b.Value()
}

type UnitDivide[A, B Unit] struct{}

func (UnitDivide[A, B]) Value() float64 {
	var a A
	var b B
	return a.Value() / b.Value()
}

type CLightSq = UnitProduct[CLight, CLight]

type (
	MevEnergy        = Quantity[Mev]
	MevMass          = Quantity[UnitDivide[Mev, CLightSq]]
	MevMomentum      = Quantity[UnitDivide[Mev, CLight]]
	MevMomentumSq    = Quantity[UnitDivide[UnitProduct[Mev, Mev], CLightSq]]
	ElementaryCharge = Quantity[EChargeUnit]
	LightSpeed       = Quantity[CLight]
)

// Energy converts to a gonum SI energy.
func Energy(q MevEnergy) unit.Energy { return unit.Energy(UnitCast(q)) }

func Mass(q MevMass) unit.Mass { return unit.Mass(UnitCast(q)) }

func Charge(q ElementaryCharge) unit.Charge { return unit.Charge(UnitCast(q)) }

func Velocity(q LightSpeed) unit.Velocity { return unit.Velocity(UnitCast(q)) }

// MevEnergyOf converts an SI energy back into MeV.
func MevEnergyOf(e unit.Energy) MevEnergy {
	return New[Mev](float64(e) / Mev{}.Value())
}
